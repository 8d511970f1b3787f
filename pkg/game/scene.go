package game

import (
	"github.com/hajimehoshi/ebiten/v2"
)

// Scene represents a game scene (boot loading, main menu, formation editor, battle preview).
// Each scene has its own update and rendering logic.
type Scene interface {
	// Update updates the scene logic based on the elapsed time.
	// deltaTime is the time elapsed since the last update in seconds.
	// A non-nil error is fatal and ends the game loop.
	Update(deltaTime float64) error

	// Draw renders the scene to the provided screen.
	Draw(screen *ebiten.Image)
}

// Enterable 是一个可选接口，场景重新成为栈顶时被调用
//
// 例如编队界面关闭后，下层场景需要重新读取编队状态。
type Enterable interface {
	OnEnter()
}
