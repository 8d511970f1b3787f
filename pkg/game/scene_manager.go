package game

import (
	"github.com/decker502/rpgformation/internal/logger"
	"github.com/hajimehoshi/ebiten/v2"
)

// SceneManager manages the game's high-level state by controlling which scene is active.
//
// Scenes form a stack: Push opens a scene on top (e.g. the formation editor over the
// main menu), Pop returns to the scene below. Only the top scene is updated and drawn.
type SceneManager struct {
	stack []Scene
}

// NewSceneManager creates and returns a new SceneManager instance.
// The manager starts with no active scene; use SwitchTo to set the initial scene.
func NewSceneManager() *SceneManager {
	return &SceneManager{}
}

// SwitchTo replaces the whole stack with the provided scene.
func (sm *SceneManager) SwitchTo(scene Scene) {
	sm.stack = sm.stack[:0]
	sm.stack = append(sm.stack, scene)
	enter(scene)
}

// Push 在当前场景之上打开新场景
func (sm *SceneManager) Push(scene Scene) {
	sm.stack = append(sm.stack, scene)
	enter(scene)
}

// Pop 关闭栈顶场景，返回是否有场景被关闭
// 只剩一个场景时不关闭
func (sm *SceneManager) Pop() bool {
	if len(sm.stack) <= 1 {
		logger.Sugar.Warnf("[SceneManager] pop ignored: no scene below")
		return false
	}
	sm.stack[len(sm.stack)-1] = nil
	sm.stack = sm.stack[:len(sm.stack)-1]
	enter(sm.GetCurrentScene())
	return true
}

// Depth 场景栈深度
func (sm *SceneManager) Depth() int {
	return len(sm.stack)
}

// GetCurrentScene 返回当前活动的场景，没有活动场景则返回 nil
func (sm *SceneManager) GetCurrentScene() Scene {
	if len(sm.stack) == 0 {
		return nil
	}
	return sm.stack[len(sm.stack)-1]
}

// Update updates the currently active scene.
// If no scene is active, this method does nothing.
func (sm *SceneManager) Update(deltaTime float64) error {
	if scene := sm.GetCurrentScene(); scene != nil {
		return scene.Update(deltaTime)
	}
	return nil
}

// Draw renders the currently active scene to the provided screen.
func (sm *SceneManager) Draw(screen *ebiten.Image) {
	if scene := sm.GetCurrentScene(); scene != nil {
		scene.Draw(screen)
	}
}

func enter(scene Scene) {
	if e, ok := scene.(Enterable); ok {
		e.OnEnter()
	}
}
