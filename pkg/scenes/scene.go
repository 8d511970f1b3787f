package scenes

import (
	"github.com/decker502/rpgformation/pkg/game"
)

// Scene is a type alias for game.Scene so scene constructors can be used
// directly with game.SceneManager.
type Scene = game.Scene

// frameDelta 单帧时长（秒），ebiten 默认 60 TPS
const frameDelta = 1.0 / 60.0
