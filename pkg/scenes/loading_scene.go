package scenes

import (
	"context"
	"fmt"
	"image/color"

	"github.com/decker502/rpgformation/internal/logger"
	"github.com/decker502/rpgformation/pkg/game"
	"github.com/hajimehoshi/ebiten/v2"
	"github.com/hajimehoshi/ebiten/v2/ebitenutil"
	"github.com/hajimehoshi/ebiten/v2/vector"
)

var (
	progressBackColor = color.RGBA{R: 48, G: 48, B: 64, A: 255}
	progressFillColor = color.RGBA{R: 96, G: 192, B: 96, A: 255}
)

// LoadingScene 启动时等待所有地图编队加载完成
//
// 每帧轮询一次注册表；任何一个地图加载失败都是致命错误，
// Update 返回该错误，游戏循环随之结束。全部完成后调用 onReady。
type LoadingScene struct {
	registry *game.FormationRegistry
	onReady  func() error

	started     bool
	ready       bool
	elapsedTime float64
}

// NewLoadingScene 创建加载场景
//
// 参数：
//   - registry: 编队注册表
//   - onReady: 全部地图就绪后调用一次（通常切换到主菜单）
func NewLoadingScene(registry *game.FormationRegistry, onReady func() error) *LoadingScene {
	return &LoadingScene{registry: registry, onReady: onReady}
}

// Update 发起地图请求并轮询进度
func (s *LoadingScene) Update(deltaTime float64) error {
	if s.ready {
		return nil
	}
	if !s.started {
		s.registry.StartLoading(context.Background())
		s.started = true
	}
	s.elapsedTime += deltaTime

	done, err := s.registry.Poll()
	if err != nil {
		return fmt.Errorf("failed to load formation maps: %w", err)
	}
	if !done {
		return nil
	}

	s.ready = true
	logger.Sugar.Infof("[LoadingScene] formation data ready after %.2fs", s.elapsedTime)
	if s.onReady != nil {
		return s.onReady()
	}
	return nil
}

// Progress 返回加载进度（0.0 - 1.0），没有地图编队时为 1
func (s *LoadingScene) Progress() float64 {
	total := s.registry.MapLoads()
	if total == 0 {
		return 1
	}
	return float64(total-s.registry.PendingLoads()) / float64(total)
}

// Draw 绘制进度条
func (s *LoadingScene) Draw(screen *ebiten.Image) {
	w, h := screen.Bounds().Dx(), screen.Bounds().Dy()
	barW, barH := float32(w)/2, float32(12)
	x, y := (float32(w)-barW)/2, float32(h)/2

	vector.DrawFilledRect(screen, x, y, barW, barH, progressBackColor, false)
	vector.DrawFilledRect(screen, x, y, barW*float32(s.Progress()), barH, progressFillColor, false)
	ebitenutil.DebugPrintAt(screen, "Loading formations...", int(x), int(y)-20)
}
