package systems

import (
	"image/color"

	"github.com/decker502/rpgformation/pkg/components"
	"github.com/decker502/rpgformation/pkg/ecs"
	"github.com/hajimehoshi/ebiten/v2"
	"github.com/hajimehoshi/ebiten/v2/ebitenutil"
	"github.com/hajimehoshi/ebiten/v2/vector"
)

const (
	// PlaceholderSize 无图像时占位色块的边长
	PlaceholderSize = 40
)

var highlightColor = color.RGBA{R: 255, G: 220, B: 64, A: 255}

// SpriteRenderSystem 按 SpriteComponent 的显示坐标绘制编队中的角色
//
// 显示坐标由 FormationController 每帧写入（逻辑坐标 + 场景偏移），
// 本系统只负责绘制，不修改任何组件。
type SpriteRenderSystem struct {
	entityManager *ecs.EntityManager
}

// NewSpriteRenderSystem 创建渲染系统
func NewSpriteRenderSystem(em *ecs.EntityManager) *SpriteRenderSystem {
	return &SpriteRenderSystem{entityManager: em}
}

// Draw 绘制所有带 SpriteComponent 的实体（按实体 ID 顺序）
func (s *SpriteRenderSystem) Draw(screen *ebiten.Image) {
	for _, id := range ecs.GetEntitiesWith1[*components.SpriteComponent](s.entityManager) {
		sprite, _ := ecs.GetComponent[*components.SpriteComponent](s.entityManager, id)
		s.drawSprite(screen, sprite)
	}
}

func (s *SpriteRenderSystem) drawSprite(screen *ebiten.Image, sprite *components.SpriteComponent) {
	// 锚点位于脚底中心
	x := sprite.DisplayX - PlaceholderSize/2
	y := sprite.DisplayY - PlaceholderSize

	if sprite.Image != nil {
		b := sprite.Image.Bounds()
		op := &ebiten.DrawImageOptions{}
		op.GeoM.Translate(sprite.DisplayX-float64(b.Dx())/2, sprite.DisplayY-float64(b.Dy()))
		screen.DrawImage(sprite.Image, op)
	} else {
		vector.DrawFilledRect(screen, float32(x), float32(y), PlaceholderSize, PlaceholderSize, sprite.Color, false)
	}

	if sprite.Highlighted {
		vector.StrokeRect(screen, float32(x)-2, float32(y)-2, PlaceholderSize+4, PlaceholderSize+4, 2, highlightColor, false)
	}
	if sprite.Label != "" {
		ebitenutil.DebugPrintAt(screen, sprite.Label, int(x), int(sprite.DisplayY)+2)
	}
}
