package components

import (
	"image/color"

	"github.com/hajimehoshi/ebiten/v2"
)

// SpriteComponent 存储实体的视觉表现
// Image 为空时渲染系统绘制一个带标签的色块作为占位
type SpriteComponent struct {
	Image *ebiten.Image
	Label string
	Color color.RGBA

	// DisplayX/DisplayY 是最终屏幕坐标 = 逻辑坐标 + 场景偏移
	DisplayX float64
	DisplayY float64

	// Highlighted 在编队界面中标记待交换的角色
	Highlighted bool
}
