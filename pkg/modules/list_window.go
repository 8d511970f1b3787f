package modules

import (
	"image/color"

	"github.com/decker502/rpgformation/pkg/config"
	"github.com/decker502/rpgformation/pkg/utils"
	"github.com/hajimehoshi/ebiten/v2"
	"github.com/hajimehoshi/ebiten/v2/ebitenutil"
	"github.com/hajimehoshi/ebiten/v2/vector"
)

const (
	listPadding    = 8
	listItemHeight = 24
	listTitleSpace = 20
)

var (
	windowBackColor   = color.RGBA{R: 16, G: 24, B: 48, A: 220}
	windowBorderColor = color.RGBA{R: 200, G: 200, B: 220, A: 255}
	cursorColor       = color.RGBA{R: 255, G: 255, B: 255, A: 64}
	disabledMaskColor = color.RGBA{R: 16, G: 24, B: 48, A: 160}
)

// ListWindowOptions 列表窗口的外观与内容配置
type ListWindowOptions[T any] struct {
	Title string
	Rect  config.WindowRect
	// Render 返回条目显示文字
	Render func(item T) string
	// Enabled 为 nil 时所有条目可选
	Enabled func(item T) bool
}

// ListWindow 可选择列表窗口
//
// 编队界面的三个面板（已装备、已拥有、站位详情）都是同一个 ListWindow，
// 只是条目类型、渲染函数和输入回调不同。
// 同一时间只有一个窗口处于激活状态，只有激活的窗口响应输入。
type ListWindow[T any] struct {
	opts  ListWindowOptions[T]
	items []T

	cursor  int
	active  bool
	visible bool

	onOK     func(index int, item T) error
	onCancel func() error
	onShift  func() error
}

// NewListWindow 创建列表窗口（默认可见、未激活）
func NewListWindow[T any](opts ListWindowOptions[T]) *ListWindow[T] {
	if opts.Rect.Cols <= 0 {
		opts.Rect.Cols = 1
	}
	return &ListWindow[T]{opts: opts, visible: true}
}

// SetHandlers 设置确认/取消/切换回调，nil 表示忽略该输入
func (w *ListWindow[T]) SetHandlers(onOK func(index int, item T) error, onCancel, onShift func() error) {
	w.onOK = onOK
	w.onCancel = onCancel
	w.onShift = onShift
}

// SetItems 替换条目，光标保持在范围内
func (w *ListWindow[T]) SetItems(items []T) {
	w.items = items
	w.clampCursor()
}

// Items 返回当前条目
func (w *ListWindow[T]) Items() []T {
	return w.items
}

// Cursor 返回光标位置（列表为空时为 -1）
func (w *ListWindow[T]) Cursor() int {
	if len(w.items) == 0 {
		return -1
	}
	return w.cursor
}

// Select 移动光标到指定条目
func (w *ListWindow[T]) Select(index int) {
	w.cursor = index
	w.clampCursor()
}

// Activate 激活窗口（开始响应输入）
func (w *ListWindow[T]) Activate() {
	w.active = true
	w.visible = true
}

// Deactivate 停止响应输入，窗口仍然可见
func (w *ListWindow[T]) Deactivate() {
	w.active = false
}

// IsActive 返回窗口是否激活
func (w *ListWindow[T]) IsActive() bool {
	return w.active
}

// SetVisible 设置可见性，隐藏的窗口同时失去激活
func (w *ListWindow[T]) SetVisible(visible bool) {
	w.visible = visible
	if !visible {
		w.active = false
	}
}

// IsVisible 返回窗口是否可见
func (w *ListWindow[T]) IsVisible() bool {
	return w.visible
}

// Process 处理一个菜单动作
// 返回值：
//   - bool: 动作是否被本窗口处理
//   - error: 回调返回的错误
func (w *ListWindow[T]) Process(action utils.MenuAction) (bool, error) {
	if !w.active {
		return false, nil
	}
	cols := w.opts.Rect.Cols

	switch action {
	case utils.ActionUp:
		return w.moveCursor(-cols), nil
	case utils.ActionDown:
		return w.moveCursor(cols), nil
	case utils.ActionLeft:
		if cols == 1 {
			return false, nil
		}
		return w.moveCursor(-1), nil
	case utils.ActionRight:
		if cols == 1 {
			return false, nil
		}
		return w.moveCursor(1), nil
	case utils.ActionOK:
		return w.confirm(w.cursor)
	case utils.ActionCancel:
		if w.onCancel == nil {
			return false, nil
		}
		return true, w.onCancel()
	case utils.ActionShift:
		if w.onShift == nil {
			return false, nil
		}
		return true, w.onShift()
	}
	return false, nil
}

// ProcessClick 处理点击：点中条目时移动光标并确认
func (w *ListWindow[T]) ProcessClick(x, y int) (bool, error) {
	if !w.active {
		return false, nil
	}
	index := w.HitTest(x, y)
	if index < 0 {
		return false, nil
	}
	w.cursor = index
	return w.confirm(index)
}

func (w *ListWindow[T]) confirm(index int) (bool, error) {
	if w.onOK == nil || index < 0 || index >= len(w.items) {
		return false, nil
	}
	item := w.items[index]
	if !w.isEnabled(item) {
		return true, nil
	}
	return true, w.onOK(index, item)
}

func (w *ListWindow[T]) moveCursor(delta int) bool {
	n := len(w.items)
	if n == 0 {
		return false
	}
	next := w.cursor + delta
	if w.opts.Rect.Cols == 1 {
		// 单列列表上下循环
		next = (next%n + n) % n
	} else if next < 0 || next >= n {
		return false
	}
	if next == w.cursor {
		return false
	}
	w.cursor = next
	return true
}

func (w *ListWindow[T]) clampCursor() {
	if w.cursor >= len(w.items) {
		w.cursor = len(w.items) - 1
	}
	if w.cursor < 0 {
		w.cursor = 0
	}
}

func (w *ListWindow[T]) isEnabled(item T) bool {
	return w.opts.Enabled == nil || w.opts.Enabled(item)
}

// itemRect 返回第 index 个条目的矩形（屏幕坐标）
func (w *ListWindow[T]) itemRect(index int) (x, y, width, height int) {
	r := w.opts.Rect
	cols := r.Cols
	width = (r.Width - listPadding*2) / cols
	height = listItemHeight
	x = r.X + listPadding + (index%cols)*width
	y = r.Y + listPadding + (index/cols)*height
	if w.opts.Title != "" {
		y += listTitleSpace
	}
	return x, y, width, height
}

// HitTest 返回坐标所在的条目，未命中返回 -1
func (w *ListWindow[T]) HitTest(px, py int) int {
	if !w.visible {
		return -1
	}
	for i := range w.items {
		x, y, width, height := w.itemRect(i)
		if px >= x && px < x+width && py >= y && py < y+height {
			return i
		}
	}
	return -1
}

// Draw 绘制窗口背景、标题、条目和光标
func (w *ListWindow[T]) Draw(screen *ebiten.Image) {
	if !w.visible {
		return
	}
	r := w.opts.Rect
	vector.DrawFilledRect(screen, float32(r.X), float32(r.Y), float32(r.Width), float32(r.Height), windowBackColor, false)
	vector.StrokeRect(screen, float32(r.X), float32(r.Y), float32(r.Width), float32(r.Height), 1, windowBorderColor, false)

	if w.opts.Title != "" {
		ebitenutil.DebugPrintAt(screen, w.opts.Title, r.X+listPadding, r.Y+listPadding)
	}

	for i, item := range w.items {
		x, y, width, height := w.itemRect(i)
		if y+height > r.Y+r.Height {
			break
		}
		label := ""
		if w.opts.Render != nil {
			label = w.opts.Render(item)
		}
		ebitenutil.DebugPrintAt(screen, label, x+4, y+4)
		if !w.isEnabled(item) {
			vector.DrawFilledRect(screen, float32(x), float32(y), float32(width), float32(height), disabledMaskColor, false)
		}
		if w.active && i == w.cursor {
			vector.DrawFilledRect(screen, float32(x), float32(y), float32(width), float32(height), cursorColor, false)
		}
	}
}
