// Package utils 提供通用工具函数
package utils

import (
	"github.com/hajimehoshi/ebiten/v2"
	"github.com/hajimehoshi/ebiten/v2/inpututil"
)

// MenuAction 菜单输入动作
type MenuAction int

const (
	ActionNone MenuAction = iota
	ActionUp
	ActionDown
	ActionLeft
	ActionRight
	ActionOK
	ActionCancel
	ActionShift
)

// String 返回动作名称（日志用）
func (a MenuAction) String() string {
	switch a {
	case ActionUp:
		return "up"
	case ActionDown:
		return "down"
	case ActionLeft:
		return "left"
	case ActionRight:
		return "right"
	case ActionOK:
		return "ok"
	case ActionCancel:
		return "cancel"
	case ActionShift:
		return "shift"
	default:
		return "none"
	}
}

const (
	// KeyRepeatWait 按住方向键后开始重复的帧数
	KeyRepeatWait = 24
	// KeyRepeatInterval 重复触发的间隔帧数
	KeyRepeatInterval = 6
)

var actionKeys = []struct {
	action MenuAction
	keys   []ebiten.Key
	repeat bool
}{
	{ActionUp, []ebiten.Key{ebiten.KeyArrowUp, ebiten.KeyW}, true},
	{ActionDown, []ebiten.Key{ebiten.KeyArrowDown, ebiten.KeyS}, true},
	{ActionLeft, []ebiten.Key{ebiten.KeyArrowLeft, ebiten.KeyA}, true},
	{ActionRight, []ebiten.Key{ebiten.KeyArrowRight, ebiten.KeyD}, true},
	{ActionOK, []ebiten.Key{ebiten.KeyEnter, ebiten.KeySpace, ebiten.KeyZ}, false},
	{ActionCancel, []ebiten.Key{ebiten.KeyEscape, ebiten.KeyX, ebiten.KeyBackspace}, false},
	{ActionShift, []ebiten.Key{ebiten.KeyShiftLeft, ebiten.KeyShiftRight}, false},
}

// PollMenuAction 读取本帧的菜单动作（每帧最多一个）
// 方向键按住时按 KeyRepeatWait/KeyRepeatInterval 重复触发
func PollMenuAction() MenuAction {
	for _, entry := range actionKeys {
		for _, key := range entry.keys {
			d := inpututil.KeyPressDuration(key)
			if d == 0 {
				continue
			}
			if d == 1 || (entry.repeat && IsRepeatFrame(d)) {
				return entry.action
			}
		}
	}
	if inpututil.IsMouseButtonJustPressed(ebiten.MouseButtonRight) {
		return ActionCancel
	}
	return ActionNone
}

// IsRepeatFrame 按住 duration 帧时是否应重复触发
func IsRepeatFrame(duration int) bool {
	if duration < KeyRepeatWait {
		return false
	}
	return (duration-KeyRepeatWait)%KeyRepeatInterval == 0
}

// IsJustTouchedOrClicked 检查是否刚刚发生点击或触摸
// 返回是否点击以及点击位置
func IsJustTouchedOrClicked() (bool, int, int) {
	touchIDs := inpututil.AppendJustPressedTouchIDs(nil)
	if len(touchIDs) > 0 {
		x, y := ebiten.TouchPosition(touchIDs[0])
		return true, x, y
	}

	if inpututil.IsMouseButtonJustPressed(ebiten.MouseButtonLeft) {
		x, y := ebiten.CursorPosition()
		return true, x, y
	}

	return false, 0, 0
}

// IsKeyJustPressed 检查任一按键是否刚刚按下
func IsKeyJustPressed(keys ...ebiten.Key) bool {
	for _, k := range keys {
		if inpututil.IsKeyJustPressed(k) {
			return true
		}
	}
	return false
}
