package config

// 布局配置常量
// 逻辑屏幕尺寸和编队界面默认窗口布局（像素）

const (
	// GameWindowWidth 逻辑屏幕宽度
	GameWindowWidth = 816

	// GameWindowHeight 逻辑屏幕高度
	GameWindowHeight = 624

	// helpWindowHeight 帮助栏高度（两行文字）
	helpWindowHeight = 72

	// listWindowWidth 左侧已装备/已拥有窗口宽度
	listWindowWidth = 272

	// equippedWindowHeight 已装备窗口高度（一个装备槽加标题）
	equippedWindowHeight = 72
)

// DefaultWindows 返回编队界面的默认窗口布局
//
// 左列自上而下为已装备、已拥有，右侧为站位详情，底部为帮助栏。
func DefaultWindows() WindowsConfig {
	bodyHeight := GameWindowHeight - helpWindowHeight
	return WindowsConfig{
		Equipped: WindowRect{X: 0, Y: 0, Width: listWindowWidth, Height: equippedWindowHeight, Cols: 1},
		Owned:    WindowRect{X: 0, Y: equippedWindowHeight, Width: listWindowWidth, Height: bodyHeight - equippedWindowHeight, Cols: 1},
		Detail:   WindowRect{X: listWindowWidth, Y: 0, Width: GameWindowWidth - listWindowWidth, Height: bodyHeight, Cols: 1},
		Help:     WindowRect{X: 0, Y: bodyHeight, Width: GameWindowWidth, Height: helpWindowHeight, Cols: 1},
	}
}
