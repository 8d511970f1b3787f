package scenes

import (
	"fmt"

	"github.com/decker502/rpgformation/internal/logger"
	"github.com/decker502/rpgformation/pkg/config"
	"github.com/decker502/rpgformation/pkg/game"
	"github.com/decker502/rpgformation/pkg/modules"
	"github.com/decker502/rpgformation/pkg/utils"
	"github.com/hajimehoshi/ebiten/v2"
	"github.com/hajimehoshi/ebiten/v2/ebitenutil"
)

// 主菜单基础命令
const (
	MenuSymbolBattle = "battle"
	MenuSymbolSave   = "save"
	MenuSymbolLoad   = "load"
)

// MainMenuActions 主菜单命令的处理函数，nil 表示该命令不可用
type MainMenuActions struct {
	OpenFormation func() error
	StartBattle   func() error
	Save          func() error
	Load          func() error
}

// MainMenuScene 主菜单
//
// 基础命令为 战斗/保存/读取，编队命令按插件配置插入到指定位置。
type MainMenuScene struct {
	session *game.Session
	actions MainMenuActions
	window  *modules.ListWindow[game.MenuCommand]
	message string
}

// NewMainMenuScene 创建主菜单场景
func NewMainMenuScene(session *game.Session, actions MainMenuActions) *MainMenuScene {
	s := &MainMenuScene{session: session, actions: actions}
	s.window = modules.NewListWindow(modules.ListWindowOptions[game.MenuCommand]{
		Title:   "Menu",
		Rect:    config.WindowRect{X: 24, Y: 24, Width: 240, Height: 160, Cols: 1},
		Render:  func(c game.MenuCommand) string { return c.Name },
		Enabled: func(c game.MenuCommand) bool { return c.Enabled },
	})
	s.window.SetHandlers(s.onCommand, nil, nil)
	s.refresh()
	s.window.Activate()
	return s
}

// OnEnter 返回主菜单时刷新命令（队伍可能已变化）
func (s *MainMenuScene) OnEnter() {
	s.refresh()
	s.window.Activate()
}

func (s *MainMenuScene) refresh() {
	base := []game.MenuCommand{
		{Name: "Battle", Symbol: MenuSymbolBattle, Enabled: s.actions.StartBattle != nil},
		{Name: "Save", Symbol: MenuSymbolSave, Enabled: s.actions.Save != nil},
		{Name: "Load", Symbol: MenuSymbolLoad, Enabled: s.actions.Load != nil},
	}
	enabled := s.actions.OpenFormation != nil && s.session.Party.BattleMemberCount() > 0
	s.window.SetItems(game.BuildMenuCommands(base, s.session.Plugin.MenuCommand, enabled))
}

// Commands 返回当前命令列表
func (s *MainMenuScene) Commands() []game.MenuCommand {
	return s.window.Items()
}

// Select 移动光标到指定符号的命令，返回是否找到
func (s *MainMenuScene) Select(symbol string) bool {
	for i, c := range s.window.Items() {
		if c.Symbol == symbol {
			s.window.Select(i)
			return true
		}
	}
	return false
}

// Process 处理一个菜单动作
func (s *MainMenuScene) Process(action utils.MenuAction) error {
	_, err := s.window.Process(action)
	return err
}

func (s *MainMenuScene) onCommand(_ int, c game.MenuCommand) error {
	logger.Sugar.Debugf("[MainMenu] command %s", c.Symbol)
	var fn func() error
	switch c.Symbol {
	case game.MenuSymbolFormation:
		fn = s.actions.OpenFormation
	case MenuSymbolBattle:
		fn = s.actions.StartBattle
	case MenuSymbolSave:
		fn = s.actions.Save
	case MenuSymbolLoad:
		fn = s.actions.Load
	}
	if fn == nil {
		return nil
	}
	if err := fn(); err != nil {
		return fmt.Errorf("menu command %s: %w", c.Symbol, err)
	}
	s.message = c.Name + ": ok"
	return nil
}

// Update 读取输入
func (s *MainMenuScene) Update(deltaTime float64) error {
	if clicked, x, y := utils.IsJustTouchedOrClicked(); clicked {
		if _, err := s.window.ProcessClick(x, y); err != nil {
			return err
		}
	}
	return s.Process(utils.PollMenuAction())
}

// Draw 绘制命令窗口和当前编队
func (s *MainMenuScene) Draw(screen *ebiten.Image) {
	s.window.Draw(screen)
	ebitenutil.DebugPrintAt(screen, s.session.String(), 24, 200)
	if s.message != "" {
		ebitenutil.DebugPrintAt(screen, s.message, 24, 220)
	}
}
