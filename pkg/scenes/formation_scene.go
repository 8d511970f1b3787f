package scenes

import (
	"fmt"

	"github.com/decker502/rpgformation/internal/logger"
	"github.com/decker502/rpgformation/pkg/ecs"
	"github.com/decker502/rpgformation/pkg/game"
	"github.com/decker502/rpgformation/pkg/modules"
	"github.com/decker502/rpgformation/pkg/utils"
	"github.com/hajimehoshi/ebiten/v2"
)

// FormationScene 编队界面场景
//
// 组合 FormationMenuModule（三面板状态机）和 FormationController（角色站位动画），
// 在已装备面板取消时关闭并返回上一个场景。
type FormationScene struct {
	entityManager *ecs.EntityManager
	controller    *modules.FormationController
	menu          *modules.FormationMenuModule

	session *game.Session
	onClose func()
	closing bool
}

// NewFormationScene 创建编队界面
//
// 参数：
//   - session: 游戏上下文
//   - sounds: 音效播放（可为 nil）
//   - onClose: 关闭界面时调用（通常是 SceneManager.Pop）
//
// 返回：
//   - error: 当前队伍无法放入当前编队
func NewFormationScene(session *game.Session, sounds game.SoundPlayer, onClose func()) (*FormationScene, error) {
	em := ecs.NewEntityManager()
	controller, err := modules.NewFormationController(em, session)
	if err != nil {
		return nil, fmt.Errorf("failed to create formation scene: %w", err)
	}
	s := &FormationScene{
		entityManager: em,
		controller:    controller,
		session:       session,
		onClose:       onClose,
	}
	s.menu = modules.NewFormationMenuModule(session, controller, sounds, func() { s.closing = true })
	logger.Sugar.Infof("[FormationScene] opened with %s", session)
	return s, nil
}

// Menu 返回界面模块
func (s *FormationScene) Menu() *modules.FormationMenuModule {
	return s.menu
}

// Controller 返回站位控制器
func (s *FormationScene) Controller() *modules.FormationController {
	return s.controller
}

// HandleAction 处理一个菜单动作并推进一帧
func (s *FormationScene) HandleAction(action utils.MenuAction) error {
	if err := s.menu.Process(action); err != nil {
		return err
	}
	return s.step()
}

func (s *FormationScene) step() error {
	if s.closing {
		s.closing = false
		if s.onClose != nil {
			s.onClose()
		}
		return nil
	}
	return s.controller.Update(modules.ModeMenu)
}

// Update 读取输入并推进动画
func (s *FormationScene) Update(deltaTime float64) error {
	if clicked, x, y := utils.IsJustTouchedOrClicked(); clicked {
		if err := s.menu.ProcessClick(x, y); err != nil {
			return err
		}
	}
	return s.HandleAction(utils.PollMenuAction())
}

// Draw 绘制面板和角色
func (s *FormationScene) Draw(screen *ebiten.Image) {
	s.menu.Draw(screen)
}
