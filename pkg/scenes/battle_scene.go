package scenes

import (
	"fmt"
	"strings"

	"github.com/decker502/rpgformation/internal/logger"
	"github.com/decker502/rpgformation/pkg/ecs"
	"github.com/decker502/rpgformation/pkg/game"
	"github.com/decker502/rpgformation/pkg/modules"
	"github.com/hajimehoshi/ebiten/v2"
	"github.com/hajimehoshi/ebiten/v2/ebitenutil"
	"github.com/hajimehoshi/ebiten/v2/inpututil"
)

// battleKeys 战斗预览响应的按键
var battleKeys = []ebiten.Key{
	ebiten.Key1, ebiten.Key2, ebiten.Key3, ebiten.Key4,
	ebiten.KeyTab, ebiten.KeyI, ebiten.KeyU, ebiten.KeyK, ebiten.KeyR,
	ebiten.KeyEscape,
}

// BattleScene 战斗预览
//
// 进入时开始战斗（附加槽位状态），退出时结束战斗。
// 按键：
//   - 1-4: 切换装备槽（ChangeFormation 命令）
//   - Tab: 切换选中角色
//   - I / U: 给选中角色添加 / 移除使编队失效的状态
//   - K / R: 选中角色死亡 / 复活
//   - Esc: 结束战斗
type BattleScene struct {
	session    *game.Session
	commands   *game.Commands
	controller *modules.FormationController
	onClose    func()

	selected int // 战斗成员序号
	ended    bool
}

// NewBattleScene 开始战斗并创建场景
//
// 返回：
//   - error: 槽位状态无法附加（编队槽位不足）
func NewBattleScene(session *game.Session, commands *game.Commands, onClose func()) (*BattleScene, error) {
	if err := session.BeginBattle(); err != nil {
		return nil, fmt.Errorf("failed to start battle: %w", err)
	}
	controller, err := modules.NewFormationController(ecs.NewEntityManager(), session)
	if err != nil {
		session.EndBattle()
		return nil, fmt.Errorf("failed to start battle: %w", err)
	}
	return &BattleScene{
		session:    session,
		commands:   commands,
		controller: controller,
		onClose:    onClose,
	}, nil
}

// Selected 返回选中的角色（队伍为空时为 nil）
func (s *BattleScene) Selected() *game.Actor {
	members := s.session.Party.BattleMembers()
	if len(members) == 0 {
		return nil
	}
	if s.selected >= len(members) {
		s.selected = 0
	}
	return members[s.selected]
}

// HandleKey 处理一个按键
func (s *BattleScene) HandleKey(key ebiten.Key) error {
	if key >= ebiten.Key1 && key <= ebiten.Key9 {
		return s.commands.ChangeFormation(int(key - ebiten.Key1))
	}

	switch key {
	case ebiten.KeyTab:
		if n := s.session.Party.BattleMemberCount(); n > 0 {
			s.selected = (s.selected + 1) % n
		}
	case ebiten.KeyEscape:
		s.end()
	}

	actor := s.Selected()
	if actor == nil {
		return nil
	}
	switch key {
	case ebiten.KeyI:
		if ids := s.session.States.InvalidatingStates(); len(ids) > 0 {
			actor.AddState(ids[0])
		}
	case ebiten.KeyU:
		for _, id := range s.session.States.InvalidatingStates() {
			actor.RemoveState(id)
		}
	case ebiten.KeyK:
		actor.Die()
	case ebiten.KeyR:
		actor.Revive()
	}
	return s.session.Err()
}

func (s *BattleScene) end() {
	if s.ended {
		return
	}
	s.ended = true
	s.session.EndBattle()
	logger.Sugar.Infof("[BattleScene] closed")
	if s.onClose != nil {
		s.onClose()
	}
}

// Update 读取按键并推进站位动画
func (s *BattleScene) Update(deltaTime float64) error {
	for _, key := range battleKeys {
		if !inpututil.IsKeyJustPressed(key) {
			continue
		}
		if err := s.HandleKey(key); err != nil {
			return err
		}
		if s.ended {
			return nil
		}
	}
	return s.controller.Update(modules.ModeBattle)
}

// Draw 绘制角色和状态列表
func (s *BattleScene) Draw(screen *ebiten.Image) {
	s.controller.Draw(screen)

	formation := "<none>"
	if f := s.session.Formation.CurrentFormation(); f != nil {
		formation = f.Name
	}
	ebitenutil.DebugPrintAt(screen, "Formation: "+formation, 16, 16)

	for i, actor := range s.session.Party.BattleMembers() {
		ebitenutil.DebugPrintAt(screen, s.statusLine(i, actor), 16, 40+i*16)
	}
}

func (s *BattleScene) statusLine(index int, actor *game.Actor) string {
	var b strings.Builder
	if index == s.selected {
		b.WriteString("> ")
	} else {
		b.WriteString("  ")
	}
	b.WriteString(actor.Name)
	if !actor.IsAlive() {
		b.WriteString(" (dead)")
	}
	names := make([]string, 0, len(actor.States()))
	for _, id := range actor.States() {
		names = append(names, s.session.States.Name(id))
	}
	if len(names) > 0 {
		fmt.Fprintf(&b, " [%s]", strings.Join(names, ", "))
	}
	return b.String()
}

// Ended 战斗是否已结束
func (s *BattleScene) Ended() bool {
	return s.ended
}
