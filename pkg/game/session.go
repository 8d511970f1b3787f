package game

import (
	"fmt"
	"image/color"
	"strconv"
	"strings"

	"github.com/decker502/rpgformation/internal/logger"
	"github.com/decker502/rpgformation/pkg/config"
)

// Session 一局游戏的上下文
//
// 持有队伍、开关、状态数据库、编队注册表和编队状态，替代全局单例；
// 所有子系统通过 Session 访问这些数据。
//
// Session 同时实现 ValidityGate（编队有效性）和 ActorListener（状态变化转发给 StateBinder）。
type Session struct {
	Party     *Party
	Switches  *Switches
	States    *StateDatabase
	Registry  *FormationRegistry
	Formation *PartyFormationState
	Binder    *StateBinder
	Plugin    *config.FormationPluginConfig

	formationVersion int
	err              error
}

// NewSession 从数据库和插件配置创建新游戏
func NewSession(db *config.DatabaseConfig, plugin *config.FormationPluginConfig, registry *FormationRegistry) *Session {
	s := &Session{
		Party:    NewParty(db.MaxBattleMembers),
		Switches: NewSwitches(),
		States:   NewStateDatabase(db.States, plugin.InvalidStateTag),
		Registry: registry,
		Plugin:   plugin,
	}
	s.Formation = NewPartyFormationState(registry, s)
	s.Binder = NewStateBinder(s.Party, s.States, s.Formation.CurrentFormation)

	actors := make(map[int]config.ActorDef, len(db.Actors))
	for _, a := range db.Actors {
		actors[a.ID] = a
	}
	for _, id := range db.InitialParty {
		def := actors[id]
		s.AddMember(NewActor(def.ID, def.Name, ParseColor(def.Color)))
	}
	for _, sw := range db.Switches {
		s.Switches.SetValue(sw.ID, sw.Initial)
	}
	return s
}

// BattleMemberCount 实现 ValidityGate
func (s *Session) BattleMemberCount() int {
	return s.Party.BattleMemberCount()
}

// SwitchOn 实现 ValidityGate
func (s *Session) SwitchOn(switchID int) bool {
	return s.Switches.Value(switchID)
}

// OnStateAdded 实现 ActorListener
func (s *Session) OnStateAdded(actor *Actor, stateID int) {
	s.Binder.OnStateAdded(actor, stateID)
}

// OnStateRemoved 实现 ActorListener
func (s *Session) OnStateRemoved(actor *Actor, stateID int) {
	s.fail(s.Binder.OnStateRemoved(actor, stateID))
}

// OnRevive 实现 ActorListener
func (s *Session) OnRevive(actor *Actor) {
	s.fail(s.Binder.OnRevive(actor))
}

// Err 返回第一个致命错误
// 状态通知来自没有错误返回值的回调，错误在此保存，由游戏循环检查后终止
func (s *Session) Err() error {
	return s.err
}

func (s *Session) fail(err error) {
	if err != nil && s.err == nil {
		logger.Sugar.Errorf("[Session] %v", err)
		s.err = err
	}
}

// FormationVersion 每次编队、站位或队伍变化时递增
// 显示层据此判断是否需要重新设定移动目标
func (s *Session) FormationVersion() int {
	return s.formationVersion
}

// NotifyFormationChanged 编队或站位变化后调用，战斗中会重新绑定槽位状态
func (s *Session) NotifyFormationChanged() error {
	s.formationVersion++
	if err := s.Binder.OnFormationChanged(); err != nil {
		s.fail(err)
		return err
	}
	return nil
}

// InBattle 是否处于战斗中
func (s *Session) InBattle() bool {
	return s.Binder.InBattle()
}

// BeginBattle 战斗开始
func (s *Session) BeginBattle() error {
	if err := s.Binder.OnBattleStart(); err != nil {
		s.fail(err)
		return err
	}
	logger.Sugar.Infof("[Session] battle started, formation=%s", formationName(s.Formation.CurrentFormation()))
	return nil
}

// EndBattle 战斗结束
func (s *Session) EndBattle() {
	s.Binder.OnBattleEnd()
	logger.Sugar.Infof("[Session] battle ended")
}

// AddMember 角色入队
func (s *Session) AddMember(actor *Actor) error {
	actor.SetListener(s)
	if !s.Party.AddMember(actor) {
		return nil
	}
	return s.NotifyFormationChanged()
}

// RemoveMember 角色离队，离队角色的槽位状态随之清除
func (s *Session) RemoveMember(actorID int) error {
	actor := s.Party.Actor(actorID)
	if actor == nil {
		return nil
	}
	s.Binder.ClearAll()
	s.Party.RemoveMember(actorID)
	actor.SetListener(nil)
	return s.NotifyFormationChanged()
}

// SwapMembers 交换两名成员的站位
func (s *Session) SwapMembers(i, j int) error {
	if err := s.Party.SwapOrder(i, j); err != nil {
		return err
	}
	return s.NotifyFormationChanged()
}

// SetSwitch 设置开关（编队有效性可能随之变化）
func (s *Session) SetSwitch(id int, on bool) error {
	if s.Switches.Value(id) == on {
		return nil
	}
	s.Switches.SetValue(id, on)
	return s.NotifyFormationChanged()
}

func formationName(f *FormationDefinition) string {
	if f == nil {
		return "<none>"
	}
	return f.Name
}

// ParseColor 解析 "#rrggbb" 颜色，格式错误时返回灰色
func ParseColor(s string) color.RGBA {
	fallback := color.RGBA{R: 128, G: 128, B: 128, A: 255}
	s = strings.TrimPrefix(strings.TrimSpace(s), "#")
	if len(s) != 6 {
		return fallback
	}
	v, err := strconv.ParseUint(s, 16, 32)
	if err != nil {
		return fallback
	}
	return color.RGBA{R: uint8(v >> 16), G: uint8(v >> 8), B: uint8(v), A: 255}
}

// String 调试输出
func (s *Session) String() string {
	return fmt.Sprintf("Session{members=%v formation=%s battle=%v}",
		s.Party.Lineup(), formationName(s.Formation.CurrentFormation()), s.InBattle())
}
