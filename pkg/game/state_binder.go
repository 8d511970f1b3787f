package game

import (
	"fmt"

	"github.com/decker502/rpgformation/internal/logger"
)

// StateBinder 维护战斗中由编队槽位附加到角色身上的状态
//
// 槽位状态只在以下条件同时满足时存在：
//   - 角色是当前战斗成员
//   - 没有战斗成员带有使编队失效的状态
//   - 角色存活
//
// 附加使用 Actor.ForceAddState（复活流程中角色尚未被标记为存活也必须能附加），
// 清除使用静默的 Actor.EraseState。
type StateBinder struct {
	party     *Party
	states    *StateDatabase
	formation func() *FormationDefinition

	applied  map[int]int // actor ID -> 已附加的状态
	inBattle bool
}

// NewStateBinder 创建状态绑定器
// formation 返回当前使用的编队（可能为 nil）
func NewStateBinder(party *Party, states *StateDatabase, formation func() *FormationDefinition) *StateBinder {
	return &StateBinder{
		party:     party,
		states:    states,
		formation: formation,
		applied:   make(map[int]int),
	}
}

// InBattle 是否处于战斗中
func (b *StateBinder) InBattle() bool {
	return b.inBattle
}

// Applied 返回角色当前被附加的槽位状态
func (b *StateBinder) Applied(actorID int) (int, bool) {
	id, ok := b.applied[actorID]
	return id, ok
}

// OnBattleStart 战斗开始：附加所有槽位状态
func (b *StateBinder) OnBattleStart() error {
	b.inBattle = true
	return b.ApplyAll()
}

// OnBattleEnd 战斗结束：清除所有槽位状态
func (b *StateBinder) OnBattleEnd() {
	b.ClearAll()
	b.inBattle = false
}

// OnStateAdded 添加了使编队失效的状态时清除所有槽位状态
func (b *StateBinder) OnStateAdded(actor *Actor, stateID int) {
	if !b.inBattle || !b.states.IsFormationInvalid(stateID) {
		return
	}
	if !b.isBattleMember(actor.ID) {
		return
	}
	logger.Sugar.Debugf("[StateBinder] %s gained invalidating state %d", actor.Name, stateID)
	b.ClearAll()
}

// OnStateRemoved 移除最后一个使编队失效的状态时重新附加
func (b *StateBinder) OnStateRemoved(actor *Actor, stateID int) error {
	if applied, ok := b.applied[actor.ID]; ok && applied == stateID {
		delete(b.applied, actor.ID)
	}
	if !b.inBattle || !b.states.IsFormationInvalid(stateID) {
		return nil
	}
	if b.anyInvalidated() {
		return nil
	}
	logger.Sugar.Debugf("[StateBinder] %s lost invalidating state %d", actor.Name, stateID)
	return b.ApplyAll()
}

// OnRevive 复活的角色重新获得槽位状态
func (b *StateBinder) OnRevive(actor *Actor) error {
	if !b.inBattle {
		return nil
	}
	return b.applyTo(actor, b.party.Lineup())
}

// OnFormationChanged 编队或站位变化：先清除再重新附加
func (b *StateBinder) OnFormationChanged() error {
	if !b.inBattle {
		return nil
	}
	b.ClearAll()
	return b.ApplyAll()
}

// ApplyAll 为所有存活的战斗成员附加槽位状态
func (b *StateBinder) ApplyAll() error {
	if b.anyInvalidated() {
		return nil
	}
	lineup := b.party.Lineup()
	for _, actor := range b.party.BattleMembers() {
		if err := b.applyTo(actor, lineup); err != nil {
			return err
		}
	}
	return nil
}

// ClearAll 清除所有已附加的槽位状态
func (b *StateBinder) ClearAll() {
	for actorID, stateID := range b.applied {
		if actor := b.party.Actor(actorID); actor != nil {
			actor.EraseState(stateID)
		}
		delete(b.applied, actorID)
	}
}

func (b *StateBinder) applyTo(actor *Actor, lineup []int) error {
	if !actor.IsAlive() || !contains(lineup, actor.ID) || b.anyInvalidated() {
		return nil
	}
	formation := b.formation()
	if formation == nil {
		return nil
	}
	pos, err := formation.PositionFor(actor.ID, lineup)
	if err != nil {
		return fmt.Errorf("failed to bind slot state for %s: %w", actor.Name, err)
	}

	if prev, ok := b.applied[actor.ID]; ok {
		if prev == pos.StateID {
			return nil
		}
		actor.EraseState(prev)
		delete(b.applied, actor.ID)
	}
	if pos.StateID == 0 || b.states.IsFormationInvalid(pos.StateID) {
		return nil
	}
	// 角色自身已有的状态不归绑定器管理，结束战斗时不能擦除
	if actor.ForceAddState(pos.StateID) {
		b.applied[actor.ID] = pos.StateID
	}
	return nil
}

func (b *StateBinder) isBattleMember(actorID int) bool {
	return contains(b.party.Lineup(), actorID)
}

// anyInvalidated 是否有战斗成员带有使编队失效的状态
func (b *StateBinder) anyInvalidated() bool {
	for _, actor := range b.party.BattleMembers() {
		for _, id := range actor.States() {
			if b.states.IsFormationInvalid(id) {
				return true
			}
		}
	}
	return false
}

func contains(ids []int, id int) bool {
	for _, v := range ids {
		if v == id {
			return true
		}
	}
	return false
}
