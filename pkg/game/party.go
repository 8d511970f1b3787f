package game

import "fmt"

// Party 队伍
//
// 成员顺序即站位顺序，前 maxBattleMembers 名为战斗成员。
type Party struct {
	members          []*Actor
	maxBattleMembers int
}

// NewParty 创建队伍
func NewParty(maxBattleMembers int) *Party {
	if maxBattleMembers <= 0 {
		maxBattleMembers = 1
	}
	return &Party{maxBattleMembers: maxBattleMembers}
}

// AddMember 加入成员（已在队伍中则忽略）
func (p *Party) AddMember(a *Actor) bool {
	if a == nil || p.Actor(a.ID) != nil {
		return false
	}
	p.members = append(p.members, a)
	return true
}

// RemoveMember 移除成员
func (p *Party) RemoveMember(actorID int) bool {
	for i, m := range p.members {
		if m.ID == actorID {
			p.members = append(p.members[:i], p.members[i+1:]...)
			return true
		}
	}
	return false
}

// Members 返回全部成员
func (p *Party) Members() []*Actor {
	out := make([]*Actor, len(p.members))
	copy(out, p.members)
	return out
}

// BattleMembers 返回战斗成员
func (p *Party) BattleMembers() []*Actor {
	n := len(p.members)
	if n > p.maxBattleMembers {
		n = p.maxBattleMembers
	}
	out := make([]*Actor, n)
	copy(out, p.members[:n])
	return out
}

// Lineup 返回战斗成员的角色 ID（按站位顺序）
func (p *Party) Lineup() []int {
	battle := p.BattleMembers()
	ids := make([]int, len(battle))
	for i, a := range battle {
		ids[i] = a.ID
	}
	return ids
}

// BattleMemberCount 战斗成员数量
func (p *Party) BattleMemberCount() int {
	return len(p.BattleMembers())
}

// Actor 按 ID 查找成员
func (p *Party) Actor(actorID int) *Actor {
	for _, m := range p.members {
		if m.ID == actorID {
			return m
		}
	}
	return nil
}

// IndexOf 返回成员在队伍中的序号，不在队伍中返回 -1
func (p *Party) IndexOf(actorID int) int {
	for i, m := range p.members {
		if m.ID == actorID {
			return i
		}
	}
	return -1
}

// SwapOrder 交换两名成员的站位
func (p *Party) SwapOrder(i, j int) error {
	if i < 0 || j < 0 || i >= len(p.members) || j >= len(p.members) {
		return fmt.Errorf("swap %d<->%d: index out of range (party size %d)", i, j, len(p.members))
	}
	p.members[i], p.members[j] = p.members[j], p.members[i]
	return nil
}
