package game

import "image/color"

// ActorListener 接收角色状态变化通知
//
// Session 实现此接口并把通知转发给 StateBinder。
type ActorListener interface {
	OnStateAdded(actor *Actor, stateID int)
	OnStateRemoved(actor *Actor, stateID int)
	OnRevive(actor *Actor)
}

// Actor 队伍中的角色
//
// 状态有两条添加路径：
//   - AddState：常规路径，角色死亡或已有该状态时拒绝，成功后通知监听者
//   - ForceAddState：无条件添加，不通知，供编队状态绑定使用
type Actor struct {
	ID    int
	Name  string
	Color color.RGBA

	states   []int
	dead     bool
	listener ActorListener
}

// NewActor 创建角色
func NewActor(id int, name string, c color.RGBA) *Actor {
	return &Actor{ID: id, Name: name, Color: c}
}

// SetListener 设置状态变化监听者（可为 nil）
func (a *Actor) SetListener(l ActorListener) {
	a.listener = l
}

// IsAlive 返回角色是否存活
func (a *Actor) IsAlive() bool {
	return !a.dead
}

// HasState 检查角色是否拥有指定状态
func (a *Actor) HasState(stateID int) bool {
	for _, id := range a.states {
		if id == stateID {
			return true
		}
	}
	return false
}

// States 返回状态 ID 列表的副本（按添加顺序）
func (a *Actor) States() []int {
	out := make([]int, len(a.states))
	copy(out, a.states)
	return out
}

// AddState 常规状态添加
// 返回：是否实际添加（死亡或已有该状态时返回 false）
func (a *Actor) AddState(stateID int) bool {
	if a.dead || a.HasState(stateID) {
		return false
	}
	a.states = append(a.states, stateID)
	if a.listener != nil {
		a.listener.OnStateAdded(a, stateID)
	}
	return true
}

// ForceAddState 无条件添加状态（不检查存活，不通知）
//
// 返回：
//   - 本次是否新加入了该状态，角色已持有时返回 false
func (a *Actor) ForceAddState(stateID int) bool {
	if a.HasState(stateID) {
		return false
	}
	a.states = append(a.states, stateID)
	return true
}

// RemoveState 移除状态并通知监听者
func (a *Actor) RemoveState(stateID int) bool {
	if !a.EraseState(stateID) {
		return false
	}
	if a.listener != nil {
		a.listener.OnStateRemoved(a, stateID)
	}
	return true
}

// EraseState 静默移除状态
func (a *Actor) EraseState(stateID int) bool {
	for i, id := range a.states {
		if id == stateID {
			a.states = append(a.states[:i], a.states[i+1:]...)
			return true
		}
	}
	return false
}

// Die 角色死亡并清除所有状态
// 先标记死亡再逐个移除，移除通知触发的重新绑定会跳过该角色
func (a *Actor) Die() {
	if a.dead {
		return
	}
	a.dead = true
	for _, id := range a.States() {
		a.RemoveState(id)
	}
}

// Revive 复活角色
func (a *Actor) Revive() {
	if !a.dead {
		return
	}
	a.dead = false
	if a.listener != nil {
		a.listener.OnRevive(a)
	}
}
