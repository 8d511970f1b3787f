package game

import (
	"sort"
)

// EquipSlotCapacity 可装备的编队槽数量
const EquipSlotCapacity = 1

// DefaultFormationID 装备列表清空后回退到的编队
const DefaultFormationID = 0

// PartyFormationData 队伍编队的存档数据
type PartyFormationData struct {
	// EquippedIDs 装备槽，nil 表示空槽
	EquippedIDs []*int `yaml:"equippedIds"`
	CurrentSlot int    `yaml:"currentSlot"`
	// OwnedIDs 已拥有但未装备的编队
	OwnedIDs []int `yaml:"ownedIds"`
}

// NewPartyFormationData 新游戏时的编队数据：装备编队 0，其余编队为拥有
func NewPartyFormationData(formationCount int) PartyFormationData {
	data := PartyFormationData{EquippedIDs: []*int{intPtr(DefaultFormationID)}}
	for id := 0; id < formationCount; id++ {
		if id != DefaultFormationID {
			data.OwnedIDs = append(data.OwnedIDs, id)
		}
	}
	return data
}

func intPtr(v int) *int {
	return &v
}

// PartyFormationState 队伍的编队状态
//
// 有效性随队伍人数和开关变化，因此读取装备列表时每次都会重新过滤，
// 读取操作可能修改状态，调用方不应跨帧缓存结果。
type PartyFormationState struct {
	data     PartyFormationData
	registry *FormationRegistry
	gate     ValidityGate
}

// NewPartyFormationState 创建编队状态
func NewPartyFormationState(registry *FormationRegistry, gate ValidityGate) *PartyFormationState {
	return &PartyFormationState{
		data:     NewPartyFormationData(registry.Len()),
		registry: registry,
		gate:     gate,
	}
}

// Snapshot 返回存档数据的深拷贝
func (s *PartyFormationState) Snapshot() PartyFormationData {
	out := PartyFormationData{CurrentSlot: s.data.CurrentSlot}
	for _, id := range s.data.EquippedIDs {
		if id == nil {
			out.EquippedIDs = append(out.EquippedIDs, nil)
		} else {
			out.EquippedIDs = append(out.EquippedIDs, intPtr(*id))
		}
	}
	out.OwnedIDs = append(out.OwnedIDs, s.data.OwnedIDs...)
	return out
}

// Restore 从存档数据恢复，丢弃未注册的 ID
func (s *PartyFormationState) Restore(data PartyFormationData) {
	restored := PartyFormationData{CurrentSlot: data.CurrentSlot}
	for i, id := range data.EquippedIDs {
		if i >= EquipSlotCapacity {
			break
		}
		if id != nil {
			if _, ok := s.registry.Get(*id); ok {
				restored.EquippedIDs = append(restored.EquippedIDs, intPtr(*id))
				continue
			}
		}
		restored.EquippedIDs = append(restored.EquippedIDs, nil)
	}
	for _, id := range data.OwnedIDs {
		if _, ok := s.registry.Get(id); ok {
			restored.OwnedIDs = appendUnique(restored.OwnedIDs, id)
		}
	}
	if restored.CurrentSlot < 0 || restored.CurrentSlot >= len(restored.EquippedIDs) {
		restored.CurrentSlot = 0
	}
	s.data = restored
}

// OwnedIDs 已拥有但未装备的编队 ID（升序）
func (s *PartyFormationState) OwnedIDs() []int {
	out := append([]int(nil), s.data.OwnedIDs...)
	sort.Ints(out)
	return out
}

// CurrentSlot 当前装备槽序号
func (s *PartyFormationState) CurrentSlot() int {
	return s.data.CurrentSlot
}

// EquippedFormations 返回装备的编队
//
// 丢弃空槽和对当前队伍无效的编队（无效编队退回拥有列表）；
// 过滤后为空时重置为只装备编队 0。
func (s *PartyFormationState) EquippedFormations() []*FormationDefinition {
	var (
		kept []*int
		defs []*FormationDefinition
	)
	for _, id := range s.data.EquippedIDs {
		if id == nil {
			continue
		}
		def, ok := s.registry.Get(*id)
		if !ok {
			continue
		}
		if !def.IsValidFor(s.gate) {
			s.data.OwnedIDs = appendUnique(s.data.OwnedIDs, *id)
			continue
		}
		kept = append(kept, intPtr(*id))
		defs = append(defs, def)
	}

	if len(kept) == 0 {
		kept = []*int{intPtr(DefaultFormationID)}
		s.data.OwnedIDs = removeID(s.data.OwnedIDs, DefaultFormationID)
		defs = nil
		if def, ok := s.registry.Get(DefaultFormationID); ok {
			defs = append(defs, def)
		}
	}
	s.data.EquippedIDs = kept
	if s.data.CurrentSlot >= len(kept) || s.data.CurrentSlot < 0 {
		s.data.CurrentSlot = 0
	}
	return defs
}

// OwnedFormations 返回当前队伍下所有有效的编队
func (s *PartyFormationState) OwnedFormations() []*FormationDefinition {
	return s.registry.Valid(s.gate)
}

// CurrentFormation 返回当前使用的编队
// 当前槽为空或编队无效时回退到第一个有效编队，都没有时返回 nil
func (s *PartyFormationState) CurrentFormation() *FormationDefinition {
	equipped := s.EquippedFormations()
	if s.data.CurrentSlot < len(equipped) {
		if def := equipped[s.data.CurrentSlot]; def.IsValidFor(s.gate) {
			return def
		}
	}
	owned := s.OwnedFormations()
	if len(owned) == 0 {
		return nil
	}
	return owned[0]
}

// EquippedID 返回装备槽中的编队 ID，空槽或越界返回 false
func (s *PartyFormationState) EquippedID(slot int) (int, bool) {
	if slot < 0 || slot >= len(s.data.EquippedIDs) || s.data.EquippedIDs[slot] == nil {
		return 0, false
	}
	return *s.data.EquippedIDs[slot], true
}

// SetEquippedFormation 设置或清空装备槽
//
// 参数：
//   - slot: 装备槽序号
//   - def: 要装备的编队，nil 表示清空
//
// 返回：
//   - 是否发生变化（调用方据此决定是否播放确认音效）
func (s *PartyFormationState) SetEquippedFormation(slot int, def *FormationDefinition) bool {
	if slot < 0 || slot >= EquipSlotCapacity {
		return false
	}
	for len(s.data.EquippedIDs) <= slot {
		s.data.EquippedIDs = append(s.data.EquippedIDs, nil)
	}

	prev := s.data.EquippedIDs[slot]
	if def == nil {
		if prev == nil {
			return false
		}
		s.data.EquippedIDs[slot] = nil
		s.data.OwnedIDs = appendUnique(s.data.OwnedIDs, *prev)
		return true
	}

	s.data.CurrentSlot = slot
	if prev != nil && *prev == def.ID {
		return false
	}
	s.data.EquippedIDs[slot] = intPtr(def.ID)
	s.data.OwnedIDs = removeID(s.data.OwnedIDs, def.ID)
	if prev != nil {
		s.data.OwnedIDs = appendUnique(s.data.OwnedIDs, *prev)
	}
	return true
}

// SelectActiveSlot 切换当前装备槽
// 目标槽非空且不同于当前槽时才切换，返回是否切换
func (s *PartyFormationState) SelectActiveSlot(slot int) bool {
	if _, ok := s.EquippedID(slot); !ok {
		return false
	}
	if slot == s.data.CurrentSlot {
		return false
	}
	s.data.CurrentSlot = slot
	return true
}

// CycleActiveSlot 切换到下一个非空装备槽（循环），返回是否切换
func (s *PartyFormationState) CycleActiveSlot() bool {
	n := len(s.data.EquippedIDs)
	for step := 1; step < n; step++ {
		if s.SelectActiveSlot((s.data.CurrentSlot + step) % n) {
			return true
		}
	}
	return false
}

func appendUnique(ids []int, id int) []int {
	for _, v := range ids {
		if v == id {
			return ids
		}
	}
	return append(ids, id)
}

func removeID(ids []int, id int) []int {
	out := ids[:0]
	for _, v := range ids {
		if v != id {
			out = append(out, v)
		}
	}
	return out
}
