package game

import (
	"reflect"
	"testing"
)

func equippedIDs(defs []*FormationDefinition) []int {
	ids := make([]int, len(defs))
	for i, d := range defs {
		ids[i] = d.ID
	}
	return ids
}

func TestNewPartyFormationData(t *testing.T) {
	data := NewPartyFormationData(3)
	if len(data.EquippedIDs) != 1 || *data.EquippedIDs[0] != 0 {
		t.Errorf("expected formation 0 equipped, got %v", data.EquippedIDs)
	}
	if !reflect.DeepEqual(data.OwnedIDs, []int{1, 2}) {
		t.Errorf("expected owned [1 2], got %v", data.OwnedIDs)
	}
}

// 场景：两人队伍使用 Guardian，坐标为 (0,144) 和 (192,144)；
// 第三人入队后 Guardian 失效，回退到第一个有效编队
func TestGuardianScenario(t *testing.T) {
	s := newTestSession(t)
	guardian := mustFormation(t, s, 1)

	if !s.Formation.SetEquippedFormation(0, guardian) {
		t.Fatal("equipping Guardian should report a change")
	}
	if cur := s.Formation.CurrentFormation(); cur != guardian {
		t.Fatalf("current formation = %v, want Guardian", formationName(cur))
	}

	lineup := s.Party.Lineup()
	p0, err := guardian.PositionFor(lineup[0], lineup)
	if err != nil {
		t.Fatal(err)
	}
	p1, err := guardian.PositionFor(lineup[1], lineup)
	if err != nil {
		t.Fatal(err)
	}
	if p0.X != 0 || p0.Y != 144 {
		t.Errorf("actor 0 at (%v,%v), want (0,144)", p0.X, p0.Y)
	}
	if p1.X != 192 || p1.Y != 144 {
		t.Errorf("actor 1 at (%v,%v), want (192,144)", p1.X, p1.Y)
	}

	addActor(t, s, 3, "Gale")
	cur := s.Formation.CurrentFormation()
	owned := s.Formation.OwnedFormations()
	if cur == nil || cur != owned[0] {
		t.Fatalf("expected fallback to first valid owned formation %s, got %s", owned[0].Name, formationName(cur))
	}
	if cur.ID != 0 {
		t.Errorf("expected Default, got %s", cur.Name)
	}
	if !containsInt(s.Formation.OwnedIDs(), guardian.ID) {
		t.Error("invalidated Guardian should return to the owned set")
	}
}

// 编队 0 自身无效时，回退到第一个有效编队而不是编队 0
func TestCurrentFormationFallbackSkipsInvalidDefault(t *testing.T) {
	plugin := mustPluginConfig(t, `
formationList:
  - name: Quartet
    requiredMembers: 4
    slots: [{x: "index", y: "0"}, {x: "index", y: "0"}, {x: "index", y: "0"}, {x: "index", y: "0"}]
  - name: Pair
    requiredMembers: 2
    slots: [{x: "index", y: "0"}, {x: "index", y: "0"}]
  - name: Wedge
    slots: [{x: "index", y: "1"}, {x: "index", y: "1"}, {x: "index", y: "1"}, {x: "index", y: "1"}]
`)
	registry, err := NewFormationRegistry(plugin, nil)
	if err != nil {
		t.Fatal(err)
	}
	state := NewPartyFormationState(registry, fakeGate{members: 3})

	if got := equippedIDs(state.EquippedFormations()); !reflect.DeepEqual(got, []int{0}) {
		t.Errorf("equipped list should self-heal to [0], got %v", got)
	}
	cur := state.CurrentFormation()
	if cur == nil || cur.Name != "Wedge" {
		t.Errorf("expected Wedge as first valid owned, got %s", formationName(cur))
	}

	plugin.FormationList[2].RequiredSwitch = 1
	strict, err := NewFormationRegistry(plugin, nil)
	if err != nil {
		t.Fatal(err)
	}
	none := NewPartyFormationState(strict, fakeGate{members: 1})
	if cur := none.CurrentFormation(); cur != nil {
		t.Errorf("no valid formation should yield nil, got %s", cur.Name)
	}
}

// 场景：装备编队 2 后清空，编队 2 回到拥有列表，装备列表自愈为编队 0
func TestEquipThenClearScenario(t *testing.T) {
	s := newTestSession(t)
	if err := s.SetSwitch(5, true); err != nil {
		t.Fatal(err)
	}
	secret := mustFormation(t, s, 2)

	if !s.Formation.SetEquippedFormation(0, secret) {
		t.Fatal("equip should change slot 0")
	}
	if containsInt(s.Formation.OwnedIDs(), 2) {
		t.Error("equipped formation must leave the owned set")
	}
	if !containsInt(s.Formation.OwnedIDs(), 0) {
		t.Error("previous occupant should return to the owned set")
	}

	if !s.Formation.SetEquippedFormation(0, nil) {
		t.Fatal("clearing an occupied slot should report a change")
	}
	if !containsInt(s.Formation.OwnedIDs(), 2) {
		t.Error("cleared formation should return to the owned set")
	}
	if got := equippedIDs(s.Formation.EquippedFormations()); !reflect.DeepEqual(got, []int{0}) {
		t.Errorf("expected self-heal to [0], got %v", got)
	}
	if containsInt(s.Formation.OwnedIDs(), 0) {
		t.Error("formation 0 is equipped again and must not be owned")
	}
}

func TestSetEquippedFormation(t *testing.T) {
	s := newTestSession(t)
	def0 := mustFormation(t, s, 0)
	guardian := mustFormation(t, s, 1)

	if s.Formation.SetEquippedFormation(0, def0) {
		t.Error("re-equipping the same formation is not a change")
	}
	if s.Formation.SetEquippedFormation(1, guardian) {
		t.Error("slot beyond capacity must be rejected")
	}
	if s.Formation.SetEquippedFormation(-1, guardian) {
		t.Error("negative slot must be rejected")
	}

	s.Formation.SetEquippedFormation(0, guardian)
	s.Formation.SetEquippedFormation(0, def0)
	s.Formation.SetEquippedFormation(0, guardian)
	owned := s.Formation.OwnedIDs()
	if !reflect.DeepEqual(owned, []int{0, 2}) {
		t.Errorf("owned set should have no duplicates, got %v", owned)
	}

	if s.Formation.SetEquippedFormation(0, nil) != true {
		t.Error("clear should report a change")
	}
	if s.Formation.SetEquippedFormation(0, nil) {
		t.Error("clearing an empty slot is not a change")
	}
}

func TestSelectActiveSlot(t *testing.T) {
	s := newTestSession(t)

	if s.Formation.SelectActiveSlot(0) {
		t.Error("selecting the current slot is not a change")
	}
	if s.Formation.SelectActiveSlot(3) {
		t.Error("selecting a missing slot is not a change")
	}
	s.Formation.SetEquippedFormation(0, nil)
	if s.Formation.SelectActiveSlot(0) {
		t.Error("selecting an empty slot is not a change")
	}
	if s.Formation.CycleActiveSlot() {
		t.Error("a single slot cannot cycle")
	}
}

func TestSnapshotRestore(t *testing.T) {
	s := newTestSession(t)
	s.Formation.SetEquippedFormation(0, mustFormation(t, s, 1))
	snap := s.Formation.Snapshot()

	other := newTestSession(t)
	other.Formation.Restore(snap)
	if id, ok := other.Formation.EquippedID(0); !ok || id != 1 {
		t.Errorf("restored slot 0 = %d,%v want 1", id, ok)
	}
	if !reflect.DeepEqual(other.Formation.OwnedIDs(), s.Formation.OwnedIDs()) {
		t.Errorf("owned set differs after restore: %v vs %v", other.Formation.OwnedIDs(), s.Formation.OwnedIDs())
	}

	// 快照是深拷贝
	*snap.EquippedIDs[0] = 2
	if id, _ := s.Formation.EquippedID(0); id != 1 {
		t.Error("mutating a snapshot must not affect the state")
	}

	bad := PartyFormationData{EquippedIDs: []*int{intPtr(42)}, CurrentSlot: 5, OwnedIDs: []int{1, 1, 99}}
	other.Formation.Restore(bad)
	if _, ok := other.Formation.EquippedID(0); ok {
		t.Error("unknown formation id should be dropped on restore")
	}
	if other.Formation.CurrentSlot() != 0 {
		t.Error("out-of-range current slot should reset to 0")
	}
	if !reflect.DeepEqual(other.Formation.OwnedIDs(), []int{1}) {
		t.Errorf("owned set should be deduplicated and filtered, got %v", other.Formation.OwnedIDs())
	}
}

func containsInt(ids []int, id int) bool {
	for _, v := range ids {
		if v == id {
			return true
		}
	}
	return false
}
