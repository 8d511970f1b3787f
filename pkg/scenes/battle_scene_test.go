package scenes

import (
	"testing"

	"github.com/decker502/rpgformation/pkg/game"
	"github.com/hajimehoshi/ebiten/v2"
)

func newTestBattle(t *testing.T) (*BattleScene, *game.Session, *bool) {
	t.Helper()
	s := newTestSession(t, mapFS())
	equip(t, s, 1)
	closed := false
	scene, err := NewBattleScene(s, game.NewCommands(s, nil), func() { closed = true })
	if err != nil {
		t.Fatalf("NewBattleScene: %v", err)
	}
	return scene, s, &closed
}

func TestBattleScene_AppliesSlotStates(t *testing.T) {
	_, s, _ := newTestBattle(t)

	if !s.InBattle() {
		t.Fatal("battle should have started")
	}
	assertStates(t, s.Party.Actor(1), 11)
	assertStates(t, s.Party.Actor(2), 12)
}

func TestBattleScene_Keys(t *testing.T) {
	scene, s, closed := newTestBattle(t)
	reid, pris := s.Party.Actor(1), s.Party.Actor(2)

	steps := []struct {
		name      string
		key       ebiten.Key
		wantReid  []int
		wantPris  []int
		wantAlive bool
	}{
		{"失效状态清除全部槽位状态", ebiten.KeyI, []int{20}, nil, true},
		{"移除失效状态后重新附加", ebiten.KeyU, []int{11}, []int{12}, true},
		{"选中第二名成员", ebiten.KeyTab, []int{11}, []int{12}, true},
		{"死亡移除状态", ebiten.KeyK, []int{11}, nil, false},
		{"复活重新附加", ebiten.KeyR, []int{11}, []int{12}, true},
	}
	for _, step := range steps {
		if err := scene.HandleKey(step.key); err != nil {
			t.Fatalf("%s: %v", step.name, err)
		}
		assertStates(t, reid, step.wantReid...)
		assertStates(t, pris, step.wantPris...)
		if pris.IsAlive() != step.wantAlive {
			t.Fatalf("%s: alive = %v", step.name, pris.IsAlive())
		}
	}

	if err := scene.HandleKey(ebiten.KeyEscape); err != nil {
		t.Fatal(err)
	}
	if !*closed || !scene.Ended() || s.InBattle() {
		t.Error("escape should end the battle and close the scene")
	}
	assertStates(t, reid)
	assertStates(t, pris)
}

func TestBattleScene_SlotKeyIgnoresEmptySlot(t *testing.T) {
	scene, s, _ := newTestBattle(t)
	before := s.FormationVersion()

	if err := scene.HandleKey(ebiten.Key2); err != nil {
		t.Fatal(err)
	}
	if s.FormationVersion() != before {
		t.Error("selecting an empty slot should not change the formation")
	}
}

func TestBattleScene_StatusLine(t *testing.T) {
	scene, s, _ := newTestBattle(t)

	if got := scene.statusLine(0, s.Party.Actor(1)); got != "> Reid [Guard]" {
		t.Errorf("statusLine = %q", got)
	}
	s.Party.Actor(2).Die()
	if got := scene.statusLine(1, s.Party.Actor(2)); got != "  Priscilla (dead)" {
		t.Errorf("statusLine = %q", got)
	}
}
