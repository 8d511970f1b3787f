package scenes

import (
	"errors"
	"testing"

	"github.com/decker502/rpgformation/pkg/game"
	"github.com/decker502/rpgformation/pkg/utils"
)

func TestMainMenuScene_InsertsFormationCommand(t *testing.T) {
	s := newTestSession(t, mapFS())
	scene := NewMainMenuScene(s, MainMenuActions{
		OpenFormation: func() error { return nil },
		StartBattle:   func() error { return nil },
	})

	cmds := scene.Commands()
	symbols := make([]string, len(cmds))
	for i, c := range cmds {
		symbols[i] = c.Symbol
	}
	want := []string{MenuSymbolBattle, game.MenuSymbolFormation, MenuSymbolSave, MenuSymbolLoad}
	if len(symbols) != len(want) {
		t.Fatalf("symbols = %v, want %v", symbols, want)
	}
	for i := range want {
		if symbols[i] != want[i] {
			t.Fatalf("symbols = %v, want %v", symbols, want)
		}
	}
	if cmds[2].Enabled || cmds[3].Enabled {
		t.Error("save/load without handlers should be disabled")
	}
}

func TestMainMenuScene_DispatchesCommands(t *testing.T) {
	s := newTestSession(t, mapFS())
	opened := 0
	boom := errors.New("boom")
	scene := NewMainMenuScene(s, MainMenuActions{
		OpenFormation: func() error { opened++; return nil },
		Save:          func() error { return boom },
	})

	if !scene.Select(game.MenuSymbolFormation) {
		t.Fatal("formation command missing")
	}
	if err := scene.Process(utils.ActionOK); err != nil {
		t.Fatal(err)
	}
	if opened != 1 {
		t.Errorf("opened = %d, want 1", opened)
	}

	scene.Select(MenuSymbolSave)
	if err := scene.Process(utils.ActionOK); !errors.Is(err, boom) {
		t.Errorf("err = %v, want boom", err)
	}

	// 没有处理函数的命令不可选
	scene.Select(MenuSymbolBattle)
	if err := scene.Process(utils.ActionOK); err != nil {
		t.Errorf("disabled command returned %v", err)
	}
}

func TestMainMenuScene_FormationDisabledWithEmptyParty(t *testing.T) {
	s := newTestSession(t, mapFS())
	opened := 0
	scene := NewMainMenuScene(s, MainMenuActions{OpenFormation: func() error { opened++; return nil }})

	for _, id := range s.Party.Lineup() {
		if err := s.RemoveMember(id); err != nil {
			t.Fatal(err)
		}
	}
	scene.OnEnter()

	for _, c := range scene.Commands() {
		if c.Symbol == game.MenuSymbolFormation && c.Enabled {
			t.Error("formation command should be disabled for an empty party")
		}
	}

	// 禁用的命令即使有处理函数也不会执行
	if !scene.Select(game.MenuSymbolFormation) {
		t.Fatal("formation command missing")
	}
	if err := scene.Process(utils.ActionOK); err != nil {
		t.Fatal(err)
	}
	if opened != 0 {
		t.Errorf("disabled formation command opened the scene %d times", opened)
	}
}
