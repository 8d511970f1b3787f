package config

import (
	"encoding/json"
	"errors"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/decker502/rpgformation/internal/params"
)

const sampleFormationYAML = `
gridSize: 48
moveSpeed: 6
overviewOffset: {x: 200, y: 120}
battleOffset: {x: 480, y: 200}
formationList:
  - name: Default
    slots:
      - {x: "index * 2", y: "3"}
      - {x: "index * 2", y: "3"}
      - {x: "index * 2", y: "3"}
      - {x: "index * 2", y: "3"}
  - name: Guardian
    description: Front line holds.
    requiredMembers: 2
    slots:
      - {x: "0", y: "3", stateId: 11}
      - {x: "4", y: "3", stateId: 12}
  - name: Arena
    mapId: 1
    requiredSwitch: 3
    slots:
      - {stateId: 11}
`

func TestLoadFormationConfig(t *testing.T) {
	tests := []struct {
		name        string
		yamlContent string
		wantErr     bool
		errContains string
		validate    func(*testing.T, *FormationPluginConfig)
	}{
		{
			name:        "valid config",
			yamlContent: sampleFormationYAML,
			validate: func(t *testing.T, cfg *FormationPluginConfig) {
				if len(cfg.FormationList) != 3 {
					t.Fatalf("expected 3 formations, got %d", len(cfg.FormationList))
				}
				g := cfg.FormationList[1]
				if g.Name != "Guardian" || g.RequiredMembers != 2 || g.Slots[1].StateID != 12 {
					t.Errorf("guardian decoded incorrectly: %+v", g)
				}
				if cfg.FormationList[2].MapID != 1 {
					t.Errorf("expected mapId 1, got %d", cfg.FormationList[2].MapID)
				}
				if cfg.MoveSpeed != 6 {
					t.Errorf("expected moveSpeed 6, got %v", cfg.MoveSpeed)
				}
				if cfg.BattleOffset.X != 480 {
					t.Errorf("expected battle offset x 480, got %v", cfg.BattleOffset.X)
				}
			},
		},
		{
			name: "defaults applied",
			yamlContent: `
formationList:
  - name: Only
    slots: [{x: "0", y: "0"}]
`,
			validate: func(t *testing.T, cfg *FormationPluginConfig) {
				if cfg.GridSize != DefaultGridSize {
					t.Errorf("expected default grid size, got %v", cfg.GridSize)
				}
				if cfg.InvalidStateTag != DefaultInvalidStateTag {
					t.Errorf("expected default invalid tag, got %q", cfg.InvalidStateTag)
				}
				if cfg.MenuCommand.Name != DefaultMenuCommandName {
					t.Errorf("expected default command name, got %q", cfg.MenuCommand.Name)
				}
				if cfg.Windows.Owned.Height == 0 || cfg.Windows.Owned.Cols != 1 {
					t.Errorf("expected default owned window, got %+v", cfg.Windows.Owned)
				}
			},
		},
		{
			name:        "no formations",
			yamlContent: "gridSize: 48\n",
			wantErr:     true,
			errContains: "at least one formation",
		},
		{
			name: "empty formula",
			yamlContent: `
formationList:
  - name: Broken
    slots: [{x: "", y: "1"}]
`,
			wantErr:     true,
			errContains: "empty coordinate formula",
		},
		{
			name: "map formation without slots",
			yamlContent: `
formationList:
  - name: Field
    mapId: 1
`,
			wantErr:     true,
			errContains: "no slots",
		},
		{
			name: "negative grid",
			yamlContent: `
gridSize: -1
formationList:
  - name: A
    slots: [{x: "0", y: "0"}]
`,
			wantErr:     true,
			errContains: "gridSize must be positive",
		},
		{
			name:        "malformed yaml",
			yamlContent: "formationList: [",
			wantErr:     true,
			errContains: "failed to parse",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			path := filepath.Join(t.TempDir(), "formation.yaml")
			if err := os.WriteFile(path, []byte(tt.yamlContent), 0644); err != nil {
				t.Fatalf("failed to write temp file: %v", err)
			}

			cfg, err := LoadFormationConfig(path)
			if tt.wantErr {
				if err == nil {
					t.Fatal("expected error, got nil")
				}
				if !strings.Contains(err.Error(), tt.errContains) {
					t.Errorf("expected error containing %q, got %v", tt.errContains, err)
				}
				return
			}
			if err != nil {
				t.Fatalf("unexpected error: %v", err)
			}
			tt.validate(t, cfg)
		})
	}
}

func TestLoadFormationConfig_FileNotFound(t *testing.T) {
	_, err := LoadFormationConfig(filepath.Join(t.TempDir(), "missing.yaml"))
	if err == nil || !strings.Contains(err.Error(), "failed to read") {
		t.Errorf("expected read error, got %v", err)
	}
}

// editorString 模拟编辑器把嵌套结构保存为 JSON 字符串
func editorString(t *testing.T, v any) string {
	t.Helper()
	b, err := json.Marshal(v)
	if err != nil {
		t.Fatal(err)
	}
	return string(b)
}

func TestFromPluginParameters(t *testing.T) {
	slot := func(x, y, state string) string {
		return editorString(t, map[string]string{"x": x, "y": y, "stateId": state})
	}
	guardian := editorString(t, map[string]string{
		"name":            "Guardian",
		"description":     "Line\nBreak",
		"iconIndex":       "81",
		"slots":           editorString(t, []string{slot("0", "3", "11"), slot("4", "3", "")}),
		"requiredMembers": "2",
		"requiredSwitch":  "",
		"mapId":           "0",
	})
	blob := editorString(t, map[string]string{
		"formationList":  editorString(t, []string{guardian}),
		"gridSize":       "32",
		"moveSpeed":      "",
		"battleOffset":   editorString(t, map[string]string{"x": "400", "y": "180"}),
		"menuCommand":    editorString(t, map[string]string{"name": "Tactics", "position": "2", "hidden": "false"}),
		"sounds":         editorString(t, map[string]string{"change": editorString(t, map[string]string{"name": "Decision2", "volume": "", "pitch": "", "pan": "0"})}),
		"unrelatedValue": "12",
	})

	cfg, err := FromPluginParameters([]byte(blob))
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	if cfg.GridSize != 32 {
		t.Errorf("expected grid 32, got %v", cfg.GridSize)
	}
	if cfg.MoveSpeed != DefaultMoveSpeed {
		t.Errorf("empty moveSpeed should fall back to default, got %v", cfg.MoveSpeed)
	}
	f := cfg.FormationList[0]
	if f.Name != "Guardian" || f.Description != "Line\nBreak" || f.IconIndex != 81 {
		t.Errorf("formation decoded incorrectly: %+v", f)
	}
	if len(f.Slots) != 2 || f.Slots[0].StateID != 11 || f.Slots[1].X != "4" || f.Slots[1].StateID != 0 {
		t.Errorf("slots decoded incorrectly: %+v", f.Slots)
	}
	if cfg.BattleOffset != (Point{X: 400, Y: 180}) {
		t.Errorf("battle offset decoded incorrectly: %+v", cfg.BattleOffset)
	}
	if cfg.MenuCommand.Name != "Tactics" || cfg.MenuCommand.Position != 2 || cfg.MenuCommand.Hidden {
		t.Errorf("menu command decoded incorrectly: %+v", cfg.MenuCommand)
	}
	if cfg.Sounds.Change.Name != "Decision2" || cfg.Sounds.Change.Volume != 90 {
		t.Errorf("sound decoded incorrectly: %+v", cfg.Sounds.Change)
	}
}

func TestFromPluginParameters_Errors(t *testing.T) {
	tests := []struct {
		name string
		blob string
		is   error
	}{
		{"malformed json", `{"gridSize":`, params.ErrMalformed},
		{"bad number", `{"gridSize":"big"}`, params.ErrMalformed},
		{"bad formation list", `{"formationList":"{}"}`, params.ErrMalformed},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := FromPluginParameters([]byte(tt.blob))
			if !errors.Is(err, tt.is) {
				t.Errorf("expected %v, got %v", tt.is, err)
			}
		})
	}
}

func TestPluginParameters_RoundTrip(t *testing.T) {
	first, err := ParseFormationConfig([]byte(sampleFormationYAML))
	if err != nil {
		t.Fatal(err)
	}

	blob, err := ToPluginParameters(first)
	if err != nil {
		t.Fatalf("encode failed: %v", err)
	}
	second, err := FromPluginParameters(blob)
	if err != nil {
		t.Fatalf("decode failed: %v", err)
	}

	if len(second.FormationList) != len(first.FormationList) {
		t.Fatalf("formation count changed: %d -> %d", len(first.FormationList), len(second.FormationList))
	}
	for i := range first.FormationList {
		a, b := first.FormationList[i], second.FormationList[i]
		if a.Name != b.Name || a.RequiredMembers != b.RequiredMembers || a.MapID != b.MapID || len(a.Slots) != len(b.Slots) {
			t.Errorf("formation %d changed: %+v -> %+v", i, a, b)
		}
	}
	if first.OverviewOffset != second.OverviewOffset || first.GridSize != second.GridSize {
		t.Error("scalar fields changed in round trip")
	}
	if first.Windows != second.Windows || first.Texts != second.Texts {
		t.Error("window/text settings changed in round trip")
	}
}

func TestParseDatabaseConfig(t *testing.T) {
	tests := []struct {
		name        string
		yamlContent string
		errContains string
	}{
		{
			name: "valid",
			yamlContent: `
initialParty: [1, 2]
actors: [{id: 1, name: Reid}, {id: 2, name: Priscilla}]
states: [{id: 1, name: Dead}, {id: 11, name: Guard, note: "<Slot>"}]
switches: [{id: 3, name: Arena}]
`,
		},
		{"duplicate actor", "actors: [{id: 1}, {id: 1}]", "duplicate actor"},
		{"unknown party member", "initialParty: [9]\nactors: [{id: 1}]", "unknown actor 9"},
		{"zero state id", "states: [{id: 0, name: X}]", "id must be positive"},
		{"duplicate switch", "switches: [{id: 2}, {id: 2}]", "duplicate switch"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			cfg, err := ParseDatabaseConfig([]byte(tt.yamlContent))
			if tt.errContains != "" {
				if err == nil || !strings.Contains(err.Error(), tt.errContains) {
					t.Errorf("expected error containing %q, got %v", tt.errContains, err)
				}
				return
			}
			if err != nil {
				t.Fatalf("unexpected error: %v", err)
			}
			if cfg.MaxBattleMembers != DefaultMaxBattleMembers {
				t.Errorf("expected default max members, got %d", cfg.MaxBattleMembers)
			}
		})
	}
}
