package modules

import (
	"testing"

	"github.com/decker502/rpgformation/pkg/components"
	"github.com/decker502/rpgformation/pkg/config"
	"github.com/decker502/rpgformation/pkg/ecs"
	"github.com/decker502/rpgformation/pkg/game"
)

const testPluginYAML = `
gridSize: 48
moveSpeed: 8
overviewOffset: {x: 100, y: 50}
battleOffset: {x: 10, y: 20}
texts:
  emptySlot: "(empty)"
  requiredMembers: "[%d]"
sounds:
  change: {name: Decision}
  swap: {name: Swap}
  cancel: {name: Cancel}
formationList:
  - name: Default
    slots:
      - {x: "index * 2", y: "3"}
      - {x: "index * 2", y: "3"}
      - {x: "index * 2", y: "3"}
      - {x: "index * 2", y: "3"}
  - name: Guardian
    requiredMembers: 2
    description: Two guards
    slots:
      - {x: "0", y: "3", stateId: 11}
      - {x: "4", y: "3", stateId: 12}
  - name: Secret
    requiredSwitch: 5
    slots:
      - {x: "1", y: "1"}
      - {x: "2", y: "1"}
      - {x: "3", y: "1"}
      - {x: "4", y: "1"}
`

const testDatabaseYAML = `
maxBattleMembers: 4
initialParty: [1, 2]
actors:
  - {id: 1, name: Reid}
  - {id: 2, name: Priscilla}
  - {id: 3, name: Gale}
states:
  - {id: 11, name: Guard}
  - {id: 12, name: Cover}
`

func newTestSession(t *testing.T) *game.Session {
	t.Helper()
	plugin, err := config.ParseFormationConfig([]byte(testPluginYAML))
	if err != nil {
		t.Fatalf("plugin config: %v", err)
	}
	db, err := config.ParseDatabaseConfig([]byte(testDatabaseYAML))
	if err != nil {
		t.Fatalf("database config: %v", err)
	}
	registry, err := game.NewFormationRegistry(plugin, nil)
	if err != nil {
		t.Fatalf("registry: %v", err)
	}
	return game.NewSession(db, plugin, registry)
}

func newTestController(t *testing.T, s *game.Session) *FormationController {
	t.Helper()
	c, err := NewFormationController(ecs.NewEntityManager(), s)
	if err != nil {
		t.Fatalf("NewFormationController: %v", err)
	}
	return c
}

// settle 推进直到所有角色停止移动
func settle(t *testing.T, c *FormationController, mode DisplayMode) {
	t.Helper()
	for i := 0; i < 1000; i++ {
		if err := c.Update(mode); err != nil {
			t.Fatalf("Update: %v", err)
		}
		if !c.IsMoving() {
			return
		}
	}
	t.Fatal("actors still moving after 1000 frames")
}

func assertLogical(t *testing.T, c *FormationController, actorID int, wantX, wantY float64) {
	t.Helper()
	x, y, ok := c.LogicalPosition(actorID)
	if !ok {
		t.Fatalf("actor %d not bound", actorID)
	}
	if x != wantX || y != wantY {
		t.Errorf("actor %d at (%v, %v), want (%v, %v)", actorID, x, y, wantX, wantY)
	}
}

func spriteOf(t *testing.T, c *FormationController, actorID int) *components.SpriteComponent {
	t.Helper()
	sprite, ok := ecs.GetComponent[*components.SpriteComponent](c.entityManager, c.bindings[actorID])
	if !ok {
		t.Fatalf("actor %d has no sprite", actorID)
	}
	return sprite
}

// fakeSounds 记录播放的音效名
type fakeSounds struct {
	played []string
}

func (f *fakeSounds) PlaySE(se config.SoundEffect) bool {
	if se.Name == "" {
		return false
	}
	f.played = append(f.played, se.Name)
	return true
}
