package scenes

import (
	"testing"
	"testing/fstest"

	"github.com/decker502/rpgformation/internal/rmmap"
	"github.com/decker502/rpgformation/pkg/config"
	"github.com/decker502/rpgformation/pkg/game"
)

const testPluginYAML = `
gridSize: 48
menuCommand: {name: Formation, position: 1}
formationList:
  - name: Default
    slots:
      - {x: "index * 2", y: "3"}
      - {x: "index * 2", y: "3"}
      - {x: "index * 2", y: "3"}
      - {x: "index * 2", y: "3"}
  - name: Guardian
    requiredMembers: 2
    slots:
      - {x: "0", y: "3", stateId: 11}
      - {x: "4", y: "3", stateId: 12}
  - name: Field
    mapId: 2
    slots:
      - {x: "0", y: "0"}
      - {x: "0", y: "0"}
`

const testDatabaseYAML = `
maxBattleMembers: 4
initialParty: [1, 2]
actors:
  - {id: 1, name: Reid}
  - {id: 2, name: Priscilla}
states:
  - {id: 11, name: Guard}
  - {id: 12, name: Cover}
  - {id: 20, name: Confused, note: "<FormationInvalid>"}
`

const testMapJSON = `{"width":17,"height":13,"events":[null,
  {"id":1,"name":"A","note":"0","x":3,"y":5},
  {"id":2,"name":"B","note":"1","x":6,"y":5}]}`

func mapFS() fstest.MapFS {
	return fstest.MapFS{"data/Map002.json": {Data: []byte(testMapJSON)}}
}

func newTestSession(t *testing.T, fsys fstest.MapFS) *game.Session {
	t.Helper()
	plugin, err := config.ParseFormationConfig([]byte(testPluginYAML))
	if err != nil {
		t.Fatalf("plugin config: %v", err)
	}
	db, err := config.ParseDatabaseConfig([]byte(testDatabaseYAML))
	if err != nil {
		t.Fatalf("database config: %v", err)
	}
	registry, err := game.NewFormationRegistry(plugin, rmmap.FSFetcher{FS: fsys, Dir: "data"})
	if err != nil {
		t.Fatalf("registry: %v", err)
	}
	return game.NewSession(db, plugin, registry)
}

// equip 把编队装备到槽 0
func equip(t *testing.T, s *game.Session, id int) {
	t.Helper()
	def, ok := s.Registry.Get(id)
	if !ok {
		t.Fatalf("formation %d not found", id)
	}
	s.Formation.SetEquippedFormation(0, def)
	if err := s.NotifyFormationChanged(); err != nil {
		t.Fatal(err)
	}
}

func assertStates(t *testing.T, a *game.Actor, want ...int) {
	t.Helper()
	got := a.States()
	if len(got) != len(want) {
		t.Fatalf("%s states = %v, want %v", a.Name, got, want)
	}
	for i := range want {
		if got[i] != want[i] {
			t.Fatalf("%s states = %v, want %v", a.Name, got, want)
		}
	}
}
