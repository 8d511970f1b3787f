package game

import (
	"testing"

	"github.com/decker502/rpgformation/pkg/config"
)

const testPluginYAML = `
gridSize: 48
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
  - name: Secret
    requiredSwitch: 5
    slots:
      - {x: "size - index", y: "1", stateId: 13}
      - {x: "size - index", y: "1", stateId: 13}
      - {x: "size - index", y: "1", stateId: 13}
      - {x: "size - index", y: "1", stateId: 13}
`

const testDatabaseYAML = `
maxBattleMembers: 4
initialParty: [1, 2]
actors:
  - {id: 1, name: Reid, color: "#4080ff"}
  - {id: 2, name: Priscilla}
  - {id: 3, name: Gale}
  - {id: 4, name: Michelle}
  - {id: 5, name: Spare}
states:
  - {id: 11, name: Guard}
  - {id: 12, name: Cover}
  - {id: 13, name: Hidden}
  - {id: 20, name: Confused, note: "<FormationInvalid>"}
  - {id: 21, name: Panic, note: "<FormationInvalid>"}
  - {id: 22, name: Dazed, note: "<FormationInvalid:false>"}
`

func mustPluginConfig(t *testing.T, yamlText string) *config.FormationPluginConfig {
	t.Helper()
	cfg, err := config.ParseFormationConfig([]byte(yamlText))
	if err != nil {
		t.Fatalf("plugin config: %v", err)
	}
	return cfg
}

func mustDatabase(t *testing.T) *config.DatabaseConfig {
	t.Helper()
	db, err := config.ParseDatabaseConfig([]byte(testDatabaseYAML))
	if err != nil {
		t.Fatalf("database config: %v", err)
	}
	return db
}

// newTestSession 创建两人队伍、三个公式编队的会话
func newTestSession(t *testing.T) *Session {
	t.Helper()
	plugin := mustPluginConfig(t, testPluginYAML)
	registry, err := NewFormationRegistry(plugin, nil)
	if err != nil {
		t.Fatalf("registry: %v", err)
	}
	return NewSession(mustDatabase(t), plugin, registry)
}

// addActor 从数据库中取角色入队
func addActor(t *testing.T, s *Session, id int, name string) *Actor {
	t.Helper()
	a := NewActor(id, name, ParseColor(""))
	if err := s.AddMember(a); err != nil {
		t.Fatalf("add member %d: %v", id, err)
	}
	return a
}

func mustFormation(t *testing.T, s *Session, id int) *FormationDefinition {
	t.Helper()
	def, ok := s.Registry.Get(id)
	if !ok {
		t.Fatalf("formation %d not registered", id)
	}
	return def
}

// fakeGate 固定人数和开关的有效性判断
type fakeGate struct {
	members  int
	switches map[int]bool
}

func (g fakeGate) BattleMemberCount() int { return g.members }
func (g fakeGate) SwitchOn(id int) bool { return g.switches[id] }
