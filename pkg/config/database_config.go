package config

import (
	"fmt"
	"os"

	"gopkg.in/yaml.v3"
)

// DefaultMaxBattleMembers 默认战斗成员上限
const DefaultMaxBattleMembers = 4

// DatabaseConfig 游戏数据库（角色、状态、开关）
//
// 配置文件位置: data/database.yaml
type DatabaseConfig struct {
	// MaxBattleMembers 参与战斗的队伍前 N 名成员
	MaxBattleMembers int `yaml:"maxBattleMembers"`

	// InitialParty 新游戏时的队伍（角色 ID，按顺序）
	InitialParty []int `yaml:"initialParty"`

	Actors   []ActorDef  `yaml:"actors"`
	States   []StateDef  `yaml:"states"`
	Switches []SwitchDef `yaml:"switches"`
}

// ActorDef 角色定义
type ActorDef struct {
	ID    int    `yaml:"id"`
	Name  string `yaml:"name"`
	Color string `yaml:"color"` // 占位色块颜色，如 "#4080ff"
}

// StateDef 状态定义
//
// Note 为备注文本，其中的 <Tag> 或 <Tag:value> 会被解析为元数据。
type StateDef struct {
	ID   int    `yaml:"id"`
	Name string `yaml:"name"`
	Note string `yaml:"note"`
}

// SwitchDef 开关定义
type SwitchDef struct {
	ID      int    `yaml:"id"`
	Name    string `yaml:"name"`
	Initial bool   `yaml:"initial"`
}

// LoadDatabaseConfig 加载数据库配置
func LoadDatabaseConfig(path string) (*DatabaseConfig, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("failed to read database config: %w", err)
	}
	return ParseDatabaseConfig(data)
}

// ParseDatabaseConfig 从 YAML 数据解析数据库配置
func ParseDatabaseConfig(data []byte) (*DatabaseConfig, error) {
	var cfg DatabaseConfig
	if err := yaml.Unmarshal(data, &cfg); err != nil {
		return nil, fmt.Errorf("failed to parse database config: %w", err)
	}
	if cfg.MaxBattleMembers == 0 {
		cfg.MaxBattleMembers = DefaultMaxBattleMembers
	}
	if err := cfg.Validate(); err != nil {
		return nil, fmt.Errorf("invalid database config: %w", err)
	}
	return &cfg, nil
}

// Validate 检查 ID 唯一且为正，初始队伍只引用已定义的角色
func (c *DatabaseConfig) Validate() error {
	if c.MaxBattleMembers < 0 {
		return fmt.Errorf("maxBattleMembers must not be negative")
	}

	actors := make(map[int]bool, len(c.Actors))
	for _, a := range c.Actors {
		if a.ID <= 0 {
			return fmt.Errorf("actor %q: id must be positive", a.Name)
		}
		if actors[a.ID] {
			return fmt.Errorf("duplicate actor id %d", a.ID)
		}
		actors[a.ID] = true
	}

	states := make(map[int]bool, len(c.States))
	for _, s := range c.States {
		if s.ID <= 0 {
			return fmt.Errorf("state %q: id must be positive", s.Name)
		}
		if states[s.ID] {
			return fmt.Errorf("duplicate state id %d", s.ID)
		}
		states[s.ID] = true
	}

	switches := make(map[int]bool, len(c.Switches))
	for _, s := range c.Switches {
		if s.ID <= 0 {
			return fmt.Errorf("switch %q: id must be positive", s.Name)
		}
		if switches[s.ID] {
			return fmt.Errorf("duplicate switch id %d", s.ID)
		}
		switches[s.ID] = true
	}

	seen := make(map[int]bool, len(c.InitialParty))
	for _, id := range c.InitialParty {
		if !actors[id] {
			return fmt.Errorf("initialParty references unknown actor %d", id)
		}
		if seen[id] {
			return fmt.Errorf("initialParty lists actor %d twice", id)
		}
		seen[id] = true
	}
	return nil
}
