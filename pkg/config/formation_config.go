package config

import (
	"fmt"
	"os"

	"github.com/decker502/rpgformation/internal/params"
	"gopkg.in/yaml.v3"
)

const (
	// DefaultGridSize 坐标公式的默认网格单位（像素）
	DefaultGridSize = 48.0
	// DefaultMoveSpeed 编队移动默认速度（像素/帧）
	DefaultMoveSpeed = 8.0
	// DefaultInvalidStateTag 使编队失效的状态备注标签
	DefaultInvalidStateTag = "FormationInvalid"
	// DefaultMenuCommandName 主菜单中编队命令的默认名称
	DefaultMenuCommandName = "Formation"
)

// FormationPluginConfig 编队插件配置
//
// 可以从 YAML 文件加载（LoadFormationConfig），
// 也可以从编辑器保存的插件参数 JSON 解码（FromPluginParameters）。
//
// 配置文件位置: data/formation.yaml
type FormationPluginConfig struct {
	// FormationList 编队定义，列表下标即编队 ID（ID 0 为默认编队）
	FormationList []FormationConfig `yaml:"formationList"`

	// GridSize 坐标公式结果乘以的网格单位
	GridSize float64 `yaml:"gridSize"`

	// MoveSpeed 角色向槽位移动的速度（像素/帧）
	MoveSpeed float64 `yaml:"moveSpeed"`

	// OverviewOffset 编队界面中的显示偏移
	OverviewOffset Point `yaml:"overviewOffset"`

	// BattleOffset 战斗中的显示偏移
	BattleOffset Point `yaml:"battleOffset"`

	// InvalidStateTag 状态备注中使编队失效的标签名
	InvalidStateTag string `yaml:"invalidStateTag"`

	MenuCommand MenuCommandConfig `yaml:"menuCommand"`
	Texts       TextsConfig       `yaml:"texts"`
	Windows     WindowsConfig     `yaml:"windows"`
	Sounds      SoundsConfig      `yaml:"sounds"`
}

// FormationConfig 单个编队的配置
type FormationConfig struct {
	Name        string `yaml:"name"`
	Description string `yaml:"description"`
	IconIndex   int    `yaml:"iconIndex"`

	// Slots 每个槽位的坐标公式和附加状态
	Slots []SlotConfig `yaml:"slots"`

	// RequiredMembers 需要的战斗成员数，0 表示不限
	RequiredMembers int `yaml:"requiredMembers"`

	// RequiredSwitch 需要打开的开关 ID，0 表示不限
	RequiredSwitch int `yaml:"requiredSwitch"`

	// MapID 从该地图的事件读取坐标，0 表示使用公式
	MapID int `yaml:"mapId"`
}

// SlotConfig 槽位配置
//
// X/Y 是坐标公式，可引用 index（槽位序号）和 size（槽位总数），
// 计算结果乘以 GridSize 得到像素坐标。
type SlotConfig struct {
	X       string `yaml:"x"`
	Y       string `yaml:"y"`
	StateID int    `yaml:"stateId"`
}

// Point 二维偏移
type Point struct {
	X float64 `yaml:"x"`
	Y float64 `yaml:"y"`
}

// MenuCommandConfig 主菜单命令插入配置
type MenuCommandConfig struct {
	Name string `yaml:"name"`
	// Position 插入位置，负数表示追加到末尾
	Position int `yaml:"position"`
	// Hidden 为 true 时不在主菜单显示
	Hidden bool `yaml:"hidden"`
}

// TextsConfig 界面文字
type TextsConfig struct {
	EquippedTitle   string `yaml:"equippedTitle"`
	OwnedTitle      string `yaml:"ownedTitle"`
	DetailTitle     string `yaml:"detailTitle"`
	EmptySlot       string `yaml:"emptySlot"`
	RequiredMembers string `yaml:"requiredMembers"` // fmt 格式，如 "%d members"
	HelpEquipped    string `yaml:"helpEquipped"`
	HelpOwned       string `yaml:"helpOwned"`
	HelpDetail      string `yaml:"helpDetail"`
}

// WindowsConfig 编队界面各窗口的位置和尺寸
type WindowsConfig struct {
	Equipped WindowRect `yaml:"equipped"`
	Owned    WindowRect `yaml:"owned"`
	Detail   WindowRect `yaml:"detail"`
	Help     WindowRect `yaml:"help"`
}

// WindowRect 窗口矩形
type WindowRect struct {
	X      int `yaml:"x"`
	Y      int `yaml:"y"`
	Width  int `yaml:"width"`
	Height int `yaml:"height"`
	Cols   int `yaml:"cols"`
}

// SoundsConfig 编队界面音效
type SoundsConfig struct {
	Change SoundEffect `yaml:"change"`
	Swap   SoundEffect `yaml:"swap"`
	Cancel SoundEffect `yaml:"cancel"`
}

// SoundEffect 音效定义，Name 为空表示不播放
type SoundEffect struct {
	Name   string  `yaml:"name"`
	Volume float64 `yaml:"volume"` // 0-100
	Pitch  float64 `yaml:"pitch"`  // 50-150
	Pan    float64 `yaml:"pan"`    // -100-100
}

// FormationSchema 插件参数的类型描述
var FormationSchema = params.Schema{
	Root: params.Fields{
		"formationList":   "struct<Formation>[]",
		"gridSize":        "number",
		"moveSpeed":       "number",
		"overviewOffset":  "struct<Point>",
		"battleOffset":    "struct<Point>",
		"invalidStateTag": "string",
		"menuCommand":     "struct<MenuCommand>",
		"texts":           "struct<Texts>",
		"windows":         "struct<Windows>",
		"sounds":          "struct<Sounds>",
	},
	Structs: map[string]params.Fields{
		"Formation": {
			"name":            "string",
			"description":     "multiline_string",
			"iconIndex":       "icon",
			"slots":           "struct<Slot>[]",
			"requiredMembers": "number",
			"requiredSwitch":  "switch",
			"mapId":           "number",
		},
		"Slot": {
			"x":       "string",
			"y":       "string",
			"stateId": "state",
		},
		"Point": {
			"x": "number",
			"y": "number",
		},
		"MenuCommand": {
			"name":     "string",
			"position": "number",
			"hidden":   "boolean",
		},
		"Texts": {
			"equippedTitle":   "string",
			"ownedTitle":      "string",
			"detailTitle":     "string",
			"emptySlot":       "string",
			"requiredMembers": "string",
			"helpEquipped":    "string",
			"helpOwned":       "string",
			"helpDetail":      "string",
		},
		"Windows": {
			"equipped": "struct<Window>",
			"owned":    "struct<Window>",
			"detail":   "struct<Window>",
			"help":     "struct<Window>",
		},
		"Window": {
			"x":      "number",
			"y":      "number",
			"width":  "number",
			"height": "number",
			"cols":   "number",
		},
		"Sounds": {
			"change": "struct<Sound>",
			"swap":   "struct<Sound>",
			"cancel": "struct<Sound>",
		},
		"Sound": {
			"name":   "file",
			"volume": "number",
			"pitch":  "number",
			"pan":    "number",
		},
	},
}

// LoadFormationConfig 从 YAML 文件加载编队配置
//
// 参数:
//   - path: 配置文件路径（如 "data/formation.yaml"）
//
// 返回:
//   - *FormationPluginConfig: 已填充默认值并通过验证的配置
//   - error: 读取、解析或验证失败
func LoadFormationConfig(path string) (*FormationPluginConfig, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("failed to read formation config: %w", err)
	}
	return ParseFormationConfig(data)
}

// ParseFormationConfig 从 YAML 数据解析编队配置
func ParseFormationConfig(data []byte) (*FormationPluginConfig, error) {
	var cfg FormationPluginConfig
	if err := yaml.Unmarshal(data, &cfg); err != nil {
		return nil, fmt.Errorf("failed to parse formation config: %w", err)
	}
	cfg.applyDefaults()
	if err := cfg.Validate(); err != nil {
		return nil, fmt.Errorf("invalid formation config: %w", err)
	}
	return &cfg, nil
}

// FromPluginParameters 从插件参数 JSON 解码编队配置
//
// 参数以编辑器格式保存：顶层为字符串值的对象，嵌套结构和数组再次编码为 JSON 字符串。
// 未知类型标签或格式错误都是致命错误。
func FromPluginParameters(raw []byte) (*FormationPluginConfig, error) {
	values, err := params.Parse(raw, FormationSchema)
	if err != nil {
		return nil, fmt.Errorf("failed to decode plugin parameters: %w", err)
	}

	// 借助 YAML 把通用结构映射到带标签的配置结构
	bridge, err := yaml.Marshal(values)
	if err != nil {
		return nil, fmt.Errorf("failed to re-encode plugin parameters: %w", err)
	}
	return ParseFormationConfig(bridge)
}

// ToPluginParameters 将配置编码为插件参数 JSON（FromPluginParameters 的逆操作）
func ToPluginParameters(cfg *FormationPluginConfig) ([]byte, error) {
	data, err := yaml.Marshal(cfg)
	if err != nil {
		return nil, fmt.Errorf("failed to encode formation config: %w", err)
	}
	var values map[string]any
	if err := yaml.Unmarshal(data, &values); err != nil {
		return nil, fmt.Errorf("failed to encode formation config: %w", err)
	}
	return params.Encode(values)
}

// applyDefaults 为未设置的字段填充默认值
func (c *FormationPluginConfig) applyDefaults() {
	if c.GridSize == 0 {
		c.GridSize = DefaultGridSize
	}
	if c.MoveSpeed == 0 {
		c.MoveSpeed = DefaultMoveSpeed
	}
	if c.InvalidStateTag == "" {
		c.InvalidStateTag = DefaultInvalidStateTag
	}
	if c.MenuCommand.Name == "" {
		c.MenuCommand.Name = DefaultMenuCommandName
	}

	t := &c.Texts
	setDefault(&t.EquippedTitle, "Equipped")
	setDefault(&t.OwnedTitle, "Formations")
	setDefault(&t.DetailTitle, "Positions")
	setDefault(&t.EmptySlot, "------")
	setDefault(&t.RequiredMembers, "Requires %d members")

	w, def := &c.Windows, DefaultWindows()
	defaultRect(&w.Equipped, def.Equipped)
	defaultRect(&w.Owned, def.Owned)
	defaultRect(&w.Detail, def.Detail)
	defaultRect(&w.Help, def.Help)

	for _, s := range []*SoundEffect{&c.Sounds.Change, &c.Sounds.Swap, &c.Sounds.Cancel} {
		if s.Name != "" && s.Volume == 0 {
			s.Volume = 90
		}
		if s.Name != "" && s.Pitch == 0 {
			s.Pitch = 100
		}
	}
}

func setDefault(field *string, value string) {
	if *field == "" {
		*field = value
	}
}

func defaultRect(r *WindowRect, def WindowRect) {
	if r.Width == 0 && r.Height == 0 {
		*r = def
	}
	if r.Cols <= 0 {
		r.Cols = 1
	}
}

// Validate 验证配置有效性
//
// 检查：
//   - 至少定义一个编队（编队 0 是自愈时的默认编队）
//   - 每个编队至少有一个槽位，坐标公式非空
//   - 需求人数、开关 ID、地图 ID 不为负
//   - 网格单位和移动速度为正
func (c *FormationPluginConfig) Validate() error {
	if len(c.FormationList) == 0 {
		return fmt.Errorf("formationList must define at least one formation")
	}
	if c.GridSize <= 0 {
		return fmt.Errorf("gridSize must be positive, got %v", c.GridSize)
	}
	if c.MoveSpeed <= 0 {
		return fmt.Errorf("moveSpeed must be positive, got %v", c.MoveSpeed)
	}
	for id, f := range c.FormationList {
		if f.RequiredMembers < 0 || f.RequiredSwitch < 0 || f.MapID < 0 {
			return fmt.Errorf("formation %d (%s): negative requiredMembers/requiredSwitch/mapId", id, f.Name)
		}
		// 地图编队同样以 slots 的长度为槽位数
		if len(f.Slots) == 0 {
			return fmt.Errorf("formation %d (%s): no slots", id, f.Name)
		}
		for i, s := range f.Slots {
			if f.MapID == 0 && (s.X == "" || s.Y == "") {
				return fmt.Errorf("formation %d (%s) slot %d: empty coordinate formula", id, f.Name, i)
			}
			if s.StateID < 0 {
				return fmt.Errorf("formation %d (%s) slot %d: negative stateId", id, f.Name, i)
			}
		}
	}
	return nil
}
