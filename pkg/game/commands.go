package game

import (
	"fmt"

	"github.com/decker502/rpgformation/internal/logger"
	"github.com/decker502/rpgformation/internal/params"
)

// 脚本命令名称
const (
	CommandStartFormationScene   = "StartFormationScene"
	CommandChangeEquipFormations = "ChangeEquipFormations"
	CommandChangeFormation       = "ChangeFormation"
)

// commandSchemas 命令参数的类型描述
var commandSchemas = map[string]params.Schema{
	CommandStartFormationScene:   {Root: params.Fields{}},
	CommandChangeEquipFormations: {Root: params.Fields{"formationId": "number"}},
	CommandChangeFormation:       {Root: params.Fields{"slotIndex": "number"}},
}

// SceneOpener 打开编队界面
type SceneOpener interface {
	OpenFormationScene() error
}

// Commands 游戏事件可调用的编队命令
type Commands struct {
	session *Session
	opener  SceneOpener
}

// NewCommands 创建命令集（opener 可为 nil，此时 StartFormationScene 返回错误）
func NewCommands(session *Session, opener SceneOpener) *Commands {
	return &Commands{session: session, opener: opener}
}

// StartFormationScene 打开编队界面
func (c *Commands) StartFormationScene() error {
	if c.opener == nil {
		return fmt.Errorf("no scene opener registered")
	}
	return c.opener.OpenFormationScene()
}

// ChangeEquipFormations 直接设置装备槽 0
// formationID 为负数时清空该槽
func (c *Commands) ChangeEquipFormations(formationID int) error {
	var def *FormationDefinition
	if formationID >= 0 {
		var ok bool
		if def, ok = c.session.Registry.Get(formationID); !ok {
			return fmt.Errorf("change equip formation %d: %w", formationID, ErrUnknownFormation)
		}
	}
	if !c.session.Formation.SetEquippedFormation(0, def) {
		return nil
	}
	logger.Sugar.Infof("[Commands] equipped slot 0 -> %d", formationID)
	return c.session.NotifyFormationChanged()
}

// ChangeFormation 切换当前装备槽，战斗中会重新绑定槽位状态
func (c *Commands) ChangeFormation(slotIndex int) error {
	if !c.session.Formation.SelectActiveSlot(slotIndex) {
		return nil
	}
	logger.Sugar.Infof("[Commands] active formation slot -> %d", slotIndex)
	return c.session.NotifyFormationChanged()
}

// Dispatch 按名称执行命令，参数为编辑器格式的字符串
func (c *Commands) Dispatch(name string, args map[string]string) error {
	schema, ok := commandSchemas[name]
	if !ok {
		return fmt.Errorf("unknown command %q", name)
	}
	values, err := params.ParseStrings(args, schema)
	if err != nil {
		return fmt.Errorf("command %s: %w", name, err)
	}

	switch name {
	case CommandStartFormationScene:
		return c.StartFormationScene()
	case CommandChangeEquipFormations:
		return c.ChangeEquipFormations(intArg(values, "formationId"))
	case CommandChangeFormation:
		return c.ChangeFormation(intArg(values, "slotIndex"))
	}
	return nil
}

func intArg(values map[string]any, key string) int {
	if f, ok := values[key].(float64); ok {
		return int(f)
	}
	return 0
}
