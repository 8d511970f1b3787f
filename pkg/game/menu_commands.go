package game

import "github.com/decker502/rpgformation/pkg/config"

// MenuSymbolFormation 编队命令的标识
const MenuSymbolFormation = "formation"

// MenuCommand 主菜单命令
type MenuCommand struct {
	Name    string
	Symbol  string
	Enabled bool
}

// BuildMenuCommands 在基础命令列表中插入编队命令
//
// 参数：
//   - base: 原有命令
//   - cfg: 插入位置和名称；Position 越界或为负时追加到末尾
//   - enabled: 编队命令是否可选（队伍为空时不可选）
//
// 返回：
//   - 新的命令列表，不修改 base
func BuildMenuCommands(base []MenuCommand, cfg config.MenuCommandConfig, enabled bool) []MenuCommand {
	out := make([]MenuCommand, 0, len(base)+1)
	out = append(out, base...)
	if cfg.Hidden {
		return out
	}

	cmd := MenuCommand{Name: cfg.Name, Symbol: MenuSymbolFormation, Enabled: enabled}
	pos := cfg.Position
	if pos < 0 || pos > len(out) {
		pos = len(out)
	}
	out = append(out, MenuCommand{})
	copy(out[pos+1:], out[pos:])
	out[pos] = cmd
	return out
}
