package game

import (
	"errors"
	"fmt"

	"github.com/decker502/rpgformation/internal/formula"
	"github.com/decker502/rpgformation/internal/logger"
	"github.com/decker502/rpgformation/internal/rmmap"
	"github.com/decker502/rpgformation/pkg/config"
)

var (
	// ErrActorNotInLineup 角色不在当前战斗成员中
	ErrActorNotInLineup = errors.New("actor not in battle lineup")
	// ErrSlotOutOfRange 编队的槽位不足以容纳该序号
	ErrSlotOutOfRange = errors.New("formation slot out of range")
	// ErrUnknownFormation 编队 ID 未注册
	ErrUnknownFormation = errors.New("unknown formation")
)

// SlotPosition 槽位的逻辑坐标和占据时附加的状态（0 表示无）
type SlotPosition struct {
	X       float64
	Y       float64
	StateID int
}

// ValidityGate 提供编队有效性判断所需的队伍信息
type ValidityGate interface {
	BattleMemberCount() int
	SwitchOn(switchID int) bool
}

// PositionSource 槽位坐标的来源
type PositionSource struct {
	// GridSize 公式结果的缩放单位
	GridSize float64
	// Map 地图来源编队需要的已加载地图
	Map *rmmap.Map
}

// FormationDefinition 编队定义
type FormationDefinition struct {
	ID              int
	Name            string
	Description     string
	IconIndex       int
	RequiredMembers int // 0 表示不限
	RequiredSwitch  int // 0 表示不限
	SourceMapID     int // 0 表示使用公式

	Slots     []config.SlotConfig
	Positions []SlotPosition

	resolved bool
}

// NewFormationDefinition 从配置创建编队定义（坐标尚未计算）
func NewFormationDefinition(id int, cfg config.FormationConfig) *FormationDefinition {
	slots := make([]config.SlotConfig, len(cfg.Slots))
	copy(slots, cfg.Slots)
	return &FormationDefinition{
		ID:              id,
		Name:            cfg.Name,
		Description:     cfg.Description,
		IconIndex:       cfg.IconIndex,
		RequiredMembers: cfg.RequiredMembers,
		RequiredSwitch:  cfg.RequiredSwitch,
		SourceMapID:     cfg.MapID,
		Slots:           slots,
	}
}

// UsesMap 坐标是否来自地图
func (f *FormationDefinition) UsesMap() bool {
	return f.SourceMapID > 0
}

// Resolved 坐标是否已计算
func (f *FormationDefinition) Resolved() bool {
	return f.resolved
}

// ResolvePositions 计算槽位坐标，原地替换 Positions
//
// 地图来源：备注为非负整数 k 的事件坐标（图块坐标 x 图块尺寸）成为槽位 k 的坐标，
// 槽位 k 保留配置的状态；槽位数量以配置为准，k 超出配置数量的事件被忽略。
// 公式来源：X/Y 公式以 index 和 size 为变量求值后乘以 GridSize。
//
// 每次都从配置重新计算，相同来源重复调用结果不变。
func (f *FormationDefinition) ResolvePositions(src PositionSource) error {
	var (
		positions []SlotPosition
		err       error
	)
	if f.UsesMap() {
		positions, err = f.positionsFromMap(src.Map)
	} else {
		positions, err = f.positionsFromFormulas(src.GridSize)
	}
	if err != nil {
		return fmt.Errorf("formation %d (%s): %w", f.ID, f.Name, err)
	}
	f.Positions = positions
	f.resolved = true
	return nil
}

func (f *FormationDefinition) positionsFromFormulas(gridSize float64) ([]SlotPosition, error) {
	// size 取编队槽位数，与当前队伍人数无关
	size := float64(len(f.Slots))
	positions := make([]SlotPosition, len(f.Slots))
	for i, slot := range f.Slots {
		env := formula.Env{
			"index": float64(i), "i": float64(i),
			"size": size, "n": size,
		}
		x, err := formula.Eval(slot.X, env)
		if err != nil {
			return nil, fmt.Errorf("slot %d x %q: %w", i, slot.X, err)
		}
		y, err := formula.Eval(slot.Y, env)
		if err != nil {
			return nil, fmt.Errorf("slot %d y %q: %w", i, slot.Y, err)
		}
		positions[i] = SlotPosition{X: x * gridSize, Y: y * gridSize, StateID: slot.StateID}
	}
	return positions, nil
}

func (f *FormationDefinition) positionsFromMap(m *rmmap.Map) ([]SlotPosition, error) {
	if m == nil {
		return nil, fmt.Errorf("map %d not loaded", f.SourceMapID)
	}
	if m.ID != f.SourceMapID {
		return nil, fmt.Errorf("expected map %d, got map %d", f.SourceMapID, m.ID)
	}

	events := m.SlotEvents()
	for k, ev := range events {
		if k >= len(f.Slots) {
			logger.Sugar.Warnf("[Formation] %s: map %d event %d marks slot %d beyond %d configured slots, ignored",
				f.Name, m.ID, ev.ID, k, len(f.Slots))
		}
	}

	positions := make([]SlotPosition, len(f.Slots))
	for k, slot := range f.Slots {
		positions[k].StateID = slot.StateID
		ev, ok := events[k]
		if !ok {
			logger.Sugar.Warnf("[Formation] %s: map %d has no event for slot %d", f.Name, m.ID, k)
			continue
		}
		positions[k].X = ev.WorldX()
		positions[k].Y = ev.WorldY()
	}
	return positions, nil
}

// PositionFor 返回角色在当前战斗成员中的序号对应的槽位
//
// 角色不在 lineup 中返回 ErrActorNotInLineup，序号超出槽位返回 ErrSlotOutOfRange。
// 两者都是调用方状态不同步导致的错误，不应被忽略。
func (f *FormationDefinition) PositionFor(actorID int, lineup []int) (SlotPosition, error) {
	index := -1
	for i, id := range lineup {
		if id == actorID {
			index = i
			break
		}
	}
	if index < 0 {
		return SlotPosition{}, fmt.Errorf("formation %s: actor %d: %w", f.Name, actorID, ErrActorNotInLineup)
	}
	if index >= len(f.Positions) {
		return SlotPosition{}, fmt.Errorf("formation %s: index %d of %d slots: %w", f.Name, index, len(f.Positions), ErrSlotOutOfRange)
	}
	return f.Positions[index], nil
}

// IsValidFor 编队对当前队伍是否有效
// 需求人数未设置或等于战斗成员数，且需求开关未设置或已打开
func (f *FormationDefinition) IsValidFor(gate ValidityGate) bool {
	if f.RequiredMembers > 0 && f.RequiredMembers != gate.BattleMemberCount() {
		return false
	}
	if f.RequiredSwitch > 0 && !gate.SwitchOn(f.RequiredSwitch) {
		return false
	}
	return true
}
