package modules

import (
	"context"
	"fmt"

	"github.com/decker502/rpgformation/internal/logger"
	"github.com/decker502/rpgformation/pkg/config"
	"github.com/decker502/rpgformation/pkg/game"
	"github.com/decker502/rpgformation/pkg/utils"
	"github.com/hajimehoshi/ebiten/v2"
	"github.com/looplab/fsm"
)

// 编队界面状态
const (
	MenuStateEquipped = "equipped"
	MenuStateOwned    = "owned"
	MenuStateDetail   = "detail"
)

// 编队界面事件
const (
	eventConfirmEquipped = "confirm_equipped"
	eventConfirmOwned    = "confirm_owned"
	eventCancelOwned     = "cancel_owned"
	eventCancelDetail    = "cancel_detail"
)

// NoPending 站位详情中没有待交换的序号
const NoPending = -1

// equippedEntry 已装备窗口的一行
type equippedEntry struct {
	slot int
	def  *game.FormationDefinition
}

// FormationMenuModule 编队界面
//
// 三个面板：
//   - 已装备：确认进入已拥有，Shift 切换当前装备槽，取消关闭界面
//   - 已拥有：确认装备到槽 0 并进入站位详情，取消返回已装备
//   - 站位详情：第一次确认记下待交换序号，第二次确认交换两名成员；
//     有待交换序号时取消只清除序号，否则返回已拥有
//
// 状态切换由 looplab/fsm 驱动，进入某个状态时激活对应窗口，其余窗口停止响应输入。
type FormationMenuModule struct {
	session    *game.Session
	controller *FormationController
	sounds     game.SoundPlayer
	texts      config.TextsConfig

	machine *fsm.FSM

	equipped *ListWindow[equippedEntry]
	owned    *ListWindow[*game.FormationDefinition]
	detail   *ListWindow[*game.Actor]
	help     *ListWindow[string]

	pending int

	onClose func()
}

// NewFormationMenuModule 创建编队界面模块
//
// 参数：
//   - session: 游戏上下文
//   - controller: 显示角色站位的控制器（可为 nil，测试中不需要显示）
//   - sounds: 音效播放（可为 nil）
//   - onClose: 在已装备面板取消时调用
func NewFormationMenuModule(session *game.Session, controller *FormationController, sounds game.SoundPlayer, onClose func()) *FormationMenuModule {
	plugin := session.Plugin
	m := &FormationMenuModule{
		session:    session,
		controller: controller,
		sounds:     sounds,
		texts:      plugin.Texts,
		pending:    NoPending,
		onClose:    onClose,
	}

	m.equipped = NewListWindow(ListWindowOptions[equippedEntry]{
		Title:  plugin.Texts.EquippedTitle,
		Rect:   plugin.Windows.Equipped,
		Render: m.renderEquipped,
	})
	m.owned = NewListWindow(ListWindowOptions[*game.FormationDefinition]{
		Title:  plugin.Texts.OwnedTitle,
		Rect:   plugin.Windows.Owned,
		Render: m.renderOwned,
	})
	m.detail = NewListWindow(ListWindowOptions[*game.Actor]{
		Title:  plugin.Texts.DetailTitle,
		Rect:   plugin.Windows.Detail,
		Render: m.renderDetail,
	})

	m.help = NewListWindow(ListWindowOptions[string]{
		Rect:   plugin.Windows.Help,
		Render: func(s string) string { return s },
	})

	m.equipped.SetHandlers(m.onEquippedOK, m.onEquippedCancel, m.onEquippedShift)
	m.owned.SetHandlers(m.onOwnedOK, m.onOwnedCancel, nil)
	m.detail.SetHandlers(m.onDetailOK, m.onDetailCancel, nil)

	m.machine = fsm.NewFSM(
		MenuStateEquipped,
		fsm.Events{
			{Name: eventConfirmEquipped, Src: []string{MenuStateEquipped}, Dst: MenuStateOwned},
			{Name: eventConfirmOwned, Src: []string{MenuStateOwned}, Dst: MenuStateDetail},
			{Name: eventCancelOwned, Src: []string{MenuStateOwned}, Dst: MenuStateEquipped},
			{Name: eventCancelDetail, Src: []string{MenuStateDetail}, Dst: MenuStateOwned},
		},
		fsm.Callbacks{
			"enter_state": func(_ context.Context, e *fsm.Event) {
				m.activate(e.Dst)
			},
		},
	)

	m.refreshAll()
	m.activate(MenuStateEquipped)
	return m
}

// State 返回当前状态
func (m *FormationMenuModule) State() string {
	return m.machine.Current()
}

// Pending 返回待交换的序号（NoPending 表示没有）
func (m *FormationMenuModule) Pending() int {
	return m.pending
}

// Process 把一个菜单动作交给当前激活的窗口
func (m *FormationMenuModule) Process(action utils.MenuAction) error {
	if action == utils.ActionNone {
		return nil
	}
	_, err := m.activeWindowProcess(func(w processor) (bool, error) { return w.Process(action) })
	return err
}

// ProcessClick 处理点击
func (m *FormationMenuModule) ProcessClick(x, y int) error {
	_, err := m.activeWindowProcess(func(w processor) (bool, error) { return w.ProcessClick(x, y) })
	return err
}

type processor interface {
	Process(action utils.MenuAction) (bool, error)
	ProcessClick(x, y int) (bool, error)
}

func (m *FormationMenuModule) activeWindowProcess(fn func(processor) (bool, error)) (bool, error) {
	switch m.machine.Current() {
	case MenuStateEquipped:
		return fn(m.equipped)
	case MenuStateOwned:
		return fn(m.owned)
	case MenuStateDetail:
		return fn(m.detail)
	}
	return false, nil
}

// SelectOwned 移动已拥有窗口的光标
func (m *FormationMenuModule) SelectOwned(index int) {
	m.owned.Select(index)
}

// SelectDetail 移动站位详情窗口的光标
func (m *FormationMenuModule) SelectDetail(index int) {
	m.detail.Select(index)
}

// SelectEquipped 移动已装备窗口的光标
func (m *FormationMenuModule) SelectEquipped(index int) {
	m.equipped.Select(index)
}

// activate 激活 state 对应的窗口，其余窗口停止响应
func (m *FormationMenuModule) activate(state string) {
	m.equipped.Deactivate()
	m.owned.Deactivate()
	m.detail.Deactivate()

	switch state {
	case MenuStateEquipped:
		m.equipped.Activate()
	case MenuStateOwned:
		m.owned.Activate()
	case MenuStateDetail:
		m.detail.Activate()
	}
	logger.Sugar.Debugf("[FormationMenu] state -> %s", state)
}

func (m *FormationMenuModule) transition(event string) error {
	if err := m.machine.Event(context.Background(), event); err != nil {
		return fmt.Errorf("formation menu event %s: %w", event, err)
	}
	return nil
}

func (m *FormationMenuModule) onEquippedOK(_ int, _ equippedEntry) error {
	m.refreshOwned()
	return m.transition(eventConfirmEquipped)
}

func (m *FormationMenuModule) onEquippedCancel() error {
	m.playSE(m.session.Plugin.Sounds.Cancel)
	if m.onClose != nil {
		m.onClose()
	}
	return nil
}

func (m *FormationMenuModule) onEquippedShift() error {
	if !m.session.Formation.CycleActiveSlot() {
		return nil
	}
	m.playSE(m.session.Plugin.Sounds.Change)
	m.refreshEquipped()
	return m.session.NotifyFormationChanged()
}

func (m *FormationMenuModule) onOwnedOK(_ int, def *game.FormationDefinition) error {
	if m.session.Formation.SetEquippedFormation(0, def) {
		m.playSE(m.session.Plugin.Sounds.Change)
		logger.Sugar.Infof("[FormationMenu] equipped %s", def.Name)
		if err := m.session.NotifyFormationChanged(); err != nil {
			return err
		}
	}
	m.refreshEquipped()
	m.refreshDetail()
	m.clearPending()
	return m.transition(eventConfirmOwned)
}

func (m *FormationMenuModule) onOwnedCancel() error {
	m.playSE(m.session.Plugin.Sounds.Cancel)
	m.refreshEquipped()
	return m.transition(eventCancelOwned)
}

func (m *FormationMenuModule) onDetailOK(index int, actor *game.Actor) error {
	if m.pending == NoPending {
		m.pending = index
		m.highlight(actor.ID)
		return nil
	}
	if m.pending == index {
		m.clearPending()
		return nil
	}

	from := m.pending
	m.clearPending()
	if err := m.session.SwapMembers(from, index); err != nil {
		return err
	}
	m.playSE(m.session.Plugin.Sounds.Swap)
	logger.Sugar.Infof("[FormationMenu] swapped positions %d <-> %d", from, index)
	m.refreshDetail()
	return nil
}

func (m *FormationMenuModule) onDetailCancel() error {
	m.playSE(m.session.Plugin.Sounds.Cancel)
	if m.pending != NoPending {
		m.clearPending()
		return nil
	}
	m.refreshOwned()
	return m.transition(eventCancelDetail)
}

func (m *FormationMenuModule) clearPending() {
	m.pending = NoPending
	m.highlight(0)
}

func (m *FormationMenuModule) highlight(actorID int) {
	if m.controller != nil {
		m.controller.SetHighlighted(actorID)
	}
}

func (m *FormationMenuModule) playSE(se config.SoundEffect) {
	if m.sounds != nil {
		m.sounds.PlaySE(se)
	}
}

func (m *FormationMenuModule) refreshAll() {
	m.refreshEquipped()
	m.refreshOwned()
	m.refreshDetail()
}

func (m *FormationMenuModule) refreshEquipped() {
	state := m.session.Formation
	state.EquippedFormations()

	entries := make([]equippedEntry, 0, game.EquipSlotCapacity)
	for slot := 0; slot < game.EquipSlotCapacity; slot++ {
		entry := equippedEntry{slot: slot}
		if id, ok := state.EquippedID(slot); ok {
			entry.def, _ = m.session.Registry.Get(id)
		}
		entries = append(entries, entry)
	}
	m.equipped.SetItems(entries)
}

func (m *FormationMenuModule) refreshOwned() {
	m.owned.SetItems(m.session.Formation.OwnedFormations())
}

func (m *FormationMenuModule) refreshDetail() {
	m.detail.SetItems(m.session.Party.BattleMembers())
}

func (m *FormationMenuModule) renderEquipped(e equippedEntry) string {
	name := m.texts.EmptySlot
	if e.def != nil {
		name = e.def.Name
	}
	if e.slot == m.session.Formation.CurrentSlot() {
		return "> " + name
	}
	return "  " + name
}

func (m *FormationMenuModule) renderOwned(def *game.FormationDefinition) string {
	if def.RequiredMembers > 0 && m.texts.RequiredMembers != "" {
		return def.Name + " " + fmt.Sprintf(m.texts.RequiredMembers, def.RequiredMembers)
	}
	return def.Name
}

func (m *FormationMenuModule) renderDetail(actor *game.Actor) string {
	label := actor.Name
	index := m.session.Party.IndexOf(actor.ID)
	if index == m.pending {
		label = "* " + label
	}
	return fmt.Sprintf("%d %s", index+1, label)
}

// helpText 返回帮助窗口的文字：已拥有面板显示光标所在编队的说明
func (m *FormationMenuModule) helpText() string {
	switch m.machine.Current() {
	case MenuStateOwned:
		if i := m.owned.Cursor(); i >= 0 {
			if def := m.owned.Items()[i]; def.Description != "" {
				return def.Description
			}
		}
		return m.texts.HelpOwned
	case MenuStateDetail:
		return m.texts.HelpDetail
	default:
		return m.texts.HelpEquipped
	}
}

// refreshHelp 更新帮助栏文字，没有文字时隐藏帮助栏
func (m *FormationMenuModule) refreshHelp() {
	text := m.helpText()
	m.help.SetItems([]string{text})
	m.help.SetVisible(text != "")
}

// Draw 绘制三个面板、帮助栏和角色
func (m *FormationMenuModule) Draw(screen *ebiten.Image) {
	m.equipped.Draw(screen)
	m.owned.Draw(screen)
	m.detail.Draw(screen)

	m.refreshHelp()
	m.help.Draw(screen)

	if m.controller != nil {
		m.controller.Draw(screen)
	}
}
