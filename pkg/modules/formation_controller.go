package modules

import (
	"fmt"

	"github.com/decker502/rpgformation/internal/logger"
	"github.com/decker502/rpgformation/pkg/components"
	"github.com/decker502/rpgformation/pkg/config"
	"github.com/decker502/rpgformation/pkg/ecs"
	"github.com/decker502/rpgformation/pkg/game"
	"github.com/decker502/rpgformation/pkg/systems"
	"github.com/hajimehoshi/ebiten/v2"
)

// DisplayMode 决定角色显示坐标使用哪一组偏移
type DisplayMode int

const (
	// ModeMenu 编队界面概览
	ModeMenu DisplayMode = iota
	// ModeBattle 战斗画面
	ModeBattle
)

// FormationController 编队控制器
//
// 为每个战斗成员维护一个 ECS 实体（ActorBinding + Position + FormationMove + Sprite），
// 编队或站位变化时把实体移动到新槽位，每帧把逻辑坐标加上场景偏移写入显示坐标。
//
// 绑定按需创建：成员第一次出现时才创建实体，已有的绑定不会重建，
// 以免打断正在进行的移动。
type FormationController struct {
	entityManager *ecs.EntityManager
	moveSystem    *systems.FormationMoveSystem
	renderSystem  *systems.SpriteRenderSystem

	session *game.Session

	// actor ID -> 实体
	bindings map[int]ecs.EntityID

	offsets map[DisplayMode]config.Point
	speed   float64

	// 上次同步时的 Session.FormationVersion
	version int
}

// NewFormationController 创建控制器，并把当前战斗成员直接放到槽位上（无移动过程）
//
// 参数：
//   - em: 实体管理器（场景拥有）
//   - session: 游戏上下文
//
// 返回：
//   - 控制器
//   - error: 计算槽位失败（队伍与编队不同步）
func NewFormationController(em *ecs.EntityManager, session *game.Session) (*FormationController, error) {
	plugin := session.Plugin
	c := &FormationController{
		entityManager: em,
		moveSystem:    systems.NewFormationMoveSystem(em),
		renderSystem:  systems.NewSpriteRenderSystem(em),
		session:       session,
		bindings:      make(map[int]ecs.EntityID),
		offsets: map[DisplayMode]config.Point{
			ModeMenu:   plugin.OverviewOffset,
			ModeBattle: plugin.BattleOffset,
		},
		speed:   plugin.MoveSpeed,
		version: session.FormationVersion(),
	}
	if c.speed <= 0 {
		c.speed = systems.DefaultFormationMoveSpeed
	}

	c.SyncMembers()
	if err := c.ChangeFormation(session.Formation.CurrentFormation(), true); err != nil {
		return nil, err
	}
	return c, nil
}

// SyncMembers 为新的战斗成员创建绑定，销毁已离开成员的绑定
// 新绑定直接放到当前编队的槽位，已有绑定保持不变
func (c *FormationController) SyncMembers() {
	members := c.session.Party.BattleMembers()
	present := make(map[int]bool, len(members))
	formation := c.session.Formation.CurrentFormation()
	lineup := c.session.Party.Lineup()

	for _, actor := range members {
		present[actor.ID] = true
		if _, ok := c.bindings[actor.ID]; ok {
			continue
		}
		id := c.createBinding(actor)
		c.bindings[actor.ID] = id
		c.placeAtSlot(id, actor.ID, formation, lineup)
		logger.Sugar.Debugf("[FormationController] bound actor %d (%s)", actor.ID, actor.Name)
	}

	for actorID, id := range c.bindings {
		if present[actorID] {
			continue
		}
		c.entityManager.DestroyEntity(id)
		delete(c.bindings, actorID)
		logger.Sugar.Debugf("[FormationController] released actor %d", actorID)
	}
	c.entityManager.RemoveMarkedEntities()
}

func (c *FormationController) createBinding(actor *game.Actor) ecs.EntityID {
	id := c.entityManager.CreateEntity()
	ecs.AddComponent(c.entityManager, id, &components.ActorBindingComponent{ActorID: actor.ID})
	ecs.AddComponent(c.entityManager, id, &components.PositionComponent{})
	ecs.AddComponent(c.entityManager, id, &components.FormationMoveComponent{
		State: components.MoveIdle,
		Speed: c.speed,
	})
	ecs.AddComponent(c.entityManager, id, &components.SpriteComponent{
		Label: actor.Name,
		Color: actor.Color,
	})
	return id
}

// placeAtSlot 把刚创建的绑定跳到角色的槽位
// 槽位不足时留在原点，由随后的 ChangeFormation 报告错误
func (c *FormationController) placeAtSlot(id ecs.EntityID, actorID int, formation *game.FormationDefinition, lineup []int) {
	if formation == nil {
		return
	}
	slot, err := formation.PositionFor(actorID, lineup)
	if err != nil {
		logger.Sugar.Debugf("[FormationController] actor %d has no slot in %s: %v", actorID, formation.Name, err)
		return
	}
	c.moveSystem.FastMove(id, slot.X, slot.Y)
}

// ChangeFormation 把所有战斗成员移动到 formation 的槽位
//
// fast 为 true 时直接跳到目标点。只要有一个成员还没有绑定，
// 本次调用整体放弃（不报错，也不移动任何成员），等下一次同步后再移动。
//
// 返回：
//   - error: 成员不在队伍中或槽位不足
func (c *FormationController) ChangeFormation(formation *game.FormationDefinition, fast bool) error {
	if formation == nil {
		return nil
	}
	lineup := c.session.Party.Lineup()
	for _, actorID := range lineup {
		if _, ok := c.bindings[actorID]; !ok {
			logger.Sugar.Debugf("[FormationController] actor %d not bound yet, skip %s", actorID, formation.Name)
			return nil
		}
	}

	for _, actorID := range lineup {
		slot, err := formation.PositionFor(actorID, lineup)
		if err != nil {
			return fmt.Errorf("failed to place actor %d: %w", actorID, err)
		}
		id := c.bindings[actorID]
		if fast {
			c.moveSystem.FastMove(id, slot.X, slot.Y)
		} else {
			c.moveSystem.StartMove(id, slot.X, slot.Y)
		}
	}
	return nil
}

// Refresh 队伍或编队变化后重新同步绑定并开始移动
// 未变化时不做任何事
func (c *FormationController) Refresh() error {
	v := c.session.FormationVersion()
	if v == c.version {
		return nil
	}
	c.version = v
	c.SyncMembers()
	return c.ChangeFormation(c.session.Formation.CurrentFormation(), false)
}

// Update 每帧调用：同步变化、推进移动、写入显示坐标
func (c *FormationController) Update(mode DisplayMode) error {
	if err := c.Refresh(); err != nil {
		return err
	}
	c.moveSystem.Update()

	offset := c.offsets[mode]
	for _, id := range c.bindings {
		pos, ok := ecs.GetComponent[*components.PositionComponent](c.entityManager, id)
		if !ok {
			continue
		}
		sprite, ok := ecs.GetComponent[*components.SpriteComponent](c.entityManager, id)
		if !ok {
			continue
		}
		sprite.DisplayX = pos.X + offset.X
		sprite.DisplayY = pos.Y + offset.Y
	}
	return nil
}

// Draw 绘制所有绑定的角色
func (c *FormationController) Draw(screen *ebiten.Image) {
	c.renderSystem.Draw(screen)
}

// SetHighlighted 设置角色高亮（待交换标记），actorID 为 0 时清除全部
func (c *FormationController) SetHighlighted(actorID int) {
	for boundID, id := range c.bindings {
		sprite, ok := ecs.GetComponent[*components.SpriteComponent](c.entityManager, id)
		if !ok {
			continue
		}
		sprite.Highlighted = actorID != 0 && boundID == actorID
	}
}

// IsBound 角色是否已有绑定
func (c *FormationController) IsBound(actorID int) bool {
	_, ok := c.bindings[actorID]
	return ok
}

// IsMoving 是否有角色仍在移动
func (c *FormationController) IsMoving() bool {
	for _, id := range c.bindings {
		if c.moveSystem.IsMoving(id) {
			return true
		}
	}
	return false
}

// LogicalPosition 返回角色的逻辑坐标
func (c *FormationController) LogicalPosition(actorID int) (x, y float64, ok bool) {
	id, bound := c.bindings[actorID]
	if !bound {
		return 0, 0, false
	}
	pos, found := ecs.GetComponent[*components.PositionComponent](c.entityManager, id)
	if !found {
		return 0, 0, false
	}
	return pos.X, pos.Y, true
}

// DisplayPosition 返回角色最近一次 Update 写入的显示坐标
func (c *FormationController) DisplayPosition(actorID int) (x, y float64, ok bool) {
	id, bound := c.bindings[actorID]
	if !bound {
		return 0, 0, false
	}
	sprite, found := ecs.GetComponent[*components.SpriteComponent](c.entityManager, id)
	if !found {
		return 0, 0, false
	}
	return sprite.DisplayX, sprite.DisplayY, true
}
