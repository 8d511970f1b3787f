package systems

import (
	"math"

	"github.com/decker502/rpgformation/pkg/components"
	"github.com/decker502/rpgformation/pkg/ecs"
)

// DefaultFormationMoveSpeed 默认每帧移动距离（像素）
const DefaultFormationMoveSpeed = 8.0

// FormationMoveSystem 将角色锚点匀速移动到编队槽位
//
// 每帧沿当前位置指向目标的直线前进 Speed 像素（按方向角分解到 X/Y 轴），
// 任一轴越过目标时单独钳制到目标值，两轴都等于目标时进入 Idle。
type FormationMoveSystem struct {
	entityManager *ecs.EntityManager
}

// NewFormationMoveSystem 创建编队移动系统
func NewFormationMoveSystem(em *ecs.EntityManager) *FormationMoveSystem {
	return &FormationMoveSystem{entityManager: em}
}

// StartMove 开始向目标点移动
// 目标与当前位置相同时，下一帧即完成（零长度移动）
func (s *FormationMoveSystem) StartMove(id ecs.EntityID, targetX, targetY float64) {
	move, ok := ecs.GetComponent[*components.FormationMoveComponent](s.entityManager, id)
	if !ok {
		return
	}
	move.TargetX = targetX
	move.TargetY = targetY
	move.State = components.MoveMoving
}

// FastMove 直接跳到目标点，不播放移动过程
func (s *FormationMoveSystem) FastMove(id ecs.EntityID, targetX, targetY float64) {
	move, ok := ecs.GetComponent[*components.FormationMoveComponent](s.entityManager, id)
	if !ok {
		return
	}
	pos, ok := ecs.GetComponent[*components.PositionComponent](s.entityManager, id)
	if !ok {
		return
	}
	move.TargetX = targetX
	move.TargetY = targetY
	pos.X = targetX
	pos.Y = targetY
	move.State = components.MoveIdle
}

// IsMoving 返回实体是否仍在移动
func (s *FormationMoveSystem) IsMoving(id ecs.EntityID) bool {
	move, ok := ecs.GetComponent[*components.FormationMoveComponent](s.entityManager, id)
	return ok && move.State == components.MoveMoving
}

// Update 推进所有移动中的实体一帧
func (s *FormationMoveSystem) Update() {
	entities := ecs.GetEntitiesWith2[
		*components.FormationMoveComponent,
		*components.PositionComponent,
	](s.entityManager)

	for _, id := range entities {
		move, _ := ecs.GetComponent[*components.FormationMoveComponent](s.entityManager, id)
		pos, _ := ecs.GetComponent[*components.PositionComponent](s.entityManager, id)
		if move.State != components.MoveMoving {
			continue
		}
		stepMove(pos, move)
	}
}

// stepMove 单步推进
func stepMove(pos *components.PositionComponent, move *components.FormationMoveComponent) {
	dx := move.TargetX - pos.X
	dy := move.TargetY - pos.Y

	speed := move.Speed
	if speed <= 0 {
		speed = DefaultFormationMoveSpeed
	}

	// 剩余距离不足一步：直接到位，避免浮点误差停在目标前
	if math.Hypot(dx, dy) <= speed {
		pos.X = move.TargetX
		pos.Y = move.TargetY
		move.State = components.MoveIdle
		return
	}

	angle := math.Atan2(dy, dx)
	pos.X += math.Cos(angle) * speed
	pos.Y += math.Sin(angle) * speed

	if dx == 0 || (dx > 0 && pos.X > move.TargetX) || (dx < 0 && pos.X < move.TargetX) {
		pos.X = move.TargetX
	}
	if dy == 0 || (dy > 0 && pos.Y > move.TargetY) || (dy < 0 && pos.Y < move.TargetY) {
		pos.Y = move.TargetY
	}

	if pos.X == move.TargetX && pos.Y == move.TargetY {
		move.State = components.MoveIdle
	}
}
