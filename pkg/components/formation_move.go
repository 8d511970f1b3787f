package components

// MoveState 表示编队移动动画的状态
type MoveState int

const (
	MoveIdle   MoveState = iota // 已到达目标,静止
	MoveMoving                  // 正在向目标移动
)

// String 返回状态名称（日志用）
func (s MoveState) String() string {
	switch s {
	case MoveIdle:
		return "Idle"
	case MoveMoving:
		return "Moving"
	default:
		return "Unknown"
	}
}

// FormationMoveComponent 驱动角色锚点向编队槽位匀速移动
// 与 PositionComponent 配合使用，由 FormationMoveSystem 每帧推进
type FormationMoveComponent struct {
	State   MoveState
	TargetX float64
	TargetY float64
	Speed   float64 // 每帧移动的像素距离
}
