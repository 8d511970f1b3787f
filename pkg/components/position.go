package components

// PositionComponent 存储实体的逻辑坐标（编队坐标系，未加显示偏移）
type PositionComponent struct {
	X, Y float64
}
