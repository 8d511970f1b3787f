package game

// Switches 游戏开关（布尔标志）
type Switches struct {
	values map[int]bool
}

// NewSwitches 创建开关表
func NewSwitches() *Switches {
	return &Switches{values: make(map[int]bool)}
}

// Value 返回开关状态，未设置的开关为关闭
func (s *Switches) Value(id int) bool {
	return s.values[id]
}

// SetValue 设置开关
func (s *Switches) SetValue(id int, on bool) {
	if on {
		s.values[id] = true
		return
	}
	delete(s.values, id)
}
