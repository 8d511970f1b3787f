package components

// ActorBindingComponent 将实体绑定到队伍中的某个角色
type ActorBindingComponent struct {
	ActorID int
}
