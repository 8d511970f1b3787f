package ecs

import (
	"reflect"
	"sort"
)

// EntityID 是实体的唯一标识符，0 保留为无效 ID
type EntityID uint64

// EntityManager 管理实体和组件
//
// 组件按具体类型存放，每个实体每种类型最多一个。
// 销毁分两步：DestroyEntity 只做标记，RemoveMarkedEntities 统一清理，
// 这样系统在遍历过程中销毁实体不会影响本轮遍历。
type EntityManager struct {
	nextID     EntityID
	components map[EntityID]map[reflect.Type]any
	pending    map[EntityID]struct{}
}

// NewEntityManager 创建实体管理器
func NewEntityManager() *EntityManager {
	return &EntityManager{
		nextID:     1,
		components: make(map[EntityID]map[reflect.Type]any),
		pending:    make(map[EntityID]struct{}),
	}
}

// CreateEntity 创建新实体并返回唯一 ID
func (em *EntityManager) CreateEntity() EntityID {
	id := em.nextID
	em.nextID++
	em.components[id] = make(map[reflect.Type]any)
	return id
}

// DestroyEntity 标记实体待删除，不存在的实体被忽略
func (em *EntityManager) DestroyEntity(id EntityID) {
	if _, ok := em.components[id]; ok {
		em.pending[id] = struct{}{}
	}
}

// RemoveMarkedEntities 清理所有标记删除的实体
func (em *EntityManager) RemoveMarkedEntities() {
	for id := range em.pending {
		delete(em.components, id)
		delete(em.pending, id)
	}
}

// Exists 检查实体是否存活（未被清理）
func (em *EntityManager) Exists(id EntityID) bool {
	_, ok := em.components[id]
	return ok
}

// Count 返回存活实体数
func (em *EntityManager) Count() int {
	return len(em.components)
}

// AddComponent 为实体添加组件，已清理的实体不会被复活
func (em *EntityManager) AddComponent(id EntityID, component any) {
	em.put(id, reflect.TypeOf(component), component)
}

func (em *EntityManager) put(id EntityID, t reflect.Type, component any) {
	if compMap, ok := em.components[id]; ok {
		compMap[t] = component
	}
}

// RemoveComponent 从实体移除指定类型的组件
func (em *EntityManager) RemoveComponent(id EntityID, componentType reflect.Type) {
	if compMap, ok := em.components[id]; ok {
		delete(compMap, componentType)
	}
}

// GetComponent 获取实体的特定类型组件
func (em *EntityManager) GetComponent(id EntityID, componentType reflect.Type) (any, bool) {
	comp, ok := em.components[id][componentType]
	return comp, ok
}

// HasComponent 检查实体是否拥有特定类型组件
func (em *EntityManager) HasComponent(id EntityID, componentType reflect.Type) bool {
	_, ok := em.components[id][componentType]
	return ok
}

// GetEntitiesWith 查询拥有全部指定组件类型的实体
// 返回：按 ID 升序排列的实体列表，遍历顺序因此稳定
func (em *EntityManager) GetEntitiesWith(componentTypes ...reflect.Type) []EntityID {
	var result []EntityID
	for id, compMap := range em.components {
		if hasAll(compMap, componentTypes) {
			result = append(result, id)
		}
	}
	sort.Slice(result, func(i, j int) bool { return result[i] < result[j] })
	return result
}

func hasAll(compMap map[reflect.Type]any, types []reflect.Type) bool {
	for _, t := range types {
		if _, ok := compMap[t]; !ok {
			return false
		}
	}
	return true
}
