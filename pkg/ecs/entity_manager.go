// Package ecs 提供一个极简的实体-组件管理器
//
// 组件按类型分池存储（type -> entity -> component），
// 查询时从最小的池出发做交集，结果按实体ID升序返回，
// 保证整个模拟在相同输入下逐帧可复现。
package ecs

import (
	"reflect"
	"sort"
)

// EntityID 是实体的唯一标识符，0 保留为无效ID
type EntityID uint64

// EntityManager 管理所有实体和组件
type EntityManager struct {
	nextID uint64
	// 组件池: ComponentType -> EntityID -> 组件实例
	pools map[reflect.Type]map[EntityID]interface{}
	// 存活实体集合
	alive map[EntityID]struct{}
	// 待删除的实体ID列表（延迟到帧末统一清理）
	entitiesToDestroy []EntityID
}

// NewEntityManager 创建一个新的 EntityManager 实例
func NewEntityManager() *EntityManager {
	return &EntityManager{
		nextID: 1,
		pools:  make(map[reflect.Type]map[EntityID]interface{}),
		alive:  make(map[EntityID]struct{}),
	}
}

// CreateEntity 创建新实体并返回唯一ID
func (em *EntityManager) CreateEntity() EntityID {
	id := EntityID(em.nextID)
	em.nextID++
	em.alive[id] = struct{}{}
	return id
}

// IsAlive 检查实体是否存活（已创建且未被清理）
func (em *EntityManager) IsAlive(id EntityID) bool {
	_, ok := em.alive[id]
	return ok
}

// DestroyEntity 标记实体待删除
// 实体及其组件在下一次 RemoveMarkedEntities 调用时才真正移除，
// 避免系统遍历过程中修改正在迭代的池
func (em *EntityManager) DestroyEntity(id EntityID) {
	em.entitiesToDestroy = append(em.entitiesToDestroy, id)
}

// AddComponent 为实体添加组件
// 同类型组件重复添加时后者覆盖前者
func (em *EntityManager) AddComponent(id EntityID, component interface{}) {
	if _, ok := em.alive[id]; !ok {
		return
	}
	t := reflect.TypeOf(component)
	pool, ok := em.pools[t]
	if !ok {
		pool = make(map[EntityID]interface{})
		em.pools[t] = pool
	}
	pool[id] = component
}

// RemoveComponent 从实体移除指定类型的组件
func (em *EntityManager) RemoveComponent(id EntityID, componentType reflect.Type) {
	if pool, ok := em.pools[componentType]; ok {
		delete(pool, id)
	}
}

// GetComponentByType 获取实体的特定类型组件
// 业务代码通常使用泛型包装 GetComponent[T]
func (em *EntityManager) GetComponentByType(id EntityID, componentType reflect.Type) (interface{}, bool) {
	if pool, ok := em.pools[componentType]; ok {
		if comp, found := pool[id]; found {
			return comp, true
		}
	}
	return nil, false
}

// HasComponent 检查实体是否拥有特定类型组件
func (em *EntityManager) HasComponent(id EntityID, componentType reflect.Type) bool {
	_, found := em.GetComponentByType(id, componentType)
	return found
}

// RemoveMarkedEntities 清理所有标记删除的实体及其组件
// 应当在每帧系统更新结束后调用一次
func (em *EntityManager) RemoveMarkedEntities() {
	for _, id := range em.entitiesToDestroy {
		delete(em.alive, id)
		for _, pool := range em.pools {
			delete(pool, id)
		}
	}
	em.entitiesToDestroy = em.entitiesToDestroy[:0]
}

// GetEntitiesWithTypes 查询拥有指定组件类型组合的所有实体
// 从最小的组件池出发做交集；结果按实体ID升序排列，保证遍历顺序确定
func (em *EntityManager) GetEntitiesWithTypes(componentTypes ...reflect.Type) []EntityID {
	if len(componentTypes) == 0 {
		return nil
	}

	// 选最小的池作为扫描基准
	var base map[EntityID]interface{}
	for _, t := range componentTypes {
		pool, ok := em.pools[t]
		if !ok {
			return nil
		}
		if base == nil || len(pool) < len(base) {
			base = pool
		}
	}

	result := make([]EntityID, 0, len(base))
	for id := range base {
		hasAll := true
		for _, t := range componentTypes {
			if _, found := em.pools[t][id]; !found {
				hasAll = false
				break
			}
		}
		if hasAll {
			result = append(result, id)
		}
	}

	sort.Slice(result, func(i, j int) bool { return result[i] < result[j] })
	return result
}
