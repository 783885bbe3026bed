package ecs

import "reflect"

// typeOf 返回泛型参数 T 的 reflect.Type
// 组件约定以指针形式存储（如 *components.WalkerComponent），
// T 即为该指针类型本身
func typeOf[T any]() reflect.Type {
	return reflect.TypeOf((*T)(nil)).Elem()
}

// GetComponent 获取实体的特定类型组件（泛型形式）
//
// 使用示例：
//
//	walker, ok := ecs.GetComponent[*components.WalkerComponent](em, id)
func GetComponent[T any](em *EntityManager, id EntityID) (T, bool) {
	var zero T
	comp, ok := em.GetComponentByType(id, typeOf[T]())
	if !ok {
		return zero, false
	}
	typed, ok := comp.(T)
	if !ok {
		return zero, false
	}
	return typed, true
}

// RemoveComponent 移除实体的特定类型组件（泛型形式）
func RemoveComponent[T any](em *EntityManager, id EntityID) {
	em.RemoveComponent(id, typeOf[T]())
}

// HasComponent 检查实体是否拥有特定类型组件（泛型形式）
func HasComponent[T any](em *EntityManager, id EntityID) bool {
	return em.HasComponent(id, typeOf[T]())
}

// GetEntitiesWith 查询拥有单个组件类型的所有实体
func GetEntitiesWith[T any](em *EntityManager) []EntityID {
	return em.GetEntitiesWithTypes(typeOf[T]())
}

// GetEntitiesWith2 查询同时拥有两种组件类型的所有实体
func GetEntitiesWith2[T1, T2 any](em *EntityManager) []EntityID {
	return em.GetEntitiesWithTypes(typeOf[T1](), typeOf[T2]())
}

// GetEntitiesWith3 查询同时拥有三种组件类型的所有实体
func GetEntitiesWith3[T1, T2, T3 any](em *EntityManager) []EntityID {
	return em.GetEntitiesWithTypes(typeOf[T1](), typeOf[T2](), typeOf[T3]())
}
