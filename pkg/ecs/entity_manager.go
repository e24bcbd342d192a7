package ecs

import "reflect"

// EntityID 是实体的唯一标识符
type EntityID uint64

// EntityManager 管理所有实体和组件
//
// 与按 map 遍历的实现不同，这里额外维护一个按创建顺序排列的实体列表，
// 查询结果总是按 EntityID 递增返回。槽位注册顺序、角色求值顺序都依赖这一点。
type EntityManager struct {
	nextID uint64
	// 实体-组件映射: EntityID -> ComponentType -> Component实例
	components map[EntityID]map[reflect.Type]any
	// 按创建顺序排列的存活实体
	order []EntityID
	// 待删除的实体ID列表
	entitiesToDestroy []EntityID
}

// NewEntityManager 创建一个新的 EntityManager 实例
func NewEntityManager() *EntityManager {
	return &EntityManager{
		nextID:            1, // ID从1开始,0保留为无效ID
		components:        make(map[EntityID]map[reflect.Type]any),
		order:             make([]EntityID, 0, 16),
		entitiesToDestroy: make([]EntityID, 0),
	}
}

// CreateEntity 创建新实体并返回唯一ID
func (em *EntityManager) CreateEntity() EntityID {
	id := EntityID(em.nextID)
	em.nextID++
	em.components[id] = make(map[reflect.Type]any)
	em.order = append(em.order, id)
	return id
}

// Exists 检查实体是否存活
func (em *EntityManager) Exists(id EntityID) bool {
	_, ok := em.components[id]
	return ok
}

// DestroyEntity 标记实体待删除(不立即删除)
func (em *EntityManager) DestroyEntity(id EntityID) {
	em.entitiesToDestroy = append(em.entitiesToDestroy, id)
}

// RemoveMarkedEntities 清理所有标记删除的实体
func (em *EntityManager) RemoveMarkedEntities() {
	if len(em.entitiesToDestroy) == 0 {
		return
	}
	for _, id := range em.entitiesToDestroy {
		delete(em.components, id)
	}
	kept := em.order[:0]
	for _, id := range em.order {
		if _, alive := em.components[id]; alive {
			kept = append(kept, id)
		}
	}
	em.order = kept
	em.entitiesToDestroy = em.entitiesToDestroy[:0]
}

// EntityCount 返回存活实体数量
func (em *EntityManager) EntityCount() int {
	return len(em.order)
}

func (em *EntityManager) put(id EntityID, t reflect.Type, component any) {
	if compMap, exists := em.components[id]; exists {
		compMap[t] = component
	}
}

func (em *EntityManager) get(id EntityID, t reflect.Type) (any, bool) {
	compMap, exists := em.components[id]
	if !exists {
		return nil, false
	}
	comp, found := compMap[t]
	return comp, found
}

// typeOf 返回类型参数 T 的 reflect.Type（不需要 T 的实例）
func typeOf[T any]() reflect.Type {
	return reflect.TypeOf((*T)(nil)).Elem()
}

// AddComponent 为实体添加组件，同类型组件会被覆盖
// 组件类型由类型参数推断，通常是指针类型（如 *components.SlotComponent）
func AddComponent[T any](em *EntityManager, id EntityID, component T) {
	em.put(id, typeOf[T](), component)
}

// GetComponent 获取实体的特定类型组件
func GetComponent[T any](em *EntityManager, id EntityID) (T, bool) {
	comp, ok := em.get(id, typeOf[T]())
	if !ok {
		var zero T
		return zero, false
	}
	return comp.(T), true
}

// HasComponent 检查实体是否拥有特定类型组件
func HasComponent[T any](em *EntityManager, id EntityID) bool {
	_, ok := em.get(id, typeOf[T]())
	return ok
}

// RemoveComponent 从实体移除指定类型的组件
func RemoveComponent[T any](em *EntityManager, id EntityID) {
	if compMap, exists := em.components[id]; exists {
		delete(compMap, typeOf[T]())
	}
}

// query 按创建顺序返回拥有全部指定组件类型的实体
func (em *EntityManager) query(types ...reflect.Type) []EntityID {
	result := make([]EntityID, 0, len(em.order))
	for _, id := range em.order {
		compMap := em.components[id]
		hasAll := true
		for _, t := range types {
			if _, found := compMap[t]; !found {
				hasAll = false
				break
			}
		}
		if hasAll {
			result = append(result, id)
		}
	}
	return result
}

// GetEntitiesWith1 查询拥有组件 A 的所有实体（按创建顺序）
func GetEntitiesWith1[A any](em *EntityManager) []EntityID {
	return em.query(typeOf[A]())
}

// GetEntitiesWith2 查询同时拥有组件 A、B 的所有实体（按创建顺序）
func GetEntitiesWith2[A, B any](em *EntityManager) []EntityID {
	return em.query(typeOf[A](), typeOf[B]())
}

// GetEntitiesWith3 查询同时拥有组件 A、B、C 的所有实体（按创建顺序）
func GetEntitiesWith3[A, B, C any](em *EntityManager) []EntityID {
	return em.query(typeOf[A](), typeOf[B](), typeOf[C]())
}
