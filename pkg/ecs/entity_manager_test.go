package ecs

import "testing"

// 测试组件类型定义
type testPositionComponent struct {
	X, Y float64
}

type testVelocityComponent struct {
	VX, VY float64
}

type testTagComponent struct{}

func TestCreateEntity(t *testing.T) {
	em := NewEntityManager()
	id1 := em.CreateEntity()
	id2 := em.CreateEntity()

	// 测试实体ID唯一性
	if id1 == id2 {
		t.Error("Entity IDs should be unique")
	}

	// 测试ID从1开始
	if id1 != 1 {
		t.Errorf("First entity ID should be 1, got %d", id1)
	}
	if id2 != 2 {
		t.Errorf("Second entity ID should be 2, got %d", id2)
	}
	if em.EntityCount() != 2 {
		t.Errorf("Expected 2 live entities, got %d", em.EntityCount())
	}
}

func TestAddAndGetComponent(t *testing.T) {
	em := NewEntityManager()
	id := em.CreateEntity()

	AddComponent(em, id, &testPositionComponent{X: 100, Y: 200})

	pos, found := GetComponent[*testPositionComponent](em, id)
	if !found {
		t.Fatal("Component should be found")
	}
	if pos.X != 100 || pos.Y != 200 {
		t.Errorf("Component data mismatch, expected (100, 200), got (%f, %f)", pos.X, pos.Y)
	}

	// 指针语义：修改后再次获取应看到新值
	pos.X = 7
	again, _ := GetComponent[*testPositionComponent](em, id)
	if again.X != 7 {
		t.Errorf("Expected pointer component to be shared, got X=%f", again.X)
	}
}

func TestHasAndRemoveComponent(t *testing.T) {
	em := NewEntityManager()
	id := em.CreateEntity()

	if HasComponent[*testPositionComponent](em, id) {
		t.Error("Should not have component before adding")
	}

	AddComponent(em, id, &testPositionComponent{})
	if !HasComponent[*testPositionComponent](em, id) {
		t.Error("Should have component after adding")
	}

	RemoveComponent[*testPositionComponent](em, id)
	if HasComponent[*testPositionComponent](em, id) {
		t.Error("Should not have component after removal")
	}
}

func TestGetComponentMissingEntity(t *testing.T) {
	em := NewEntityManager()

	pos, ok := GetComponent[*testPositionComponent](em, EntityID(42))
	if ok || pos != nil {
		t.Errorf("Expected (nil, false) for unknown entity, got (%v, %v)", pos, ok)
	}

	// 对不存在实体添加组件是空操作
	AddComponent(em, EntityID(42), &testPositionComponent{})
	if em.Exists(EntityID(42)) {
		t.Error("AddComponent must not create entities implicitly")
	}
}

func TestDestroyEntity(t *testing.T) {
	em := NewEntityManager()
	id := em.CreateEntity()
	AddComponent(em, id, &testPositionComponent{})

	em.DestroyEntity(id)

	// 清理前实体仍存在
	if !HasComponent[*testPositionComponent](em, id) {
		t.Error("Entity should still exist before cleanup")
	}

	em.RemoveMarkedEntities()
	if HasComponent[*testPositionComponent](em, id) {
		t.Error("Entity should be removed after cleanup")
	}
	if em.EntityCount() != 0 {
		t.Errorf("Expected no live entities, got %d", em.EntityCount())
	}
}

func TestGetEntitiesWith(t *testing.T) {
	em := NewEntityManager()

	id1 := em.CreateEntity()
	AddComponent(em, id1, &testPositionComponent{})
	AddComponent(em, id1, &testVelocityComponent{})

	id2 := em.CreateEntity()
	AddComponent(em, id2, &testPositionComponent{})

	id3 := em.CreateEntity()
	AddComponent(em, id3, &testVelocityComponent{})
	AddComponent(em, id3, &testTagComponent{})

	both := GetEntitiesWith2[*testPositionComponent, *testVelocityComponent](em)
	if len(both) != 1 || both[0] != id1 {
		t.Errorf("Expected [%d], got %v", id1, both)
	}

	posEntities := GetEntitiesWith1[*testPositionComponent](em)
	if len(posEntities) != 2 {
		t.Errorf("Expected 2 entities with Position component, got %d", len(posEntities))
	}

	tagged := GetEntitiesWith3[*testVelocityComponent, *testTagComponent, *testPositionComponent](em)
	if len(tagged) != 0 {
		t.Errorf("Expected no entity with all three components, got %v", tagged)
	}
}

// TestGetEntitiesWith_CreationOrder 查询结果必须按创建顺序返回
func TestGetEntitiesWith_CreationOrder(t *testing.T) {
	em := NewEntityManager()

	ids := make([]EntityID, 0, 20)
	for i := 0; i < 20; i++ {
		id := em.CreateEntity()
		AddComponent(em, id, &testPositionComponent{X: float64(i)})
		ids = append(ids, id)
	}

	// 删除中间若干实体后顺序仍然稳定
	em.DestroyEntity(ids[3])
	em.DestroyEntity(ids[11])
	em.RemoveMarkedEntities()

	for run := 0; run < 5; run++ {
		got := GetEntitiesWith1[*testPositionComponent](em)
		if len(got) != 18 {
			t.Fatalf("Expected 18 entities, got %d", len(got))
		}
		for i := 1; i < len(got); i++ {
			if got[i-1] >= got[i] {
				t.Fatalf("Entities not in creation order: %v", got)
			}
		}
	}
}
