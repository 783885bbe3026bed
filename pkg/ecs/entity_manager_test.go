package ecs

import "testing"

type testPosComp struct{ X, Y float64 }
type testTagComp struct{ Name string }
type testSizeComp struct{ W, H int }

// TestCreateEntity 测试实体创建与ID分配
func TestCreateEntity(t *testing.T) {
	em := NewEntityManager()

	a := em.CreateEntity()
	b := em.CreateEntity()

	if a == 0 || b == 0 {
		t.Error("entity IDs must never be 0")
	}
	if a == b {
		t.Errorf("entity IDs must be unique, got %d twice", a)
	}
	if !em.IsAlive(a) || !em.IsAlive(b) {
		t.Error("freshly created entities should be alive")
	}
}

// TestAddGetComponent 测试组件的添加与泛型查询
func TestAddGetComponent(t *testing.T) {
	em := NewEntityManager()
	id := em.CreateEntity()

	em.AddComponent(id, &testPosComp{X: 1.5, Y: 2.5})

	pos, ok := GetComponent[*testPosComp](em, id)
	if !ok {
		t.Fatal("expected to find testPosComp")
	}
	if pos.X != 1.5 || pos.Y != 2.5 {
		t.Errorf("component values lost: got (%v,%v)", pos.X, pos.Y)
	}

	// 未添加的组件类型查询失败
	if _, ok := GetComponent[*testTagComp](em, id); ok {
		t.Error("expected no testTagComp on entity")
	}

	// 同类型重复添加覆盖旧值
	em.AddComponent(id, &testPosComp{X: 9})
	pos, _ = GetComponent[*testPosComp](em, id)
	if pos.X != 9 {
		t.Errorf("re-added component should replace the old one, got X=%v", pos.X)
	}
}

// TestDestroyEntityDeferred 测试延迟删除语义
func TestDestroyEntityDeferred(t *testing.T) {
	em := NewEntityManager()
	id := em.CreateEntity()
	em.AddComponent(id, &testPosComp{})

	em.DestroyEntity(id)

	// 清理前组件仍然可见
	if _, ok := GetComponent[*testPosComp](em, id); !ok {
		t.Error("component should still exist before RemoveMarkedEntities")
	}

	em.RemoveMarkedEntities()

	if em.IsAlive(id) {
		t.Error("entity should be dead after RemoveMarkedEntities")
	}
	if _, ok := GetComponent[*testPosComp](em, id); ok {
		t.Error("component should be gone after RemoveMarkedEntities")
	}
}

// TestGetEntitiesWithOrdering 测试组合查询的确定性顺序
func TestGetEntitiesWithOrdering(t *testing.T) {
	em := NewEntityManager()

	var want []EntityID
	for i := 0; i < 10; i++ {
		id := em.CreateEntity()
		em.AddComponent(id, &testPosComp{})
		if i%2 == 0 {
			em.AddComponent(id, &testTagComp{})
			want = append(want, id)
		}
	}

	got := GetEntitiesWith2[*testPosComp, *testTagComp](em)
	if len(got) != len(want) {
		t.Fatalf("expected %d entities, got %d", len(want), len(got))
	}
	for i := range got {
		if got[i] != want[i] {
			t.Fatalf("query result not in ascending ID order: %v", got)
		}
	}

	// 三组件查询：没有任何实体拥有 testSizeComp
	if res := GetEntitiesWith3[*testPosComp, *testTagComp, *testSizeComp](em); len(res) != 0 {
		t.Errorf("expected empty result, got %v", res)
	}
}

// TestRemoveComponent 测试组件移除
func TestRemoveComponent(t *testing.T) {
	em := NewEntityManager()
	id := em.CreateEntity()
	em.AddComponent(id, &testTagComp{Name: "x"})

	RemoveComponent[*testTagComp](em, id)

	if HasComponent[*testTagComp](em, id) {
		t.Error("component should be removed")
	}
}
