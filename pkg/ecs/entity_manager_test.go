package ecs

import (
	"reflect"
	"testing"
)

// 测试组件类型定义
type testAnchor struct {
	X, Y float64
}

type testBinding struct {
	ActorID int
}

func TestCreateEntity(t *testing.T) {
	em := NewEntityManager()
	id1 := em.CreateEntity()
	id2 := em.CreateEntity()

	if id1 == id2 {
		t.Error("Entity IDs should be unique")
	}
	if id1 != 1 || id2 != 2 {
		t.Errorf("IDs should start at 1, got %d and %d", id1, id2)
	}
	if !em.Exists(id1) {
		t.Error("created entity should exist")
	}
}

func TestReflectAndGenericAccessAgree(t *testing.T) {
	em := NewEntityManager()
	id := em.CreateEntity()

	AddComponent(em, id, &testAnchor{X: 100, Y: 200})

	comp, found := em.GetComponent(id, reflect.TypeOf(&testAnchor{}))
	if !found {
		t.Fatal("component added through the generic helper should be visible to the reflect API")
	}
	if a := comp.(*testAnchor); a.X != 100 || a.Y != 200 {
		t.Errorf("expected (100, 200), got (%f, %f)", a.X, a.Y)
	}

	em.AddComponent(id, &testBinding{ActorID: 7})
	b, ok := GetComponent[*testBinding](em, id)
	if !ok || b.ActorID != 7 {
		t.Errorf("generic lookup failed: %v %v", b, ok)
	}
}

func TestGenericHasAndRemove(t *testing.T) {
	em := NewEntityManager()
	id := em.CreateEntity()

	if HasComponent[*testAnchor](em, id) {
		t.Error("should not have component before adding")
	}
	AddComponent(em, id, &testAnchor{})
	if !HasComponent[*testAnchor](em, id) {
		t.Error("should have component after adding")
	}
	RemoveComponent[*testAnchor](em, id)
	if _, ok := GetComponent[*testAnchor](em, id); ok {
		t.Error("component should be gone after removal")
	}
}

func TestDestroyEntity(t *testing.T) {
	em := NewEntityManager()
	keep := em.CreateEntity()
	drop := em.CreateEntity()
	AddComponent(em, keep, &testAnchor{})
	AddComponent(em, drop, &testAnchor{})

	em.DestroyEntity(drop)
	if !em.Exists(drop) {
		t.Error("entity should still exist before cleanup")
	}

	em.RemoveMarkedEntities()
	if em.Exists(drop) || HasComponent[*testAnchor](em, drop) {
		t.Error("entity should be removed after cleanup")
	}
	if !em.Exists(keep) {
		t.Error("unmarked entity should survive cleanup")
	}

	// 已删除实体上的 AddComponent 不应复活实体
	AddComponent(em, drop, &testAnchor{})
	if em.Exists(drop) {
		t.Error("adding to a destroyed entity must not recreate it")
	}
}

func TestGetEntitiesWith_SortedByID(t *testing.T) {
	em := NewEntityManager()

	var both []EntityID
	for i := 0; i < 20; i++ {
		id := em.CreateEntity()
		AddComponent(em, id, &testAnchor{})
		if i%2 == 0 {
			AddComponent(em, id, &testBinding{ActorID: i})
			both = append(both, id)
		}
	}

	got := GetEntitiesWith2[*testAnchor, *testBinding](em)
	if len(got) != len(both) {
		t.Fatalf("expected %d entities, got %d", len(both), len(got))
	}
	for i := range got {
		if got[i] != both[i] {
			t.Fatalf("result not in id order: %v", got)
		}
	}

	if n := len(GetEntitiesWith1[*testAnchor](em)); n != 20 {
		t.Errorf("expected 20 anchors, got %d", n)
	}
}

func TestDestroyEntity_Idempotent(t *testing.T) {
	em := NewEntityManager()
	id := em.CreateEntity()
	em.CreateEntity()

	em.DestroyEntity(id)
	em.DestroyEntity(id)
	em.DestroyEntity(99)
	em.RemoveMarkedEntities()

	if em.Count() != 1 {
		t.Errorf("expected 1 entity left, got %d", em.Count())
	}
	if next := em.CreateEntity(); next != 3 {
		t.Errorf("ids must not be reused, got %d", next)
	}
}
