package ecs

import (
	"testing"

	"github.com/ravenfell/deadfall/ecs/component"
)

func intPtr(i int) *int {
	return &i
}

func stringPtr(s string) *string {
	return &s
}

func TestWorldEntityLifecycle(t *testing.T) {
	cases := []struct {
		name         string
		create       int
		destroyIndex int // -1 = none
	}{
		{"single", 1, 0},
		{"three_create_destroy_middle", 3, 1},
		{"none_destroy", 2, -1},
	}

	for _, c := range cases {
		t.Run(c.name, func(t *testing.T) {
			w := NewWorld()
			ents := make([]Entity, 0, c.create)
			for i := 0; i < c.create; i++ {
				ents = append(ents, CreateEntity(w))
			}
			if len(Entities(w)) != c.create {
				t.Fatalf("expected %d entities, got %d", c.create, len(Entities(w)))
			}
			if c.destroyIndex >= 0 {
				if !DestroyEntity(w, ents[c.destroyIndex]) {
					t.Fatalf("DestroyEntity should return true for alive entity")
				}
				if IsAlive(w, ents[c.destroyIndex]) {
					t.Fatalf("entity should not be alive after destruction")
				}
				if DestroyEntity(w, ents[c.destroyIndex]) {
					t.Fatalf("DestroyEntity should return false for stale handle")
				}
			}
		})
	}
}

func TestWorldStaleHandleNeverAliases(t *testing.T) {
	w := NewWorld()
	h := component.NewComponent[int]()

	e1 := CreateEntity(w)
	if err := Add(w, e1, h.Kind(), intPtr(7)); err != nil {
		t.Fatalf("Add: %v", err)
	}
	DestroyEntity(w, e1)

	// the freed slot is recycled under a new generation
	e2 := CreateEntity(w)
	if e1 == e2 {
		t.Fatalf("recycled handle must differ from the stale one")
	}
	if IsAlive(w, e1) {
		t.Fatalf("stale handle should not be alive")
	}
	if _, ok := Get(w, e2, h.Kind()); ok {
		t.Fatalf("recycled entity must not inherit the old component")
	}
	if err := Add(w, e1, h.Kind(), intPtr(9)); err != component.ErrEntityNotAlive {
		t.Fatalf("Add on stale handle: expected ErrEntityNotAlive, got %v", err)
	}
}

func TestWorldComponentsAndQueries(t *testing.T) {
	w := NewWorld()

	hi := component.NewComponent[int]()
	hs := component.NewComponent[string]()

	e1 := CreateEntity(w)
	e2 := CreateEntity(w)

	if err := Add(w, e1, hi.Kind(), intPtr(10)); err != nil {
		t.Fatalf("Add int: %v", err)
	}
	if err := Add(w, e1, hs.Kind(), stringPtr("a")); err != nil {
		t.Fatalf("Add string: %v", err)
	}
	if err := Add(w, e2, hs.Kind(), stringPtr("b")); err != nil {
		t.Fatalf("Add string: %v", err)
	}

	v, ok := Get(w, e1, hi.Kind())
	if !ok || *v != 10 {
		t.Fatalf("expected 10, got %v ok=%v", v, ok)
	}
	if !Has(w, e2, hs.Kind()) {
		t.Fatalf("expected e2 to have string component")
	}
	if Has(w, e2, hi.Kind()) {
		t.Fatalf("e2 should not have int component")
	}

	// component pointers are live references, not copies
	*v = 20
	again, _ := Get(w, e1, hi.Kind())
	if *again != 20 {
		t.Fatalf("expected mutation through pointer to stick, got %d", *again)
	}

	seen := map[Entity]string{}
	ForEach(w, hs.Kind(), func(e Entity, s *string) {
		seen[e] = *s
	})
	if len(seen) != 2 || seen[e1] != "a" || seen[e2] != "b" {
		t.Fatalf("ForEach visited %v", seen)
	}

	pairs := 0
	ForEach2(w, hi.Kind(), hs.Kind(), func(e Entity, i *int, s *string) {
		pairs++
		if e != e1 {
			t.Fatalf("only e1 carries both components, visited %v", e)
		}
	})
	if pairs != 1 {
		t.Fatalf("expected 1 pair, got %d", pairs)
	}

	if !Remove(w, e1, hs.Kind()) {
		t.Fatalf("Remove should report true")
	}
	if Has(w, e1, hs.Kind()) {
		t.Fatalf("component should be gone after Remove")
	}
}

func TestWorldForEachAllowsMutation(t *testing.T) {
	w := NewWorld()
	h := component.NewComponent[int]()

	for i := 0; i < 4; i++ {
		e := CreateEntity(w)
		if err := Add(w, e, h.Kind(), intPtr(i)); err != nil {
			t.Fatalf("Add: %v", err)
		}
	}

	// removing while iterating must not skip or double-visit
	visited := 0
	ForEach(w, h.Kind(), func(e Entity, _ *int) {
		visited++
		Remove(w, e, h.Kind())
	})
	if visited != 4 {
		t.Fatalf("expected 4 visits, got %d", visited)
	}

	left := 0
	ForEach(w, h.Kind(), func(Entity, *int) { left++ })
	if left != 0 {
		t.Fatalf("expected empty store, %d left", left)
	}
}

func TestWorldFirst(t *testing.T) {
	w := NewWorld()
	h := component.NewComponent[int]()

	if _, ok := First(w, h.Kind()); ok {
		t.Fatalf("First on empty store should report false")
	}

	e := CreateEntity(w)
	if err := Add(w, e, h.Kind(), intPtr(1)); err != nil {
		t.Fatalf("Add: %v", err)
	}
	got, ok := First(w, h.Kind())
	if !ok || got != e {
		t.Fatalf("First = %v ok=%v, want %v", got, ok, e)
	}
}
