package ecs

import "github.com/ravenfell/deadfall/ecs/component"

// CreateEntity allocates a new entity handle.
func CreateEntity(w *World) Entity {
	if w == nil {
		return 0
	}
	return w.entities.create()
}

// DestroyEntity removes an entity and all of its components. Returns false
// for stale or unknown handles.
func DestroyEntity(w *World, e Entity) bool {
	if w == nil || !w.entities.destroy(e) {
		return false
	}
	for _, s := range w.stores {
		s.Remove(int(e.id()))
	}
	return true
}

// IsAlive reports whether an entity handle is still valid.
func IsAlive(w *World, e Entity) bool {
	if w == nil {
		return false
	}
	return w.entities.isAlive(e)
}

// Entities returns all live entity handles.
func Entities(w *World) []Entity {
	if w == nil {
		return nil
	}
	return w.entities.all()
}

// Add attaches a component value to an entity.
func Add[T any](w *World, e Entity, k component.ComponentKind[T], v *T) error {
	if w == nil || !k.Valid() {
		return component.ErrInvalidComponentKind
	}
	if !w.entities.isAlive(e) {
		return component.ErrEntityNotAlive
	}
	if v == nil {
		return component.ErrNilComponent
	}
	w.store(k.ID(), true).Set(int(e.id()), v)
	return nil
}

// Remove detaches a component from an entity if present.
func Remove[T any](w *World, e Entity, k component.ComponentKind[T]) bool {
	if w == nil || !k.Valid() {
		return false
	}
	return w.store(k.ID(), false).Remove(int(e.id()))
}

// Has reports whether the entity carries the component.
func Has[T any](w *World, e Entity, k component.ComponentKind[T]) bool {
	if w == nil || !w.entities.isAlive(e) {
		return false
	}
	return w.store(k.ID(), false).Has(int(e.id()))
}

// Get returns the component value for an entity.
func Get[T any](w *World, e Entity, k component.ComponentKind[T]) (*T, bool) {
	if w == nil || !w.entities.isAlive(e) {
		return nil, false
	}
	v := w.store(k.ID(), false).Get(int(e.id()))
	if v == nil {
		return nil, false
	}
	cast, ok := v.(*T)
	if !ok {
		return nil, false
	}
	return cast, true
}

// First returns any live entity carrying the component.
func First[T any](w *World, k component.ComponentKind[T]) (Entity, bool) {
	if w == nil {
		return 0, false
	}
	for _, id := range w.store(k.ID(), false).Entities() {
		if e, ok := w.handleFor(id); ok {
			return e, true
		}
	}
	return 0, false
}

// ForEach visits every live entity carrying the component. The id list is
// copied up front so callbacks may add or remove components safely.
func ForEach[T any](w *World, k component.ComponentKind[T], fn func(Entity, *T)) {
	if w == nil || fn == nil {
		return
	}
	s := w.store(k.ID(), false)
	ids := append([]int(nil), s.Entities()...)
	for _, id := range ids {
		e, ok := w.handleFor(id)
		if !ok {
			continue
		}
		if v, vok := s.Get(id).(*T); vok && v != nil {
			fn(e, v)
		}
	}
}

// ForEach2 visits entities carrying both components.
func ForEach2[A, B any](w *World, ka component.ComponentKind[A], kb component.ComponentKind[B], fn func(Entity, *A, *B)) {
	if w == nil || fn == nil {
		return
	}
	sa := w.store(ka.ID(), false)
	sb := w.store(kb.ID(), false)
	if sa.Len() == 0 || sb.Len() == 0 {
		return
	}
	ids := append([]int(nil), sa.Entities()...)
	for _, id := range ids {
		e, ok := w.handleFor(id)
		if !ok {
			continue
		}
		a, aok := sa.Get(id).(*A)
		b, bok := sb.Get(id).(*B)
		if aok && bok && a != nil && b != nil {
			fn(e, a, b)
		}
	}
}

// ForEach3 visits entities carrying all three components.
func ForEach3[A, B, C any](w *World, ka component.ComponentKind[A], kb component.ComponentKind[B], kc component.ComponentKind[C], fn func(Entity, *A, *B, *C)) {
	if w == nil || fn == nil {
		return
	}
	sa := w.store(ka.ID(), false)
	sb := w.store(kb.ID(), false)
	sc := w.store(kc.ID(), false)
	if sa.Len() == 0 || sb.Len() == 0 || sc.Len() == 0 {
		return
	}
	ids := append([]int(nil), sa.Entities()...)
	for _, id := range ids {
		e, ok := w.handleFor(id)
		if !ok {
			continue
		}
		a, aok := sa.Get(id).(*A)
		b, bok := sb.Get(id).(*B)
		c, cok := sc.Get(id).(*C)
		if aok && bok && cok && a != nil && b != nil && c != nil {
			fn(e, a, b, c)
		}
	}
}

// handleFor rebuilds a live handle from a raw store id.
func (w *World) handleFor(id int) (Entity, bool) {
	if w == nil || id <= 0 || id > len(w.entities.gens) {
		return 0, false
	}
	e := makeEntity(entityID(id), w.entities.gens[id-1])
	if !w.entities.isAlive(e) {
		return 0, false
	}
	return e, true
}
