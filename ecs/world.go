package ecs

import "github.com/ravenfell/deadfall/ecs/component"

// System updates a world each frame.
type System interface {
	Update(w *World)
}

// World owns entities, component stores, system order, the scheduler, the
// notifier, and the attached physics world. All access is single-threaded:
// one logical tick runs every system in order with no preemption.
type World struct {
	entities entityStore
	stores   map[component.ComponentID]*SparseSet
	systems  []System

	sched    *Scheduler
	notifier *Notifier
	physics  *PhysicsWorld
}

// NewWorld creates an empty world with a fresh scheduler and notifier.
func NewWorld() *World {
	return &World{
		stores:   make(map[component.ComponentID]*SparseSet),
		sched:    NewScheduler(),
		notifier: NewNotifier(),
	}
}

// AddSystem appends a system to the update order.
func (w *World) AddSystem(s System) {
	if w == nil || s == nil {
		return
	}
	w.systems = append(w.systems, s)
}

// Update runs all systems once, then advances the scheduler by dt seconds.
func (w *World) Update(dt float64) {
	if w == nil {
		return
	}
	for _, s := range w.systems {
		if s != nil {
			s.Update(w)
		}
	}
	w.sched.Tick(dt)
}

// Scheduler returns the world's task scheduler.
func (w *World) Scheduler() *Scheduler {
	if w == nil {
		return nil
	}
	return w.sched
}

// Notifier returns the world's notification bus.
func (w *World) Notifier() *Notifier {
	if w == nil {
		return nil
	}
	return w.notifier
}

// SetPhysicsWorld attaches a physics world to this ECS world.
func (w *World) SetPhysicsWorld(pw *PhysicsWorld) {
	if w == nil {
		return
	}
	w.physics = pw
}

// PhysicsWorld returns the attached physics world, if any.
func (w *World) PhysicsWorld() *PhysicsWorld {
	if w == nil {
		return nil
	}
	return w.physics
}

func (w *World) store(id component.ComponentID, create bool) *SparseSet {
	if w == nil || id == 0 {
		return nil
	}
	if s, ok := w.stores[id]; ok {
		return s
	}
	if !create {
		return nil
	}
	s := &SparseSet{}
	w.stores[id] = s
	return s
}
