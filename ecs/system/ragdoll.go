package system

import (
	"log"

	"github.com/jakecoffman/cp"
	"github.com/ravenfell/deadfall/ecs"
	"github.com/ravenfell/deadfall/ecs/component"
	"github.com/ravenfell/deadfall/prefabs"
)

// RagdollHandoff converts a controlled entity's representation into a set of
// free dynamic bodies at the moment of death and tears it down on respawn.
type RagdollHandoff struct {
	world *ecs.World
	spec  prefabs.RagdollSpec
}

// NewRagdollHandoff creates a controller for the configured part layout. An
// empty layout is valid; Spawn then reports no instance and callers degrade
// to the frozen-body behavior.
func NewRagdollHandoff(w *ecs.World, spec prefabs.RagdollSpec) *RagdollHandoff {
	return &RagdollHandoff{world: w, spec: spec}
}

// Configured reports whether a ragdoll layout is available.
func (r *RagdollHandoff) Configured() bool {
	return r != nil && len(r.spec.Parts) > 0
}

// Spawn instantiates the ragdoll at the source pose. Every part gets the
// ragdoll collision classification (never the player's, so trigger detectors
// do not mistake it for the living entity) and the source velocity verbatim;
// distributing momentum per limb is deliberately not attempted.
func (r *RagdollHandoff) Spawn(pose component.Transform, velocity cp.Vector) (ecs.Entity, bool) {
	if r == nil || r.world == nil {
		return 0, false
	}
	if !r.Configured() {
		log.Printf("ragdoll: no layout configured, skipping handoff")
		return 0, false
	}
	pw := r.world.PhysicsWorld()
	if pw == nil {
		log.Printf("ragdoll: no physics world attached, skipping handoff")
		return 0, false
	}

	friction := r.spec.Friction
	if friction <= 0 {
		friction = 0.6
	}

	instance := ecs.CreateEntity(r.world)
	rag := &component.Ragdoll{}
	for _, ps := range r.spec.Parts {
		mass := ps.Mass
		if mass <= 0 {
			mass = 1
		}
		body := cp.NewBody(mass, cp.MomentForBox(mass, ps.Width, ps.Height))
		body.SetPosition(cp.Vector{X: pose.X + ps.OffsetX, Y: pose.Y + ps.OffsetY})
		body.SetVelocityVector(velocity)

		shape := cp.NewBox(body, ps.Width, ps.Height, 0)
		shape.SetFriction(friction)
		shape.SetCollisionType(ecs.CollisionTypeRagdoll)

		pw.AddBody(instance, body, shape)
		rag.Parts = append(rag.Parts, component.RagdollPart{
			Name: ps.Name, Body: body, Shape: shape,
			Width: ps.Width, Height: ps.Height,
		})
	}

	_ = ecs.Add(r.world, instance, component.RagdollComponent.Kind(), rag)
	_ = ecs.Add(r.world, instance, component.TransformComponent.Kind(), &component.Transform{X: pose.X, Y: pose.Y, Rotation: pose.Rotation})
	return instance, true
}

// Teardown removes the instance's bodies from the space and destroys the
// entity. Restoring the living entity's visuals and physics is the caller's
// responsibility.
func (r *RagdollHandoff) Teardown(instance ecs.Entity) {
	if r == nil || r.world == nil || !instance.Valid() {
		return
	}
	if rag, ok := ecs.Get(r.world, instance, component.RagdollComponent.Kind()); ok {
		pw := r.world.PhysicsWorld()
		for _, part := range rag.Parts {
			if pw != nil {
				pw.RemoveBody(part.Body, part.Shape)
			}
		}
	}
	ecs.DestroyEntity(r.world, instance)
}

// PartShapes returns the instance's collision shapes, or nil if it is gone.
func (r *RagdollHandoff) PartShapes(instance ecs.Entity) []*cp.Shape {
	if r == nil || r.world == nil {
		return nil
	}
	rag, ok := ecs.Get(r.world, instance, component.RagdollComponent.Kind())
	if !ok {
		return nil
	}
	shapes := make([]*cp.Shape, 0, len(rag.Parts))
	for _, part := range rag.Parts {
		if part.Shape != nil {
			shapes = append(shapes, part.Shape)
		}
	}
	return shapes
}
