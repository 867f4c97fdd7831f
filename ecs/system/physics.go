package system

import (
	"github.com/ravenfell/deadfall/common"
	"github.com/ravenfell/deadfall/ecs"
	"github.com/ravenfell/deadfall/ecs/component"
)

// Physics steps the simulation at the fixed tick rate and mirrors body poses
// back into Transform components.
type Physics struct{}

func NewPhysics() *Physics {
	return &Physics{}
}

func (p *Physics) Update(w *ecs.World) {
	pw := w.PhysicsWorld()
	if pw == nil {
		return
	}

	// ground contact is re-established every tick by the sensor handler
	ecs.ForEach(w, component.CollisionStateComponent.Kind(), func(_ ecs.Entity, s *component.CollisionState) {
		s.Grounded = false
		if s.GroundGrace > 0 {
			s.GroundGrace--
		}
	})

	pw.Step(common.TickDelta)

	ecs.ForEach2(w, component.PhysicsBodyComponent.Kind(), component.TransformComponent.Kind(),
		func(_ ecs.Entity, b *component.PhysicsBody, t *component.Transform) {
			if b.Body == nil {
				return
			}
			pos := b.Body.Position()
			t.X = pos.X
			t.Y = pos.Y
			t.Rotation = b.Body.Angle()
		})

	ecs.ForEach2(w, component.RagdollComponent.Kind(), component.TransformComponent.Kind(),
		func(_ ecs.Entity, r *component.Ragdoll, t *component.Transform) {
			if len(r.Parts) == 0 || r.Parts[0].Body == nil {
				return
			}
			pos := r.Parts[0].Body.Position()
			t.X = pos.X
			t.Y = pos.Y
			t.Rotation = r.Parts[0].Body.Angle()
		})
}
