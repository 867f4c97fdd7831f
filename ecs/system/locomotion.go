package system

import (
	"github.com/jakecoffman/cp"
	"github.com/ravenfell/deadfall/ecs"
	"github.com/ravenfell/deadfall/ecs/component"
)

// Locomotion converts sampled input into body velocity. Disabled locomotion
// (as during death) leaves the body entirely to the simulation.
type Locomotion struct{}

func NewLocomotion() *Locomotion {
	return &Locomotion{}
}

func (l *Locomotion) Update(w *ecs.World) {
	ecs.ForEach3(w, component.InputComponent.Kind(), component.LocomotionComponent.Kind(), component.PhysicsBodyComponent.Kind(),
		func(e ecs.Entity, in *component.Input, loco *component.Locomotion, body *component.PhysicsBody) {
			if !loco.Enabled || body.Body == nil {
				return
			}

			vel := body.Body.Velocity()
			vel.X = in.MoveX * loco.MoveSpeed
			if in.MoveX < 0 {
				loco.FacingLeft = true
			} else if in.MoveX > 0 {
				loco.FacingLeft = false
			}

			if in.JumpPressed {
				if state, ok := ecs.Get(w, e, component.CollisionStateComponent.Kind()); ok {
					if state.Grounded || state.GroundGrace > 0 {
						vel.Y = -loco.JumpSpeed
						state.Grounded = false
						state.GroundGrace = 0
					}
				}
			}

			body.Body.SetVelocityVector(cp.Vector{X: vel.X, Y: vel.Y})
		})
}
