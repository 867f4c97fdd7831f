package entity

import (
	"fmt"

	"github.com/jakecoffman/cp"
	"github.com/ravenfell/deadfall/ecs"
	"github.com/ravenfell/deadfall/ecs/component"
	"github.com/ravenfell/deadfall/prefabs"
)

// NewPlayer builds the player entity at the given spawn point: a dynamic
// fixed-rotation box, a thin ground sensor under its feet, and the full set
// of gameplay components.
func NewPlayer(w *ecs.World, spec prefabs.PlayerSpec, x, y float64) (ecs.Entity, error) {
	if w == nil || w.PhysicsWorld() == nil {
		return 0, fmt.Errorf("player: world has no physics")
	}
	pw := w.PhysicsWorld()

	e := ecs.CreateEntity(w)

	body, shape := pw.NewDynamicBox(spec.Mass, spec.Width, spec.Height, true, ecs.CollisionTypePlayer)
	body.SetPosition(cp.Vector{X: x, Y: y})
	shape.SetFriction(0.8)
	pw.AddBody(e, body, shape)

	sensor := cp.NewBox2(body, cp.BB{
		L: -spec.Width * 0.45,
		B: spec.Height / 2,
		R: spec.Width * 0.45,
		T: spec.Height/2 + 2,
	}, 0)
	pw.AddGroundSensor(e, sensor)

	state := &component.CollisionState{}
	pw.SetEntityState(e, state)

	adds := []error{
		ecs.Add(w, e, component.TransformComponent.Kind(), &component.Transform{X: x, Y: y}),
		ecs.Add(w, e, component.PhysicsBodyComponent.Kind(), &component.PhysicsBody{
			Body: body, Shape: shape, GroundShape: sensor,
			Width: spec.Width, Height: spec.Height,
		}),
		ecs.Add(w, e, component.CollisionStateComponent.Kind(), state),
		ecs.Add(w, e, component.VitalityComponent.Kind(), &component.Vitality{}),
		ecs.Add(w, e, component.LocomotionComponent.Kind(), &component.Locomotion{
			Enabled: true, MoveSpeed: spec.MoveSpeed, JumpSpeed: spec.JumpSpeed,
		}),
		ecs.Add(w, e, component.InputComponent.Kind(), &component.Input{}),
		ecs.Add(w, e, component.VisualComponent.Kind(), &component.Visual{}),
		ecs.Add(w, e, component.PlayerTagComponent.Kind(), &component.PlayerTag{}),
		ecs.Add(w, e, component.RespawnAnchorComponent.Kind(), &component.RespawnAnchor{}),
	}
	for _, err := range adds {
		if err != nil {
			return 0, fmt.Errorf("player: %w", err)
		}
	}
	return e, nil
}
