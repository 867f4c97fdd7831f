package component

import "github.com/jakecoffman/cp"

// PhysicsBody holds an entity's dynamic body and shapes in the Chipmunk
// space. GroundShape is an optional sensor used for grounded detection.
// Frozen marks a body whose velocity integration has been zeroed out (the
// no-ragdoll death fallback).
type PhysicsBody struct {
	Body        *cp.Body
	Shape       *cp.Shape
	GroundShape *cp.Shape
	Width       float64
	Height      float64
	Frozen      bool
}

var PhysicsBodyComponent = NewComponent[PhysicsBody]()

// CollisionState is written by the physics collision handlers each step.
// GroundGrace keeps Grounded readable for a few frames after contact ends.
type CollisionState struct {
	Grounded    bool
	GroundGrace int
}

var CollisionStateComponent = NewComponent[CollisionState]()
