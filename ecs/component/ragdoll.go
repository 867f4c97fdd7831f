package component

import "github.com/jakecoffman/cp"

// RagdollPart is one free dynamic body of a spawned ragdoll.
type RagdollPart struct {
	Name   string
	Body   *cp.Body
	Shape  *cp.Shape
	Width  float64
	Height float64
}

// Ragdoll is the physics-body collection substituted for the entity after
// death. At most one instance exists at a time; it is created by the death
// transition and destroyed by the respawn transition.
type Ragdoll struct {
	Parts []RagdollPart
}

var RagdollComponent = NewComponent[Ragdoll]()
