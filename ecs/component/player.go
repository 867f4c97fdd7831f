package component

// PlayerTag marks the controllable entity.
type PlayerTag struct{}

var PlayerTagComponent = NewComponent[PlayerTag]()

// Locomotion is the movement capability the death transition disables and
// the respawn transition restores.
type Locomotion struct {
	Enabled    bool
	MoveSpeed  float64
	JumpSpeed  float64
	FacingLeft bool
}

var LocomotionComponent = NewComponent[Locomotion]()

// Input is the sampled per-frame control state. Sampling happens at the
// frame-loop edge; systems only read this component.
type Input struct {
	MoveX       float64
	JumpPressed bool
}

var InputComponent = NewComponent[Input]()

// Visual gates rendering of the entity's own representation. The death
// transition hides it while a ragdoll stands in for the entity.
type Visual struct {
	Hidden bool
}

var VisualComponent = NewComponent[Visual]()

// RespawnAnchor is where the entity is restored on respawn. Captured is set
// once the anchor has been seeded (explicitly from config or from the
// entity's pose at wiring time).
type RespawnAnchor struct {
	X        float64
	Y        float64
	Captured bool
}

var RespawnAnchorComponent = NewComponent[RespawnAnchor]()
