package component

// Hazard marks a sensor volume that harms the player on contact. A zero
// Damage with a ForcedFall cause kills outright (pit floors). Script, when
// set, is a tengo source run instead of the built-in damage handling.
type Hazard struct {
	Cause  DeathCause
	Damage int
	Script string
}

var HazardComponent = NewComponent[Hazard]()

// Volume is the world-space extent of a static trigger or solid, centered on
// the entity's Transform.
type Volume struct {
	Width  float64
	Height float64
}

var VolumeComponent = NewComponent[Volume]()
