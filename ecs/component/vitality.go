package component

// DeathCause classifies what killed an entity. It is not persisted; it only
// biases the camera's view-anchor selection.
type DeathCause int

const (
	DeathCauseGeneric DeathCause = iota
	DeathCauseForcedFall
)

func (c DeathCause) String() string {
	if c == DeathCauseForcedFall {
		return "forced_fall"
	}
	return "generic"
}

// Vitality tracks health and the death flag. Current stays in [0, Max];
// Dead is set exactly once per life and cleared only by a respawn.
type Vitality struct {
	Max     int
	Current int
	Dead    bool
}

var VitalityComponent = NewComponent[Vitality]()
