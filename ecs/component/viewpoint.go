package component

// ViewMode selects between the near (tight, first-person-style) and far
// (wide, third-person-style) viewpoints.
type ViewMode int

const (
	ViewNear ViewMode = iota
	ViewFar
)

func (m ViewMode) String() string {
	if m == ViewFar {
		return "far"
	}
	return "near"
}

// Viewpoint is one of the two camera vantages. Follow and Look are raw
// entity handles (stored untyped to keep this package free of the ecs
// package). Activation is resolved either by Priority weighting or by the
// Enabled flag, depending on configuration; both must agree on the active
// viewpoint.
type Viewpoint struct {
	Mode     ViewMode
	Priority float64
	Enabled  bool
	Follow   uint64
	Look     uint64
	Zoom     float64
}

var ViewpointComponent = NewComponent[Viewpoint]()

// PitMarker registers a pit-rim point of interest used to pick a fall-death
// camera anchor. Pose comes from the entity's Transform.
type PitMarker struct{}

var PitMarkerComponent = NewComponent[PitMarker]()

// FocusAnchor tags the transient anchor entity created by a death focus.
type FocusAnchor struct{}

var FocusAnchorComponent = NewComponent[FocusAnchor]()
