package system

import (
	"testing"

	"github.com/jakecoffman/cp"
	"github.com/ravenfell/deadfall/ecs"
	"github.com/ravenfell/deadfall/ecs/component"
	"github.com/ravenfell/deadfall/ecs/entity"
	"github.com/ravenfell/deadfall/prefabs"
)

func testCameraSpec() prefabs.CameraSpec {
	return prefabs.CameraSpec{
		Activation:            "priority",
		NearPriority:          10,
		FarPriority:           5,
		FallVelocityThreshold: 260,
		FallHeightThreshold:   120,
		PitSearchRadius:       50,
		FallAnchorHeight:      64,
		DeathAnchorHeight:     24,
		NearZoom:              2.0,
		FarZoom:               1.0,
		BlendSeconds:          0.35,
		PermissiveSight:       true,
	}
}

func newCameraRig(t *testing.T) (*ecs.World, *Mortality, *CameraFocus, ecs.Entity) {
	t.Helper()
	w, m, player := newTestRig(t, testRagdollSpec())

	near, far, err := entity.NewViewpoints(w, testCameraSpec(), player)
	if err != nil {
		t.Fatalf("NewViewpoints: %v", err)
	}
	c := NewCameraFocus(w, m, testCameraSpec())
	c.BindViewpoints(near, far)
	return w, m, c, player
}

func addPitMarker(w *ecs.World, x, y float64) ecs.Entity {
	e := ecs.CreateEntity(w)
	_ = ecs.Add(w, e, component.TransformComponent.Kind(), &component.Transform{X: x, Y: y})
	_ = ecs.Add(w, e, component.PitMarkerComponent.Kind(), &component.PitMarker{})
	return e
}

func TestCameraFocusStartsNear(t *testing.T) {
	_, _, c, _ := newCameraRig(t)
	if c.Mode() != component.ViewNear {
		t.Fatalf("initial mode = %v, want near", c.Mode())
	}
	if c.DeathFocused() {
		t.Fatalf("no death focus at start")
	}
}

func TestCameraFocusDeathForcesFarAndAnchors(t *testing.T) {
	w, m, c, _ := newCameraRig(t)

	m.Die(component.DeathCauseGeneric)

	if c.Mode() != component.ViewFar {
		t.Fatalf("death must force the far view, mode = %v", c.Mode())
	}
	if !c.DeathFocused() {
		t.Fatalf("death focus must be held")
	}

	anchor := c.Anchor()
	if !anchor.Valid() || !ecs.IsAlive(w, anchor) {
		t.Fatalf("expected a live anchor entity")
	}
	at, _ := ecs.Get(w, anchor, component.TransformComponent.Kind())
	pose := m.DeathPose()
	if at.X != pose.X || at.Y != pose.Y-24 {
		t.Fatalf("non-fall anchor = (%v, %v), want (%v, %v)", at.X, at.Y, pose.X, pose.Y-24)
	}

	_, vp := c.ActiveViewpoint()
	if vp == nil || vp.Mode != component.ViewFar {
		t.Fatalf("far viewpoint must win after death")
	}
	if vp.Follow != uint64(anchor) {
		t.Fatalf("far view must follow the anchor")
	}
	if vp.Look != uint64(m.RagdollInstance()) {
		t.Fatalf("far view must look at the ragdoll")
	}
}

func TestCameraFocusFallDeathPrefersPitMarker(t *testing.T) {
	w, m, c, _ := newCameraRig(t)

	near := addPitMarker(w, 110, 105) // ~11 units from the death pose
	addPitMarker(w, 400, 400)         // out of search radius

	m.Die(component.DeathCauseForcedFall)

	anchor := c.Anchor()
	at, _ := ecs.Get(w, anchor, component.TransformComponent.Kind())
	mt, _ := ecs.Get(w, near, component.TransformComponent.Kind())
	if at.X != mt.X || at.Y != mt.Y {
		t.Fatalf("fall anchor = (%v, %v), want the nearby marker (%v, %v)", at.X, at.Y, mt.X, mt.Y)
	}
}

func TestCameraFocusFallDeathWithoutMarkerUsesOffset(t *testing.T) {
	w, m, c, _ := newCameraRig(t)

	m.Die(component.DeathCauseForcedFall)

	anchor := c.Anchor()
	at, _ := ecs.Get(w, anchor, component.TransformComponent.Kind())
	pose := m.DeathPose()
	if at.Y != pose.Y-64 {
		t.Fatalf("markerless fall anchor = %v, want %v", at.Y, pose.Y-64)
	}
}

func TestCameraFocusRespawnRestores(t *testing.T) {
	w, m, c, player := newCameraRig(t)

	m.Die(component.DeathCauseGeneric)
	anchor := c.Anchor()

	// the scheduled respawn on the virtual clock releases the focus
	w.Scheduler().Tick(2.6)

	if c.DeathFocused() {
		t.Fatalf("respawn must release the death focus")
	}
	if c.Mode() != component.ViewNear {
		t.Fatalf("respawn must return to the near view, mode = %v", c.Mode())
	}
	if ecs.IsAlive(w, anchor) {
		t.Fatalf("anchor entity must be destroyed on respawn")
	}

	_, vp := c.ActiveViewpoint()
	if vp == nil || vp.Mode != component.ViewNear {
		t.Fatalf("near viewpoint must win after respawn")
	}

	// the far view's original targets are restored from the snapshot
	farVp := findViewpoint(t, w, component.ViewFar)
	if farVp.Follow != uint64(player) || farVp.Look != uint64(player) {
		t.Fatalf("far view targets not restored: follow=%v look=%v", farVp.Follow, farVp.Look)
	}
}

func TestCameraFocusStrictSightFramesAnchor(t *testing.T) {
	w, m, player := newTestRig(t, testRagdollSpec())

	cfg := testCameraSpec()
	cfg.PermissiveSight = false
	near, far, err := entity.NewViewpoints(w, cfg, player)
	if err != nil {
		t.Fatalf("NewViewpoints: %v", err)
	}
	c := NewCameraFocus(w, m, cfg)
	c.BindViewpoints(near, far)

	m.Die(component.DeathCauseGeneric)

	vp, _ := ecs.Get(w, far, component.ViewpointComponent.Kind())
	if vp.Look != uint64(c.Anchor()) {
		t.Fatalf("strict sight must look at the anchor, not the ragdoll")
	}
}

func TestCameraFocusSuppressedWhileDead(t *testing.T) {
	w, m, c, player := newCameraRig(t)

	m.Die(component.DeathCauseGeneric)

	// a huge downward velocity would normally trip the fall transition
	body, _ := ecs.Get(w, player, component.PhysicsBodyComponent.Kind())
	body.Body.SetVelocityVector(cp.Vector{X: 0, Y: 1000})
	c.Update(w)

	if !c.DeathFocused() || c.Mode() != component.ViewFar {
		t.Fatalf("ordinary transitions must not run while death focus is held")
	}
}

func TestCameraFocusFallDetection(t *testing.T) {
	w, _, c, player := newCameraRig(t)

	body, _ := ecs.Get(w, player, component.PhysicsBodyComponent.Kind())
	state, _ := ecs.Get(w, player, component.CollisionStateComponent.Kind())

	// grounded first so the fall height has a reference
	state.Grounded = true
	c.Update(w)
	if c.Mode() != component.ViewNear {
		t.Fatalf("grounded must hold the near view")
	}

	// airborne, fast, and far below the last grounded height
	state.Grounded = false
	state.GroundGrace = 0
	body.Body.SetPosition(cp.Vector{X: 100, Y: 400})
	body.Body.SetVelocityVector(cp.Vector{X: 0, Y: 500})
	c.Update(w)
	if c.Mode() != component.ViewFar {
		t.Fatalf("a long fast fall must switch to the far view")
	}

	// landing switches back
	state.Grounded = true
	c.Update(w)
	if c.Mode() != component.ViewNear {
		t.Fatalf("landing must return to the near view")
	}
}

func TestCameraFocusSlowDescentStaysNear(t *testing.T) {
	w, _, c, player := newCameraRig(t)

	body, _ := ecs.Get(w, player, component.PhysicsBodyComponent.Kind())
	state, _ := ecs.Get(w, player, component.CollisionStateComponent.Kind())

	state.Grounded = true
	c.Update(w)

	// below the velocity threshold: stay near no matter the height
	state.Grounded = false
	state.GroundGrace = 0
	body.Body.SetPosition(cp.Vector{X: 100, Y: 400})
	body.Body.SetVelocityVector(cp.Vector{X: 0, Y: 100})
	c.Update(w)
	if c.Mode() != component.ViewNear {
		t.Fatalf("slow descent must not trip the far view")
	}
}

func TestCameraFocusZoomBlends(t *testing.T) {
	w, m, c, _ := newCameraRig(t)

	start := c.Zoom()
	if start != 2.0 {
		t.Fatalf("initial zoom = %v, want near zoom", start)
	}

	m.Die(component.DeathCauseGeneric)

	// the blend approaches far zoom over the configured duration
	for i := 0; i < 30; i++ {
		c.Update(w)
	}
	if z := c.Zoom(); z != 1.0 {
		t.Fatalf("zoom should settle at far zoom, got %v", z)
	}
}

func findViewpoint(t *testing.T, w *ecs.World, mode component.ViewMode) *component.Viewpoint {
	t.Helper()
	var found *component.Viewpoint
	ecs.ForEach(w, component.ViewpointComponent.Kind(), func(_ ecs.Entity, vp *component.Viewpoint) {
		if vp.Mode == mode {
			found = vp
		}
	})
	if found == nil {
		t.Fatalf("no %v viewpoint in world", mode)
	}
	return found
}
