package system

import (
	"log"
	"math"

	"github.com/ravenfell/deadfall/common"
	"github.com/ravenfell/deadfall/ecs"
	"github.com/ravenfell/deadfall/ecs/component"
	"github.com/ravenfell/deadfall/prefabs"
	"github.com/tanema/gween"
	"github.com/tanema/gween/ease"
)

// CameraFocus arbitrates between a near viewpoint that tracks normal play
// and a far viewpoint used for long falls and death framing. Regular
// transitions are suppressed while a death focus is held; only the respawn
// notification releases it.
type CameraFocus struct {
	world     *ecs.World
	mortality *Mortality
	cfg       prefabs.CameraSpec

	near ecs.Entity
	far  ecs.Entity

	mode         component.ViewMode
	deathFocused bool
	anchor       ecs.Entity

	snapValid  bool
	snapFollow uint64
	snapLook   uint64

	blend *gween.Tween
	zoom  float64

	lastGroundedY float64
	haveGroundedY bool
}

// NewCameraFocus registers the coordinator with the world's notifier so
// death and respawn drive focus changes without the mortality system knowing
// about cameras.
func NewCameraFocus(w *ecs.World, mortality *Mortality, cfg prefabs.CameraSpec) *CameraFocus {
	if cfg.NearPriority == 0 {
		cfg.NearPriority = 10
	}
	if cfg.FarPriority == 0 {
		cfg.FarPriority = 5
	}
	if cfg.NearZoom <= 0 {
		cfg.NearZoom = 2.0
	}
	if cfg.FarZoom <= 0 {
		cfg.FarZoom = 1.0
	}
	if cfg.BlendSeconds <= 0 {
		cfg.BlendSeconds = 0.35
	}
	c := &CameraFocus{
		world:     w,
		mortality: mortality,
		cfg:       cfg,
		mode:      component.ViewNear,
		zoom:      cfg.NearZoom,
	}
	w.Notifier().Subscribe(ecs.SignalDeath, "camera-focus", c.onDeath)
	w.Notifier().Subscribe(ecs.SignalRespawn, "camera-focus", c.onRespawn)
	return c
}

// BindViewpoints injects the two viewpoint entities after the world is built.
func (c *CameraFocus) BindViewpoints(near, far ecs.Entity) {
	if c == nil {
		return
	}
	c.near = near
	c.far = far
	c.applyMode(component.ViewNear)
}

// Mode returns the currently requested view mode.
func (c *CameraFocus) Mode() component.ViewMode {
	if c == nil {
		return component.ViewNear
	}
	return c.mode
}

// DeathFocused reports whether a death focus currently pins the far view.
func (c *CameraFocus) DeathFocused() bool {
	return c != nil && c.deathFocused
}

// Zoom returns the current (possibly mid-blend) zoom factor.
func (c *CameraFocus) Zoom() float64 {
	if c == nil {
		return 1
	}
	return c.zoom
}

// Anchor returns the death-focus anchor entity, or 0 when none exists.
func (c *CameraFocus) Anchor() ecs.Entity {
	if c == nil {
		return 0
	}
	return c.anchor
}

// ActiveViewpoint resolves which viewpoint currently wins. Both activation
// styles resolve identically: the enabled viewpoint with the highest
// priority.
func (c *CameraFocus) ActiveViewpoint() (ecs.Entity, *component.Viewpoint) {
	if c == nil || c.world == nil {
		return 0, nil
	}
	var bestEntity ecs.Entity
	var best *component.Viewpoint
	for _, e := range []ecs.Entity{c.near, c.far} {
		vp, ok := ecs.Get(c.world, e, component.ViewpointComponent.Kind())
		if !ok || !vp.Enabled {
			continue
		}
		if best == nil || vp.Priority > best.Priority {
			bestEntity = e
			best = vp
		}
	}
	return bestEntity, best
}

// Update advances the zoom blend and evaluates ordinary focus transitions.
// Fall detection compares the player's downward speed and the distance
// dropped since last grounded against the configured thresholds.
func (c *CameraFocus) Update(w *ecs.World) {
	if c == nil || w == nil {
		return
	}

	if c.blend != nil {
		v, done := c.blend.Update(float32(common.TickDelta))
		c.zoom = float64(v)
		if done {
			c.blend = nil
		}
	}

	if c.deathFocused || (c.mortality != nil && c.mortality.IsDead()) {
		return
	}
	player := ecs.Entity(0)
	if c.mortality != nil {
		player = c.mortality.Player()
	}
	if !player.Valid() {
		return
	}

	body, bok := ecs.Get(w, player, component.PhysicsBodyComponent.Kind())
	state, sok := ecs.Get(w, player, component.CollisionStateComponent.Kind())
	if !bok || !sok || body.Body == nil {
		return
	}
	pos := body.Body.Position()

	grounded := state.Grounded || state.GroundGrace > 0
	if grounded {
		c.lastGroundedY = pos.Y
		c.haveGroundedY = true
		if c.mode != component.ViewNear {
			c.applyMode(component.ViewNear)
		}
		return
	}

	if c.mode == component.ViewFar {
		return
	}
	falling := body.Body.Velocity().Y > c.cfg.FallVelocityThreshold
	dropped := !c.haveGroundedY || pos.Y-c.lastGroundedY > c.cfg.FallHeightThreshold
	if falling && dropped {
		c.applyMode(component.ViewFar)
	}
}

func (c *CameraFocus) onDeath() {
	if c == nil || c.mortality == nil {
		return
	}
	c.FocusOnRagdoll(c.mortality.RagdollInstance(), c.mortality.DeathPose(), c.mortality.WasFallDeath())
}

// FocusOnRagdoll pins the far viewpoint on the death scene. The far view's
// previous targets are snapshotted once so respawn can restore them; the
// anchor entity carries the framing position, biased toward a nearby pit
// marker for fall deaths.
func (c *CameraFocus) FocusOnRagdoll(instance ecs.Entity, deathPose component.Transform, fallDeath bool) {
	if c == nil || c.world == nil {
		return
	}
	far, ok := ecs.Get(c.world, c.far, component.ViewpointComponent.Kind())
	if !ok {
		log.Printf("camera: far viewpoint missing, death focus skipped")
		return
	}

	if !c.snapValid {
		c.snapFollow = far.Follow
		c.snapLook = far.Look
		c.snapValid = true
	}

	anchorPose := c.anchorPose(deathPose, fallDeath)
	if c.anchor.Valid() && ecs.IsAlive(c.world, c.anchor) {
		if t, tok := ecs.Get(c.world, c.anchor, component.TransformComponent.Kind()); tok {
			*t = anchorPose
		}
	} else {
		c.anchor = ecs.CreateEntity(c.world)
		pose := anchorPose
		_ = ecs.Add(c.world, c.anchor, component.TransformComponent.Kind(), &pose)
		_ = ecs.Add(c.world, c.anchor, component.FocusAnchorComponent.Kind(), &component.FocusAnchor{})
	}

	// permissive sight tracks the ragdoll itself; strict sight frames the
	// fixed anchor so the camera never chases parts behind level geometry
	far.Follow = uint64(c.anchor)
	if c.cfg.PermissiveSight && instance.Valid() && ecs.IsAlive(c.world, instance) {
		far.Look = uint64(instance)
	} else {
		if c.cfg.PermissiveSight {
			log.Printf("camera: ragdoll gone, looking at anchor instead")
		}
		far.Look = uint64(c.anchor)
	}

	c.deathFocused = true
	c.applyMode(component.ViewFar)
}

// anchorPose picks where the death framing sits: the nearest pit marker
// within the search radius for fall deaths, otherwise a fixed offset above
// the death pose.
func (c *CameraFocus) anchorPose(deathPose component.Transform, fallDeath bool) component.Transform {
	if !fallDeath {
		return component.Transform{X: deathPose.X, Y: deathPose.Y - c.cfg.DeathAnchorHeight}
	}

	bestDist := math.Inf(1)
	var best component.Transform
	found := false
	ecs.ForEach2(c.world, component.PitMarkerComponent.Kind(), component.TransformComponent.Kind(),
		func(e ecs.Entity, _ *component.PitMarker, t *component.Transform) {
			d := common.Dist(deathPose.X, deathPose.Y, t.X, t.Y)
			if d <= c.cfg.PitSearchRadius && d < bestDist {
				bestDist = d
				best = *t
				found = true
			}
		})
	if found {
		return best
	}
	return component.Transform{X: deathPose.X, Y: deathPose.Y - c.cfg.FallAnchorHeight}
}

func (c *CameraFocus) onRespawn() {
	if c == nil || c.world == nil {
		return
	}
	if c.anchor.Valid() {
		ecs.DestroyEntity(c.world, c.anchor)
		c.anchor = 0
	}
	if far, ok := ecs.Get(c.world, c.far, component.ViewpointComponent.Kind()); ok && c.snapValid {
		far.Follow = c.snapFollow
		far.Look = c.snapLook
	}
	c.snapValid = false
	c.deathFocused = false
	c.applyMode(component.ViewNear)
}

// applyMode flips priorities or enabled flags depending on the configured
// activation style and kicks off the zoom blend toward the new mode.
func (c *CameraFocus) applyMode(mode component.ViewMode) {
	c.mode = mode

	near, nok := ecs.Get(c.world, c.near, component.ViewpointComponent.Kind())
	far, fok := ecs.Get(c.world, c.far, component.ViewpointComponent.Kind())
	if !nok || !fok {
		return
	}

	switch c.cfg.Activation {
	case "exclusive":
		near.Enabled = mode == component.ViewNear
		far.Enabled = mode == component.ViewFar
	default: // priority
		near.Enabled = true
		far.Enabled = true
		near.Priority = c.cfg.NearPriority
		far.Priority = c.cfg.FarPriority
		if mode == component.ViewFar {
			far.Priority = c.cfg.NearPriority + 1
		}
	}

	target := c.cfg.NearZoom
	if mode == component.ViewFar {
		target = c.cfg.FarZoom
	}
	if target != c.zoom {
		c.blend = gween.New(float32(c.zoom), float32(target), float32(c.cfg.BlendSeconds), ease.OutQuad)
	}
}
