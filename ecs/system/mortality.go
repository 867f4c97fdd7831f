package system

import (
	"log"

	"github.com/jakecoffman/cp"
	"github.com/ravenfell/deadfall/common"
	"github.com/ravenfell/deadfall/ecs"
	"github.com/ravenfell/deadfall/ecs/component"
	"github.com/ravenfell/deadfall/prefabs"
)

// ScriptRunner executes a hazard's scripted contact logic.
type ScriptRunner interface {
	Run(src string, hazard ecs.Entity)
}

type suppressRequest struct {
	target     *cp.Shape
	duration   float64
	framesLeft int
}

// Mortality owns the player's vitality and the Alive -> Dying -> Dead ->
// Alive life cycle. Dying is transient within a single Die call; it is never
// held across frames. The idempotence of Die is what keeps the subsystem
// consistent when several death triggers fire in the same tick.
type Mortality struct {
	world       *ecs.World
	ragdolls    *RagdollHandoff
	suppression *Suppression
	cfg         prefabs.MortalitySpec
	scripts     ScriptRunner
	reload      func()

	player    ecs.Entity
	ragdoll   ecs.Entity
	deathPose component.Transform
	fallDeath bool
	respawnAt float64
	pending   []*suppressRequest
}

// NewMortality wires the state machine to its collaborators. The player
// entity is injected later via Bind, after the world has been built.
func NewMortality(w *ecs.World, ragdolls *RagdollHandoff, suppression *Suppression, cfg prefabs.MortalitySpec) *Mortality {
	if cfg.MaxHealth <= 0 {
		cfg.MaxHealth = 100
	}
	if cfg.RespawnDelay <= 0 {
		cfg.RespawnDelay = 2.5
	}
	if cfg.RagdollIgnoreDuration <= 0 {
		cfg.RagdollIgnoreDuration = 1.5
	}
	if cfg.SuppressRetryFrames <= 0 {
		cfg.SuppressRetryFrames = 5
	}
	if cfg.NudgeDistance <= 0 {
		cfg.NudgeDistance = 12
	}
	return &Mortality{world: w, ragdolls: ragdolls, suppression: suppression, cfg: cfg}
}

// SetScriptRunner attaches the runner for scripted hazards.
func (m *Mortality) SetScriptRunner(r ScriptRunner) {
	if m == nil {
		return
	}
	m.scripts = r
}

// SetReload attaches the scene-reload callback used instead of an in-place
// respawn when the config asks for it.
func (m *Mortality) SetReload(fn func()) {
	if m == nil {
		return
	}
	m.reload = fn
}

// Bind injects the player entity and seeds the respawn anchor: explicit from
// config, otherwise captured from the player's pose right now.
func (m *Mortality) Bind(player ecs.Entity) {
	if m == nil || m.world == nil || !player.Valid() {
		return
	}
	m.player = player

	if vit, ok := ecs.Get(m.world, player, component.VitalityComponent.Kind()); ok && vit.Max == 0 {
		vit.Max = m.cfg.MaxHealth
		vit.Current = m.cfg.MaxHealth
	}

	anchor, ok := ecs.Get(m.world, player, component.RespawnAnchorComponent.Kind())
	if !ok {
		anchor = &component.RespawnAnchor{}
		_ = ecs.Add(m.world, player, component.RespawnAnchorComponent.Kind(), anchor)
	}
	if anchor.Captured {
		return
	}
	if m.cfg.RespawnExplicit {
		anchor.X = m.cfg.RespawnX
		anchor.Y = m.cfg.RespawnY
		anchor.Captured = true
		return
	}
	if t, tok := ecs.Get(m.world, player, component.TransformComponent.Kind()); tok {
		anchor.X = t.X
		anchor.Y = t.Y
		anchor.Captured = true
	}
}

// Player returns the bound entity.
func (m *Mortality) Player() ecs.Entity {
	if m == nil {
		return 0
	}
	return m.player
}

// RagdollInstance returns the current ragdoll entity, or 0 if none exists.
func (m *Mortality) RagdollInstance() ecs.Entity {
	if m == nil {
		return 0
	}
	return m.ragdoll
}

// DeathPose returns the pose captured at the last death transition.
func (m *Mortality) DeathPose() component.Transform {
	if m == nil {
		return component.Transform{}
	}
	return m.deathPose
}

// WasFallDeath reports whether the last death was classified as a fall.
func (m *Mortality) WasFallDeath() bool {
	return m != nil && m.fallDeath
}

// IsDead reports the current death flag.
func (m *Mortality) IsDead() bool {
	vit := m.vitality()
	return vit != nil && vit.Dead
}

// Health returns (current, max).
func (m *Mortality) Health() (int, int) {
	vit := m.vitality()
	if vit == nil {
		return 0, 0
	}
	return vit.Current, vit.Max
}

// RespawnRemaining returns the seconds of virtual time left until the
// scheduled respawn, or 0 while alive.
func (m *Mortality) RespawnRemaining() float64 {
	if m == nil || m.world == nil || !m.IsDead() {
		return 0
	}
	remaining := m.respawnAt - m.world.Scheduler().Now()
	if remaining < 0 {
		return 0
	}
	return remaining
}

// ApplyDamage decreases health, clamped to [0, max], and drives the death
// transition when health first reaches zero. No effect while dead.
func (m *Mortality) ApplyDamage(amount int) {
	vit := m.vitality()
	if vit == nil {
		log.Printf("mortality: damage ignored, no vitality bound")
		return
	}
	if vit.Dead {
		log.Printf("mortality: damage ignored while dead")
		return
	}
	vit.Current = common.ClampInt(vit.Current-amount, 0, vit.Max)
	if vit.Current == 0 {
		m.Die(component.DeathCauseGeneric)
	}
}

// Heal increases health, clamped to max. No state transition: a dead entity
// stays dead no matter how much it is healed.
func (m *Mortality) Heal(amount int) {
	vit := m.vitality()
	if vit == nil || amount <= 0 {
		return
	}
	vit.Current = common.ClampInt(vit.Current+amount, 0, vit.Max)
}

// Die performs the death transition exactly once per life. A call while
// already dead is a logged no-op, which is what prevents double ragdoll
// spawns and double notifications when several triggers fire together.
func (m *Mortality) Die(cause component.DeathCause) {
	vit := m.vitality()
	if vit == nil {
		log.Printf("mortality: die(%s) ignored, no vitality bound", cause)
		return
	}
	if vit.Dead {
		log.Printf("mortality: die(%s) ignored, already dead", cause)
		return
	}
	vit.Dead = true
	vit.Current = 0

	if loco, ok := ecs.Get(m.world, m.player, component.LocomotionComponent.Kind()); ok {
		loco.Enabled = false
	}

	pose, velocity := m.capturePose()
	m.deathPose = pose
	m.fallDeath = cause == component.DeathCauseForcedFall

	instance, spawned := m.ragdolls.Spawn(pose, velocity)
	if spawned {
		m.ragdoll = instance
		if vis, ok := ecs.Get(m.world, m.player, component.VisualComponent.Kind()); ok {
			vis.Hidden = true
		}
	} else {
		// no ragdoll representation: keep the entity visible, freeze it
		if body, ok := ecs.Get(m.world, m.player, component.PhysicsBodyComponent.Kind()); ok && body.Body != nil {
			m.world.PhysicsWorld().Freeze(body.Body)
			body.Frozen = true
		}
	}

	log.Printf("mortality: died (%s) at (%.1f, %.1f)", cause, pose.X, pose.Y)
	m.world.Notifier().Publish(ecs.SignalDeath)

	m.respawnAt = m.world.Scheduler().Now() + m.cfg.RespawnDelay
	m.world.Scheduler().After(m.cfg.RespawnDelay, func() {
		if m.cfg.ReloadScene && m.reload != nil {
			m.reload()
			return
		}
		m.Respawn()
	})
}

// DieAfter schedules a death transition on the virtual clock. Useful for
// triggers with a fuse. The transition still no-ops if something else kills
// the entity first.
func (m *Mortality) DieAfter(delay float64, cause component.DeathCause) *ecs.Task {
	if m == nil || m.world == nil {
		return nil
	}
	return m.world.Scheduler().After(delay, func() {
		m.Die(cause)
	})
}

// Respawn restores the entity to the respawn anchor. Only valid while dead;
// otherwise a logged no-op.
func (m *Mortality) Respawn() {
	vit := m.vitality()
	if vit == nil || !vit.Dead {
		log.Printf("mortality: respawn ignored while alive")
		return
	}

	if m.ragdoll.Valid() {
		m.ragdolls.Teardown(m.ragdoll)
		m.ragdoll = 0
	}
	m.pending = nil

	t, tok := ecs.Get(m.world, m.player, component.TransformComponent.Kind())
	anchor, aok := ecs.Get(m.world, m.player, component.RespawnAnchorComponent.Kind())
	if tok && aok && anchor.Captured {
		t.X = anchor.X
		t.Y = anchor.Y
		t.Rotation = 0
	}

	if body, ok := ecs.Get(m.world, m.player, component.PhysicsBodyComponent.Kind()); ok && body.Body != nil {
		if tok {
			body.Body.SetPosition(cp.Vector{X: t.X, Y: t.Y})
		}
		body.Body.SetVelocityVector(cp.Vector{})
		body.Body.SetAngularVelocity(0)
		if body.Frozen {
			m.world.PhysicsWorld().Unfreeze(body.Body)
			body.Frozen = false
		}
	}

	vit.Current = vit.Max
	vit.Dead = false
	m.fallDeath = false

	if loco, ok := ecs.Get(m.world, m.player, component.LocomotionComponent.Kind()); ok {
		loco.Enabled = true
	}
	if vis, ok := ecs.Get(m.world, m.player, component.VisualComponent.Kind()); ok {
		vis.Hidden = false
	}

	log.Printf("mortality: respawned")
	m.world.Notifier().Publish(ecs.SignalRespawn)
}

// SuppressRagdollCollisionWith disables collision between the ragdoll and
// the volume for the duration (the configured default when duration <= 0).
// When no ragdoll exists yet the request is buffered and retried for a
// bounded number of frames, because the instance may be produced by a death
// transition still in flight this tick.
func (m *Mortality) SuppressRagdollCollisionWith(target *cp.Shape, duration float64) {
	if m == nil || target == nil {
		return
	}
	if duration <= 0 {
		duration = m.cfg.RagdollIgnoreDuration
	}
	if m.trySuppress(target, duration) {
		return
	}
	m.pending = append(m.pending, &suppressRequest{
		target:     target,
		duration:   duration,
		framesLeft: m.cfg.SuppressRetryFrames,
	})
}

func (m *Mortality) trySuppress(target *cp.Shape, duration float64) bool {
	if !m.ragdoll.Valid() || !ecs.IsAlive(m.world, m.ragdoll) {
		return false
	}
	shapes := m.ragdolls.PartShapes(m.ragdoll)
	if len(shapes) == 0 {
		return false
	}
	m.suppression.Ignore(shapes, target, duration)
	m.suppression.NudgeAway(m.ragdoll, target, m.cfg.NudgeDistance)
	return true
}

// Update drains hazard contacts recorded by the physics handlers and retries
// buffered suppression requests.
func (m *Mortality) Update(w *ecs.World) {
	if m == nil || w == nil {
		return
	}

	hazardContact := false
	if pw := w.PhysicsWorld(); pw != nil {
		for _, hit := range pw.DrainHazardHits() {
			if hit.Target == m.player {
				hazardContact = true
			}
			m.handleHazardHit(hit)
		}
	}
	if !hazardContact {
		m.captureSafeAnchor()
	}

	kept := m.pending[:0]
	for _, req := range m.pending {
		if m.trySuppress(req.target, req.duration) {
			continue
		}
		req.framesLeft--
		if req.framesLeft <= 0 {
			log.Printf("mortality: dropping suppression request, ragdoll never appeared")
			continue
		}
		kept = append(kept, req)
	}
	m.pending = kept
}

func (m *Mortality) handleHazardHit(hit ecs.HazardHit) {
	if hit.Target != m.player {
		return
	}
	hz, ok := ecs.Get(m.world, hit.Hazard, component.HazardComponent.Kind())
	if !ok {
		return
	}

	wasDead := m.IsDead()
	switch {
	case hz.Script != "" && m.scripts != nil:
		m.scripts.Run(hz.Script, hit.Hazard)
	case hz.Cause == component.DeathCauseForcedFall:
		m.Die(component.DeathCauseForcedFall)
	case hz.Damage > 0:
		m.ApplyDamage(hz.Damage)
	}

	// the contact that killed us must not immediately re-arm against the
	// freshly spawned ragdoll
	if !wasDead && m.IsDead() {
		m.SuppressRagdollCollisionWith(hit.HazardShape, m.cfg.RagdollIgnoreDuration)
	}
}

// captureSafeAnchor tracks the last grounded, hazard-free pose so respawn
// returns to safe footing instead of the original spawn. Explicit anchors
// from config are never overwritten.
func (m *Mortality) captureSafeAnchor() {
	if m.cfg.RespawnExplicit || m.IsDead() {
		return
	}
	state, ok := ecs.Get(m.world, m.player, component.CollisionStateComponent.Kind())
	if !ok || !state.Grounded {
		return
	}
	body, bok := ecs.Get(m.world, m.player, component.PhysicsBodyComponent.Kind())
	anchor, aok := ecs.Get(m.world, m.player, component.RespawnAnchorComponent.Kind())
	if !bok || !aok || body.Body == nil {
		return
	}
	pos := body.Body.Position()
	anchor.X = pos.X
	anchor.Y = pos.Y
	anchor.Captured = true
}

func (m *Mortality) capturePose() (component.Transform, cp.Vector) {
	pose := component.Transform{}
	velocity := cp.Vector{}
	if t, ok := ecs.Get(m.world, m.player, component.TransformComponent.Kind()); ok {
		pose = *t
	}
	if body, ok := ecs.Get(m.world, m.player, component.PhysicsBodyComponent.Kind()); ok && body.Body != nil {
		pos := body.Body.Position()
		pose.X = pos.X
		pose.Y = pos.Y
		velocity = body.Body.Velocity()
	}
	return pose, velocity
}

func (m *Mortality) vitality() *component.Vitality {
	if m == nil || m.world == nil || !m.player.Valid() {
		return nil
	}
	vit, ok := ecs.Get(m.world, m.player, component.VitalityComponent.Kind())
	if !ok {
		return nil
	}
	return vit
}
