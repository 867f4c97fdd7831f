package ecs

import (
	"math"

	"github.com/jakecoffman/cp"
	"github.com/ravenfell/deadfall/ecs/component"
)

const (
	CollisionTypeSolid cp.CollisionType = iota + 1
	CollisionTypeHazard
	CollisionTypePlayer
	CollisionTypeGroundSensor
	CollisionTypeRagdoll
)

// HazardHit records one player-hazard contact observed by the collision
// handlers during a step. The mortality system drains these each tick.
type HazardHit struct {
	Target      Entity
	Hazard      Entity
	HazardShape *cp.Shape
}

type shapePair struct {
	a *cp.Shape
	b *cp.Shape
}

// PhysicsWorld owns the Chipmunk space, the shape-to-entity maps, and the
// set of temporarily suppressed collision pairs. Bodies and shapes are
// tracked here so removal stays a no-op for anything already gone.
type PhysicsWorld struct {
	space         *cp.Space
	handlersReady bool

	shapeToEntity  map[*cp.Shape]Entity
	groundToEntity map[*cp.Shape]Entity
	hazardToEntity map[*cp.Shape]Entity
	entityStates   map[Entity]*component.CollisionState
	liveShapes     map[*cp.Shape]struct{}
	liveBodies     map[*cp.Body]struct{}
	suppressed     map[shapePair]struct{}

	hazardHits []HazardHit
}

// NewPhysicsWorld creates a physics world with the given downward gravity.
func NewPhysicsWorld(gravity float64) *PhysicsWorld {
	space := cp.NewSpace()
	space.Iterations = 20
	space.SetGravity(cp.Vector{X: 0, Y: gravity})

	pw := &PhysicsWorld{
		space:          space,
		shapeToEntity:  make(map[*cp.Shape]Entity),
		groundToEntity: make(map[*cp.Shape]Entity),
		hazardToEntity: make(map[*cp.Shape]Entity),
		entityStates:   make(map[Entity]*component.CollisionState),
		liveShapes:     make(map[*cp.Shape]struct{}),
		liveBodies:     make(map[*cp.Body]struct{}),
		suppressed:     make(map[shapePair]struct{}),
	}
	pw.setupHandlers()
	return pw
}

// Space returns the underlying Chipmunk space.
func (pw *PhysicsWorld) Space() *cp.Space {
	if pw == nil {
		return nil
	}
	return pw.space
}

// Step advances the physics simulation.
func (pw *PhysicsWorld) Step(dt float64) {
	if pw == nil || pw.space == nil {
		return
	}
	pw.space.Step(dt)
}

// SetEntityState registers the collision state the handlers write into.
func (pw *PhysicsWorld) SetEntityState(e Entity, state *component.CollisionState) {
	if pw == nil || !e.Valid() {
		return
	}
	if state == nil {
		delete(pw.entityStates, e)
		return
	}
	pw.entityStates[e] = state
}

// AddBody inserts a dynamic body and its shapes, tying them to an entity.
func (pw *PhysicsWorld) AddBody(e Entity, body *cp.Body, shapes ...*cp.Shape) {
	if pw == nil || pw.space == nil || body == nil {
		return
	}
	pw.space.AddBody(body)
	pw.liveBodies[body] = struct{}{}
	for _, sh := range shapes {
		if sh == nil {
			continue
		}
		pw.space.AddShape(sh)
		pw.liveShapes[sh] = struct{}{}
		pw.shapeToEntity[sh] = e
	}
}

// AddGroundSensor attaches a grounded-detection sensor shape to an entity
// whose body is already in the space.
func (pw *PhysicsWorld) AddGroundSensor(e Entity, sh *cp.Shape) {
	if pw == nil || pw.space == nil || sh == nil {
		return
	}
	sh.SetSensor(true)
	sh.SetCollisionType(CollisionTypeGroundSensor)
	pw.space.AddShape(sh)
	pw.liveShapes[sh] = struct{}{}
	pw.groundToEntity[sh] = e
}

// AddStaticShape inserts a solid shape attached to the space's static body.
func (pw *PhysicsWorld) AddStaticShape(e Entity, sh *cp.Shape) {
	if pw == nil || pw.space == nil || sh == nil {
		return
	}
	pw.space.AddShape(sh)
	pw.liveShapes[sh] = struct{}{}
	if e.Valid() {
		pw.shapeToEntity[sh] = e
	}
}

// AddHazard inserts a static sensor volume that reports player contacts.
func (pw *PhysicsWorld) AddHazard(e Entity, sh *cp.Shape) {
	if pw == nil || pw.space == nil || sh == nil {
		return
	}
	sh.SetSensor(true)
	sh.SetCollisionType(CollisionTypeHazard)
	pw.space.AddShape(sh)
	pw.liveShapes[sh] = struct{}{}
	pw.hazardToEntity[sh] = e
}

// RemoveBody detaches a body and its shapes. Anything already gone is
// skipped rather than faulted so teardown is safe against double removal.
func (pw *PhysicsWorld) RemoveBody(body *cp.Body, shapes ...*cp.Shape) {
	if pw == nil || pw.space == nil || body == nil {
		return
	}
	for _, sh := range shapes {
		pw.RemoveShape(sh)
	}
	if _, ok := pw.liveBodies[body]; !ok {
		return
	}
	delete(pw.liveBodies, body)
	pw.space.RemoveBody(body)
}

// RemoveShape detaches a single shape if it is still in the space.
func (pw *PhysicsWorld) RemoveShape(sh *cp.Shape) {
	if pw == nil || pw.space == nil || sh == nil {
		return
	}
	if _, ok := pw.liveShapes[sh]; !ok {
		return
	}
	delete(pw.liveShapes, sh)
	delete(pw.shapeToEntity, sh)
	delete(pw.groundToEntity, sh)
	delete(pw.hazardToEntity, sh)
	pw.space.RemoveShape(sh)
}

// Contains reports whether the shape is still live in this world.
func (pw *PhysicsWorld) Contains(sh *cp.Shape) bool {
	if pw == nil || sh == nil {
		return false
	}
	_, ok := pw.liveShapes[sh]
	return ok
}

// EntityFor returns the entity a live shape belongs to, if any.
func (pw *PhysicsWorld) EntityFor(sh *cp.Shape) (Entity, bool) {
	if pw == nil || sh == nil {
		return 0, false
	}
	if e, ok := pw.shapeToEntity[sh]; ok {
		return e, true
	}
	e, ok := pw.hazardToEntity[sh]
	return e, ok
}

// Ignore marks every (part, target) pair as non-colliding until restored.
func (pw *PhysicsWorld) Ignore(parts []*cp.Shape, target *cp.Shape) {
	if pw == nil || target == nil {
		return
	}
	for _, part := range parts {
		if part == nil {
			continue
		}
		pw.suppressed[shapePair{a: part, b: target}] = struct{}{}
	}
}

// Restore clears suppression for every (part, target) pair. Pairs whose
// shapes have since left the space are skipped; the count of pairs restored
// on still-live shapes is returned so callers can log partial restores.
func (pw *PhysicsWorld) Restore(parts []*cp.Shape, target *cp.Shape) int {
	if pw == nil || target == nil {
		return 0
	}
	restored := 0
	for _, part := range parts {
		if part == nil {
			continue
		}
		delete(pw.suppressed, shapePair{a: part, b: target})
		if pw.Contains(part) && pw.Contains(target) {
			restored++
		}
	}
	return restored
}

// Suppressed reports whether the pair is currently non-colliding, in either
// order.
func (pw *PhysicsWorld) Suppressed(a, b *cp.Shape) bool {
	if pw == nil || a == nil || b == nil {
		return false
	}
	if _, ok := pw.suppressed[shapePair{a: a, b: b}]; ok {
		return true
	}
	_, ok := pw.suppressed[shapePair{a: b, b: a}]
	return ok
}

// SuppressedCount returns the number of active suppression records.
func (pw *PhysicsWorld) SuppressedCount() int {
	if pw == nil {
		return 0
	}
	return len(pw.suppressed)
}

// DrainHazardHits returns and clears the contacts recorded since last drain.
func (pw *PhysicsWorld) DrainHazardHits() []HazardHit {
	if pw == nil || len(pw.hazardHits) == 0 {
		return nil
	}
	out := pw.hazardHits
	pw.hazardHits = nil
	return out
}

// NewDynamicBox builds (but does not add) a dynamic body with a single box
// shape. fixedRotation gives the body infinite moment so it never tumbles.
func (pw *PhysicsWorld) NewDynamicBox(mass, width, height float64, fixedRotation bool, ct cp.CollisionType) (*cp.Body, *cp.Shape) {
	if mass <= 0 {
		mass = 1
	}
	moment := cp.MomentForBox(mass, width, height)
	if fixedRotation {
		moment = math.Inf(1)
	}
	body := cp.NewBody(mass, moment)
	shape := cp.NewBox(body, width, height, 0)
	shape.SetCollisionType(ct)
	return body, shape
}

// Freeze zeroes a body's velocity and halts its integration in place. This
// is the death fallback when no ragdoll layout is configured.
func (pw *PhysicsWorld) Freeze(body *cp.Body) {
	if body == nil {
		return
	}
	body.SetVelocityVector(cp.Vector{})
	body.SetAngularVelocity(0)
	body.SetVelocityUpdateFunc(func(b *cp.Body, gravity cp.Vector, damping float64, dt float64) {
		b.SetVelocityVector(cp.Vector{})
	})
}

// Unfreeze restores default velocity integration on a frozen body.
func (pw *PhysicsWorld) Unfreeze(body *cp.Body) {
	if body == nil {
		return
	}
	body.SetVelocityUpdateFunc(func(b *cp.Body, gravity cp.Vector, damping float64, dt float64) {
		cp.BodyUpdateVelocity(b, gravity, damping, dt)
	})
}

func (pw *PhysicsWorld) setupHandlers() {
	if pw == nil || pw.handlersReady || pw.space == nil {
		return
	}

	groundHandler := pw.space.NewCollisionHandler(CollisionTypeGroundSensor, CollisionTypeSolid)
	groundHandler.UserData = pw
	groundHandler.PreSolveFunc = func(arb *cp.Arbiter, space *cp.Space, userData interface{}) bool {
		world, ok := userData.(*PhysicsWorld)
		if !ok || world == nil {
			return true
		}
		shapeA, shapeB := arb.Shapes()
		var e Entity
		if id, okA := world.groundToEntity[shapeA]; okA {
			e = id
		} else if id, okB := world.groundToEntity[shapeB]; okB {
			e = id
		} else {
			return true
		}
		if state := world.entityStates[e]; state != nil {
			state.Grounded = true
			state.GroundGrace = 6
		}
		return true
	}

	hazardHandler := pw.space.NewCollisionHandler(CollisionTypePlayer, CollisionTypeHazard)
	hazardHandler.UserData = pw
	hazardHandler.BeginFunc = func(arb *cp.Arbiter, space *cp.Space, userData interface{}) bool {
		world, ok := userData.(*PhysicsWorld)
		if !ok || world == nil {
			return true
		}
		shapeA, shapeB := arb.Shapes()
		playerShape, hazardShape := shapeA, shapeB
		if _, isHazard := world.hazardToEntity[shapeA]; isHazard {
			playerShape, hazardShape = shapeB, shapeA
		}
		target, okT := world.shapeToEntity[playerShape]
		hazard, okH := world.hazardToEntity[hazardShape]
		if !okT || !okH {
			return true
		}
		world.hazardHits = append(world.hazardHits, HazardHit{Target: target, Hazard: hazard, HazardShape: hazardShape})
		return true
	}

	// A freshly spawned ragdoll must not keep exchanging contacts with the
	// volume that killed it while a suppression record is active.
	ragdollHazard := pw.space.NewCollisionHandler(CollisionTypeRagdoll, CollisionTypeHazard)
	ragdollHazard.UserData = pw
	ragdollHazard.BeginFunc = suppressionBegin
	ragdollHazard.PreSolveFunc = suppressionPreSolve

	ragdollSolid := pw.space.NewCollisionHandler(CollisionTypeRagdoll, CollisionTypeSolid)
	ragdollSolid.UserData = pw
	ragdollSolid.BeginFunc = suppressionBegin
	ragdollSolid.PreSolveFunc = suppressionPreSolve

	pw.handlersReady = true
}

func suppressionBegin(arb *cp.Arbiter, space *cp.Space, userData interface{}) bool {
	return !pairSuppressed(arb, userData)
}

func suppressionPreSolve(arb *cp.Arbiter, space *cp.Space, userData interface{}) bool {
	return !pairSuppressed(arb, userData)
}

func pairSuppressed(arb *cp.Arbiter, userData interface{}) bool {
	world, ok := userData.(*PhysicsWorld)
	if !ok || world == nil {
		return false
	}
	a, b := arb.Shapes()
	return world.Suppressed(a, b)
}
