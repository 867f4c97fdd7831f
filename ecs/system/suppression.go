package system

import (
	"log"

	"github.com/jakecoffman/cp"
	"github.com/ravenfell/deadfall/common"
	"github.com/ravenfell/deadfall/ecs"
	"github.com/ravenfell/deadfall/ecs/component"
)

// Suppression temporarily disables collision between a ragdoll's body set
// and a specific volume, restoring it after a bounded duration.
type Suppression struct {
	world        *ecs.World
	nudgeImpulse float64
}

// NewSuppression creates a suppression manager. nudgeImpulse is the velocity
// change applied to each part by NudgeAway.
func NewSuppression(w *ecs.World, nudgeImpulse float64) *Suppression {
	if nudgeImpulse <= 0 {
		nudgeImpulse = 40
	}
	return &Suppression{world: w, nudgeImpulse: nudgeImpulse}
}

// Ignore marks every (part, target) pair non-colliding now and schedules the
// restore after duration seconds of virtual time. The restore never faults:
// pairs whose shapes have since left the space are skipped and logged.
func (s *Suppression) Ignore(parts []*cp.Shape, target *cp.Shape, duration float64) {
	if s == nil || s.world == nil || target == nil || len(parts) == 0 {
		return
	}
	pw := s.world.PhysicsWorld()
	if pw == nil {
		return
	}
	pw.Ignore(parts, target)

	held := append([]*cp.Shape(nil), parts...)
	s.world.Scheduler().After(duration, func() {
		restored := pw.Restore(held, target)
		if restored < len(held) {
			log.Printf("suppression: restored %d/%d pairs, remainder already gone", restored, len(held))
		}
	})
}

// NudgeAway separates the instance from the target volume: it translates
// every part by distance along the direction from the instance to the
// closest point on the target, and adds a small velocity impulse the same
// way, so the ragdoll does not oscillate across the trigger boundary and
// re-arm the death cause every frame.
func (s *Suppression) NudgeAway(instance ecs.Entity, target *cp.Shape, distance float64) {
	if s == nil || s.world == nil || target == nil {
		return
	}
	rag, ok := ecs.Get(s.world, instance, component.RagdollComponent.Kind())
	if !ok || len(rag.Parts) == 0 || rag.Parts[0].Body == nil {
		log.Printf("suppression: nudge skipped, instance %s has no parts", instance)
		return
	}
	pw := s.world.PhysicsWorld()
	if pw == nil {
		return
	}

	pos := rag.Parts[0].Body.Position()
	cx, cy := pos.X, pos.Y
	if targetEnt, found := pw.EntityFor(target); found {
		if t, tok := ecs.Get(s.world, targetEnt, component.TransformComponent.Kind()); tok {
			if vol, vok := ecs.Get(s.world, targetEnt, component.VolumeComponent.Kind()); vok {
				cx, cy = common.ClosestPointOnRect(pos.X, pos.Y, t.X, t.Y, vol.Width, vol.Height)
			} else {
				cx, cy = t.X, t.Y
			}
		}
	}

	dir := cp.Vector{X: pos.X - cx, Y: pos.Y - cy}
	if dir.Length() == 0 {
		// exactly on the closest point: push along the owner's facing, and up
		fx := 1.0
		if player, pok := ecs.First(s.world, component.PlayerTagComponent.Kind()); pok {
			if loco, lok := ecs.Get(s.world, player, component.LocomotionComponent.Kind()); lok && loco.FacingLeft {
				fx = -1.0
			}
		}
		dir = cp.Vector{X: fx, Y: -1}
	}
	dir = dir.Normalize()

	for _, part := range rag.Parts {
		if part.Body == nil {
			continue
		}
		p := part.Body.Position()
		part.Body.SetPosition(p.Add(dir.Mult(distance)))
		part.Body.SetVelocityVector(part.Body.Velocity().Add(dir.Mult(s.nudgeImpulse)))
	}
}
