package entity

import (
	"fmt"

	"github.com/jakecoffman/cp"
	"github.com/ravenfell/deadfall/ecs"
	"github.com/ravenfell/deadfall/ecs/component"
	"github.com/ravenfell/deadfall/prefabs"
)

// BuildLevel instantiates the arena: static platforms, hazard volumes, pit
// markers and the boundary segments. Returns the entities it created so the
// caller can tear the level down on reload.
func BuildLevel(w *ecs.World, spec prefabs.LevelSpec) ([]ecs.Entity, error) {
	if w == nil || w.PhysicsWorld() == nil {
		return nil, fmt.Errorf("level: world has no physics")
	}
	pw := w.PhysicsWorld()
	var built []ecs.Entity

	for i, p := range spec.Platforms {
		e := ecs.CreateEntity(w)
		sh := cp.NewBox2(pw.Space().StaticBody, boxAround(p.X, p.Y, p.Width, p.Height), 0)
		sh.SetFriction(1.0)
		pw.AddStaticShape(e, sh)
		if err := addVolume(w, e, p.X, p.Y, p.Width, p.Height); err != nil {
			return built, fmt.Errorf("level: platform %d: %w", i, err)
		}
		built = append(built, e)
	}

	for i, h := range spec.Hazards {
		e := ecs.CreateEntity(w)
		sh := cp.NewBox2(pw.Space().StaticBody, boxAround(h.X, h.Y, h.Width, h.Height), 0)
		pw.AddHazard(e, sh)
		if err := addVolume(w, e, h.X, h.Y, h.Width, h.Height); err != nil {
			return built, fmt.Errorf("level: hazard %d: %w", i, err)
		}
		if err := ecs.Add(w, e, component.HazardComponent.Kind(), &component.Hazard{
			Cause:  parseCause(h.Cause),
			Damage: h.Damage,
			Script: h.Script,
		}); err != nil {
			return built, fmt.Errorf("level: hazard %d: %w", i, err)
		}
		built = append(built, e)
	}

	for i, m := range spec.PitMarkers {
		e := ecs.CreateEntity(w)
		if err := ecs.Add(w, e, component.TransformComponent.Kind(), &component.Transform{X: m.X, Y: m.Y}); err != nil {
			return built, fmt.Errorf("level: pit marker %d: %w", i, err)
		}
		if err := ecs.Add(w, e, component.PitMarkerComponent.Kind(), &component.PitMarker{}); err != nil {
			return built, fmt.Errorf("level: pit marker %d: %w", i, err)
		}
		built = append(built, e)
	}

	if spec.Bounds.Width > 0 && spec.Bounds.Height > 0 {
		e := ecs.CreateEntity(w)
		for _, seg := range boundarySegments(spec.Bounds) {
			sh := cp.NewSegment(pw.Space().StaticBody, seg[0], seg[1], 2)
			sh.SetFriction(1.0)
			pw.AddStaticShape(e, sh)
		}
		built = append(built, e)
	}

	return built, nil
}

func addVolume(w *ecs.World, e ecs.Entity, x, y, width, height float64) error {
	if err := ecs.Add(w, e, component.TransformComponent.Kind(), &component.Transform{X: x, Y: y}); err != nil {
		return err
	}
	return ecs.Add(w, e, component.VolumeComponent.Kind(), &component.Volume{Width: width, Height: height})
}

func boxAround(x, y, w, h float64) cp.BB {
	return cp.BB{L: x - w/2, B: y - h/2, R: x + w/2, T: y + h/2}
}

func boundarySegments(b prefabs.RectSpec) [][2]cp.Vector {
	left := b.X - b.Width/2
	right := b.X + b.Width/2
	top := b.Y - b.Height/2
	bottom := b.Y + b.Height/2
	return [][2]cp.Vector{
		{{X: left, Y: top}, {X: left, Y: bottom}},
		{{X: right, Y: top}, {X: right, Y: bottom}},
		{{X: left, Y: top}, {X: right, Y: top}},
	}
}

func parseCause(s string) component.DeathCause {
	if s == "forced_fall" {
		return component.DeathCauseForcedFall
	}
	return component.DeathCauseGeneric
}
