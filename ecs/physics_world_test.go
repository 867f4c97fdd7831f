package ecs

import (
	"testing"

	"github.com/jakecoffman/cp"
)

func staticBox(pw *PhysicsWorld, e Entity, x, y, w, h float64) *cp.Shape {
	sh := cp.NewBox2(pw.Space().StaticBody, cp.BB{L: x - w/2, B: y - h/2, R: x + w/2, T: y + h/2}, 0)
	pw.AddStaticShape(e, sh)
	return sh
}

func TestPhysicsWorldSuppressionPairs(t *testing.T) {
	pw := NewPhysicsWorld(1800)

	a := staticBox(pw, 1, 0, 0, 10, 10)
	b := staticBox(pw, 2, 40, 0, 10, 10)
	target := staticBox(pw, 3, 100, 0, 10, 10)

	pw.Ignore([]*cp.Shape{a, b}, target)

	if !pw.Suppressed(a, target) || !pw.Suppressed(target, a) {
		t.Fatalf("suppression must hold in both shape orders")
	}
	if pw.Suppressed(a, b) {
		t.Fatalf("unrelated pair must not be suppressed")
	}
	if pw.SuppressedCount() != 2 {
		t.Fatalf("expected 2 records, got %d", pw.SuppressedCount())
	}

	restored := pw.Restore([]*cp.Shape{a, b}, target)
	if restored != 2 {
		t.Fatalf("Restore = %d, want 2", restored)
	}
	if pw.Suppressed(a, target) || pw.SuppressedCount() != 0 {
		t.Fatalf("suppression should be cleared after Restore")
	}
}

func TestPhysicsWorldRestoreSkipsGoneShapes(t *testing.T) {
	pw := NewPhysicsWorld(1800)

	a := staticBox(pw, 1, 0, 0, 10, 10)
	b := staticBox(pw, 2, 40, 0, 10, 10)
	target := staticBox(pw, 3, 100, 0, 10, 10)

	pw.Ignore([]*cp.Shape{a, b}, target)
	pw.RemoveShape(a)

	restored := pw.Restore([]*cp.Shape{a, b}, target)
	if restored != 1 {
		t.Fatalf("Restore after removal = %d, want 1", restored)
	}
	// removing again is a no-op
	pw.RemoveShape(a)
}

func TestPhysicsWorldHazardHitRecording(t *testing.T) {
	pw := NewPhysicsWorld(1800)

	hazardEnt := Entity(7)
	hazard := cp.NewBox2(pw.Space().StaticBody, cp.BB{L: -20, B: 90, R: 20, T: 110}, 0)
	pw.AddHazard(hazardEnt, hazard)

	playerEnt := Entity(3)
	body, shape := pw.NewDynamicBox(1, 16, 28, true, CollisionTypePlayer)
	body.SetPosition(cp.Vector{X: 0, Y: 0})
	pw.AddBody(playerEnt, body, shape)

	// fall into the sensor
	for i := 0; i < 120; i++ {
		pw.Step(1.0 / 60.0)
	}

	hits := pw.DrainHazardHits()
	if len(hits) == 0 {
		t.Fatalf("expected a hazard hit after falling through the sensor")
	}
	if hits[0].Target != playerEnt || hits[0].Hazard != hazardEnt {
		t.Fatalf("hit = %+v, want target %v hazard %v", hits[0], playerEnt, hazardEnt)
	}
	if hits[0].HazardShape != hazard {
		t.Fatalf("hit should carry the hazard's shape")
	}

	if got := pw.DrainHazardHits(); got != nil {
		t.Fatalf("drain should clear the queue, got %v", got)
	}
}

func TestPhysicsWorldEntityFor(t *testing.T) {
	pw := NewPhysicsWorld(1800)

	solid := staticBox(pw, 5, 0, 0, 10, 10)
	hazard := cp.NewBox2(pw.Space().StaticBody, cp.BB{L: 20, B: -5, R: 30, T: 5}, 0)
	pw.AddHazard(9, hazard)

	if e, ok := pw.EntityFor(solid); !ok || e != 5 {
		t.Fatalf("EntityFor(solid) = %v %v", e, ok)
	}
	if e, ok := pw.EntityFor(hazard); !ok || e != 9 {
		t.Fatalf("EntityFor(hazard) = %v %v", e, ok)
	}

	pw.RemoveShape(solid)
	if _, ok := pw.EntityFor(solid); ok {
		t.Fatalf("EntityFor should miss after removal")
	}
}

func TestPhysicsWorldFreezeHoldsBodyStill(t *testing.T) {
	pw := NewPhysicsWorld(1800)

	body, shape := pw.NewDynamicBox(1, 16, 28, true, CollisionTypePlayer)
	body.SetPosition(cp.Vector{X: 0, Y: 0})
	pw.AddBody(1, body, shape)

	pw.Freeze(body)
	for i := 0; i < 60; i++ {
		pw.Step(1.0 / 60.0)
	}
	if pos := body.Position(); pos.Y != 0 {
		t.Fatalf("frozen body moved to %v", pos)
	}

	pw.Unfreeze(body)
	for i := 0; i < 10; i++ {
		pw.Step(1.0 / 60.0)
	}
	if pos := body.Position(); pos.Y <= 0 {
		t.Fatalf("unfrozen body should fall under gravity, at %v", pos)
	}
}
