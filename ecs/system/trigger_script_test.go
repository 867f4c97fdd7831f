package system

import (
	"testing"

	"github.com/ravenfell/deadfall/ecs"
)

func TestTriggerScriptDamage(t *testing.T) {
	_, m, _ := newTestRig(t, testRagdollSpec())
	ts := NewTriggerScripts(m)

	ts.Run(`damage(25)`, ecs.Entity(1))

	if current, _ := m.Health(); current != 75 {
		t.Fatalf("expected 75 after scripted damage, got %d", current)
	}
}

func TestTriggerScriptKill(t *testing.T) {
	_, m, _ := newTestRig(t, testRagdollSpec())
	ts := NewTriggerScripts(m)

	ts.Run(`kill("forced_fall")`, ecs.Entity(1))

	if !m.IsDead() {
		t.Fatalf("kill() should trigger the death transition")
	}
	if !m.WasFallDeath() {
		t.Fatalf("kill cause should classify as a fall")
	}
}

func TestTriggerScriptConditional(t *testing.T) {
	_, m, _ := newTestRig(t, testRagdollSpec())
	ts := NewTriggerScripts(m)

	src := `
if health() > 50 {
	damage(40)
} else {
	kill("generic")
}`

	ts.Run(src, ecs.Entity(1))
	if current, _ := m.Health(); current != 60 {
		t.Fatalf("first pass should damage, got %d", current)
	}

	ts.Run(src, ecs.Entity(1))
	if current, _ := m.Health(); current != 20 {
		t.Fatalf("second pass should damage again, got %d", current)
	}

	ts.Run(src, ecs.Entity(1))
	if !m.IsDead() {
		t.Fatalf("third pass should kill at low health")
	}
}

func TestTriggerScriptBadSourceIsSwallowed(t *testing.T) {
	_, m, _ := newTestRig(t, testRagdollSpec())
	ts := NewTriggerScripts(m)

	ts.Run(`this is not tengo {{{`, ecs.Entity(1))

	if current, _ := m.Health(); current != 100 {
		t.Fatalf("a broken script must have no effect, got %d", current)
	}
	if m.IsDead() {
		t.Fatalf("a broken script must not kill")
	}
}

func TestTriggerScriptHeal(t *testing.T) {
	_, m, _ := newTestRig(t, testRagdollSpec())
	ts := NewTriggerScripts(m)

	m.ApplyDamage(50)
	ts.Run(`heal(20)`, ecs.Entity(1))

	if current, _ := m.Health(); current != 70 {
		t.Fatalf("expected 70 after scripted heal, got %d", current)
	}
}
