package system

import (
	"testing"

	"github.com/ravenfell/deadfall/common"
	"github.com/ravenfell/deadfall/ecs"
	"github.com/ravenfell/deadfall/ecs/entity"
	"github.com/ravenfell/deadfall/prefabs"
)

func testRagdollSpec() prefabs.RagdollSpec {
	return prefabs.RagdollSpec{
		NudgeImpulse: 40,
		Friction:     0.6,
		Parts: []prefabs.RagdollPartSpec{
			{Name: "torso", Width: 10, Height: 14, Mass: 2},
			{Name: "head", Width: 8, Height: 8, OffsetY: -12, Mass: 1},
		},
	}
}

func testMortalitySpec() prefabs.MortalitySpec {
	return prefabs.MortalitySpec{
		MaxHealth:             100,
		RespawnDelay:          2.5,
		RagdollIgnoreDuration: 1.5,
		SuppressRetryFrames:   5,
		NudgeDistance:         12,
	}
}

func testPlayerSpec() prefabs.PlayerSpec {
	return prefabs.PlayerSpec{MoveSpeed: 180, JumpSpeed: 560, Width: 16, Height: 28, Mass: 1}
}

// newTestRig builds a world with physics, a player at (100, 100) and a fully
// wired mortality system.
func newTestRig(t *testing.T, ragdollSpec prefabs.RagdollSpec) (*ecs.World, *Mortality, ecs.Entity) {
	t.Helper()

	w := ecs.NewWorld()
	w.SetPhysicsWorld(ecs.NewPhysicsWorld(common.Gravity))

	player, err := entity.NewPlayer(w, testPlayerSpec(), 100, 100)
	if err != nil {
		t.Fatalf("NewPlayer: %v", err)
	}

	ragdolls := NewRagdollHandoff(w, ragdollSpec)
	suppression := NewSuppression(w, ragdollSpec.NudgeImpulse)
	m := NewMortality(w, ragdolls, suppression, testMortalitySpec())
	m.Bind(player)
	return w, m, player
}
