package entity

import (
	"fmt"

	"github.com/ravenfell/deadfall/ecs"
	"github.com/ravenfell/deadfall/ecs/component"
	"github.com/ravenfell/deadfall/prefabs"
)

// NewViewpoints builds the near and far viewpoint entities, both initially
// tracking the player. The near viewpoint starts active.
func NewViewpoints(w *ecs.World, cfg prefabs.CameraSpec, player ecs.Entity) (near, far ecs.Entity, err error) {
	if w == nil {
		return 0, 0, fmt.Errorf("viewpoints: world is nil")
	}

	near = ecs.CreateEntity(w)
	if err := ecs.Add(w, near, component.ViewpointComponent.Kind(), &component.Viewpoint{
		Mode:     component.ViewNear,
		Priority: cfg.NearPriority,
		Enabled:  true,
		Follow:   uint64(player),
		Look:     uint64(player),
		Zoom:     cfg.NearZoom,
	}); err != nil {
		return 0, 0, fmt.Errorf("viewpoints: near: %w", err)
	}

	far = ecs.CreateEntity(w)
	if err := ecs.Add(w, far, component.ViewpointComponent.Kind(), &component.Viewpoint{
		Mode:     component.ViewFar,
		Priority: cfg.FarPriority,
		Enabled:  cfg.Activation != "exclusive",
		Follow:   uint64(player),
		Look:     uint64(player),
		Zoom:     cfg.FarZoom,
	}); err != nil {
		return 0, 0, fmt.Errorf("viewpoints: far: %w", err)
	}

	return near, far, nil
}
