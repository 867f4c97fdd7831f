package main

import (
	"image/color"

	"github.com/hajimehoshi/ebiten/v2"
	"github.com/hajimehoshi/ebiten/v2/vector"
	"github.com/ravenfell/deadfall/common"
	"github.com/ravenfell/deadfall/ecs"
	"github.com/ravenfell/deadfall/ecs/component"
	"github.com/ravenfell/deadfall/ecs/system"
	"golang.org/x/image/colornames"
)

// drawWorld renders the flat-shaded debug arena through the active
// viewpoint's transform. Platforms are grey, hazards red, the player white,
// ragdoll parts bone-colored and pit markers a faint outline.
func drawWorld(screen *ebiten.Image, w *ecs.World, camera *system.CameraFocus) {
	if w == nil {
		return
	}

	camX, camY := common.BaseWidth/2.0, common.BaseHeight/2.0
	zoom := 1.0
	if camera != nil {
		zoom = camera.Zoom()
		if _, vp := camera.ActiveViewpoint(); vp != nil {
			if fx, fy, ok := followPosition(w, vp.Follow); ok {
				camX, camY = fx, fy
			}
		}
	}

	toScreen := func(x, y float64) (float32, float32) {
		sx := (x-camX)*zoom + common.BaseWidth/2.0
		sy := (y-camY)*zoom + common.BaseHeight/2.0
		return float32(sx), float32(sy)
	}
	box := func(x, y, bw, bh float64, fill color.Color) {
		sx, sy := toScreen(x-bw/2, y-bh/2)
		vector.FillRect(screen, sx, sy, float32(bw*zoom), float32(bh*zoom), fill, false)
	}

	ecs.ForEach2(w, component.VolumeComponent.Kind(), component.TransformComponent.Kind(),
		func(e ecs.Entity, v *component.Volume, t *component.Transform) {
			if ecs.Has(w, e, component.HazardComponent.Kind()) {
				box(t.X, t.Y, v.Width, v.Height, color.RGBA{R: 255, A: 96})
				sx, sy := toScreen(t.X-v.Width/2, t.Y-v.Height/2)
				vector.StrokeRect(screen, sx, sy, float32(v.Width*zoom), float32(v.Height*zoom), 1.0, color.RGBA{R: 255, A: 200}, false)
				return
			}
			box(t.X, t.Y, v.Width, v.Height, colornames.Dimgray)
		})

	ecs.ForEach2(w, component.PitMarkerComponent.Kind(), component.TransformComponent.Kind(),
		func(_ ecs.Entity, _ *component.PitMarker, t *component.Transform) {
			sx, sy := toScreen(t.X-4, t.Y-4)
			vector.StrokeRect(screen, sx, sy, float32(8*zoom), float32(8*zoom), 1.0, colornames.Slategray, false)
		})

	ecs.ForEach2(w, component.PhysicsBodyComponent.Kind(), component.TransformComponent.Kind(),
		func(e ecs.Entity, b *component.PhysicsBody, t *component.Transform) {
			if vis, ok := ecs.Get(w, e, component.VisualComponent.Kind()); ok && vis.Hidden {
				return
			}
			box(t.X, t.Y, b.Width, b.Height, colornames.White)
		})

	ecs.ForEach(w, component.RagdollComponent.Kind(), func(_ ecs.Entity, r *component.Ragdoll) {
		for _, p := range r.Parts {
			if p.Body == nil {
				continue
			}
			pos := p.Body.Position()
			box(pos.X, pos.Y, p.Width, p.Height, colornames.Antiquewhite)
		}
	})

	ecs.ForEach2(w, component.FocusAnchorComponent.Kind(), component.TransformComponent.Kind(),
		func(_ ecs.Entity, _ *component.FocusAnchor, t *component.Transform) {
			sx, sy := toScreen(t.X-2, t.Y-2)
			vector.FillRect(screen, sx, sy, float32(4*zoom), float32(4*zoom), colornames.Gold, false)
		})
}

func followPosition(w *ecs.World, follow uint64) (float64, float64, bool) {
	e := ecs.Entity(follow)
	if !e.Valid() || !ecs.IsAlive(w, e) {
		return 0, 0, false
	}
	if t, ok := ecs.Get(w, e, component.TransformComponent.Kind()); ok {
		return t.X, t.Y, true
	}
	return 0, 0, false
}
