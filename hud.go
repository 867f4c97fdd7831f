package main

import (
	"fmt"
	"image/color"

	"github.com/ebitenui/ebitenui"
	imageui "github.com/ebitenui/ebitenui/image"
	"github.com/ebitenui/ebitenui/widget"
	"github.com/hajimehoshi/ebiten/v2"
	ebtext "github.com/hajimehoshi/ebiten/v2/text/v2"
	"github.com/ravenfell/deadfall/ecs/system"
	"golang.org/x/image/font/basicfont"
)

// HUD shows the health readout and, while dead, a centered panel with the
// respawn countdown.
type HUD struct {
	mortality *system.Mortality

	ui          *ebitenui.UI
	deathUI     *ebitenui.UI
	healthLabel *widget.Text
	deathLabel  *widget.Text
}

func NewHUD(mortality *system.Mortality) *HUD {
	goFace := ebtext.NewGoXFace(basicfont.Face7x13)
	var face ebtext.Face = goFace
	white := color.NRGBA{R: 0xff, G: 0xff, B: 0xff, A: 0xff}

	healthLabel := widget.NewText(
		widget.TextOpts.Text("", &face, white),
		widget.TextOpts.WidgetOpts(widget.WidgetOpts.LayoutData(widget.RowLayoutData{Position: widget.RowLayoutPositionStart})),
	)
	root := widget.NewContainer(widget.ContainerOpts.Layout(widget.NewRowLayout(
		widget.RowLayoutOpts.Direction(widget.DirectionVertical),
		widget.RowLayoutOpts.Padding(&widget.Insets{Top: 8, Left: 8}),
	)))
	root.AddChild(healthLabel)

	panelImg := imageui.NewNineSliceColor(color.NRGBA{A: 200})
	deathLabel := widget.NewText(
		widget.TextOpts.Text("", &face, white),
		widget.TextOpts.WidgetOpts(widget.WidgetOpts.LayoutData(widget.RowLayoutData{Position: widget.RowLayoutPositionCenter})),
	)
	panel := widget.NewContainer(
		widget.ContainerOpts.BackgroundImage(panelImg),
		widget.ContainerOpts.Layout(widget.NewRowLayout(
			widget.RowLayoutOpts.Direction(widget.DirectionVertical),
			widget.RowLayoutOpts.Spacing(10),
			widget.RowLayoutOpts.Padding(&widget.Insets{Top: 20, Bottom: 20, Left: 30, Right: 30}),
		)),
		widget.ContainerOpts.WidgetOpts(
			widget.WidgetOpts.LayoutData(widget.AnchorLayoutData{
				HorizontalPosition: widget.AnchorLayoutPositionCenter,
				VerticalPosition:   widget.AnchorLayoutPositionCenter,
			}),
		),
	)
	panel.AddChild(deathLabel)
	deathRoot := widget.NewContainer(widget.ContainerOpts.Layout(widget.NewAnchorLayout()))
	deathRoot.AddChild(panel)

	return &HUD{
		mortality:   mortality,
		ui:          &ebitenui.UI{Container: root},
		deathUI:     &ebitenui.UI{Container: deathRoot},
		healthLabel: healthLabel,
		deathLabel:  deathLabel,
	}
}

func (h *HUD) Update() {
	if h == nil || h.mortality == nil {
		return
	}
	current, max := h.mortality.Health()
	h.healthLabel.Label = fmt.Sprintf("HP %d / %d", current, max)

	if h.mortality.IsDead() {
		remaining := h.mortality.RespawnRemaining()
		h.deathLabel.Label = fmt.Sprintf("You died. Respawning in %.1fs", remaining)
		h.deathUI.Update()
	}
	h.ui.Update()
}

func (h *HUD) Draw(screen *ebiten.Image) {
	if h == nil {
		return
	}
	h.ui.Draw(screen)
	if h.mortality != nil && h.mortality.IsDead() {
		h.deathUI.Draw(screen)
	}
}
