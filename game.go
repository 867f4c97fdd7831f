package main

import (
	"log"

	"github.com/hajimehoshi/ebiten/v2"
	"github.com/hajimehoshi/ebiten/v2/inpututil"
	"github.com/ravenfell/deadfall/common"
	"github.com/ravenfell/deadfall/ecs"
	"github.com/ravenfell/deadfall/ecs/component"
	"github.com/ravenfell/deadfall/ecs/entity"
	"github.com/ravenfell/deadfall/ecs/system"
	"github.com/ravenfell/deadfall/prefabs"
)

type Game struct {
	world     *ecs.World
	mortality *system.Mortality
	camera    *system.CameraFocus
	player    ecs.Entity
	hud       *HUD

	spec    prefabs.GameSpec
	watcher *prefabs.Watcher

	needsReload bool
	frames      int
}

func NewGame(specDir string, watch bool) *Game {
	if specDir != "" {
		prefabs.SetOverrideDir(specDir)
	}

	g := &Game{}
	g.buildWorld()

	if watch && specDir != "" {
		w, err := prefabs.NewWatcher(specDir)
		if err != nil {
			log.Printf("game: spec watch disabled: %v", err)
		} else {
			g.watcher = w
		}
	}

	return g
}

// buildWorld loads the spec files and constructs the world from scratch. It
// is also the reload path, both for the watch flag and for the reload_scene
// respawn style.
func (g *Game) buildWorld() {
	spec, err := prefabs.LoadGameSpec()
	if err != nil {
		log.Printf("game: config.yaml unreadable, using defaults: %v", err)
	}
	g.spec = spec

	level, err := prefabs.LoadLevelSpec()
	if err != nil {
		log.Printf("game: level.yaml unreadable, using empty arena: %v", err)
	}

	ragdollSpec, err := prefabs.LoadRagdollSpec()
	if err != nil {
		log.Printf("game: ragdoll.yaml unreadable, deaths will freeze in place: %v", err)
	}

	world := ecs.NewWorld()
	world.SetPhysicsWorld(ecs.NewPhysicsWorld(common.Gravity))

	if _, err := entity.BuildLevel(world, level); err != nil {
		log.Printf("game: level build: %v", err)
	}

	player, err := entity.NewPlayer(world, spec.Player, level.Spawn.X, level.Spawn.Y)
	if err != nil {
		log.Printf("game: player build: %v", err)
	}

	ragdolls := system.NewRagdollHandoff(world, ragdollSpec)
	suppression := system.NewSuppression(world, ragdollSpec.NudgeImpulse)
	mortality := system.NewMortality(world, ragdolls, suppression, spec.Mortality)
	mortality.SetScriptRunner(system.NewTriggerScripts(mortality))
	mortality.SetReload(func() { g.needsReload = true })
	mortality.Bind(player)

	near, far, err := entity.NewViewpoints(world, spec.Camera, player)
	if err != nil {
		log.Printf("game: viewpoints: %v", err)
	}
	camera := system.NewCameraFocus(world, mortality, spec.Camera)
	camera.BindViewpoints(near, far)

	world.AddSystem(system.NewLocomotion())
	world.AddSystem(system.NewPhysics())
	world.AddSystem(mortality)
	world.AddSystem(camera)

	g.world = world
	g.mortality = mortality
	g.camera = camera
	g.player = player
	g.hud = NewHUD(mortality)
}

func (g *Game) Update() error {
	g.frames++

	if g.watcher != nil {
		select {
		case name := <-g.watcher.Events:
			log.Printf("game: spec %s changed, rebuilding", name)
			g.needsReload = true
		default:
		}
	}
	if g.needsReload {
		g.needsReload = false
		g.buildWorld()
	}

	g.sampleInput()
	g.world.Update(common.TickDelta)
	g.hud.Update()

	return nil
}

func (g *Game) sampleInput() {
	in, ok := ecs.Get(g.world, g.player, component.InputComponent.Kind())
	if !ok {
		return
	}

	in.MoveX = 0
	if ebiten.IsKeyPressed(ebiten.KeyArrowLeft) || ebiten.IsKeyPressed(ebiten.KeyA) {
		in.MoveX -= 1
	}
	if ebiten.IsKeyPressed(ebiten.KeyArrowRight) || ebiten.IsKeyPressed(ebiten.KeyD) {
		in.MoveX += 1
	}
	in.JumpPressed = inpututil.IsKeyJustPressed(ebiten.KeySpace) ||
		inpututil.IsKeyJustPressed(ebiten.KeyW) ||
		inpututil.IsKeyJustPressed(ebiten.KeyArrowUp)
}

func (g *Game) Draw(screen *ebiten.Image) {
	drawWorld(screen, g.world, g.camera)
	g.hud.Draw(screen)
}

func (g *Game) LayoutF(outsideWidth, outsideHeight float64) (float64, float64) {
	return common.BaseWidth, common.BaseHeight
}

func (g *Game) Layout(outsideWidth, outsideHeight int) (int, int) {
	panic("shouldn't use Layout")
}
