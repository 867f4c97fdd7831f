package main

import (
	"flag"
	"log"

	"github.com/hajimehoshi/ebiten/v2"
	"github.com/ravenfell/deadfall/common"
)

func main() {
	watch := flag.Bool("watch", false, "reload specs on change")
	specDir := flag.String("specs", "", "directory of spec overrides (defaults to embedded)")
	flag.Parse()

	ebiten.SetWindowResizingMode(ebiten.WindowResizingModeEnabled)
	ebiten.SetWindowSize(common.BaseWidth, common.BaseHeight)
	ebiten.SetWindowTitle("deadfall")

	game := NewGame(*specDir, *watch)

	if err := ebiten.RunGame(game); err != nil {
		log.Fatal(err)
	}
}
