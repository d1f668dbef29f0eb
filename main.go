package main

import (
	"flag"
	"log"

	"github.com/gonewx/wavearena/pkg/app"
	"github.com/gonewx/wavearena/pkg/embedded"
	"github.com/hajimehoshi/ebiten/v2"
)

var (
	verbose = flag.Bool("verbose", false, "print debug logs")
	dataDir = flag.String("data", "data", "directory holding the YAML tables (\"data\" uses the embedded copy)")
	seed    = flag.Int64("seed", 0, "run seed, 0 picks one")
)

func main() {
	flag.Parse()
	embedded.Init(dataFS)

	a, err := app.NewApp(app.Config{Verbose: *verbose, DataDir: *dataDir, Seed: *seed})
	if err != nil {
		log.Fatal(err)
	}

	ebiten.SetWindowSize(app.ScreenWidth, app.ScreenHeight)
	ebiten.SetWindowTitle("Wave Arena")
	ebiten.SetWindowResizingMode(ebiten.WindowResizingModeEnabled)

	runErr := ebiten.RunGame(a)
	if err := a.Close(); err != nil {
		log.Printf("Warning: failed to save settings: %v", err)
	}
	if runErr != nil {
		log.Fatal(runErr)
	}
}
