// Package app wraps a simulation in an ebiten game: keyboard and mouse
// input, a top-down vector renderer, synthesized audio cues, the HUD and the
// persisted settings and run records.
package app

import (
	"fmt"
	"image/color"
	"io"
	"log"
	"time"

	"github.com/gonewx/wavearena/pkg/arena"
	"github.com/gonewx/wavearena/pkg/config"
	"github.com/gonewx/wavearena/pkg/game"
	"github.com/gonewx/wavearena/pkg/systems"
	"github.com/hajimehoshi/ebiten/v2"
	"github.com/hajimehoshi/ebiten/v2/audio"
	"github.com/quasilyte/gdata/v2"
)

const (
	// ScreenWidth and ScreenHeight are the logical screen size.
	ScreenWidth  = 960
	ScreenHeight = 720

	appName   = "wavearena"
	frameTime = 1.0 / 60.0
)

// Config is the startup configuration.
type Config struct {
	// Verbose enables logging.
	Verbose bool
	// DataDir holds the YAML tables; "data" reads the embedded copy.
	DataDir string
	// Seed fixes the run seed; 0 uses the saved setting or the clock.
	Seed int64
}

// App implements ebiten.Game.
type App struct {
	cfg      *config.Game
	seed     int64
	settings *game.SettingsManager
	records  *game.RecordsManager
	audio    *CueAudio
	renderer *Renderer
	hud      *HUD
	ctrl     controller

	sim      *systems.Simulation
	player   *game.PlayerState
	recorded bool
	newBest  bool
	verbose  bool

	pendingWindowSizeReset   bool
	windowSizeResetCountdown int
}

// NewApp loads the tables and starts the first run.
//
// embedded.Init must be called first when DataDir is the embedded directory.
func NewApp(cfg Config) (*App, error) {
	if !cfg.Verbose {
		log.SetOutput(io.Discard)
		log.SetFlags(0)
	}

	dataDir := cfg.DataDir
	if dataDir == "" {
		dataDir = config.DefaultDataDir
	}
	gameCfg, err := config.LoadGame(dataDir)
	if err != nil {
		return nil, fmt.Errorf("failed to load game config: %w", err)
	}

	store, err := gdata.Open(gdata.Config{AppName: appName})
	if err != nil {
		log.Printf("[App] Warning: persistent storage unavailable: %v", err)
		store = nil
	}
	settings := game.NewSettingsManager(store)
	records := game.NewRecordsManager(store)

	a := &App{
		cfg:      gameCfg,
		seed:     cfg.Seed,
		settings: settings,
		records:  records,
		audio:    NewCueAudio(audio.NewContext(sampleRate), settings),
		renderer: NewRenderer(arena.New(gameCfg.Arena), ScreenWidth, ScreenHeight),
		hud:      NewHUD(),
		verbose:  cfg.Verbose,
	}
	a.renderer.SetShowHitRadii(settings.Settings().ShowHitRadii)
	if settings.Settings().Fullscreen {
		ebiten.SetFullscreen(true)
	}
	a.newRun()
	return a, nil
}

func (a *App) runSeed() int64 {
	if a.seed != 0 {
		return a.seed
	}
	if s := a.settings.Settings().Seed; s != 0 {
		return s
	}
	return time.Now().UnixNano()
}

func (a *App) newRun() {
	a.renderer.Reset()
	a.hud.Reset()
	a.ctrl = controller{}
	a.player = game.NewPlayerState(a.cfg.Player)
	a.sim = systems.NewSimulation(systems.Options{
		Config:  a.cfg,
		Player:  a.player,
		Effects: game.Effects{Renderer: a.renderer, Audio: a.audio, HUD: a.hud},
		Seed:    a.runSeed(),
		Verbose: a.verbose,
	})
	a.recorded = false
	a.newBest = false
	log.Printf("[App] Run %s started", a.sim.RunID())
}

// Update advances one frame.
func (a *App) Update() error {
	if a.pendingWindowSizeReset {
		a.windowSizeResetCountdown--
		if a.windowSizeResetCountdown <= 0 {
			ebiten.SetWindowSize(ScreenWidth, ScreenHeight)
			a.pendingWindowSizeReset = false
		}
	}

	in := readIntent(a.renderer.proj)
	a.handleToggles(in)

	if a.sim.GameOver() {
		if in.Restart {
			a.newRun()
		}
	} else {
		a.ctrl.apply(in, a.sim, a.player, frameTime)
		a.sim.Step(frameTime)
	}
	a.renderer.Update(frameTime)
	a.hud.Update(frameTime)

	if a.sim.GameOver() && !a.recorded {
		a.recordRun()
	}
	return nil
}

func (a *App) handleToggles(in Intent) {
	changed := false
	if in.ToggleFullscreen {
		if ebiten.IsFullscreen() {
			ebiten.SetFullscreen(false)
			if ebiten.IsWindowMaximized() || ebiten.IsWindowMinimized() {
				ebiten.RestoreWindow()
			}
			// The window manager needs a few frames before the size sticks.
			a.pendingWindowSizeReset = true
			a.windowSizeResetCountdown = 3
			a.settings.SetFullscreen(false)
		} else {
			ebiten.SetFullscreen(true)
			a.settings.SetFullscreen(true)
		}
		changed = true
	}
	if in.ToggleSound {
		log.Printf("[App] Sound enabled: %v", a.settings.ToggleSound())
		changed = true
	}
	if in.ToggleHitRadii {
		a.renderer.SetShowHitRadii(a.settings.ToggleHitRadii())
		changed = true
	}
	if changed {
		if err := a.settings.Save(); err != nil {
			log.Printf("[App] Warning: Failed to save settings: %v", err)
		}
	}
}

func (a *App) recordRun() {
	a.recorded = true
	rec, ok := a.sim.Record()
	if !ok {
		return
	}
	best, err := a.records.Add(rec)
	if err != nil {
		log.Printf("[App] Warning: Failed to save run record: %v", err)
	}
	a.newBest = best
}

// Draw paints the frame.
func (a *App) Draw(screen *ebiten.Image) {
	a.renderer.Draw(screen)
	a.hud.Draw(screen, a.sim.HUD(), a.recordLine())
}

func (a *App) recordLine() string {
	if a.newBest {
		return "New best run!"
	}
	if best, ok := a.records.Best(); ok {
		return fmt.Sprintf("Best: wave %d, %d kills", best.WaveReached, best.Kills)
	}
	return ""
}

// DrawFinalScreen letterboxes the scaled frame on black.
func (a *App) DrawFinalScreen(screen ebiten.FinalScreen, offscreen *ebiten.Image, geoM ebiten.GeoM) {
	screen.Fill(color.Black)
	op := &ebiten.DrawImageOptions{}
	op.GeoM = geoM
	op.Filter = ebiten.FilterLinear
	screen.DrawImage(offscreen, op)
}

// Layout returns the logical screen size.
func (a *App) Layout(outsideWidth, outsideHeight int) (int, int) {
	return ScreenWidth, ScreenHeight
}

// Close persists settings. Call it after the game loop returns.
func (a *App) Close() error {
	return a.settings.Save()
}

// Simulation returns the current run.
func (a *App) Simulation() *systems.Simulation { return a.sim }
