// Command simulate plays a headless session with a scripted bot and prints
// the run record. It can serve Prometheus metrics while it runs.
package main

import (
	"context"
	"errors"
	"flag"
	"fmt"
	"io"
	"log"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/gonewx/wavearena/pkg/config"
	"github.com/gonewx/wavearena/pkg/game"
	"github.com/gonewx/wavearena/pkg/metrics"
	"github.com/gonewx/wavearena/pkg/systems"
	"github.com/quasilyte/gdata/v2"
)

var (
	seed        = flag.Int64("seed", 1, "run seed")
	ticks       = flag.Int("ticks", 60*60*5, "maximum ticks to simulate")
	dt          = flag.Float64("dt", 1.0/60, "seconds per tick")
	dataDir     = flag.String("data", "", "directory holding the YAML tables (empty uses built-in defaults)")
	metricsAddr = flag.String("metrics", "", "serve /metrics on this address, e.g. :9100")
	hold        = flag.Bool("hold", false, "keep serving metrics after the run until interrupted")
	save        = flag.Bool("save", false, "store the run record with the game's records")
	verbose     = flag.Bool("verbose", false, "print debug logs")
)

// observeEvery is the metrics sampling period in ticks.
const observeEvery = 30

func main() {
	flag.Parse()
	if !*verbose {
		log.SetOutput(io.Discard)
	}
	if err := run(); err != nil {
		fmt.Fprintln(os.Stderr, "simulate:", err)
		os.Exit(1)
	}
}

func run() error {
	cfg := config.DefaultGame()
	if *dataDir != "" {
		var err error
		if cfg, err = config.LoadGame(*dataDir); err != nil {
			return err
		}
	}

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	exporter := metrics.NewExporter()
	if *metricsAddr != "" {
		srv := &http.Server{Addr: *metricsAddr, Handler: metricsMux(exporter), ReadHeaderTimeout: 5 * time.Second}
		go func() {
			if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
				log.Printf("[Simulate] metrics server: %v", err)
			}
		}()
		defer func() {
			shutdownCtx, cancel := context.WithTimeout(context.Background(), 2*time.Second)
			defer cancel()
			_ = srv.Shutdown(shutdownCtx)
		}()
		fmt.Printf("serving metrics on %s/metrics\n", *metricsAddr)
	}

	player := game.NewPlayerState(cfg.Player)
	sim := systems.NewSimulation(systems.Options{
		Config:  cfg,
		Player:  player,
		Seed:    *seed,
		Verbose: *verbose,
	})
	played := playSession(ctx, sim, newBot(sim, player), exporter, *ticks, *dt)

	rec, finished := sim.Record()
	if !finished {
		rec = partialRecord(sim, player)
	}
	printSummary(os.Stdout, sim, rec, finished, played)

	if *save {
		if err := saveRecord(rec); err != nil {
			return err
		}
	}
	if *hold && *metricsAddr != "" {
		fmt.Println("holding; press Ctrl+C to exit")
		<-ctx.Done()
	}
	return nil
}

func metricsMux(e *metrics.Exporter) *http.ServeMux {
	mux := http.NewServeMux()
	mux.Handle("/metrics", e.Handler())
	return mux
}

// playSession steps until the player dies, the tick budget runs out or ctx
// is cancelled. It returns the number of ticks played.
func playSession(ctx context.Context, sim *systems.Simulation, b *bot, e *metrics.Exporter, maxTicks int, dt float64) int {
	n := 0
	for ; n < maxTicks && !sim.GameOver(); n++ {
		if n%observeEvery == 0 && ctx.Err() != nil {
			break
		}
		b.tick(dt)
		sim.Step(dt)
		if n%observeEvery == 0 {
			e.Observe(sim)
		}
	}
	e.Observe(sim)
	return n
}

// partialRecord describes a run that was still alive when the budget ran out.
func partialRecord(sim *systems.Simulation, player *game.PlayerState) game.RunRecord {
	st := sim.Stats()
	return game.RunRecord{
		ID:          sim.RunID(),
		Seed:        sim.Seed(),
		WaveReached: sim.Wave().Wave,
		Kills:       st.Kills,
		BossKills:   st.BossKills,
		DamageTaken: player.DamageTaken(),
		Duration:    st.Elapsed,
		FinishedAt:  time.Now(),
	}
}

func printSummary(w io.Writer, sim *systems.Simulation, rec game.RunRecord, finished bool, played int) {
	st := sim.Stats()
	outcome := "survived"
	if finished {
		outcome = "died"
	}
	fmt.Fprintf(w, "run %s (seed %d): %s after %d ticks, %.1fs\n", rec.ID, rec.Seed, outcome, played, rec.Duration)
	fmt.Fprintf(w, "  wave %d, kills %d, boss kills %d, damage taken %d\n", rec.WaveReached, rec.Kills, rec.BossKills, rec.DamageTaken)
	fmt.Fprintf(w, "  shots %d, grenades %d, enemy shots %d, boss shots %d\n", st.ShotsFired, st.GrenadesThrown, st.EnemyShots, st.BossShots)
	for _, p := range sim.PoolStats() {
		fmt.Fprintf(w, "  pool %-12s active %3d free %3d created %3d steals %d\n", p.Name, p.Active, p.Free, p.Created, p.Steals)
	}
}

func saveRecord(rec game.RunRecord) error {
	store, err := gdata.Open(gdata.Config{AppName: "wavearena"})
	if err != nil {
		return fmt.Errorf("failed to open record storage: %w", err)
	}
	best, err := game.NewRecordsManager(store).Add(rec)
	if err != nil {
		return fmt.Errorf("failed to save run record: %w", err)
	}
	if best {
		fmt.Println("  new best run")
	}
	return nil
}
