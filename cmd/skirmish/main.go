package main

import (
	"bufio"
	"context"
	"errors"
	"fmt"
	"log/slog"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/charmbracelet/log"
	"golang.org/x/sync/errgroup"

	"github.com/udisondev/skirmish/internal/ai"
	"github.com/udisondev/skirmish/internal/config"
	"github.com/udisondev/skirmish/internal/db"
	"github.com/udisondev/skirmish/internal/event"
	"github.com/udisondev/skirmish/internal/journal"
	"github.com/udisondev/skirmish/internal/model"
	"github.com/udisondev/skirmish/internal/sim"
	"github.com/udisondev/skirmish/internal/snapshot"
)

const (
	SimConfigPath    = "config/skirmish.yaml"
	TemplatesPath    = "config/templates.yaml"
	ScenarioPath     = "config/scenario.yaml"
	frameQueue       = 64
	statsLogInterval = 10 * time.Second
)

func main() {
	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	sigCh := make(chan os.Signal, 1)
	signal.Notify(sigCh, syscall.SIGINT, syscall.SIGTERM)
	go func() {
		sig := <-sigCh
		slog.Info("shutting down", "signal", sig)
		cancel()
	}()

	if err := run(ctx); err != nil {
		slog.Error("fatal", "err", err)
		os.Exit(1)
	}
}

func envOr(key, def string) string {
	if v := os.Getenv(key); v != "" {
		return v
	}
	return def
}

func run(ctx context.Context) error {
	cfgPath := envOr("SKIRMISH_CONFIG", SimConfigPath)
	cfg, err := config.LoadSim(cfgPath)
	if err != nil {
		return fmt.Errorf("loading sim config: %w", err)
	}

	logLevel := parseLogLevel(cfg.LogLevel)
	slog.SetDefault(slog.New(newLogHandler(logLevel)))
	ai.EnableDebugLogging(logLevel == slog.LevelDebug)

	slog.Info("skirmish starting", "log_level", cfg.LogLevel, "config", cfgPath, "seed", cfg.Seed)

	templates, err := config.LoadTemplates(envOr("SKIRMISH_TEMPLATES", TemplatesPath))
	if err != nil {
		return fmt.Errorf("loading templates: %w", err)
	}
	scenario, err := config.LoadScenario(envOr("SKIRMISH_SCENARIO", ScenarioPath))
	if err != nil {
		return fmt.Errorf("loading scenario: %w", err)
	}

	if d := os.Getenv("SKIRMISH_DURATION"); d != "" {
		limit, err := time.ParseDuration(d)
		if err != nil {
			return fmt.Errorf("parsing SKIRMISH_DURATION %q: %w", d, err)
		}
		var cancel context.CancelFunc
		ctx, cancel = context.WithTimeout(ctx, limit)
		defer cancel()
	}

	bus := event.NewBus()
	g, gctx := errgroup.WithContext(ctx)

	// Journal subscribes before the scenario spawns its squads.
	if cfg.Journal.Enabled {
		database, err := db.Open(ctx, cfg.Database)
		if err != nil {
			return fmt.Errorf("opening journal database: %w", err)
		}
		defer database.Close()

		rec, err := journal.NewRecorder(database.Journal(), cfg.Journal)
		if err != nil {
			return fmt.Errorf("creating journal: %w", err)
		}
		rec.Attach(bus)

		g.Go(func() error {
			if err := rec.Start(gctx); err != nil {
				return fmt.Errorf("combat journal: %w", err)
			}
			return nil
		})
	}

	var frames chan *snapshot.Frame
	if cfg.Snapshot.Path != "" {
		frames = make(chan *snapshot.Frame, frameQueue)
		g.Go(func() error {
			return writeFrames(gctx, cfg.Snapshot.Path, frames)
		})
	}

	world, err := sim.FromScenario(sim.Setup{
		Config:    cfg,
		Templates: templates,
		Bus:       bus,
		Frames:    frames,
	}, scenario)
	if err != nil {
		return fmt.Errorf("building world: %w", err)
	}

	deaths := map[model.Faction]int{}
	bus.Subscribe(func(e event.Event) {
		if e.Kind == event.KindDied {
			deaths[e.Faction]++
		}
	})

	g.Go(func() error {
		slog.Info("starting simulation", "scenario", scenario.Name, "agents", world.Count())
		if err := world.Run(gctx); err != nil && !errors.Is(err, context.Canceled) && !errors.Is(err, context.DeadlineExceeded) {
			return fmt.Errorf("simulation: %w", err)
		}
		return nil
	})

	if err := g.Wait(); err != nil {
		return fmt.Errorf("skirmish error: %w", err)
	}

	alive := world.Factions()
	slog.Info("skirmish finished",
		"sim_time", world.Now(),
		"ticks", world.Tick(),
		"friends_alive", alive[model.FactionFriend],
		"enemies_alive", alive[model.FactionEnemy],
		"friends_died", deaths[model.FactionFriend],
		"enemies_died", deaths[model.FactionEnemy])
	return nil
}

// writeFrames streams render frames to path until ctx ends.
func writeFrames(ctx context.Context, path string, frames <-chan *snapshot.Frame) error {
	f, err := os.Create(path)
	if err != nil {
		return fmt.Errorf("creating snapshot file %s: %w", path, err)
	}
	defer f.Close()

	buf := bufio.NewWriter(f)
	defer buf.Flush()
	w := snapshot.NewWriter(buf)

	slog.Info("writing snapshots", "path", path)

	var written int
	stats := time.NewTicker(statsLogInterval)
	defer stats.Stop()

	for {
		select {
		case <-ctx.Done():
			slog.Info("snapshot writer stopping", "frames", written)
			return nil

		case <-stats.C:
			slog.Debug("snapshot progress", "frames", written)

		case fr := <-frames:
			if err := w.Write(fr); err != nil {
				return fmt.Errorf("writing frame %d: %w", fr.Tick, err)
			}
			written++
		}
	}
}

// newLogHandler returns a charmbracelet/log handler; its levels share
// slog's numeric values.
func newLogHandler(level slog.Level) *log.Logger {
	return log.NewWithOptions(os.Stdout, log.Options{
		Level:           log.Level(level),
		ReportTimestamp: true,
		TimeFormat:      time.TimeOnly,
	})
}

// parseLogLevel converts string log level to slog.Level.
// Defaults to Info if invalid or empty.
func parseLogLevel(level string) slog.Level {
	switch level {
	case "debug":
		return slog.LevelDebug
	case "info":
		return slog.LevelInfo
	case "warn":
		return slog.LevelWarn
	case "error":
		return slog.LevelError
	default:
		return slog.LevelInfo
	}
}
