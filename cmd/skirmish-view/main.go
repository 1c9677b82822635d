// Command skirmish-view runs a scenario in-process and draws it with ebiten.
// The camera rectangle doubles as the simulation's on-screen predicate, so
// agents only spot targets the viewer can see.
package main

import (
	"fmt"
	"log/slog"
	"os"
	"time"

	"github.com/charmbracelet/log"
	"github.com/hajimehoshi/ebiten/v2"

	"github.com/udisondev/skirmish/internal/ai"
	"github.com/udisondev/skirmish/internal/config"
	"github.com/udisondev/skirmish/internal/event"
	"github.com/udisondev/skirmish/internal/geo"
	"github.com/udisondev/skirmish/internal/sim"
)

const (
	windowWidth  = 1280
	windowHeight = 720
)

func main() {
	if err := run(); err != nil {
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

func run() error {
	cfg, err := config.LoadSim(envOr("SKIRMISH_CONFIG", "config/skirmish.yaml"))
	if err != nil {
		return fmt.Errorf("loading sim config: %w", err)
	}

	level := log.InfoLevel
	if cfg.LogLevel == "debug" {
		level = log.DebugLevel
	}
	slog.SetDefault(slog.New(log.NewWithOptions(os.Stderr, log.Options{
		Level:           level,
		ReportTimestamp: true,
		TimeFormat:      time.TimeOnly,
		Prefix:          "view",
	})))
	ai.EnableDebugLogging(level == log.DebugLevel)

	templates, err := config.LoadTemplates(envOr("SKIRMISH_TEMPLATES", "config/templates.yaml"))
	if err != nil {
		return fmt.Errorf("loading templates: %w", err)
	}
	scenario, err := config.LoadScenario(envOr("SKIRMISH_SCENARIO", "config/scenario.yaml"))
	if err != nil {
		return fmt.Errorf("loading scenario: %w", err)
	}

	cam := newCamera(scenario.Bounds, windowWidth, windowHeight)
	screen := geo.NewViewport(cam.center(), cam.worldWidth(), cam.worldHeight())

	world, err := sim.FromScenario(sim.Setup{
		Config:    cfg,
		Templates: templates,
		Screen:    screen,
		Bus:       event.NewBus(),
	}, scenario)
	if err != nil {
		return fmt.Errorf("building world: %w", err)
	}

	ebiten.SetWindowTitle("skirmish: " + scenario.Name)
	ebiten.SetWindowSize(windowWidth, windowHeight)
	if err := ebiten.RunGame(newViewer(world, scenario, cam, screen, cfg.FrameStep())); err != nil {
		return fmt.Errorf("viewer: %w", err)
	}
	return nil
}
