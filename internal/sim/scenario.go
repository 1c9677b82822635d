package sim

import (
	"fmt"
	"log/slog"
	"math/rand/v2"

	"github.com/paulmach/orb"

	"github.com/udisondev/skirmish/internal/config"
	"github.com/udisondev/skirmish/internal/event"
	"github.com/udisondev/skirmish/internal/geo"
	"github.com/udisondev/skirmish/internal/model"
	"github.com/udisondev/skirmish/internal/nav"
	"github.com/udisondev/skirmish/internal/snapshot"
	"github.com/udisondev/skirmish/internal/spawn"
)

// Setup bundles what FromScenario needs besides the scenario itself.
type Setup struct {
	Config    config.Sim
	Templates config.Templates
	Screen    geo.OnScreen
	Bus       *event.Bus
	Frames    chan<- *snapshot.Frame
}

// FromScenario builds a world from a scenario: walls, navigation field,
// wells, starting squads, scripted spells and the wave director.
func FromScenario(s Setup, sc config.Scenario) (*World, error) {
	terrain, err := sc.Terrain()
	if err != nil {
		return nil, fmt.Errorf("scenario %s: %w", sc.Name, err)
	}

	field, err := buildField(s.Config, sc, terrain)
	if err != nil {
		return nil, fmt.Errorf("scenario %s: %w", sc.Name, err)
	}

	wells := make([]Well, 0, len(sc.Wells))
	for i, ws := range sc.Wells {
		f, err := config.ParseFaction(ws.Faction)
		if err != nil {
			return nil, fmt.Errorf("scenario %s: well %d: %w", sc.Name, i, err)
		}
		wells = append(wells, Well{Faction: f, Position: ws.Vec(), Radius: ws.Radius})
	}

	screen := s.Screen
	if screen == nil && sc.Viewport != nil {
		b := sc.Viewport.Bound()
		screen = &geo.Viewport{Bound: b}
	}

	templates := s.Templates
	if templates == nil {
		templates = config.DefaultTemplates()
	}

	seed := s.Config.Seed
	w := New(Options{
		Config:    s.Config,
		Templates: templates,
		Occluder:  terrain,
		Screen:    screen,
		Field:     field,
		Bus:       s.Bus,
		Rand:      rand.New(rand.NewPCG(seed, seed^0x9e3779b97f4a7c15)),
		Wells:     wells,
		Frames:    s.Frames,
	})

	for i, sq := range sc.Squads {
		f, err := config.ParseFaction(sq.Faction)
		if err != nil {
			return nil, fmt.Errorf("scenario %s: squad %d: %w", sc.Name, i, err)
		}
		req := spawn.Request{Position: sq.Vec(), Template: sq.Template, Faction: f}
		if _, err := w.SpawnGroup(req, max(sq.Count, 1)); err != nil {
			return nil, fmt.Errorf("scenario %s: squad %d: %w", sc.Name, i, err)
		}
	}

	for i, sp := range sc.Spells {
		p, f, err := sp.Params()
		if err != nil {
			return nil, fmt.Errorf("scenario %s: spell %d: %w", sc.Name, i, err)
		}
		w.Cast(sp.At, p, sp.Vec(), f)
	}

	if s.Config.Director.Enabled && len(sc.Waves) > 0 {
		waves, err := spawn.WavesFromScenario(sc.Waves, templates)
		if err != nil {
			return nil, fmt.Errorf("scenario %s: %w", sc.Name, err)
		}
		areas := make([]orb.Bound, len(sc.SpawnAreas))
		for i, r := range sc.SpawnAreas {
			areas[i] = r.Bound()
		}
		// separate stream so squad spawns don't shift wave picks
		rng := rand.New(rand.NewPCG(seed+1, seed^0x2545f4914f6cdd1d))
		w.SetDirector(spawn.NewDirector(s.Config.Director, waves, areas, w, rng))
	}

	slog.Info("scenario loaded",
		"name", sc.Name,
		"walls", len(sc.Walls),
		"zones", len(sc.Zones),
		"wells", len(wells),
		"agents", w.Count(),
		"waves", len(sc.Waves))
	return w, nil
}

func buildField(cfg config.Sim, sc config.Scenario, terrain geo.Occluder) (*nav.Field, error) {
	if len(sc.Zones) == 0 {
		return nil, nil
	}
	zones, err := sc.NavZones()
	if err != nil {
		return nil, err
	}
	field, err := nav.NewField(geo.NewOracle(terrain), sc.Bounds.Bound(), cfg.NavCellSize)
	if err != nil {
		return nil, err
	}
	field.SetZones(zones)
	stats := field.Build()

	cols, rows := field.Size()
	slog.Info("navigation field built",
		"cols", cols,
		"rows", rows,
		"cells", stats.Cells,
		"unguided", stats.Unguided)
	return field, nil
}

// Factions reports the live agent count per faction.
func (w *World) Factions() map[model.Faction]int {
	out := make(map[model.Faction]int, model.FactionCount)
	for _, a := range w.reg.Agents() {
		if a.Alive() {
			out[a.Faction()]++
		}
	}
	return out
}
