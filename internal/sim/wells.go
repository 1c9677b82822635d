package sim

import (
	"log/slog"

	"github.com/udisondev/skirmish/internal/ai"
	"github.com/udisondev/skirmish/internal/model"
	"github.com/udisondev/skirmish/internal/unit"
)

// CueTeleport fires when a well captures an agent.
const CueTeleport = "Teleport"

// Well is a capture point. Hostile agents that touch it slide into it and
// are removed on arrival.
type Well struct {
	Faction  model.Faction
	Position model.Vec2
	Radius   float64
}

// Touches reports whether a overlaps the well.
func (wl Well) Touches(a *unit.Agent) bool {
	reach := wl.Radius + a.HitboxRadius()
	return wl.Position.DistanceSquared(a.Position()) <= reach*reach
}

// Wells returns the configured capture points.
func (w *World) Wells() []Well { return w.wells }

func (w *World) captureAtWells() {
	if len(w.wells) == 0 {
		return
	}
	w.reg.ForEach(func(a *unit.Agent) bool {
		if !a.Alive() || a.IsStatic() {
			return true
		}
		for _, wl := range w.wells {
			if !model.CanTarget(wl.Faction, a.Faction()) || !wl.Touches(a) {
				continue
			}
			w.ctrl.Cancel(a)
			a.StartTeleport(wl.Position, w.cfg.TeleportSpeed)
			w.Cue(a.Handle(), CueTeleport)

			if ai.IsDebugEnabled() {
				slog.Debug("agent captured", "agent", a.Handle(), "well", wl.Faction)
			}
			break
		}
		return true
	})
}
