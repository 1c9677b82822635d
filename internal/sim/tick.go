package sim

import (
	"context"
	"log/slog"
	"math"
	"time"

	"github.com/udisondev/skirmish/internal/combat"
	"github.com/udisondev/skirmish/internal/event"
	"github.com/udisondev/skirmish/internal/geo"
	"github.com/udisondev/skirmish/internal/model"
	"github.com/udisondev/skirmish/internal/physics"
	"github.com/udisondev/skirmish/internal/snapshot"
	"github.com/udisondev/skirmish/internal/unit"
	"github.com/udisondev/skirmish/internal/world"
)

const maxFrameCues = 1024

var allFactions = []model.Faction{model.FactionFriend, model.FactionEnemy, model.FactionNeutral}

// FixedUpdate runs one physics step of dt seconds: combat state machines,
// movement, projectile flight, integration and contact separation.
func (w *World) FixedUpdate(dt float64) {
	w.refreshGrid()
	now := w.now

	agents := w.reg.Agents()
	for _, a := range agents {
		if a.Teleporting() {
			if a.AdvanceTeleport(dt) {
				w.arrived = append(w.arrived, a.Handle())
			}
			continue
		}
		w.ctrl.Tick(a, now)
		w.ctrl.Advance(a, now, dt)
	}

	w.tickProjectiles(dt)

	for _, a := range agents {
		a.Body().Integrate(dt)
		if w.walls != nil && !a.IsStatic() && !a.Teleporting() {
			if p, moved := w.walls.PushOut(a.Position(), a.HitboxRadius(), geo.MaskFor(a.Traversal())); moved {
				a.Body().Pos = p
			}
		}
	}
	w.separate(agents)

	w.now += dt
	w.tick++

	if w.frames != nil && w.cfg.Snapshot.Every > 0 && w.tick%uint64(w.cfg.Snapshot.Every) == 0 {
		select {
		case w.frames <- w.Frame():
		default:
			slog.Debug("frame dropped", "tick", w.tick)
		}
	}
}

// Update runs one frame of dt seconds: batched services, lifecycle
// transitions, auras, spells, the wave director and cue flushing.
func (w *World) Update(dt float64) {
	if gate(&w.spatialAcc, dt, w.cfg.SpatialInterval) {
		w.grid.Rebuild(w.reg.Agents())
		w.gridDirty = false
	}
	if gate(&w.targetingAcc, dt, w.cfg.TargetingInterval) {
		w.refreshGrid()
		w.sched.Tick()
	}

	w.expire()
	w.captureAtWells()
	w.tickAuras()
	w.tickSpells(dt)

	if w.director != nil {
		w.director.Update(w.now)
	}

	w.flushCues()
}

// gate accumulates dt and reports whether interval has elapsed.
// A non-positive interval fires every call.
func gate(acc *float64, dt, interval float64) bool {
	if interval <= 0 {
		return true
	}
	*acc += dt
	if *acc < interval {
		return false
	}
	*acc = math.Mod(*acc, interval)
	return true
}

// Run drives FixedUpdate and Update from wall-clock tickers until ctx ends.
func (w *World) Run(ctx context.Context) error {
	step := w.cfg.PhysicsStep()
	frame := w.cfg.FrameStep()

	physicsTicker := time.NewTicker(time.Duration(step * float64(time.Second)))
	defer physicsTicker.Stop()
	frameTicker := time.NewTicker(time.Duration(frame * float64(time.Second)))
	defer frameTicker.Stop()

	slog.Info("simulation started", "physics_hz", w.cfg.PhysicsHz, "frame_hz", w.cfg.FrameHz, "agents", w.reg.Count())

	for {
		select {
		case <-ctx.Done():
			slog.Info("simulation stopping", "time", w.now, "ticks", w.tick, "agents", w.reg.Count())
			return ctx.Err()

		case <-physicsTicker.C:
			w.FixedUpdate(step)

		case <-frameTicker.C:
			w.Update(frame)
		}
	}
}

// Advance runs the simulation for d seconds of simulated time without
// waiting on the clock. Frames run every frame step of physics time.
func (w *World) Advance(d float64) {
	step := w.cfg.PhysicsStep()
	frame := w.cfg.FrameStep()
	end := w.now + d
	nextFrame := w.now
	for w.now < end-1e-9 {
		if w.now >= nextFrame-1e-9 {
			w.Update(frame)
			nextFrame += frame
		}
		w.FixedUpdate(step)
	}
}

func (w *World) tickProjectiles(dt float64) {
	live := w.projectiles[:0]
	for _, p := range w.projectiles {
		p.Tick(w, dt)
		if !p.Done() {
			live = append(live, p)
		}
	}
	clear(w.projectiles[len(live):])
	w.projectiles = live
}

// separate pushes overlapping solid bodies apart, each pair once.
func (w *World) separate(agents []*unit.Agent) {
	for _, a := range agents {
		b := a.Body()
		if !b.Solid || b.Ghost {
			continue
		}
		w.grid.ForEachInRadius(world.Query{
			Origin:   a,
			Radius:   a.HitboxRadius(),
			Factions: allFactions,
		}, func(o *unit.Agent) bool {
			if o.Handle().Index > a.Handle().Index {
				physics.Separate(b, o.Body())
			}
			return true
		})
	}
}

// expire removes agents whose death grace ran out and agents that reached
// a well.
func (w *World) expire() {
	var gone []model.Handle
	w.reg.ForEach(func(a *unit.Agent) bool {
		if a.State() == model.StateDying && w.now-a.DiedAt() >= w.cfg.DeathGrace {
			gone = append(gone, a.Handle())
		}
		return true
	})
	gone = append(gone, w.arrived...)
	w.arrived = w.arrived[:0]

	for _, h := range gone {
		w.destroy(h)
	}
}

func (w *World) tickAuras() {
	live := w.auras[:0]
	for _, au := range w.auras {
		au.Tick(w, w.now)
		if !au.Done() {
			live = append(live, au)
		}
	}
	clear(w.auras[len(live):])
	w.auras = live
}

func (w *World) tickSpells(dt float64) {
	pending := w.casts[:0]
	for _, c := range w.casts {
		if c.at <= w.now {
			w.spells = append(w.spells, combat.NewSpell(c.params, c.pos, c.faction))
			continue
		}
		pending = append(pending, c)
	}
	w.casts = pending

	live := w.spells[:0]
	for _, s := range w.spells {
		s.Tick(w, dt)
		if !s.Done() {
			live = append(live, s)
		}
	}
	clear(w.spells[len(live):])
	w.spells = live
}

func (w *World) flushCues() {
	for _, c := range w.cues {
		w.bus.Publish(event.Event{
			Kind:  event.KindCue,
			Time:  w.now,
			Agent: c.agent,
			Cue:   c.name,
		})
		w.frameCues = append(w.frameCues, snapshot.Cue{Index: c.agent.Index, Gen: c.agent.Gen, Name: c.name})
	}
	w.cues = w.cues[:0]

	// nobody is reading frames: keep only the newest cues
	if n := len(w.frameCues); n > maxFrameCues {
		w.frameCues = append(w.frameCues[:0], w.frameCues[n-maxFrameCues/2:]...)
	}
}
