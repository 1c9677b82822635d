// Package sim owns the simulation world: the agent registry, the spatial
// index, the targeting scheduler, combat, projectiles and every timed effect.
// All mutation happens on one logical thread.
package sim

import (
	"errors"
	"fmt"
	"log/slog"
	"math/rand/v2"

	"github.com/udisondev/skirmish/internal/ai"
	"github.com/udisondev/skirmish/internal/combat"
	"github.com/udisondev/skirmish/internal/config"
	"github.com/udisondev/skirmish/internal/event"
	"github.com/udisondev/skirmish/internal/geo"
	"github.com/udisondev/skirmish/internal/model"
	"github.com/udisondev/skirmish/internal/nav"
	"github.com/udisondev/skirmish/internal/snapshot"
	"github.com/udisondev/skirmish/internal/spawn"
	"github.com/udisondev/skirmish/internal/steer"
	"github.com/udisondev/skirmish/internal/unit"
	"github.com/udisondev/skirmish/internal/world"
)

var (
	// ErrNoAgent is returned for a handle that no longer resolves.
	ErrNoAgent = errors.New("agent not found")
	// ErrDying is returned when reviving an agent already past death.
	ErrDying = errors.New("agent is dying")
)

// Options wires a World. Nil fields fall back to open terrain, everything
// on screen, no navigation, a fresh bus and a seeded random source.
type Options struct {
	Config    config.Sim
	Templates config.Templates
	Occluder  geo.Occluder
	Screen    geo.OnScreen
	Field     *nav.Field
	Bus       *event.Bus
	Rand      *rand.Rand
	Wells     []Well
	// Frames receives render frames from Run. Full channels drop frames.
	Frames chan<- *snapshot.Frame
}

type pendingCue struct {
	agent model.Handle
	name  string
}

type cast struct {
	at      float64
	params  combat.SpellParams
	pos     model.Vec2
	faction model.Faction
}

// pusher keeps bodies out of obstacles.
type pusher interface {
	PushOut(p model.Vec2, r float64, mask geo.Layer) (model.Vec2, bool)
}

// World is the simulation root.
type World struct {
	cfg  config.Sim
	now  float64
	tick uint64

	bus     *event.Bus
	rng     *rand.Rand
	reg     *world.Registry
	grid    *world.Grid
	field   *nav.Field
	sched   *ai.Scheduler
	ctrl    *combat.Controller
	spawner *spawn.Spawner
	walls   pusher

	director *spawn.Director

	projectiles []*combat.Projectile
	auras       []*combat.HealingAura
	spells      []*combat.Spell
	casts       []cast
	wells       []Well
	arrived     []model.Handle

	cues      []pendingCue
	frameCues []snapshot.Cue
	frames    chan<- *snapshot.Frame

	gridDirty    bool
	spatialAcc   float64
	targetingAcc float64

	// source is the attacker credited for the health change in progress.
	source model.Handle
}

// New creates an empty world.
func New(opts Options) *World {
	cfg := opts.Config
	templates := opts.Templates
	if templates == nil {
		templates = config.DefaultTemplates()
	}
	occ := opts.Occluder
	if occ == nil {
		occ = geo.Open{}
	}
	bus := opts.Bus
	if bus == nil {
		bus = event.NewBus()
	}
	rng := opts.Rand
	if rng == nil {
		rng = rand.New(rand.NewPCG(cfg.Seed, cfg.Seed^0x9e3779b97f4a7c15))
	}

	w := &World{
		cfg:    cfg,
		bus:    bus,
		rng:    rng,
		reg:    world.NewRegistry(),
		grid:   world.NewGrid(cfg.CellSize, opts.Screen),
		field:  opts.Field,
		wells:  opts.Wells,
		frames: opts.Frames,
	}

	oracle := geo.NewOracle(occ)
	steerer := steer.New(cfg.Steering, w.grid, occ)
	targeter := ai.NewTargeter(w.grid, oracle, opts.Field, steerer)
	w.sched = ai.NewScheduler(cfg.TargetingBudget, w.reg, targeter)
	w.ctrl = combat.NewController(cfg.Combat, w)

	var occupancy spawn.Occupancy
	if o, ok := occ.(spawn.Occupancy); ok {
		occupancy = o
	}
	if p, ok := occ.(pusher); ok {
		w.walls = p
	}
	w.spawner = spawn.NewSpawner(templates, cfg.Combat, w, bus, occupancy)

	return w
}

// Now returns the simulation time in seconds.
func (w *World) Now() float64 { return w.now }

// Tick returns the number of physics steps run so far.
func (w *World) Tick() uint64 { return w.tick }

// Bus returns the event bus.
func (w *World) Bus() *event.Bus { return w.bus }

// Spawner returns the spawner bound to this world.
func (w *World) Spawner() *spawn.Spawner { return w.spawner }

// Scheduler returns the targeting scheduler.
func (w *World) Scheduler() *ai.Scheduler { return w.sched }

// Count returns the number of registered agents, dying ones included.
func (w *World) Count() int { return w.reg.Count() }

// Agents returns every registered agent in slot order.
func (w *World) Agents() []*unit.Agent { return w.reg.Agents() }

// Projectiles returns projectiles in flight or lingering.
func (w *World) Projectiles() []*combat.Projectile { return w.projectiles }

// SetDirector attaches a wave director driven by Update.
func (w *World) SetDirector(d *spawn.Director) { w.director = d }

// Spawn creates one agent.
func (w *World) Spawn(req spawn.Request) (model.Handle, error) {
	return w.spawner.Spawn(req)
}

// SpawnGroup spreads count agents around req.Position.
func (w *World) SpawnGroup(req spawn.Request, count int) ([]model.Handle, error) {
	return w.spawner.SpawnGroup(req, count)
}

// Admit registers a freshly built agent with every service.
func (w *World) Admit(a *unit.Agent, tpl config.UnitTemplate) model.Handle {
	h := w.reg.Add(a)
	a.Health().AddObserver(&healthWatch{w: w, h: h})
	w.sched.Register(h)
	if tpl.Aura != nil {
		w.auras = append(w.auras, combat.NewHealingAura(h, *tpl.Aura, w.now))
	}
	w.gridDirty = true
	return h
}

// Cast schedules an area spell at simulation time at.
func (w *World) Cast(at float64, p combat.SpellParams, pos model.Vec2, faction model.Faction) {
	w.casts = append(w.casts, cast{at: at, params: p, pos: pos, faction: faction})
}

// Revive restores an agent to full health, drops its speed modifiers and
// cancels a capture slide.
func (w *World) Revive(h model.Handle) error {
	a, ok := w.reg.Resolve(h)
	if !ok {
		return fmt.Errorf("reviving %s: %w", h, ErrNoAgent)
	}
	if a.State() == model.StateDying {
		return fmt.Errorf("reviving %s: %w", h, ErrDying)
	}
	a.Health().Revive()
	if m := a.Movement(); m != nil {
		m.Reset()
	}
	a.CancelTeleport()
	return nil
}

// Resolve implements combat.Env.
func (w *World) Resolve(h model.Handle) (*unit.Agent, bool) {
	return w.reg.Resolve(h)
}

// ForEachInRadius implements combat.Env.
func (w *World) ForEachInRadius(q world.Query, fn func(*unit.Agent) bool) {
	w.refreshGrid()
	w.grid.ForEachInRadius(q, fn)
}

// Damage applies amount to target, crediting source in the emitted event.
func (w *World) Damage(source model.Handle, target *unit.Agent, amount float64) {
	w.source = source
	err := target.Health().Damage(amount)
	w.source = model.NoHandle
	if err != nil {
		slog.Warn("damage rejected", "source", source, "target", target.Handle(), "error", err)
	}
}

// Heal restores amount to target, crediting source in the emitted event.
func (w *World) Heal(source model.Handle, target *unit.Agent, amount float64) {
	w.source = source
	err := target.Health().Heal(amount)
	w.source = model.NoHandle
	if err != nil {
		slog.Warn("heal rejected", "source", source, "target", target.Handle(), "error", err)
	}
}

// Launch implements combat.Env.
func (w *World) Launch(p *combat.Projectile) {
	w.projectiles = append(w.projectiles, p)
}

// Jitter implements combat.Env.
func (w *World) Jitter() float64 {
	return w.rng.Float64()*2 - 1
}

// Cue buffers a cosmetic trigger until the next Update.
func (w *World) Cue(agent model.Handle, name string) {
	w.cues = append(w.cues, pendingCue{agent: agent, name: name})
}

func (w *World) refreshGrid() {
	if !w.gridDirty {
		return
	}
	w.grid.Rebuild(w.reg.Agents())
	w.gridDirty = false
}

// destroy deregisters an agent from every service, then removes it.
func (w *World) destroy(h model.Handle) {
	a, ok := w.reg.Resolve(h)
	if !ok {
		return
	}
	w.sched.Unregister(h)
	pos, faction, tpl := a.Position(), a.Faction(), a.Template()
	w.reg.Remove(h)
	w.gridDirty = true

	w.bus.Publish(event.Event{
		Kind:     event.KindDestroyed,
		Time:     w.now,
		Agent:    h,
		Faction:  faction,
		Template: tpl,
		Position: pos,
	})

	if ai.IsDebugEnabled() {
		slog.Debug("agent destroyed", "agent", h, "template", tpl)
	}
}
