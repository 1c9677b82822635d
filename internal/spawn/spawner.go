package spawn

import (
	"errors"
	"fmt"
	"log/slog"

	"github.com/udisondev/skirmish/internal/ai"
	"github.com/udisondev/skirmish/internal/combat"
	"github.com/udisondev/skirmish/internal/config"
	"github.com/udisondev/skirmish/internal/event"
	"github.com/udisondev/skirmish/internal/geo"
	"github.com/udisondev/skirmish/internal/model"
	"github.com/udisondev/skirmish/internal/unit"
)

var (
	// ErrUnknownTemplate is returned for a template name missing from the roster.
	ErrUnknownTemplate = errors.New("unknown template")
	// ErrBlocked is returned when the spawn point lies inside a wall.
	ErrBlocked = errors.New("spawn position blocked")
)

// Request asks for one agent of Template at Position.
type Request struct {
	Position model.Vec2
	Template string
	Faction  model.Faction
	// Scale multiplies hitbox and mass. Zero keeps the template scale.
	Scale float64
}

// World is the part of the simulation a spawner hands agents to.
type World interface {
	combat.Env

	// Now returns the simulation time in seconds.
	Now() float64

	// Admit registers a built agent with every service and returns its handle.
	Admit(a *unit.Agent, tpl config.UnitTemplate) model.Handle
}

// Occupancy reports whether a point is inside an obstacle.
type Occupancy interface {
	Contains(p model.Vec2, mask geo.Layer) bool
}

// Spawner builds agents from templates and admits them into the world.
type Spawner struct {
	templates config.Templates
	cfg       combat.Config
	world     World
	bus       *event.Bus
	walls     Occupancy
}

// NewSpawner creates a spawner. bus and walls may be nil.
func NewSpawner(templates config.Templates, cfg combat.Config, world World, bus *event.Bus, walls Occupancy) *Spawner {
	return &Spawner{
		templates: templates,
		cfg:       cfg,
		world:     world,
		bus:       bus,
		walls:     walls,
	}
}

// Template returns a template by name.
func (s *Spawner) Template(name string) (config.UnitTemplate, bool) {
	tpl, ok := s.templates[name]
	return tpl, ok
}

// Spawn creates one agent. On error nothing is registered.
func (s *Spawner) Spawn(req Request) (model.Handle, error) {
	if _, err := s.lookup(req); err != nil {
		return model.NoHandle, err
	}
	return s.spawn(req)
}

// SpawnGroup spreads count agents around req.Position.
// Only the group center is checked against walls.
func (s *Spawner) SpawnGroup(req Request, count int) ([]model.Handle, error) {
	tpl, err := s.lookup(req)
	if err != nil {
		return nil, err
	}

	radius := tpl.Radius
	if radius <= 0 {
		radius = 0.5
	}
	radius *= scaleOf(req, tpl)

	handles := make([]model.Handle, 0, count)
	for _, pos := range SpreadPositions(req.Position, count, radius) {
		r := req
		r.Position = pos
		h, err := s.spawn(r)
		if err != nil {
			return handles, err
		}
		handles = append(handles, h)
	}
	return handles, nil
}

// Build constructs an agent without registering it.
func (s *Spawner) Build(req Request) (*unit.Agent, config.UnitTemplate, error) {
	tpl, ok := s.templates[req.Template]
	if !ok {
		return nil, config.UnitTemplate{}, fmt.Errorf("template %q: %w", req.Template, ErrUnknownTemplate)
	}
	trav, err := tpl.TraversalClass()
	if err != nil {
		return nil, tpl, err
	}

	attacks := make([]unit.Attack, 0, len(tpl.Attacks))
	for _, at := range tpl.Attacks {
		a, err := s.buildAttack(at)
		if err != nil {
			return nil, tpl, fmt.Errorf("template %q: %w", tpl.Name, err)
		}
		attacks = append(attacks, a)
	}

	var mv *unit.Movement
	if !tpl.Static && tpl.Speed > 0 {
		mv = unit.NewMovement(tpl.Speed)
	}

	a, err := unit.New(unit.Config{
		Template:  tpl.Name,
		Faction:   req.Faction,
		Traversal: trav,
		Static:    tpl.Static,
		Vision:    tpl.Vision,
		MaxHP:     tpl.MaxHP,
		Immortal:  tpl.Immortal,
		Radius:    tpl.Radius,
		Mass:      tpl.Mass,
		Scale:     scaleOf(req, tpl),
		Drag:      tpl.Drag,
		Position:  req.Position,
		Attacks:   attacks,
		Movement:  mv,
	})
	if err != nil {
		return nil, tpl, err
	}
	return a, tpl, nil
}

func (s *Spawner) lookup(req Request) (config.UnitTemplate, error) {
	tpl, ok := s.templates[req.Template]
	if !ok {
		return tpl, fmt.Errorf("template %q: %w", req.Template, ErrUnknownTemplate)
	}
	if s.walls != nil {
		trav, err := tpl.TraversalClass()
		if err != nil {
			return tpl, err
		}
		if s.walls.Contains(req.Position, geo.MaskFor(trav)) {
			return tpl, fmt.Errorf("%s at %v: %w", req.Template, req.Position, ErrBlocked)
		}
	}
	return tpl, nil
}

func (s *Spawner) spawn(req Request) (model.Handle, error) {
	a, tpl, err := s.Build(req)
	if err != nil {
		return model.NoHandle, err
	}

	h := s.world.Admit(a, tpl)

	if s.bus != nil {
		s.bus.Publish(event.Event{
			Kind:     event.KindSpawned,
			Time:     s.world.Now(),
			Agent:    h,
			Faction:  req.Faction,
			Template: tpl.Name,
			Position: req.Position,
		})
	}

	if ai.IsDebugEnabled() {
		slog.Debug("agent spawned",
			"agent", h,
			"template", tpl.Name,
			"faction", req.Faction,
			"position", req.Position)
	}
	return h, nil
}

func (s *Spawner) buildAttack(at config.AttackTemplate) (unit.Attack, error) {
	p := unit.AttackParams{
		Name:      at.Name,
		Basic:     at.Basic,
		Damage:    at.Damage,
		Cooldown:  at.Cooldown,
		Delay:     at.Delay,
		Duration:  at.Duration,
		Range:     at.Range,
		Cue:       at.Cue,
		Knockback: at.Knockback,
	}

	switch at.Kind {
	case config.AttackMelee:
		return combat.NewMelee(p, s.world), nil

	case config.AttackArea:
		shape := combat.Shape{Radius: 1}
		if at.Area != nil {
			shape = *at.Area
		}
		return combat.NewArea(p, shape, at.ImpactCue, s.world), nil

	case config.AttackDash:
		return combat.NewDash(p, dashParams(s.cfg, at.Dash), s.world), nil

	case config.AttackRanged:
		shot := combat.DefaultProjectileParams()
		if at.Projectile != nil {
			shot = *at.Projectile
		}
		return combat.NewRanged(p, shot, s.cfg, s.world), nil

	case config.AttackPull:
		pp := combat.DefaultPullParams()
		if at.Pull != nil {
			pp = *at.Pull
		}
		return combat.NewCrowdPull(p, pp, s.world), nil

	default:
		return nil, fmt.Errorf("attack %q: %w %q", at.Name, config.ErrUnknownAttackKind, at.Kind)
	}
}

// dashParams overlays the template's dash block on the defaults.
// Fields left zero in the block keep their default.
func dashParams(cfg combat.Config, over *combat.DashParams) combat.DashParams {
	dp := combat.DefaultDashParams()
	dp.MomentumKeep = cfg.DashMomentumKeep
	if over == nil {
		return dp
	}
	if over.MinRange > 0 {
		dp.MinRange = over.MinRange
	}
	if over.Duration > 0 {
		dp.Duration = over.Duration
	}
	if over.ExtraLength != 0 {
		dp.ExtraLength = over.ExtraLength
	}
	if over.Contact.Radius > 0 {
		dp.Contact = over.Contact
	}
	if over.MomentumKeep > 0 {
		dp.MomentumKeep = over.MomentumKeep
	}
	return dp
}

func scaleOf(req Request, tpl config.UnitTemplate) float64 {
	if req.Scale > 0 {
		return req.Scale
	}
	if tpl.Scale > 0 {
		return tpl.Scale
	}
	return 1
}
