package combat

import (
	"fmt"

	"github.com/udisondev/skirmish/internal/model"
	"github.com/udisondev/skirmish/internal/unit"
	"github.com/udisondev/skirmish/internal/world"
)

// SpellKind selects what a spell does on resolution.
type SpellKind int

const (
	SpellDamage SpellKind = iota
	SpellHeal
	// SpellSlow cuts hostile movement speed by Amount (0..1) until Duration ends.
	SpellSlow
)

func (k SpellKind) String() string {
	switch k {
	case SpellDamage:
		return "DAMAGE"
	case SpellHeal:
		return "HEAL"
	case SpellSlow:
		return "SLOW"
	default:
		return "UNKNOWN"
	}
}

// ParseSpellKind converts a config string to SpellKind.
func ParseSpellKind(s string) (SpellKind, error) {
	switch s {
	case "damage", "DAMAGE":
		return SpellDamage, nil
	case "heal", "HEAL":
		return SpellHeal, nil
	case "slow", "SLOW":
		return SpellSlow, nil
	default:
		return 0, fmt.Errorf("unknown spell kind %q", s)
	}
}

// SpellParams tune an area spell.
type SpellParams struct {
	Kind     SpellKind
	Radius   float64
	Amount   float64
	Delay    float64
	Duration float64
	Cue      string
}

// Spell is a position-targeted area effect resolved once after its delay.
type Spell struct {
	params   SpellParams
	pos      model.Vec2
	faction  model.Faction
	elapsed  float64
	resolved bool
	done     bool

	slowed []slowMark
}

type slowMark struct {
	agent model.Handle
	mod   unit.SpeedModifier
}

// NewSpell casts p at pos on behalf of faction.
func NewSpell(p SpellParams, pos model.Vec2, faction model.Faction) *Spell {
	return &Spell{params: p, pos: pos, faction: faction}
}

func (s *Spell) Position() model.Vec2 { return s.pos }
func (s *Spell) Resolved() bool { return s.resolved }
func (s *Spell) Done() bool { return s.done }

// Tick advances the spell's timers by dt.
func (s *Spell) Tick(env Env, dt float64) {
	if s.done {
		return
	}
	s.elapsed += dt
	if !s.resolved && s.elapsed >= s.params.Delay {
		s.resolved = true
		s.resolve(env)
	}
	if s.resolved && s.elapsed >= s.params.Duration {
		s.done = true
		s.release(env)
	}
}

// release reverts every slow this spell applied to agents still alive.
func (s *Spell) release(env Env) {
	for _, sl := range s.slowed {
		if a, ok := env.Resolve(sl.agent); ok && a.Movement() != nil {
			a.Movement().Revert(sl.mod)
		}
	}
	s.slowed = nil
}

func (s *Spell) resolve(env Env) {
	factions := s.faction.Hostiles()
	if s.params.Kind == SpellHeal {
		factions = []model.Faction{s.faction}
	}

	var targets []*unit.Agent
	env.ForEachInRadius(world.Query{
		Center:   s.pos,
		Radius:   s.params.Radius,
		Factions: factions,
	}, func(a *unit.Agent) bool {
		targets = append(targets, a)
		return true
	})

	for _, t := range targets {
		switch s.params.Kind {
		case SpellHeal:
			env.Heal(model.NoHandle, t, s.params.Amount)
		case SpellSlow:
			if m := t.Movement(); m != nil {
				s.slowed = append(s.slowed, slowMark{agent: t.Handle(), mod: m.Modify(-s.params.Amount)})
			}
		default:
			env.Damage(model.NoHandle, t, s.params.Amount)
		}
	}
	if s.params.Cue != "" {
		env.Cue(model.NoHandle, s.params.Cue)
	}
}
