package combat

import (
	"github.com/udisondev/skirmish/internal/model"
	"github.com/udisondev/skirmish/internal/unit"
	"github.com/udisondev/skirmish/internal/world"
)

// Shape is a circular collider carried in front of the agent.
type Shape struct {
	Radius float64 `yaml:"radius"`
	Offset float64 `yaml:"offset"`
}

// Center places the collider relative to self, facing toward aim.
func (s Shape) Center(self, aim model.Vec2) model.Vec2 {
	var off model.Vec2
	switch model.FacingOf(self, aim) {
	case model.DirectionUp:
		off = model.V(0, s.Offset)
	case model.DirectionDown:
		off = model.V(0, -s.Offset)
	default:
		if aim.X < self.X {
			off = model.V(-s.Offset, 0)
		} else {
			off = model.V(s.Offset, 0)
		}
	}
	return self.Add(off)
}

// overlapping snapshots the valid targets touching a collider at center.
func overlapping(env Env, self *unit.Agent, center model.Vec2, radius float64) []*unit.Agent {
	var out []*unit.Agent
	seen := make(map[model.Handle]struct{})
	env.ForEachInRadius(world.Query{
		Center:   center,
		Radius:   radius,
		Factions: self.Faction().Hostiles(),
	}, func(a *unit.Agent) bool {
		if _, dup := seen[a.Handle()]; dup || !self.CanTarget(a) {
			return true
		}
		seen[a.Handle()] = struct{}{}
		out = append(out, a)
		return true
	})
	return out
}

// Area hits every valid target inside a directional collider.
// The contact set is taken once, at resolution.
type Area struct {
	base
	shape     Shape
	impactCue string
}

func NewArea(p unit.AttackParams, shape Shape, impactCue string, env Env) *Area {
	return &Area{base: newBase(p, env), shape: shape, impactCue: impactCue}
}

func (a *Area) Advance(self *unit.Agent, now, _ float64) {
	target, ok := a.fire(self, now)
	if !ok {
		return
	}
	center := a.shape.Center(self.Position(), target.Position())
	for _, victim := range overlapping(a.env, self, center, a.shape.Radius) {
		hit(a.env, self.Handle(), victim, center, a.params)
	}
	if a.impactCue != "" {
		a.env.Cue(self.Handle(), a.impactCue)
	}
}
