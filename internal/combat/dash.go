package combat

import (
	"github.com/udisondev/skirmish/internal/model"
	"github.com/udisondev/skirmish/internal/unit"
	"github.com/udisondev/skirmish/internal/world"
)

// DashParams tune the Dash variant.
type DashParams struct {
	MinRange     float64 `yaml:"min_range"`
	Duration     float64 `yaml:"duration"`
	ExtraLength  float64 `yaml:"extra_length"`
	Contact      Shape   `yaml:"contact"`
	MomentumKeep float64 `yaml:"momentum_keep"`
}

// DefaultDashParams: 2 min range, 0.3s dash, overshoot by 1.
func DefaultDashParams() DashParams {
	return DashParams{
		MinRange:     2,
		Duration:     0.3,
		ExtraLength:  1,
		Contact:      Shape{Radius: 0.5},
		MomentumKeep: 0.025,
	}
}

type dashRun struct {
	self    *unit.Agent
	vel     model.Vec2
	elapsed float64
	hit     map[model.Handle]struct{}
}

// Dash charges through the furthest enemy in range, hitting everything it
// touches on the way once.
type Dash struct {
	base
	dash DashParams
	run  *dashRun
}

func NewDash(p unit.AttackParams, dp DashParams, env Env) *Dash {
	return &Dash{base: newBase(p, env), dash: dp}
}

// Acquire needs a perceived target but then picks the furthest enemy
// inside range that is not already within minimum range.
func (d *Dash) Acquire(self, perceived *unit.Agent) *unit.Agent {
	if perceived == nil {
		return nil
	}
	var (
		best   *unit.Agent
		bestSq float64
	)
	d.env.ForEachInRadius(world.Query{
		Origin:   self,
		Radius:   d.params.Range + self.HitboxRadius(),
		Factions: self.Faction().Hostiles(),
	}, func(a *unit.Agent) bool {
		if !self.CanTarget(a) || self.WithinRange(a, d.dash.MinRange) {
			return true
		}
		if sq := self.Position().DistanceSquared(a.Position()); best == nil || sq > bestSq {
			best, bestSq = a, sq
		}
		return true
	})
	return best
}

func (d *Dash) Pending() bool { return d.pending != nil || d.run != nil }

func (d *Dash) Cancel() {
	d.base.Cancel()
	d.finish()
}

// Dashing reports whether the charge is in progress.
func (d *Dash) Dashing() bool { return d.run != nil }

func (d *Dash) Advance(self *unit.Agent, now, dt float64) {
	if d.run == nil {
		target, ok := d.fire(self, now)
		if !ok {
			return
		}
		to := target.Position().Sub(self.Position())
		dist := to.Len() + d.dash.ExtraLength
		duration := d.dash.Duration
		if duration <= 0 {
			duration = dt
		}
		d.run = &dashRun{
			self: self,
			vel:  to.Normalized().Scale(dist / duration),
			hit:  make(map[model.Handle]struct{}),
		}
		self.Body().Ghost = true
	}

	if !self.Alive() {
		d.finish()
		return
	}

	self.Body().Vel = d.run.vel
	d.contact(self)

	d.run.elapsed += dt
	if d.run.elapsed >= d.dash.Duration {
		d.finish()
	}
}

func (d *Dash) contact(self *unit.Agent) {
	aim := self.Position().Add(d.run.vel)
	center := d.dash.Contact.Center(self.Position(), aim)
	for _, victim := range overlapping(d.env, self, center, d.dash.Contact.Radius) {
		if _, done := d.run.hit[victim.Handle()]; done {
			continue
		}
		d.run.hit[victim.Handle()] = struct{}{}
		hit(d.env, self.Handle(), victim, center, d.params)
	}
}

// finish ends the charge, restoring collisions and bleeding off momentum.
func (d *Dash) finish() {
	if d.run == nil {
		return
	}
	b := d.run.self.Body()
	b.Ghost = false
	b.Vel = d.run.vel.Scale(d.dash.MomentumKeep)
	d.run = nil
}
