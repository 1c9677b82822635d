package combat

import (
	"github.com/udisondev/skirmish/internal/unit"
	"github.com/udisondev/skirmish/internal/world"
)

// PullParams tune the CrowdPull variant.
type PullParams struct {
	MinTargets   int     `yaml:"min_targets"`
	Force        float64 `yaml:"force"`
	Grace        float64 `yaml:"grace"`
	TickInterval float64 `yaml:"tick_interval"`
}

// DefaultPullParams: needs 3 enemies, pulls with force 50, 0.5s tail.
func DefaultPullParams() PullParams {
	return PullParams{MinTargets: 3, Force: 50, Grace: 0.5, TickInterval: 0.5}
}

type channel struct {
	elapsed   float64
	effectEnd float64
	end       float64
	nextTick  float64
}

// CrowdPull channels a vortex around the agent: enemies in range are
// dragged inward every tick and damaged at a fixed interval, followed by a
// short grace tail with no effect.
type CrowdPull struct {
	base
	pull PullParams
	run  *channel
}

func NewCrowdPull(p unit.AttackParams, pp PullParams, env Env) *CrowdPull {
	return &CrowdPull{base: newBase(p, env), pull: pp}
}

func (c *CrowdPull) enemies(self *unit.Agent, radius float64) []*unit.Agent {
	var out []*unit.Agent
	c.env.ForEachInRadius(world.Query{
		Origin:   self,
		Radius:   radius,
		Factions: self.Faction().Hostiles(),
	}, func(a *unit.Agent) bool {
		if self.CanTarget(a) {
			out = append(out, a)
		}
		return true
	})
	return out
}

// Acquire targets the agent itself once enough enemies crowd around it.
func (c *CrowdPull) Acquire(self, perceived *unit.Agent) *unit.Agent {
	if perceived == nil {
		return nil
	}
	if len(c.enemies(self, c.params.Range+self.HitboxRadius())) < c.pull.MinTargets {
		return nil
	}
	return self
}

// fireSelf consumes the wind-up. A self-targeted pull only needs the agent alive.
func (c *CrowdPull) fireSelf(self *unit.Agent, now float64) bool {
	w := c.pending
	if w == nil || now < w.resolveAt {
		return false
	}
	c.pending = nil
	return self.Alive()
}

func (c *CrowdPull) Pending() bool { return c.pending != nil || c.run != nil }

func (c *CrowdPull) Cancel() {
	c.base.Cancel()
	c.run = nil
}

// Channeling reports whether the pull or its grace tail is running.
func (c *CrowdPull) Channeling() bool { return c.run != nil }

func (c *CrowdPull) Advance(self *unit.Agent, now, dt float64) {
	if c.run == nil {
		if !c.fireSelf(self, now) {
			return
		}
		effect := c.params.Duration - c.pull.Grace
		if effect < 0 {
			effect = 0
		}
		c.run = &channel{effectEnd: effect, end: effect + c.pull.Grace}
	}

	r := c.run
	if r.elapsed < r.effectEnd && self.Alive() {
		c.drag(self, r)
	} else if r.elapsed < r.effectEnd {
		// Dead agents stop pulling but the tail still plays out.
		r.effectEnd = r.elapsed
		r.end = r.elapsed + c.pull.Grace
	}

	r.elapsed += dt
	if r.elapsed >= r.end {
		c.run = nil
	}
}

func (c *CrowdPull) drag(self *unit.Agent, r *channel) {
	victims := c.enemies(self, c.params.Range)
	center := self.Position()
	for _, v := range victims {
		dir := center.Sub(v.Position()).Normalized()
		v.Body().AddForce(dir.Scale(c.pull.Force))
	}

	if c.params.Damage <= 0 || r.elapsed < r.nextTick {
		return
	}
	r.nextTick = r.elapsed + c.pull.TickInterval
	for _, v := range victims {
		c.env.Damage(self.Handle(), v, c.params.Damage)
	}
}
