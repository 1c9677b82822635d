package combat

import "github.com/udisondev/skirmish/internal/unit"

// Melee hits a single target in reach when the wind-up ends.
type Melee struct {
	base
}

func NewMelee(p unit.AttackParams, env Env) *Melee {
	return &Melee{base: newBase(p, env)}
}

func (m *Melee) Advance(self *unit.Agent, now, _ float64) {
	target, ok := m.fire(self, now)
	if !ok {
		return
	}
	// The target may have stepped out of reach during the wind-up.
	if !self.WithinRange(target, m.params.Range) {
		return
	}
	hit(m.env, self.Handle(), target, self.Position(), m.params)
}
