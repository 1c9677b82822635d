package combat

import "github.com/udisondev/skirmish/internal/unit"

// Ranged fires a projectile at the target when the wind-up ends.
type Ranged struct {
	base
	cfg  Config
	shot ProjectileParams
}

func NewRanged(p unit.AttackParams, shot ProjectileParams, cfg Config, env Env) *Ranged {
	p.Ranged = true
	return &Ranged{base: newBase(p, env), cfg: cfg, shot: shot}
}

func (r *Ranged) Advance(self *unit.Agent, now, _ float64) {
	target, ok := r.fire(self, now)
	if !ok {
		return
	}
	r.env.Launch(NewProjectile(r.cfg, self, target, r.params, r.shot))
}
