package combat

import (
	"math"

	"github.com/udisondev/skirmish/internal/model"
	"github.com/udisondev/skirmish/internal/unit"
)

// DefaultParams returns the stock attack tuning: basic, 10 damage,
// 1s active window, 0.5s wind-up, melee reach.
func DefaultParams(name string) unit.AttackParams {
	return unit.AttackParams{
		Name:     name,
		Basic:    true,
		Damage:   10,
		Duration: 1,
		Delay:    0.5,
		Cue:      "Attack",
	}
}

// windup is a pending resolution armed by Begin.
type windup struct {
	target    model.Handle
	resolveAt float64
}

// base carries the timing every variant shares: cooldown bookkeeping
// and a single cancellable wind-up.
type base struct {
	params       unit.AttackParams
	env          Env
	lastAttackAt float64
	pending      *windup
}

func newBase(p unit.AttackParams, env Env) base {
	return base{params: p, env: env, lastAttackAt: math.Inf(-1)}
}

func (b *base) Params() unit.AttackParams { return b.params }

func (b *base) OnCooldown(now float64) bool {
	return now-b.lastAttackAt < b.params.Cooldown
}

// Acquire returns the perceived target when it is a valid target inside range.
func (b *base) Acquire(self, perceived *unit.Agent) *unit.Agent {
	if perceived == nil || !self.CanTarget(perceived) {
		return nil
	}
	if !self.WithinRange(perceived, b.params.Range) {
		return nil
	}
	return perceived
}

func (b *base) Begin(self, target *unit.Agent, now float64) {
	b.lastAttackAt = now
	b.pending = &windup{target: target.Handle(), resolveAt: now + b.params.Delay}
}

func (b *base) Pending() bool { return b.pending != nil }

func (b *base) Cancel() { b.pending = nil }

// fire consumes the wind-up once it has elapsed. The resolved target is
// returned only when both self and target are still alive.
func (b *base) fire(self *unit.Agent, now float64) (*unit.Agent, bool) {
	w := b.pending
	if w == nil || now < w.resolveAt {
		return nil, false
	}
	b.pending = nil

	if !self.Alive() {
		return nil, false
	}
	target, ok := b.env.Resolve(w.target)
	if !ok || !target.Alive() {
		return nil, false
	}
	return target, true
}

// hit pushes target away from origin (toward it when knockback is negative)
// and applies damage.
func hit(env Env, source model.Handle, target *unit.Agent, origin model.Vec2, p unit.AttackParams) {
	if p.Knockback != 0 {
		dir := target.Position().Sub(origin).Normalized()
		target.Body().AddImpulse(dir.Scale(p.Knockback))
	}
	env.Damage(source, target, p.Damage)
}

var (
	_ unit.Attack = (*Melee)(nil)
	_ unit.Attack = (*Area)(nil)
	_ unit.Attack = (*Dash)(nil)
	_ unit.Attack = (*Ranged)(nil)
	_ unit.Attack = (*CrowdPull)(nil)
)
