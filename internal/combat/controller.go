package combat

import (
	"log/slog"

	"github.com/udisondev/skirmish/internal/ai"
	"github.com/udisondev/skirmish/internal/model"
	"github.com/udisondev/skirmish/internal/unit"
)

// Cue names fired on locomotion state changes.
const (
	CueIdle = "Idle"
	CueWalk = "Walk"
	CueDie  = "Die"
)

// Controller drives the per-agent combat state machine:
// Idle → Attacking (wind-up, active) → Idle/Pursuing.
type Controller struct {
	cfg Config
	env Env
}

func NewController(cfg Config, env Env) *Controller {
	return &Controller{cfg: cfg, env: env}
}

// Tick runs one physics tick of the state machine for a.
//
// While the last committed attack's active window is open nothing new
// happens. Otherwise, at most every AttackCheckInterval, behaviors are tried
// in declared order and the first one with a target is committed. Failing
// that the agent walks along its steered direction, or idles.
func (c *Controller) Tick(a *unit.Agent, now float64) {
	if a.IsDead() || !a.State().Combatant() {
		return
	}
	if a.AttackLocked(now) {
		return
	}

	if now-a.LastAttackCheck() > c.cfg.AttackCheckInterval {
		a.MarkAttackCheck(now)
		if c.engage(a, now) {
			return
		}
	}

	if a.IsStatic() {
		return
	}

	dir := a.MoveDirection()
	if dir.NearZero() || a.Movement() == nil {
		c.transition(a, model.StateIdle, CueIdle, false)
		return
	}

	if target := c.perceived(a); target != nil {
		a.Face(target.Position())
	} else {
		a.Face(a.Position().Add(dir))
	}
	c.transition(a, model.StatePursuing, CueWalk, false)
	a.Movement().Move(a.Body(), dir)
}

// Advance drives pending wind-ups and active effects of every behavior.
func (c *Controller) Advance(a *unit.Agent, now, dt float64) {
	for _, atk := range a.Attacks() {
		if atk.Pending() {
			atk.Advance(a, now, dt)
		}
	}
}

// Cancel drops every pending continuation of a immediately.
func (c *Controller) Cancel(a *unit.Agent) {
	a.CancelAttacks()
}

func (c *Controller) engage(a *unit.Agent, now float64) bool {
	perceived := c.perceived(a)

	for _, atk := range a.Attacks() {
		if atk.OnCooldown(now) {
			continue
		}
		target := atk.Acquire(a, perceived)
		if target == nil {
			continue
		}

		p := atk.Params()
		a.CommitAttack(now, p.Duration)
		a.Face(target.Position())
		c.transition(a, model.StateAttacking, p.Cue, true)
		atk.Begin(a, target, now)

		if ai.IsDebugEnabled() {
			slog.Debug("attack committed",
				"agent", a.Handle(),
				"attack", p.Name,
				"target", target.Handle(),
				"at", now)
		}
		return true
	}
	return false
}

// perceived resolves the agent's current target, dropping stale handles.
func (c *Controller) perceived(a *unit.Agent) *unit.Agent {
	h := a.Target()
	if h.IsZero() {
		return nil
	}
	t, ok := c.env.Resolve(h)
	if !ok || !t.Alive() {
		a.ClearTarget()
		return nil
	}
	return t
}

func (c *Controller) transition(a *unit.Agent, s model.UnitState, cue string, force bool) {
	if (force || a.State() != s) && cue != "" {
		c.env.Cue(a.Handle(), cue)
	}
	a.SetState(s)
}
