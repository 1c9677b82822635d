package unit

import "github.com/udisondev/skirmish/internal/model"

// AttackParams are the tuning values shared by every attack variant.
type AttackParams struct {
	Name      string
	Basic     bool
	Damage    float64
	Cooldown  float64
	Delay     float64
	Duration  float64
	Range     float64
	Ranged    bool
	Cue       string
	Knockback float64 // negative pulls toward the attacker
}

// Attack is one interchangeable attack behavior.
// Variants live in the combat package.
type Attack interface {
	// Params returns the tuning values of this behavior.
	Params() AttackParams

	// OnCooldown reports whether the behavior may not start at now.
	OnCooldown(now float64) bool

	// Acquire picks a target given the agent's perceived target (may be nil).
	// Returns nil when the behavior has nothing to attack.
	Acquire(self, perceived *Agent) *Agent

	// Begin commits to target and arms the wind-up continuation.
	Begin(self, target *Agent, now float64)

	// Advance drives pending continuations; called once per physics tick.
	Advance(self *Agent, now, dt float64)

	// Pending reports whether a wind-up or effect window is still running.
	Pending() bool

	// Cancel drops every pending continuation without resolving it.
	Cancel()
}

// CueSink receives fire-and-forget cosmetic triggers.
type CueSink interface {
	Cue(agent model.Handle, cue string)
}

// NopCues discards every cue.
type NopCues struct{}

func (NopCues) Cue(model.Handle, string) {}
