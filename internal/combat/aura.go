package combat

import (
	"github.com/udisondev/skirmish/internal/model"
	"github.com/udisondev/skirmish/internal/unit"
	"github.com/udisondev/skirmish/internal/world"
)

// AuraParams tune a healing aura.
type AuraParams struct {
	Radius   float64 `yaml:"radius"`
	Amount   float64 `yaml:"amount"`
	Interval float64 `yaml:"interval"`
	Delay    float64 `yaml:"delay"`
	Cue      string  `yaml:"cue"`
}

// DefaultAuraParams: heals 4 within 2 every second, 0.25s after the pulse starts.
func DefaultAuraParams() AuraParams {
	return AuraParams{Radius: 2, Amount: 4, Interval: 1, Delay: 0.25, Cue: "Heal"}
}

// HealingAura periodically heals wounded allies around its owner.
type HealingAura struct {
	params AuraParams
	owner  model.Handle
	next   float64
	done   bool
}

// NewHealingAura starts pulsing at now; the first heal lands after Delay.
func NewHealingAura(owner model.Handle, p AuraParams, now float64) *HealingAura {
	return &HealingAura{params: p, owner: owner, next: now + p.Delay}
}

func (h *HealingAura) Owner() model.Handle { return h.owner }

// Done reports whether the owner is gone for good.
func (h *HealingAura) Done() bool { return h.done }

// Tick heals once per elapsed interval. A dead owner skips its pulses.
func (h *HealingAura) Tick(env Env, now float64) {
	owner, ok := env.Resolve(h.owner)
	if !ok {
		h.done = true
		return
	}
	if now < h.next {
		return
	}
	interval := h.params.Interval
	if interval <= 0 {
		interval = 1
	}
	for h.next <= now {
		h.next += interval
	}
	if !owner.Alive() {
		return
	}

	if h.params.Cue != "" {
		env.Cue(h.owner, h.params.Cue)
	}
	env.ForEachInRadius(world.Query{
		Center:   owner.Position(),
		Radius:   h.params.Radius,
		Factions: []model.Faction{owner.Faction()},
	}, func(ally *unit.Agent) bool {
		if ally == owner || ally.Health().IsFullHealth() {
			return true
		}
		env.Heal(h.owner, ally, h.params.Amount)
		return true
	})
}
