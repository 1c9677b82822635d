package model

import (
	"errors"
	"fmt"
	"math"
	"sync"
)

// ErrNegativeAmount is returned for a negative damage or heal amount.
var ErrNegativeAmount = errors.New("negative amount")

// HealthObserver receives health notifications.
// Callbacks run synchronously on the simulation thread.
type HealthObserver interface {
	OnDamaged(amount float64)
	OnHealed(amount float64)
	OnDeath()
}

// Health хранит очки здоровья агента.
// Инвариант: 0 <= current <= max. Смерть наступает при current == 0 и !immortal,
// уведомление о смерти срабатывает ровно один раз.
type Health struct {
	current  float64
	max      float64
	immortal bool
	faction  Faction

	baseRadius float64
	baseMass   float64
	scale      float64

	deathOnce sync.Once
	observers []HealthObserver
}

// NewHealth создаёт здоровье с полным запасом HP.
func NewHealth(maxHP float64, faction Faction) *Health {
	if maxHP < 0 {
		maxHP = 0
	}
	return &Health{
		current:    maxHP,
		max:        maxHP,
		faction:    faction,
		baseRadius: 0.5,
		baseMass:   1,
		scale:      1,
	}
}

// AddObserver subscribes o to damage, heal and death notifications.
func (h *Health) AddObserver(o HealthObserver) {
	h.observers = append(h.observers, o)
}

func (h *Health) Current() float64 { return h.current }
func (h *Health) Max() float64 { return h.max }

func (h *Health) Faction() Faction { return h.faction }

// SetFaction reassigns the faction, e.g. on capture.
func (h *Health) SetFaction(f Faction) { h.faction = f }

func (h *Health) Immortal() bool { return h.immortal }
func (h *Health) SetImmortal(v bool) { h.immortal = v }
func (h *Health) IsFullHealth() bool { return h.current >= h.max }
func (h *Health) ScaleFactor() float64 { return h.scale }
func (h *Health) HitboxRadius() float64 { return h.baseRadius * h.scale }

// Mass grows with the square of the scale factor.
func (h *Health) Mass() float64 { return h.baseMass * h.scale * h.scale }

// SetBody sets the unscaled hitbox radius and mass.
func (h *Health) SetBody(radius, mass float64) {
	h.baseRadius = radius
	h.baseMass = mass
}

// SetScaleFactor scales hitbox radius linearly and mass quadratically.
func (h *Health) SetScaleFactor(f float64) {
	if f <= 0 {
		return
	}
	h.scale = f
}

// IsDead reports current == 0 on a mortal agent.
func (h *Health) IsDead() bool {
	return h.current <= 0 && !h.immortal
}

// Fraction returns current/max in [0, 1].
func (h *Health) Fraction() float64 {
	if h.max <= 0 {
		return 0
	}
	return h.current / h.max
}

// Damage уменьшает HP. Отрицательное значение отклоняется, после смерти — no-op.
func (h *Health) Damage(amount float64) error {
	if amount < 0 || math.IsNaN(amount) {
		return fmt.Errorf("damage %v: %w", amount, ErrNegativeAmount)
	}
	if h.IsDead() {
		return nil
	}

	h.current -= amount
	if h.current < 0 {
		h.current = 0
	}

	for _, o := range h.observers {
		o.OnDamaged(amount)
	}

	if h.IsDead() {
		h.deathOnce.Do(func() {
			h.current = 0
			for _, o := range h.observers {
				o.OnDeath()
			}
		})
	}
	return nil
}

// Heal восстанавливает HP до максимума. Отрицательное значение отклоняется, после смерти — no-op.
func (h *Health) Heal(amount float64) error {
	if amount < 0 || math.IsNaN(amount) {
		return fmt.Errorf("heal %v: %w", amount, ErrNegativeAmount)
	}
	if h.IsDead() {
		return nil
	}

	h.current = math.Min(h.current+amount, h.max)

	for _, o := range h.observers {
		o.OnHealed(amount)
	}
	return nil
}

// Revive restores full HP and re-arms the death notification.
func (h *Health) Revive() {
	h.current = h.max
	h.deathOnce = sync.Once{}
}
