package unit

import (
	"github.com/udisondev/skirmish/internal/model"
	"github.com/udisondev/skirmish/internal/physics"
)

// Movement turns a direction into a driving force.
type Movement struct {
	speed  float64
	factor float64
	// gen растёт на каждый Reset: старые модификаторы после него не откатываются
	gen uint32
}

// SpeedModifier is a handle to one applied modifier, used to revert it.
type SpeedModifier struct {
	scale float64
	gen   uint32
}

// NewMovement creates a movement behavior with base speed.
func NewMovement(speed float64) *Movement {
	return &Movement{speed: speed, factor: 1}
}

// Speed returns base speed times every applied modifier.
func (m *Movement) Speed() float64 {
	return m.speed * m.factor
}

// Modify applies a multiplicative modifier: 0.5 means +50%, -0.3 means -30%.
// Modifiers compound. A modifier of -100% or less is ignored.
func (m *Movement) Modify(f float64) SpeedModifier {
	scale := 1 + f
	if scale <= 0 {
		return SpeedModifier{}
	}
	m.factor *= scale
	return SpeedModifier{scale: scale, gen: m.gen}
}

// Revert undoes one modifier. Modifiers applied before the last Reset are
// already gone and revert to nothing.
func (m *Movement) Revert(mod SpeedModifier) {
	if mod.scale <= 0 || mod.gen != m.gen {
		return
	}
	m.factor /= mod.scale
}

// Reset drops all modifiers.
func (m *Movement) Reset() {
	m.factor = 1
	m.gen++
}

// Move pushes the body along dir. Under the body's drag the steady-state
// speed approaches Speed(). A body without drag is driven at Speed() directly.
func (m *Movement) Move(b *physics.Body, dir model.Vec2) {
	dir = dir.Normalized()
	if dir.NearZero() {
		return
	}
	if b.Drag <= 0 {
		b.Vel = dir.Scale(m.Speed())
		return
	}
	mass := b.Mass
	if mass <= 0 {
		mass = 1
	}
	b.AddForce(dir.Scale(m.Speed() * b.Drag * mass))
}
