package unit

import (
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/udisondev/skirmish/internal/model"
	"github.com/udisondev/skirmish/internal/physics"
)

func TestMovement_ModifiersCompoundThenReset(t *testing.T) {
	m := NewMovement(2)

	m.Modify(0.5)
	assert.InDelta(t, 3.0, m.Speed(), 1e-9)

	m.Modify(-0.5)
	assert.InDelta(t, 1.5, m.Speed(), 1e-9)

	m.Reset()
	assert.InDelta(t, 2.0, m.Speed(), 1e-9)
}

func TestMovement_Revert(t *testing.T) {
	m := NewMovement(2)
	slow := m.Modify(-0.5)
	haste := m.Modify(1)
	assert.InDelta(t, 2.0, m.Speed(), 1e-9)

	m.Revert(slow)
	assert.InDelta(t, 4.0, m.Speed(), 1e-9)
	m.Revert(haste)
	assert.InDelta(t, 2.0, m.Speed(), 1e-9)

	stale := m.Modify(-0.25)
	m.Reset()
	m.Revert(stale)
	assert.InDelta(t, 2.0, m.Speed(), 1e-9)

	m.Revert(m.Modify(-1))
	assert.InDelta(t, 2.0, m.Speed(), 1e-9)
}

func TestMovement_ForceTracksModifiedSpeed(t *testing.T) {
	m := NewMovement(2)
	b := physics.NewBody(model.Vec2{}, 0.5, 2, 5)

	m.Move(b, model.V(3, 0))
	assert.InDelta(t, 2*5*2, b.Force().X, 1e-9)

	b.Integrate(0)
	m.Modify(-0.5)
	m.Move(b, model.V(1, 0))
	assert.InDelta(t, 1*5*2, b.Force().X, 1e-9)
}

func TestMovement_SteadyStateSpeed(t *testing.T) {
	m := NewMovement(2)
	m.Modify(-0.5)
	b := physics.NewBody(model.Vec2{}, 0.5, 1, 5)

	for range 500 {
		m.Move(b, model.V(0, 1))
		b.Integrate(0.02)
	}
	// semi-implicit step settles slightly under Speed()
	assert.InDelta(t, 1.0, b.Speed(), 0.15)
}

func TestMovement_NoDragStaysBounded(t *testing.T) {
	m := NewMovement(2)
	b := physics.NewBody(model.Vec2{}, 0.5, 1, 0)

	for range 100 {
		m.Move(b, model.V(1, 0))
		b.Integrate(0.02)
	}
	assert.InDelta(t, 2.0, b.Speed(), 1e-9)

	m.Move(b, model.Vec2{})
	assert.InDelta(t, 2.0, b.Speed(), 1e-9)
}
