package model

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type recordingObserver struct {
	damaged []float64
	healed  []float64
	deaths  int
}

func (r *recordingObserver) OnDamaged(amount float64) { r.damaged = append(r.damaged, amount) }
func (r *recordingObserver) OnHealed(amount float64) { r.healed = append(r.healed, amount) }
func (r *recordingObserver) OnDeath() { r.deaths++ }

func TestHealth_DamageThenLethalHit(t *testing.T) {
	h := NewHealth(100, FactionFriend)
	obs := &recordingObserver{}
	h.AddObserver(obs)

	require.NoError(t, h.Damage(30))
	assert.Equal(t, []float64{30}, obs.damaged)
	assert.Equal(t, 70.0, h.Current())
	assert.False(t, h.IsDead())

	require.NoError(t, h.Damage(80))
	assert.Equal(t, 0.0, h.Current())
	assert.True(t, h.IsDead())
	assert.Equal(t, 1, obs.deaths)

	require.NoError(t, h.Damage(10))
	assert.Equal(t, 1, obs.deaths, "death must fire once")
	assert.Len(t, obs.damaged, 2, "damage after death is a no-op")
}

func TestHealth_RejectsNegative(t *testing.T) {
	h := NewHealth(100, FactionEnemy)
	require.NoError(t, h.Damage(40))

	err := h.Damage(-1)
	require.ErrorIs(t, err, ErrNegativeAmount)
	assert.Equal(t, 60.0, h.Current())

	err = h.Heal(-1)
	require.ErrorIs(t, err, ErrNegativeAmount)
	assert.Equal(t, 60.0, h.Current())
}

func TestHealth_HealClampsToMax(t *testing.T) {
	h := NewHealth(50, FactionFriend)
	obs := &recordingObserver{}
	h.AddObserver(obs)

	require.NoError(t, h.Damage(20))
	require.NoError(t, h.Heal(100))
	assert.Equal(t, 50.0, h.Current())
	assert.True(t, h.IsFullHealth())
	assert.Equal(t, []float64{100}, obs.healed)
}

func TestHealth_HealAfterDeathIsNoop(t *testing.T) {
	h := NewHealth(10, FactionFriend)
	require.NoError(t, h.Damage(10))
	require.NoError(t, h.Heal(5))
	assert.Equal(t, 0.0, h.Current())
}

func TestHealth_ImmortalNeverDies(t *testing.T) {
	h := NewHealth(10, FactionNeutral)
	h.SetImmortal(true)
	obs := &recordingObserver{}
	h.AddObserver(obs)

	require.NoError(t, h.Damage(50))
	assert.Equal(t, 0.0, h.Current())
	assert.False(t, h.IsDead())
	assert.Zero(t, obs.deaths)

	require.NoError(t, h.Heal(3))
	assert.Equal(t, 3.0, h.Current())
}

func TestHealth_InvariantHoldsUnderMixedCalls(t *testing.T) {
	h := NewHealth(40, FactionEnemy)
	amounts := []float64{5, 0, 17, 3, 100, 2}
	for i, a := range amounts {
		if i%2 == 0 {
			_ = h.Damage(a)
		} else {
			_ = h.Heal(a)
		}
		assert.GreaterOrEqual(t, h.Current(), 0.0)
		assert.LessOrEqual(t, h.Current(), h.Max())
	}
}

func TestHealth_ReviveRearmsDeath(t *testing.T) {
	h := NewHealth(10, FactionFriend)
	obs := &recordingObserver{}
	h.AddObserver(obs)

	require.NoError(t, h.Damage(10))
	h.Revive()
	assert.Equal(t, 10.0, h.Current())
	assert.False(t, h.IsDead())

	require.NoError(t, h.Damage(10))
	assert.Equal(t, 2, obs.deaths)
}

func TestHealth_ScaleFactor(t *testing.T) {
	h := NewHealth(10, FactionFriend)
	h.SetBody(0.5, 2)
	h.SetScaleFactor(2)

	assert.InDelta(t, 1.0, h.HitboxRadius(), 1e-9)
	assert.InDelta(t, 8.0, h.Mass(), 1e-9)
}
