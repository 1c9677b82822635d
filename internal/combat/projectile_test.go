package combat

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/udisondev/skirmish/internal/model"
	"github.com/udisondev/skirmish/internal/testutil"
)

func flyUntilImpact(t *testing.T, env *testEnv, p *Projectile) {
	t.Helper()
	for i := 0; i < 100 && !p.Impacted(); i++ {
		p.Tick(env, 0.1)
	}
	require.True(t, p.Impacted())
}

func TestProjectile_ImpactsOnceThenLingers(t *testing.T) {
	env := newTestEnv(t)
	shooter := testutil.NewAgent(t, model.FactionFriend, model.V(0, 0))
	enemy := testutil.NewAgent(t, model.FactionEnemy, model.V(3, 0))
	env.add(shooter, enemy)

	p := NewProjectile(DefaultConfig(), shooter, enemy, DefaultParams("arrow"), DefaultProjectileParams())

	p.Tick(env, 0.1)
	assert.Greater(t, p.Position().Y, 0.0, "arc bends off the flight line")
	assert.False(t, p.Impacted())

	flyUntilImpact(t, env, p)
	assert.Equal(t, model.V(3, 0), p.Position(), "snaps to the aim point")
	assert.Equal(t, 90.0, enemy.Health().Current())
	assert.False(t, p.Done(), "lingers after impact")

	for i := 0; i < 10; i++ {
		p.Tick(env, 0.1)
	}
	assert.True(t, p.Done())
	assert.Equal(t, 1, env.hitsOn(enemy.Handle()), "impact resolves exactly once")
}

func TestProjectile_SingleTargetVsAOE(t *testing.T) {
	tests := []struct {
		name     string
		aoe      bool
		wantSide int
	}{
		{"single target hits nearest only", false, 0},
		{"area of effect hits all contacts", true, 1},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			env := newTestEnv(t)
			shooter := testutil.NewAgent(t, model.FactionFriend, model.V(0, 0))
			center := testutil.NewAgent(t, model.FactionEnemy, model.V(3, 0))
			side := testutil.NewAgent(t, model.FactionEnemy, model.V(3, 0.3))
			friend := testutil.NewAgent(t, model.FactionFriend, model.V(3, -0.2))
			env.add(shooter, center, side, friend)

			pp := DefaultProjectileParams()
			pp.AOE = tt.aoe
			p := NewProjectile(DefaultConfig(), shooter, center, DefaultParams("bolt"), pp)
			flyUntilImpact(t, env, p)

			assert.Equal(t, 1, env.hitsOn(center.Handle()))
			assert.Equal(t, tt.wantSide, env.hitsOn(side.Handle()))
			assert.Equal(t, 0, env.hitsOn(friend.Handle()))
		})
	}
}

func TestProjectile_KnockbackFromExactImpactPoint(t *testing.T) {
	env := newTestEnv(t)
	shooter := testutil.NewAgent(t, model.FactionFriend, model.V(0, 0))
	enemy := testutil.NewAgent(t, model.FactionEnemy, model.V(3, 0))
	env.add(shooter, enemy)

	params := DefaultParams("boulder")
	params.Knockback = 3
	p := NewProjectile(DefaultConfig(), shooter, enemy, params, DefaultProjectileParams())
	flyUntilImpact(t, env, p)

	assert.False(t, enemy.Velocity().NearZero(), "jittered origin still yields a push")
}

func TestProjectile_LeadsMovingTarget(t *testing.T) {
	env := newTestEnv(t)
	shooter := testutil.NewAgent(t, model.FactionFriend, model.V(0, 0))
	runner := testutil.NewAgent(t, model.FactionEnemy, model.V(3, 0))
	runner.Body().Vel = model.V(0, 2)
	env.add(shooter, runner)

	p := NewProjectile(DefaultConfig(), shooter, runner, DefaultParams("arrow"), DefaultProjectileParams())

	assert.Greater(t, p.Target().Y, 0.0)
	assert.InDelta(t, 3.0, p.Target().X, 1e-9)
}

func TestProjectile_MissesWhenTargetLeft(t *testing.T) {
	env := newTestEnv(t)
	shooter := testutil.NewAgent(t, model.FactionFriend, model.V(0, 0))
	enemy := testutil.NewAgent(t, model.FactionEnemy, model.V(3, 0))
	env.add(shooter, enemy)

	p := NewProjectile(DefaultConfig(), shooter, enemy, DefaultParams("arrow"), DefaultProjectileParams())
	enemy.Body().Pos = model.V(3, 4)
	env.refresh()
	flyUntilImpact(t, env, p)

	assert.Empty(t, env.hits)
}
