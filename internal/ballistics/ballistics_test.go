package ballistics

import (
	"math"
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/udisondev/skirmish/internal/model"
	"github.com/udisondev/skirmish/internal/testutil"
)

func TestIntercept_StationaryTarget(t *testing.T) {
	target := model.V(7, -3)
	got, ok := Intercept(model.V(1, 2), target, model.Vec2{}, 5, DefaultLeadFactor)

	assert.True(t, ok)
	assert.Equal(t, target, got)
}

func TestIntercept_TargetOutrunsProjectile(t *testing.T) {
	target := model.V(10, 0)
	got, ok := Intercept(model.V(0, 0), target, model.V(20, 0), 5, 1)

	assert.False(t, ok)
	assert.Equal(t, target, got)
}

func TestIntercept_CrossingTarget(t *testing.T) {
	origin := model.V(0, 0)
	target := model.V(10, 0)
	vel := model.V(0, 3)

	got, ok := Intercept(origin, target, vel, 5, 1)
	assert.True(t, ok)

	// Time to reach the point must equal the target's travel time.
	flight := got.Distance(origin) / 5
	travel := got.Distance(target) / 3
	assert.InDelta(t, flight, travel, 1e-9)
	assert.InDelta(t, 10.0, got.X, 1e-9)
}

func TestIntercept_LeadFactorUnderLeads(t *testing.T) {
	full, _ := Intercept(model.V(0, 0), model.V(10, 0), model.V(0, 3), 5, 1)
	under, _ := Intercept(model.V(0, 0), model.V(10, 0), model.V(0, 3), 5, 0.8)

	assert.Less(t, under.Y, full.Y)
	assert.Greater(t, under.Y, 0.0)
}

func TestIntercept_EqualSpeedApproaching(t *testing.T) {
	// a == 0: target comes straight at the shooter as fast as the projectile.
	got, ok := Intercept(model.V(0, 0), model.V(10, 0), model.V(-5, 0), 5, 1)
	assert.True(t, ok)
	testutil.AssertVecNear(t, model.V(5, 0), got, 1e-9)
}

func TestArc_EndpointsAndApex(t *testing.T) {
	arc := NewArc(model.V(0, 0), model.V(10, 0), 5, 30)

	assert.InDelta(t, 2.0, arc.Duration(), 1e-9)
	testutil.AssertVecNear(t, model.V(0, 0), arc.Position(0), 1e-9)
	testutil.AssertVecNear(t, model.V(10, 0), arc.Position(1), 1e-9)

	wantHeight := 10 * math.Tan(math.Pi/6) * 0.5
	assert.InDelta(t, wantHeight, arc.MaxHeight(), 1e-9)
	testutil.AssertVecNear(t, model.V(5, wantHeight), arc.Position(0.5), 1e-9)
}

func TestArc_BendsUpwardEitherWay(t *testing.T) {
	leftward := NewArc(model.V(10, 0), model.V(0, 0), 5, 30)
	assert.Greater(t, leftward.Position(0.5).Y, 0.0)
}

func TestArc_VerticalShotIsStraight(t *testing.T) {
	arc := NewArc(model.V(0, 0), model.V(0, 8), 4, 45)

	assert.InDelta(t, 0.0, arc.MaxHeight(), 1e-9)
	testutil.AssertVecNear(t, model.V(0, 4), arc.Position(0.5), 1e-9)
}

func TestArc_HeadingFollowsPath(t *testing.T) {
	arc := NewArc(model.V(0, 0), model.V(10, 0), 5, 30)

	start := arc.Heading(0)
	assert.Greater(t, start.X, 0.0)
	assert.Greater(t, start.Y, 0.0, "rising at launch")

	end := arc.Heading(0.95)
	assert.Less(t, end.Y, 0.0, "falling near impact")
}

func TestArc_ZeroLengthCompletesImmediately(t *testing.T) {
	arc := NewArc(model.V(3, 3), model.V(3, 3), 5, 30)
	assert.Equal(t, 1.0, arc.Progress(0))
}
