package spawn

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/udisondev/skirmish/internal/model"
	"github.com/udisondev/skirmish/internal/testutil"
)

func TestSpreadPositions_Small(t *testing.T) {
	c := model.V(3, 4)

	assert.Empty(t, SpreadPositions(c, 0, 1))
	assert.NotNil(t, SpreadPositions(c, -1, 1))
	assert.Equal(t, []model.Vec2{c}, SpreadPositions(c, 1, 1))

	pair := SpreadPositions(c, 2, 1)
	require.Len(t, pair, 2)
	testutil.AssertVecNear(t, model.V(3, 5.25), pair[0], 1e-9)
	testutil.AssertVecNear(t, model.V(3, 2.75), pair[1], 1e-9)
}

func TestSpreadPositions_Ring(t *testing.T) {
	got := SpreadPositions(model.Vec2{}, 4, 1)
	require.Len(t, got, 4)

	// radius max(2r, r*n/2) = 2, first point straight down
	want := []model.Vec2{model.V(0, -2), model.V(2, 0), model.V(0, 2), model.V(-2, 0)}
	for i := range want {
		testutil.AssertVecNear(t, want[i], got[i], 1e-9)
	}

	eight := SpreadPositions(model.Vec2{}, 8, 1)
	require.Len(t, eight, 8)
	for _, p := range eight {
		assert.InDelta(t, 4.0, p.Len(), 1e-9)
	}
}

func TestSpreadPositions_Grid(t *testing.T) {
	got := SpreadPositions(model.Vec2{}, 10, 1)
	require.Len(t, got, 10)

	// 4 columns, 3 rows, spacing 2.5
	testutil.AssertVecNear(t, model.V(-3.75, -2.5), got[0], 1e-9)
	testutil.AssertVecNear(t, model.V(3.75, -2.5), got[3], 1e-9)
	testutil.AssertVecNear(t, model.V(-3.75, 0), got[4], 1e-9)

	// the short last row is centered
	testutil.AssertVecNear(t, model.V(-1.25, 2.5), got[8], 1e-9)
	testutil.AssertVecNear(t, model.V(1.25, 2.5), got[9], 1e-9)

	nine := SpreadPositions(model.V(1, 1), 9, 0.4)
	require.Len(t, nine, 9)
	testutil.AssertVecNear(t, model.V(1, 1), nine[4], 1e-9)
}

func TestSpreadPositions_Deterministic(t *testing.T) {
	assert.Equal(t, SpreadPositions(model.V(1, 2), 17, 0.5), SpreadPositions(model.V(1, 2), 17, 0.5))
}
