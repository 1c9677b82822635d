package geo

import (
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/udisondev/skirmish/internal/model"
)

func TestWalls_Contains(t *testing.T) {
	w := NewWalls(NewWall(0, 0, 2, 2, LayerLow))

	assert.True(t, w.Contains(model.V(1, 1), LayerAll))
	assert.False(t, w.Contains(model.V(1, 1), MaskFor(model.TraversalAir)))
	assert.False(t, w.Contains(model.V(3, 1), LayerAll))
}

func TestWalls_PushOut(t *testing.T) {
	w := NewWalls(NewWall(0, 0, 2, 2, LayerHigh))

	tests := []struct {
		name  string
		p     model.Vec2
		want  model.Vec2
		moved bool
	}{
		{"clear", model.V(3, 1), model.V(3, 1), false},
		{"touching right side", model.V(2.3, 1), model.V(2.5, 1), true},
		{"near corner", model.V(2.2, 2.2), model.V(2+0.5/1.4142135623730951, 2+0.5/1.4142135623730951), true},
		{"inside near bottom", model.V(1, 0.2), model.V(1, -0.5), true},
		{"inside near left", model.V(0.1, 1), model.V(-0.5, 1), true},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, moved := w.PushOut(tt.p, 0.5, LayerAll)
			assert.Equal(t, tt.moved, moved)
			assert.InDelta(t, tt.want.X, got.X, 1e-9)
			assert.InDelta(t, tt.want.Y, got.Y, 1e-9)
		})
	}

	low := NewWalls(NewWall(0, 0, 2, 2, LayerLow))
	_, moved := low.PushOut(model.V(1, 1), 0.5, MaskFor(model.TraversalAir))
	assert.False(t, moved)
}

func TestWalls_Blocked(t *testing.T) {
	w := NewWalls(NewWall(0, 0, 2, 2, LayerHigh))

	tests := []struct {
		name     string
		from, to model.Vec2
		want     bool
	}{
		{"crossing", model.V(-1, 1), model.V(3, 1), true},
		{"diagonal crossing", model.V(-1, -1), model.V(3, 3), true},
		{"grazing corner", model.V(-1, 1), model.V(1, -1), true},
		{"corner miss", model.V(-1, 0.5), model.V(0.5, -1), false},
		{"fully inside", model.V(0.5, 0.5), model.V(1.5, 1.5), true},
		{"parallel miss", model.V(-1, 3), model.V(3, 3), false},
		{"stops short", model.V(-3, 1), model.V(-1, 1), false},
		{"zero length inside", model.V(1, 1), model.V(1, 1), true},
		{"zero length outside", model.V(5, 5), model.V(5, 5), false},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, w.Blocked(tt.from, tt.to, LayerAll))
		})
	}

	assert.False(t, w.Blocked(model.V(-1, 1), model.V(3, 1), LayerLow))
}
