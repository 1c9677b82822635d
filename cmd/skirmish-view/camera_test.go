package main

import (
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/udisondev/skirmish/internal/config"
	"github.com/udisondev/skirmish/internal/geo"
	"github.com/udisondev/skirmish/internal/model"
)

func TestCamera_FitsMap(t *testing.T) {
	cam := newCamera(config.Rect{MaxX: 40, MaxY: 20}, 800, 400)

	x, y := cam.toScreen(model.V(20, 10))
	assert.InDelta(t, 400, x, 1e-3)
	assert.InDelta(t, 200, y, 1e-3)

	left, _ := cam.toScreen(model.V(0, 10))
	assert.Greater(t, left, float32(0))
}

func TestCamera_ZoomClamped(t *testing.T) {
	cam := newCamera(config.Rect{MaxX: 10, MaxY: 10}, 100, 100)
	for range 50 {
		cam.zoomBy(1.5)
	}
	assert.Equal(t, zoomMax, cam.zoom)
	for range 50 {
		cam.zoomBy(0.5)
	}
	assert.Equal(t, zoomMin, cam.zoom)
}

func TestCamera_ViewportMatchesWindow(t *testing.T) {
	cam := newCamera(config.Rect{MaxX: 40, MaxY: 20}, 800, 400)
	cam.zoomBy(2)
	cam.pan(100, 0)

	vp := geo.NewViewport(cam.center(), cam.worldWidth(), cam.worldHeight())

	inside := model.V(cam.x+cam.worldWidth()/2-0.1, cam.y)
	outside := model.V(cam.x+cam.worldWidth()/2+0.1, cam.y)
	assert.True(t, vp.Visible(inside))
	assert.False(t, vp.Visible(outside))

	x, _ := cam.toScreen(inside)
	assert.Less(t, x, float32(800))
}
