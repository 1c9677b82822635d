package main

import (
	"math"

	"github.com/udisondev/skirmish/internal/config"
	"github.com/udisondev/skirmish/internal/model"
)

const (
	zoomMin = 0.5
	zoomMax = 4.0
)

// camera maps world units onto window pixels.
type camera struct {
	x, y   float64 // world center
	zoom   float64
	base   float64 // pixels per world unit at zoom 1
	width  int
	height int
}

// newCamera fits the whole map into the window.
func newCamera(bounds config.Rect, width, height int) *camera {
	w := math.Max(bounds.MaxX-bounds.MinX, 1)
	h := math.Max(bounds.MaxY-bounds.MinY, 1)
	return &camera{
		x:      (bounds.MinX + bounds.MaxX) / 2,
		y:      (bounds.MinY + bounds.MaxY) / 2,
		zoom:   1,
		base:   math.Min(float64(width)/w, float64(height)/h) * 0.95,
		width:  width,
		height: height,
	}
}

func (c *camera) scale() float64 { return c.base * c.zoom }

func (c *camera) center() model.Vec2 { return model.V(c.x, c.y) }

func (c *camera) worldWidth() float64  { return float64(c.width) / c.scale() }
func (c *camera) worldHeight() float64 { return float64(c.height) / c.scale() }

// toScreen converts a world position into window pixels.
func (c *camera) toScreen(p model.Vec2) (float32, float32) {
	s := c.scale()
	return float32((p.X-c.x)*s + float64(c.width)/2), float32((p.Y-c.y)*s + float64(c.height)/2)
}

// pan moves the camera by a screen-space delta.
func (c *camera) pan(dx, dy float64) {
	c.x += dx / c.scale()
	c.y += dy / c.scale()
}

func (c *camera) zoomBy(f float64) {
	c.zoom = min(max(c.zoom*f, zoomMin), zoomMax)
}
