package geo

import (
	"math"

	"github.com/paulmach/orb"

	"github.com/udisondev/skirmish/internal/model"
)

// Wall is an axis-aligned obstacle rectangle on one layer.
type Wall struct {
	Bound orb.Bound
	Layer Layer
}

// NewWall creates a wall from min/max corners.
func NewWall(minX, minY, maxX, maxY float64, layer Layer) Wall {
	return Wall{
		Bound: orb.Bound{Min: orb.Point{minX, minY}, Max: orb.Point{maxX, maxY}},
		Layer: layer,
	}
}

// Walls is an occluder over a fixed set of rectangles.
type Walls struct {
	walls []Wall
}

// NewWalls creates an occluder from rectangles.
func NewWalls(walls ...Wall) *Walls {
	return &Walls{walls: walls}
}

// Add appends a rectangle.
func (w *Walls) Add(wall Wall) {
	w.walls = append(w.walls, wall)
}

// All returns the rectangles.
func (w *Walls) All() []Wall {
	return w.walls
}

// Blocked reports whether the segment intersects any wall on mask.
func (w *Walls) Blocked(from, to model.Vec2, mask Layer) bool {
	for _, wall := range w.walls {
		if wall.Layer&mask == 0 {
			continue
		}
		if segmentHitsBound(from, to, wall.Bound) {
			return true
		}
	}
	return false
}

// Contains reports whether p lies inside any wall on mask.
func (w *Walls) Contains(p model.Vec2, mask Layer) bool {
	for _, wall := range w.walls {
		if wall.Layer&mask != 0 && wall.Bound.Contains(orb.Point{p.X, p.Y}) {
			return true
		}
	}
	return false
}

// PushOut moves a circle at p with radius r out of every wall on mask.
// Returns the corrected center and whether it changed.
func (w *Walls) PushOut(p model.Vec2, r float64, mask Layer) (model.Vec2, bool) {
	moved := false
	for _, wall := range w.walls {
		if wall.Layer&mask == 0 {
			continue
		}
		var ok bool
		if p, ok = pushOutOf(wall.Bound, p, r); ok {
			moved = true
		}
	}
	return p, moved
}

// pushOutOf moves a circle out of one rectangle.
func pushOutOf(b orb.Bound, p model.Vec2, r float64) (model.Vec2, bool) {
	closest := model.V(
		math.Max(b.Min[0], math.Min(p.X, b.Max[0])),
		math.Max(b.Min[1], math.Min(p.Y, b.Max[1])),
	)
	d := p.Sub(closest)
	dist := d.Len()

	if dist > model.Epsilon {
		if dist >= r {
			return p, false
		}
		return closest.Add(d.Scale(r / dist)), true
	}

	// center inside the rectangle: leave through the nearest side
	left, right := p.X-b.Min[0], b.Max[0]-p.X
	down, up := p.Y-b.Min[1], b.Max[1]-p.Y
	switch math.Min(math.Min(left, right), math.Min(down, up)) {
	case left:
		p.X = b.Min[0] - r
	case right:
		p.X = b.Max[0] + r
	case down:
		p.Y = b.Min[1] - r
	default:
		p.Y = b.Max[1] + r
	}
	return p, true
}

// segmentHitsBound clips the segment against both slabs of b.
// Touching an edge or a corner counts as a hit.
func segmentHitsBound(from, to model.Vec2, b orb.Bound) bool {
	tMin, tMax := 0.0, 1.0
	if !clipSlab(from.X, to.X-from.X, b.Min[0], b.Max[0], &tMin, &tMax) {
		return false
	}
	return clipSlab(from.Y, to.Y-from.Y, b.Min[1], b.Max[1], &tMin, &tMax)
}

func clipSlab(o, d, lo, hi float64, tMin, tMax *float64) bool {
	if math.Abs(d) < 1e-12 {
		return o >= lo && o <= hi
	}
	t1, t2 := (lo-o)/d, (hi-o)/d
	if t1 > t2 {
		t1, t2 = t2, t1
	}
	*tMin = math.Max(*tMin, t1)
	*tMax = math.Min(*tMax, t2)
	return *tMin <= *tMax
}
