package model

import "math"

// Epsilon is the length below which a vector is treated as zero.
const Epsilon = 1e-6

// Vec2 представляет точку или направление на плоскости.
// Value type, передаётся по значению (immutable).
type Vec2 struct {
	X float64
	Y float64
}

// V is a shorthand constructor.
func V(x, y float64) Vec2 {
	return Vec2{X: x, Y: y}
}

func (v Vec2) Add(o Vec2) Vec2 {
	return Vec2{X: v.X + o.X, Y: v.Y + o.Y}
}

func (v Vec2) Sub(o Vec2) Vec2 {
	return Vec2{X: v.X - o.X, Y: v.Y - o.Y}
}

func (v Vec2) Scale(k float64) Vec2 {
	return Vec2{X: v.X * k, Y: v.Y * k}
}

func (v Vec2) Dot(o Vec2) float64 {
	return v.X*o.X + v.Y*o.Y
}

// LenSq возвращает квадрат длины (без sqrt для производительности).
func (v Vec2) LenSq() float64 {
	return v.X*v.X + v.Y*v.Y
}

func (v Vec2) Len() float64 {
	return math.Sqrt(v.LenSq())
}

// Normalized returns the unit vector, or zero for a near-zero input.
func (v Vec2) Normalized() Vec2 {
	l := v.Len()
	if l < Epsilon {
		return Vec2{}
	}
	return Vec2{X: v.X / l, Y: v.Y / l}
}

// Perp returns v rotated 90 degrees counter-clockwise.
func (v Vec2) Perp() Vec2 {
	return Vec2{X: -v.Y, Y: v.X}
}

// NearZero reports whether the vector is shorter than Epsilon.
func (v Vec2) NearZero() bool {
	return v.LenSq() < Epsilon*Epsilon
}

// DistanceSquared возвращает квадрат расстояния до другой точки.
func (v Vec2) DistanceSquared(o Vec2) float64 {
	return v.Sub(o).LenSq()
}

func (v Vec2) Distance(o Vec2) float64 {
	return v.Sub(o).Len()
}

// Lerp interpolates between a and b; t is not clamped.
func Lerp(a, b Vec2, t float64) Vec2 {
	return Vec2{X: a.X + (b.X-a.X)*t, Y: a.Y + (b.Y-a.Y)*t}
}

// Direction is the coarse facing used to pick directional colliders and cues.
type Direction uint8

const (
	DirectionDown Direction = iota
	DirectionSide
	DirectionUp
)

// String returns human-readable direction name
func (d Direction) String() string {
	switch d {
	case DirectionDown:
		return "DOWN"
	case DirectionSide:
		return "SIDE"
	case DirectionUp:
		return "UP"
	default:
		return "UNKNOWN"
	}
}

// FacingOf classifies the bearing from one point to another.
// Vertical wins only when it dominates the horizontal component.
func FacingOf(from, to Vec2) Direction {
	d := to.Sub(from)
	if math.Abs(d.Y) > math.Abs(d.X) {
		if d.Y > 0 {
			return DirectionUp
		}
		return DirectionDown
	}
	return DirectionSide
}
