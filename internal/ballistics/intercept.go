package ballistics

import (
	"math"

	"github.com/udisondev/skirmish/internal/model"
)

// DefaultLeadFactor under-leads moving targets on purpose.
const DefaultLeadFactor = 0.8

// Intercept predicts where a projectile fired from origin at speed meets a
// target moving with targetVel*lead. It solves |ΔP + Vt·t|² = (speed·t)²
// for the smallest positive t. Returns target and false when no positive
// root exists.
func Intercept(origin, target, targetVel model.Vec2, speed, lead float64) (model.Vec2, bool) {
	vt := targetVel.Scale(lead)
	dp := target.Sub(origin)

	a := vt.Dot(vt) - speed*speed
	b := 2 * dp.Dot(vt)
	c := dp.Dot(dp)

	t, ok := smallestPositiveRoot(a, b, c)
	if !ok {
		return target, false
	}
	return target.Add(vt.Scale(t)), true
}

func smallestPositiveRoot(a, b, c float64) (float64, bool) {
	if math.Abs(a) < 1e-12 {
		// Target as fast as the projectile: b·t + c = 0.
		if math.Abs(b) < 1e-12 {
			return 0, false
		}
		t := -c / b
		return t, t > 0
	}

	disc := b*b - 4*a*c
	if disc < 0 {
		return 0, false
	}
	sq := math.Sqrt(disc)
	t1 := (-b + sq) / (2 * a)
	t2 := (-b - sq) / (2 * a)

	switch {
	case t1 > 0 && t2 > 0:
		return math.Min(t1, t2), true
	case t1 > 0:
		return t1, true
	case t2 > 0:
		return t2, true
	default:
		return 0, false
	}
}
