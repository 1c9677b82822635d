package geo

import "github.com/udisondev/skirmish/internal/model"

// Oracle answers line-of-sight questions against an occlusion layer.
type Oracle struct {
	occ Occluder
}

// NewOracle creates an oracle. A nil occluder sees everything.
func NewOracle(occ Occluder) *Oracle {
	if occ == nil {
		occ = Open{}
	}
	return &Oracle{occ: occ}
}

// Occluder returns the underlying occlusion source.
func (o *Oracle) Occluder() Occluder {
	return o.occ
}

// HasLineOfSight casts two probes offset by ±radius perpendicular to
// from→to and succeeds only if both are clear. A source can't see through
// a gap narrower than its own body.
func (o *Oracle) HasLineOfSight(from, to model.Vec2, radius float64, t model.Traversal) bool {
	mask := MaskFor(t)

	dir := to.Sub(from).Normalized()
	if dir.NearZero() {
		return true
	}
	offset := dir.Perp().Scale(radius)
	if radius <= 0 {
		return !o.occ.Blocked(from, to, mask)
	}

	if o.occ.Blocked(from.Add(offset), to.Add(offset), mask) {
		return false
	}
	return !o.occ.Blocked(from.Sub(offset), to.Sub(offset), mask)
}

// PathClear is a single centerline probe, used for objective selection.
func (o *Oracle) PathClear(from, to model.Vec2, t model.Traversal) bool {
	return !o.occ.Blocked(from, to, MaskFor(t))
}
