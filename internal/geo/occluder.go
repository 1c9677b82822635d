package geo

import (
	"github.com/paulmach/orb"

	"github.com/udisondev/skirmish/internal/model"
)

// Occluder answers "is the segment from→to blocked on any layer of mask".
// Implementations must be pure and cheap enough to call every tick.
type Occluder interface {
	Blocked(from, to model.Vec2, mask Layer) bool
}

// Open is an occluder with no obstacles.
type Open struct{}

func (Open) Blocked(model.Vec2, model.Vec2, Layer) bool { return false }

// Multi combines occluders; a segment is blocked if any of them blocks it.
type Multi []Occluder

func (m Multi) Blocked(from, to model.Vec2, mask Layer) bool {
	for _, o := range m {
		if o != nil && o.Blocked(from, to, mask) {
			return true
		}
	}
	return false
}

// Contains reports whether any member that knows its interior contains p.
func (m Multi) Contains(p model.Vec2, mask Layer) bool {
	for _, o := range m {
		if c, ok := o.(interface {
			Contains(model.Vec2, Layer) bool
		}); ok && c.Contains(p, mask) {
			return true
		}
	}
	return false
}

// PushOut applies every member that can push bodies out, in order.
func (m Multi) PushOut(p model.Vec2, r float64, mask Layer) (model.Vec2, bool) {
	moved := false
	for _, o := range m {
		po, ok := o.(interface {
			PushOut(model.Vec2, float64, Layer) (model.Vec2, bool)
		})
		if !ok {
			continue
		}
		var changed bool
		if p, changed = po.PushOut(p, r, mask); changed {
			moved = true
		}
	}
	return p, moved
}

// OnScreen answers "is this world position currently visible".
type OnScreen interface {
	Visible(p model.Vec2) bool
}

// AlwaysOnScreen treats the whole world as visible (headless runs).
type AlwaysOnScreen struct{}

func (AlwaysOnScreen) Visible(model.Vec2) bool { return true }

// Viewport is an on-screen predicate backed by a world-space rectangle.
type Viewport struct {
	Bound orb.Bound
}

// NewViewport creates a viewport centered on c.
func NewViewport(c model.Vec2, width, height float64) *Viewport {
	v := &Viewport{}
	v.MoveTo(c, width, height)
	return v
}

// MoveTo recenters the viewport.
func (v *Viewport) MoveTo(c model.Vec2, width, height float64) {
	v.Bound = orb.Bound{
		Min: orb.Point{c.X - width/2, c.Y - height/2},
		Max: orb.Point{c.X + width/2, c.Y + height/2},
	}
}

func (v *Viewport) Visible(p model.Vec2) bool {
	return v.Bound.Contains(orb.Point{p.X, p.Y})
}
