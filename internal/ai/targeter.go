package ai

import (
	"log/slog"

	"github.com/udisondev/skirmish/internal/geo"
	"github.com/udisondev/skirmish/internal/model"
	"github.com/udisondev/skirmish/internal/nav"
	"github.com/udisondev/skirmish/internal/steer"
	"github.com/udisondev/skirmish/internal/unit"
	"github.com/udisondev/skirmish/internal/world"
)

// Targeter is the per-agent targeting refresh: pick the nearest visible
// hostile, otherwise follow the navigation field, then let steering bend
// the direction around same-faction blockers.
type Targeter struct {
	spatial steer.Neighbors
	oracle  *geo.Oracle
	field   *nav.Field
	steerer *steer.Steerer
}

// NewTargeter wires a targeter. field and steerer may be nil.
func NewTargeter(spatial steer.Neighbors, oracle *geo.Oracle, field *nav.Field, steerer *steer.Steerer) *Targeter {
	if oracle == nil {
		oracle = geo.NewOracle(nil)
	}
	return &Targeter{spatial: spatial, oracle: oracle, field: field, steerer: steerer}
}

// Refresh stores a new target and move direction on a.
func (t *Targeter) Refresh(a *unit.Agent) {
	if !a.Alive() {
		return
	}

	var (
		desired  model.Vec2
		distance float64
	)
	if target := t.NearestVisibleTarget(a); target != nil {
		a.SetTarget(target.Handle())
		to := target.Position().Sub(a.Position())
		desired, distance = to.Normalized(), to.Len()
	} else {
		a.ClearTarget()
		desired, distance = t.guidance(a)
	}

	if a.IsStatic() {
		a.SetMoveDirection(model.Vec2{}, 0)
		return
	}
	if t.steerer != nil && !desired.NearZero() {
		desired = t.steerer.ResolveMoveDirection(a, desired, distance)
	}
	a.SetMoveDirection(desired, distance)

	if IsDebugEnabled() {
		slog.Debug("targeting refreshed",
			"agent", a.Handle(),
			"target", a.Target(),
			"dir", desired)
	}
}

// NearestVisibleTarget returns the closest valid hostile inside the agent's
// vision radius that is on screen and in line of sight, or nil.
func (t *Targeter) NearestVisibleTarget(a *unit.Agent) *unit.Agent {
	if t.spatial == nil {
		return nil
	}
	var (
		best   *unit.Agent
		bestSq float64
	)
	pos := a.Position()
	t.spatial.ForEachInRadius(world.Query{
		Origin:       a,
		Radius:       a.VisionRadius(),
		Factions:     a.Faction().Hostiles(),
		OnScreenOnly: true,
	}, func(c *unit.Agent) bool {
		if !a.CanTarget(c) {
			return true
		}
		sq := pos.DistanceSquared(c.Position())
		if best != nil && sq >= bestSq {
			return true
		}
		// LOS only for candidates that would win.
		if t.oracle.HasLineOfSight(pos, c.Position(), a.HitboxRadius(), a.Traversal()) {
			best, bestSq = c, sq
		}
		return true
	})
	return best
}

func (t *Targeter) guidance(a *unit.Agent) (model.Vec2, float64) {
	if t.field == nil {
		return model.Vec2{}, 0
	}
	dir := t.field.LookupDirection(a.Position(), a.Faction(), a.Traversal())
	if dir.NearZero() {
		return model.Vec2{}, 0
	}
	if obj, ok := t.field.LookupObjective(a.Position(), a.Faction(), a.Traversal()); ok {
		return dir, a.Position().Distance(obj.Position)
	}
	return dir, 0
}
