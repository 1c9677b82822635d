package steer

import (
	"math"

	"github.com/udisondev/skirmish/internal/geo"
	"github.com/udisondev/skirmish/internal/model"
	"github.com/udisondev/skirmish/internal/unit"
	"github.com/udisondev/skirmish/internal/world"
)

// Config holds steering tuning values.
type Config struct {
	// LookAhead caps how far ahead neighbors are considered.
	LookAhead float64 `yaml:"look_ahead"`
	// MinCos and MaxCos clamp the dynamic blocking threshold.
	MinCos float64 `yaml:"min_cos"`
	MaxCos float64 `yaml:"max_cos"`
	// SpeedRatio: a neighbor faster than self speed * SpeedRatio is
	// assumed to be clearing the way and never blocks.
	SpeedRatio float64 `yaml:"speed_ratio"`
	// AvoidanceWeight scales the sideways component of the blend.
	AvoidanceWeight float64 `yaml:"avoidance_weight"`
}

// DefaultConfig returns steering config with sensible defaults.
func DefaultConfig() Config {
	return Config{
		LookAhead:       2,
		MinCos:          0.5,
		MaxCos:          0.95,
		SpeedRatio:      1.2,
		AvoidanceWeight: 1,
	}
}

// Neighbors is the spatial query steering needs.
type Neighbors interface {
	ForEachInRadius(q world.Query, fn func(*unit.Agent) bool)
}

// Steerer corrects a desired direction around same-faction blockers.
// It is a one-shot correction, recomputed at each targeting refresh.
type Steerer struct {
	cfg       Config
	neighbors Neighbors
	occ       geo.Occluder
}

// New creates a steerer. A nil occluder means no obstacles.
func New(cfg Config, neighbors Neighbors, occ geo.Occluder) *Steerer {
	if occ == nil {
		occ = geo.Open{}
	}
	return &Steerer{cfg: cfg, neighbors: neighbors, occ: occ}
}

type nearby struct {
	agent   *unit.Agent
	bearing model.Vec2
	dist    float64
}

// ResolveMoveDirection returns desired unchanged when nothing blocks the way,
// otherwise a unit vector bent to the side away from the nearest blocker.
func (s *Steerer) ResolveMoveDirection(a *unit.Agent, desired model.Vec2, desiredDistance float64) model.Vec2 {
	if desired.NearZero() {
		return desired
	}
	dir := desired.Normalized()

	look := math.Min(s.cfg.LookAhead, desiredDistance)
	if look <= 0 {
		return desired
	}

	var around []nearby
	s.neighbors.ForEachInRadius(world.Query{
		Origin:   a,
		Radius:   look,
		Factions: []model.Faction{a.Faction()},
	}, func(n *unit.Agent) bool {
		offset := n.Position().Sub(a.Position())
		d := offset.Len()
		if d < model.Epsilon {
			return true
		}
		around = append(around, nearby{agent: n, bearing: offset.Scale(1 / d), dist: d})
		return true
	})

	selfSpeed := a.Velocity().Len()
	blocker := -1
	for i, n := range around {
		if !s.blocks(n, dir, selfSpeed) {
			continue
		}
		if blocker < 0 || n.dist < around[blocker].dist {
			blocker = i
		}
	}
	if blocker < 0 {
		return desired
	}

	left := dir.Perp()
	right := left.Scale(-1)
	side := left
	if cross(dir, around[blocker].bearing) > 0 {
		side = right
	}

	if s.sideBlocked(a, side, look, around, blocker, selfSpeed) {
		side = side.Scale(-1)
	}

	return dir.Add(side.Scale(s.cfg.AvoidanceWeight)).Normalized()
}

// blocks reports whether n sits inside the cone toward dir.
// The cone half-angle is the neighbor's angular radius.
func (s *Steerer) blocks(n nearby, dir model.Vec2, selfSpeed float64) bool {
	if n.bearing.Dot(dir) <= s.threshold(n) {
		return false
	}
	return !s.clearing(n.agent, selfSpeed)
}

func (s *Steerer) threshold(n nearby) float64 {
	t := math.Cos(math.Atan(n.agent.HitboxRadius() / n.dist))
	return math.Max(s.cfg.MinCos, math.Min(s.cfg.MaxCos, t))
}

func (s *Steerer) clearing(n *unit.Agent, selfSpeed float64) bool {
	speed := n.Velocity().Len()
	return speed > model.Epsilon && speed > selfSpeed*s.cfg.SpeedRatio
}

func (s *Steerer) sideBlocked(a *unit.Agent, side model.Vec2, look float64, around []nearby, blocker int, selfSpeed float64) bool {
	for i, n := range around {
		if i == blocker {
			continue
		}
		if s.blocks(n, side, selfSpeed) {
			return true
		}
	}
	probe := a.Position().Add(side.Scale(look + a.HitboxRadius()))
	return s.occ.Blocked(a.Position(), probe, geo.MaskFor(a.Traversal()))
}

func cross(a, b model.Vec2) float64 {
	return a.X*b.Y - a.Y*b.X
}
