package world

import (
	"math"
	"slices"

	"github.com/udisondev/skirmish/internal/geo"
	"github.com/udisondev/skirmish/internal/model"
	"github.com/udisondev/skirmish/internal/unit"
)

// DefaultCellSize is the side of one bucket in world units.
const DefaultCellSize = 4.0

// Cell is a grid coordinate: floor(position / cellSize).
type Cell struct {
	X int32
	Y int32
}

// Grid buckets live agents by cell for radius queries.
// It is rebuilt from scratch on a timer, so positions may lag by one rebuild.
type Grid struct {
	cellSize float64
	cells    map[Cell][]*unit.Agent
	screen   geo.OnScreen
	count    int
}

// NewGrid creates an empty grid. A nil screen treats everything as on-screen.
func NewGrid(cellSize float64, screen geo.OnScreen) *Grid {
	if cellSize <= 0 {
		cellSize = DefaultCellSize
	}
	if screen == nil {
		screen = geo.AlwaysOnScreen{}
	}
	return &Grid{
		cellSize: cellSize,
		cells:    make(map[Cell][]*unit.Agent),
		screen:   screen,
	}
}

// CellSize returns the bucket side.
func (g *Grid) CellSize() float64 {
	return g.cellSize
}

// CellOf converts world position to cell coordinate
func (g *Grid) CellOf(p model.Vec2) Cell {
	return Cell{
		X: int32(math.Floor(p.X / g.cellSize)),
		Y: int32(math.Floor(p.Y / g.cellSize)),
	}
}

// SetScreen replaces the on-screen predicate.
func (g *Grid) SetScreen(s geo.OnScreen) {
	if s == nil {
		s = geo.AlwaysOnScreen{}
	}
	g.screen = s
}

// Rebuild clears the grid and reinserts every live agent.
func (g *Grid) Rebuild(agents []*unit.Agent) {
	clear(g.cells)
	g.count = 0
	for _, a := range agents {
		if a == nil || !a.Alive() {
			continue
		}
		c := g.CellOf(a.Position())
		g.cells[c] = append(g.cells[c], a)
		g.count++
	}
}

// Count returns number of indexed agents
func (g *Grid) Count() int {
	return g.count
}

// Query describes a radius search.
type Query struct {
	Center model.Vec2
	// Origin, when set, replaces Center, adds its hitbox to the reach and is
	// never returned itself.
	Origin *unit.Agent
	Radius float64
	// Factions is the allow-set. Empty means nothing matches.
	Factions []model.Faction
	// Traversals filters by traversal class. Empty means any.
	Traversals []model.Traversal
	// OnScreenOnly drops candidates outside the viewport, and everything
	// when the origin itself is off-screen.
	OnScreenOnly bool
}

// QueryRadius returns matching agents without duplicates, in no particular order.
func (g *Grid) QueryRadius(q Query) []*unit.Agent {
	var out []*unit.Agent
	g.ForEachInRadius(q, func(a *unit.Agent) bool {
		out = append(out, a)
		return true
	})
	return out
}

// ForEachInRadius calls fn for every match. If fn returns false, iteration stops.
func (g *Grid) ForEachInRadius(q Query, fn func(*unit.Agent) bool) {
	if len(q.Factions) == 0 || g.count == 0 {
		return
	}

	center := q.Center
	originRadius := 0.0
	if q.Origin != nil {
		center = q.Origin.Position()
		originRadius = q.Origin.HitboxRadius()
	}
	if q.OnScreenOnly && !g.screen.Visible(center) {
		return
	}

	cc := g.CellOf(center)
	span := int32(math.Ceil(q.Radius/g.cellSize)) + 1

	for x := cc.X - span; x <= cc.X+span; x++ {
		for y := cc.Y - span; y <= cc.Y+span; y++ {
			bucket, ok := g.cells[Cell{X: x, Y: y}]
			if !ok {
				continue
			}
			for _, a := range bucket {
				if !g.matches(q, a, center, originRadius) {
					continue
				}
				if !fn(a) {
					return
				}
			}
		}
	}
}

func (g *Grid) matches(q Query, a *unit.Agent, center model.Vec2, originRadius float64) bool {
	if a == q.Origin || !a.Alive() {
		return false
	}
	if !slices.Contains(q.Factions, a.Faction()) {
		return false
	}
	if len(q.Traversals) > 0 && !slices.Contains(q.Traversals, a.Traversal()) {
		return false
	}
	reach := q.Radius + originRadius + a.HitboxRadius()
	if center.DistanceSquared(a.Position()) > reach*reach {
		return false
	}
	if q.OnScreenOnly && !g.screen.Visible(a.Position()) {
		return false
	}
	return true
}
