package nav

import (
	"fmt"
	"log/slog"
	"math"

	"github.com/paulmach/orb"

	"github.com/udisondev/skirmish/internal/geo"
	"github.com/udisondev/skirmish/internal/model"
)

// Objective is a point agents are guided toward. Higher priority wins.
type Objective struct {
	Position model.Vec2
	Priority int
}

// Zone scopes a list of objectives to one faction and traversal class
// inside a rectangle.
type Zone struct {
	Name       string
	Faction    model.Faction
	Traversal  model.Traversal
	Bounds     orb.Bound
	Objectives []Objective
}

// Contains reports whether p lies in the zone rectangle.
func (z Zone) Contains(p model.Vec2) bool {
	return z.Bounds.Contains(orb.Point{p.X, p.Y})
}

const noGoal = -1

type cell struct {
	dir  model.Vec2
	zone int32
	goal int32
}

// BuildStats summarizes one Build call.
type BuildStats struct {
	Cells    int
	Unguided int
}

// Field caches, per cell and per (faction, traversal), the direction toward
// the best visible objective. It is only recomputed by Build.
type Field struct {
	oracle   *geo.Oracle
	min      model.Vec2
	cellSize float64
	cols     int
	rows     int

	zones []Zone
	// served are the zones the current cells were built from.
	served []Zone
	cells  []cell
	built  bool
}

// NewField creates an unbuilt field covering bounds.
func NewField(oracle *geo.Oracle, bounds orb.Bound, cellSize float64) (*Field, error) {
	if cellSize <= 0 {
		return nil, fmt.Errorf("navigation cell size must be positive, got %v", cellSize)
	}
	w := bounds.Max[0] - bounds.Min[0]
	h := bounds.Max[1] - bounds.Min[1]
	if w <= 0 || h <= 0 {
		return nil, fmt.Errorf("navigation bounds are empty: %v", bounds)
	}
	if oracle == nil {
		oracle = geo.NewOracle(nil)
	}

	cols := int(math.Ceil(w / cellSize))
	rows := int(math.Ceil(h / cellSize))
	return &Field{
		oracle:   oracle,
		min:      model.V(bounds.Min[0], bounds.Min[1]),
		cellSize: cellSize,
		cols:     cols,
		rows:     rows,
		cells:    make([]cell, cols*rows*model.FactionCount*model.TraversalCount),
	}, nil
}

// SetZones replaces the zones. The field keeps serving the previous
// directions until Build is called.
func (f *Field) SetZones(zones []Zone) {
	f.zones = zones
	f.built = false
}

// Zones returns the configured zones.
func (f *Field) Zones() []Zone {
	return f.zones
}

// Built reports whether directions reflect the current zones.
func (f *Field) Built() bool {
	return f.built
}

// Size returns grid columns and rows.
func (f *Field) Size() (int, int) {
	return f.cols, f.rows
}

// CellSize returns the side of one cell.
func (f *Field) CellSize() float64 {
	return f.cellSize
}

// CellCenter returns the world position of a cell center.
func (f *Field) CellCenter(x, y int) model.Vec2 {
	return model.V(
		f.min.X+(float64(x)+0.5)*f.cellSize,
		f.min.Y+(float64(y)+0.5)*f.cellSize,
	)
}

// Build evaluates every cell against every objective of its zone.
func (f *Field) Build() BuildStats {
	stats := BuildStats{}
	for fi := 0; fi < model.FactionCount; fi++ {
		for ti := 0; ti < model.TraversalCount; ti++ {
			faction, trav := model.Faction(fi), model.Traversal(ti)
			for y := 0; y < f.rows; y++ {
				for x := 0; x < f.cols; x++ {
					c := f.evaluate(f.CellCenter(x, y), faction, trav)
					f.cells[f.index(x, y, faction, trav)] = c
					stats.Cells++
					if c.goal == noGoal {
						stats.Unguided++
					}
				}
			}
		}
	}
	f.built = true
	f.served = f.zones

	slog.Debug("navigation field built",
		"cols", f.cols,
		"rows", f.rows,
		"zones", len(f.zones),
		"cells", stats.Cells,
		"unguided", stats.Unguided)
	return stats
}

func (f *Field) evaluate(center model.Vec2, faction model.Faction, trav model.Traversal) cell {
	out := cell{zone: noGoal, goal: noGoal}

	zi := f.zoneAt(center, faction, trav)
	if zi < 0 {
		return out
	}
	out.zone = int32(zi)

	bestPriority := math.MinInt
	bestDist := math.MaxFloat64
	for gi, obj := range f.zones[zi].Objectives {
		if !f.oracle.PathClear(center, obj.Position, trav) {
			continue
		}
		d := center.DistanceSquared(obj.Position)
		if obj.Priority > bestPriority || (obj.Priority == bestPriority && d < bestDist) {
			bestPriority = obj.Priority
			bestDist = d
			out.goal = int32(gi)
		}
	}
	if out.goal != noGoal {
		out.dir = f.zones[zi].Objectives[out.goal].Position.Sub(center).Normalized()
	}
	return out
}

func (f *Field) zoneAt(p model.Vec2, faction model.Faction, trav model.Traversal) int {
	for i, z := range f.zones {
		if z.Faction == faction && z.Traversal == trav && z.Contains(p) {
			return i
		}
	}
	return -1
}

// LookupDirection returns the cached unit direction for the cell under pos.
// Zero means no guidance: outside the grid or no eligible objective.
func (f *Field) LookupDirection(pos model.Vec2, faction model.Faction, trav model.Traversal) model.Vec2 {
	c, ok := f.lookup(pos, faction, trav)
	if !ok {
		return model.Vec2{}
	}
	return c.dir
}

// LookupObjective returns the objective chosen for the cell under pos.
func (f *Field) LookupObjective(pos model.Vec2, faction model.Faction, trav model.Traversal) (Objective, bool) {
	c, ok := f.lookup(pos, faction, trav)
	if !ok || c.goal == noGoal || int(c.zone) >= len(f.served) {
		return Objective{}, false
	}
	objs := f.served[c.zone].Objectives
	if int(c.goal) >= len(objs) {
		return Objective{}, false
	}
	return objs[c.goal], true
}

func (f *Field) lookup(pos model.Vec2, faction model.Faction, trav model.Traversal) (cell, bool) {
	if f.served == nil {
		return cell{}, false
	}
	x := int(math.Floor((pos.X - f.min.X) / f.cellSize))
	y := int(math.Floor((pos.Y - f.min.Y) / f.cellSize))
	if x < 0 || x >= f.cols || y < 0 || y >= f.rows {
		return cell{}, false
	}
	if int(faction) >= model.FactionCount || int(trav) >= model.TraversalCount {
		return cell{}, false
	}
	return f.cells[f.index(x, y, faction, trav)], true
}

func (f *Field) index(x, y int, faction model.Faction, trav model.Traversal) int {
	layer := int(faction)*model.TraversalCount + int(trav)
	return (layer*f.rows+y)*f.cols + x
}
