package geo

import (
	"fmt"
	"math"

	"github.com/paulmach/orb"

	"github.com/udisondev/skirmish/internal/model"
)

// TileMap is a grid occluder: each tile carries a layer mask.
// Segments are traced cell by cell with Bresenham.
type TileMap struct {
	origin   model.Vec2
	tileSize float64
	width    int32
	height   int32
	tiles    []Layer
}

// NewTileMap creates an empty tile map whose cell (0,0) starts at origin.
func NewTileMap(origin model.Vec2, tileSize float64, width, height int) (*TileMap, error) {
	if tileSize <= 0 || width <= 0 || height <= 0 {
		return nil, fmt.Errorf("invalid tile map %dx%d size %v", width, height, tileSize)
	}
	return &TileMap{
		origin:   origin,
		tileSize: tileSize,
		width:    int32(width),
		height:   int32(height),
		tiles:    make([]Layer, width*height),
	}, nil
}

// Set marks a tile with layer. Out-of-range tiles are ignored.
func (m *TileMap) Set(x, y int, layer Layer) {
	if !m.inside(int32(x), int32(y)) {
		return
	}
	m.tiles[int32(y)*m.width+int32(x)] = layer
}

// At returns the layer of a tile, zero outside the map.
func (m *TileMap) At(x, y int32) Layer {
	if !m.inside(x, y) {
		return 0
	}
	return m.tiles[y*m.width+x]
}

// TileOf converts a world position to tile coordinates.
func (m *TileMap) TileOf(p model.Vec2) (int32, int32) {
	return int32(math.Floor((p.X - m.origin.X) / m.tileSize)),
		int32(math.Floor((p.Y - m.origin.Y) / m.tileSize))
}

// Blocked reports whether any tile along the segment carries a layer in mask.
func (m *TileMap) Blocked(from, to model.Vec2, mask Layer) bool {
	sx, sy := m.TileOf(from)
	ex, ey := m.TileOf(to)

	it := NewLineIterator(sx, sy, ex, ey)
	for it.Next() {
		if m.At(it.X(), it.Y())&mask != 0 {
			return true
		}
	}
	return false
}

// Contains reports whether the tile under p carries a layer in mask.
func (m *TileMap) Contains(p model.Vec2, mask Layer) bool {
	x, y := m.TileOf(p)
	return m.At(x, y)&mask != 0
}

// PushOut moves a circle at p with radius r out of every blocked tile it overlaps.
func (m *TileMap) PushOut(p model.Vec2, r float64, mask Layer) (model.Vec2, bool) {
	x0, y0 := m.TileOf(model.V(p.X-r, p.Y-r))
	x1, y1 := m.TileOf(model.V(p.X+r, p.Y+r))

	moved := false
	for y := y0; y <= y1; y++ {
		for x := x0; x <= x1; x++ {
			if m.At(x, y)&mask == 0 {
				continue
			}
			var ok bool
			if p, ok = pushOutOf(m.tileBound(x, y), p, r); ok {
				moved = true
			}
		}
	}
	return p, moved
}

func (m *TileMap) tileBound(x, y int32) orb.Bound {
	minX := m.origin.X + float64(x)*m.tileSize
	minY := m.origin.Y + float64(y)*m.tileSize
	return orb.Bound{
		Min: orb.Point{minX, minY},
		Max: orb.Point{minX + m.tileSize, minY + m.tileSize},
	}
}

func (m *TileMap) inside(x, y int32) bool {
	return x >= 0 && x < m.width && y >= 0 && y < m.height
}
