package geo

import "github.com/udisondev/skirmish/internal/model"

// Layer is a bitmask of occlusion layers.
type Layer uint8

const (
	// LayerLow blocks ground agents only (fences, water, rubble).
	LayerLow Layer = 1 << iota
	// LayerHigh blocks everyone (walls, cliffs).
	LayerHigh
)

// LayerAll matches every layer.
const LayerAll = LayerLow | LayerHigh

// MaskFor returns the layers that apply to a traversal class.
// Air agents ignore low obstacles.
func MaskFor(t model.Traversal) Layer {
	if t == model.TraversalAir {
		return LayerHigh
	}
	return LayerAll
}

// ParseLayer converts a config string to Layer.
func ParseLayer(s string) (Layer, bool) {
	switch s {
	case "low":
		return LayerLow, true
	case "high", "":
		return LayerHigh, true
	default:
		return 0, false
	}
}
