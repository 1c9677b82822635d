package spawn

import (
	"math"

	"github.com/udisondev/skirmish/internal/model"
)

// spacingMultiplier is the center-to-center gap in unit radii.
const spacingMultiplier = 2.5

// SpreadPositions returns count deterministic positions around center for
// agents of the given radius: one point, a vertical pair, a ring for up to
// eight, a centered grid above that.
func SpreadPositions(center model.Vec2, count int, radius float64) []model.Vec2 {
	if count <= 0 {
		return []model.Vec2{}
	}
	if count == 1 {
		return []model.Vec2{center}
	}

	spacing := radius * spacingMultiplier

	if count == 2 {
		half := model.V(0, spacing/2)
		return []model.Vec2{center.Add(half), center.Sub(half)}
	}

	out := make([]model.Vec2, 0, count)

	if count <= 8 {
		ring := math.Max(radius*2, radius*float64(count)/2)
		for i := range count {
			angle := 2*math.Pi*float64(i)/float64(count) - math.Pi/2
			out = append(out, center.Add(model.V(math.Cos(angle), math.Sin(angle)).Scale(ring)))
		}
		return out
	}

	cols := int(math.Ceil(math.Sqrt(float64(count))))
	rows := (count + cols - 1) / cols
	start := center.Sub(model.V(float64(cols-1)*spacing, float64(rows-1)*spacing).Scale(0.5))

	placed := 0
	for row := 0; row < rows && placed < count; row++ {
		inRow := min(cols, count-placed)
		// incomplete rows are centered
		shift := float64(cols-inRow) * spacing / 2
		for col := range inRow {
			out = append(out, start.Add(model.V(float64(col)*spacing+shift, float64(row)*spacing)))
			placed++
		}
	}
	return out
}
