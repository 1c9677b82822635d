package ballistics

import (
	"math"

	"github.com/udisondev/skirmish/internal/model"
)

// headingStep is the parameter step of the numerical derivative.
const headingStep = 0.01

// Arc is a parabolic flight path in the ground plane: a straight line from
// Start to End bent sideways by sin(πt)·MaxHeight.
type Arc struct {
	start     model.Vec2
	end       model.Vec2
	duration  float64
	maxHeight float64
	perp      model.Vec2
}

// NewArc prepares a flight path. angleDeg in [0, 90] controls arc height;
// the bend shrinks to nothing as the line approaches vertical.
func NewArc(start, end model.Vec2, speed, angleDeg float64) Arc {
	line := end.Sub(start)
	dist := line.Len()

	arc := Arc{start: start, end: end}
	if speed > 0 {
		arc.duration = dist / speed
	}

	fromHorizontal := math.Abs(math.Atan2(line.Y, line.X)) * 180 / math.Pi
	if fromHorizontal > 90 {
		fromHorizontal = 180 - fromHorizontal
	}
	heightScale := math.Cos(fromHorizontal * math.Pi / 180)

	base := dist * math.Tan(angleDeg*math.Pi/180) * 0.5
	arc.maxHeight = base * heightScale

	perp := line.Normalized().Perp()
	if perp.Y < 0 {
		perp = perp.Scale(-1)
	}
	arc.perp = perp
	return arc
}

func (a Arc) Start() model.Vec2 { return a.start }
func (a Arc) End() model.Vec2 { return a.end }
func (a Arc) Duration() float64 { return a.duration }
func (a Arc) MaxHeight() float64 { return a.maxHeight }

// Progress converts elapsed seconds to the path parameter t.
// A zero-length flight is complete immediately.
func (a Arc) Progress(elapsed float64) float64 {
	if a.duration <= 0 {
		return 1
	}
	return elapsed / a.duration
}

// Position returns the point at parameter t.
func (a Arc) Position(t float64) model.Vec2 {
	base := model.Lerp(a.start, a.end, t)
	return base.Add(a.perp.Scale(math.Sin(t*math.Pi) * a.maxHeight))
}

// Heading returns the unit direction of travel at t.
func (a Arc) Heading(t float64) model.Vec2 {
	return a.Position(t + headingStep).Sub(a.Position(t)).Normalized()
}
