package physics

import "github.com/udisondev/skirmish/internal/model"

// Body is a rigid circle integrated with semi-implicit Euler.
type Body struct {
	Pos model.Vec2
	Vel model.Vec2

	Mass   float64
	Radius float64
	// Drag is linear damping per second.
	Drag float64

	// Static bodies never move and act as infinite mass in contacts.
	Static bool
	// Solid bodies take part in contact separation.
	Solid bool
	// Ghost bodies pass through other bodies while still solid against walls.
	Ghost bool

	force model.Vec2
}

// NewBody creates a solid body at pos.
func NewBody(pos model.Vec2, radius, mass, drag float64) *Body {
	return &Body{
		Pos:    pos,
		Mass:   mass,
		Radius: radius,
		Drag:   drag,
		Solid:  true,
	}
}

// AddForce accumulates a force for the next Integrate call.
func (b *Body) AddForce(f model.Vec2) {
	b.force = b.force.Add(f)
}

// AddImpulse changes velocity immediately by j/mass.
func (b *Body) AddImpulse(j model.Vec2) {
	if b.Static {
		return
	}
	b.Vel = b.Vel.Add(j.Scale(1 / b.mass()))
}

// Force returns the force accumulated since the last step.
func (b *Body) Force() model.Vec2 {
	return b.force
}

// Speed returns the magnitude of the velocity.
func (b *Body) Speed() float64 {
	return b.Vel.Len()
}

// Integrate advances the body by dt seconds and clears accumulated force.
func (b *Body) Integrate(dt float64) {
	if b.Static {
		b.force = model.Vec2{}
		b.Vel = model.Vec2{}
		return
	}

	b.Vel = b.Vel.Add(b.force.Scale(dt / b.mass()))
	damping := 1 - b.Drag*dt
	if damping < 0 {
		damping = 0
	}
	b.Vel = b.Vel.Scale(damping)
	b.Pos = b.Pos.Add(b.Vel.Scale(dt))
	b.force = model.Vec2{}
}

func (b *Body) mass() float64 {
	if b.Mass <= 0 {
		return 1
	}
	return b.Mass
}

func (b *Body) inverseMass() float64 {
	if b.Static {
		return 0
	}
	return 1 / b.mass()
}
