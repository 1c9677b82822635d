package physics

import "github.com/udisondev/skirmish/internal/model"

// Separate resolves overlap between two circles. Position correction is split
// by inverse mass and the approaching velocity component is removed.
// Returns true if the bodies were in contact.
func Separate(a, b *Body) bool {
	if !a.Solid || !b.Solid || a.Ghost || b.Ghost {
		return false
	}

	d := b.Pos.Sub(a.Pos)
	minDist := a.Radius + b.Radius
	distSq := d.LenSq()
	if distSq >= minDist*minDist {
		return false
	}

	wa, wb := a.inverseMass(), b.inverseMass()
	total := wa + wb
	if total == 0 {
		return true
	}

	dist := d.Len()
	n := model.V(1, 0)
	if dist > model.Epsilon {
		n = d.Scale(1 / dist)
	}
	overlap := minDist - dist

	a.Pos = a.Pos.Sub(n.Scale(overlap * wa / total))
	b.Pos = b.Pos.Add(n.Scale(overlap * wb / total))

	closing := b.Vel.Sub(a.Vel).Dot(n)
	if closing < 0 {
		j := -closing / total
		a.Vel = a.Vel.Sub(n.Scale(j * wa))
		b.Vel = b.Vel.Add(n.Scale(j * wb))
	}
	return true
}
