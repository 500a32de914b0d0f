package core

import "github.com/go-gl/mathgl/mgl32"

// Plane is n.p + D = 0 with a unit normal. Distance is positive on the
// side the normal points to.
type Plane struct {
	Normal mgl32.Vec3
	D      float32
}

// PlaneFromPoints builds the plane through a, b and c with the normal
// (b-a) x (c-a).
func PlaneFromPoints(a, b, c mgl32.Vec3) Plane {
	n := b.Sub(a).Cross(c.Sub(a))
	if l := n.Len(); l > 0 {
		n = n.Mul(1.0 / l)
	}
	return Plane{Normal: n, D: -n.Dot(a)}
}

func (p Plane) Distance(v mgl32.Vec3) float32 {
	return p.Normal.Dot(v) + p.D
}
