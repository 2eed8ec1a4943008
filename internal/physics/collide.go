package physics

import "github.com/tomz197/capsules/internal/geom"

// fallbackNormal is used when the contact segment has zero length and so has
// no direction of its own.
var fallbackNormal = geom.V(1, 0)

// Collide applies a frictionless elastic impulse between a and b if they are
// touching and approaching each other. The new velocities are written to both
// capsules immediately. Reports whether an impulse was applied.
//
// Bodies that already overlap but are separating are left alone; there is no
// positional correction.
func Collide(a, b *Capsule) bool {
	line := a.ShortestSegmentTo(b)
	if line.Length() > a.radius+b.radius {
		return false
	}

	normal := line.Direction()
	if line.Length() == 0 {
		normal = fallbackNormal
	}

	va, vb := a.Velocity(), b.Velocity()

	// Relative speed along the normal; non-positive means separating or resting.
	if va.Sub(vb).Dot(normal) <= 0 {
		return false
	}

	ma, mb := effectiveMasses(a.mass, b.mass)
	invTotal := 1 / (ma + mb)

	// Velocity components along the normal before and after the exchange.
	u1 := normal.Mult(va.Dot(normal))
	u2 := normal.Mult(vb.Dot(normal))
	v1 := u1.Mult((ma - mb) * invTotal).Add(u2.Mult(2 * mb * invTotal))
	v2 := u2.Mult((mb - ma) * invTotal).Add(u1.Mult(2 * ma * invTotal))

	a.SetVelocity(va.Sub(u1).Add(v1))
	b.SetVelocity(vb.Sub(u2).Add(v2))
	return true
}
