package scene

import (
	"math"

	"github.com/san-kum/molview/internal/molecule"
)

// Quat is a unit rotation quaternion.
type Quat struct {
	X, Y, Z, W float64
}

func Identity() Quat { return Quat{W: 1} }

// AxisAngle returns the rotation of angle radians about axis.
func AxisAngle(axis molecule.Vec3, angle float64) Quat {
	a := axis.Normalize()
	s := math.Sin(angle / 2)
	return Quat{a.X * s, a.Y * s, a.Z * s, math.Cos(angle / 2)}
}

// LookAt orients an object at from so its local +Z axis points at to.
// A zero-length direction yields the identity.
func LookAt(from, to, up molecule.Vec3) Quat {
	z := to.Sub(from).Normalize()
	if z.Length() == 0 {
		return Identity()
	}
	x := up.Cross(z)
	if x.Length() < 1e-12 {
		// up is parallel to the view direction; nudge it.
		if math.Abs(up.Z) == 1 {
			z.X += 1e-4
		} else {
			z.Z += 1e-4
		}
		z = z.Normalize()
		x = up.Cross(z)
	}
	x = x.Normalize()
	y := z.Cross(x)
	return fromBasis(x, y, z)
}

// fromBasis converts the rotation matrix with columns x, y, z.
func fromBasis(x, y, z molecule.Vec3) Quat {
	m00, m01, m02 := x.X, y.X, z.X
	m10, m11, m12 := x.Y, y.Y, z.Y
	m20, m21, m22 := x.Z, y.Z, z.Z

	var q Quat
	switch tr := m00 + m11 + m22; {
	case tr > 0:
		s := 0.5 / math.Sqrt(tr+1)
		q = Quat{(m21 - m12) * s, (m02 - m20) * s, (m10 - m01) * s, 0.25 / s}
	case m00 > m11 && m00 > m22:
		s := 2 * math.Sqrt(1+m00-m11-m22)
		q = Quat{0.25 * s, (m01 + m10) / s, (m02 + m20) / s, (m21 - m12) / s}
	case m11 > m22:
		s := 2 * math.Sqrt(1+m11-m00-m22)
		q = Quat{(m01 + m10) / s, 0.25 * s, (m12 + m21) / s, (m02 - m20) / s}
	default:
		s := 2 * math.Sqrt(1+m22-m00-m11)
		q = Quat{(m02 + m20) / s, (m12 + m21) / s, 0.25 * s, (m10 - m01) / s}
	}
	return q.Normalize()
}

func (q Quat) Normalize() Quat {
	l := math.Sqrt(q.X*q.X + q.Y*q.Y + q.Z*q.Z + q.W*q.W)
	if l == 0 {
		return Identity()
	}
	return Quat{q.X / l, q.Y / l, q.Z / l, q.W / l}
}

// Mul composes rotations: the result applies o first, then q.
func (q Quat) Mul(o Quat) Quat {
	return Quat{
		q.W*o.X + q.X*o.W + q.Y*o.Z - q.Z*o.Y,
		q.W*o.Y - q.X*o.Z + q.Y*o.W + q.Z*o.X,
		q.W*o.Z + q.X*o.Y - q.Y*o.X + q.Z*o.W,
		q.W*o.W - q.X*o.X - q.Y*o.Y - q.Z*o.Z,
	}
}

// Rotate applies q to v.
func (q Quat) Rotate(v molecule.Vec3) molecule.Vec3 {
	u := molecule.Vec3{X: q.X, Y: q.Y, Z: q.Z}
	t := u.Cross(v).Scale(2)
	return v.Add(t.Scale(q.W)).Add(u.Cross(t))
}
