package aeno

import (
	"math"

	"github.com/go-gl/mathgl/mgl64"
)

// TangentFrame is the orthonormal basis of a surface in which texture U
// runs along Tangent, V along Bitangent and Normal points out.
type TangentFrame struct {
	Tangent, Bitangent, Normal Vector
}

// DefaultFrame is the frame of a panel lying in the XY plane facing +Z.
var DefaultFrame = TangentFrame{
	Tangent:   V(1, 0, 0),
	Bitangent: V(0, 1, 0),
	Normal:    V(0, 0, 1),
}

// FrameForTriangle derives the tangent frame from three positions and
// their texture coordinates. The tangent is Gram-Schmidt orthogonalised
// against the geometric normal. Triangles with degenerate UVs fall back
// to any tangent perpendicular to the normal.
func FrameForTriangle(p1, p2, p3, t1, t2, t3 Vector) TangentFrame {
	e1 := toVec3(p2.Sub(p1))
	e2 := toVec3(p3.Sub(p1))
	n := e1.Cross(e2).Normalize()

	du1, dv1 := t2.X-t1.X, t2.Y-t1.Y
	du2, dv2 := t3.X-t1.X, t3.Y-t1.Y
	denom := du1*dv2 - du2*dv1

	var t, b mgl64.Vec3
	if math.Abs(denom) > 1e-12 {
		r := 1 / denom
		t = e1.Mul(dv2 * r).Sub(e2.Mul(dv1 * r))
		b = e2.Mul(du1 * r).Sub(e1.Mul(du2 * r))
	}

	t = t.Sub(n.Mul(n.Dot(t)))
	if t.Dot(t) < 1e-16 {
		if math.Abs(n[0]) < 0.9 {
			t = mgl64.Vec3{1, 0, 0}.Sub(n.Mul(n[0]))
		} else {
			t = mgl64.Vec3{0, 1, 0}.Sub(n.Mul(n[1]))
		}
	}
	t = t.Normalize()

	// keep the handedness of the UV mapping
	bitangent := n.Cross(t)
	if b.Dot(b) > 0 && bitangent.Dot(b) < 0 {
		bitangent = bitangent.Mul(-1)
	}
	return TangentFrame{
		Tangent:   fromVec3(t),
		Bitangent: fromVec3(bitangent),
		Normal:    fromVec3(n),
	}
}

func (f TangentFrame) basis() mgl64.Mat3 {
	return mgl64.Mat3FromCols(toVec3(f.Tangent), toVec3(f.Bitangent), toVec3(f.Normal))
}

// ToTangent expresses a world-space direction in the frame.
func (f TangentFrame) ToTangent(v Vector) Vector {
	return fromVec3(f.basis().Transpose().Mul3x1(toVec3(v)))
}

// ToWorld maps a tangent-space direction back to world space.
func (f TangentFrame) ToWorld(v Vector) Vector {
	return fromVec3(f.basis().Mul3x1(toVec3(v)))
}

// Transform returns the frame carried through m. Directions are
// re-orthonormalised so non-uniform scale does not skew the basis.
func (f TangentFrame) Transform(m Matrix) TangentFrame {
	n := m.MulDirection(f.Normal).Normalize()
	t := m.MulDirection(f.Tangent)
	t = t.Sub(n.MulScalar(n.Dot(t))).Normalize()
	b := n.Cross(t)
	if b.Dot(m.MulDirection(f.Bitangent)) < 0 {
		b = b.Negate()
	}
	return TangentFrame{Tangent: t, Bitangent: b, Normal: n}
}

func toVec3(v Vector) mgl64.Vec3 {
	return mgl64.Vec3{v.X, v.Y, v.Z}
}

func fromVec3(v mgl64.Vec3) Vector {
	return Vector{X: v[0], Y: v[1], Z: v[2]}
}
