package geometry

import (
	"fmt"

	"cogentcore.org/core/math32"
)

// Rotor is a unit element of the even subalgebra of 4D space: a scalar, an oriented plane and
// a pseudoscalar. A rotor encodes a rotation; R and -R encode the same rotation.
//
// Rotors built in a single plane have XYZW == 0. Composing rotors in two planes that share no
// axis (for example ZY and XW) produces a non-zero XYZW, so the component is carried to keep
// composition closed.
type Rotor struct {
	S    float32
	B    Bivector
	XYZW float32
}

// IdentityRotor leaves every vector unchanged.
var IdentityRotor = Rotor{S: 1}

// FromAnglePlane builds the rotation of angle radians within plane. A positive angle in
// Plane(a, b) turns axis a toward axis b.
//
// The plane does not need to be unit length; the result is normalized before it is returned.
//
// Parameters:
//   - angle: the rotation angle in radians
//   - plane: the oriented plane of rotation, must be non-zero
//
// Returns:
//   - Rotor: the unit rotor
//   - error: ErrDegenerate if the plane is (near) zero
func FromAnglePlane(angle float32, plane Bivector) (Rotor, error) {
	if plane.Length() < Epsilon {
		return IdentityRotor, fmt.Errorf("from angle plane: %w", ErrDegenerate)
	}
	sin, cos := math32.Sincos(angle / 2)
	r := Rotor{S: cos, B: plane.Scale(-sin)}
	return r.Normalized()
}

// MustFromAnglePlane is FromAnglePlane for planes known to be non-zero, such as the unit
// planes of this package. It panics on a degenerate plane.
func MustFromAnglePlane(angle float32, plane Bivector) Rotor {
	r, err := FromAnglePlane(angle, plane)
	if err != nil {
		panic(err)
	}
	return r
}

// FromRotationBetween builds the shortest-arc rotor that maps the direction of from onto the
// direction of to. Both inputs are normalized first.
//
// Parameters:
//   - from: the starting direction, must be non-zero
//   - to: the target direction, must be non-zero
//
// Returns:
//   - Rotor: the unit rotor with RotateVec(from) parallel to to
//   - error: ErrDegenerate for a zero input, ErrAntiparallel when from and to are opposite
func FromRotationBetween(from, to math32.Vector4) (Rotor, error) {
	f, t, err := unitPair(from, to)
	if err != nil {
		return IdentityRotor, err
	}
	r := Rotor{S: 1 + t.Dot(f), B: Wedge(t, f)}
	if r.Length() < Epsilon {
		return IdentityRotor, fmt.Errorf("from rotation between %v and %v: %w", from, to, ErrAntiparallel)
	}
	return r.Normalized()
}

// FromRotationBetweenOr behaves like FromRotationBetween, but when from and to are
// antiparallel it returns the half-turn in fallback instead of failing. The fallback plane
// should contain from, otherwise the half-turn does not land on to.
//
// Parameters:
//   - from: the starting direction, must be non-zero
//   - to: the target direction, must be non-zero
//   - fallback: the plane used for the half-turn case
//
// Returns:
//   - Rotor: the unit rotor
//   - error: ErrDegenerate for a zero input or a zero fallback plane in the half-turn case
func FromRotationBetweenOr(from, to math32.Vector4, fallback Bivector) (Rotor, error) {
	r, err := FromRotationBetween(from, to)
	if err == nil {
		return r, nil
	}
	if !isAntiparallel(err) {
		return r, err
	}
	return FromAnglePlane(math32.Pi, fallback)
}

func unitPair(from, to math32.Vector4) (math32.Vector4, math32.Vector4, error) {
	fl, tl := from.Length(), to.Length()
	if fl < Epsilon || tl < Epsilon {
		return from, to, fmt.Errorf("from rotation between %v and %v: %w", from, to, ErrDegenerate)
	}
	return from.DivScalar(fl), to.DivScalar(tl), nil
}

// RotateBy composes two rotations. The result applies o first and then r, which matches
// reading r.RotateBy(o) as the geometric product r·o. The product is renormalized so that
// repeated accumulation does not drift away from unit length.
func (r Rotor) RotateBy(o Rotor) Rotor {
	a, b := r, o
	out := Rotor{
		S: a.S*b.S - a.B.XW*b.B.XW - a.B.XY*b.B.XY + a.XYZW*b.XYZW -
			a.B.XZ*b.B.XZ - a.B.YW*b.B.YW - a.B.YZ*b.B.YZ - a.B.ZW*b.B.ZW,
		B: Bivector{
			XY: a.S*b.B.XY - a.B.XW*b.B.YW + a.B.XY*b.S - a.XYZW*b.B.ZW -
				a.B.XZ*b.B.YZ + a.B.YW*b.B.XW + a.B.YZ*b.B.XZ - a.B.ZW*b.XYZW,
			XZ: a.S*b.B.XZ - a.B.XW*b.B.ZW + a.B.XY*b.B.YZ + a.XYZW*b.B.YW +
				a.B.XZ*b.S + a.B.YW*b.XYZW - a.B.YZ*b.B.XY + a.B.ZW*b.B.XW,
			XW: a.S*b.B.XW + a.B.XW*b.S + a.B.XY*b.B.YW - a.XYZW*b.B.YZ +
				a.B.XZ*b.B.ZW - a.B.YW*b.B.XY - a.B.YZ*b.XYZW - a.B.ZW*b.B.XZ,
			YZ: a.S*b.B.YZ - a.B.XW*b.XYZW - a.B.XY*b.B.XZ - a.XYZW*b.B.XW +
				a.B.XZ*b.B.XY - a.B.YW*b.B.ZW + a.B.YZ*b.S + a.B.ZW*b.B.YW,
			YW: a.S*b.B.YW + a.B.XW*b.B.XY - a.B.XY*b.B.XW + a.XYZW*b.B.XZ +
				a.B.XZ*b.XYZW + a.B.YW*b.S + a.B.YZ*b.B.ZW - a.B.ZW*b.B.YZ,
			ZW: a.S*b.B.ZW + a.B.XW*b.B.XZ - a.B.XY*b.XYZW - a.XYZW*b.B.XY -
				a.B.XZ*b.B.XW + a.B.YW*b.B.YZ - a.B.YZ*b.B.YW + a.B.ZW*b.S,
		},
		XYZW: a.S*b.XYZW + a.B.XW*b.B.YZ + a.B.XY*b.B.ZW + a.XYZW*b.S -
			a.B.XZ*b.B.YW - a.B.YW*b.B.XZ + a.B.YZ*b.B.XW + a.B.ZW*b.B.XY,
	}
	n, err := out.Normalized()
	if err != nil {
		// The product of two unit rotors is unit; only garbage input reaches here.
		return out
	}
	return n
}

// RotateVec applies the rotation to v, computing R v R~ in closed form.
func (r Rotor) RotateVec(v math32.Vector4) math32.Vector4 {
	s, p := r.S, r.XYZW
	xy, xz, xw := r.B.XY, r.B.XZ, r.B.XW
	yz, yw, zw := r.B.YZ, r.B.YW, r.B.ZW

	// R v: vector part
	x := s*v.X + xy*v.Y + xz*v.Z + xw*v.W
	y := s*v.Y - xy*v.X + yz*v.Z + yw*v.W
	z := s*v.Z - xz*v.X - yz*v.Y + zw*v.W
	w := s*v.W - xw*v.X - yw*v.Y - zw*v.Z

	// R v: trivector part
	xyz := xy*v.Z - xz*v.Y + yz*v.X + p*v.W
	xyw := xy*v.W - xw*v.Y + yw*v.X - p*v.Z
	xzw := xz*v.W - xw*v.Z + zw*v.X + p*v.Y
	yzw := yz*v.W - yw*v.Z + zw*v.Y - p*v.X

	return math32.Vector4{
		X: s*x + xy*y + xz*z + xw*w + yz*xyz + yw*xyw + zw*xzw + p*yzw,
		Y: s*y - xy*x + yz*z + yw*w - xz*xyz - xw*xyw - p*xzw + zw*yzw,
		Z: s*z - xz*x - yz*y + zw*w + xy*xyz + p*xyw - xw*xzw - yw*yzw,
		W: s*w - xw*x - yw*y - zw*z - p*xyz + xy*xyw + xz*xzw + yz*yzw,
	}
}

// Reverse returns the conjugate rotor, which undoes r.
func (r Rotor) Reverse() Rotor {
	return Rotor{S: r.S, B: r.B.Neg(), XYZW: r.XYZW}
}

func (r Rotor) LengthSquared() float32 {
	return r.S*r.S + r.B.LengthSquared() + r.XYZW*r.XYZW
}

func (r Rotor) Length() float32 {
	return math32.Sqrt(r.LengthSquared())
}

// Normalized scales r to unit length, or returns ErrDegenerate for a (near) zero rotor.
func (r Rotor) Normalized() (Rotor, error) {
	l := r.Length()
	if l < Epsilon {
		return IdentityRotor, ErrDegenerate
	}
	inv := 1 / l
	return Rotor{S: r.S * inv, B: r.B.Scale(inv), XYZW: r.XYZW * inv}, nil
}

// ApproxEqual reports whether r and o encode the same rotation within eps.
// R and -R compare equal.
func (r Rotor) ApproxEqual(o Rotor, eps float32) bool {
	return r.within(o, eps) || r.within(o.neg(), eps)
}

func (r Rotor) neg() Rotor {
	return Rotor{S: -r.S, B: r.B.Neg(), XYZW: -r.XYZW}
}

func (r Rotor) within(o Rotor, eps float32) bool {
	d := [...]float32{
		r.S - o.S, r.XYZW - o.XYZW,
		r.B.XY - o.B.XY, r.B.XZ - o.B.XZ, r.B.XW - o.B.XW,
		r.B.YZ - o.B.YZ, r.B.YW - o.B.YW, r.B.ZW - o.B.ZW,
	}
	for _, c := range d {
		if math32.Abs(c) > eps {
			return false
		}
	}
	return true
}

func (r Rotor) String() string {
	return fmt.Sprintf("rotor(s %g, %v, xyzw %g)", r.S, r.B, r.XYZW)
}
