package geometry

import (
	"fmt"

	"cogentcore.org/core/math32"
)

// Axis names one of the four basis directions.
type Axis int

const (
	AxisX Axis = iota
	AxisY
	AxisZ
	AxisW
)

func (a Axis) String() string {
	switch a {
	case AxisX:
		return "x"
	case AxisY:
		return "y"
	case AxisZ:
		return "z"
	case AxisW:
		return "w"
	}
	return fmt.Sprintf("Axis(%d)", int(a))
}

// Bivector is an oriented plane in 4D space, one component per coordinate plane.
// The orientation of XY runs from +x toward +y; swapping the axes flips the sign.
type Bivector struct {
	XY, XZ, XW, YZ, YW, ZW float32
}

// ZeroBivector has every component zero.
var ZeroBivector = Bivector{}

// Unit planes. Each one is built by Plane so that the table cannot drift from the
// antisymmetry rule.
var (
	XY = Plane(AxisX, AxisY)
	XZ = Plane(AxisX, AxisZ)
	XW = Plane(AxisX, AxisW)
	YX = Plane(AxisY, AxisX)
	YZ = Plane(AxisY, AxisZ)
	YW = Plane(AxisY, AxisW)
	ZX = Plane(AxisZ, AxisX)
	ZY = Plane(AxisZ, AxisY)
	ZW = Plane(AxisZ, AxisW)
	WX = Plane(AxisW, AxisX)
	WY = Plane(AxisW, AxisY)
	WZ = Plane(AxisW, AxisZ)
)

// Plane returns the unit plane spanned from axis a toward axis b.
// For a < b the component named ab is 1; Plane(b, a) is its negation and Plane(a, a) is zero.
//
// Parameters:
//   - a: the axis the rotation starts from
//   - b: the axis the rotation turns toward
//
// Returns:
//   - Bivector: the unit oriented plane
func Plane(a, b Axis) Bivector {
	if a == b {
		return ZeroBivector
	}
	if a > b {
		return Plane(b, a).Neg()
	}
	var p Bivector
	*p.component(a, b) = 1
	return p
}

// component returns a pointer to the ab component for a < b.
func (b *Bivector) component(i, j Axis) *float32 {
	switch {
	case i == AxisX && j == AxisY:
		return &b.XY
	case i == AxisX && j == AxisZ:
		return &b.XZ
	case i == AxisX && j == AxisW:
		return &b.XW
	case i == AxisY && j == AxisZ:
		return &b.YZ
	case i == AxisY && j == AxisW:
		return &b.YW
	case i == AxisZ && j == AxisW:
		return &b.ZW
	}
	panic(fmt.Sprintf("geometry: no plane component for %s%s", i, j))
}

func (b Bivector) Neg() Bivector {
	return Bivector{-b.XY, -b.XZ, -b.XW, -b.YZ, -b.YW, -b.ZW}
}

func (b Bivector) Add(o Bivector) Bivector {
	return Bivector{b.XY + o.XY, b.XZ + o.XZ, b.XW + o.XW, b.YZ + o.YZ, b.YW + o.YW, b.ZW + o.ZW}
}

func (b Bivector) Scale(s float32) Bivector {
	return Bivector{b.XY * s, b.XZ * s, b.XW * s, b.YZ * s, b.YW * s, b.ZW * s}
}

// Dot is the component-wise inner product of two planes.
func (b Bivector) Dot(o Bivector) float32 {
	return b.XY*o.XY + b.XZ*o.XZ + b.XW*o.XW + b.YZ*o.YZ + b.YW*o.YW + b.ZW*o.ZW
}

func (b Bivector) LengthSquared() float32 {
	return b.Dot(b)
}

func (b Bivector) Length() float32 {
	return math32.Sqrt(b.LengthSquared())
}

// Normalized returns the plane scaled to unit length.
// It returns ErrDegenerate instead of dividing by a (near) zero length.
func (b Bivector) Normalized() (Bivector, error) {
	l := b.Length()
	if l < Epsilon {
		return ZeroBivector, ErrDegenerate
	}
	return b.Scale(1 / l), nil
}

func (b Bivector) String() string {
	return fmt.Sprintf("(xy %g, xz %g, xw %g, yz %g, yw %g, zw %g)", b.XY, b.XZ, b.XW, b.YZ, b.YW, b.ZW)
}

// Wedge returns the oriented plane spanned by a then b, scaled by the area of the
// parallelogram they span. Parallel inputs give the zero plane.
//
// Parameters:
//   - a: the first vector
//   - b: the second vector
//
// Returns:
//   - Bivector: a ∧ b
func Wedge(a, b math32.Vector4) Bivector {
	return Bivector{
		XY: a.X*b.Y - b.X*a.Y,
		XZ: a.X*b.Z - b.X*a.Z,
		XW: a.X*b.W - b.X*a.W,
		YZ: a.Y*b.Z - b.Y*a.Z,
		YW: a.Y*b.W - b.Y*a.W,
		ZW: a.Z*b.W - b.Z*a.W,
	}
}
