package geometry

import (
	"testing"

	"cogentcore.org/core/math32"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const tol = 1e-5

func TestUnitPlanesDistinctAndAntisymmetric(t *testing.T) {
	named := map[string]Bivector{
		"XY": XY, "XZ": XZ, "XW": XW,
		"YX": YX, "YZ": YZ, "YW": YW,
		"ZX": ZX, "ZY": ZY, "ZW": ZW,
		"WX": WX, "WY": WY, "WZ": WZ,
	}
	require.Len(t, named, 12)

	for an, a := range named {
		assert.InDelta(t, 1, a.Length(), tol, "%s is not unit", an)
		for bn, b := range named {
			if an == bn {
				continue
			}
			assert.NotEqual(t, a, b, "%s and %s share a value", an, bn)
		}
	}

	pairs := [][2]Bivector{{XY, YX}, {XZ, ZX}, {XW, WX}, {YZ, ZY}, {YW, WY}, {ZW, WZ}}
	for _, p := range pairs {
		assert.Equal(t, p[0], p[1].Neg())
	}
}

func TestPlaneComponents(t *testing.T) {
	assert.Equal(t, Bivector{XY: 1}, XY)
	assert.Equal(t, Bivector{XZ: 1}, XZ)
	assert.Equal(t, Bivector{XW: 1}, XW)
	assert.Equal(t, Bivector{YZ: 1}, YZ)
	assert.Equal(t, Bivector{YW: 1}, YW)
	assert.Equal(t, Bivector{ZW: 1}, ZW)
	assert.Equal(t, ZeroBivector, Plane(AxisY, AxisY))
}

func TestBivectorNormalized(t *testing.T) {
	cases := []Bivector{
		{XY: 3, ZW: 4},
		{XZ: -0.001},
		{XY: 1, XZ: 2, XW: 3, YZ: 4, YW: 5, ZW: 6},
	}
	for _, b := range cases {
		n, err := b.Normalized()
		require.NoError(t, err)
		assert.InDelta(t, 1, n.Length(), tol)
		assert.InDelta(t, 0, n.Scale(b.Length()).Add(b.Neg()).Length(), tol)
	}

	_, err := ZeroBivector.Normalized()
	assert.ErrorIs(t, err, ErrDegenerate)
}

func TestWedge(t *testing.T) {
	x := math32.Vec4(1, 0, 0, 0)
	y := math32.Vec4(0, 1, 0, 0)
	w := math32.Vec4(0, 0, 0, 1)

	assert.Equal(t, XY, Wedge(x, y))
	assert.Equal(t, YX, Wedge(y, x))
	assert.Equal(t, WX, Wedge(w, x))
	assert.Equal(t, ZeroBivector, Wedge(x, x.MulScalar(2)))

	a := math32.Vec4(1, 2, 3, 4)
	b := math32.Vec4(-2, 0.5, 1, 0)
	assert.Equal(t, Wedge(a, b), Wedge(b, a).Neg())
}
