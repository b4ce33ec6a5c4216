package geometry

import (
	"math/rand"
	"testing"

	"cogentcore.org/core/math32"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

var (
	ex = math32.Vec4(1, 0, 0, 0)
	ey = math32.Vec4(0, 1, 0, 0)
	ez = math32.Vec4(0, 0, 1, 0)
	ew = math32.Vec4(0, 0, 0, 1)
)

func assertVec(t *testing.T, want, got math32.Vector4, msgAndArgs ...any) {
	t.Helper()
	assert.InDelta(t, want.X, got.X, tol, msgAndArgs...)
	assert.InDelta(t, want.Y, got.Y, tol, msgAndArgs...)
	assert.InDelta(t, want.Z, got.Z, tol, msgAndArgs...)
	assert.InDelta(t, want.W, got.W, tol, msgAndArgs...)
}

func randomVec(rng *rand.Rand) math32.Vector4 {
	return math32.Vec4(rng.Float32()*2-1, rng.Float32()*2-1, rng.Float32()*2-1, rng.Float32()*2-1)
}

func randomRotor(rng *rand.Rand) Rotor {
	planes := []Bivector{XY, XZ, XW, YZ, YW, ZW}
	r := IdentityRotor
	for i := 0; i < 4; i++ {
		p := planes[rng.Intn(len(planes))]
		r = r.RotateBy(MustFromAnglePlane(rng.Float32()*2*math32.Pi, p))
	}
	return r
}

func TestFromAnglePlaneIsUnit(t *testing.T) {
	rng := rand.New(rand.NewSource(1))
	for i := 0; i < 200; i++ {
		angle := (rng.Float32()*2 - 1) * 10
		plane, err := Bivector{
			XY: rng.Float32() - 0.5, XZ: rng.Float32() - 0.5, XW: rng.Float32() - 0.5,
			YZ: rng.Float32() - 0.5, YW: rng.Float32() - 0.5, ZW: rng.Float32() - 0.5,
		}.Normalized()
		require.NoError(t, err)

		r, err := FromAnglePlane(angle, plane)
		require.NoError(t, err)
		assert.InDelta(t, 1, r.LengthSquared(), tol)
		assert.Zero(t, r.XYZW)
	}
}

func TestFromAnglePlaneToleratesNonUnitPlane(t *testing.T) {
	r, err := FromAnglePlane(math32.Pi/2, XY.Scale(5))
	require.NoError(t, err)
	assert.InDelta(t, 1, r.Length(), tol)
}

func TestFromAnglePlaneRejectsZeroPlane(t *testing.T) {
	_, err := FromAnglePlane(1, ZeroBivector)
	assert.ErrorIs(t, err, ErrDegenerate)
	assert.Panics(t, func() { MustFromAnglePlane(1, ZeroBivector) })
}

func TestQuarterTurns(t *testing.T) {
	cases := []struct {
		name  string
		plane Bivector
		in    math32.Vector4
		want  math32.Vector4
	}{
		{"xy turns x to y", XY, ex, ey},
		{"yx turns y to x", YX, ey, ex},
		{"zx turns z to x", ZX, ez, ex},
		{"zy turns z to y", ZY, ez, ey},
		{"xw turns x to w", XW, ex, ew},
		{"zw turns z to w", ZW, ez, ew},
		{"xy leaves z alone", XY, ez, ez},
		{"xy leaves w alone", XY, ew, ew},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			r := MustFromAnglePlane(math32.Pi/2, tc.plane)
			assertVec(t, tc.want, r.RotateVec(tc.in))
		})
	}
}

func TestRotateVecPreservesLength(t *testing.T) {
	rng := rand.New(rand.NewSource(2))
	for i := 0; i < 500; i++ {
		r := randomRotor(rng)
		v := randomVec(rng)
		assert.InDelta(t, v.Length(), r.RotateVec(v).Length(), 1e-4)
	}
}

func TestRotateByIdentityAndReverse(t *testing.T) {
	rng := rand.New(rand.NewSource(3))
	for i := 0; i < 100; i++ {
		r := randomRotor(rng)
		assert.True(t, r.RotateBy(IdentityRotor).ApproxEqual(r, tol))
		assert.True(t, IdentityRotor.RotateBy(r).ApproxEqual(r, tol))
		assert.True(t, r.RotateBy(r.Reverse()).ApproxEqual(IdentityRotor, 1e-4))
		assert.True(t, r.Reverse().RotateBy(r).ApproxEqual(IdentityRotor, 1e-4))
	}
}

func TestRotateByOrder(t *testing.T) {
	xy := MustFromAnglePlane(math32.Pi/2, XY)
	yz := MustFromAnglePlane(math32.Pi/2, YZ)

	// yz.RotateBy(xy) applies xy first: x -> y -> z.
	assertVec(t, ez, yz.RotateBy(xy).RotateVec(ex))
	// xy.RotateBy(yz) applies yz first, which leaves x alone: x -> y.
	assertVec(t, ey, xy.RotateBy(yz).RotateVec(ex))
}

func TestRotateByMatchesSequentialRotation(t *testing.T) {
	rng := rand.New(rand.NewSource(4))
	for i := 0; i < 200; i++ {
		a, b := randomRotor(rng), randomRotor(rng)
		v := randomVec(rng)
		assertVec(t, a.RotateVec(b.RotateVec(v)), a.RotateBy(b).RotateVec(v))
	}
}

func TestDisjointPlanesProducePseudoscalar(t *testing.T) {
	r := MustFromAnglePlane(0.7, ZY).RotateBy(MustFromAnglePlane(0.4, XW))
	assert.NotZero(t, r.XYZW)
	assert.InDelta(t, 1, r.LengthSquared(), tol)

	v := math32.Vec4(0.3, -0.2, 0.9, 0.1)
	assert.InDelta(t, v.Length(), r.RotateVec(v).Length(), tol)
}

func TestRotateByStaysUnitUnderAccumulation(t *testing.T) {
	step := MustFromAnglePlane(0.013, XY).RotateBy(MustFromAnglePlane(0.007, ZW))
	r := IdentityRotor
	for i := 0; i < 100000; i++ {
		r = r.RotateBy(step)
	}
	assert.InDelta(t, 1, r.LengthSquared(), tol)
}

func TestFromRotationBetween(t *testing.T) {
	rng := rand.New(rand.NewSource(5))
	for i := 0; i < 300; i++ {
		a := randomVec(rng).Normal()
		b := randomVec(rng).Normal()
		if a.Dot(b) < -0.999 {
			continue
		}
		r, err := FromRotationBetween(a, b)
		require.NoError(t, err)
		assert.InDelta(t, 1, r.LengthSquared(), tol)
		assertVec(t, b, r.RotateVec(a))
	}
}

func TestFromRotationBetweenNormalizesInputs(t *testing.T) {
	r, err := FromRotationBetween(ex.MulScalar(3), ey.MulScalar(0.5))
	require.NoError(t, err)
	assertVec(t, ey, r.RotateVec(ex))
}

func TestFromRotationBetweenSameDirection(t *testing.T) {
	r, err := FromRotationBetween(ez, ez)
	require.NoError(t, err)
	assert.True(t, r.ApproxEqual(IdentityRotor, tol))
}

func TestFromRotationBetweenDegenerate(t *testing.T) {
	_, err := FromRotationBetween(ex, ex.Negate())
	assert.ErrorIs(t, err, ErrAntiparallel)

	_, err = FromRotationBetween(math32.Vector4{}, ex)
	assert.ErrorIs(t, err, ErrDegenerate)
}

func TestFromRotationBetweenOr(t *testing.T) {
	r, err := FromRotationBetweenOr(ex, ex.Negate(), XW)
	require.NoError(t, err)
	assertVec(t, ex.Negate(), r.RotateVec(ex))
	assertVec(t, ey, r.RotateVec(ey))

	// the fallback is ignored when a unique plane exists
	r, err = FromRotationBetweenOr(ex, ey, ZW)
	require.NoError(t, err)
	assertVec(t, ey, r.RotateVec(ex))

	_, err = FromRotationBetweenOr(ex, ex.Negate(), ZeroBivector)
	assert.ErrorIs(t, err, ErrDegenerate)
}
