package camera

import (
	"math/rand"
	"testing"

	"cogentcore.org/core/math32"
	"github.com/Carmen-Shannon/hyperray/common"
	"github.com/Carmen-Shannon/hyperray/engine/geometry"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const tol = 1e-5

var (
	px = math32.Vec4(1, 0, 0, 0)
	py = math32.Vec4(0, 1, 0, 0)
	pz = math32.Vec4(0, 0, 1, 0)
	pw = math32.Vec4(0, 0, 0, 1)
)

func assertVec(t *testing.T, want, got math32.Vector4, msgAndArgs ...any) {
	t.Helper()
	assert.InDelta(t, want.X, got.X, tol, msgAndArgs...)
	assert.InDelta(t, want.Y, got.Y, tol, msgAndArgs...)
	assert.InDelta(t, want.Z, got.Z, tol, msgAndArgs...)
	assert.InDelta(t, want.W, got.W, tol, msgAndArgs...)
}

func TestDefaults(t *testing.T) {
	c := NewCamera()
	assert.Equal(t, math32.Vec4(0, 1, -3, 0), c.Position())
	assert.InDelta(t, math32.Pi/2, c.Fov(), tol)
	minD, maxD := c.Distances()
	assert.Equal(t, float32(0.01), minD)
	assert.Equal(t, float32(1000), maxD)
	assert.Equal(t, uint32(5), c.BounceCount())
	assert.Equal(t, uint32(1), c.SampleCount())
}

func TestIdentityBasis(t *testing.T) {
	forward, right, up := NewCamera().Basis()
	assertVec(t, pz, forward)
	assertVec(t, px, right)
	assertVec(t, py, up)
}

func TestDirectionConventions(t *testing.T) {
	q := float32(math32.Pi / 2)
	cases := []struct {
		name                   string
		yaw, pitch, wYaw, wPit float32
		forward, right, up     math32.Vector4
	}{
		{"yaw turns forward to +x", q, 0, 0, 0, px, pz.Negate(), py},
		{"pitch turns forward to +y", 0, q, 0, 0, py, px, pz.Negate()},
		{"yaw then pitch", q, q, 0, 0, py, pz.Negate(), px.Negate()},
		{"w-yaw turns right to +w", 0, 0, q, 0, pz, pw, py},
		{"w-pitch turns forward to +w", 0, 0, 0, q, pw, px, py},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			c := NewCamera(WithAngles(tc.yaw, tc.pitch, tc.wYaw, tc.wPit))
			forward, right, up := c.Basis()
			assertVec(t, tc.forward, forward, "forward")
			assertVec(t, tc.right, right, "right")
			assertVec(t, tc.up, up, "up")
		})
	}
}

func TestBasisIsOrthonormal(t *testing.T) {
	rng := rand.New(rand.NewSource(7))
	for i := 0; i < 500; i++ {
		a := func() float32 { return (rng.Float32()*2 - 1) * 20 }
		forward, right, up := BasisOf(Orientation(a(), a(), a(), a()))

		for _, v := range []math32.Vector4{forward, right, up} {
			assert.InDelta(t, 1, v.Length(), 1e-4)
		}
		assert.InDelta(t, 0, forward.Dot(right), 1e-4)
		assert.InDelta(t, 0, forward.Dot(up), 1e-4)
		assert.InDelta(t, 0, right.Dot(up), 1e-4)
	}
}

func TestOrientationMatchesExplicitComposition(t *testing.T) {
	yaw, pitch, wYaw, wPitch := float32(0.3), float32(1.1), float32(2.0), float32(4.5)
	want := geometry.MustFromAnglePlane(yaw, geometry.ZX).
		RotateBy(geometry.MustFromAnglePlane(pitch, geometry.ZY)).
		RotateBy(geometry.MustFromAnglePlane(wYaw, geometry.XW)).
		RotateBy(geometry.MustFromAnglePlane(wPitch, geometry.ZW))

	c := NewCamera(WithAngles(yaw, pitch, wYaw, wPitch))
	assert.True(t, c.Orientation().ApproxEqual(want, tol))
	assert.True(t, c.Orientation().RotateBy(c.Orientation().Reverse()).ApproxEqual(geometry.IdentityRotor, 1e-4))
}

func TestAnglesWrap(t *testing.T) {
	c := NewCamera()
	c.SetAngles(-0.5, common.Tau+0.25, -common.Tau, 1)
	yaw, pitch, wYaw, wPitch := c.Angles()
	assert.InDelta(t, common.Tau-0.5, yaw, 1e-4)
	assert.InDelta(t, 0.25, pitch, 1e-4)
	assert.InDelta(t, 0, wYaw, 1e-4)
	assert.InDelta(t, 1, wPitch, 1e-4)

	c.Rotate(-2, 0, 0, common.Tau)
	yaw, _, _, wPitch = c.Angles()
	assert.InDelta(t, common.Tau-2.5, yaw, 1e-4)
	assert.InDelta(t, 1, wPitch, 1e-4)

	c.SetFov(-0.1)
	assert.InDelta(t, common.Tau-0.1, c.Fov(), 1e-4)
}

func TestClamps(t *testing.T) {
	c := NewCamera()

	c.SetMinDistance(-4)
	minD, maxD := c.Distances()
	assert.Equal(t, float32(0), minD)
	assert.Equal(t, float32(1000), maxD)

	c.SetMinDistance(2000)
	minD, maxD = c.Distances()
	assert.Equal(t, float32(2000), minD)
	assert.Equal(t, float32(2000), maxD)

	c.SetMaxDistance(5)
	_, maxD = c.Distances()
	assert.Equal(t, float32(2000), maxD)

	c.SetBounceCount(0)
	assert.Equal(t, uint32(1), c.BounceCount())
	c.SetSampleCount(0)
	assert.Equal(t, uint32(1), c.SampleCount())
	c.SetSampleCount(16)
	assert.Equal(t, uint32(16), c.SampleCount())

	c = NewCamera(WithDistances(-1, -2), WithBounceCount(0), WithSampleCount(0))
	minD, maxD = c.Distances()
	assert.Equal(t, float32(0), minD)
	assert.Equal(t, float32(0), maxD)
	assert.Equal(t, uint32(1), c.BounceCount())
	assert.Equal(t, uint32(1), c.SampleCount())
}

func TestGPUCameraMarshal(t *testing.T) {
	c := NewCamera(
		WithPosition(math32.Vec4(1, 2, 3, 4)),
		WithAngles(math32.Pi/2, 0, 0, 0),
		WithFov(1.25),
		WithDistances(0.5, 50),
		WithBounceCount(7),
		WithSampleCount(3),
	)
	g := c.GPUCamera()
	require.Equal(t, GPUCameraSize, g.Size())

	buf := g.Marshal()
	require.Len(t, buf, 96)

	assert.Equal(t, float32(1), common.F32At(buf, 0))
	assert.Equal(t, float32(4), common.F32At(buf, 12))
	assert.InDelta(t, 1, common.F32At(buf, 16), tol)  // forward.x
	assert.InDelta(t, -1, common.F32At(buf, 40), tol) // right.z
	assert.InDelta(t, 1, common.F32At(buf, 52), tol)  // up.y
	assert.Equal(t, float32(1.25), common.F32At(buf, 64))
	assert.Equal(t, float32(0.5), common.F32At(buf, 68))
	assert.Equal(t, float32(50), common.F32At(buf, 72))
	assert.Equal(t, uint32(7), common.U32At(buf, 76))
	assert.Equal(t, uint32(3), common.U32At(buf, 80))
	assert.Equal(t, make([]byte, 12), buf[84:])
}
