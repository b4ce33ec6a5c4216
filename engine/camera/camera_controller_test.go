package camera

import (
	"testing"

	"cogentcore.org/core/math32"
	"github.com/Carmen-Shannon/hyperray/common"
	"github.com/stretchr/testify/assert"
)

func TestControllerDefaults(t *testing.T) {
	cc := NewCameraController()
	assert.Equal(t, float32(3), cc.Speed())
	assert.InDelta(t, 1.5*math32.Pi/2, cc.RotationSpeed(), tol)
	assert.InDelta(t, 0.75*math32.Pi, DefaultRotationSpeed, tol)

	cc = NewCameraController(WithSpeed(10), WithRotationSpeed(1))
	assert.Equal(t, float32(10), cc.Speed())
	assert.Equal(t, float32(1), cc.RotationSpeed())
}

func TestControllerKeyState(t *testing.T) {
	cc := NewCameraController()
	cc.KeyDown(common.KeyW)
	assert.True(t, cc.Held(common.KeyW))
	cc.KeyUp(common.KeyW)
	assert.False(t, cc.Held(common.KeyW))

	cc.KeyDown(common.KeyA)
	cc.KeyDown(common.KeyUp)
	cc.ReleaseAll()
	assert.False(t, cc.Held(common.KeyA))
	assert.False(t, cc.Held(common.KeyUp))
}

func TestControllerTranslation(t *testing.T) {
	cases := []struct {
		key  uint32
		want math32.Vector4
	}{
		{common.KeyW, math32.Vec4(0, 0, 1, 0)},
		{common.KeyS, math32.Vec4(0, 0, -1, 0)},
		{common.KeyD, math32.Vec4(1, 0, 0, 0)},
		{common.KeyA, math32.Vec4(-1, 0, 0, 0)},
		{common.KeyE, math32.Vec4(0, 1, 0, 0)},
		{common.KeyQ, math32.Vec4(0, -1, 0, 0)},
	}
	for _, tc := range cases {
		cam := NewCamera(WithPosition(math32.Vector4{}))
		cc := NewCameraController(WithSpeed(2))
		cc.KeyDown(tc.key)
		cc.Update(cam, 0.5)
		assertVec(t, tc.want, cam.Position(), "key %d", tc.key)
	}
}

func TestControllerMovesAlongRotatedBasis(t *testing.T) {
	cam := NewCamera(WithPosition(math32.Vector4{}), WithAngles(0, 0, 0, math32.Pi/2))
	cc := NewCameraController(WithSpeed(1))
	cc.KeyDown(common.KeyW)
	cc.Update(cam, 1)
	assertVec(t, math32.Vec4(0, 0, 0, 1), cam.Position())
}

func TestControllerOpposingKeysCancel(t *testing.T) {
	cam := NewCamera(WithPosition(math32.Vector4{}))
	cc := NewCameraController()
	cc.KeyDown(common.KeyW)
	cc.KeyDown(common.KeyS)
	cc.KeyDown(common.KeyLeft)
	cc.KeyDown(common.KeyRight)
	cc.Update(cam, 1)
	assert.Equal(t, math32.Vector4{}, cam.Position())
	yaw, _, _, _ := cam.Angles()
	assert.Zero(t, yaw)
}

func TestControllerRotation(t *testing.T) {
	const dt = 0.1
	turn := DefaultRotationSpeed * dt

	cases := []struct {
		name  string
		keys  []uint32
		angle int // index into yaw, pitch, wYaw, wPitch
		sign  float32
	}{
		{"up raises pitch", []uint32{common.KeyUp}, 1, 1},
		{"down lowers pitch", []uint32{common.KeyDown}, 1, -1},
		{"right raises yaw", []uint32{common.KeyRight}, 0, 1},
		{"left lowers yaw", []uint32{common.KeyLeft}, 0, -1},
		{"shift up raises w-pitch", []uint32{common.KeyLeftShift, common.KeyUp}, 3, 1},
		{"shift down lowers w-pitch", []uint32{common.KeyRightShift, common.KeyDown}, 3, -1},
		{"shift right raises w-yaw", []uint32{common.KeyLeftShift, common.KeyRight}, 2, 1},
		{"shift left lowers w-yaw", []uint32{common.KeyLeftShift, common.KeyLeft}, 2, -1},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			cam := NewCamera()
			cc := NewCameraController()
			for _, k := range tc.keys {
				cc.KeyDown(k)
			}
			cc.Update(cam, dt)

			yaw, pitch, wYaw, wPitch := cam.Angles()
			got := [4]float32{yaw, pitch, wYaw, wPitch}
			for i, a := range got {
				want := float32(0)
				if i == tc.angle {
					want = common.WrapAngle(tc.sign * turn)
				}
				assert.InDelta(t, want, a, 1e-4, "angle %d", i)
			}
		})
	}
}
