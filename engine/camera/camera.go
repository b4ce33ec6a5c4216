package camera

import (
	"sync"

	"cogentcore.org/core/math32"
	"github.com/Carmen-Shannon/hyperray/common"
	"github.com/Carmen-Shannon/hyperray/engine/geometry"
)

// Unit basis directions the orientation rotor is applied to.
var (
	baseForward = math32.Vec4(0, 0, 1, 0)
	baseRight   = math32.Vec4(1, 0, 0, 0)
	baseUp      = math32.Vec4(0, 1, 0, 0)
)

type cameraImpl struct {
	mu *sync.Mutex

	position math32.Vector4

	yaw    float32
	pitch  float32
	wYaw   float32
	wPitch float32

	fov         float32
	minDistance float32
	maxDistance float32
	bounceCount uint32
	sampleCount uint32
}

// Camera defines the interface for the 4D viewing camera.
//
// The camera stores a position and four independent angles. The orientation is never stored;
// Orientation and Basis rebuild it from the angles on every call so that no rotation error
// accumulates from frame to frame.
//
// Angle setters wrap into [0, 2π). Distance and count setters clamp so that
// 0 <= MinDistance <= MaxDistance, BounceCount >= 1 and SampleCount >= 1 always hold.
type Camera interface {
	// Position returns the camera's position in 4D space.
	//
	// Returns:
	//   - math32.Vector4: the camera position
	Position() math32.Vector4

	// SetPosition sets the camera's position in 4D space.
	//
	// Parameters:
	//   - p: the new position
	SetPosition(p math32.Vector4)

	// Translate moves the camera by delta.
	//
	// Parameters:
	//   - delta: the offset to add to the position
	Translate(delta math32.Vector4)

	// Angles returns the four orientation angles in radians.
	//
	// Returns:
	//   - yaw: rotation in the ZX plane
	//   - pitch: rotation in the ZY plane
	//   - wYaw: rotation in the XW plane
	//   - wPitch: rotation in the ZW plane
	Angles() (yaw, pitch, wYaw, wPitch float32)

	// SetAngles sets all four orientation angles, wrapping each into [0, 2π).
	//
	// Parameters:
	//   - yaw, pitch, wYaw, wPitch: the new angles in radians
	SetAngles(yaw, pitch, wYaw, wPitch float32)

	// Rotate adds the given deltas to the orientation angles, wrapping each into [0, 2π).
	//
	// Parameters:
	//   - dYaw, dPitch, dWYaw, dWPitch: the angle deltas in radians
	Rotate(dYaw, dPitch, dWYaw, dWPitch float32)

	// Fov returns the field of view in radians.
	//
	// Returns:
	//   - float32: field of view in radians
	Fov() float32

	// SetFov sets the field of view in radians, wrapping it into [0, 2π).
	//
	// Parameters:
	//   - fov: field of view in radians
	SetFov(fov float32)

	// Distances returns the accepted ray hit interval.
	//
	// Returns:
	//   - min: nearest accepted hit distance
	//   - max: farthest accepted hit distance
	Distances() (min, max float32)

	// SetMinDistance sets the nearest accepted hit distance. Negative values clamp to 0 and the
	// maximum distance is raised if it would fall below the new minimum.
	//
	// Parameters:
	//   - d: the new minimum distance
	SetMinDistance(d float32)

	// SetMaxDistance sets the farthest accepted hit distance, clamped to at least the minimum.
	//
	// Parameters:
	//   - d: the new maximum distance
	SetMaxDistance(d float32)

	// BounceCount returns the maximum number of bounces per path.
	//
	// Returns:
	//   - uint32: the bounce count, at least 1
	BounceCount() uint32

	// SetBounceCount sets the maximum number of bounces per path, clamped to at least 1.
	//
	// Parameters:
	//   - n: the bounce count
	SetBounceCount(n uint32)

	// SampleCount returns the number of paths traced per pixel.
	//
	// Returns:
	//   - uint32: the sample count, at least 1
	SampleCount() uint32

	// SetSampleCount sets the number of paths traced per pixel, clamped to at least 1.
	//
	// Parameters:
	//   - n: the sample count
	SetSampleCount(n uint32)

	// Orientation composes the camera rotor from the four angles: yaw in ZX, then pitch in ZY,
	// then w-yaw in XW, then w-pitch in ZW, each composed onto the previous from the right.
	//
	// Returns:
	//   - geometry.Rotor: the unit orientation rotor
	Orientation() geometry.Rotor

	// Basis applies the orientation to +z, +x and +y.
	//
	// Returns:
	//   - forward: the view direction
	//   - right: the right direction
	//   - up: the up direction
	Basis() (forward, right, up math32.Vector4)

	// GPUCamera builds the uniform consumed by the ray tracing kernel from the current state.
	//
	// Returns:
	//   - GPUCamera: the kernel uniform
	GPUCamera() GPUCamera
}

var _ Camera = &cameraImpl{}

// NewCamera creates a new Camera at (0, 1, -3, 0) looking down +z with a 90 degree field of
// view, a [0.01, 1000] hit interval, 5 bounces and 1 sample per pixel.
//
// Parameters:
//   - options: functional options to configure the camera
//
// Returns:
//   - Camera: the newly created camera
func NewCamera(options ...CameraBuilderOption) Camera {
	c := &cameraImpl{
		mu:          &sync.Mutex{},
		position:    math32.Vec4(0, 1, -3, 0),
		fov:         common.DegToRad(90),
		minDistance: 0.01,
		maxDistance: 1000,
		bounceCount: 5,
		sampleCount: 1,
	}
	for _, option := range options {
		option(c)
	}
	return c
}

func (c *cameraImpl) Position() math32.Vector4 {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.position
}

func (c *cameraImpl) SetPosition(p math32.Vector4) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.position = p
}

func (c *cameraImpl) Translate(delta math32.Vector4) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.position = c.position.Add(delta)
}

func (c *cameraImpl) Angles() (yaw, pitch, wYaw, wPitch float32) {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.yaw, c.pitch, c.wYaw, c.wPitch
}

func (c *cameraImpl) SetAngles(yaw, pitch, wYaw, wPitch float32) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.setAngles(yaw, pitch, wYaw, wPitch)
}

func (c *cameraImpl) Rotate(dYaw, dPitch, dWYaw, dWPitch float32) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.setAngles(c.yaw+dYaw, c.pitch+dPitch, c.wYaw+dWYaw, c.wPitch+dWPitch)
}

func (c *cameraImpl) Fov() float32 {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.fov
}

func (c *cameraImpl) SetFov(fov float32) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.fov = common.WrapAngle(fov)
}

func (c *cameraImpl) Distances() (min, max float32) {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.minDistance, c.maxDistance
}

func (c *cameraImpl) SetMinDistance(d float32) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.setDistances(d, c.maxDistance)
}

func (c *cameraImpl) SetMaxDistance(d float32) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.setDistances(c.minDistance, d)
}

func (c *cameraImpl) BounceCount() uint32 {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.bounceCount
}

func (c *cameraImpl) SetBounceCount(n uint32) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.bounceCount = max(n, 1)
}

func (c *cameraImpl) SampleCount() uint32 {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.sampleCount
}

func (c *cameraImpl) SetSampleCount(n uint32) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.sampleCount = max(n, 1)
}

func (c *cameraImpl) Orientation() geometry.Rotor {
	c.mu.Lock()
	yaw, pitch, wYaw, wPitch := c.yaw, c.pitch, c.wYaw, c.wPitch
	c.mu.Unlock()
	return Orientation(yaw, pitch, wYaw, wPitch)
}

func (c *cameraImpl) Basis() (forward, right, up math32.Vector4) {
	return BasisOf(c.Orientation())
}

func (c *cameraImpl) GPUCamera() GPUCamera {
	forward, right, up := c.Basis()

	c.mu.Lock()
	defer c.mu.Unlock()
	return GPUCamera{
		Position:    vec4Array(c.position),
		Forward:     vec4Array(forward),
		Right:       vec4Array(right),
		Up:          vec4Array(up),
		Fov:         c.fov,
		MinDistance: c.minDistance,
		MaxDistance: c.maxDistance,
		BounceCount: c.bounceCount,
		SampleCount: c.sampleCount,
	}
}

// Orientation composes the camera rotor for the given angles.
//
// Parameters:
//   - yaw: rotation in ZX, positive turns forward toward +x
//   - pitch: rotation in ZY, positive turns forward toward +y
//   - wYaw: rotation in XW, positive turns right toward +w
//   - wPitch: rotation in ZW, positive turns forward toward +w
//
// Returns:
//   - geometry.Rotor: the unit orientation rotor
func Orientation(yaw, pitch, wYaw, wPitch float32) geometry.Rotor {
	return geometry.MustFromAnglePlane(yaw, geometry.ZX).
		RotateBy(geometry.MustFromAnglePlane(pitch, geometry.ZY)).
		RotateBy(geometry.MustFromAnglePlane(wYaw, geometry.XW)).
		RotateBy(geometry.MustFromAnglePlane(wPitch, geometry.ZW))
}

// BasisOf applies an orientation rotor to +z, +x and +y.
func BasisOf(r geometry.Rotor) (forward, right, up math32.Vector4) {
	return r.RotateVec(baseForward), r.RotateVec(baseRight), r.RotateVec(baseUp)
}

// setAngles wraps and stores all four angles. Caller must hold the mutex.
func (c *cameraImpl) setAngles(yaw, pitch, wYaw, wPitch float32) {
	c.yaw = common.WrapAngle(yaw)
	c.pitch = common.WrapAngle(pitch)
	c.wYaw = common.WrapAngle(wYaw)
	c.wPitch = common.WrapAngle(wPitch)
}

// setDistances applies the min then max clamps. Caller must hold the mutex.
func (c *cameraImpl) setDistances(minD, maxD float32) {
	c.minDistance = max(minD, 0)
	c.maxDistance = max(maxD, c.minDistance)
}

func vec4Array(v math32.Vector4) [4]float32 {
	return [4]float32{v.X, v.Y, v.Z, v.W}
}
