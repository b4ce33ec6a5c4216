package camera

import "cogentcore.org/core/math32"

type CameraBuilderOption func(*cameraImpl)

// WithPosition sets the camera's starting position.
//
// Parameters:
//   - p: the position in 4D space
//
// Returns:
//   - CameraBuilderOption: a function that sets the camera's position
func WithPosition(p math32.Vector4) CameraBuilderOption {
	return func(c *cameraImpl) {
		c.position = p
	}
}

// WithAngles sets the camera's starting orientation angles in radians.
//
// Parameters:
//   - yaw, pitch, wYaw, wPitch: the orientation angles
//
// Returns:
//   - CameraBuilderOption: a function that sets the camera's angles
func WithAngles(yaw, pitch, wYaw, wPitch float32) CameraBuilderOption {
	return func(c *cameraImpl) {
		c.setAngles(yaw, pitch, wYaw, wPitch)
	}
}

// WithFov sets the camera's field of view in radians.
//
// Parameters:
//   - fov: field of view in radians
//
// Returns:
//   - CameraBuilderOption: a function that sets the camera's field of view
func WithFov(fov float32) CameraBuilderOption {
	return func(c *cameraImpl) {
		c.fov = fov
	}
}

// WithDistances sets the accepted ray hit interval. The usual clamps apply.
//
// Parameters:
//   - minD: nearest accepted hit distance
//   - maxD: farthest accepted hit distance
//
// Returns:
//   - CameraBuilderOption: a function that sets the camera's hit interval
func WithDistances(minD, maxD float32) CameraBuilderOption {
	return func(c *cameraImpl) {
		c.setDistances(minD, maxD)
	}
}

// WithBounceCount sets the maximum bounces per path, clamped to at least 1.
func WithBounceCount(n uint32) CameraBuilderOption {
	return func(c *cameraImpl) {
		c.bounceCount = max(n, 1)
	}
}

// WithSampleCount sets the samples per pixel, clamped to at least 1.
func WithSampleCount(n uint32) CameraBuilderOption {
	return func(c *cameraImpl) {
		c.sampleCount = max(n, 1)
	}
}
