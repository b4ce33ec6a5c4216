package camera

// CameraController maps held keys to camera motion.
//
// Key state is recorded from window callbacks, which may run on a different goroutine than the
// frame. Update reads that state once per frame and moves the camera; it is the only method
// that touches the camera.
type CameraController interface {
	// KeyDown records a key as held.
	//
	// Parameters:
	//   - key: the virtual key code (see common.Key*)
	KeyDown(key uint32)

	// KeyUp records a key as released.
	//
	// Parameters:
	//   - key: the virtual key code (see common.Key*)
	KeyUp(key uint32)

	// Held reports whether a key is currently held.
	//
	// Parameters:
	//   - key: the virtual key code
	//
	// Returns:
	//   - bool: true if the key is held
	Held(key uint32) bool

	// ReleaseAll forgets every held key, e.g. when the window loses focus.
	ReleaseAll()

	// Update applies the held keys to cam for a frame of length dt seconds.
	//
	// W/S move along forward, D/A along right and E/Q along up at Speed units per second.
	// The arrow keys turn at RotationSpeed radians per second: Up/Down change pitch and
	// Right/Left change yaw, or w-pitch and w-yaw while either shift key is held.
	// The basis used for movement is taken from the angles at the start of the call.
	//
	// Parameters:
	//   - cam: the camera to move
	//   - dt: the frame time in seconds
	Update(cam Camera, dt float32)

	// Speed returns the translation speed in units per second.
	//
	// Returns:
	//   - float32: the translation speed
	Speed() float32

	// SetSpeed sets the translation speed in units per second.
	//
	// Parameters:
	//   - speed: the translation speed
	SetSpeed(speed float32)

	// RotationSpeed returns the turn rate in radians per second.
	//
	// Returns:
	//   - float32: the turn rate
	RotationSpeed() float32

	// SetRotationSpeed sets the turn rate in radians per second.
	//
	// Parameters:
	//   - speed: the turn rate
	SetRotationSpeed(speed float32)
}
