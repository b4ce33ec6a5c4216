package camera

// CameraControllerOption is a functional option for configuring a CameraController.
type CameraControllerOption func(*cameraControllerImpl)

// WithSpeed sets the translation speed in units per second.
//
// Parameters:
//   - speed: the translation speed
//
// Returns:
//   - CameraControllerOption: functional option to set the speed
func WithSpeed(speed float32) CameraControllerOption {
	return func(cc *cameraControllerImpl) {
		cc.speed = speed
	}
}

// WithRotationSpeed sets the turn rate in radians per second.
//
// Parameters:
//   - speed: the turn rate
//
// Returns:
//   - CameraControllerOption: functional option to set the turn rate
func WithRotationSpeed(speed float32) CameraControllerOption {
	return func(cc *cameraControllerImpl) {
		cc.rotationSpeed = speed
	}
}
