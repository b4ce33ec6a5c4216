package scene

import (
	"github.com/Carmen-Shannon/hyperray/engine/camera"
)

// SceneBuilderOption is a functional option for configuring a Scene.
// Use the With* functions to create options.
type SceneBuilderOption func(s *scene)

// WithCamera sets the scene's camera.
//
// Parameters:
//   - cam: the camera
//
// Returns:
//   - SceneBuilderOption: option function to apply
func WithCamera(cam camera.Camera) SceneBuilderOption {
	return func(s *scene) {
		s.camera = cam
	}
}

// WithController sets the controller that moves the camera from held keys.
//
// Parameters:
//   - cc: the camera controller
//
// Returns:
//   - SceneBuilderOption: option function to apply
func WithController(cc camera.CameraController) SceneBuilderOption {
	return func(s *scene) {
		s.controller = cc
	}
}

// WithSnapshot replaces the default contents. Records are clamped as by Replace.
//
// Parameters:
//   - snap: the initial contents
//
// Returns:
//   - SceneBuilderOption: option function to apply
func WithSnapshot(snap Snapshot) SceneBuilderOption {
	return func(s *scene) {
		s.replace(snap)
	}
}

// WithGrowHook registers a callback that runs whenever one of the scene's GPU buffers is
// reallocated. It runs on the frame goroutine and must not call back into the scene.
func WithGrowHook(fn func(label string, capacity uint64)) SceneBuilderOption {
	return func(s *scene) {
		s.onGrow = fn
	}
}
