package engine

import (
	"github.com/Carmen-Shannon/hyperray/engine/config"
	"github.com/Carmen-Shannon/hyperray/engine/profiler"
	"github.com/Carmen-Shannon/hyperray/engine/window"
)

// EngineBuilderOption is a functional option for configuring an Engine.
// Use the With* functions to create options that are applied directly to the engine instance.
type EngineBuilderOption func(*engine)

// WithProfiling enables or disables performance profiling output.
//
// Parameters:
//   - enabled: if true, enables performance profiling
//
// Returns:
//   - EngineBuilderOption: option function to apply
func WithProfiling(enabled bool) EngineBuilderOption {
	return func(e *engine) {
		e.profilingEnabled = enabled
	}
}

// WithProfiler replaces the engine's default profiler, typically one already handed to the
// scene as its grow hook so that buffer reallocations show up in the reports.
func WithProfiler(p *profiler.Profiler) EngineBuilderOption {
	return func(e *engine) {
		e.profiler = p
	}
}

// WithWindow sets the window whose message loop Run pumps and whose input drives the camera.
//
// Parameters:
//   - w: a pre-configured Window instance
//
// Returns:
//   - EngineBuilderOption: option function to apply
func WithWindow(w window.Window) EngineBuilderOption {
	return func(e *engine) {
		e.window = w
	}
}

// WithRenderer sets the renderer that brackets each frame.
func WithRenderer(r FrameRenderer) EngineBuilderOption {
	return func(e *engine) {
		e.renderer = r
	}
}

// WithScene sets the scene traced every frame. The scene must already be attached to the renderer.
func WithScene(s FrameScene) EngineBuilderOption {
	return func(e *engine) {
		e.scene = s
	}
}

// WithReloads feeds configurations reloaded from disk into the frame loop. Each one replaces the
// scene contents and the camera settings at the start of the next frame.
//
// Parameters:
//   - reloads: typically the channel returned by config.Watch
//
// Returns:
//   - EngineBuilderOption: option function to apply
func WithReloads(reloads <-chan config.Config) EngineBuilderOption {
	return func(e *engine) {
		e.reloadChannel = reloads
	}
}

// WithRenderFrameLimit sets an optional render frame rate cap in frames per second.
// Pass 0 to uncap the render loop (default).
//
// Parameters:
//   - fps: maximum render frames per second (0 = uncapped)
//
// Returns:
//   - EngineBuilderOption: option function to apply
func WithRenderFrameLimit(fps float64) EngineBuilderOption {
	return func(e *engine) {
		e.renderFrameLimit = frameDuration(fps)
	}
}
