package engine

import (
	"fmt"
	"log"
	"sync"
	"time"

	"github.com/Carmen-Shannon/hyperray/common"
	"github.com/Carmen-Shannon/hyperray/engine/camera"
	"github.com/Carmen-Shannon/hyperray/engine/config"
	"github.com/Carmen-Shannon/hyperray/engine/profiler"
	"github.com/Carmen-Shannon/hyperray/engine/scene"
	"github.com/Carmen-Shannon/hyperray/engine/window"
)

// FrameRenderer is the part of the renderer that brackets a frame.
type FrameRenderer interface {
	BeginComputeFrame() error
	EndComputeFrame()
	BeginFrame() error
	EndFrame()
	Present()
	Resize(width, height int) error
}

// FrameScene is the part of the scene the frame loop drives.
type FrameScene interface {
	Camera() camera.Camera
	Controller() camera.CameraController
	Replace(snap scene.Snapshot)
	InvalidateOutput()
	PrepareCompute(deltaTime float32) error
	DrawCalls() error
}

type size struct {
	width, height int
}

// engine implements the Engine interface.
// Coordinates the frame goroutine and the window thread.
type engine struct {
	wg sync.WaitGroup

	quitChannel chan struct{}
	quitOnce    sync.Once // Ensures quitChannel is only closed once

	// resizeChannel carries the latest framebuffer size from the window thread.
	resizeChannel chan size
	// reloadChannel carries configurations reloaded from disk, nil when not watching.
	reloadChannel <-chan config.Config

	window   window.Window
	renderer FrameRenderer
	scene    FrameScene

	profiler         *profiler.Profiler
	profilingEnabled bool

	frameCallback func(deltaTime float32)

	renderFrameLimit time.Duration // minimum frame duration; 0 = uncapped
}

// Engine is the main entry point for the viewer.
//
// One frame goroutine owns the camera, the scene collections and the GPU mirrors and runs each
// frame as a single sequential pass: apply pending config reloads and resizes, move the camera,
// upload and dispatch, then present. The window thread only records input and resize events.
type Engine interface {
	// Window returns the underlying window.
	//
	// Returns:
	//   - window.Window: the window instance
	Window() window.Window

	// Profiler returns the engine's profiler.
	Profiler() *profiler.Profiler

	// EnableProfiler enables performance profiling output to the log.
	EnableProfiler()

	// DisableProfiler disables performance profiling output.
	DisableProfiler()

	// SetFrameCallback registers a function called at the end of each frame.
	//
	// Parameters:
	//   - callback: function receiving the frame delta time in seconds
	SetFrameCallback(callback func(deltaTime float32))

	// SetRenderFrameLimit sets an optional frame rate cap in frames per second.
	// Pass 0 to uncap the frame loop (default).
	//
	// Parameters:
	//   - fps: maximum frames per second (0 = uncapped)
	SetRenderFrameLimit(fps float64)

	// Frame runs one full frame. Run calls it in a loop on the frame goroutine.
	//
	// Parameters:
	//   - deltaTime: elapsed time since the previous frame in seconds
	//
	// Returns:
	//   - error: a resize, upload or dispatch failure; a surface that cannot be acquired only
	//     skips presentation
	Frame(deltaTime float32) error

	// Run starts the frame goroutine and pumps window messages on the calling goroutine.
	// Blocks until the window closes or Quit is called, and returns once the frame goroutine
	// has stopped.
	Run()

	// Quit signals the frame goroutine to stop and the window loop to exit.
	// Safe to call multiple times; subsequent calls are no-ops.
	Quit()
}

// NewEngine creates a new Engine with the provided options and hooks the window's input and
// resize callbacks up to the scene.
//
// Parameters:
//   - options: functional options for engine configuration
//
// Returns:
//   - Engine: the newly created engine
func NewEngine(options ...EngineBuilderOption) Engine {
	e := &engine{
		quitChannel:   make(chan struct{}),
		resizeChannel: make(chan size, 1),
		profiler:      profiler.NewProfiler(),
	}

	for _, opt := range options {
		opt(e)
	}

	if e.window != nil {
		e.window.SetResizeCallback(e.handleResize)
		e.window.SetKeyDownCallback(e.handleKeyDown)
		e.window.SetKeyUpCallback(e.handleKeyUp)
		e.window.SetFocusCallback(e.handleFocus)
	}

	return e
}

func (e *engine) Window() window.Window {
	return e.window
}

func (e *engine) Profiler() *profiler.Profiler {
	return e.profiler
}

func (e *engine) Run() {
	e.wg.Add(1)
	go e.handleFrames()

	e.window.SetUpdateCallback(func() {
		select {
		case <-e.quitChannel:
			e.window.RequestClose()
		default:
		}
	})
	e.window.ProcessMessages()

	e.signalQuit()
	e.wg.Wait()
}

func (e *engine) Quit() {
	e.signalQuit()
}

// signalQuit closes the quit channel to signal all goroutines to exit.
// Uses sync.Once to ensure the channel is only closed once.
func (e *engine) signalQuit() {
	e.quitOnce.Do(func() {
		close(e.quitChannel)
	})
}

func (e *engine) Frame(deltaTime float32) error {
	e.applyReloads()
	if err := e.applyResize(); err != nil {
		return err
	}

	// Phase 1 - Compute: camera motion, uploads, bind group rebuilds and the trace dispatch
	if err := e.renderer.BeginComputeFrame(); err != nil {
		return fmt.Errorf("begin compute frame: %w", err)
	}
	err := e.scene.PrepareCompute(deltaTime)
	e.renderer.EndComputeFrame()
	if err != nil {
		return err
	}

	// Phase 2 - Present: draw the traced image to the surface
	if err := e.renderer.BeginFrame(); err != nil {
		log.Printf("[Engine] skipping present: %v", err)
	} else {
		err = e.scene.DrawCalls()
		e.renderer.EndFrame()
		if err != nil {
			return err
		}
		e.renderer.Present()
	}

	if e.frameCallback != nil {
		e.frameCallback(deltaTime)
	}
	if e.profilingEnabled && e.profiler != nil {
		e.profiler.Tick()
	}
	return nil
}

// handleFrames runs the frame loop in its own goroutine until quit.
// Recovers from panics to avoid crashing the process and signals quit on recovery.
func (e *engine) handleFrames() {
	defer e.wg.Done()
	defer func() {
		if r := recover(); r != nil {
			log.Printf("[Engine] frame goroutine recovered from panic: %v", r)
			e.signalQuit()
		}
	}()

	lastFrame := time.Now()
	for {
		select {
		case <-e.quitChannel:
			return
		default:
		}

		now := time.Now()
		dt := float32(now.Sub(lastFrame).Seconds())
		lastFrame = now

		if err := e.Frame(dt); err != nil {
			log.Printf("[Engine] frame failed: %v", err)
			e.signalQuit()
			return
		}

		if e.renderFrameLimit > 0 {
			if remaining := e.renderFrameLimit - time.Since(lastFrame); remaining > 0 {
				time.Sleep(remaining)
			}
		}
	}
}

// applyReloads replaces the scene contents and camera settings with the newest reloaded config.
func (e *engine) applyReloads() {
	if e.reloadChannel == nil {
		return
	}
	select {
	case c, ok := <-e.reloadChannel:
		if !ok {
			e.reloadChannel = nil
			return
		}
		e.scene.Replace(c.Snapshot())
		c.ApplyCamera(e.scene.Camera(), e.scene.Controller())
	default:
	}
}

// applyResize reconfigures the surface for the latest window size and marks the output
// bindings stale, since the renderer recreates the output texture.
func (e *engine) applyResize() error {
	select {
	case s := <-e.resizeChannel:
		if err := e.renderer.Resize(s.width, s.height); err != nil {
			return fmt.Errorf("resize to %dx%d: %w", s.width, s.height, err)
		}
		e.scene.InvalidateOutput()
	default:
	}
	return nil
}

// handleResize runs on the window thread. Minimised windows report zero sizes, which are dropped.
func (e *engine) handleResize(width, height int) {
	if width <= 0 || height <= 0 {
		return
	}
	common.Offer(e.resizeChannel, size{width, height})
}

func (e *engine) handleKeyDown(key uint32) {
	e.scene.Controller().KeyDown(key)
}

func (e *engine) handleKeyUp(key uint32) {
	e.scene.Controller().KeyUp(key)
}

// handleFocus drops held keys on focus loss; their releases would go to another window.
func (e *engine) handleFocus(focused bool) {
	if !focused {
		e.scene.Controller().ReleaseAll()
	}
}

func (e *engine) EnableProfiler() {
	e.profilingEnabled = true
}

func (e *engine) DisableProfiler() {
	e.profilingEnabled = false
}

func (e *engine) SetFrameCallback(callback func(deltaTime float32)) {
	e.frameCallback = callback
}

func (e *engine) SetRenderFrameLimit(fps float64) {
	e.renderFrameLimit = frameDuration(fps)
}

// frameDuration is the minimum frame time for a cap of fps frames per second, 0 when uncapped.
// Fractional rates below one frame per second are allowed.
func frameDuration(fps float64) time.Duration {
	if fps <= 0 {
		return 0
	}
	return time.Duration(float64(time.Second) / fps)
}
