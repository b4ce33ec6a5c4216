package engine

import (
	"errors"
	"sync/atomic"
	"testing"
	"time"

	"cogentcore.org/core/math32"
	"github.com/Carmen-Shannon/hyperray/common"
	"github.com/Carmen-Shannon/hyperray/engine/camera"
	"github.com/Carmen-Shannon/hyperray/engine/config"
	"github.com/Carmen-Shannon/hyperray/engine/profiler"
	"github.com/Carmen-Shannon/hyperray/engine/scene"
	"github.com/cogentcore/webgpu/wgpu"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type fakeRenderer struct {
	calls     []string
	beginErr  error
	resizeErr error
	sizes     [][2]int
}

func (r *fakeRenderer) BeginComputeFrame() error {
	r.calls = append(r.calls, "begin_compute")
	return nil
}
func (r *fakeRenderer) EndComputeFrame() { r.calls = append(r.calls, "end_compute") }
func (r *fakeRenderer) BeginFrame() error {
	r.calls = append(r.calls, "begin")
	return r.beginErr
}
func (r *fakeRenderer) EndFrame() { r.calls = append(r.calls, "end") }
func (r *fakeRenderer) Present()  { r.calls = append(r.calls, "present") }
func (r *fakeRenderer) Resize(w, h int) error {
	r.sizes = append(r.sizes, [2]int{w, h})
	return r.resizeErr
}

type fakeScene struct {
	cam camera.Camera
	cc  camera.CameraController

	log         *[]string
	computeErr  error
	failAfter   int
	frames      int
	invalidated int
	replaced    []scene.Snapshot
}

func newFakeScene(log *[]string) *fakeScene {
	return &fakeScene{cam: camera.NewCamera(), cc: camera.NewCameraController(), log: log}
}

func (s *fakeScene) Camera() camera.Camera               { return s.cam }
func (s *fakeScene) Controller() camera.CameraController { return s.cc }
func (s *fakeScene) Replace(snap scene.Snapshot)         { s.replaced = append(s.replaced, snap) }
func (s *fakeScene) InvalidateOutput()                   { s.invalidated++ }

func (s *fakeScene) PrepareCompute(dt float32) error {
	*s.log = append(*s.log, "prepare")
	s.frames++
	if s.failAfter > 0 && s.frames >= s.failAfter {
		return errors.New("device lost")
	}
	s.cc.Update(s.cam, dt)
	return s.computeErr
}

func (s *fakeScene) DrawCalls() error {
	*s.log = append(*s.log, "draw")
	return nil
}

// fakeWindow runs its message loop until RequestClose.
type fakeWindow struct {
	running atomic.Bool

	update  func()
	resize  func(int, int)
	keyDown func(uint32)
	keyUp   func(uint32)
	focus   func(bool)
}

func (w *fakeWindow) SetUpdateCallback(cb func())                  { w.update = cb }
func (w *fakeWindow) SetResizeCallback(cb func(width, height int)) { w.resize = cb }
func (w *fakeWindow) SetKeyDownCallback(cb func(keyCode uint32))   { w.keyDown = cb }
func (w *fakeWindow) SetKeyUpCallback(cb func(keyCode uint32))     { w.keyUp = cb }
func (w *fakeWindow) SetFocusCallback(cb func(focused bool))       { w.focus = cb }
func (w *fakeWindow) SurfaceDescriptor() *wgpu.SurfaceDescriptor   { return nil }
func (w *fakeWindow) IsRunning() bool                              { return w.running.Load() }
func (w *fakeWindow) Close() error                                 { return nil }
func (w *fakeWindow) RequestClose()                                { w.running.Store(false) }
func (w *fakeWindow) Width() int                                   { return 640 }
func (w *fakeWindow) Height() int                                  { return 480 }

func (w *fakeWindow) ProcessMessages() {
	w.running.Store(true)
	for w.running.Load() {
		if w.update != nil {
			w.update()
		}
		time.Sleep(time.Millisecond)
	}
}

func newTestEngine(opts ...EngineBuilderOption) (*engine, *fakeRenderer, *fakeScene, *fakeWindow) {
	r := &fakeRenderer{}
	s := newFakeScene(&r.calls)
	w := &fakeWindow{}
	opts = append([]EngineBuilderOption{WithWindow(w), WithRenderer(r), WithScene(s)}, opts...)
	return NewEngine(opts...).(*engine), r, s, w
}

func TestFrameOrder(t *testing.T) {
	e, r, _, _ := newTestEngine()

	require.NoError(t, e.Frame(0.016))
	assert.Equal(t, []string{"begin_compute", "prepare", "end_compute", "begin", "draw", "end", "present"}, r.calls)
}

func TestFrameEndsComputeOnError(t *testing.T) {
	e, r, s, _ := newTestEngine()
	s.computeErr = errors.New("upload failed")

	err := e.Frame(0.016)
	require.ErrorContains(t, err, "upload failed")
	assert.Equal(t, []string{"begin_compute", "prepare", "end_compute"}, r.calls)
}

func TestFrameSkipsPresentWithoutSurface(t *testing.T) {
	e, r, _, _ := newTestEngine()
	r.beginErr = errors.New("surface outdated")

	var callbacks int
	e.SetFrameCallback(func(float32) { callbacks++ })
	require.NoError(t, e.Frame(0.016))
	assert.Equal(t, []string{"begin_compute", "prepare", "end_compute", "begin"}, r.calls)
	assert.Equal(t, 1, callbacks)
}

func TestResizeAppliesLatestSize(t *testing.T) {
	e, r, s, w := newTestEngine()

	w.resize(800, 600)
	w.resize(1024, 768)
	w.resize(0, 0)
	require.NoError(t, e.Frame(0.016))
	assert.Equal(t, [][2]int{{1024, 768}}, r.sizes)
	assert.Equal(t, 1, s.invalidated)

	require.NoError(t, e.Frame(0.016))
	assert.Len(t, r.sizes, 1)
}

func TestResizeFailureStopsFrame(t *testing.T) {
	e, r, s, w := newTestEngine()
	r.resizeErr = errors.New("surface lost")

	w.resize(800, 600)
	require.ErrorContains(t, e.Frame(0.016), "800x600")
	assert.Zero(t, s.invalidated)
	assert.Empty(t, r.calls)
}

func TestKeysDriveCamera(t *testing.T) {
	e, _, s, w := newTestEngine()
	start := s.cam.Position()

	w.keyDown(common.KeyW)
	require.NoError(t, e.Frame(1))
	moved := s.cam.Position()
	assert.NotEqual(t, start, moved)

	w.keyUp(common.KeyW)
	require.NoError(t, e.Frame(1))
	assert.Equal(t, moved, s.cam.Position())
}

func TestFocusLossReleasesKeys(t *testing.T) {
	_, _, s, w := newTestEngine()

	w.keyDown(common.KeyW)
	w.keyDown(common.KeyLeft)
	w.focus(true)
	assert.True(t, s.cc.Held(common.KeyW))

	w.focus(false)
	assert.False(t, s.cc.Held(common.KeyW))
	assert.False(t, s.cc.Held(common.KeyLeft))
}

func TestReloadReplacesSceneAndKeepsPose(t *testing.T) {
	reloads := make(chan config.Config, 1)
	e, _, s, _ := newTestEngine(WithReloads(reloads))
	s.cam.SetPosition(math32.Vec4(1, 2, 3, 4))

	c := config.Default()
	c.Camera.Samples = 6
	c.Spheres = c.Spheres[:0]
	reloads <- c

	require.NoError(t, e.Frame(0.016))
	require.Len(t, s.replaced, 1)
	assert.Empty(t, s.replaced[0].Spheres)
	assert.Equal(t, uint32(6), s.cam.SampleCount())
	assert.Equal(t, math32.Vec4(1, 2, 3, 4), s.cam.Position())

	close(reloads)
	require.NoError(t, e.Frame(0.016))
	assert.Nil(t, e.reloadChannel)
	assert.Len(t, s.replaced, 1)
}

func TestProfilerTicksOnlyWhenEnabled(t *testing.T) {
	var reports int
	clock := time.Unix(0, 0)
	p := profiler.NewProfiler(
		profiler.WithClock(func() time.Time { return clock }),
		profiler.WithLogger(func(string, ...any) { reports++ }),
	)
	e, _, _, _ := newTestEngine(WithProfiler(p))

	clock = clock.Add(time.Second)
	require.NoError(t, e.Frame(1))
	assert.Zero(t, reports)

	e.EnableProfiler()
	require.NoError(t, e.Frame(1))
	assert.Equal(t, 1, reports)

	e.DisableProfiler()
	clock = clock.Add(time.Second)
	require.NoError(t, e.Frame(1))
	assert.Equal(t, 1, reports)
}

func TestRunStopsWhenFrameFails(t *testing.T) {
	e, r, s, w := newTestEngine()
	s.failAfter = 3

	done := make(chan struct{})
	go func() {
		e.Run()
		close(done)
	}()

	select {
	case <-done:
	case <-time.After(5 * time.Second):
		t.Fatal("Run did not return after a failed frame")
	}
	assert.False(t, w.IsRunning())
	assert.Equal(t, 3, s.frames)
	assert.Equal(t, "end_compute", r.calls[len(r.calls)-1])
}

func TestQuitStopsRun(t *testing.T) {
	e, _, _, _ := newTestEngine(WithRenderFrameLimit(200))

	done := make(chan struct{})
	go func() {
		e.Run()
		close(done)
	}()
	time.Sleep(20 * time.Millisecond)
	e.Quit()
	e.Quit()

	select {
	case <-done:
	case <-time.After(5 * time.Second):
		t.Fatal("Run did not return after Quit")
	}
}

func TestSetRenderFrameLimit(t *testing.T) {
	e, _, _, _ := newTestEngine()
	e.SetRenderFrameLimit(50)
	assert.Equal(t, 20*time.Millisecond, e.renderFrameLimit)
	e.SetRenderFrameLimit(0)
	assert.Zero(t, e.renderFrameLimit)

	e.SetRenderFrameLimit(0.5)
	assert.Equal(t, 2*time.Second, e.renderFrameLimit)
	e.SetRenderFrameLimit(-1)
	assert.Zero(t, e.renderFrameLimit)
}

func TestWithRenderFrameLimitFractional(t *testing.T) {
	var e *engine
	require.NotPanics(t, func() {
		e, _, _, _ = newTestEngine(WithRenderFrameLimit(0.5))
	})
	assert.Equal(t, 2*time.Second, e.renderFrameLimit)

	e, _, _, _ = newTestEngine(WithRenderFrameLimit(144))
	assert.Equal(t, time.Duration(float64(time.Second)/144), e.renderFrameLimit)
}
