package renderer

import (
	"fmt"
	"sync"

	"github.com/Carmen-Shannon/hyperray/engine/renderer/bind_group_provider"
	"github.com/Carmen-Shannon/hyperray/engine/renderer/mirror"
	"github.com/Carmen-Shannon/hyperray/engine/renderer/pipeline"
	"github.com/Carmen-Shannon/hyperray/engine/window"
	"github.com/cogentcore/webgpu/wgpu"
)

// renderer is the implementation of the Renderer interface.
type renderer struct {
	mu *sync.Mutex

	pipelineCache map[string]pipeline.Pipeline

	backendType RendererBackendType
	backend     RendererBackend

	// Pre-creation config collected from builder options
	forceFallbackAdapter bool
	pendingPresentMode   *PresentMode
	pendingPipelines     []pipeline.Pipeline
}

// Renderer defines the interface for the rendering system.
//
// A frame is a compute pass that traces into the output texture, followed by a render pass
// that draws the output texture to the surface. The Renderer caches the pipelines for both,
// owns the output texture, and allocates the buffers that scene mirrors write into.
type Renderer interface {
	mirror.Device

	// Pipeline retrieves the cached Pipeline associated with the given key.
	// If the Pipeline does not exist, this will return nil.
	//
	// Parameters:
	//   - key: the unique identifier for the Pipeline to retrieve
	//
	// Returns:
	//   - pipeline.Pipeline: the Pipeline associated with the key, or nil if not found
	Pipeline(key string) pipeline.Pipeline

	// RegisterPipelines registers one or more pipelines by creating the corresponding GPU
	// pipeline objects (render or compute) via the backend, then caching them by PipelineKey.
	// Pipelines whose keys are already registered are skipped.
	//
	// Parameters:
	//   - pipelines: the Pipelines to register
	//
	// Returns:
	//   - error: an error if a pipeline is incomplete or its creation fails
	RegisterPipelines(pipelines ...pipeline.Pipeline) error

	// Resize reconfigures the surface and recreates the output texture. A zero dimension (a
	// minimized window) is ignored.
	//
	// Parameters:
	//   - width: the new width of the surface in pixels
	//   - height: the new height of the surface in pixels
	//
	// Returns:
	//   - error: an error if the output texture could not be created
	Resize(width, height int) error

	// Size returns the current output size in pixels.
	//
	// Returns:
	//   - int: the width
	//   - int: the height
	Size() (int, int)

	// OutputView returns the view of the output texture. The view changes on every Resize,
	// so bind groups referencing it must be rebuilt afterwards.
	//
	// Returns:
	//   - *wgpu.TextureView: the output texture view
	OutputView() *wgpu.TextureView

	// InitBindGroup builds a bind group from the resources set on a provider and stores it on
	// the provider, replacing the previous one. The layout is created on first use.
	//
	// Parameters:
	//   - provider: the BindGroupProvider holding the bound resources
	//   - descriptor: the layout descriptor the bind group is built against
	//
	// Returns:
	//   - error: an error if a resource is missing or bind group creation fails
	InitBindGroup(provider bind_group_provider.BindGroupProvider, descriptor wgpu.BindGroupLayoutDescriptor) error

	// BeginComputeFrame creates a single command encoder for batching all compute dispatches
	// within a frame into one GPU submission. Must be paired with EndComputeFrame.
	//
	// Returns:
	//   - error: an error if the command encoder could not be created
	BeginComputeFrame() error

	// DispatchCompute looks up the cached compute Pipeline by key and encodes a compute pass
	// within the current compute frame. Each provider is set at its own group index.
	//
	// Parameters:
	//   - pipelineKey: the unique identifier for the cached compute Pipeline to use
	//   - groups: the bind groups to set on the pass
	//   - workGroupCount: the number of workgroups to dispatch in the x, y, and z dimensions
	//
	// Returns:
	//   - error: an error if the pipeline is not found or no compute frame is open
	DispatchCompute(pipelineKey string, groups []bind_group_provider.BindGroupProvider, workGroupCount [3]uint32) error

	// EndComputeFrame finishes the batched compute command encoder and submits it.
	EndComputeFrame()

	// BeginFrame acquires the swapchain texture and begins the main render pass.
	// Must be paired with EndFrame.
	//
	// Returns:
	//   - error: an error if the swapchain texture could not be acquired
	BeginFrame() error

	// Draw encodes a non-indexed draw within the current render pass.
	//
	// Parameters:
	//   - pipelineKey: the unique identifier for the cached render Pipeline to use
	//   - vertexCount: the number of vertices to draw
	//   - groups: the bind groups to set on the pass
	//
	// Returns:
	//   - error: an error if the pipeline is not found
	Draw(pipelineKey string, vertexCount uint32, groups []bind_group_provider.BindGroupProvider) error

	// EndFrame ends the current render pass and submits the command buffer to the GPU.
	// Does not present the surface, call Present() after EndFrame to display the frame.
	EndFrame()

	// Present presents the surface to the display and releases the swapchain texture.
	Present()

	// SetPresentMode sets the surface present mode. A call to Resize is required after
	// changing this for the new mode to take effect.
	//
	// Parameters:
	//   - mode: the PresentMode to use (VSync or Uncapped)
	SetPresentMode(mode PresentMode)

	// Release releases the cached pipelines, the output texture and the device.
	Release()
}

var _ Renderer = &renderer{}

// NewRenderer creates a new Renderer for a window, configures the surface to the window size,
// and registers any pipelines passed via WithPipelines.
//
// Parameters:
//   - backendType: the type of rendering backend to use (e.g., WGPU)
//   - win: the window providing the surface descriptor and initial size
//   - options: variadic list of RendererBuilderOption functions to configure the Renderer
//
// Returns:
//   - Renderer: a new instance of Renderer configured with the specified backend and options
//   - error: an error if the device or a pipeline could not be created
func NewRenderer(backendType RendererBackendType, win window.Window, options ...RendererBuilderOption) (Renderer, error) {
	r := &renderer{
		mu:            &sync.Mutex{},
		pipelineCache: make(map[string]pipeline.Pipeline),
		backendType:   backendType,
	}

	// Apply options first so config flags (e.g. forceFallbackAdapter) are
	// available before the backend requests a GPU adapter.
	for _, opt := range options {
		opt(r)
	}

	var err error
	switch backendType {
	case BackendTypeWGPU:
		fallthrough
	default:
		r.backend, err = newWGPURendererBackend(win.SurfaceDescriptor(), r.forceFallbackAdapter)
	}
	if err != nil {
		return nil, err
	}

	if r.pendingPresentMode != nil {
		r.backend.SetPresentMode(*r.pendingPresentMode)
	}
	if err := r.backend.ConfigureSurface(win.Width(), win.Height()); err != nil {
		r.backend.Release()
		return nil, err
	}
	if err := r.RegisterPipelines(r.pendingPipelines...); err != nil {
		r.Release()
		return nil, err
	}
	return r, nil
}

func (r *renderer) CreateBuffer(label string, size uint64, usage wgpu.BufferUsage) (mirror.Buffer, error) {
	return r.backend.CreateBuffer(label, size, usage)
}

func (r *renderer) WriteBuffer(buf mirror.Buffer, offset uint64, data []byte) error {
	return r.backend.WriteBuffer(buf, offset, data)
}

func (r *renderer) Resize(width, height int) error {
	if width <= 0 || height <= 0 {
		return nil
	}
	return r.backend.ConfigureSurface(width, height)
}

func (r *renderer) Size() (int, int) {
	return r.backend.OutputSize()
}

func (r *renderer) OutputView() *wgpu.TextureView {
	return r.backend.OutputView()
}

func (r *renderer) SetPresentMode(mode PresentMode) {
	r.backend.SetPresentMode(mode)
}

func (r *renderer) Pipeline(key string) pipeline.Pipeline {
	r.mu.Lock()
	defer r.mu.Unlock()
	return r.pipelineCache[key]
}

func (r *renderer) RegisterPipelines(pipelines ...pipeline.Pipeline) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	for _, p := range pipelines {
		key := p.PipelineKey()
		if _, exists := r.pipelineCache[key]; exists {
			continue
		}
		if err := p.Validate(); err != nil {
			return fmt.Errorf("pipeline %q: %w", key, err)
		}
		switch p.Type() {
		case pipeline.PipelineTypeCompute:
			if err := r.backend.RegisterComputePipeline(p); err != nil {
				return fmt.Errorf("pipeline %q: %w", key, err)
			}
		case pipeline.PipelineTypeRender:
			if err := r.backend.RegisterRenderPipeline(p); err != nil {
				return fmt.Errorf("pipeline %q: %w", key, err)
			}
		}
		r.pipelineCache[key] = p
	}
	return nil
}

func (r *renderer) InitBindGroup(provider bind_group_provider.BindGroupProvider, descriptor wgpu.BindGroupLayoutDescriptor) error {
	if err := provider.Check(descriptor); err != nil {
		return err
	}
	return r.backend.InitBindGroup(provider, descriptor)
}

func (r *renderer) BeginComputeFrame() error {
	return r.backend.BeginComputeFrame()
}

func (r *renderer) EndComputeFrame() {
	r.backend.EndComputeFrame()
}

func (r *renderer) DispatchCompute(pipelineKey string, groups []bind_group_provider.BindGroupProvider, workGroupCount [3]uint32) error {
	r.mu.Lock()
	p, exists := r.pipelineCache[pipelineKey]
	r.mu.Unlock()

	if !exists || p.Type() != pipeline.PipelineTypeCompute {
		return fmt.Errorf("compute pipeline %q not found in cache", pipelineKey)
	}
	return r.backend.DispatchCompute(p, groups, workGroupCount)
}

func (r *renderer) BeginFrame() error {
	return r.backend.BeginFrame()
}

func (r *renderer) Draw(pipelineKey string, vertexCount uint32, groups []bind_group_provider.BindGroupProvider) error {
	r.mu.Lock()
	p, exists := r.pipelineCache[pipelineKey]
	r.mu.Unlock()

	if !exists || p.Type() != pipeline.PipelineTypeRender {
		return fmt.Errorf("render pipeline %q not found in cache", pipelineKey)
	}

	r.backend.Draw(p, vertexCount, groups)
	return nil
}

func (r *renderer) EndFrame() {
	r.backend.EndFrame()
}

func (r *renderer) Present() {
	r.backend.Present()
}

func (r *renderer) Release() {
	r.mu.Lock()
	for key, p := range r.pipelineCache {
		p.Release()
		delete(r.pipelineCache, key)
	}
	r.mu.Unlock()
	r.backend.Release()
}
