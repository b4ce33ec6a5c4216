package bind_group_provider

import (
	"fmt"

	"github.com/Carmen-Shannon/hyperray/engine/renderer/mirror"
	"github.com/cogentcore/webgpu/wgpu"
)

// bindGroupProvider is the unexported implementation of BindGroupProvider.
type bindGroupProvider struct {
	// label is a debug label added for convenience.
	label string
	// group is the bind group index this provider is set at.
	group int

	// bindGroup and bindGroupLayout are owned by the provider and released with it.
	bindGroup       *wgpu.BindGroup
	bindGroupLayout *wgpu.BindGroupLayout

	// buffers and textureViews are borrowed: mirrors own the buffers and the renderer owns the
	// output texture, so Release leaves them alone.
	buffers      map[int]mirror.Buffer
	textureViews map[int]*wgpu.TextureView

	// generation counts the bind groups built for this provider.
	generation int
}

// BindGroupProvider describes one bind group of a pipeline: the resources at each binding and
// the GPU bind group built from them. The scene points a provider at mirror buffers and texture
// views, and asks the renderer to rebuild the bind group whenever one of them is replaced.
type BindGroupProvider interface {
	// Release releases the bind group and layout held by this provider. Borrowed buffers and
	// texture views are not released.
	Release()

	// Label returns the debug label for this provider.
	//
	// Returns:
	//   - string: the debug label
	Label() string

	// Group returns the bind group index this provider is set at.
	//
	// Returns:
	//   - int: the group index
	Group() int

	// BindGroup returns the created bind group for shader binding.
	// Returns nil if GPU resources have not been initialized.
	//
	// Returns:
	//   - *wgpu.BindGroup: the bind group or nil
	BindGroup() *wgpu.BindGroup

	// BindGroupLayout returns the created bind group layout for this provider.
	// Returns nil if GPU resources have not been initialized.
	//
	// Returns:
	//   - *wgpu.BindGroupLayout: the bind group layout or nil
	BindGroupLayout() *wgpu.BindGroupLayout

	// Buffer returns the buffer bound at a binding, or nil if not set.
	//
	// Parameters:
	//   - binding: the binding index
	//
	// Returns:
	//   - mirror.Buffer: the buffer or nil
	Buffer(binding int) mirror.Buffer

	// TextureView returns the texture view bound at a binding, or nil if not set.
	//
	// Parameters:
	//   - binding: the binding index
	//
	// Returns:
	//   - *wgpu.TextureView: the texture view or nil
	TextureView(binding int) *wgpu.TextureView

	// Generation returns how many bind groups have been built for this provider.
	//
	// Returns:
	//   - int: the number of SetBindGroup calls
	Generation() int

	// Check verifies that every entry of a layout descriptor has a resource of the matching
	// kind set on this provider.
	//
	// Parameters:
	//   - descriptor: the layout the bind group will be built against
	//
	// Returns:
	//   - error: an error naming the first binding without a resource
	Check(descriptor wgpu.BindGroupLayoutDescriptor) error

	// SetBindGroup replaces the bind group, releasing the previous one.
	// Called by Renderer.InitBindGroup().
	//
	// Parameters:
	//   - bg: the created bind group
	SetBindGroup(bg *wgpu.BindGroup)

	// SetBindGroupLayout sets the bind group layout after GPU initialization.
	// Called by Renderer.InitBindGroup().
	//
	// Parameters:
	//   - bgl: the created bind group layout
	SetBindGroupLayout(bgl *wgpu.BindGroupLayout)

	// SetBuffer points a binding at a buffer. The bind group is not rebuilt until the next
	// Renderer.InitBindGroup() call.
	//
	// Parameters:
	//   - binding: the binding index
	//   - buf: the buffer to bind
	SetBuffer(binding int, buf mirror.Buffer)

	// SetTextureView points a binding at a texture view. The bind group is not rebuilt until
	// the next Renderer.InitBindGroup() call.
	//
	// Parameters:
	//   - binding: the binding index
	//   - tv: the texture view to bind
	SetTextureView(binding int, tv *wgpu.TextureView)
}

// Compile-time check that bindGroupProvider implements BindGroupProvider
var _ BindGroupProvider = &bindGroupProvider{}

// NewBindGroupProvider creates a new BindGroupProvider with the provided options.
//
// Parameters:
//   - label: the debug label, used in GPU object labels
//   - group: the bind group index the provider is set at
//   - options: a variadic list of options to configure the provider
//
// Returns:
//   - BindGroupProvider: a new instance of BindGroupProvider configured with the provided options
func NewBindGroupProvider(label string, group int, options ...BindGroupProviderOption) BindGroupProvider {
	p := &bindGroupProvider{
		label:        label,
		group:        group,
		buffers:      make(map[int]mirror.Buffer),
		textureViews: make(map[int]*wgpu.TextureView),
	}
	for _, opt := range options {
		opt(p)
	}
	return p
}

func (p *bindGroupProvider) Label() string {
	return p.label
}

func (p *bindGroupProvider) Group() int {
	return p.group
}

func (p *bindGroupProvider) BindGroup() *wgpu.BindGroup {
	return p.bindGroup
}

func (p *bindGroupProvider) BindGroupLayout() *wgpu.BindGroupLayout {
	return p.bindGroupLayout
}

func (p *bindGroupProvider) Buffer(binding int) mirror.Buffer {
	return p.buffers[binding]
}

func (p *bindGroupProvider) TextureView(binding int) *wgpu.TextureView {
	return p.textureViews[binding]
}

func (p *bindGroupProvider) Generation() int {
	return p.generation
}

func (p *bindGroupProvider) Check(descriptor wgpu.BindGroupLayoutDescriptor) error {
	for _, entry := range descriptor.Entries {
		binding := int(entry.Binding)
		switch {
		case entry.Buffer.Type != wgpu.BufferBindingTypeUndefined:
			if p.buffers[binding] == nil {
				return fmt.Errorf("%s: buffer binding %d has no buffer", p.label, binding)
			}
		case entry.Texture.SampleType != wgpu.TextureSampleTypeUndefined,
			entry.StorageTexture.Access != wgpu.StorageTextureAccessUndefined:
			if _, ok := p.textureViews[binding]; !ok {
				return fmt.Errorf("%s: texture binding %d has no texture view", p.label, binding)
			}
		default:
			return fmt.Errorf("%s: binding %d has an unsupported resource type", p.label, binding)
		}
	}
	return nil
}

func (p *bindGroupProvider) SetBindGroup(bg *wgpu.BindGroup) {
	if p.bindGroup != nil {
		p.bindGroup.Release()
	}
	p.bindGroup = bg
	p.generation++
}

func (p *bindGroupProvider) SetBindGroupLayout(bgl *wgpu.BindGroupLayout) {
	p.bindGroupLayout = bgl
}

func (p *bindGroupProvider) SetBuffer(binding int, buf mirror.Buffer) {
	p.buffers[binding] = buf
}

func (p *bindGroupProvider) SetTextureView(binding int, tv *wgpu.TextureView) {
	p.textureViews[binding] = tv
}

func (p *bindGroupProvider) Release() {
	if p.bindGroup != nil {
		p.bindGroup.Release()
		p.bindGroup = nil
	}
	if p.bindGroupLayout != nil {
		p.bindGroupLayout.Release()
		p.bindGroupLayout = nil
	}
	clear(p.buffers)
	clear(p.textureViews)
}
