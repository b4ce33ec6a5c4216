package pipeline

import (
	"testing"

	"github.com/Carmen-Shannon/hyperray/engine/renderer/shader"
	"github.com/cogentcore/webgpu/wgpu"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const presentSource = `
@group(0) @binding(0) var frame: texture_2d<f32>;
@group(0) @binding(1) var<uniform> exposure: f32;

@vertex
fn vs(@builtin(vertex_index) i: u32) -> @builtin(position) vec4<f32> {
    return vec4<f32>(f32(i), exposure, 0.0, 1.0);
}

@fragment
fn fs(@builtin(position) p: vec4<f32>) -> @location(0) vec4<f32> {
    return textureLoad(frame, vec2<i32>(p.xy), 0) * exposure;
}
`

const kernelSource = `
@group(0) @binding(0) var output: texture_storage_2d<rgba8unorm, write>;

@compute @workgroup_size(16, 16)
fn trace(@builtin(global_invocation_id) id: vec3<u32>) {
    textureStore(output, id.xy, vec4<f32>(1.0));
}
`

func TestValidate(t *testing.T) {
	vs := shader.NewShader("vs", shader.ShaderTypeVertex, presentSource)
	fs := shader.NewShader("fs", shader.ShaderTypeFragment, presentSource)
	cs := shader.NewShader("cs", shader.ShaderTypeCompute, kernelSource)

	assert.ErrorIs(t, NewPipeline("c", PipelineTypeCompute).Validate(), ErrMissingComputeShader)
	assert.ErrorIs(t, NewPipeline("r", PipelineTypeRender, WithRenderShaders(vs, nil)).Validate(), ErrMissingRenderShaders)
	assert.NoError(t, NewPipeline("c", PipelineTypeCompute, WithComputeShader(cs)).Validate())
	assert.NoError(t, NewPipeline("r", PipelineTypeRender, WithRenderShaders(vs, fs)).Validate())
}

func TestDefaultsAndOptions(t *testing.T) {
	p := NewPipeline("present", PipelineTypeRender)
	assert.Equal(t, "present", p.PipelineKey())
	assert.Equal(t, PipelineTypeRender, p.Type())
	assert.Equal(t, wgpu.PrimitiveTopologyTriangleList, p.Topology())
	assert.Equal(t, wgpu.CullModeNone, p.CullMode())
	assert.Equal(t, wgpu.ColorWriteMaskAll, p.WriteMask())

	p = NewPipeline("present", PipelineTypeRender,
		WithPrimitive(wgpu.PrimitiveTopologyTriangleStrip, wgpu.FrontFaceCW, wgpu.CullModeBack),
		WithWriteMask(wgpu.ColorWriteMaskRed),
	)
	assert.Equal(t, wgpu.PrimitiveTopologyTriangleStrip, p.Topology())
	assert.Equal(t, wgpu.FrontFaceCW, p.FrontFace())
	assert.Equal(t, wgpu.CullModeBack, p.CullMode())
	assert.Equal(t, wgpu.ColorWriteMaskRed, p.WriteMask())
	assert.Nil(t, p.Shader(shader.ShaderTypeCompute))
}

func TestRenderLayoutsMergeVisibility(t *testing.T) {
	vs := shader.NewShader("vs", shader.ShaderTypeVertex, presentSource)
	fs := shader.NewShader("fs", shader.ShaderTypeFragment, presentSource)
	p := NewPipeline("present", PipelineTypeRender, WithRenderShaders(vs, fs))

	layouts := p.BindGroupLayoutDescriptors()
	require.Len(t, layouts, 1)
	entries := layouts[0].Entries
	require.Len(t, entries, 2)
	for _, e := range entries {
		assert.Equal(t, wgpu.ShaderStageVertex|wgpu.ShaderStageFragment, e.Visibility)
	}
	assert.Equal(t, uint32(0), entries[0].Binding)
	assert.Equal(t, uint32(1), entries[1].Binding)
}

func TestMergeKeepsStageOnlyGroups(t *testing.T) {
	v := map[int]wgpu.BindGroupLayoutDescriptor{
		0: {Entries: []wgpu.BindGroupLayoutEntry{{Binding: 0, Visibility: wgpu.ShaderStageVertex}}},
	}
	f := map[int]wgpu.BindGroupLayoutDescriptor{
		1: {Entries: []wgpu.BindGroupLayoutEntry{{Binding: 2, Visibility: wgpu.ShaderStageFragment}}},
	}
	merged := mergeBindGroupLayouts(v, f)
	require.Len(t, merged, 2)
	assert.Equal(t, wgpu.ShaderStageVertex, merged[0].Entries[0].Visibility)
	assert.Equal(t, wgpu.ShaderStageFragment, merged[1].Entries[0].Visibility)
}

func TestComputeLayouts(t *testing.T) {
	cs := shader.NewShader("cs", shader.ShaderTypeCompute, kernelSource)
	p := NewPipeline("kernel", PipelineTypeCompute, WithComputeShader(cs))

	layouts := p.BindGroupLayoutDescriptors()
	require.Len(t, layouts, 1)
	assert.Equal(t, wgpu.TextureFormatRGBA8Unorm, layouts[0].Entries[0].StorageTexture.Format)
	assert.Nil(t, p.Pipeline().(*wgpu.ComputePipeline))
	assert.Nil(t, NewPipeline("empty", PipelineTypeCompute).BindGroupLayoutDescriptors())
}
