package shader

import (
	"strings"
	"testing"

	"github.com/cogentcore/webgpu/wgpu"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const testKernel = `
//@hyper:include camera
//@hyper:include hyper_spheres
//@hyper:include hyper_planes
//@hyper:include materials

@group(0) @binding(0) var output: texture_storage_2d<rgba8unorm, write>;
//@hyper:group 1 0 uniform camera camera
//@hyper:group 2 0 storage_read spheres hyper_spheres
//@hyper:group 2 1 storage_read planes hyper_planes
//@hyper:group 3 0 storage_read materials materials

@compute @workgroup_size(16, 16)
fn trace(@builtin(global_invocation_id) id: vec3<u32>) {
    textureStore(output, id.xy, vec4<f32>(0.0));
}
`

func TestPreProcessorIncludesOnce(t *testing.T) {
	pp := NewPreProcessor()
	out, err := pp.Process("//@hyper:include camera\n//@hyper:include camera\n")
	require.NoError(t, err)
	assert.Equal(t, 1, strings.Count(out, "struct Camera"))
}

func TestPreProcessorGeneratesDeclarations(t *testing.T) {
	pp := NewPreProcessor()
	out, err := pp.Process("//@hyper:group 2 1 storage_read planes hyper_planes")
	require.NoError(t, err)
	assert.Contains(t, out, "@group(2) @binding(1) var<storage, read> planes: HyperPlanes;")

	decls := pp.Declarations()
	require.Len(t, decls, 1)
	assert.Equal(t, 2, decls[0].Group)
	assert.Equal(t, 1, decls[0].Binding)
	assert.Equal(t, AnnotationArgHyperPlanes, decls[0].Args[2])
}

func TestPreProcessorRejectsMalformedAnnotations(t *testing.T) {
	for _, src := range []string{
		"//@hyper:",
		"//@hyper:include",
		"//@hyper:include teapot",
		"//@hyper:group 0 0 uniform camera",
		"//@hyper:group x 0 uniform camera camera",
		"//@hyper:group 0 0 private camera camera",
		"//@hyper:explode",
	} {
		_, err := NewPreProcessor().Process(src)
		assert.Error(t, err, src)
	}
}

func TestPreProcessorIgnoresNonCommentLines(t *testing.T) {
	out, err := NewPreProcessor().Process("let s = \"@hyper:include camera\";")
	require.NoError(t, err)
	assert.NotContains(t, out, "struct Camera")
}

func TestStructLayouts(t *testing.T) {
	s := NewShader("kernel", ShaderTypeCompute, testKernel)

	tests := []struct {
		name   string
		size   uint64
		offset uint64
		stride uint64
	}{
		{"Camera", 96, 0, 0},
		{"HyperSphere", 32, 0, 0},
		{"HyperPlane", 48, 0, 0},
		{"Material", 32, 0, 0},
		{"HyperSpheres", 48, 16, 32},
		{"HyperPlanes", 64, 16, 48},
		{"Materials", 48, 16, 32},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			layout, ok := s.StructLayout(tt.name)
			require.True(t, ok)
			assert.Equal(t, tt.size, layout.Size)
			assert.Equal(t, tt.offset, layout.ArrayOffset)
			assert.Equal(t, tt.stride, layout.ArrayStride)
		})
	}

	_, ok := s.StructLayout("Nope")
	assert.False(t, ok)
}

func TestComputeShaderReflection(t *testing.T) {
	s := NewShader("kernel", ShaderTypeCompute, testKernel)

	assert.Equal(t, "trace", s.EntryPoint())
	assert.Equal(t, [3]uint32{16, 16, 1}, s.WorkgroupSize())
	assert.Len(t, s.BindGroupLayoutDescriptors(), 4)

	out := s.BindGroupLayoutDescriptor(0).Entries
	require.Len(t, out, 1)
	assert.Equal(t, wgpu.TextureFormatRGBA8Unorm, out[0].StorageTexture.Format)
	assert.Equal(t, wgpu.StorageTextureAccessWriteOnly, out[0].StorageTexture.Access)
	assert.Equal(t, wgpu.TextureViewDimension2D, out[0].StorageTexture.ViewDimension)

	cam := s.BindGroupLayoutDescriptor(1).Entries
	require.Len(t, cam, 1)
	assert.Equal(t, wgpu.BufferBindingTypeUniform, cam[0].Buffer.Type)
	assert.Equal(t, uint64(96), cam[0].Buffer.MinBindingSize)

	shapes := s.BindGroupLayoutDescriptor(2).Entries
	require.Len(t, shapes, 2)
	assert.Equal(t, uint32(0), shapes[0].Binding)
	assert.Equal(t, uint32(1), shapes[1].Binding)
	assert.Equal(t, wgpu.BufferBindingTypeReadOnlyStorage, shapes[0].Buffer.Type)
	assert.Equal(t, uint64(48), shapes[0].Buffer.MinBindingSize)
	assert.Equal(t, uint64(64), shapes[1].Buffer.MinBindingSize)
	assert.Equal(t, wgpu.ShaderStageCompute, shapes[1].Visibility)

	assert.Equal(t, "planes", s.BindGroupVarName(2, 1))
	assert.Equal(t, "", s.BindGroupVarName(7, 0))
}

func TestGroupOf(t *testing.T) {
	s := NewShader("kernel", ShaderTypeCompute, testKernel)

	g, b, ok := s.GroupOf(AnnotationArgMaterials)
	require.True(t, ok)
	assert.Equal(t, 3, g)
	assert.Equal(t, 0, b)

	g, b, ok = s.GroupOf(AnnotationArgHyperPlanes)
	require.True(t, ok)
	assert.Equal(t, 2, g)
	assert.Equal(t, 1, b)

	s = NewShader("bare", ShaderTypeCompute, "@compute @workgroup_size(1) fn main() {}")
	_, _, ok = s.GroupOf(AnnotationArgCamera)
	assert.False(t, ok)
}

func TestRenderShaderReflection(t *testing.T) {
	src := `
@group(0) @binding(0) var frame: texture_2d<f32>;

@vertex
fn vs(@builtin(vertex_index) i: u32) -> @builtin(position) vec4<f32> {
    return vec4<f32>(0.0);
}

@fragment
fn fs(@builtin(position) p: vec4<f32>) -> @location(0) vec4<f32> {
    return textureLoad(frame, vec2<i32>(p.xy), 0);
}
`
	vs := NewShader("present_vs", ShaderTypeVertex, src)
	fs := NewShader("present_fs", ShaderTypeFragment, src)

	assert.Equal(t, "vs", vs.EntryPoint())
	assert.Equal(t, "fs", fs.EntryPoint())
	assert.Equal(t, [3]uint32{0, 0, 0}, fs.WorkgroupSize())

	entries := fs.BindGroupLayoutDescriptor(0).Entries
	require.Len(t, entries, 1)
	assert.Equal(t, wgpu.TextureSampleTypeFloat, entries[0].Texture.SampleType)
	assert.Equal(t, wgpu.ShaderStageFragment, entries[0].Visibility)
}

func TestNewShaderPanicsOnBadSource(t *testing.T) {
	assert.Panics(t, func() { NewShader("empty", ShaderTypeCompute, "") })
	assert.Panics(t, func() { NewShader("bad", ShaderTypeCompute, "//@hyper:include teapot") })
}

func TestRuntimeArrayMustBeLast(t *testing.T) {
	layouts := parseStructLayouts(`
struct Bad {
    data: array<f32>,
    count: u32,
}
struct Fixed {
    v: array<vec3<f32>, 3>,
    n: u32,
}
`)
	_, ok := layouts["Bad"]
	assert.False(t, ok)

	fixed, ok := layouts["Fixed"]
	require.True(t, ok)
	assert.Equal(t, uint64(64), fixed.Size)
	assert.Equal(t, uint64(0), fixed.ArrayStride)
}
