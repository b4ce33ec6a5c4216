package pipeline

import (
	"github.com/Carmen-Shannon/hyperray/engine/renderer/shader"
	"github.com/cogentcore/webgpu/wgpu"
)

// PipelineBuilderOption is a functional option used to configure a Pipeline during construction.
type PipelineBuilderOption func(*pipeline)

// WithComputeShader sets the compute shader for this pipeline.
//
// Parameters:
//   - s: the compute shader to dispatch
//
// Returns:
//   - PipelineBuilderOption: a function that sets the compute shader for this pipeline
func WithComputeShader(s shader.Shader) PipelineBuilderOption {
	return func(p *pipeline) {
		p.computeShader = s
	}
}

// WithRenderShaders sets the vertex and fragment shaders for a render pipeline. Both stages may
// come from the same WGSL source parsed twice with different shader types.
//
// Parameters:
//   - vertex: the vertex stage shader
//   - fragment: the fragment stage shader
//
// Returns:
//   - PipelineBuilderOption: a function that sets both render stages for this pipeline
func WithRenderShaders(vertex, fragment shader.Shader) PipelineBuilderOption {
	return func(p *pipeline) {
		p.vertexShader = vertex
		p.fragmentShader = fragment
	}
}

// WithPrimitive sets the primitive assembly state for a render pipeline.
//
// Parameters:
//   - topology: the primitive topology, e.g. wgpu.PrimitiveTopologyTriangleList
//   - frontFace: the front face winding order, e.g. wgpu.FrontFaceCCW
//   - cullMode: the face culling mode, e.g. wgpu.CullModeNone
//
// Returns:
//   - PipelineBuilderOption: a function that sets the primitive state for this pipeline
func WithPrimitive(topology wgpu.PrimitiveTopology, frontFace wgpu.FrontFace, cullMode wgpu.CullMode) PipelineBuilderOption {
	return func(p *pipeline) {
		p.topology = topology
		p.frontFace = frontFace
		p.cullMode = cullMode
	}
}

// WithWriteMask sets the color write mask for this pipeline.
//
// Parameters:
//   - writeMask: the color write mask, e.g. wgpu.ColorWriteMaskAll
//
// Returns:
//   - PipelineBuilderOption: a function that sets the color write mask for this pipeline
func WithWriteMask(writeMask wgpu.ColorWriteMask) PipelineBuilderOption {
	return func(p *pipeline) {
		p.writeMask = writeMask
	}
}
