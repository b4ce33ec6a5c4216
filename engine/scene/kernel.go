package scene

import (
	_ "embed"
	"fmt"

	"github.com/Carmen-Shannon/hyperray/engine/camera"
	"github.com/Carmen-Shannon/hyperray/engine/renderer/material"
	"github.com/Carmen-Shannon/hyperray/engine/renderer/mirror"
	"github.com/Carmen-Shannon/hyperray/engine/renderer/pipeline"
	"github.com/Carmen-Shannon/hyperray/engine/renderer/shader"
	"github.com/Carmen-Shannon/hyperray/engine/shape"
	"github.com/cogentcore/webgpu/wgpu"
)

//go:embed assets/ray_trace.wgsl
var rayTraceSource string

//go:embed assets/present.wgsl
var presentSource string

// Pipeline keys registered by Attach.
const (
	KernelPipelineKey  = "hyper_ray_trace"
	PresentPipelineKey = "hyper_present"
)

// The output texture is declared directly in both shaders, at the same slot.
const (
	outputGroup   = 0
	outputBinding = 0
)

// RecordLayout names a kernel struct and the layout the Go serializer writes for it.
type RecordLayout struct {
	Arg        shader.AnnotationArg
	Struct     string
	HeaderSize uint64
	Stride     uint64
}

// RecordLayouts lists every buffer the scene mirrors, in binding order. A uniform has a zero
// HeaderSize and its Stride is the struct size.
var RecordLayouts = []RecordLayout{
	{Arg: shader.AnnotationArgCamera, Struct: "Camera", Stride: camera.GPUCameraSize},
	{Arg: shader.AnnotationArgHyperSpheres, Struct: "HyperSpheres", HeaderSize: mirror.ArrayHeaderSize, Stride: shape.GPUHyperSphereStride},
	{Arg: shader.AnnotationArgHyperPlanes, Struct: "HyperPlanes", HeaderSize: mirror.ArrayHeaderSize, Stride: shape.GPUHyperPlaneStride},
	{Arg: shader.AnnotationArgMaterials, Struct: "Materials", HeaderSize: mirror.ArrayHeaderSize, Stride: material.GPUMaterialStride},
}

// KernelShader parses the ray tracing compute shader.
func KernelShader() shader.Shader {
	return shader.NewShader(KernelPipelineKey, shader.ShaderTypeCompute, rayTraceSource)
}

// NewKernelPipeline builds the compute pipeline that traces into the output texture.
//
// Returns:
//   - pipeline.Pipeline: an unregistered compute pipeline
func NewKernelPipeline() pipeline.Pipeline {
	return pipeline.NewPipeline(KernelPipelineKey, pipeline.PipelineTypeCompute,
		pipeline.WithComputeShader(KernelShader()),
	)
}

// NewPresentPipeline builds the render pipeline that copies the output texture to the surface
// with a single fullscreen triangle.
//
// Returns:
//   - pipeline.Pipeline: an unregistered render pipeline
func NewPresentPipeline() pipeline.Pipeline {
	return pipeline.NewPipeline(PresentPipelineKey, pipeline.PipelineTypeRender,
		pipeline.WithRenderShaders(
			shader.NewShader(PresentPipelineKey+"_vs", shader.ShaderTypeVertex, presentSource),
			shader.NewShader(PresentPipelineKey+"_fs", shader.ShaderTypeFragment, presentSource),
		),
		pipeline.WithPrimitive(wgpu.PrimitiveTopologyTriangleList, wgpu.FrontFaceCCW, wgpu.CullModeNone),
	)
}

// CheckLayouts compares every Go record layout with the struct the kernel reflects for it.
//
// Parameters:
//   - kernel: the parsed compute shader
//
// Returns:
//   - error: ErrLayoutMismatch wrapped with the first disagreement, or nil
func CheckLayouts(kernel shader.Shader) error {
	for _, rl := range RecordLayouts {
		got, ok := kernel.StructLayout(rl.Struct)
		if !ok {
			return fmt.Errorf("%w: struct %s is not declared", ErrLayoutMismatch, rl.Struct)
		}
		if rl.HeaderSize == 0 {
			if got.Size != rl.Stride {
				return fmt.Errorf("%w: %s is %d bytes, serializer writes %d", ErrLayoutMismatch, rl.Struct, got.Size, rl.Stride)
			}
			continue
		}
		if got.ArrayOffset != rl.HeaderSize || got.ArrayStride != rl.Stride {
			return fmt.Errorf("%w: %s array at %d stride %d, serializer writes %d stride %d",
				ErrLayoutMismatch, rl.Struct, got.ArrayOffset, got.ArrayStride, rl.HeaderSize, rl.Stride)
		}
	}
	return nil
}
