package shader

import "github.com/cogentcore/webgpu/wgpu"

// sampledTextureInfo holds the view dimension and multisampled flag for a sampled texture type
type sampledTextureInfo struct {
	viewDimension wgpu.TextureViewDimension
	multisampled  bool
}

// wgslTypeLayout holds the byte size and alignment for a WGSL type per the WGSL specification.
type wgslTypeLayout struct {
	size  uint64
	align uint64
}

// StructLayout is the memory layout of a WGSL struct as seen by a buffer binding.
//
// For a struct whose last member is a runtime-sized array, ArrayOffset is the byte offset of
// that member, ArrayStride the distance between its elements, and Size the size of the struct
// holding exactly one element (the smallest useful binding). For other structs ArrayStride is 0.
type StructLayout struct {
	Size        uint64
	Align       uint64
	ArrayOffset uint64
	ArrayStride uint64
}

// parsedField represents a single field extracted from a WGSL struct during parsing
type parsedField struct {
	name      string
	typeName  string
	isBuiltin bool
}

// parsedStruct represents a WGSL struct block extracted during parsing
type parsedStruct struct {
	name   string
	fields []parsedField
}
