package material

import (
	_ "embed"
	"unsafe"

	"github.com/Carmen-Shannon/hyperray/common"
)

// GPUMaterialSource is the canonical WGSL definition of the Material struct and the Materials
// storage array. Matches GPUMaterial layout exactly (32 bytes per element).
//
//go:embed assets/material.wgsl
var GPUMaterialSource string

// GPUMaterialStride is the array stride of the Material record.
const GPUMaterialStride = 32

// GPUMaterial is one element of the Materials storage array.
// The strength packs into the fourth lane of the emissive vec3, so the record is exactly two
// 16-byte rows.
type GPUMaterial struct {
	BaseColor        [3]float32 // offset 0: linear RGB albedo (12 bytes)
	_                float32    // offset 12: vec3 padding (4 bytes)
	EmissiveColor    [3]float32 // offset 16: linear RGB emission (12 bytes)
	EmissiveStrength float32    // offset 28: emission strength (4 bytes)
}

// Size returns the size of the GPUMaterial struct in bytes.
//
// Returns:
//   - int: the size of the struct in bytes.
func (g *GPUMaterial) Size() int {
	return int(unsafe.Sizeof(*g))
}

// MarshalTo serializes the material into dst, which must be at least 32 bytes.
func (g *GPUMaterial) MarshalTo(dst []byte) {
	common.PutVec3(dst, 0, g.BaseColor[0], g.BaseColor[1], g.BaseColor[2])
	common.PutVec3(dst, 16, g.EmissiveColor[0], g.EmissiveColor[1], g.EmissiveColor[2])
	common.PutF32(dst, 28, g.EmissiveStrength)
}

// GPU converts the material into its kernel record.
func (m Material) GPU() GPUMaterial {
	return GPUMaterial{
		BaseColor:        [3]float32{m.BaseColor.X, m.BaseColor.Y, m.BaseColor.Z},
		EmissiveColor:    [3]float32{m.EmissiveColor.X, m.EmissiveColor.Y, m.EmissiveColor.Z},
		EmissiveStrength: m.EmissiveStrength,
	}
}

// PutMaterial writes one material record into dst. It is the record serializer of the
// materials storage buffer.
func PutMaterial(dst []byte, m Material) {
	g := m.GPU()
	g.MarshalTo(dst)
}
