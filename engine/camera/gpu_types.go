package camera

import (
	_ "embed"
	"unsafe"

	"github.com/Carmen-Shannon/hyperray/common"
)

// GPUCameraSource is the canonical WGSL definition of the Camera struct.
// Matches GPUCamera layout exactly (96 bytes, uniform aligned).
//
//go:embed assets/camera.wgsl
var GPUCameraSource string

// GPUCameraSize is the byte size of the Camera uniform.
const GPUCameraSize = 96

// GPUCamera is the GPU-aligned uniform read by the ray tracing kernel.
// Matches the WGSL Camera struct layout exactly (see GPUCameraSource).
// Size: 96 bytes (the 84 bytes of fields rounded up to the 16-byte struct alignment).
type GPUCamera struct {
	Position    [4]float32 // offset 0: world-space position (16 bytes)
	Forward     [4]float32 // offset 16: unit view direction (16 bytes)
	Right       [4]float32 // offset 32: unit right direction (16 bytes)
	Up          [4]float32 // offset 48: unit up direction (16 bytes)
	Fov         float32    // offset 64: field of view in radians (4 bytes)
	MinDistance float32    // offset 68: nearest accepted hit distance (4 bytes)
	MaxDistance float32    // offset 72: farthest accepted hit distance (4 bytes)
	BounceCount uint32     // offset 76: maximum bounces per path (4 bytes)
	SampleCount uint32     // offset 80: paths traced per pixel (4 bytes)
	_           [3]uint32  // offset 84: padding to 96 bytes
}

// Size returns the size of the GPUCamera struct in bytes.
//
// Returns:
//   - int: the size of the struct in bytes.
func (g *GPUCamera) Size() int {
	return int(unsafe.Sizeof(*g))
}

// Marshal serializes the GPUCamera struct into a byte buffer suitable for GPU upload.
//
// Returns:
//   - []byte: 96-byte buffer ready for GPU upload.
func (g *GPUCamera) Marshal() []byte {
	buf := make([]byte, GPUCameraSize)
	g.MarshalTo(buf)
	return buf
}

// MarshalTo serializes the GPUCamera into dst, which must be at least 96 bytes.
// The padding bytes are left untouched.
func (g *GPUCamera) MarshalTo(dst []byte) {
	common.PutVec4(dst, 0, g.Position[0], g.Position[1], g.Position[2], g.Position[3])
	common.PutVec4(dst, 16, g.Forward[0], g.Forward[1], g.Forward[2], g.Forward[3])
	common.PutVec4(dst, 32, g.Right[0], g.Right[1], g.Right[2], g.Right[3])
	common.PutVec4(dst, 48, g.Up[0], g.Up[1], g.Up[2], g.Up[3])
	common.PutF32(dst, 64, g.Fov)
	common.PutF32(dst, 68, g.MinDistance)
	common.PutF32(dst, 72, g.MaxDistance)
	common.PutU32(dst, 76, g.BounceCount)
	common.PutU32(dst, 80, g.SampleCount)
}
