package shape

import (
	_ "embed"
	"unsafe"

	"github.com/Carmen-Shannon/hyperray/common"
)

// GPUHyperSphereSource is the canonical WGSL definition of the HyperSphere struct and the
// HyperSpheres storage array. Matches GPUHyperSphere layout exactly (32 bytes per element).
//
//go:embed assets/hyper_sphere.wgsl
var GPUHyperSphereSource string

// GPUHyperPlaneSource is the canonical WGSL definition of the HyperPlane struct and the
// HyperPlanes storage array. Matches GPUHyperPlane layout exactly (48 bytes per element).
//
//go:embed assets/hyper_plane.wgsl
var GPUHyperPlaneSource string

// Array strides of the kernel records.
const (
	GPUHyperSphereStride = 32
	GPUHyperPlaneStride  = 48
)

// GPUHyperSphere is one element of the HyperSpheres storage array.
// Size: 32 bytes (24 bytes of fields rounded up to the 16-byte alignment of vec4).
type GPUHyperSphere struct {
	Center   [4]float32 // offset 0: center (16 bytes)
	Radius   float32    // offset 16: radius (4 bytes)
	Material uint32     // offset 20: material index (4 bytes)
	_        [2]uint32  // offset 24: padding to 32 bytes
}

// Size returns the size of the GPUHyperSphere struct in bytes.
//
// Returns:
//   - int: the size of the struct in bytes.
func (g *GPUHyperSphere) Size() int {
	return int(unsafe.Sizeof(*g))
}

// MarshalTo serializes the sphere into dst, which must be at least 32 bytes.
func (g *GPUHyperSphere) MarshalTo(dst []byte) {
	common.PutVec4(dst, 0, g.Center[0], g.Center[1], g.Center[2], g.Center[3])
	common.PutF32(dst, 16, g.Radius)
	common.PutU32(dst, 20, g.Material)
}

// GPUHyperPlane is one element of the HyperPlanes storage array.
// Size: 48 bytes (36 bytes of fields rounded up to the 16-byte alignment of vec4).
type GPUHyperPlane struct {
	Point    [4]float32 // offset 0: a point on the plane (16 bytes)
	Normal   [4]float32 // offset 16: unit normal (16 bytes)
	Material uint32     // offset 32: material index (4 bytes)
	_        [3]uint32  // offset 36: padding to 48 bytes
}

// Size returns the size of the GPUHyperPlane struct in bytes.
//
// Returns:
//   - int: the size of the struct in bytes.
func (g *GPUHyperPlane) Size() int {
	return int(unsafe.Sizeof(*g))
}

// MarshalTo serializes the plane into dst, which must be at least 48 bytes.
func (g *GPUHyperPlane) MarshalTo(dst []byte) {
	common.PutVec4(dst, 0, g.Point[0], g.Point[1], g.Point[2], g.Point[3])
	common.PutVec4(dst, 16, g.Normal[0], g.Normal[1], g.Normal[2], g.Normal[3])
	common.PutU32(dst, 32, g.Material)
}

// GPU converts the sphere into its kernel record.
func (s HyperSphere) GPU() GPUHyperSphere {
	return GPUHyperSphere{
		Center:   [4]float32{s.Center.X, s.Center.Y, s.Center.Z, s.Center.W},
		Radius:   s.Radius,
		Material: s.Material,
	}
}

// GPU converts the plane into its kernel record.
func (p HyperPlane) GPU() GPUHyperPlane {
	return GPUHyperPlane{
		Point:    [4]float32{p.Point.X, p.Point.Y, p.Point.Z, p.Point.W},
		Normal:   [4]float32{p.Normal.X, p.Normal.Y, p.Normal.Z, p.Normal.W},
		Material: p.Material,
	}
}

// PutHyperSphere writes one sphere record into dst. It is the record serializer of the
// spheres storage buffer.
func PutHyperSphere(dst []byte, s HyperSphere) {
	g := s.GPU()
	g.MarshalTo(dst)
}

// PutHyperPlane writes one plane record into dst. It is the record serializer of the
// planes storage buffer.
func PutHyperPlane(dst []byte, p HyperPlane) {
	g := p.GPU()
	g.MarshalTo(dst)
}
