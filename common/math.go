package common

import (
	"encoding/binary"

	"github.com/chewxy/math32"
)

// Tau is a full turn in radians.
const Tau = 2 * math32.Pi

// WrapAngle folds an angle in radians into the half-open range [0, 2π).
// Negative angles wrap from the top, so -0.1 becomes 2π - 0.1.
//
// Parameters:
//   - a: the angle in radians
//
// Returns:
//   - float32: the equivalent angle in [0, 2π)
func WrapAngle(a float32) float32 {
	w := math32.Mod(math32.Mod(a, Tau)+Tau, Tau)
	// Mod can round a tiny negative input up to exactly Tau.
	if w >= Tau {
		return 0
	}
	return w
}

// DegToRad converts degrees to radians.
func DegToRad(deg float32) float32 {
	return deg * math32.Pi / 180
}

// RadToDeg converts radians to degrees.
func RadToDeg(rad float32) float32 {
	return rad * 180 / math32.Pi
}

// CeilDiv returns the number of size-wide groups needed to cover n items.
//
// Parameters:
//   - n: the number of items
//   - size: the group size, must be non-zero
//
// Returns:
//   - uint32: ceil(n / size)
func CeilDiv(n, size uint32) uint32 {
	return (n + size - 1) / size
}

// PutF32 writes a little-endian float32 at the given byte offset.
func PutF32(dst []byte, offset int, v float32) {
	binary.LittleEndian.PutUint32(dst[offset:], math32.Float32bits(v))
}

// PutU32 writes a little-endian uint32 at the given byte offset.
func PutU32(dst []byte, offset int, v uint32) {
	binary.LittleEndian.PutUint32(dst[offset:], v)
}

// PutVec3 writes three consecutive float32 values starting at offset.
func PutVec3(dst []byte, offset int, x, y, z float32) {
	PutF32(dst, offset, x)
	PutF32(dst, offset+4, y)
	PutF32(dst, offset+8, z)
}

// PutVec4 writes four consecutive float32 values starting at offset.
func PutVec4(dst []byte, offset int, x, y, z, w float32) {
	PutVec3(dst, offset, x, y, z)
	PutF32(dst, offset+12, w)
}

// F32At reads a little-endian float32 at the given byte offset.
func F32At(src []byte, offset int) float32 {
	return math32.Float32frombits(binary.LittleEndian.Uint32(src[offset:]))
}

// U32At reads a little-endian uint32 at the given byte offset.
func U32At(src []byte, offset int) uint32 {
	return binary.LittleEndian.Uint32(src[offset:])
}
