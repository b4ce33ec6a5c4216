package mirror

import (
	"fmt"

	"github.com/Carmen-Shannon/hyperray/common"
	"github.com/cogentcore/webgpu/wgpu"
)

// ArrayHeaderSize is the size of the count header that precedes a storage array.
// The count is a u32 at offset 0; the array starts at the next 16-byte boundary.
const ArrayHeaderSize = 16

// Layout describes how a sequence of records is laid out in a GPU buffer.
//
// With a non-zero HeaderSize the buffer holds a little-endian u32 record count at offset 0,
// followed by the records starting at HeaderSize. With a zero HeaderSize the buffer holds a
// single record and no count, which is how uniforms are mirrored.
type Layout[T any] struct {
	// Label is the debug label given to every buffer allocated for this layout.
	Label string
	// HeaderSize is the byte offset of the first record.
	HeaderSize uint64
	// Stride is the byte distance between consecutive records.
	Stride uint64
	// Usage is the buffer usage; CopyDst is always added.
	Usage wgpu.BufferUsage
	// Put serializes one record into dst, which is exactly Stride bytes long.
	Put func(dst []byte, rec T)
}

// ArrayLayout returns a storage buffer layout with a u32 count header.
func ArrayLayout[T any](label string, stride uint64, put func(dst []byte, rec T)) Layout[T] {
	return Layout[T]{
		Label:      label,
		HeaderSize: ArrayHeaderSize,
		Stride:     stride,
		Usage:      wgpu.BufferUsageStorage,
		Put:        put,
	}
}

// UniformLayout returns a single-record uniform buffer layout.
func UniformLayout[T any](label string, size uint64, put func(dst []byte, rec T)) Layout[T] {
	return Layout[T]{
		Label:  label,
		Stride: size,
		Usage:  wgpu.BufferUsageUniform,
		Put:    put,
	}
}

// PayloadSize returns the number of bytes needed to hold n records.
// An empty sequence still reserves one record so that the binding is never zero-sized.
//
// Parameters:
//   - n: the number of records
//
// Returns:
//   - uint64: header + max(1, n) * stride
func (l Layout[T]) PayloadSize(n int) uint64 {
	return l.HeaderSize + uint64(max(1, n))*l.Stride
}

// MinSize is the size of the initial allocation, the payload of an empty sequence.
func (l Layout[T]) MinSize() uint64 {
	return l.PayloadSize(0)
}

// Encode serializes the records into a freshly allocated payload of PayloadSize(len(records)) bytes.
func (l Layout[T]) Encode(records []T) []byte {
	buf := make([]byte, l.PayloadSize(len(records)))
	if l.HeaderSize >= 4 {
		common.PutU32(buf, 0, uint32(len(records)))
	}
	for i, rec := range records {
		off := l.HeaderSize + uint64(i)*l.Stride
		l.Put(buf[off:off+l.Stride], rec)
	}
	return buf
}

func (l Layout[T]) validate() error {
	switch {
	case l.Stride == 0:
		return fmt.Errorf("mirror %q: stride must be non-zero", l.Label)
	case l.Put == nil:
		return fmt.Errorf("mirror %q: no record serializer", l.Label)
	case l.HeaderSize != 0 && l.HeaderSize < 4:
		return fmt.Errorf("mirror %q: header of %d bytes cannot hold the record count", l.Label, l.HeaderSize)
	}
	return nil
}
