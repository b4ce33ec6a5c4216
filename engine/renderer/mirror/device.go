package mirror

import "github.com/cogentcore/webgpu/wgpu"

// Buffer is a remote allocation. *wgpu.Buffer satisfies it.
type Buffer interface {
	GetSize() uint64
	Release()
}

// Device allocates and writes remote buffers on behalf of a Mirror.
// The renderer implements it on top of the WebGPU device and queue.
type Device interface {
	// CreateBuffer allocates a new buffer of exactly size bytes.
	//
	// Parameters:
	//   - label: the debug label for the allocation
	//   - size: the buffer size in bytes
	//   - usage: the buffer usage flags
	//
	// Returns:
	//   - Buffer: the new buffer
	//   - error: an error if the device refused the allocation
	CreateBuffer(label string, size uint64, usage wgpu.BufferUsage) (Buffer, error)

	// WriteBuffer queues a write of data into buf at offset.
	//
	// Parameters:
	//   - buf: a buffer previously returned by CreateBuffer
	//   - offset: the byte offset to write at
	//   - data: the bytes to write
	//
	// Returns:
	//   - error: an error if buf was not created by this device
	WriteBuffer(buf Buffer, offset uint64, data []byte) error
}
