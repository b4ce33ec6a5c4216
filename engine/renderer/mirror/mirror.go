package mirror

import (
	"fmt"
	"sync"

	"github.com/cogentcore/webgpu/wgpu"
)

// Status reports what a Sync did.
type Status int

const (
	// StatusWritten means the payload fit and was written in place.
	StatusWritten Status = iota
	// StatusGrown means the buffer was replaced by a larger one and dependents are invalidated.
	StatusGrown
)

func (s Status) String() string {
	if s == StatusGrown {
		return "grown"
	}
	return "written"
}

// mirror is the implementation of the Mirror interface.
type mirror[T any] struct {
	mu     *sync.Mutex
	device Device
	layout Layout[T]

	buffer      Buffer
	capacity    uint64
	invalidated bool
	grows       int

	dependents []func()
}

// Mirror keeps a GPU buffer in step with a CPU-side sequence of records.
//
// The buffer starts at the minimal size and is rewritten in full on every Sync. When the
// payload no longer fits, the buffer is replaced by one of exactly the payload size; because
// bindings refer to the old allocation, the mirror then reports itself invalidated until the
// caller has rebuilt every binding that references Buffer and called MarkRebuilt.
//
// Capacity never shrinks.
type Mirror[T any] interface {
	// Sync serializes records and uploads them, growing the buffer if needed.
	//
	// Parameters:
	//   - records: the full current sequence
	//
	// Returns:
	//   - Status: StatusGrown if the buffer was reallocated, StatusWritten otherwise
	//   - error: an error if the device refused the new allocation or the write
	Sync(records []T) (Status, error)

	// Buffer returns the current remote allocation.
	//
	// Returns:
	//   - Buffer: the buffer bindings should reference
	Buffer() Buffer

	// Capacity returns the size of the current allocation in bytes.
	//
	// Returns:
	//   - uint64: the tracked capacity
	Capacity() uint64

	// Invalidated reports whether the buffer was reallocated since the last MarkRebuilt.
	//
	// Returns:
	//   - bool: true if dependent bindings reference a released buffer
	Invalidated() bool

	// MarkRebuilt clears the invalidated flag once dependent bindings have been rebuilt.
	// Calling it on a clean mirror has no effect.
	MarkRebuilt()

	// Grows returns how many reallocations this mirror has performed.
	//
	// Returns:
	//   - int: the reallocation count
	Grows() int

	// Layout returns the record layout.
	//
	// Returns:
	//   - Layout[T]: the layout used to encode payloads
	Layout() Layout[T]

	// Release releases the remote allocation.
	Release()
}

var _ Mirror[int] = &mirror[int]{}

// NewMirror allocates the minimal buffer for layout on device.
//
// Parameters:
//   - device: the device that owns the buffer
//   - layout: the record layout
//   - opts: functional options
//
// Returns:
//   - Mirror[T]: the new mirror, in the clean state
//   - error: an error if the layout is invalid or the initial allocation failed
func NewMirror[T any](device Device, layout Layout[T], opts ...MirrorBuilderOption[T]) (Mirror[T], error) {
	if err := layout.validate(); err != nil {
		return nil, err
	}
	layout.Usage |= wgpu.BufferUsageCopyDst

	m := &mirror[T]{
		mu:     &sync.Mutex{},
		device: device,
		layout: layout,
	}
	for _, opt := range opts {
		opt(m)
	}

	buf, err := device.CreateBuffer(layout.Label, layout.MinSize(), layout.Usage)
	if err != nil {
		return nil, fmt.Errorf("mirror %q: failed to allocate initial buffer: %w", layout.Label, err)
	}
	m.buffer = buf
	m.capacity = layout.MinSize()
	return m, nil
}

func (m *mirror[T]) Sync(records []T) (Status, error) {
	status, err := m.sync(records)
	if status == StatusGrown {
		for _, fn := range m.dependents {
			fn()
		}
	}
	return status, err
}

func (m *mirror[T]) sync(records []T) (Status, error) {
	m.mu.Lock()
	defer m.mu.Unlock()

	payload := m.layout.Encode(records)
	needed := uint64(len(payload))

	if needed <= m.capacity {
		if err := m.device.WriteBuffer(m.buffer, 0, payload); err != nil {
			return StatusWritten, fmt.Errorf("mirror %q: failed to write %d bytes: %w", m.layout.Label, needed, err)
		}
		return StatusWritten, nil
	}

	buf, err := m.device.CreateBuffer(m.layout.Label, needed, m.layout.Usage)
	if err != nil {
		return StatusWritten, fmt.Errorf("mirror %q: failed to grow from %d to %d bytes: %w", m.layout.Label, m.capacity, needed, err)
	}
	if err := m.device.WriteBuffer(buf, 0, payload); err != nil {
		buf.Release()
		return StatusWritten, fmt.Errorf("mirror %q: failed to write %d bytes: %w", m.layout.Label, needed, err)
	}

	m.buffer.Release()
	m.buffer = buf
	m.capacity = needed
	m.invalidated = true
	m.grows++
	return StatusGrown, nil
}

func (m *mirror[T]) Buffer() Buffer {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.buffer
}

func (m *mirror[T]) Capacity() uint64 {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.capacity
}

func (m *mirror[T]) Invalidated() bool {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.invalidated
}

func (m *mirror[T]) MarkRebuilt() {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.invalidated = false
}

func (m *mirror[T]) Grows() int {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.grows
}

func (m *mirror[T]) Layout() Layout[T] {
	return m.layout
}

func (m *mirror[T]) Release() {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.buffer != nil {
		m.buffer.Release()
		m.buffer = nil
	}
}
