package scene

import "errors"

var (
	// ErrIndexOutOfRange is returned by editor operations given an index outside the collection.
	ErrIndexOutOfRange = errors.New("index out of range")

	// ErrNotAttached is returned by frame operations called before Attach.
	ErrNotAttached = errors.New("scene is not attached to a renderer")

	// ErrLayoutMismatch is returned by Attach when a Go record layout disagrees with the struct
	// the kernel declares for it.
	ErrLayoutMismatch = errors.New("record layout does not match the kernel")

	// ErrUnboundResource is returned by Attach when the kernel does not bind a scene buffer.
	ErrUnboundResource = errors.New("kernel does not bind resource")
)
