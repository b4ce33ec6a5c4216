package mirror

// MirrorBuilderOption is a functional option for configuring a Mirror.
type MirrorBuilderOption[T any] func(*mirror[T])

// WithDependent registers a callback that runs every time the mirror grows, after the new
// buffer is in place. Use it to flag the bind groups that must be rebuilt.
//
// Parameters:
//   - fn: the callback
//
// Returns:
//   - MirrorBuilderOption[T]: a function that applies the dependent to the mirror
func WithDependent[T any](fn func()) MirrorBuilderOption[T] {
	return func(m *mirror[T]) {
		m.dependents = append(m.dependents, fn)
	}
}
