package window

// WindowBuilderOption is a functional option for configuring a Window before it is spawned.
type WindowBuilderOption func(*engineWindow)

// WithTitle sets the title bar text.
func WithTitle(title string) WindowBuilderOption {
	return func(w *engineWindow) {
		if title != "" {
			w.title = title
		}
	}
}

// WithSize sets the initial client area size in pixels. The size is clamped into the window's
// size limits when the window is spawned, so apply WithMinSize and WithMaxSize first or not at all.
//
// Parameters:
//   - width: the client area width in pixels
//   - height: the client area height in pixels
//
// Returns:
//   - WindowBuilderOption: option function to apply
func WithSize(width, height int) WindowBuilderOption {
	return func(w *engineWindow) {
		w.width = min(max(width, w.minWidth), w.maxWidth)
		w.height = min(max(height, w.minHeight), w.maxHeight)
	}
}

// WithMinSize sets the smallest client area the user can resize the window to.
func WithMinSize(width, height int) WindowBuilderOption {
	return func(w *engineWindow) {
		w.minWidth, w.minHeight = width, height
	}
}

// WithMaxSize sets the largest client area the user can resize the window to. The traced output
// texture is recreated at the window size, so this also bounds its memory.
func WithMaxSize(width, height int) WindowBuilderOption {
	return func(w *engineWindow) {
		w.maxWidth, w.maxHeight = width, height
	}
}
