package textbuffer

import "errors"

// Error taxonomy for TextBuffer write paths (spec §7). Read paths clamp
// instead of erroring; these are returned only where the spec calls for a
// write to fail outright rather than silently adjust its bounds.
var (
	// ErrOutOfBounds is returned by insert/deleteRange when an offset lies
	// outside [0, totalWeight()].
	ErrOutOfBounds = errors.New("textbuffer: out of bounds")
	// ErrOutOfMemory is returned when a grapheme-pool allocation fails; the
	// pool's own error is not wrapped.
	ErrOutOfMemory = errors.New("textbuffer: out of memory")
)
