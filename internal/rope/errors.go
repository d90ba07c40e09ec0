package rope

import "errors"

// ErrOutOfBounds is returned by write-path operations given an offset, row,
// or column beyond current content. Read paths clamp instead (spec §4.3).
var ErrOutOfBounds = errors.New("rope: out of bounds")
