package graphemepool

import "errors"

// Error taxonomy for grapheme-handle misuse (spec §7). These are sentinels
// so callers can errors.Is() against them; no panics cross this package's
// API boundary.
var (
	// ErrOutOfMemory is returned when a new page cannot be allocated.
	ErrOutOfMemory = errors.New("graphemepool: out of memory")
	// ErrInvalidID is returned for a handle whose slot index is out of
	// range, or for a decref on an already-zero refcount.
	ErrInvalidID = errors.New("graphemepool: invalid id")
	// ErrWrongGeneration is returned when a handle's generation doesn't
	// match the slot's current generation (the slot was reused).
	ErrWrongGeneration = errors.New("graphemepool: wrong generation")
	// ErrRefcountSaturated is returned by Incref when the slot's refcount
	// is already at the 8-bit ceiling (255). The count does not change;
	// per spec §9 the caller must advance to a new slot rather than rely
	// on further precision — AllocForceNew exists for exactly this.
	ErrRefcountSaturated = errors.New("graphemepool: refcount saturated")
)
