package textwidth

import "github.com/xonecas/symb/internal/graphemepool"

// EncodedChar is a compact cell payload (spec §3.2): either a plain code
// point, or a tagged reference into a graphemepool.Pool for any unit that
// spans more than one terminal cell (a wide code point or a multi-code-point
// cluster). A grapheme-pool handle is itself a 32-bit value, so unlike a
// bit-packed terminal cell in a systems language we widen the payload to 64
// bits rather than truncate the handle — the tag/extent bits below are still
// exactly the ones spec.md names, just given room to hold a full ID.
type EncodedChar uint64

const (
	tagPlain          = 0
	tagGraphemeStart  = 1
	tagContinuation   = 2
	tagShift          = 62
	tagMask           = 0x3
	runeMask          = (1 << 21) - 1
	idShift           = 0
	idMask            = (1 << 32) - 1
	leftExtentShift   = 32
	rightExtentShift  = 40
	extentMask        = 0xFF
)

func tag(c EncodedChar) uint64 { return uint64(c) >> tagShift & tagMask }

// PackRune encodes a plain, single-cell code point.
func PackRune(r rune) EncodedChar {
	return EncodedChar(uint64(tagPlain)<<tagShift | uint64(r)&runeMask)
}

// PackGraphemeStart encodes the first cell of a multi-cell unit. width is
// the unit's total display width (including this cell); rightExtent is the
// number of additional cells the cluster spans to the right.
func PackGraphemeStart(gid graphemepool.ID, width int) EncodedChar {
	rightExtent := width - 1
	if rightExtent < 0 {
		rightExtent = 0
	}
	return EncodedChar(
		uint64(tagGraphemeStart)<<tagShift |
			uint64(rightExtent&extentMask)<<rightExtentShift |
			uint64(gid)&idMask,
	)
}

// PackContinuation encodes a non-first cell of a multi-cell unit. left is
// the number of cells back to the start; right is the number of further
// continuation cells remaining after this one.
func PackContinuation(left, right int, gid graphemepool.ID) EncodedChar {
	return EncodedChar(
		uint64(tagContinuation)<<tagShift |
			uint64(left&extentMask)<<leftExtentShift |
			uint64(right&extentMask)<<rightExtentShift |
			uint64(gid)&idMask,
	)
}

// IsGraphemeChar reports whether c is a grapheme-start cell.
func IsGraphemeChar(c EncodedChar) bool { return tag(c) == tagGraphemeStart }

// IsContinuationChar reports whether c is a continuation cell.
func IsContinuationChar(c EncodedChar) bool { return tag(c) == tagContinuation }

// IsPlainRune reports whether c encodes a plain, single-cell code point.
func IsPlainRune(c EncodedChar) bool { return tag(c) == tagPlain }

// Rune returns the decoded rune of a plain cell. Behavior is undefined
// (returns 0) for non-plain cells.
func Rune(c EncodedChar) rune {
	if !IsPlainRune(c) {
		return 0
	}
	return rune(uint64(c) & runeMask)
}

// GraphemeID returns the pool handle carried by a grapheme-start or
// continuation cell. Returns 0 for plain cells.
func GraphemeID(c EncodedChar) graphemepool.ID {
	if IsPlainRune(c) {
		return 0
	}
	return graphemepool.ID(uint64(c) & idMask)
}

// RightExtent returns the number of cells remaining to the right of a
// grapheme-start cell, or the number of continuation cells still to come
// after a continuation cell.
func RightExtent(c EncodedChar) int {
	return int(uint64(c) >> rightExtentShift & extentMask)
}

// LeftExtent returns the number of cells back to the start of the cluster,
// for a continuation cell. Returns 0 for non-continuation cells.
func LeftExtent(c EncodedChar) int {
	if !IsContinuationChar(c) {
		return 0
	}
	return int(uint64(c) >> leftExtentShift & extentMask)
}

// EncodedCharWidth returns the number of terminal cells this single encoded
// cell occupies when laid out in a row — always 1, since multi-cell units
// are represented as one grapheme-start cell followed by continuation
// cells, each occupying exactly one column.
func EncodedCharWidth(c EncodedChar) int {
	return 1
}
