// Package rope implements the segmented rope that backs a text buffer: an
// ordered list of LineStart/Text/HighlightMark segments addressed by
// display-width offsets rather than bytes (spec §3.3-§3.6, §4.3).
package rope

// MarkerRef identifies a located segment within the rope, returned by
// GetMarker.
type MarkerRef struct {
	SegmentIndex int
	GlobalWeight int
	GlobalLine   int
}

// Rope is an ordered sequence of segments with two weight dimensions:
// display-width (summed across Text segments) and line count (one per
// LineStart). It never holds a content_epoch itself — that is the owning
// TextBuffer's responsibility (spec §3.10).
type Rope struct {
	mem      memTable
	segments []Segment

	lineIdx      []int // segment indices of each LineStart, in order
	lineIdxValid bool
}

// New returns a rope with a single empty logical line, matching the state
// TextBuffer.setText("") produces.
func New() *Rope {
	return &Rope{segments: []Segment{NewLineStart()}}
}

// RegisterOwnedBuffer copies b into a new MemBuffer the rope owns.
func (r *Rope) RegisterOwnedBuffer(b []byte) MemID { return r.mem.registerOwned(b) }

// RegisterBorrowedBuffer registers b without copying; the caller must keep
// it alive for as long as any chunk references it.
func (r *Rope) RegisterBorrowedBuffer(b []byte) MemID { return r.mem.registerBorrowed(b) }

// Buffer resolves a MemID to its MemBuffer, or nil if unknown.
func (r *Rope) Buffer(id MemID) *MemBuffer { return r.mem.get(id) }

// SetSegments atomically replaces the rope's contents and invalidates every
// cached LineStart width (spec §4.3).
func (r *Rope) SetSegments(segs []Segment) {
	for i := range segs {
		if segs[i].Kind == SegLineStart {
			segs[i].lineWidthDirty = true
		}
	}
	r.segments = segs
	r.invalidateLineIndex()
}

// Segments returns the live segment slice. Callers must treat it as
// read-only; use SetSegments/InsertSegment/ReplaceRange to mutate.
func (r *Rope) Segments() []Segment { return r.segments }

// invalidateLineIndex drops the LineStart index and marks every cached line
// width dirty, since any mutation can change which text a line holds.
func (r *Rope) invalidateLineIndex() {
	r.lineIdxValid = false
	for i := range r.segments {
		if r.segments[i].Kind == SegLineStart {
			r.segments[i].lineWidthDirty = true
		}
	}
}

func (r *Rope) ensureLineIndex() {
	if r.lineIdxValid {
		return
	}
	r.lineIdx = r.lineIdx[:0]
	for i, s := range r.segments {
		if s.Kind == SegLineStart {
			r.lineIdx = append(r.lineIdx, i)
		}
	}
	r.lineIdxValid = true
}

// LineCount returns the number of logical lines.
func (r *Rope) LineCount() int {
	r.ensureLineIndex()
	return len(r.lineIdx)
}

// TotalWeight returns the document-wide display-width offset space: the sum
// of every line's width plus one unit per line break (spec §8's invariant
// sum(lineWidthAt) + (lineCount-1) == totalWeight). The extra unit per break
// is what keeps (row, lineWidth(row)) and (row+1, 0) mapped to distinct
// offsets even though a LineStart segment itself carries zero weight within
// its own line.
func (r *Rope) TotalWeight() int {
	r.ensureLineIndex()
	n := len(r.lineIdx)
	if n == 0 {
		return 0
	}
	total := n - 1
	for row := 0; row < n; row++ {
		total += r.LineWidthAt(row)
	}
	return total
}

// lineStartOffset returns the document-wide offset of column 0 of row.
func (r *Rope) lineStartOffset(row int) int {
	off := 0
	for k := 0; k < row; k++ {
		off += r.LineWidthAt(k) + 1
	}
	return off
}

// LineWidthAt returns the display width of logical line row, recomputing
// and memoizing on the LineStart segment if its cached width is dirty
// (spec §4.3).
func (r *Rope) LineWidthAt(row int) int {
	r.ensureLineIndex()
	if row < 0 || row >= len(r.lineIdx) {
		return 0
	}
	idx := r.lineIdx[row]
	seg := &r.segments[idx]
	if !seg.lineWidthDirty {
		return seg.lineWidthCached
	}
	end := len(r.segments)
	if row+1 < len(r.lineIdx) {
		end = r.lineIdx[row+1]
	}
	w := 0
	for i := idx + 1; i < end; i++ {
		w += r.segments[i].weight()
	}
	seg.lineWidthCached = w
	seg.lineWidthDirty = false
	return w
}

// GetMaxLineWidth scans every line's width (using the cache where valid)
// and returns the widest.
func (r *Rope) GetMaxLineWidth() int {
	r.ensureLineIndex()
	max := 0
	for row := range r.lineIdx {
		if w := r.LineWidthAt(row); w > max {
			max = w
		}
	}
	return max
}

// GetMarker locates the index-th segment of kind among the rope's
// segments (0-based) and reports its position. Only SegLineStart is
// supported as a marker kind; it is the only one callers need to locate by
// ordinal (spec §3.5's "getMarker(kind, index)" example is the Nth
// LineStart).
func (r *Rope) GetMarker(kind SegmentKind, index int) (MarkerRef, bool) {
	if kind != SegLineStart {
		return MarkerRef{}, false
	}
	r.ensureLineIndex()
	if index < 0 || index >= len(r.lineIdx) {
		return MarkerRef{}, false
	}
	return MarkerRef{
		SegmentIndex: r.lineIdx[index],
		GlobalWeight: r.lineStartOffset(index),
		GlobalLine:   index,
	}, true
}

// OffsetToCoords converts a document-wide display-width offset to
// (row, col). Out-of-range offsets clamp into range (spec §4.3).
func (r *Rope) OffsetToCoords(offset int) (row, col int) {
	r.ensureLineIndex()
	n := len(r.lineIdx)
	if n == 0 {
		return 0, 0
	}
	total := r.TotalWeight()
	if offset < 0 {
		offset = 0
	}
	if offset > total {
		offset = total
	}
	pos := 0
	for row := 0; row < n; row++ {
		lw := r.LineWidthAt(row)
		if offset <= pos+lw {
			return row, offset - pos
		}
		pos += lw + 1
	}
	return n - 1, r.LineWidthAt(n - 1)
}

// CoordsToOffset converts (row, col) to a document-wide display-width
// offset, clamping row into [0, lineCount) and col into [0, lineWidth(row)].
func (r *Rope) CoordsToOffset(row, col int) int {
	r.ensureLineIndex()
	if len(r.lineIdx) == 0 {
		return 0
	}
	if row < 0 {
		row = 0
	}
	if row >= len(r.lineIdx) {
		row = len(r.lineIdx) - 1
	}
	lw := r.LineWidthAt(row)
	if col < 0 {
		col = 0
	}
	if col > lw {
		col = lw
	}
	return r.lineStartOffset(row) + col
}
