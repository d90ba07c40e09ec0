package rope

import "github.com/xonecas/symb/internal/graphemepool"

// Chunk is a value-type cursor into a MemBuffer: a byte range plus its
// precomputed display width and optional styling (spec §3.3). Two chunks
// may reference the same MemBuffer and overlapping ranges; chunks never own
// the bytes they point at.
//
// ClusterWidths/ClusterByteLens/GraphemeIDs are parallel, one entry per
// grapheme cluster the chunk spans, in order. They are what lets
// replaceRange/insertSegment split a chunk at a display-width offset
// without ever cutting a cluster in half (spec §4.3). GraphemeIDs[i] is the
// zero ID for a cluster that didn't need pool interning (a single narrow
// code point copied straight into the chunk's bytes).
type Chunk struct {
	MemID           MemID
	ByteOffset      int
	ByteLen         int
	DisplayWidth    int
	ClusterWidths   []int
	ClusterByteLens []int
	GraphemeIDs     []graphemepool.ID
	StyleID         string // "" means unstyled
	Link            string // "" means no hyperlink
}

// Bytes returns this chunk's slice of buf's bytes.
func (c Chunk) Bytes(buf *MemBuffer) []byte {
	return buf.Bytes()[c.ByteOffset : c.ByteOffset+c.ByteLen]
}

// NumClusters returns the number of grapheme clusters this chunk spans.
func (c Chunk) NumClusters() int { return len(c.ClusterWidths) }

// split divides the chunk at the clusterIdx-th cluster boundary (0 ≤
// clusterIdx ≤ NumClusters): clusters [0,clusterIdx) go left, the rest go
// right. Splitting at 0 or NumClusters yields an empty chunk on one side.
func (c Chunk) split(clusterIdx int) (left, right Chunk) {
	byteOff, widthOff := 0, 0
	for i := 0; i < clusterIdx; i++ {
		byteOff += c.ClusterByteLens[i]
		widthOff += c.ClusterWidths[i]
	}
	left = Chunk{
		MemID:           c.MemID,
		ByteOffset:      c.ByteOffset,
		ByteLen:         byteOff,
		DisplayWidth:    widthOff,
		ClusterWidths:   append([]int(nil), c.ClusterWidths[:clusterIdx]...),
		ClusterByteLens: append([]int(nil), c.ClusterByteLens[:clusterIdx]...),
		GraphemeIDs:     append([]graphemepool.ID(nil), c.GraphemeIDs[:clusterIdx]...),
		StyleID:         c.StyleID,
		Link:            c.Link,
	}
	right = Chunk{
		MemID:           c.MemID,
		ByteOffset:      c.ByteOffset + byteOff,
		ByteLen:         c.ByteLen - byteOff,
		DisplayWidth:    c.DisplayWidth - widthOff,
		ClusterWidths:   append([]int(nil), c.ClusterWidths[clusterIdx:]...),
		ClusterByteLens: append([]int(nil), c.ClusterByteLens[clusterIdx:]...),
		GraphemeIDs:     append([]graphemepool.ID(nil), c.GraphemeIDs[clusterIdx:]...),
		StyleID:         c.StyleID,
		Link:            c.Link,
	}
	return left, right
}

// clusterAt returns the cluster index whose start is exactly widthOffset
// cells into the chunk, and true if such a boundary exists (false if
// widthOffset falls inside a cluster).
func (c Chunk) clusterAt(widthOffset int) (int, bool) {
	w := 0
	for i, cw := range c.ClusterWidths {
		if w == widthOffset {
			return i, true
		}
		if w > widthOffset {
			return i, false
		}
		w += cw
	}
	return len(c.ClusterWidths), w == widthOffset
}

// SegmentKind tags which variant a Segment holds (spec §3.4).
type SegmentKind int

const (
	SegLineStart SegmentKind = iota
	SegText
	SegHighlightMark
)

// HighlightMarkKind distinguishes the start and end delimiters of a
// highlight range within the segment stream.
type HighlightMarkKind int

const (
	HighlightStart HighlightMarkKind = iota
	HighlightEnd
)

// Segment is the sum type the rope is built from (spec §3.4). Exactly the
// fields relevant to Kind are meaningful; the rest are zero.
type Segment struct {
	Kind SegmentKind

	// SegLineStart
	lineWidthCached int
	lineWidthDirty  bool

	// SegText
	Chunk Chunk

	// SegHighlightMark
	RangeID  string
	RefID    string
	MarkKind HighlightMarkKind
	StyleID  string
	Priority int
}

// NewLineStart returns a fresh LineStart segment with a dirty cached width.
func NewLineStart() Segment {
	return Segment{Kind: SegLineStart, lineWidthDirty: true}
}

// NewText wraps a Chunk as a Text segment.
func NewText(c Chunk) Segment {
	return Segment{Kind: SegText, Chunk: c}
}

// NewHighlightMark returns a HighlightMark segment. refID is the implementation's
// extension beyond the spec's literal segment fields, letting
// removeHighlightsByRef(ref_id) (spec §4.4) find every marker in a bulk-removal
// group without a parallel index that could drift from the segment stream.
func NewHighlightMark(rangeID, refID string, kind HighlightMarkKind, styleID string, priority int) Segment {
	return Segment{Kind: SegHighlightMark, RangeID: rangeID, RefID: refID, MarkKind: kind, StyleID: styleID, Priority: priority}
}

// weight is the display-width contribution of a segment to its line. A
// LineStart always has weight 0 on the line it opens (spec §3.5).
func (s Segment) weight() int {
	if s.Kind == SegText {
		return s.Chunk.DisplayWidth
	}
	return 0
}
