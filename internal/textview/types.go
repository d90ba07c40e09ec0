// Package textview projects a TextBuffer's logical lines into wrapped
// virtual lines under a viewport, selection, and truncation policy (spec
// §3.7-§3.8, §4.5).
package textview

// WrapMode selects how a logical line is broken into virtual lines.
type WrapMode int

const (
	WrapNone WrapMode = iota
	WrapChar
	WrapWord
)

// ChunkView is a sub-slice of a logical line's chunk, scoped to one
// virtual line (spec §3.7). Width is the sum of the cells its clusters
// occupy once tab expansion is applied.
type ChunkView struct {
	StyleID string
	Link    string
	Text    string
	Width   int
	IsTab   bool // first cell should render as the tab indicator glyph
}

// VirtualLine is one wrapped/visual row of a logical line.
type VirtualLine struct {
	SourceLine      int
	SourceColOffset int
	Width           int
	Chunks          []ChunkView
}

// Viewport is the visible window into virtual-line space: y indexes
// virtual lines, x indexes display columns (spec §3.8).
type Viewport struct {
	X, Y          int
	Width, Height int
}

// Selection is a document-wide display-width range; Start <= End. An
// empty selection (Start == End) is reported as absent by callers.
type Selection struct {
	Start, End int
	BG, FG     string
}

// LineSpan is the resolved location of a virtual line's highlights, for
// getVirtualLineSpans.
type LineSpan struct {
	SourceLine int
	ColOffset  int
	Spans      []SpanView
}

// SpanView mirrors textbuffer.Span, re-exported here so callers don't need
// to import textbuffer just to read a virtual line's resolved highlights.
type SpanView struct {
	Col     int
	Len     int
	StyleID string
}
