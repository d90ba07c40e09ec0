package textview

import (
	"bytes"
	"sync"

	"github.com/xonecas/symb/internal/textbuffer"
)

// View is the TextBufferView: a projection of a TextBuffer into wrapped
// virtual lines under a viewport, selection, and truncation policy (spec
// §4.5). It never mutates the buffer; it tracks the buffer's content_epoch
// to know when its cached virtual lines are stale.
type View struct {
	mu  sync.Mutex
	buf *textbuffer.Buffer

	wrapMode     WrapMode
	wrapWidth    int // 0 = derive from viewport.Width
	truncate     bool
	tabIndicator rune // 0 = disabled
	tabColor     string

	viewport  Viewport
	selection *Selection

	cacheValid    bool
	cacheEpoch    uint64
	cacheWidth    int
	cacheWrapMode WrapMode
	lines         []VirtualLine

	measureCache map[measureKey]measureResult
}

type measureKey struct {
	epoch uint64
	width int
	mode  WrapMode
}

type measureResult struct {
	lineCount, maxWidth int
}

// New returns a View over buf with default settings: WrapNone, no
// truncation, a zero viewport, and no selection.
func New(buf *textbuffer.Buffer) *View {
	return &View{buf: buf}
}

// SetViewport stores x, y, width, height in virtual coordinates.
func (v *View) SetViewport(x, y, w, h int) {
	v.mu.Lock()
	defer v.mu.Unlock()
	v.viewport = Viewport{X: x, Y: y, Width: w, Height: h}
	v.invalidateIfWidthChangedLocked()
}

// GetViewport returns the current viewport.
func (v *View) GetViewport() Viewport {
	v.mu.Lock()
	defer v.mu.Unlock()
	return v.viewport
}

// SetViewportSize resizes the viewport in place, preserving its offset and
// clamping y to the virtual-line count and x to the widest line (spec
// §4.5). Clamping requires up-to-date virtual lines, so this recomputes
// the cache eagerly rather than waiting for the next read.
func (v *View) SetViewportSize(w, h int) {
	v.mu.Lock()
	defer v.mu.Unlock()
	v.viewport.Width = w
	v.viewport.Height = h
	v.recomputeLocked()

	maxY := len(v.lines) - h
	if maxY < 0 {
		maxY = 0
	}
	if v.viewport.Y > maxY {
		v.viewport.Y = maxY
	}
	if v.viewport.Y < 0 {
		v.viewport.Y = 0
	}

	if v.wrapMode == WrapNone {
		maxX := v.buf.GetMaxLineWidth() - w
		if maxX < 0 {
			maxX = 0
		}
		if v.viewport.X > maxX {
			v.viewport.X = maxX
		}
	}
	if v.viewport.X < 0 {
		v.viewport.X = 0
	}
}

// SetWrapMode sets the wrap policy.
func (v *View) SetWrapMode(mode WrapMode) {
	v.mu.Lock()
	defer v.mu.Unlock()
	v.wrapMode = mode
	v.cacheValid = false
}

// SetWrapWidth overrides the wrap width used instead of viewport.Width.
// 0 clears the override, falling back to viewport.Width.
func (v *View) SetWrapWidth(w int) {
	v.mu.Lock()
	defer v.mu.Unlock()
	v.wrapWidth = w
	v.cacheValid = false
}

// SetTruncate enables or disables single-line ellipsis truncation when
// wrap_mode is none.
func (v *View) SetTruncate(on bool) {
	v.mu.Lock()
	defer v.mu.Unlock()
	v.truncate = on
	v.cacheValid = false
}

// SetTabIndicator sets the glyph rune rendered as a tab's first cell.
// 0 disables the indicator.
func (v *View) SetTabIndicator(r rune) {
	v.mu.Lock()
	defer v.mu.Unlock()
	v.tabIndicator = r
}

// SetTabIndicatorColor sets the indicator glyph's color (e.g. "#rrggbb").
func (v *View) SetTabIndicatorColor(color string) {
	v.mu.Lock()
	defer v.mu.Unlock()
	v.tabColor = color
}

// TabIndicator returns the configured indicator rune and color, for a
// renderer consuming ChunkView.IsTab cells.
func (v *View) TabIndicator() (r rune, color string) {
	v.mu.Lock()
	defer v.mu.Unlock()
	return v.tabIndicator, v.tabColor
}

// SetSelection sets a document-wide selection range. end < start is
// swapped; start == end stores an empty (effectively absent) selection.
func (v *View) SetSelection(start, end int, bg, fg string) {
	v.mu.Lock()
	defer v.mu.Unlock()
	if end < start {
		start, end = end, start
	}
	v.selection = &Selection{Start: start, End: end, BG: bg, FG: fg}
}

// ResetSelection clears the selection.
func (v *View) ResetSelection() {
	v.mu.Lock()
	defer v.mu.Unlock()
	v.selection = nil
}

// SetLocalSelection converts viewport-local (x, y) anchor/focus pairs
// (y indexing virtual lines relative to the viewport, x indexing display
// columns) into a document-wide Selection via the cached virtual-line
// spans. Returns true iff the stored selection changed.
func (v *View) SetLocalSelection(anchorX, anchorY, focusX, focusY int, bg, fg string) bool {
	v.mu.Lock()
	defer v.mu.Unlock()
	v.recomputeLocked()

	anchorOff, ok1 := v.localToOffsetLocked(anchorX, anchorY)
	focusOff, ok2 := v.localToOffsetLocked(focusX, focusY)
	if !ok1 || !ok2 {
		return false
	}
	start, end := anchorOff, focusOff
	if end < start {
		start, end = end, start
	}

	prev := v.selection
	changed := prev == nil || prev.Start != start || prev.End != end
	v.selection = &Selection{Start: start, End: end, BG: bg, FG: fg}
	return changed
}

// ResetLocalSelection clears the selection (local selections don't carry
// separate state from setSelection; both write the same document-wide
// range).
func (v *View) ResetLocalSelection() {
	v.ResetSelection()
}

func (v *View) localToOffsetLocked(x, y int) (int, bool) {
	idx := v.viewport.Y + y
	if idx < 0 || idx >= len(v.lines) {
		return 0, false
	}
	line := v.lines[idx]
	col := x
	if col < 0 {
		col = 0
	}
	if col > line.Width {
		col = line.Width
	}
	return v.buf.OffsetAt(line.SourceLine, line.SourceColOffset+col), true
}

// PackSelectionInfo returns (start<<32)|end, or the all-ones sentinel when
// the selection is absent or empty (spec §4.5).
func (v *View) PackSelectionInfo() uint64 {
	v.mu.Lock()
	defer v.mu.Unlock()
	if v.selection == nil || v.selection.Start == v.selection.End {
		return 0xFFFFFFFFFFFFFFFF
	}
	return uint64(uint32(v.selection.Start))<<32 | uint64(uint32(v.selection.End))
}

// GetSelectedTextIntoBuffer writes the selected range's UTF-8 text into
// out, returning the number of bytes written.
func (v *View) GetSelectedTextIntoBuffer(out *bytes.Buffer) int {
	v.mu.Lock()
	sel := v.selection
	v.mu.Unlock()
	if sel == nil || sel.Start == sel.End {
		return 0
	}
	s := v.buf.TextRange(sel.Start, sel.End)
	n, _ := out.WriteString(s)
	return n
}

// GetPlainTextIntoBuffer writes the buffer's full text into out, returning
// the number of bytes written.
func (v *View) GetPlainTextIntoBuffer(out *bytes.Buffer) int {
	s := v.buf.Text()
	n, _ := out.WriteString(s)
	return n
}

// GetVirtualLines returns the current virtual lines, recomputing if the
// buffer's content_epoch, effective wrap width, or wrap mode changed since
// the last computation (spec §4.5's invalidation key).
func (v *View) GetVirtualLines() []VirtualLine {
	v.mu.Lock()
	defer v.mu.Unlock()
	v.recomputeLocked()
	return v.lines
}

// GetVirtualLineCount returns len(GetVirtualLines()).
func (v *View) GetVirtualLineCount() int {
	return len(v.GetVirtualLines())
}

// GetVirtualLineSpans resolves virtual line i's highlight spans, clipped
// to that line's column range within its source logical line.
func (v *View) GetVirtualLineSpans(i int) LineSpan {
	v.mu.Lock()
	v.recomputeLocked()
	if i < 0 || i >= len(v.lines) {
		v.mu.Unlock()
		return LineSpan{}
	}
	line := v.lines[i]
	v.mu.Unlock()

	lo, hi := line.SourceColOffset, line.SourceColOffset+line.Width
	var out []SpanView
	for _, s := range v.buf.GetLineSpans(line.SourceLine) {
		end := s.Col + s.Len
		if end <= lo || s.Col >= hi {
			continue
		}
		start := s.Col
		if start < lo {
			start = lo
		}
		if end > hi {
			end = hi
		}
		out = append(out, SpanView{Col: start - lo, Len: end - start, StyleID: s.StyleID})
	}
	return LineSpan{SourceLine: line.SourceLine, ColOffset: line.SourceColOffset, Spans: out}
}

// GetCachedLineInfo returns each logical line's document-wide start offset
// and display width.
func (v *View) GetCachedLineInfo() (starts, widths []int) {
	n := v.buf.GetLineCount()
	starts = make([]int, n)
	widths = make([]int, n)
	for row := 0; row < n; row++ {
		starts[row] = v.buf.OffsetAt(row, 0)
		widths[row] = v.buf.LineWidth(row)
	}
	return starts, widths
}

// MeasureForDimensions computes line_count and max_width for width w
// without mutating the cached virtual lines, memoized by
// (content_epoch, width, wrap_mode).
func (v *View) MeasureForDimensions(w, h int) (lineCount, maxWidth int) {
	_ = h
	v.mu.Lock()
	defer v.mu.Unlock()

	epoch := v.buf.GetContentEpoch()
	key := measureKey{epoch: epoch, width: w, mode: v.wrapMode}
	if res, ok := v.measureCache[key]; ok {
		return res.lineCount, res.maxWidth
	}

	var lines []VirtualLine
	if v.cacheValid && v.cacheEpoch == epoch && v.cacheWidth == w && v.cacheWrapMode == v.wrapMode {
		lines = v.lines
	} else {
		lines = v.buildLinesLocked(w)
	}
	res := measureResult{lineCount: len(lines), maxWidth: maxVirtualWidth(lines)}

	if v.measureCache == nil {
		v.measureCache = make(map[measureKey]measureResult)
	} else if len(v.measureCache) > 64 {
		v.measureCache = make(map[measureKey]measureResult)
	}
	v.measureCache[key] = res
	return res.lineCount, res.maxWidth
}

// FindVisualLineIndex returns the index into GetVirtualLines() of the
// virtual line containing (sourceLine, col): the line whose
// source_col_offset <= col < source_col_offset+width, or == width at the
// end of the logical line's last virtual line (spec §4.7).
func (v *View) FindVisualLineIndex(sourceLine, col int) int {
	v.mu.Lock()
	defer v.mu.Unlock()
	v.recomputeLocked()

	last := -1
	for i, l := range v.lines {
		if l.SourceLine != sourceLine {
			continue
		}
		last = i
		if col >= l.SourceColOffset && col < l.SourceColOffset+l.Width {
			return i
		}
	}
	return last
}

func (v *View) effectiveWrapWidthLocked() int {
	if v.wrapWidth > 0 {
		return v.wrapWidth
	}
	return v.viewport.Width
}

func (v *View) invalidateIfWidthChangedLocked() {
	if v.cacheValid && v.cacheWidth != v.effectiveWrapWidthLocked() {
		v.cacheValid = false
	}
}

func (v *View) recomputeLocked() {
	epoch := v.buf.GetContentEpoch()
	width := v.effectiveWrapWidthLocked()
	if v.cacheValid && v.cacheEpoch == epoch && v.cacheWidth == width && v.cacheWrapMode == v.wrapMode {
		return
	}
	v.lines = v.buildLinesLocked(width)
	v.cacheValid = true
	v.cacheEpoch = epoch
	v.cacheWidth = width
	v.cacheWrapMode = v.wrapMode
}

func (v *View) buildLinesLocked(width int) []VirtualLine {
	tabWidth := v.buf.TabWidth()
	n := v.buf.GetLineCount()
	var out []VirtualLine
	for row := 0; row < n; row++ {
		chunks := toLineChunks(v.buf.LineChunks(row))
		if v.truncate && v.wrapMode == WrapNone {
			out = append(out, truncateLine(row, chunks, tabWidth, v.viewport.Width))
			continue
		}
		out = append(out, wrapLine(row, chunks, v.wrapMode, width, tabWidth)...)
	}
	return out
}

func toLineChunks(lcs []textbuffer.LogicalChunk) []lineChunk {
	out := make([]lineChunk, len(lcs))
	for i, lc := range lcs {
		out[i] = lineChunk{
			StyleID:       lc.StyleID,
			Link:          lc.Link,
			ClusterTexts:  lc.ClusterTexts,
			ClusterWidths: lc.ClusterWidths,
		}
	}
	return out
}

func maxVirtualWidth(lines []VirtualLine) int {
	max := 0
	for _, l := range lines {
		if l.Width > max {
			max = l.Width
		}
	}
	return max
}
