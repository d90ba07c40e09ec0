package textbuffer

import (
	"github.com/google/uuid"
	"github.com/xonecas/symb/internal/rope"
)

// HighlightRecord mirrors spec §3.6: a highlight range resolved against
// one logical line. ColEnd is clipped to the line's own width when the
// underlying range continues onto another line.
type HighlightRecord struct {
	RangeID  string
	ColStart int
	ColEnd   int
	StyleID  string
	Priority int
	RefID    string
}

// Span is a flattened, priority-resolved run of one style over a line
// (spec §3.6, getLineSpans).
type Span struct {
	Col     int
	Len     int
	StyleID string
}

// AddHighlight adds a highlight over [colStart, colEnd) of logical line
// row, under a freshly minted range_id. refID groups it with other
// highlights for later bulk removal via RemoveHighlightsByRef.
func (b *Buffer) AddHighlight(row, colStart, colEnd int, styleID string, priority int, refID string) {
	b.mu.Lock()
	defer b.mu.Unlock()
	start := b.rope.CoordsToOffset(row, colStart)
	end := b.rope.CoordsToOffset(row, colEnd)
	b.addHighlightByCharRangeLocked(start, end, styleID, priority, refID)
}

// AddHighlightByCharRange adds a highlight over the document-wide
// display-width range [startOff, endOff), splitting across logical lines
// when the range crosses a line break (the rope's own line partitioning
// does this automatically, since the marks are plain segments).
func (b *Buffer) AddHighlightByCharRange(startOff, endOff int, styleID string, priority int, refID string) {
	b.mu.Lock()
	defer b.mu.Unlock()
	b.addHighlightByCharRangeLocked(startOff, endOff, styleID, priority, refID)
}

func (b *Buffer) addHighlightByCharRangeLocked(start, end int, styleID string, priority int, refID string) {
	total := b.rope.TotalWeight()
	if start < 0 {
		start = 0
	}
	if end > total {
		end = total
	}
	if start > end {
		start, end = end, start
	}
	rangeID := uuid.NewString()
	// HighlightMark segments carry zero display-width weight (spec §3.5),
	// so inserting the End mark doesn't need to account for any shift
	// introduced by inserting the Start mark first.
	b.rope.InsertSegment(start, rope.NewHighlightMark(rangeID, refID, rope.HighlightStart, styleID, priority))
	b.rope.InsertSegment(end, rope.NewHighlightMark(rangeID, refID, rope.HighlightEnd, styleID, priority))
	b.epoch++
}

// RemoveHighlightsByRef removes every highlight mark sharing refID.
func (b *Buffer) RemoveHighlightsByRef(refID string) {
	b.mu.Lock()
	defer b.mu.Unlock()
	segs := b.rope.Segments()
	filtered := make([]rope.Segment, 0, len(segs))
	for _, s := range segs {
		if s.Kind == rope.SegHighlightMark && s.RefID == refID {
			continue
		}
		filtered = append(filtered, s)
	}
	b.rope.SetSegments(filtered)
	b.epoch++
}

// ClearLineHighlights removes every highlight mark physically located
// within logical line row's segment span. A highlight whose other mark
// lies on a different row is left as-is — row-scoped clearing only
// touches marks that are actually this line's to own.
func (b *Buffer) ClearLineHighlights(row int) {
	b.mu.Lock()
	defer b.mu.Unlock()
	marker, ok := b.rope.GetMarker(rope.SegLineStart, row)
	if !ok {
		return
	}
	segs := b.rope.Segments()
	start := marker.SegmentIndex + 1
	end := len(segs)
	if next, ok := b.rope.GetMarker(rope.SegLineStart, row+1); ok {
		end = next.SegmentIndex
	}
	filtered := make([]rope.Segment, 0, len(segs))
	filtered = append(filtered, segs[:start]...)
	for i := start; i < end; i++ {
		if segs[i].Kind == rope.SegHighlightMark {
			continue
		}
		filtered = append(filtered, segs[i])
	}
	filtered = append(filtered, segs[end:]...)
	b.rope.SetSegments(filtered)
	b.epoch++
}

// ClearAllHighlights removes every highlight mark in the document.
func (b *Buffer) ClearAllHighlights() {
	b.mu.Lock()
	defer b.mu.Unlock()
	segs := b.rope.Segments()
	filtered := make([]rope.Segment, 0, len(segs))
	for _, s := range segs {
		if s.Kind == rope.SegHighlightMark {
			continue
		}
		filtered = append(filtered, s)
	}
	b.rope.SetSegments(filtered)
	b.epoch++
}

// GetLineHighlights returns every highlight that overlaps logical line
// row, clipped to that line's columns.
func (b *Buffer) GetLineHighlights(row int) []HighlightRecord {
	b.mu.RLock()
	defer b.mu.RUnlock()
	return b.scanHighlights(row)
}

// openMark is a Start mark waiting for its End while scanning the
// document in segment order.
type openMark struct {
	styleID  string
	priority int
	refID    string
	startRow int
	startCol int
}

func (b *Buffer) scanHighlights(targetRow int) []HighlightRecord {
	segs := b.rope.Segments()
	open := make(map[string]openMark)
	var out []HighlightRecord
	row, col := -1, 0
	for _, s := range segs {
		switch s.Kind {
		case rope.SegLineStart:
			row++
			col = 0
		case rope.SegText:
			col += s.Chunk.DisplayWidth
		case rope.SegHighlightMark:
			if s.MarkKind == rope.HighlightStart {
				open[s.RangeID] = openMark{
					styleID: s.StyleID, priority: s.Priority, refID: s.RefID,
					startRow: row, startCol: col,
				}
				continue
			}
			m, ok := open[s.RangeID]
			if !ok {
				continue // End with no matching Start: malformed, ignore
			}
			delete(open, s.RangeID)
			if m.startRow > targetRow || row < targetRow {
				continue // doesn't touch this line
			}
			colStart := 0
			if m.startRow == targetRow {
				colStart = m.startCol
			}
			colEnd := b.rope.LineWidthAt(targetRow)
			if row == targetRow {
				colEnd = col
			}
			out = append(out, HighlightRecord{
				RangeID: s.RangeID, ColStart: colStart, ColEnd: colEnd,
				StyleID: m.styleID, Priority: m.priority, RefID: m.refID,
			})
		}
	}
	return out
}

// GetLineSpans flattens row's overlapping highlights into ordered,
// non-overlapping spans with higher priority winning (spec §3.6). Columns
// beyond the line's current width are never produced. Highlight positions
// are rope marks, so an edit that shortens the line has already moved or
// truncated them in storage; the clamp below bounds ColEnd by the line's
// width on read as well.
func (b *Buffer) GetLineSpans(row int) []Span {
	b.mu.RLock()
	defer b.mu.RUnlock()

	highlights := b.scanHighlights(row)
	if len(highlights) == 0 {
		return nil
	}
	lineWidth := b.rope.LineWidthAt(row)
	if lineWidth == 0 {
		return nil
	}

	winner := make([]*HighlightRecord, lineWidth)
	for i := range highlights {
		h := &highlights[i]
		end := h.ColEnd
		if end > lineWidth {
			end = lineWidth
		}
		for col := h.ColStart; col < end; col++ {
			if winner[col] == nil || h.Priority >= winner[col].Priority {
				winner[col] = h
			}
		}
	}

	var spans []Span
	for col := 0; col < lineWidth; {
		w := winner[col]
		if w == nil {
			col++
			continue
		}
		start := col
		for col < lineWidth && winner[col] != nil &&
			winner[col].StyleID == w.StyleID && winner[col].Priority == w.Priority {
			col++
		}
		spans = append(spans, Span{Col: start, Len: col - start, StyleID: w.StyleID})
	}
	return spans
}
