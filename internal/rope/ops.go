package rope

// locateInLine returns the segment index within row's span where content at
// column col should be inserted, splitting a Text chunk at a cluster
// boundary if col falls inside one (never inside a grapheme, spec §4.3).
// col is in pure within-line display-width units, matching LineWidthAt
// exactly (unlike a document-wide offset, it has no +1 newline gaps).
func (r *Rope) locateInLine(row, col int) int {
	r.ensureLineIndex()
	startSeg := r.lineIdx[row]
	end := len(r.segments)
	if row+1 < len(r.lineIdx) {
		end = r.lineIdx[row+1]
	}

	pos := 0
	for i := startSeg + 1; i < end; i++ {
		if pos == col {
			return i
		}
		s := r.segments[i]
		if s.Kind != SegText {
			continue
		}
		w := s.Chunk.DisplayWidth
		if col < pos+w {
			clusterIdx, exact := s.Chunk.clusterAt(col - pos)
			if !exact {
				clusterIdx++ // clamp forward: never split inside a cluster
			}
			left, right := s.Chunk.split(clusterIdx)
			newSegs := make([]Segment, 0, len(r.segments)+1)
			newSegs = append(newSegs, r.segments[:i]...)
			insertAt := i
			if left.NumClusters() > 0 {
				newSegs = append(newSegs, NewText(left))
				insertAt++
			}
			if right.NumClusters() > 0 {
				newSegs = append(newSegs, NewText(right))
			}
			newSegs = append(newSegs, r.segments[i+1:]...)
			r.segments = newSegs
			r.invalidateLineIndex()
			r.ensureLineIndex()
			return insertAt
		}
		pos += w
	}
	return end
}

// InsertSegment inserts seg at the document-wide display-width offset,
// splitting a Text chunk if the offset falls inside one. An offset that
// lands exactly on a LineStart boundary places the new segment after the
// boundary, i.e. it belongs to the new line (spec §4.3).
func (r *Rope) InsertSegment(offset int, seg Segment) {
	row, col := r.OffsetToCoords(offset)
	idx := r.locateInLine(row, col)
	newSegs := make([]Segment, 0, len(r.segments)+1)
	newSegs = append(newSegs, r.segments[:idx]...)
	newSegs = append(newSegs, seg)
	newSegs = append(newSegs, r.segments[idx:]...)
	r.segments = newSegs
	r.invalidateLineIndex()
}

// ReplaceRange removes the content spanning [startOffset, endOffset) in
// document-wide display-width coordinates and splices newSegs in its place.
// Both ends are clamped to [0, totalWeight]. Highlight markers left
// straddling the edit are truncated to the surviving range rather than
// dropped outright (spec §4.3).
func (r *Rope) ReplaceRange(startOffset, endOffset int, newSegs []Segment) {
	total := r.TotalWeight()
	if startOffset < 0 {
		startOffset = 0
	}
	if endOffset > total {
		endOffset = total
	}
	if startOffset > endOffset {
		startOffset, endOffset = endOffset, startOffset
	}

	endRow, endCol := r.OffsetToCoords(endOffset)
	endIdx := r.locateInLine(endRow, endCol)

	before := len(r.segments)
	startRow, startCol := r.OffsetToCoords(startOffset)
	startIdx := r.locateInLine(startRow, startCol)
	endIdx += len(r.segments) - before

	removed := r.segments[startIdx:endIdx]
	reinsert := truncateStraddlingHighlights(removed)

	final := make([]Segment, 0, startIdx+len(reinsert)+len(newSegs)+(len(r.segments)-endIdx))
	final = append(final, r.segments[:startIdx]...)
	final = append(final, reinsert...)
	final = append(final, newSegs...)
	final = append(final, r.segments[endIdx:]...)
	r.segments = final
	r.invalidateLineIndex()
}

// truncateStraddlingHighlights scans segments being deleted by a
// ReplaceRange and reports the boundary markers needed to keep any
// surviving half of a straddling highlight well-formed: a Start removed
// while its End survives re-opens at the boundary; an End removed while its
// Start survives re-closes there.
func truncateStraddlingHighlights(removed []Segment) []Segment {
	type mark struct {
		refID    string
		styleID  string
		priority int
	}
	starts := make(map[string]mark)
	ends := make(map[string]mark)
	var startOrder, endOrder []string
	for _, s := range removed {
		if s.Kind != SegHighlightMark {
			continue
		}
		m := mark{refID: s.RefID, styleID: s.StyleID, priority: s.Priority}
		if s.MarkKind == HighlightStart {
			if _, ok := starts[s.RangeID]; !ok {
				startOrder = append(startOrder, s.RangeID)
			}
			starts[s.RangeID] = m
		} else {
			if _, ok := ends[s.RangeID]; !ok {
				endOrder = append(endOrder, s.RangeID)
			}
			ends[s.RangeID] = m
		}
	}

	var out []Segment
	for _, rid := range startOrder {
		if _, ok := ends[rid]; !ok {
			m := starts[rid]
			out = append(out, NewHighlightMark(rid, m.refID, HighlightStart, m.styleID, m.priority))
		}
	}
	for _, rid := range endOrder {
		if _, ok := starts[rid]; !ok {
			m := ends[rid]
			out = append(out, NewHighlightMark(rid, m.refID, HighlightEnd, m.styleID, m.priority))
		}
	}
	return out
}
