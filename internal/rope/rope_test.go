package rope

import "testing"

func TestTotalWeightMatchesLineWidthInvariant(t *testing.T) {
	r := New()
	linesRope(r, "hello", "world!", "")

	var sumLineWidths int
	for row := 0; row < r.LineCount(); row++ {
		sumLineWidths += r.LineWidthAt(row)
	}
	want := sumLineWidths + (r.LineCount() - 1)
	if got := r.TotalWeight(); got != want {
		t.Errorf("TotalWeight() = %d, want %d (sum(lineWidths)=%d + lineCount-1=%d)",
			got, want, sumLineWidths, r.LineCount()-1)
	}
}

func TestOffsetCoordsRoundTrip(t *testing.T) {
	r := New()
	linesRope(r, "hello", "world!", "x")

	for row := 0; row < r.LineCount(); row++ {
		lw := r.LineWidthAt(row)
		for col := 0; col <= lw; col++ {
			off := r.CoordsToOffset(row, col)
			gotRow, gotCol := r.OffsetToCoords(off)
			if gotRow != row || gotCol != col {
				t.Errorf("round trip (%d,%d) -> offset %d -> (%d,%d)", row, col, off, gotRow, gotCol)
			}
		}
	}
}

func TestOffsetToCoordsClampsOutOfRange(t *testing.T) {
	r := New()
	linesRope(r, "abc")
	if row, col := r.OffsetToCoords(-5); row != 0 || col != 0 {
		t.Errorf("OffsetToCoords(-5) = (%d,%d), want (0,0)", row, col)
	}
	total := r.TotalWeight()
	if row, col := r.OffsetToCoords(total + 100); row != 0 || col != 3 {
		t.Errorf("OffsetToCoords(huge) = (%d,%d), want (0,3)", row, col)
	}
}

func TestLineCountAndWidths(t *testing.T) {
	r := New()
	linesRope(r, "ab", "cdef", "")
	if r.LineCount() != 3 {
		t.Fatalf("LineCount() = %d, want 3", r.LineCount())
	}
	if w := r.LineWidthAt(0); w != 2 {
		t.Errorf("LineWidthAt(0) = %d, want 2", w)
	}
	if w := r.LineWidthAt(1); w != 4 {
		t.Errorf("LineWidthAt(1) = %d, want 4", w)
	}
	if w := r.LineWidthAt(2); w != 0 {
		t.Errorf("LineWidthAt(2) = %d, want 0", w)
	}
	if got := r.GetMaxLineWidth(); got != 4 {
		t.Errorf("GetMaxLineWidth() = %d, want 4", got)
	}
}

func TestInsertSegmentAtLineStartBoundaryLandsAfter(t *testing.T) {
	r := New()
	linesRope(r, "hello", "world")

	// offset of (row=1, col=0) is the boundary right after the first
	// LineStart of line 1; inserting there must land inside line 1, not
	// append to line 0.
	off := r.CoordsToOffset(1, 0)
	r.InsertSegment(off, asciiText(r, "X"))

	if r.LineWidthAt(0) != 5 {
		t.Errorf("LineWidthAt(0) = %d, want 5 (unaffected)", r.LineWidthAt(0))
	}
	if r.LineWidthAt(1) != 6 {
		t.Errorf("LineWidthAt(1) = %d, want 6 (X prepended)", r.LineWidthAt(1))
	}
}

func TestInsertSegmentSplitsChunkAtBoundary(t *testing.T) {
	r := New()
	linesRope(r, "abcdef")
	off := r.CoordsToOffset(0, 3)
	r.InsertSegment(off, asciiText(r, "XY"))
	if w := r.LineWidthAt(0); w != 8 {
		t.Fatalf("LineWidthAt(0) = %d, want 8", w)
	}

	var rebuilt string
	for _, s := range r.Segments() {
		if s.Kind == SegText {
			rebuilt += textOf(r, s)
		}
	}
	if rebuilt != "abcXYdef" {
		t.Errorf("rebuilt = %q, want %q", rebuilt, "abcXYdef")
	}
}

func TestReplaceRangeWithinSingleLine(t *testing.T) {
	r := New()
	linesRope(r, "abcdefgh")
	start := r.CoordsToOffset(0, 2)
	end := r.CoordsToOffset(0, 5)
	r.ReplaceRange(start, end, []Segment{asciiText(r, "Z")})

	var rebuilt string
	for _, s := range r.Segments() {
		if s.Kind == SegText {
			rebuilt += textOf(r, s)
		}
	}
	if rebuilt != "abZfgh" {
		t.Errorf("rebuilt = %q, want %q", rebuilt, "abZfgh")
	}
}

func TestReplaceRangeAcrossLinesMerges(t *testing.T) {
	r := New()
	linesRope(r, "hello", "world")
	start := r.CoordsToOffset(0, 3)
	end := r.CoordsToOffset(1, 2)
	r.ReplaceRange(start, end, []Segment{asciiText(r, "-")})

	if r.LineCount() != 1 {
		t.Fatalf("LineCount() = %d, want 1 (lines merged)", r.LineCount())
	}
	var rebuilt string
	for _, s := range r.Segments() {
		if s.Kind == SegText {
			rebuilt += textOf(r, s)
		}
	}
	if rebuilt != "hel-rld" {
		t.Errorf("rebuilt = %q, want %q", rebuilt, "hel-rld")
	}
}

func TestReplaceRangeTruncatesStraddlingHighlight(t *testing.T) {
	r := New()
	r.SetSegments([]Segment{
		NewLineStart(),
		asciiText(r, "ab"),
		NewHighlightMark("h1", "r1", HighlightStart, "warn", 1),
		asciiText(r, "cdef"),
		NewHighlightMark("h1", "r1", HighlightEnd, "warn", 1),
		asciiText(r, "gh"),
	})

	// delete "de" out of the middle of the highlighted run: start mark
	// survives (before the cut), end mark survives (after the cut) -- so
	// this should NOT need reinsertion, it's a clean interior edit.
	start := r.CoordsToOffset(0, 3) // after "ab", inside highlighted text
	end := r.CoordsToOffset(0, 5)
	r.ReplaceRange(start, end, nil)

	var starts, ends int
	for _, s := range r.Segments() {
		if s.Kind == SegHighlightMark && s.RangeID == "h1" {
			if s.MarkKind == HighlightStart {
				starts++
			} else {
				ends++
			}
		}
	}
	if starts != 1 || ends != 1 {
		t.Fatalf("highlight marks after interior edit: starts=%d ends=%d, want 1/1", starts, ends)
	}

	// Now delete a range that removes the End marker itself along with
	// trailing text; the Start (still present before the cut) must gain a
	// fresh End marker at the boundary.
	r2 := New()
	r2.SetSegments([]Segment{
		NewLineStart(),
		asciiText(r2, "ab"),
		NewHighlightMark("h2", "r2", HighlightStart, "warn", 1),
		asciiText(r2, "cdef"),
		NewHighlightMark("h2", "r2", HighlightEnd, "warn", 1),
		asciiText(r2, "gh"),
	})
	s2 := r2.CoordsToOffset(0, 4) // inside "cdef", before the End mark
	e2 := r2.TotalWeight()
	r2.ReplaceRange(s2, e2, nil)

	starts, ends = 0, 0
	for _, s := range r2.Segments() {
		if s.Kind == SegHighlightMark && s.RangeID == "h2" {
			if s.MarkKind == HighlightStart {
				starts++
			} else {
				ends++
			}
		}
	}
	if starts != 1 || ends != 1 {
		t.Fatalf("highlight marks after trailing-end removal: starts=%d ends=%d, want 1/1 (End reinserted at boundary)", starts, ends)
	}
}
