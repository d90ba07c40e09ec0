package editbuffer

import "github.com/xonecas/symb/internal/textbuffer"

// SetCursor clamps (row, col) into the buffer and moves the cursor there,
// resetting desiredCol to col.
func (e *Buffer) SetCursor(row, col int) {
	e.setCursorCoords(row, col)
}

// SetCursorByOffset moves the cursor to the (row, col) a document-wide
// display-width offset decodes to.
func (e *Buffer) SetCursorByOffset(offset int) {
	row, col := e.buf.CoordsAt(offset)
	e.setCursorCoords(row, col)
}

// GotoLine moves the cursor to column 0 of row.
func (e *Buffer) GotoLine(row int) {
	e.setCursorCoords(row, 0)
}

// MoveLeft moves the cursor back one grapheme cluster, crossing into the
// previous line's end when already at column 0.
func (e *Buffer) MoveLeft() {
	e.mu.Lock()
	row, col := e.cursor.Row, e.cursor.Col
	e.mu.Unlock()
	nr, nc := e.prevPosition(row, col)
	e.setCursorCoords(nr, nc)
}

// MoveRight moves the cursor forward one grapheme cluster, crossing into
// the next line's start when already at the line's end.
func (e *Buffer) MoveRight() {
	e.mu.Lock()
	row, col := e.cursor.Row, e.cursor.Col
	e.mu.Unlock()
	nr, nc := e.nextPosition(row, col)
	e.setCursorCoords(nr, nc)
}

// MoveUp moves the cursor to the previous logical line, restoring
// desiredCol where the line is wide enough (spec §4.6).
func (e *Buffer) MoveUp() {
	e.mu.Lock()
	row, desired := e.cursor.Row, e.cursor.DesiredCol
	e.mu.Unlock()
	if row == 0 {
		return
	}
	target := row - 1
	col := e.snapToLineBound(target, desired)
	e.setCursorCoordsPreserveDesired(target, col, desired)
}

// MoveDown moves the cursor to the next logical line, restoring
// desiredCol where the line is wide enough (spec §4.6).
func (e *Buffer) MoveDown() {
	e.mu.Lock()
	row, desired := e.cursor.Row, e.cursor.DesiredCol
	e.mu.Unlock()
	n := e.buf.GetLineCount()
	if row >= n-1 {
		return
	}
	target := row + 1
	col := e.snapToLineBound(target, desired)
	e.setCursorCoordsPreserveDesired(target, col, desired)
}

func (e *Buffer) snapToLineBound(row, desired int) int {
	w := e.buf.LineWidth(row)
	target := min(desired, w)
	bounds := lineClusterBounds(e.buf, row)
	return snapToBound(bounds, target)
}

// prevPosition returns the coordinate one grapheme cluster before
// (row, col), crossing into the previous line's end at column 0.
func (e *Buffer) prevPosition(row, col int) (int, int) {
	if col > 0 {
		bounds := lineClusterBounds(e.buf, row)
		return row, prevBound(bounds, col)
	}
	if row == 0 {
		return row, col
	}
	pr := row - 1
	return pr, e.buf.LineWidth(pr)
}

// nextPosition returns the coordinate one grapheme cluster past
// (row, col), crossing into the next line's start at the line's end.
func (e *Buffer) nextPosition(row, col int) (int, int) {
	w := e.buf.LineWidth(row)
	if col < w {
		bounds := lineClusterBounds(e.buf, row)
		return row, nextBound(bounds, col)
	}
	n := e.buf.GetLineCount()
	if row+1 >= n {
		return row, col
	}
	return row + 1, 0
}

// lineClusterBounds returns row's grapheme-cluster boundary columns,
// starting with 0 and ending with the line's full width.
func lineClusterBounds(buf *textbuffer.Buffer, row int) []int {
	bounds := []int{0}
	col := 0
	for _, c := range buf.LineChunks(row) {
		for _, w := range c.ClusterWidths {
			col += w
			bounds = append(bounds, col)
		}
	}
	return bounds
}

func prevBound(bounds []int, col int) int {
	for i := len(bounds) - 1; i >= 0; i-- {
		if bounds[i] < col {
			return bounds[i]
		}
	}
	return 0
}

func nextBound(bounds []int, col int) int {
	for _, b := range bounds {
		if b > col {
			return b
		}
	}
	return bounds[len(bounds)-1]
}

func snapToBound(bounds []int, col int) int {
	best := 0
	for _, b := range bounds {
		if b > col {
			break
		}
		best = b
	}
	return best
}

// GetNextWordBoundary returns the next word-boundary coordinate, per spec
// §4.6's classification: a run of word characters or a run of "other"
// (hard-boundary) characters is a word; boundaries land after skipping
// the current run and any trailing whitespace, crossing newlines to
// column 0 of the next non-empty line.
func (e *Buffer) GetNextWordBoundary() (row, col int) {
	e.mu.Lock()
	row, col = e.cursor.Row, e.cursor.Col
	e.mu.Unlock()

	runes := []rune(e.buf.LineText(row))
	if col >= len(runes) {
		nr, ok := e.nextNonEmptyLine(row)
		if !ok {
			return row, len(runes)
		}
		return nr, 0
	}
	cls := classifyRune(runes[col])
	if cls != clsSpace {
		for col < len(runes) && classifyRune(runes[col]) == cls {
			col++
		}
	}
	for col < len(runes) && classifyRune(runes[col]) == clsSpace {
		col++
	}
	if col < len(runes) {
		return row, col
	}
	nr, ok := e.nextNonEmptyLine(row)
	if !ok {
		return row, len(runes)
	}
	return nr, 0
}

// GetPrevWordBoundary returns the previous word-boundary coordinate,
// symmetric to GetNextWordBoundary.
func (e *Buffer) GetPrevWordBoundary() (row, col int) {
	e.mu.Lock()
	row, col = e.cursor.Row, e.cursor.Col
	e.mu.Unlock()

	for {
		if col == 0 {
			pr, ok := e.prevNonEmptyLine(row)
			if !ok {
				return row, 0
			}
			return pr, e.buf.LineWidth(pr)
		}
		runes := []rune(e.buf.LineText(row))
		col--
		for col > 0 && classifyRune(runes[col]) == clsSpace {
			col--
		}
		if classifyRune(runes[col]) == clsSpace {
			col = 0
			continue
		}
		cls := classifyRune(runes[col])
		for col > 0 && classifyRune(runes[col-1]) == cls {
			col--
		}
		return row, col
	}
}

func (e *Buffer) nextNonEmptyLine(from int) (int, bool) {
	n := e.buf.GetLineCount()
	for r := from + 1; r < n; r++ {
		if e.buf.LineWidth(r) > 0 {
			return r, true
		}
	}
	return 0, false
}

func (e *Buffer) prevNonEmptyLine(from int) (int, bool) {
	for r := from - 1; r >= 0; r-- {
		if e.buf.LineWidth(r) > 0 {
			return r, true
		}
	}
	return 0, false
}
