package editbuffer

// InsertText inserts s at the cursor and advances the cursor past it.
func (e *Buffer) InsertText(s string) error {
	e.mu.Lock()
	offset := e.cursor.Offset
	e.mu.Unlock()

	before := e.buf.GetLength()
	if err := e.mutate(func() error { return e.buf.Insert(offset, []byte(s)) }); err != nil {
		return err
	}
	after := e.buf.GetLength()
	e.SetCursorByOffset(offset + (after - before))
	return nil
}

// Backspace deletes the grapheme cluster before the cursor, merging into
// the previous line when at column 0.
func (e *Buffer) Backspace() error {
	e.mu.Lock()
	row, col := e.cursor.Row, e.cursor.Col
	e.mu.Unlock()
	pr, pc := e.prevPosition(row, col)
	if pr == row && pc == col {
		return nil
	}
	from := e.buf.OffsetAt(pr, pc)
	to := e.buf.OffsetAt(row, col)
	if err := e.mutate(func() error { return e.buf.DeleteRange(from, to) }); err != nil {
		return err
	}
	e.setCursorCoords(pr, pc)
	return nil
}

// DeleteForward deletes the grapheme cluster at the cursor, merging the
// next line in when at the current line's end.
func (e *Buffer) DeleteForward() error {
	e.mu.Lock()
	row, col := e.cursor.Row, e.cursor.Col
	e.mu.Unlock()
	nr, nc := e.nextPosition(row, col)
	if nr == row && nc == col {
		return nil
	}
	from := e.buf.OffsetAt(row, col)
	to := e.buf.OffsetAt(nr, nc)
	if err := e.mutate(func() error { return e.buf.DeleteRange(from, to) }); err != nil {
		return err
	}
	e.setCursorCoords(row, col)
	return nil
}

// DeleteRange deletes the document-wide display-width range [from, to)
// and leaves the cursor at its start.
func (e *Buffer) DeleteRange(from, to int) error {
	if from > to {
		from, to = to, from
	}
	if err := e.mutate(func() error { return e.buf.DeleteRange(from, to) }); err != nil {
		return err
	}
	e.SetCursorByOffset(from)
	return nil
}

// DeleteLine removes the cursor's logical line along with one adjacent
// line break, leaving the cursor at column 0 of the line that takes its
// place.
func (e *Buffer) DeleteLine() error {
	e.mu.Lock()
	row := e.cursor.Row
	e.mu.Unlock()

	n := e.buf.GetLineCount()
	start := e.buf.OffsetAt(row, 0)
	var from, to int
	switch {
	case row < n-1:
		from, to = start, e.buf.OffsetAt(row+1, 0)
	case row > 0:
		from, to = start-1, start+e.buf.LineWidth(row)
	default:
		from, to = start, start+e.buf.LineWidth(row)
	}
	if err := e.mutate(func() error { return e.buf.DeleteRange(from, to) }); err != nil {
		return err
	}
	newRow := min(row, e.buf.GetLineCount()-1)
	e.setCursorCoords(newRow, 0)
	return nil
}

// SetText discards undo history (spec §4.6: "setText clears history") and
// resets the cursor to (0,0).
func (e *Buffer) SetText(s string) error {
	if err := e.buf.SetText([]byte(s)); err != nil {
		return err
	}
	e.mu.Lock()
	e.undo = nil
	e.redo = nil
	e.mu.Unlock()
	e.contentEmitter.Emit(ContentChangedEvent{Epoch: e.buf.GetContentEpoch()})
	e.setCursorCoords(0, 0)
	return nil
}

// ReplaceText rebuilds the document and records it as one undoable edit
// covering the whole previous content (spec §4.6: "replaceText records
// it").
func (e *Buffer) ReplaceText(s string) error {
	return e.mutate(func() error { return e.buf.ReplaceText([]byte(s)) })
}

// CanUndo reports whether Undo would do anything.
func (e *Buffer) CanUndo() bool {
	e.mu.Lock()
	defer e.mu.Unlock()
	return len(e.undo) > 0
}

// CanRedo reports whether Redo would do anything.
func (e *Buffer) CanRedo() bool {
	e.mu.Lock()
	defer e.mu.Unlock()
	return len(e.redo) > 0
}

// Undo reverts the most recent history entry, returning false if the
// undo stack is empty.
func (e *Buffer) Undo() bool {
	e.mu.Lock()
	if len(e.undo) == 0 {
		e.mu.Unlock()
		return false
	}
	entry := e.undo[len(e.undo)-1]
	e.undo = e.undo[:len(e.undo)-1]
	e.redo = append(e.redo, entry)
	e.mu.Unlock()

	_ = e.buf.ReplaceText([]byte(entry.Before))
	e.contentEmitter.Emit(ContentChangedEvent{Epoch: e.buf.GetContentEpoch()})
	e.setCursorCoords(0, 0)
	return true
}

// Redo reapplies the most recently undone entry, returning false if the
// redo stack is empty.
func (e *Buffer) Redo() bool {
	e.mu.Lock()
	if len(e.redo) == 0 {
		e.mu.Unlock()
		return false
	}
	entry := e.redo[len(e.redo)-1]
	e.redo = e.redo[:len(e.redo)-1]
	e.undo = append(e.undo, entry)
	e.mu.Unlock()

	_ = e.buf.ReplaceText([]byte(entry.After))
	e.contentEmitter.Emit(ContentChangedEvent{Epoch: e.buf.GetContentEpoch()})
	e.setCursorCoords(0, 0)
	return true
}
