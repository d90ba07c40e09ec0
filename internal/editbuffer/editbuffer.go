package editbuffer

import (
	"fmt"
	"io"
	"sync"

	"github.com/hexops/gotextdiff"
	"github.com/hexops/gotextdiff/myers"
	"github.com/hexops/gotextdiff/span"
	"github.com/xonecas/symb/internal/emitter"
	"github.com/xonecas/symb/internal/textbuffer"
)

// defaultMaxHistory caps the undo stack; spec §4.6 requires a capped
// stack but leaves the cap to the implementation.
const defaultMaxHistory = 200

// diffURI is the placeholder path fed to gotextdiff's span/myers API,
// which wants a file identity even though this buffer isn't backed by one.
const diffURI = "buffer"

// Buffer is the EditBuffer: cursor, word motion, undo/redo history and
// events layered over a *textbuffer.Buffer.
type Buffer struct {
	mu  sync.Mutex
	buf *textbuffer.Buffer

	cursor Cursor

	selStart, selEnd int
	selActive        bool

	undo       []HistoryEntry
	redo       []HistoryEntry
	maxHistory int

	cursorEmitter    *emitter.Emitter[CursorChangedEvent]
	contentEmitter   *emitter.Emitter[ContentChangedEvent]
	selectionEmitter *emitter.Emitter[SelectionChangedEvent]
}

// New wraps buf with cursor/undo/event bookkeeping. The cursor starts at
// (0,0).
func New(buf *textbuffer.Buffer) *Buffer {
	return &Buffer{
		buf:              buf,
		maxHistory:       defaultMaxHistory,
		cursorEmitter:    emitter.New[CursorChangedEvent](),
		contentEmitter:   emitter.New[ContentChangedEvent](),
		selectionEmitter: emitter.New[SelectionChangedEvent](),
	}
}

// SetMaxHistory overrides the undo stack cap. n <= 0 disables the cap.
func (e *Buffer) SetMaxHistory(n int) {
	e.mu.Lock()
	defer e.mu.Unlock()
	e.maxHistory = n
}

// OnCursorChanged, OnContentChanged, OnSelectionChanged subscribe to the
// buffer's three events (spec §4.6 "Events (via emitter)").
func (e *Buffer) OnCursorChanged(l emitter.Listener[CursorChangedEvent]) emitter.Subscription {
	return e.cursorEmitter.On(l)
}

func (e *Buffer) OnContentChanged(l emitter.Listener[ContentChangedEvent]) emitter.Subscription {
	return e.contentEmitter.On(l)
}

func (e *Buffer) OnSelectionChanged(l emitter.Listener[SelectionChangedEvent]) emitter.Subscription {
	return e.selectionEmitter.On(l)
}

// GetPrimaryCursor returns the buffer's only cursor.
func (e *Buffer) GetPrimaryCursor() Cursor {
	e.mu.Lock()
	defer e.mu.Unlock()
	return e.cursor
}

// GetCursor returns cursor i. Only i == 0 exists; this implementation
// carries a single primary cursor (spec leaves multi-cursor unspecified).
func (e *Buffer) GetCursor(i int) (Cursor, bool) {
	e.mu.Lock()
	defer e.mu.Unlock()
	if i != 0 {
		return Cursor{}, false
	}
	return e.cursor, true
}

// GetEOL returns the display-width offset of the end of the cursor's
// current logical line.
func (e *Buffer) GetEOL() int {
	e.mu.Lock()
	row := e.cursor.Row
	e.mu.Unlock()
	return e.buf.OffsetAt(row, e.buf.LineWidth(row))
}

// GetLineCount returns the number of logical lines in the wrapped buffer.
func (e *Buffer) GetLineCount() int {
	return e.buf.GetLineCount()
}

// LineWidth returns logical line row's display width in the wrapped
// buffer.
func (e *Buffer) LineWidth(row int) int {
	return e.buf.LineWidth(row)
}

// GetText writes the full document into out, returning the byte count.
func (e *Buffer) GetText(out io.Writer) int {
	n, _ := io.WriteString(out, e.buf.Text())
	return n
}

// GetTextRange writes the document-wide range [start,end) into out.
func (e *Buffer) GetTextRange(start, end int, out io.Writer) int {
	n, _ := io.WriteString(out, e.buf.TextRange(start, end))
	return n
}

// SetSelectionRange marks [start,end) (document-wide display-width
// offsets) as the buffer's active selection and emits SelectionChanged.
// This is the selection an editor view feeds into a TextBufferView for
// rendering; the EditBuffer is its authority per spec §6.3's
// SelectionChanged event.
func (e *Buffer) SetSelectionRange(start, end int) {
	e.mu.Lock()
	if start > end {
		start, end = end, start
	}
	e.selStart, e.selEnd = start, end
	e.selActive = start != end
	evt := SelectionChangedEvent{Start: start, End: end, Active: e.selActive}
	e.mu.Unlock()
	e.selectionEmitter.Emit(evt)
}

// ClearSelection drops the active selection and emits SelectionChanged.
func (e *Buffer) ClearSelection() {
	e.mu.Lock()
	e.selStart, e.selEnd = 0, 0
	e.selActive = false
	e.mu.Unlock()
	e.selectionEmitter.Emit(SelectionChangedEvent{})
}

// GetSelectionRange returns the active selection and whether one exists.
func (e *Buffer) GetSelectionRange() (start, end int, active bool) {
	e.mu.Lock()
	defer e.mu.Unlock()
	return e.selStart, e.selEnd, e.selActive
}

// setCursorCoords clamps (row, col), updates the cursor's offset, resets
// desiredCol to col (used by horizontal motion; vertical motion calls
// setCursorCoordsPreserveDesired instead), and emits CursorChanged if the
// position actually moved.
func (e *Buffer) setCursorCoords(row, col int) {
	e.setCursor(row, col, -1)
}

// setCursorCoordsPreserveDesired is setCursorCoords but keeps the caller's
// desiredCol instead of resetting it to col (spec §4.6: vertical motion
// restores desired_col; it is reset only by horizontal motion).
func (e *Buffer) setCursorCoordsPreserveDesired(row, col, desiredCol int) {
	e.setCursor(row, col, desiredCol)
}

func (e *Buffer) setCursor(row, col, desiredCol int) {
	e.mu.Lock()
	n := e.buf.GetLineCount()
	if row < 0 {
		row = 0
	}
	if row >= n {
		row = n - 1
	}
	w := e.buf.LineWidth(row)
	if col < 0 {
		col = 0
	}
	if col > w {
		col = w
	}
	if desiredCol < 0 {
		desiredCol = col
	}
	offset := e.buf.OffsetAt(row, col)
	changed := row != e.cursor.Row || col != e.cursor.Col
	e.cursor = Cursor{Row: row, Col: col, DesiredCol: desiredCol, Offset: offset}
	c := e.cursor
	e.mu.Unlock()
	if changed {
		e.cursorEmitter.Emit(CursorChangedEvent{Cursor: c})
	}
}

// mutate snapshots the document, runs op, and — if the content actually
// changed — pushes a HistoryEntry, clears the redo stack, and emits
// ContentChanged. op's own error, if any, is returned; a failed op never
// touches history.
func (e *Buffer) mutate(op func() error) error {
	before := e.buf.Text()
	if err := op(); err != nil {
		return err
	}
	after := e.buf.Text()
	if before == after {
		return nil
	}
	e.recordHistory(before, after)
	e.contentEmitter.Emit(ContentChangedEvent{Epoch: e.buf.GetContentEpoch()})
	return nil
}

func (e *Buffer) recordHistory(before, after string) {
	e.mu.Lock()
	defer e.mu.Unlock()
	e.undo = append(e.undo, HistoryEntry{Before: before, After: after, Diff: computeDiff(before, after)})
	if e.maxHistory > 0 && len(e.undo) > e.maxHistory {
		e.undo = e.undo[len(e.undo)-e.maxHistory:]
	}
	e.redo = nil
}

func computeDiff(before, after string) string {
	uri := span.URIFromPath(diffURI)
	edits := myers.ComputeEdits(uri, before, after)
	if len(edits) == 0 {
		return ""
	}
	return fmt.Sprint(gotextdiff.ToUnified(diffURI, diffURI, before, edits))
}
