// Package editorview implements the Editor View coupling layer (spec
// §4.7): scroll-margin bookkeeping and the logical<->visual cursor
// mapping between an EditBuffer's logical (row, col) coordinates and a
// TextBufferView's wrapped virtual-line coordinates. It renders nothing
// itself — cell/ANSI rendering is internal/cellbuffer's job, the way the
// rope/view split keeps TextBuffer from knowing about glyphs either.
package editorview

import (
	"math"

	"github.com/xonecas/symb/internal/editbuffer"
	"github.com/xonecas/symb/internal/textview"
)

// desiredVisualColUnset marks "no visual column pinned yet", distinct
// from a legitimate column of 0.
const desiredVisualColUnset = -1

// View couples one EditBuffer to one TextBufferView, plus an optional
// second TextBufferView shown in its place while the buffer is empty.
type View struct {
	edit *editbuffer.Buffer
	view *textview.View

	margin float64 // fraction of viewport dim kept clear around the cursor, [0, 0.5]

	desiredVisualCol int

	placeholder *textview.View
}

// New couples edit to view and wires EnsureCursorVisible to fire on
// every cursor or content change.
func New(edit *editbuffer.Buffer, view *textview.View) *View {
	v := &View{edit: edit, view: view, desiredVisualCol: desiredVisualColUnset}
	edit.OnCursorChanged(func(editbuffer.CursorChangedEvent) { v.EnsureCursorVisible() })
	edit.OnContentChanged(func(editbuffer.ContentChangedEvent) { v.EnsureCursorVisible() })
	return v
}

// SetScrollMargin sets the scroll margin as a fraction of viewport
// height/width, clamped to [0, 0.5] (spec §4.7).
func (v *View) SetScrollMargin(fraction float64) {
	if fraction < 0 {
		fraction = 0
	}
	if fraction > 0.5 {
		fraction = 0.5
	}
	v.margin = fraction
}

// SetPlaceholder installs pv as the shadow view shown while the buffer
// is empty; pass nil to disable the placeholder.
func (v *View) SetPlaceholder(pv *textview.View) {
	v.placeholder = pv
}

// ActiveView returns the placeholder view when the buffer is empty and a
// placeholder is set, otherwise the buffer's own view (spec §4.6:
// "Placeholder ... view transparently switches to a shadow buffer").
func (v *View) ActiveView() *textview.View {
	if v.placeholder != nil && v.edit.GetLineCount() == 1 && v.edit.LineWidth(0) == 0 {
		return v.placeholder
	}
	return v.view
}

func marginCells(margin float64, dim int) int {
	if dim <= 1 {
		return 0
	}
	m := int(math.Round(margin * float64(dim)))
	if m < 1 {
		m = 1
	}
	if maxM := (dim - 1) / 2; m > maxM {
		m = maxM
	}
	return m
}

func (v *View) clampLogical(row, col int) (int, int) {
	n := v.edit.GetLineCount()
	if row < 0 {
		row = 0
	}
	if row >= n {
		row = n - 1
	}
	w := v.edit.LineWidth(row)
	if col < 0 {
		col = 0
	}
	if col > w {
		col = w
	}
	return row, col
}

// LogicalToVisualCursor clamps (row, col) into the buffer and returns the
// absolute virtual-line coordinates of the virtual line whose source
// line is row and whose column range covers col (spec §4.7).
func (v *View) LogicalToVisualCursor(row, col int) (vrow, vcol int) {
	row, col = v.clampLogical(row, col)
	lines := v.view.GetVirtualLines()
	for i, vl := range lines {
		if vl.SourceLine != row {
			continue
		}
		end := vl.SourceColOffset + vl.Width
		if col >= vl.SourceColOffset && col <= end {
			if i+1 < len(lines) && lines[i+1].SourceLine == row && col == end {
				continue // col belongs to the start of the next wrapped segment
			}
			return i, col - vl.SourceColOffset
		}
	}
	if len(lines) == 0 {
		return 0, 0
	}
	last := lines[len(lines)-1]
	return len(lines) - 1, last.Width
}

// VisualToLogicalCursor maps absolute virtual-line coordinates back to
// logical (row, col), clamping vcol to the line's width. ok is false when
// vrow is out of range (spec §4.7).
func (v *View) VisualToLogicalCursor(vrow, vcol int) (row, col int, ok bool) {
	lines := v.view.GetVirtualLines()
	if vrow < 0 || vrow >= len(lines) {
		return 0, 0, false
	}
	vl := lines[vrow]
	if vcol < 0 {
		vcol = 0
	}
	if vcol > vl.Width {
		vcol = vl.Width
	}
	return vl.SourceLine, vl.SourceColOffset + vcol, true
}

// MoveLeft and MoveRight delegate to the EditBuffer and reset the pinned
// visual column, since horizontal motion always resets desired_visual_col
// (spec §4.7).
func (v *View) MoveLeft()  { v.edit.MoveLeft(); v.desiredVisualCol = desiredVisualColUnset }
func (v *View) MoveRight() { v.edit.MoveRight(); v.desiredVisualCol = desiredVisualColUnset }

// MoveUpVisual and MoveDownVisual move the cursor one virtual line,
// restoring desired_visual_col when revisiting a line narrow enough to
// have clipped it (spec §4.7).
func (v *View) MoveUpVisual()   { v.moveVisual(-1) }
func (v *View) MoveDownVisual() { v.moveVisual(1) }

func (v *View) moveVisual(delta int) {
	cur := v.edit.GetPrimaryCursor()
	vrow, vcol := v.LogicalToVisualCursor(cur.Row, cur.Col)
	target := vcol
	if v.desiredVisualCol != desiredVisualColUnset {
		target = v.desiredVisualCol
	}
	row, col, ok := v.VisualToLogicalCursor(vrow+delta, target)
	if !ok {
		return
	}
	v.desiredVisualCol = target
	v.edit.SetCursor(row, col)
}

// EnsureCursorVisible scrolls the viewport so the cursor sits at least
// marginCells(margin, dim) cells from every edge, clamped to the
// buffer's scroll bounds (spec §4.7).
func (v *View) EnsureCursorVisible() {
	cur := v.edit.GetPrimaryCursor()
	vrow, vcol := v.LogicalToVisualCursor(cur.Row, cur.Col)
	vp := v.view.GetViewport()
	if vp.Height <= 0 || vp.Width <= 0 {
		return
	}

	marginRows := marginCells(v.margin, vp.Height)
	marginCols := marginCells(v.margin, vp.Width)

	y := vp.Y
	if vrow < y+marginRows {
		y = vrow - marginRows
	} else if lastVisible := y + vp.Height - 1 - marginRows; vrow > lastVisible {
		y = vrow - (vp.Height - 1 - marginRows)
	}
	if y < 0 {
		y = 0
	}
	if maxY := v.view.GetVirtualLineCount() - vp.Height; maxY < 0 {
		y = 0
	} else if y > maxY {
		y = maxY
	}

	x := vp.X
	if vcol < x+marginCols {
		x = vcol - marginCols
	} else if lastVisible := x + vp.Width - 1 - marginCols; vcol > lastVisible {
		x = vcol - (vp.Width - 1 - marginCols)
	}
	if x < 0 {
		x = 0
	}

	v.view.SetViewport(x, y, vp.Width, vp.Height)
}
