package editorview

import (
	"testing"

	"github.com/xonecas/symb/internal/editbuffer"
	"github.com/xonecas/symb/internal/graphemepool"
	"github.com/xonecas/symb/internal/textbuffer"
	"github.com/xonecas/symb/internal/textview"
	"github.com/xonecas/symb/internal/textwidth"
)

func newTestView(t *testing.T, text string) (*editbuffer.Buffer, *textview.View, *View) {
	t.Helper()
	pool := graphemepool.New([]int{8, 16, 32}, 64)
	buf := textbuffer.New(pool, textwidth.Unicode, 4)
	if err := buf.SetText([]byte(text)); err != nil {
		t.Fatalf("SetText: %v", err)
	}
	tv := textview.New(buf)
	edit := editbuffer.New(buf)
	return edit, tv, New(edit, tv)
}

func TestLogicalToVisualCursorAcrossWrap(t *testing.T) {
	_, tv, ev := newTestView(t, "ABCDEFGHIJKLMNOPQRST")
	tv.SetWrapMode(textview.WrapChar)
	tv.SetWrapWidth(10)

	vrow, vcol := ev.LogicalToVisualCursor(0, 15)
	if vrow != 1 || vcol != 5 {
		t.Errorf("LogicalToVisualCursor(0,15) = (%d,%d), want (1,5)", vrow, vcol)
	}
}

func TestVisualToLogicalCursorRoundTrip(t *testing.T) {
	_, tv, ev := newTestView(t, "ABCDEFGHIJKLMNOPQRST")
	tv.SetWrapMode(textview.WrapChar)
	tv.SetWrapWidth(10)

	row, col, ok := ev.VisualToLogicalCursor(1, 5)
	if !ok || row != 0 || col != 15 {
		t.Errorf("VisualToLogicalCursor(1,5) = (%d,%d,%v), want (0,15,true)", row, col, ok)
	}
	if _, _, ok := ev.VisualToLogicalCursor(5, 0); ok {
		t.Error("VisualToLogicalCursor with out-of-range vrow reported ok")
	}
}

func TestMoveUpDownVisualPreservesDesiredVisualCol(t *testing.T) {
	edit, tv, ev := newTestView(t, "hello\nhi\nworld")
	tv.SetWrapMode(textview.WrapNone)
	edit.SetCursor(0, 4)

	ev.MoveDownVisual()
	c := edit.GetPrimaryCursor()
	if c.Row != 1 || c.Col != 2 {
		t.Fatalf("after MoveDownVisual = %+v, want row1 col2 (clamped to \"hi\")", c)
	}

	ev.MoveDownVisual()
	c = edit.GetPrimaryCursor()
	if c.Row != 2 || c.Col != 4 {
		t.Fatalf("after second MoveDownVisual = %+v, want row2 col4 (desired col restored)", c)
	}
}

func TestMoveLeftResetsDesiredVisualCol(t *testing.T) {
	edit, tv, ev := newTestView(t, "hello\nhi\nworld")
	tv.SetWrapMode(textview.WrapNone)
	edit.SetCursor(0, 4)
	ev.MoveDownVisual() // pins desiredVisualCol at 4, lands at row1 col2
	ev.MoveLeft()       // should clear the pin
	if ev.desiredVisualCol != desiredVisualColUnset {
		t.Errorf("desiredVisualCol after MoveLeft = %d, want unset", ev.desiredVisualCol)
	}
}

func TestEnsureCursorVisibleScrollsToMargin(t *testing.T) {
	lines := "l0\nl1\nl2\nl3\nl4\nl5\nl6\nl7\nl8\nl9"
	edit, tv, ev := newTestView(t, lines)
	tv.SetWrapMode(textview.WrapNone)
	tv.SetViewport(0, 0, 10, 4)
	ev.SetScrollMargin(0.25) // marginCells(0.25,4) = round(1) = 1

	edit.SetCursor(8, 0)
	vp := tv.GetViewport()
	if vp.Y != 6 {
		t.Errorf("viewport.Y after scrolling to row8 = %d, want 6 (8 - (4-1-1))", vp.Y)
	}
}

func TestActiveViewSwitchesToPlaceholderWhenEmpty(t *testing.T) {
	edit, tv, ev := newTestView(t, "")
	pool := graphemepool.New([]int{8, 16, 32}, 64)
	phBuf := textbuffer.New(pool, textwidth.Unicode, 4)
	_ = phBuf.SetText([]byte("type something"))
	phView := textview.New(phBuf)
	ev.SetPlaceholder(phView)

	if ev.ActiveView() != phView {
		t.Error("ActiveView() on an empty buffer did not switch to the placeholder")
	}
	if err := edit.InsertText("x"); err != nil {
		t.Fatalf("InsertText: %v", err)
	}
	if ev.ActiveView() != tv {
		t.Error("ActiveView() after content was typed did not switch back")
	}
}
