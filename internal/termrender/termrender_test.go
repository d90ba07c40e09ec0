package termrender

import (
	"strings"
	"testing"

	"github.com/xonecas/symb/internal/cellbuffer"
	"github.com/xonecas/symb/internal/graphemepool"
	"github.com/xonecas/symb/internal/styletable"
	"github.com/xonecas/symb/internal/textwidth"
)

func TestRenderRowPlainText(t *testing.T) {
	pool := graphemepool.New([]int{8, 16, 32}, 64)
	g := cellbuffer.NewGrid(5, 1)
	if _, err := cellbuffer.WriteText(g, 0, 0, "hi", textwidth.Unicode, pool, styletable.StyleDefinition{}); err != nil {
		t.Fatalf("WriteText: %v", err)
	}
	row := RenderRow(g, 0, pool)
	if !strings.HasPrefix(row, "hi") {
		t.Errorf("RenderRow() = %q, want prefix %q", row, "hi")
	}
}

func TestRenderRowEmitsSGRForStyle(t *testing.T) {
	pool := graphemepool.New([]int{8, 16, 32}, 64)
	g := cellbuffer.NewGrid(5, 1)
	style := styletable.StyleDefinition{FG: "#ff0000", Attrs: styletable.Bold}
	if _, err := cellbuffer.WriteText(g, 0, 0, "x", textwidth.Unicode, pool, style); err != nil {
		t.Fatalf("WriteText: %v", err)
	}
	row := RenderRow(g, 0, pool)
	if !strings.Contains(row, "\x1b[") {
		t.Errorf("RenderRow() = %q, want an SGR escape sequence for a styled cell", row)
	}
	if !strings.Contains(row, "x") {
		t.Errorf("RenderRow() = %q, want the cell's literal text preserved", row)
	}
}

func TestRenderRowSkipsContinuationCells(t *testing.T) {
	pool := graphemepool.New([]int{8, 16, 32}, 64)
	g := cellbuffer.NewGrid(5, 1)
	if _, err := cellbuffer.WriteText(g, 0, 0, "中x", textwidth.Unicode, pool, styletable.StyleDefinition{}); err != nil {
		t.Fatalf("WriteText: %v", err)
	}
	row := RenderRow(g, 0, pool)
	if row != "中x" {
		t.Errorf("RenderRow() = %q, want \"中x\" (continuation cell skipped)", row)
	}
}

func plainCells(s string) []cellbuffer.Cell {
	cells := make([]cellbuffer.Cell, len(s))
	for i := 0; i < len(s); i++ {
		cells[i] = cellbuffer.Cell{Char: textwidth.PackRune(rune(s[i]))}
	}
	return cells
}

func TestWrapCellsSplitsAtWidth(t *testing.T) {
	lines := WrapCells(plainCells("abcdefghij"), 4)
	if len(lines) != 3 {
		t.Fatalf("WrapCells() = %d lines, want 3", len(lines))
	}
	if len(lines[0]) != 4 || len(lines[1]) != 4 || len(lines[2]) != 2 {
		t.Errorf("WrapCells() line lengths = %d, %d, %d, want 4, 4, 2", len(lines[0]), len(lines[1]), len(lines[2]))
	}
}

func TestWrapCellsKeepsContinuationWithGraphemeStart(t *testing.T) {
	pool := graphemepool.New([]int{8, 16, 32}, 64)
	g := cellbuffer.NewGrid(6, 1)
	// "ab中c" packs to 5 cells: a, b, 中-start, 中-continuation, c.
	if _, err := cellbuffer.WriteText(g, 0, 0, "ab中c", textwidth.Unicode, pool, styletable.StyleDefinition{}); err != nil {
		t.Fatalf("WriteText: %v", err)
	}
	row := make([]cellbuffer.Cell, 5)
	for x := range row {
		row[x] = g.At(x, 0)
	}
	lines := WrapCells(row, 3)
	if len(lines) != 2 {
		t.Fatalf("WrapCells() = %d lines, want 2", len(lines))
	}
	// The wide cluster's start (index 2) must not end up split from its
	// continuation (index 3) by a line boundary at width 3: both must land
	// in the same resulting line.
	if len(lines[0]) != 2 {
		t.Errorf("line 0 = %d cells, want 2 (\"ab\"), got the grapheme split across the boundary", len(lines[0]))
	}
	if len(lines[1]) != 3 {
		t.Errorf("line 1 = %d cells, want 3 (grapheme-start + continuation + \"c\")", len(lines[1]))
	}
}

func TestWrapCellsNoWrapBelowWidth(t *testing.T) {
	lines := WrapCells(plainCells("short"), 10)
	if len(lines) != 1 || len(lines[0]) != 5 {
		t.Errorf("WrapCells() = %v, want a single 5-cell line", lines)
	}
}

func TestRenderWrappedPreservesStylePerLine(t *testing.T) {
	pool := graphemepool.New([]int{8, 16, 32}, 64)
	g := cellbuffer.NewGrid(10, 1)
	style := styletable.StyleDefinition{FG: "#00ff00"}
	if _, err := cellbuffer.WriteText(g, 0, 0, "aaaabbbb", textwidth.Unicode, pool, style); err != nil {
		t.Fatalf("WriteText: %v", err)
	}
	cells := make([]cellbuffer.Cell, 8)
	for x := range cells {
		cells[x] = g.At(x, 0)
	}
	lines := RenderWrapped(cells, 4, pool)
	if len(lines) != 2 {
		t.Fatalf("RenderWrapped() = %d lines, want 2", len(lines))
	}
	for i, line := range lines {
		if !strings.Contains(line, "\x1b[") {
			t.Errorf("line %d = %q, want styled output (style travels with each cell)", i, line)
		}
	}
}
