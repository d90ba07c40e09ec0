package termrender

import (
	"github.com/xonecas/symb/internal/cellbuffer"
	"github.com/xonecas/symb/internal/graphemepool"
	"github.com/xonecas/symb/internal/textwidth"
)

// WrapCells splits one logical row of cells into lines of at most width
// cells each. Unlike wrapping an already-rendered ANSI string, there is no
// escape-sequence state to scan for or reopen at a line break: every cell
// already carries its own resolved Style (cellbuffer.Cell.Style), so a
// continuation line is simply the next slice of the same cells.
func WrapCells(row []cellbuffer.Cell, width int) [][]cellbuffer.Cell {
	if width <= 0 || len(row) == 0 {
		return [][]cellbuffer.Cell{row}
	}
	var lines [][]cellbuffer.Cell
	start := 0
	for start < len(row) {
		end := start + width
		if end >= len(row) {
			lines = append(lines, row[start:])
			break
		}
		// Never split a grapheme-start cell from its continuation cells.
		for end > start+1 && textwidth.IsContinuationChar(row[end].Char) {
			end--
		}
		lines = append(lines, row[start:end])
		start = end
	}
	return lines
}

// RenderWrapped wraps cells to width and renders each resulting line, the
// cell-native replacement for wrapping a pre-rendered ANSI string: each
// line is independently renderable because each cell's style travels with
// it, with no reset/reopen bookkeeping required.
func RenderWrapped(cells []cellbuffer.Cell, width int, pool *graphemepool.Pool) []string {
	wrapped := WrapCells(cells, width)
	lines := make([]string, len(wrapped))
	for i, line := range wrapped {
		lines[i] = renderCells(line, pool)
	}
	return lines
}
