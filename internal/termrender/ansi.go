// Package termrender turns a cellbuffer.Grid into ANSI terminal output.
// This is deliberately outside the engine proper (spec's Non-goals list
// "terminal capability detection, ANSI emission, and the draw loop"
// explicitly) — cmd/symbview is the only caller.
package termrender

import (
	"strings"

	"charm.land/lipgloss/v2"
	"github.com/xonecas/symb/internal/cellbuffer"
	"github.com/xonecas/symb/internal/graphemepool"
	"github.com/xonecas/symb/internal/styletable"
	"github.com/xonecas/symb/internal/textwidth"
)

// lipglossStyle builds the lipgloss.Style for a StyleDefinition, the same
// Foreground/Background/Bold chain the teacher builds per-token, e.g.
// internal/tui/editor/editor.go's bgForRender and internal/tui/styles.go.
func lipglossStyle(d styletable.StyleDefinition) lipgloss.Style {
	s := lipgloss.NewStyle()
	if d.HasFG() {
		s = s.Foreground(lipgloss.Color(d.FG))
	}
	if d.HasBG() {
		s = s.Background(lipgloss.Color(d.BG))
	}
	if d.Attrs.Has(styletable.Bold) {
		s = s.Bold(true)
	}
	if d.Attrs.Has(styletable.Dim) {
		s = s.Faint(true)
	}
	if d.Attrs.Has(styletable.Italic) {
		s = s.Italic(true)
	}
	if d.Attrs.Has(styletable.Underline) {
		s = s.Underline(true)
	}
	return s
}

// RenderRow paints one grid row as a single ANSI-styled string.
func RenderRow(g *cellbuffer.Grid, y int, pool *graphemepool.Pool) string {
	return renderCells(rowCells(g, y), pool)
}

// rowCells copies one grid row out as a plain cell slice, the shape both
// RenderRow and WrapCells/RenderWrapped operate on.
func rowCells(g *cellbuffer.Grid, y int) []cellbuffer.Cell {
	cells := make([]cellbuffer.Cell, g.Width())
	for x := 0; x < g.Width(); x++ {
		cells[x] = g.At(x, y)
	}
	return cells
}

// renderCells paints a cell slice as a single ANSI-styled string.
// Consecutive cells sharing a style are grouped into one run and rendered
// through a single lipgloss.Style.Render call rather than per cell, so a
// run of unstyled text never picks up stray SGR codes. pool resolves
// grapheme-start cells back to their interned bytes; continuation cells
// are skipped, the cluster having already been emitted by its
// grapheme-start cell.
func renderCells(cells []cellbuffer.Cell, pool *graphemepool.Pool) string {
	var b strings.Builder
	var run strings.Builder
	var active styletable.StyleDefinition
	haveRun := false

	flush := func() {
		if !haveRun {
			return
		}
		if active == (styletable.StyleDefinition{}) {
			b.WriteString(run.String())
		} else {
			b.WriteString(lipglossStyle(active).Render(run.String()))
		}
		run.Reset()
		haveRun = false
	}

	for _, c := range cells {
		if textwidth.IsContinuationChar(c.Char) {
			continue
		}
		if haveRun && c.Style != active {
			flush()
		}
		active = c.Style
		haveRun = true
		run.WriteString(cellText(c, pool))
	}
	flush()
	return b.String()
}

// cellText returns the literal text a single cell contributes: the decoded
// rune for a plain cell, or the interned cluster's bytes for a
// grapheme-start cell.
func cellText(c cellbuffer.Cell, pool *graphemepool.Pool) string {
	if textwidth.IsGraphemeChar(c.Char) {
		b, err := pool.Get(textwidth.GraphemeID(c.Char))
		if err != nil {
			return "" // stale handle
		}
		return string(b)
	}
	return string(textwidth.Rune(c.Char))
}
