// Package cellbuffer implements the Optimized Cell Buffer's engine-side
// boundary (spec §2.12): a fixed-size grid of cells carrying fg/bg/attrs
// plus a textwidth.EncodedChar payload, and the glue that packs one
// textview.ChunkView's text into a run of grid cells. Everything past this
// — terminal capability detection, ANSI emission, and the draw loop that
// actually paints a grid — is out of scope here; cmd/symbview owns that.
package cellbuffer

import (
	"unicode/utf8"

	"github.com/xonecas/symb/internal/graphemepool"
	"github.com/xonecas/symb/internal/styletable"
	"github.com/xonecas/symb/internal/textwidth"
)

// Cell is one terminal cell: a payload plus the resolved style to paint it
// with. Continuation cells (see textwidth.IsContinuationChar) carry the
// same style as their grapheme-start cell but an empty/zero Char only in
// the sense that callers must not attempt to decode a rune from them.
type Cell struct {
	Char  textwidth.EncodedChar
	Style styletable.StyleDefinition
}

// blank is the cell a Grid is filled/cleared with.
var blank = Cell{Char: textwidth.PackRune(' ')}

// Grid is a fixed-size rectangular array of cells, row-major. It is the
// contract a TextBufferView's virtual lines get painted into; nothing in
// this package knows how to turn a Grid into terminal output.
type Grid struct {
	width, height int
	cells         []Cell
}

// NewGrid allocates a width x height grid filled with blank cells.
func NewGrid(width, height int) *Grid {
	g := &Grid{width: width, height: height}
	g.cells = make([]Cell, width*height)
	g.Clear()
	return g
}

// Width and Height report the grid's dimensions.
func (g *Grid) Width() int  { return g.width }
func (g *Grid) Height() int { return g.height }

// Clear resets every cell to blank.
func (g *Grid) Clear() {
	for i := range g.cells {
		g.cells[i] = blank
	}
}

// Resize reallocates the grid to the new dimensions, discarding contents.
// A no-op if the dimensions are unchanged.
func (g *Grid) Resize(width, height int) {
	if width == g.width && height == g.height {
		return
	}
	g.width, g.height = width, height
	g.cells = make([]Cell, width*height)
	g.Clear()
}

func (g *Grid) inBounds(x, y int) bool {
	return x >= 0 && x < g.width && y >= 0 && y < g.height
}

// At returns the cell at (x, y), or the zero Cell if out of bounds.
func (g *Grid) At(x, y int) Cell {
	if !g.inBounds(x, y) {
		return Cell{}
	}
	return g.cells[y*g.width+x]
}

// Set writes c into (x, y). Out-of-bounds writes are silently dropped, the
// same "clip, don't panic" contract a viewport-backed view relies on.
func (g *Grid) Set(x, y int, c Cell) {
	if !g.inBounds(x, y) {
		return
	}
	g.cells[y*g.width+x] = c
}

// WriteText packs text into row y of the grid starting at column x, one
// grid cell per terminal column, interning any cluster wider than one
// plain code point into pool (the same split buildChunk applies when a
// TextBuffer first stores the line — this is that encoding applied again
// at the paint boundary, where a ChunkView only carries plain text). It
// returns the number of columns the text occupies, even past the edge of
// the grid (individual out-of-bounds cell writes are silently dropped by
// Set, but the column count a caller advances its cursor by is unaffected).
func WriteText(g *Grid, x, y int, text string, method textwidth.Method, pool *graphemepool.Pool, style styletable.StyleDefinition) (int, error) {
	col := x
	for _, st := range textwidth.Steps(text, method) {
		w := st.Width
		if w <= 0 {
			w = 1
		}

		if st.Width <= 1 && utf8.RuneCountInString(st.Text) == 1 {
			r, _ := utf8.DecodeRuneInString(st.Text)
			g.Set(col, y, Cell{Char: textwidth.PackRune(r), Style: style})
			col++
			continue
		}

		gid, err := pool.Alloc([]byte(st.Text))
		if err != nil {
			return col - x, err
		}
		if err := pool.Incref(gid); err != nil {
			// Saturated at 255 live references to the deduped cluster — an
			// ordinary occurrence for a grid repainting the same wide emoji
			// or accented letter across many cells. Mint a fresh slot for
			// this cell instead of failing the whole paint.
			gid, err = pool.AllocForceNew([]byte(st.Text), true)
			if err != nil {
				return col - x, err
			}
			if err := pool.Incref(gid); err != nil {
				return col - x, err
			}
		}
		g.Set(col, y, Cell{Char: textwidth.PackGraphemeStart(gid, w), Style: style})
		for k := 1; k < w; k++ {
			g.Set(col+k, y, Cell{Char: textwidth.PackContinuation(k, w-1-k, gid), Style: style})
		}
		col += w
	}
	return col - x, nil
}

// WriteChunk resolves styleID through table and writes text at (x, y),
// exactly the call a renderer makes once per textview.ChunkView: styleID
// and text come straight off ChunkView.StyleID/ChunkView.Text. Kept as a
// free function rather than a ChunkView method to avoid this package
// importing internal/textview for a single field read.
func WriteChunk(g *Grid, x, y int, text, styleID string, method textwidth.Method, pool *graphemepool.Pool, table *styletable.Table) (int, error) {
	return WriteText(g, x, y, text, method, pool, table.Lookup(styleID))
}
