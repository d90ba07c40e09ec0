// Package textbuffer implements the engine's TextBuffer: an editable,
// styled, grapheme-aware document backed by a segmented rope, addressed
// entirely in display-width offsets (spec §4.4). It owns the rope and the
// content epoch; cursor state and undo history belong to the EditBuffer
// layer above it (spec §4.6), which is expected to wrap every mutating
// call here with its own bookkeeping.
package textbuffer

import (
	"fmt"
	"strings"
	"sync"

	"github.com/xonecas/symb/internal/graphemepool"
	"github.com/xonecas/symb/internal/rope"
	"github.com/xonecas/symb/internal/styletable"
	"github.com/xonecas/symb/internal/textwidth"
)

// StyledChunk is one run of a setStyledText call: literal colors and
// attributes rather than a style_id, since placeholder text (its only
// caller per spec §4.4) has no syntax theme to key into.
type StyledChunk struct {
	Text  string
	FG    string
	BG    string
	Attrs styletable.Attr
}

// Buffer is the TextBuffer: a rope plus the width method and tab policy
// used to build chunks from raw bytes, and the monotonic content_epoch
// every read-path cache keys against (spec §3.10).
type Buffer struct {
	mu       sync.RWMutex
	rope     *rope.Rope
	pool     *graphemepool.Pool
	method   textwidth.Method
	tabWidth int
	epoch    uint64

	// literalStyles holds the synthesized style_ids setStyledText mints
	// for its literal fg/bg/attrs chunks, so every chunk in the rope still
	// resolves through the same style_id -> attrs path a renderer uses for
	// syntax highlighting (spec §4.10), rather than a second styling
	// system living alongside it.
	literalStyles *styletable.Table
	literalSeq    int
}

// New returns an empty Buffer (a single empty logical line, content_epoch
// 0) using pool for grapheme interning and method for width computation.
// tabWidth must be positive; non-positive values fall back to 8.
func New(pool *graphemepool.Pool, method textwidth.Method, tabWidth int) *Buffer {
	if tabWidth <= 0 {
		tabWidth = 8
	}
	return &Buffer{
		rope:          rope.New(),
		pool:          pool,
		method:        method,
		tabWidth:      tabWidth,
		literalStyles: styletable.New(),
	}
}

func (b *Buffer) rebuildFrom(data []byte) error {
	segs, err := segmentsFromText(b.rope, b.pool, b.method, string(data))
	if err != nil {
		return err
	}
	b.rope.SetSegments(segs)
	b.epoch++
	return nil
}

// SetText discards the current rope and rebuilds it from data. Clearing
// undo history and resetting the cursor to (0,0) are the wrapping
// EditBuffer's responsibility (spec §4.4) — this call only rebuilds the
// rope and bumps content_epoch.
func (b *Buffer) SetText(data []byte) error {
	b.mu.Lock()
	defer b.mu.Unlock()
	return b.rebuildFrom(data)
}

// ReplaceText rebuilds the rope exactly as SetText does. It exists as a
// distinct entry point so a wrapping EditBuffer can record it as one
// undoable edit covering the whole previous content, instead of clearing
// history the way SetText's caller is expected to (spec §4.4).
func (b *Buffer) ReplaceText(data []byte) error {
	b.mu.Lock()
	defer b.mu.Unlock()
	return b.rebuildFrom(data)
}

// Append inserts data at the end of the document.
func (b *Buffer) Append(data []byte) error {
	b.mu.Lock()
	defer b.mu.Unlock()
	return b.insertAt(b.rope.TotalWeight(), string(data))
}

// Insert inserts data at the given document-wide display-width offset.
// Returns ErrOutOfBounds if offset is outside [0, getLength()].
func (b *Buffer) Insert(offset int, data []byte) error {
	b.mu.Lock()
	defer b.mu.Unlock()
	if offset < 0 || offset > b.rope.TotalWeight() {
		return ErrOutOfBounds
	}
	return b.insertAt(offset, string(data))
}

func (b *Buffer) insertAt(offset int, s string) error {
	segs, err := segmentsForInsert(b.rope, b.pool, b.method, s)
	if err != nil {
		return err
	}
	b.rope.ReplaceRange(offset, offset, segs)
	b.epoch++
	return nil
}

// DeleteRange removes [start, end) in document-wide display-width offsets.
// Returns ErrOutOfBounds if the range is malformed or exceeds the content.
func (b *Buffer) DeleteRange(start, end int) error {
	b.mu.Lock()
	defer b.mu.Unlock()
	total := b.rope.TotalWeight()
	if start < 0 || end < start || end > total {
		return ErrOutOfBounds
	}
	b.rope.ReplaceRange(start, end, nil)
	b.epoch++
	return nil
}

// SetStyledText clears the buffer and installs chunks as its entire
// content, one line per embedded newline, each chunk's fg/bg/attrs
// registered under a freshly synthesized style_id (spec §4.4).
func (b *Buffer) SetStyledText(chunks []StyledChunk) error {
	b.mu.Lock()
	defer b.mu.Unlock()

	b.literalStyles = styletable.New()
	b.literalSeq = 0

	segs := []rope.Segment{rope.NewLineStart()}
	for _, sc := range chunks {
		for i, line := range splitLines(sc.Text) {
			if i > 0 {
				segs = append(segs, rope.NewLineStart())
			}
			if line == "" {
				continue
			}
			styleID := b.internLiteralStyle(sc.FG, sc.BG, sc.Attrs)
			chunk, err := buildChunk(b.rope, b.pool, b.method, line, styleID, "")
			if err != nil {
				return err
			}
			segs = append(segs, rope.NewText(chunk))
		}
	}
	b.rope.SetSegments(segs)
	b.epoch++
	return nil
}

func (b *Buffer) internLiteralStyle(fg, bg string, attrs styletable.Attr) string {
	b.literalSeq++
	id := fmt.Sprintf("placeholder.%d", b.literalSeq)
	b.literalStyles.Set(id, styletable.StyleDefinition{FG: fg, BG: bg, Attrs: attrs})
	return id
}

// StyleTable returns the table a renderer should consult for style_ids
// produced by the most recent setStyledText call.
func (b *Buffer) StyleTable() *styletable.Table {
	b.mu.RLock()
	defer b.mu.RUnlock()
	return b.literalStyles
}

// SetTabWidth stores n for column-aware tab-width computation downstream
// (spec §4.4: n - (col mod n) for visible columns).
func (b *Buffer) SetTabWidth(n int) {
	b.mu.Lock()
	defer b.mu.Unlock()
	if n <= 0 {
		n = 8
	}
	b.tabWidth = n
}

// TabWidth returns the buffer's configured tab width.
func (b *Buffer) TabWidth() int {
	b.mu.RLock()
	defer b.mu.RUnlock()
	return b.tabWidth
}

// GetMaxLineWidth returns the widest logical line's display width.
func (b *Buffer) GetMaxLineWidth() int {
	b.mu.RLock()
	defer b.mu.RUnlock()
	return b.rope.GetMaxLineWidth()
}

// GetLineCount returns the number of logical lines.
func (b *Buffer) GetLineCount() int {
	b.mu.RLock()
	defer b.mu.RUnlock()
	return b.rope.LineCount()
}

// GetLength returns the document-wide display-width offset space size.
func (b *Buffer) GetLength() int {
	b.mu.RLock()
	defer b.mu.RUnlock()
	return b.rope.TotalWeight()
}

// GetContentEpoch returns the current content_epoch (spec §3.10).
func (b *Buffer) GetContentEpoch() uint64 {
	b.mu.RLock()
	defer b.mu.RUnlock()
	return b.epoch
}

// Text returns the full document as a UTF-8 string, logical lines joined
// by "\n".
func (b *Buffer) Text() string {
	b.mu.RLock()
	defer b.mu.RUnlock()
	var sb strings.Builder
	for row := 0; row < b.rope.LineCount(); row++ {
		if row > 0 {
			sb.WriteByte('\n')
		}
		sb.WriteString(b.lineTextLocked(row))
	}
	return sb.String()
}

// LineText returns logical line row's text, without its line break.
func (b *Buffer) LineText(row int) string {
	b.mu.RLock()
	defer b.mu.RUnlock()
	return b.lineTextLocked(row)
}

// LineWidth returns logical line row's display width.
func (b *Buffer) LineWidth(row int) int {
	b.mu.RLock()
	defer b.mu.RUnlock()
	return b.rope.LineWidthAt(row)
}

// OffsetAt converts (row, col) to a document-wide display-width offset
// (spec §4.3's CoordsToOffset, surfaced here for callers addressing the
// buffer by logical coordinates, such as a TextBufferView).
func (b *Buffer) OffsetAt(row, col int) int {
	b.mu.RLock()
	defer b.mu.RUnlock()
	return b.rope.CoordsToOffset(row, col)
}

// CoordsAt converts a document-wide display-width offset to (row, col)
// (spec §4.3's OffsetToCoords).
func (b *Buffer) CoordsAt(offset int) (row, col int) {
	b.mu.RLock()
	defer b.mu.RUnlock()
	return b.rope.OffsetToCoords(offset)
}

func (b *Buffer) lineTextLocked(row int) string {
	marker, ok := b.rope.GetMarker(rope.SegLineStart, row)
	if !ok {
		return ""
	}
	segs := b.rope.Segments()
	start := marker.SegmentIndex + 1
	end := len(segs)
	if next, ok := b.rope.GetMarker(rope.SegLineStart, row+1); ok {
		end = next.SegmentIndex
	}
	var sb strings.Builder
	for i := start; i < end; i++ {
		if segs[i].Kind == rope.SegText {
			sb.WriteString(chunkText(b.rope, segs[i].Chunk))
		}
	}
	return sb.String()
}

// LogicalChunk is a read-only view of one Text segment of a logical line,
// exposing its grapheme-cluster boundaries and per-cluster widths so a
// TextBufferView can wrap a line without re-deriving grapheme segmentation
// itself (spec §3.7's ChunkView sub-slices a logical chunk at exactly
// these boundaries).
type LogicalChunk struct {
	StyleID       string
	Link          string
	ClusterTexts  []string
	ClusterWidths []int
}

// LineChunks returns logical line row's Text segments, in order.
func (b *Buffer) LineChunks(row int) []LogicalChunk {
	b.mu.RLock()
	defer b.mu.RUnlock()
	return b.lineChunksLocked(row)
}

func (b *Buffer) lineChunksLocked(row int) []LogicalChunk {
	marker, ok := b.rope.GetMarker(rope.SegLineStart, row)
	if !ok {
		return nil
	}
	segs := b.rope.Segments()
	start := marker.SegmentIndex + 1
	end := len(segs)
	if next, ok := b.rope.GetMarker(rope.SegLineStart, row+1); ok {
		end = next.SegmentIndex
	}

	var out []LogicalChunk
	for i := start; i < end; i++ {
		if segs[i].Kind != rope.SegText {
			continue
		}
		c := segs[i].Chunk
		buf := b.rope.Buffer(c.MemID)
		bytes := c.Bytes(buf)
		lc := LogicalChunk{
			StyleID:       c.StyleID,
			Link:          c.Link,
			ClusterWidths: append([]int(nil), c.ClusterWidths...),
		}
		byteOff := 0
		for _, bl := range c.ClusterByteLens {
			lc.ClusterTexts = append(lc.ClusterTexts, string(bytes[byteOff:byteOff+bl]))
			byteOff += bl
		}
		out = append(out, lc)
	}
	return out
}

// TextRange returns the UTF-8 text covering the document-wide display-width
// range [start, end), clamped into bounds. Column boundaries are expected
// to land on grapheme-cluster boundaries, as every offset this package
// hands out (cursor positions, selection endpoints) already does.
func (b *Buffer) TextRange(start, end int) string {
	b.mu.RLock()
	defer b.mu.RUnlock()

	total := b.rope.TotalWeight()
	if start < 0 {
		start = 0
	}
	if end > total {
		end = total
	}
	if start >= end {
		return ""
	}
	startRow, startCol := b.rope.OffsetToCoords(start)
	endRow, endCol := b.rope.OffsetToCoords(end)

	var sb strings.Builder
	for row := startRow; row <= endRow; row++ {
		texts, widths := b.lineClustersLocked(row)
		colFrom := 0
		if row == startRow {
			colFrom = startCol
		}
		colTo := sumInts(widths)
		if row == endRow {
			colTo = endCol
		}
		col := 0
		for i, w := range widths {
			if col >= colFrom && col < colTo {
				sb.WriteString(texts[i])
			}
			col += w
		}
		if row < endRow {
			sb.WriteByte('\n')
		}
	}
	return sb.String()
}

func (b *Buffer) lineClustersLocked(row int) (texts []string, widths []int) {
	for _, lc := range b.lineChunksLocked(row) {
		texts = append(texts, lc.ClusterTexts...)
		widths = append(widths, lc.ClusterWidths...)
	}
	return texts, widths
}

func sumInts(xs []int) int {
	total := 0
	for _, x := range xs {
		total += x
	}
	return total
}

func chunkText(rp *rope.Rope, c rope.Chunk) string {
	buf := rp.Buffer(c.MemID)
	if buf == nil {
		return ""
	}
	return string(c.Bytes(buf))
}
