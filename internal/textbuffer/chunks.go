package textbuffer

import (
	"unicode/utf8"

	"github.com/xonecas/symb/internal/graphemepool"
	"github.com/xonecas/symb/internal/rope"
	"github.com/xonecas/symb/internal/textwidth"
)

// buildChunk interns s's bytes into r as one owned MemBuffer and returns a
// single Chunk spanning all of it, with one ClusterWidths/ClusterByteLens
// entry per grapheme cluster under method (spec §4.3's "never split inside
// a grapheme" starts here, at construction time).
//
// A cluster gets a zero GraphemeID — no pool allocation — when it is a
// single code point occupying exactly one cell; everything wider than one
// cell or built from more than one code point is interned so the cell
// payload can carry its handle (spec §3.2's GRAPHEME_START/CONTINUATION
// tagging only applies to those).
func buildChunk(r *rope.Rope, pool *graphemepool.Pool, method textwidth.Method, s, styleID, link string) (rope.Chunk, error) {
	if s == "" {
		return rope.Chunk{}, nil
	}
	memID := r.RegisterOwnedBuffer([]byte(s))

	steps := textwidth.Steps(s, method)
	widths := make([]int, len(steps))
	byteLens := make([]int, len(steps))
	gids := make([]graphemepool.ID, len(steps))
	totalWidth := 0

	for i, st := range steps {
		widths[i] = st.Width
		byteLens[i] = len(st.Text)
		totalWidth += st.Width

		if st.Width <= 1 && utf8.RuneCountInString(st.Text) == 1 {
			continue // plain single-cell code point: zero GraphemeID
		}
		id, err := pool.Alloc([]byte(st.Text))
		if err != nil {
			return rope.Chunk{}, ErrOutOfMemory
		}
		if err := pool.Incref(id); err != nil {
			// The deduped handle's refcount saturated at 255 — a materially
			// ordinary case for a long document repeating one grapheme
			// cluster more than 255 times. Mint a fresh slot for this
			// occurrence rather than losing precision or failing outright
			// (spec's forced-chunk-advance-on-saturation policy).
			id, err = pool.AllocForceNew([]byte(st.Text), true)
			if err != nil {
				return rope.Chunk{}, ErrOutOfMemory
			}
			if err := pool.Incref(id); err != nil {
				return rope.Chunk{}, ErrOutOfMemory
			}
		}
		gids[i] = id
	}

	return rope.Chunk{
		MemID:           memID,
		ByteOffset:      0,
		ByteLen:         len(s),
		DisplayWidth:    totalWidth,
		ClusterWidths:   widths,
		ClusterByteLens: byteLens,
		GraphemeIDs:     gids,
		StyleID:         styleID,
		Link:            link,
	}, nil
}

// segmentsFromText splits s on "\n" into logical lines and returns the
// LineStart/Text segment stream a fresh rope needs to represent it (spec
// §3.5: LineStart segments partition the rope).
func segmentsFromText(r *rope.Rope, pool *graphemepool.Pool, method textwidth.Method, s string) ([]rope.Segment, error) {
	lines := splitLines(s)
	segs := make([]rope.Segment, 0, len(lines)*2)
	for _, line := range lines {
		segs = append(segs, rope.NewLineStart())
		if line == "" {
			continue
		}
		chunk, err := buildChunk(r, pool, method, line, "", "")
		if err != nil {
			return nil, err
		}
		segs = append(segs, rope.NewText(chunk))
	}
	return segs, nil
}

// segmentsForInsert builds the segment stream for splicing s into the
// middle of an existing line via ReplaceRange: unlike segmentsFromText, the
// first physical line of s does NOT get a leading LineStart, since it
// continues whatever line it lands in.
func segmentsForInsert(r *rope.Rope, pool *graphemepool.Pool, method textwidth.Method, s string) ([]rope.Segment, error) {
	lines := splitLines(s)
	segs := make([]rope.Segment, 0, len(lines)*2)
	for i, line := range lines {
		if i > 0 {
			segs = append(segs, rope.NewLineStart())
		}
		if line == "" {
			continue
		}
		chunk, err := buildChunk(r, pool, method, line, "", "")
		if err != nil {
			return nil, err
		}
		segs = append(segs, rope.NewText(chunk))
	}
	return segs, nil
}

// splitLines splits s on "\n" the way the segmented rope's LineStart
// markers do: a trailing newline yields a final empty line, and an empty
// string yields exactly one (empty) line.
func splitLines(s string) []string {
	if s == "" {
		return []string{""}
	}
	var lines []string
	start := 0
	for i := 0; i < len(s); i++ {
		if s[i] == '\n' {
			lines = append(lines, s[start:i])
			start = i + 1
		}
	}
	lines = append(lines, s[start:])
	return lines
}
