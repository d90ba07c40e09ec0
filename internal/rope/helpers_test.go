package rope

// asciiText builds a single-chunk Text segment for s, treating every byte
// as its own one-cell grapheme cluster. Good enough for rope-level tests,
// which exercise segment/offset bookkeeping rather than Unicode
// segmentation (that's internal/textwidth's job).
func asciiText(r *Rope, s string) Segment {
	memID := r.RegisterOwnedBuffer([]byte(s))
	widths := make([]int, len(s))
	byteLens := make([]int, len(s))
	for i := range s {
		widths[i] = 1
		byteLens[i] = 1
	}
	return NewText(Chunk{
		MemID:           memID,
		ByteOffset:      0,
		ByteLen:         len(s),
		DisplayWidth:    len(s),
		ClusterWidths:   widths,
		ClusterByteLens: byteLens,
	})
}

func linesRope(r *Rope, lines ...string) {
	segs := make([]Segment, 0, len(lines)*2)
	for i, line := range lines {
		segs = append(segs, NewLineStart())
		if line != "" {
			segs = append(segs, asciiText(r, line))
		}
		_ = i
	}
	r.SetSegments(segs)
}

func textOf(r *Rope, seg Segment) string {
	buf := r.Buffer(seg.Chunk.MemID)
	return string(seg.Chunk.Bytes(buf))
}
