package textview

// truncateLine clips one logical line's flattened clusters to a single
// virtual line of at most viewportWidth cells, as prefix + "..." + suffix
// (spec §4.5). viewportWidth < 4 leaves no room for a 3-cell ellipsis plus
// any text, so the line is cleared. A line that already fits within
// viewportWidth is returned untouched.
//
// The available budget (viewportWidth - 3) is split evenly between prefix
// and suffix so truncation shows both the head and the tail of the line;
// the prefix is built greedily from the start up to its half, then the
// suffix's target absorbs whatever the prefix didn't use (budget -
// prefixWidth) so the exact identity prefix_width + 3 + suffix_width ==
// viewport.width holds whenever the line is single-width throughout.
// Neither walk ever splits a grapheme cluster.
func truncateLine(sourceLine int, chunks []lineChunk, tabWidth, viewportWidth int) VirtualLine {
	clusters := flatten(chunks)
	if viewportWidth < 4 || len(clusters) == 0 {
		return VirtualLine{SourceLine: sourceLine}
	}

	colWidths := make([]int, len(clusters))
	totalWidth, col := 0, 0
	for i, c := range clusters {
		w, _ := expandTab(c, col, tabWidth)
		colWidths[i] = w
		col += w
		totalWidth += w
	}
	if totalWidth <= viewportWidth {
		width, views := mergeChunkViews(clusters, 0, len(clusters), 0, tabWidth)
		return VirtualLine{SourceLine: sourceLine, Width: width, Chunks: views}
	}

	budget := viewportWidth - 3
	prefixBudget := budget / 2

	prefixEnd, prefixWidth := 0, 0
	for prefixEnd < len(clusters) {
		w := colWidths[prefixEnd]
		if prefixWidth+w > prefixBudget {
			break
		}
		prefixWidth += w
		prefixEnd++
	}

	suffixTarget := budget - prefixWidth
	suffixStart, suffixWidth := len(clusters), 0
	for suffixStart > prefixEnd {
		w := colWidths[suffixStart-1]
		if suffixWidth+w > suffixTarget {
			break
		}
		suffixWidth += w
		suffixStart--
	}

	_, prefixViews := mergeChunkViews(clusters, 0, prefixEnd, 0, tabWidth)
	_, suffixViews := mergeChunkViews(clusters, suffixStart, len(clusters), 0, tabWidth)

	views := make([]ChunkView, 0, len(prefixViews)+1+len(suffixViews))
	views = append(views, prefixViews...)
	views = append(views, ChunkView{Text: "...", Width: 3})
	views = append(views, suffixViews...)

	return VirtualLine{
		SourceLine: sourceLine,
		Width:      prefixWidth + 3 + suffixWidth,
		Chunks:     views,
	}
}
