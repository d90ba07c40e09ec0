package textview

import "unicode"

type charClass int

const (
	classSpace charClass = iota
	classWord
	classHard
)

func classOf(r rune) charClass {
	switch {
	case unicode.IsLetter(r) || unicode.IsDigit(r) || r == '_':
		return classWord
	case r == '-' || r == '/' || isBracketOrQuote(r) || unicode.IsPunct(r):
		return classHard
	default:
		return classSpace
	}
}

func isBracketOrQuote(r rune) bool {
	switch r {
	case '(', ')', '[', ']', '{', '}', '"', '\'', '`':
		return true
	default:
		return false
	}
}

// flatCluster is one grapheme cluster flattened out of a logical line's
// chunk sequence, tagged with which chunk (by index) it came from so a
// wrap break can be translated back into ChunkView sub-slices.
type flatCluster struct {
	text     string
	width    int
	chunkIdx int
	styleID  string
	link     string
}

func flatten(chunks []lineChunk) []flatCluster {
	var out []flatCluster
	for ci, c := range chunks {
		for i, t := range c.ClusterTexts {
			out = append(out, flatCluster{
				text: t, width: c.ClusterWidths[i],
				chunkIdx: ci, styleID: c.StyleID, link: c.Link,
			})
		}
	}
	return out
}

// lineChunk is the subset of textbuffer.LogicalChunk wrap.go needs; kept
// as its own type so this file has no import-time dependency on
// textbuffer (view.go adapts the real type at the call site).
type lineChunk struct {
	StyleID       string
	Link          string
	ClusterTexts  []string
	ClusterWidths []int
}

// expandTab returns a cluster's effective width and whether it renders as
// a tab indicator, given the running display column (spec §4.5: tabs
// expand to n - (col mod n), column-aware).
func expandTab(cluster flatCluster, col, tabWidth int) (width int, isTab bool) {
	if cluster.text != "\t" {
		return cluster.width, false
	}
	if tabWidth <= 0 {
		tabWidth = 8
	}
	return tabWidth - (col % tabWidth), true
}

// breakPoints computes, for one run of flattened clusters, the virtual-line
// break points under mode and wrapWidth. Each returned index i means
// "line N ends at cluster index i (exclusive), line N+1 starts at i".
// wrapWidth <= 0 disables wrapping (WrapNone's own behavior, and a
// degenerate guard for the wrapping modes).
//
// Tab width is computed against the cluster's absolute column within the
// whole logical line (absCol), not the column within its own virtual line,
// so a line's tab stops stay fixed regardless of where it happens to wrap.
// The wrapWidth comparison itself uses the per-attempt local column, which
// resets at the start of every candidate virtual line.
func breakPoints(clusters []flatCluster, mode WrapMode, wrapWidth, tabWidth int) []int {
	if mode == WrapNone || wrapWidth <= 0 || len(clusters) == 0 {
		return []int{len(clusters)}
	}

	var breaks []int
	i := 0
	absCol := 0
	for i < len(clusters) {
		localCol := 0
		scanCol := absCol
		j := i
		lastBoundary := -1
		for j < len(clusters) {
			w, _ := expandTab(clusters[j], scanCol, tabWidth)
			if localCol+w > wrapWidth {
				break
			}
			localCol += w
			scanCol += w
			j++
			if mode == WrapWord && j < len(clusters) && j > i {
				if classOf(firstRune(clusters[j-1].text)) != classOf(firstRune(clusters[j].text)) {
					lastBoundary = j
				}
			}
		}
		if j == i {
			// a single cluster already exceeds wrapWidth: it gets its own
			// line regardless of mode (spec §4.5, char and word modes).
			j = i + 1
			lastBoundary = -1
		}
		breakAt := j
		if mode == WrapWord && lastBoundary > i && lastBoundary < j {
			breakAt = lastBoundary
		}
		breaks = append(breaks, breakAt)
		for k := i; k < breakAt; k++ {
			w, _ := expandTab(clusters[k], absCol, tabWidth)
			absCol += w
		}
		i = breakAt
	}
	return breaks
}

func firstRune(s string) rune {
	for _, r := range s {
		return r
	}
	return 0
}

// mergeChunkViews walks clusters[start:end], expanding tabs against
// absColStart (the cluster run's absolute column within its logical line),
// and coalesces consecutive clusters sharing a style/link into one
// ChunkView the way adjacent Text segments with identical styling render
// as one run.
func mergeChunkViews(clusters []flatCluster, start, end, absColStart, tabWidth int) (width int, views []ChunkView) {
	col := absColStart
	var cur *ChunkView
	for k := start; k < end; k++ {
		c := clusters[k]
		w, isTab := expandTab(c, col, tabWidth)
		col += w
		width += w
		if cur != nil && cur.StyleID == c.styleID && cur.Link == c.link && !isTab && !cur.IsTab {
			cur.Text += c.text
			cur.Width += w
			continue
		}
		views = append(views, ChunkView{StyleID: c.styleID, Link: c.link, Text: c.text, Width: w, IsTab: isTab})
		cur = &views[len(views)-1]
	}
	return width, views
}

// wrapLine builds the VirtualLines for one logical line's flattened
// clusters, walking each break segment into ChunkViews split at chunk
// boundaries (a wrap point may land inside a logical chunk, spec §3.7).
// SourceColOffset accumulates the absolute display column consumed by
// prior virtual lines, not a cluster index.
func wrapLine(sourceLine int, chunks []lineChunk, mode WrapMode, wrapWidth, tabWidth int) []VirtualLine {
	clusters := flatten(chunks)
	breaks := breakPoints(clusters, mode, wrapWidth, tabWidth)

	lines := make([]VirtualLine, 0, len(breaks))
	start := 0
	absCol := 0
	for _, end := range breaks {
		width, views := mergeChunkViews(clusters, start, end, absCol, tabWidth)
		lines = append(lines, VirtualLine{SourceLine: sourceLine, SourceColOffset: absCol, Width: width, Chunks: views})
		absCol += width
		start = end
	}
	if len(lines) == 0 {
		lines = append(lines, VirtualLine{SourceLine: sourceLine})
	}
	return lines
}
