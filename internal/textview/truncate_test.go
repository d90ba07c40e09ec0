package textview

import "testing"

// S4: truncation contract.
func TestTruncateEllipsisContract(t *testing.T) {
	chunks := []lineChunk{chunk("ABCDEFGHIJKLMNOPQRST", 20)}
	line := truncateLine(0, chunks, 4, 10)

	if len(line.Chunks) != 3 {
		t.Fatalf("len(Chunks) = %d, want 3 (prefix, ellipsis, suffix)", len(line.Chunks))
	}
	prefix, ellipsis, suffix := line.Chunks[0], line.Chunks[1], line.Chunks[2]
	if ellipsis.Text != "..." {
		t.Errorf("ellipsis.Text = %q, want %q", ellipsis.Text, "...")
	}
	if got := prefix.Width + ellipsis.Width + suffix.Width; got != 10 {
		t.Errorf("prefix.Width(%d) + ellipsis.Width(%d) + suffix.Width(%d) = %d, want 10",
			prefix.Width, ellipsis.Width, suffix.Width, got)
	}
	if line.Width != 10 {
		t.Errorf("line.Width = %d, want 10", line.Width)
	}
}

func TestTruncateClearsLineUnderMinWidth(t *testing.T) {
	chunks := []lineChunk{chunk("hello world", 11)}
	line := truncateLine(0, chunks, 4, 3)
	if line.Width != 0 || len(line.Chunks) != 0 {
		t.Errorf("truncateLine with viewportWidth<4 = %+v, want cleared line", line)
	}
}

func TestTruncateLeavesShortLineUntouched(t *testing.T) {
	chunks := []lineChunk{chunk("hi", 2)}
	line := truncateLine(0, chunks, 4, 10)
	if line.Width != 2 || len(line.Chunks) != 1 || line.Chunks[0].Text != "hi" {
		t.Errorf("truncateLine on a line that already fits = %+v, want untouched", line)
	}
}
