// Command symbview is a minimal demo terminal wiring the whole engine
// together: it loads a file (or starts empty) into a TextBuffer, wraps it
// in an EditBuffer + EditorView, and drives a Bubble Tea program that
// paints the active virtual lines into a cellbuffer.Grid and renders that
// grid with termrender.
package main

import (
	"flag"
	"fmt"
	"os"

	tea "charm.land/bubbletea/v2"
	"github.com/rs/zerolog"
	"github.com/rs/zerolog/log"
	"github.com/xonecas/symb/internal/cellbuffer"
	"github.com/xonecas/symb/internal/editbuffer"
	"github.com/xonecas/symb/internal/editorview"
	"github.com/xonecas/symb/internal/graphemepool"
	"github.com/xonecas/symb/internal/styletable"
	"github.com/xonecas/symb/internal/textbuffer"
	"github.com/xonecas/symb/internal/termrender"
	"github.com/xonecas/symb/internal/textview"
	"github.com/xonecas/symb/internal/textwidth"
)

func main() {
	zerolog.SetGlobalLevel(zerolog.WarnLevel)

	path := flag.String("f", "", "file to open (empty buffer if omitted)")
	wrapWidth := flag.Int("wrap", 0, "wrap width in columns (0: no wrap)")
	flag.Parse()

	m, err := newModel(*path, *wrapWidth)
	if err != nil {
		fmt.Fprintf(os.Stderr, "symbview: %v\n", err)
		os.Exit(1)
	}

	p := tea.NewProgram(m, tea.WithAltScreen())
	if _, err := p.Run(); err != nil {
		log.Error().Err(err).Msg("symbview: program exited with error")
		fmt.Fprintf(os.Stderr, "symbview: %v\n", err)
		os.Exit(1)
	}
}

func newModel(path string, wrapWidth int) (*model, error) {
	pool := graphemepool.New([]int{8, 16, 32, 64, 128}, 256)
	buf := textbuffer.New(pool, textwidth.Unicode, 4)

	if path != "" {
		b, err := os.ReadFile(path)
		if err != nil {
			return nil, fmt.Errorf("reading %s: %w", path, err)
		}
		if err := buf.SetText(b); err != nil {
			return nil, fmt.Errorf("loading %s: %w", path, err)
		}
	}

	tv := textview.New(buf)
	if wrapWidth > 0 {
		tv.SetWrapMode(textview.WrapWord)
		tv.SetWrapWidth(wrapWidth)
	}

	placeholderBuf := textbuffer.New(pool, textwidth.Unicode, 4)
	_ = placeholderBuf.SetText([]byte("(empty buffer — start typing)"))
	placeholderView := textview.New(placeholderBuf)

	edit := editbuffer.New(buf)
	ev := editorview.New(edit, tv)
	ev.SetScrollMargin(0.1)
	ev.SetPlaceholder(placeholderView)

	table := styletable.FromChromaTheme("monokai")

	return &model{
		path:  path,
		pool:  pool,
		edit:  edit,
		view:  ev,
		table: table,
	}, nil
}

type model struct {
	path string

	pool  *graphemepool.Pool
	edit  *editbuffer.Buffer
	view  *editorview.View
	table *styletable.Table

	width, height int
	status        string
}

func (m *model) Init() tea.Cmd { return nil }

func (m *model) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.WindowSizeMsg:
		m.width, m.height = msg.Width, msg.Height
		m.view.ActiveView().SetViewportSize(m.width, m.height-1)
		return m, nil

	case tea.KeyPressMsg:
		return m, m.handleKey(msg)
	}
	return m, nil
}

func (m *model) handleKey(msg tea.KeyPressMsg) tea.Cmd {
	switch msg.Keystroke() {
	case "ctrl+c", "esc":
		return tea.Quit
	case "up":
		m.view.MoveUpVisual()
	case "down":
		m.view.MoveDownVisual()
	case "left":
		m.view.MoveLeft()
	case "right":
		m.view.MoveRight()
	case "ctrl+z":
		if m.edit.CanUndo() {
			_ = m.edit.Undo()
			m.status = "undo"
		}
	case "ctrl+y":
		if m.edit.CanRedo() {
			_ = m.edit.Redo()
			m.status = "redo"
		}
	case "backspace":
		_ = m.edit.Backspace()
	case "enter":
		_ = m.edit.InsertText("\n")
	default:
		if msg.Text != "" {
			_ = m.edit.InsertText(msg.Text)
		}
	}
	return nil
}

func (m *model) View() string {
	if m.width == 0 || m.height == 0 {
		return ""
	}
	active := m.view.ActiveView()
	vp := active.GetViewport()

	statusLines := m.renderStatusLines()
	maxFooter := m.height - 1
	if maxFooter < 1 {
		maxFooter = 1
	}
	if len(statusLines) > maxFooter {
		statusLines = statusLines[:maxFooter]
	}
	gridHeight := m.height - len(statusLines)
	if gridHeight < 1 {
		gridHeight = 1
	}

	grid := cellbuffer.NewGrid(m.width, gridHeight)
	for y, vl := range active.GetVirtualLines()[clampStart(vp.Y, active.GetVirtualLineCount()):] {
		if y >= grid.Height() {
			break
		}
		x := -vp.X
		for _, chunk := range vl.Chunks {
			n, err := cellbuffer.WriteChunk(grid, x, y, chunk.Text, chunk.StyleID, textwidth.Unicode, m.pool, m.table)
			if err != nil {
				log.Warn().Err(err).Msg("symbview: failed packing chunk into cell grid")
				break
			}
			x += n
		}
	}

	out := make([]byte, 0, grid.Width()*grid.Height())
	for y := 0; y < grid.Height(); y++ {
		out = append(out, termrender.RenderRow(grid, y, m.pool)...)
		out = append(out, '\n')
	}
	for i, line := range statusLines {
		out = append(out, []byte(line)...)
		if i < len(statusLines)-1 {
			out = append(out, '\n')
		}
	}
	return string(out)
}

// renderStatusLines packs the status line into cells and wraps it to the
// terminal width, so a long file path doesn't silently run off the edge
// the way raw string concatenation would.
func (m *model) renderStatusLines() []string {
	text := m.statusLine()
	scratch := cellbuffer.NewGrid(len(text)+1, 1)
	n, err := cellbuffer.WriteText(scratch, 0, 0, text, textwidth.Unicode, m.pool, styletable.StyleDefinition{})
	if err != nil {
		log.Warn().Err(err).Msg("symbview: failed packing status line")
		return []string{text}
	}
	cells := make([]cellbuffer.Cell, n)
	for x := 0; x < n; x++ {
		cells[x] = scratch.At(x, 0)
	}
	return termrender.RenderWrapped(cells, m.width, m.pool)
}

func clampStart(y, total int) int {
	if y < 0 {
		return 0
	}
	if y > total {
		return total
	}
	return y
}

func (m *model) statusLine() string {
	c := m.edit.GetPrimaryCursor()
	name := m.path
	if name == "" {
		name = "[no file]"
	}
	return fmt.Sprintf("%s — line %d, col %d  %s", name, c.Row+1, c.Col+1, m.status)
}
