// Package styletable implements the Syntax-Style Table (spec §4.10): an
// opaque style_id string ("markup.heading.2", "markup.link.url", ...) maps
// to fg/bg/attribute bits, with dotted-path fallback from the most specific
// group down to a default. It is deliberately decoupled from any actual
// syntax-highlighting grammar — lexing/tokenising text into style_ids is a
// caller concern (non-goal here), the same separation the teacher's
// internal/highlight keeps between Chroma lexing and style lookup.
package styletable

import (
	"strings"
	"sync"
)

// Attr is a packed bitset of text attributes a StyleDefinition can set.
type Attr uint8

const (
	Bold Attr = 1 << iota
	Italic
	Underline
	Dim
)

// Has reports whether a is set in the bitset.
func (a Attr) Has(flag Attr) bool { return a&flag != 0 }

// StyleDefinition is the value a group resolves to: optional fg/bg colors
// ("" means unset, inherit from whatever the caller's base style already
// has) plus an attribute bitset.
type StyleDefinition struct {
	FG    string // "#rrggbb", "" if unset
	BG    string // "#rrggbb", "" if unset
	Attrs Attr
}

// HasFG reports whether a foreground color is set.
func (d StyleDefinition) HasFG() bool { return d.FG != "" }

// HasBG reports whether a background color is set.
func (d StyleDefinition) HasBG() bool { return d.BG != "" }

// Table resolves style_id groups to StyleDefinitions with dotted-path
// fallback: "a.b.c" falls back to "a.b", then "a", then the table's default.
type Table struct {
	mu      sync.RWMutex
	entries map[string]StyleDefinition
	def     StyleDefinition
}

// New returns an empty table; Lookup on any group returns the zero
// StyleDefinition until Set/SetDefault populate it.
func New() *Table {
	return &Table{entries: make(map[string]StyleDefinition)}
}

// Set registers (or replaces) the definition for an exact group name.
func (t *Table) Set(group string, def StyleDefinition) {
	t.mu.Lock()
	defer t.mu.Unlock()
	t.entries[group] = def
}

// SetDefault sets the style returned when no group in the fallback chain
// (including "default" itself) matches.
func (t *Table) SetDefault(def StyleDefinition) {
	t.mu.Lock()
	defer t.mu.Unlock()
	t.def = def
}

// Lookup resolves group via a.b.c -> a.b -> a -> "default" -> Table's
// zero-value default, returning the first match.
func (t *Table) Lookup(group string) StyleDefinition {
	t.mu.RLock()
	defer t.mu.RUnlock()

	g := group
	for {
		if def, ok := t.entries[g]; ok {
			return def
		}
		idx := strings.LastIndexByte(g, '.')
		if idx < 0 {
			break
		}
		g = g[:idx]
	}
	if def, ok := t.entries["default"]; ok {
		return def
	}
	return t.def
}
