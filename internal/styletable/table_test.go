package styletable

import "testing"

func TestLookupExactMatch(t *testing.T) {
	tb := New()
	tb.Set("markup.heading.2", StyleDefinition{FG: "#ff0000", Attrs: Bold})
	got := tb.Lookup("markup.heading.2")
	if got.FG != "#ff0000" || !got.Attrs.Has(Bold) {
		t.Errorf("Lookup(exact) = %+v, want fg=#ff0000 bold", got)
	}
}

func TestLookupFallsBackThroughDottedPath(t *testing.T) {
	tb := New()
	tb.Set("markup.link", StyleDefinition{FG: "#0000ff"})
	got := tb.Lookup("markup.link.url")
	if got.FG != "#0000ff" {
		t.Errorf("Lookup(markup.link.url) = %+v, want fallback to markup.link", got)
	}
}

func TestLookupFallsBackToTopLevel(t *testing.T) {
	tb := New()
	tb.Set("markup", StyleDefinition{FG: "#00ff00"})
	got := tb.Lookup("markup.heading.3")
	if got.FG != "#00ff00" {
		t.Errorf("Lookup(markup.heading.3) = %+v, want fallback to markup", got)
	}
}

func TestLookupFallsBackToDefault(t *testing.T) {
	tb := New()
	tb.SetDefault(StyleDefinition{FG: "#888888"})
	got := tb.Lookup("comment.line")
	if got.FG != "#888888" {
		t.Errorf("Lookup(unset) = %+v, want default", got)
	}
}

func TestLookupDefaultGroupTakesPrecedenceOverZeroDefault(t *testing.T) {
	tb := New()
	tb.Set("default", StyleDefinition{FG: "#111111"})
	tb.SetDefault(StyleDefinition{FG: "#222222"})
	got := tb.Lookup("nothing.registered")
	if got.FG != "#111111" {
		t.Errorf("Lookup(nothing.registered) = %+v, want the \"default\" group entry", got)
	}
}

func TestAttrHas(t *testing.T) {
	a := Bold | Underline
	if !a.Has(Bold) || !a.Has(Underline) {
		t.Errorf("Has(Bold/Underline) false for %v", a)
	}
	if a.Has(Italic) {
		t.Errorf("Has(Italic) true for %v, want false", a)
	}
}

func TestFromChromaThemePopulatesEntries(t *testing.T) {
	tb := FromChromaTheme("monokai")
	// Whatever Chroma's exact group names are, a populated theme should at
	// least resolve an arbitrary dotted style_id to *something* via the
	// default fallback, never panicking on an unknown group.
	_ = tb.Lookup("keyword.declaration.unknownleaf")
}
