package ui

import (
	"testing"

	"github.com/five82/debugview/internal/jsontree"
	"github.com/five82/debugview/internal/logstore"
)

func TestThemeLookups(t *testing.T) {
	if got := GetTheme("missing").Name; got != "Nightfox" {
		t.Fatalf("GetTheme fallback = %q, want Nightfox", got)
	}
	if got := NextTheme("Slate"); got != "Nightfox" {
		t.Fatalf("NextTheme(Slate) = %q, want Nightfox", got)
	}
	if got := NextTheme("unknown"); got != ThemeNames()[0] {
		t.Fatalf("NextTheme(unknown) = %q, want %q", got, ThemeNames()[0])
	}

	th := GetTheme("Kanagawa")
	if th.TagColor("custom") != th.TagColor("custom") {
		t.Fatal("TagColor is not stable for custom tags")
	}
	if th.TagColor(logstore.TagError) == th.TagColor(logstore.TagInfo) {
		t.Fatal("ERROR and INFO share a color")
	}
	if got := th.Tint("not a color", 0.5); got != th.Background {
		t.Fatalf("Tint(invalid) = %q, want background %q", got, th.Background)
	}

	p := th.JSON()
	if p.Bracket(len(p.Brackets)) != p.Bracket(0) {
		t.Fatal("bracket colors do not cycle by depth")
	}
	if p.JSONColor(jsontree.Null) != p.JSONColor(jsontree.Bool) {
		t.Fatal("null and bool should share a color")
	}
}
