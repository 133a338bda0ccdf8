package ui

import (
	"reflect"
	"testing"

	"github.com/charmbracelet/x/ansi"

	internalansi "github.com/five82/debugview/internal/ansi"
	"github.com/five82/debugview/internal/jsontree"
)

func TestRenderJSONLine(t *testing.T) {
	m := Model{theme: GetTheme("Nightfox")}
	bg := NewBgStyle(m.theme.FocusBg)
	lines := jsontree.Lines(jsontree.Build(jsontree.Decode([]byte(`{"b":{},"a":[1,2]}`))), nil)

	want := []string{
		`▾ {`,
		`  ▾ "a": [`,
		`      1,`,
		`      2`,
		`    ],`,
		`    "b": {}`,
		`  }`,
	}
	if len(lines) != len(want) {
		t.Fatalf("lines = %d, want %d", len(lines), len(want))
	}
	for i, l := range lines {
		if got := ansi.Strip(m.renderJSONLine(l, bg, true)); got != want[i] {
			t.Fatalf("line %d = %q, want %q", i, got, want[i])
		}
	}
}

func TestSplitRunLines(t *testing.T) {
	bold := internalansi.Style{Bold: true}
	runs := []internalansi.Run{
		{Text: "a\nb", Style: bold},
		{Text: "c"},
	}
	got := splitRunLines(runs)
	want := [][]internalansi.Run{
		{{Text: "a", Style: bold}},
		{{Text: "b", Style: bold}, {Text: "c"}},
	}
	if !reflect.DeepEqual(got, want) {
		t.Fatalf("splitRunLines = %#v, want %#v", got, want)
	}
}

func TestRenderStyledText_PlainWhenColorOff(t *testing.T) {
	m := Model{theme: GetTheme("Slate")}
	bg := NewBgStyle(m.theme.FocusBg)
	rows := m.renderStyledText("\x1b[31mred\x1b[0m\nnext", "red\nnext", bg, m.theme.Styles().Text)
	if len(rows) != 2 || ansi.Strip(rows[0]) != "red" || ansi.Strip(rows[1]) != "next" {
		t.Fatalf("rows = %q", rows)
	}

	m.color = true
	rows = m.renderStyledText("\x1b[1mBold\x1b[0m Plain", "", bg, m.theme.Styles().Text)
	if len(rows) != 1 || ansi.Strip(rows[0]) != "Bold Plain" {
		t.Fatalf("colored rows = %q", rows)
	}
}
