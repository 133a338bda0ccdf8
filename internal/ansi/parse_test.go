package ansi

import (
	"reflect"
	"testing"
)

func TestParse(t *testing.T) {
	tests := []struct {
		name string
		raw  string
		want []Run
	}{
		{
			name: "empty input",
			raw:  "",
			want: nil,
		},
		{
			name: "no escapes",
			raw:  "hello world",
			want: []Run{{Text: "hello world"}},
		},
		{
			name: "bold then reset",
			raw:  "\x1b[1mBold\x1b[0m Plain",
			want: []Run{
				{Text: "Bold", Style: Style{Bold: true}},
				{Text: " Plain"},
			},
		},
		{
			name: "adjacent codes accumulate",
			raw:  "\x1b[1m\x1b[4m\x1b[31mX",
			want: []Run{{Text: "X", Style: Style{Bold: true, Underline: true, Foreground: "#FF3B30"}}},
		},
		{
			name: "code after text starts a fresh stack",
			raw:  "\x1b[1mA\x1b[32mB",
			want: []Run{
				{Text: "A", Style: Style{Bold: true}},
				{Text: "B", Style: Style{Foreground: "#34C759"}},
			},
		},
		{
			name: "later color wins",
			raw:  "\x1b[31m\x1b[36mX",
			want: []Run{{Text: "X", Style: Style{Foreground: "#66FFFF"}}},
		},
		{
			name: "reset clears accumulated codes",
			raw:  "\x1b[1m\x1b[0mX",
			want: []Run{{Text: "X"}},
		},
		{
			name: "background and bright codes",
			raw:  "\x1b[97m\x1b[104mX",
			want: []Run{{Text: "X", Style: Style{Foreground: "#FFFFFF", Background: "#5AC8FA"}}},
		},
		{
			name: "text before first escape is unstyled",
			raw:  "pre\x1b[3mpost",
			want: []Run{
				{Text: "pre"},
				{Text: "post", Style: Style{Italic: true}},
			},
		},
		{
			name: "compound code is stripped without style",
			raw:  "\x1b[1;31mX\x1b[0m",
			want: []Run{{Text: "X"}},
		},
		{
			name: "recognized unstyled codes",
			raw:  "\x1b[2m\x1b[5m\x1b[7m\x1b[8mX",
			want: []Run{{Text: "X"}},
		},
		{
			name: "malformed escape passes through",
			raw:  "a\x1b[31b\x1b[",
			want: []Run{{Text: "a\x1b[31b\x1b["}},
		},
		{
			name: "only escapes yields nothing",
			raw:  "\x1b[1m\x1b[0m",
			want: nil,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := Parse(tt.raw)
			if len(got) == 0 && len(tt.want) == 0 {
				return
			}
			if !reflect.DeepEqual(got, tt.want) {
				t.Errorf("Parse(%q) = %#v, want %#v", tt.raw, got, tt.want)
			}
		})
	}
}

func TestParse_RunsConcatenateToPlain(t *testing.T) {
	raw := "\x1b[36m{\x1b[0m\n  \x1b[37m\"a\"\x1b[0m: \x1b[32m1\x1b[0m\n\x1b[36m}\x1b[0m"
	var joined string
	for _, r := range Parse(raw) {
		if r.Text == "" {
			t.Fatalf("Parse emitted an empty run")
		}
		joined += r.Text
	}
	if want := Plain(raw); joined != want {
		t.Fatalf("joined runs = %q, want %q", joined, want)
	}
}

func TestPlain(t *testing.T) {
	if got := Plain("no escapes"); got != "no escapes" {
		t.Fatalf("Plain = %q, want unchanged", got)
	}
	if got := Plain("\x1b[1mBold\x1b[0m Plain"); got != "Bold Plain" {
		t.Fatalf("Plain = %q, want %q", got, "Bold Plain")
	}
}

func TestStyleIsZero(t *testing.T) {
	if !(Style{}).IsZero() {
		t.Fatal("zero Style reported non-zero")
	}
	if (Style{Bold: true}).IsZero() {
		t.Fatal("bold Style reported zero")
	}
}
