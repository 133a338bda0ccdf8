package ansi

import (
	"regexp"
	"strings"
)

// Style is the resolved set of attributes for a run of text. Colors are hex
// strings ("#RRGGBB"); empty means the renderer's default.
type Style struct {
	Bold          bool
	Italic        bool
	Underline     bool
	Strikethrough bool
	Foreground    string
	Background    string
}

// IsZero reports whether the style carries no attributes.
func (s Style) IsZero() bool {
	return s == Style{}
}

// Run is a span of text with the style active over it.
type Run struct {
	Text  string
	Style Style
}

var sgrRe = regexp.MustCompile(`\x1b\[([0-9;]+)m`)

// Parse splits raw into styled runs. Escape sequences are removed from the
// output text. Codes that arrive back to back accumulate into one style; the
// first code after a span of text starts a new style containing only itself.
// Codes outside the supported palette are stripped but add no style.
func Parse(raw string) []Run {
	if raw == "" {
		return nil
	}
	matches := sgrRe.FindAllStringSubmatchIndex(raw, -1)
	if len(matches) == 0 {
		return []Run{{Text: raw}}
	}

	runs := make([]Run, 0, len(matches)+1)
	var codes []string
	prev := 0
	for _, m := range matches {
		start, end := m[0], m[1]
		code := raw[m[2]:m[3]]
		if start > prev {
			runs = append(runs, Run{Text: raw[prev:start], Style: resolve(codes)})
			codes = codes[:0]
		}
		codes = append(codes, code)
		prev = end
	}
	if prev < len(raw) {
		runs = append(runs, Run{Text: raw[prev:], Style: resolve(codes)})
	}
	return runs
}

// Plain returns raw with every SGR escape sequence removed.
func Plain(raw string) string {
	if !strings.Contains(raw, "\x1b[") {
		return raw
	}
	return sgrRe.ReplaceAllString(raw, "")
}

// resolve folds codes into a style. Later codes of the same kind win and a
// reset drops everything before it.
func resolve(codes []string) Style {
	var s Style
	for _, code := range codes {
		apply(&s, code)
	}
	return s
}

func apply(s *Style, code string) {
	switch code {
	case "1":
		s.Bold = true
	case "3":
		s.Italic = true
	case "4":
		s.Underline = true
	case "9":
		s.Strikethrough = true
	case "0":
		*s = Style{}
	case "2", "5", "7", "8":
		// dim, blink, reverse and hidden are recognized but unstyled
	default:
		if c, ok := foreground[code]; ok {
			s.Foreground = c
		} else if c, ok := background[code]; ok {
			s.Background = c
		}
	}
}
