package ui

import (
	"strings"

	"github.com/charmbracelet/lipgloss"

	"github.com/five82/debugview/internal/ansi"
	"github.com/five82/debugview/internal/jsontree"
)

// renderJSONLine draws one tree row with the JSON palette on bg. Toggle
// lines carry a fold marker.
func (m Model) renderJSONLine(l jsontree.Line, bg BgStyle, markers bool) string {
	p := m.theme.JSON()
	color := func(c string) lipgloss.Style {
		return lipgloss.NewStyle().Foreground(lipgloss.Color(c))
	}
	faint := m.theme.Styles().FaintText

	var b strings.Builder
	b.WriteString(bg.Spaces(2 * l.Depth))
	if markers {
		switch {
		case l.Kind == jsontree.LineCollapsed:
			b.WriteString(bg.Render("▸", faint))
		case l.Kind == jsontree.LineOpen:
			b.WriteString(bg.Render("▾", faint))
		default:
			b.WriteString(bg.Space())
		}
		b.WriteString(bg.Space())
	}
	if l.Key != "" {
		b.WriteString(bg.Render(l.Key, color(p.Key)))
		b.WriteString(bg.Render(":", faint))
		b.WriteString(bg.Space())
	}

	switch l.Kind {
	case jsontree.LineOpen, jsontree.LineClose, jsontree.LineCollapsed:
		b.WriteString(bg.Render(l.Text, color(p.Bracket(l.Depth))))
	default:
		if l.Node.Value.IsComposite() {
			b.WriteString(bg.Render(l.Text, color(p.Bracket(l.Depth))))
		} else {
			b.WriteString(bg.Render(l.Text, color(p.JSONColor(l.Node.Value.Kind()))))
		}
	}
	if l.Comma {
		b.WriteString(bg.Render(",", faint))
	}
	return b.String()
}

// renderJSON draws a fully expanded value, one string per row.
func (m Model) renderJSON(v jsontree.Value, bg BgStyle) []string {
	lines := jsontree.Lines(jsontree.Build(v), nil)
	out := make([]string, len(lines))
	for i, l := range lines {
		out[i] = m.renderJSONLine(l, bg, false)
	}
	return out
}

// runStyle maps a parsed ANSI style onto lipgloss.
func runStyle(s ansi.Style, base lipgloss.Style) lipgloss.Style {
	style := base
	if s.Foreground != "" {
		style = style.Foreground(lipgloss.Color(s.Foreground))
	}
	if s.Background != "" {
		style = style.Background(lipgloss.Color(s.Background))
	}
	return style.
		Bold(s.Bold).
		Italic(s.Italic).
		Underline(s.Underline).
		Strikethrough(s.Strikethrough)
}

// splitRunLines breaks runs at newlines so each display row can be
// rendered and padded on its own.
func splitRunLines(runs []ansi.Run) [][]ansi.Run {
	lines := [][]ansi.Run{nil}
	for _, r := range runs {
		parts := strings.Split(r.Text, "\n")
		for i, part := range parts {
			if i > 0 {
				lines = append(lines, nil)
			}
			if part != "" {
				last := len(lines) - 1
				lines[last] = append(lines[last], ansi.Run{Text: part, Style: r.Style})
			}
		}
	}
	return lines
}

// renderStyledText converts an escape-coded message into lipgloss rows. When
// color is off, the plain text is drawn with base.
func (m Model) renderStyledText(message, plain string, bg BgStyle, base lipgloss.Style) []string {
	if !m.color {
		rows := strings.Split(plain, "\n")
		for i, row := range rows {
			rows[i] = bg.Render(row, base)
		}
		return rows
	}

	lines := splitRunLines(ansi.Parse(message))
	rows := make([]string, len(lines))
	for i, runs := range lines {
		var b strings.Builder
		for _, r := range runs {
			style := runStyle(r.Style, base)
			if r.Style.Background != "" {
				b.WriteString(style.Render(r.Text))
				continue
			}
			b.WriteString(bg.Render(r.Text, style))
		}
		rows[i] = b.String()
	}
	return rows
}
