package ui

import (
	"strings"

	"github.com/atotto/clipboard"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"
	"github.com/charmbracelet/x/ansi"
)

// LayoutCompactWidth is the threshold below which the header drops labels.
const LayoutCompactWidth = 100

// renderTitledBox renders content in a box with the title embedded in the
// top border: ┌─── Title ───┐
func (m Model) renderTitledBox(title, content string, width, height int, focused bool) string {
	borderColor, bgColor := m.theme.Border, m.theme.SurfaceAlt
	if focused {
		borderColor, bgColor = m.theme.BorderFocus, m.theme.FocusBg
	}
	bg := NewBgStyle(bgColor)
	borderStyle := lipgloss.NewStyle().Foreground(lipgloss.Color(borderColor))
	titleStyle := lipgloss.NewStyle().Bold(true).Foreground(lipgloss.Color(m.theme.Text))

	innerWidth := max(width-2, 0)
	title = truncate(title, max(innerWidth-4, 0))
	titleLen := ansi.StringWidth(title)
	leftPad := max((innerWidth-titleLen-2)/2, 0)
	rightPad := max(innerWidth-titleLen-2-leftPad, 0)

	top := bg.Render("┌", borderStyle) +
		bg.Render(strings.Repeat("─", leftPad), borderStyle) +
		bg.Render(" "+title+" ", titleStyle) +
		bg.Render(strings.Repeat("─", rightPad), borderStyle) +
		bg.Render("┐", borderStyle)
	bottom := bg.Render("└", borderStyle) +
		bg.Render(strings.Repeat("─", innerWidth), borderStyle) +
		bg.Render("┘", borderStyle)

	lines := strings.Split(content, "\n")
	boxHeight := max(height-2, 0)
	rows := make([]string, boxHeight)
	for i := range rows {
		var line string
		if i < len(lines) {
			line = lines[i]
		}
		rows[i] = bg.Render("│", borderStyle) + bg.FillLine(line, innerWidth) + bg.Render("│", borderStyle)
	}
	return top + "\n" + strings.Join(rows, "\n") + "\n" + bottom
}

// emptyPane renders a muted placeholder message.
func (m Model) emptyPane(msg string) string {
	bg := NewBgStyle(m.theme.FocusBg)
	return bg.Render(msg, m.theme.Styles().MutedText)
}

// copyCmd writes text to the system clipboard and reports the outcome in
// the command bar.
func copyCmd(what, text string) tea.Cmd {
	return func() tea.Msg {
		if err := clipboard.WriteAll(text); err != nil {
			return statusMsg("copy failed: " + err.Error())
		}
		return statusMsg("copied " + what)
	}
}
