package ui

import (
	"fmt"
	"strings"

	"github.com/charmbracelet/bubbles/key"
	"github.com/charmbracelet/bubbles/viewport"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"

	"github.com/five82/debugview/internal/logstore"
)

// logState holds all log-related state.
type logState struct {
	filter  logstore.Filter
	entries []logstore.Entry // visible entries, oldest first
	total   int
	tags    []string
	tagIdx  int
	cursor  int
	follow  bool

	viewport viewport.Model
	starts   []int // first viewport row of each visible entry
}

// refreshLogs re-reads the store and re-applies the tag and text filter.
func (m *Model) refreshLogs() {
	if m.logs == nil {
		return
	}
	all := m.logs.Snapshot()
	m.logState.total = len(all)
	m.logState.tags = mergeTags(logstore.Tags(all), m.logState.filter.Hidden)
	m.logState.tagIdx = clamp(m.logState.tagIdx, len(m.logState.tags))

	m.logState.filter.Query = ""
	if m.currentView == ViewLogs {
		m.logState.filter.Query = m.query()
	}
	m.logState.entries = m.logState.filter.Apply(all)

	if m.logState.follow {
		m.logState.cursor = len(m.logState.entries) - 1
	}
	m.logState.cursor = clamp(m.logState.cursor, len(m.logState.entries))
	m.renderLogViewport()
}

// mergeTags keeps hidden tags selectable even when no entry carries them.
func mergeTags(tags []string, hidden map[string]bool) []string {
	seen := make(map[string]bool, len(tags))
	for _, t := range tags {
		seen[t] = true
	}
	var extra []string
	for t, h := range hidden {
		if h && !seen[t] {
			extra = append(extra, t)
		}
	}
	if len(extra) == 0 {
		return tags
	}
	return logstore.Tags(append(tagEntries(tags), tagEntries(extra)...))
}

func tagEntries(tags []string) []logstore.Entry {
	out := make([]logstore.Entry, len(tags))
	for i, t := range tags {
		out[i].Tag = t
	}
	return out
}

// renderLogViewport rebuilds the viewport content and keeps the cursor on
// screen.
func (m *Model) renderLogViewport() {
	ls := &m.logState
	width := ls.viewport.Width
	if width <= 0 {
		return
	}

	var rows []string
	ls.starts = ls.starts[:0]
	for i, e := range ls.entries {
		ls.starts = append(ls.starts, len(rows))
		rows = append(rows, m.renderEntry(e, i == ls.cursor, width)...)
	}
	if len(rows) == 0 {
		bg := NewBgStyle(m.theme.FocusBg)
		rows = append(rows, bg.FillLine(bg.Render("No log entries", m.theme.Styles().MutedText), width))
	}
	ls.viewport.SetContent(strings.Join(rows, "\n"))

	if ls.follow {
		ls.viewport.GotoBottom()
		return
	}
	m.scrollToEntry(ls.cursor, len(rows))
}

// scrollToEntry adjusts the viewport so entry i is fully visible when it
// fits.
func (m *Model) scrollToEntry(i, totalRows int) {
	ls := &m.logState
	if i < 0 || i >= len(ls.starts) {
		return
	}
	start := ls.starts[i]
	end := totalRows
	if i+1 < len(ls.starts) {
		end = ls.starts[i+1]
	}
	top := ls.viewport.YOffset
	switch {
	case start < top:
		ls.viewport.SetYOffset(start)
	case end > top+ls.viewport.Height:
		ls.viewport.SetYOffset(min(start, end-ls.viewport.Height))
	}
}

// renderEntry draws one entry: header row, optional comment, then message
// rows, tinted with its tag color.
func (m Model) renderEntry(e logstore.Entry, selected bool, width int) []string {
	tagColor := m.theme.TagColor(e.Tag)
	amount := 0.08
	if selected {
		amount = 0.25
	}
	bg := NewBgStyle(m.theme.Tint(tagColor, amount))
	styles := m.theme.Styles()

	marker := bg.Space()
	if selected {
		marker = bg.Render("▌", lipgloss.NewStyle().Foreground(lipgloss.Color(tagColor)))
	}

	header := marker +
		bg.Render(e.TimestampString(), styles.FaintText) + bg.Space() +
		bg.Render(e.Tag, lipgloss.NewStyle().Foreground(lipgloss.Color(tagColor)).Bold(true))
	if e.Source.File != "" {
		header += bg.Space() +
			bg.Render(shortPath(e.Source.File), styles.WarningText) +
			bg.Render(fmt.Sprintf(", %d", e.Source.Line), styles.AccentText)
	}
	if e.Source.Function != "" {
		header += bg.Render(", "+e.Source.Function, styles.SuccessText.Bold(false))
	}

	rows := []string{bg.FillLine(header, width)}
	if e.Comment != "" {
		rows = append(rows, bg.FillLine(marker+bg.Render(e.Comment, styles.MutedText), width))
	}
	for _, row := range m.renderStyledText(e.Message, e.Text(), bg, styles.Text) {
		rows = append(rows, bg.FillLine(marker+row, width))
	}
	return rows
}

// renderTagChips draws the tag filter row. Hidden tags are outlined,
// visible tags filled.
func (m Model) renderTagChips(width int) string {
	bg := NewBgStyle(m.theme.FocusBg)
	styles := m.theme.Styles()
	ls := m.logState

	var chips []string
	for i, tag := range ls.tags {
		c := lipgloss.Color(m.theme.TagColor(tag))
		style := lipgloss.NewStyle().Background(c).Foreground(lipgloss.Color(m.theme.Background))
		if ls.filter.Hidden[tag] {
			style = lipgloss.NewStyle().Foreground(c).Strikethrough(true)
		}
		label := " " + tag + " "
		if i == ls.tagIdx {
			label = "[" + tag + "]"
			style = style.Bold(true)
		}
		if ls.filter.Hidden[tag] {
			chips = append(chips, bg.Render(label, style))
		} else {
			chips = append(chips, style.Render(label))
		}
	}

	follow := "off"
	if ls.follow {
		follow = "on"
	}
	summary := bg.Render(fmt.Sprintf("%d/%d entries follow %s", len(ls.entries), ls.total, follow), styles.FaintText)
	return bg.FillLine(bg.Join(append(chips, summary), " "), width)
}

// renderLogs returns the title and body of the Logs tab.
func (m Model) renderLogs() (string, string) {
	title := "Logs"
	if m.logState.filter.Active() {
		title = "Logs (filtered)"
	}
	if m.logs == nil {
		return title, m.emptyPane("Log capture is not enabled")
	}
	w, _ := m.paneSize()
	return title, m.renderTagChips(w) + "\n" + m.logState.viewport.View()
}

// selectedEntry returns the entry under the cursor.
func (m Model) selectedEntry() (logstore.Entry, bool) {
	ls := m.logState
	if len(ls.entries) == 0 {
		return logstore.Entry{}, false
	}
	return ls.entries[clamp(ls.cursor, len(ls.entries))], true
}

// handleLogsKey processes keyboard input for the Logs tab.
func (m Model) handleLogsKey(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	ls := &m.logState
	n := len(ls.entries)
	page := max(ls.viewport.Height/4, 1)

	switch {
	case key.Matches(msg, m.keys.ToggleFollow):
		ls.follow = !ls.follow
		if ls.follow {
			ls.cursor = n - 1
		}

	case key.Matches(msg, m.keys.Down):
		ls.cursor = clamp(ls.cursor+1, n)
		ls.follow = ls.cursor == n-1

	case key.Matches(msg, m.keys.Up):
		ls.cursor = clamp(ls.cursor-1, n)
		ls.follow = false

	case key.Matches(msg, m.keys.HalfPageDown):
		ls.cursor = clamp(ls.cursor+page, n)
		ls.follow = ls.cursor == n-1

	case key.Matches(msg, m.keys.HalfPageUp):
		ls.cursor = clamp(ls.cursor-page, n)
		ls.follow = false

	case key.Matches(msg, m.keys.Top):
		ls.cursor = 0
		ls.follow = false

	case key.Matches(msg, m.keys.Bottom):
		ls.cursor = n - 1
		ls.follow = true

	case key.Matches(msg, m.keys.PrevTag):
		ls.tagIdx = clamp(ls.tagIdx-1, len(ls.tags))
		return m, nil

	case key.Matches(msg, m.keys.NextTag):
		ls.tagIdx = clamp(ls.tagIdx+1, len(ls.tags))
		return m, nil

	case key.Matches(msg, m.keys.HideTag):
		if len(ls.tags) == 0 {
			return m, nil
		}
		m.toggleTag(ls.tags[ls.tagIdx])
		return m, nil

	case key.Matches(msg, m.keys.Copy):
		if e, ok := m.selectedEntry(); ok {
			return m, copyCmd("log entry", e.String())
		}
		return m, nil

	default:
		return m, nil
	}

	ls.cursor = clamp(ls.cursor, n)
	m.renderLogViewport()
	return m, nil
}

// toggleTag hides or shows tag and persists the hidden set.
func (m *Model) toggleTag(tag string) {
	hidden := make(map[string]bool, len(m.logState.filter.Hidden)+1)
	for t, h := range m.logState.filter.Hidden {
		if h {
			hidden[t] = true
		}
	}
	if hidden[tag] {
		delete(hidden, tag)
	} else {
		hidden[tag] = true
	}
	m.logState.filter.Hidden = hidden
	m.prefs.SetHidden(hidden)
	m.savePrefs()
	m.refreshLogs()
}
