package ui

import (
	"fmt"
	"strings"
	"time"

	"github.com/charmbracelet/bubbles/key"
	tea "github.com/charmbracelet/bubbletea"

	"github.com/five82/debugview/internal/jsontree"
	"github.com/five82/debugview/internal/state"
)

// stateTabState holds the State tab: a collapsible tree of the last
// published host state, optionally narrowed by a JMESPath query.
type stateTabState struct {
	snapshot state.Snapshot
	root     *jsontree.Node
	lines    []jsontree.Line
	folded   map[string]bool // node path -> collapsed
	cursor   int
	queryErr error
}

// refreshState rebuilds the tree from the latest snapshot.
func (m *Model) refreshState() {
	if m.state == nil {
		return
	}
	st := &m.stateTab
	st.snapshot = m.state.Snapshot()
	st.queryErr = nil

	value := st.snapshot.Value
	if m.currentView == ViewState && m.query() != "" {
		q, err := jsontree.Query(value, m.query())
		if err != nil {
			st.queryErr = err
		} else {
			value = q
		}
	}
	st.root = jsontree.Build(value)
	m.relayoutState()
}

// relayoutState flattens the tree under the current fold state.
func (m *Model) relayoutState() {
	st := &m.stateTab
	st.lines = jsontree.Lines(st.root, func(path string) bool { return st.folded[path] })
	st.cursor = clamp(st.cursor, len(st.lines))
}

// renderState returns the title and body of the State tab.
func (m Model) renderState() (string, string) {
	st := m.stateTab
	if m.state == nil {
		return "State", m.emptyPane("No state store attached")
	}

	title := "State"
	if !st.snapshot.LastUpdated.IsZero() {
		title = fmt.Sprintf("State (%s)", st.snapshot.LastUpdated.Format(time.TimeOnly))
	}
	if !st.snapshot.HasValue {
		return title, m.emptyPane("Nothing published yet")
	}

	width, height := m.paneSize()
	bg := NewBgStyle(m.theme.FocusBg)
	styles := m.theme.Styles()

	var notes []string
	if st.queryErr != nil {
		notes = append(notes, bg.FillLine(bg.Render("query: "+st.queryErr.Error(), styles.DangerText.Bold(false)), width))
	}
	if err := st.snapshot.LastError; err != nil {
		label := "last update failed: "
		if st.snapshot.IsOffline() {
			label = fmt.Sprintf("offline (%d failures): ", st.snapshot.ConsecutiveFailures)
		}
		notes = append(notes, bg.FillLine(bg.Render(label+err.Error(), styles.WarningText), width))
	}

	rowsAvail := max(height-len(notes), 1)
	start, end := visibleRange(st.cursor, len(st.lines), rowsAvail)
	rows := append([]string(nil), notes...)
	for i := start; i < end; i++ {
		lineBg := bg
		if i == st.cursor {
			lineBg = NewBgStyle(m.theme.SelectionBg)
		}
		rows = append(rows, lineBg.FillLine(m.renderJSONLine(st.lines[i], lineBg, true), width))
	}
	return title, strings.Join(rows, "\n")
}

// handleStateKey processes keyboard input for the State tab.
func (m Model) handleStateKey(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	st := &m.stateTab
	n := len(st.lines)
	_, height := m.paneSize()

	switch {
	case key.Matches(msg, m.keys.Down):
		st.cursor = clamp(st.cursor+1, n)
	case key.Matches(msg, m.keys.Up):
		st.cursor = clamp(st.cursor-1, n)
	case key.Matches(msg, m.keys.HalfPageDown):
		st.cursor = clamp(st.cursor+height/2, n)
	case key.Matches(msg, m.keys.HalfPageUp):
		st.cursor = clamp(st.cursor-height/2, n)
	case key.Matches(msg, m.keys.Top):
		st.cursor = 0
	case key.Matches(msg, m.keys.Bottom):
		st.cursor = clamp(n-1, n)

	case key.Matches(msg, m.keys.Select):
		if n == 0 {
			return m, nil
		}
		line := st.lines[st.cursor]
		node := line.Node
		if !node.Collapsible() {
			return m, nil
		}
		st.folded[node.Path] = !st.folded[node.Path]
		m.relayoutState()
		// keep the cursor on the toggled node's opening row
		for i, l := range st.lines {
			if l.Node == node && l.Toggle {
				st.cursor = i
				break
			}
		}

	case key.Matches(msg, m.keys.Copy):
		if n == 0 {
			return m, nil
		}
		node := st.lines[st.cursor].Node
		data, err := node.Value.MarshalJSON()
		if err != nil {
			return m, func() tea.Msg { return statusMsg("copy failed: " + err.Error()) }
		}
		return m, copyCmd(node.Path, string(data))
	}
	return m, nil
}
