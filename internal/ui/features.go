package ui

import (
	"fmt"
	"strings"

	"github.com/charmbracelet/bubbles/key"
	tea "github.com/charmbracelet/bubbletea"

	"github.com/five82/debugview/internal/features"
)

// featuresState holds the Features tab.
type featuresState struct {
	list   []features.Feature // filtered by the search box
	gate   bool
	cursor int
}

func (m *Model) refreshFeatures() {
	if m.features == nil {
		return
	}
	ft := &m.featTab
	ft.gate = m.features.Gate()
	all := m.features.List()
	q := ""
	if m.currentView == ViewFeatures {
		q = strings.ToLower(m.query())
	}
	ft.list = nil
	for _, f := range all {
		if q == "" || strings.Contains(strings.ToLower(f.Key+" "+f.Title), q) {
			ft.list = append(ft.list, f)
		}
	}
	ft.cursor = clamp(ft.cursor, len(ft.list))
}

// renderFeatures returns the title and body of the Features tab.
func (m Model) renderFeatures() (string, string) {
	ft := m.featTab
	if m.features == nil {
		return "Features", m.emptyPane("No feature flags registered")
	}

	gate := "on"
	if !ft.gate {
		gate = "off"
	}
	title := fmt.Sprintf("Features (%s)", gate)

	width, height := m.paneSize()
	bg := NewBgStyle(m.theme.FocusBg)
	styles := m.theme.Styles()

	var rows []string
	if !ft.gate {
		rows = append(rows, bg.FillLine(bg.Render("Feature flags are switched off; press o to enable", styles.WarningText), width))
	}
	if len(ft.list) == 0 {
		rows = append(rows, m.emptyPane("No feature flags match"))
		return title, strings.Join(rows, "\n")
	}

	start, end := visibleRange(ft.cursor, len(ft.list), max(height-len(rows), 1))
	for i := start; i < end; i++ {
		f := ft.list[i]
		rowBg := bg
		if i == ft.cursor {
			rowBg = NewBgStyle(m.theme.SelectionBg)
		}
		box, boxStyle := "[ ]", styles.FaintText
		if f.Enabled && ft.gate {
			box, boxStyle = "[x]", styles.SuccessText
		}
		titleStyle := styles.Text
		if !ft.gate {
			titleStyle = styles.FaintText
		}
		line := rowBg.Render(box, boxStyle) + rowBg.Space() +
			rowBg.Render(f.Title, titleStyle) + rowBg.Spaces(2) +
			rowBg.Render(f.Key, styles.MutedText)
		rows = append(rows, rowBg.FillLine(line, width))
	}
	return title, strings.Join(rows, "\n")
}

// handleFeaturesKey processes keyboard input for the Features tab.
func (m Model) handleFeaturesKey(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	ft := &m.featTab
	n := len(ft.list)
	switch {
	case key.Matches(msg, m.keys.Down):
		ft.cursor = clamp(ft.cursor+1, n)
	case key.Matches(msg, m.keys.Up):
		ft.cursor = clamp(ft.cursor-1, n)
	case key.Matches(msg, m.keys.Top):
		ft.cursor = 0
	case key.Matches(msg, m.keys.Bottom):
		ft.cursor = clamp(n-1, n)
	case key.Matches(msg, m.keys.Select):
		if m.features == nil || n == 0 || !ft.gate {
			return m, nil
		}
		m.features.Toggle(ft.list[ft.cursor].Key)
		m.refreshFeatures()
	case key.Matches(msg, m.keys.ToggleGate):
		if m.features == nil {
			return m, nil
		}
		m.features.SetGate(!m.features.Gate())
		m.refreshFeatures()
	}
	return m, nil
}
