package ui

import (
	"fmt"
	"strings"

	"github.com/charmbracelet/lipgloss"
)

// renderHeader renders the logo, the tab strip and the environment.
func (m Model) renderHeader() string {
	styles := m.theme.Styles().WithBackground(m.theme.Surface)
	bg := NewBgStyle(m.theme.Surface)
	compact := m.width < LayoutCompactWidth

	parts := []string{bg.Render("debugview", styles.Logo)}

	for i, v := range viewOrder {
		label := v.String()
		if count := m.tabCount(v); count != "" && !compact {
			label += " " + count
		}
		label = fmt.Sprintf("%d %s", i+1, label)
		if v == m.currentView {
			parts = append(parts, lipgloss.NewStyle().
				Background(lipgloss.Color(m.theme.SelectionBg)).
				Foreground(lipgloss.Color(m.theme.SelectionText)).
				Bold(true).
				Render(" "+label+" "))
			continue
		}
		parts = append(parts, bg.Render(label, styles.MutedText))
	}

	if env, ok := m.environment(); ok {
		label := env.Name
		if !compact && env.URL != "" && env.URL != env.Name {
			label += " " + truncate(env.URL, 40)
		}
		parts = append(parts, bg.Render("env", styles.FaintText)+bg.Space()+bg.Render(label, styles.InfoText))
	}

	if m.state != nil && m.stateTab.snapshot.IsOffline() {
		parts = append(parts, bg.Render("OFFLINE", styles.DangerText))
	}

	return styles.Header.Width(m.width).Render(bg.Join(parts, "  "))
}

// tabCount returns the badge shown next to a tab label.
func (m Model) tabCount(v View) string {
	switch v {
	case ViewNetwork:
		if m.requests == nil {
			return ""
		}
		pending := 0
		for _, r := range m.network.records {
			if r.Pending() {
				pending++
			}
		}
		if pending > 0 {
			return fmt.Sprintf("%d (%d…)", m.network.total, pending)
		}
		return fmt.Sprintf("%d", m.network.total)
	case ViewLogs:
		if m.logs == nil {
			return ""
		}
		return fmt.Sprintf("%d", m.logState.total)
	case ViewFeatures:
		if m.features == nil {
			return ""
		}
		on := 0
		for _, f := range m.featTab.list {
			if f.Enabled {
				on++
			}
		}
		return fmt.Sprintf("%d/%d", on, len(m.featTab.list))
	}
	return ""
}

// renderCommandBar renders the per-tab key hints, the search box and any
// transient status.
func (m Model) renderCommandBar() string {
	styles := m.theme.Styles().WithBackground(m.theme.Surface)
	bg := NewBgStyle(m.theme.Surface)

	type cmd struct{ key, desc string }
	var commands []cmd

	switch m.currentView {
	case ViewNetwork:
		if m.network.detailOpen {
			commands = []cmd{{"j/k", "Scroll"}, {"y", "Copy"}, {"esc", "Back"}}
		} else {
			commands = []cmd{{"j/k", "Navigate"}, {"enter", "Details"}, {"y", "Copy URL"}, {"c", "Clear"}}
		}
	case ViewState:
		commands = []cmd{{"j/k", "Navigate"}, {"enter", "Fold"}, {"y", "Copy JSON"}, {"/", "JMESPath"}}
	case ViewLogs:
		follow := "Follow"
		if m.logState.follow {
			follow = "Pause"
		}
		commands = []cmd{{"j/k", "Navigate"}, {"f", follow}, {"h/l", "Tag"}, {"x", "Hide tag"}, {"y", "Copy"}}
	case ViewFeatures:
		commands = []cmd{{"j/k", "Navigate"}, {"enter", "Toggle"}, {"o", "On/off"}}
	}
	commands = append(commands, cmd{"b", "Env"}, cmd{"?", "More"})

	colon := bg.Render(":", styles.FaintText)
	segments := make([]string, 0, len(commands)+3)
	for _, c := range commands {
		segments = append(segments, bg.Render(c.key, styles.AccentText)+colon+bg.Render(c.desc, styles.MutedText))
	}

	if m.searching {
		segments = append(segments, m.search.View())
	} else if q := m.query(); q != "" {
		segments = append(segments, bg.Render("/"+truncate(q, 24), styles.AccentText))
	}

	if m.status != "" {
		segments = append(segments, bg.Render(m.status, styles.WarningText))
	}

	segments = append(segments, bg.Render("T", styles.AccentText)+colon+bg.Render(m.theme.Name, styles.FaintText))
	return styles.Header.Width(m.width).Render(strings.Join(segments, bg.Spaces(2)))
}
