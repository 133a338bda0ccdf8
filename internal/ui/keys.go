package ui

import "github.com/charmbracelet/bubbles/key"

// keyMap defines all keyboard bindings for the inspector.
type keyMap struct {
	// Global
	Quit        key.Binding
	Help        key.Binding
	CycleTheme  key.Binding
	Tab         key.Binding
	ShiftTab    key.Binding
	Escape      key.Binding
	Search      key.Binding
	Environment key.Binding
	Copy        key.Binding

	// View switching
	ViewNetwork  key.Binding
	ViewState    key.Binding
	ViewLogs     key.Binding
	ViewFeatures key.Binding

	// Navigation
	Up           key.Binding
	Down         key.Binding
	Top          key.Binding
	Bottom       key.Binding
	HalfPageUp   key.Binding
	HalfPageDown key.Binding

	// Per-view actions
	Select       key.Binding
	ClearNetwork key.Binding
	ToggleFollow key.Binding
	PrevTag      key.Binding
	NextTag      key.Binding
	HideTag      key.Binding
	ToggleGate   key.Binding
}

// DefaultKeyMap returns the default key bindings.
func DefaultKeyMap() keyMap {
	return keyMap{
		Quit: key.NewBinding(
			key.WithKeys("ctrl+c", "q"),
			key.WithHelp("q", "Quit"),
		),
		Help: key.NewBinding(
			key.WithKeys("?"),
			key.WithHelp("?", "Toggle help"),
		),
		CycleTheme: key.NewBinding(
			key.WithKeys("T"),
			key.WithHelp("T", "Cycle theme"),
		),
		Tab: key.NewBinding(
			key.WithKeys("tab"),
			key.WithHelp("tab", "Next tab"),
		),
		ShiftTab: key.NewBinding(
			key.WithKeys("shift+tab"),
			key.WithHelp("shift+tab", "Previous tab"),
		),
		Escape: key.NewBinding(
			key.WithKeys("esc"),
			key.WithHelp("esc", "Back / clear search"),
		),
		Search: key.NewBinding(
			key.WithKeys("/"),
			key.WithHelp("/", "Search"),
		),
		Environment: key.NewBinding(
			key.WithKeys("b"),
			key.WithHelp("b", "Next environment"),
		),
		Copy: key.NewBinding(
			key.WithKeys("y"),
			key.WithHelp("y", "Copy"),
		),

		ViewNetwork: key.NewBinding(
			key.WithKeys("1"),
			key.WithHelp("1", "Network"),
		),
		ViewState: key.NewBinding(
			key.WithKeys("2"),
			key.WithHelp("2", "State"),
		),
		ViewLogs: key.NewBinding(
			key.WithKeys("3"),
			key.WithHelp("3", "Logs"),
		),
		ViewFeatures: key.NewBinding(
			key.WithKeys("4"),
			key.WithHelp("4", "Features"),
		),

		Up: key.NewBinding(
			key.WithKeys("k", "up"),
			key.WithHelp("k/up", "Move up"),
		),
		Down: key.NewBinding(
			key.WithKeys("j", "down"),
			key.WithHelp("j/down", "Move down"),
		),
		Top: key.NewBinding(
			key.WithKeys("g", "home"),
			key.WithHelp("g", "Go to top"),
		),
		Bottom: key.NewBinding(
			key.WithKeys("G", "end"),
			key.WithHelp("G", "Go to bottom"),
		),
		HalfPageUp: key.NewBinding(
			key.WithKeys("ctrl+u", "pgup"),
			key.WithHelp("ctrl+u", "Half page up"),
		),
		HalfPageDown: key.NewBinding(
			key.WithKeys("ctrl+d", "pgdown"),
			key.WithHelp("ctrl+d", "Half page down"),
		),

		Select: key.NewBinding(
			key.WithKeys("enter", " "),
			key.WithHelp("enter", "Open / toggle"),
		),
		ClearNetwork: key.NewBinding(
			key.WithKeys("c"),
			key.WithHelp("c", "Clear requests"),
		),
		ToggleFollow: key.NewBinding(
			key.WithKeys("f"),
			key.WithHelp("f", "Toggle follow mode"),
		),
		PrevTag: key.NewBinding(
			key.WithKeys("h", "left"),
			key.WithHelp("h/l", "Select tag"),
		),
		NextTag: key.NewBinding(
			key.WithKeys("l", "right"),
			key.WithHelp("h/l", "Select tag"),
		),
		HideTag: key.NewBinding(
			key.WithKeys("x"),
			key.WithHelp("x", "Hide/show tag"),
		),
		ToggleGate: key.NewBinding(
			key.WithKeys("o"),
			key.WithHelp("o", "Features on/off"),
		),
	}
}

// ShortHelp returns key bindings for the footer.
func (k keyMap) ShortHelp() []key.Binding {
	return []key.Binding{k.Tab, k.Search, k.Select, k.Copy, k.Help, k.Quit}
}

// FullHelp returns key bindings for the full help view.
func (k keyMap) FullHelp() [][]key.Binding {
	return [][]key.Binding{
		{k.Tab, k.ViewNetwork, k.ViewState, k.ViewLogs, k.ViewFeatures},
		{k.Up, k.Down, k.Top, k.Bottom, k.HalfPageDown, k.HalfPageUp},
		{k.Select, k.ClearNetwork, k.ToggleFollow, k.NextTag, k.HideTag, k.ToggleGate},
		{k.Search, k.Escape, k.Copy, k.Environment, k.CycleTheme, k.Help, k.Quit},
	}
}
