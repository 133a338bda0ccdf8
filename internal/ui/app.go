package ui

import (
	"context"
	"errors"
	"strings"
	"time"

	"github.com/charmbracelet/bubbles/help"
	"github.com/charmbracelet/bubbles/key"
	"github.com/charmbracelet/bubbles/spinner"
	"github.com/charmbracelet/bubbles/textinput"
	"github.com/charmbracelet/bubbles/viewport"
	tea "github.com/charmbracelet/bubbletea"

	"github.com/five82/debugview/internal/config"
	"github.com/five82/debugview/internal/features"
	"github.com/five82/debugview/internal/logstore"
	"github.com/five82/debugview/internal/offload"
	"github.com/five82/debugview/internal/prefs"
	"github.com/five82/debugview/internal/requeststore"
	"github.com/five82/debugview/internal/state"
)

// View represents the active tab.
type View int

const (
	ViewNetwork View = iota
	ViewState
	ViewLogs
	ViewFeatures
)

var viewOrder = []View{ViewNetwork, ViewState, ViewLogs, ViewFeatures}

func (v View) String() string {
	switch v {
	case ViewNetwork:
		return "Network"
	case ViewState:
		return "State"
	case ViewLogs:
		return "Logs"
	case ViewFeatures:
		return "Features"
	default:
		return "Unknown"
	}
}

// ErrNoStores is returned by Run when Options carries no stores to show.
var ErrNoStores = errors.New("ui: no stores to inspect")

// Options configures the UI.
type Options struct {
	Context  context.Context
	Logs     *logstore.Store
	Requests *requeststore.Store
	Features *features.Store
	State    *state.Store

	// Pool decodes request bodies off the UI goroutine. Run creates one when
	// nil.
	Pool *offload.Pool

	Environments  []config.Environment
	OnEnvironment func(config.Environment)

	Color     bool
	PollTick  time.Duration
	ThemeName string
	PrefsPath string
	Prefs     prefs.Prefs
}

// source identifies which store signalled a change.
type source int

const (
	sourceLogs source = iota
	sourceRequests
	sourceState
	sourceFeatures
)

type subscription struct {
	ch     <-chan struct{}
	cancel func()
}

// Model is the root application state for Bubble Tea.
type Model struct {
	// Configuration
	ctx           context.Context
	logs          *logstore.Store
	requests      *requeststore.Store
	features      *features.Store
	state         *state.Store
	pool          *offload.Pool
	environments  []config.Environment
	onEnvironment func(config.Environment)
	color         bool
	pollTick      time.Duration
	prefsPath     string
	prefs         prefs.Prefs
	subs          map[source]subscription

	// UI state
	keys        keyMap
	help        help.Model
	spinner     spinner.Model
	theme       Theme
	currentView View
	width       int
	height      int
	ready       bool
	showHelp    bool
	envIndex    int
	status      string

	// Search box, shared by every tab and cleared on tab change
	search    textinput.Model
	searching bool

	network  networkState
	stateTab stateTabState
	logState logState
	featTab  featuresState
}

// New creates the root model.
func New(opts Options) Model {
	ctx := opts.Context
	if ctx == nil {
		ctx = context.Background()
	}

	pollTick := opts.PollTick
	if pollTick == 0 {
		pollTick = time.Second
	}

	themeName := opts.ThemeName
	if themeName == "" {
		themeName = opts.Prefs.Theme
	}

	prefsPath := opts.PrefsPath
	if prefsPath == "" {
		prefsPath = prefs.DefaultPath()
	}

	ti := textinput.New()
	ti.Prompt = "/"
	ti.Placeholder = "filter"
	ti.CharLimit = 200

	sp := spinner.New()
	sp.Spinner = spinner.MiniDot

	m := Model{
		ctx:           ctx,
		logs:          opts.Logs,
		requests:      opts.Requests,
		features:      opts.Features,
		state:         opts.State,
		pool:          opts.Pool,
		environments:  opts.Environments,
		onEnvironment: opts.OnEnvironment,
		color:         opts.Color,
		pollTick:      pollTick,
		prefsPath:     prefsPath,
		prefs:         opts.Prefs,
		subs:          make(map[source]subscription),
		keys:          DefaultKeyMap(),
		help:          help.New(),
		spinner:       sp,
		theme:         GetTheme(themeName),
		currentView:   ViewNetwork,
		search:        ti,
		network:       networkState{viewport: viewport.New(0, 0)},
		stateTab:      stateTabState{folded: make(map[string]bool)},
		logState: logState{
			filter:   logstore.Filter{Hidden: opts.Prefs.Hidden()},
			follow:   true,
			viewport: viewport.New(0, 0),
		},
	}

	for i, env := range m.environments {
		if env.Name == opts.Prefs.Environment {
			m.envIndex = i
		}
	}

	if m.logs != nil {
		ch, cancel := m.logs.Subscribe()
		m.subs[sourceLogs] = subscription{ch, cancel}
	}
	if m.requests != nil {
		ch, cancel := m.requests.Subscribe()
		m.subs[sourceRequests] = subscription{ch, cancel}
	}
	if m.state != nil {
		ch, cancel := m.state.Subscribe()
		m.subs[sourceState] = subscription{ch, cancel}
	}
	if m.features != nil {
		ch, cancel := m.features.Subscribe()
		m.subs[sourceFeatures] = subscription{ch, cancel}
	}

	m.refreshAll()
	return m
}

// Init implements tea.Model.
func (m Model) Init() tea.Cmd {
	cmds := []tea.Cmd{
		tea.EnterAltScreen,
		tickCmd(m.pollTick),
		m.spinner.Tick,
	}
	for src, sub := range m.subs {
		cmds = append(cmds, waitChangeCmd(sub.ch, src))
	}
	if m.pool != nil {
		cmds = append(cmds, waitResultCmd(m.pool))
	}
	return tea.Batch(cmds...)
}

// Update implements tea.Model.
func (m Model) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.KeyMsg:
		return m.handleKey(msg)

	case tea.WindowSizeMsg:
		m.width = msg.Width
		m.height = msg.Height
		m.help.Width = msg.Width
		m.ready = true
		m.resizeViewports()
		m.renderLogViewport()
		m.renderDetailViewport()
		return m, nil

	case tickMsg:
		return m, tickCmd(m.pollTick)

	case spinner.TickMsg:
		var cmd tea.Cmd
		m.spinner, cmd = m.spinner.Update(msg)
		return m, cmd

	case changedMsg:
		cmd := m.handleChange(msg.source)
		sub, ok := m.subs[msg.source]
		if !ok {
			return m, cmd
		}
		return m, tea.Batch(cmd, waitChangeCmd(sub.ch, msg.source))

	case resultMsg:
		m.handleResult(offload.Result(msg))
		if m.pool == nil {
			return m, nil
		}
		return m, waitResultCmd(m.pool)

	case statusMsg:
		m.status = string(msg)
		return m, nil
	}

	return m, nil
}

// View implements tea.Model.
func (m Model) View() string {
	if !m.ready {
		return "Loading..."
	}
	if m.showHelp {
		return m.renderHelp()
	}
	return m.renderMain()
}

// handleKey processes keyboard input.
func (m Model) handleKey(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	if m.showHelp {
		m.showHelp = false
		return m, nil
	}
	m.status = ""

	if m.searching {
		return m.handleSearchInput(msg)
	}

	switch {
	case key.Matches(msg, m.keys.Quit):
		return m, tea.Quit

	case key.Matches(msg, m.keys.Help):
		m.showHelp = true
		return m, nil

	case key.Matches(msg, m.keys.CycleTheme):
		m.theme = GetTheme(NextTheme(m.theme.Name))
		m.prefs.Theme = m.theme.Name
		m.savePrefs()
		m.renderLogViewport()
		m.renderDetailViewport()
		return m, nil

	case key.Matches(msg, m.keys.Tab):
		return m.switchView(m.offsetView(1))

	case key.Matches(msg, m.keys.ShiftTab):
		return m.switchView(m.offsetView(-1))

	case key.Matches(msg, m.keys.ViewNetwork):
		return m.switchView(ViewNetwork)
	case key.Matches(msg, m.keys.ViewState):
		return m.switchView(ViewState)
	case key.Matches(msg, m.keys.ViewLogs):
		return m.switchView(ViewLogs)
	case key.Matches(msg, m.keys.ViewFeatures):
		return m.switchView(ViewFeatures)

	case key.Matches(msg, m.keys.Search):
		m.searching = true
		cmd := m.search.Focus()
		return m, cmd

	case key.Matches(msg, m.keys.Environment):
		cmd := m.cycleEnvironment()
		return m, cmd

	case key.Matches(msg, m.keys.Escape):
		if m.currentView == ViewNetwork && m.network.detailOpen {
			m.network.detailOpen = false
			return m, nil
		}
		if m.search.Value() != "" {
			m.search.SetValue("")
			m.applySearch()
		}
		return m, nil
	}

	switch m.currentView {
	case ViewNetwork:
		return m.handleNetworkKey(msg)
	case ViewState:
		return m.handleStateKey(msg)
	case ViewLogs:
		return m.handleLogsKey(msg)
	case ViewFeatures:
		return m.handleFeaturesKey(msg)
	}
	return m, nil
}

// handleSearchInput feeds keys to the search box and re-filters the
// active tab on every edit.
func (m Model) handleSearchInput(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	switch msg.Type {
	case tea.KeyEnter:
		m.searching = false
		m.search.Blur()
		return m, nil
	case tea.KeyEsc:
		m.searching = false
		m.search.Blur()
		m.search.SetValue("")
		m.applySearch()
		return m, nil
	case tea.KeyCtrlC:
		return m, tea.Quit
	}

	var cmd tea.Cmd
	before := m.search.Value()
	m.search, cmd = m.search.Update(msg)
	if m.search.Value() != before {
		m.applySearch()
	}
	return m, cmd
}

// query returns the current search text.
func (m Model) query() string {
	return strings.TrimSpace(m.search.Value())
}

// applySearch re-filters the active tab against the search box.
func (m *Model) applySearch() {
	switch m.currentView {
	case ViewNetwork:
		m.refreshRequests()
	case ViewState:
		m.refreshState()
	case ViewLogs:
		m.refreshLogs()
	case ViewFeatures:
		m.refreshFeatures()
	}
}

func (m Model) offsetView(delta int) View {
	n := len(viewOrder)
	return viewOrder[((int(m.currentView)+delta)%n+n)%n]
}

// switchView activates v and resets the search text.
func (m Model) switchView(v View) (tea.Model, tea.Cmd) {
	if v == m.currentView {
		return m, nil
	}
	m.currentView = v
	m.searching = false
	m.search.Blur()
	m.search.SetValue("")
	m.network.detailOpen = false
	m.refreshAll()
	return m, nil
}

// cycleEnvironment selects the next environment and tells the host.
func (m *Model) cycleEnvironment() tea.Cmd {
	if len(m.environments) == 0 {
		m.status = "no environments configured"
		return nil
	}
	m.envIndex = (m.envIndex + 1) % len(m.environments)
	env := m.environments[m.envIndex]
	m.prefs.Environment = env.Name
	m.savePrefs()
	if m.onEnvironment == nil {
		return nil
	}
	cb := m.onEnvironment
	return func() tea.Msg {
		cb(env)
		return statusMsg("environment: " + env.Name)
	}
}

// environment returns the selected environment, if any.
func (m Model) environment() (config.Environment, bool) {
	if len(m.environments) == 0 {
		return config.Environment{}, false
	}
	return m.environments[clamp(m.envIndex, len(m.environments))], true
}

func (m *Model) savePrefs() {
	if m.prefsPath == "" {
		return
	}
	_ = prefs.Save(m.prefsPath, m.prefs)
}

// handleChange refreshes the view model for a store that signalled.
func (m *Model) handleChange(src source) tea.Cmd {
	switch src {
	case sourceLogs:
		m.refreshLogs()
	case sourceRequests:
		m.refreshRequests()
		return m.ensureDetailDecoded()
	case sourceState:
		m.refreshState()
	case sourceFeatures:
		m.refreshFeatures()
	}
	return nil
}

func (m *Model) refreshAll() {
	m.refreshRequests()
	m.refreshState()
	m.refreshLogs()
	m.refreshFeatures()
}

func (m *Model) resizeViewports() {
	w, h := m.paneSize()
	m.logState.viewport.Width = w
	m.logState.viewport.Height = max(h-1, 1) // tag chips take one row
	m.network.viewport.Width = w
	m.network.viewport.Height = h
}

// paneSize returns the inner size of the content box.
func (m Model) paneSize() (int, int) {
	// header + command bar + box borders
	return max(m.width-2, 1), max(m.height-4, 1)
}

// renderMain renders the full UI.
func (m Model) renderMain() string {
	var b strings.Builder
	b.WriteString(m.renderHeader())
	b.WriteString("\n")
	b.WriteString(m.renderCommandBar())
	b.WriteString("\n")
	b.WriteString(m.renderContent())
	return b.String()
}

// renderContent renders the active tab inside a titled box.
func (m Model) renderContent() string {
	var title, body string
	switch m.currentView {
	case ViewNetwork:
		title, body = m.renderNetwork()
	case ViewState:
		title, body = m.renderState()
	case ViewLogs:
		title, body = m.renderLogs()
	case ViewFeatures:
		title, body = m.renderFeatures()
	}
	return m.renderTitledBox(title, body, m.width, m.height-2, true)
}

// Messages

type tickMsg time.Time

type changedMsg struct{ source source }

type resultMsg offload.Result

type statusMsg string

// Commands

func tickCmd(d time.Duration) tea.Cmd {
	return tea.Tick(d, func(t time.Time) tea.Msg {
		return tickMsg(t)
	})
}

// waitChangeCmd blocks until the store signals. A closed channel ends the
// subscription.
func waitChangeCmd(ch <-chan struct{}, src source) tea.Cmd {
	return func() tea.Msg {
		if _, ok := <-ch; !ok {
			return nil
		}
		return changedMsg{source: src}
	}
}

func waitResultCmd(pool *offload.Pool) tea.Cmd {
	return func() tea.Msg {
		r, ok := <-pool.Results()
		if !ok {
			return nil
		}
		return resultMsg(r)
	}
}

// Run starts the Bubble Tea program and blocks until it exits or ctx is
// cancelled.
func Run(opts Options) error {
	if opts.Logs == nil && opts.Requests == nil && opts.State == nil && opts.Features == nil {
		return ErrNoStores
	}
	if opts.Pool == nil {
		opts.Pool = offload.New(2)
		defer opts.Pool.Close()
	}
	ctx := opts.Context
	if ctx == nil {
		ctx = context.Background()
	}

	m := New(opts)
	defer m.unsubscribe()

	p := tea.NewProgram(m, tea.WithAltScreen(), tea.WithContext(ctx))
	_, err := p.Run()
	if errors.Is(err, tea.ErrProgramKilled) && ctx.Err() != nil {
		return nil
	}
	return err
}

func (m Model) unsubscribe() {
	for _, sub := range m.subs {
		sub.cancel()
	}
}
