package ui

import (
	"context"
	"encoding/json"
	"fmt"
	"sort"
	"strings"
	"time"

	"github.com/charmbracelet/bubbles/key"
	"github.com/charmbracelet/bubbles/viewport"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"
	"github.com/charmbracelet/x/ansi"

	"github.com/five82/debugview/internal/jsontree"
	"github.com/five82/debugview/internal/offload"
	"github.com/five82/debugview/internal/requeststore"
)

// slotRequestDetail is the offload slot for decoding the bodies shown in
// the request detail pane.
const slotRequestDetail = "request-detail"

// networkState holds the Network tab state.
type networkState struct {
	records []requeststore.Record // newest first, filtered
	total   int
	cursor  int

	detailOpen bool
	detailKey  string // recordKey of the record shown in detail
	pendingKey string // bodiesKey submitted for decoding
	bodies     decodedBodies
	viewport   viewport.Model
}

// decodedBodies is the offloaded decode result for one record state.
type decodedBodies struct {
	key      string
	request  bodyView
	response bodyView
}

// bodyView is a body ready to display: a JSON tree when it parses, text
// otherwise.
type bodyView struct {
	isJSON bool
	value  jsontree.Value
	text   string
}

func decodeBody(data []byte) bodyView {
	if len(data) == 0 {
		return bodyView{}
	}
	if json.Valid(data) {
		return bodyView{isJSON: true, value: jsontree.Decode(data)}
	}
	return bodyView{text: string(data)}
}

// recordKey identifies a record across snapshots.
func recordKey(r requeststore.Record) string {
	return fmt.Sprintf("%s:%d|%s|%d", r.ID.File, r.ID.Line, r.ID.URL, r.RequestedAt.UnixNano())
}

// bodiesKey changes when the record completes, so the response body is
// decoded again.
func bodiesKey(r requeststore.Record) string {
	return fmt.Sprintf("%s|%d", recordKey(r), r.CompletedAt.UnixNano())
}

// refreshRequests re-reads the store and applies the search filter.
func (m *Model) refreshRequests() {
	if m.requests == nil {
		return
	}
	all := m.requests.Snapshot()
	ns := &m.network
	ns.total = len(all)
	q := ""
	if m.currentView == ViewNetwork {
		q = m.query()
	}
	ns.records = requeststore.Filter(all, q)

	if ns.detailOpen {
		found := false
		for i, r := range ns.records {
			if recordKey(r) == ns.detailKey {
				ns.cursor, found = i, true
				break
			}
		}
		if !found {
			ns.detailOpen = false
		}
	}
	ns.cursor = clamp(ns.cursor, len(ns.records))
	m.renderDetailViewport()
}

func (m Model) selectedRecord() (requeststore.Record, bool) {
	ns := m.network
	if len(ns.records) == 0 {
		return requeststore.Record{}, false
	}
	return ns.records[clamp(ns.cursor, len(ns.records))], true
}

// openDetail shows the record under the cursor and starts decoding its
// bodies.
func (m *Model) openDetail() tea.Cmd {
	rec, ok := m.selectedRecord()
	if !ok {
		return nil
	}
	m.network.detailOpen = true
	m.network.detailKey = recordKey(rec)
	m.network.viewport.GotoTop()
	cmd := m.ensureDetailDecoded()
	m.renderDetailViewport()
	return cmd
}

// ensureDetailDecoded submits the open record's bodies unless they are
// already decoded or in flight.
func (m *Model) ensureDetailDecoded() tea.Cmd {
	if !m.network.detailOpen {
		return nil
	}
	rec, ok := m.selectedRecord()
	if !ok {
		return nil
	}
	key := bodiesKey(rec)
	if m.network.bodies.key == key || m.network.pendingKey == key {
		return nil
	}
	m.network.pendingKey = key

	reqBody := rec.Request.Body
	var respBody []byte
	if rec.Response != nil {
		respBody = rec.Response.Body
	}
	work := func(ctx context.Context) (any, error) {
		d := decodedBodies{key: key, request: decodeBody(reqBody)}
		if err := ctx.Err(); err != nil {
			return nil, err
		}
		d.response = decodeBody(respBody)
		return d, nil
	}

	if m.pool == nil {
		return func() tea.Msg {
			v, err := work(context.Background())
			return resultMsg{Slot: slotRequestDetail, Value: v, Err: err}
		}
	}
	if _, err := m.pool.Submit(slotRequestDetail, work); err != nil {
		m.status = "decode: " + err.Error()
	}
	return nil
}

// handleResult applies an offloaded result if it is still the latest for
// its slot.
func (m *Model) handleResult(r offload.Result) {
	if m.pool != nil && !m.pool.IsCurrent(r) {
		return
	}
	switch r.Slot {
	case slotRequestDetail:
		if r.Err != nil {
			m.status = "decode: " + r.Err.Error()
			return
		}
		d, ok := r.Value.(decodedBodies)
		if !ok || d.key != m.network.pendingKey {
			return
		}
		m.network.bodies = d
		m.network.pendingKey = ""
		m.renderDetailViewport()
	}
}

// renderNetwork returns the title and body of the Network tab.
func (m Model) renderNetwork() (string, string) {
	ns := m.network
	if m.requests == nil {
		return "Network", m.emptyPane("Request capture is not enabled")
	}
	if ns.detailOpen {
		rec, _ := m.selectedRecord()
		return rec.Verb() + " " + rec.Path(), ns.viewport.View()
	}

	title := fmt.Sprintf("Network (%d)", ns.total)
	if len(ns.records) != ns.total {
		title = fmt.Sprintf("Network (%d of %d)", len(ns.records), ns.total)
	}
	if len(ns.records) == 0 {
		return title, m.emptyPane("No requests captured")
	}

	width, height := m.paneSize()
	start, end := visibleRange(ns.cursor, len(ns.records), height)
	rows := make([]string, 0, end-start)
	for i := start; i < end; i++ {
		rows = append(rows, m.renderRequestRow(ns.records[i], i == ns.cursor, width))
	}
	return title, strings.Join(rows, "\n")
}

// renderRequestRow draws "⋯ VERB path ... time duration". Completed
// requests are green or red, pending ones gray.
func (m Model) renderRequestRow(r requeststore.Record, selected bool, width int) string {
	bgColor := m.theme.FocusBg
	if selected {
		bgColor = m.theme.SelectionBg
	}
	bg := NewBgStyle(bgColor)
	styles := m.theme.Styles()

	indicator := bg.Space()
	pathStyle := styles.FaintText
	switch {
	case r.Pending():
		indicator = lipgloss.NewStyle().Background(lipgloss.Color(bgColor)).Render(ansi.Strip(m.spinner.View()))
	case r.Failed():
		pathStyle = styles.DangerText.Bold(false)
	default:
		pathStyle = styles.SuccessText.Bold(false)
	}

	at := r.RequestedAt
	if !r.Pending() {
		at = r.CompletedAt
	}
	right := at.Format("15:04:05")
	if d := r.Duration(); d > 0 {
		right += " " + d.Round(time.Millisecond).String()
	}

	verb := padRight(r.Verb(), 6)
	pathWidth := max(width-ansi.StringWidth(verb)-ansi.StringWidth(right)-4, 4)
	path := r.Path()
	if r.Request.URL != nil && r.Request.URL.RawQuery != "" {
		path += "?" + r.Request.URL.RawQuery
	}

	line := indicator + bg.Space() +
		bg.Render(verb, styles.Text.Bold(true)) +
		bg.Render(padRight(truncateLeft(path, pathWidth), pathWidth), pathStyle) + bg.Space() +
		bg.Render(right, styles.FaintText)
	return bg.FillLine(line, width)
}

// renderDetailViewport rebuilds the detail pane for the open record.
func (m *Model) renderDetailViewport() {
	ns := &m.network
	if !ns.detailOpen || ns.viewport.Width <= 0 {
		return
	}
	rec, ok := m.selectedRecord()
	if !ok {
		return
	}
	ns.viewport.SetContent(strings.Join(m.requestDetailRows(rec, ns.viewport.Width), "\n"))
}

// requestDetailRows renders the call site, outcome, info, query, headers and
// both bodies.
func (m Model) requestDetailRows(r requeststore.Record, width int) []string {
	bg := NewBgStyle(m.theme.FocusBg)
	styles := m.theme.Styles()
	var rows []string
	add := func(s string) { rows = append(rows, bg.FillLine(s, width)) }
	section := func(title string) {
		add("")
		add(bg.Render(title, styles.AccentText.Bold(true)))
	}
	kv := func(k, v string) {
		add(bg.Render(padRight(k, 16), styles.MutedText) + bg.Render(v, styles.Text))
	}

	add(bg.Render(fmt.Sprintf("%d", r.ID.Line), styles.WarningText) + bg.Space() +
		bg.Render(shortPath(r.ID.File), styles.Text))

	switch {
	case r.Pending():
		add(bg.Render("Pending", styles.FaintText))
	case r.Failed():
		add(bg.Render("Failure", styles.DangerText))
	default:
		add(bg.Render("Success", styles.SuccessText))
	}
	if r.Error != "" {
		add(bg.Render(r.Error, styles.DangerText.Bold(false)))
	}

	section("Info")
	if r.Request.URL != nil {
		kv("Url", r.Request.URL.String())
	}
	if r.Response != nil {
		kv("Status code", fmt.Sprintf("%d", r.Response.StatusCode))
	}
	kv("Time", r.RequestedAt.Format("02.01.2006 15:04:05"))
	if !r.Pending() {
		kv("Duration", r.Duration().String())
	}

	if r.Request.URL != nil {
		if q := r.Request.URL.Query(); len(q) > 0 {
			section("Query parameters")
			for _, k := range sortedKeys(q) {
				kv(k, strings.Join(q[k], ", "))
			}
		}
	}
	if len(r.Request.Header) > 0 {
		section("Headers")
		for _, k := range sortedKeys(r.Request.Header) {
			kv(k, strings.Join(r.Request.Header[k], ", "))
		}
	}
	if r.Response != nil && len(r.Response.Header) > 0 {
		section("Response headers")
		for _, k := range sortedKeys(r.Response.Header) {
			kv(k, strings.Join(r.Response.Header[k], ", "))
		}
	}

	decoded := m.network.bodies.key == bodiesKey(r)
	body := func(title string, v bodyView, raw []byte) {
		if len(raw) == 0 {
			return
		}
		section(title)
		switch {
		case !decoded:
			add(bg.Render("decoding…", styles.FaintText))
		case v.isJSON:
			for _, row := range m.renderJSON(v.value, bg) {
				add(row)
			}
		default:
			for _, row := range strings.Split(v.text, "\n") {
				add(bg.Render(row, styles.Text))
			}
		}
	}
	body("Body", m.network.bodies.request, r.Request.Body)
	var respBody []byte
	if r.Response != nil {
		respBody = r.Response.Body
	}
	body("Response body", m.network.bodies.response, respBody)
	return rows
}

func sortedKeys[V any](m map[string]V) []string {
	keys := make([]string, 0, len(m))
	for k := range m {
		keys = append(keys, k)
	}
	sort.Strings(keys)
	return keys
}

// handleNetworkKey processes keyboard input for the Network tab.
func (m Model) handleNetworkKey(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	ns := &m.network
	if ns.detailOpen {
		switch {
		case key.Matches(msg, m.keys.Down):
			ns.viewport.ScrollDown(1)
		case key.Matches(msg, m.keys.Up):
			ns.viewport.ScrollUp(1)
		case key.Matches(msg, m.keys.HalfPageDown):
			ns.viewport.HalfPageDown()
		case key.Matches(msg, m.keys.HalfPageUp):
			ns.viewport.HalfPageUp()
		case key.Matches(msg, m.keys.Top):
			ns.viewport.GotoTop()
		case key.Matches(msg, m.keys.Bottom):
			ns.viewport.GotoBottom()
		case key.Matches(msg, m.keys.Copy):
			rec, ok := m.selectedRecord()
			if !ok {
				return m, nil
			}
			text := ansi.Strip(strings.Join(m.requestDetailRows(rec, 1<<12), "\n"))
			return m, copyCmd("request", trimRows(text))
		}
		return m, nil
	}

	n := len(ns.records)
	_, height := m.paneSize()
	switch {
	case key.Matches(msg, m.keys.Down):
		ns.cursor = clamp(ns.cursor+1, n)
	case key.Matches(msg, m.keys.Up):
		ns.cursor = clamp(ns.cursor-1, n)
	case key.Matches(msg, m.keys.HalfPageDown):
		ns.cursor = clamp(ns.cursor+height/2, n)
	case key.Matches(msg, m.keys.HalfPageUp):
		ns.cursor = clamp(ns.cursor-height/2, n)
	case key.Matches(msg, m.keys.Top):
		ns.cursor = 0
	case key.Matches(msg, m.keys.Bottom):
		ns.cursor = clamp(n-1, n)
	case key.Matches(msg, m.keys.Select):
		cmd := m.openDetail()
		return m, cmd
	case key.Matches(msg, m.keys.ClearNetwork):
		if m.requests != nil {
			m.requests.Clear()
		}
	case key.Matches(msg, m.keys.Copy):
		if rec, ok := m.selectedRecord(); ok && rec.Request.URL != nil {
			return m, copyCmd("URL", rec.Request.URL.String())
		}
	}
	return m, nil
}

// trimRows drops the padding FillLine adds to every row.
func trimRows(text string) string {
	lines := strings.Split(text, "\n")
	for i, l := range lines {
		lines[i] = strings.TrimRight(l, " ")
	}
	return strings.Join(lines, "\n")
}
