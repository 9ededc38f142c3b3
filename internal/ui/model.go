package ui

import (
	"encoding/json"
	"fmt"
	"time"

	"github.com/charmbracelet/bubbles/help"
	"github.com/charmbracelet/bubbles/table"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/rs/zerolog"

	"github.com/mqttui/mqttui/internal/applog"
	"github.com/mqttui/mqttui/internal/history"
	"github.com/mqttui/mqttui/internal/mqttconn"
	"github.com/mqttui/mqttui/internal/payload"
	"github.com/mqttui/mqttui/internal/viewmodel"
)

const redrawTick = 100 * time.Millisecond

// Model is the bubbletea program's root model: a pure function of a
// history.Store snapshot, a viewmodel.State, and the terminal size
// (spec §4.6).
type Model struct {
	store  *history.Store
	client *mqttconn.Client
	logs   *applog.Ring
	logger zerolog.Logger

	vm *viewmodel.State
	km viewmodel.KeyMap

	brokerURL string
	filters   []string
	version   string

	connState mqttconn.StateChange
	lastErr   error

	width, height int

	historyTable table.Model
	tableHeight  int
	help         help.Model
	showFullHelp bool
}

// New builds the root model. store and client are already wired
// together by the caller (the client inserts every received message
// into store); the model only reads.
func New(store *history.Store, client *mqttconn.Client, logs *applog.Ring, logger zerolog.Logger, brokerURL string, filters []string, version string) *Model {
	return &Model{
		store:        store,
		client:       client,
		logs:         logs,
		logger:       logger,
		vm:           viewmodel.New(),
		km:           viewmodel.DefaultKeyMap(),
		brokerURL:    brokerURL,
		filters:      filters,
		version:      version,
		connState:    mqttconn.StateChange{State: mqttconn.Connecting},
		historyTable: newHistoryTable(),
		help:         help.New(),
	}
}

func newHistoryTable() table.Model {
	cols := []table.Column{
		{Title: "Time", Width: 12},
		{Title: "QoS", Width: 11},
		{Title: "Bytes", Width: 6},
		{Title: "Preview", Width: 40},
	}
	return table.New(table.WithColumns(cols), table.WithFocused(false))
}

type stateMsg mqttconn.StateChange
type errMsg struct{ err error }
type tickMsg time.Time

func waitForState(ch <-chan mqttconn.StateChange) tea.Cmd {
	return func() tea.Msg {
		s, ok := <-ch
		if !ok {
			return nil
		}
		return stateMsg(s)
	}
}

func waitForError(ch <-chan error) tea.Cmd {
	return func() tea.Msg {
		e, ok := <-ch
		if !ok {
			return nil
		}
		return errMsg{err: e}
	}
}

func doTick() tea.Cmd {
	return tea.Tick(redrawTick, func(t time.Time) tea.Msg { return tickMsg(t) })
}

func (m *Model) Init() tea.Cmd {
	return tea.Batch(waitForState(m.client.States()), waitForError(m.client.Errors()), doTick())
}

func (m *Model) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case stateMsg:
		m.connState = mqttconn.StateChange(msg)
		return m, waitForState(m.client.States())
	case errMsg:
		m.lastErr = msg.err
		return m, waitForError(m.client.Errors())
	case tickMsg:
		m.refreshHistoryTable()
		return m, doTick()
	case cleanRetainedDoneMsg:
		m.logger.Info().Int("attempted", msg.Attempted).Int("confirmed", msg.Confirmed).Msg("clean-retained finished")
		for _, f := range msg.Failures {
			m.logger.Warn().Str("topic", f.Topic).Err(f.Err).Msg("clean-retained publish failed")
		}
		return m, nil
	case tea.WindowSizeMsg:
		m.width, m.height = msg.Width, msg.Height
		m.layout()
		return m, nil
	case tea.KeyMsg:
		return m.handleKey(msg)
	case tea.MouseMsg:
		return m.handleMouse(msg)
	}
	return m, nil
}

func (m *Model) handleKey(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	snap := m.buildSnapshot()

	if m.vm.Modal.Kind == viewmodel.ModalConfirmCleanRetained {
		topic := m.vm.Modal.Topic
		confirmed := msg.String() == "y" || msg.String() == "Y" || msg.String() == "enter"
		m.vm.Update(m.km, msg, snap)
		if m.vm.Quit {
			return m, tea.Quit
		}
		if confirmed {
			return m, m.cleanRetainedCmd(topic)
		}
		return m, nil
	}

	if m.vm.Focus == viewmodel.FocusHistory && (msg.Type == tea.KeyDelete || msg.Type == tea.KeyBackspace) {
		m.store.RemoveHistoryEntry(m.vm.SelectedTopic, m.vm.SelectedHistoryOffset)
	}

	m.vm.Update(m.km, msg, snap)
	m.refreshHistoryTable()

	if m.vm.Quit {
		return m, tea.Quit
	}
	return m, nil
}

func (m *Model) handleMouse(msg tea.MouseMsg) (tea.Model, tea.Cmd) {
	switch msg.Button {
	case tea.MouseButtonWheelUp:
		snap := m.buildSnapshot()
		m.vm.Update(m.km, tea.KeyMsg{Type: tea.KeyUp}, snap)
	case tea.MouseButtonWheelDown:
		snap := m.buildSnapshot()
		m.vm.Update(m.km, tea.KeyMsg{Type: tea.KeyDown}, snap)
	case tea.MouseButtonLeft:
		if msg.Action == tea.MouseActionPress {
			m.handleClick(msg.X, msg.Y)
		}
	}
	return m, nil
}

// handleClick selects whatever is under (x, y): a tree row, a history
// row, or a JSON sibling key, per spec §4.5's "mouse click selects
// topic / history row / JSON key under cursor". Coordinates are hit
// tested against the same geometry renderBody/layout use to draw the
// two bordered panes (info bar at row 0, a 1-row border top and bottom
// around the body, the footer on the last row).
func (m *Model) handleClick(x, y int) {
	contentTop, contentBottom := 2, m.height-3
	if y < contentTop || y > contentBottom {
		return
	}
	row := y - contentTop

	leftW := m.width / 3
	if leftW < 16 {
		leftW = 16
	}
	if x < leftW {
		m.clickTree(row)
		return
	}
	m.clickRight(row)
}

func (m *Model) clickTree(row int) {
	snap := m.buildSnapshot()
	if row < 0 || row >= len(snap.Rows) {
		return
	}
	m.vm.Focus = viewmodel.FocusTree
	m.vm.SelectTopic(snap.Rows[row].Node.TopicPath())
	m.refreshHistoryTable()
}

func (m *Model) clickRight(row int) {
	if row < m.tableHeight {
		m.clickHistoryRow(row - 1) // row 0 of the table pane is its header
		return
	}
	m.clickPayloadKey(row - m.tableHeight)
}

func (m *Model) clickHistoryRow(idx int) {
	rows := m.historyTable.Rows()
	if idx < 0 || idx >= len(rows) {
		return
	}
	m.vm.Focus = viewmodel.FocusHistory
	m.vm.SelectedHistoryOffset = idx
	m.refreshHistoryTable()
}

func (m *Model) clickPayloadKey(row int) {
	m.vm.Focus = viewmodel.FocusPayload
	if row <= 0 { // row 0 is the "/path" selector line, not a key
		return
	}
	snap := m.buildSnapshot()
	if snap.SelectedPayload == nil || snap.SelectedPayload.Kind != payload.KindJSON {
		return
	}
	keys, ok := jsonKeysAtValue(snap.SelectedPayload.Value, m.vm.JSONPath)
	idx := row - 1
	if !ok || idx < 0 || idx >= len(keys) {
		return
	}
	m.vm.JSONCursor = idx
}

func (m *Model) buildSnapshot() viewmodel.Snapshot {
	root := m.store.SnapshotTree()
	rows := viewmodel.FlattenVisible(wrapTree(root), m.vm.Opened, activeQuery(m.vm))
	historyLen := m.store.HistoryLen(m.vm.SelectedTopic)

	var selectedPayload *history.Entry
	if entry, ok := m.store.EntryFromNewest(m.vm.SelectedTopic, m.vm.SelectedHistoryOffset); ok {
		selectedPayload = &entry
	}
	snap := viewmodel.Snapshot{Rows: rows, HistoryLen: historyLen}
	if selectedPayload != nil {
		snap.SelectedPayload = &selectedPayload.Payload
	}
	return snap
}

func activeQuery(vm *viewmodel.State) string {
	if vm.SearchActive {
		return vm.SearchQuery
	}
	return ""
}

func (m *Model) layout() {
	statsLines := 1  // info bar
	footerLines := 1 // key-hint footer
	borderLines := 2 // pane border top+bottom, matches renderBody's Height(m.height-4)
	available := m.height - statsLines - footerLines - borderLines
	if available < 1 {
		available = 1
	}
	leftW := m.width / 3
	if leftW < 16 {
		leftW = 16
	}
	rightW := m.width - leftW
	if rightW < 16 {
		rightW = 16
	}
	tableHeight := available / 2
	if tableHeight < 3 {
		tableHeight = 3
	}
	m.tableHeight = tableHeight
	m.historyTable.SetWidth(rightW - 2)
	m.historyTable.SetHeight(tableHeight)
}

func (m *Model) refreshHistoryTable() {
	entries := m.store.SnapshotHistory(m.vm.SelectedTopic)
	rows := make([]table.Row, 0, len(entries))
	for i := len(entries) - 1; i >= 0; i-- {
		e := entries[i]
		rows = append(rows, table.Row{
			timeColumn(e),
			e.QoS.String(),
			fmt.Sprintf("%d", e.RawSize),
			previewText(e),
		})
	}
	m.historyTable.SetRows(rows)
	offset := m.vm.SelectedHistoryOffset
	if offset < len(rows) {
		m.historyTable.SetCursor(offset)
	}

	if entry, ok := m.store.EntryFromNewest(m.vm.SelectedTopic, m.vm.SelectedHistoryOffset); ok {
		switch entry.Payload.Kind {
		case payload.KindJSON, payload.KindMessagePack:
			m.vm.ResolveJSONPath(entry.Payload.Value)
		}
	}
}

// timeColumn renders the history table's Time column: a retained delivery
// shows "RETAINED" instead of a clock time, matching logfmt.timestampColumn
// so the interactive table and the `log` subcommand agree (spec §6).
func timeColumn(e history.Entry) string {
	if e.Retained {
		return "RETAINED"
	}
	return e.ReceivedAt.Format("15:04:05.000")
}

func previewText(e history.Entry) string {
	switch e.Payload.Kind {
	case payload.KindText:
		return truncate(e.Payload.Text, 40)
	case payload.KindJSON:
		raw, err := json.Marshal(e.Payload.Value)
		if err != nil {
			return "<invalid json>"
		}
		return truncate(string(raw), 40)
	default:
		return fmt.Sprintf("<%s, %d bytes>", e.Payload.Kind, e.Payload.RawSize)
	}
}

func truncate(s string, n int) string {
	if len(s) <= n {
		return s
	}
	return s[:n] + "…"
}
