package viewmodel

import (
	"sort"
	"strconv"

	"github.com/charmbracelet/bubbles/key"
	tea "github.com/charmbracelet/bubbletea"

	"github.com/mqttui/mqttui/internal/payload"
)

func matches(b key.Binding, msg tea.KeyMsg) bool {
	return key.Matches(msg, b)
}

// Snapshot bundles the read-only data Update needs from the store for a
// single dispatch: the flattened, already-filtered tree rows (caller
// applies FlattenVisible first, since only the caller knows the
// concrete TreeNode type) and the selected topic's history length.
type Snapshot struct {
	Rows            []VisibleRow
	HistoryLen      int
	SelectedPayload *payload.Payload // nil if no history entry is selected
}

// Update applies one key event to s, returning true if anything visible
// changed. It never touches a store; all inputs are s's own fields plus
// snap.
func (s *State) Update(km KeyMap, msg tea.KeyMsg, snap Snapshot) bool {
	// Ctrl-C always quits, in every mode: it must win over modal
	// confirmation and search-input capture, both of which otherwise
	// swallow every key event themselves ('q'/'esc' stay contextual —
	// esc cancels search/modal, 'q' can be typed into a search query —
	// only ctrl+c bypasses that routing).
	if msg.Type == tea.KeyCtrlC {
		s.Quit = true
		return true
	}
	if s.Modal.Kind != ModalNone {
		return s.updateModal(km, msg)
	}
	if s.SearchActive {
		return s.updateSearch(km, msg)
	}

	switch {
	case matches(km.Quit, msg):
		s.Quit = true
		return true
	case matches(km.Tab, msg):
		s.Focus = s.Focus.next()
		return true
	case matches(km.Search, msg) && s.Focus == FocusTree:
		s.SearchActive = true
		s.SearchQuery = ""
		return true
	}

	switch s.Focus {
	case FocusTree:
		return s.updateTree(km, msg, snap)
	case FocusHistory:
		return s.updateHistory(km, msg, snap)
	case FocusPayload:
		return s.updatePayload(km, msg, snap)
	}
	return false
}

func (s *State) updateTree(km KeyMap, msg tea.KeyMsg, snap Snapshot) bool {
	idx := s.selectedRowIndex(snap.Rows)
	switch {
	case matches(km.Up, msg):
		return s.moveTreeSelection(snap.Rows, idx, -1)
	case matches(km.Down, msg):
		return s.moveTreeSelection(snap.Rows, idx, 1)
	case matches(km.HalfPageUp, msg):
		return s.moveTreeSelection(snap.Rows, idx, -halfPage(len(snap.Rows)))
	case matches(km.HalfPageDown, msg):
		return s.moveTreeSelection(snap.Rows, idx, halfPage(len(snap.Rows)))
	case matches(km.Home, msg):
		return s.moveTreeSelection(snap.Rows, idx, -len(snap.Rows))
	case matches(km.End, msg):
		return s.moveTreeSelection(snap.Rows, idx, len(snap.Rows))
	case matches(km.Right, msg):
		if idx >= 0 && snap.Rows[idx].HasChildren {
			s.SetOpen(snap.Rows[idx].Node.TopicPath(), true)
			return true
		}
	case matches(km.Left, msg):
		if idx >= 0 && snap.Rows[idx].HasChildren {
			s.SetOpen(snap.Rows[idx].Node.TopicPath(), false)
			return true
		}
	case matches(km.Toggle, msg):
		if idx >= 0 && snap.Rows[idx].HasChildren {
			s.ToggleOpen(snap.Rows[idx].Node.TopicPath())
			return true
		}
	case matches(km.ExpandAll, msg):
		for _, r := range snap.Rows {
			s.SetOpen(r.Node.TopicPath(), true)
		}
		return true
	case matches(km.CollapseAll, msg):
		s.CollapseAll()
		return true
	case matches(km.Delete, msg):
		if idx >= 0 {
			s.Modal = Modal{Kind: ModalConfirmCleanRetained, Topic: snap.Rows[idx].Node.TopicPath()}
			return true
		}
	}
	return false
}

func (s *State) moveTreeSelection(rows []VisibleRow, idx, delta int) bool {
	if len(rows) == 0 {
		return false
	}
	next := idx + delta
	if next < 0 {
		next = 0
	}
	if next >= len(rows) {
		next = len(rows) - 1
	}
	if next == idx {
		return false
	}
	s.SelectTopic(rows[next].Node.TopicPath())
	return true
}

func (s *State) selectedRowIndex(rows []VisibleRow) int {
	for i, r := range rows {
		if r.Node.TopicPath() == s.SelectedTopic {
			return i
		}
	}
	return -1
}

func (s *State) updateHistory(km KeyMap, msg tea.KeyMsg, snap Snapshot) bool {
	switch {
	case matches(km.Up, msg):
		return s.moveHistoryOffset(snap.HistoryLen, -1)
	case matches(km.Down, msg):
		return s.moveHistoryOffset(snap.HistoryLen, 1)
	case matches(km.HalfPageUp, msg):
		return s.moveHistoryOffset(snap.HistoryLen, -halfPage(snap.HistoryLen))
	case matches(km.HalfPageDown, msg):
		return s.moveHistoryOffset(snap.HistoryLen, halfPage(snap.HistoryLen))
	case matches(km.Home, msg):
		return s.moveHistoryOffset(snap.HistoryLen, -snap.HistoryLen)
	case matches(km.End, msg):
		return s.moveHistoryOffset(snap.HistoryLen, snap.HistoryLen)
	case matches(km.Delete, msg):
		// Deletion itself is performed by the caller against the store;
		// the view model only needs to know it should re-clamp after.
		return true
	}
	return false
}

func (s *State) moveHistoryOffset(historyLen, delta int) bool {
	if historyLen == 0 {
		return false
	}
	next := s.SelectedHistoryOffset + delta
	if next < 0 {
		next = 0
	}
	if next > historyLen-1 {
		next = historyLen - 1
	}
	if next == s.SelectedHistoryOffset {
		return false
	}
	s.SelectedHistoryOffset = next
	return true
}

func (s *State) updatePayload(km KeyMap, msg tea.KeyMsg, snap Snapshot) bool {
	if snap.SelectedPayload == nil {
		return false
	}
	switch snap.SelectedPayload.Kind {
	case payload.KindJSON, payload.KindMessagePack:
	default:
		return false
	}
	s.ResolveJSONPath(snap.SelectedPayload.Value)
	keys, hasKeys := jsonKeysAt(snap.SelectedPayload.Value, s.JSONPath)
	switch {
	case matches(km.Down, msg):
		if hasKeys && len(keys) > 0 && s.JSONCursor < len(keys)-1 {
			s.JSONCursor++
			return true
		}
	case matches(km.Up, msg):
		if hasKeys && s.JSONCursor > 0 {
			s.JSONCursor--
			return true
		}
	case matches(km.Right, msg):
		if hasKeys && len(keys) > 0 {
			cursor := s.JSONCursor
			if cursor >= len(keys) {
				cursor = len(keys) - 1
			}
			s.JSONPath = append(append([]string{}, s.JSONPath...), keys[cursor])
			s.JSONCursor = 0
			return true
		}
	case matches(km.Left, msg):
		if len(s.JSONPath) > 0 {
			s.JSONPath = s.JSONPath[:len(s.JSONPath)-1]
			s.JSONCursor = 0
			return true
		}
	}
	return false
}

func (s *State) updateSearch(km KeyMap, msg tea.KeyMsg) bool {
	switch {
	case matches(km.SearchCommit, msg):
		s.SearchActive = false
		return true
	case matches(km.SearchCancel, msg):
		s.SearchActive = false
		s.SearchQuery = ""
		return true
	case msg.Type == tea.KeyBackspace:
		if len(s.SearchQuery) > 0 {
			s.SearchQuery = s.SearchQuery[:len(s.SearchQuery)-1]
			return true
		}
	case msg.Type == tea.KeyRunes:
		s.SearchQuery += string(msg.Runes)
		return true
	}
	return false
}

func (s *State) updateModal(km KeyMap, msg tea.KeyMsg) bool {
	switch msg.String() {
	case "y", "Y", "enter":
		// Caller reads s.Modal before making this call and performs the
		// clean-retained publish; here we only close the dialog.
		s.Modal = Modal{}
		return true
	case "n", "N", "esc":
		s.Modal = Modal{}
		return true
	}
	return false
}

func halfPage(total int) int {
	n := total / 2
	if n < 1 {
		n = 1
	}
	return n
}

// ResolveJSONPath truncates s.JSONPath to the closest ancestor path that
// still resolves within value, per spec §4.5's selection-resilience
// requirement: a live payload can change shape between deliveries, and a
// path that pointed into the old shape must fall back to the nearest
// surviving parent rather than resolve to nothing. Called both from key
// dispatch and from the render path each time the selected entry changes.
func (s *State) ResolveJSONPath(value any) {
	for len(s.JSONPath) > 0 {
		if _, ok := jsonValueAt(value, s.JSONPath); ok {
			break
		}
		s.JSONPath = s.JSONPath[:len(s.JSONPath)-1]
		s.JSONCursor = 0
	}
	keys, ok := jsonKeysAt(value, s.JSONPath)
	if !ok || len(keys) == 0 {
		s.JSONCursor = 0
		return
	}
	if s.JSONCursor >= len(keys) {
		s.JSONCursor = len(keys) - 1
	}
	if s.JSONCursor < 0 {
		s.JSONCursor = 0
	}
}

// jsonValueAt walks path (object keys or array indices, per spec §3) into
// root and returns the value found there.
func jsonValueAt(root any, path []string) (any, bool) {
	cur := root
	for _, seg := range path {
		switch v := cur.(type) {
		case map[string]any:
			next, ok := v[seg]
			if !ok {
				return nil, false
			}
			cur = next
		case []any:
			i, err := strconv.Atoi(seg)
			if err != nil || i < 0 || i >= len(v) {
				return nil, false
			}
			cur = v[i]
		default:
			return nil, false
		}
	}
	return cur, true
}

// jsonKeysAt resolves the object keys or array indices available at path
// within root, per spec §4.5's key-path drill-down. Object keys are
// sorted so the sibling list (and JSONCursor's position within it) is
// stable across calls; array indices are returned in element order.
func jsonKeysAt(root any, path []string) ([]string, bool) {
	cur, ok := jsonValueAt(root, path)
	if !ok {
		return nil, false
	}
	switch v := cur.(type) {
	case map[string]any:
		keys := make([]string, 0, len(v))
		for k := range v {
			keys = append(keys, k)
		}
		sort.Strings(keys)
		return keys, true
	case []any:
		keys := make([]string, len(v))
		for i := range v {
			keys[i] = strconv.Itoa(i)
		}
		return keys, true
	default:
		return nil, false
	}
}
