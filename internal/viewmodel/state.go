package viewmodel

// Focus names the pane receiving keyboard input outside of search/modal
// mode.
type Focus int

const (
	FocusTree Focus = iota
	FocusHistory
	FocusPayload
)

func (f Focus) next() Focus {
	switch f {
	case FocusTree:
		return FocusHistory
	case FocusHistory:
		return FocusPayload
	default:
		return FocusTree
	}
}

// ModalKind tags the single modal dialog this program ever shows.
type ModalKind int

const (
	ModalNone ModalKind = iota
	ModalConfirmCleanRetained
)

// Modal is the current modal dialog, if any.
type Modal struct {
	Kind  ModalKind
	Topic string // subtree prefix targeted by ModalConfirmCleanRetained
}

// State is every piece of user-intent state the view model owns. Build
// one with New: the zero value's Opened map is nil, so expanding a node
// on it panics.
type State struct {
	Focus Focus

	Opened map[string]bool // topic -> expanded

	SelectedTopic         string
	SelectedHistoryOffset int // 0 = newest; offset-from-newest survives inserts

	SearchActive bool
	SearchQuery  string

	JSONPath   []string // ordered key-path into the selected payload's JSON tree
	JSONCursor int      // index of the highlighted sibling key/element at JSONPath

	Modal Modal

	Quit bool
}

// New builds an empty State with every top-level topic collapsed and the
// tree focused, matching the program's startup view (spec §4.5).
func New() *State {
	return &State{
		Focus:  FocusTree,
		Opened: make(map[string]bool),
	}
}

// IsOpen reports whether topicPath is currently expanded in the tree.
func (s *State) IsOpen(topicPath string) bool {
	return s.Opened[topicPath]
}

// SetOpen sets topicPath's expanded state.
func (s *State) SetOpen(topicPath string, open bool) {
	if open {
		s.Opened[topicPath] = true
	} else {
		delete(s.Opened, topicPath)
	}
}

// ToggleOpen flips topicPath's expanded state.
func (s *State) ToggleOpen(topicPath string) {
	s.SetOpen(topicPath, !s.IsOpen(topicPath))
}

// ExpandAll marks every topic in topics as open.
func (s *State) ExpandAll(topics []string) {
	for _, t := range topics {
		s.Opened[t] = true
	}
}

// CollapseAll clears every expanded topic.
func (s *State) CollapseAll() {
	s.Opened = make(map[string]bool)
}

// SelectTopic changes the selected topic and resets the row/JSON
// selection state that only makes sense relative to the previous
// topic's data.
func (s *State) SelectTopic(topicPath string) {
	if s.SelectedTopic == topicPath {
		return
	}
	s.SelectedTopic = topicPath
	s.SelectedHistoryOffset = 0
	s.JSONPath = nil
	s.JSONCursor = 0
}
