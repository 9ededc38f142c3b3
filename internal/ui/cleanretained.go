package ui

import (
	tea "github.com/charmbracelet/bubbletea"

	"github.com/mqttui/mqttui/internal/cleanretained"
)

type cleanRetainedDoneMsg cleanretained.Result

// cleanRetainedCmd runs the interactive clean-retained flow (spec
// §4.8): every topic already known in the subtree is cleared, not only
// ones observed as retained, since a harmless no-op publish to a
// non-retained topic removes any ambiguity about broker state.
func (m *Model) cleanRetainedCmd(prefix string) tea.Cmd {
	return func() tea.Msg {
		subtree := m.store.Subtree(prefix)
		topics := make([]string, len(subtree))
		for i, t := range subtree {
			topics[i] = t.Topic
		}
		res := cleanretained.CleanSubtree(m.client, topics)
		return cleanRetainedDoneMsg(res)
	}
}
