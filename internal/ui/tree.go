package ui

import (
	"fmt"
	"strings"

	"github.com/mqttui/mqttui/internal/history"
	"github.com/mqttui/mqttui/internal/viewmodel"
)

// renderTree draws the topic tree pane: one line per visible row, each
// annotated with "messages / subtree-messages" counts per spec §4.6.
func (m *Model) renderTree(width int) string {
	root := m.store.SnapshotTree()
	rows := viewmodel.FlattenVisible(wrapTree(root), m.vm.Opened, activeQuery(m.vm))

	var b strings.Builder
	for _, r := range rows {
		v := r.Node.(treeNode).v
		b.WriteString(renderTreeLine(v, r.Depth, r.HasChildren, m.vm.IsOpen(v.Topic), v.Topic == m.vm.SelectedTopic, width))
		b.WriteByte('\n')
	}
	if len(rows) == 0 {
		b.WriteString(dimFg.Render("(no messages yet)"))
	}
	return b.String()
}

func renderTreeLine(v *history.TreeView, depth int, hasChildren, open, selected bool, width int) string {
	indicator := "  "
	if hasChildren {
		if open {
			indicator = "▾ "
		} else {
			indicator = "▸ "
		}
	}
	indent := strings.Repeat("  ", depth)
	label := fmt.Sprintf("%s%s%s", indent, indicator, v.Leaf)
	counts := fmt.Sprintf("%d/%d", v.Messages, v.Messages+v.MessagesBelow)
	pad := width - len(label) - len(counts) - 1
	if pad < 1 {
		pad = 1
	}
	line := label + strings.Repeat(" ", pad) + counts
	if selected {
		return selectedFg.Render(line)
	}
	return line
}
