// Package ui implements the renderer and event loop (spec §4.6, §4.7):
// a charmbracelet/bubbletea Model that is a pure function of (history
// store snapshot, view model, terminal size), plus the outer Run
// harness that guarantees terminal restoration on every exit path,
// including a panic.
//
// Grounded on ankel-ankel-log-speed/program/main.go's model/Update/View
// split (bubbletea + bubbles + lipgloss + drawille-go), generalized
// from a single leaderboard-and-plot layout into the tree/history/
// payload/graph layout spec §4.6 describes.
package ui

import (
	"github.com/mqttui/mqttui/internal/history"
	"github.com/mqttui/mqttui/internal/viewmodel"
)

// treeNode adapts a *history.TreeView to viewmodel.TreeNode so the view
// model package stays decoupled from the store's concrete snapshot
// type.
type treeNode struct {
	v *history.TreeView
}

func (n treeNode) TopicPath() string { return n.v.Topic }
func (n treeNode) LeafName() string  { return n.v.Leaf }

func (n treeNode) ChildNodes() []viewmodel.TreeNode {
	out := make([]viewmodel.TreeNode, len(n.v.Children))
	for i, c := range n.v.Children {
		out[i] = treeNode{v: c}
	}
	return out
}

// wrapTree adapts a root TreeView snapshot for use with
// viewmodel.FlattenVisible.
func wrapTree(root *history.TreeView) viewmodel.TreeNode {
	return treeNode{v: root}
}
