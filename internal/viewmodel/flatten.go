package viewmodel

import "strings"

// VisibleRow is one line of the flattened tree pane: a node together
// with its depth (for indentation) and whether it has children at all
// (for showing an expand/collapse indicator).
type VisibleRow struct {
	Node        TreeNode
	Depth       int
	HasChildren bool
}

// TreeNode is the minimal shape flatten needs from a history.TreeView,
// kept as an interface so this package does not import history and stay
// a pure function of caller-supplied data (spec §4.5's "stateless w.r.t.
// the store").
type TreeNode interface {
	TopicPath() string
	LeafName() string
	ChildNodes() []TreeNode
}

// FlattenVisible walks root's children (root itself is the synthetic
// top of the tree and is never shown as a row) and returns one
// VisibleRow per node that should currently be drawn: every top-level
// node, plus the children of any node present in opened, restricted to
// nodes matching query when query is non-empty (a node matches if its
// own topic matches or any descendant does, so ancestors of a match
// stay visible even while collapsed by search).
func FlattenVisible(root TreeNode, opened map[string]bool, query string) []VisibleRow {
	var rows []VisibleRow
	query = strings.ToLower(strings.TrimSpace(query))

	var walk func(n TreeNode, depth int)
	walk = func(n TreeNode, depth int) {
		for _, c := range n.ChildNodes() {
			if query != "" && !subtreeMatches(c, query) {
				continue
			}
			rows = append(rows, VisibleRow{Node: c, Depth: depth, HasChildren: len(c.ChildNodes()) > 0})
			if opened[c.TopicPath()] || (query != "" && len(c.ChildNodes()) > 0) {
				walk(c, depth+1)
			}
		}
	}
	walk(root, 0)
	return rows
}

func subtreeMatches(n TreeNode, query string) bool {
	if strings.Contains(strings.ToLower(n.TopicPath()), query) {
		return true
	}
	for _, c := range n.ChildNodes() {
		if subtreeMatches(c, query) {
			return true
		}
	}
	return false
}
