package history

import (
	"github.com/mqttui/mqttui/internal/payload"
	"github.com/mqttui/mqttui/internal/topic"
)

// TreeView is a read-only copy of one node in the topic tree and its
// descendants, safe to hold across frames without synchronization:
// once returned from Store.SnapshotTree it is never mutated.
type TreeView struct {
	Topic         string
	Leaf          string
	Messages      uint64
	MessagesBelow uint64
	// LastPayload is the most recently received payload at this exact
	// node, or nil if this node exists only because a descendant has
	// messages.
	LastPayload *payload.Payload
	LastRetained bool
	Children     []*TreeView
}

func (n *node) toView() *TreeView {
	view := &TreeView{
		Topic:         n.topic,
		Leaf:          n.leaf,
		Messages:      n.count,
		MessagesBelow: n.subtreeCount - n.count,
		Children:      make([]*TreeView, len(n.children)),
	}
	if last, ok := n.history.last(); ok {
		p := last.Payload
		view.LastPayload = &p
		view.LastRetained = last.Retained
	}
	for i, c := range n.children {
		view.Children[i] = c.toView()
	}
	return view
}

// Find descends a TreeView by full topic path segment by segment,
// returning the matching node if present. v itself is treated as the
// virtual root: it need not have Topic == "" for this to work, since the
// lookup is purely leaf-driven.
func (v *TreeView) Find(topicPath string) *TreeView {
	cur := v
	for _, seg := range topic.Split(topicPath) {
		next := findChildByLeaf(cur, seg)
		if next == nil {
			return nil
		}
		cur = next
	}
	return cur
}

func findChildByLeaf(v *TreeView, leaf string) *TreeView {
	for _, c := range v.Children {
		if c.Leaf == leaf {
			return c
		}
	}
	return nil
}

// Walk visits v and every descendant, depth first, in sorted order.
func (v *TreeView) Walk(f func(*TreeView)) {
	f(v)
	for _, c := range v.Children {
		c.Walk(f)
	}
}
