// Package history implements the concurrent, append-only per-topic
// message history described in spec §4.3: a single writer (the MQTT
// thread) inserts messages while any number of readers (the UI thread)
// take snapshots under a shared read lock. A tree snapshot is a full
// copy of the tree, built while the read lock is held, so the writer
// waits for that copy to finish.
package history

import (
	"sort"
	"sync"

	"github.com/mqttui/mqttui/internal/topic"
)

// Store is safe for concurrent use. The zero value is not usable; use
// New.
type Store struct {
	mu         sync.RWMutex
	root       *node
	historyCap int // 0 = unlimited
}

// New creates an empty Store. historyCap bounds the number of entries
// kept per topic (0 = unlimited, the interactive default per spec §9's
// resolved Open Question).
func New(historyCap int) *Store {
	return &Store{
		root:       &node{history: newRing(0)},
		historyCap: historyCap,
	}
}

// Insert records entry under topicPath, creating any missing ancestor
// nodes and incrementing every ancestor's subtree counter exactly once
// (spec §8 invariant 1). The write lock is held for the whole call;
// readers never observe a partially-updated tree.
func (s *Store) Insert(topicPath string, entry Entry) {
	s.mu.Lock()
	defer s.mu.Unlock()

	cur := s.root
	cur.subtreeCount++
	full := ""
	for i, seg := range topic.Split(topicPath) {
		if i == 0 {
			full = seg
		} else {
			full = full + "/" + seg
		}
		cur = cur.childOrCreate(seg, full, s.historyCap)
		cur.subtreeCount++
	}
	cur.count++
	cur.history.push(entry)
}

// SnapshotTree returns a read-only copy of the current tree. Every call
// copies every node; nothing is shared with earlier snapshots. The
// returned value never mutates; take a fresh snapshot to observe later
// writes.
func (s *Store) SnapshotTree() *TreeView {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.root.toView()
}

// SnapshotHistory returns a copy of topicPath's history in receipt
// order, oldest first, or nil if the topic has never been seen.
func (s *Store) SnapshotHistory(topicPath string) []Entry {
	s.mu.RLock()
	defer s.mu.RUnlock()
	n := s.find(topicPath)
	if n == nil {
		return nil
	}
	return n.history.snapshot()
}

// EntryFromNewest returns the entry at the given offset from the newest
// (0 = newest), and whether it exists — the basis of the view model's
// selection-resilient "offset from newest" addressing (spec §3, §4.5).
func (s *Store) EntryFromNewest(topicPath string, offset int) (Entry, bool) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	n := s.find(topicPath)
	if n == nil {
		return Entry{}, false
	}
	return n.history.fromNewest(offset)
}

// HistoryLen returns the number of entries currently stored for
// topicPath.
func (s *Store) HistoryLen(topicPath string) int {
	s.mu.RLock()
	defer s.mu.RUnlock()
	n := s.find(topicPath)
	if n == nil {
		return 0
	}
	return n.history.len()
}

// RemoveHistoryEntry deletes the entry at the given offset-from-newest
// from topicPath's local history only; it never touches the broker
// (spec §4.5, Del/Backspace on the history table).
func (s *Store) RemoveHistoryEntry(topicPath string, offsetFromNewest int) bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	n := s.find(topicPath)
	if n == nil {
		return false
	}
	idx := n.history.len() - 1 - offsetFromNewest
	if idx < 0 || idx >= n.history.len() {
		return false
	}
	n.history.removeAt(idx)
	n.count--
	cur := s.root
	cur.subtreeCount--
	for _, seg := range topic.Split(topicPath) {
		child, ok := cur.childByLeaf(seg)
		if !ok {
			break
		}
		child.subtreeCount--
		cur = child
	}
	return true
}

// RetainedTopic pairs a topic with whether its most recent entry there
// was a retained delivery, used by clean-retained enumeration.
type RetainedTopic struct {
	Topic    string
	Retained bool
}

// Subtree returns every topic present at or below prefix, together with
// whether their latest entry was retained. Used by the interactive
// clean-retained flow, which (per spec §4.8.3) clears every topic in the
// subtree rather than only ones observed as retained.
func (s *Store) Subtree(prefix string) []RetainedTopic {
	s.mu.RLock()
	defer s.mu.RUnlock()

	start := s.root
	if prefix != "" {
		start = s.find(prefix)
		if start == nil {
			return nil
		}
	}

	var out []RetainedTopic
	var walk func(n *node)
	walk = func(n *node) {
		if n.topic != "" && n.count > 0 {
			retained := false
			if last, ok := n.history.last(); ok {
				retained = last.Retained
			}
			out = append(out, RetainedTopic{Topic: n.topic, Retained: retained})
		}
		for _, c := range n.children {
			walk(c)
		}
	}
	walk(start)
	sort.Slice(out, func(i, j int) bool { return out[i].Topic < out[j].Topic })
	return out
}

// TotalMessages returns the total number of messages ever inserted.
func (s *Store) TotalMessages() uint64 {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.root.subtreeCount
}

func (s *Store) find(topicPath string) *node {
	cur := s.root
	for _, seg := range topic.Split(topicPath) {
		child, ok := cur.childByLeaf(seg)
		if !ok {
			return nil
		}
		cur = child
	}
	return cur
}
