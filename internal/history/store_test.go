package history_test

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/mqttui/mqttui/internal/history"
	"github.com/mqttui/mqttui/internal/payload"
)

func entryFor(text string, retained bool) history.Entry {
	return history.Entry{
		ReceivedAt: time.Now(),
		QoS:        history.QoSAtMostOnce,
		Retained:   retained,
		Payload:    payload.Decode([]byte(text), 0),
		RawSize:    len(text),
	}
}

// TestScenario1 is spec.md §8 scenario 1.
func TestScenario1(t *testing.T) {
	s := history.New(0)
	s.Insert("home/livingroom/temp", entryFor("21.5", false))

	tree := s.SnapshotTree()
	home := tree.Find("home")
	require.NotNil(t, home)
	livingroom := tree.Find("home/livingroom")
	require.NotNil(t, livingroom)
	leaf := tree.Find("home/livingroom/temp")
	require.NotNil(t, leaf)

	assert.EqualValues(t, 1, home.MessagesBelow+home.Messages)
	assert.EqualValues(t, 1, leaf.Messages)
	require.NotNil(t, leaf.LastPayload)
	// "21.5" is valid UTF-8 that also parses as a JSON number.
	assert.Equal(t, payload.KindJSON, leaf.LastPayload.Kind)

	n, ok := payload.ExtractNumber(*leaf.LastPayload)
	require.True(t, ok)
	assert.InDelta(t, 21.5, n, 1e-9)
}

func TestScenario2WhitespaceCutoff(t *testing.T) {
	s := history.New(0)
	s.Insert("home/sensor", entryFor("20.0 °C", false))
	last, ok := s.EntryFromNewest("home/sensor", 0)
	require.True(t, ok)
	n, ok := payload.ExtractNumber(last.Payload)
	require.True(t, ok)
	assert.InDelta(t, 20.0, n, 1e-9)
}

func TestScenario3JSONNoDirectNumber(t *testing.T) {
	s := history.New(0)
	s.Insert("home/sensor", entryFor(`{"t":22}`, false))
	last, ok := s.EntryFromNewest("home/sensor", 0)
	require.True(t, ok)
	assert.Equal(t, payload.KindJSON, last.Payload.Kind)
	_, ok = payload.ExtractNumber(last.Payload)
	assert.False(t, ok)

	m := last.Payload.Value.(map[string]any)
	assert.Equal(t, float64(22), m["t"])
}

// TestAncestorSubtreeCountInvariant is spec.md §8 invariant 1.
func TestAncestorSubtreeCountInvariant(t *testing.T) {
	s := history.New(0)
	topics := []string{
		"a/b/c",
		"a/b/c",
		"a/b/d",
		"a/e",
	}
	for _, top := range topics {
		s.Insert(top, entryFor("x", false))
	}

	tree := s.SnapshotTree()
	a := tree.Find("a")
	require.NotNil(t, a)
	assert.EqualValues(t, len(topics), a.Messages+a.MessagesBelow)

	ab := tree.Find("a/b")
	require.NotNil(t, ab)
	assert.EqualValues(t, 3, ab.Messages+ab.MessagesBelow)

	abc := tree.Find("a/b/c")
	require.NotNil(t, abc)
	assert.EqualValues(t, 2, abc.Messages)
	assert.EqualValues(t, 0, abc.MessagesBelow)
}

func TestChildrenSortedLexicographically(t *testing.T) {
	s := history.New(0)
	for _, top := range []string{"b", "a", "c", "a/z", "a/a"} {
		s.Insert(top, entryFor("x", false))
	}
	tree := s.SnapshotTree()
	require.Len(t, tree.Children, 3)
	assert.Equal(t, []string{"a", "b", "c"}, []string{tree.Children[0].Leaf, tree.Children[1].Leaf, tree.Children[2].Leaf})

	a := tree.Find("a")
	require.Len(t, a.Children, 2)
	assert.Equal(t, "a", a.Children[0].Leaf)
	assert.Equal(t, "z", a.Children[1].Leaf)
}

func TestHistoryPreservesReceiptOrder(t *testing.T) {
	s := history.New(0)
	for i := 0; i < 5; i++ {
		s.Insert("a/b", entryFor("x", false))
		time.Sleep(time.Microsecond)
	}
	entries := s.SnapshotHistory("a/b")
	require.Len(t, entries, 5)
	for i := 1; i < len(entries); i++ {
		assert.False(t, entries[i].ReceivedAt.Before(entries[i-1].ReceivedAt))
	}
}

// TestSelectionOffsetSurvivesGrowth is spec.md §8 scenario 4.
func TestSelectionOffsetSurvivesGrowth(t *testing.T) {
	s := history.New(0)
	for i := 0; i < 5; i++ {
		s.Insert("a/b", entryFor("m"+string(rune('0'+i)), false))
	}
	selected, ok := s.EntryFromNewest("a/b", 2)
	require.True(t, ok)
	wantText := selected.Payload.Text

	for i := 0; i < 3; i++ {
		s.Insert("a/b", entryFor("new"+string(rune('0'+i)), false))
	}

	nowAt, ok := s.EntryFromNewest("a/b", 2+3)
	require.True(t, ok)
	assert.Equal(t, wantText, nowAt.Payload.Text)
}

func TestRetainedEntriesNotDeduplicated(t *testing.T) {
	s := history.New(0)
	s.Insert("a", entryFor("1", true))
	s.Insert("a", entryFor("2", true))
	assert.Len(t, s.SnapshotHistory("a"), 2)
}

func TestHistoryCapDropsOldest(t *testing.T) {
	s := history.New(2)
	s.Insert("a", entryFor("1", false))
	s.Insert("a", entryFor("2", false))
	s.Insert("a", entryFor("3", false))
	entries := s.SnapshotHistory("a")
	require.Len(t, entries, 2)
	assert.Equal(t, "2", string(entries[0].Payload.Raw))
	assert.Equal(t, "3", string(entries[1].Payload.Raw))
}

func TestRemoveHistoryEntryLocalOnly(t *testing.T) {
	s := history.New(0)
	s.Insert("a", entryFor("1", false))
	s.Insert("a", entryFor("2", false))
	ok := s.RemoveHistoryEntry("a", 0) // newest ("2")
	require.True(t, ok)
	entries := s.SnapshotHistory("a")
	require.Len(t, entries, 1)
	assert.Equal(t, "1", string(entries[0].Payload.Raw))

	tree := s.SnapshotTree()
	a := tree.Find("a")
	assert.EqualValues(t, 1, a.Messages)
}

func TestTotalMessagesCountsEveryInsert(t *testing.T) {
	s := history.New(0)
	assert.EqualValues(t, 0, s.TotalMessages())
	s.Insert("a", entryFor("1", false))
	s.Insert("a/b", entryFor("2", false))
	s.Insert("c", entryFor("3", false))
	assert.EqualValues(t, 3, s.TotalMessages())
}

func TestTotalMessagesDecrementsOnRemove(t *testing.T) {
	s := history.New(0)
	s.Insert("a", entryFor("1", false))
	s.Insert("a", entryFor("2", false))
	require.True(t, s.RemoveHistoryEntry("a", 0))
	assert.EqualValues(t, 1, s.TotalMessages())
}

func TestSubtreeEnumeratesRetained(t *testing.T) {
	s := history.New(0)
	s.Insert("foo/a", entryFor("1", true))
	s.Insert("foo/b", entryFor("2", true))
	s.Insert("foo/a", entryFor("3", false))

	all := s.Subtree("foo")
	require.Len(t, all, 2)
	byTopic := map[string]bool{}
	for _, rt := range all {
		byTopic[rt.Topic] = rt.Retained
	}
	assert.False(t, byTopic["foo/a"]) // latest publish on foo/a was not retained
	assert.True(t, byTopic["foo/b"])
}

func TestConcurrentInsertAndSnapshot(t *testing.T) {
	s := history.New(0)
	done := make(chan struct{})
	go func() {
		defer close(done)
		for i := 0; i < 500; i++ {
			s.Insert("load/topic", entryFor("v", false))
		}
	}()
	for i := 0; i < 500; i++ {
		tree := s.SnapshotTree()
		_ = tree.Find("load/topic")
	}
	<-done
	assert.EqualValues(t, 500, s.TotalMessages())
}
