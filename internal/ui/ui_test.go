package ui

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/mqttui/mqttui/internal/history"
	"github.com/mqttui/mqttui/internal/payload"
	"github.com/mqttui/mqttui/internal/viewmodel"
)

func TestTruncate(t *testing.T) {
	assert.Equal(t, "hello", truncate("hello", 10))
	assert.Equal(t, "hell…", truncate("hello world", 4))
}

func TestPreviewTextText(t *testing.T) {
	e := history.Entry{Payload: payload.Payload{Kind: payload.KindText, Text: "21.5"}}
	assert.Equal(t, "21.5", previewText(e))
}

func TestPreviewTextJSON(t *testing.T) {
	e := history.Entry{Payload: payload.Payload{Kind: payload.KindJSON, Value: map[string]any{"t": 22.0}}}
	assert.Contains(t, previewText(e), `"t":22`)
}

func TestPreviewTextBinary(t *testing.T) {
	e := history.Entry{Payload: payload.Payload{Kind: payload.KindBinary, RawSize: 4}}
	assert.Contains(t, previewText(e), "binary")
	assert.Contains(t, previewText(e), "4 bytes")
}

func TestJSONValueAtNested(t *testing.T) {
	root := map[string]any{"a": map[string]any{"b": 1.0}}
	v, ok := jsonValueAt(root, []string{"a", "b"})
	assert.True(t, ok)
	assert.Equal(t, 1.0, v)
	_, ok = jsonValueAt(root, []string{"missing"})
	assert.False(t, ok)
}

func TestJSONValueAtArrayIndex(t *testing.T) {
	root := []any{10.0, 20.0, 30.0}
	v, ok := jsonValueAt(root, []string{"1"})
	assert.True(t, ok)
	assert.Equal(t, 20.0, v)
	_, ok = jsonValueAt(root, []string{"9"})
	assert.False(t, ok)
}

func TestJSONKeysAtValueArray(t *testing.T) {
	root := []any{"x", "y", "z"}
	keys, ok := jsonKeysAtValue(root, nil)
	assert.True(t, ok)
	assert.Equal(t, []string{"0", "1", "2"}, keys)
}

func TestJSONKeysAtValue(t *testing.T) {
	root := map[string]any{"a": 1.0, "b": 2.0}
	keys, ok := jsonKeysAtValue(root, nil)
	assert.True(t, ok)
	assert.ElementsMatch(t, []string{"a", "b"}, keys)
}

func TestHexPreviewTruncatesLongPayloads(t *testing.T) {
	raw := make([]byte, 64)
	out := hexPreview(raw)
	assert.Contains(t, out, "…")
}

func TestRenderTreeLineShowsCounts(t *testing.T) {
	v := &history.TreeView{Topic: "home", Leaf: "home", Messages: 3, MessagesBelow: 2}
	line := renderTreeLine(v, 0, true, false, false, 40)
	assert.Contains(t, line, "home")
	assert.Contains(t, line, "3/5")
}

func TestClickTreeSelectsTopicUnderCursor(t *testing.T) {
	store := history.New(0)
	store.Insert("home/sensor", history.Entry{ReceivedAt: time.Now(), Payload: payload.Payload{Kind: payload.KindText, Text: "1"}})
	store.Insert("office", history.Entry{ReceivedAt: time.Now(), Payload: payload.Payload{Kind: payload.KindText, Text: "2"}})

	m := &Model{store: store, vm: viewmodel.New(), width: 80, height: 24}
	snap := m.buildSnapshot()
	require.NotEmpty(t, snap.Rows)

	m.clickTree(0)
	assert.Equal(t, snap.Rows[0].Node.TopicPath(), m.vm.SelectedTopic)
	assert.Equal(t, viewmodel.FocusTree, m.vm.Focus)
}

func TestClickTreeIgnoresOutOfRangeRow(t *testing.T) {
	store := history.New(0)
	store.Insert("home", history.Entry{ReceivedAt: time.Now(), Payload: payload.Payload{Kind: payload.KindText, Text: "1"}})

	m := &Model{store: store, vm: viewmodel.New(), width: 80, height: 24}
	m.clickTree(50)
	assert.Empty(t, m.vm.SelectedTopic)
}

func TestClickHistoryRowSetsFocusAndOffset(t *testing.T) {
	store := history.New(0)
	m := &Model{store: store, vm: viewmodel.New()}
	store.Insert("home", history.Entry{ReceivedAt: time.Now(), Payload: payload.Payload{Kind: payload.KindText, Text: "a"}})
	store.Insert("home", history.Entry{ReceivedAt: time.Now(), Payload: payload.Payload{Kind: payload.KindText, Text: "b"}})
	m.vm.SelectedTopic = "home"
	m.refreshHistoryTable()

	m.clickHistoryRow(1)
	assert.Equal(t, viewmodel.FocusHistory, m.vm.Focus)
	assert.Equal(t, 1, m.vm.SelectedHistoryOffset)
}

func TestClickPayloadKeyHighlightsSibling(t *testing.T) {
	store := history.New(0)
	store.Insert("home", history.Entry{
		ReceivedAt: time.Now(),
		Payload:    payload.Payload{Kind: payload.KindJSON, Value: map[string]any{"a": 1.0, "b": 2.0}},
	})
	m := &Model{store: store, vm: viewmodel.New()}
	m.vm.SelectedTopic = "home"

	m.clickPayloadKey(2) // selector line (0) + "a" (1) + "b" (2)
	assert.Equal(t, viewmodel.FocusPayload, m.vm.Focus)
	assert.Equal(t, 1, m.vm.JSONCursor)
}

func TestRenderTimeAxisLabelsShowsOldestAndNewest(t *testing.T) {
	oldest := time.Date(2026, 8, 6, 10, 0, 0, 0, time.UTC)
	newest := oldest.Add(30 * time.Second)
	out := renderTimeAxisLabels(oldest, newest, 40)
	assert.Contains(t, out, oldest.Local().Format("15:04:05"))
	assert.Contains(t, out, newest.Local().Format("15:04:05"))
}

func TestRenderTimeAxisLabelsHandlesNarrowWidth(t *testing.T) {
	oldest := time.Date(2026, 8, 6, 10, 0, 0, 0, time.UTC)
	newest := oldest.Add(30 * time.Second)
	out := renderTimeAxisLabels(oldest, newest, 4)
	assert.NotEmpty(t, out)
}

func TestTimeColumnShowsRetainedInsteadOfClock(t *testing.T) {
	e := history.Entry{ReceivedAt: time.Date(2026, 8, 6, 10, 0, 0, 0, time.UTC), Retained: true}
	assert.Equal(t, "RETAINED", timeColumn(e))
}

func TestTimeColumnShowsClockForLiveEntry(t *testing.T) {
	when := time.Date(2026, 8, 6, 10, 0, 0, 0, time.UTC)
	e := history.Entry{ReceivedAt: when, Retained: false}
	assert.Equal(t, when.Format("15:04:05.000"), timeColumn(e))
}

func TestRefreshHistoryTableRendersRetainedTimeColumn(t *testing.T) {
	store := history.New(0)
	store.Insert("home", history.Entry{
		ReceivedAt: time.Now(),
		Retained:   true,
		Payload:    payload.Payload{Kind: payload.KindText, Text: "1"},
	})
	m := &Model{store: store, vm: viewmodel.New(), historyTable: newHistoryTable()}
	m.vm.SelectedTopic = "home"
	m.refreshHistoryTable()

	rows := m.historyTable.Rows()
	require.Len(t, rows, 1)
	assert.Equal(t, "RETAINED", rows[0][0])
}

func TestRefreshHistoryTableResolvesStaleJSONPath(t *testing.T) {
	store := history.New(0)
	store.Insert("home", history.Entry{
		ReceivedAt: time.Now(),
		Payload:    payload.Payload{Kind: payload.KindJSON, Value: map[string]any{"a": 1.0}},
	})
	m := &Model{store: store, vm: viewmodel.New(), historyTable: newHistoryTable()}
	m.vm.SelectedTopic = "home"
	m.vm.JSONPath = []string{"gone"}

	m.refreshHistoryTable()

	assert.Empty(t, m.vm.JSONPath)
}

func TestRenderPayloadPanelGivesMessagePackTheJSONSelector(t *testing.T) {
	store := history.New(0)
	store.Insert("home", history.Entry{
		ReceivedAt: time.Now(),
		Payload:    payload.Payload{Kind: payload.KindMessagePack, Value: map[string]any{"a": 1.0}},
	})
	m := &Model{store: store, vm: viewmodel.New(), historyTable: newHistoryTable()}
	m.vm.SelectedTopic = "home"

	out := m.renderPayloadPanel(60)
	assert.Contains(t, out, "a")
}

func TestWrapTreeAdaptsChildren(t *testing.T) {
	root := &history.TreeView{
		Topic: "",
		Children: []*history.TreeView{
			{Topic: "home", Leaf: "home"},
		},
	}
	node := wrapTree(root)
	assert.Len(t, node.ChildNodes(), 1)
	assert.Equal(t, "home", node.ChildNodes()[0].TopicPath())
}
