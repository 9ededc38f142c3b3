package ui

import (
	"encoding/json"
	"fmt"
	"sort"
	"strconv"
	"strings"

	"github.com/mqttui/mqttui/internal/payload"
)

// renderPayloadPanel draws the payload view for the currently selected
// (topic, history offset): a JSON tree selector plus value display when
// the payload is JSON, the raw text/hex otherwise, and a numeric graph
// beneath it once the topic has at least two numeric samples (spec
// §4.6).
func (m *Model) renderPayloadPanel(width int) string {
	entry, ok := m.store.EntryFromNewest(m.vm.SelectedTopic, m.vm.SelectedHistoryOffset)
	if !ok {
		return dimFg.Render("(no payload selected)")
	}

	var body string
	switch entry.Payload.Kind {
	case payload.KindJSON, payload.KindMessagePack:
		// MessagePack decodes into the same map[string]any/[]any shape as
		// JSON (internal/payload), so it gets the same key-path tree
		// selector rather than an inert dump.
		body = m.renderJSONPanel(entry.Payload, width)
	case payload.KindText:
		body = entry.Payload.Text
	default:
		body = fmt.Sprintf("%d bytes binary\n%s", entry.Payload.RawSize, hexPreview(entry.Payload.Raw))
	}
	if entry.Payload.Truncated {
		body += fmt.Sprintf("\n(truncated to %d of %d bytes)", len(entry.Payload.Raw), entry.Payload.RawSize)
	}

	graph := m.renderGraph(width)
	if graph == "" {
		return body
	}
	return body + "\n" + graph
}

func (m *Model) renderJSONPanel(p payload.Payload, width int) string {
	keys, _ := jsonKeysAtValue(p.Value, m.vm.JSONPath)

	selector := "/" + strings.Join(m.vm.JSONPath, "/")
	var b strings.Builder
	fmt.Fprintf(&b, "%s\n", dimFg.Render(selector))
	for i, k := range keys {
		line := "  " + k
		if i == m.vm.JSONCursor {
			line = selectedFg.Render("> " + k)
		}
		b.WriteString(line + "\n")
	}

	value, _ := jsonValueAt(p.Value, m.vm.JSONPath)
	rendered, err := json.MarshalIndent(value, "", "  ")
	if err != nil {
		return b.String()
	}
	b.WriteString(string(rendered))
	return b.String()
}

// jsonKeysAtValue mirrors viewmodel's internal jsonKeysAt but operates
// directly on a decoded value for the renderer's own drill-down list;
// duplicated rather than exported from viewmodel to keep that package's
// surface limited to pure state transitions. Object keys are sorted for
// a stable on-screen order matching JSONCursor's index into the same
// list; array elements keep their natural index order.
func jsonKeysAtValue(root any, path []string) ([]string, bool) {
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

// jsonValueAt walks path (object keys or array indices) into root.
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

func hexPreview(raw []byte) string {
	n := len(raw)
	if n > 32 {
		n = 32
	}
	var b strings.Builder
	for i := 0; i < n; i++ {
		fmt.Fprintf(&b, "%02x ", raw[i])
	}
	if len(raw) > n {
		b.WriteString("…")
	}
	return b.String()
}
