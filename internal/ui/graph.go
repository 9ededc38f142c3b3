package ui

import (
	"strings"
	"time"

	plot "github.com/chriskim06/drawille-go"

	"github.com/mqttui/mqttui/internal/payload"
)

const graphHeight = 8

// renderGraph draws the numeric time-series graph for the selected
// topic when it has at least two numeric samples, per spec §4.6.
// The canvas itself is index-addressed (drawille-go has no notion of a
// real-time x-axis), so, following the teacher's leftLabel/rightLabel
// technique (ankel-ankel-log-speed/program/main.go's plot footer), a
// line of oldest/newest receipt timestamps is rendered under the plot
// so the visible span reads as real time even though the underlying
// samples are addressed by position; non-finite values are dropped by
// payload.ExtractNumber before they ever reach here.
func (m *Model) renderGraph(width int) string {
	entries := m.store.SnapshotHistory(m.vm.SelectedTopic)
	series := make([]float64, 0, len(entries))
	var oldest, newest time.Time
	for _, e := range entries {
		v, ok := payload.ExtractNumber(e.Payload)
		if !ok {
			continue
		}
		series = append(series, v)
		if oldest.IsZero() {
			oldest = e.ReceivedAt
		}
		newest = e.ReceivedAt
	}
	if len(series) < 2 {
		return ""
	}

	canvas := plot.NewCanvas(width, graphHeight)
	canvas.NumDataPoints = len(series)
	canvas.ShowAxis = true
	canvas.Fill([][]float64{series})
	return canvas.String() + "\n" + renderTimeAxisLabels(oldest, newest, width)
}

// renderTimeAxisLabels prints the oldest sample's receipt time on the
// left and the newest's on the right, falling back to a single
// space-joined pair when the pane is too narrow for the gap to make
// sense (mirrors the teacher's narrow-pane fallback, minus the
// RFC3339-vs-clock-time step since this graph never grows wide enough
// to need it).
func renderTimeAxisLabels(oldest, newest time.Time, width int) string {
	leftLabel := oldest.Local().Format("15:04:05")
	rightLabel := newest.Local().Format("15:04:05")
	gap := width - len(leftLabel) - len(rightLabel)
	if gap < 1 {
		return dimFg.Render(leftLabel + " " + rightLabel)
	}
	return dimFg.Render(leftLabel + strings.Repeat(" ", gap) + rightLabel)
}
