// Package logfmt renders MQTT messages as the human-readable line format
// from spec §6 and the newline-delimited JSON format used by `log
// --json`, used by the `log` subcommand (and, through PayloadText, by
// `read-one`). Grounded on original_source/src/format.rs.
package logfmt

import (
	"encoding/json"
	"fmt"
	"time"

	"github.com/mqttui/mqttui/internal/history"
)

// Line renders one message the way `mqttui log` prints to stdout:
// "{HH:MM:SS.mmm | RETAINED} {topic:50} QoS:{qos:11} Payload({len:3}): {payload}".
func Line(topicPath string, retained bool, qos history.QoS, receivedAt time.Time, payload string) string {
	timestamp := timestampColumn(retained, receivedAt)
	return fmt.Sprintf("%-12s %-50s QoS:%-11s Payload(%3d): %s",
		timestamp, topicPath, qos.String(), len(payload), payload)
}

func timestampColumn(retained bool, receivedAt time.Time) string {
	if retained {
		return "RETAINED"
	}
	return receivedAt.Format("15:04:05.000")
}

// JSONLine is the `log --json` newline-delimited record shape.
type JSONLine struct {
	Time     time.Time `json:"time"`
	Topic    string    `json:"topic"`
	QoS      string    `json:"qos"`
	Retained bool      `json:"retained"`
	Payload  string    `json:"payload"`
}

// JSON marshals one message as a single JSON line, without a trailing
// newline (callers append their own).
func JSON(topicPath string, retained bool, qos history.QoS, receivedAt time.Time, payload string) ([]byte, error) {
	return json.Marshal(JSONLine{
		Time:     receivedAt,
		Topic:    topicPath,
		QoS:      qos.String(),
		Retained: retained,
		Payload:  payload,
	})
}

// PayloadText renders a payload for the human-readable line: valid UTF-8
// bodies are shown verbatim, everything else falls back to a Go-syntax
// byte-slice representation so the line stays on one row.
func PayloadText(raw []byte, isText bool, text string) string {
	if isText {
		return text
	}
	return fmt.Sprintf("%#v", raw)
}
