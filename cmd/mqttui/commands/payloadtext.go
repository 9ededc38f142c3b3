package commands

import (
	"encoding/json"

	"github.com/mqttui/mqttui/internal/history"
	"github.com/mqttui/mqttui/internal/logfmt"
	"github.com/mqttui/mqttui/internal/payload"
)

// payloadText renders a history.Entry's payload as the single-line
// string the log/read-one subcommands print: valid UTF-8 bodies (text
// or JSON) show their decoded form, everything else falls back to a
// Go-syntax byte-slice representation.
func payloadText(e history.Entry) string {
	switch e.Payload.Kind {
	case payload.KindText:
		return logfmt.PayloadText(e.Payload.Raw, true, e.Payload.Text)
	case payload.KindJSON:
		raw, err := json.Marshal(e.Payload.Value)
		if err != nil {
			return logfmt.PayloadText(e.Payload.Raw, false, "")
		}
		return string(raw)
	default:
		return logfmt.PayloadText(e.Payload.Raw, false, "")
	}
}
