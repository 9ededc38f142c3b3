package history

import (
	"time"

	"github.com/mqttui/mqttui/internal/payload"
)

// QoS mirrors the three MQTT delivery guarantee levels.
type QoS int

const (
	QoSAtMostOnce QoS = iota
	QoSAtLeastOnce
	QoSExactlyOnce
)

func (q QoS) String() string {
	switch q {
	case QoSAtMostOnce:
		return "AtMostOnce"
	case QoSAtLeastOnce:
		return "AtLeastOnce"
	case QoSExactlyOnce:
		return "ExactlyOnce"
	default:
		return "Unknown"
	}
}

// Entry is a single received message recorded against a topic node.
// Topic itself is not stored here; it is implicit in the containing
// node, per spec §3.
type Entry struct {
	// ReceivedAt uses time.Time's monotonic reading (present whenever
	// the value comes from time.Now, as it always does here) so that
	// ordering comparisons via Sub/Before are immune to wall-clock
	// adjustments, without needing a second explicit field.
	ReceivedAt time.Time
	QoS        QoS
	Retained   bool
	Payload    payload.Payload
	RawSize    int
}
