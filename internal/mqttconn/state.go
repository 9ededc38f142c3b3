package mqttconn

import "fmt"

// State is the connection-state machine surfaced to the UI's info bar
// (spec §4.4): Connecting while the initial handshake or a reconnect
// attempt is in flight, Connected once the broker has acknowledged
// CONNECT, Disconnected with a human-readable reason otherwise.
type State int

const (
	Connecting State = iota
	Connected
	Disconnected
)

func (s State) String() string {
	switch s {
	case Connecting:
		return "Connecting"
	case Connected:
		return "Connected"
	case Disconnected:
		return "Disconnected"
	default:
		return "Unknown"
	}
}

// StateChange is one transition of the connection state machine, sent on
// Client.States().
type StateChange struct {
	State  State
	Reason string
}

func (c StateChange) String() string {
	if c.Reason == "" {
		return c.State.String()
	}
	return fmt.Sprintf("%s: %s", c.State, c.Reason)
}
