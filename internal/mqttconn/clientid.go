package mqttconn

import (
	"crypto/rand"
	"encoding/hex"
)

// DeriveClientID builds a "mqttui-" prefixed client id with 8 random hex
// characters, so two instances of this program watching the same broker
// never collide the way a PID- or timestamp-derived id occasionally
// would under fast repeated launches.
func DeriveClientID() string {
	var buf [4]byte
	if _, err := rand.Read(buf[:]); err != nil {
		// crypto/rand failing means the OS entropy source is broken; a
		// fixed suffix still lets the program run rather than panic.
		return "mqttui-00000000"
	}
	return "mqttui-" + hex.EncodeToString(buf[:])
}
