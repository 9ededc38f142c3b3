// Command mqttui is an interactive terminal client for MQTT brokers,
// plus a handful of non-interactive subcommands (publish, log,
// read-one, clean-retained) sharing the same connection layer.
//
// Grounded on haivivi-giztoy/go/cmd/giztoy's main.go/commands.Execute()
// split.
package main

import (
	"fmt"
	"os"

	"github.com/mqttui/mqttui/cmd/mqttui/commands"
	"github.com/mqttui/mqttui/internal/apperr"
)

func main() {
	if err := commands.Execute(); err != nil {
		fmt.Fprintln(os.Stderr, "mqttui:", err)
		os.Exit(apperr.ExitCode(err))
	}
}
