package commands

import (
	"github.com/spf13/cobra"

	"github.com/mqttui/mqttui/internal/ui"
)

// interactiveVersion is set by the build (ldflags) in a real release;
// left as a constant here since packaging is out of scope.
const interactiveVersion = "dev"

func runInteractive(cmd *cobra.Command, filters []string) error {
	logger := loggerFor(cmd, false)

	store, client, err := connect(globalOpts, filters, 0, logger)
	if err != nil {
		return err
	}
	defer client.Disconnect()

	model := ui.New(store, client, logRing, logger, globalOpts.Broker, filters, interactiveVersion)
	return ui.Run(model)
}
