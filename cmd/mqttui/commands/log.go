package commands

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/mqttui/mqttui/internal/history"
	"github.com/mqttui/mqttui/internal/logfmt"
)

var (
	logVerbose bool
	logJSON    bool
)

var logCmd = &cobra.Command{
	Use:   "log [--verbose] [--json] TOPIC...",
	Short: "Print each matching message to stdout",
	Args:  minimumNArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		logger := loggerFor(cmd, logVerbose)

		onMessage := func(topicPath string, entry history.Entry) {
			text := payloadText(entry)
			if logJSON {
				raw, err := logfmt.JSON(topicPath, entry.Retained, entry.QoS, entry.ReceivedAt, text)
				if err != nil {
					logger.Warn().Err(err).Msg("failed to marshal log line")
					return
				}
				fmt.Println(string(raw))
			} else {
				fmt.Println(logfmt.Line(topicPath, entry.Retained, entry.QoS, entry.ReceivedAt, text))
			}
		}

		_, client, err := connectWithHook(args, onMessage, logger)
		if err != nil {
			return err
		}
		defer client.Disconnect()

		select {} // runs until the process receives SIGINT/SIGTERM
	},
}

func init() {
	logCmd.Flags().BoolVarP(&logVerbose, "verbose", "v", false, "Mirror log output to stderr")
	logCmd.Flags().BoolVar(&logJSON, "json", false, "Emit newline-delimited JSON records")
}
