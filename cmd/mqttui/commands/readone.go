package commands

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"github.com/mqttui/mqttui/internal/history"
)

var readOneIgnoreRetained bool

var readOneCmd = &cobra.Command{
	Use:   "read-one [--ignore-retained] TOPIC",
	Short: "Print the first matching payload and exit",
	Args:  exactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		topic := args[0]
		logger := loggerFor(cmd, false)

		done := make(chan history.Entry, 1)
		onMessage := func(topicPath string, entry history.Entry) {
			if readOneIgnoreRetained && entry.Retained {
				return
			}
			select {
			case done <- entry:
			default:
			}
		}

		_, client, err := connectWithHook([]string{topic}, onMessage, logger)
		if err != nil {
			return err
		}
		defer client.Disconnect()

		entry := <-done
		fmt.Fprintln(os.Stderr, topic)
		fmt.Println(payloadText(entry))
		return nil
	},
}

func init() {
	readOneCmd.Flags().BoolVar(&readOneIgnoreRetained, "ignore-retained", false, "Skip retained messages and wait for a live publish")
}
