package commands

import (
	"io"
	"os"

	"github.com/spf13/cobra"

	"github.com/mqttui/mqttui/internal/apperr"
	"github.com/mqttui/mqttui/internal/history"
)

var (
	publishRetain bool
	publishFile   string
)

var publishCmd = &cobra.Command{
	Use:     "publish [--retain] [--file FILE | -] TOPIC [PAYLOAD]",
	Aliases: []string{"p", "pub"},
	Short:   "Publish one message and exit",
	Args:    rangeArgs(1, 2),
	RunE: func(cmd *cobra.Command, args []string) error {
		topic := args[0]
		body, err := resolvePublishBody(args, publishFile)
		if err != nil {
			return err
		}

		logger := loggerFor(cmd, false)
		_, client, err := connect(globalOpts, nil, 0, logger)
		if err != nil {
			return err
		}
		defer client.Disconnect()

		return client.Publish(topic, history.QoSAtLeastOnce, publishRetain, body)
	},
}

func resolvePublishBody(args []string, file string) ([]byte, error) {
	if len(args) == 2 {
		if file != "" {
			return nil, apperr.Config("PAYLOAD and --file are mutually exclusive", nil)
		}
		return []byte(args[1]), nil
	}
	switch file {
	case "":
		return nil, apperr.Config("either PAYLOAD or --file is required", nil)
	case "-":
		return io.ReadAll(os.Stdin)
	default:
		return os.ReadFile(file)
	}
}

func init() {
	publishCmd.Flags().BoolVar(&publishRetain, "retain", false, "Publish with the retain flag set")
	publishCmd.Flags().StringVar(&publishFile, "file", "", "Read the payload from FILE, or '-' for stdin")
}
