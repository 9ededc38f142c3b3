package commands

import (
	"fmt"
	"time"

	"github.com/spf13/cobra"

	"github.com/mqttui/mqttui/internal/cleanretained"
	"github.com/mqttui/mqttui/internal/history"
)

var cleanRetainedDryRun bool

var cleanRetainedCmd = &cobra.Command{
	Use:   "clean-retained [--dry-run] TOPIC",
	Short: "Clear retained messages under a topic filter",
	Args:  exactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		filter := args[0]
		logger := loggerFor(cmd, false)

		seen := make(chan string, 64)
		onMessage := func(topicPath string, entry history.Entry) {
			if entry.Retained {
				seen <- topicPath
			}
		}

		_, client, err := connectWithHook([]string{filter}, onMessage, logger)
		if err != nil {
			return err
		}
		defer client.Disconnect()

		topics := cleanretained.WaitForRetainedBurst(seen, 30*time.Second)
		if cleanRetainedDryRun {
			fmt.Printf("would clean %d topic(s)\n", len(topics))
			for _, t := range topics {
				fmt.Println(t)
			}
			return nil
		}

		res := cleanretained.CleanSubtree(client, topics)
		fmt.Printf("cleaned %d/%d topic(s)\n", res.Confirmed, res.Attempted)
		for _, f := range res.Failures {
			fmt.Printf("failed: %s: %v\n", f.Topic, f.Err)
		}
		return nil
	},
}

func init() {
	cleanRetainedCmd.Flags().BoolVar(&cleanRetainedDryRun, "dry-run", false, "List what would be cleaned without publishing")
}
