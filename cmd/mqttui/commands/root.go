package commands

import (
	"github.com/rs/zerolog"
	"github.com/spf13/cobra"

	"github.com/mqttui/mqttui/internal/apperr"
	"github.com/mqttui/mqttui/internal/applog"
	"github.com/mqttui/mqttui/internal/cliconfig"
)

var (
	globalOpts cliconfig.Options
	logRing    = applog.NewRing(512)
)

var rootCmd = &cobra.Command{
	Use:   "mqttui [TOPIC...]",
	Short: "Interactive terminal client for MQTT brokers",
	Long: `mqttui explores a live MQTT broker: a topic tree, per-topic
message history, payload decoders (text, JSON, MessagePack, binary),
and a numeric graph, updated in real time.

Run with no subcommand to open the interactive view, subscribed to the
given topic filters (default "#").`,
	SilenceUsage:  true,
	SilenceErrors: true,
	Args:          cobra.ArbitraryArgs,
	RunE: func(cmd *cobra.Command, args []string) error {
		filters := args
		if len(filters) == 0 {
			filters = []string{"#"}
		}
		return runInteractive(cmd, filters)
	},
}

// Execute runs the root command.
func Execute() error {
	return rootCmd.Execute()
}

func init() {
	cliconfig.BindGlobal(rootCmd.PersistentFlags(), &globalOpts)
	_ = rootCmd.PersistentFlags().MarkHidden("password")

	rootCmd.AddCommand(publishCmd, logCmd, readOneCmd, cleanRetainedCmd)
}

// exactArgs, rangeArgs and minimumNArgs wrap the matching cobra
// positional-arg validators so a malformed invocation (wrong number of
// arguments) is classified as apperr.ConfigError and exits 2, per spec
// §6, instead of falling through to the generic exit-1 path — cobra's
// own validators return a plain error with no exit-code information.
func exactArgs(n int) cobra.PositionalArgs {
	validate := cobra.ExactArgs(n)
	return func(cmd *cobra.Command, args []string) error {
		if err := validate(cmd, args); err != nil {
			return apperr.Config(err.Error(), nil)
		}
		return nil
	}
}

func rangeArgs(min, max int) cobra.PositionalArgs {
	validate := cobra.RangeArgs(min, max)
	return func(cmd *cobra.Command, args []string) error {
		if err := validate(cmd, args); err != nil {
			return apperr.Config(err.Error(), nil)
		}
		return nil
	}
}

func minimumNArgs(n int) cobra.PositionalArgs {
	validate := cobra.MinimumNArgs(n)
	return func(cmd *cobra.Command, args []string) error {
		if err := validate(cmd, args); err != nil {
			return apperr.Config(err.Error(), nil)
		}
		return nil
	}
}

// loggerFor builds the process logger. verbose mirrors every event to
// the command's stderr in addition to the in-memory ring the
// interactive view's error overlay reads from; non-interactive
// subcommands that never set verbose still get a ring-only logger so a
// later TUI invocation in the same process (there is none here, but the
// applog API stays uniform) would see prior events.
func loggerFor(cmd *cobra.Command, verbose bool) zerolog.Logger {
	if verbose {
		return applog.New(cmd.ErrOrStderr(), logRing)
	}
	return applog.Discard(logRing)
}
