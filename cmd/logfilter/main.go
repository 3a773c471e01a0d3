// A command line tool to find lines in large CR LF text files
package main

import (
	"os"

	"github.com/rs/zerolog"
	"github.com/spf13/cobra"
)

const longUsage = `Find lines in large text files that match a filter.

Lines of scanned files must be terminated by CR LF. Use the normalize
command to convert files with other line endings.

FILTER FORMAT

   ? Matches exactly one byte
   * Matches any run of bytes, even an empty one

All other bytes match themselves, a filter always matches complete lines.

CONFIGURATION

Flags can also be set in logfilter.yaml, searched in the current
directory and in $HOME/.config/logfilter, or with environment variables
LOGFILTER_<FLAG>, e.g. LOGFILTER_MAX_LINE=4096.`

var log = zerolog.New(zerolog.ConsoleWriter{Out: os.Stderr}).
	With().Timestamp().Logger().
	Level(zerolog.WarnLevel)

func newRootCmd() *cobra.Command {
	root := &cobra.Command{
		Use:           "logfilter",
		Short:         "Find lines in large text files that match a filter",
		Long:          longUsage,
		SilenceUsage:  true,
		SilenceErrors: true,
	}
	root.PersistentFlags().String("config", "", "Read configuration from file")
	root.PersistentFlags().String("log-level", "warn", "Set log level (trace, debug, info, warn, error)")
	root.AddCommand(newScanCmd(), newNormalizeCmd())
	return root
}

func main() {
	if err := newRootCmd().Execute(); err != nil {
		log.Error().Err(err).Msg("logfilter failed")
		os.Exit(1)
	}
}
