package cmd

import (
	"time"

	"github.com/spf13/cobra"

	"github.com/flatplay/flatplay/internal/logging"
)

var (
	verbose         bool
	jsonOutput      bool
	takeoverTimeout time.Duration
	takeoverPoll    time.Duration
)

var rootCmd = &cobra.Command{
	Use:   "flatplay",
	Short: "Build and run Flatpak applications during development",
	Long: `flatplay builds the Flatpak manifest of the current project with
flatpak-builder and runs the result.

Progress is kept in .flatplay/state.json so interrupted builds resume at the
first incomplete stage. Starting flatplay while another session is running
in the same project stops the previous session first.

Without a subcommand, flatplay builds and runs the application.`,
	Args:          cobra.NoArgs,
	SilenceErrors: true,
	SilenceUsage:  true,
	PersistentPreRun: func(cmd *cobra.Command, args []string) {
		logging.Setup(verbose, jsonOutput, cmd.ErrOrStderr())
	},
	RunE: runBuildAndRun,
}

func Execute() error {
	return rootCmd.Execute()
}

func init() {
	rootCmd.PersistentFlags().BoolVarP(&verbose, "verbose", "v", false, "Enable verbose output")
	rootCmd.PersistentFlags().BoolVar(&jsonOutput, "json", false, "Output logs in JSON format")
	rootCmd.PersistentFlags().DurationVar(&takeoverTimeout, "takeover-timeout", 0, "How long to wait for a previous session to exit (default from settings)")
	rootCmd.PersistentFlags().DurationVar(&takeoverPoll, "takeover-poll", 0, "How often to retry the instance lock during takeover (default from settings)")
	rootCmd.CompletionOptions.DisableDefaultCmd = true
}

// Helper aliases for user-facing output (delegates to logging package)
var (
	logInfo    = logging.UserInfo
	logSuccess = logging.UserSuccess
	logWarning = logging.UserWarning
)
