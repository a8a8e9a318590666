package cmd

import (
	"github.com/spf13/cobra"

	"github.com/flatplay/flatplay/internal/app"
	"github.com/flatplay/flatplay/internal/instance"
)

var stopCmd = &cobra.Command{
	Use:   "stop",
	Short: "Stop the running flatplay session of this project",
	Long: `Send SIGTERM to the process group of the session holding this
project's instance lock.

Build state is never modified. A stale lock left by a crashed session is
cleared without signalling anything.`,
	Args: cobra.NoArgs,
	RunE: runStop,
}

func init() {
	rootCmd.AddCommand(stopCmd)
}

func runStop(cmd *cobra.Command, args []string) error {
	a := app.Default
	dirs := a.ProjectDirs(cmd.Context())

	settings, err := projectSettings(a, dirs)
	if err != nil {
		return err
	}

	result, err := a.Locker(dirs, settings).RequestShutdown()
	if err != nil {
		return err
	}

	switch result {
	case instance.ShutdownSignaled:
		logSuccess("Stopped running instance.")
	case instance.ShutdownStale:
		logInfo("Previous instance is no longer running, cleared its lock.")
	default:
		logInfo("No running instance found.")
	}
	return nil
}
