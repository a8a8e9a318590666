package cmd

import (
	"github.com/spf13/cobra"

	"github.com/flatplay/flatplay/internal/flatpak"
)

var buildAndRunCmd = &cobra.Command{
	Use:   "build-and-run",
	Short: "Build and run the application (default)",
	Args:  cobra.NoArgs,
	RunE:  runBuildAndRun,
}

func init() {
	rootCmd.AddCommand(buildAndRunCmd)
}

func runBuildAndRun(cmd *cobra.Command, args []string) error {
	return managerCommand((*flatpak.Manager).BuildAndRun)(cmd, args)
}
