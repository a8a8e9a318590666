package cmd

import (
	"github.com/spf13/cobra"

	"github.com/flatplay/flatplay/internal/flatpak"
)

var updateDependenciesCmd = &cobra.Command{
	Use:   "update-dependencies",
	Short: "Download and rebuild all dependency modules",
	Args:  cobra.NoArgs,
	RunE:  managerCommand((*flatpak.Manager).UpdateAndBuildDependencies),
}

func init() {
	rootCmd.AddCommand(updateDependenciesCmd)
}
