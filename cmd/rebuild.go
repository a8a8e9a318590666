package cmd

import (
	"github.com/spf13/cobra"

	"github.com/flatplay/flatplay/internal/flatpak"
)

var rebuildCmd = &cobra.Command{
	Use:   "rebuild",
	Short: "Clean the build directory and build from scratch",
	Args:  cobra.NoArgs,
	RunE:  managerCommand((*flatpak.Manager).Rebuild),
}

func init() {
	rootCmd.AddCommand(rebuildCmd)
}
