package cmd

import (
	"github.com/spf13/cobra"

	"github.com/flatplay/flatplay/internal/flatpak"
)

var exportBundleCmd = &cobra.Command{
	Use:   "export-bundle",
	Short: "Export the built application as a .flatpak bundle",
	Long: `Finalize a copy of the build directory and export it as
<app-id>.flatpak in the project root.`,
	Args: cobra.NoArgs,
	RunE: managerCommand((*flatpak.Manager).ExportBundle),
}

func init() {
	rootCmd.AddCommand(exportBundleCmd)
}
