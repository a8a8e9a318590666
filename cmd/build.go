package cmd

import (
	"github.com/spf13/cobra"

	"github.com/flatplay/flatplay/internal/flatpak"
)

var buildCmd = &cobra.Command{
	Use:   "build",
	Short: "Build the application",
	Long: `Build the application, resuming at the first incomplete stage.

Dependencies are downloaded and built only once per manifest; the
application module is rebuilt every time.`,
	Args: cobra.NoArgs,
	RunE: managerCommand((*flatpak.Manager).Build),
}

func init() {
	rootCmd.AddCommand(buildCmd)
}
