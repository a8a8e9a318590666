package cmd

import (
	"github.com/spf13/cobra"

	"github.com/flatplay/flatplay/internal/flatpak"
)

var runCmd = &cobra.Command{
	Use:   "run",
	Short: "Run the built application",
	Long: `Run the application from the build directory.

The host's display, locale and accessibility environment is forwarded into
the sandbox. Fails if the application has not been built.`,
	Args: cobra.NoArgs,
	RunE: managerCommand((*flatpak.Manager).Run),
}

func init() {
	rootCmd.AddCommand(runCmd)
}
