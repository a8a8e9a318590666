package cmd

import (
	"context"

	"github.com/spf13/cobra"

	"github.com/flatplay/flatplay/internal/flatpak"
)

var cleanCmd = &cobra.Command{
	Use:   "clean",
	Short: "Remove build artifacts and reset build progress",
	Args:  cobra.NoArgs,
	RunE:  runClean,
}

func init() {
	rootCmd.AddCommand(cleanCmd)
}

func runClean(cmd *cobra.Command, args []string) error {
	return withSession(cmd, sessionOptions{allowNoManifest: true}, func(ctx context.Context, m *flatpak.Manager) error {
		return m.Clean()
	})
}
