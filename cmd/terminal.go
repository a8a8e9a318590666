package cmd

import (
	"github.com/spf13/cobra"

	"github.com/flatplay/flatplay/internal/flatpak"
)

var runtimeTerminalCmd = &cobra.Command{
	Use:   "runtime-terminal",
	Short: "Open a shell in the manifest's SDK",
	Args:  cobra.NoArgs,
	RunE:  managerCommand((*flatpak.Manager).RuntimeTerminal),
}

var buildTerminalCmd = &cobra.Command{
	Use:   "build-terminal",
	Short: "Open a shell inside the build directory",
	Args:  cobra.NoArgs,
	RunE:  managerCommand((*flatpak.Manager).BuildTerminal),
}

func init() {
	rootCmd.AddCommand(runtimeTerminalCmd)
	rootCmd.AddCommand(buildTerminalCmd)
}
