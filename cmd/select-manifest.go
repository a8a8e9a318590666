package cmd

import (
	"context"
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"github.com/flatplay/flatplay/internal/app"
	"github.com/flatplay/flatplay/internal/errors"
	"github.com/flatplay/flatplay/internal/flatpak"
	"github.com/flatplay/flatplay/internal/logging"
	"github.com/flatplay/flatplay/internal/tui"
)

var selectManifestCmd = &cobra.Command{
	Use:   "select-manifest [path]",
	Short: "Choose the manifest to build",
	Long: `Make a manifest the active one.

With a path, that manifest is selected directly. Without one, the project
is searched and an interactive picker is shown.

Use arrow keys or j/k to navigate, / to filter, Enter to select, q/Esc to
cancel. Selecting a different manifest cleans the build directory.`,
	Args: cobra.MaximumNArgs(1),
	RunE: runSelectManifest,
}

func init() {
	rootCmd.AddCommand(selectManifestCmd)
}

func runSelectManifest(cmd *cobra.Command, args []string) error {
	var path string
	if len(args) == 1 {
		path = args[0]
	}

	return withSession(cmd, sessionOptions{allowNoManifest: true}, func(ctx context.Context, m *flatpak.Manager) error {
		return m.SelectManifest(ctx, path, chooser(app.Default.ProjectDirs(ctx).Base))
	})
}

// chooser returns the interactive picker on a terminal. Elsewhere it lists
// the candidates and asks for an explicit path.
func chooser(root string) flatpak.Chooser {
	return func(ctx context.Context, paths []string, current string) (string, error) {
		entries := tui.NewEntries(paths, current, root)

		if !tui.IsInteractive(os.Stdin) || !tui.IsInteractive(os.Stdout) {
			fmt.Fprint(logging.Stdout, tui.SimplePicker(entries))
			return "", errors.ValidationError("no terminal for the manifest picker, pass the manifest path")
		}

		result, err := tui.RunPicker(ctx, entries)
		if err != nil {
			if ctx.Err() != nil {
				return "", errors.Interrupted()
			}
			return "", fmt.Errorf("picker error: %w", err)
		}

		logging.Debug("picker result", "action", result.Action)
		if result.Action != tui.ActionSelect {
			return "", nil
		}
		return result.Path, nil
	}
}
