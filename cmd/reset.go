package cmd

import (
	"bufio"
	"errors"
	"fmt"
	"io/fs"
	"os"
	"strings"

	"github.com/spf13/cobra"
	"github.com/xvierd/focusflow/internal/config"
)

var resetForce bool

var resetCmd = &cobra.Command{
	Use:   "reset",
	Short: "Delete all sessions and settings (wipes the store)",
	Long: `Permanently deletes the FocusFlow store, removing all sessions, settings and
saved timer state. This cannot be undone. Use --force to skip the confirmation prompt.`,
	Annotations: map[string]string{skipServices: "true"},
	RunE: func(cmd *cobra.Command, args []string) error {
		appCfg, err := config.Load()
		if err != nil {
			appCfg = config.DefaultConfig()
		}

		// Allow --db flag to override path
		path := dbPath
		if path == "" {
			path = config.GetDBPath(appCfg)
		}

		out := cmd.OutOrStdout()
		if !resetForce {
			fmt.Fprintf(out, "This will permanently delete: %s\n", path)
			fmt.Fprint(out, "Are you sure? Type 'yes' to confirm: ")
			reader := bufio.NewReader(cmd.InOrStdin())
			input, _ := reader.ReadString('\n')
			input = strings.TrimSpace(strings.ToLower(input))
			if input != "yes" {
				fmt.Fprintln(out, "Aborted.")
				return nil
			}
		}

		removed, err := removeStore(path)
		if err != nil {
			return fmt.Errorf("failed to delete store: %w", err)
		}
		if !removed {
			fmt.Fprintln(out, "Nothing to reset, the store does not exist.")
			return nil
		}

		fmt.Fprintln(out, "Store deleted. Fresh start.")
		return nil
	},
}

// removeStore deletes the store file and any SQLite sidecar files. It
// reports whether the main file existed.
func removeStore(path string) (bool, error) {
	removed := false
	for _, p := range []string{path, path + "-wal", path + "-shm"} {
		err := os.Remove(p)
		switch {
		case err == nil:
			if p == path {
				removed = true
			}
		case errors.Is(err, fs.ErrNotExist):
		default:
			return removed, err
		}
	}
	return removed, nil
}

func init() {
	resetCmd.Flags().BoolVarP(&resetForce, "force", "f", false, "Skip confirmation prompt")
}
