// Package cmd provides the CLI commands for the FocusFlow application.
package cmd

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"
	"github.com/xvierd/focusflow/internal/adapters/tui"
	"github.com/xvierd/focusflow/internal/domain"
)

var (
	// Version info (set at build time via ldflags)
	Version   = "dev"
	BuildDate = "unknown"
	GitCommit = "unknown"

	// Global flags
	dbPath     string
	jsonOutput bool
)

// skipServices marks commands that manage the store themselves.
const skipServices = "skip-services"

// rootCmd represents the base command when called without any subcommands
var rootCmd = &cobra.Command{
	Use:   "focusflow",
	Short: "FocusFlow - pomodoro timer, guided meditation and focus stats",
	Long: `FocusFlow is a terminal pomodoro timer with guided meditation,
ambient sounds and a statistics dashboard. Data is kept in a local store
shared by every running instance.

Run "focusflow" with no arguments to open the timer.`,
	SilenceUsage:  true,
	SilenceErrors: true,
	PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
		if cmd.Annotations[skipServices] == "true" {
			return nil
		}
		return initializeServices(cmd.Context())
	},
	PersistentPostRunE: func(cmd *cobra.Command, args []string) error {
		return cleanupServices()
	},
	RunE: func(cmd *cobra.Command, args []string) error {
		return runTUI(domain.ViewTimer)
	},
}

// Execute adds all child commands to the root command and sets flags appropriately.
func Execute() {
	if err := rootCmd.Execute(); err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}
}

func init() {
	// Global flags
	rootCmd.PersistentFlags().StringVar(&dbPath, "db", "", "Path to the store file (default: <data dir>/focusflow.db)")
	rootCmd.PersistentFlags().BoolVar(&jsonOutput, "json", false, "Output results in JSON format")

	// Set version - cobra handles --version automatically
	rootCmd.Version = Version
	rootCmd.SetVersionTemplate("FocusFlow\nVersion: {{.Version}}\n")

	rootCmd.AddCommand(resetCmd)
}

// runTUI opens the full-screen app on view and blocks until it exits.
func runTUI(view domain.View) error {
	ctx := setupSignalHandler()
	return tui.Run(ctx, deps.coordinator, tui.Options{
		View:   view,
		Volume: deps.config.Audio.Volume,
	})
}
