package cmd

import (
	"fmt"

	"github.com/spf13/cobra"
	"github.com/xvierd/focusflow/internal/domain"
)

var (
	timerStart bool
	timerMode  string

	meditateMinutes int
	meditateType    string
)

var timerCmd = &cobra.Command{
	Use:     "timer",
	Aliases: []string{"start"},
	Short:   "Open the pomodoro timer",
	Long: `Open the full-screen pomodoro timer. Use --mode to jump to a break and
--start to begin counting down right away.`,
	RunE: func(cmd *cobra.Command, args []string) error {
		if timerMode != "" {
			mode, err := domain.ParseTimerMode(timerMode)
			if err != nil {
				return err
			}
			deps.coordinator.SwitchMode(mode)
		}
		if timerStart {
			deps.coordinator.StartTimer()
		}
		return runTUI(domain.ViewTimer)
	},
}

var meditateCmd = &cobra.Command{
	Use:   "meditate",
	Short: "Start a guided meditation",
	Long: `Start a guided meditation countdown. Completed meditations are logged
and count toward your statistics.`,
	Example: `  focusflow meditate --minutes 10 --type breathing
  focusflow meditate --type body-scan`,
	RunE: func(cmd *cobra.Command, args []string) error {
		kind, err := domain.ParseMeditationType(meditateType)
		if err != nil {
			return err
		}
		if _, err := deps.coordinator.StartMeditation(meditateMinutes, kind); err != nil {
			return fmt.Errorf("failed to start meditation: %w", err)
		}
		return runTUI(domain.ViewMeditation)
	},
}

func init() {
	timerCmd.Flags().BoolVarP(&timerStart, "start", "s", false, "Start the countdown immediately")
	timerCmd.Flags().StringVarP(&timerMode, "mode", "m", "", "Interval to open on: work, short or long")

	meditateCmd.Flags().IntVarP(&meditateMinutes, "minutes", "n", 10, "Meditation length in minutes")
	meditateCmd.Flags().StringVarP(&meditateType, "type", "t", string(domain.MeditationBreathing), "Meditation type: breathing, mindfulness or body-scan")

	rootCmd.AddCommand(timerCmd)
	rootCmd.AddCommand(meditateCmd)
}
