package cmd

import (
	"encoding/json"
	"fmt"
	"io"
	"os"
	"strings"

	"github.com/charmbracelet/lipgloss"
	"github.com/charmbracelet/x/term"
	"github.com/spf13/cobra"
	"github.com/xvierd/focusflow/internal/adapters/tui"
	"github.com/xvierd/focusflow/internal/domain"
)

var statsPeriod string

var statsCmd = &cobra.Command{
	Use:   "stats",
	Short: "Show a dashboard of focus and meditation statistics",
	Long:  `Display totals, streaks, weekly goal progress and a weekly or monthly chart of focus and meditation time.`,
	RunE: func(cmd *cobra.Command, args []string) error {
		ctx := cmd.Context()
		stats, err := deps.coordinator.Stats(ctx)
		if err != nil {
			return fmt.Errorf("failed to get stats: %w", err)
		}
		weekly, monthly := deps.coordinator.Series()

		buckets, isMonthly := weekly, false
		switch statsPeriod {
		case "week":
		case "month":
			buckets, isMonthly = monthly, true
		default:
			return fmt.Errorf("invalid period %q: must be week or month", statsPeriod)
		}

		if jsonOutput {
			return writeJSON(cmd.OutOrStdout(), map[string]any{
				"stats":  stats,
				"period": statsPeriod,
				"series": buckets,
			})
		}

		theme := deps.coordinator.Settings(ctx).Theme
		renderDashboard(cmd.OutOrStdout(), stats, buckets, isMonthly, terminalWidth(), theme)
		return nil
	},
}

var insightsCmd = &cobra.Command{
	Use:   "insights",
	Short: "Show insights about your focus habits",
	RunE: func(cmd *cobra.Command, args []string) error {
		insights, err := deps.coordinator.Insights(cmd.Context())
		if err != nil {
			return fmt.Errorf("failed to get insights: %w", err)
		}

		if jsonOutput {
			return writeJSON(cmd.OutOrStdout(), insights)
		}

		out := cmd.OutOrStdout()
		if len(insights) == 0 {
			fmt.Fprintln(out, "  No insights yet. Complete a few sessions first.")
			return nil
		}

		titleStyle := lipgloss.NewStyle().Bold(true).Foreground(lipgloss.Color("#95E1D3"))
		dimStyle := lipgloss.NewStyle().Foreground(lipgloss.Color("#6B7280"))
		fmt.Fprintln(out)
		for _, in := range insights {
			fmt.Fprintf(out, "  %s %s\n", insightIcon(in.Category), titleStyle.Render(in.Title))
			fmt.Fprintf(out, "     %s\n\n", dimStyle.Render(in.Description))
		}
		return nil
	},
}

func init() {
	statsCmd.Flags().StringVarP(&statsPeriod, "period", "p", "week", "Chart period: week or month")
	rootCmd.AddCommand(statsCmd)
	rootCmd.AddCommand(insightsCmd)
}

func renderDashboard(out io.Writer, stats domain.UserStats, buckets []domain.ChartBucket, monthly bool, width int, theme domain.Theme) {
	titleStyle := lipgloss.NewStyle().Bold(true).Foreground(lipgloss.Color("#7C6FE0"))
	dimStyle := lipgloss.NewStyle().Foreground(lipgloss.Color("#6B7280"))
	valueStyle := lipgloss.NewStyle().Bold(true).Foreground(lipgloss.Color("#A78BFA"))

	label := "This week"
	if monthly {
		label = "Last six months"
	}

	// Header
	fmt.Fprintln(out)
	fmt.Fprintf(out, "  %s\n", titleStyle.Render("FocusFlow · "+label))
	fmt.Fprintf(out, "  %s\n\n", dimStyle.Render(strings.Repeat("─", 40)))

	// Summary
	fmt.Fprintf(out, "  Total: %s sessions, %s focused, %s meditating\n",
		valueStyle.Render(fmt.Sprintf("%d", stats.TotalSessions)),
		valueStyle.Render(tui.FormatMinutes(stats.TotalFocusTime)),
		valueStyle.Render(tui.FormatMinutes(stats.TotalMeditationTime)),
	)
	fmt.Fprintf(out, "  Streak: %s (longest %d)   Today: %s   Avg: %s\n",
		valueStyle.Render(fmt.Sprintf("%d days", stats.CurrentStreak)),
		stats.LongestStreak,
		valueStyle.Render(fmt.Sprintf("%d", stats.SessionsToday)),
		valueStyle.Render(tui.FormatMinutes(stats.AvgSessionLength)),
	)
	fmt.Fprintf(out, "  Weekly goal: %s\n\n",
		valueStyle.Render(fmt.Sprintf("%.0f%% of %d sessions", stats.WeeklyProgress, stats.WeeklyGoal)),
	)

	if stats.TotalSessions == 0 {
		fmt.Fprintf(out, "  %s\n\n", dimStyle.Render("No completed sessions yet."))
		return
	}

	chart := tui.RenderChart(buckets, monthly, min(width, 80)-2, theme)
	for _, line := range strings.Split(chart, "\n") {
		fmt.Fprintf(out, "  %s\n", line)
	}
	fmt.Fprintln(out)
}

func insightIcon(c domain.InsightCategory) string {
	switch c {
	case domain.InsightAchievement:
		return "🏆"
	case domain.InsightWellness:
		return "🧘"
	default:
		return "📈"
	}
}

// terminalWidth returns the stdout width, or 80 when it is not a terminal.
func terminalWidth() int {
	w, _, err := term.GetSize(os.Stdout.Fd())
	if err != nil || w <= 0 {
		return 80
	}
	return w
}

func writeJSON(out io.Writer, v any) error {
	enc := json.NewEncoder(out)
	enc.SetIndent("", "  ")
	if err := enc.Encode(v); err != nil {
		return fmt.Errorf("failed to encode JSON: %w", err)
	}
	return nil
}
