package cmd

import (
	"encoding/csv"
	"fmt"
	"io"
	"os"
	"strconv"
	"time"

	"github.com/spf13/cobra"
	"github.com/xvierd/focusflow/internal/domain"
)

var (
	exportFormat string
	exportPeriod string
	exportOutput string
)

var exportCmd = &cobra.Command{
	Use:   "export",
	Short: "Export session history",
	Long:  "Export your session history as JSON or CSV.",
	RunE: func(cmd *cobra.Command, args []string) error {
		since, err := exportSince(exportPeriod, time.Now())
		if err != nil {
			return err
		}

		var sessions []domain.SessionRecord
		for _, s := range deps.coordinator.Sessions(cmd.Context()) {
			if !s.Timestamp.Before(since) {
				sessions = append(sessions, s)
			}
		}

		out := cmd.OutOrStdout()
		if exportOutput != "" && exportOutput != "-" {
			f, err := os.Create(exportOutput)
			if err != nil {
				return fmt.Errorf("failed to create %s: %w", exportOutput, err)
			}
			defer f.Close()
			out = f
		}

		switch exportFormat {
		case "csv":
			return exportCSV(out, sessions)
		case "json":
			if sessions == nil {
				sessions = []domain.SessionRecord{}
			}
			return writeJSON(out, sessions)
		default:
			return fmt.Errorf("invalid format %q: must be json or csv", exportFormat)
		}
	},
}

func init() {
	rootCmd.AddCommand(exportCmd)
	exportCmd.Flags().StringVar(&exportFormat, "format", "json", "Output format: json or csv")
	exportCmd.Flags().StringVar(&exportPeriod, "period", "all", "Time period: week, month, or all")
	exportCmd.Flags().StringVarP(&exportOutput, "output", "o", "", "Write to a file instead of stdout")
}

func exportSince(period string, now time.Time) (time.Time, error) {
	switch period {
	case "week":
		return now.AddDate(0, 0, -7), nil
	case "month":
		return now.AddDate(0, -1, 0), nil
	case "all":
		return time.Time{}, nil
	}
	return time.Time{}, fmt.Errorf("invalid period %q: must be week, month or all", period)
}

func exportCSV(out io.Writer, sessions []domain.SessionRecord) error {
	w := csv.NewWriter(out)

	_ = w.Write([]string{
		"id", "date", "type", "duration_min", "completed",
		"mood", "meditation_type", "git_branch", "notes",
	})

	for _, s := range sessions {
		mood := ""
		if s.Mood != nil {
			mood = strconv.Itoa(*s.Mood)
		}
		_ = w.Write([]string{
			s.ID,
			s.Timestamp.Format(time.RFC3339),
			string(s.Kind),
			strconv.Itoa(s.DurationMinutes),
			strconv.FormatBool(s.Completed),
			mood,
			string(s.MeditationType),
			s.GitBranch,
			s.Notes,
		})
	}
	w.Flush()
	return w.Error()
}
