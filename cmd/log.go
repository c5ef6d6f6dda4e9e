package cmd

import (
	"fmt"
	"strings"
	"time"

	"github.com/araddon/dateparse"
	"github.com/spf13/cobra"
	"github.com/xvierd/focusflow/internal/domain"
)

var (
	logKind    string
	logMinutes int
	logAt      string
	logNotes   string
	logMood    int
	logMedType string
	logAborted bool
)

var logCmd = &cobra.Command{
	Use:   "log",
	Short: "Record a session completed outside the app",
	Example: `  focusflow log --minutes 25
  focusflow log --kind meditation --minutes 10 --type body-scan --mood 4
  focusflow log --minutes 50 --at "yesterday 14:00" --notes "deep work"`,
	RunE: func(cmd *cobra.Command, args []string) error {
		record, err := buildLogRecord(time.Now(), cmd.Flags().Changed("mood"))
		if err != nil {
			return err
		}

		stored, err := deps.coordinator.LogSession(cmd.Context(), record)
		if err != nil {
			return fmt.Errorf("failed to log session: %w", err)
		}

		if jsonOutput {
			return writeJSON(cmd.OutOrStdout(), stored)
		}
		fmt.Fprintf(cmd.OutOrStdout(), "Logged %d-minute %s session (%s)\n",
			stored.DurationMinutes, stored.Kind, stored.Timestamp.Local().Format("Mon Jan 2 15:04"))
		return nil
	},
}

// buildLogRecord turns the log flags into a session record.
func buildLogRecord(now time.Time, withMood bool) (domain.SessionRecord, error) {
	kind, err := domain.ParseSessionKind(logKind)
	if err != nil {
		return domain.SessionRecord{}, err
	}

	at := now
	if logAt != "" {
		at, err = parseWhen(logAt, now)
		if err != nil {
			return domain.SessionRecord{}, err
		}
	}

	record := domain.SessionRecord{
		ID:              domain.NewSessionID(at),
		Timestamp:       at.Round(0),
		Kind:            kind,
		DurationMinutes: logMinutes,
		Completed:       !logAborted,
		Notes:           logNotes,
	}
	if withMood {
		mood := logMood
		record.Mood = &mood
	}

	if logMedType != "" {
		if kind != domain.KindMeditation {
			return domain.SessionRecord{}, fmt.Errorf("--type only applies to meditation sessions")
		}
		mt, err := domain.ParseMeditationType(logMedType)
		if err != nil {
			return domain.SessionRecord{}, err
		}
		record.MeditationType = mt
	}
	return record, nil
}

// parseWhen accepts "yesterday HH:MM", "today HH:MM" or any layout
// dateparse understands, interpreted in local time.
func parseWhen(s string, now time.Time) (time.Time, error) {
	for prefix, offset := range map[string]int{"today": 0, "yesterday": -1} {
		rest, ok := strings.CutPrefix(strings.ToLower(strings.TrimSpace(s)), prefix)
		if !ok {
			continue
		}
		rest = strings.TrimSpace(rest)
		day := now.AddDate(0, 0, offset)
		if rest == "" {
			return day, nil
		}
		clock, err := time.ParseInLocation("15:04", rest, now.Location())
		if err != nil {
			return time.Time{}, fmt.Errorf("invalid time %q: %w", rest, err)
		}
		return time.Date(day.Year(), day.Month(), day.Day(), clock.Hour(), clock.Minute(), 0, 0, now.Location()), nil
	}

	t, err := dateparse.ParseIn(s, now.Location())
	if err != nil {
		return time.Time{}, fmt.Errorf("invalid date %q: %w", s, err)
	}
	if t.After(now) {
		return time.Time{}, fmt.Errorf("date %q is in the future", s)
	}
	return t, nil
}

func init() {
	logCmd.Flags().StringVarP(&logKind, "kind", "k", string(domain.KindPomodoro), "Session kind: pomodoro or meditation")
	logCmd.Flags().IntVarP(&logMinutes, "minutes", "n", 25, "Session length in minutes")
	logCmd.Flags().StringVar(&logAt, "at", "", `When the session happened (e.g. "yesterday 14:00", "2026-03-01 09:30")`)
	logCmd.Flags().StringVar(&logNotes, "notes", "", "Free-form notes")
	logCmd.Flags().IntVar(&logMood, "mood", 0, "Mood from 1 to 5")
	logCmd.Flags().StringVarP(&logMedType, "type", "t", "", "Meditation type for meditation sessions")
	logCmd.Flags().BoolVar(&logAborted, "aborted", false, "Record the session as not completed")

	rootCmd.AddCommand(logCmd)
}
