package cmd

import (
	"errors"
	"fmt"
	"sort"
	"strconv"
	"strings"

	"github.com/charmbracelet/huh"
	"github.com/charmbracelet/lipgloss"
	"github.com/spf13/cobra"
	"github.com/xvierd/focusflow/internal/domain"
)

var settingsCmd = &cobra.Command{
	Use:   "settings",
	Short: "Show or change preferences",
	RunE: func(cmd *cobra.Command, args []string) error {
		return showSettings(cmd)
	},
}

var settingsShowCmd = &cobra.Command{
	Use:   "show",
	Short: "Print the current preferences",
	RunE: func(cmd *cobra.Command, args []string) error {
		return showSettings(cmd)
	},
}

var settingsSetCmd = &cobra.Command{
	Use:   "set key=value...",
	Short: "Change one or more preferences",
	Example: `  focusflow settings set pomodoro=50 short-break=10
  focusflow settings set background-sound=rain theme=dark
  focusflow settings set background-sound=none`,
	Args: cobra.MinimumNArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		s := deps.coordinator.Settings(cmd.Context())
		for _, arg := range args {
			key, value, ok := strings.Cut(arg, "=")
			if !ok {
				return fmt.Errorf("expected key=value, got %q", arg)
			}
			if err := applySetting(&s, key, value); err != nil {
				return err
			}
		}
		if err := deps.coordinator.UpdateSettings(cmd.Context(), s); err != nil {
			return fmt.Errorf("settings rejected: %w", err)
		}
		fmt.Fprintln(cmd.OutOrStdout(), "Settings saved.")
		return nil
	},
}

var settingsEditCmd = &cobra.Command{
	Use:   "edit",
	Short: "Edit preferences in an interactive form",
	RunE: func(cmd *cobra.Command, args []string) error {
		s := deps.coordinator.Settings(cmd.Context())
		form, apply := settingsForm(&s)
		if err := form.Run(); err != nil {
			if errors.Is(err, huh.ErrUserAborted) {
				fmt.Fprintln(cmd.OutOrStdout(), "Aborted.")
				return nil
			}
			return fmt.Errorf("form interaction failed: %w", err)
		}
		apply()
		if err := deps.coordinator.UpdateSettings(cmd.Context(), s); err != nil {
			return fmt.Errorf("settings rejected: %w", err)
		}
		fmt.Fprintln(cmd.OutOrStdout(), "Settings saved.")
		return nil
	},
}

func init() {
	settingsCmd.AddCommand(settingsShowCmd, settingsSetCmd, settingsEditCmd)
	rootCmd.AddCommand(settingsCmd)
}

func showSettings(cmd *cobra.Command) error {
	s := deps.coordinator.Settings(cmd.Context())
	if jsonOutput {
		return writeJSON(cmd.OutOrStdout(), s)
	}

	keyStyle := lipgloss.NewStyle().Foreground(lipgloss.Color("#6B7280")).Width(20)
	out := cmd.OutOrStdout()
	for _, row := range settingRows(s) {
		fmt.Fprintf(out, "%s %s\n", keyStyle.Render(row[0]), row[1])
	}
	return nil
}

func settingRows(s domain.AppSettings) [][2]string {
	bg := "none"
	if s.BackgroundSound != nil {
		bg = *s.BackgroundSound
	}
	return [][2]string{
		{"pomodoro", fmt.Sprintf("%d min", s.PomodoroLength)},
		{"short-break", fmt.Sprintf("%d min", s.ShortBreakLength)},
		{"long-break", fmt.Sprintf("%d min", s.LongBreakLength)},
		{"cycles", strconv.Itoa(s.CyclesBeforeLongBreak)},
		{"weekly-goal", strconv.Itoa(s.WeeklyGoal)},
		{"notifications", strconv.FormatBool(s.Notifications)},
		{"sound", strconv.FormatBool(s.SoundEnabled)},
		{"background-sound", bg},
		{"theme", string(s.Theme)},
	}
}

// settingKeys maps accepted key spellings to a setter. Keys are matched
// after lowercasing and dropping '-' and '_'.
var settingKeys = map[string]func(*domain.AppSettings, string) error{
	"pomodoro":              intSetting(func(s *domain.AppSettings) *int { return &s.PomodoroLength }),
	"pomodorolength":        intSetting(func(s *domain.AppSettings) *int { return &s.PomodoroLength }),
	"shortbreak":            intSetting(func(s *domain.AppSettings) *int { return &s.ShortBreakLength }),
	"shortbreaklength":      intSetting(func(s *domain.AppSettings) *int { return &s.ShortBreakLength }),
	"longbreak":             intSetting(func(s *domain.AppSettings) *int { return &s.LongBreakLength }),
	"longbreaklength":       intSetting(func(s *domain.AppSettings) *int { return &s.LongBreakLength }),
	"cycles":                intSetting(func(s *domain.AppSettings) *int { return &s.CyclesBeforeLongBreak }),
	"cyclesbeforelongbreak": intSetting(func(s *domain.AppSettings) *int { return &s.CyclesBeforeLongBreak }),
	"weeklygoal":            intSetting(func(s *domain.AppSettings) *int { return &s.WeeklyGoal }),
	"notifications":         boolSetting(func(s *domain.AppSettings) *bool { return &s.Notifications }),
	"sound":                 boolSetting(func(s *domain.AppSettings) *bool { return &s.SoundEnabled }),
	"soundenabled":          boolSetting(func(s *domain.AppSettings) *bool { return &s.SoundEnabled }),
	"backgroundsound":       setBackgroundSound,
	"theme":                 setTheme,
}

// applySetting parses value into the field named by key.
func applySetting(s *domain.AppSettings, key, value string) error {
	norm := strings.NewReplacer("-", "", "_", "").Replace(strings.ToLower(strings.TrimSpace(key)))
	set, ok := settingKeys[norm]
	if !ok {
		return fmt.Errorf("unknown setting %q (valid: %s)", key, strings.Join(settingNames(), ", "))
	}
	if err := set(s, strings.TrimSpace(value)); err != nil {
		return fmt.Errorf("%s: %w", key, err)
	}
	return nil
}

func settingNames() []string {
	names := make([]string, 0, 9)
	for _, row := range settingRows(domain.DefaultSettings()) {
		names = append(names, row[0])
	}
	sort.Strings(names)
	return names
}

func intSetting(field func(*domain.AppSettings) *int) func(*domain.AppSettings, string) error {
	return func(s *domain.AppSettings, v string) error {
		n, err := strconv.Atoi(v)
		if err != nil {
			return fmt.Errorf("expected a whole number, got %q", v)
		}
		*field(s) = n
		return nil
	}
}

func boolSetting(field func(*domain.AppSettings) *bool) func(*domain.AppSettings, string) error {
	return func(s *domain.AppSettings, v string) error {
		switch strings.ToLower(v) {
		case "on", "yes":
			v = "true"
		case "off", "no":
			v = "false"
		}
		b, err := strconv.ParseBool(v)
		if err != nil {
			return fmt.Errorf("expected true or false, got %q", v)
		}
		*field(s) = b
		return nil
	}
}

func setBackgroundSound(s *domain.AppSettings, v string) error {
	if v == "" || strings.EqualFold(v, "none") {
		s.BackgroundSound = nil
		return nil
	}
	matches := matchSounds(v)
	if len(matches) == 0 {
		return fmt.Errorf("%w: %q", domain.ErrUnknownSound, v)
	}
	id := matches[0].ID
	s.BackgroundSound = &id
	return nil
}

func setTheme(s *domain.AppSettings, v string) error {
	t, err := domain.ParseTheme(strings.ToLower(v))
	if err != nil {
		return err
	}
	s.Theme = t
	return nil
}

// settingsForm builds an interactive editor seeded from s. Calling apply
// after the form completes copies the answers back into s.
func settingsForm(s *domain.AppSettings) (form *huh.Form, apply func()) {
	pomodoro := strconv.Itoa(s.PomodoroLength)
	short := strconv.Itoa(s.ShortBreakLength)
	long := strconv.Itoa(s.LongBreakLength)
	cycles := strconv.Itoa(s.CyclesBeforeLongBreak)
	goal := strconv.Itoa(s.WeeklyGoal)

	bg := ""
	if s.BackgroundSound != nil {
		bg = *s.BackgroundSound
	}
	soundOptions := []huh.Option[string]{huh.NewOption("None", "")}
	for _, snd := range domain.Sounds {
		soundOptions = append(soundOptions, huh.NewOption(snd.Icon+" "+snd.Name, snd.ID))
	}

	durationInput := func(title string, v *string) *huh.Input {
		return huh.NewInput().
			Title(title).
			Value(v).
			Validate(func(in string) error {
				n, err := strconv.Atoi(in)
				if err != nil || !domain.IsValidDuration(n) {
					return fmt.Errorf("enter 1 to %d minutes", domain.MaxDurationMinutes)
				}
				return nil
			})
	}
	positiveInput := func(title string, v *string) *huh.Input {
		return huh.NewInput().
			Title(title).
			Value(v).
			Validate(func(in string) error {
				if n, err := strconv.Atoi(in); err != nil || n <= 0 {
					return errors.New("enter a positive number")
				}
				return nil
			})
	}

	form = huh.NewForm(
		huh.NewGroup(
			durationInput("Focus length (minutes)", &pomodoro),
			durationInput("Short break (minutes)", &short),
			durationInput("Long break (minutes)", &long),
			positiveInput("Focus sessions before a long break", &cycles),
			positiveInput("Weekly goal (sessions)", &goal),
		),
		huh.NewGroup(
			huh.NewConfirm().Title("Desktop notifications").Value(&s.Notifications),
			huh.NewConfirm().Title("Completion sound").Value(&s.SoundEnabled),
			huh.NewSelect[string]().Title("Background sound").Options(soundOptions...).Value(&bg),
			huh.NewSelect[domain.Theme]().
				Title("Theme").
				Options(
					huh.NewOption("Auto", domain.ThemeAuto),
					huh.NewOption("Light", domain.ThemeLight),
					huh.NewOption("Dark", domain.ThemeDark),
				).
				Value(&s.Theme),
		),
	).WithShowHelp(true)

	apply = func() {
		s.PomodoroLength, _ = strconv.Atoi(pomodoro)
		s.ShortBreakLength, _ = strconv.Atoi(short)
		s.LongBreakLength, _ = strconv.Atoi(long)
		s.CyclesBeforeLongBreak, _ = strconv.Atoi(cycles)
		s.WeeklyGoal, _ = strconv.Atoi(goal)
		s.BackgroundSound = nil
		if bg != "" {
			s.BackgroundSound = &bg
		}
	}
	return form, apply
}
