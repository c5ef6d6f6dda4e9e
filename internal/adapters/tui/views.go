package tui

import (
	"fmt"
	"strings"

	"github.com/charmbracelet/bubbles/key"
	"github.com/charmbracelet/lipgloss"
	"github.com/xvierd/focusflow/internal/domain"
)

var viewTitles = map[domain.View]string{
	domain.ViewTimer:      "Timer",
	domain.ViewMeditation: "Meditate",
	domain.ViewStats:      "Stats",
	domain.ViewSounds:     "Sounds",
	domain.ViewSettings:   "Settings",
}

// View renders the TUI.
func (m Model) View() string {
	if m.width == 0 {
		return "Loading..."
	}

	var sections []string

	titleStyle := lipgloss.NewStyle().Bold(true).Foreground(m.pal.Title)
	sections = append(sections, titleStyle.Render("🍅 FocusFlow"), m.viewTabs(), "")

	switch m.state.View {
	case domain.ViewMeditation:
		sections = m.viewMeditation(sections)
	case domain.ViewStats:
		sections = m.viewStats(sections)
	case domain.ViewSounds:
		sections = m.viewSounds(sections)
	case domain.ViewSettings:
		sections = m.viewSettings(sections)
	default:
		sections = m.viewTimer(sections)
	}

	sections = append(sections, "")
	if m.lastErr != nil {
		errStyle := lipgloss.NewStyle().Foreground(m.pal.Error)
		sections = append(sections, errStyle.Render("Error: "+m.lastErr.Error()))
	} else if m.notice != "" {
		noticeStyle := lipgloss.NewStyle().Foreground(m.pal.Accent)
		sections = append(sections, noticeStyle.Render(m.notice))
	}
	sections = append(sections, m.viewHelp())

	content := lipgloss.JoinVertical(lipgloss.Center, sections...)
	return lipgloss.Place(m.width, m.height, lipgloss.Center, lipgloss.Center, content)
}

func (m Model) viewTabs() string {
	active := lipgloss.NewStyle().Bold(true).Foreground(m.pal.Accent).Underline(true)
	inactive := lipgloss.NewStyle().Foreground(m.pal.Help)

	tabs := make([]string, 0, len(domain.Views))
	for i, v := range domain.Views {
		label := fmt.Sprintf("%d %s", i+1, viewTitles[v])
		if v == m.state.View {
			tabs = append(tabs, active.Render(label))
		} else {
			tabs = append(tabs, inactive.Render(label))
		}
	}
	return strings.Join(tabs, "   ")
}

func (m Model) viewHelp() string {
	if m.help.ShowAll {
		return m.help.FullHelpView(m.keys.FullHelp())
	}

	var bindings []key.Binding
	switch m.state.View {
	case domain.ViewTimer:
		bindings = []key.Binding{m.keys.Toggle, m.keys.Stop, m.keys.Focus, m.keys.Short, m.keys.Long}
	case domain.ViewMeditation:
		if m.med.Active {
			bindings = []key.Binding{m.keys.Toggle, m.keys.Cancel}
		} else {
			bindings = []key.Binding{m.keys.Up, m.keys.Down, m.keys.Left, m.keys.Right, m.keys.Select}
		}
	case domain.ViewStats:
		bindings = []key.Binding{m.keys.Chart}
	case domain.ViewSounds:
		bindings = []key.Binding{m.keys.Select, m.keys.Toggle, m.keys.VolumeUp, m.keys.VolumeDown}
	case domain.ViewSettings:
		bindings = []key.Binding{m.keys.Up, m.keys.Down, m.keys.Left, m.keys.Right, m.keys.Select, m.keys.Cancel}
	}
	return m.help.ShortHelpView(append(bindings, m.keys.ShortHelp()...))
}

func (m Model) viewTimer(sections []string) []string {
	t := m.state.Timer
	color := m.pal.modeColor(t.Mode)

	modeActive := lipgloss.NewStyle().Bold(true).Foreground(color)
	modeInactive := lipgloss.NewStyle().Foreground(m.pal.Help)
	modes := make([]string, 0, len(domain.TimerModes))
	for _, mode := range domain.TimerModes {
		if mode == t.Mode {
			modes = append(modes, modeActive.Render("● "+mode.Label()))
		} else {
			modes = append(modes, modeInactive.Render("○ "+mode.Label()))
		}
	}
	sections = append(sections, strings.Join(modes, "  "), "")

	clockColor := color
	if t.IsActive && t.IsPaused {
		clockColor = m.pal.Paused
	}
	sections = append(sections, renderBigTime(t.Clock(), clockColor, m.width), "")
	sections = append(sections, m.progress.ViewAs(m.timerPct/100))

	var status string
	switch {
	case t.Running():
		status = "Running"
	case t.IsActive:
		status = "Paused"
	default:
		status = "Ready"
	}
	statusStyle := lipgloss.NewStyle().Foreground(color)
	sections = append(sections, statusStyle.Render(status))

	n := m.state.Settings.CyclesBeforeLongBreak
	helpStyle := lipgloss.NewStyle().Foreground(m.pal.Help)
	if n > 0 {
		sections = append(sections, helpStyle.Render(fmt.Sprintf("Cycle %d/%d · %d sessions today",
			t.CyclesCompleted%n+1, n, m.state.Stats.SessionsToday)))
	}
	if line := m.soundLine(); line != "" {
		sections = append(sections, helpStyle.Render(line))
	}
	return sections
}

func (m Model) soundLine() string {
	if m.state.SelectedSound == nil {
		return ""
	}
	sound, ok := domain.FindSound(*m.state.SelectedSound)
	if !ok {
		return ""
	}
	if m.state.IsPlaying {
		return fmt.Sprintf("%s %s playing", sound.Icon, sound.Name)
	}
	return fmt.Sprintf("%s %s paused", sound.Icon, sound.Name)
}

func (m Model) viewMeditation(sections []string) []string {
	medStyle := lipgloss.NewStyle().Foreground(m.pal.Meditation)
	helpStyle := lipgloss.NewStyle().Foreground(m.pal.Help)

	if m.med.Active {
		style, _ := domain.FindMeditationType(m.med.Type)
		sections = append(sections, medStyle.Bold(true).Render(style.Icon+" "+style.Name), "")

		color := m.pal.Meditation
		if m.med.Paused {
			color = m.pal.Paused
		}
		sections = append(sections, renderBigTime(domain.FormatClock(m.med.Remaining), color, m.width), "")
		sections = append(sections, m.progress.ViewAs(m.med.Progress/100))
		if m.med.Paused {
			sections = append(sections, lipgloss.NewStyle().Foreground(m.pal.Paused).Render("Paused"))
		} else {
			sections = append(sections, helpStyle.Render(style.Description))
		}
		return sections
	}

	if m.medDone {
		sections = append(sections, medStyle.Render("🙏 Session logged"), "")
	}

	items := make([]pickerItem, 0, len(domain.MeditationStyles))
	for _, s := range domain.MeditationStyles {
		items = append(items, pickerItem{Label: s.Icon + " " + s.Name, Desc: s.Description})
	}
	sections = append(sections, renderPicker(items, m.medCursor, m.pal), "")

	durations := make([]string, 0, len(domain.MeditationDurations))
	for i, d := range domain.MeditationDurations {
		label := fmt.Sprintf("%d min", d)
		if i == m.medDuration {
			durations = append(durations, medStyle.Bold(true).Render("["+label+"]"))
		} else {
			durations = append(durations, helpStyle.Render(" "+label+" "))
		}
	}
	sections = append(sections, strings.Join(durations, " "))
	return sections
}

func (m Model) viewStats(sections []string) []string {
	s := m.state.Stats
	labelStyle := lipgloss.NewStyle().Foreground(m.pal.Help).Width(18)
	valueStyle := lipgloss.NewStyle().Bold(true).Foreground(m.pal.Accent)

	row := func(label, value string) string {
		return labelStyle.Render(label) + valueStyle.Render(value)
	}
	rows := []string{
		row("Sessions", fmt.Sprintf("%d", s.TotalSessions)),
		row("Focus time", FormatMinutes(s.TotalFocusTime)),
		row("Meditation time", FormatMinutes(s.TotalMeditationTime)),
		row("Current streak", fmt.Sprintf("%d days", s.CurrentStreak)),
		row("Longest streak", fmt.Sprintf("%d days", s.LongestStreak)),
		row("Today", fmt.Sprintf("%d sessions", s.SessionsToday)),
		row("Average session", FormatMinutes(s.AvgSessionLength)),
		row("Weekly goal", fmt.Sprintf("%.0f%% of %d", s.WeeklyProgress, s.WeeklyGoal)),
	}
	sections = append(sections, lipgloss.JoinVertical(lipgloss.Left, rows...), "")

	weekly, monthly := m.coord.Series()
	chartTitle := "This week"
	buckets := weekly
	if m.monthly {
		chartTitle = "Last months"
		buckets = monthly
	}
	sections = append(sections,
		lipgloss.NewStyle().Bold(true).Render(chartTitle),
		RenderChart(buckets, m.monthly, min(m.width, 80), m.state.Settings.Theme),
	)

	if len(m.state.Insights) > 0 {
		sections = append(sections, "")
		titleStyle := lipgloss.NewStyle().Bold(true).Foreground(m.pal.Accent)
		descStyle := lipgloss.NewStyle().Foreground(m.pal.Help)
		for _, in := range m.state.Insights {
			sections = append(sections, titleStyle.Render(in.Title), descStyle.Render(in.Description))
		}
	}
	return sections
}

func (m Model) viewSounds(sections []string) []string {
	items := make([]pickerItem, 0, len(domain.Sounds))
	for _, s := range domain.Sounds {
		selected := m.state.SelectedSound != nil && *m.state.SelectedSound == s.ID
		items = append(items, pickerItem{
			Label:  s.Icon + " " + s.Name,
			Desc:   string(s.Category),
			Marked: selected && m.state.IsPlaying,
		})
	}
	sections = append(sections, renderPicker(items, m.soundCursor, m.pal), "")

	helpStyle := lipgloss.NewStyle().Foreground(m.pal.Help)
	sections = append(sections, helpStyle.Render(fmt.Sprintf("Volume %3.0f%%", m.volume*100)))
	if line := m.soundLine(); line != "" {
		sections = append(sections, helpStyle.Render(line))
	}
	return sections
}

func (m Model) viewSettings(sections []string) []string {
	items := make([]pickerItem, 0, len(settingFields))
	for _, f := range settingFields {
		items = append(items, pickerItem{Label: f.label, Desc: f.value(m.draft)})
	}
	sections = append(sections, renderPicker(items, m.settingsCursor, m.pal))

	if m.editing {
		sections = append(sections, "", lipgloss.NewStyle().Foreground(m.pal.Paused).Render("Unsaved changes: enter to save, esc to discard"))
	}
	return sections
}
