package tui

import (
	"fmt"
	"strings"
	"time"

	"github.com/charmbracelet/lipgloss"
	"github.com/hako/durafmt"
	"github.com/xvierd/focusflow/internal/domain"
)

// FormatMinutes renders a minute count as e.g. "2 hours 5 minutes".
func FormatMinutes(minutes int) string {
	if minutes <= 0 {
		return "0 minutes"
	}
	return durafmt.Parse(time.Duration(minutes) * time.Minute).LimitFirstN(2).String()
}

// RenderChart draws one horizontal bar pair per bucket: focus on top,
// meditation below, scaled to the widest bucket. Monthly buckets are
// measured in hours, weekly ones in minutes.
func RenderChart(buckets []domain.ChartBucket, monthly bool, width int, theme domain.Theme) string {
	pal := resolvePalette(theme)
	focusStyle := lipgloss.NewStyle().Foreground(pal.Work)
	medStyle := lipgloss.NewStyle().Foreground(pal.Meditation)
	labelStyle := lipgloss.NewStyle().Foreground(pal.Help).Width(6)

	unit := "m"
	values := func(b domain.ChartBucket) (int, int) { return b.FocusMinutes, b.MeditationMinutes }
	if monthly {
		unit = "h"
		values = func(b domain.ChartBucket) (int, int) { return b.FocusHours, b.MeditationHours }
	}

	peak := 0
	for _, b := range buckets {
		f, m := values(b)
		peak = max(peak, f, m)
	}

	barWidth := max(width-20, 10)
	bar := func(v int) string {
		if peak == 0 || v == 0 {
			return ""
		}
		return strings.Repeat("█", max(1, v*barWidth/peak))
	}

	var lines []string
	for _, b := range buckets {
		f, m := values(b)
		lines = append(lines,
			labelStyle.Render(b.Label)+focusStyle.Render(bar(f))+fmt.Sprintf(" %d%s", f, unit),
			labelStyle.Render("")+medStyle.Render(bar(m))+fmt.Sprintf(" %d%s", m, unit),
		)
	}
	legend := focusStyle.Render("■ focus") + "  " + medStyle.Render("■ meditation")
	lines = append(lines, "", legend)
	return strings.Join(lines, "\n")
}
