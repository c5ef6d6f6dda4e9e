package tui

import (
	"github.com/charmbracelet/lipgloss"
	"github.com/xvierd/focusflow/internal/domain"
)

// palette holds the colors used across the views.
type palette struct {
	Title      lipgloss.TerminalColor
	Work       lipgloss.TerminalColor
	ShortBreak lipgloss.TerminalColor
	LongBreak  lipgloss.TerminalColor
	Meditation lipgloss.TerminalColor
	Paused     lipgloss.TerminalColor
	Help       lipgloss.TerminalColor
	Accent     lipgloss.TerminalColor
	Error      lipgloss.TerminalColor
}

// colorSet is a palette written as hex strings.
type colorSet struct {
	title, work, shortBreak, longBreak, meditation, paused, help, accent, err string
}

var (
	darkColors = colorSet{
		title:      "#F5F5F5",
		work:       "#FF6B6B",
		shortBreak: "#4ECDC4",
		longBreak:  "#45B7D1",
		meditation: "#B39DDB",
		paused:     "#FFE66D",
		help:       "#6C757D",
		accent:     "#95E1D3",
		err:        "#FF5555",
	}
	lightColors = colorSet{
		title:      "#212529",
		work:       "#C92A2A",
		shortBreak: "#087F5B",
		longBreak:  "#1864AB",
		meditation: "#5F3DC4",
		paused:     "#E67700",
		help:       "#868E96",
		accent:     "#0B7285",
		err:        "#E03131",
	}
)

func (c colorSet) palette() palette {
	return palette{
		Title:      lipgloss.Color(c.title),
		Work:       lipgloss.Color(c.work),
		ShortBreak: lipgloss.Color(c.shortBreak),
		LongBreak:  lipgloss.Color(c.longBreak),
		Meditation: lipgloss.Color(c.meditation),
		Paused:     lipgloss.Color(c.paused),
		Help:       lipgloss.Color(c.help),
		Accent:     lipgloss.Color(c.accent),
		Error:      lipgloss.Color(c.err),
	}
}

// resolvePalette maps the theme setting to colors. Auto adapts to the
// terminal background.
func resolvePalette(theme domain.Theme) palette {
	switch theme {
	case domain.ThemeDark:
		return darkColors.palette()
	case domain.ThemeLight:
		return lightColors.palette()
	}
	l, d := lightColors, darkColors
	adaptive := func(light, dark string) lipgloss.TerminalColor {
		return lipgloss.AdaptiveColor{Light: light, Dark: dark}
	}
	return palette{
		Title:      adaptive(l.title, d.title),
		Work:       adaptive(l.work, d.work),
		ShortBreak: adaptive(l.shortBreak, d.shortBreak),
		LongBreak:  adaptive(l.longBreak, d.longBreak),
		Meditation: adaptive(l.meditation, d.meditation),
		Paused:     adaptive(l.paused, d.paused),
		Help:       adaptive(l.help, d.help),
		Accent:     adaptive(l.accent, d.accent),
		Error:      adaptive(l.err, d.err),
	}
}

// modeColor returns the color for a timer mode.
func (p palette) modeColor(mode domain.TimerMode) lipgloss.TerminalColor {
	if !mode.IsBreak() {
		return p.Work
	}
	if mode == domain.ModeLongBreak {
		return p.LongBreak
	}
	return p.ShortBreak
}
