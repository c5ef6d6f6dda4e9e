// Package tui provides the terminal user interface implementation
// using the Bubbletea framework.
package tui

import (
	"context"
	"fmt"
	"time"

	"github.com/charmbracelet/bubbles/help"
	"github.com/charmbracelet/bubbles/key"
	"github.com/charmbracelet/bubbles/progress"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/xvierd/focusflow/internal/app"
	"github.com/xvierd/focusflow/internal/domain"
)

// tickInterval is the countdown resolution.
const tickInterval = time.Second

// volumeStep is how much one +/- press changes the volume.
const volumeStep = 0.1

// tickMsg advances the pomodoro timer if gen is still the live chain.
type tickMsg struct {
	gen uint64
}

// meditationTickMsg advances the meditation countdown.
type meditationTickMsg struct {
	gen uint64
}

// stateChangedMsg tells the model the coordinator state moved, either from
// this process or from another instance sharing the store.
type stateChangedMsg struct{}

// Options configure a new Model.
type Options struct {
	// View is the screen to open on. Empty keeps the current one.
	View domain.View
	// Volume is the initial ambient sound level.
	Volume float64
}

// Model represents the TUI state.
type Model struct {
	ctx   context.Context
	coord *app.Coordinator

	state       app.State
	med         app.MeditationStatus
	timerPct    float64
	pal         palette
	keys        keyMap
	help        help.Model
	progress    progress.Model
	width       int
	height      int
	pendingCmds []tea.Cmd

	// Tick chains. A chain is live while its last scheduled message has
	// not been consumed.
	timerGen  uint64
	timerLive bool
	medGen    uint64
	medLive   bool

	medCursor   int
	medDuration int
	medDone     bool

	soundCursor int
	volume      float64

	settingsCursor int
	draft          domain.AppSettings
	editing        bool

	monthly bool

	notice  string
	lastErr error
}

// NewModel creates a model over coord. Tick chains for a timer or
// meditation that is already running are started by Init.
func NewModel(ctx context.Context, coord *app.Coordinator, opts Options) Model {
	prog := progress.New(progress.WithDefaultGradient(), progress.WithoutPercentage())

	m := Model{
		ctx:         ctx,
		coord:       coord,
		keys:        defaultKeymap,
		help:        help.New(),
		progress:    prog,
		volume:      opts.Volume,
		medDuration: 1,
	}
	if opts.View != "" {
		if err := coord.Dispatch(ctx, app.SetView{View: opts.View}); err != nil {
			m.lastErr = err
		}
	}
	m.refresh()
	m.draft = m.state.Settings.Clone()

	m.pendingCmds = append(m.pendingCmds,
		m.scheduleTimer(coord.TimerGeneration()),
		m.scheduleMeditation(coord.Meditation()),
	)
	return m
}

// Init implements tea.Model.
func (m Model) Init() tea.Cmd {
	return tea.Batch(m.pendingCmds...)
}

func timerTickCmd(gen uint64) tea.Cmd {
	return tea.Tick(tickInterval, func(time.Time) tea.Msg {
		return tickMsg{gen: gen}
	})
}

func meditationTickCmd(gen uint64) tea.Cmd {
	return tea.Tick(tickInterval, func(time.Time) tea.Msg {
		return meditationTickMsg{gen: gen}
	})
}

// scheduleTimer starts a tick chain for t unless one is already live for
// the same generation.
func (m *Model) scheduleTimer(t app.TimerTick) tea.Cmd {
	if !t.Running {
		m.timerLive = false
		return nil
	}
	if m.timerLive && t.Generation == m.timerGen {
		return nil
	}
	m.timerGen = t.Generation
	m.timerLive = true
	return timerTickCmd(t.Generation)
}

func (m *Model) scheduleMeditation(s app.MeditationStatus) tea.Cmd {
	if !s.Active || s.Paused {
		m.medLive = false
		return nil
	}
	if m.medLive && s.Generation == m.medGen {
		return nil
	}
	m.medGen = s.Generation
	m.medLive = true
	return meditationTickCmd(s.Generation)
}

// refresh copies the coordinator's state into the model.
func (m *Model) refresh() {
	m.state = m.coord.State()
	m.med = m.coord.Meditation()
	m.timerPct = m.coord.TimerProgress()
	m.pal = resolvePalette(m.state.Settings.Theme)
}

// Update implements tea.Model.
func (m Model) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.WindowSizeMsg:
		m.width = msg.Width
		m.height = msg.Height
		m.help.Width = msg.Width
		m.progress.Width = min(msg.Width-8, 60)
		return m, nil

	case tickMsg:
		if !m.timerLive || msg.gen != m.timerGen {
			return m, nil
		}
		before := m.state.Timer.Mode
		alive := m.coord.Tick(msg.gen)
		m.refresh()
		if alive {
			return m, timerTickCmd(msg.gen)
		}
		m.timerLive = false
		if after := m.state.Timer.Mode; after != before {
			m.notice = fmt.Sprintf("%s complete. Press space to start %s.", before.Label(), after.Label())
		}
		return m, nil

	case meditationTickMsg:
		if !m.medLive || msg.gen != m.medGen {
			return m, nil
		}
		wasActive := m.med.Active
		alive := m.coord.TickMeditation(msg.gen)
		m.refresh()
		if alive {
			return m, meditationTickCmd(msg.gen)
		}
		m.medLive = false
		if wasActive && !m.med.Active {
			m.medDone = true
			m.notice = "Meditation complete. Well done."
		}
		return m, nil

	case stateChangedMsg:
		m.refresh()
		if !m.editing {
			m.draft = m.state.Settings.Clone()
		}
		return m, tea.Batch(
			m.scheduleTimer(m.coord.TimerGeneration()),
			m.scheduleMeditation(m.med),
		)

	case tea.KeyMsg:
		return m.handleKey(msg)
	}
	return m, nil
}

func (m Model) handleKey(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	switch {
	case key.Matches(msg, m.keys.Quit):
		return m, tea.Quit
	case key.Matches(msg, m.keys.Help):
		m.help.ShowAll = !m.help.ShowAll
		return m, nil
	case key.Matches(msg, m.keys.NextView):
		return m.cycleView(1), nil
	case key.Matches(msg, m.keys.PrevView):
		return m.cycleView(-1), nil
	}

	// Number keys jump to a view unless the settings editor wants them.
	if !m.editing {
		views := []key.Binding{m.keys.Timer, m.keys.Meditate, m.keys.Stats, m.keys.Sounds, m.keys.Settings}
		for i, b := range views {
			if key.Matches(msg, b) {
				return m.setView(domain.Views[i]), nil
			}
		}
	}

	switch m.state.View {
	case domain.ViewMeditation:
		return m.updateMeditation(msg)
	case domain.ViewStats:
		if key.Matches(msg, m.keys.Chart) {
			m.monthly = !m.monthly
		}
		return m, nil
	case domain.ViewSounds:
		return m.updateSounds(msg)
	case domain.ViewSettings:
		return m.updateSettings(msg)
	default:
		return m.updateTimer(msg)
	}
}

func (m Model) cycleView(delta int) Model {
	idx := 0
	for i, v := range domain.Views {
		if v == m.state.View {
			idx = i
		}
	}
	n := len(domain.Views)
	return m.setView(domain.Views[(idx+delta+n)%n])
}

func (m Model) setView(v domain.View) Model {
	if err := m.coord.Dispatch(m.ctx, app.SetView{View: v}); err != nil {
		m.lastErr = err
		return m
	}
	m.lastErr = nil
	m.notice = ""
	m.refresh()
	if v == domain.ViewSettings {
		m.draft = m.state.Settings.Clone()
		m.editing = false
	}
	return m
}

func (m Model) updateTimer(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	var tick app.TimerTick
	switch {
	case key.Matches(msg, m.keys.Toggle):
		tick = m.coord.ToggleTimer()
	case key.Matches(msg, m.keys.Stop):
		tick = m.coord.StopTimer()
	case key.Matches(msg, m.keys.Focus):
		tick = m.coord.SwitchMode(domain.ModeWork)
	case key.Matches(msg, m.keys.Short):
		tick = m.coord.SwitchMode(domain.ModeShortBreak)
	case key.Matches(msg, m.keys.Long):
		tick = m.coord.SwitchMode(domain.ModeLongBreak)
	default:
		return m, nil
	}
	m.notice = ""
	m.refresh()
	return m, m.scheduleTimer(tick)
}

func (m Model) updateMeditation(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	if m.med.Active {
		switch {
		case key.Matches(msg, m.keys.Toggle):
			st := m.coord.ToggleMeditation()
			m.refresh()
			return m, m.scheduleMeditation(st)
		case key.Matches(msg, m.keys.Cancel):
			m.coord.CancelMeditation()
			m.medLive = false
			m.refresh()
			m.notice = "Meditation cancelled."
		}
		return m, nil
	}

	switch {
	case key.Matches(msg, m.keys.Up):
		m.medCursor = moveCursor(m.medCursor, -1, len(domain.MeditationStyles))
	case key.Matches(msg, m.keys.Down):
		m.medCursor = moveCursor(m.medCursor, 1, len(domain.MeditationStyles))
	case key.Matches(msg, m.keys.Left):
		m.medDuration = moveCursor(m.medDuration, -1, len(domain.MeditationDurations))
	case key.Matches(msg, m.keys.Right):
		m.medDuration = moveCursor(m.medDuration, 1, len(domain.MeditationDurations))
	case key.Matches(msg, m.keys.Select), key.Matches(msg, m.keys.Toggle):
		style := domain.MeditationStyles[m.medCursor]
		st, err := m.coord.StartMeditation(domain.MeditationDurations[m.medDuration], style.Type)
		if err != nil {
			m.lastErr = err
			return m, nil
		}
		m.lastErr = nil
		m.medDone = false
		m.notice = ""
		m.refresh()
		return m, m.scheduleMeditation(st)
	}
	return m, nil
}

func (m Model) updateSounds(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	switch {
	case key.Matches(msg, m.keys.Up):
		m.soundCursor = moveCursor(m.soundCursor, -1, len(domain.Sounds))
	case key.Matches(msg, m.keys.Down):
		m.soundCursor = moveCursor(m.soundCursor, 1, len(domain.Sounds))
	case key.Matches(msg, m.keys.Select):
		m.lastErr = m.coord.PlaySound(m.ctx, domain.Sounds[m.soundCursor].ID)
	case key.Matches(msg, m.keys.Toggle):
		m.lastErr = m.coord.ToggleSound(m.ctx)
	case key.Matches(msg, m.keys.VolumeUp):
		m.volume = min(1, m.volume+volumeStep)
		m.coord.SetVolume(m.volume)
	case key.Matches(msg, m.keys.VolumeDown):
		m.volume = max(0, m.volume-volumeStep)
		m.coord.SetVolume(m.volume)
	default:
		return m, nil
	}
	m.refresh()
	return m, nil
}

func (m Model) updateSettings(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	switch {
	case key.Matches(msg, m.keys.Up):
		m.settingsCursor = moveCursor(m.settingsCursor, -1, len(settingFields))
	case key.Matches(msg, m.keys.Down):
		m.settingsCursor = moveCursor(m.settingsCursor, 1, len(settingFields))
	case key.Matches(msg, m.keys.Left):
		settingFields[m.settingsCursor].adjust(&m.draft, -1)
		m.editing = true
	case key.Matches(msg, m.keys.Right), key.Matches(msg, m.keys.Toggle):
		settingFields[m.settingsCursor].adjust(&m.draft, 1)
		m.editing = true
	case key.Matches(msg, m.keys.Select):
		if err := m.coord.UpdateSettings(m.ctx, m.draft); err != nil {
			m.lastErr = err
			return m, nil
		}
		m.lastErr = nil
		m.editing = false
		m.notice = "Settings saved."
		m.refresh()
		m.draft = m.state.Settings.Clone()
	case key.Matches(msg, m.keys.Cancel):
		m.draft = m.state.Settings.Clone()
		m.editing = false
		m.lastErr = nil
	}
	return m, nil
}
