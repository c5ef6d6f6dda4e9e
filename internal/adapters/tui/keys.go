package tui

import "github.com/charmbracelet/bubbles/key"

// keyMap holds every binding the app responds to. Which ones are live
// depends on the current view.
type keyMap struct {
	NextView key.Binding
	PrevView key.Binding
	Timer    key.Binding
	Meditate key.Binding
	Stats    key.Binding
	Sounds   key.Binding
	Settings key.Binding
	Help     key.Binding
	Quit     key.Binding

	Toggle key.Binding
	Stop   key.Binding
	Focus  key.Binding
	Short  key.Binding
	Long   key.Binding

	Up     key.Binding
	Down   key.Binding
	Left   key.Binding
	Right  key.Binding
	Select key.Binding
	Cancel key.Binding

	VolumeUp   key.Binding
	VolumeDown key.Binding
	Chart      key.Binding
}

var defaultKeymap = keyMap{
	NextView: key.NewBinding(key.WithKeys("tab"), key.WithHelp("tab", "next view")),
	PrevView: key.NewBinding(key.WithKeys("shift+tab"), key.WithHelp("shift+tab", "prev view")),
	Timer:    key.NewBinding(key.WithKeys("1"), key.WithHelp("1", "timer")),
	Meditate: key.NewBinding(key.WithKeys("2"), key.WithHelp("2", "meditate")),
	Stats:    key.NewBinding(key.WithKeys("3"), key.WithHelp("3", "stats")),
	Sounds:   key.NewBinding(key.WithKeys("4"), key.WithHelp("4", "sounds")),
	Settings: key.NewBinding(key.WithKeys("5"), key.WithHelp("5", "settings")),
	Help:     key.NewBinding(key.WithKeys("?"), key.WithHelp("?", "help")),
	Quit:     key.NewBinding(key.WithKeys("q", "ctrl+c"), key.WithHelp("q", "quit")),

	Toggle: key.NewBinding(key.WithKeys(" ", "p"), key.WithHelp("space", "start/pause")),
	Stop:   key.NewBinding(key.WithKeys("r"), key.WithHelp("r", "reset")),
	Focus:  key.NewBinding(key.WithKeys("f"), key.WithHelp("f", "focus")),
	Short:  key.NewBinding(key.WithKeys("b"), key.WithHelp("b", "short break")),
	Long:   key.NewBinding(key.WithKeys("l"), key.WithHelp("l", "long break")),

	Up:     key.NewBinding(key.WithKeys("up", "k"), key.WithHelp("↑/k", "up")),
	Down:   key.NewBinding(key.WithKeys("down", "j"), key.WithHelp("↓/j", "down")),
	Left:   key.NewBinding(key.WithKeys("left", "h"), key.WithHelp("←/h", "less")),
	Right:  key.NewBinding(key.WithKeys("right"), key.WithHelp("→", "more")),
	Select: key.NewBinding(key.WithKeys("enter"), key.WithHelp("enter", "select")),
	Cancel: key.NewBinding(key.WithKeys("esc"), key.WithHelp("esc", "cancel")),

	VolumeUp:   key.NewBinding(key.WithKeys("+", "="), key.WithHelp("+", "volume up")),
	VolumeDown: key.NewBinding(key.WithKeys("-"), key.WithHelp("-", "volume down")),
	Chart:      key.NewBinding(key.WithKeys("c"), key.WithHelp("c", "weekly/monthly")),
}

// ShortHelp implements help.KeyMap.
func (k keyMap) ShortHelp() []key.Binding {
	return []key.Binding{k.NextView, k.Help, k.Quit}
}

// FullHelp implements help.KeyMap.
func (k keyMap) FullHelp() [][]key.Binding {
	return [][]key.Binding{
		{k.Timer, k.Meditate, k.Stats, k.Sounds, k.Settings},
		{k.Toggle, k.Stop, k.Focus, k.Short, k.Long},
		{k.Up, k.Down, k.Left, k.Right, k.Select, k.Cancel},
		{k.VolumeUp, k.VolumeDown, k.Chart, k.Help, k.Quit},
	}
}
