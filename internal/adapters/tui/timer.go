package tui

import (
	"context"
	"errors"
	"fmt"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/xvierd/focusflow/internal/app"
)

// Run starts the full-screen app over coord and blocks until the user
// quits or ctx is cancelled. Writes from other instances sharing the
// store are picked up while it runs.
func Run(ctx context.Context, coord *app.Coordinator, opts Options) error {
	ctx, cancel := context.WithCancel(ctx)
	defer cancel()

	model := NewModel(ctx, coord, opts)
	program := tea.NewProgram(
		model,
		tea.WithAltScreen(),
		tea.WithContext(ctx),
	)

	// Listeners run on whichever goroutine changed the state, including
	// the UI loop itself, so they only flag the change. A relay goroutine
	// turns flags into messages.
	changed := make(chan struct{}, 1)
	coord.OnChange(func(app.State) {
		select {
		case changed <- struct{}{}:
		default:
		}
	})
	go func() {
		for {
			select {
			case <-ctx.Done():
				return
			case <-changed:
				program.Send(stateChangedMsg{})
			}
		}
	}()

	coord.Watch(ctx)

	if _, err := program.Run(); err != nil {
		if errors.Is(err, tea.ErrProgramKilled) && ctx.Err() != nil {
			return nil
		}
		return fmt.Errorf("failed to run TUI: %w", err)
	}
	return nil
}
