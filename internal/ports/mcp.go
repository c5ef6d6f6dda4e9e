package ports

import (
	"context"

	"github.com/xvierd/focusflow/internal/domain"
)

// StateProvider exposes application state to the MCP server.
// This is a driven port (implemented by the application coordinator).
type StateProvider interface {
	// Stats returns the current statistics.
	Stats(ctx context.Context) (domain.UserStats, error)

	// Insights returns the insights for the current statistics.
	Insights(ctx context.Context) ([]domain.Insight, error)

	// Sessions returns the session log, oldest first.
	Sessions(ctx context.Context) []domain.SessionRecord

	// LogSession appends a manually entered session.
	LogSession(ctx context.Context, record domain.SessionRecord) (domain.SessionRecord, error)

	// Settings returns the active settings.
	Settings(ctx context.Context) domain.AppSettings

	// UpdateSettings validates and persists new settings.
	UpdateSettings(ctx context.Context, settings domain.AppSettings) error
}
