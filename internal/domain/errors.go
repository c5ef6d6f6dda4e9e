// Package domain contains the core entities for FocusFlow: timer state,
// session records, settings and the derived statistics and insights.
// These types are independent of any storage or presentation layer.
package domain

import "errors"

// Common domain errors.
var (
	ErrInvalidDuration   = errors.New("invalid duration")
	ErrInvalidCycles     = errors.New("cycles before long break must be positive")
	ErrInvalidWeeklyGoal = errors.New("weekly goal must be positive")
	ErrInvalidTheme      = errors.New("invalid theme")
	ErrInvalidMode       = errors.New("invalid timer mode")
	ErrInvalidView       = errors.New("invalid view")
	ErrInvalidKind       = errors.New("invalid session kind")
	ErrInvalidMood       = errors.New("mood must be between 1 and 5")
	ErrUnknownSound      = errors.New("unknown sound")
	ErrUnknownMeditation = errors.New("unknown meditation type")
)
