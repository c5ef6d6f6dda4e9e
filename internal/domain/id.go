package domain

import (
	"fmt"
	"strings"
	"time"

	"github.com/google/uuid"
)

// generateID creates a new unique identifier.
func generateID() string {
	return uuid.New().String()
}

// NewSessionID returns an id of the form session_<unix millis>_<random>.
func NewSessionID(now time.Time) string {
	suffix, _, _ := strings.Cut(generateID(), "-")
	return fmt.Sprintf("session_%d_%s", now.UnixMilli(), suffix)
}
