package ports

import (
	"context"
)

// GitInfo holds the repository context attached to focus sessions.
type GitInfo struct {
	Branch     string
	Commit     string
	Repository string
}

// GitDetector defines the interface for git context detection.
// This is a driven port (implemented by adapters).
type GitDetector interface {
	// Detect scans the directory for git context.
	Detect(ctx context.Context, workingDir string) (*GitInfo, error)
}
