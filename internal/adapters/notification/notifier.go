// Package notification provides desktop notifications through beeep.
package notification

import (
	"fmt"
	"sync"

	"github.com/gen2brain/beeep"
	"github.com/xvierd/focusflow/internal/ports"
)

// Overridden in tests.
var (
	notify = func(title, body, icon string) error {
		return beeep.Notify(title, body, icon)
	}
	beep = func() error {
		return beeep.Beep(beeep.DefaultFreq, beeep.DefaultDuration)
	}
)

func init() {
	beeep.AppName = "FocusFlow"
}

// Notifier shows desktop notifications and plays the completion chime.
type Notifier struct {
	mu      sync.RWMutex
	enabled bool
	icon    string
}

// Ensure Notifier implements ports.Notifier.
var _ ports.Notifier = (*Notifier)(nil)

// New creates a notifier. icon is used when Show is called without one.
func New(enabled bool, icon string) *Notifier {
	return &Notifier{enabled: enabled, icon: icon}
}

// SetEnabled grants or revokes permission to show notifications.
func (n *Notifier) SetEnabled(enabled bool) {
	n.mu.Lock()
	n.enabled = enabled
	n.mu.Unlock()
}

// RequestPermission reports whether notifications may be shown.
func (n *Notifier) RequestPermission() bool {
	n.mu.RLock()
	defer n.mu.RUnlock()
	return n.enabled
}

// Show displays a notification. It does nothing without permission.
func (n *Notifier) Show(title, body, icon string) error {
	if !n.RequestPermission() {
		return nil
	}
	if icon == "" {
		icon = n.icon
	}
	if err := notify(title, body, icon); err != nil {
		return fmt.Errorf("failed to show notification: %w", err)
	}
	return nil
}

// Beep plays the system alert tone.
func (n *Notifier) Beep() error {
	if err := beep(); err != nil {
		return fmt.Errorf("failed to beep: %w", err)
	}
	return nil
}
