package ports

// Notifier shows desktop notifications.
// This is a driven port (implemented by adapters).
type Notifier interface {
	// RequestPermission reports whether notifications may be shown.
	RequestPermission() bool

	// Show displays a notification. It is a no-op when permission
	// has not been granted.
	Show(title, body, icon string) error

	// Beep plays the completion chime.
	Beep() error
}

// AudioPlayer plays one ambient clip at a time.
// This is a driven port (implemented by adapters).
type AudioPlayer interface {
	// Load stops and releases the current clip, then decodes ref.
	Load(ref string) error

	// Play starts the loaded clip, looping it forever when loop is true.
	Play(loop bool) error

	// Pause halts playback without releasing the clip.
	Pause()

	// SetVolume sets the output level; v is clamped to [0, 1].
	SetVolume(v float64)

	// Playing reports whether audio is currently audible.
	Playing() bool

	// Close stops playback and releases the clip.
	Close() error
}
