package timer

// Countdown is a single-interval timer used for meditation. It follows the
// same tick and generation contract as Engine.
type Countdown struct {
	total      int
	remaining  int
	active     bool
	paused     bool
	generation uint64

	onDone func()
}

// NewCountdown creates an idle countdown. onDone runs when it reaches zero.
func NewCountdown(onDone func()) *Countdown {
	return &Countdown{onDone: onDone}
}

// Begin starts a new countdown of seconds, replacing any current one.
func (c *Countdown) Begin(seconds int) {
	c.total = seconds
	c.remaining = seconds
	c.active = seconds > 0
	c.paused = false
	c.generation++
}

// Pause halts an active countdown.
func (c *Countdown) Pause() {
	if !c.active || c.paused {
		return
	}
	c.paused = true
	c.generation++
}

// Resume continues a paused countdown.
func (c *Countdown) Resume() {
	if !c.active || !c.paused {
		return
	}
	c.paused = false
	c.generation++
}

// Cancel abandons the countdown without calling onDone.
func (c *Countdown) Cancel() {
	c.active = false
	c.paused = false
	c.remaining = c.total
	c.generation++
}

// Tick advances one second while running.
func (c *Countdown) Tick() {
	if !c.Running() {
		return
	}
	c.remaining--
	if c.remaining > 0 {
		return
	}
	c.remaining = 0
	c.active = false
	c.generation++
	if c.onDone != nil {
		c.onDone()
	}
}

// Running reports whether Tick would advance the countdown.
func (c *Countdown) Running() bool { return c.active && !c.paused }

// Active reports whether a countdown is in progress, paused or not.
func (c *Countdown) Active() bool { return c.active }

// Paused reports whether the countdown is paused.
func (c *Countdown) Paused() bool { return c.active && c.paused }

// Remaining returns the seconds left.
func (c *Countdown) Remaining() int { return c.remaining }

// Total returns the length of the current countdown in seconds.
func (c *Countdown) Total() int { return c.total }

// Generation identifies the current run.
func (c *Countdown) Generation() uint64 { return c.generation }

// Progress returns the elapsed share in [0, 100].
func (c *Countdown) Progress() float64 {
	if c.total <= 0 {
		return 0
	}
	return 100 * float64(c.total-c.remaining) / float64(c.total)
}
