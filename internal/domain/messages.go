package domain

// Notification is the title and body shown when an interval ends.
type Notification struct {
	Title string
	Body  string
}

var (
	WorkCompleteNotification = Notification{
		Title: "🎉 Focus Session Complete!",
		Body:  "Well done! Time to take a break.",
	}
	BreakCompleteNotification = Notification{
		Title: "⏰ Break Over!",
		Body:  "Ready to get back to work?",
	}
	MeditationCompleteNotification = Notification{
		Title: "🧘 Meditation Complete",
		Body:  "Take a moment before returning to your day.",
	}
)

// CompletionNotification returns the notification for a finished mode.
func CompletionNotification(finished TimerMode) Notification {
	if finished == ModeWork {
		return WorkCompleteNotification
	}
	return BreakCompleteNotification
}

var motivationalMessages = map[TimerMode][]string{
	ModeWork: {
		"Time to focus! 💪",
		"Let's get things done! 🚀",
		"Full focus now! ⚡",
		"You can do it! 🎯",
		"Let's get to work! 🔥",
	},
	ModeShortBreak: {
		"Well-deserved break! ☕",
		"Take a deep breath! 🌿",
		"Relax a little! 😌",
		"Stretch it out! 🤸",
		"Stay hydrated! 💧",
	},
	ModeLongBreak: {
		"Long break! 🎉",
		"Time to recharge! 🔋",
		"You're doing great! ⭐",
		"You've earned this rest! 😴",
		"Keep it up! 🌟",
	},
}

// MotivationalMessage picks a message for the mode. The seed selects the
// entry so callers can rotate messages deterministically.
func MotivationalMessage(mode TimerMode, seed int) string {
	msgs := motivationalMessages[mode]
	if len(msgs) == 0 {
		msgs = motivationalMessages[ModeWork]
	}
	if seed < 0 {
		seed = -seed
	}
	return msgs[seed%len(msgs)]
}
