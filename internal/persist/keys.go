package persist

// Store keys owned by the application.
const (
	KeyTimer      = "focusflow_timer"
	KeySessions   = "focusflow_sessions"
	KeyWeeklyGoal = "focusflow_weekly_goal"
	KeySettings   = "focusflow_settings"
)
