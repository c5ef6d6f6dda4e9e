// Package mcp provides the MCP (Model Context Protocol) server implementation.
package mcp

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"os"
	"strings"

	"github.com/mark3labs/mcp-go/mcp"
	"github.com/mark3labs/mcp-go/server"
	"github.com/xvierd/focusflow/internal/domain"
	"github.com/xvierd/focusflow/internal/ports"
)

// Server implements the MCP server using mark3labs/mcp-go.
type Server struct {
	server        *server.MCPServer
	stateProvider ports.StateProvider
}

// NewServer creates a new MCP server instance.
func NewServer(stateProvider ports.StateProvider) *Server {
	s := &Server{
		stateProvider: stateProvider,
	}

	s.server = server.NewMCPServer(
		"focusflow",
		"1.0.0",
		server.WithLogging(),
	)

	s.registerTools()

	return s
}

// registerTools registers all available MCP tools.
func (s *Server) registerTools() {
	s.server.AddTool(
		mcp.NewTool(
			"get_stats",
			mcp.WithDescription("Get focus and meditation statistics: totals, streaks, today's sessions and weekly goal progress"),
		),
		s.handleGetStats,
	)

	s.server.AddTool(
		mcp.NewTool(
			"get_insights",
			mcp.WithDescription("Get personalized insights derived from the current statistics"),
		),
		s.handleGetInsights,
	)

	listSessionsTool := mcp.NewTool(
		"list_sessions",
		mcp.WithDescription("List logged sessions, most recent first"),
		mcp.WithString(
			"type",
			mcp.Description("Filter by session type"),
			mcp.Enum(string(domain.KindPomodoro), string(domain.KindMeditation)),
		),
		mcp.WithNumber(
			"limit",
			mcp.Description("Maximum number of sessions to return (default: 20)"),
		),
	)
	s.server.AddTool(listSessionsTool, s.handleListSessions)

	logSessionTool := mcp.NewTool(
		"log_session",
		mcp.WithDescription("Log a completed focus or meditation session"),
		mcp.WithString(
			"type",
			mcp.Required(),
			mcp.Description("Session type"),
			mcp.Enum(string(domain.KindPomodoro), string(domain.KindMeditation)),
		),
		mcp.WithNumber(
			"minutes",
			mcp.Required(),
			mcp.Description("Session length in minutes"),
		),
		mcp.WithNumber(
			"mood",
			mcp.Description("Optional mood rating from 1 to 5"),
		),
		mcp.WithString(
			"notes",
			mcp.Description("Optional notes"),
		),
		mcp.WithString(
			"meditation_type",
			mcp.Description("Meditation style for meditation sessions"),
			mcp.Enum(string(domain.MeditationBreathing), string(domain.MeditationMindfulness), string(domain.MeditationBodyScan)),
		),
	)
	s.server.AddTool(logSessionTool, s.handleLogSession)

	s.server.AddTool(
		mcp.NewTool(
			"get_settings",
			mcp.WithDescription("Get the current timer and app settings"),
		),
		s.handleGetSettings,
	)

	updateSettingsTool := mcp.NewTool(
		"update_settings",
		mcp.WithDescription("Update settings. Omitted fields keep their current value; invalid values are rejected"),
		mcp.WithNumber("pomodoro_length", mcp.Description("Focus interval in minutes (1-120)")),
		mcp.WithNumber("short_break_length", mcp.Description("Short break in minutes (1-120)")),
		mcp.WithNumber("long_break_length", mcp.Description("Long break in minutes (1-120)")),
		mcp.WithNumber("cycles_before_long_break", mcp.Description("Focus intervals before a long break")),
		mcp.WithNumber("weekly_goal", mcp.Description("Focus sessions per week")),
		mcp.WithBoolean("notifications", mcp.Description("Show desktop notifications")),
		mcp.WithBoolean("sound_enabled", mcp.Description("Play a sound when an interval ends")),
		mcp.WithString("theme", mcp.Description("Color theme"), mcp.Enum(string(domain.ThemeLight), string(domain.ThemeDark), string(domain.ThemeAuto))),
	)
	s.server.AddTool(updateSettingsTool, s.handleUpdateSettings)
}

// Start serves MCP requests over stdio until stdin closes or ctx is done.
func (s *Server) Start(ctx context.Context) error {
	err := server.NewStdioServer(s.server).Listen(ctx, os.Stdin, os.Stdout)
	if errors.Is(err, context.Canceled) {
		return nil
	}
	return err
}

func jsonResult(v any, what string) (*mcp.CallToolResult, error) {
	data, err := json.MarshalIndent(v, "", "  ")
	if err != nil {
		return nil, fmt.Errorf("failed to marshal %s: %w", what, err)
	}
	return mcp.NewToolResultText(string(data)), nil
}

// handleGetStats handles the get_stats tool.
func (s *Server) handleGetStats(ctx context.Context, request mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	stats, err := s.stateProvider.Stats(ctx)
	if err != nil {
		return nil, fmt.Errorf("failed to get stats: %w", err)
	}

	result := map[string]interface{}{
		"total_sessions":        stats.TotalSessions,
		"total_focus_time":      fmt.Sprintf("%dm", stats.TotalFocusTime),
		"total_meditation_time": fmt.Sprintf("%dm", stats.TotalMeditationTime),
		"current_streak":        stats.CurrentStreak,
		"longest_streak":        stats.LongestStreak,
		"sessions_today":        stats.SessionsToday,
		"weekly_goal":           stats.WeeklyGoal,
		"weekly_progress":       stats.WeeklyProgress,
	}
	return jsonResult(result, "stats")
}

// handleGetInsights handles the get_insights tool.
func (s *Server) handleGetInsights(ctx context.Context, request mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	insights, err := s.stateProvider.Insights(ctx)
	if err != nil {
		return nil, fmt.Errorf("failed to get insights: %w", err)
	}

	list := make([]map[string]interface{}, 0, len(insights))
	for _, in := range insights {
		list = append(list, map[string]interface{}{
			"type":        string(in.Category),
			"title":       in.Title,
			"description": in.Description,
		})
	}

	return jsonResult(map[string]interface{}{
		"insights":    list,
		"total_count": len(list),
	}, "insights")
}

// handleListSessions handles the list_sessions tool.
func (s *Server) handleListSessions(ctx context.Context, request mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	kind := request.GetString("type", "")
	limit := int(request.GetFloat("limit", 20))
	if limit <= 0 {
		limit = 20
	}

	sessions := s.stateProvider.Sessions(ctx)

	var list []map[string]interface{}
	for i := len(sessions) - 1; i >= 0 && len(list) < limit; i-- {
		r := sessions[i]
		if kind != "" && string(r.Kind) != kind {
			continue
		}
		list = append(list, sessionData(r))
	}

	result := map[string]interface{}{
		"sessions":    list,
		"total_count": len(list),
	}
	if kind != "" {
		result["filter_type"] = kind
	}
	return jsonResult(result, "sessions")
}

func sessionData(r domain.SessionRecord) map[string]interface{} {
	data := map[string]interface{}{
		"id":        r.ID,
		"type":      string(r.Kind),
		"minutes":   r.DurationMinutes,
		"completed": r.Completed,
		"date":      r.Timestamp.Format("2006-01-02T15:04:05"),
	}
	if r.Mood != nil {
		data["mood"] = *r.Mood
	}
	if r.Notes != "" {
		data["notes"] = r.Notes
	}
	if r.MeditationType != "" {
		data["meditation_type"] = string(r.MeditationType)
	}
	if r.GitBranch != "" {
		data["git_branch"] = r.GitBranch
	}
	return data
}

// handleLogSession handles the log_session tool.
func (s *Server) handleLogSession(ctx context.Context, request mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	rawKind, err := request.RequireString("type")
	if err != nil {
		return mcp.NewToolResultError("type is required: " + err.Error()), nil
	}
	kind, err := domain.ParseSessionKind(rawKind)
	if err != nil {
		return mcp.NewToolResultError(err.Error()), nil
	}

	minutes, err := request.RequireFloat("minutes")
	if err != nil {
		return mcp.NewToolResultError("minutes is required: " + err.Error()), nil
	}

	record := domain.NewSessionRecord(kind, int(minutes), true)
	record.Notes = strings.TrimSpace(request.GetString("notes", ""))
	if mood := int(request.GetFloat("mood", 0)); mood != 0 {
		record.Mood = &mood
	}
	if kind == domain.KindMeditation {
		if t := request.GetString("meditation_type", ""); t != "" {
			mt, err := domain.ParseMeditationType(t)
			if err != nil {
				return mcp.NewToolResultError(err.Error()), nil
			}
			record.MeditationType = mt
		}
	}

	stored, err := s.stateProvider.LogSession(ctx, record)
	if err != nil {
		return mcp.NewToolResultError(fmt.Sprintf("failed to log session: %v", err)), nil
	}
	return jsonResult(sessionData(stored), "session")
}

// handleGetSettings handles the get_settings tool.
func (s *Server) handleGetSettings(ctx context.Context, request mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	return jsonResult(s.stateProvider.Settings(ctx), "settings")
}

// handleUpdateSettings handles the update_settings tool.
func (s *Server) handleUpdateSettings(ctx context.Context, request mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	settings := s.stateProvider.Settings(ctx)
	args := request.GetArguments()

	ints := []struct {
		name  string
		field *int
	}{
		{"pomodoro_length", &settings.PomodoroLength},
		{"short_break_length", &settings.ShortBreakLength},
		{"long_break_length", &settings.LongBreakLength},
		{"cycles_before_long_break", &settings.CyclesBeforeLongBreak},
		{"weekly_goal", &settings.WeeklyGoal},
	}
	for _, f := range ints {
		if _, ok := args[f.name]; ok {
			*f.field = int(request.GetFloat(f.name, float64(*f.field)))
		}
	}
	if _, ok := args["notifications"]; ok {
		settings.Notifications = request.GetBool("notifications", settings.Notifications)
	}
	if _, ok := args["sound_enabled"]; ok {
		settings.SoundEnabled = request.GetBool("sound_enabled", settings.SoundEnabled)
	}
	if raw := request.GetString("theme", ""); raw != "" {
		theme, err := domain.ParseTheme(raw)
		if err != nil {
			return mcp.NewToolResultError(err.Error()), nil
		}
		settings.Theme = theme
	}

	if err := s.stateProvider.UpdateSettings(ctx, settings); err != nil {
		return mcp.NewToolResultError(fmt.Sprintf("failed to update settings: %v", err)), nil
	}
	return jsonResult(s.stateProvider.Settings(ctx), "settings")
}
