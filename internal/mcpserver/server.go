// Package mcpserver provides an MCP (Model Context Protocol) server
// that exposes LifeFlow habit tools for LLM integration via stdio transport.
package mcpserver

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"log/slog"

	"github.com/mark3labs/mcp-go/mcp"
	"github.com/mark3labs/mcp-go/server"

	"github.com/starford/lifeflow/internal/apperr"
	"github.com/starford/lifeflow/internal/export"
	"github.com/starford/lifeflow/internal/habit"
	"github.com/starford/lifeflow/internal/notify"
	"github.com/starford/lifeflow/internal/storage"
	"github.com/starford/lifeflow/internal/taskservice"
)

const rulesURI = "lifeflow://streak-rules"

// Deps are the services the tools call into.
type Deps struct {
	Tasks    *taskservice.Service
	Habits   *habit.Service
	Notify   *notify.Service
	Exporter *export.Exporter
	Archive  storage.Provider
	// KeepExports bounds the archives kept after export_data; zero keeps all.
	KeepExports int
}

// Server wraps the MCP server with LifeFlow tools.
type Server struct {
	mcp  *server.MCPServer
	deps Deps
}

// New creates a new MCP server with all LifeFlow tools registered.
func New(deps Deps, version string) *Server {
	s := &Server{deps: deps}

	s.mcp = server.NewMCPServer(
		"LifeFlow",
		version,
		server.WithToolCapabilities(false),
		server.WithResourceCapabilities(false, false),
	)

	s.mcp.AddTool(mcp.NewTool("list_habits",
		mcp.WithDescription("List active habits with their current and longest streaks and whether they are done today."),
		mcp.WithNumber("timezone_offset", mcp.Description("Client offset in minutes west of UTC (UTC+8 is -480)")),
	), s.listHabits)

	s.mcp.AddTool(mcp.NewTool("check_in",
		mcp.WithDescription("Check in a habit for the user's local day. Repeating it on the same day changes nothing. "+
			"Read "+rulesURI+" for the streak rules."),
		mcp.WithString("task_id", mcp.Required(), mcp.Description("ID of the habit")),
		mcp.WithNumber("timezone_offset", mcp.Description("Client offset in minutes west of UTC (UTC+8 is -480)")),
	), s.checkIn)

	s.mcp.AddTool(mcp.NewTool("list_checkins",
		mcp.WithDescription("List recent check-ins of a habit, newest first."),
		mcp.WithString("task_id", mcp.Required(), mcp.Description("ID of the habit")),
		mcp.WithNumber("limit", mcp.Description("Max records (default 30, max 365)")),
	), s.listCheckins)

	s.mcp.AddTool(mcp.NewTool("generate_reminders",
		mcp.WithDescription("Create reminder notifications for habits not checked in today."),
		mcp.WithNumber("timezone_offset", mcp.Description("Client offset in minutes west of UTC (UTC+8 is -480)")),
	), s.generateReminders)

	s.mcp.AddTool(mcp.NewTool("generate_at_risk",
		mcp.WithDescription("Create warnings for running streaks that break unless checked in today."),
		mcp.WithNumber("timezone_offset", mcp.Description("Client offset in minutes west of UTC (UTC+8 is -480)")),
	), s.generateAtRisk)

	s.mcp.AddTool(mcp.NewTool("list_notifications",
		mcp.WithDescription("List notifications, newest first."),
		mcp.WithBoolean("unread_only", mcp.Description("Only unread notifications")),
		mcp.WithNumber("limit", mcp.Description("Page size (default 50, max 200)")),
	), s.listNotifications)

	s.mcp.AddTool(mcp.NewTool("stats_overview",
		mcp.WithDescription("Task totals, completion rate, longest streak and today's check-ins."),
		mcp.WithNumber("timezone_offset", mcp.Description("Client offset in minutes west of UTC (UTC+8 is -480)")),
	), s.statsOverview)

	if deps.Exporter != nil && deps.Archive != nil {
		s.mcp.AddTool(mcp.NewTool("export_data",
			mcp.WithDescription("Write a full data export into the server's export directory."),
			mcp.WithString("format", mcp.Description("json (default) or xlsx"), mcp.Enum("json", "xlsx")),
			mcp.WithString("filename", mcp.Description("Optional file name; generated when empty")),
		), s.exportData)
	}

	s.mcp.AddResource(
		mcp.NewResource(rulesURI, "Streak Rules",
			mcp.WithResourceDescription("How check-ins, streaks and notifications behave."),
			mcp.WithMIMEType("text/markdown"),
		),
		s.readRules,
	)

	return s
}

// ServeStdio starts the MCP server on stdin/stdout.
func (s *Server) ServeStdio() error {
	return server.ServeStdio(s.mcp)
}

// MCPServer returns the underlying server for testing.
func (s *Server) MCPServer() *server.MCPServer {
	return s.mcp
}

func jsonResult(v any) (*mcp.CallToolResult, error) {
	out, err := json.MarshalIndent(v, "", "  ")
	if err != nil {
		return mcp.NewToolResultError(err.Error()), nil
	}
	return mcp.NewToolResultText(string(out)), nil
}

func toolError(err error) *mcp.CallToolResult {
	if errors.Is(err, apperr.ErrNotFound) {
		return mcp.NewToolResultError("not found")
	}
	return mcp.NewToolResultError(err.Error())
}

func (s *Server) listHabits(ctx context.Context, req mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	habits, err := s.deps.Habits.Streaks(ctx, req.GetInt("timezone_offset", 0))
	if err != nil {
		return toolError(err), nil
	}
	return jsonResult(habits)
}

func (s *Server) checkIn(ctx context.Context, req mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	id, err := req.RequireString("task_id")
	if err != nil {
		return mcp.NewToolResultError(err.Error()), nil
	}
	task, created, err := s.deps.Habits.CheckIn(ctx, id, req.GetInt("timezone_offset", 0))
	if err != nil {
		return toolError(err), nil
	}
	return jsonResult(map[string]any{"created": created, "task": task})
}

func (s *Server) listCheckins(ctx context.Context, req mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	id, err := req.RequireString("task_id")
	if err != nil {
		return mcp.NewToolResultError(err.Error()), nil
	}
	records, err := s.deps.Habits.ListCheckins(ctx, id, req.GetInt("limit", habit.DefaultCheckinLimit))
	if err != nil {
		return toolError(err), nil
	}
	return jsonResult(records)
}

func (s *Server) generateReminders(ctx context.Context, req mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	created, err := s.deps.Notify.GenerateHabitReminders(ctx, req.GetInt("timezone_offset", 0))
	if err != nil {
		return toolError(err), nil
	}
	return jsonResult(created)
}

func (s *Server) generateAtRisk(ctx context.Context, req mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	created, err := s.deps.Notify.GenerateAtRiskNotifications(ctx, req.GetInt("timezone_offset", 0))
	if err != nil {
		return toolError(err), nil
	}
	return jsonResult(created)
}

func (s *Server) listNotifications(ctx context.Context, req mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	page, err := s.deps.Notify.List(ctx, req.GetInt("limit", 0), 0, req.GetBool("unread_only", false))
	if err != nil {
		return toolError(err), nil
	}
	return jsonResult(page)
}

func (s *Server) statsOverview(ctx context.Context, req mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	stats, err := s.deps.Tasks.Overview(ctx, req.GetInt("timezone_offset", 0))
	if err != nil {
		return toolError(err), nil
	}
	return jsonResult(stats)
}

func (s *Server) exportData(ctx context.Context, req mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	format, err := export.ParseFormat(req.GetString("format", ""))
	if err != nil {
		return mcp.NewToolResultError(err.Error()), nil
	}
	res, err := s.deps.Exporter.Save(ctx, s.deps.Archive, format, req.GetString("filename", ""))
	if err != nil {
		return toolError(err), nil
	}
	if _, err := storage.Prune(s.deps.Archive, s.deps.KeepExports); err != nil {
		slog.Warn("export prune failed", slog.String("error", err.Error()))
	}
	return mcp.NewToolResultText(fmt.Sprintf("exported %s (%d bytes, sha256 %s)", res.Filename, len(res.Data), res.Checksum)), nil
}

func (s *Server) readRules(_ context.Context, _ mcp.ReadResourceRequest) ([]mcp.ResourceContents, error) {
	return []mcp.ResourceContents{
		mcp.TextResourceContents{
			URI:      rulesURI,
			MIMEType: "text/markdown",
			Text:     StreakRules,
		},
	}, nil
}
