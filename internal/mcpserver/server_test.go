package mcpserver

import (
	"context"
	"encoding/json"
	"io"
	"log/slog"
	"strings"
	"testing"
	"time"

	"github.com/mark3labs/mcp-go/mcp"

	"github.com/starford/lifeflow/internal/export"
	"github.com/starford/lifeflow/internal/habit"
	"github.com/starford/lifeflow/internal/models"
	"github.com/starford/lifeflow/internal/notify"
	"github.com/starford/lifeflow/internal/storage"
	"github.com/starford/lifeflow/internal/taskservice"
	"github.com/starford/lifeflow/internal/testutil"
)

var start = time.Date(2024, 3, 1, 12, 0, 0, 0, time.UTC)

func testServer(t *testing.T) (*Server, *taskservice.Service, storage.Provider) {
	t.Helper()
	db := testutil.TestDB(t)
	clk := testutil.NewFakeClock(start)
	logger := slog.New(slog.NewTextHandler(io.Discard, nil))

	archive, err := storage.NewFS(t.TempDir())
	if err != nil {
		t.Fatal(err)
	}
	n := notify.New(db, clk.Now, logger)
	tasks := taskservice.New(db, clk.Now)
	srv := New(Deps{
		Tasks:    tasks,
		Habits:   habit.New(db, n, clk.Now, logger),
		Notify:   n,
		Exporter: export.New(db, clk.Now),
		Archive:  archive,
	}, "test")
	return srv, tasks, archive
}

func callTool(t *testing.T, srv *Server, name string, args map[string]interface{}) *mcp.CallToolResult {
	t.Helper()
	ctx := context.Background()
	req := mcp.CallToolRequest{}
	req.Method = "tools/call"
	req.Params.Name = name
	req.Params.Arguments = args

	var result *mcp.CallToolResult
	var err error

	switch name {
	case "list_habits":
		result, err = srv.listHabits(ctx, req)
	case "check_in":
		result, err = srv.checkIn(ctx, req)
	case "list_checkins":
		result, err = srv.listCheckins(ctx, req)
	case "generate_reminders":
		result, err = srv.generateReminders(ctx, req)
	case "generate_at_risk":
		result, err = srv.generateAtRisk(ctx, req)
	case "list_notifications":
		result, err = srv.listNotifications(ctx, req)
	case "stats_overview":
		result, err = srv.statsOverview(ctx, req)
	case "export_data":
		result, err = srv.exportData(ctx, req)
	default:
		t.Fatalf("unknown tool: %s", name)
	}

	if err != nil {
		t.Fatalf("tool %s error: %v", name, err)
	}
	return result
}

func resultText(r *mcp.CallToolResult) string {
	if len(r.Content) > 0 {
		if tc, ok := r.Content[0].(mcp.TextContent); ok {
			return tc.Text
		}
	}
	return ""
}

func createHabit(t *testing.T, tasks *taskservice.Service, title string) *models.Task {
	t.Helper()
	task, err := tasks.CreateTask(context.Background(), taskservice.TaskCreate{Title: title, IsHabit: true})
	if err != nil {
		t.Fatal(err)
	}
	return task
}

func TestCheckInAndListHabits(t *testing.T) {
	srv, tasks, _ := testServer(t)
	task := createHabit(t, tasks, "Read")

	r := callTool(t, srv, "check_in", map[string]interface{}{"task_id": task.ID})
	if r.IsError {
		t.Fatalf("check_in error: %s", resultText(r))
	}
	var out struct {
		Created bool        `json:"created"`
		Task    models.Task `json:"task"`
	}
	if err := json.Unmarshal([]byte(resultText(r)), &out); err != nil {
		t.Fatal(err)
	}
	if !out.Created || out.Task.CurrentStreak != 1 {
		t.Errorf("check_in = %+v", out)
	}

	r = callTool(t, srv, "check_in", map[string]interface{}{"task_id": task.ID})
	_ = json.Unmarshal([]byte(resultText(r)), &out)
	if out.Created {
		t.Error("second check-in on the same day should not create")
	}

	r = callTool(t, srv, "list_habits", map[string]interface{}{})
	var habits []habit.Status
	if err := json.Unmarshal([]byte(resultText(r)), &habits); err != nil {
		t.Fatal(err)
	}
	if len(habits) != 1 || !habits[0].CheckedInToday {
		t.Errorf("habits = %+v", habits)
	}

	r = callTool(t, srv, "list_checkins", map[string]interface{}{"task_id": task.ID, "limit": float64(5)})
	var records []models.CheckinRecord
	_ = json.Unmarshal([]byte(resultText(r)), &records)
	if len(records) != 1 {
		t.Errorf("records = %d, want 1", len(records))
	}
}

func TestCheckInMissing(t *testing.T) {
	srv, _, _ := testServer(t)
	r := callTool(t, srv, "check_in", map[string]interface{}{"task_id": "nope"})
	if !r.IsError {
		t.Error("expected error for missing habit")
	}
	r = callTool(t, srv, "check_in", map[string]interface{}{})
	if !r.IsError {
		t.Error("expected error for missing task_id")
	}
}

func TestGenerateAndListNotifications(t *testing.T) {
	srv, tasks, _ := testServer(t)
	createHabit(t, tasks, "Meditate")

	r := callTool(t, srv, "generate_reminders", map[string]interface{}{})
	var created []map[string]any
	_ = json.Unmarshal([]byte(resultText(r)), &created)
	if len(created) != 1 {
		t.Fatalf("created = %d, want 1", len(created))
	}

	r = callTool(t, srv, "generate_at_risk", map[string]interface{}{})
	if strings.TrimSpace(resultText(r)) != "[]" {
		t.Errorf("at-risk = %s, want []", resultText(r))
	}

	r = callTool(t, srv, "list_notifications", map[string]interface{}{"unread_only": true})
	var page struct {
		Total       int `json:"total"`
		UnreadCount int `json:"unread_count"`
	}
	_ = json.Unmarshal([]byte(resultText(r)), &page)
	if page.Total != 1 || page.UnreadCount != 1 {
		t.Errorf("page = %+v", page)
	}
}

func TestStatsOverview(t *testing.T) {
	srv, tasks, _ := testServer(t)
	createHabit(t, tasks, "A")

	r := callTool(t, srv, "stats_overview", map[string]interface{}{"timezone_offset": float64(-480)})
	var stats models.StatsOverview
	if err := json.Unmarshal([]byte(resultText(r)), &stats); err != nil {
		t.Fatal(err)
	}
	if stats.TotalTasks != 1 || stats.PendingTasks != 1 {
		t.Errorf("stats = %+v", stats)
	}
}

func TestOffsetOutOfRange(t *testing.T) {
	srv, tasks, _ := testServer(t)
	task := createHabit(t, tasks, "A")

	for name, args := range map[string]map[string]interface{}{
		"check_in":           {"task_id": task.ID, "timezone_offset": float64(-57600)},
		"list_habits":        {"timezone_offset": float64(721)},
		"stats_overview":     {"timezone_offset": float64(-841)},
		"generate_reminders": {"timezone_offset": float64(9999)},
		"generate_at_risk":   {"timezone_offset": float64(-9999)},
	} {
		r := callTool(t, srv, name, args)
		if !r.IsError || !strings.Contains(resultText(r), "timezone_offset") {
			t.Errorf("%s: error = %v, text = %q", name, r.IsError, resultText(r))
		}
	}
}

func TestExportData(t *testing.T) {
	srv, _, archive := testServer(t)

	r := callTool(t, srv, "export_data", map[string]interface{}{"format": "json", "filename": "backup.json"})
	if r.IsError {
		t.Fatalf("export error: %s", resultText(r))
	}
	if !strings.HasPrefix(resultText(r), "exported backup.json") {
		t.Errorf("result = %q", resultText(r))
	}
	data, err := archive.Read("backup.json")
	if err != nil {
		t.Fatal(err)
	}
	if !strings.Contains(string(data), `"exportVersion": "`+export.Version+`"`) {
		t.Errorf("export body = %s", data)
	}

	r = callTool(t, srv, "export_data", map[string]interface{}{"format": "csv"})
	if !r.IsError {
		t.Error("expected error for unsupported format")
	}
}

func TestReadRules(t *testing.T) {
	srv, _, _ := testServer(t)
	contents, err := srv.readRules(context.Background(), mcp.ReadResourceRequest{})
	if err != nil {
		t.Fatal(err)
	}
	tc, ok := contents[0].(mcp.TextResourceContents)
	if !ok || tc.URI != rulesURI || !strings.Contains(tc.Text, "longest_streak") {
		t.Errorf("rules = %+v", contents[0])
	}
}
