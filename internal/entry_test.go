package internal

import (
	"bytes"
	"context"
	"log/slog"
	"net/http"
	"net/http/httptest"
	"os"
	"path/filepath"
	"strings"
	"testing"
	"time"

	"golang.org/x/time/rate"

	"github.com/starford/lifeflow/internal/clock"
	"github.com/starford/lifeflow/internal/sse"
)

func testConfig(t *testing.T) *Config {
	t.Helper()
	dir := t.TempDir()
	cfg := NewDefaultConfig()
	cfg.SQLite.Path = filepath.Join(dir, "lifeflow.db")
	cfg.Export.Dir = filepath.Join(dir, "exports")
	cfg.Scheduler.Enabled = false
	return cfg
}

func discardLogger() *slog.Logger {
	return slog.New(slog.NewJSONHandler(&bytes.Buffer{}, nil))
}

func newTestServer(t *testing.T) (*httptest.Server, *components) {
	t.Helper()
	cfg := testConfig(t)
	comps, err := openComponents(cfg, clock.System, discardLogger())
	if err != nil {
		t.Fatalf("openComponents: %v", err)
	}
	t.Cleanup(func() { comps.Close() })

	broker := sse.NewBroker(sse.Options{StatsThrottle: time.Second})
	t.Cleanup(broker.Close)

	srv := httptest.NewServer(newHTTPHandler(cfg, comps, broker, nil))
	t.Cleanup(srv.Close)
	return srv, comps
}

func get(t *testing.T, url string, header map[string]string) (*http.Response, string) {
	t.Helper()
	req, err := http.NewRequest(http.MethodGet, url, nil)
	if err != nil {
		t.Fatal(err)
	}
	for k, v := range header {
		req.Header.Set(k, v)
	}
	resp, err := http.DefaultClient.Do(req)
	if err != nil {
		t.Fatal(err)
	}
	defer resp.Body.Close()
	var buf bytes.Buffer
	_, _ = buf.ReadFrom(resp.Body)
	return resp, buf.String()
}

func TestHealthEndpoints(t *testing.T) {
	srv, comps := newTestServer(t)

	resp, body := get(t, srv.URL+"/health/live", nil)
	if resp.StatusCode != http.StatusOK || !strings.Contains(body, `"ok"`) {
		t.Fatalf("live: %d %s", resp.StatusCode, body)
	}

	resp, _ = get(t, srv.URL+"/health/ready", nil)
	if resp.StatusCode != http.StatusOK {
		t.Fatalf("ready: %d", resp.StatusCode)
	}

	comps.Close()
	resp, body = get(t, srv.URL+"/health/ready", nil)
	if resp.StatusCode != http.StatusServiceUnavailable {
		t.Fatalf("ready after close: %d %s", resp.StatusCode, body)
	}
}

func TestAPIMountedAndMetrics(t *testing.T) {
	srv, _ := newTestServer(t)

	resp, body := get(t, srv.URL+"/api/tasks", nil)
	if resp.StatusCode != http.StatusOK {
		t.Fatalf("list tasks: %d %s", resp.StatusCode, body)
	}

	resp, body = get(t, srv.URL+"/metrics", nil)
	if resp.StatusCode != http.StatusOK {
		t.Fatalf("metrics: %d", resp.StatusCode)
	}
	if !strings.Contains(body, "lifeflow_http_request_duration_seconds") {
		t.Error("metrics output should include request latency")
	}
}

func TestCORSAllowedOrigin(t *testing.T) {
	srv, _ := newTestServer(t)

	resp, _ := get(t, srv.URL+"/api/tasks", map[string]string{"Origin": "http://localhost:5173"})
	if got := resp.Header.Get("Access-Control-Allow-Origin"); got != "http://localhost:5173" {
		t.Errorf("allowed origin header = %q", got)
	}

	resp, _ = get(t, srv.URL+"/api/tasks", map[string]string{"Origin": "http://evil.example"})
	if got := resp.Header.Get("Access-Control-Allow-Origin"); got != "" {
		t.Errorf("foreign origin should not be allowed, got %q", got)
	}
}

func TestReloadConfig(t *testing.T) {
	path := filepath.Join(t.TempDir(), "config.yaml")
	data := "app:\n  log_level: debug\n  rate_limit:\n    rps: 2\n    burst: 3\n"
	if err := os.WriteFile(path, []byte(data), 0o644); err != nil {
		t.Fatal(err)
	}

	level := new(slog.LevelVar)
	limiter := rate.NewLimiter(5, 10)
	reloadConfig(path, level, limiter, discardLogger())

	if level.Level() != slog.LevelDebug {
		t.Errorf("level = %s, want DEBUG", level.Level())
	}
	if limiter.Limit() != 2 || limiter.Burst() != 3 {
		t.Errorf("limiter = %v/%d, want 2/3", limiter.Limit(), limiter.Burst())
	}

	if err := os.WriteFile(path, []byte("app:\n  http:\n    port: -1\n"), 0o644); err != nil {
		t.Fatal(err)
	}
	reloadConfig(path, level, limiter, discardLogger())
	if level.Level() != slog.LevelDebug {
		t.Error("invalid file should leave the level unchanged")
	}
}

func TestNewLoggerWritesFile(t *testing.T) {
	path := filepath.Join(t.TempDir(), "lifeflow.log")
	cfg := NewDefaultConfig().App
	cfg.LogFile.Path = path

	var console bytes.Buffer
	logger, level, closer := newLogger(cfg, &console)
	logger.Debug("hidden")
	level.Set(slog.LevelDebug)
	logger.Debug("shown")
	if err := closer.Close(); err != nil {
		t.Fatal(err)
	}

	data, err := os.ReadFile(path)
	if err != nil {
		t.Fatalf("read log file: %v", err)
	}
	if strings.Contains(string(data), "hidden") || !strings.Contains(string(data), "shown") {
		t.Errorf("log file = %s", data)
	}
	if !strings.Contains(console.String(), "shown") {
		t.Error("console should receive the same records")
	}
}

func TestRunRequiresConfig(t *testing.T) {
	if err := Run(context.Background()); err == nil {
		t.Fatal("Run without config should fail")
	}
}

func TestExportDataCommand(t *testing.T) {
	cfg := testConfig(t)
	var logs bytes.Buffer

	res, err := ExportData(context.Background(), "json", "", WithConfig(cfg), WithLogOutput(&logs))
	if err != nil {
		t.Fatalf("ExportData: %v", err)
	}
	if _, err := os.Stat(filepath.Join(cfg.Export.Dir, res.Filename)); err != nil {
		t.Fatalf("export file missing: %v", err)
	}
	if !strings.Contains(logs.String(), "export written") {
		t.Error("export should be logged")
	}

	if _, err := ExportData(context.Background(), "csv", "", WithConfig(cfg), WithLogOutput(&logs)); err == nil {
		t.Error("unknown format should fail")
	}
}

func TestReconcileCommand(t *testing.T) {
	cfg := testConfig(t)
	n, err := Reconcile(context.Background(), WithConfig(cfg), WithLogOutput(&bytes.Buffer{}))
	if err != nil {
		t.Fatalf("Reconcile: %v", err)
	}
	if n != 0 {
		t.Errorf("empty store reconciled %d tasks", n)
	}
}
