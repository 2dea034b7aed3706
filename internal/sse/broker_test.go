package sse

import (
	"context"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"
)

func newBroker(t *testing.T, opts Options) *Broker {
	t.Helper()
	b := NewBroker(opts)
	t.Cleanup(b.Close)
	return b
}

// drain collects every frame queued on ch within a short settle window.
func drain(ch chan []byte) []string {
	time.Sleep(50 * time.Millisecond)
	var out []string
	for {
		select {
		case raw := <-ch:
			out = append(out, string(raw))
		default:
			return out
		}
	}
}

func TestSubscribeUnsubscribe(t *testing.T) {
	b := newBroker(t, Options{})
	if b.ClientCount() != 0 {
		t.Fatalf("expected 0 clients")
	}
	ch := b.Subscribe()
	if b.ClientCount() != 1 {
		t.Fatalf("expected 1 client")
	}
	b.Unsubscribe(ch)
	if _, ok := <-ch; ok {
		t.Fatal("unsubscribed channel should be closed")
	}
	if b.ClientCount() != 0 {
		t.Fatalf("expected 0 clients after unsubscribe")
	}
}

func TestPublishFrameFormat(t *testing.T) {
	b := newBroker(t, Options{})
	ch := b.Subscribe()

	b.Publish(Event{Type: "task.created", Data: map[string]string{"id": "t1"}})
	b.Publish(Event{Type: "task.updated", Data: map[string]string{"id": "t1"}})

	frames := drain(ch)
	if len(frames) != 2 {
		t.Fatalf("frames = %d, want 2", len(frames))
	}
	want := "id: 1\nevent: task.created\ndata: {\"id\":\"t1\"}\n\n"
	if frames[0] != want {
		t.Errorf("frame = %q, want %q", frames[0], want)
	}
	if !strings.HasPrefix(frames[1], "id: 2\n") {
		t.Errorf("second frame should carry id 2: %q", frames[1])
	}
}

func TestPublishChange_StatsThrottle(t *testing.T) {
	b := newBroker(t, Options{StatsThrottle: time.Minute})
	ch := b.Subscribe()

	// Only the first change falls outside the throttle window.
	b.PublishChange(Change{Entity: "task", Kind: "created", ID: "a"})
	b.PublishChange(Change{Entity: "checkin", Kind: "created", ID: "a"})

	var stats, changes []string
	for _, f := range drain(ch) {
		if strings.Contains(f, "event: "+StatsEvent) {
			stats = append(stats, f)
		} else {
			changes = append(changes, f)
		}
	}
	if len(changes) != 2 {
		t.Errorf("change frames = %d, want 2", len(changes))
	}
	if len(stats) != 1 {
		t.Errorf("stats frames = %d, want 1", len(stats))
	}
	if len(changes) == 2 && !strings.Contains(changes[1], "event: checkin.created") {
		t.Errorf("second change = %q", changes[1])
	}
}

func TestPublishPlainEventSkipsStats(t *testing.T) {
	b := newBroker(t, Options{})
	ch := b.Subscribe()

	b.Publish(Event{Type: "custom", Data: nil})
	for _, f := range drain(ch) {
		if strings.Contains(f, StatsEvent) {
			t.Fatalf("plain publish emitted %q", f)
		}
	}
}

func TestSlowClientDoesNotBlock(t *testing.T) {
	b := newBroker(t, Options{ClientBuffer: 2})
	slow := b.Subscribe()

	done := make(chan struct{})
	go func() {
		for i := 0; i < 20; i++ {
			b.Publish(Event{Type: "test", Data: i})
		}
		close(done)
	}()
	select {
	case <-done:
	case <-time.After(time.Second):
		t.Fatal("publish blocked on a full client")
	}
	if got := len(drain(slow)); got != 2 {
		t.Errorf("buffered frames = %d, want 2", got)
	}
}

func TestServeHTTP(t *testing.T) {
	b := newBroker(t, Options{Heartbeat: 20 * time.Millisecond})

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()
	req := httptest.NewRequest(http.MethodGet, "/api/events", nil).WithContext(ctx)
	w := httptest.NewRecorder()

	done := make(chan struct{})
	go func() {
		b.ServeHTTP(w, req)
		close(done)
	}()

	time.Sleep(50 * time.Millisecond)
	if b.ClientCount() != 1 {
		t.Fatalf("expected 1 client from handler")
	}
	b.PublishChange(Change{Entity: "task", Kind: "deleted", ID: "t2"})
	time.Sleep(50 * time.Millisecond)

	cancel()
	<-done

	if ct := w.Header().Get("Content-Type"); ct != "text/event-stream" {
		t.Errorf("content type = %q", ct)
	}
	body := w.Body.String()
	for _, want := range []string{"retry: 3000", ": ping", "event: task.deleted", "event: " + StatsEvent} {
		if !strings.Contains(body, want) {
			t.Errorf("stream missing %q in %q", want, body)
		}
	}

	time.Sleep(50 * time.Millisecond)
	if b.ClientCount() != 0 {
		t.Errorf("client not cleaned up after disconnect")
	}
}

func TestCloseIsFinal(t *testing.T) {
	b := NewBroker(Options{})
	ch := b.Subscribe()

	b.Close()
	select {
	case _, ok := <-ch:
		if ok {
			t.Fatal("expected subscriber channel to be closed")
		}
	case <-time.After(time.Second):
		t.Fatal("timeout waiting for channel close")
	}

	if b.ClientCount() != 0 {
		t.Fatalf("expected 0 clients after close")
	}
	if _, ok := <-b.Subscribe(); ok {
		t.Error("subscribe after close should return a closed channel")
	}
	b.Publish(Event{Type: "task.updated"})
	b.PublishChange(Change{Entity: "task", Kind: "deleted", ID: "t2"})
	b.Close()
}
