// Package sse streams entity changes to browsers as Server-Sent Events.
package sse

import (
	"encoding/json"
	"fmt"
	"net/http"
	"sync/atomic"
	"time"

	"github.com/starford/lifeflow/internal/metrics"
)

// Event is one frame on the stream.
type Event struct {
	Type string `json:"type"`
	Data any    `json:"data"`
}

// Change describes a mutation of one entity, e.g. entity "task" and kind
// "created". It is broadcast as event type "task.created".
type Change struct {
	Entity string
	Kind   string
	ID     string
}

// StatsEvent follows entity changes, throttled, so dashboards refetch.
const StatsEvent = "stats.updated"

// Options tunes a Broker. Zero values select the defaults.
type Options struct {
	// StatsThrottle is the minimum gap between stats.updated frames.
	StatsThrottle time.Duration
	// Heartbeat is how often idle connections get a comment line. A
	// negative value disables it.
	Heartbeat time.Duration
	// ClientBuffer is the number of frames queued per client before new
	// frames are dropped for it.
	ClientBuffer int
}

func (o Options) withDefaults() Options {
	if o.StatsThrottle <= 0 {
		o.StatsThrottle = 2 * time.Second
	}
	if o.Heartbeat == 0 {
		o.Heartbeat = 25 * time.Second
	}
	if o.ClientBuffer <= 0 {
		o.ClientBuffer = 64
	}
	return o
}

type message struct {
	event Event
	// stats marks an entity change that should also refresh stats.
	stats bool
}

// Broker fans events out to subscribed clients.
//
// The client set, the frame sequence and the stats throttle belong to the
// loop goroutine. Everything else talks to it over channels.
type Broker struct {
	opts Options

	subscribeCh   chan chan []byte
	unsubscribeCh chan chan []byte
	messages      chan message
	countReqCh    chan chan int

	stop   chan struct{}
	done   chan struct{}
	closed atomic.Bool
}

// NewBroker starts a broker loop.
func NewBroker(opts Options) *Broker {
	b := &Broker{
		opts:          opts.withDefaults(),
		subscribeCh:   make(chan chan []byte),
		unsubscribeCh: make(chan chan []byte),
		messages:      make(chan message, 256),
		countReqCh:    make(chan chan int),
		stop:          make(chan struct{}),
		done:          make(chan struct{}),
	}
	go b.loop()
	return b
}

// frame renders an event in wire format.
func frame(id uint64, e Event) ([]byte, error) {
	payload, err := json.Marshal(e.Data)
	if err != nil {
		return nil, err
	}
	return fmt.Appendf(nil, "id: %d\nevent: %s\ndata: %s\n\n", id, e.Type, payload), nil
}

func (b *Broker) loop() {
	defer close(b.done)

	clients := make(map[chan []byte]struct{})
	var seq uint64
	var lastStats time.Time

	send := func(e Event) {
		seq++
		raw, err := frame(seq, e)
		if err != nil {
			return
		}
		for ch := range clients {
			select {
			case ch <- raw:
			default:
				metrics.SSEDropped.Inc()
			}
		}
	}

	for {
		select {
		case <-b.stop:
			for ch := range clients {
				close(ch)
			}
			metrics.SSEClients.Set(0)
			return

		case ch := <-b.subscribeCh:
			clients[ch] = struct{}{}
			metrics.SSEClients.Set(float64(len(clients)))

		case ch := <-b.unsubscribeCh:
			if _, ok := clients[ch]; ok {
				delete(clients, ch)
				close(ch)
			}
			metrics.SSEClients.Set(float64(len(clients)))

		case m := <-b.messages:
			send(m.event)
			if m.stats && time.Since(lastStats) >= b.opts.StatsThrottle {
				lastStats = time.Now()
				send(Event{Type: StatsEvent, Data: struct{}{}})
			}

		case resp := <-b.countReqCh:
			resp <- len(clients)
		}
	}
}

func (b *Broker) enqueue(m message) {
	if b.closed.Load() {
		return
	}
	select {
	case b.messages <- m:
	case <-b.done:
	}
}

// Close stops the loop and closes every client channel. It is idempotent.
func (b *Broker) Close() {
	if b.closed.CompareAndSwap(false, true) {
		close(b.stop)
	}
	<-b.done
}

// Subscribe registers a client. The channel is closed on Unsubscribe or
// Close.
func (b *Broker) Subscribe() chan []byte {
	ch := make(chan []byte, b.opts.ClientBuffer)
	if b.closed.Load() {
		close(ch)
		return ch
	}
	select {
	case b.subscribeCh <- ch:
	case <-b.done:
		close(ch)
	}
	return ch
}

// Unsubscribe removes a client and closes its channel.
func (b *Broker) Unsubscribe(ch chan []byte) {
	if b.closed.Load() {
		return
	}
	select {
	case b.unsubscribeCh <- ch:
	case <-b.done:
	}
}

// ClientCount returns the number of connected clients.
func (b *Broker) ClientCount() int {
	if b.closed.Load() {
		return 0
	}
	resp := make(chan int, 1)
	select {
	case b.countReqCh <- resp:
	case <-b.done:
		return 0
	}
	select {
	case n := <-resp:
		return n
	case <-b.done:
		return 0
	}
}

// Publish broadcasts e as is.
func (b *Broker) Publish(e Event) {
	b.enqueue(message{event: e})
}

// PublishChange broadcasts an entity change followed by a throttled
// stats.updated frame.
func (b *Broker) PublishChange(c Change) {
	b.enqueue(message{
		event: Event{Type: c.Entity + "." + c.Kind, Data: map[string]string{"id": c.ID}},
		stats: true,
	})
}

// ServeHTTP streams events to one client (GET /api/events).
func (b *Broker) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	flusher, ok := w.(http.Flusher)
	if !ok {
		http.Error(w, "streaming unsupported", http.StatusInternalServerError)
		return
	}

	h := w.Header()
	h.Set("Content-Type", "text/event-stream")
	h.Set("Cache-Control", "no-cache")
	h.Set("Connection", "keep-alive")
	h.Set("X-Accel-Buffering", "no")
	w.WriteHeader(http.StatusOK)
	_, _ = fmt.Fprint(w, "retry: 3000\n\n")
	flusher.Flush()

	ch := b.Subscribe()
	defer b.Unsubscribe(ch)

	var heartbeat <-chan time.Time
	if b.opts.Heartbeat > 0 {
		t := time.NewTicker(b.opts.Heartbeat)
		defer t.Stop()
		heartbeat = t.C
	}

	ctx := r.Context()
	for {
		select {
		case <-ctx.Done():
			return
		case <-heartbeat:
			_, _ = fmt.Fprint(w, ": ping\n\n")
			flusher.Flush()
		case raw, ok := <-ch:
			if !ok {
				return
			}
			_, _ = w.Write(raw)
			flusher.Flush()
		}
	}
}
