package api

import (
	"net/http"

	"github.com/go-chi/chi/v5"
	"golang.org/x/time/rate"
)

// Options tunes the API router.
type Options struct {
	// Limiter throttles check-ins and notification generation. Nil disables it.
	Limiter *rate.Limiter
	// Events, if non-nil, is mounted at GET /events.
	Events http.Handler
}

// NewRouter creates a chi router with all API routes mounted.
func NewRouter(svc Services, opts Options) chi.Router {
	h := NewHandler(svc)
	limited := RateLimit(opts.Limiter)

	r := chi.NewRouter()
	r.Use(Metrics)

	r.Route("/tasks", func(r chi.Router) {
		r.Get("/", h.ListTasks)
		r.Post("/", h.CreateTask)
		r.Route("/{id}", func(r chi.Router) {
			r.Get("/", h.GetTask)
			r.Put("/", h.UpdateTask)
			r.Delete("/", h.DeleteTask)
			r.With(limited).Post("/checkin", h.CheckIn)
			r.Get("/checkins", h.ListCheckins)
		})
	})

	r.Route("/lists", func(r chi.Router) {
		r.Get("/", h.ListLists)
		r.Post("/", h.CreateList)
		r.Get("/{id}", h.GetList)
		r.Put("/{id}", h.UpdateList)
		r.Delete("/{id}", h.DeleteList)
	})

	r.Route("/life-entries", func(r chi.Router) {
		r.Get("/", h.ListEntries)
		r.Post("/", h.CreateEntry)
		r.Get("/grouped", h.GroupedEntries)
		r.Get("/{id}", h.GetEntry)
		r.Put("/{id}", h.UpdateEntry)
		r.Delete("/{id}", h.DeleteEntry)
	})

	r.Route("/settings", func(r chi.Router) {
		r.Get("/", h.GetSettings)
		r.Put("/", h.PutSettings)
		r.Get("/export", h.Export)
	})

	r.Route("/notifications", func(r chi.Router) {
		r.Get("/", h.ListNotifications)
		r.Post("/", h.CreateNotification)
		r.Get("/unread-count", h.UnreadCount)
		r.Post("/read-all", h.MarkAllRead)
		r.With(limited).Post("/generate-reminders", h.GenerateReminders)
		r.With(limited).Post("/generate-at-risk", h.GenerateAtRisk)
		r.Patch("/{id}/read", h.MarkRead)
		r.Delete("/{id}", h.DeleteNotification)
	})

	r.Route("/stats", func(r chi.Router) {
		r.Get("/overview", h.Overview)
		r.Get("/daily-ring", h.DailyRing)
		r.Get("/streaks", h.Streaks)
	})

	r.Get("/search", h.Search)

	if opts.Events != nil {
		r.Get("/events", opts.Events.ServeHTTP)
	}

	return r
}
