package api

import (
	"github.com/starford/lifeflow/internal/export"
	"github.com/starford/lifeflow/internal/habit"
	"github.com/starford/lifeflow/internal/notify"
	"github.com/starford/lifeflow/internal/sse"
	"github.com/starford/lifeflow/internal/taskservice"
)

// Publisher receives entity change notifications for live clients.
type Publisher interface {
	PublishChange(c sse.Change)
}

// Services bundles the domain services behind the API.
type Services struct {
	Tasks    *taskservice.Service
	Habits   *habit.Service
	Notify   *notify.Service
	Exporter *export.Exporter
	// Events is optional.
	Events Publisher
}

// Handler holds API route handlers.
type Handler struct {
	tasks    *taskservice.Service
	habits   *habit.Service
	notify   *notify.Service
	exporter *export.Exporter
	events   Publisher
}

// NewHandler creates a new Handler.
func NewHandler(svc Services) *Handler {
	return &Handler{
		tasks:    svc.Tasks,
		habits:   svc.Habits,
		notify:   svc.Notify,
		exporter: svc.Exporter,
		events:   svc.Events,
	}
}

func (h *Handler) publish(entity, kind, id string) {
	if h.events != nil {
		h.events.PublishChange(sse.Change{Entity: entity, Kind: kind, ID: id})
	}
}
