package api

import (
	"log/slog"
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/starford/lifeflow/internal/habit"
)

// CheckinRequest is the optional body of a check-in. Offsets are minutes
// west of UTC in [-840, 720]; timezone_offset_minutes is accepted as an alias.
type CheckinRequest struct {
	TimezoneOffset        *int `json:"timezone_offset" example:"-480"`
	TimezoneOffsetMinutes *int `json:"timezone_offset_minutes"`
}

func (c CheckinRequest) offset() int {
	switch {
	case c.TimezoneOffset != nil:
		return *c.TimezoneOffset
	case c.TimezoneOffsetMinutes != nil:
		return *c.TimezoneOffsetMinutes
	default:
		return 0
	}
}

// CheckIn handles POST /api/tasks/{id}/checkin. Repeating a check-in on the
// same local day returns the unchanged task.
//
//	@Summary		Check in a task for the caller's local day
//	@Tags			checkins
//	@Accept			json
//	@Produce		json
//	@Param			id		path		string			true	"Task ID"
//	@Param			body	body		CheckinRequest	false	"Client timezone"
//	@Success		200		{object}	models.Task
//	@Failure		404		{object}	errResponse
//	@Failure		422		{object}	validationResponse
//	@Failure		429		{object}	errResponse
//	@Router			/tasks/{id}/checkin [post]
func (h *Handler) CheckIn(w http.ResponseWriter, r *http.Request) {
	id := chi.URLParam(r, "id")
	var req CheckinRequest
	if !decodeJSON(w, r, &req, true) {
		return
	}
	task, created, err := h.habits.CheckIn(r.Context(), id, req.offset())
	if err != nil {
		writeError(w, err, "check in", slog.String("id", id))
		return
	}
	if created {
		h.publish("checkin", "created", task.ID)
		h.publish("task", "updated", task.ID)
	}
	writeJSON(w, http.StatusOK, task)
}

// ListCheckins handles GET /api/tasks/{id}/checkins.
//
//	@Summary		List check-ins of a task, newest first
//	@Tags			checkins
//	@Produce		json
//	@Param			id		path		string	true	"Task ID"
//	@Param			limit	query		int		false	"Max records (default 30, max 365)"
//	@Success		200		{array}		models.CheckinRecord
//	@Failure		404		{object}	errResponse
//	@Router			/tasks/{id}/checkins [get]
func (h *Handler) ListCheckins(w http.ResponseWriter, r *http.Request) {
	id := chi.URLParam(r, "id")
	limit, ok := queryInt(w, r, "limit", habit.DefaultCheckinLimit)
	if !ok {
		return
	}
	records, err := h.habits.ListCheckins(r.Context(), id, limit)
	if err != nil {
		writeError(w, err, "list checkins", slog.String("id", id))
		return
	}
	writeJSON(w, http.StatusOK, nonNil(records))
}
