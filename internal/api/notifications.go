package api

import (
	"log/slog"
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/starford/lifeflow/internal/notify"
)

// ListNotifications handles GET /api/notifications.
//
//	@Summary		List notifications, newest first
//	@Tags			notifications
//	@Produce		json
//	@Param			limit		query		int		false	"Page size (default 50, max 200)"
//	@Param			offset		query		int		false	"Rows to skip"
//	@Param			unread_only	query		bool	false	"Only unread notifications"
//	@Success		200			{object}	store.NotificationPage
//	@Router			/notifications [get]
func (h *Handler) ListNotifications(w http.ResponseWriter, r *http.Request) {
	limit, ok := queryInt(w, r, "limit", 0)
	if !ok {
		return
	}
	offset, ok := queryInt(w, r, "offset", 0)
	if !ok {
		return
	}
	unreadOnly, ok := queryBool(w, r, "unread_only")
	if !ok {
		return
	}
	page, err := h.notify.List(r.Context(), limit, offset, unreadOnly)
	if err != nil {
		writeError(w, err, "list notifications")
		return
	}
	page.Notifications = nonNil(page.Notifications)
	writeJSON(w, http.StatusOK, page)
}

// UnreadCount handles GET /api/notifications/unread-count.
func (h *Handler) UnreadCount(w http.ResponseWriter, r *http.Request) {
	n, err := h.notify.UnreadCount(r.Context())
	if err != nil {
		writeError(w, err, "unread count")
		return
	}
	writeJSON(w, http.StatusOK, map[string]int{"count": n})
}

// CreateNotification handles POST /api/notifications.
//
//	@Summary		Create a notification
//	@Tags			notifications
//	@Accept			json
//	@Produce		json
//	@Param			body	body		notify.CreateInput	true	"Notification"
//	@Success		200		{object}	models.Notification
//	@Failure		422		{object}	validationResponse
//	@Router			/notifications [post]
func (h *Handler) CreateNotification(w http.ResponseWriter, r *http.Request) {
	var req notify.CreateInput
	if !decodeJSON(w, r, &req, false) {
		return
	}
	n, err := h.notify.Create(r.Context(), req)
	if err != nil {
		writeError(w, err, "create notification")
		return
	}
	writeJSON(w, http.StatusOK, n)
}

// MarkRead handles PATCH /api/notifications/{id}/read.
func (h *Handler) MarkRead(w http.ResponseWriter, r *http.Request) {
	id := chi.URLParam(r, "id")
	n, err := h.notify.MarkRead(r.Context(), id)
	if err != nil {
		writeError(w, err, "mark notification read", slog.String("id", id))
		return
	}
	writeJSON(w, http.StatusOK, n)
}

// MarkAllRead handles POST /api/notifications/read-all.
//
//	@Summary		Mark every notification read
//	@Tags			notifications
//	@Produce		json
//	@Success		200	{object}	messageResponse
//	@Router			/notifications/read-all [post]
func (h *Handler) MarkAllRead(w http.ResponseWriter, r *http.Request) {
	count, err := h.notify.MarkAllRead(r.Context())
	if err != nil {
		writeError(w, err, "mark all notifications read")
		return
	}
	writeJSON(w, http.StatusOK, messageResponse{Message: "All notifications marked as read", Count: &count})
}

// DeleteNotification handles DELETE /api/notifications/{id}.
func (h *Handler) DeleteNotification(w http.ResponseWriter, r *http.Request) {
	id := chi.URLParam(r, "id")
	if err := h.notify.Delete(r.Context(), id); err != nil {
		writeError(w, err, "delete notification", slog.String("id", id))
		return
	}
	writeJSON(w, http.StatusOK, messageResponse{Message: "Notification deleted"})
}

// GenerateReminders handles POST /api/notifications/generate-reminders.
//
//	@Summary		Create reminders for habits not yet checked in today
//	@Tags			notifications
//	@Produce		json
//	@Param			timezone_offset	query		int	false	"Minutes west of UTC"
//	@Success		200				{array}		models.Notification
//	@Failure		422				{object}	validationResponse
//	@Failure		429				{object}	errResponse
//	@Router			/notifications/generate-reminders [post]
func (h *Handler) GenerateReminders(w http.ResponseWriter, r *http.Request) {
	offset, ok := queryInt(w, r, "timezone_offset", 0)
	if !ok {
		return
	}
	created, err := h.notify.GenerateHabitReminders(r.Context(), offset)
	if err != nil {
		writeError(w, err, "generate reminders")
		return
	}
	writeJSON(w, http.StatusOK, nonNil(created))
}

// GenerateAtRisk handles POST /api/notifications/generate-at-risk.
//
//	@Summary		Warn about streaks that break unless checked in today
//	@Tags			notifications
//	@Produce		json
//	@Param			timezone_offset	query		int	false	"Minutes west of UTC"
//	@Success		200				{array}		models.Notification
//	@Failure		422				{object}	validationResponse
//	@Failure		429				{object}	errResponse
//	@Router			/notifications/generate-at-risk [post]
func (h *Handler) GenerateAtRisk(w http.ResponseWriter, r *http.Request) {
	offset, ok := queryInt(w, r, "timezone_offset", 0)
	if !ok {
		return
	}
	created, err := h.notify.GenerateAtRiskNotifications(r.Context(), offset)
	if err != nil {
		writeError(w, err, "generate at-risk")
		return
	}
	writeJSON(w, http.StatusOK, nonNil(created))
}
