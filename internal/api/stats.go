package api

import (
	"net/http"
	"strings"

	"cloud.google.com/go/civil"
)

// Overview handles GET /api/stats/overview.
//
//	@Summary		Task and streak statistics
//	@Tags			stats
//	@Produce		json
//	@Param			timezone_offset	query		int	false	"Minutes west of UTC"
//	@Success		200				{object}	models.StatsOverview
//	@Failure		422				{object}	validationResponse
//	@Router			/stats/overview [get]
func (h *Handler) Overview(w http.ResponseWriter, r *http.Request) {
	offset, ok := queryInt(w, r, "timezone_offset", 0)
	if !ok {
		return
	}
	stats, err := h.tasks.Overview(r.Context(), offset)
	if err != nil {
		writeError(w, err, "stats overview")
		return
	}
	writeJSON(w, http.StatusOK, stats)
}

// DailyRing handles GET /api/stats/daily-ring.
//
//	@Summary		Habit completion for one day
//	@Tags			stats
//	@Produce		json
//	@Param			timezone_offset	query		int		false	"Minutes west of UTC"
//	@Param			target_date		query		string	false	"YYYY-MM-DD, defaults to the caller's today"
//	@Success		200				{object}	models.DailyRing
//	@Failure		400				{object}	errResponse
//	@Failure		422				{object}	validationResponse
//	@Router			/stats/daily-ring [get]
func (h *Handler) DailyRing(w http.ResponseWriter, r *http.Request) {
	offset, ok := queryInt(w, r, "timezone_offset", 0)
	if !ok {
		return
	}
	var target *civil.Date
	if raw := r.URL.Query().Get("target_date"); raw != "" {
		d, err := civil.ParseDate(raw)
		if err != nil {
			writeJSON(w, http.StatusBadRequest, errorBody("invalid query parameter 'target_date'"))
			return
		}
		target = &d
	}
	ring, err := h.tasks.DailyRing(r.Context(), offset, target)
	if err != nil {
		writeError(w, err, "daily ring")
		return
	}
	writeJSON(w, http.StatusOK, ring)
}

// Streaks handles GET /api/stats/streaks.
//
//	@Summary		Streak state of every active habit
//	@Tags			stats
//	@Produce		json
//	@Param			timezone_offset	query	int	false	"Minutes west of UTC"
//	@Success		200				{array}	habit.Status
//	@Failure		422				{object}	validationResponse
//	@Router			/stats/streaks [get]
func (h *Handler) Streaks(w http.ResponseWriter, r *http.Request) {
	offset, ok := queryInt(w, r, "timezone_offset", 0)
	if !ok {
		return
	}
	streaks, err := h.habits.Streaks(r.Context(), offset)
	if err != nil {
		writeError(w, err, "streaks")
		return
	}
	writeJSON(w, http.StatusOK, streaks)
}

// Search handles GET /api/search.
//
//	@Summary		Full-text search across tasks and life entries
//	@Tags			search
//	@Produce		json
//	@Param			q		query		string	true	"Search query"
//	@Param			limit	query		int		false	"Max results"
//	@Success		200		{object}	map[string][]models.SearchHit
//	@Failure		422		{object}	validationResponse
//	@Router			/search [get]
func (h *Handler) Search(w http.ResponseWriter, r *http.Request) {
	q := strings.TrimSpace(r.URL.Query().Get("q"))
	limit, ok := queryInt(w, r, "limit", 20)
	if !ok {
		return
	}
	results, err := h.tasks.Search(r.Context(), q, limit)
	if err != nil {
		writeError(w, err, "search")
		return
	}
	writeJSON(w, http.StatusOK, map[string]any{
		"results": nonNil(results),
	})
}
