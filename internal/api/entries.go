package api

import (
	"log/slog"
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/starford/lifeflow/internal/taskservice"
)

func pageParams(w http.ResponseWriter, r *http.Request) (taskservice.PageParams, bool) {
	var p taskservice.PageParams
	var ok bool
	if p.Page, ok = queryInt(w, r, "page", 1); !ok {
		return p, false
	}
	if p.PageSize, ok = queryInt(w, r, "page_size", taskservice.DefaultPageSize); !ok {
		return p, false
	}
	p.IncludeDeleted, ok = queryBool(w, r, "include_deleted")
	return p, ok
}

// ListEntries handles GET /api/life-entries.
//
//	@Summary		Page through life entries, newest first
//	@Tags			life-entries
//	@Produce		json
//	@Param			page			query		int		false	"Page number (>= 1)"
//	@Param			page_size		query		int		false	"Page size (1..100)"
//	@Param			include_deleted	query		bool	false	"Include soft-deleted entries"
//	@Success		200				{object}	taskservice.EntryPage
//	@Failure		422				{object}	validationResponse
//	@Router			/life-entries [get]
func (h *Handler) ListEntries(w http.ResponseWriter, r *http.Request) {
	p, ok := pageParams(w, r)
	if !ok {
		return
	}
	page, err := h.tasks.ListEntries(r.Context(), p)
	if err != nil {
		writeError(w, err, "list life entries")
		return
	}
	page.Items = nonNil(page.Items)
	writeJSON(w, http.StatusOK, page)
}

// GroupedEntries handles GET /api/life-entries/grouped.
//
//	@Summary		Page through life entries grouped by day
//	@Tags			life-entries
//	@Produce		json
//	@Param			page			query		int		false	"Page number (>= 1)"
//	@Param			page_size		query		int		false	"Page size (1..100)"
//	@Param			include_deleted	query		bool	false	"Include soft-deleted entries"
//	@Success		200				{object}	taskservice.GroupedEntryPage
//	@Router			/life-entries/grouped [get]
func (h *Handler) GroupedEntries(w http.ResponseWriter, r *http.Request) {
	p, ok := pageParams(w, r)
	if !ok {
		return
	}
	page, err := h.tasks.GroupedEntries(r.Context(), p)
	if err != nil {
		writeError(w, err, "group life entries")
		return
	}
	writeJSON(w, http.StatusOK, page)
}

// GetEntry handles GET /api/life-entries/{id}.
func (h *Handler) GetEntry(w http.ResponseWriter, r *http.Request) {
	id := chi.URLParam(r, "id")
	e, err := h.tasks.GetEntry(r.Context(), id)
	if err != nil {
		writeError(w, err, "get life entry", slog.String("id", id))
		return
	}
	writeJSON(w, http.StatusOK, e)
}

// CreateEntry handles POST /api/life-entries.
//
//	@Summary		Record a life entry
//	@Tags			life-entries
//	@Accept			json
//	@Produce		json
//	@Param			body	body		taskservice.EntryInput	true	"Entry content"
//	@Success		201		{object}	models.LifeEntry
//	@Failure		422		{object}	validationResponse
//	@Router			/life-entries [post]
func (h *Handler) CreateEntry(w http.ResponseWriter, r *http.Request) {
	var req taskservice.EntryInput
	if !decodeJSON(w, r, &req, false) {
		return
	}
	e, err := h.tasks.CreateEntry(r.Context(), req)
	if err != nil {
		writeError(w, err, "create life entry")
		return
	}
	writeJSON(w, http.StatusCreated, e)
}

// UpdateEntry handles PUT /api/life-entries/{id}.
func (h *Handler) UpdateEntry(w http.ResponseWriter, r *http.Request) {
	id := chi.URLParam(r, "id")
	var req taskservice.EntryInput
	if !decodeJSON(w, r, &req, false) {
		return
	}
	e, err := h.tasks.UpdateEntry(r.Context(), id, req)
	if err != nil {
		writeError(w, err, "update life entry", slog.String("id", id))
		return
	}
	writeJSON(w, http.StatusOK, e)
}

// DeleteEntry handles DELETE /api/life-entries/{id}; soft unless hard_delete.
func (h *Handler) DeleteEntry(w http.ResponseWriter, r *http.Request) {
	id := chi.URLParam(r, "id")
	hard, ok := queryBool(w, r, "hard_delete")
	if !ok {
		return
	}
	if err := h.tasks.DeleteEntry(r.Context(), id, hard); err != nil {
		writeError(w, err, "delete life entry", slog.String("id", id))
		return
	}
	w.WriteHeader(http.StatusNoContent)
}
