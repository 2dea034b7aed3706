package api

import (
	"log/slog"
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/starford/lifeflow/internal/taskservice"
)

// ListLists handles GET /api/lists.
//
//	@Summary		List task lists by sort order
//	@Tags			lists
//	@Produce		json
//	@Success		200	{array}	models.List
//	@Router			/lists [get]
func (h *Handler) ListLists(w http.ResponseWriter, r *http.Request) {
	lists, err := h.tasks.ListLists(r.Context())
	if err != nil {
		writeError(w, err, "list lists")
		return
	}
	writeJSON(w, http.StatusOK, nonNil(lists))
}

// GetList handles GET /api/lists/{id}.
//
//	@Summary		Get a list
//	@Tags			lists
//	@Produce		json
//	@Param			id	path		string	true	"List ID"
//	@Success		200	{object}	models.List
//	@Failure		404	{object}	errResponse
//	@Router			/lists/{id} [get]
func (h *Handler) GetList(w http.ResponseWriter, r *http.Request) {
	id := chi.URLParam(r, "id")
	l, err := h.tasks.GetList(r.Context(), id)
	if err != nil {
		writeError(w, err, "get list", slog.String("id", id))
		return
	}
	writeJSON(w, http.StatusOK, l)
}

// CreateList handles POST /api/lists.
//
//	@Summary		Create a list
//	@Tags			lists
//	@Accept			json
//	@Produce		json
//	@Param			body	body		taskservice.ListCreate	true	"List to create"
//	@Success		201		{object}	models.List
//	@Failure		422		{object}	validationResponse
//	@Router			/lists [post]
func (h *Handler) CreateList(w http.ResponseWriter, r *http.Request) {
	var req taskservice.ListCreate
	if !decodeJSON(w, r, &req, false) {
		return
	}
	l, err := h.tasks.CreateList(r.Context(), req)
	if err != nil {
		writeError(w, err, "create list")
		return
	}
	writeJSON(w, http.StatusCreated, l)
}

// UpdateList handles PUT /api/lists/{id}.
//
//	@Summary		Update a list
//	@Tags			lists
//	@Accept			json
//	@Produce		json
//	@Param			id		path		string					true	"List ID"
//	@Param			body	body		taskservice.ListUpdate	true	"Fields to change"
//	@Success		200		{object}	models.List
//	@Failure		404		{object}	errResponse
//	@Failure		422		{object}	validationResponse
//	@Router			/lists/{id} [put]
func (h *Handler) UpdateList(w http.ResponseWriter, r *http.Request) {
	id := chi.URLParam(r, "id")
	var req taskservice.ListUpdate
	if !decodeJSON(w, r, &req, false) {
		return
	}
	l, err := h.tasks.UpdateList(r.Context(), id, req)
	if err != nil {
		writeError(w, err, "update list", slog.String("id", id))
		return
	}
	writeJSON(w, http.StatusOK, l)
}

// DeleteList handles DELETE /api/lists/{id}. Tasks in the list are kept
// and detached.
//
//	@Summary		Delete a list
//	@Tags			lists
//	@Param			id	path	string	true	"List ID"
//	@Success		204	"List deleted"
//	@Failure		404	{object}	errResponse
//	@Router			/lists/{id} [delete]
func (h *Handler) DeleteList(w http.ResponseWriter, r *http.Request) {
	id := chi.URLParam(r, "id")
	if err := h.tasks.DeleteList(r.Context(), id); err != nil {
		writeError(w, err, "delete list", slog.String("id", id))
		return
	}
	w.WriteHeader(http.StatusNoContent)
}
