package api

import (
	"log/slog"
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/starford/lifeflow/internal/taskservice"
)

// ListTasks handles GET /api/tasks.
//
//	@Summary		List tasks, newest first
//	@Tags			tasks
//	@Produce		json
//	@Param			list_id			query		string	false	"Filter by list"
//	@Param			include_deleted	query		bool	false	"Include soft-deleted tasks"
//	@Success		200				{array}		models.Task
//	@Router			/tasks [get]
func (h *Handler) ListTasks(w http.ResponseWriter, r *http.Request) {
	includeDeleted, ok := queryBool(w, r, "include_deleted")
	if !ok {
		return
	}
	var listID *string
	if v := r.URL.Query().Get("list_id"); v != "" {
		listID = &v
	}
	tasks, err := h.tasks.ListTasks(r.Context(), listID, includeDeleted)
	if err != nil {
		writeError(w, err, "list tasks")
		return
	}
	writeJSON(w, http.StatusOK, nonNil(tasks))
}

// GetTask handles GET /api/tasks/{id}.
//
//	@Summary		Get a task
//	@Tags			tasks
//	@Produce		json
//	@Param			id	path		string	true	"Task ID"
//	@Success		200	{object}	models.Task
//	@Failure		404	{object}	errResponse
//	@Router			/tasks/{id} [get]
func (h *Handler) GetTask(w http.ResponseWriter, r *http.Request) {
	id := chi.URLParam(r, "id")
	task, err := h.tasks.GetTask(r.Context(), id)
	if err != nil {
		writeError(w, err, "get task", slog.String("id", id))
		return
	}
	writeJSON(w, http.StatusOK, task)
}

// CreateTask handles POST /api/tasks.
//
//	@Summary		Create a task or habit
//	@Tags			tasks
//	@Accept			json
//	@Produce		json
//	@Param			body	body		taskservice.TaskCreate	true	"Task to create"
//	@Success		201		{object}	models.Task
//	@Failure		400		{object}	errResponse
//	@Failure		422		{object}	validationResponse
//	@Router			/tasks [post]
func (h *Handler) CreateTask(w http.ResponseWriter, r *http.Request) {
	var req taskservice.TaskCreate
	if !decodeJSON(w, r, &req, false) {
		return
	}
	task, err := h.tasks.CreateTask(r.Context(), req)
	if err != nil {
		writeError(w, err, "create task")
		return
	}
	h.publish("task", "created", task.ID)
	writeJSON(w, http.StatusCreated, task)
}

// UpdateTask handles PUT /api/tasks/{id}. clear_reminder takes precedence
// over reminder_time.
//
//	@Summary		Update a task
//	@Tags			tasks
//	@Accept			json
//	@Produce		json
//	@Param			id		path		string					true	"Task ID"
//	@Param			body	body		taskservice.TaskUpdate	true	"Fields to change"
//	@Success		200		{object}	models.Task
//	@Failure		404		{object}	errResponse
//	@Failure		422		{object}	validationResponse
//	@Router			/tasks/{id} [put]
func (h *Handler) UpdateTask(w http.ResponseWriter, r *http.Request) {
	id := chi.URLParam(r, "id")
	var req taskservice.TaskUpdate
	if !decodeJSON(w, r, &req, false) {
		return
	}
	task, err := h.tasks.UpdateTask(r.Context(), id, req)
	if err != nil {
		writeError(w, err, "update task", slog.String("id", id))
		return
	}
	h.publish("task", "updated", task.ID)
	writeJSON(w, http.StatusOK, task)
}

// DeleteTask handles DELETE /api/tasks/{id}.
//
//	@Summary		Delete a task
//	@Tags			tasks
//	@Param			id			path	string	true	"Task ID"
//	@Param			hard_delete	query	bool	false	"Remove the row and its check-ins"
//	@Success		204			"Task deleted"
//	@Failure		404			{object}	errResponse
//	@Router			/tasks/{id} [delete]
func (h *Handler) DeleteTask(w http.ResponseWriter, r *http.Request) {
	id := chi.URLParam(r, "id")
	hard, ok := queryBool(w, r, "hard_delete")
	if !ok {
		return
	}
	if err := h.tasks.DeleteTask(r.Context(), id, hard); err != nil {
		writeError(w, err, "delete task", slog.String("id", id))
		return
	}
	h.publish("task", "deleted", id)
	w.WriteHeader(http.StatusNoContent)
}
