package handler

import (
	"encoding/json"
	"log/slog"
	"net/http"
	"strconv"

	"github.com/go-chi/chi/v5"

	"github.com/sakif/taskdeck/internal/apperror"
	"github.com/sakif/taskdeck/internal/auth"
	"github.com/sakif/taskdeck/internal/repository"
	"github.com/sakif/taskdeck/internal/service"
)

// TaskHandler serves the task CRUD routes. All of them sit behind
// auth.RequireAuth, so the owner id is always present in the request
// context by the time a handler runs.
type TaskHandler struct {
	svc    *service.TaskService
	logger *slog.Logger
}

// NewTaskHandler creates a TaskHandler.
func NewTaskHandler(svc *service.TaskService, logger *slog.Logger) *TaskHandler {
	return &TaskHandler{svc: svc, logger: logger}
}

// createTaskRequest is the body of POST /tasks. A "completed" field is
// accepted on the wire for compatibility but ignored: new tasks always
// start incomplete.
type createTaskRequest struct {
	Name        string `json:"name"`
	Description string `json:"description"`
	Deadline    string `json:"deadline"`
}

// updateTaskRequest is the body of PUT /tasks/{id}. The three pointer
// fields are optional; absent ones keep the task's current value.
// Completed is always applied.
type updateTaskRequest struct {
	Name        *string `json:"name"`
	Description *string `json:"description"`
	Deadline    *string `json:"deadline"`
	Completed   bool    `json:"completed"`
}

// HandleCreate adds a task to the authenticated user's collection.
//
// HTTP: POST /tasks
// 201 {"id": n} on success, 400 for a missing field or unregistered owner,
// 401 for a bad token, 422 for an undecodable body.
func (h *TaskHandler) HandleCreate(w http.ResponseWriter, r *http.Request) {
	ownerID, ok := auth.UserIDFromContext(r.Context())
	if !ok {
		writeError(w, apperror.Unauthorized("authentication required"))
		return
	}

	var req createTaskRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeDecodeError(w)
		return
	}

	id, err := h.svc.Create(r.Context(), ownerID, req.Name, req.Description, req.Deadline)
	if err != nil {
		writeError(w, err)
		return
	}

	writeJSON(w, http.StatusCreated, map[string]uint32{"id": id})
}

// HandleList returns the authenticated user's tasks in id order.
//
// HTTP: GET /tasks?userId=N
// The userId parameter is required and must name a registered user; it does
// not grant access to that user's tasks, the listing is always the token
// owner's.
func (h *TaskHandler) HandleList(w http.ResponseWriter, r *http.Request) {
	ownerID, ok := auth.UserIDFromContext(r.Context())
	if !ok {
		writeError(w, apperror.Unauthorized("authentication required"))
		return
	}

	param := r.URL.Query().Get("userId")
	if param == "" {
		writeError(w, apperror.ValidationFailed("userId", "userId query parameter is required"))
		return
	}
	targetID, err := strconv.ParseUint(param, 10, 32)
	if err != nil {
		writeError(w, apperror.ValidationFailed("userId", "userId must be an unsigned integer"))
		return
	}

	tasks, err := h.svc.List(r.Context(), ownerID, uint32(targetID))
	if err != nil {
		writeError(w, err)
		return
	}

	writeJSON(w, http.StatusOK, tasks)
}

// HandleUpdate merges partial changes into one of the user's tasks.
//
// HTTP: PUT /tasks/{id}
// 200 with the updated task, 404 if the task id is unknown, 422 for an
// undecodable body.
func (h *TaskHandler) HandleUpdate(w http.ResponseWriter, r *http.Request) {
	ownerID, ok := auth.UserIDFromContext(r.Context())
	if !ok {
		writeError(w, apperror.Unauthorized("authentication required"))
		return
	}

	taskID, ok := taskIDParam(w, r)
	if !ok {
		return
	}

	var req updateTaskRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeDecodeError(w)
		return
	}

	task, err := h.svc.Update(r.Context(), ownerID, taskID, repository.TaskChanges{
		Name:        req.Name,
		Description: req.Description,
		Deadline:    req.Deadline,
		Completed:   req.Completed,
	})
	if err != nil {
		writeError(w, err)
		return
	}

	writeJSON(w, http.StatusOK, task)
}

// HandleDelete removes a task.
//
// HTTP: DELETE /tasks/{id}
// 204 on success, including when the id is absent from an existing
// collection; 404 only when the user has no collection at all.
func (h *TaskHandler) HandleDelete(w http.ResponseWriter, r *http.Request) {
	ownerID, ok := auth.UserIDFromContext(r.Context())
	if !ok {
		writeError(w, apperror.Unauthorized("authentication required"))
		return
	}

	taskID, ok := taskIDParam(w, r)
	if !ok {
		return
	}

	if err := h.svc.Delete(r.Context(), ownerID, taskID); err != nil {
		writeError(w, err)
		return
	}

	w.WriteHeader(http.StatusNoContent)
}

// taskIDParam parses the {id} route parameter. On failure it writes the
// validation error itself and returns ok = false.
func taskIDParam(w http.ResponseWriter, r *http.Request) (uint32, bool) {
	id, err := strconv.ParseUint(chi.URLParam(r, "id"), 10, 32)
	if err != nil {
		writeError(w, apperror.ValidationFailed("id", "task id must be an unsigned integer"))
		return 0, false
	}
	return uint32(id), true
}
