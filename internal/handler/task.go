package handler

import (
	"context"
	"encoding/json"
	"errors"
	"log/slog"
	"net/http"
	"strconv"

	"github.com/go-chi/chi/v5"

	"github.com/taskforge/taskforge/internal/handler/dto"
	"github.com/taskforge/taskforge/internal/metrics"
	"github.com/taskforge/taskforge/internal/model"
	"github.com/taskforge/taskforge/internal/repository"
)

// Pagination bounds for task listing.
const (
	defaultPage  = 1
	defaultLimit = 10
	maxLimit     = 100
)

// TaskStore defines the persistence operations the task endpoints need.
type TaskStore interface {
	CreateTask(ctx context.Context, task *model.Task) error
	GetTaskByOwner(ctx context.Context, id, ownerID int64) (*model.Task, error)
	ListTasks(ctx context.Context, filter repository.TaskFilter) ([]*model.Task, error)
	CountTasks(ctx context.Context, filter repository.TaskFilter) (int64, error)
	UpdateTask(ctx context.Context, task *model.Task) error
	DeleteTask(ctx context.Context, id, ownerID int64) error
}

// TaskHandler handles task CRUD endpoints. Every method takes the
// authenticated identity as an explicit parameter; ownership scoping is
// never derived from request payloads.
type TaskHandler struct {
	store   TaskStore
	logger  *slog.Logger
	metrics metrics.Recorder
}

// NewTaskHandler creates a new TaskHandler.
func NewTaskHandler(store TaskStore, logger *slog.Logger, recorder metrics.Recorder) *TaskHandler {
	if recorder == nil {
		recorder = metrics.NewNoop()
	}
	return &TaskHandler{
		store:   store,
		logger:  logger,
		metrics: recorder,
	}
}

// List handles GET /tasks.
func (h *TaskHandler) List(w http.ResponseWriter, r *http.Request, ident model.Identity) {
	query := r.URL.Query()
	fields := make(map[string][]string)

	page := defaultPage
	if p := query.Get("page"); p != "" {
		parsed, err := strconv.Atoi(p)
		if err != nil || parsed < 1 {
			fields["page"] = append(fields["page"], "must be a positive integer")
		} else {
			page = parsed
		}
	}

	limit := defaultLimit
	if l := query.Get("limit"); l != "" {
		parsed, err := strconv.Atoi(l)
		if err != nil || parsed < 1 || parsed > maxLimit {
			fields["limit"] = append(fields["limit"], "must be between 1 and 100")
		} else {
			limit = parsed
		}
	}

	var completed *bool
	if c := query.Get("completed"); c != "" {
		parsed, err := strconv.ParseBool(c)
		if err != nil {
			fields["completed"] = append(fields["completed"], "must be a boolean")
		} else {
			completed = &parsed
		}
	}

	if len(fields) > 0 {
		writeValidationError(w, fields)
		return
	}

	filter := repository.TaskFilter{
		OwnerID:   ident.UserID,
		Completed: completed,
		Limit:     limit,
		Offset:    (page - 1) * limit,
	}

	tasks, err := h.store.ListTasks(r.Context(), filter)
	if err != nil {
		h.handleStoreError(w, err)
		return
	}

	total, err := h.store.CountTasks(r.Context(), filter)
	if err != nil {
		h.handleStoreError(w, err)
		return
	}

	writeJSON(w, http.StatusOK, dto.ToTaskListResponse(tasks, total, page, limit))
}

// Create handles POST /tasks.
func (h *TaskHandler) Create(w http.ResponseWriter, r *http.Request, ident model.Identity) {
	var req dto.CreateTaskRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, "INVALID_JSON", "Invalid request body")
		return
	}

	if fields := dto.Validate(req); fields != nil {
		writeValidationError(w, fields)
		return
	}

	task := &model.Task{
		Title:     req.Title,
		Completed: false,
		UserID:    ident.UserID,
	}
	if err := h.store.CreateTask(r.Context(), task); err != nil {
		h.handleStoreError(w, err)
		return
	}

	h.metrics.IncTaskCreated()
	h.logger.Info("task_created", "task_id", task.ID, "user_id", ident.UserID)

	writeJSON(w, http.StatusCreated, dto.ToTaskResponse(task))
}

// Update handles PATCH /tasks/{id}. Absent fields keep their stored
// values; an empty object is a valid no-op update.
func (h *TaskHandler) Update(w http.ResponseWriter, r *http.Request, ident model.Identity) {
	id, ok := h.taskID(w, r)
	if !ok {
		return
	}

	var req dto.UpdateTaskRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, "INVALID_JSON", "Invalid request body")
		return
	}

	if fields := dto.Validate(req); fields != nil {
		writeValidationError(w, fields)
		return
	}

	task, err := h.store.GetTaskByOwner(r.Context(), id, ident.UserID)
	if err != nil {
		h.handleStoreError(w, err)
		return
	}

	if req.Title != nil {
		task.Title = *req.Title
	}
	if req.Completed != nil {
		task.Completed = *req.Completed
	}

	if err := h.store.UpdateTask(r.Context(), task); err != nil {
		h.handleStoreError(w, err)
		return
	}

	h.metrics.IncTaskUpdated()
	h.logger.Info("task_updated", "task_id", task.ID, "user_id", ident.UserID)

	writeJSON(w, http.StatusOK, dto.ToTaskResponse(task))
}

// Delete handles DELETE /tasks/{id}.
func (h *TaskHandler) Delete(w http.ResponseWriter, r *http.Request, ident model.Identity) {
	id, ok := h.taskID(w, r)
	if !ok {
		return
	}

	if err := h.store.DeleteTask(r.Context(), id, ident.UserID); err != nil {
		h.handleStoreError(w, err)
		return
	}

	h.metrics.IncTaskDeleted()
	h.logger.Info("task_deleted", "task_id", id, "user_id", ident.UserID)

	w.WriteHeader(http.StatusNoContent)
}

// taskID parses the {id} path parameter. A non-numeric id cannot match
// any task, so it gets the same 404 as a missing one.
func (h *TaskHandler) taskID(w http.ResponseWriter, r *http.Request) (int64, bool) {
	raw := chi.URLParam(r, "id")
	id, err := strconv.ParseInt(raw, 10, 64)
	if err != nil || id < 1 {
		writeError(w, http.StatusNotFound, "TASK_NOT_FOUND", "Task not found")
		return 0, false
	}
	return id, true
}

// handleStoreError maps persistence errors to HTTP responses.
func (h *TaskHandler) handleStoreError(w http.ResponseWriter, err error) {
	switch {
	case errors.Is(err, repository.ErrTaskNotFound):
		writeError(w, http.StatusNotFound, "TASK_NOT_FOUND", "Task not found")
	default:
		h.logger.Error("internal_error", "error", err)
		writeError(w, http.StatusInternalServerError, "INTERNAL_ERROR", "An internal error occurred")
	}
}
