package api

import (
	"context"
	"encoding/json"
	"log/slog"
	"net/http"
	"time"

	"github.com/google/uuid"

	"github.com/taskvault/taskvault/internal/shared/infrastructure/cache"
	"github.com/taskvault/taskvault/internal/tasks/application/commands"
	"github.com/taskvault/taskvault/internal/tasks/application/queries"
)

// TaskHandler handles task CRUD requests.
type TaskHandler struct {
	createTask *commands.CreateTaskHandler
	updateTask *commands.UpdateTaskHandler
	deleteTask *commands.DeleteTaskHandler
	listTasks  *queries.ListTasksHandler
	cache      cache.Cache
	logger     *slog.Logger
}

// TaskHandlerConfig holds dependencies for the task handler.
type TaskHandlerConfig struct {
	CreateTask *commands.CreateTaskHandler
	UpdateTask *commands.UpdateTaskHandler
	DeleteTask *commands.DeleteTaskHandler
	ListTasks  *queries.ListTasksHandler
	Cache      cache.Cache
	Logger     *slog.Logger
}

// NewTaskHandler creates a new task handler.
func NewTaskHandler(cfg TaskHandlerConfig) *TaskHandler {
	if cfg.Logger == nil {
		cfg.Logger = slog.Default()
	}
	if cfg.Cache == nil {
		cfg.Cache = cache.NewNoop()
	}
	return &TaskHandler{
		createTask: cfg.CreateTask,
		updateTask: cfg.UpdateTask,
		deleteTask: cfg.DeleteTask,
		listTasks:  cfg.ListTasks,
		cache:      cfg.Cache,
		logger:     cfg.Logger,
	}
}

type createTaskRequest struct {
	Title     string     `json:"title"`
	StartTime *time.Time `json:"startTime"`
	EndTime   *time.Time `json:"endTime"`
	Priority  *int       `json:"priority"`
	Status    string     `json:"status"`
}

// Create handles POST /api/tasks.
func (h *TaskHandler) Create(w http.ResponseWriter, r *http.Request) {
	userID, ok := UserIDFromContext(r.Context())
	if !ok {
		writeError(w, http.StatusUnauthorized, "Missing authentication")
		return
	}

	var req createTaskRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, "Invalid JSON body")
		return
	}

	if req.Title == "" || req.StartTime == nil || req.EndTime == nil || req.Priority == nil {
		writeError(w, http.StatusBadRequest, "Fields title, startTime, endTime, and priority are required")
		return
	}

	t, err := h.createTask.Handle(r.Context(), commands.CreateTaskCommand{
		UserID:    userID,
		Title:     req.Title,
		StartTime: *req.StartTime,
		EndTime:   *req.EndTime,
		Priority:  *req.Priority,
		Status:    req.Status,
	})
	if err != nil {
		writeDomainError(w, h.logger, err)
		return
	}

	h.invalidateStats(r.Context(), userID)
	writeJSON(w, http.StatusCreated, queries.ToDTO(t))
}

// List handles GET /api/tasks.
func (h *TaskHandler) List(w http.ResponseWriter, r *http.Request) {
	userID, ok := UserIDFromContext(r.Context())
	if !ok {
		writeError(w, http.StatusUnauthorized, "Missing authentication")
		return
	}

	tasks, err := h.listTasks.Handle(r.Context(), queries.ListTasksQuery{UserID: userID})
	if err != nil {
		writeDomainError(w, h.logger, err)
		return
	}

	writeJSON(w, http.StatusOK, tasks)
}

type updateTaskRequest struct {
	Title     *string    `json:"title"`
	StartTime *time.Time `json:"startTime"`
	EndTime   *time.Time `json:"endTime"`
	Priority  *int       `json:"priority"`
	Status    *string    `json:"status"`
}

// Update handles PATCH /api/tasks/{id}.
func (h *TaskHandler) Update(w http.ResponseWriter, r *http.Request) {
	userID, ok := UserIDFromContext(r.Context())
	if !ok {
		writeError(w, http.StatusUnauthorized, "Missing authentication")
		return
	}

	taskID, err := uuid.Parse(r.PathValue("id"))
	if err != nil {
		writeError(w, http.StatusNotFound, "Task not found")
		return
	}

	var req updateTaskRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, "Invalid JSON body")
		return
	}

	t, err := h.updateTask.Handle(r.Context(), commands.UpdateTaskCommand{
		TaskID:    taskID,
		UserID:    userID,
		Title:     req.Title,
		StartTime: req.StartTime,
		EndTime:   req.EndTime,
		Priority:  req.Priority,
		Status:    req.Status,
	})
	if err != nil {
		writeDomainError(w, h.logger, err)
		return
	}

	h.invalidateStats(r.Context(), userID)
	writeJSON(w, http.StatusOK, queries.ToDTO(t))
}

// Delete handles DELETE /api/tasks/{id}.
func (h *TaskHandler) Delete(w http.ResponseWriter, r *http.Request) {
	userID, ok := UserIDFromContext(r.Context())
	if !ok {
		writeError(w, http.StatusUnauthorized, "Missing authentication")
		return
	}

	taskID, err := uuid.Parse(r.PathValue("id"))
	if err != nil {
		writeError(w, http.StatusNotFound, "Task not found")
		return
	}

	err = h.deleteTask.Handle(r.Context(), commands.DeleteTaskCommand{
		TaskID: taskID,
		UserID: userID,
	})
	if err != nil {
		writeDomainError(w, h.logger, err)
		return
	}

	h.invalidateStats(r.Context(), userID)
	writeJSON(w, http.StatusOK, map[string]string{"message": "Task deleted successfully"})
}

// invalidateStats drops the user's cached statistics after a mutation.
// Cache failures are logged, never surfaced: the cache repopulates on the
// next statistics read.
func (h *TaskHandler) invalidateStats(ctx context.Context, userID uuid.UUID) {
	if err := h.cache.DeletePrefix(ctx, statsKeyPrefix(userID)); err != nil {
		h.logger.Warn("failed to invalidate statistics cache", "error", err)
	}
}
