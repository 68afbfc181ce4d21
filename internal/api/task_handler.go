package api

import (
	"log/slog"
	"net/http"
	"net/url"
	"strconv"

	"github.com/phrazzld/tasks-api/internal/api/shared"
	"github.com/phrazzld/tasks-api/internal/domain"
	"github.com/phrazzld/tasks-api/internal/platform/logger"
	"github.com/phrazzld/tasks-api/internal/service"
)

// TaskHandler handles the /tasks endpoints. Every operation is scoped to
// the authenticated user; other users' tasks are reported as not found.
type TaskHandler struct {
	taskService  service.TaskService
	maxBodyBytes int64
	logger       *slog.Logger
}

// NewTaskHandler creates a TaskHandler.
func NewTaskHandler(taskService service.TaskService, maxBodyBytes int64, logger *slog.Logger) *TaskHandler {
	if logger == nil {
		// ALLOW-PANIC: Constructor enforcing required dependency
		panic("logger cannot be nil for TaskHandler")
	}
	return &TaskHandler{
		taskService:  taskService,
		maxBodyBytes: maxBodyBytes,
		logger:       logger.With(slog.String("component", "task_handler")),
	}
}

// CreateTask handles POST /tasks.
func (h *TaskHandler) CreateTask(w http.ResponseWriter, r *http.Request) {
	log := logger.FromContextOrDefault(r.Context(), h.logger)

	userID, ok := handleUserIDFromContext(w, r, log)
	if !ok {
		return
	}

	var req CreateTaskRequest
	if !parseAndValidateRequest(w, r, &req, h.maxBodyBytes) {
		return
	}

	task, err := h.taskService.Create(r.Context(), userID, *req.Title)
	if err != nil {
		HandleAPIError(w, r, err, "")
		return
	}

	log.Debug("task created", slog.String("task_id", task.ID.String()))
	shared.RespondWithJSON(w, r, http.StatusCreated, taskToResponse(task))
}

// ListTasks handles GET /tasks. Query parameters that fail to parse are
// ignored and the defaults apply.
func (h *TaskHandler) ListTasks(w http.ResponseWriter, r *http.Request) {
	userID, ok := handleUserIDFromContext(w, r, nil)
	if !ok {
		return
	}

	page, err := h.taskService.List(r.Context(), userID, parseTaskQuery(r.URL.Query()))
	if err != nil {
		HandleAPIError(w, r, err, "")
		return
	}

	shared.RespondWithJSON(w, r, http.StatusOK, PaginatedTasksResponse{
		Data:       tasksToResponse(page.Data),
		Pagination: page.Pagination,
	})
}

// ListAllTasks handles GET /tasks/all, the unpaginated listing ordered by
// creation time, newest first.
func (h *TaskHandler) ListAllTasks(w http.ResponseWriter, r *http.Request) {
	userID, ok := handleUserIDFromContext(w, r, nil)
	if !ok {
		return
	}

	tasks, err := h.taskService.ListAll(r.Context(), userID)
	if err != nil {
		HandleAPIError(w, r, err, "")
		return
	}

	shared.RespondWithJSON(w, r, http.StatusOK, tasksToResponse(tasks))
}

// GetTask handles GET /tasks/{id}.
func (h *TaskHandler) GetTask(w http.ResponseWriter, r *http.Request) {
	userID, taskID, ok := handleUserIDAndPathUUID(w, r, "id", nil)
	if !ok {
		return
	}

	task, err := h.taskService.Get(r.Context(), userID, taskID)
	if err != nil {
		HandleAPIError(w, r, err, "")
		return
	}

	shared.RespondWithJSON(w, r, http.StatusOK, taskToResponse(task))
}

// UpdateTask handles PUT /tasks/{id}. Only supplied fields change; a body
// with neither title nor completed is rejected with 422.
func (h *TaskHandler) UpdateTask(w http.ResponseWriter, r *http.Request) {
	log := logger.FromContextOrDefault(r.Context(), h.logger)

	userID, taskID, ok := handleUserIDAndPathUUID(w, r, "id", log)
	if !ok {
		return
	}

	var req UpdateTaskRequest
	if !parseAndValidateRequest(w, r, &req, h.maxBodyBytes) {
		return
	}

	task, err := h.taskService.Update(r.Context(), userID, taskID, req.Patch())
	if err != nil {
		HandleAPIError(w, r, err, "")
		return
	}

	log.Debug("task updated", slog.String("task_id", task.ID.String()))
	shared.RespondWithJSON(w, r, http.StatusOK, taskToResponse(task))
}

// DeleteTask handles DELETE /tasks/{id}. Deleting a task that no longer
// exists is a 404.
func (h *TaskHandler) DeleteTask(w http.ResponseWriter, r *http.Request) {
	userID, taskID, ok := handleUserIDAndPathUUID(w, r, "id", nil)
	if !ok {
		return
	}

	if err := h.taskService.Delete(r.Context(), userID, taskID); err != nil {
		HandleAPIError(w, r, err, "")
		return
	}

	w.WriteHeader(http.StatusNoContent)
}

// parseTaskQuery reads the listing parameters. Clamping and defaults are
// applied by domain.TaskQuery.Normalize in the service.
func parseTaskQuery(values url.Values) domain.TaskQuery {
	return domain.TaskQuery{
		Page:      parseIntParam(values, "page"),
		PageSize:  parseIntParam(values, "page_size"),
		SortBy:    domain.SortField(values.Get("sort_by")),
		SortOrder: domain.SortOrder(values.Get("sort_order")),
		Filter: domain.TaskFilter{
			Search: values.Get("q"),
			Status: domain.StatusFilter(values.Get("status")),
		},
	}
}

// parseIntParam returns 0, which Normalize treats as unset, for missing,
// malformed or out-of-range values. Values are limited to 32 bits so the
// row offset cannot overflow.
func parseIntParam(values url.Values, key string) int {
	n, err := strconv.ParseInt(values.Get(key), 10, 32)
	if err != nil {
		return 0
	}
	return int(n)
}

// Health handles GET /health. It does not touch the database.
func Health(w http.ResponseWriter, r *http.Request) {
	shared.RespondWithJSON(w, r, http.StatusOK, HealthResponse{Status: "ok"})
}
