package handler

import (
	"net/http"

	"github.com/tasktrack/tasktrack-go/internal/model"
	"github.com/tasktrack/tasktrack-go/internal/service"
)

const (
	projectTasksForbidden = "Not authorized for this project"
	taskForbidden         = "Not authorized for this task"
)

// TaskHandler handles HTTP requests for task operations.
type TaskHandler struct {
	service *service.TaskService
}

// NewTaskHandler creates a new TaskHandler.
func NewTaskHandler(svc *service.TaskService) *TaskHandler {
	return &TaskHandler{service: svc}
}

// HandleCreate handles POST /api/projects/{id}/tasks requests.
func (h *TaskHandler) HandleCreate(w http.ResponseWriter, r *http.Request) {
	caller, ok := callerFrom(w, r)
	if !ok {
		return
	}

	projectID, ok := pathID(r, "id")
	if !ok {
		writeServiceError(w, r, service.ErrProjectNotFound, projectTasksForbidden)
		return
	}

	var req model.CreateTaskRequest
	if !decodeJSON(w, r, &req) {
		return
	}

	task, err := h.service.Create(r.Context(), caller, projectID, req)
	if err != nil {
		writeServiceError(w, r, err, projectTasksForbidden)
		return
	}

	writeJSON(w, http.StatusCreated, task)
}

// HandleList handles GET /api/projects/{id}/tasks requests.
func (h *TaskHandler) HandleList(w http.ResponseWriter, r *http.Request) {
	caller, ok := callerFrom(w, r)
	if !ok {
		return
	}

	projectID, ok := pathID(r, "id")
	if !ok {
		writeServiceError(w, r, service.ErrProjectNotFound, projectTasksForbidden)
		return
	}

	tasks, err := h.service.List(r.Context(), caller, projectID)
	if err != nil {
		writeServiceError(w, r, err, projectTasksForbidden)
		return
	}

	writeJSON(w, http.StatusOK, tasks)
}

// HandleUpdate handles PUT /api/projects/tasks/{taskID} requests.
func (h *TaskHandler) HandleUpdate(w http.ResponseWriter, r *http.Request) {
	caller, ok := callerFrom(w, r)
	if !ok {
		return
	}

	taskID, ok := pathID(r, "taskID")
	if !ok {
		writeServiceError(w, r, service.ErrTaskNotFound, taskForbidden)
		return
	}

	var req model.UpdateTaskRequest
	if !decodeJSON(w, r, &req) {
		return
	}

	task, err := h.service.Update(r.Context(), caller, taskID, req)
	if err != nil {
		writeServiceError(w, r, err, taskForbidden)
		return
	}

	writeJSON(w, http.StatusOK, task)
}

// HandleDelete handles DELETE /api/projects/tasks/{taskID} requests.
func (h *TaskHandler) HandleDelete(w http.ResponseWriter, r *http.Request) {
	caller, ok := callerFrom(w, r)
	if !ok {
		return
	}

	taskID, ok := pathID(r, "taskID")
	if !ok {
		writeServiceError(w, r, service.ErrTaskNotFound, taskForbidden)
		return
	}

	if err := h.service.Delete(r.Context(), caller, taskID); err != nil {
		writeServiceError(w, r, err, taskForbidden)
		return
	}

	writeJSON(w, http.StatusOK, messageResponse("Task deleted successfully"))
}
