package handler

import (
	"net/http"

	"github.com/tasktrack/tasktrack-go/internal/model"
	"github.com/tasktrack/tasktrack-go/internal/service"
)

const projectForbidden = "Not authorized for this project"

// ProjectHandler handles HTTP requests for project operations.
type ProjectHandler struct {
	service *service.ProjectService
}

// NewProjectHandler creates a new ProjectHandler.
func NewProjectHandler(svc *service.ProjectService) *ProjectHandler {
	return &ProjectHandler{service: svc}
}

// HandleCreate handles POST /api/projects requests.
func (h *ProjectHandler) HandleCreate(w http.ResponseWriter, r *http.Request) {
	caller, ok := callerFrom(w, r)
	if !ok {
		return
	}

	var req model.CreateProjectRequest
	if !decodeJSON(w, r, &req) {
		return
	}

	project, err := h.service.Create(r.Context(), caller, req)
	if err != nil {
		writeServiceError(w, r, err, projectForbidden)
		return
	}

	writeJSON(w, http.StatusCreated, project)
}

// HandleList handles GET /api/projects requests.
func (h *ProjectHandler) HandleList(w http.ResponseWriter, r *http.Request) {
	caller, ok := callerFrom(w, r)
	if !ok {
		return
	}

	projects, err := h.service.List(r.Context(), caller)
	if err != nil {
		writeInternalError(w, r, err)
		return
	}

	writeJSON(w, http.StatusOK, projects)
}

// HandleGet handles GET /api/projects/{id} requests.
func (h *ProjectHandler) HandleGet(w http.ResponseWriter, r *http.Request) {
	caller, ok := callerFrom(w, r)
	if !ok {
		return
	}

	id, ok := pathID(r, "id")
	if !ok {
		writeServiceError(w, r, service.ErrProjectNotFound, projectForbidden)
		return
	}

	project, err := h.service.Get(r.Context(), caller, id)
	if err != nil {
		writeServiceError(w, r, err, projectForbidden)
		return
	}

	writeJSON(w, http.StatusOK, project)
}

// HandleUpdate handles PUT /api/projects/{id} requests.
func (h *ProjectHandler) HandleUpdate(w http.ResponseWriter, r *http.Request) {
	caller, ok := callerFrom(w, r)
	if !ok {
		return
	}

	id, ok := pathID(r, "id")
	if !ok {
		writeServiceError(w, r, service.ErrProjectNotFound, projectForbidden)
		return
	}

	var req model.UpdateProjectRequest
	if !decodeJSON(w, r, &req) {
		return
	}

	project, err := h.service.Update(r.Context(), caller, id, req)
	if err != nil {
		writeServiceError(w, r, err, projectForbidden)
		return
	}

	writeJSON(w, http.StatusOK, project)
}

// HandleDelete handles DELETE /api/projects/{id} requests.
func (h *ProjectHandler) HandleDelete(w http.ResponseWriter, r *http.Request) {
	caller, ok := callerFrom(w, r)
	if !ok {
		return
	}

	id, ok := pathID(r, "id")
	if !ok {
		writeServiceError(w, r, service.ErrProjectNotFound, projectForbidden)
		return
	}

	if err := h.service.Delete(r.Context(), caller, id); err != nil {
		writeServiceError(w, r, err, projectForbidden)
		return
	}

	writeJSON(w, http.StatusOK, messageResponse("Project deleted successfully"))
}
