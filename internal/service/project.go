package service

import (
	"context"
	"errors"
	"strings"

	"github.com/tasktrack/tasktrack-go/internal/model"
	"github.com/tasktrack/tasktrack-go/internal/repository"
)

var (
	ErrNameRequired       = errors.New("project name is required")
	ErrNameTooLong        = errors.New("project name must be at most 255 characters")
	ErrDescriptionTooLong = errors.New("description must be at most 65535 bytes")
	ErrProjectNotFound    = errors.New("project not found")
)

// ProjectService handles project business logic. Every operation except
// Create and List goes through resolveProject.
type ProjectService struct {
	projects ProjectStore
}

// NewProjectService creates a new ProjectService.
func NewProjectService(projects ProjectStore) *ProjectService {
	return &ProjectService{projects: projects}
}

// Create creates a project owned by caller.
func (s *ProjectService) Create(ctx context.Context, caller model.Identity, req model.CreateProjectRequest) (*model.Project, error) {
	name := strings.TrimSpace(req.Name)
	description := strings.TrimSpace(req.Description)
	switch {
	case name == "":
		return nil, ErrNameRequired
	case tooLong(name, maxNameLength):
		return nil, ErrNameTooLong
	case descriptionTooLong(description):
		return nil, ErrDescriptionTooLong
	}

	p := &model.Project{
		UserID:      caller.ID,
		Name:        name,
		Description: description,
	}
	if err := s.projects.Create(ctx, p); err != nil {
		return nil, err
	}

	return p, nil
}

// List returns the caller's projects.
func (s *ProjectService) List(ctx context.Context, caller model.Identity) ([]model.Project, error) {
	return s.projects.ListByUser(ctx, caller.ID)
}

// Get returns a project owned by caller.
func (s *ProjectService) Get(ctx context.Context, caller model.Identity, id int64) (*model.Project, error) {
	return resolveProject(ctx, s.projects, id, caller)
}

// Update applies the non-empty fields of req to a project owned by caller.
func (s *ProjectService) Update(ctx context.Context, caller model.Identity, id int64, req model.UpdateProjectRequest) (*model.Project, error) {
	p, err := resolveProject(ctx, s.projects, id, caller)
	if err != nil {
		return nil, err
	}

	switch {
	case patchTooLong(req.Name, maxNameLength):
		return nil, ErrNameTooLong
	case req.Description != nil && descriptionTooLong(strings.TrimSpace(*req.Description)):
		return nil, ErrDescriptionTooLong
	}

	patchString(&p.Name, req.Name)
	patchString(&p.Description, req.Description)

	if err := s.projects.Update(ctx, p); err != nil {
		if errors.Is(err, repository.ErrProjectNotFound) {
			return nil, ErrProjectNotFound
		}
		return nil, err
	}

	return p, nil
}

// Delete removes a project owned by caller. Its tasks are not removed.
func (s *ProjectService) Delete(ctx context.Context, caller model.Identity, id int64) error {
	if _, err := resolveProject(ctx, s.projects, id, caller); err != nil {
		return err
	}

	err := s.projects.Delete(ctx, id)
	if errors.Is(err, repository.ErrProjectNotFound) {
		return ErrProjectNotFound
	}
	return err
}

// patchString overwrites dst with the trimmed value of v. A nil or blank v
// leaves dst unchanged, so a field cannot be cleared through an update.
func patchString(dst *string, v *string) {
	if v == nil {
		return
	}
	if trimmed := strings.TrimSpace(*v); trimmed != "" {
		*dst = trimmed
	}
}
