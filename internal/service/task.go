package service

import (
	"context"
	"errors"
	"strings"

	"github.com/tasktrack/tasktrack-go/internal/model"
	"github.com/tasktrack/tasktrack-go/internal/repository"
)

var (
	ErrTitleRequired = errors.New("task title is required")
	ErrTitleTooLong  = errors.New("task title must be at most 255 characters")
	ErrStatusTooLong = errors.New("task status must be at most 64 characters")
	ErrTaskNotFound  = errors.New("task not found")
)

// TaskService handles task business logic. Tasks inherit their owner from
// the parent project.
type TaskService struct {
	projects ProjectStore
	tasks    TaskStore
}

// NewTaskService creates a new TaskService.
func NewTaskService(projects ProjectStore, tasks TaskStore) *TaskService {
	return &TaskService{projects: projects, tasks: tasks}
}

// Create adds a pending task to a project owned by caller.
func (s *TaskService) Create(ctx context.Context, caller model.Identity, projectID int64, req model.CreateTaskRequest) (*model.Task, error) {
	p, err := resolveProject(ctx, s.projects, projectID, caller)
	if err != nil {
		return nil, err
	}

	title := strings.TrimSpace(req.Title)
	description := strings.TrimSpace(req.Description)
	switch {
	case title == "":
		return nil, ErrTitleRequired
	case tooLong(title, maxTitleLength):
		return nil, ErrTitleTooLong
	case descriptionTooLong(description):
		return nil, ErrDescriptionTooLong
	}

	t := &model.Task{
		ProjectID:   p.ID,
		Title:       title,
		Description: description,
		Status:      model.TaskStatusPending,
	}
	if err := s.tasks.Create(ctx, t); err != nil {
		return nil, err
	}
	t.OwnerID = p.UserID

	return t, nil
}

// List returns the tasks of a project owned by caller.
func (s *TaskService) List(ctx context.Context, caller model.Identity, projectID int64) ([]model.Task, error) {
	p, err := resolveProject(ctx, s.projects, projectID, caller)
	if err != nil {
		return nil, err
	}

	return s.tasks.ListByProject(ctx, p.ID)
}

// Update applies the non-empty fields of req to a task whose project caller owns.
func (s *TaskService) Update(ctx context.Context, caller model.Identity, taskID int64, req model.UpdateTaskRequest) (*model.Task, error) {
	t, err := resolveTask(ctx, s.tasks, taskID, caller)
	if err != nil {
		return nil, err
	}

	switch {
	case patchTooLong(req.Title, maxTitleLength):
		return nil, ErrTitleTooLong
	case req.Description != nil && descriptionTooLong(strings.TrimSpace(*req.Description)):
		return nil, ErrDescriptionTooLong
	case patchTooLong(req.Status, maxStatusLength):
		return nil, ErrStatusTooLong
	}

	patchString(&t.Title, req.Title)
	patchString(&t.Description, req.Description)
	patchString(&t.Status, req.Status)

	if err := s.tasks.Update(ctx, t); err != nil {
		if errors.Is(err, repository.ErrTaskNotFound) {
			return nil, ErrTaskNotFound
		}
		return nil, err
	}

	return t, nil
}

// Delete removes a task whose project caller owns.
func (s *TaskService) Delete(ctx context.Context, caller model.Identity, taskID int64) error {
	if _, err := resolveTask(ctx, s.tasks, taskID, caller); err != nil {
		return err
	}

	err := s.tasks.Delete(ctx, taskID)
	if errors.Is(err, repository.ErrTaskNotFound) {
		return ErrTaskNotFound
	}
	return err
}
