package service

import (
	"context"
	"errors"

	"github.com/tasktrack/tasktrack-go/internal/model"
	"github.com/tasktrack/tasktrack-go/internal/repository"
)

// ErrForbidden is returned when the caller does not own the resource.
var ErrForbidden = errors.New("not authorized for this resource")

// authorizeProject fails with ErrForbidden unless caller owns p.
func authorizeProject(p *model.Project, caller model.Identity) error {
	if p.UserID != caller.ID {
		return ErrForbidden
	}
	return nil
}

// authorizeTask fails with ErrForbidden unless caller owns the task's project.
// The task must have been loaded with its OwnerID resolved.
func authorizeTask(t *model.Task, caller model.Identity) error {
	if t.OwnerID != caller.ID {
		return ErrForbidden
	}
	return nil
}

// resolveProject loads a project and then checks ownership, so a missing
// project is always reported as ErrProjectNotFound, never ErrForbidden.
func resolveProject(ctx context.Context, store ProjectStore, id int64, caller model.Identity) (*model.Project, error) {
	p, err := store.GetByID(ctx, id)
	if err != nil {
		if errors.Is(err, repository.ErrProjectNotFound) {
			return nil, ErrProjectNotFound
		}
		return nil, err
	}

	if err := authorizeProject(p, caller); err != nil {
		return nil, err
	}
	return p, nil
}

// resolveTask loads a task joined to its project owner, then checks ownership.
// A task whose project no longer exists is reported as not found.
func resolveTask(ctx context.Context, store TaskStore, id int64, caller model.Identity) (*model.Task, error) {
	t, err := store.GetByID(ctx, id)
	if err != nil {
		if errors.Is(err, repository.ErrTaskNotFound) {
			return nil, ErrTaskNotFound
		}
		return nil, err
	}
	if t.OwnerID == 0 {
		return nil, ErrTaskNotFound
	}

	if err := authorizeTask(t, caller); err != nil {
		return nil, err
	}
	return t, nil
}
