package service

import (
	"context"

	"github.com/tasktrack/tasktrack-go/internal/model"
)

// UserStore persists user accounts. Implementations return
// repository.ErrUserNotFound and repository.ErrDuplicateUser.
type UserStore interface {
	Create(ctx context.Context, user *model.User) error
	GetByEmail(ctx context.Context, email string) (*model.User, error)
	GetByID(ctx context.Context, id int64) (*model.User, error)
}

// ProjectStore persists projects. Implementations return repository.ErrProjectNotFound.
type ProjectStore interface {
	Create(ctx context.Context, p *model.Project) error
	GetByID(ctx context.Context, id int64) (*model.Project, error)
	ListByUser(ctx context.Context, userID int64) ([]model.Project, error)
	Update(ctx context.Context, p *model.Project) error
	Delete(ctx context.Context, id int64) error
}

// TaskStore persists tasks. GetByID must fill Task.OwnerID from the parent
// project. Implementations return repository.ErrTaskNotFound.
type TaskStore interface {
	Create(ctx context.Context, t *model.Task) error
	GetByID(ctx context.Context, id int64) (*model.Task, error)
	ListByProject(ctx context.Context, projectID int64) ([]model.Task, error)
	Update(ctx context.Context, t *model.Task) error
	Delete(ctx context.Context, id int64) error
}
