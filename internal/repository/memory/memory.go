// Package memory provides map-backed implementations of the repositories.
// It is used when no database is configured and in tests.
package memory

import (
	"context"
	"sort"
	"strings"
	"sync"
	"time"

	"github.com/tasktrack/tasktrack-go/internal/model"
	"github.com/tasktrack/tasktrack-go/internal/repository"
)

// Store holds all records. Ids are sequential per table, starting at 1.
type Store struct {
	mu       sync.RWMutex
	users    map[int64]model.User
	projects map[int64]model.Project
	tasks    map[int64]model.Task
	lastID   struct{ user, project, task int64 }
}

// New returns an empty Store.
func New() *Store {
	return &Store{
		users:    make(map[int64]model.User),
		projects: make(map[int64]model.Project),
		tasks:    make(map[int64]model.Task),
	}
}

// Users returns the user repository view of the store.
func (s *Store) Users() *UserRepository { return &UserRepository{s: s} }

// Projects returns the project repository view of the store.
func (s *Store) Projects() *ProjectRepository { return &ProjectRepository{s: s} }

// Tasks returns the task repository view of the store.
func (s *Store) Tasks() *TaskRepository { return &TaskRepository{s: s} }

func now() time.Time {
	return time.Now().UTC().Truncate(time.Millisecond)
}

// UserRepository is the in-memory counterpart of repository.UserRepository.
type UserRepository struct{ s *Store }

// Create stores user and assigns its ID. Username and email are unique
// without regard to case.
func (r *UserRepository) Create(_ context.Context, user *model.User) error {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()

	for _, u := range r.s.users {
		if strings.EqualFold(u.Username, user.Username) || strings.EqualFold(u.Email, user.Email) {
			return repository.ErrDuplicateUser
		}
	}

	r.s.lastID.user++
	user.ID = r.s.lastID.user
	user.CreatedAt = now()
	r.s.users[user.ID] = *user
	return nil
}

// GetByEmail finds a user by email, ignoring case.
func (r *UserRepository) GetByEmail(_ context.Context, email string) (*model.User, error) {
	r.s.mu.RLock()
	defer r.s.mu.RUnlock()

	for _, u := range r.s.users {
		if strings.EqualFold(u.Email, email) {
			return &u, nil
		}
	}
	return nil, repository.ErrUserNotFound
}

// GetByID retrieves a user by ID.
func (r *UserRepository) GetByID(_ context.Context, id int64) (*model.User, error) {
	r.s.mu.RLock()
	defer r.s.mu.RUnlock()

	u, ok := r.s.users[id]
	if !ok {
		return nil, repository.ErrUserNotFound
	}
	return &u, nil
}

// ProjectRepository is the in-memory counterpart of repository.ProjectRepository.
type ProjectRepository struct{ s *Store }

// Create stores p and sets its ID and timestamps.
func (r *ProjectRepository) Create(_ context.Context, p *model.Project) error {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()

	r.s.lastID.project++
	ts := now()
	p.ID = r.s.lastID.project
	p.CreatedAt = ts
	p.UpdatedAt = ts
	r.s.projects[p.ID] = *p
	return nil
}

// GetByID retrieves a project by ID.
func (r *ProjectRepository) GetByID(_ context.Context, id int64) (*model.Project, error) {
	r.s.mu.RLock()
	defer r.s.mu.RUnlock()

	p, ok := r.s.projects[id]
	if !ok {
		return nil, repository.ErrProjectNotFound
	}
	return &p, nil
}

// ListByUser returns the projects of userID ordered by ID.
func (r *ProjectRepository) ListByUser(_ context.Context, userID int64) ([]model.Project, error) {
	r.s.mu.RLock()
	defer r.s.mu.RUnlock()

	projects := []model.Project{}
	for _, p := range r.s.projects {
		if p.UserID == userID {
			projects = append(projects, p)
		}
	}
	sort.Slice(projects, func(i, j int) bool { return projects[i].ID < projects[j].ID })
	return projects, nil
}

// Update persists the name and description of p and bumps UpdatedAt.
func (r *ProjectRepository) Update(_ context.Context, p *model.Project) error {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()

	stored, ok := r.s.projects[p.ID]
	if !ok {
		return repository.ErrProjectNotFound
	}
	stored.Name = p.Name
	stored.Description = p.Description
	stored.UpdatedAt = now()
	r.s.projects[p.ID] = stored

	p.UpdatedAt = stored.UpdatedAt
	return nil
}

// Delete removes the project. Its tasks are left in place.
func (r *ProjectRepository) Delete(_ context.Context, id int64) error {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()

	if _, ok := r.s.projects[id]; !ok {
		return repository.ErrProjectNotFound
	}
	delete(r.s.projects, id)
	return nil
}

// TaskRepository is the in-memory counterpart of repository.TaskRepository.
type TaskRepository struct{ s *Store }

// Create stores t and sets its ID and timestamps.
func (r *TaskRepository) Create(_ context.Context, t *model.Task) error {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()

	r.s.lastID.task++
	ts := now()
	t.ID = r.s.lastID.task
	t.CreatedAt = ts
	t.UpdatedAt = ts
	t.OwnerID = 0
	r.s.tasks[t.ID] = *t
	return nil
}

// GetByID mirrors the SQL join: OwnerID is the parent project's owner, or zero
// when the project is gone.
func (r *TaskRepository) GetByID(_ context.Context, id int64) (*model.Task, error) {
	r.s.mu.RLock()
	defer r.s.mu.RUnlock()

	t, ok := r.s.tasks[id]
	if !ok {
		return nil, repository.ErrTaskNotFound
	}
	if p, ok := r.s.projects[t.ProjectID]; ok {
		t.OwnerID = p.UserID
	}
	return &t, nil
}

// ListByProject returns the tasks of a project ordered by ID.
func (r *TaskRepository) ListByProject(_ context.Context, projectID int64) ([]model.Task, error) {
	r.s.mu.RLock()
	defer r.s.mu.RUnlock()

	tasks := []model.Task{}
	for _, t := range r.s.tasks {
		if t.ProjectID == projectID {
			tasks = append(tasks, t)
		}
	}
	sort.Slice(tasks, func(i, j int) bool { return tasks[i].ID < tasks[j].ID })
	return tasks, nil
}

// Update persists title, description and status of t and bumps UpdatedAt.
func (r *TaskRepository) Update(_ context.Context, t *model.Task) error {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()

	stored, ok := r.s.tasks[t.ID]
	if !ok {
		return repository.ErrTaskNotFound
	}
	stored.Title = t.Title
	stored.Description = t.Description
	stored.Status = t.Status
	stored.UpdatedAt = now()
	r.s.tasks[t.ID] = stored

	t.UpdatedAt = stored.UpdatedAt
	return nil
}

// Delete removes the task.
func (r *TaskRepository) Delete(_ context.Context, id int64) error {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()

	if _, ok := r.s.tasks[id]; !ok {
		return repository.ErrTaskNotFound
	}
	delete(r.s.tasks, id)
	return nil
}
