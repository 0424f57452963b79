package repository

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	"github.com/tasktrack/tasktrack-go/internal/model"
)

// TaskRepository handles task persistence operations.
type TaskRepository struct {
	db *sql.DB
}

// NewTaskRepository creates a new TaskRepository.
func NewTaskRepository(db *sql.DB) *TaskRepository {
	return &TaskRepository{db: db}
}

// Create inserts t and fills in its ID and timestamps.
func (r *TaskRepository) Create(ctx context.Context, t *model.Task) error {
	query := `INSERT INTO tasks (project_id, title, description, status, created_at, updated_at)
		VALUES (?, ?, ?, ?, ?, ?)`

	ts := now()
	result, err := r.db.ExecContext(ctx, query, t.ProjectID, t.Title, t.Description, t.Status, ts, ts)
	if err != nil {
		return fmt.Errorf("inserting task: %w", err)
	}

	id, err := result.LastInsertId()
	if err != nil {
		return fmt.Errorf("reading task id: %w", err)
	}

	t.ID = id
	t.CreatedAt = ts
	t.UpdatedAt = ts
	return nil
}

// GetByID retrieves a task joined to its parent project so that OwnerID holds
// the project owner. OwnerID is zero when the project has been deleted.
func (r *TaskRepository) GetByID(ctx context.Context, id int64) (*model.Task, error) {
	query := `SELECT t.id, t.project_id, t.title, t.description, t.status, t.created_at, t.updated_at,
			COALESCE(p.user_id, 0)
		FROM tasks t LEFT JOIN projects p ON p.id = t.project_id
		WHERE t.id = ?`

	t := &model.Task{}
	err := r.db.QueryRowContext(ctx, query, id).Scan(
		&t.ID, &t.ProjectID, &t.Title, &t.Description, &t.Status, &t.CreatedAt, &t.UpdatedAt, &t.OwnerID,
	)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, ErrTaskNotFound
		}
		return nil, fmt.Errorf("querying task: %w", err)
	}

	return t, nil
}

// ListByProject retrieves every task of a project, oldest first.
func (r *TaskRepository) ListByProject(ctx context.Context, projectID int64) ([]model.Task, error) {
	query := `SELECT id, project_id, title, description, status, created_at, updated_at
		FROM tasks WHERE project_id = ? ORDER BY id ASC`

	rows, err := r.db.QueryContext(ctx, query, projectID)
	if err != nil {
		return nil, fmt.Errorf("querying tasks: %w", err)
	}
	defer rows.Close()

	tasks := []model.Task{}
	for rows.Next() {
		var t model.Task
		if err := rows.Scan(&t.ID, &t.ProjectID, &t.Title, &t.Description, &t.Status, &t.CreatedAt, &t.UpdatedAt); err != nil {
			return nil, fmt.Errorf("scanning task: %w", err)
		}
		tasks = append(tasks, t)
	}

	return tasks, rows.Err()
}

// Update persists title, description and status of t and bumps UpdatedAt.
func (r *TaskRepository) Update(ctx context.Context, t *model.Task) error {
	query := `UPDATE tasks SET title = ?, description = ?, status = ?, updated_at = ? WHERE id = ?`

	ts := now()
	result, err := r.db.ExecContext(ctx, query, t.Title, t.Description, t.Status, ts, t.ID)
	if err != nil {
		return fmt.Errorf("updating task: %w", err)
	}

	n, err := result.RowsAffected()
	if err != nil {
		return fmt.Errorf("reading affected rows: %w", err)
	}
	if n == 0 {
		return ErrTaskNotFound
	}

	t.UpdatedAt = ts
	return nil
}

// Delete removes the task.
func (r *TaskRepository) Delete(ctx context.Context, id int64) error {
	result, err := r.db.ExecContext(ctx, `DELETE FROM tasks WHERE id = ?`, id)
	if err != nil {
		return fmt.Errorf("deleting task: %w", err)
	}

	n, err := result.RowsAffected()
	if err != nil {
		return fmt.Errorf("reading affected rows: %w", err)
	}
	if n == 0 {
		return ErrTaskNotFound
	}

	return nil
}
