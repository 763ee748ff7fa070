package repository

import (
	"context"
	"errors"
	"fmt"

	"github.com/jackc/pgx/v5"

	"github.com/taskforge/taskforge/internal/model"
)

// ErrTaskNotFound is returned when a task does not exist or belongs to
// a different owner. The two cases are deliberately indistinguishable.
var ErrTaskNotFound = errors.New("task not found")

// TaskFilter defines filters for listing and counting tasks.
// OwnerID is mandatory: every query is scoped to one owner.
type TaskFilter struct {
	OwnerID   int64
	Completed *bool
	Limit     int
	Offset    int
}

// CreateTask inserts a new task and fills in the assigned ID and
// creation time.
func (r *Repository) CreateTask(ctx context.Context, task *model.Task) error {
	query := `
		INSERT INTO tasks (title, completed, user_id)
		VALUES ($1, $2, $3)
		RETURNING id, created_at
	`

	err := r.pool.QueryRow(ctx, query,
		task.Title,
		task.Completed,
		task.UserID,
	).Scan(&task.ID, &task.CreatedAt)

	if err != nil {
		return fmt.Errorf("failed to create task: %w", err)
	}

	return nil
}

// GetTaskByOwner retrieves a task by ID, scoped to its owner.
// A task owned by someone else is reported as not found.
func (r *Repository) GetTaskByOwner(ctx context.Context, id, ownerID int64) (*model.Task, error) {
	query := `
		SELECT id, title, completed, user_id, created_at
		FROM tasks
		WHERE id = $1 AND user_id = $2
	`

	task, err := scanTask(r.pool.QueryRow(ctx, query, id, ownerID))
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, ErrTaskNotFound
		}
		return nil, fmt.Errorf("failed to get task: %w", err)
	}

	return task, nil
}

// ListTasks retrieves the owner's tasks matching the filter, newest
// first, windowed by Limit/Offset.
func (r *Repository) ListTasks(ctx context.Context, filter TaskFilter) ([]*model.Task, error) {
	query := `
		SELECT id, title, completed, user_id, created_at
		FROM tasks
		WHERE user_id = $1
	`
	args := []any{filter.OwnerID}
	argIndex := 2

	if filter.Completed != nil {
		query += fmt.Sprintf(" AND completed = $%d", argIndex)
		args = append(args, *filter.Completed)
		argIndex++
	}

	query += fmt.Sprintf(" ORDER BY created_at DESC, id DESC LIMIT $%d OFFSET $%d", argIndex, argIndex+1)
	args = append(args, filter.Limit, filter.Offset)

	rows, err := r.pool.Query(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("failed to list tasks: %w", err)
	}
	defer rows.Close()

	tasks := make([]*model.Task, 0)
	for rows.Next() {
		task, err := scanTask(rows)
		if err != nil {
			return nil, fmt.Errorf("failed to scan task: %w", err)
		}
		tasks = append(tasks, task)
	}

	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("error iterating tasks: %w", err)
	}

	return tasks, nil
}

// CountTasks counts the owner's tasks matching the filter, ignoring
// Limit/Offset. Used for pagination metadata.
func (r *Repository) CountTasks(ctx context.Context, filter TaskFilter) (int64, error) {
	query := `SELECT COUNT(*) FROM tasks WHERE user_id = $1`
	args := []any{filter.OwnerID}

	if filter.Completed != nil {
		query += " AND completed = $2"
		args = append(args, *filter.Completed)
	}

	var total int64
	if err := r.pool.QueryRow(ctx, query, args...).Scan(&total); err != nil {
		return 0, fmt.Errorf("failed to count tasks: %w", err)
	}

	return total, nil
}

// UpdateTask updates a task's mutable fields. The owner check and the
// write are a single conditional statement, so a concurrent delete of
// the same row cannot interleave between check and mutation.
func (r *Repository) UpdateTask(ctx context.Context, task *model.Task) error {
	query := `
		UPDATE tasks
		SET title = $3, completed = $4
		WHERE id = $1 AND user_id = $2
	`

	result, err := r.pool.Exec(ctx, query,
		task.ID,
		task.UserID,
		task.Title,
		task.Completed,
	)

	if err != nil {
		return fmt.Errorf("failed to update task: %w", err)
	}

	if result.RowsAffected() == 0 {
		return ErrTaskNotFound
	}

	return nil
}

// DeleteTask removes a task, conditionally on its owner.
func (r *Repository) DeleteTask(ctx context.Context, id, ownerID int64) error {
	query := `DELETE FROM tasks WHERE id = $1 AND user_id = $2`

	result, err := r.pool.Exec(ctx, query, id, ownerID)
	if err != nil {
		return fmt.Errorf("failed to delete task: %w", err)
	}

	if result.RowsAffected() == 0 {
		return ErrTaskNotFound
	}

	return nil
}

// scanTask scans a single row into a Task model.
func scanTask(row pgx.Row) (*model.Task, error) {
	var task model.Task
	err := row.Scan(
		&task.ID,
		&task.Title,
		&task.Completed,
		&task.UserID,
		&task.CreatedAt,
	)
	return &task, err
}
