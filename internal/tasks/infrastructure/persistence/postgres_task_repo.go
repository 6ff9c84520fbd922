// Package persistence implements the tasks context repositories for both
// supported drivers.
package persistence

import (
	"context"
	"fmt"
	"time"

	"github.com/google/uuid"

	"github.com/taskvault/taskvault/internal/shared/infrastructure/database"
	"github.com/taskvault/taskvault/internal/tasks/domain/task"
	"github.com/taskvault/taskvault/internal/tasks/domain/value_objects"
)

// PostgresTaskRepository implements task.Repository using PostgreSQL.
type PostgresTaskRepository struct {
	conn database.Connection
}

// NewPostgresTaskRepository creates a new PostgreSQL task repository.
func NewPostgresTaskRepository(conn database.Connection) *PostgresTaskRepository {
	return &PostgresTaskRepository{conn: conn}
}

// taskRow represents a database row for tasks.
type taskRow struct {
	ID        uuid.UUID
	UserID    uuid.UUID
	Title     string
	StartTime time.Time
	EndTime   time.Time
	Priority  int
	Status    string
	CreatedAt time.Time
	UpdatedAt time.Time
}

// Save inserts the task or replaces its mutable fields. Concurrent updates
// to the same task are not coordinated: last write wins.
func (r *PostgresTaskRepository) Save(ctx context.Context, t *task.Task) error {
	query := `
		INSERT INTO tasks (
			id, user_id, title, start_time, end_time, priority, status,
			created_at, updated_at
		) VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9)
		ON CONFLICT (id) DO UPDATE SET
			title = EXCLUDED.title,
			start_time = EXCLUDED.start_time,
			end_time = EXCLUDED.end_time,
			priority = EXCLUDED.priority,
			status = EXCLUDED.status,
			updated_at = EXCLUDED.updated_at
	`

	_, err := r.conn.Exec(ctx, query,
		t.ID(),
		t.UserID(),
		t.Title(),
		t.StartTime(),
		t.EndTime(),
		t.Priority().Level(),
		t.Status().String(),
		t.CreatedAt(),
		t.UpdatedAt(),
	)
	return err
}

// FindByID retrieves a task by id, scoped to its owner.
func (r *PostgresTaskRepository) FindByID(ctx context.Context, id, userID uuid.UUID) (*task.Task, error) {
	query := `
		SELECT id, user_id, title, start_time, end_time, priority, status,
		       created_at, updated_at
		FROM tasks
		WHERE id = $1 AND user_id = $2
	`

	var row taskRow
	err := r.conn.QueryRow(ctx, query, id, userID).Scan(
		&row.ID,
		&row.UserID,
		&row.Title,
		&row.StartTime,
		&row.EndTime,
		&row.Priority,
		&row.Status,
		&row.CreatedAt,
		&row.UpdatedAt,
	)
	if err != nil {
		if database.IsNoRows(err) {
			return nil, task.ErrTaskNotFound
		}
		return nil, err
	}

	return rowToTask(row)
}

// FindByUserID retrieves all tasks for a user in insertion order.
func (r *PostgresTaskRepository) FindByUserID(ctx context.Context, userID uuid.UUID) ([]*task.Task, error) {
	query := `
		SELECT id, user_id, title, start_time, end_time, priority, status,
		       created_at, updated_at
		FROM tasks
		WHERE user_id = $1
		ORDER BY created_at
	`

	rows, err := r.conn.Query(ctx, query, userID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	return scanTasks(rows)
}

// FindPending retrieves the user's pending tasks in insertion order.
func (r *PostgresTaskRepository) FindPending(ctx context.Context, userID uuid.UUID) ([]*task.Task, error) {
	query := `
		SELECT id, user_id, title, start_time, end_time, priority, status,
		       created_at, updated_at
		FROM tasks
		WHERE user_id = $1 AND status = 'pending'
		ORDER BY created_at
	`

	rows, err := r.conn.Query(ctx, query, userID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	return scanTasks(rows)
}

// Delete removes a task only when both id and owner match.
func (r *PostgresTaskRepository) Delete(ctx context.Context, id, userID uuid.UUID) error {
	query := `DELETE FROM tasks WHERE id = $1 AND user_id = $2`
	result, err := r.conn.Exec(ctx, query, id, userID)
	if err != nil {
		return err
	}
	affected, err := result.RowsAffected()
	if err != nil {
		return err
	}
	if affected == 0 {
		return task.ErrTaskNotFound
	}
	return nil
}

func scanTasks(rows database.Rows) ([]*task.Task, error) {
	var tasks []*task.Task

	for rows.Next() {
		var row taskRow
		err := rows.Scan(
			&row.ID,
			&row.UserID,
			&row.Title,
			&row.StartTime,
			&row.EndTime,
			&row.Priority,
			&row.Status,
			&row.CreatedAt,
			&row.UpdatedAt,
		)
		if err != nil {
			return nil, err
		}

		t, err := rowToTask(row)
		if err != nil {
			return nil, err
		}
		tasks = append(tasks, t)
	}

	if err := rows.Err(); err != nil {
		return nil, err
	}

	return tasks, nil
}

func rowToTask(row taskRow) (*task.Task, error) {
	priority, err := value_objects.NewPriority(row.Priority)
	if err != nil {
		return nil, fmt.Errorf("invalid priority in database: %w", err)
	}

	status, err := task.ParseStatus(row.Status)
	if err != nil {
		return nil, fmt.Errorf("invalid status in database: %w", err)
	}

	return task.Rehydrate(
		row.ID,
		row.UserID,
		row.Title,
		row.StartTime,
		row.EndTime,
		priority,
		status,
		row.CreatedAt,
		row.UpdatedAt,
	), nil
}
