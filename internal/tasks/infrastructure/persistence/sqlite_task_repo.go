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

// sqliteTimeLayout is RFC 3339 with fixed-width nanoseconds. RFC3339Nano
// trims trailing zeros, which breaks the lexicographic ordering ORDER BY
// relies on for sub-second values.
const sqliteTimeLayout = "2006-01-02T15:04:05.000000000Z07:00"

// SQLiteTaskRepository implements task.Repository using SQLite.
// Timestamps are stored as fixed-width RFC 3339 strings, ids as their
// text form.
type SQLiteTaskRepository struct {
	conn database.Connection
}

// NewSQLiteTaskRepository creates a new SQLite task repository.
func NewSQLiteTaskRepository(conn database.Connection) *SQLiteTaskRepository {
	return &SQLiteTaskRepository{conn: conn}
}

// sqliteTaskRow holds the raw column values before decoding.
type sqliteTaskRow struct {
	ID        string
	UserID    string
	Title     string
	StartTime string
	EndTime   string
	Priority  int
	Status    string
	CreatedAt string
	UpdatedAt string
}

// Save inserts the task or replaces its mutable fields. Last write wins on
// concurrent updates.
func (r *SQLiteTaskRepository) Save(ctx context.Context, t *task.Task) error {
	query := `
		INSERT INTO tasks (
			id, user_id, title, start_time, end_time, priority, status,
			created_at, updated_at
		) VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?)
		ON CONFLICT (id) DO UPDATE SET
			title = excluded.title,
			start_time = excluded.start_time,
			end_time = excluded.end_time,
			priority = excluded.priority,
			status = excluded.status,
			updated_at = excluded.updated_at
	`

	_, err := r.conn.Exec(ctx, query,
		t.ID().String(),
		t.UserID().String(),
		t.Title(),
		t.StartTime().Format(sqliteTimeLayout),
		t.EndTime().Format(sqliteTimeLayout),
		t.Priority().Level(),
		t.Status().String(),
		t.CreatedAt().Format(sqliteTimeLayout),
		t.UpdatedAt().Format(sqliteTimeLayout),
	)
	return err
}

// FindByID retrieves a task by id, scoped to its owner.
func (r *SQLiteTaskRepository) FindByID(ctx context.Context, id, userID uuid.UUID) (*task.Task, error) {
	query := `
		SELECT id, user_id, title, start_time, end_time, priority, status,
		       created_at, updated_at
		FROM tasks
		WHERE id = ? AND user_id = ?
	`

	var row sqliteTaskRow
	err := r.conn.QueryRow(ctx, query, id.String(), userID.String()).Scan(
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

	return sqliteRowToTask(row)
}

// FindByUserID retrieves all tasks for a user in insertion order.
func (r *SQLiteTaskRepository) FindByUserID(ctx context.Context, userID uuid.UUID) ([]*task.Task, error) {
	query := `
		SELECT id, user_id, title, start_time, end_time, priority, status,
		       created_at, updated_at
		FROM tasks
		WHERE user_id = ?
		ORDER BY created_at
	`
	return r.queryTasks(ctx, query, userID.String())
}

// FindPending retrieves the user's pending tasks in insertion order.
func (r *SQLiteTaskRepository) FindPending(ctx context.Context, userID uuid.UUID) ([]*task.Task, error) {
	query := `
		SELECT id, user_id, title, start_time, end_time, priority, status,
		       created_at, updated_at
		FROM tasks
		WHERE user_id = ? AND status = 'pending'
		ORDER BY created_at
	`
	return r.queryTasks(ctx, query, userID.String())
}

// Delete removes a task only when both id and owner match.
func (r *SQLiteTaskRepository) Delete(ctx context.Context, id, userID uuid.UUID) error {
	query := `DELETE FROM tasks WHERE id = ? AND user_id = ?`
	result, err := r.conn.Exec(ctx, query, id.String(), userID.String())
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

func (r *SQLiteTaskRepository) queryTasks(ctx context.Context, query string, args ...any) ([]*task.Task, error) {
	rows, err := r.conn.Query(ctx, query, args...)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var tasks []*task.Task
	for rows.Next() {
		var row sqliteTaskRow
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

		t, err := sqliteRowToTask(row)
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

func sqliteRowToTask(row sqliteTaskRow) (*task.Task, error) {
	id, err := uuid.Parse(row.ID)
	if err != nil {
		return nil, fmt.Errorf("invalid task id in database: %w", err)
	}
	userID, err := uuid.Parse(row.UserID)
	if err != nil {
		return nil, fmt.Errorf("invalid user id in database: %w", err)
	}

	startTime, err := time.Parse(time.RFC3339Nano, row.StartTime)
	if err != nil {
		return nil, fmt.Errorf("invalid start time in database: %w", err)
	}
	endTime, err := time.Parse(time.RFC3339Nano, row.EndTime)
	if err != nil {
		return nil, fmt.Errorf("invalid end time in database: %w", err)
	}
	createdAt, err := time.Parse(time.RFC3339Nano, row.CreatedAt)
	if err != nil {
		return nil, fmt.Errorf("invalid created_at in database: %w", err)
	}
	updatedAt, err := time.Parse(time.RFC3339Nano, row.UpdatedAt)
	if err != nil {
		return nil, fmt.Errorf("invalid updated_at in database: %w", err)
	}

	priority, err := value_objects.NewPriority(row.Priority)
	if err != nil {
		return nil, fmt.Errorf("invalid priority in database: %w", err)
	}

	status, err := task.ParseStatus(row.Status)
	if err != nil {
		return nil, fmt.Errorf("invalid status in database: %w", err)
	}

	return task.Rehydrate(id, userID, row.Title, startTime, endTime, priority, status, createdAt, updatedAt), nil
}
