package task

import (
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/taskvault/taskvault/internal/tasks/domain/value_objects"
)

func mustPriority(t *testing.T, level int) value_objects.Priority {
	t.Helper()
	p, err := value_objects.NewPriority(level)
	require.NoError(t, err)
	return p
}

func TestNewTask(t *testing.T) {
	userID := uuid.New()
	start := time.Date(2026, 8, 1, 9, 0, 0, 0, time.UTC)
	end := start.Add(4 * time.Hour)

	t.Run("creates a pending task", func(t *testing.T) {
		tk, err := NewTask(userID, "Write report", start, end, mustPriority(t, 3))

		require.NoError(t, err)
		assert.NotEqual(t, uuid.Nil, tk.ID())
		assert.Equal(t, userID, tk.UserID())
		assert.Equal(t, "Write report", tk.Title())
		assert.Equal(t, start, tk.StartTime())
		assert.Equal(t, end, tk.EndTime())
		assert.Equal(t, 3, tk.Priority().Level())
		assert.Equal(t, StatusPending, tk.Status())
		assert.True(t, tk.IsPending())
		assert.False(t, tk.IsFinished())
	})

	t.Run("trims the title", func(t *testing.T) {
		tk, err := NewTask(userID, "  Write report  ", start, end, mustPriority(t, 3))

		require.NoError(t, err)
		assert.Equal(t, "Write report", tk.Title())
	})

	t.Run("rejects empty title", func(t *testing.T) {
		_, err := NewTask(userID, "   ", start, end, mustPriority(t, 3))
		assert.ErrorIs(t, err, ErrEmptyTitle)
	})

	t.Run("rejects end before start", func(t *testing.T) {
		_, err := NewTask(userID, "Write report", end, start, mustPriority(t, 3))
		assert.ErrorIs(t, err, ErrInvalidSchedule)
	})

	t.Run("allows zero-duration schedule", func(t *testing.T) {
		tk, err := NewTask(userID, "Instant", start, start, mustPriority(t, 1))

		require.NoError(t, err)
		assert.Equal(t, time.Duration(0), tk.PlannedDuration())
	})

	t.Run("rejects invalid priority", func(t *testing.T) {
		_, err := NewTask(userID, "Write report", start, end, value_objects.Priority(0))
		assert.ErrorIs(t, err, value_objects.ErrInvalidPriority)
	})
}

func TestParseStatus(t *testing.T) {
	t.Run("parses known statuses", func(t *testing.T) {
		s, err := ParseStatus("pending")
		require.NoError(t, err)
		assert.Equal(t, StatusPending, s)

		s, err = ParseStatus("Finished")
		require.NoError(t, err)
		assert.Equal(t, StatusFinished, s)
	})

	t.Run("rejects unknown status", func(t *testing.T) {
		_, err := ParseStatus("done")
		assert.ErrorIs(t, err, ErrInvalidStatus)
	})
}

func TestTask_Mutations(t *testing.T) {
	userID := uuid.New()
	start := time.Date(2026, 8, 1, 9, 0, 0, 0, time.UTC)
	end := start.Add(2 * time.Hour)

	newTask := func(t *testing.T) *Task {
		t.Helper()
		tk, err := NewTask(userID, "Write report", start, end, mustPriority(t, 3))
		require.NoError(t, err)
		return tk
	}

	t.Run("SetTitle rejects empty title", func(t *testing.T) {
		tk := newTask(t)
		assert.ErrorIs(t, tk.SetTitle(""), ErrEmptyTitle)
		assert.Equal(t, "Write report", tk.Title())
	})

	t.Run("Reschedule keeps end after start", func(t *testing.T) {
		tk := newTask(t)
		err := tk.Reschedule(end, start)
		assert.ErrorIs(t, err, ErrInvalidSchedule)

		newStart := start.Add(time.Hour)
		newEnd := newStart.Add(3 * time.Hour)
		require.NoError(t, tk.Reschedule(newStart, newEnd))
		assert.Equal(t, newStart, tk.StartTime())
		assert.Equal(t, newEnd, tk.EndTime())
		assert.Equal(t, 3*time.Hour, tk.PlannedDuration())
	})

	t.Run("SetPriority validates the level", func(t *testing.T) {
		tk := newTask(t)
		assert.ErrorIs(t, tk.SetPriority(value_objects.Priority(9)), value_objects.ErrInvalidPriority)
		require.NoError(t, tk.SetPriority(mustPriority(t, 5)))
		assert.Equal(t, 5, tk.Priority().Level())
	})

	t.Run("Finish and Reopen are idempotent", func(t *testing.T) {
		tk := newTask(t)

		tk.Finish()
		assert.True(t, tk.IsFinished())
		tk.Finish()
		assert.True(t, tk.IsFinished())

		tk.Reopen()
		assert.True(t, tk.IsPending())
		tk.Reopen()
		assert.True(t, tk.IsPending())
	})
}

func TestRehydrate(t *testing.T) {
	id := uuid.New()
	userID := uuid.New()
	start := time.Date(2026, 8, 1, 9, 0, 0, 0, time.UTC)
	end := start.Add(time.Hour)
	createdAt := start.Add(-time.Hour)

	tk := Rehydrate(id, userID, "Restored", start, end, value_objects.Priority(2), StatusFinished, createdAt, createdAt)

	assert.Equal(t, id, tk.ID())
	assert.Equal(t, userID, tk.UserID())
	assert.Equal(t, "Restored", tk.Title())
	assert.Equal(t, StatusFinished, tk.Status())
	assert.Equal(t, createdAt, tk.CreatedAt())
}
