package queries

import (
	"context"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"

	"github.com/taskvault/taskvault/internal/tasks/domain/task"
)

func TestPendingBreakdownHandler_Handle(t *testing.T) {
	userID := uuid.New()
	now := time.Date(2026, 8, 28, 12, 0, 0, 0, time.UTC)

	t.Run("sums lapsed and planned hours over pending tasks", func(t *testing.T) {
		taskRepo := new(mockTaskRepo)
		handler := NewPendingBreakdownHandler(taskRepo)
		handler.now = func() time.Time { return now }

		// started 3h ago, due in 1h: lapsed 3h, planned span 4h
		tk := buildTask(t, userID, now.Add(-3*time.Hour), now.Add(time.Hour), 3, false)
		taskRepo.On("FindPending", mock.Anything, userID).Return([]*task.Task{tk}, nil)

		result, err := handler.Handle(context.Background(), PendingBreakdownQuery{UserID: userID})

		require.NoError(t, err)
		assert.Equal(t, 1, result.TotalPendingTasks)
		assert.InDelta(t, 3.0, result.TotalTimeLapsed, 1e-9)
		assert.InDelta(t, 4.0, result.TotalTimeToEnd, 1e-9)
	})

	t.Run("accumulates across multiple tasks", func(t *testing.T) {
		taskRepo := new(mockTaskRepo)
		handler := NewPendingBreakdownHandler(taskRepo)
		handler.now = func() time.Time { return now }

		tasks := []*task.Task{
			buildTask(t, userID, now.Add(-2*time.Hour), now.Add(2*time.Hour), 1, false),
			buildTask(t, userID, now.Add(-30*time.Minute), now.Add(90*time.Minute), 5, false),
		}
		taskRepo.On("FindPending", mock.Anything, userID).Return(tasks, nil)

		result, err := handler.Handle(context.Background(), PendingBreakdownQuery{UserID: userID})

		require.NoError(t, err)
		assert.Equal(t, 2, result.TotalPendingTasks)
		assert.InDelta(t, 2.5, result.TotalTimeLapsed, 1e-9)
		assert.InDelta(t, 6.0, result.TotalTimeToEnd, 1e-9)
	})

	t.Run("planned duration is counted even past the deadline", func(t *testing.T) {
		taskRepo := new(mockTaskRepo)
		handler := NewPendingBreakdownHandler(taskRepo)
		handler.now = func() time.Time { return now }

		// overdue: ended 1h ago but still pending
		tk := buildTask(t, userID, now.Add(-5*time.Hour), now.Add(-time.Hour), 2, false)
		taskRepo.On("FindPending", mock.Anything, userID).Return([]*task.Task{tk}, nil)

		result, err := handler.Handle(context.Background(), PendingBreakdownQuery{UserID: userID})

		require.NoError(t, err)
		assert.InDelta(t, 5.0, result.TotalTimeLapsed, 1e-9)
		assert.InDelta(t, 4.0, result.TotalTimeToEnd, 1e-9)
	})

	t.Run("no pending tasks yields zero sums", func(t *testing.T) {
		taskRepo := new(mockTaskRepo)
		handler := NewPendingBreakdownHandler(taskRepo)

		taskRepo.On("FindPending", mock.Anything, userID).Return([]*task.Task{}, nil)

		result, err := handler.Handle(context.Background(), PendingBreakdownQuery{UserID: userID})

		require.NoError(t, err)
		assert.Equal(t, 0, result.TotalPendingTasks)
		assert.Zero(t, result.TotalTimeLapsed)
		assert.Zero(t, result.TotalTimeToEnd)
	})
}
