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

func TestPriorityBreakdownHandler_Handle(t *testing.T) {
	userID := uuid.New()
	now := time.Date(2026, 8, 28, 12, 0, 0, 0, time.UTC)

	t.Run("groups lapsed and remaining hours by priority", func(t *testing.T) {
		taskRepo := new(mockTaskRepo)
		handler := NewPriorityBreakdownHandler(taskRepo)
		handler.now = func() time.Time { return now }

		tasks := []*task.Task{
			// priority 3: started 3h ago, due in 1h
			buildTask(t, userID, now.Add(-3*time.Hour), now.Add(time.Hour), 3, false),
			// priority 3: started 1h ago, due in 2h
			buildTask(t, userID, now.Add(-time.Hour), now.Add(2*time.Hour), 3, false),
			// priority 5: started 30m ago, due in 30m
			buildTask(t, userID, now.Add(-30*time.Minute), now.Add(30*time.Minute), 5, false),
		}
		taskRepo.On("FindPending", mock.Anything, userID).Return(tasks, nil)

		result, err := handler.Handle(context.Background(), PriorityBreakdownQuery{UserID: userID})

		require.NoError(t, err)
		assert.InDelta(t, 4.0, result.TimeLapsedByPriority[3], 1e-9)
		assert.InDelta(t, 3.0, result.TimeToFinishByPriority[3], 1e-9)
		assert.InDelta(t, 0.5, result.TimeLapsedByPriority[5], 1e-9)
		assert.InDelta(t, 0.5, result.TimeToFinishByPriority[5], 1e-9)
	})

	t.Run("every priority level is present even when unused", func(t *testing.T) {
		taskRepo := new(mockTaskRepo)
		handler := NewPriorityBreakdownHandler(taskRepo)
		handler.now = func() time.Time { return now }

		tk := buildTask(t, userID, now.Add(-time.Hour), now.Add(time.Hour), 2, false)
		taskRepo.On("FindPending", mock.Anything, userID).Return([]*task.Task{tk}, nil)

		result, err := handler.Handle(context.Background(), PriorityBreakdownQuery{UserID: userID})

		require.NoError(t, err)
		for _, level := range []int{1, 2, 3, 4, 5} {
			assert.Contains(t, result.TimeLapsedByPriority, level)
			assert.Contains(t, result.TimeToFinishByPriority, level)
		}
		assert.Zero(t, result.TimeLapsedByPriority[1])
		assert.Zero(t, result.TimeToFinishByPriority[4])
	})

	t.Run("remaining time goes negative past the deadline", func(t *testing.T) {
		taskRepo := new(mockTaskRepo)
		handler := NewPriorityBreakdownHandler(taskRepo)
		handler.now = func() time.Time { return now }

		// overdue by 2h
		tk := buildTask(t, userID, now.Add(-4*time.Hour), now.Add(-2*time.Hour), 1, false)
		taskRepo.On("FindPending", mock.Anything, userID).Return([]*task.Task{tk}, nil)

		result, err := handler.Handle(context.Background(), PriorityBreakdownQuery{UserID: userID})

		require.NoError(t, err)
		assert.InDelta(t, 4.0, result.TimeLapsedByPriority[1], 1e-9)
		assert.InDelta(t, -2.0, result.TimeToFinishByPriority[1], 1e-9)
	})

	t.Run("no pending tasks yields zeroed maps for all levels", func(t *testing.T) {
		taskRepo := new(mockTaskRepo)
		handler := NewPriorityBreakdownHandler(taskRepo)

		taskRepo.On("FindPending", mock.Anything, userID).Return([]*task.Task{}, nil)

		result, err := handler.Handle(context.Background(), PriorityBreakdownQuery{UserID: userID})

		require.NoError(t, err)
		assert.Len(t, result.TimeLapsedByPriority, 5)
		assert.Len(t, result.TimeToFinishByPriority, 5)
		for _, hours := range result.TimeLapsedByPriority {
			assert.Zero(t, hours)
		}
	})
}
