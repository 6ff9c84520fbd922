package commands

import (
	"context"
	"testing"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"

	"github.com/taskvault/taskvault/internal/tasks/domain/task"
)

func TestDeleteTaskHandler_Handle(t *testing.T) {
	userID := uuid.New()
	taskID := uuid.New()

	t.Run("deletes an owned task", func(t *testing.T) {
		taskRepo := new(mockTaskRepo)
		handler := NewDeleteTaskHandler(taskRepo)

		taskRepo.On("Delete", mock.Anything, taskID, userID).Return(nil)

		err := handler.Handle(context.Background(), DeleteTaskCommand{TaskID: taskID, UserID: userID})

		assert.NoError(t, err)
		taskRepo.AssertExpectations(t)
	})

	t.Run("missing and not-owned tasks are indistinguishable", func(t *testing.T) {
		taskRepo := new(mockTaskRepo)
		handler := NewDeleteTaskHandler(taskRepo)

		taskRepo.On("Delete", mock.Anything, taskID, userID).Return(task.ErrTaskNotFound)

		err := handler.Handle(context.Background(), DeleteTaskCommand{TaskID: taskID, UserID: userID})

		assert.ErrorIs(t, err, task.ErrTaskNotFound)
	})
}
