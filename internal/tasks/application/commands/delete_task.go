package commands

import (
	"context"

	"github.com/google/uuid"

	"github.com/taskvault/taskvault/internal/tasks/domain/task"
)

// DeleteTaskCommand removes a task owned by the given user.
type DeleteTaskCommand struct {
	TaskID uuid.UUID
	UserID uuid.UUID
}

// DeleteTaskHandler handles the DeleteTaskCommand.
type DeleteTaskHandler struct {
	taskRepo task.Repository
}

// NewDeleteTaskHandler creates a new DeleteTaskHandler.
func NewDeleteTaskHandler(taskRepo task.Repository) *DeleteTaskHandler {
	return &DeleteTaskHandler{taskRepo: taskRepo}
}

// Handle deletes the task. task.ErrTaskNotFound covers both an unknown id
// and an id owned by someone else.
func (h *DeleteTaskHandler) Handle(ctx context.Context, cmd DeleteTaskCommand) error {
	return h.taskRepo.Delete(ctx, cmd.TaskID, cmd.UserID)
}
