// Package commands implements the task mutations, one handler per operation.
package commands

import (
	"context"
	"time"

	"github.com/google/uuid"

	"github.com/taskvault/taskvault/internal/tasks/domain/task"
	"github.com/taskvault/taskvault/internal/tasks/domain/value_objects"
)

// CreateTaskCommand contains the data needed to create a task.
type CreateTaskCommand struct {
	UserID    uuid.UUID
	Title     string
	StartTime time.Time
	EndTime   time.Time
	Priority  int
	Status    string // optional, defaults to pending
}

// CreateTaskHandler handles the CreateTaskCommand.
type CreateTaskHandler struct {
	taskRepo task.Repository
}

// NewCreateTaskHandler creates a new CreateTaskHandler.
func NewCreateTaskHandler(taskRepo task.Repository) *CreateTaskHandler {
	return &CreateTaskHandler{taskRepo: taskRepo}
}

// Handle validates the command, persists the task, and returns it.
func (h *CreateTaskHandler) Handle(ctx context.Context, cmd CreateTaskCommand) (*task.Task, error) {
	priority, err := value_objects.NewPriority(cmd.Priority)
	if err != nil {
		return nil, err
	}

	t, err := task.NewTask(cmd.UserID, cmd.Title, cmd.StartTime, cmd.EndTime, priority)
	if err != nil {
		return nil, err
	}

	if cmd.Status != "" {
		status, err := task.ParseStatus(cmd.Status)
		if err != nil {
			return nil, err
		}
		if status == task.StatusFinished {
			t.Finish()
		}
	}

	if err := h.taskRepo.Save(ctx, t); err != nil {
		return nil, err
	}

	return t, nil
}
