package commands

import (
	"context"
	"time"

	"github.com/google/uuid"

	"github.com/taskvault/taskvault/internal/tasks/domain/task"
	"github.com/taskvault/taskvault/internal/tasks/domain/value_objects"
)

// UpdateTaskCommand applies a partial field replacement to a task. Nil
// fields are left unchanged. The owner can never be changed.
type UpdateTaskCommand struct {
	TaskID    uuid.UUID
	UserID    uuid.UUID
	Title     *string
	StartTime *time.Time
	EndTime   *time.Time
	Priority  *int
	Status    *string
}

// UpdateTaskHandler handles the UpdateTaskCommand.
type UpdateTaskHandler struct {
	taskRepo task.Repository
}

// NewUpdateTaskHandler creates a new UpdateTaskHandler.
func NewUpdateTaskHandler(taskRepo task.Repository) *UpdateTaskHandler {
	return &UpdateTaskHandler{taskRepo: taskRepo}
}

// Handle loads the task owner-scoped, applies the patch, and saves it.
// A task owned by another user yields task.ErrTaskNotFound, same as a
// missing id.
func (h *UpdateTaskHandler) Handle(ctx context.Context, cmd UpdateTaskCommand) (*task.Task, error) {
	t, err := h.taskRepo.FindByID(ctx, cmd.TaskID, cmd.UserID)
	if err != nil {
		return nil, err
	}

	if cmd.Title != nil {
		if err := t.SetTitle(*cmd.Title); err != nil {
			return nil, err
		}
	}

	if cmd.StartTime != nil || cmd.EndTime != nil {
		start := t.StartTime()
		end := t.EndTime()
		if cmd.StartTime != nil {
			start = *cmd.StartTime
		}
		if cmd.EndTime != nil {
			end = *cmd.EndTime
		}
		if err := t.Reschedule(start, end); err != nil {
			return nil, err
		}
	}

	if cmd.Priority != nil {
		priority, err := value_objects.NewPriority(*cmd.Priority)
		if err != nil {
			return nil, err
		}
		if err := t.SetPriority(priority); err != nil {
			return nil, err
		}
	}

	if cmd.Status != nil {
		status, err := task.ParseStatus(*cmd.Status)
		if err != nil {
			return nil, err
		}
		switch status {
		case task.StatusFinished:
			t.Finish()
		case task.StatusPending:
			t.Reopen()
		}
	}

	if err := h.taskRepo.Save(ctx, t); err != nil {
		return nil, err
	}

	return t, nil
}
