// Package queries implements the read side of the tasks context.
package queries

import (
	"context"
	"time"

	"github.com/google/uuid"

	"github.com/taskvault/taskvault/internal/tasks/domain/task"
)

// TaskDTO is the serializable representation of a task.
type TaskDTO struct {
	ID        uuid.UUID `json:"id"`
	UserID    uuid.UUID `json:"userId"`
	Title     string    `json:"title"`
	StartTime time.Time `json:"startTime"`
	EndTime   time.Time `json:"endTime"`
	Priority  int       `json:"priority"`
	Status    string    `json:"status"`
	CreatedAt time.Time `json:"createdAt"`
	UpdatedAt time.Time `json:"updatedAt"`
}

// ToDTO converts a task aggregate to its DTO form.
func ToDTO(t *task.Task) TaskDTO {
	return TaskDTO{
		ID:        t.ID(),
		UserID:    t.UserID(),
		Title:     t.Title(),
		StartTime: t.StartTime(),
		EndTime:   t.EndTime(),
		Priority:  t.Priority().Level(),
		Status:    t.Status().String(),
		CreatedAt: t.CreatedAt(),
		UpdatedAt: t.UpdatedAt(),
	}
}

// ListTasksQuery contains the parameters for listing tasks.
type ListTasksQuery struct {
	UserID uuid.UUID
}

// ListTasksHandler handles the ListTasksQuery.
type ListTasksHandler struct {
	taskRepo task.Repository
}

// NewListTasksHandler creates a new ListTasksHandler.
func NewListTasksHandler(taskRepo task.Repository) *ListTasksHandler {
	return &ListTasksHandler{taskRepo: taskRepo}
}

// Handle returns all tasks owned by the user. An empty slice, not an
// error, when the user has none.
func (h *ListTasksHandler) Handle(ctx context.Context, query ListTasksQuery) ([]TaskDTO, error) {
	tasks, err := h.taskRepo.FindByUserID(ctx, query.UserID)
	if err != nil {
		return nil, err
	}

	dtos := make([]TaskDTO, len(tasks))
	for i, t := range tasks {
		dtos[i] = ToDTO(t)
	}
	return dtos, nil
}
