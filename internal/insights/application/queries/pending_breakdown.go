package queries

import (
	"context"
	"time"

	"github.com/google/uuid"

	"github.com/taskvault/taskvault/internal/tasks/domain/task"
)

// PendingBreakdownQuery contains the parameters for the pending-task
// aggregation.
type PendingBreakdownQuery struct {
	UserID uuid.UUID
}

// PendingBreakdownResult sums time metrics over the user's pending tasks.
// TotalTimeToEnd is the summed planned duration (end - start), not the
// time remaining until the deadline.
type PendingBreakdownResult struct {
	TotalPendingTasks int     `json:"totalPendingTasks"`
	TotalTimeLapsed   float64 `json:"totalTimeLapsed"`
	TotalTimeToEnd    float64 `json:"totalTimeToEnd"`
}

// PendingBreakdownHandler handles the PendingBreakdownQuery.
type PendingBreakdownHandler struct {
	taskRepo task.Repository
	now      func() time.Time
}

// NewPendingBreakdownHandler creates a new PendingBreakdownHandler.
func NewPendingBreakdownHandler(taskRepo task.Repository) *PendingBreakdownHandler {
	return &PendingBreakdownHandler{
		taskRepo: taskRepo,
		now:      time.Now,
	}
}

// Handle sums, over all pending tasks, the hours lapsed since each start
// and each task's planned duration. All sums are 0 with no pending tasks.
func (h *PendingBreakdownHandler) Handle(ctx context.Context, query PendingBreakdownQuery) (*PendingBreakdownResult, error) {
	pending, err := h.taskRepo.FindPending(ctx, query.UserID)
	if err != nil {
		return nil, err
	}

	now := h.now()
	result := &PendingBreakdownResult{TotalPendingTasks: len(pending)}

	for _, t := range pending {
		result.TotalTimeLapsed += hoursSince(t.StartTime(), now)
		result.TotalTimeToEnd += t.PlannedDuration().Hours()
	}

	return result, nil
}
