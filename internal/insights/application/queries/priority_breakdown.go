package queries

import (
	"context"
	"time"

	"github.com/google/uuid"

	"github.com/taskvault/taskvault/internal/tasks/domain/task"
	"github.com/taskvault/taskvault/internal/tasks/domain/value_objects"
)

// PriorityBreakdownQuery contains the parameters for the per-priority
// pending-task aggregation.
type PriorityBreakdownQuery struct {
	UserID uuid.UUID
}

// PriorityBreakdownResult maps each priority level [1..5] to accumulated
// hours. Unlike PendingBreakdownResult.TotalTimeToEnd, the
// TimeToFinishByPriority metric measures remaining time to the deadline
// (end - now). The two aggregations are intentionally distinct.
type PriorityBreakdownResult struct {
	TimeLapsedByPriority   map[int]float64 `json:"timeLapsedByPriority"`
	TimeToFinishByPriority map[int]float64 `json:"timeToFinishByPriority"`
}

// PriorityBreakdownHandler handles the PriorityBreakdownQuery.
type PriorityBreakdownHandler struct {
	taskRepo task.Repository
	now      func() time.Time
}

// NewPriorityBreakdownHandler creates a new PriorityBreakdownHandler.
func NewPriorityBreakdownHandler(taskRepo task.Repository) *PriorityBreakdownHandler {
	return &PriorityBreakdownHandler{
		taskRepo: taskRepo,
		now:      time.Now,
	}
}

// Handle accumulates, per priority level, the hours lapsed since each
// pending task's start and the hours remaining to each deadline. Every
// level [1..5] is present in both maps, zero-valued when no pending task
// carries it.
func (h *PriorityBreakdownHandler) Handle(ctx context.Context, query PriorityBreakdownQuery) (*PriorityBreakdownResult, error) {
	pending, err := h.taskRepo.FindPending(ctx, query.UserID)
	if err != nil {
		return nil, err
	}

	result := &PriorityBreakdownResult{
		TimeLapsedByPriority:   make(map[int]float64),
		TimeToFinishByPriority: make(map[int]float64),
	}
	for _, level := range value_objects.Levels() {
		result.TimeLapsedByPriority[level] = 0
		result.TimeToFinishByPriority[level] = 0
	}

	now := h.now()
	for _, t := range pending {
		level := t.Priority().Level()
		result.TimeLapsedByPriority[level] += hoursSince(t.StartTime(), now)
		result.TimeToFinishByPriority[level] += t.EndTime().Sub(now).Hours()
	}

	return result, nil
}
