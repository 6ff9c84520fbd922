// Package queries implements the statistics aggregations over a single
// user's tasks. Each handler is a stateless read-only pass; time metrics
// are reported in hours.
package queries

import (
	"context"
	"time"

	"github.com/google/uuid"

	"github.com/taskvault/taskvault/internal/tasks/domain/task"
)

// TaskSummaryQuery contains the parameters for the summary aggregation.
type TaskSummaryQuery struct {
	UserID uuid.UUID
}

// TaskSummaryResult holds the per-user task totals and completion metrics.
type TaskSummaryResult struct {
	TotalTasks            int     `json:"totalTasks"`
	CompletedTasks        int     `json:"completedTasks"`
	PendingTasks          int     `json:"pendingTasks"`
	PercentCompleted      float64 `json:"percentCompleted"`
	PercentPending        float64 `json:"percentPending"`
	AverageCompletionTime float64 `json:"averageCompletionTime"`
}

// TaskSummaryHandler handles the TaskSummaryQuery.
type TaskSummaryHandler struct {
	taskRepo task.Repository
}

// NewTaskSummaryHandler creates a new TaskSummaryHandler.
func NewTaskSummaryHandler(taskRepo task.Repository) *TaskSummaryHandler {
	return &TaskSummaryHandler{taskRepo: taskRepo}
}

// Handle computes task totals, completion percentages, and the mean
// completion time over finished tasks. With zero tasks both percentages
// are 0 rather than NaN, and the average is 0 when nothing is finished.
func (h *TaskSummaryHandler) Handle(ctx context.Context, query TaskSummaryQuery) (*TaskSummaryResult, error) {
	tasks, err := h.taskRepo.FindByUserID(ctx, query.UserID)
	if err != nil {
		return nil, err
	}

	result := &TaskSummaryResult{TotalTasks: len(tasks)}

	var completionHours float64
	for _, t := range tasks {
		if t.IsFinished() {
			result.CompletedTasks++
			completionHours += t.PlannedDuration().Hours()
		}
	}
	result.PendingTasks = result.TotalTasks - result.CompletedTasks

	if result.TotalTasks > 0 {
		result.PercentCompleted = float64(result.CompletedTasks) / float64(result.TotalTasks) * 100
		result.PercentPending = float64(result.PendingTasks) / float64(result.TotalTasks) * 100
	}

	if result.CompletedTasks > 0 {
		result.AverageCompletionTime = completionHours / float64(result.CompletedTasks)
	}

	return result, nil
}

// hoursSince returns the span from start to now in hours.
func hoursSince(start, now time.Time) float64 {
	return now.Sub(start).Hours()
}
