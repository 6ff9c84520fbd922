package task

import (
	"errors"
	"strings"
	"time"

	"github.com/google/uuid"

	"github.com/taskvault/taskvault/internal/shared/domain"
	"github.com/taskvault/taskvault/internal/tasks/domain/value_objects"
)

var (
	ErrEmptyTitle      = errors.New("task title cannot be empty")
	ErrInvalidSchedule = errors.New("task end time cannot be before start time")
	ErrInvalidStatus   = errors.New("invalid task status")
)

// Status represents the task lifecycle state.
type Status int

const (
	StatusPending Status = iota
	StatusFinished
)

func (s Status) String() string {
	switch s {
	case StatusPending:
		return "pending"
	case StatusFinished:
		return "finished"
	default:
		return "unknown"
	}
}

// ParseStatus creates a Status from its string form.
func ParseStatus(s string) (Status, error) {
	switch strings.ToLower(s) {
	case "pending":
		return StatusPending, nil
	case "finished":
		return StatusFinished, nil
	default:
		return StatusPending, ErrInvalidStatus
	}
}

// Task is a unit of work owned by a single user. The owner is fixed at
// creation; every query and mutation must be scoped by it.
type Task struct {
	domain.BaseEntity
	userID    uuid.UUID
	title     string
	startTime time.Time
	endTime   time.Time
	priority  value_objects.Priority
	status    Status
}

// NewTask creates a task in the pending state after validating all fields.
func NewTask(userID uuid.UUID, title string, startTime, endTime time.Time, priority value_objects.Priority) (*Task, error) {
	title = strings.TrimSpace(title)
	if title == "" {
		return nil, ErrEmptyTitle
	}
	if endTime.Before(startTime) {
		return nil, ErrInvalidSchedule
	}
	if !priority.IsValid() {
		return nil, value_objects.ErrInvalidPriority
	}

	return &Task{
		BaseEntity: domain.NewBaseEntity(),
		userID:     userID,
		title:      title,
		startTime:  startTime.UTC(),
		endTime:    endTime.UTC(),
		priority:   priority,
		status:     StatusPending,
	}, nil
}

// Rehydrate recreates a task from persisted state.
func Rehydrate(id, userID uuid.UUID, title string, startTime, endTime time.Time, priority value_objects.Priority, status Status, createdAt, updatedAt time.Time) *Task {
	return &Task{
		BaseEntity: domain.RehydrateBaseEntity(id, createdAt, updatedAt),
		userID:     userID,
		title:      title,
		startTime:  startTime,
		endTime:    endTime,
		priority:   priority,
		status:     status,
	}
}

// Getters

func (t *Task) UserID() uuid.UUID                { return t.userID }
func (t *Task) Title() string                    { return t.title }
func (t *Task) StartTime() time.Time             { return t.startTime }
func (t *Task) EndTime() time.Time               { return t.endTime }
func (t *Task) Priority() value_objects.Priority { return t.priority }
func (t *Task) Status() Status                   { return t.status }
func (t *Task) IsPending() bool                  { return t.status == StatusPending }
func (t *Task) IsFinished() bool                 { return t.status == StatusFinished }

// PlannedDuration returns the task's planned end-start span.
func (t *Task) PlannedDuration() time.Duration {
	return t.endTime.Sub(t.startTime)
}

// SetTitle updates the task title.
func (t *Task) SetTitle(title string) error {
	title = strings.TrimSpace(title)
	if title == "" {
		return ErrEmptyTitle
	}
	t.title = title
	t.Touch()
	return nil
}

// Reschedule replaces the start and end times, keeping end >= start.
func (t *Task) Reschedule(startTime, endTime time.Time) error {
	if endTime.Before(startTime) {
		return ErrInvalidSchedule
	}
	t.startTime = startTime.UTC()
	t.endTime = endTime.UTC()
	t.Touch()
	return nil
}

// SetPriority updates the task priority.
func (t *Task) SetPriority(priority value_objects.Priority) error {
	if !priority.IsValid() {
		return value_objects.ErrInvalidPriority
	}
	t.priority = priority
	t.Touch()
	return nil
}

// Finish marks the task as finished. Idempotent.
func (t *Task) Finish() {
	if t.status == StatusFinished {
		return
	}
	t.status = StatusFinished
	t.Touch()
}

// Reopen returns a finished task to the pending state. Idempotent.
func (t *Task) Reopen() {
	if t.status == StatusPending {
		return
	}
	t.status = StatusPending
	t.Touch()
}
