package task

import (
	"context"
	"errors"

	"github.com/google/uuid"
)

// ErrTaskNotFound is returned when no task matches both the id and the
// owner. Missing and not-owned are deliberately indistinguishable so a
// caller cannot probe for other users' task ids.
var ErrTaskNotFound = errors.New("task not found")

// Repository defines the interface for task persistence. Every operation
// that touches a specific task is scoped by the owning user.
type Repository interface {
	Save(ctx context.Context, task *Task) error
	FindByID(ctx context.Context, id, userID uuid.UUID) (*Task, error)
	FindByUserID(ctx context.Context, userID uuid.UUID) ([]*Task, error)
	FindPending(ctx context.Context, userID uuid.UUID) ([]*Task, error)
	Delete(ctx context.Context, id, userID uuid.UUID) error
}
