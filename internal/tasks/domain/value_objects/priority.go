// Package value_objects holds immutable value types of the tasks context.
package value_objects

import "errors"

// Priority bounds.
const (
	MinPriority = 1
	MaxPriority = 5
)

// ErrInvalidPriority is returned for priorities outside [1, 5].
var ErrInvalidPriority = errors.New("priority must be between 1 and 5")

// Priority represents task urgency on a 1 (lowest) to 5 (highest) scale.
type Priority int

// NewPriority validates and creates a Priority.
func NewPriority(level int) (Priority, error) {
	if level < MinPriority || level > MaxPriority {
		return 0, ErrInvalidPriority
	}
	return Priority(level), nil
}

// Level returns the numeric priority level.
func (p Priority) Level() int {
	return int(p)
}

// IsValid returns true if the priority lies in [1, 5].
func (p Priority) IsValid() bool {
	return p >= MinPriority && p <= MaxPriority
}

// Levels returns all valid priority levels in ascending order.
func Levels() []int {
	levels := make([]int, 0, MaxPriority-MinPriority+1)
	for l := MinPriority; l <= MaxPriority; l++ {
		levels = append(levels, l)
	}
	return levels
}
