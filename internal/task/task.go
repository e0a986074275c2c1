package task

import (
	"slices"
	"strings"
	"time"

	todoerrors "github.com/kuryletso/todo-cli/internal/errors"
)

// Status represents the current state of a task.
type Status string

const (
	StatusActive   Status = "active"
	StatusDone     Status = "done"
	StatusCanceled Status = "canceled"
)

// Statuses lists every valid status in display order.
func Statuses() []Status {
	return []Status{StatusActive, StatusDone, StatusCanceled}
}

// Task represents a single scheduled to-do item.
type Task struct {
	ID          int
	Title       string
	Description string
	TaskDate    Date
	CreatedAt   time.Time
	Status      Status
}

// IsValidStatus checks if a status string is valid.
func IsValidStatus(s Status) bool {
	return slices.Contains(Statuses(), s)
}

// StatusNames returns Statuses joined for help text.
func StatusNames() string {
	names := make([]string, 0, len(Statuses()))
	for _, s := range Statuses() {
		names = append(names, string(s))
	}
	return strings.Join(names, ", ")
}

// ParseStatus converts user or file input into a Status.
func ParseStatus(s string) (Status, error) {
	st := Status(strings.ToLower(strings.TrimSpace(s)))
	if !IsValidStatus(st) {
		return "", todoerrors.InvalidStatusError{Value: s}
	}
	return st, nil
}
