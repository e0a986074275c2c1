//nolint:revive // Package name intentionally matches stdlib for domain clarity
package errors

import "fmt"

// TaskNotFoundError indicates no task in the store has the given ID.
type TaskNotFoundError struct {
	ID int
}

func (e TaskNotFoundError) Error() string {
	return fmt.Sprintf("task not found: %d", e.ID)
}

// InvalidDateError indicates a date that is not in YYYY-MM-DD form.
type InvalidDateError struct {
	Value string
}

func (e InvalidDateError) Error() string {
	return fmt.Sprintf("invalid date format: %q (use YYYY-MM-DD)", e.Value)
}

// InvalidStatusError indicates an unknown task status.
type InvalidStatusError struct {
	Value string
}

func (e InvalidStatusError) Error() string {
	return fmt.Sprintf("invalid status: %s (valid: active, done, canceled)", e.Value)
}

// EmptyTitleError indicates add was called without a title.
type EmptyTitleError struct{}

func (e EmptyTitleError) Error() string {
	return "task title is required"
}

// InvalidShiftError indicates a week/month shift that is not an integer.
type InvalidShiftError struct {
	Value string
}

func (e InvalidShiftError) Error() string {
	return fmt.Sprintf("invalid shift: %s (expected an integer such as -1 or +2)", e.Value)
}

// NotInRepoError indicates the working directory is outside a git repository.
type NotInRepoError struct{}

func (e NotInRepoError) Error() string {
	return "not in a git repository"
}
