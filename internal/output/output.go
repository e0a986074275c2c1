package output

import "github.com/kuryletso/todo-cli/internal/task"

// Formatter defines the interface for output formatting.
type Formatter interface {
	FormatTask(t task.Task) string
	FormatTaskList(tasks []task.Task) string
	FormatResult(msg string, t task.Task) string
	FormatError(err error) string
	FormatMessage(msg string) string
}
