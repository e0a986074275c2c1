package output

import (
	"fmt"
	"strings"

	"github.com/kuryletso/todo-cli/internal/task"
)

// HumanFormatter formats output for human-readable terminal display.
type HumanFormatter struct{}

// NewHumanFormatter creates a new HumanFormatter.
func NewHumanFormatter() *HumanFormatter {
	return &HumanFormatter{}
}

// FormatTask formats a single task for display.
func (f *HumanFormatter) FormatTask(t task.Task) string {
	var sb strings.Builder

	fmt.Fprintf(&sb, "%s [%d] %s\n", f.statusIcon(t.Status), t.ID, t.Title)
	fmt.Fprintf(&sb, "  Status:   %s\n", t.Status)
	fmt.Fprintf(&sb, "  Date:     %s (%s)\n", t.TaskDate, t.TaskDate.Weekday())
	fmt.Fprintf(&sb, "  Created:  %s\n", t.CreatedAt.Local().Format("2006-01-02 15:04"))

	if t.Description != "" {
		sb.WriteString("\n")
		sb.WriteString(t.Description)
		sb.WriteString("\n")
	}

	return sb.String()
}

// FormatTaskList formats tasks as a table.
func (f *HumanFormatter) FormatTaskList(tasks []task.Task) string {
	if len(tasks) == 0 {
		return "No tasks found.\n"
	}

	var sb strings.Builder
	fmt.Fprintf(&sb, "%-4s %-12s %-10s %s\n", "ID", "Date", "Status", "Title")
	sb.WriteString(strings.Repeat("-", 50) + "\n")
	for _, t := range tasks {
		fmt.Fprintf(&sb, "%-4d %-12s %-10s %s\n", t.ID, t.TaskDate, t.Status, t.Title)
	}
	return sb.String()
}

// FormatResult reports the outcome of a mutation.
func (f *HumanFormatter) FormatResult(msg string, _ task.Task) string {
	return msg + "\n"
}

func (f *HumanFormatter) statusIcon(s task.Status) string {
	switch s {
	case task.StatusActive:
		return "[ ]"
	case task.StatusDone:
		return "[X]"
	case task.StatusCanceled:
		return "[-]"
	default:
		return "[?]"
	}
}

// FormatError formats an error for display.
func (f *HumanFormatter) FormatError(err error) string {
	return fmt.Sprintf("Error: %s\n", err.Error())
}

// FormatMessage formats a simple message.
func (f *HumanFormatter) FormatMessage(msg string) string {
	return msg + "\n"
}
