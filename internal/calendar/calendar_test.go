package calendar

import (
	"regexp"
	"slices"
	"strings"
	"time"

	"github.com/kuryletso/todo-cli/internal/task"
)

var sgrPattern = regexp.MustCompile(`\x1b\[([0-9;]*)m`)

// hasSGR reports whether out contains an SGR sequence carrying code.
func hasSGR(out, code string) bool {
	for _, m := range sgrPattern.FindAllStringSubmatch(out, -1) {
		if slices.Contains(strings.Split(m[1], ";"), code) {
			return true
		}
	}
	return false
}

func makeTask(id int, title string, day task.Date) task.Task {
	return task.Task{
		ID:        id,
		Title:     title,
		TaskDate:  day,
		CreatedAt: time.Date(2026, 2, 1, 12, 0, 0, 0, time.UTC),
		Status:    task.StatusActive,
	}
}
