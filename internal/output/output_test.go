//nolint:testpackage // Tests require internal access for thorough testing
package output

import (
	"encoding/json"
	"errors"
	"strings"
	"testing"
	"time"

	"github.com/kuryletso/todo-cli/internal/task"
)

func sampleTask() task.Task {
	return task.Task{
		ID:          3,
		Title:       "Write report",
		Description: "Quarterly numbers",
		TaskDate:    task.NewDate(2026, time.February, 22),
		CreatedAt:   time.Date(2026, 2, 20, 9, 0, 0, 0, time.UTC),
		Status:      task.StatusDone,
	}
}

func TestHumanFormatTaskList(t *testing.T) {
	f := NewHumanFormatter()

	if got := f.FormatTaskList(nil); got != "No tasks found.\n" {
		t.Errorf("FormatTaskList(nil) = %q", got)
	}

	out := f.FormatTaskList([]task.Task{sampleTask()})
	lines := strings.Split(strings.TrimSuffix(out, "\n"), "\n")
	if len(lines) != 3 {
		t.Fatalf("FormatTaskList lines = %d, want 3: %q", len(lines), out)
	}
	if !strings.HasPrefix(lines[0], "ID   Date         Status     Title") {
		t.Errorf("header = %q", lines[0])
	}
	want := "3    2026-02-22   done       Write report"
	if lines[2] != want {
		t.Errorf("row = %q, want %q", lines[2], want)
	}
}

func TestHumanFormatTask(t *testing.T) {
	out := NewHumanFormatter().FormatTask(sampleTask())

	for _, want := range []string{"[X] [3] Write report", "Status:   done", "Date:     2026-02-22 (Sunday)", "Quarterly numbers"} {
		if !strings.Contains(out, want) {
			t.Errorf("FormatTask missing %q in %q", want, out)
		}
	}
}

func TestHumanFormatMessages(t *testing.T) {
	f := NewHumanFormatter()
	if got := f.FormatResult("Task 3 updated", sampleTask()); got != "Task 3 updated\n" {
		t.Errorf("FormatResult = %q", got)
	}
	if got := f.FormatError(errors.New("boom")); got != "Error: boom\n" {
		t.Errorf("FormatError = %q", got)
	}
}

func TestJSONFormatTask(t *testing.T) {
	out := NewJSONFormatter().FormatTask(sampleTask())

	var decoded map[string]any
	if err := json.Unmarshal([]byte(out), &decoded); err != nil {
		t.Fatalf("invalid JSON %q: %v", out, err)
	}
	if decoded["task_date"] != "2026-02-22" {
		t.Errorf("task_date = %v", decoded["task_date"])
	}
	if decoded["status"] != "done" {
		t.Errorf("status = %v", decoded["status"])
	}
	if decoded["created_at"] != "2026-02-20T09:00:00Z" {
		t.Errorf("created_at = %v", decoded["created_at"])
	}
}

func TestJSONFormatResult(t *testing.T) {
	out := NewJSONFormatter().FormatResult("Task created with ID 3", sampleTask())

	var decoded struct {
		Message string `json:"message"`
		Task    struct {
			ID int `json:"id"`
		} `json:"task"`
	}
	if err := json.Unmarshal([]byte(out), &decoded); err != nil {
		t.Fatalf("invalid JSON %q: %v", out, err)
	}
	if decoded.Message != "Task created with ID 3" || decoded.Task.ID != 3 {
		t.Errorf("decoded = %+v", decoded)
	}
}

func TestJSONFormatTaskListEmpty(t *testing.T) {
	if got := NewJSONFormatter().FormatTaskList(nil); got != "[]\n" {
		t.Errorf("FormatTaskList(nil) = %q, want %q", got, "[]\n")
	}
}
