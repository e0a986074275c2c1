package storage

import (
	"bytes"
	"encoding/json"
	"fmt"
	"path/filepath"
	"strings"
	"time"

	"gopkg.in/yaml.v3"

	"github.com/kuryletso/todo-cli/internal/task"
)

// taskRecord is the serializable form of a task.
type taskRecord struct {
	ID          int     `json:"id"          yaml:"id"`
	Title       string  `json:"title"       yaml:"title"`
	Description *string `json:"description" yaml:"description"`
	CreatedAt   string  `json:"created_at"  yaml:"created_at"`
	TaskDate    string  `json:"task_date"   yaml:"task_date"`
	Status      string  `json:"status"      yaml:"status"`
}

// codec encodes a whole task collection to bytes and back.
type codec interface {
	Marshal(records []taskRecord) ([]byte, error)
	Unmarshal(data []byte) ([]taskRecord, error)
}

type jsonCodec struct{}

func (jsonCodec) Marshal(records []taskRecord) ([]byte, error) {
	data, err := json.MarshalIndent(records, "", "  ")
	if err != nil {
		return nil, err
	}
	return append(data, '\n'), nil
}

func (jsonCodec) Unmarshal(data []byte) ([]taskRecord, error) {
	var records []taskRecord
	if err := json.Unmarshal(data, &records); err != nil {
		return nil, err
	}
	return records, nil
}

type yamlCodec struct{}

func (yamlCodec) Marshal(records []taskRecord) ([]byte, error) {
	var buf bytes.Buffer
	enc := yaml.NewEncoder(&buf)
	enc.SetIndent(2)
	if err := enc.Encode(records); err != nil {
		return nil, err
	}
	if err := enc.Close(); err != nil {
		return nil, err
	}
	return buf.Bytes(), nil
}

func (yamlCodec) Unmarshal(data []byte) ([]taskRecord, error) {
	var records []taskRecord
	if err := yaml.Unmarshal(data, &records); err != nil {
		return nil, err
	}
	return records, nil
}

// codecFor picks the encoding from the file extension; JSON is the default.
func codecFor(path string) codec {
	switch strings.ToLower(filepath.Ext(path)) {
	case ".yaml", ".yml":
		return yamlCodec{}
	default:
		return jsonCodec{}
	}
}

func toRecord(t task.Task) taskRecord {
	rec := taskRecord{
		ID:        t.ID,
		Title:     t.Title,
		CreatedAt: t.CreatedAt.Format(time.RFC3339Nano),
		TaskDate:  t.TaskDate.String(),
		Status:    string(t.Status),
	}
	if t.Description != "" {
		desc := t.Description
		rec.Description = &desc
	}
	return rec
}

func fromRecord(rec taskRecord) (task.Task, error) {
	if rec.ID <= 0 {
		return task.Task{}, &parseError{fmt.Sprintf("invalid id %d", rec.ID)}
	}

	createdAt, err := parseTime(rec.CreatedAt)
	if err != nil {
		return task.Task{}, &parseError{fmt.Sprintf("task %d: invalid created_at: %v", rec.ID, err)}
	}

	taskDate, err := parseTaskDate(rec.TaskDate)
	if err != nil {
		return task.Task{}, &parseError{fmt.Sprintf("task %d: invalid task_date: %v", rec.ID, err)}
	}

	status := task.StatusActive
	if rec.Status != "" {
		status, err = task.ParseStatus(rec.Status)
		if err != nil {
			return task.Task{}, &parseError{fmt.Sprintf("task %d: %v", rec.ID, err)}
		}
	}

	var description string
	if rec.Description != nil {
		description = *rec.Description
	}

	return task.Task{
		ID:          rec.ID,
		Title:       rec.Title,
		Description: description,
		TaskDate:    taskDate,
		CreatedAt:   createdAt,
		Status:      status,
	}, nil
}

// encodeTasks converts tasks into file content.
func encodeTasks(c codec, tasks []task.Task) ([]byte, error) {
	records := make([]taskRecord, len(tasks))
	for i, t := range tasks {
		records[i] = toRecord(t)
	}
	return c.Marshal(records)
}

// decodeTasks parses file content. Blank content is an empty collection.
func decodeTasks(c codec, data []byte) ([]task.Task, error) {
	if len(bytes.TrimSpace(data)) == 0 {
		return nil, nil
	}

	records, err := c.Unmarshal(data)
	if err != nil {
		return nil, err
	}

	tasks := make([]task.Task, 0, len(records))
	seen := make(map[int]bool, len(records))
	for _, rec := range records {
		t, err := fromRecord(rec)
		if err != nil {
			return nil, err
		}
		if seen[t.ID] {
			return nil, &parseError{fmt.Sprintf("duplicate id %d", t.ID)}
		}
		seen[t.ID] = true
		tasks = append(tasks, t)
	}
	return tasks, nil
}

// parseTime tries to parse a time string in common formats.
// Timestamps without a zone are read as local time.
func parseTime(s string) (time.Time, error) {
	if t, err := time.Parse(time.RFC3339Nano, s); err == nil {
		return t, nil
	}
	localFormats := []string{
		"2006-01-02T15:04:05.999999999",
		"2006-01-02 15:04:05.999999999",
		task.DateLayout,
	}
	for _, f := range localFormats {
		if t, err := time.ParseInLocation(f, s, time.Local); err == nil {
			return t, nil
		}
	}
	return time.Time{}, &parseError{"unrecognized time format"}
}

// parseTaskDate accepts a plain date or a timestamp whose date part is used.
func parseTaskDate(s string) (task.Date, error) {
	if d, err := task.ParseDate(s); err == nil {
		return d, nil
	}
	t, err := parseTime(s)
	if err != nil {
		return task.Date{}, err
	}
	return task.DateOf(t), nil
}
