package calendar

import (
	"fmt"
	"strings"

	"github.com/kuryletso/todo-cli/internal/task"
)

// ColumnWidth is the visible width of one day column.
const ColumnWidth = 22

const daysPerWeek = 7

// WeekOptions controls Week.
type WeekOptions struct {
	Color      bool
	ShowHeader bool
	// Today is the highlighted day; the zero value means the current date.
	Today task.Date
}

// WeekStart returns the Monday of the week containing d.
func WeekStart(d task.Date) task.Date {
	offset := (int(d.Weekday()) + 6) % daysPerWeek
	return d.AddDays(-offset)
}

// Week renders the Monday-to-Sunday grid of the week containing ref.
// Tasks dated outside that week are skipped.
func Week(tasks []task.Task, ref task.Date, opts WeekOptions) string {
	today := opts.Today
	if today.IsZero() {
		today = task.Today()
	}
	p := newPalette(opts.Color)

	monday := WeekStart(ref)
	sunday := monday.AddDays(daysPerWeek - 1)

	buckets := make(map[task.Date][]task.Task, daysPerWeek)
	for _, t := range tasks {
		if t.TaskDate.Before(monday) || t.TaskDate.After(sunday) {
			continue
		}
		buckets[t.TaskDate] = append(buckets[t.TaskDate], t)
	}

	columns := make([][]string, daysPerWeek)
	height := 0
	for i := range columns {
		day := monday.AddDays(i)
		isToday := day == today

		header := truncate(day.Time().Format("Mon 02"), ColumnWidth)
		col := []string{p.dayHeader(header, isToday)}
		for _, t := range buckets[day] {
			line := truncate(fmt.Sprintf("[%d] %s", t.ID, t.Title), ColumnWidth)
			col = append(col, p.taskLine(line, t.Status, isToday))
		}
		columns[i] = col
		height = max(height, len(col))
	}

	border := "+" + strings.Repeat(strings.Repeat("-", ColumnWidth)+"+", daysPerWeek)

	var lines []string
	if opts.ShowHeader {
		lines = append(lines, fmt.Sprintf("Week %s -> %s", monday, sunday))
	}
	lines = append(lines, border)

	for row := range height {
		var sb strings.Builder
		sb.WriteString("|")
		for _, col := range columns {
			cell := ""
			if row < len(col) {
				cell = col[row]
			}
			sb.WriteString(padRight(cell, ColumnWidth))
			sb.WriteString("|")
		}
		lines = append(lines, sb.String())

		if row == 0 {
			lines = append(lines, border)
		}
	}
	lines = append(lines, border)

	return strings.Join(lines, "\n")
}
