package calendar

import (
	"fmt"
	"strings"
	"time"

	"github.com/kuryletso/todo-cli/internal/task"
)

var weekdayNames = [daysPerWeek]string{"Mon", "Tue", "Wed", "Thu", "Fri", "Sat", "Sun"}

const blankCell = "   "

// MonthOptions controls Month.
type MonthOptions struct {
	Color bool
}

// HeatTier maps a task count to a heat tier: 0, 1, 2-3 and 4+ give 0..3.
func HeatTier(count int) int {
	switch {
	case count <= 0:
		return 0
	case count == 1:
		return 1
	case count <= 3:
		return 2
	default:
		return 3
	}
}

// DaysIn returns the number of days in the given month.
func DaysIn(year int, month time.Month) int {
	return time.Date(year, month+1, 0, 0, 0, 0, 0, time.UTC).Day()
}

// Month renders a calendar of the month with days colored by task count.
func Month(tasks []task.Task, year int, month time.Month, opts MonthOptions) string {
	p := newPalette(opts.Color)

	first := task.NewDate(year, month, 1)
	offset := (int(first.Weekday()) + 6) % daysPerWeek
	days := DaysIn(year, month)

	counts := make([]int, days+1)
	for _, t := range tasks {
		if t.TaskDate.Year != year || t.TaskDate.Month != month {
			continue
		}
		if d := t.TaskDate.Day; d >= 1 && d <= days {
			counts[d]++
		}
	}

	lines := []string{
		first.Time().Format("January 2006"),
		strings.Join(weekdayNames[:], " "),
	}

	week := make([]string, 0, daysPerWeek)
	for range offset {
		week = append(week, blankCell)
	}
	for day := 1; day <= days; day++ {
		num := fmt.Sprintf("%2d", day)
		week = append(week, " "+p.heatCell(num, HeatTier(counts[day])))

		if len(week) == daysPerWeek {
			lines = append(lines, strings.Join(week, " "))
			week = week[:0]
		}
	}
	if len(week) > 0 {
		for len(week) < daysPerWeek {
			week = append(week, blankCell)
		}
		lines = append(lines, strings.Join(week, " "))
	}

	return strings.Join(lines, "\n")
}
