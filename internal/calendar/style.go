// Package calendar renders tasks as a week grid or a month heatmap.
package calendar

import (
	"io"
	"strings"

	"github.com/charmbracelet/lipgloss"
	"github.com/charmbracelet/x/ansi"
	"github.com/muesli/termenv"

	"github.com/kuryletso/todo-cli/internal/task"
)

const ellipsis = "…"

// palette holds the styles for one render. A disabled palette returns text
// untouched, so no escape sequences reach the output.
type palette struct {
	enabled bool
	status  map[task.Status]lipgloss.Style
	today   lipgloss.Style
	heat    [4]lipgloss.Style
}

// newPalette pins the renderer to the basic ANSI profile so output does not
// depend on whether stdout is a terminal.
func newPalette(enabled bool) palette {
	r := lipgloss.NewRenderer(io.Discard)
	r.SetColorProfile(termenv.ANSI)

	return palette{
		enabled: enabled,
		status: map[task.Status]lipgloss.Style{
			task.StatusActive:   r.NewStyle().Foreground(lipgloss.Color("11")), // yellow
			task.StatusDone:     r.NewStyle().Foreground(lipgloss.Color("10")), // green
			task.StatusCanceled: r.NewStyle().Foreground(lipgloss.Color("9")),  // red
		},
		today: r.NewStyle().Background(lipgloss.Color("0")),
		heat: [4]lipgloss.Style{
			r.NewStyle(),
			r.NewStyle().Foreground(lipgloss.Color("10")),
			r.NewStyle().Foreground(lipgloss.Color("2")),
			r.NewStyle().Foreground(lipgloss.Color("2")).Bold(true),
		},
	}
}

// taskLine colors a task line by status, on the today background if asked.
func (p palette) taskLine(text string, status task.Status, today bool) string {
	if !p.enabled {
		return text
	}
	style, ok := p.status[status]
	if !ok {
		style = p.heat[0]
	}
	if today {
		style = style.Inherit(p.today)
	}
	return style.Render(text)
}

// dayHeader highlights the header of today's column.
func (p palette) dayHeader(text string, today bool) string {
	if !p.enabled || !today {
		return text
	}
	return p.today.Bold(true).Render(text)
}

// heatCell colors a day number by its heat tier.
func (p palette) heatCell(text string, tier int) string {
	if !p.enabled || tier <= 0 {
		return text
	}
	return p.heat[min(tier, len(p.heat)-1)].Render(text)
}

// truncate cuts text wider than width to width-1 cells plus an ellipsis.
func truncate(text string, width int) string {
	return ansi.Truncate(text, width, ellipsis)
}

// padRight pads s with spaces to width visible cells, ignoring escape codes.
func padRight(s string, width int) string {
	if gap := width - ansi.StringWidth(s); gap > 0 {
		return s + strings.Repeat(" ", gap)
	}
	return s
}
