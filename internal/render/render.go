// Package render prints tasks and summaries for a terminal.
package render

import (
	"fmt"
	"io"
	"strings"
	"time"

	"github.com/dustin/go-humanize"
	"github.com/fatih/color"
	"golang.org/x/text/cases"
	"golang.org/x/text/language"

	"github.com/agalitsyn/taskflow/internal/analytics"
	"github.com/agalitsyn/taskflow/internal/model"
)

var priorityColors = map[model.Priority]*color.Color{
	model.PriorityHigh:   color.New(color.FgRed, color.Bold),
	model.PriorityMedium: color.New(color.FgYellow),
	model.PriorityLow:    color.New(color.FgBlue),
}

var dueColors = map[model.DueStatus]*color.Color{
	model.DueOverdue:  color.New(color.FgRed),
	model.DueSoon:     color.New(color.FgYellow),
	model.DueUpcoming: color.New(color.FgGreen),
}

var (
	faint  = color.New(color.Faint)
	header = color.New(color.Bold)
)

// PriorityLabel returns the display form of a priority, e.g. "High".
func PriorityLabel(p model.Priority) string {
	return cases.Title(language.English).String(p.String())
}

type Printer struct {
	w   io.Writer
	now func() time.Time
}

func NewPrinter(w io.Writer, clock func() time.Time) *Printer {
	if clock == nil {
		clock = time.Now
	}
	return &Printer{w: w, now: clock}
}

// Tasks prints one line per task, numbered from 1.
func (p *Printer) Tasks(tasks []model.Task) {
	if len(tasks) == 0 {
		faint.Fprintln(p.w, "No tasks found.")
		return
	}
	for i, t := range tasks {
		p.TaskLine(i+1, t)
	}
}

func (p *Printer) TaskLine(pos int, t model.Task) {
	ts := p.now()

	check := "[ ]"
	title := t.Title
	if t.Completed {
		check = "[x]"
		title = faint.Sprint(title)
	}

	var b strings.Builder
	fmt.Fprintf(&b, "%3d. %s %s %s", pos, check, p.priority(t.Priority), title)
	if t.HasDueDate() && !t.Completed {
		status := model.DueStatusAt(t.DueDate, ts)
		fmt.Fprintf(&b, "  %s", dueColors[status].Sprintf("due %s", model.FormatDue(t.DueDate, ts)))
	}
	if t.Completed && !t.CompletedAt.IsZero() {
		fmt.Fprintf(&b, "  %s", faint.Sprintf("done %s", humanize.RelTime(t.CompletedAt, ts, "ago", "from now")))
	}
	fmt.Fprintf(&b, "  %s", faint.Sprint(t.ID))
	fmt.Fprintln(p.w, b.String())
}

// TaskDetails prints every field of a task.
func (p *Printer) TaskDetails(t model.Task) {
	ts := p.now()
	header.Fprintln(p.w, t.Title)
	fmt.Fprintf(p.w, "  id:       %s\n", t.ID)
	fmt.Fprintf(p.w, "  priority: %s\n", p.priority(t.Priority))
	if t.Description != "" {
		fmt.Fprintf(p.w, "  notes:    %s\n", t.Description)
	}
	if t.HasDueDate() {
		fmt.Fprintf(p.w, "  due:      %s (%s)\n", model.FormatDue(t.DueDate, ts), t.DueDate.Format(time.DateOnly))
	}
	fmt.Fprintf(p.w, "  created:  %s\n", humanize.RelTime(t.CreatedAt, ts, "ago", "from now"))
	if t.Completed {
		fmt.Fprintf(p.w, "  done:     %s\n", humanize.RelTime(t.CompletedAt, ts, "ago", "from now"))
	}
}

func (p *Printer) Counts(label string, c model.TaskCounts) {
	overdue := fmt.Sprint(c.Overdue)
	if c.Overdue > 0 {
		overdue = dueColors[model.DueOverdue].Sprint(overdue)
	}
	fmt.Fprintf(p.w, "%s: %d total, %d active, %d completed, %s overdue\n",
		label, c.Total, c.Active, c.Completed, overdue)
}

func (p *Printer) Dashboard(d analytics.Dashboard) {
	header.Fprintln(p.w, "TaskFlow")
	p.Counts("Tasks", d.Counts)
	fmt.Fprintf(p.w, "Completion rate: %d%%\n", d.CompletionRate)
	if len(d.Recent) > 0 {
		fmt.Fprintln(p.w)
		header.Fprintln(p.w, "Up next")
		p.Tasks(d.Recent)
	}
}

func (p *Printer) Report(r analytics.Report) {
	header.Fprintf(p.w, "Analytics (%s)\n", rangeLabel(r.Range))
	fmt.Fprintf(p.w, "Productivity score: %d%%\n", r.ProductivityScore)
	fmt.Fprintf(p.w, "Avg tasks/day:      %d\n", r.AvgTasksPerDay)
	fmt.Fprintf(p.w, "Total tasks:        %d\n", r.Total)

	fmt.Fprintln(p.w)
	header.Fprintln(p.w, "Completion")
	fmt.Fprintf(p.w, "  completed %d, pending %d of %d\n", r.Completion.Completed, r.Completion.Pending, r.Completion.Total)

	fmt.Fprintln(p.w)
	header.Fprintln(p.w, "Priority distribution")
	fmt.Fprintf(p.w, "  %s %s\n", p.priority(model.PriorityHigh), bar(r.Priorities.High))
	fmt.Fprintf(p.w, "  %s %s\n", p.priority(model.PriorityMedium), bar(r.Priorities.Medium))
	fmt.Fprintf(p.w, "  %s %s\n", p.priority(model.PriorityLow), bar(r.Priorities.Low))

	fmt.Fprintln(p.w)
	header.Fprintln(p.w, "Tasks created")
	for _, d := range r.Daily {
		fmt.Fprintf(p.w, "  %s %s\n", d.Day.Format("Jan 02"), bar(d.Created))
	}
}

func (p *Printer) priority(pr model.Priority) string {
	label := fmt.Sprintf("%-6s", PriorityLabel(pr))
	if c, ok := priorityColors[pr]; ok {
		return c.Sprint(label)
	}
	return label
}

func bar(n int) string {
	return strings.Repeat("#", n) + fmt.Sprintf(" %d", n)
}

func rangeLabel(r analytics.Range) string {
	if r == analytics.RangeAll {
		return "all time"
	}
	return "this " + string(r)
}
