package main

import (
	"context"
	"errors"
	"flag"
	"fmt"
	"io"
	"strings"
	"time"

	"github.com/fatih/color"

	"github.com/agalitsyn/taskflow/internal/analytics"
	"github.com/agalitsyn/taskflow/internal/app"
	"github.com/agalitsyn/taskflow/internal/model"
	"github.com/agalitsyn/taskflow/internal/render"
)

const (
	exitOK      = 0
	exitFailure = 1
	exitUsage   = 2
)

var errUsage = errors.New("usage")

var (
	successColor = color.New(color.FgGreen)
	failureColor = color.New(color.FgRed)
	noticeColor  = color.New(color.FgYellow)
)

type CLI struct {
	store   app.TaskStore
	out     io.Writer
	errOut  io.Writer
	now     func() time.Time
	printer *render.Printer
}

func NewCLI(store app.TaskStore, out, errOut io.Writer) *CLI {
	c := &CLI{store: store, out: out, errOut: errOut, now: time.Now}
	c.printer = render.NewPrinter(out, func() time.Time { return c.now() })
	return c
}

// Run executes one command and returns the process exit code.
func (c *CLI) Run(ctx context.Context, args []string) int {
	if len(args) == 0 {
		args = []string{"dashboard"}
	}

	var err error
	switch name, rest := args[0], args[1:]; name {
	case "add":
		err = c.add(ctx, rest)
	case "edit":
		err = c.edit(ctx, rest)
	case "done":
		err = c.complete(ctx, rest)
	case "undo":
		err = c.uncomplete(ctx, rest)
	case "rm":
		err = c.remove(ctx, rest)
	case "clear":
		err = c.clear(ctx, rest)
	case "show":
		err = c.show(rest)
	case "list", "ls":
		err = c.list(rest)
	case "stats":
		err = c.stats(rest)
	case "dashboard":
		c.printer.Dashboard(analytics.BuildDashboard(c.store.List(), c.now()))
	default:
		failureColor.Fprintf(c.errOut, "unknown command %q\n", name)
		return exitUsage
	}

	switch {
	case err == nil:
		return exitOK
	case errors.Is(err, errUsage), errors.Is(err, flag.ErrHelp):
		return exitUsage
	default:
		failureColor.Fprintln(c.errOut, capitalize(err.Error()))
		return exitFailure
	}
}

func (c *CLI) add(ctx context.Context, args []string) error {
	fs := newFlagSet("add", c.errOut)
	priority := fs.String("p", "medium", "Priority (high | medium | low).")
	due := fs.String("d", "", "Due date (YYYY-MM-DD, today, tomorrow, weekday).")
	notes := fs.String("n", "", "Description.")
	words, err := parseInterleaved(fs, args)
	if err != nil {
		return errUsage
	}

	ts := c.now()
	p, err := model.ParsePriority(*priority)
	if err != nil {
		return err
	}
	dueDate, err := app.ParseDueDate(*due, ts)
	if err != nil {
		return err
	}
	draft := model.TaskDraft{
		Title:       strings.Join(words, " "),
		Description: *notes,
		Priority:    p,
		DueDate:     dueDate,
	}
	if err := draft.Validate(ts); err != nil {
		return err
	}

	task, err := c.store.Create(ctx, draft)
	if err != nil {
		return fmt.Errorf("failed to create task: %w", err)
	}
	successColor.Fprintln(c.out, "Task created successfully!")
	c.printer.TaskLine(c.position(task.ID), task)
	return nil
}

func (c *CLI) edit(ctx context.Context, args []string) error {
	fs := newFlagSet("edit", c.errOut)
	title := fs.String("t", "", "New title.")
	priority := fs.String("p", "", "New priority.")
	due := fs.String("d", "", "New due date, \"none\" clears it.")
	notes := fs.String("n", "", "New description.")
	refs, err := parseInterleaved(fs, args)
	if err != nil {
		return errUsage
	}
	if len(refs) != 1 {
		failureColor.Fprintln(c.errOut, "edit expects exactly one task")
		return errUsage
	}

	ts := c.now()
	var patch model.TaskPatch
	var parseErr error
	fs.Visit(func(f *flag.Flag) {
		switch f.Name {
		case "t":
			patch.Title = title
		case "n":
			patch.Description = notes
		case "p":
			p, err := model.ParsePriority(*priority)
			if err != nil {
				parseErr = err
				return
			}
			patch.Priority = &p
		case "d":
			d, err := app.ParseDueDate(*due, ts)
			if err != nil {
				parseErr = err
				return
			}
			patch.DueDate = &d
		}
	})
	if parseErr != nil {
		return parseErr
	}
	if patch.IsEmpty() {
		noticeColor.Fprintln(c.out, "Nothing to change.")
		return nil
	}
	if err := patch.Validate(ts); err != nil {
		return err
	}

	task, err := app.ResolveTask(c.store.List(), refs[0])
	if err != nil {
		return err
	}
	task, ok, err := c.store.Update(ctx, task.ID, patch)
	if err != nil {
		return fmt.Errorf("failed to update task: %w", err)
	}
	if !ok {
		noticeColor.Fprintln(c.out, "Task no longer exists.")
		return nil
	}
	successColor.Fprintln(c.out, "Task updated successfully!")
	c.printer.TaskLine(c.position(task.ID), task)
	return nil
}

func (c *CLI) complete(ctx context.Context, args []string) error {
	return c.toggle(ctx, args, "Task completed!", "failed to complete task", c.store.Complete)
}

func (c *CLI) uncomplete(ctx context.Context, args []string) error {
	return c.toggle(ctx, args, "Task marked as active", "failed to uncomplete task", c.store.Uncomplete)
}

func (c *CLI) toggle(
	ctx context.Context,
	args []string,
	success, failure string,
	op func(ctx context.Context, id string) (model.Task, bool, error),
) error {
	if len(args) == 0 {
		failureColor.Fprintln(c.errOut, "expected at least one task")
		return errUsage
	}

	// Resolve all references first: positions shift after every change.
	tasks := c.store.List()
	ids := make([]string, 0, len(args))
	for _, ref := range args {
		task, err := app.ResolveTask(tasks, ref)
		if err != nil {
			return err
		}
		ids = append(ids, task.ID)
	}

	for _, id := range ids {
		task, ok, err := op(ctx, id)
		if err != nil {
			return fmt.Errorf("%s: %w", failure, err)
		}
		if !ok {
			noticeColor.Fprintf(c.out, "Task %s no longer exists.\n", id)
			continue
		}
		successColor.Fprintln(c.out, success)
		c.printer.TaskLine(c.position(task.ID), task)
	}
	return nil
}

func (c *CLI) remove(ctx context.Context, args []string) error {
	if len(args) == 0 {
		failureColor.Fprintln(c.errOut, "expected at least one task")
		return errUsage
	}

	tasks := c.store.List()
	var targets []model.Task
	for _, ref := range args {
		task, err := app.ResolveTask(tasks, ref)
		if err != nil {
			return err
		}
		targets = append(targets, task)
	}

	for _, task := range targets {
		ok, err := c.store.Delete(ctx, task.ID)
		if err != nil {
			return fmt.Errorf("failed to delete task: %w", err)
		}
		if ok {
			successColor.Fprintf(c.out, "Task deleted: %s\n", task.Title)
		}
	}
	return nil
}

func (c *CLI) clear(ctx context.Context, args []string) error {
	fs := newFlagSet("clear", c.errOut)
	yes := fs.Bool("y", false, "Confirm removal of every task.")
	if err := fs.Parse(args); err != nil {
		return errUsage
	}
	if !*yes {
		failureColor.Fprintln(c.errOut, "clear removes every task, pass -y to confirm")
		return errUsage
	}

	n, err := c.store.Clear(ctx)
	if err != nil {
		return fmt.Errorf("failed to clear tasks: %w", err)
	}
	successColor.Fprintf(c.out, "Deleted %d tasks.\n", n)
	return nil
}

func (c *CLI) show(args []string) error {
	if len(args) != 1 {
		failureColor.Fprintln(c.errOut, "show expects exactly one task")
		return errUsage
	}
	task, err := app.ResolveTask(c.store.List(), args[0])
	if err != nil {
		return err
	}
	c.printer.TaskDetails(task)
	return nil
}

func (c *CLI) list(args []string) error {
	fs := newFlagSet("list", c.errOut)
	status := fs.String("s", "all", "Status (all | active | completed).")
	priority := fs.String("p", "all", "Priority (all | high | medium | low).")
	search := fs.String("q", "", "Search text in title and description.")
	if err := fs.Parse(args); err != nil {
		return errUsage
	}

	var f model.Filter
	var err error
	if f.Status, err = model.ParseStatusFilter(*status); err != nil {
		return err
	}
	if f.Priority, err = model.ParsePriorityFilter(*priority); err != nil {
		return err
	}
	f.Search = strings.TrimSpace(strings.Join(append([]string{*search}, fs.Args()...), " "))

	ts := c.now()
	tasks := c.store.List()
	c.printer.Counts("All", model.CountTasks(tasks, ts))

	// Numbering follows the full list so positions stay valid for other
	// commands.
	var shown []model.Task
	for i, t := range tasks {
		if f.Match(t) {
			shown = append(shown, t)
			c.printer.TaskLine(i+1, t)
		}
	}
	if len(shown) == 0 {
		noticeColor.Fprintln(c.out, "No tasks found.")
	}
	if len(shown) != len(tasks) {
		c.printer.Counts("Shown", model.CountTasks(shown, ts))
	}
	return nil
}

func (c *CLI) stats(args []string) error {
	fs := newFlagSet("stats", c.errOut)
	rangeName := fs.String("range", "week", "Time range (week | month | all).")
	if err := fs.Parse(args); err != nil {
		return errUsage
	}
	r, err := analytics.ParseRange(*rangeName)
	if err != nil {
		return err
	}
	c.printer.Report(analytics.Build(c.store.List(), r, c.now()))
	return nil
}

// position returns the 1-based place of id in the sorted list.
func (c *CLI) position(id string) int {
	for i, t := range c.store.List() {
		if t.ID == id {
			return i + 1
		}
	}
	return 0
}

// parseInterleaved accepts flags before, between and after positional
// arguments, which are returned in order.
func parseInterleaved(fs *flag.FlagSet, args []string) ([]string, error) {
	var positional []string
	for {
		if err := fs.Parse(args); err != nil {
			return nil, err
		}
		if fs.NArg() == 0 {
			return positional, nil
		}
		positional = append(positional, fs.Arg(0))
		args = fs.Args()[1:]
	}
}

func newFlagSet(name string, out io.Writer) *flag.FlagSet {
	fs := flag.NewFlagSet(name, flag.ContinueOnError)
	fs.SetOutput(out)
	return fs
}

func capitalize(s string) string {
	if s == "" {
		return s
	}
	return strings.ToUpper(s[:1]) + s[1:]
}
