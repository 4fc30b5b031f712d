package main

import (
	"bytes"
	"context"
	"fmt"
	"testing"
	"time"

	"github.com/fatih/color"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/agalitsyn/taskflow/internal/model"
	"github.com/agalitsyn/taskflow/internal/storage/memory"
	"github.com/agalitsyn/taskflow/internal/taskstore"
)

var testNow = time.Date(2026, time.October, 14, 10, 0, 0, 0, time.UTC)

type testCLI struct {
	*CLI
	store  *taskstore.Store
	out    *bytes.Buffer
	errOut *bytes.Buffer
}

func newTestCLI(t *testing.T) *testCLI {
	t.Helper()
	color.NoColor = true

	clock := func() time.Time { return testNow }
	var n int
	store, err := taskstore.Open(context.Background(), memory.New(),
		taskstore.WithClock(clock),
		taskstore.WithIDGenerator(func() string {
			n++
			return fmt.Sprintf("task-%d", n)
		}),
	)
	require.NoError(t, err)

	var out, errOut bytes.Buffer
	cli := NewCLI(store, &out, &errOut)
	cli.now = clock
	return &testCLI{CLI: cli, store: store, out: &out, errOut: &errOut}
}

func (c *testCLI) run(args ...string) int {
	c.out.Reset()
	c.errOut.Reset()
	return c.Run(context.Background(), args)
}

func TestCLI_Add(t *testing.T) {
	c := newTestCLI(t)

	code := c.run("add", "-p", "high", "-d", "tomorrow", "-n", "2 liters", "Buy", "milk")
	require.Equal(t, exitOK, code, c.errOut.String())
	assert.Contains(t, c.out.String(), "Task created successfully!")
	assert.Contains(t, c.out.String(), "  1. [ ] High   Buy milk  due Tomorrow  task-1")

	tasks := c.store.List()
	require.Len(t, tasks, 1)
	assert.Equal(t, "2 liters", tasks[0].Description)
	assert.Equal(t, model.PriorityHigh, tasks[0].Priority)
}

func TestCLI_AddRejectsInvalidInput(t *testing.T) {
	c := newTestCLI(t)

	assert.Equal(t, exitFailure, c.run("add"))
	assert.Contains(t, c.errOut.String(), "Task title is required")

	assert.Equal(t, exitFailure, c.run("add", "-d", "2026-10-01", "Late"))
	assert.Contains(t, c.errOut.String(), "Due date cannot be in the past")

	assert.Equal(t, exitFailure, c.run("add", "-p", "urgent", "Task"))
	assert.Contains(t, c.errOut.String(), "Unknown priority")

	assert.Equal(t, exitUsage, c.run("add", "-x"))
	assert.Empty(t, c.store.List())
}

func TestCLI_ListAndFilter(t *testing.T) {
	c := newTestCLI(t)
	require.Equal(t, exitOK, c.run("add", "-p", "low", "Read", "book"))
	require.Equal(t, exitOK, c.run("add", "-p", "high", "Write", "report"))
	require.Equal(t, exitOK, c.run("done", "2"))

	require.Equal(t, exitOK, c.run("list"))
	assert.Equal(t,
		"All: 2 total, 1 active, 1 completed, 0 overdue\n"+
			"  1. [ ] High   Write report  task-2\n"+
			"  2. [x] Low    Read book  done now  task-1\n",
		c.out.String())

	require.Equal(t, exitOK, c.run("list", "-s", "completed"))
	assert.Contains(t, c.out.String(), "  2. [x] Low    Read book")
	assert.NotContains(t, c.out.String(), "Write report")
	assert.Contains(t, c.out.String(), "Shown: 1 total, 0 active, 1 completed, 0 overdue")

	require.Equal(t, exitOK, c.run("ls", "-q", "REPORT"))
	assert.Contains(t, c.out.String(), "Write report")
	assert.NotContains(t, c.out.String(), "Read book")

	require.Equal(t, exitOK, c.run("list", "-p", "medium"))
	assert.Contains(t, c.out.String(), "No tasks found.")

	assert.Equal(t, exitFailure, c.run("list", "-s", "pending"))
}

func TestCLI_DoneUndo(t *testing.T) {
	c := newTestCLI(t)
	require.Equal(t, exitOK, c.run("add", "One"))
	require.Equal(t, exitOK, c.run("add", "Two"))

	require.Equal(t, exitOK, c.run("done", "1", "2"))
	assert.Equal(t, 2, countCompleted(c.store.List()))
	assert.Contains(t, c.out.String(), "Task completed!")

	require.Equal(t, exitOK, c.run("undo", "task-2"))
	assert.Contains(t, c.out.String(), "Task marked as active")
	assert.Equal(t, 1, countCompleted(c.store.List()))

	assert.Equal(t, exitFailure, c.run("done", "9"))
	assert.Contains(t, c.errOut.String(), "Task not found")

	assert.Equal(t, exitUsage, c.run("done"))
}

func TestCLI_Edit(t *testing.T) {
	c := newTestCLI(t)
	require.Equal(t, exitOK, c.run("add", "-d", "friday", "-n", "keep", "Draft"))

	require.Equal(t, exitOK, c.run("edit", "-t", "Final", "-d", "none", "1"))
	assert.Contains(t, c.out.String(), "Task updated successfully!")

	task := c.store.List()[0]
	assert.Equal(t, "Final", task.Title)
	assert.Equal(t, "keep", task.Description)
	assert.False(t, task.HasDueDate())

	require.Equal(t, exitOK, c.run("edit", "1"))
	assert.Contains(t, c.out.String(), "Nothing to change.")

	assert.Equal(t, exitFailure, c.run("edit", "-t", " ", "1"))
	assert.Equal(t, exitUsage, c.run("edit", "-t", "x"))
}

func TestCLI_FlagsAfterArguments(t *testing.T) {
	c := newTestCLI(t)

	require.Equal(t, exitOK, c.run("add", "Buy", "-p", "high", "milk", "-n", "oat"), c.errOut.String())
	task := c.store.List()[0]
	assert.Equal(t, "Buy milk", task.Title)
	assert.Equal(t, model.PriorityHigh, task.Priority)
	assert.Equal(t, "oat", task.Description)

	require.Equal(t, exitOK, c.run("edit", "1", "-t", "Buy bread"), c.errOut.String())
	assert.Contains(t, c.out.String(), "Task updated successfully!")
	assert.Equal(t, "Buy bread", c.store.List()[0].Title)

	assert.Equal(t, exitUsage, c.run("edit", "1", "2", "-t", "x"))
}

func TestCLI_Clear(t *testing.T) {
	c := newTestCLI(t)
	require.Equal(t, exitOK, c.run("add", "One"))
	require.Equal(t, exitOK, c.run("add", "Two"))

	assert.Equal(t, exitUsage, c.run("clear"))
	assert.Len(t, c.store.List(), 2)

	require.Equal(t, exitOK, c.run("clear", "-y"))
	assert.Equal(t, "Deleted 2 tasks.\n", c.out.String())
	assert.Empty(t, c.store.List())
}

func TestCLI_RemoveAndShow(t *testing.T) {
	c := newTestCLI(t)
	require.Equal(t, exitOK, c.run("add", "-n", "details here", "Keep"))
	require.Equal(t, exitOK, c.run("add", "-p", "high", "Drop"))

	require.Equal(t, exitOK, c.run("show", "2"))
	assert.Contains(t, c.out.String(), "  notes:    details here")

	require.Equal(t, exitOK, c.run("rm", "1"))
	assert.Equal(t, "Task deleted: Drop\n", c.out.String())
	require.Len(t, c.store.List(), 1)
	assert.Equal(t, "Keep", c.store.List()[0].Title)
}

func TestCLI_StatsAndDashboard(t *testing.T) {
	c := newTestCLI(t)
	require.Equal(t, exitOK, c.run("add", "One"))

	require.Equal(t, exitOK, c.run("stats", "-range", "month"))
	assert.Contains(t, c.out.String(), "Analytics (this month)")
	assert.Contains(t, c.out.String(), "Total tasks:        1")

	assert.Equal(t, exitFailure, c.run("stats", "-range", "year"))

	require.Equal(t, exitOK, c.run())
	assert.Contains(t, c.out.String(), "Tasks: 1 total, 1 active, 0 completed, 0 overdue")
	assert.Contains(t, c.out.String(), "Completion rate: 0%")
	assert.Contains(t, c.out.String(), "Up next")
}

func TestCLI_UnknownCommand(t *testing.T) {
	c := newTestCLI(t)
	assert.Equal(t, exitUsage, c.run("fly"))
	assert.Contains(t, c.errOut.String(), `unknown command "fly"`)
}

func countCompleted(tasks []model.Task) int {
	var n int
	for _, t := range tasks {
		if t.Completed {
			n++
		}
	}
	return n
}
