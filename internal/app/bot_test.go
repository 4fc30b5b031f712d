package app

import (
	"context"
	"fmt"
	"testing"
	"time"

	"github.com/go-pkgz/lgr"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/agalitsyn/taskflow/internal/model"
	"github.com/agalitsyn/taskflow/internal/storage/memory"
	"github.com/agalitsyn/taskflow/internal/taskstore"
)

func newTestBot(t *testing.T) (*Bot, *taskstore.Store) {
	t.Helper()
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
	return &Bot{store: store, log: lgr.NoOp, now: clock}, store
}

func TestParseCommand(t *testing.T) {
	command, args, ok := parseCommand("@taskflow_bot /add Buy milk  ", "taskflow_bot")
	assert.True(t, ok)
	assert.Equal(t, "add", command)
	assert.Equal(t, "Buy milk", args)

	command, args, ok = parseCommand("@taskflow_bot /list", "taskflow_bot")
	assert.True(t, ok)
	assert.Equal(t, "list", command)
	assert.Empty(t, args)

	_, _, ok = parseCommand("hello there", "taskflow_bot")
	assert.False(t, ok)

	_, _, ok = parseCommand("@taskflow_bot /", "taskflow_bot")
	assert.False(t, ok)
}

func TestBot_AddAndList(t *testing.T) {
	ctx := context.Background()
	bot, store := newTestBot(t)

	r := bot.handleCommand(ctx, "add", "Buy milk !high due:tomorrow")
	assert.Contains(t, r.text, "Task created successfully!")
	assert.Contains(t, r.text, "🔴 Buy milk · _Tomorrow_")
	require.Len(t, store.List(), 1)

	r = bot.handleCommand(ctx, "add", "Walk the dog !low")
	assert.Contains(t, r.text, "Task created successfully!")

	r = bot.handleCommand(ctx, "list", "")
	assert.Contains(t, r.text, "📋 2 total · 2 active · 0 completed · 0 overdue")
	assert.Contains(t, r.text, "1. 🔴 Buy milk")
	assert.Contains(t, r.text, "2. 🔵 Walk the dog")
	require.NotNil(t, r.keyboard)
	require.Len(t, r.keyboard.InlineKeyboard, 1)
	require.Len(t, r.keyboard.InlineKeyboard[0], 2)
	require.NotNil(t, r.keyboard.InlineKeyboard[0][0].CallbackData)
	assert.Equal(t, "done:task-1", *r.keyboard.InlineKeyboard[0][0].CallbackData)
}

func TestBot_AddInvalid(t *testing.T) {
	bot, store := newTestBot(t)

	r := bot.handleCommand(context.Background(), "add", "   ")
	assert.Equal(t, "⚠️ Task title is required", r.text)
	assert.Empty(t, store.List())
}

func TestBot_DoneUndoRemove(t *testing.T) {
	ctx := context.Background()
	bot, store := newTestBot(t)
	_, err := store.Create(ctx, model.TaskDraft{Title: "Pay rent"})
	require.NoError(t, err)

	r := bot.handleCommand(ctx, "done", "1")
	assert.Contains(t, r.text, "Task completed! 🎉")
	assert.Contains(t, r.text, "☑️ Pay rent")
	assert.True(t, store.List()[0].Completed)

	r = bot.handleCallbackData(ctx, "undo:task-1")
	assert.Contains(t, r.text, "Task marked as active")
	assert.False(t, store.List()[0].Completed)

	r = bot.handleCommand(ctx, "done", "7")
	assert.Contains(t, r.text, "no task at position 7")

	r = bot.handleCommand(ctx, "rm", "task-1")
	assert.Equal(t, "🗑 Task deleted: Pay rent", r.text)
	assert.Empty(t, store.List())
}

func TestBot_ListFilters(t *testing.T) {
	ctx := context.Background()
	bot, store := newTestBot(t)
	for _, draft := range []model.TaskDraft{
		{Title: "Write report", Priority: model.PriorityHigh},
		{Title: "Read book", Priority: model.PriorityLow},
	} {
		_, err := store.Create(ctx, draft)
		require.NoError(t, err)
	}
	_, _, err := store.Complete(ctx, "task-2")
	require.NoError(t, err)

	r := bot.handleCommand(ctx, "list", "completed")
	assert.Contains(t, r.text, "Showing 1 of 2")
	assert.Contains(t, r.text, "2. ☑️ Read book")
	assert.NotContains(t, r.text, "Write report")

	r = bot.handleCommand(ctx, "list", "active low")
	assert.Contains(t, r.text, "No tasks found.")

	r = bot.handleCommand(ctx, "list", "urgent")
	assert.Equal(t, `⚠️ Unknown filter "urgent"`, r.text)

	r = bot.handleCommand(ctx, "search", "REPORT")
	assert.Contains(t, r.text, "1. 🔴 Write report")
	assert.NotContains(t, r.text, "Read book")

	r = bot.handleCallbackData(ctx, "cmd_list")
	assert.Contains(t, r.text, "Write report")
	assert.NotContains(t, r.text, "Read book")
}

func TestBot_Stats(t *testing.T) {
	ctx := context.Background()
	bot, store := newTestBot(t)
	_, err := store.Create(ctx, model.TaskDraft{Title: "A"})
	require.NoError(t, err)

	r := bot.handleCommand(ctx, "stats", "month")
	assert.Contains(t, r.text, "📊 *Analytics* (month)")
	assert.Contains(t, r.text, "Productivity score: 0%")
	assert.Contains(t, r.text, "Total tasks: 1")

	r = bot.handleCommand(ctx, "stats", "year")
	assert.Contains(t, r.text, "Unknown time range")

	r = bot.handleCallbackData(ctx, "cmd_stats")
	assert.Contains(t, r.text, "(week)")
}

func TestBot_UnknownInput(t *testing.T) {
	bot, _ := newTestBot(t)

	assert.Equal(t, "Unknown command. Try /help.", bot.handleCommand(context.Background(), "dance", "").text)
	assert.Equal(t, "Unknown action.", bot.handleCallbackData(context.Background(), "bogus").text)

	help := bot.handleCommand(context.Background(), "help", "")
	assert.Contains(t, help.text, "/add")
	assert.NotNil(t, help.keyboard)
}
