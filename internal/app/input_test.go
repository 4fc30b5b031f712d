package app

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/agalitsyn/taskflow/internal/model"
)

// Wednesday.
var testNow = time.Date(2026, time.October, 14, 10, 0, 0, 0, time.UTC)

func date(month time.Month, day int) time.Time {
	return time.Date(2026, month, day, 0, 0, 0, 0, time.UTC)
}

func TestResolveTask(t *testing.T) {
	tasks := []model.Task{
		{ID: "1760436000000aaaa"},
		{ID: "1760436000000abcd"},
		{ID: "1760436999999zzzz"},
	}

	tests := []struct {
		ref     string
		want    string
		wantErr error
	}{
		{ref: "1", want: "1760436000000aaaa"},
		{ref: " 3 ", want: "1760436999999zzzz"},
		{ref: "4", wantErr: ErrTaskNotFound},
		{ref: "1760436000000abcd", want: "1760436000000abcd"},
		{ref: "1760436999", want: "1760436999999zzzz"},
		{ref: "1760436000000a", wantErr: ErrAmbiguousRef},
		{ref: "nope", wantErr: ErrTaskNotFound},
		{ref: "", wantErr: ErrTaskNotFound},
	}
	for _, tt := range tests {
		t.Run(tt.ref, func(t *testing.T) {
			got, err := ResolveTask(tasks, tt.ref)
			if tt.wantErr != nil {
				assert.ErrorIs(t, err, tt.wantErr)
				return
			}
			require.NoError(t, err)
			assert.Equal(t, tt.want, got.ID)
		})
	}
}

func TestParseDueDate(t *testing.T) {
	tests := []struct {
		in   string
		want time.Time
	}{
		{in: "", want: time.Time{}},
		{in: "none", want: time.Time{}},
		{in: "today", want: date(time.October, 14)},
		{in: "Tomorrow", want: date(time.October, 15)},
		{in: "fri", want: date(time.October, 16)},
		{in: "monday", want: date(time.October, 19)},
		{in: "wed", want: date(time.October, 21)},
		{in: "2026-12-31", want: date(time.December, 31)},
	}
	for _, tt := range tests {
		t.Run(tt.in, func(t *testing.T) {
			got, err := ParseDueDate(tt.in, testNow)
			require.NoError(t, err)
			assert.Equal(t, tt.want, got)
		})
	}

	_, err := ParseDueDate("next week", testNow)
	assert.ErrorIs(t, err, ErrInvalidDueDate)
}

func TestParseQuickAdd(t *testing.T) {
	draft, err := ParseQuickAdd("Write report !high due:fri -- include Q3 numbers", testNow)
	require.NoError(t, err)
	assert.Equal(t, "Write report", draft.Title)
	assert.Equal(t, "include Q3 numbers", draft.Description)
	assert.Equal(t, model.PriorityHigh, draft.Priority)
	assert.Equal(t, date(time.October, 16), draft.DueDate)

	draft, err = ParseQuickAdd("  buy milk  ", testNow)
	require.NoError(t, err)
	assert.Equal(t, "buy milk", draft.Title)
	assert.Equal(t, model.PriorityMedium, draft.Priority)
	assert.True(t, draft.DueDate.IsZero())
}

func TestParseQuickAdd_Errors(t *testing.T) {
	_, err := ParseQuickAdd("!low due:today", testNow)
	assert.ErrorIs(t, err, model.ErrTitleRequired)

	_, err = ParseQuickAdd("task !urgent", testNow)
	assert.ErrorIs(t, err, model.ErrUnknownPriority)

	_, err = ParseQuickAdd("task due:2026-10-01", testNow)
	assert.ErrorIs(t, err, model.ErrDueDateInPast)

	_, err = ParseQuickAdd("task due:someday", testNow)
	assert.ErrorIs(t, err, ErrInvalidDueDate)
}
