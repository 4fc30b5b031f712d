package app

import (
	"errors"
	"fmt"
	"strconv"
	"strings"
	"time"

	"github.com/jinzhu/now"

	"github.com/agalitsyn/taskflow/internal/model"
)

var (
	ErrTaskNotFound   = errors.New("task not found")
	ErrAmbiguousRef   = errors.New("reference matches several tasks")
	ErrInvalidDueDate = errors.New("invalid due date")
)

// maxPosition separates list positions from identifiers, which always start
// with a unix millisecond timestamp.
const maxPosition = 99999

// ResolveTask finds a task by 1-based position in tasks, by exact id or by a
// unique id prefix.
func ResolveTask(tasks []model.Task, ref string) (model.Task, error) {
	ref = strings.TrimSpace(ref)
	if ref == "" {
		return model.Task{}, ErrTaskNotFound
	}

	if n, err := strconv.Atoi(ref); err == nil && n > 0 && n <= maxPosition {
		if n > len(tasks) {
			return model.Task{}, fmt.Errorf("%w: no task at position %d", ErrTaskNotFound, n)
		}
		return tasks[n-1], nil
	}

	var found []model.Task
	for _, t := range tasks {
		if t.ID == ref {
			return t, nil
		}
		if strings.HasPrefix(t.ID, ref) {
			found = append(found, t)
		}
	}
	switch len(found) {
	case 0:
		return model.Task{}, fmt.Errorf("%w: %s", ErrTaskNotFound, ref)
	case 1:
		return found[0], nil
	default:
		return model.Task{}, fmt.Errorf("%w: %s", ErrAmbiguousRef, ref)
	}
}

// ParseDueDate understands "today", "tomorrow", weekday names (the next such
// day) and YYYY-MM-DD. "none" or an empty string clear the date. Dates are
// the beginning of the day in ts's location.
func ParseDueDate(s string, ts time.Time) (time.Time, error) {
	s = strings.ToLower(strings.TrimSpace(s))
	today := now.With(ts).BeginningOfDay()
	switch s {
	case "", "none", "-":
		return time.Time{}, nil
	case "today":
		return today, nil
	case "tomorrow":
		return today.AddDate(0, 0, 1), nil
	}

	for wd := time.Sunday; wd <= time.Saturday; wd++ {
		name := strings.ToLower(wd.String())
		if s == name || s == name[:3] {
			days := (int(wd) - int(today.Weekday()) + 7) % 7
			if days == 0 {
				days = 7
			}
			return today.AddDate(0, 0, days), nil
		}
	}

	d, err := time.ParseInLocation(time.DateOnly, s, ts.Location())
	if err != nil {
		return time.Time{}, fmt.Errorf("%w: %q, want YYYY-MM-DD", ErrInvalidDueDate, s)
	}
	return d, nil
}

// ParseQuickAdd reads a one-line task: words become the title, "!high"
// style tokens set the priority and "due:<date>" sets the due date.
func ParseQuickAdd(text string, ts time.Time) (model.TaskDraft, error) {
	var (
		draft model.TaskDraft
		title []string
	)
	for _, word := range strings.Fields(text) {
		switch {
		case strings.HasPrefix(word, "!") && len(word) > 1:
			p, err := model.ParsePriority(word[1:])
			if err != nil {
				return model.TaskDraft{}, err
			}
			draft.Priority = p
		case strings.HasPrefix(strings.ToLower(word), "due:"):
			due, err := ParseDueDate(word[len("due:"):], ts)
			if err != nil {
				return model.TaskDraft{}, err
			}
			draft.DueDate = due
		default:
			title = append(title, word)
		}
	}

	draft.Title, draft.Description, _ = strings.Cut(strings.Join(title, " "), " -- ")
	draft = draft.Normalize()
	if err := draft.Validate(ts); err != nil {
		return model.TaskDraft{}, err
	}
	return draft, nil
}
