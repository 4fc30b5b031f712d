package model

import (
	"errors"
	"strings"
	"time"

	"github.com/jinzhu/now"
)

var (
	ErrTitleRequired = errors.New("task title is required")
	ErrDueDateInPast = errors.New("due date cannot be in the past")
)

// Task is a single user-managed work item. Zero DueDate and CompletedAt mean
// the value is absent.
type Task struct {
	ID          string
	Title       string
	Description string
	Priority    Priority
	DueDate     time.Time
	Completed   bool
	CreatedAt   time.Time
	CompletedAt time.Time
}

func NewTask(id string, draft TaskDraft, createdAt time.Time) Task {
	draft = draft.Normalize()
	return Task{
		ID:          id,
		Title:       draft.Title,
		Description: draft.Description,
		Priority:    draft.Priority,
		DueDate:     draft.DueDate,
		CreatedAt:   createdAt,
	}
}

func (t Task) HasDueDate() bool {
	return !t.DueDate.IsZero()
}

// IsOverdue reports whether an active task's due date is before ts.
func (t Task) IsOverdue(ts time.Time) bool {
	return !t.Completed && t.HasDueDate() && t.DueDate.Before(ts)
}

func (t *Task) Complete(at time.Time) {
	t.Completed = true
	t.CompletedAt = at
}

func (t *Task) Uncomplete() {
	t.Completed = false
	t.CompletedAt = time.Time{}
}

// Apply merges the fields set in p. ID, CreatedAt and completion state are
// never touched.
func (t *Task) Apply(p TaskPatch) {
	p = p.Normalize()
	if p.Title != nil {
		t.Title = *p.Title
	}
	if p.Description != nil {
		t.Description = *p.Description
	}
	if p.Priority != nil {
		t.Priority = *p.Priority
	}
	if p.DueDate != nil {
		t.DueDate = *p.DueDate
	}
}

// TaskDraft is the user input for a new task.
type TaskDraft struct {
	Title       string
	Description string
	Priority    Priority
	DueDate     time.Time
}

func (d TaskDraft) Normalize() TaskDraft {
	d.Title = strings.TrimSpace(d.Title)
	d.Description = strings.TrimSpace(d.Description)
	if d.Priority == "" {
		d.Priority = PriorityMedium
	}
	return d
}

// Validate checks the draft at entry time. A due date is accepted when it
// falls on today or later.
func (d TaskDraft) Validate(ts time.Time) error {
	d = d.Normalize()
	if d.Title == "" {
		return ErrTitleRequired
	}
	if !d.Priority.Valid() {
		return ErrUnknownPriority
	}
	return validateDueDate(d.DueDate, ts)
}

// TaskPatch holds the fields to change. A nil field is left as is; a DueDate
// pointing at the zero time clears the due date.
type TaskPatch struct {
	Title       *string
	Description *string
	Priority    *Priority
	DueDate     *time.Time
}

func (p TaskPatch) IsEmpty() bool {
	return p.Title == nil && p.Description == nil && p.Priority == nil && p.DueDate == nil
}

func (p TaskPatch) Normalize() TaskPatch {
	if p.Title != nil {
		title := strings.TrimSpace(*p.Title)
		p.Title = &title
	}
	if p.Description != nil {
		description := strings.TrimSpace(*p.Description)
		p.Description = &description
	}
	return p
}

func (p TaskPatch) Validate(ts time.Time) error {
	p = p.Normalize()
	if p.Title != nil && *p.Title == "" {
		return ErrTitleRequired
	}
	if p.Priority != nil && !p.Priority.Valid() {
		return ErrUnknownPriority
	}
	if p.DueDate != nil {
		return validateDueDate(*p.DueDate, ts)
	}
	return nil
}

func validateDueDate(due, ts time.Time) error {
	if due.IsZero() {
		return nil
	}
	if due.Before(now.With(ts).BeginningOfDay()) {
		return ErrDueDateInPast
	}
	return nil
}
