package taskstore

import (
	"encoding/json"
	"fmt"
	"time"

	"github.com/agalitsyn/taskflow/internal/model"
)

// timestampLayout mirrors ISO-8601 with millisecond precision in UTC.
const timestampLayout = "2006-01-02T15:04:05.000Z07:00"

type taskRecord struct {
	ID          string  `json:"id"`
	Title       string  `json:"title"`
	Description string  `json:"description"`
	Priority    string  `json:"priority"`
	DueDate     *string `json:"dueDate"`
	Completed   bool    `json:"completed"`
	CreatedAt   string  `json:"createdAt"`
	CompletedAt *string `json:"completedAt"`
}

func encodeTasks(tasks []model.Task) ([]byte, error) {
	records := make([]taskRecord, 0, len(tasks))
	for _, t := range tasks {
		records = append(records, taskRecord{
			ID:          t.ID,
			Title:       t.Title,
			Description: t.Description,
			Priority:    t.Priority.String(),
			DueDate:     formatOptional(t.DueDate),
			Completed:   t.Completed,
			CreatedAt:   formatTimestamp(t.CreatedAt),
			CompletedAt: formatOptional(t.CompletedAt),
		})
	}
	return json.Marshal(records)
}

func decodeTasks(data []byte) ([]model.Task, error) {
	var records []taskRecord
	if err := json.Unmarshal(data, &records); err != nil {
		return nil, fmt.Errorf("could not unmarshal tasks: %w", err)
	}

	tasks := make([]model.Task, 0, len(records))
	seen := make(map[string]struct{}, len(records))
	for i, r := range records {
		if r.ID == "" {
			return nil, fmt.Errorf("record %d: missing id", i)
		}
		if _, ok := seen[r.ID]; ok {
			continue
		}
		seen[r.ID] = struct{}{}

		t, err := r.toTask()
		if err != nil {
			return nil, fmt.Errorf("record %d (id=%s): %w", i, r.ID, err)
		}
		tasks = append(tasks, t)
	}
	return tasks, nil
}

func (r taskRecord) toTask() (model.Task, error) {
	priority, err := model.ParsePriority(r.Priority)
	if err != nil {
		priority = model.PriorityMedium
	}

	t := model.Task{
		ID:          r.ID,
		Title:       r.Title,
		Description: r.Description,
		Priority:    priority,
		Completed:   r.Completed,
	}

	if t.CreatedAt, err = parseTimestamp(r.CreatedAt); err != nil {
		return model.Task{}, fmt.Errorf("createdAt: %w", err)
	}
	if t.DueDate, err = parseOptional(r.DueDate); err != nil {
		return model.Task{}, fmt.Errorf("dueDate: %w", err)
	}
	if t.CompletedAt, err = parseOptional(r.CompletedAt); err != nil {
		return model.Task{}, fmt.Errorf("completedAt: %w", err)
	}
	switch {
	case !t.Completed:
		t.CompletedAt = time.Time{}
	case t.CompletedAt.IsZero(), t.CompletedAt.Before(t.CreatedAt):
		t.CompletedAt = t.CreatedAt
	}
	return t, nil
}

func formatTimestamp(t time.Time) string {
	return t.UTC().Format(timestampLayout)
}

func formatOptional(t time.Time) *string {
	if t.IsZero() {
		return nil
	}
	s := formatTimestamp(t)
	return &s
}

// parseTimestamp accepts full timestamps and bare calendar dates, the latter
// being what a date input stores.
func parseTimestamp(s string) (time.Time, error) {
	if t, err := time.Parse(time.RFC3339Nano, s); err == nil {
		return t, nil
	}
	t, err := time.ParseInLocation(time.DateOnly, s, time.Local)
	if err != nil {
		return time.Time{}, fmt.Errorf("could not parse %q as ISO-8601", s)
	}
	return t, nil
}

func parseOptional(s *string) (time.Time, error) {
	if s == nil || *s == "" {
		return time.Time{}, nil
	}
	return parseTimestamp(*s)
}
