// Package analytics derives productivity summaries from a task collection.
package analytics

import (
	"errors"
	"fmt"
	"math"
	"strings"
	"time"

	"github.com/jinzhu/now"

	"github.com/agalitsyn/taskflow/internal/model"
)

var ErrUnknownRange = errors.New("unknown time range")

type Range string

const (
	RangeWeek  Range = "week"
	RangeMonth Range = "month"
	RangeAll   Range = "all"
)

const (
	activityDays = 7
	monthWeeks   = 4
	recentLimit  = 5
)

func ParseRange(s string) (Range, error) {
	switch r := Range(strings.ToLower(strings.TrimSpace(s))); r {
	case "":
		return RangeWeek, nil
	case RangeWeek, RangeMonth, RangeAll:
		return r, nil
	default:
		return "", fmt.Errorf("%w: %q", ErrUnknownRange, s)
	}
}

type Completion struct {
	Completed int `json:"completed"`
	Pending   int `json:"pending"`
	Total     int `json:"total"`
}

type PriorityDistribution struct {
	High   int `json:"high"`
	Medium int `json:"medium"`
	Low    int `json:"low"`
}

type DayActivity struct {
	Day     time.Time `json:"day"`
	Created int       `json:"created"`
}

// Report is computed over two sets: Completion and Priorities cover tasks
// created within Range, the remaining figures cover the whole collection.
type Report struct {
	Range             Range                `json:"range"`
	Completion        Completion           `json:"completion"`
	Priorities        PriorityDistribution `json:"priorities"`
	Daily             []DayActivity        `json:"daily"`
	Total             int                  `json:"total"`
	ProductivityScore int                  `json:"productivity_score"`
	AvgTasksPerDay    int                  `json:"avg_tasks_per_day"`
}

func Build(tasks []model.Task, r Range, ts time.Time) Report {
	ranged := InRange(tasks, r, ts)
	rep := Report{
		Range:             r,
		Total:             len(tasks),
		Daily:             dailyActivity(tasks, ts),
		ProductivityScore: CompletionRate(tasks),
		AvgTasksPerDay:    avgTasksPerDay(tasks, ts),
		Completion:        Completion{Total: len(ranged)},
	}
	for _, t := range ranged {
		if t.Completed {
			rep.Completion.Completed++
		} else {
			rep.Completion.Pending++
		}
		switch t.Priority {
		case model.PriorityHigh:
			rep.Priorities.High++
		case model.PriorityMedium:
			rep.Priorities.Medium++
		case model.PriorityLow:
			rep.Priorities.Low++
		}
	}
	return rep
}

// InRange keeps tasks created in the current Sunday-based week, within the
// last four weeks, or all of them.
func InRange(tasks []model.Task, r Range, ts time.Time) []model.Task {
	var keep func(created time.Time) bool
	switch r {
	case RangeWeek:
		week := (&now.Config{WeekStartDay: time.Sunday}).With(ts)
		start, end := week.BeginningOfWeek(), week.EndOfWeek()
		keep = func(created time.Time) bool {
			return !created.Before(start) && !created.After(end)
		}
	case RangeMonth:
		start := ts.AddDate(0, 0, -7*monthWeeks)
		keep = func(created time.Time) bool {
			return !created.Before(start)
		}
	default:
		return tasks
	}

	res := make([]model.Task, 0, len(tasks))
	for _, t := range tasks {
		if !t.CreatedAt.IsZero() && keep(t.CreatedAt) {
			res = append(res, t)
		}
	}
	return res
}

// CompletionRate is the share of completed tasks in percent, rounded.
func CompletionRate(tasks []model.Task) int {
	if len(tasks) == 0 {
		return 0
	}
	var completed int
	for _, t := range tasks {
		if t.Completed {
			completed++
		}
	}
	return int(math.Round(float64(completed) / float64(len(tasks)) * 100))
}

func avgTasksPerDay(tasks []model.Task, ts time.Time) int {
	weekAgo := ts.AddDate(0, 0, -activityDays)
	var recent int
	for _, t := range tasks {
		if !t.CreatedAt.IsZero() && !t.CreatedAt.Before(weekAgo) {
			recent++
		}
	}
	return int(math.Round(float64(recent) / activityDays))
}

// dailyActivity counts created tasks per calendar day from a week ago up to
// and including today.
func dailyActivity(tasks []model.Task, ts time.Time) []DayActivity {
	first := now.With(ts.AddDate(0, 0, -activityDays)).BeginningOfDay()
	days := make([]DayActivity, 0, activityDays+1)
	index := make(map[string]int, activityDays+1)
	for d := 0; d <= activityDays; d++ {
		day := first.AddDate(0, 0, d)
		index[day.Format(time.DateOnly)] = d
		days = append(days, DayActivity{Day: day})
	}

	for _, t := range tasks {
		if t.CreatedAt.IsZero() {
			continue
		}
		if i, ok := index[t.CreatedAt.In(ts.Location()).Format(time.DateOnly)]; ok {
			days[i].Created++
		}
	}
	return days
}

type Dashboard struct {
	Counts         model.TaskCounts `json:"counts"`
	CompletionRate int              `json:"completion_rate"`
	Recent         []model.Task     `json:"-"`
}

// BuildDashboard expects tasks in store order; Recent holds the first few.
func BuildDashboard(tasks []model.Task, ts time.Time) Dashboard {
	counts := model.CountTasks(tasks, ts)
	d := Dashboard{Counts: counts, Recent: tasks[:min(recentLimit, len(tasks))]}
	if counts.Total > 0 {
		d.CompletionRate = int(math.Round(float64(counts.Completed) / float64(counts.Total) * 100))
	}
	return d
}
