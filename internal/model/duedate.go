package model

import (
	"time"

	"github.com/jinzhu/now"
)

type DueStatus string

const (
	DueNone     DueStatus = "none"
	DueOverdue  DueStatus = "overdue"
	DueSoon     DueStatus = "soon"
	DueUpcoming DueStatus = "upcoming"
)

var calendar = &now.Config{WeekStartDay: time.Sunday}

// DueStatusAt classifies a due date by calendar day relative to ts. Past
// days are overdue, today and tomorrow are soon.
func DueStatusAt(due, ts time.Time) DueStatus {
	if due.IsZero() {
		return DueNone
	}

	day := calendar.With(due.In(ts.Location())).BeginningOfDay()
	today := calendar.With(ts).BeginningOfDay()
	tomorrow := today.AddDate(0, 0, 1)

	switch {
	case day.Before(today):
		return DueOverdue
	case day.Equal(today), day.Equal(tomorrow):
		return DueSoon
	default:
		return DueUpcoming
	}
}

// FormatDue renders a due date as Today, Tomorrow, a weekday name within the
// current week, or a short month-day otherwise.
func FormatDue(due, ts time.Time) string {
	if due.IsZero() {
		return ""
	}

	due = due.In(ts.Location())
	day := calendar.With(due).BeginningOfDay()
	today := calendar.With(ts).BeginningOfDay()

	switch {
	case day.Equal(today):
		return "Today"
	case day.Equal(today.AddDate(0, 0, 1)):
		return "Tomorrow"
	case calendar.With(due).BeginningOfWeek().Equal(calendar.With(ts).BeginningOfWeek()):
		return due.Weekday().String()
	default:
		return due.Format("Jan 02")
	}
}
