package model

import (
	"errors"
	"fmt"
	"strings"

	"golang.org/x/text/cases"
	"golang.org/x/text/language"
)

var ErrUnknownStatus = errors.New("unknown status filter")

type StatusFilter string

const (
	StatusAll       StatusFilter = "all"
	StatusActive    StatusFilter = "active"
	StatusCompleted StatusFilter = "completed"
)

func ParseStatusFilter(s string) (StatusFilter, error) {
	switch f := StatusFilter(strings.ToLower(strings.TrimSpace(s))); f {
	case "", StatusAll:
		return StatusAll, nil
	case StatusActive, StatusCompleted:
		return f, nil
	default:
		return "", fmt.Errorf("%w: %q", ErrUnknownStatus, s)
	}
}

// PriorityFilter is either PriorityAll or one of the priority names.
type PriorityFilter string

const PriorityAll PriorityFilter = "all"

func ParsePriorityFilter(s string) (PriorityFilter, error) {
	s = strings.ToLower(strings.TrimSpace(s))
	if s == "" || s == string(PriorityAll) {
		return PriorityAll, nil
	}
	p, err := ParsePriority(s)
	if err != nil {
		return "", err
	}
	return PriorityFilter(p), nil
}

// Filter is a conjunction of status, priority and free-text criteria. Empty
// fields match everything.
type Filter struct {
	Status   StatusFilter
	Priority PriorityFilter
	Search   string
}

func (f Filter) Match(t Task) bool {
	return newMatcher(f).match(t)
}

// FilterTasks returns the tasks matching f in their original order.
func FilterTasks(tasks []Task, f Filter) []Task {
	m := newMatcher(f)
	res := make([]Task, 0, len(tasks))
	for _, t := range tasks {
		if m.match(t) {
			res = append(res, t)
		}
	}
	return res
}

type matcher struct {
	filter Filter
	lower cases.Caser
	needle string
}

func newMatcher(f Filter) *matcher {
	m := &matcher{filter: f, lower: cases.Lower(language.Und)}
	if f.Search != "" {
		m.needle = m.lower.String(f.Search)
	}
	return m
}

func (m *matcher) match(t Task) bool {
	return m.matchStatus(t) && m.matchPriority(t) && m.matchSearch(t)
}

func (m *matcher) matchStatus(t Task) bool {
	switch m.filter.Status {
	case "", StatusAll:
		return true
	case StatusActive:
		return !t.Completed
	case StatusCompleted:
		return t.Completed
	default:
		return false
	}
}

func (m *matcher) matchPriority(t Task) bool {
	if m.filter.Priority == "" || m.filter.Priority == PriorityAll {
		return true
	}
	return Priority(m.filter.Priority) == t.Priority
}

func (m *matcher) matchSearch(t Task) bool {
	if m.needle == "" {
		return m.filter.Search == ""
	}
	if strings.Contains(m.lower.String(t.Title), m.needle) {
		return true
	}
	return t.Description != "" && strings.Contains(m.lower.String(t.Description), m.needle)
}
