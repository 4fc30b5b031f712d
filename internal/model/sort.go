package model

import (
	"cmp"
	"slices"
)

// CompareTasks orders tasks: incomplete first, then by priority, then tasks
// with a due date (earliest first) before tasks without one, then newest
// first.
func CompareTasks(a, b Task) int {
	if a.Completed != b.Completed {
		if a.Completed {
			return 1
		}
		return -1
	}

	if c := cmp.Compare(a.Priority.Rank(), b.Priority.Rank()); c != 0 {
		return c
	}

	switch {
	case a.HasDueDate() && b.HasDueDate():
		if c := a.DueDate.Compare(b.DueDate); c != 0 {
			return c
		}
	case a.HasDueDate():
		return -1
	case b.HasDueDate():
		return 1
	}

	return b.CreatedAt.Compare(a.CreatedAt)
}

// SortTasks returns a sorted copy; the input is left untouched.
func SortTasks(tasks []Task) []Task {
	sorted := slices.Clone(tasks)
	slices.SortStableFunc(sorted, CompareTasks)
	return sorted
}
