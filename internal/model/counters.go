package model

import "time"

type TaskCounts struct {
	Total     int `json:"total"`
	Active    int `json:"active"`
	Completed int `json:"completed"`
	Overdue   int `json:"overdue"`
}

// CountTasks aggregates tasks as of ts. It is recomputed on every call.
func CountTasks(tasks []Task, ts time.Time) TaskCounts {
	counts := TaskCounts{Total: len(tasks)}
	for _, t := range tasks {
		if t.Completed {
			counts.Completed++
			continue
		}
		counts.Active++
		if t.IsOverdue(ts) {
			counts.Overdue++
		}
	}
	return counts
}
