package view

import (
	"time"

	"github.com/taskflow/taskflow/internal/task"
)

// Statistics aggregates the unfiltered collection for the stats panel.
type Statistics struct {
	// Total is the collection size.
	Total int `json:"total"`

	// Completed counts completed todos.
	Completed int `json:"completed"`

	// Pending is Total minus Completed.
	Pending int `json:"pending"`

	// Overdue counts incomplete todos due strictly before today.
	Overdue int `json:"overdue"`

	// DueToday counts incomplete todos due exactly today.
	DueToday int `json:"dueToday"`

	// CompletionRate is round(100 * Completed / Total); 0 for an empty collection.
	CompletionRate int `json:"completionRate"`

	// PendingByPriority counts incomplete todos per priority. Total over all
	// four priorities.
	PendingByPriority map[task.Priority]int `json:"pendingByPriority"`

	// ByCategory counts all todos per category, completed or not.
	ByCategory map[task.Category]int `json:"byCategory"`
}

// Stats computes aggregate statistics over the unfiltered collection.
//
// Overdue uses the same predicate as the overdue status filter. now supplies
// the evaluation time; callers recompute rather than cache across days.
func Stats(todos []task.Todo, now time.Time) Statistics {
	today := now.Format(task.DueDateLayout)

	s := Statistics{
		Total:             len(todos),
		PendingByPriority: make(map[task.Priority]int, len(task.Priorities)),
		ByCategory:        make(map[task.Category]int, len(task.Categories)),
	}
	for _, p := range task.Priorities {
		s.PendingByPriority[p] = 0
	}
	for _, c := range task.Categories {
		s.ByCategory[c] = 0
	}

	for _, t := range todos {
		if t.Completed {
			s.Completed++
		} else {
			s.PendingByPriority[t.Priority]++
			if t.DueDate == today {
				s.DueToday++
			}
		}
		if isOverdue(t, today) {
			s.Overdue++
		}
		s.ByCategory[t.Category]++
	}

	s.Pending = s.Total - s.Completed
	if s.Total > 0 {
		s.CompletionRate = int(float64(s.Completed)/float64(s.Total)*100 + 0.5)
	}

	return s
}
