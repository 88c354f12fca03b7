// Package view derives display projections from the canonical todo
// collection.
//
// Everything here is a pure function of its inputs: the same collection and
// query always produce the same ordered result, and nothing is cached across
// calls. "Today" is derived from the supplied evaluation time in the local
// time zone, so overdue classification stays correct across day boundaries.
package view

import (
	"sort"
	"strings"
	"time"

	"golang.org/x/text/collate"
	"golang.org/x/text/language"

	"github.com/taskflow/taskflow/internal/task"
)

// Status filters todos by completion state.
type Status string

// Status filter values.
const (
	StatusAll       Status = "all"
	StatusActive    Status = "active"
	StatusCompleted Status = "completed"
	StatusOverdue   Status = "overdue"
)

// Sort selects the ordering of the projected list.
type Sort string

// Sort keys.
const (
	SortCreated      Sort = "created"
	SortPriority     Sort = "priority"
	SortDueDate      Sort = "dueDate"
	SortAlphabetical Sort = "alphabetical"
)

// Query holds the user-chosen view parameters.
//
// Zero values mean "no filtering": empty search text, empty or "all" status,
// priority, and category, and the created sort.
type Query struct {
	// Search is matched case-insensitively against title and description.
	Search string

	// Status filters by completion state; empty means all.
	Status Status

	// Priority filters to one priority value; empty or "all" means all.
	Priority string

	// Category filters to one category value; empty or "all" means all.
	Category string

	// Sort orders the result; empty means created (newest first).
	Sort Sort
}

// Project derives the filtered, searched, and sorted todo list.
//
// The pipeline applies search, then status, priority, and category filters,
// then a stable sort. The input slice is not modified. now supplies the
// evaluation time for overdue classification.
func Project(todos []task.Todo, q Query, now time.Time) []task.Todo {
	today := now.Format(task.DueDateLayout)

	result := make([]task.Todo, 0, len(todos))
	search := strings.ToLower(strings.TrimSpace(q.Search))
	for _, t := range todos {
		if search != "" &&
			!strings.Contains(strings.ToLower(t.Title), search) &&
			!strings.Contains(strings.ToLower(t.Description), search) {
			continue
		}
		if !matchesStatus(t, q.Status, today) {
			continue
		}
		if q.Priority != "" && q.Priority != "all" && string(t.Priority) != q.Priority {
			continue
		}
		if q.Category != "" && q.Category != "all" && string(t.Category) != q.Category {
			continue
		}
		result = append(result, t)
	}

	sortTodos(result, q.Sort)
	return result
}

// Compute is Project evaluated at the current time.
func Compute(todos []task.Todo, q Query) []task.Todo {
	return Project(todos, q, time.Now())
}

// matchesStatus applies the status filter predicate.
func matchesStatus(t task.Todo, status Status, today string) bool {
	switch status {
	case StatusActive:
		return !t.Completed
	case StatusCompleted:
		return t.Completed
	case StatusOverdue:
		return isOverdue(t, today)
	default:
		return true
	}
}

// isOverdue reports whether t is incomplete with a due date strictly before
// today. ISO calendar dates compare correctly as strings.
func isOverdue(t task.Todo, today string) bool {
	return !t.Completed && t.DueDate != "" && t.DueDate < today
}

// sortTodos orders todos in place with a stable sort, so ties keep their
// relative input order.
func sortTodos(todos []task.Todo, key Sort) {
	switch key {
	case SortPriority:
		sort.SliceStable(todos, func(i, j int) bool {
			return todos[i].Priority.Rank() < todos[j].Priority.Rank()
		})
	case SortDueDate:
		// Empty due dates sort after all dated todos.
		sort.SliceStable(todos, func(i, j int) bool {
			if todos[i].DueDate == "" {
				return false
			}
			if todos[j].DueDate == "" {
				return true
			}
			return todos[i].DueDate < todos[j].DueDate
		})
	case SortAlphabetical:
		c := collate.New(language.Und, collate.IgnoreCase)
		sort.SliceStable(todos, func(i, j int) bool {
			return c.CompareString(todos[i].Title, todos[j].Title) < 0
		})
	default: // SortCreated: newest first
		sort.SliceStable(todos, func(i, j int) bool {
			return todos[i].CreatedAt > todos[j].CreatedAt
		})
	}
}
