// Package task defines the TaskFlow entity model.
//
// This package holds the Todo and Subtask data structures, the enumerated
// priority and category domains, and the translation helpers that turn
// loosely shaped records from storage backends into validated entities.
// It has no dependencies on the rest of the module.
package task

import (
	"fmt"
	"strings"
	"time"

	"github.com/google/uuid"
)

// Subtask is a child checklist item owned by exactly one Todo.
//
// The JSON tags use camelCase to match the export format of the web client.
type Subtask struct {
	// ID is a stable identifier; it survives edits that keep the subtask.
	ID string `json:"id"`

	// Title is the subtask text.
	Title string `json:"title"`

	// Completed reports whether the subtask has been checked off.
	Completed bool `json:"completed"`
}

// Todo is a single task record with metadata and ordered subtasks.
type Todo struct {
	// ID is unique among all todos in a collection.
	ID string `json:"id"`

	// Title is the task name. Never empty after trimming whitespace.
	Title string `json:"title"`

	// Description is optional free-form detail text.
	Description string `json:"description"`

	// Completed reports whether the task is done.
	Completed bool `json:"completed"`

	// Priority is one of the Priority constants.
	Priority Priority `json:"priority"`

	// Category is one of the Category constants.
	Category Category `json:"category"`

	// DueDate is an ISO calendar date ("2006-01-02"), or empty for no due date.
	DueDate string `json:"dueDate"`

	// CreatedAt is an ISO 8601 timestamp, immutable after creation.
	CreatedAt string `json:"createdAt"`

	// Subtasks is the ordered subtask list. Insertion order is display order.
	Subtasks []Subtask `json:"subtasks"`
}

// DueDateLayout is the calendar date format used by DueDate.
const DueDateLayout = "2006-01-02"

// NewID returns a fresh unique identifier for a Todo or Subtask.
func NewID() string {
	return uuid.NewString()
}

// Timestamp returns t as an ISO 8601 UTC timestamp with millisecond precision.
//
// Format: "2006-01-02T15:04:05.000Z". This matches the timestamps produced
// by the web client so the two can share a stored collection.
func Timestamp(t time.Time) string {
	return t.UTC().Format("2006-01-02T15:04:05.000") + "Z"
}

// Validate checks the todo's invariants: non-empty trimmed title and known
// priority and category values.
//
// Returns a descriptive error naming the first violated invariant, or nil.
func (t *Todo) Validate() error {
	if strings.TrimSpace(t.Title) == "" {
		return fmt.Errorf("title must not be empty")
	}
	if _, err := ParsePriority(string(t.Priority)); err != nil {
		return err
	}
	if _, err := ParseCategory(string(t.Category)); err != nil {
		return err
	}
	if t.DueDate != "" {
		if _, err := time.ParseInLocation(DueDateLayout, t.DueDate, time.Local); err != nil {
			return fmt.Errorf("invalid due date %q: %w", t.DueDate, err)
		}
	}
	return nil
}

// Clone returns a deep copy of the todo, including its subtask slice.
//
// The engine never hands out or mutates shared sub-objects; every mutation
// works on a clone and replaces the collection entry wholesale.
func (t Todo) Clone() Todo {
	c := t
	if t.Subtasks != nil {
		c.Subtasks = make([]Subtask, len(t.Subtasks))
		copy(c.Subtasks, t.Subtasks)
	}
	return c
}

// CloneAll deep-copies a todo collection.
func CloneAll(todos []Todo) []Todo {
	out := make([]Todo, len(todos))
	for i, t := range todos {
		out[i] = t.Clone()
	}
	return out
}

// IncompleteSubtasks returns the number of subtasks not yet completed.
func (t *Todo) IncompleteSubtasks() int {
	n := 0
	for _, st := range t.Subtasks {
		if !st.Completed {
			n++
		}
	}
	return n
}
