package task

import (
	"encoding/json"
	"fmt"
	"strings"
	"time"
)

// DecodeLooseTodos extracts validated todos from a loosely shaped JSON array.
//
// Storage exports and external tools produce records with missing fields,
// unexpected types, or enum values outside the entity model. This filter
// normalizes what it can and drops what it cannot:
//   - records without a usable title are dropped
//   - unknown priority values fall back to medium, unknown categories to personal
//   - missing ids (todo or subtask) are replaced with fresh ones
//   - missing createdAt is set to now
//   - unparseable due dates are cleared
//
// Input that is not a JSON array at all is an error, not an empty
// collection: callers overwrite storage with the result, so leniency here
// would turn a malformed export into data loss.
func DecodeLooseTodos(raw json.RawMessage, now time.Time) ([]Todo, error) {
	if len(raw) == 0 {
		return nil, fmt.Errorf("empty input, expected a JSON array")
	}

	var records []map[string]any
	if err := json.Unmarshal(raw, &records); err != nil {
		return nil, fmt.Errorf("input is not a JSON array of todo records: %w", err)
	}

	todos := make([]Todo, 0, len(records))
	for _, rec := range records {
		todo, ok := normalizeRecord(rec, now)
		if !ok {
			continue
		}
		todos = append(todos, todo)
	}
	return todos, nil
}

// normalizeRecord maps one loose record into a valid Todo.
// Returns false when the record has no usable title.
func normalizeRecord(rec map[string]any, now time.Time) (Todo, bool) {
	title := strings.TrimSpace(looseString(rec["title"]))
	if title == "" {
		return Todo{}, false
	}

	todo := Todo{
		ID:          looseString(rec["id"]),
		Title:       title,
		Description: looseString(rec["description"]),
		Completed:   looseBool(rec["completed"]),
		DueDate:     looseString(rec["dueDate"]),
		CreatedAt:   looseString(rec["createdAt"]),
		Subtasks:    make([]Subtask, 0),
	}

	if todo.ID == "" {
		todo.ID = NewID()
	}
	if todo.CreatedAt == "" {
		todo.CreatedAt = Timestamp(now)
	}

	// Normalize enums, falling back instead of propagating unknown values.
	if p, err := ParsePriority(looseString(rec["priority"])); err == nil {
		todo.Priority = p
	} else {
		todo.Priority = PriorityMedium
	}
	if c, err := ParseCategory(looseString(rec["category"])); err == nil {
		todo.Category = c
	} else {
		todo.Category = CategoryPersonal
	}

	if todo.DueDate != "" {
		if _, err := time.ParseInLocation(DueDateLayout, todo.DueDate, time.Local); err != nil {
			todo.DueDate = ""
		}
	}

	if rawSubtasks, ok := rec["subtasks"].([]any); ok {
		for _, rawSt := range rawSubtasks {
			st, ok := rawSt.(map[string]any)
			if !ok {
				continue
			}
			stTitle := strings.TrimSpace(looseString(st["title"]))
			if stTitle == "" {
				continue
			}
			id := looseString(st["id"])
			if id == "" {
				id = NewID()
			}
			todo.Subtasks = append(todo.Subtasks, Subtask{
				ID:        id,
				Title:     stTitle,
				Completed: looseBool(st["completed"]),
			})
		}
	}

	return todo, true
}

// looseString converts an arbitrary JSON value to a string.
// Non-string scalars are formatted; nil becomes empty.
func looseString(v any) string {
	switch val := v.(type) {
	case nil:
		return ""
	case string:
		return val
	default:
		return fmt.Sprintf("%v", val)
	}
}

// looseBool reads a JSON boolean, treating anything else as false.
func looseBool(v any) bool {
	b, _ := v.(bool)
	return b
}
