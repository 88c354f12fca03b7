package engine

import "fmt"

// ValidationError reports input rejected at the mutation boundary before any
// persistence attempt. The collection is unchanged.
type ValidationError struct {
	// Reason is a human-readable description of the violated rule.
	Reason string
}

func (e *ValidationError) Error() string {
	return "validation failed: " + e.Reason
}

// NotFoundError reports an operation referencing an id absent from the
// collection. Bulk operations never produce this; they skip stale ids.
type NotFoundError struct {
	// Kind is the entity kind: "todo" or "subtask".
	Kind string

	// ID is the missing identifier.
	ID string
}

func (e *NotFoundError) Error() string {
	return fmt.Sprintf("%s not found: %s", e.Kind, e.ID)
}

// PersistenceError reports a failed durable read or write. The in-memory
// collection is left unchanged when the failure happened before any local
// mutation, or reconciled by a follow-up reload when the remote effect is
// ambiguous.
type PersistenceError struct {
	// Op names the failed operation, e.g. "save" or "insert todo".
	Op string

	// Err is the underlying backend error.
	Err error
}

func (e *PersistenceError) Error() string {
	return fmt.Sprintf("persistence failed during %s: %v", e.Op, e.Err)
}

func (e *PersistenceError) Unwrap() error {
	return e.Err
}

// validationf builds a ValidationError from a format string.
func validationf(format string, args ...any) error {
	return &ValidationError{Reason: fmt.Sprintf(format, args...)}
}

// persistencef wraps a backend error with the operation that failed.
func persistencef(op string, err error) error {
	return &PersistenceError{Op: op, Err: err}
}
