// Package storage provides persistence backends for the TaskFlow todo collection.
//
// Two contracts are defined. Backend is the whole-collection contract every
// implementation satisfies: load the collection, overwrite the collection.
// RemoteBackend extends it with operation-granular writes and a change
// subscription for backends where the durable store is shared and can change
// underneath us. The engine picks the richer path when it is available.
package storage

import (
	"context"

	"github.com/taskflow/taskflow/internal/task"
)

// Backend is the whole-collection persistence contract.
//
// All backends must implement these methods. Save replaces the stored
// collection wholesale; implementations should keep the write atomic so an
// interrupted save never leaves a half-written collection behind.
type Backend interface {
	// Load reads the full todo collection from storage.
	//
	// Returns an empty slice when nothing has been stored yet.
	Load(ctx context.Context) ([]task.Todo, error)

	// Save overwrites the stored collection with todos.
	Save(ctx context.Context, todos []task.Todo) error
}

// RemoteBackend extends Backend with operation-granular writes and change
// notifications. Only the PostgreSQL backend implements this interface;
// local backends persist via whole-collection Save instead.
type RemoteBackend interface {
	Backend

	// InsertTodo stores a new todo and its subtasks.
	InsertTodo(ctx context.Context, todo task.Todo) error

	// UpdateTodo rewrites the todo row's mutable fields. Subtasks are not
	// touched; use ReplaceSubtasks for subtask-set changes.
	UpdateTodo(ctx context.Context, todo task.Todo) error

	// DeleteTodo removes the todo. Its subtasks are removed by cascade.
	DeleteTodo(ctx context.Context, id string) error

	// ReplaceSubtasks deletes the todo's subtask rows and inserts subtasks
	// in order, rewriting every position value.
	ReplaceSubtasks(ctx context.Context, todoID string, subtasks []task.Subtask) error

	// UpdateSubtask rewrites one subtask row's title and completed flag.
	UpdateSubtask(ctx context.Context, subtask task.Subtask) error

	// Subscribe registers onChange to run whenever a row in either table is
	// inserted, updated, or deleted by any writer. The callback receives no
	// payload; subscribers re-fetch the authoritative state instead of
	// patching incrementally.
	//
	// Returns a stop function that cancels the subscription.
	Subscribe(ctx context.Context, onChange func()) (stop func(), err error)
}
