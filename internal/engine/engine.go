// Package engine owns the canonical in-memory todo collection and keeps it
// synchronized with a storage backend.
//
// Every mutation goes through an Engine operation: the operation validates
// its input, writes durably, and only then updates the canonical collection.
// With a whole-collection backend the engine saves a mutated copy and
// installs it on success, so a failed write leaves local state untouched.
// With a remote backend writes are operation-granular and the collection is
// refreshed from authoritative remote state after every acknowledged write.
//
// The engine never silently force-completes subtasks: completing a todo that
// still has incomplete subtasks is a two-step operation driven by a
// CompletionPrompt (see ToggleComplete and CompleteWithSubtasks).
package engine

import (
	"context"
	"strings"
	"sync"
	"time"

	"github.com/taskflow/taskflow/internal/storage"
	"github.com/taskflow/taskflow/internal/task"
)

// CompletionPrompt is a pending cascade-completion confirmation.
//
// Returned by ToggleComplete when the target todo has incomplete subtasks.
// Nothing has changed yet; the caller either confirms by invoking
// CompleteWithSubtasks with the same id, or cancels by dropping the prompt.
type CompletionPrompt struct {
	// TodoID identifies the todo awaiting confirmation.
	TodoID string `json:"todoId"`

	// Title is the todo's title, for display in the confirmation dialog.
	Title string `json:"title"`

	// IncompleteCount is the number of subtasks still incomplete.
	IncompleteCount int `json:"incompleteCount"`

	// TotalCount is the total number of subtasks.
	TotalCount int `json:"totalCount"`
}

// Update is a partial todo update for Edit.
//
// Nil fields are left unchanged. The todo's id and creation timestamp are
// not expressible here and therefore immutable. A non-nil Subtasks slice
// fully replaces the existing subtask sequence; callers preserve the ids of
// surviving subtasks and leave new entries' ids empty for the engine to fill.
type Update struct {
	Title       *string
	Description *string
	Priority    *task.Priority
	Category    *task.Category
	DueDate     *string
	Subtasks    []task.Subtask
}

// Engine holds the canonical todo collection and its backend.
//
// Collection order is newest-first storage order; display order is the view
// projector's concern. A mutex guards the collection because remote change
// notifications arrive on the subscription goroutine.
type Engine struct {
	mu      sync.Mutex
	backend storage.Backend
	remote  storage.RemoteBackend // non-nil when backend is operation-granular
	todos   []task.Todo

	seed    bool
	now     func() time.Time
	stopSub func()
}

// Option configures an Engine.
type Option func(*Engine)

// WithSeed makes Load populate an empty collection with the onboarding
// sample todos.
func WithSeed() Option {
	return func(e *Engine) { e.seed = true }
}

// WithClock overrides the engine's time source. Tests use this to pin
// creation timestamps.
func WithClock(now func() time.Time) Option {
	return func(e *Engine) { e.now = now }
}

// New creates an Engine on top of backend.
//
// If backend also implements storage.RemoteBackend, mutations use the
// operation-granular path with refresh-after-write.
func New(backend storage.Backend, opts ...Option) *Engine {
	e := &Engine{
		backend: backend,
		todos:   make([]task.Todo, 0),
		now:     time.Now,
	}
	if remote, ok := backend.(storage.RemoteBackend); ok {
		e.remote = remote
	}
	for _, opt := range opts {
		opt(e)
	}
	return e
}

// Load hydrates the canonical collection from the backend.
//
// With WithSeed, an empty collection is seeded with sample todos and the
// seed is persisted.
func (e *Engine) Load(ctx context.Context) error {
	todos, err := e.backend.Load(ctx)
	if err != nil {
		return persistencef("load", err)
	}

	if len(todos) == 0 && e.seed {
		now := e.now()
		todos = task.SampleTodos(task.Timestamp(now), now.Format(task.DueDateLayout))
		if err := e.backend.Save(ctx, todos); err != nil {
			return persistencef("seed", err)
		}
	}

	e.mu.Lock()
	e.todos = todos
	e.mu.Unlock()
	return nil
}

// StartSync subscribes to remote change notifications and refreshes the
// collection wholesale whenever one arrives. No-op for local backends.
//
// The subscription lives until Close or ctx cancellation.
func (e *Engine) StartSync(ctx context.Context) error {
	if e.remote == nil {
		return nil
	}

	stop, err := e.remote.Subscribe(ctx, func() {
		// Last-received-wins: replace the collection with remote state.
		_ = e.Load(context.Background())
	})
	if err != nil {
		return persistencef("subscribe", err)
	}
	e.stopSub = stop
	return nil
}

// Close tears down the remote subscription, if any.
func (e *Engine) Close() {
	if e.stopSub != nil {
		e.stopSub()
		e.stopSub = nil
	}
}

// Todos returns a deep copy of the canonical collection.
func (e *Engine) Todos() []task.Todo {
	e.mu.Lock()
	defer e.mu.Unlock()
	return task.CloneAll(e.todos)
}

// Add validates todo and prepends it to the collection.
//
// A missing id or creation timestamp is filled in; subtasks without ids get
// fresh ones. Returns the stored todo. Fails with a ValidationError for an
// empty title or unknown enum value, or a PersistenceError when the durable
// write fails, in which case the collection is unchanged.
func (e *Engine) Add(ctx context.Context, todo task.Todo) (task.Todo, error) {
	todo.Title = strings.TrimSpace(todo.Title)
	if todo.ID == "" {
		todo.ID = task.NewID()
	}
	if todo.CreatedAt == "" {
		todo.CreatedAt = task.Timestamp(e.now())
	}
	// Copy before normalizing; the caller keeps ownership of its slice.
	subtasks := make([]task.Subtask, len(todo.Subtasks))
	copy(subtasks, todo.Subtasks)
	todo.Subtasks = subtasks
	for i := range todo.Subtasks {
		todo.Subtasks[i].Title = strings.TrimSpace(todo.Subtasks[i].Title)
		if todo.Subtasks[i].ID == "" {
			todo.Subtasks[i].ID = task.NewID()
		}
	}

	if err := todo.Validate(); err != nil {
		return task.Todo{}, &ValidationError{Reason: err.Error()}
	}

	if e.remote != nil {
		if err := e.remote.InsertTodo(ctx, todo); err != nil {
			return task.Todo{}, persistencef("insert todo", err)
		}
		if err := e.Load(ctx); err != nil {
			return task.Todo{}, err
		}
		return todo, nil
	}

	e.mu.Lock()
	defer e.mu.Unlock()

	next := append([]task.Todo{todo.Clone()}, task.CloneAll(e.todos)...)
	if err := e.backend.Save(ctx, next); err != nil {
		return task.Todo{}, persistencef("save", err)
	}
	e.todos = next
	return todo, nil
}

// ToggleComplete flips the completed flag of the todo matching id.
//
// Completing a todo that still has incomplete subtasks is not performed:
// instead a CompletionPrompt is returned and nothing changes. A nil prompt
// with a nil error means the toggle was applied. Un-completing is always
// legal and never touches subtasks.
func (e *Engine) ToggleComplete(ctx context.Context, id string) (*CompletionPrompt, error) {
	e.mu.Lock()
	i := e.indexOf(id)
	if i < 0 {
		e.mu.Unlock()
		return nil, &NotFoundError{Kind: "todo", ID: id}
	}
	todo := e.todos[i].Clone()
	e.mu.Unlock()

	if !todo.Completed {
		if incomplete := todo.IncompleteSubtasks(); incomplete > 0 {
			return &CompletionPrompt{
				TodoID:          todo.ID,
				Title:           todo.Title,
				IncompleteCount: incomplete,
				TotalCount:      len(todo.Subtasks),
			}, nil
		}
	}

	todo.Completed = !todo.Completed

	if e.remote != nil {
		if err := e.remote.UpdateTodo(ctx, todo); err != nil {
			return nil, persistencef("update todo", err)
		}
		return nil, e.Load(ctx)
	}

	return nil, e.replaceLocal(ctx, todo)
}

// CompleteWithSubtasks marks the todo and every one of its subtasks
// completed in one logical update. This is the confirmed resolution of a
// CompletionPrompt. Idempotent: an already-completed todo is a no-op.
func (e *Engine) CompleteWithSubtasks(ctx context.Context, id string) error {
	e.mu.Lock()
	i := e.indexOf(id)
	if i < 0 {
		e.mu.Unlock()
		return &NotFoundError{Kind: "todo", ID: id}
	}
	todo := e.todos[i].Clone()
	e.mu.Unlock()

	if todo.Completed {
		return nil
	}

	todo.Completed = true
	for j := range todo.Subtasks {
		todo.Subtasks[j].Completed = true
	}

	if e.remote != nil {
		if err := e.remote.UpdateTodo(ctx, todo); err != nil {
			return persistencef("update todo", err)
		}
		if err := e.remote.ReplaceSubtasks(ctx, todo.ID, todo.Subtasks); err != nil {
			// The todo row is already updated; reload to reconcile whatever landed.
			_ = e.Load(ctx)
			return persistencef("replace subtasks", err)
		}
		return e.Load(ctx)
	}

	return e.replaceLocal(ctx, todo)
}

// Delete removes the todo matching id together with its subtasks.
func (e *Engine) Delete(ctx context.Context, id string) error {
	e.mu.Lock()
	i := e.indexOf(id)
	e.mu.Unlock()
	if i < 0 {
		return &NotFoundError{Kind: "todo", ID: id}
	}

	if e.remote != nil {
		if err := e.remote.DeleteTodo(ctx, id); err != nil {
			return persistencef("delete todo", err)
		}
		return e.Load(ctx)
	}

	e.mu.Lock()
	defer e.mu.Unlock()

	next := make([]task.Todo, 0, len(e.todos))
	for _, t := range e.todos {
		if t.ID != id {
			next = append(next, t.Clone())
		}
	}
	if err := e.backend.Save(ctx, next); err != nil {
		return persistencef("save", err)
	}
	e.todos = next
	return nil
}

// Edit merges update into the todo matching id.
//
// A non-nil Subtasks slice fully replaces the subtask sequence; surviving
// subtasks keep their caller-provided ids and new entries get fresh ones.
// An empty-after-trim title in the update is rejected with no state change.
func (e *Engine) Edit(ctx context.Context, id string, update Update) error {
	e.mu.Lock()
	i := e.indexOf(id)
	if i < 0 {
		e.mu.Unlock()
		return &NotFoundError{Kind: "todo", ID: id}
	}
	todo := e.todos[i].Clone()
	e.mu.Unlock()

	if update.Title != nil {
		title := strings.TrimSpace(*update.Title)
		if title == "" {
			return validationf("title must not be empty")
		}
		todo.Title = title
	}
	if update.Description != nil {
		todo.Description = *update.Description
	}
	if update.Priority != nil {
		todo.Priority = *update.Priority
	}
	if update.Category != nil {
		todo.Category = *update.Category
	}
	if update.DueDate != nil {
		todo.DueDate = *update.DueDate
	}
	subtasksReplaced := update.Subtasks != nil
	if subtasksReplaced {
		subtasks := make([]task.Subtask, len(update.Subtasks))
		copy(subtasks, update.Subtasks)
		for j := range subtasks {
			subtasks[j].Title = strings.TrimSpace(subtasks[j].Title)
			if subtasks[j].ID == "" {
				subtasks[j].ID = task.NewID()
			}
		}
		todo.Subtasks = subtasks
	}

	if err := todo.Validate(); err != nil {
		return &ValidationError{Reason: err.Error()}
	}

	if e.remote != nil {
		if err := e.remote.UpdateTodo(ctx, todo); err != nil {
			return persistencef("update todo", err)
		}
		if subtasksReplaced {
			if err := e.remote.ReplaceSubtasks(ctx, todo.ID, todo.Subtasks); err != nil {
				_ = e.Load(ctx)
				return persistencef("replace subtasks", err)
			}
		}
		return e.Load(ctx)
	}

	return e.replaceLocal(ctx, todo)
}

// ToggleSubtask flips one subtask's completed flag.
//
// Rejected with a ValidationError when the parent todo is already completed,
// so subtask state can never drift inconsistent underneath a completed
// parent. Unknown todo or subtask ids report a NotFoundError.
func (e *Engine) ToggleSubtask(ctx context.Context, todoID, subtaskID string) error {
	e.mu.Lock()
	i := e.indexOf(todoID)
	if i < 0 {
		e.mu.Unlock()
		return &NotFoundError{Kind: "todo", ID: todoID}
	}
	todo := e.todos[i].Clone()
	e.mu.Unlock()

	if todo.Completed {
		return validationf("cannot toggle subtasks of completed todo %q", todo.Title)
	}

	var target *task.Subtask
	for j := range todo.Subtasks {
		if todo.Subtasks[j].ID == subtaskID {
			target = &todo.Subtasks[j]
			break
		}
	}
	if target == nil {
		return &NotFoundError{Kind: "subtask", ID: subtaskID}
	}
	target.Completed = !target.Completed

	if e.remote != nil {
		if err := e.remote.UpdateSubtask(ctx, *target); err != nil {
			return persistencef("update subtask", err)
		}
		return e.Load(ctx)
	}

	return e.replaceLocal(ctx, todo)
}

// BulkComplete marks every todo in ids completed. Ids absent from the
// collection are silently skipped; selection sets may be stale. Subtasks are
// not touched, matching single-todo plain toggles.
func (e *Engine) BulkComplete(ctx context.Context, ids []string) error {
	idSet := toSet(ids)

	if e.remote != nil {
		e.mu.Lock()
		targets := make([]task.Todo, 0, len(idSet))
		for _, t := range e.todos {
			if idSet[t.ID] && !t.Completed {
				c := t.Clone()
				c.Completed = true
				targets = append(targets, c)
			}
		}
		e.mu.Unlock()

		for _, t := range targets {
			if err := e.remote.UpdateTodo(ctx, t); err != nil {
				_ = e.Load(ctx)
				return persistencef("update todo", err)
			}
		}
		return e.Load(ctx)
	}

	e.mu.Lock()
	defer e.mu.Unlock()

	next := task.CloneAll(e.todos)
	for i := range next {
		if idSet[next[i].ID] {
			next[i].Completed = true
		}
	}
	if err := e.backend.Save(ctx, next); err != nil {
		return persistencef("save", err)
	}
	e.todos = next
	return nil
}

// BulkDelete removes every todo in ids. Ids absent from the collection are
// silently skipped.
func (e *Engine) BulkDelete(ctx context.Context, ids []string) error {
	idSet := toSet(ids)

	if e.remote != nil {
		e.mu.Lock()
		targets := make([]string, 0, len(idSet))
		for _, t := range e.todos {
			if idSet[t.ID] {
				targets = append(targets, t.ID)
			}
		}
		e.mu.Unlock()

		for _, id := range targets {
			if err := e.remote.DeleteTodo(ctx, id); err != nil {
				_ = e.Load(ctx)
				return persistencef("delete todo", err)
			}
		}
		return e.Load(ctx)
	}

	e.mu.Lock()
	defer e.mu.Unlock()

	next := make([]task.Todo, 0, len(e.todos))
	for _, t := range e.todos {
		if !idSet[t.ID] {
			next = append(next, t.Clone())
		}
	}
	if err := e.backend.Save(ctx, next); err != nil {
		return persistencef("save", err)
	}
	e.todos = next
	return nil
}

// indexOf returns the position of id in the collection, or -1.
// Callers must hold e.mu.
func (e *Engine) indexOf(id string) int {
	for i := range e.todos {
		if e.todos[i].ID == id {
			return i
		}
	}
	return -1
}

// replaceLocal swaps the collection entry matching todo.ID for todo, saves
// the whole collection, and installs it only when the save succeeds.
func (e *Engine) replaceLocal(ctx context.Context, todo task.Todo) error {
	e.mu.Lock()
	defer e.mu.Unlock()

	i := e.indexOf(todo.ID)
	if i < 0 {
		return &NotFoundError{Kind: "todo", ID: todo.ID}
	}

	next := task.CloneAll(e.todos)
	next[i] = todo.Clone()
	if err := e.backend.Save(ctx, next); err != nil {
		return persistencef("save", err)
	}
	e.todos = next
	return nil
}

func toSet(ids []string) map[string]bool {
	set := make(map[string]bool, len(ids))
	for _, id := range ids {
		set[id] = true
	}
	return set
}
