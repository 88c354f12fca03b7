package mcpserver

import (
	"context"
	"encoding/json"
	"path/filepath"
	"strings"
	"testing"

	"github.com/mark3labs/mcp-go/mcp"

	"github.com/taskflow/taskflow/internal/engine"
	"github.com/taskflow/taskflow/internal/storage"
	"github.com/taskflow/taskflow/internal/task"
)

// ===========================================================================
// Helpers
// ===========================================================================

// newTestManager builds a TaskManager on a JSON backend in a temp directory.
func newTestManager(t *testing.T) *TaskManager {
	t.Helper()

	backend := storage.NewJSONBackend(filepath.Join(t.TempDir(), "todos.json"))
	eng := engine.New(backend)
	if err := eng.Load(context.Background()); err != nil {
		t.Fatalf("engine.Load() error = %v", err)
	}
	return NewTaskManager(eng)
}

// makeRequest creates a CallToolRequest with the given tool name and
// arguments.
func makeRequest(name string, args map[string]any) mcp.CallToolRequest {
	return mcp.CallToolRequest{
		Params: mcp.CallToolParams{
			Name:      name,
			Arguments: args,
		},
	}
}

// resultText extracts the text content from the first Content element of a
// CallToolResult. It calls t.Fatal if the result is nil or has no content.
func resultText(t *testing.T, result *mcp.CallToolResult) string {
	t.Helper()
	if result == nil {
		t.Fatal("result is nil")
	}
	if len(result.Content) == 0 {
		t.Fatal("result has no Content elements")
	}
	tc, ok := result.Content[0].(mcp.TextContent)
	if !ok {
		t.Fatalf("result.Content[0] is %T, want mcp.TextContent", result.Content[0])
	}
	return tc.Text
}

// addTask adds a task via HandleAddTask and returns the stored task decoded
// from the result JSON.
func addTask(t *testing.T, m *TaskManager, args map[string]any) task.Todo {
	t.Helper()

	result, err := m.HandleAddTask(context.Background(), makeRequest("add_task", args))
	if err != nil {
		t.Fatalf("HandleAddTask() error = %v", err)
	}
	if result.IsError {
		t.Fatalf("HandleAddTask() IsError = true, text = %q", resultText(t, result))
	}

	var stored task.Todo
	if err := json.Unmarshal([]byte(resultText(t, result)), &stored); err != nil {
		t.Fatalf("failed to decode add_task result: %v", err)
	}
	return stored
}

// ===========================================================================
// HandleAddTask
// ===========================================================================

func Test_HandleAddTask_MinimalDefaults(t *testing.T) {
	t.Parallel()

	m := newTestManager(t)
	stored := addTask(t, m, map[string]any{"title": "write report"})

	if stored.ID == "" {
		t.Error("stored task has no id")
	}
	if stored.Title != "write report" {
		t.Errorf("Title = %q", stored.Title)
	}
	if stored.Priority != task.PriorityMedium {
		t.Errorf("Priority = %q, want default medium", stored.Priority)
	}
	if stored.Category != task.CategoryPersonal {
		t.Errorf("Category = %q, want default personal", stored.Category)
	}
	if stored.Completed {
		t.Error("new task marked completed")
	}
}

func Test_HandleAddTask_AllFields(t *testing.T) {
	t.Parallel()

	m := newTestManager(t)
	stored := addTask(t, m, map[string]any{
		"title":       "quarterly review",
		"description": "prepare slides",
		"priority":    "urgent",
		"category":    "work",
		"due_date":    "2025-09-30",
		"subtasks":    []any{"draft outline", "collect numbers"},
	})

	if stored.Priority != task.PriorityUrgent || stored.Category != task.CategoryWork {
		t.Errorf("enums = %q/%q", stored.Priority, stored.Category)
	}
	if stored.DueDate != "2025-09-30" {
		t.Errorf("DueDate = %q", stored.DueDate)
	}
	if len(stored.Subtasks) != 2 {
		t.Fatalf("subtasks = %+v, want 2", stored.Subtasks)
	}
	if stored.Subtasks[0].ID == "" || stored.Subtasks[0].Title != "draft outline" {
		t.Errorf("subtask[0] = %+v", stored.Subtasks[0])
	}
}

func Test_HandleAddTask_MissingTitleIsError(t *testing.T) {
	t.Parallel()

	m := newTestManager(t)
	result, err := m.HandleAddTask(context.Background(), makeRequest("add_task", map[string]any{}))
	if err != nil {
		t.Fatalf("HandleAddTask() error = %v", err)
	}
	if !result.IsError {
		t.Error("HandleAddTask() without title succeeded")
	}
}

func Test_HandleAddTask_UnknownPriorityIsError(t *testing.T) {
	t.Parallel()

	m := newTestManager(t)
	result, err := m.HandleAddTask(context.Background(), makeRequest("add_task", map[string]any{
		"title":    "bad enum",
		"priority": "whenever",
	}))
	if err != nil {
		t.Fatalf("HandleAddTask() error = %v", err)
	}
	if !result.IsError {
		t.Error("HandleAddTask() with unknown priority succeeded")
	}
}

func Test_HandleAddTask_InvalidSubtaskEntryIsError(t *testing.T) {
	t.Parallel()

	m := newTestManager(t)
	result, err := m.HandleAddTask(context.Background(), makeRequest("add_task", map[string]any{
		"title":    "mixed subtasks",
		"subtasks": []any{"fine", 42},
	}))
	if err != nil {
		t.Fatalf("HandleAddTask() error = %v", err)
	}
	if !result.IsError {
		t.Error("HandleAddTask() with non-string subtask succeeded")
	}
}

// ===========================================================================
// HandleToggleTask / HandleCompleteWithSubtasks
// ===========================================================================

func Test_HandleToggleTask_PlainTask(t *testing.T) {
	t.Parallel()

	m := newTestManager(t)
	stored := addTask(t, m, map[string]any{"title": "simple"})

	result, err := m.HandleToggleTask(context.Background(), makeRequest("toggle_task", map[string]any{
		"id": stored.ID,
	}))
	if err != nil {
		t.Fatalf("HandleToggleTask() error = %v", err)
	}
	if result.IsError {
		t.Fatalf("HandleToggleTask() IsError = true, text = %q", resultText(t, result))
	}
	if !strings.Contains(resultText(t, result), "Toggled task") {
		t.Errorf("result text = %q", resultText(t, result))
	}
}

func Test_HandleToggleTask_IncompleteSubtasksReturnConfirmation(t *testing.T) {
	t.Parallel()

	m := newTestManager(t)
	stored := addTask(t, m, map[string]any{
		"title":    "with subtasks",
		"subtasks": []any{"one", "two"},
	})

	result, err := m.HandleToggleTask(context.Background(), makeRequest("toggle_task", map[string]any{
		"id": stored.ID,
	}))
	if err != nil {
		t.Fatalf("HandleToggleTask() error = %v", err)
	}
	if result.IsError {
		t.Fatalf("HandleToggleTask() IsError = true, text = %q", resultText(t, result))
	}

	var payload struct {
		ConfirmationRequired bool                    `json:"confirmationRequired"`
		Prompt               engine.CompletionPrompt `json:"prompt"`
		Message              string                  `json:"message"`
	}
	if err := json.Unmarshal([]byte(resultText(t, result)), &payload); err != nil {
		t.Fatalf("failed to decode confirmation payload: %v", err)
	}
	if !payload.ConfirmationRequired {
		t.Error("confirmationRequired = false")
	}
	if payload.Prompt.TodoID != stored.ID || payload.Prompt.IncompleteCount != 2 || payload.Prompt.TotalCount != 2 {
		t.Errorf("prompt = %+v", payload.Prompt)
	}
	if payload.Message == "" {
		t.Error("confirmation payload has no message")
	}

	// Cancelling means doing nothing: the task must still be incomplete.
	var todos []task.Todo
	listResult, err := m.HandleListTasks(context.Background(), makeRequest("list_tasks", nil))
	if err != nil {
		t.Fatalf("HandleListTasks() error = %v", err)
	}
	if err := json.Unmarshal([]byte(resultText(t, listResult)), &todos); err != nil {
		t.Fatalf("failed to decode list: %v", err)
	}
	if todos[0].Completed {
		t.Error("declined confirmation still completed the task")
	}
}

func Test_HandleCompleteWithSubtasks_CompletesAll(t *testing.T) {
	t.Parallel()

	m := newTestManager(t)
	stored := addTask(t, m, map[string]any{
		"title":    "with subtasks",
		"subtasks": []any{"one", "two"},
	})

	result, err := m.HandleCompleteWithSubtasks(context.Background(),
		makeRequest("complete_with_subtasks", map[string]any{"id": stored.ID}))
	if err != nil {
		t.Fatalf("HandleCompleteWithSubtasks() error = %v", err)
	}
	if result.IsError {
		t.Fatalf("IsError = true, text = %q", resultText(t, result))
	}

	listResult, err := m.HandleListTasks(context.Background(), makeRequest("list_tasks", nil))
	if err != nil {
		t.Fatalf("HandleListTasks() error = %v", err)
	}
	var todos []task.Todo
	if err := json.Unmarshal([]byte(resultText(t, listResult)), &todos); err != nil {
		t.Fatalf("failed to decode list: %v", err)
	}
	if !todos[0].Completed || !todos[0].Subtasks[0].Completed || !todos[0].Subtasks[1].Completed {
		t.Errorf("cascade completion incomplete: %+v", todos[0])
	}
}

func Test_HandleToggleTask_UnknownIDIsError(t *testing.T) {
	t.Parallel()

	m := newTestManager(t)
	result, err := m.HandleToggleTask(context.Background(), makeRequest("toggle_task", map[string]any{
		"id": "ghost",
	}))
	if err != nil {
		t.Fatalf("HandleToggleTask() error = %v", err)
	}
	if !result.IsError {
		t.Error("HandleToggleTask() with unknown id succeeded")
	}
}

// ===========================================================================
// HandleEditTask / HandleDeleteTask
// ===========================================================================

func Test_HandleEditTask_PartialUpdate(t *testing.T) {
	t.Parallel()

	m := newTestManager(t)
	stored := addTask(t, m, map[string]any{
		"title":       "before",
		"description": "keep me",
	})

	result, err := m.HandleEditTask(context.Background(), makeRequest("edit_task", map[string]any{
		"id":       stored.ID,
		"title":    "after",
		"priority": "high",
	}))
	if err != nil {
		t.Fatalf("HandleEditTask() error = %v", err)
	}
	if result.IsError {
		t.Fatalf("IsError = true, text = %q", resultText(t, result))
	}

	listResult, err := m.HandleListTasks(context.Background(), makeRequest("list_tasks", nil))
	if err != nil {
		t.Fatalf("HandleListTasks() error = %v", err)
	}
	var todos []task.Todo
	if err := json.Unmarshal([]byte(resultText(t, listResult)), &todos); err != nil {
		t.Fatalf("failed to decode list: %v", err)
	}
	got := todos[0]
	if got.Title != "after" || got.Priority != task.PriorityHigh {
		t.Errorf("edited task = %+v", got)
	}
	if got.Description != "keep me" {
		t.Errorf("Description = %q, want untouched", got.Description)
	}
}

func Test_HandleEditTask_ReplacesSubtasks(t *testing.T) {
	t.Parallel()

	m := newTestManager(t)
	stored := addTask(t, m, map[string]any{
		"title":    "parent",
		"subtasks": []any{"old"},
	})
	oldID := stored.Subtasks[0].ID

	result, err := m.HandleEditTask(context.Background(), makeRequest("edit_task", map[string]any{
		"id": stored.ID,
		"subtasks": []any{
			map[string]any{"id": oldID, "title": "old renamed", "completed": true},
			map[string]any{"title": "brand new"},
		},
	}))
	if err != nil {
		t.Fatalf("HandleEditTask() error = %v", err)
	}
	if result.IsError {
		t.Fatalf("IsError = true, text = %q", resultText(t, result))
	}

	listResult, err := m.HandleListTasks(context.Background(), makeRequest("list_tasks", nil))
	if err != nil {
		t.Fatalf("HandleListTasks() error = %v", err)
	}
	var todos []task.Todo
	if err := json.Unmarshal([]byte(resultText(t, listResult)), &todos); err != nil {
		t.Fatalf("failed to decode list: %v", err)
	}
	got := todos[0].Subtasks
	if len(got) != 2 {
		t.Fatalf("subtasks = %+v, want 2", got)
	}
	if got[0].ID != oldID || got[0].Title != "old renamed" || !got[0].Completed {
		t.Errorf("survivor = %+v", got[0])
	}
	if got[1].ID == "" || got[1].ID == oldID {
		t.Errorf("new subtask id = %q", got[1].ID)
	}
}

func Test_HandleEditTask_SubtaskWithoutTitleIsError(t *testing.T) {
	t.Parallel()

	m := newTestManager(t)
	stored := addTask(t, m, map[string]any{"title": "parent"})

	result, err := m.HandleEditTask(context.Background(), makeRequest("edit_task", map[string]any{
		"id":       stored.ID,
		"subtasks": []any{map[string]any{"completed": true}},
	}))
	if err != nil {
		t.Fatalf("HandleEditTask() error = %v", err)
	}
	if !result.IsError {
		t.Error("HandleEditTask() with untitled subtask succeeded")
	}
}

func Test_HandleDeleteTask_Removes(t *testing.T) {
	t.Parallel()

	m := newTestManager(t)
	stored := addTask(t, m, map[string]any{"title": "doomed"})

	result, err := m.HandleDeleteTask(context.Background(), makeRequest("delete_task", map[string]any{
		"id": stored.ID,
	}))
	if err != nil {
		t.Fatalf("HandleDeleteTask() error = %v", err)
	}
	if result.IsError {
		t.Fatalf("IsError = true, text = %q", resultText(t, result))
	}

	listResult, err := m.HandleListTasks(context.Background(), makeRequest("list_tasks", nil))
	if err != nil {
		t.Fatalf("HandleListTasks() error = %v", err)
	}
	if text := resultText(t, listResult); text != "[]" {
		t.Errorf("list after delete = %q, want empty array", text)
	}
}

// ===========================================================================
// HandleToggleSubtask
// ===========================================================================

func Test_HandleToggleSubtask_Flips(t *testing.T) {
	t.Parallel()

	m := newTestManager(t)
	stored := addTask(t, m, map[string]any{
		"title":    "parent",
		"subtasks": []any{"step"},
	})

	result, err := m.HandleToggleSubtask(context.Background(), makeRequest("toggle_subtask", map[string]any{
		"todo_id":    stored.ID,
		"subtask_id": stored.Subtasks[0].ID,
	}))
	if err != nil {
		t.Fatalf("HandleToggleSubtask() error = %v", err)
	}
	if result.IsError {
		t.Fatalf("IsError = true, text = %q", resultText(t, result))
	}

	listResult, err := m.HandleListTasks(context.Background(), makeRequest("list_tasks", nil))
	if err != nil {
		t.Fatalf("HandleListTasks() error = %v", err)
	}
	var todos []task.Todo
	if err := json.Unmarshal([]byte(resultText(t, listResult)), &todos); err != nil {
		t.Fatalf("failed to decode list: %v", err)
	}
	if !todos[0].Subtasks[0].Completed {
		t.Error("subtask not toggled")
	}
}

func Test_HandleToggleSubtask_MissingParamsIsError(t *testing.T) {
	t.Parallel()

	m := newTestManager(t)
	result, err := m.HandleToggleSubtask(context.Background(), makeRequest("toggle_subtask", map[string]any{
		"todo_id": "some-id",
	}))
	if err != nil {
		t.Fatalf("HandleToggleSubtask() error = %v", err)
	}
	if !result.IsError {
		t.Error("HandleToggleSubtask() without subtask_id succeeded")
	}
}

// ===========================================================================
// Bulk handlers
// ===========================================================================

func Test_HandleBulkComplete_MarksSelection(t *testing.T) {
	t.Parallel()

	m := newTestManager(t)
	first := addTask(t, m, map[string]any{"title": "one"})
	second := addTask(t, m, map[string]any{"title": "two"})

	result, err := m.HandleBulkComplete(context.Background(), makeRequest("bulk_complete", map[string]any{
		"ids": []any{first.ID, second.ID, "stale-id"},
	}))
	if err != nil {
		t.Fatalf("HandleBulkComplete() error = %v", err)
	}
	if result.IsError {
		t.Fatalf("IsError = true, text = %q", resultText(t, result))
	}

	listResult, err := m.HandleListTasks(context.Background(), makeRequest("list_tasks", nil))
	if err != nil {
		t.Fatalf("HandleListTasks() error = %v", err)
	}
	var todos []task.Todo
	if err := json.Unmarshal([]byte(resultText(t, listResult)), &todos); err != nil {
		t.Fatalf("failed to decode list: %v", err)
	}
	for _, todo := range todos {
		if !todo.Completed {
			t.Errorf("task %q not completed", todo.Title)
		}
	}
}

func Test_HandleBulkDelete_RemovesSelection(t *testing.T) {
	t.Parallel()

	m := newTestManager(t)
	first := addTask(t, m, map[string]any{"title": "drop"})
	second := addTask(t, m, map[string]any{"title": "keep"})

	result, err := m.HandleBulkDelete(context.Background(), makeRequest("bulk_delete", map[string]any{
		"ids": []any{first.ID},
	}))
	if err != nil {
		t.Fatalf("HandleBulkDelete() error = %v", err)
	}
	if result.IsError {
		t.Fatalf("IsError = true, text = %q", resultText(t, result))
	}

	listResult, err := m.HandleListTasks(context.Background(), makeRequest("list_tasks", nil))
	if err != nil {
		t.Fatalf("HandleListTasks() error = %v", err)
	}
	var todos []task.Todo
	if err := json.Unmarshal([]byte(resultText(t, listResult)), &todos); err != nil {
		t.Fatalf("failed to decode list: %v", err)
	}
	if len(todos) != 1 || todos[0].ID != second.ID {
		t.Errorf("list after bulk delete = %+v", todos)
	}
}

func Test_HandleBulkComplete_MissingIDsIsError(t *testing.T) {
	t.Parallel()

	m := newTestManager(t)
	result, err := m.HandleBulkComplete(context.Background(), makeRequest("bulk_complete", map[string]any{}))
	if err != nil {
		t.Fatalf("HandleBulkComplete() error = %v", err)
	}
	if !result.IsError {
		t.Error("HandleBulkComplete() without ids succeeded")
	}
}

func Test_HandleBulkDelete_NonStringIDIsError(t *testing.T) {
	t.Parallel()

	m := newTestManager(t)
	result, err := m.HandleBulkDelete(context.Background(), makeRequest("bulk_delete", map[string]any{
		"ids": []any{"fine", 7},
	}))
	if err != nil {
		t.Fatalf("HandleBulkDelete() error = %v", err)
	}
	if !result.IsError {
		t.Error("HandleBulkDelete() with non-string id succeeded")
	}
}
