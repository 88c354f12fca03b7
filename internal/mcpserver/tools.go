// Package mcpserver exposes the task engine's operations as MCP tools.
//
// This is the presentation-facing surface of the system: a UI (or any MCP
// client) drives the engine exclusively through these tools. Tool handlers
// translate engine outcomes into tool results; engine errors become error
// results rather than protocol failures.
package mcpserver

import (
	"github.com/mark3labs/mcp-go/mcp"
)

// listTasksTool returns a tool definition for the projected task list.
func listTasksTool() mcp.Tool {
	return mcp.NewTool("list_tasks",
		mcp.WithDescription("List tasks filtered by search text, status, priority, and category, sorted by the chosen key. Returns a JSON array."),
		mcp.WithString("search",
			mcp.Description("Case-insensitive substring matched against title and description")),
		mcp.WithString("status",
			mcp.Description("Status filter: all (default), active, completed, or overdue")),
		mcp.WithString("priority",
			mcp.Description("Priority filter: all (default), low, medium, high, or urgent")),
		mcp.WithString("category",
			mcp.Description("Category filter: all (default), personal, work, health, finance, learning, or social")),
		mcp.WithString("sort",
			mcp.Description("Sort key: created (default, newest first), priority, dueDate, or alphabetical")),
	)
}

// taskStatsTool returns a tool definition for aggregate statistics.
func taskStatsTool() mcp.Tool {
	return mcp.NewTool("task_stats",
		mcp.WithDescription("Get aggregate statistics over the whole collection: totals, overdue and due-today counts, completion rate, and per-priority/per-category breakdowns."),
	)
}

// addTaskTool returns a tool definition for creating a task.
func addTaskTool() mcp.Tool {
	return mcp.NewTool("add_task",
		mcp.WithDescription("Create a new task. The title must be non-empty; subtasks are optional."),
		mcp.WithString("title",
			mcp.Required(),
			mcp.Description("Task title (must be non-empty after trimming)")),
		mcp.WithString("description",
			mcp.Description("Free-form detail text")),
		mcp.WithString("priority",
			mcp.Description("Priority: low, medium (default), high, or urgent")),
		mcp.WithString("category",
			mcp.Description("Category: personal (default), work, health, finance, learning, or social")),
		mcp.WithString("due_date",
			mcp.Description("Due date as an ISO calendar date (2006-01-02), or empty for none")),
		mcp.WithArray("subtasks",
			mcp.Description("Subtask titles (array of strings)")),
	)
}

// toggleTaskTool returns a tool definition for toggling a task's completion.
func toggleTaskTool() mcp.Tool {
	return mcp.NewTool("toggle_task",
		mcp.WithDescription("Toggle a task's completed flag. Completing a task that still has incomplete subtasks is not applied; instead a confirmation payload is returned, to be resolved with complete_with_subtasks (confirm) or ignored (cancel)."),
		mcp.WithString("id",
			mcp.Required(),
			mcp.Description("Task id")),
	)
}

// completeWithSubtasksTool returns a tool definition for cascade completion.
func completeWithSubtasksTool() mcp.Tool {
	return mcp.NewTool("complete_with_subtasks",
		mcp.WithDescription("Confirm a cascade completion: mark the task and every one of its subtasks completed in one step. Idempotent on already-completed tasks."),
		mcp.WithString("id",
			mcp.Required(),
			mcp.Description("Task id")),
	)
}

// editTaskTool returns a tool definition for partial task updates.
func editTaskTool() mcp.Tool {
	return mcp.NewTool("edit_task",
		mcp.WithDescription("Edit a task. Only the provided fields change; id and creation time are immutable. A subtasks array fully replaces the existing subtask list: keep ids of surviving subtasks, omit ids for new entries."),
		mcp.WithString("id",
			mcp.Required(),
			mcp.Description("Task id")),
		mcp.WithString("title",
			mcp.Description("New title (must be non-empty after trimming)")),
		mcp.WithString("description",
			mcp.Description("New description")),
		mcp.WithString("priority",
			mcp.Description("New priority: low, medium, high, or urgent")),
		mcp.WithString("category",
			mcp.Description("New category: personal, work, health, finance, learning, or social")),
		mcp.WithString("due_date",
			mcp.Description("New due date (2006-01-02), or empty string to clear")),
		mcp.WithArray("subtasks",
			mcp.Description("Full replacement subtask list: objects with title, optional id, optional completed")),
	)
}

// deleteTaskTool returns a tool definition for deleting a task.
func deleteTaskTool() mcp.Tool {
	return mcp.NewTool("delete_task",
		mcp.WithDescription("Delete a task and all of its subtasks."),
		mcp.WithString("id",
			mcp.Required(),
			mcp.Description("Task id")),
	)
}

// toggleSubtaskTool returns a tool definition for toggling one subtask.
func toggleSubtaskTool() mcp.Tool {
	return mcp.NewTool("toggle_subtask",
		mcp.WithDescription("Toggle one subtask's completed flag. Rejected when the parent task is already completed."),
		mcp.WithString("todo_id",
			mcp.Required(),
			mcp.Description("Parent task id")),
		mcp.WithString("subtask_id",
			mcp.Required(),
			mcp.Description("Subtask id")),
	)
}

// bulkCompleteTool returns a tool definition for bulk completion.
func bulkCompleteTool() mcp.Tool {
	return mcp.NewTool("bulk_complete",
		mcp.WithDescription("Mark every task in the id list completed. Unknown ids are skipped silently."),
		mcp.WithArray("ids",
			mcp.Required(),
			mcp.Description("Task ids")),
	)
}

// bulkDeleteTool returns a tool definition for bulk deletion.
func bulkDeleteTool() mcp.Tool {
	return mcp.NewTool("bulk_delete",
		mcp.WithDescription("Delete every task in the id list. Unknown ids are skipped silently."),
		mcp.WithArray("ids",
			mcp.Required(),
			mcp.Description("Task ids")),
	)
}
