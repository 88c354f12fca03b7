package mcpserver

import (
	"context"
	"fmt"

	"github.com/mark3labs/mcp-go/mcp"

	"github.com/taskflow/taskflow/internal/engine"
	"github.com/taskflow/taskflow/internal/task"
)

// HandleAddTask creates a new task.
// Parameters:
//   - title (string, required)
//   - description, priority, category, due_date (string, optional)
//   - subtasks ([]any -> []string, optional): subtask titles
//
// Returns the stored task as JSON or an error.
func (m *TaskManager) HandleAddTask(ctx context.Context, request mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	args := request.GetArguments()
	if args == nil {
		return mcp.NewToolResultError("Missing required parameters"), nil
	}

	title, errResult := requiredStringArg(args, "title")
	if errResult != nil {
		return errResult, nil
	}

	todo := task.Todo{
		Title:       title,
		Description: stringArg(args, "description"),
		Priority:    task.PriorityMedium,
		Category:    task.CategoryPersonal,
		DueDate:     stringArg(args, "due_date"),
	}

	if raw := stringArg(args, "priority"); raw != "" {
		p, err := task.ParsePriority(raw)
		if err != nil {
			return mcp.NewToolResultError(err.Error()), nil
		}
		todo.Priority = p
	}
	if raw := stringArg(args, "category"); raw != "" {
		c, err := task.ParseCategory(raw)
		if err != nil {
			return mcp.NewToolResultError(err.Error()), nil
		}
		todo.Category = c
	}

	if rawSubtasks, ok := args["subtasks"].([]any); ok {
		for i, v := range rawSubtasks {
			title, ok := v.(string)
			if !ok || title == "" {
				return mcp.NewToolResultError(fmt.Sprintf("Invalid subtask at index %d: expected non-empty string", i)), nil
			}
			todo.Subtasks = append(todo.Subtasks, task.Subtask{Title: title})
		}
	}

	stored, err := m.engine.Add(ctx, todo)
	if err != nil {
		return mcp.NewToolResultError(err.Error()), nil
	}

	return jsonResult(stored)
}

// HandleToggleTask toggles a task's completed flag.
//
// When the task has incomplete subtasks, nothing changes and the result is a
// JSON confirmation payload carrying the task id, title, and subtask counts.
// The caller confirms with complete_with_subtasks or cancels by doing nothing.
func (m *TaskManager) HandleToggleTask(ctx context.Context, request mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	args := request.GetArguments()
	if args == nil {
		return mcp.NewToolResultError("Missing required parameters"), nil
	}

	id, errResult := requiredStringArg(args, "id")
	if errResult != nil {
		return errResult, nil
	}

	prompt, err := m.engine.ToggleComplete(ctx, id)
	if err != nil {
		return mcp.NewToolResultError(err.Error()), nil
	}

	if prompt != nil {
		return jsonResult(map[string]any{
			"confirmationRequired": true,
			"prompt":               prompt,
			"message": fmt.Sprintf(
				"%q has %d of %d subtasks incomplete. Call complete_with_subtasks to complete them all, or do nothing to cancel.",
				prompt.Title, prompt.IncompleteCount, prompt.TotalCount),
		})
	}

	return mcp.NewToolResultText(fmt.Sprintf("Toggled task %s", id)), nil
}

// HandleCompleteWithSubtasks marks a task and all its subtasks completed.
func (m *TaskManager) HandleCompleteWithSubtasks(ctx context.Context, request mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	args := request.GetArguments()
	if args == nil {
		return mcp.NewToolResultError("Missing required parameters"), nil
	}

	id, errResult := requiredStringArg(args, "id")
	if errResult != nil {
		return errResult, nil
	}

	if err := m.engine.CompleteWithSubtasks(ctx, id); err != nil {
		return mcp.NewToolResultError(err.Error()), nil
	}

	return mcp.NewToolResultText(fmt.Sprintf("Completed task %s and all subtasks", id)), nil
}

// HandleEditTask applies a partial update to a task.
// Parameters:
//   - id (string, required)
//   - title, description, priority, category, due_date (string, optional)
//   - subtasks ([]any -> []map, optional): full replacement subtask list
func (m *TaskManager) HandleEditTask(ctx context.Context, request mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	args := request.GetArguments()
	if args == nil {
		return mcp.NewToolResultError("Missing required parameters"), nil
	}

	id, errResult := requiredStringArg(args, "id")
	if errResult != nil {
		return errResult, nil
	}

	var update engine.Update
	if v, ok := args["title"].(string); ok {
		update.Title = &v
	}
	if v, ok := args["description"].(string); ok {
		update.Description = &v
	}
	if raw, ok := args["priority"].(string); ok {
		p, err := task.ParsePriority(raw)
		if err != nil {
			return mcp.NewToolResultError(err.Error()), nil
		}
		update.Priority = &p
	}
	if raw, ok := args["category"].(string); ok {
		c, err := task.ParseCategory(raw)
		if err != nil {
			return mcp.NewToolResultError(err.Error()), nil
		}
		update.Category = &c
	}
	if v, ok := args["due_date"].(string); ok {
		update.DueDate = &v
	}

	if rawSubtasks, ok := args["subtasks"].([]any); ok {
		subtasks := make([]task.Subtask, 0, len(rawSubtasks))
		for i, v := range rawSubtasks {
			obj, ok := v.(map[string]any)
			if !ok {
				return mcp.NewToolResultError(fmt.Sprintf("Invalid subtask at index %d: expected object", i)), nil
			}
			title, ok := obj["title"].(string)
			if !ok || title == "" {
				return mcp.NewToolResultError(fmt.Sprintf("Invalid subtask at index %d: missing title", i)), nil
			}
			st := task.Subtask{Title: title}
			if id, ok := obj["id"].(string); ok {
				st.ID = id
			}
			if completed, ok := obj["completed"].(bool); ok {
				st.Completed = completed
			}
			subtasks = append(subtasks, st)
		}
		update.Subtasks = subtasks
	}

	if err := m.engine.Edit(ctx, id, update); err != nil {
		return mcp.NewToolResultError(err.Error()), nil
	}

	return mcp.NewToolResultText(fmt.Sprintf("Updated task %s", id)), nil
}

// HandleDeleteTask removes a task and its subtasks.
func (m *TaskManager) HandleDeleteTask(ctx context.Context, request mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	args := request.GetArguments()
	if args == nil {
		return mcp.NewToolResultError("Missing required parameters"), nil
	}

	id, errResult := requiredStringArg(args, "id")
	if errResult != nil {
		return errResult, nil
	}

	if err := m.engine.Delete(ctx, id); err != nil {
		return mcp.NewToolResultError(err.Error()), nil
	}

	return mcp.NewToolResultText(fmt.Sprintf("Deleted task %s", id)), nil
}

// HandleToggleSubtask flips one subtask's completed flag.
func (m *TaskManager) HandleToggleSubtask(ctx context.Context, request mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	args := request.GetArguments()
	if args == nil {
		return mcp.NewToolResultError("Missing required parameters"), nil
	}

	todoID, errResult := requiredStringArg(args, "todo_id")
	if errResult != nil {
		return errResult, nil
	}
	subtaskID, errResult := requiredStringArg(args, "subtask_id")
	if errResult != nil {
		return errResult, nil
	}

	if err := m.engine.ToggleSubtask(ctx, todoID, subtaskID); err != nil {
		return mcp.NewToolResultError(err.Error()), nil
	}

	return mcp.NewToolResultText(fmt.Sprintf("Toggled subtask %s", subtaskID)), nil
}

// HandleBulkComplete marks every task in the id list completed.
func (m *TaskManager) HandleBulkComplete(ctx context.Context, request mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	args := request.GetArguments()
	if args == nil {
		return mcp.NewToolResultError("Missing required parameters"), nil
	}

	ids, errResult := idListArg(args, "ids")
	if errResult != nil {
		return errResult, nil
	}

	if err := m.engine.BulkComplete(ctx, ids); err != nil {
		return mcp.NewToolResultError(err.Error()), nil
	}

	return mcp.NewToolResultText(fmt.Sprintf("Completed %d task(s)", len(ids))), nil
}

// HandleBulkDelete removes every task in the id list.
func (m *TaskManager) HandleBulkDelete(ctx context.Context, request mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	args := request.GetArguments()
	if args == nil {
		return mcp.NewToolResultError("Missing required parameters"), nil
	}

	ids, errResult := idListArg(args, "ids")
	if errResult != nil {
		return errResult, nil
	}

	if err := m.engine.BulkDelete(ctx, ids); err != nil {
		return mcp.NewToolResultError(err.Error()), nil
	}

	return mcp.NewToolResultText(fmt.Sprintf("Deleted %d task(s)", len(ids))), nil
}
