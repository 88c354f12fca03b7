package mcpserver

import (
	"context"
	"time"

	"github.com/mark3labs/mcp-go/mcp"

	"github.com/taskflow/taskflow/internal/view"
)

// HandleListTasks returns the projected task list as JSON.
// Parameters (all optional):
//   - search: substring matched against title and description
//   - status: all | active | completed | overdue
//   - priority: all | low | medium | high | urgent
//   - category: all | personal | work | health | finance | learning | social
//   - sort: created | priority | dueDate | alphabetical
func (m *TaskManager) HandleListTasks(ctx context.Context, request mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	args := request.GetArguments()

	q := view.Query{}
	if args != nil {
		q.Search = stringArg(args, "search")
		q.Status = view.Status(stringArg(args, "status"))
		q.Priority = stringArg(args, "priority")
		q.Category = stringArg(args, "category")
		q.Sort = view.Sort(stringArg(args, "sort"))
	}

	projected := view.Project(m.engine.Todos(), q, time.Now())
	return jsonResult(projected)
}

// HandleTaskStats returns aggregate statistics over the unfiltered
// collection as JSON.
func (m *TaskManager) HandleTaskStats(ctx context.Context, request mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	stats := view.Stats(m.engine.Todos(), time.Now())
	return jsonResult(stats)
}
