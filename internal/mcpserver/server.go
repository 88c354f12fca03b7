package mcpserver

import (
	"github.com/mark3labs/mcp-go/server"

	"github.com/taskflow/taskflow/internal/engine"
)

// NewServer creates an MCP server with all task tools registered against eng.
func NewServer(eng *engine.Engine) *server.MCPServer {
	m := NewTaskManager(eng)

	s := server.NewMCPServer(
		"taskflow",
		"1.0.0",
		server.WithToolCapabilities(true),
	)

	// Read tools
	s.AddTool(listTasksTool(), m.HandleListTasks)
	s.AddTool(taskStatsTool(), m.HandleTaskStats)

	// Single-task mutations
	s.AddTool(addTaskTool(), m.HandleAddTask)
	s.AddTool(toggleTaskTool(), m.HandleToggleTask)
	s.AddTool(completeWithSubtasksTool(), m.HandleCompleteWithSubtasks)
	s.AddTool(editTaskTool(), m.HandleEditTask)
	s.AddTool(deleteTaskTool(), m.HandleDeleteTask)
	s.AddTool(toggleSubtaskTool(), m.HandleToggleSubtask)

	// Bulk operations
	s.AddTool(bulkCompleteTool(), m.HandleBulkComplete)
	s.AddTool(bulkDeleteTool(), m.HandleBulkDelete)

	return s
}
