package mcpserver

import (
	"encoding/json"
	"fmt"

	"github.com/mark3labs/mcp-go/mcp"

	"github.com/taskflow/taskflow/internal/engine"
)

// TaskManager adapts engine operations to MCP tool handlers.
//
// The engine owns all state; the manager only translates arguments and
// results. Engine errors are returned as tool error results so a failed
// operation never takes the server down.
type TaskManager struct {
	engine *engine.Engine
}

// NewTaskManager creates a TaskManager on top of eng.
func NewTaskManager(eng *engine.Engine) *TaskManager {
	return &TaskManager{engine: eng}
}

// jsonResult marshals v with indentation into a text tool result.
func jsonResult(v any) (*mcp.CallToolResult, error) {
	data, err := json.MarshalIndent(v, "", "  ")
	if err != nil {
		return mcp.NewToolResultError(fmt.Sprintf("Failed to encode result: %v", err)), nil
	}
	return mcp.NewToolResultText(string(data)), nil
}

// stringArg extracts an optional string argument.
func stringArg(args map[string]any, key string) string {
	s, _ := args[key].(string)
	return s
}

// requiredStringArg extracts a required, non-empty string argument.
func requiredStringArg(args map[string]any, key string) (string, *mcp.CallToolResult) {
	s, ok := args[key].(string)
	if !ok || s == "" {
		return "", mcp.NewToolResultError("Missing required parameter: " + key)
	}
	return s, nil
}

// idListArg extracts a required array of string ids.
func idListArg(args map[string]any, key string) ([]string, *mcp.CallToolResult) {
	raw, ok := args[key].([]any)
	if !ok {
		return nil, mcp.NewToolResultError("Missing required parameter: " + key)
	}
	ids := make([]string, 0, len(raw))
	for i, v := range raw {
		s, ok := v.(string)
		if !ok || s == "" {
			return nil, mcp.NewToolResultError(fmt.Sprintf("Invalid id at index %d", i))
		}
		ids = append(ids, s)
	}
	return ids, nil
}
