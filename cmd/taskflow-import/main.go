// Package main implements the taskflow-import command.
//
// It reads a JSON array of todo records from stdin, normalizes them into the
// strict entity model (dropping records without a title, replacing unknown
// enum values and missing ids), and overwrites the configured storage
// backend with the result. Useful for migrating a web-client export into any
// backend, or moving a collection between backends.
//
// Exit codes:
//   - 0: Success
//   - 1: Error (unreadable or malformed input, storage failure; nothing is saved)
//
// Environment variables match taskflow-mcp; a .env file is honored.
package main

import (
	"context"
	"fmt"
	"io"
	"os"
	"strings"
	"time"

	"github.com/joho/godotenv"

	"github.com/taskflow/taskflow/internal/storage"
	"github.com/taskflow/taskflow/internal/task"
)

// run contains the main logic, returning an exit code.
//
// Accepts an io.Reader for stdin to enable testing without modifying global
// state.
func run(stdin io.Reader) int {
	_ = godotenv.Load()

	data, err := io.ReadAll(stdin)
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error importing todos: %v\n", err)
		return 1
	}

	// Bail out before opening storage: a save with a misdecoded collection
	// would overwrite whatever is already there.
	todos, err := task.DecodeLooseTodos(data, time.Now())
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error importing todos: %v\n", err)
		return 1
	}

	dataDir := strings.TrimSpace(os.Getenv("TASKFLOW_DATA_DIR"))
	if dataDir == "" {
		home, err := os.UserHomeDir()
		if err != nil {
			fmt.Fprintf(os.Stderr, "Error importing todos: %v\n", err)
			return 1
		}
		dataDir = home
	}

	backend, err := storage.Open(dataDir)
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error importing todos: %v\n", err)
		return 1
	}

	if err := backend.Save(context.Background(), todos); err != nil {
		fmt.Fprintf(os.Stderr, "Error importing todos: %v\n", err)
		return 1
	}

	fmt.Printf("Imported %d todo(s)\n", len(todos))
	return 0
}

func main() {
	os.Exit(run(os.Stdin))
}
