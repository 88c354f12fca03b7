// Package main implements the TaskFlow MCP server.
//
// The server loads the todo collection from the configured storage backend,
// seeds an empty local collection with sample tasks, and serves the task
// tools over stdio JSON-RPC (Model Context Protocol). With the postgres
// backend it also subscribes to change notifications so edits made by other
// sessions show up without a restart.
//
// Environment variables (a .env file in the working directory is honored):
//   - TASKFLOW_DATA_DIR: Base directory for local storage (default: user home).
//   - TASKFLOW_STORAGE_BACKEND: "json" (default), "sqlite", or "postgres".
//   - TASKFLOW_JSON_PATH, TASKFLOW_SQLITE_PATH: Custom local storage paths.
//   - TASKFLOW_DATABASE_URL: PostgreSQL connection string (postgres backend).
package main

import (
	"context"
	"log"
	"os"
	"strings"

	"github.com/joho/godotenv"
	"github.com/mark3labs/mcp-go/server"

	"github.com/taskflow/taskflow/internal/engine"
	"github.com/taskflow/taskflow/internal/mcpserver"
	"github.com/taskflow/taskflow/internal/storage"
)

func run() int {
	errLogger := log.New(os.Stderr, "[taskflow-mcp] ", log.LstdFlags)

	// A missing .env file is fine; the environment may already be set.
	_ = godotenv.Load()

	dataDir := strings.TrimSpace(os.Getenv("TASKFLOW_DATA_DIR"))
	if dataDir == "" {
		home, err := os.UserHomeDir()
		if err != nil {
			errLogger.Printf("Failed to determine home directory: %v", err)
			return 1
		}
		dataDir = home
	}

	backend, err := storage.Open(dataDir)
	if err != nil {
		errLogger.Printf("Failed to open storage backend: %v", err)
		return 1
	}

	ctx := context.Background()
	eng := engine.New(backend, engine.WithSeed())
	if err := eng.Load(ctx); err != nil {
		errLogger.Printf("Failed to load todo collection: %v", err)
		return 1
	}
	if err := eng.StartSync(ctx); err != nil {
		errLogger.Printf("Failed to subscribe to remote changes: %v", err)
		return 1
	}
	defer eng.Close()

	srv := mcpserver.NewServer(eng)
	if err := server.ServeStdio(srv, server.WithErrorLogger(errLogger)); err != nil {
		errLogger.Printf("Server error: %v", err)
		return 1
	}

	return 0
}

func main() {
	os.Exit(run())
}
