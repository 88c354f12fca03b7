package storage

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/taskflow/taskflow/internal/pathutil"
)

// Open returns the configured storage backend based on environment variables.
//
// Environment variables:
//   - TASKFLOW_STORAGE_BACKEND: "json" (default), "sqlite", or "postgres"
//   - TASKFLOW_JSON_PATH: custom JSON collection path (default: <dataDir>/taskflow/todos.json)
//   - TASKFLOW_SQLITE_PATH: custom SQLite path (default: <dataDir>/taskflow/todos.db)
//   - TASKFLOW_DATABASE_URL: PostgreSQL connection string (required for postgres)
//
// Custom file paths must stay within dataDir. Returns an error for unknown
// backend types, escaping paths, or a missing postgres connection string.
func Open(dataDir string) (Backend, error) {
	backendType := strings.ToLower(strings.TrimSpace(os.Getenv("TASKFLOW_STORAGE_BACKEND")))
	if backendType == "" {
		backendType = "json"
	}

	switch backendType {
	case "json":
		path, err := resolveDataPath(dataDir, "TASKFLOW_JSON_PATH", "todos.json")
		if err != nil {
			return nil, fmt.Errorf("failed to determine JSON collection path: %w", err)
		}
		return NewJSONBackend(path), nil

	case "sqlite":
		path, err := resolveDataPath(dataDir, "TASKFLOW_SQLITE_PATH", "todos.db")
		if err != nil {
			return nil, fmt.Errorf("failed to determine SQLite database path: %w", err)
		}
		return NewSQLiteBackend(path)

	case "postgres":
		connString := strings.TrimSpace(os.Getenv("TASKFLOW_DATABASE_URL"))
		if connString == "" {
			return nil, fmt.Errorf("TASKFLOW_DATABASE_URL is required for the postgres backend")
		}
		return NewPostgresBackend(connString)

	default:
		return nil, fmt.Errorf("unknown storage backend: %q. Expected 'json', 'sqlite', or 'postgres'", backendType)
	}
}

// resolveDataPath returns the storage file path for a local backend.
//
// Reads envVar; if set, validates the path with pathutil.Resolve so it stays
// within dataDir. Otherwise returns <dataDir>/taskflow/<defaultName>.
func resolveDataPath(dataDir, envVar, defaultName string) (string, error) {
	customPath := strings.TrimSpace(os.Getenv(envVar))
	if customPath != "" {
		safePath, err := pathutil.Resolve(dataDir, customPath)
		if err != nil {
			return "", fmt.Errorf("invalid %s: %w", envVar, err)
		}
		return safePath, nil
	}

	return filepath.Join(dataDir, "taskflow", defaultName), nil
}
