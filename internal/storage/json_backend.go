package storage

import (
	"context"
	"encoding/json"
	"os"
	"path/filepath"

	"github.com/taskflow/taskflow/internal/task"
)

// JSONBackend implements Backend using a single JSON file.
//
// The whole collection lives in one array, written atomically via a
// temporary file and rename so a crash mid-write never corrupts the store.
// This is the local/offline persistence mode.
type JSONBackend struct {
	// FilePath is the absolute path to the JSON collection file.
	FilePath string
}

// NewJSONBackend creates a JSONBackend for the given file path.
//
// Parent directories are created on the first Save.
func NewJSONBackend(filePath string) *JSONBackend {
	return &JSONBackend{
		FilePath: filePath,
	}
}

// Load reads the todo collection from the JSON file.
//
// Returns an empty slice if the file doesn't exist, can't be read, or
// contains invalid or non-array JSON. Starting fresh on corruption matches
// the web client's localStorage behavior: a broken store is never fatal.
func (b *JSONBackend) Load(ctx context.Context) ([]task.Todo, error) {
	if _, err := os.Stat(b.FilePath); os.IsNotExist(err) {
		return make([]task.Todo, 0), nil
	}

	data, err := os.ReadFile(b.FilePath)
	if err != nil {
		// File exists but can't be read - start fresh
		return make([]task.Todo, 0), nil
	}

	var todos []task.Todo
	if err := json.Unmarshal(data, &todos); err != nil {
		// Invalid JSON or wrong type - start fresh
		return make([]task.Todo, 0), nil
	}
	if todos == nil {
		return make([]task.Todo, 0), nil
	}

	// Normalize nil subtask slices so callers always see []
	for i := range todos {
		if todos[i].Subtasks == nil {
			todos[i].Subtasks = make([]task.Subtask, 0)
		}
	}

	return todos, nil
}

// Save atomically overwrites the JSON file with the given collection.
//
// Creates parent directories if needed. Writes to a temporary file in the
// same directory and renames it over the target, so readers never observe a
// partially written collection. JSON is written with 2-space indentation and
// a trailing newline.
func (b *JSONBackend) Save(ctx context.Context, todos []task.Todo) error {
	if todos == nil {
		todos = make([]task.Todo, 0)
	}
	for i := range todos {
		if todos[i].Subtasks == nil {
			todos[i].Subtasks = make([]task.Subtask, 0)
		}
	}

	dir := filepath.Dir(b.FilePath)
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return err
	}

	data, err := json.MarshalIndent(todos, "", "  ")
	if err != nil {
		return err
	}
	data = append(data, '\n')

	tmpFile, err := os.CreateTemp(dir, "*.tmp")
	if err != nil {
		return err
	}
	tmpPath := tmpFile.Name()

	_, writeErr := tmpFile.Write(data)
	closeErr := tmpFile.Close()

	if writeErr != nil {
		_ = os.Remove(tmpPath)
		return writeErr
	}
	if closeErr != nil {
		_ = os.Remove(tmpPath)
		return closeErr
	}

	if err := os.Rename(tmpPath, b.FilePath); err != nil {
		_ = os.Remove(tmpPath)
		return err
	}

	return nil
}
