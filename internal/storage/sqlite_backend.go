package storage

import (
	"context"
	"database/sql"
	"fmt"
	"os"
	"path/filepath"

	_ "modernc.org/sqlite" // register sqlite driver

	"github.com/taskflow/taskflow/internal/task"
)

// sqliteSchemaDDL defines the database schema for the SQLite backend.
//
// Normalized into todos and subtasks tables; subtasks carry a position
// column that encodes display order and is rewritten in full on every save.
const sqliteSchemaDDL = `
CREATE TABLE IF NOT EXISTS todos (
    id TEXT PRIMARY KEY,
    title TEXT NOT NULL,
    description TEXT NOT NULL DEFAULT '',
    completed INTEGER NOT NULL DEFAULT 0,
    priority TEXT NOT NULL DEFAULT 'medium',
    category TEXT NOT NULL DEFAULT 'personal',
    due_date TEXT NOT NULL DEFAULT '',
    created_at TEXT NOT NULL,
    sort_order INTEGER NOT NULL DEFAULT 0
);

CREATE TABLE IF NOT EXISTS subtasks (
    id TEXT PRIMARY KEY,
    todo_id TEXT NOT NULL REFERENCES todos(id) ON DELETE CASCADE,
    title TEXT NOT NULL,
    completed INTEGER NOT NULL DEFAULT 0,
    position INTEGER NOT NULL DEFAULT 0
);

CREATE INDEX IF NOT EXISTS idx_subtasks_todo ON subtasks(todo_id);
`

// SQLiteBackend implements Backend using a local SQLite database.
//
// Uses WAL mode and foreign keys; Save replaces the full collection inside
// one transaction so partial writes roll back cleanly.
type SQLiteBackend struct {
	// DBPath is the absolute path to the SQLite database file.
	DBPath string
}

// NewSQLiteBackend creates a SQLiteBackend and initializes the database schema.
//
// Parent directories are created automatically. Returns an error if schema
// creation fails.
func NewSQLiteBackend(dbPath string) (*SQLiteBackend, error) {
	backend := &SQLiteBackend{
		DBPath: dbPath,
	}

	if err := backend.ensureSchema(); err != nil {
		return nil, fmt.Errorf("failed to initialize schema: %w", err)
	}

	return backend, nil
}

// connect opens a new database connection with WAL mode and foreign keys enabled.
func (b *SQLiteBackend) connect() (*sql.DB, error) {
	dir := filepath.Dir(b.DBPath)
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return nil, fmt.Errorf("failed to create database directory: %w", err)
	}

	db, err := sql.Open("sqlite", b.DBPath)
	if err != nil {
		return nil, fmt.Errorf("failed to open database: %w", err)
	}

	if _, err := db.Exec("PRAGMA journal_mode=WAL"); err != nil {
		_ = db.Close()
		return nil, fmt.Errorf("failed to set WAL mode: %w", err)
	}
	if _, err := db.Exec("PRAGMA foreign_keys=ON"); err != nil {
		_ = db.Close()
		return nil, fmt.Errorf("failed to enable foreign keys: %w", err)
	}

	return db, nil
}

// ensureSchema creates the database schema if it doesn't exist.
func (b *SQLiteBackend) ensureSchema() error {
	db, err := b.connect()
	if err != nil {
		return err
	}
	defer func() { _ = db.Close() }()

	if _, err := db.Exec(sqliteSchemaDDL); err != nil {
		return fmt.Errorf("failed to execute schema DDL: %w", err)
	}

	return nil
}

// Load reads the full collection, todos in stored order with their subtasks
// attached in position order.
func (b *SQLiteBackend) Load(ctx context.Context) ([]task.Todo, error) {
	db, err := b.connect()
	if err != nil {
		return nil, err
	}
	defer func() { _ = db.Close() }()

	rows, err := db.QueryContext(ctx, `
		SELECT id, title, description, completed, priority, category, due_date, created_at
		FROM todos
		ORDER BY sort_order
	`)
	if err != nil {
		return nil, fmt.Errorf("failed to query todos: %w", err)
	}
	defer func() { _ = rows.Close() }()

	todos := make([]task.Todo, 0)
	index := make(map[string]int)
	for rows.Next() {
		var t task.Todo
		var completed int
		if err := rows.Scan(
			&t.ID, &t.Title, &t.Description, &completed,
			&t.Priority, &t.Category, &t.DueDate, &t.CreatedAt,
		); err != nil {
			return nil, fmt.Errorf("failed to scan todo row: %w", err)
		}
		t.Completed = completed != 0
		t.Subtasks = make([]task.Subtask, 0)
		index[t.ID] = len(todos)
		todos = append(todos, t)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("error iterating todo rows: %w", err)
	}

	stRows, err := db.QueryContext(ctx, `
		SELECT id, todo_id, title, completed
		FROM subtasks
		ORDER BY todo_id, position
	`)
	if err != nil {
		return nil, fmt.Errorf("failed to query subtasks: %w", err)
	}
	defer func() { _ = stRows.Close() }()

	for stRows.Next() {
		var st task.Subtask
		var todoID string
		var completed int
		if err := stRows.Scan(&st.ID, &todoID, &st.Title, &completed); err != nil {
			return nil, fmt.Errorf("failed to scan subtask row: %w", err)
		}
		st.Completed = completed != 0
		if i, ok := index[todoID]; ok {
			todos[i].Subtasks = append(todos[i].Subtasks, st)
		}
	}
	if err := stRows.Err(); err != nil {
		return nil, fmt.Errorf("error iterating subtask rows: %w", err)
	}

	return todos, nil
}

// Save replaces the stored collection with todos in a single transaction.
//
// Subtask positions are rewritten in full from slice order.
func (b *SQLiteBackend) Save(ctx context.Context, todos []task.Todo) error {
	db, err := b.connect()
	if err != nil {
		return err
	}
	defer func() { _ = db.Close() }()

	tx, err := db.BeginTx(ctx, nil)
	if err != nil {
		return fmt.Errorf("failed to begin transaction: %w", err)
	}
	defer func() { _ = tx.Rollback() }()

	if _, err := tx.ExecContext(ctx, `DELETE FROM subtasks`); err != nil {
		return fmt.Errorf("failed to clear subtasks: %w", err)
	}
	if _, err := tx.ExecContext(ctx, `DELETE FROM todos`); err != nil {
		return fmt.Errorf("failed to clear todos: %w", err)
	}

	for i, t := range todos {
		if _, err := tx.ExecContext(ctx,
			`INSERT INTO todos (id, title, description, completed, priority, category, due_date, created_at, sort_order)
			 VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?)`,
			t.ID, t.Title, t.Description, boolToInt(t.Completed),
			string(t.Priority), string(t.Category), t.DueDate, t.CreatedAt, i,
		); err != nil {
			return fmt.Errorf("failed to insert todo %s: %w", t.ID, err)
		}

		for pos, st := range t.Subtasks {
			if _, err := tx.ExecContext(ctx,
				`INSERT INTO subtasks (id, todo_id, title, completed, position)
				 VALUES (?, ?, ?, ?, ?)`,
				st.ID, t.ID, st.Title, boolToInt(st.Completed), pos,
			); err != nil {
				return fmt.Errorf("failed to insert subtask %s: %w", st.ID, err)
			}
		}
	}

	if err := tx.Commit(); err != nil {
		return fmt.Errorf("failed to commit collection: %w", err)
	}

	return nil
}

func boolToInt(b bool) int {
	if b {
		return 1
	}
	return 0
}
