package storage

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"time"

	_ "modernc.org/sqlite"

	"pomodorotasks/internal/core/model"
)

const tasksFileName = "tasks.db"

// timeLayout has a fixed width so stored timestamps sort as text.
const timeLayout = "2006-01-02T15:04:05.000000000Z07:00"

// ErrTaskNotFound is returned when no task has the requested id.
var ErrTaskNotFound = errors.New("task not found")

const tasksSchema = `
CREATE TABLE IF NOT EXISTS tasks (
	id TEXT PRIMARY KEY,
	name TEXT NOT NULL,
	description TEXT NOT NULL DEFAULT '',
	estimated_pomodoros INTEGER NOT NULL DEFAULT 1,
	completed_pomodoros INTEGER NOT NULL DEFAULT 0,
	is_completed INTEGER NOT NULL DEFAULT 0,
	created_at TEXT NOT NULL,
	completed_at TEXT,
	is_bookmark INTEGER NOT NULL DEFAULT 0,
	file_path TEXT NOT NULL DEFAULT '',
	line_number INTEGER NOT NULL DEFAULT 0
);
CREATE INDEX IF NOT EXISTS idx_tasks_created ON tasks(created_at);
`

const taskColumns = `id, name, description, estimated_pomodoros, completed_pomodoros, is_completed,
	created_at, completed_at, is_bookmark, file_path, line_number`

// TaskDB stores tasks in a SQLite database.
type TaskDB struct {
	db *sql.DB
}

// TasksPath returns the task database location inside dir.
func TasksPath(dir string) string {
	return filepath.Join(dir, tasksFileName)
}

// OpenTaskDB opens or creates the database at path. ":memory:" is accepted for tests.
func OpenTaskDB(path string) (*TaskDB, error) {
	if path != ":memory:" {
		if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
			return nil, fmt.Errorf("create data directory: %w", err)
		}
	}

	db, err := sql.Open("sqlite", path)
	if err != nil {
		return nil, fmt.Errorf("open task database: %w", err)
	}
	// A single connection keeps ":memory:" databases shared and serializes writers.
	db.SetMaxOpenConns(1)

	if _, err := db.Exec(tasksSchema); err != nil {
		db.Close()
		return nil, fmt.Errorf("create task schema: %w", err)
	}
	return &TaskDB{db: db}, nil
}

// Close closes the database.
func (store *TaskDB) Close() error {
	return store.db.Close()
}

// List returns every task in creation order.
func (store *TaskDB) List(ctx context.Context) ([]model.Task, error) {
	rows, err := store.db.QueryContext(ctx, `SELECT `+taskColumns+` FROM tasks ORDER BY created_at, rowid`)
	if err != nil {
		return nil, fmt.Errorf("query tasks: %w", err)
	}
	defer rows.Close()

	var tasks []model.Task
	for rows.Next() {
		task, err := scanTask(rows)
		if err != nil {
			return nil, err
		}
		tasks = append(tasks, task)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterate tasks: %w", err)
	}
	return tasks, nil
}

// Get returns the task with id or ErrTaskNotFound.
func (store *TaskDB) Get(ctx context.Context, id string) (model.Task, error) {
	row := store.db.QueryRowContext(ctx, `SELECT `+taskColumns+` FROM tasks WHERE id = ?`, id)
	task, err := scanTask(row)
	if errors.Is(err, sql.ErrNoRows) {
		return model.Task{}, ErrTaskNotFound
	}
	return task, err
}

// Insert stores a new task.
func (store *TaskDB) Insert(ctx context.Context, task model.Task) error {
	_, err := store.db.ExecContext(ctx, `INSERT INTO tasks (`+taskColumns+`) VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?)`,
		task.ID, task.Name, task.Description, task.EstimatedPomodoros, task.CompletedPomodoros, task.IsCompleted,
		formatTime(task.CreatedAt), formatOptionalTime(task.CompletedAt), task.IsBookmark, task.FilePath, task.LineNumber)
	if err != nil {
		return fmt.Errorf("insert task %s: %w", task.ID, err)
	}
	return nil
}

// Update overwrites the stored task with the same id.
func (store *TaskDB) Update(ctx context.Context, task model.Task) error {
	result, err := store.db.ExecContext(ctx, `UPDATE tasks SET name = ?, description = ?, estimated_pomodoros = ?,
	completed_pomodoros = ?, is_completed = ?, completed_at = ?, is_bookmark = ?, file_path = ?, line_number = ?
	WHERE id = ?`,
		task.Name, task.Description, task.EstimatedPomodoros, task.CompletedPomodoros, task.IsCompleted,
		formatOptionalTime(task.CompletedAt), task.IsBookmark, task.FilePath, task.LineNumber, task.ID)
	if err != nil {
		return fmt.Errorf("update task %s: %w", task.ID, err)
	}
	return requireRow(result)
}

// Delete removes the task with id.
func (store *TaskDB) Delete(ctx context.Context, id string) error {
	result, err := store.db.ExecContext(ctx, `DELETE FROM tasks WHERE id = ?`, id)
	if err != nil {
		return fmt.Errorf("delete task %s: %w", id, err)
	}
	return requireRow(result)
}

type rowScanner interface {
	Scan(dest ...any) error
}

func scanTask(row rowScanner) (model.Task, error) {
	var (
		task        model.Task
		createdAt   string
		completedAt sql.NullString
	)
	err := row.Scan(&task.ID, &task.Name, &task.Description, &task.EstimatedPomodoros, &task.CompletedPomodoros,
		&task.IsCompleted, &createdAt, &completedAt, &task.IsBookmark, &task.FilePath, &task.LineNumber)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return model.Task{}, err
		}
		return model.Task{}, fmt.Errorf("scan task: %w", err)
	}

	if task.CreatedAt, err = time.Parse(timeLayout, createdAt); err != nil {
		return model.Task{}, fmt.Errorf("parse created_at of %s: %w", task.ID, err)
	}
	if completedAt.Valid {
		parsed, err := time.Parse(timeLayout, completedAt.String)
		if err != nil {
			return model.Task{}, fmt.Errorf("parse completed_at of %s: %w", task.ID, err)
		}
		task.CompletedAt = &parsed
	}
	return task, nil
}

func requireRow(result sql.Result) error {
	affected, err := result.RowsAffected()
	if err != nil {
		return fmt.Errorf("rows affected: %w", err)
	}
	if affected == 0 {
		return ErrTaskNotFound
	}
	return nil
}

func formatTime(value time.Time) string {
	return value.UTC().Format(timeLayout)
}

func formatOptionalTime(value *time.Time) any {
	if value == nil {
		return nil
	}
	return formatTime(*value)
}
