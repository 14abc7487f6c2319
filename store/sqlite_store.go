package store

import (
	"database/sql"
	"encoding/json"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"time"

	_ "modernc.org/sqlite"

	"github.com/josephgoksu/focusflow/models"
	"github.com/josephgoksu/focusflow/types"
)

const (
	dbPathKey     = "dbPath"
	defaultDBFile = "tasks.db"
)

const sqliteSchema = `
CREATE TABLE IF NOT EXISTS tasks (
	id               TEXT PRIMARY KEY,
	title            TEXT NOT NULL,
	description      TEXT NOT NULL DEFAULT '',
	kind             TEXT NOT NULL,
	recurrence       TEXT,
	deadline         TEXT,
	next_due_at      TEXT,
	priority         INTEGER NOT NULL,
	completed        INTEGER NOT NULL DEFAULT 0,
	deferred         INTEGER NOT NULL DEFAULT 0,
	pending          INTEGER NOT NULL DEFAULT 0,
	recheck_pending  INTEGER NOT NULL DEFAULT 0,
	reflection       TEXT NOT NULL DEFAULT '',
	reflection_date  TEXT,
	completion_note  TEXT NOT NULL DEFAULT '',
	created_at       TEXT NOT NULL,
	updated_at       TEXT NOT NULL,
	deferred_at      TEXT,
	completed_at     TEXT,
	last_completed_at TEXT
);
CREATE INDEX IF NOT EXISTS idx_tasks_next_due ON tasks(next_due_at);
CREATE INDEX IF NOT EXISTS idx_tasks_priority ON tasks(priority);
`

// SQLiteTaskStore implements TaskStore on a local SQLite database. Timestamps
// are stored as RFC3339 strings so the file stays inspectable with any
// sqlite client.
type SQLiteTaskStore struct {
	db   *sql.DB
	feed *notifier
}

// NewSQLiteTaskStore creates an uninitialized SQLite store.
func NewSQLiteTaskStore() *SQLiteTaskStore {
	return &SQLiteTaskStore{feed: newNotifier()}
}

// Initialize opens the database file named by the 'dbPath' config key and
// creates the schema if needed.
func (s *SQLiteTaskStore) Initialize(config map[string]string) error {
	path := config[dbPathKey]
	if path == "" {
		path = defaultDBFile
	}

	dir := filepath.Dir(path)
	if dir != "." && dir != "" {
		if err := os.MkdirAll(dir, 0o755); err != nil {
			return fmt.Errorf("failed to create directory %s: %w", dir, err)
		}
	}

	db, err := sql.Open("sqlite", path)
	if err != nil {
		return fmt.Errorf("failed to open sqlite database %s: %w", path, err)
	}
	if _, err := db.Exec("PRAGMA journal_mode=WAL; PRAGMA busy_timeout=5000;"); err != nil {
		_ = db.Close()
		return fmt.Errorf("failed to configure sqlite: %w", err)
	}
	if _, err := db.Exec(sqliteSchema); err != nil {
		_ = db.Close()
		return fmt.Errorf("failed to create schema: %w", err)
	}

	s.db = db
	return nil
}

func timeString(t time.Time) string {
	return t.UTC().Format(time.RFC3339Nano)
}

func nullTimeString(t *time.Time) sql.NullString {
	if t == nil {
		return sql.NullString{}
	}
	return sql.NullString{String: timeString(*t), Valid: true}
}

func parseTimePtr(ns sql.NullString) (*time.Time, error) {
	if !ns.Valid || ns.String == "" {
		return nil, nil
	}
	t, err := time.Parse(time.RFC3339Nano, ns.String)
	if err != nil {
		return nil, err
	}
	return &t, nil
}

func marshalRecurrence(r *models.RecurrenceRule) (sql.NullString, error) {
	if r == nil {
		return sql.NullString{}, nil
	}
	data, err := json.Marshal(r)
	if err != nil {
		return sql.NullString{}, err
	}
	return sql.NullString{String: string(data), Valid: true}, nil
}

func unmarshalRecurrence(ns sql.NullString) (*models.RecurrenceRule, error) {
	if !ns.Valid || ns.String == "" {
		return nil, nil
	}
	var r models.RecurrenceRule
	if err := json.Unmarshal([]byte(ns.String), &r); err != nil {
		return nil, err
	}
	return &r, nil
}

const taskColumns = `id, title, description, kind, recurrence, deadline, next_due_at,
	priority, completed, deferred, pending, recheck_pending,
	reflection, reflection_date, completion_note,
	created_at, updated_at, deferred_at, completed_at, last_completed_at`

type rowScanner interface {
	Scan(dest ...interface{}) error
}

func scanTask(row rowScanner) (models.Task, error) {
	var (
		t              models.Task
		recurrence     sql.NullString
		deadline       sql.NullString
		nextDueAt      sql.NullString
		reflectionDate sql.NullString
		createdAt      string
		updatedAt      string
		deferredAt     sql.NullString
		completedAt    sql.NullString
		lastCompleted  sql.NullString
	)

	err := row.Scan(&t.ID, &t.Title, &t.Description, &t.Kind, &recurrence,
		&deadline, &nextDueAt, &t.Priority, &t.Completed, &t.Deferred,
		&t.Pending, &t.RecheckPending, &t.Reflection, &reflectionDate,
		&t.CompletionNote, &createdAt, &updatedAt, &deferredAt,
		&completedAt, &lastCompleted)
	if err != nil {
		return models.Task{}, err
	}

	if t.Recurrence, err = unmarshalRecurrence(recurrence); err != nil {
		return models.Task{}, fmt.Errorf("invalid recurrence for task %s: %w", t.ID, err)
	}
	if t.Deadline, err = parseTimePtr(deadline); err != nil {
		return models.Task{}, err
	}
	if t.NextDueAt, err = parseTimePtr(nextDueAt); err != nil {
		return models.Task{}, err
	}
	if t.ReflectionDate, err = parseTimePtr(reflectionDate); err != nil {
		return models.Task{}, err
	}
	if t.CreatedAt, err = time.Parse(time.RFC3339Nano, createdAt); err != nil {
		return models.Task{}, err
	}
	if t.UpdatedAt, err = time.Parse(time.RFC3339Nano, updatedAt); err != nil {
		return models.Task{}, err
	}
	if t.DeferredAt, err = parseTimePtr(deferredAt); err != nil {
		return models.Task{}, err
	}
	if t.CompletedAt, err = parseTimePtr(completedAt); err != nil {
		return models.Task{}, err
	}
	if t.LastCompletedAt, err = parseTimePtr(lastCompleted); err != nil {
		return models.Task{}, err
	}
	return t, nil
}

func (s *SQLiteTaskStore) writeTask(exec interface {
	Exec(query string, args ...interface{}) (sql.Result, error)
}, t models.Task, insert bool) error {
	recurrence, err := marshalRecurrence(t.Recurrence)
	if err != nil {
		return fmt.Errorf("marshal recurrence: %w", err)
	}

	args := []interface{}{
		t.Title, t.Description, string(t.Kind), recurrence,
		nullTimeString(t.Deadline), nullTimeString(t.NextDueAt),
		t.Priority, t.Completed, t.Deferred, t.Pending, t.RecheckPending,
		t.Reflection, nullTimeString(t.ReflectionDate), t.CompletionNote,
		timeString(t.CreatedAt), timeString(t.UpdatedAt),
		nullTimeString(t.DeferredAt), nullTimeString(t.CompletedAt),
		nullTimeString(t.LastCompletedAt),
	}

	if insert {
		query := `INSERT INTO tasks (` + taskColumns + `) VALUES (?,?,?,?,?,?,?,?,?,?,?,?,?,?,?,?,?,?,?,?)`
		_, err = exec.Exec(query, append([]interface{}{t.ID}, args...)...)
	} else {
		query := `UPDATE tasks SET title=?, description=?, kind=?, recurrence=?,
			deadline=?, next_due_at=?, priority=?, completed=?, deferred=?,
			pending=?, recheck_pending=?, reflection=?, reflection_date=?,
			completion_note=?, created_at=?, updated_at=?, deferred_at=?,
			completed_at=?, last_completed_at=? WHERE id=?`
		_, err = exec.Exec(query, append(args, t.ID)...)
	}
	return err
}

// CreateTask inserts a new task, assigning its ID when absent.
func (s *SQLiteTaskStore) CreateTask(task models.Task) (models.Task, error) {
	if task.ID == "" {
		task.ID = generateID()
	}
	now := time.Now().UTC()
	if task.CreatedAt.IsZero() {
		task.CreatedAt = now
	}
	task.UpdatedAt = now

	if err := models.ValidateStruct(task); err != nil {
		return models.Task{}, fmt.Errorf("task validation failed: %w", err)
	}

	if err := s.writeTask(s.db, task, true); err != nil {
		return models.Task{}, fmt.Errorf("failed to insert task: %w", err)
	}

	s.feed.publish(Change{Kind: ChangeCreated, ID: task.ID, Task: task})
	return task, nil
}

// GetTask retrieves a task by ID.
func (s *SQLiteTaskStore) GetTask(id string) (models.Task, error) {
	row := s.db.QueryRow(`SELECT `+taskColumns+` FROM tasks WHERE id = ?`, id)
	task, err := scanTask(row)
	if errors.Is(err, sql.ErrNoRows) {
		return models.Task{}, fmt.Errorf("%w: %s", types.ErrTaskNotFound, id)
	}
	if err != nil {
		return models.Task{}, fmt.Errorf("failed to query task: %w", err)
	}
	return task, nil
}

// UpdateTask applies a field-level patch inside a transaction.
func (s *SQLiteTaskStore) UpdateTask(id string, updates map[string]interface{}) (models.Task, error) {
	tx, err := s.db.Begin()
	if err != nil {
		return models.Task{}, fmt.Errorf("failed to begin transaction: %w", err)
	}
	defer func() { _ = tx.Rollback() }()

	row := tx.QueryRow(`SELECT `+taskColumns+` FROM tasks WHERE id = ?`, id)
	task, err := scanTask(row)
	if errors.Is(err, sql.ErrNoRows) {
		return models.Task{}, fmt.Errorf("%w: %s", types.ErrTaskNotFound, id)
	}
	if err != nil {
		return models.Task{}, fmt.Errorf("failed to query task: %w", err)
	}

	if err := applyTaskUpdates(&task, updates); err != nil {
		return models.Task{}, err
	}
	task.UpdatedAt = time.Now().UTC()

	if err := models.ValidateStruct(task); err != nil {
		return models.Task{}, fmt.Errorf("task validation failed after update: %w", err)
	}

	if err := s.writeTask(tx, task, false); err != nil {
		return models.Task{}, fmt.Errorf("failed to update task: %w", err)
	}
	if err := tx.Commit(); err != nil {
		return models.Task{}, fmt.Errorf("failed to commit update: %w", err)
	}

	s.feed.publish(Change{Kind: ChangeUpdated, ID: id, Task: task})
	return task, nil
}

// DeleteTask removes a task by ID.
func (s *SQLiteTaskStore) DeleteTask(id string) error {
	res, err := s.db.Exec(`DELETE FROM tasks WHERE id = ?`, id)
	if err != nil {
		return fmt.Errorf("failed to delete task: %w", err)
	}
	affected, err := res.RowsAffected()
	if err != nil {
		return fmt.Errorf("failed to check delete result: %w", err)
	}
	if affected == 0 {
		return fmt.Errorf("%w: %s", types.ErrTaskNotFound, id)
	}
	s.feed.publish(Change{Kind: ChangeDeleted, ID: id})
	return nil
}

// DeleteAllTasks removes every row.
func (s *SQLiteTaskStore) DeleteAllTasks() error {
	rows, err := s.db.Query(`SELECT id FROM tasks`)
	if err != nil {
		return fmt.Errorf("failed to list task ids: %w", err)
	}
	var ids []string
	for rows.Next() {
		var id string
		if err := rows.Scan(&id); err != nil {
			_ = rows.Close()
			return err
		}
		ids = append(ids, id)
	}
	_ = rows.Close()
	if err := rows.Err(); err != nil {
		return err
	}

	if _, err := s.db.Exec(`DELETE FROM tasks`); err != nil {
		return fmt.Errorf("failed to delete all tasks: %w", err)
	}
	for _, id := range ids {
		s.feed.publish(Change{Kind: ChangeDeleted, ID: id})
	}
	return nil
}

// ListTasks retrieves tasks with optional filtering and sorting. Filtering
// and ordering happen in memory so the same selection code serves both
// backends.
func (s *SQLiteTaskStore) ListTasks(filterFn func(models.Task) bool, sortFn func([]models.Task) []models.Task) ([]models.Task, error) {
	rows, err := s.db.Query(`SELECT ` + taskColumns + ` FROM tasks`)
	if err != nil {
		return nil, fmt.Errorf("failed to query tasks: %w", err)
	}
	defer func() { _ = rows.Close() }()

	tasks := make([]models.Task, 0)
	for rows.Next() {
		task, err := scanTask(rows)
		if err != nil {
			return nil, err
		}
		if filterFn == nil || filterFn(task) {
			tasks = append(tasks, task)
		}
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}

	if sortFn != nil {
		tasks = sortFn(tasks)
	}
	return tasks, nil
}

// Subscribe returns the change feed.
func (s *SQLiteTaskStore) Subscribe() (<-chan Change, func()) {
	return s.feed.subscribe()
}

// Close closes the change feed and the database handle.
func (s *SQLiteTaskStore) Close() error {
	s.feed.closeAll()
	if s.db != nil {
		return s.db.Close()
	}
	return nil
}
