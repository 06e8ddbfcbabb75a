package storage

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"net/url"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/google/uuid"
	"go.uber.org/zap"
	_ "modernc.org/sqlite"

	"fourd/internal/lifecycle"
	"fourd/internal/task"
)

// Timestamps are written fixed width so text order is time order.
const (
	timeLayout  = "2006-01-02T15:04:05.000000000Z07:00"
	parseLayout = time.RFC3339Nano
)

var ErrReadOnly = errors.New("store is read-only")

// Store keeps category lists and tasks in a local SQLite database.
type Store struct {
	db       *sql.DB
	l        *zap.Logger
	readOnly bool
}

type Option func(*Store)

// ReadOnly makes the store refuse writes and deny authorization.
func ReadOnly(v bool) Option {
	return func(s *Store) {
		s.readOnly = v
	}
}

func WithLogger(l *zap.Logger) Option {
	return func(s *Store) {
		s.l = l
	}
}

func Open(dbPath string, opts ...Option) (*Store, error) {
	if dbPath == "" {
		return nil, errors.New("db path is empty")
	}
	if err := os.MkdirAll(filepath.Dir(dbPath), 0o755); err != nil && !errors.Is(err, os.ErrExist) {
		return nil, err
	}
	dsn := sqliteDSN(dbPath)
	db, err := sql.Open("sqlite", dsn)
	if err != nil {
		return nil, err
	}
	db.SetMaxOpenConns(1)

	s := &Store{db: db, l: zap.NewNop()}
	for _, opt := range opts {
		opt(s)
	}
	if err := s.ensureSchema(); err != nil {
		db.Close()
		return nil, err
	}
	s.l.Debug("opened task database", zap.String("path", dbPath), zap.Bool("read_only", s.readOnly))
	return s, nil
}

func (s *Store) Close() error {
	if s.db == nil {
		return nil
	}
	return s.db.Close()
}

func (s *Store) ensureSchema() error {
	const ddl = `
CREATE TABLE IF NOT EXISTS lists (
	id TEXT PRIMARY KEY,
	title TEXT NOT NULL UNIQUE,
	created_at TEXT NOT NULL
);
CREATE TABLE IF NOT EXISTS tasks (
	id TEXT PRIMARY KEY,
	list_id TEXT NOT NULL,
	category TEXT NOT NULL,
	title TEXT NOT NULL,
	priority INTEGER NOT NULL DEFAULT 0,
	due TEXT DEFAULT NULL,
	created_at TEXT NOT NULL
);
CREATE TABLE IF NOT EXISTS alerts (
	task_id TEXT NOT NULL,
	at TEXT NOT NULL
);
CREATE INDEX IF NOT EXISTS alerts_task_id ON alerts(task_id);`
	if _, err := s.db.Exec(ddl); err != nil {
		return err
	}
	return s.ensureTaskColumns()
}

func (s *Store) ensureTaskColumns() error {
	required := map[string]string{
		"notes":        "ALTER TABLE tasks ADD COLUMN notes TEXT NOT NULL DEFAULT '';",
		"completed":    "ALTER TABLE tasks ADD COLUMN completed INTEGER NOT NULL DEFAULT 0;",
		"completed_at": "ALTER TABLE tasks ADD COLUMN completed_at TEXT DEFAULT NULL;",
	}
	existing := map[string]struct{}{}
	rows, err := s.db.Query(`PRAGMA table_info(tasks);`)
	if err != nil {
		return err
	}
	defer rows.Close()
	for rows.Next() {
		var cid int
		var name, ctype string
		var notnull, pk int
		var dflt sql.NullString
		if err := rows.Scan(&cid, &name, &ctype, &notnull, &dflt, &pk); err != nil {
			return err
		}
		existing[name] = struct{}{}
	}
	if err := rows.Err(); err != nil {
		return err
	}
	for col, alter := range required {
		if _, ok := existing[col]; ok {
			continue
		}
		if _, err := s.db.Exec(alter); err != nil {
			return err
		}
	}
	return nil
}

func (s *Store) Authorize(ctx context.Context) (lifecycle.AuthState, error) {
	if s.readOnly {
		return lifecycle.AuthDenied, nil
	}
	if err := s.db.PingContext(ctx); err != nil {
		return lifecycle.AuthNotDetermined, err
	}
	return lifecycle.AuthGranted, nil
}

func (s *Store) Lists(ctx context.Context) ([]task.ListHandle, error) {
	rows, err := s.db.QueryContext(ctx, `SELECT id, title FROM lists ORDER BY created_at, id;`)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var lists []task.ListHandle
	for rows.Next() {
		var l task.ListHandle
		if err := rows.Scan(&l.ID, &l.Title); err != nil {
			return nil, err
		}
		lists = append(lists, l)
	}
	return lists, rows.Err()
}

func (s *Store) CreateList(ctx context.Context, title string) (task.ListHandle, error) {
	if s.readOnly {
		return task.ListHandle{}, ErrReadOnly
	}
	title = strings.TrimSpace(title)
	if title == "" {
		return task.ListHandle{}, errors.New("list title is empty")
	}
	l := task.ListHandle{ID: uuid.NewString(), Title: title}
	now := time.Now().UTC().Format(timeLayout)
	if _, err := s.db.ExecContext(ctx, `INSERT INTO lists (id, title, created_at) VALUES (?, ?, ?);`, l.ID, l.Title, now); err != nil {
		return task.ListHandle{}, err
	}
	s.l.Info("created list", zap.String("id", l.ID), zap.String("title", l.Title))
	return l, nil
}

const taskColumns = `id, list_id, category, title, priority, due, notes, completed, completed_at, created_at`

func (s *Store) FetchIncomplete(ctx context.Context, list task.ListHandle) ([]task.Task, error) {
	rows, err := s.db.QueryContext(ctx,
		`SELECT `+taskColumns+` FROM tasks WHERE list_id = ? AND completed = 0 ORDER BY created_at, id;`, list.ID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var tasks []task.Task
	for rows.Next() {
		t, err := scanTask(rows)
		if err != nil {
			return nil, err
		}
		tasks = append(tasks, t)
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}
	rows.Close()

	for i := range tasks {
		alerts, err := s.alerts(ctx, tasks[i].ID)
		if err != nil {
			return nil, err
		}
		tasks[i].Alerts = alerts
	}
	return tasks, nil
}

func (s *Store) Get(ctx context.Context, id string) (task.Task, error) {
	row := s.db.QueryRowContext(ctx, `SELECT `+taskColumns+` FROM tasks WHERE id = ?;`, id)
	t, err := scanTask(row)
	if errors.Is(err, sql.ErrNoRows) {
		return task.Task{}, lifecycle.ErrNotFound
	}
	if err != nil {
		return task.Task{}, err
	}
	t.Alerts, err = s.alerts(ctx, id)
	if err != nil {
		return task.Task{}, err
	}
	return t, nil
}

// FindByPrefix matches ids starting with prefix, completed tasks included.
func (s *Store) FindByPrefix(ctx context.Context, prefix string) ([]task.Task, error) {
	rows, err := s.db.QueryContext(ctx,
		`SELECT `+taskColumns+` FROM tasks WHERE id LIKE ? || '%' ESCAPE '\' ORDER BY created_at, id;`,
		likeEscaper.Replace(prefix))
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var tasks []task.Task
	for rows.Next() {
		t, err := scanTask(rows)
		if err != nil {
			return nil, err
		}
		tasks = append(tasks, t)
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}
	rows.Close()

	for i := range tasks {
		if tasks[i].Alerts, err = s.alerts(ctx, tasks[i].ID); err != nil {
			return nil, err
		}
	}
	return tasks, nil
}

var likeEscaper = strings.NewReplacer(`\`, `\\`, `%`, `\%`, `_`, `\_`)

// Save upserts t and replaces its alerts in one transaction.
func (s *Store) Save(ctx context.Context, t *task.Task) error {
	if s.readOnly {
		return ErrReadOnly
	}
	if t.ID == "" {
		t.ID = uuid.NewString()
	}
	if t.CreatedAt.IsZero() {
		t.CreatedAt = time.Now()
	}

	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return err
	}
	defer tx.Rollback()

	dueStr := sql.NullString{}
	if t.Due != nil {
		dueStr = sql.NullString{String: t.Due.String(), Valid: true}
	}
	completedAt := sql.NullString{}
	if t.Completed && t.CompletedAt != nil {
		completedAt = sql.NullString{String: t.CompletedAt.UTC().Format(timeLayout), Valid: true}
	}
	done := 0
	if t.Completed {
		done = 1
	}

	_, err = tx.ExecContext(ctx, `
INSERT INTO tasks (`+taskColumns+`) VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?)
ON CONFLICT(id) DO UPDATE SET
	list_id = excluded.list_id,
	category = excluded.category,
	title = excluded.title,
	priority = excluded.priority,
	due = excluded.due,
	notes = excluded.notes,
	completed = excluded.completed,
	completed_at = excluded.completed_at;`,
		t.ID, t.ListID, string(t.Category), t.Title, t.Priority, dueStr, t.Notes, done, completedAt,
		t.CreatedAt.UTC().Format(timeLayout))
	if err != nil {
		return err
	}

	if _, err := tx.ExecContext(ctx, `DELETE FROM alerts WHERE task_id = ?;`, t.ID); err != nil {
		return err
	}
	for _, at := range t.Alerts {
		if _, err := tx.ExecContext(ctx, `INSERT INTO alerts (task_id, at) VALUES (?, ?);`, t.ID, at.UTC().Format(timeLayout)); err != nil {
			return err
		}
	}
	if err := tx.Commit(); err != nil {
		return err
	}
	s.l.Debug("saved task",
		zap.String("id", t.ID),
		zap.String("category", string(t.Category)),
		zap.Bool("completed", t.Completed),
		zap.Int("alerts", len(t.Alerts)))
	return nil
}

func (s *Store) Remove(ctx context.Context, t task.Task) error {
	if s.readOnly {
		return ErrReadOnly
	}
	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return err
	}
	defer tx.Rollback()

	res, err := tx.ExecContext(ctx, `DELETE FROM tasks WHERE id = ?;`, t.ID)
	if err != nil {
		return err
	}
	if n, err := res.RowsAffected(); err == nil && n == 0 {
		return fmt.Errorf("remove %s: %w", t.ID, lifecycle.ErrNotFound)
	}
	if _, err := tx.ExecContext(ctx, `DELETE FROM alerts WHERE task_id = ?;`, t.ID); err != nil {
		return err
	}
	if err := tx.Commit(); err != nil {
		return err
	}
	s.l.Info("removed task", zap.String("id", t.ID))
	return nil
}

func (s *Store) alerts(ctx context.Context, taskID string) ([]time.Time, error) {
	rows, err := s.db.QueryContext(ctx, `SELECT at FROM alerts WHERE task_id = ? ORDER BY at;`, taskID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var out []time.Time
	for rows.Next() {
		var raw string
		if err := rows.Scan(&raw); err != nil {
			return nil, err
		}
		at, err := time.Parse(parseLayout, raw)
		if err != nil {
			s.l.Warn("skipping unreadable alert", zap.String("task_id", taskID), zap.String("at", raw), zap.Error(err))
			continue
		}
		out = append(out, at.Local())
	}
	return out, rows.Err()
}

type scanner interface {
	Scan(dest ...any) error
}

func scanTask(row scanner) (task.Task, error) {
	var t task.Task
	var category string
	var doneInt int
	var dueStr, completedStr sql.NullString
	var createdStr string

	if err := row.Scan(&t.ID, &t.ListID, &category, &t.Title, &t.Priority, &dueStr, &t.Notes, &doneInt, &completedStr, &createdStr); err != nil {
		return task.Task{}, err
	}
	t.Category = task.Category(category)
	t.Completed = doneInt == 1
	if dueStr.Valid {
		if d, err := task.ParseDate(dueStr.String); err == nil {
			t.Due = &d
		}
	}
	if t.Completed && completedStr.Valid {
		if parsed, err := time.Parse(parseLayout, completedStr.String); err == nil {
			at := parsed.Local()
			t.CompletedAt = &at
		}
	}
	if created, err := time.Parse(parseLayout, createdStr); err == nil {
		t.CreatedAt = created.Local()
	}
	return t, nil
}

func sqliteDSN(path string) string {
	if strings.HasPrefix(path, "file:") {
		return path
	}
	abs, err := filepath.Abs(path)
	if err == nil {
		path = abs
	}
	u := url.URL{
		Scheme: "file",
		Path:   path,
	}
	q := u.Query()
	q.Set("mode", "rwc")
	q.Set("_pragma", "busy_timeout(5000)")
	u.RawQuery = q.Encode()
	return u.String()
}
