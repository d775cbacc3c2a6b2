package reminder

import (
	"context"
	"database/sql"
	"fmt"
	"time"

	_ "modernc.org/sqlite"
)

// Store provides SQLite-backed storage for reminders.
type Store struct {
	db *sql.DB
}

// Open opens (or creates) the SQLite database at dbPath and ensures the
// reminders table exists.
func Open(dbPath string) (*Store, error) {
	db, err := sql.Open("sqlite", dbPath)
	if err != nil {
		return nil, fmt.Errorf("failed to open database: %w", err)
	}

	// WAL mode lets the interactive CLI and the daemon share the database.
	if _, err := db.Exec("PRAGMA journal_mode=WAL"); err != nil {
		db.Close()
		return nil, fmt.Errorf("failed to set WAL mode: %w", err)
	}

	if err := createTable(db); err != nil {
		db.Close()
		return nil, err
	}

	return &Store{db: db}, nil
}

func createTable(db *sql.DB) error {
	_, err := db.Exec(`
		CREATE TABLE IF NOT EXISTS reminders (
			id              INTEGER PRIMARY KEY AUTOINCREMENT,
			text            TEXT    NOT NULL,
			due_at          TEXT    NOT NULL,
			created_at      TEXT    NOT NULL,
			done_at         TEXT,
			priority        TEXT    NOT NULL DEFAULT 'medium',
			project_context TEXT    NOT NULL DEFAULT ''
		)
	`)
	if err != nil {
		return fmt.Errorf("failed to create table: %w", err)
	}
	return nil
}

// Close closes the underlying database connection.
func (s *Store) Close() error {
	return s.db.Close()
}

// Ping verifies the database is reachable.
func (s *Store) Ping(ctx context.Context) error {
	return s.db.PingContext(ctx)
}

// Add inserts a new reminder and returns it with the assigned ID.
// Creation normally belongs to the interactive CLI; the daemon itself
// never calls Add.
func (s *Store) Add(ctx context.Context, r Reminder) (*Reminder, error) {
	if len(r.Text) > MaxTextLength {
		return nil, fmt.Errorf("reminder text exceeds %d characters", MaxTextLength)
	}
	if r.Priority == "" {
		r.Priority = PriorityMedium
	}
	r.CreatedAt = time.Now().UTC()

	result, err := s.db.ExecContext(ctx, `
		INSERT INTO reminders (text, due_at, created_at, done_at, priority, project_context)
		VALUES (?, ?, ?, NULL, ?, ?)
	`, r.Text, r.DueAt.UTC().Format(time.RFC3339), r.CreatedAt.Format(time.RFC3339),
		r.Priority, r.ProjectContext)
	if err != nil {
		return nil, fmt.Errorf("failed to insert reminder: %w", err)
	}

	id, err := result.LastInsertId()
	if err != nil {
		return nil, fmt.Errorf("failed to get inserted ID: %w", err)
	}
	r.ID = id

	return &r, nil
}

// Overdue returns all active reminders whose due time is in the past,
// ordered by due time. Comparisons are done in UTC.
func (s *Store) Overdue(ctx context.Context) ([]Reminder, error) {
	now := time.Now().UTC().Format(time.RFC3339)

	rows, err := s.db.QueryContext(ctx, `
		SELECT id, text, due_at, created_at, done_at, priority, project_context
		FROM reminders WHERE due_at < ? AND done_at IS NULL ORDER BY due_at ASC
	`, now)
	if err != nil {
		return nil, fmt.Errorf("failed to query overdue reminders: %w", err)
	}
	defer rows.Close()

	return scanReminders(rows)
}

// Upcoming returns active reminders due within the given window from now,
// ordered by due time.
func (s *Store) Upcoming(ctx context.Context, window time.Duration) ([]Reminder, error) {
	now := time.Now().UTC()
	future := now.Add(window)

	rows, err := s.db.QueryContext(ctx, `
		SELECT id, text, due_at, created_at, done_at, priority, project_context
		FROM reminders
		WHERE due_at >= ? AND due_at <= ? AND done_at IS NULL
		ORDER BY due_at ASC
	`, now.Format(time.RFC3339), future.Format(time.RFC3339))
	if err != nil {
		return nil, fmt.Errorf("failed to query upcoming reminders: %w", err)
	}
	defer rows.Close()

	return scanReminders(rows)
}

// MarkDone marks an active reminder as completed. Completion is terminal:
// marking an already-done reminder is an error.
func (s *Store) MarkDone(ctx context.Context, id int64) error {
	now := time.Now().UTC().Format(time.RFC3339)

	result, err := s.db.ExecContext(ctx, `
		UPDATE reminders SET done_at = ? WHERE id = ? AND done_at IS NULL
	`, now, id)
	if err != nil {
		return fmt.Errorf("failed to mark reminder done: %w", err)
	}

	n, _ := result.RowsAffected()
	if n == 0 {
		return fmt.Errorf("active reminder %d not found", id)
	}
	return nil
}

// GetByID returns a single reminder by ID.
func (s *Store) GetByID(ctx context.Context, id int64) (*Reminder, error) {
	row := s.db.QueryRowContext(ctx, `
		SELECT id, text, due_at, created_at, done_at, priority, project_context
		FROM reminders WHERE id = ?
	`, id)

	r, err := scanReminder(row)
	if err != nil {
		if err == sql.ErrNoRows {
			return nil, fmt.Errorf("reminder %d not found", id)
		}
		return nil, fmt.Errorf("failed to get reminder: %w", err)
	}
	return r, nil
}

func scanReminders(rows *sql.Rows) ([]Reminder, error) {
	var reminders []Reminder
	for rows.Next() {
		var r Reminder
		var dueAt, createdAt string
		var doneAt sql.NullString

		if err := rows.Scan(&r.ID, &r.Text, &dueAt, &createdAt, &doneAt,
			&r.Priority, &r.ProjectContext); err != nil {
			return nil, fmt.Errorf("failed to scan reminder: %w", err)
		}

		r.DueAt, _ = time.Parse(time.RFC3339, dueAt)
		r.CreatedAt, _ = time.Parse(time.RFC3339, createdAt)
		if doneAt.Valid {
			t, _ := time.Parse(time.RFC3339, doneAt.String)
			r.DoneAt = &t
		}

		reminders = append(reminders, r)
	}
	return reminders, rows.Err()
}

func scanReminder(row *sql.Row) (*Reminder, error) {
	var r Reminder
	var dueAt, createdAt string
	var doneAt sql.NullString

	if err := row.Scan(&r.ID, &r.Text, &dueAt, &createdAt, &doneAt,
		&r.Priority, &r.ProjectContext); err != nil {
		return nil, err
	}

	r.DueAt, _ = time.Parse(time.RFC3339, dueAt)
	r.CreatedAt, _ = time.Parse(time.RFC3339, createdAt)
	if doneAt.Valid {
		t, _ := time.Parse(time.RFC3339, doneAt.String)
		r.DoneAt = &t
	}

	return &r, nil
}
