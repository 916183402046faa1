// internal/storage/sqlite.go
package storage

import (
	"context"
	"database/sql"
	"fmt"
	"time"

	"github.com/jmoiron/sqlx"
	_ "modernc.org/sqlite"

	"coopwise-client/internal/domain/notification"
	"coopwise-client/internal/store"
)

// SQLiteStore persists the notification snapshot to a local database file so
// the list survives restarts. This is the default backend.
type SQLiteStore struct {
	db *sqlx.DB
}

// NewSQLiteStore opens (or creates) the database at dbPath, enables WAL mode,
// and runs any pending schema migrations.
func NewSQLiteStore(dbPath string) (*SQLiteStore, error) {
	db, err := sqlx.Open("sqlite", dbPath)
	if err != nil {
		return nil, fmt.Errorf("opening sqlite db: %w", err)
	}

	if _, err := db.Exec("PRAGMA journal_mode=WAL"); err != nil {
		db.Close()
		return nil, fmt.Errorf("enabling WAL mode: %w", err)
	}

	s := &SQLiteStore{db: db}
	if err := s.runMigrations(); err != nil {
		db.Close()
		return nil, fmt.Errorf("running migrations: %w", err)
	}
	return s, nil
}

// Close closes the underlying database connection.
func (s *SQLiteStore) Close() error {
	return s.db.Close()
}

func (s *SQLiteStore) runMigrations() error {
	currentVersion := 0

	var tableCount int
	err := s.db.Get(
		&tableCount,
		"SELECT COUNT(*) FROM sqlite_master WHERE type='table' AND name='schema_version'",
	)
	if err != nil {
		return fmt.Errorf("checking schema_version table: %w", err)
	}

	if tableCount > 0 {
		err = s.db.Get(&currentVersion, "SELECT COALESCE(MAX(version), 0) FROM schema_version")
		if err != nil {
			return fmt.Errorf("reading schema version: %w", err)
		}
	}

	for _, m := range migrations {
		if m.version <= currentVersion {
			continue
		}
		if _, err := s.db.Exec(m.sql); err != nil {
			return fmt.Errorf("applying migration v%d: %w", m.version, err)
		}
	}
	return nil
}

type notificationRow struct {
	Position  int            `db:"position"`
	ID        string         `db:"id"`
	Title     sql.NullString `db:"title"`
	Message   sql.NullString `db:"message"`
	EventType string         `db:"event_type"`
	Severity  string         `db:"severity"`
	Status    string         `db:"status"`
	IsRead    bool           `db:"is_read"`
	ReadAt    sql.NullTime   `db:"read_at"`
	EntityURL sql.NullString `db:"entity_url"`
	CreatedAt time.Time      `db:"created_at"`
}

// Load reads the persisted snapshot. Returns nil when nothing was saved yet.
func (s *SQLiteStore) Load(ctx context.Context) (*store.Snapshot, error) {
	var rows []notificationRow
	err := s.db.SelectContext(ctx, &rows, `
		SELECT position, id, title, message, event_type, severity, status,
		       is_read, read_at, entity_url, created_at
		FROM notifications ORDER BY position ASC`)
	if err != nil {
		return nil, fmt.Errorf("loading notifications: %w", err)
	}
	if len(rows) == 0 {
		return nil, nil
	}

	snap := &store.Snapshot{Notifications: make([]notification.Notification, 0, len(rows))}
	for _, r := range rows {
		n := notification.Notification{
			ID:        r.ID,
			Title:     r.Title.String,
			Message:   r.Message.String,
			EventType: notification.EventType(r.EventType),
			Severity:  notification.Severity(r.Severity),
			Status:    notification.Status(r.Status),
			IsRead:    r.IsRead,
			EntityURL: r.EntityURL.String,
			CreatedAt: r.CreatedAt,
		}
		if r.ReadAt.Valid {
			t := r.ReadAt.Time
			n.ReadAt = &t
		}
		if !n.IsRead {
			snap.UnreadCount++
		}
		snap.Notifications = append(snap.Notifications, n)
	}
	return snap, nil
}

// Save replaces the persisted snapshot with the given one, atomically.
func (s *SQLiteStore) Save(ctx context.Context, snap *store.Snapshot) error {
	tx, err := s.db.BeginTxx(ctx, nil)
	if err != nil {
		return fmt.Errorf("beginning transaction: %w", err)
	}
	defer tx.Rollback()

	if _, err := tx.ExecContext(ctx, "DELETE FROM notifications"); err != nil {
		return fmt.Errorf("clearing notifications: %w", err)
	}

	for i, n := range snap.Notifications {
		var readAt interface{}
		if n.ReadAt != nil {
			readAt = *n.ReadAt
		}
		_, err := tx.ExecContext(ctx, `
			INSERT INTO notifications
				(position, id, title, message, event_type, severity, status,
				 is_read, read_at, entity_url, created_at)
			VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?)`,
			i, n.ID, n.Title, n.Message, string(n.EventType), string(n.Severity),
			string(n.Status), n.IsRead, readAt, n.EntityURL, n.CreatedAt,
		)
		if err != nil {
			return fmt.Errorf("inserting notification %s: %w", n.ID, err)
		}
	}

	if err := tx.Commit(); err != nil {
		return fmt.Errorf("committing snapshot: %w", err)
	}
	return nil
}
