// internal/storage/migrations.go
package storage

type migration struct {
	version int
	sql     string
}

var migrations = []migration{
	{
		version: 1,
		sql: `
CREATE TABLE IF NOT EXISTS schema_version (
	version INTEGER PRIMARY KEY
);

CREATE TABLE IF NOT EXISTS notifications (
	position   INTEGER NOT NULL,
	id         TEXT PRIMARY KEY,
	title      TEXT,
	message    TEXT,
	event_type TEXT NOT NULL DEFAULT 'other',
	severity   TEXT NOT NULL DEFAULT 'info',
	status     TEXT NOT NULL DEFAULT 'unread',
	is_read    INTEGER NOT NULL DEFAULT 0,
	read_at    TIMESTAMP,
	entity_url TEXT,
	created_at TIMESTAMP NOT NULL
);

CREATE INDEX IF NOT EXISTS idx_notifications_position ON notifications(position);

INSERT INTO schema_version (version) VALUES (1);
`,
	},
}
