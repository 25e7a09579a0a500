package db

import (
	"context"
	"database/sql"
	"fmt"
	"os"
	"path/filepath"
	"time"

	_ "modernc.org/sqlite"
)

// MemoryDSN abre una base privada en memoria (tests y CLI efimero).
const MemoryDSN = ":memory:"

const sqliteSchema = `
PRAGMA foreign_keys = ON;
PRAGMA busy_timeout = 5000;

CREATE TABLE IF NOT EXISTS users (
	id TEXT PRIMARY KEY,
	email TEXT NOT NULL UNIQUE,
	display_name TEXT NOT NULL DEFAULT '',
	password_hash TEXT NOT NULL DEFAULT '',
	created_at INTEGER NOT NULL
);

CREATE TABLE IF NOT EXISTS assessment_sessions (
	id TEXT PRIMARY KEY,
	user_id TEXT NOT NULL,
	started_at INTEGER NOT NULL,
	completed_at INTEGER,
	burnout_score REAL,
	burnout_level TEXT,
	recommendation TEXT NOT NULL DEFAULT '',
	detailed_analysis TEXT NOT NULL DEFAULT '',
	is_complete INTEGER NOT NULL DEFAULT 0,
	CHECK ((burnout_score IS NULL) = (burnout_level IS NULL))
);
CREATE UNIQUE INDEX IF NOT EXISTS ux_assessment_sessions_active
	ON assessment_sessions (user_id) WHERE is_complete = 0;
CREATE INDEX IF NOT EXISTS idx_assessment_sessions_user
	ON assessment_sessions (user_id, started_at DESC);

CREATE TABLE IF NOT EXISTS assessment_messages (
	id TEXT PRIMARY KEY,
	session_id TEXT NOT NULL REFERENCES assessment_sessions (id) ON DELETE CASCADE,
	message_type TEXT NOT NULL,
	content TEXT NOT NULL,
	question_id INTEGER,
	created_at INTEGER NOT NULL
);
CREATE INDEX IF NOT EXISTS idx_assessment_messages_session
	ON assessment_messages (session_id, created_at);
`

// OpenSQLite abre (o crea) la base sqlite y aplica el esquema.
func OpenSQLite(ctx context.Context, path string) (*sql.DB, error) {
	dsn := path
	if path != MemoryDSN {
		if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
			return nil, fmt.Errorf("create database directory: %w", err)
		}
		dsn = path + "?_pragma=journal_mode(WAL)&_pragma=busy_timeout(5000)&_pragma=foreign_keys(1)"
	}

	conn, err := sql.Open("sqlite", dsn)
	if err != nil {
		return nil, fmt.Errorf("open database: %w", err)
	}

	// sqlite serializa escrituras; un unico writer evita SQLITE_BUSY y
	// mantiene viva la base en memoria.
	conn.SetMaxOpenConns(1)
	conn.SetConnMaxLifetime(0)
	conn.SetConnMaxIdleTime(0)

	pingCtx, cancel := context.WithTimeout(ctx, 5*time.Second)
	defer cancel()
	if err := conn.PingContext(pingCtx); err != nil {
		_ = conn.Close()
		return nil, fmt.Errorf("ping database: %w", err)
	}

	if _, err := conn.ExecContext(ctx, sqliteSchema); err != nil {
		_ = conn.Close()
		return nil, fmt.Errorf("create schema: %w", err)
	}
	return conn, nil
}
