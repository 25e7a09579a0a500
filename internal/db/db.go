package db

import (
	"context"
	"time"

	"github.com/jackc/pgx/v5/pgxpool"

	"burnout-assess/internal/config"
)

// NewPool construye y devuelve un pool de conexiones configurado.
func NewPool(ctx context.Context, cfg *config.Config) (*pgxpool.Pool, error) {
	poolCfg, err := pgxpool.ParseConfig(cfg.DatabaseURL)
	if err != nil {
		return nil, err
	}

	// Configuración razonable para ambientes iniciales.
	poolCfg.MaxConns = 10
	poolCfg.MinConns = 1
	poolCfg.MaxConnLifetime = 30 * time.Minute
	poolCfg.MaxConnIdleTime = 5 * time.Minute
	poolCfg.HealthCheckPeriod = 30 * time.Second
	poolCfg.ConnConfig.ConnectTimeout = 5 * time.Second

	return pgxpool.NewWithConfig(ctx, poolCfg)
}

// Ping verifica conectividad con la base de datos.
func Ping(ctx context.Context, pool *pgxpool.Pool) error {
	return pool.Ping(ctx)
}

const postgresSchema = `
CREATE TABLE IF NOT EXISTS users (
	id TEXT PRIMARY KEY,
	email TEXT NOT NULL UNIQUE,
	display_name TEXT NOT NULL DEFAULT '',
	password_hash TEXT NOT NULL DEFAULT '',
	created_at TIMESTAMPTZ NOT NULL
);

CREATE TABLE IF NOT EXISTS assessment_sessions (
	id TEXT PRIMARY KEY,
	user_id TEXT NOT NULL,
	started_at TIMESTAMPTZ NOT NULL,
	completed_at TIMESTAMPTZ,
	burnout_score DOUBLE PRECISION,
	burnout_level TEXT,
	recommendation TEXT NOT NULL DEFAULT '',
	detailed_analysis TEXT NOT NULL DEFAULT '',
	is_complete BOOLEAN NOT NULL DEFAULT FALSE,
	CHECK ((burnout_score IS NULL) = (burnout_level IS NULL))
);
CREATE UNIQUE INDEX IF NOT EXISTS ux_assessment_sessions_active
	ON assessment_sessions (user_id) WHERE NOT is_complete;
CREATE INDEX IF NOT EXISTS idx_assessment_sessions_user
	ON assessment_sessions (user_id, started_at DESC);

CREATE TABLE IF NOT EXISTS assessment_messages (
	seq BIGSERIAL,
	id TEXT PRIMARY KEY,
	session_id TEXT NOT NULL REFERENCES assessment_sessions (id) ON DELETE CASCADE,
	message_type TEXT NOT NULL,
	content TEXT NOT NULL,
	question_id INTEGER,
	created_at TIMESTAMPTZ NOT NULL
);
CREATE INDEX IF NOT EXISTS idx_assessment_messages_session
	ON assessment_messages (session_id, created_at, seq);
`

// MigratePostgres crea las tablas si no existen.
func MigratePostgres(ctx context.Context, pool *pgxpool.Pool) error {
	_, err := pool.Exec(ctx, postgresSchema)
	return err
}
