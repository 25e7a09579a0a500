package repository

import (
	"context"
	"time"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"

	"burnout-assess/internal/domain"
)

// SessionRepository define el contrato de persistencia para sesiones de evaluacion.
// Todas las lecturas estan acotadas al owner.
type SessionRepository interface {
	Create(ctx context.Context, session domain.Session) error
	GetByID(ctx context.Context, userID, id string) (domain.Session, error)
	GetActiveByUser(ctx context.Context, userID string) (domain.Session, error)
	ListByUser(ctx context.Context, userID string) ([]domain.Session, error)
	// Complete estampa el resultado solo si la sesion sigue incompleta.
	Complete(ctx context.Context, session domain.Session) error
	Delete(ctx context.Context, userID, id string) error
}

type PgSessionRepository struct {
	pool *pgxpool.Pool
}

func NewPgSessionRepository(pool *pgxpool.Pool) *PgSessionRepository {
	return &PgSessionRepository{pool: pool}
}

const pgSessionColumns = `id, user_id, started_at, completed_at, burnout_score, burnout_level,
		recommendation, detailed_analysis, is_complete`

func (r *PgSessionRepository) Create(ctx context.Context, session domain.Session) error {
	const query = `
		INSERT INTO assessment_sessions (id, user_id, started_at, is_complete)
		VALUES ($1, $2, $3, FALSE)
	`
	_, err := r.pool.Exec(ctx, query,
		session.ID,
		session.UserID,
		session.StartedAt,
	)
	return normalizeErr(err)
}

func (r *PgSessionRepository) GetByID(ctx context.Context, userID, id string) (domain.Session, error) {
	query := `SELECT ` + pgSessionColumns + ` FROM assessment_sessions WHERE id = $1 AND user_id = $2`
	return scanPgSession(r.pool.QueryRow(ctx, query, id, userID))
}

func (r *PgSessionRepository) GetActiveByUser(ctx context.Context, userID string) (domain.Session, error) {
	query := `SELECT ` + pgSessionColumns + ` FROM assessment_sessions
		WHERE user_id = $1 AND NOT is_complete
		ORDER BY started_at DESC
		LIMIT 1`
	return scanPgSession(r.pool.QueryRow(ctx, query, userID))
}

func (r *PgSessionRepository) ListByUser(ctx context.Context, userID string) ([]domain.Session, error) {
	query := `SELECT ` + pgSessionColumns + ` FROM assessment_sessions
		WHERE user_id = $1
		ORDER BY started_at DESC`
	rows, err := r.pool.Query(ctx, query, userID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	sessions := []domain.Session{}
	for rows.Next() {
		s, err := scanPgSession(rows)
		if err != nil {
			return nil, err
		}
		sessions = append(sessions, s)
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}
	return sessions, nil
}

func (r *PgSessionRepository) Complete(ctx context.Context, session domain.Session) error {
	const query = `
		UPDATE assessment_sessions
		SET completed_at = $3, burnout_score = $4, burnout_level = $5,
			recommendation = $6, detailed_analysis = $7, is_complete = TRUE
		WHERE id = $1 AND user_id = $2 AND NOT is_complete
	`
	tag, err := r.pool.Exec(ctx, query,
		session.ID,
		session.UserID,
		session.CompletedAt,
		session.Score,
		session.Level.String(),
		session.RecommendationText,
		session.AnalysisText,
	)
	if err != nil {
		return err
	}
	if tag.RowsAffected() == 0 {
		if _, err := r.GetByID(ctx, session.UserID, session.ID); err != nil {
			return err
		}
		return ErrConflict
	}
	return nil
}

func (r *PgSessionRepository) Delete(ctx context.Context, userID, id string) error {
	const query = `DELETE FROM assessment_sessions WHERE id = $1 AND user_id = $2`
	tag, err := r.pool.Exec(ctx, query, id, userID)
	if err != nil {
		return err
	}
	if tag.RowsAffected() == 0 {
		return ErrNotFound
	}
	return nil
}

func scanPgSession(row pgx.Row) (domain.Session, error) {
	var (
		s           domain.Session
		completedAt *time.Time
		score       *float64
		level       *string
	)
	err := row.Scan(
		&s.ID,
		&s.UserID,
		&s.StartedAt,
		&completedAt,
		&score,
		&level,
		&s.RecommendationText,
		&s.AnalysisText,
		&s.Complete,
	)
	if err != nil {
		return domain.Session{}, normalizeErr(err)
	}
	s.CompletedAt = completedAt
	if err := applyScore(&s, score, level); err != nil {
		return domain.Session{}, err
	}
	return s, nil
}

// applyScore mantiene score y level juntos: ambos o ninguno.
func applyScore(s *domain.Session, score *float64, level *string) error {
	if score == nil || level == nil {
		return nil
	}
	parsed, err := domain.ParseLevel(*level)
	if err != nil {
		return err
	}
	s.Score = score
	s.Level = parsed
	return nil
}
