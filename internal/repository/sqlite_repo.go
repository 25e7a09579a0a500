package repository

import (
	"context"
	"database/sql"
	"fmt"
	"time"

	"burnout-assess/internal/domain"
)

// SqliteSessionRepository implementa SessionRepository sobre database/sql + modernc sqlite.
type SqliteSessionRepository struct {
	db *sql.DB
}

func NewSqliteSessionRepository(db *sql.DB) *SqliteSessionRepository {
	return &SqliteSessionRepository{db: db}
}

const sqliteSessionColumns = `id, user_id, started_at, completed_at, burnout_score, burnout_level,
		recommendation, detailed_analysis, is_complete`

func (r *SqliteSessionRepository) Create(ctx context.Context, session domain.Session) error {
	const query = `
		INSERT INTO assessment_sessions (id, user_id, started_at, is_complete)
		VALUES (?, ?, ?, 0)`
	_, err := r.db.ExecContext(ctx, query, session.ID, session.UserID, session.StartedAt.UnixNano())
	return normalizeErr(err)
}

func (r *SqliteSessionRepository) GetByID(ctx context.Context, userID, id string) (domain.Session, error) {
	query := `SELECT ` + sqliteSessionColumns + ` FROM assessment_sessions WHERE id = ? AND user_id = ?`
	return scanSqliteSession(r.db.QueryRowContext(ctx, query, id, userID))
}

func (r *SqliteSessionRepository) GetActiveByUser(ctx context.Context, userID string) (domain.Session, error) {
	query := `SELECT ` + sqliteSessionColumns + ` FROM assessment_sessions
		WHERE user_id = ? AND is_complete = 0
		ORDER BY started_at DESC
		LIMIT 1`
	return scanSqliteSession(r.db.QueryRowContext(ctx, query, userID))
}

func (r *SqliteSessionRepository) ListByUser(ctx context.Context, userID string) ([]domain.Session, error) {
	query := `SELECT ` + sqliteSessionColumns + ` FROM assessment_sessions
		WHERE user_id = ?
		ORDER BY started_at DESC`
	rows, err := r.db.QueryContext(ctx, query, userID)
	if err != nil {
		return nil, fmt.Errorf("query sessions: %w", err)
	}
	defer rows.Close()

	sessions := []domain.Session{}
	for rows.Next() {
		s, err := scanSqliteSession(rows)
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

func (r *SqliteSessionRepository) Complete(ctx context.Context, session domain.Session) error {
	const query = `
		UPDATE assessment_sessions
		SET completed_at = ?, burnout_score = ?, burnout_level = ?,
			recommendation = ?, detailed_analysis = ?, is_complete = 1
		WHERE id = ? AND user_id = ? AND is_complete = 0`

	var completedAt any
	if session.CompletedAt != nil {
		completedAt = session.CompletedAt.UnixNano()
	}
	var score any
	if session.Score != nil {
		score = *session.Score
	}

	res, err := r.db.ExecContext(ctx, query,
		completedAt,
		score,
		session.Level.String(),
		session.RecommendationText,
		session.AnalysisText,
		session.ID,
		session.UserID,
	)
	if err != nil {
		return fmt.Errorf("complete session: %w", err)
	}
	n, err := res.RowsAffected()
	if err != nil {
		return err
	}
	if n == 0 {
		if _, err := r.GetByID(ctx, session.UserID, session.ID); err != nil {
			return err
		}
		return ErrConflict
	}
	return nil
}

func (r *SqliteSessionRepository) Delete(ctx context.Context, userID, id string) error {
	tx, err := r.db.BeginTx(ctx, nil)
	if err != nil {
		return err
	}
	defer func() { _ = tx.Rollback() }()

	res, err := tx.ExecContext(ctx, `DELETE FROM assessment_sessions WHERE id = ? AND user_id = ?`, id, userID)
	if err != nil {
		return fmt.Errorf("delete session: %w", err)
	}
	n, err := res.RowsAffected()
	if err != nil {
		return err
	}
	if n == 0 {
		return ErrNotFound
	}
	// El cascade depende del pragma foreign_keys; borramos explicitamente igual.
	if _, err := tx.ExecContext(ctx, `DELETE FROM assessment_messages WHERE session_id = ?`, id); err != nil {
		return fmt.Errorf("delete messages: %w", err)
	}
	return tx.Commit()
}

type rowScanner interface {
	Scan(dest ...any) error
}

func scanSqliteSession(row rowScanner) (domain.Session, error) {
	var (
		s           domain.Session
		startedAt   int64
		completedAt sql.NullInt64
		score       sql.NullFloat64
		level       sql.NullString
		complete    int64
	)
	err := row.Scan(
		&s.ID,
		&s.UserID,
		&startedAt,
		&completedAt,
		&score,
		&level,
		&s.RecommendationText,
		&s.AnalysisText,
		&complete,
	)
	if err != nil {
		return domain.Session{}, normalizeErr(err)
	}
	s.StartedAt = time.Unix(0, startedAt).UTC()
	if completedAt.Valid {
		t := time.Unix(0, completedAt.Int64).UTC()
		s.CompletedAt = &t
	}
	s.Complete = complete != 0
	if score.Valid && level.Valid {
		if err := applyScore(&s, &score.Float64, &level.String); err != nil {
			return domain.Session{}, err
		}
	}
	return s, nil
}

// SqliteMessageRepository implementa MessageRepository sobre sqlite.
type SqliteMessageRepository struct {
	db *sql.DB
}

func NewSqliteMessageRepository(db *sql.DB) *SqliteMessageRepository {
	return &SqliteMessageRepository{db: db}
}

func (r *SqliteMessageRepository) Create(ctx context.Context, message domain.Message) error {
	const query = `
		INSERT INTO assessment_messages (id, session_id, message_type, content, question_id, created_at)
		VALUES (?, ?, ?, ?, ?, ?)`

	var questionID any
	if message.QuestionID != nil {
		questionID = *message.QuestionID
	}
	_, err := r.db.ExecContext(ctx, query,
		message.ID,
		message.SessionID,
		string(message.Kind),
		message.Content,
		questionID,
		message.CreatedAt.UnixNano(),
	)
	return normalizeErr(err)
}

func (r *SqliteMessageRepository) ListBySessionID(ctx context.Context, sessionID string) ([]domain.Message, error) {
	const query = `
		SELECT id, session_id, message_type, content, question_id, created_at
		FROM assessment_messages
		WHERE session_id = ?
		ORDER BY created_at ASC, rowid ASC`

	rows, err := r.db.QueryContext(ctx, query, sessionID)
	if err != nil {
		return nil, fmt.Errorf("query messages: %w", err)
	}
	defer rows.Close()

	messages := []domain.Message{}
	for rows.Next() {
		var (
			msg        domain.Message
			kind       string
			questionID sql.NullInt64
			createdAt  int64
		)
		if err := rows.Scan(&msg.ID, &msg.SessionID, &kind, &msg.Content, &questionID, &createdAt); err != nil {
			return nil, err
		}
		msg.Kind = domain.MessageKind(kind)
		if questionID.Valid {
			id := int(questionID.Int64)
			msg.QuestionID = &id
		}
		msg.CreatedAt = time.Unix(0, createdAt).UTC()
		messages = append(messages, msg)
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}
	return messages, nil
}

// SqliteUserRepository implementa UserRepository sobre sqlite.
type SqliteUserRepository struct {
	db *sql.DB
}

func NewSqliteUserRepository(db *sql.DB) *SqliteUserRepository {
	return &SqliteUserRepository{db: db}
}

func (r *SqliteUserRepository) Create(ctx context.Context, user domain.User) error {
	const query = `
		INSERT INTO users (id, email, display_name, password_hash, created_at)
		VALUES (?, ?, ?, ?, ?)`
	_, err := r.db.ExecContext(ctx, query,
		user.ID,
		user.Email,
		user.DisplayName,
		user.PasswordHash,
		user.CreatedAt.UnixNano(),
	)
	return normalizeErr(err)
}

func (r *SqliteUserRepository) GetByID(ctx context.Context, id string) (domain.User, error) {
	return r.getOne(ctx, `SELECT id, email, display_name, password_hash, created_at FROM users WHERE id = ?`, id)
}

func (r *SqliteUserRepository) GetByEmail(ctx context.Context, email string) (domain.User, error) {
	return r.getOne(ctx, `SELECT id, email, display_name, password_hash, created_at FROM users WHERE email = ?`, email)
}

func (r *SqliteUserRepository) getOne(ctx context.Context, query, arg string) (domain.User, error) {
	var (
		u         domain.User
		createdAt int64
	)
	err := r.db.QueryRowContext(ctx, query, arg).Scan(&u.ID, &u.Email, &u.DisplayName, &u.PasswordHash, &createdAt)
	if err != nil {
		return domain.User{}, normalizeErr(err)
	}
	u.CreatedAt = time.Unix(0, createdAt).UTC()
	return u, nil
}

var (
	_ SessionRepository = (*SqliteSessionRepository)(nil)
	_ MessageRepository = (*SqliteMessageRepository)(nil)
	_ UserRepository    = (*SqliteUserRepository)(nil)
	_ SessionRepository = (*PgSessionRepository)(nil)
	_ MessageRepository = (*PgMessageRepository)(nil)
	_ UserRepository    = (*PgUserRepository)(nil)
)
