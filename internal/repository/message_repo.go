package repository

import (
	"context"

	"github.com/jackc/pgx/v5/pgxpool"

	"burnout-assess/internal/domain"
)

// MessageRepository persiste el log append-only de una sesion.
type MessageRepository interface {
	Create(ctx context.Context, message domain.Message) error
	ListBySessionID(ctx context.Context, sessionID string) ([]domain.Message, error)
}

type PgMessageRepository struct {
	pool *pgxpool.Pool
}

func NewPgMessageRepository(pool *pgxpool.Pool) *PgMessageRepository {
	return &PgMessageRepository{pool: pool}
}

func (r *PgMessageRepository) Create(ctx context.Context, message domain.Message) error {
	const query = `
		INSERT INTO assessment_messages (id, session_id, message_type, content, question_id, created_at)
		VALUES ($1, $2, $3, $4, $5, $6)
	`
	_, err := r.pool.Exec(ctx, query,
		message.ID,
		message.SessionID,
		string(message.Kind),
		message.Content,
		message.QuestionID,
		message.CreatedAt,
	)
	return normalizeErr(err)
}

func (r *PgMessageRepository) ListBySessionID(ctx context.Context, sessionID string) ([]domain.Message, error) {
	const query = `
		SELECT id, session_id, message_type, content, question_id, created_at
		FROM assessment_messages
		WHERE session_id = $1
		ORDER BY created_at ASC, seq ASC
	`

	rows, err := r.pool.Query(ctx, query, sessionID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	messages := []domain.Message{}
	for rows.Next() {
		var (
			msg  domain.Message
			kind string
		)
		err = rows.Scan(
			&msg.ID,
			&msg.SessionID,
			&kind,
			&msg.Content,
			&msg.QuestionID,
			&msg.CreatedAt,
		)
		if err != nil {
			return nil, err
		}
		msg.Kind = domain.MessageKind(kind)
		messages = append(messages, msg)
	}

	if err = rows.Err(); err != nil {
		return nil, err
	}

	return messages, nil
}
