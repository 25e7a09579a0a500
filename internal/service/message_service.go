package service

import (
	"context"
	"errors"
	"sort"
	"strings"
	"time"

	"github.com/google/uuid"

	"burnout-assess/internal/domain"
	"burnout-assess/internal/repository"
)

// MessageService encapsula el log append-only de cada sesion.
type MessageService struct {
	repo repository.MessageRepository
	now  func() time.Time
}

var (
	ErrMessageServiceNotConfigured = errors.New("message service not configured")
	ErrMessageInvalidInput         = errors.New("message invalid input")
)

func NewMessageService(repo repository.MessageRepository) *MessageService {
	return &MessageService{repo: repo, now: func() time.Time { return time.Now().UTC() }}
}

func (s *MessageService) Save(ctx context.Context, msg domain.Message) (domain.Message, error) {
	if s == nil || s.repo == nil {
		return domain.Message{}, ErrMessageServiceNotConfigured
	}

	msg.SessionID = strings.TrimSpace(msg.SessionID)
	msg.Content = strings.TrimSpace(msg.Content)

	if msg.SessionID == "" || msg.Content == "" || !validKind(msg.Kind) {
		return domain.Message{}, ErrMessageInvalidInput
	}
	if msg.Kind != domain.MessageKindSystem && msg.QuestionID == nil {
		return domain.Message{}, ErrMessageInvalidInput
	}
	if msg.ID == "" {
		msg.ID = uuid.NewString()
	}
	if msg.CreatedAt.IsZero() {
		msg.CreatedAt = s.now()
	}

	if err := s.repo.Create(ctx, msg); err != nil {
		return domain.Message{}, err
	}
	return msg, nil
}

// ListBySession devuelve los mensajes en orden cronologico.
func (s *MessageService) ListBySession(ctx context.Context, sessionID string) ([]domain.Message, error) {
	if s == nil || s.repo == nil {
		return nil, ErrMessageServiceNotConfigured
	}
	sessionID = strings.TrimSpace(sessionID)
	if sessionID == "" {
		return []domain.Message{}, nil
	}
	messages, err := s.repo.ListBySessionID(ctx, sessionID)
	if err != nil {
		return nil, err
	}
	sort.SliceStable(messages, func(i, j int) bool {
		return messages[i].CreatedAt.Before(messages[j].CreatedAt)
	})
	return messages, nil
}

func validKind(k domain.MessageKind) bool {
	switch k {
	case domain.MessageKindQuestion, domain.MessageKindAnswer, domain.MessageKindSystem:
		return true
	default:
		return false
	}
}
