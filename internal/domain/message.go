package domain

import "time"

// MessageKind distingue preguntas, respuestas y mensajes del sistema.
type MessageKind string

const (
	MessageKindQuestion MessageKind = "question"
	MessageKindAnswer   MessageKind = "answer"
	MessageKindSystem   MessageKind = "system"
)

// Message es una entrada append-only del log de la sesion.
type Message struct {
	ID         string      `json:"id"`
	SessionID  string      `json:"session_id"`
	Kind       MessageKind `json:"message_type"`
	Content    string      `json:"content"`
	QuestionID *int        `json:"question_id,omitempty"`
	CreatedAt  time.Time   `json:"timestamp"`
}
