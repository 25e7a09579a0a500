package service

import (
	_ "embed"
	"errors"
	"fmt"
	"strings"

	"gopkg.in/yaml.v3"

	"burnout-assess/internal/domain"
)

//go:embed data/questions.yaml
var defaultQuestionsYAML []byte

var ErrInvalidCatalog = errors.New("invalid question catalog")

// ConversationFlow es el catalogo ordenado e inmutable de preguntas.
// Se construye una vez al arrancar y se comparte en modo lectura.
type ConversationFlow struct {
	questions []domain.Question
	byID      map[int]int
}

// NewDefaultConversationFlow carga el catalogo embebido.
func NewDefaultConversationFlow() (*ConversationFlow, error) {
	return ParseConversationFlow(defaultQuestionsYAML)
}

// MustDefaultConversationFlow es para main y tests; el catalogo embebido siempre es valido.
func MustDefaultConversationFlow() *ConversationFlow {
	flow, err := NewDefaultConversationFlow()
	if err != nil {
		panic(err)
	}
	return flow
}

// ParseConversationFlow valida ids densos 1..N, campos unicos y prompts no vacios.
func ParseConversationFlow(raw []byte) (*ConversationFlow, error) {
	var doc struct {
		Questions []domain.Question `yaml:"questions"`
	}
	if err := yaml.Unmarshal(raw, &doc); err != nil {
		return nil, fmt.Errorf("%w: %w", ErrInvalidCatalog, err)
	}
	if len(doc.Questions) == 0 {
		return nil, fmt.Errorf("%w: empty catalog", ErrInvalidCatalog)
	}

	fields := make(map[string]struct{}, len(doc.Questions))
	byID := make(map[int]int, len(doc.Questions))
	for i, q := range doc.Questions {
		if q.ID != i+1 {
			return nil, fmt.Errorf("%w: question at position %d has id %d", ErrInvalidCatalog, i+1, q.ID)
		}
		q.Field = strings.TrimSpace(q.Field)
		q.Prompt = strings.TrimSpace(q.Prompt)
		if q.Field == "" || q.Prompt == "" {
			return nil, fmt.Errorf("%w: question %d missing field or prompt", ErrInvalidCatalog, q.ID)
		}
		if _, dup := fields[q.Field]; dup {
			return nil, fmt.Errorf("%w: duplicate field %q", ErrInvalidCatalog, q.Field)
		}
		fields[q.Field] = struct{}{}
		doc.Questions[i] = q
		byID[q.ID] = i
	}

	return &ConversationFlow{questions: doc.Questions, byID: byID}, nil
}

// Questions devuelve una copia del catalogo.
func (f *ConversationFlow) Questions() []domain.Question {
	out := make([]domain.Question, len(f.questions))
	copy(out, f.questions)
	return out
}

func (f *ConversationFlow) QuestionByID(id int) (domain.Question, bool) {
	idx, ok := f.byID[id]
	if !ok {
		return domain.Question{}, false
	}
	return f.questions[idx], true
}

// NextID devuelve la pregunta siguiente en orden de catalogo; false cuando no hay mas.
// Un id desconocido se trata como posicion -1, o sea devuelve la primera pregunta.
func (f *ConversationFlow) NextID(id int) (int, bool) {
	idx, ok := f.byID[id]
	if !ok {
		idx = -1
	}
	if idx < len(f.questions)-1 {
		return f.questions[idx+1].ID, true
	}
	return 0, false
}

func (f *ConversationFlow) First() domain.Question {
	return f.questions[0]
}

func (f *ConversationFlow) Total() int {
	return len(f.questions)
}

// Fields devuelve los campos en orden de catalogo.
func (f *ConversationFlow) Fields() []string {
	out := make([]string, len(f.questions))
	for i, q := range f.questions {
		out[i] = q.Field
	}
	return out
}

// Progress reporta el avance usando el id de la pregunta actual.
func (f *ConversationFlow) Progress(currentID int) domain.Progress {
	total := f.Total()
	return domain.Progress{
		Current:    currentID,
		Total:      total,
		Percentage: currentID * 100 / total,
	}
}
