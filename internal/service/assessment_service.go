package service

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/google/uuid"
	"go.uber.org/zap"

	"burnout-assess/internal/domain"
	"burnout-assess/internal/repository"
)

var (
	ErrAssessmentNotConfigured = errors.New("assessment service not configured")
	ErrOwnerRequired           = errors.New("owner required")
	ErrAnswerRequired          = errors.New("answer required")
	ErrQuestionOutOfOrder      = errors.New("question out of order")
	ErrNoActiveSession         = errors.New("no active assessment session")
	ErrSessionNotFound         = errors.New("assessment session not found")
	ErrSessionComplete         = errors.New("assessment session already complete")
	ErrTextRequired            = errors.New("text required")
)

// analyzePrompt etiqueta el texto libre de AnalyzeText dentro del transcript.
const analyzePrompt = "Describe how work has been affecting you lately."

// Scorer es el contrato del oraculo de scoring.
type Scorer interface {
	Score(ctx context.Context, answersByField map[string]string) domain.ScoreResult
	ScoreText(ctx context.Context, text string) domain.ScoreResult
}

// Recommender es el contrato del motor de recomendaciones.
type Recommender interface {
	Recommend(ctx context.Context, qa []domain.QAPair, score float64, level domain.Level) RecommendationOutcome
}

// AssessmentService conduce una evaluacion de principio a fin.
type AssessmentService struct {
	logger      *zap.Logger
	flow        *ConversationFlow
	scorer      Scorer
	recommender Recommender
	sessions    repository.SessionRepository
	messages    *MessageService
	locker      SessionLocker
	lockWait    time.Duration
	now         func() time.Time
}

func NewAssessmentService(
	logger *zap.Logger,
	flow *ConversationFlow,
	scorer Scorer,
	recommender Recommender,
	sessions repository.SessionRepository,
	messages *MessageService,
	locker SessionLocker,
) *AssessmentService {
	if logger == nil {
		logger = zap.NewNop()
	}
	if locker == nil {
		locker = NewMemorySessionLocker()
	}
	return &AssessmentService{
		logger:      logger,
		flow:        flow,
		scorer:      scorer,
		recommender: recommender,
		sessions:    sessions,
		messages:    messages,
		locker:      locker,
		lockWait:    5 * time.Second,
		now:         func() time.Time { return time.Now().UTC() },
	}
}

type StartResult struct {
	Session         domain.Session  `json:"session"`
	CurrentQuestion domain.Question `json:"current_question"`
}

type SubmitResult struct {
	Session         domain.Session           `json:"session"`
	CurrentQuestion *domain.Question         `json:"current_question,omitempty"`
	Progress        *domain.Progress         `json:"progress,omitempty"`
	Result          *domain.AssessmentResult `json:"result,omitempty"`
	Complete        bool                     `json:"assessment_complete"`
}

type CurrentResult struct {
	Session         domain.Session   `json:"session"`
	CurrentQuestion *domain.Question `json:"current_question,omitempty"`
	Progress        domain.Progress  `json:"progress"`
}

type SessionDetail struct {
	Session  domain.Session   `json:"session"`
	Messages []domain.Message `json:"messages"`
}

type TextAnalysis struct {
	Level              domain.Level                `json:"burnout_level"`
	Score              float64                     `json:"burnout_score"`
	Advisory           string                      `json:"advisory"`
	ScoreSource        domain.ScoreSource          `json:"score_source"`
	Summary            string                      `json:"summary"`
	Recommendations    []domain.Recommendation     `json:"recommendations"`
	RecommendationText string                      `json:"recommendation_text"`
	Source             domain.RecommendationSource `json:"source"`
}

func (s *AssessmentService) configured() bool {
	return s != nil && s.flow != nil && s.scorer != nil && s.recommender != nil &&
		s.sessions != nil && s.messages != nil
}

// Questions expone el catalogo.
func (s *AssessmentService) Questions() []domain.Question {
	if s == nil || s.flow == nil {
		return nil
	}
	return s.flow.Questions()
}

// Start crea una sesion nueva; una sesion abandonada del mismo owner se descarta.
func (s *AssessmentService) Start(ctx context.Context, userID string) (StartResult, error) {
	if !s.configured() {
		return StartResult{}, ErrAssessmentNotConfigured
	}
	userID = strings.TrimSpace(userID)
	if userID == "" {
		return StartResult{}, ErrOwnerRequired
	}

	unlock, err := s.lock(ctx, "owner:"+userID)
	if err != nil {
		return StartResult{}, err
	}
	defer unlock()

	active, err := s.sessions.GetActiveByUser(ctx, userID)
	switch {
	case err == nil:
		if err := s.discardAbandoned(ctx, active); err != nil {
			return StartResult{}, err
		}
	case !errors.Is(err, repository.ErrNotFound):
		return StartResult{}, fmt.Errorf("get active session: %w", err)
	}

	session := domain.Session{
		ID:        uuid.NewString(),
		UserID:    userID,
		StartedAt: s.now(),
	}
	if err := s.sessions.Create(ctx, session); err != nil {
		return StartResult{}, fmt.Errorf("create session: %w", err)
	}

	first := s.flow.First()
	if err := s.logQuestion(ctx, session.ID, first); err != nil {
		return StartResult{}, err
	}

	s.logger.Info("assessment started", zap.String("user_id", userID), zap.String("session_id", session.ID))
	return StartResult{Session: session, CurrentQuestion: first}, nil
}

// discardAbandoned borra la sesion en curso bajo su propio lock. Si una submission
// la completo mientras esperabamos, se conserva.
func (s *AssessmentService) discardAbandoned(ctx context.Context, active domain.Session) error {
	unlock, err := s.lock(ctx, active.ID)
	if err != nil {
		return err
	}
	defer unlock()

	current, err := s.sessions.GetByID(ctx, active.UserID, active.ID)
	if err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			return nil
		}
		return fmt.Errorf("reload abandoned session: %w", err)
	}
	if current.Complete {
		return nil
	}

	if err := s.sessions.Delete(ctx, active.UserID, active.ID); err != nil && !errors.Is(err, repository.ErrNotFound) {
		return fmt.Errorf("discard abandoned session: %w", err)
	}
	s.logger.Info("abandoned assessment discarded",
		zap.String("user_id", active.UserID),
		zap.String("session_id", active.ID),
	)
	return nil
}

// SubmitAnswer registra la respuesta a la pregunta actual. Solo se acepta el id de la
// primera pregunta sin responder; la ultima respuesta dispara la completion.
func (s *AssessmentService) SubmitAnswer(ctx context.Context, userID string, questionID int, text string) (SubmitResult, error) {
	if !s.configured() {
		return SubmitResult{}, ErrAssessmentNotConfigured
	}
	userID = strings.TrimSpace(userID)
	text = strings.TrimSpace(text)
	if userID == "" {
		return SubmitResult{}, ErrOwnerRequired
	}
	if text == "" {
		return SubmitResult{}, ErrAnswerRequired
	}

	active, err := s.sessions.GetActiveByUser(ctx, userID)
	if err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			return SubmitResult{}, ErrNoActiveSession
		}
		return SubmitResult{}, fmt.Errorf("get active session: %w", err)
	}

	unlock, err := s.lock(ctx, active.ID)
	if err != nil {
		return SubmitResult{}, err
	}
	defer unlock()

	// Releer bajo lock: otra request pudo completarla o borrarla.
	session, err := s.sessions.GetByID(ctx, userID, active.ID)
	if err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			return SubmitResult{}, ErrNoActiveSession
		}
		return SubmitResult{}, fmt.Errorf("reload session: %w", err)
	}
	if session.Complete {
		return SubmitResult{}, ErrSessionComplete
	}

	if err := s.hydrate(ctx, &session); err != nil {
		return SubmitResult{}, err
	}

	expected, pending := nextUnanswered(s.flow, session)
	if !pending {
		// Todas respondidas pero sin stamp: un intento anterior fallo al persistir.
		return s.complete(ctx, session)
	}
	if questionID != expected.ID {
		return SubmitResult{}, fmt.Errorf("%w: expected question %d, got %d", ErrQuestionOutOfOrder, expected.ID, questionID)
	}

	if _, err := s.messages.Save(ctx, domain.Message{
		SessionID:  session.ID,
		Kind:       domain.MessageKindAnswer,
		Content:    text,
		QuestionID: &expected.ID,
	}); err != nil {
		return SubmitResult{}, fmt.Errorf("save answer: %w", err)
	}
	session.Answers = append(session.Answers, domain.Answer{QuestionID: expected.ID, Field: expected.Field, Text: text})

	nextID, ok := s.flow.NextID(questionID)
	if !ok {
		return s.complete(ctx, session)
	}

	next, _ := s.flow.QuestionByID(nextID)
	if err := s.logQuestion(ctx, session.ID, next); err != nil {
		return SubmitResult{}, err
	}
	progress := s.flow.Progress(questionID)
	return SubmitResult{
		Session:         session,
		CurrentQuestion: &next,
		Progress:        &progress,
	}, nil
}

// complete puntua, genera recomendaciones y estampa la sesion una unica vez.
func (s *AssessmentService) complete(ctx context.Context, session domain.Session) (SubmitResult, error) {
	scored := s.scorer.Score(ctx, session.AnswersByField())
	outcome := s.recommender.Recommend(ctx, structureAnswers(s.flow, session.Answers), scored.Score, scored.Level)

	completedAt := s.now()
	score := scored.Score
	session.Score = &score
	session.Level = scored.Level
	session.CompletedAt = &completedAt
	session.RecommendationText = outcome.Text
	session.AnalysisText = outcome.Analysis
	session.Complete = true

	if err := s.sessions.Complete(ctx, session); err != nil {
		switch {
		case errors.Is(err, repository.ErrConflict):
			return SubmitResult{}, ErrSessionComplete
		case errors.Is(err, repository.ErrNotFound):
			return SubmitResult{}, ErrNoActiveSession
		}
		return SubmitResult{}, fmt.Errorf("stamp completion: %w", err)
	}

	summary := fmt.Sprintf("Assessment complete! Burnout level: %s (Score: %.3f)", scored.Level, scored.Score)
	if _, err := s.messages.Save(ctx, domain.Message{
		SessionID: session.ID,
		Kind:      domain.MessageKindSystem,
		Content:   summary,
	}); err != nil {
		s.logger.Warn("save completion message failed", zap.String("session_id", session.ID), zap.Error(err))
	}

	s.logger.Info("assessment completed",
		zap.String("session_id", session.ID),
		zap.String("level", scored.Level.String()),
		zap.Float64("score", scored.Score),
		zap.String("score_source", string(scored.Source)),
		zap.String("recommendation_source", string(outcome.Source)),
	)

	return SubmitResult{
		Session: session,
		Result: &domain.AssessmentResult{
			Level:              scored.Level,
			Score:              scored.Score,
			RecommendationText: outcome.Text,
			AnalysisText:       outcome.Analysis,
			Source:             string(outcome.Source),
		},
		Complete: true,
	}, nil
}

// Current devuelve la sesion en curso con la pregunta pendiente.
func (s *AssessmentService) Current(ctx context.Context, userID string) (CurrentResult, error) {
	if !s.configured() {
		return CurrentResult{}, ErrAssessmentNotConfigured
	}
	session, err := s.sessions.GetActiveByUser(ctx, strings.TrimSpace(userID))
	if err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			return CurrentResult{}, ErrNoActiveSession
		}
		return CurrentResult{}, fmt.Errorf("get active session: %w", err)
	}
	if err := s.hydrate(ctx, &session); err != nil {
		return CurrentResult{}, err
	}

	out := CurrentResult{Session: session, Progress: s.flow.Progress(len(session.Answers))}
	if q, ok := nextUnanswered(s.flow, session); ok {
		out.CurrentQuestion = &q
	}
	return out, nil
}

// Detail lee la sesion persistida; nunca recalcula el resultado.
func (s *AssessmentService) Detail(ctx context.Context, userID, sessionID string) (SessionDetail, error) {
	if !s.configured() {
		return SessionDetail{}, ErrAssessmentNotConfigured
	}
	session, err := s.sessions.GetByID(ctx, strings.TrimSpace(userID), strings.TrimSpace(sessionID))
	if err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			return SessionDetail{}, ErrSessionNotFound
		}
		return SessionDetail{}, fmt.Errorf("get session: %w", err)
	}
	messages, err := s.messages.ListBySession(ctx, session.ID)
	if err != nil {
		return SessionDetail{}, fmt.Errorf("list messages: %w", err)
	}
	session.Answers = answersFromMessages(s.flow, messages)
	return SessionDetail{Session: session, Messages: messages}, nil
}

// History lista las sesiones del owner, mas recientes primero.
func (s *AssessmentService) History(ctx context.Context, userID string) ([]domain.Session, error) {
	if !s.configured() {
		return nil, ErrAssessmentNotConfigured
	}
	sessions, err := s.sessions.ListByUser(ctx, strings.TrimSpace(userID))
	if err != nil {
		return nil, fmt.Errorf("list sessions: %w", err)
	}
	return sessions, nil
}

// Delete borra la sesion y su log.
func (s *AssessmentService) Delete(ctx context.Context, userID, sessionID string) error {
	if !s.configured() {
		return ErrAssessmentNotConfigured
	}
	sessionID = strings.TrimSpace(sessionID)
	unlock, err := s.lock(ctx, sessionID)
	if err != nil {
		return err
	}
	defer unlock()

	if err := s.sessions.Delete(ctx, strings.TrimSpace(userID), sessionID); err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			return ErrSessionNotFound
		}
		return fmt.Errorf("delete session: %w", err)
	}
	s.logger.Info("assessment deleted", zap.String("session_id", sessionID))
	return nil
}

// AnalyzeText puntua un mensaje libre y genera recomendaciones sin persistir nada.
func (s *AssessmentService) AnalyzeText(ctx context.Context, text string) (TextAnalysis, error) {
	if !s.configured() {
		return TextAnalysis{}, ErrAssessmentNotConfigured
	}
	text = strings.TrimSpace(text)
	if text == "" {
		return TextAnalysis{}, ErrTextRequired
	}

	scored := s.scorer.ScoreText(ctx, text)
	qa := []domain.QAPair{{Question: analyzePrompt, Answer: text}}
	outcome := s.recommender.Recommend(ctx, qa, scored.Score, scored.Level)

	return TextAnalysis{
		Level:              scored.Level,
		Score:              scored.Score,
		Advisory:           scored.Advisory,
		ScoreSource:        scored.Source,
		Summary:            outcome.Analysis,
		Recommendations:    outcome.Payload.Recommendations,
		RecommendationText: outcome.Text,
		Source:             outcome.Source,
	}, nil
}

func (s *AssessmentService) hydrate(ctx context.Context, session *domain.Session) error {
	messages, err := s.messages.ListBySession(ctx, session.ID)
	if err != nil {
		return fmt.Errorf("list messages: %w", err)
	}
	session.Answers = answersFromMessages(s.flow, messages)
	return nil
}

func (s *AssessmentService) logQuestion(ctx context.Context, sessionID string, q domain.Question) error {
	id := q.ID
	if _, err := s.messages.Save(ctx, domain.Message{
		SessionID:  sessionID,
		Kind:       domain.MessageKindQuestion,
		Content:    q.Prompt,
		QuestionID: &id,
	}); err != nil {
		return fmt.Errorf("save question: %w", err)
	}
	return nil
}

func (s *AssessmentService) lock(ctx context.Context, key string) (func(), error) {
	lockCtx, cancel := context.WithTimeout(ctx, s.lockWait)
	defer cancel()
	return s.locker.Lock(lockCtx, key)
}
