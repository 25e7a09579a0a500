package service

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"go.uber.org/zap"
	"golang.org/x/time/rate"

	"burnout-assess/internal/domain"
	"burnout-assess/internal/llm"
)

var (
	ErrRemoteThrottled   = errors.New("remote recommendations throttled")
	ErrRemoteNotWired    = errors.New("remote recommendations not configured")
	ErrNoStructuredInput = errors.New("no answers to send")
)

// RecommendationOutcome es el resultado final: payload mas su render para mostrar.
type RecommendationOutcome struct {
	Payload  domain.RecommendationPayload
	Text     string
	Analysis string
	Source   domain.RecommendationSource
	// FallbackReason queda vacio cuando el tier remoto tuvo exito.
	FallbackReason string
}

// RecommendationEngineOptions parametriza el tier remoto.
type RecommendationEngineOptions struct {
	// RatePerMinute <= 0 desactiva el limitador.
	RatePerMinute int
	// Timeout acota la llamada remota ademas del timeout propio del cliente.
	Timeout time.Duration
}

// RecommendationEngine genera recomendaciones en dos tiers: plantillas locales (default)
// y, si todo sale bien, el modelo remoto.
type RecommendationEngine struct {
	llm     llm.LLMClient
	lexicon *Lexicon
	limiter *rate.Limiter
	timeout time.Duration
	logger  *zap.Logger
}

// NewRecommendationEngine acepta llmClient nil (solo plantillas).
func NewRecommendationEngine(llmClient llm.LLMClient, lexicon *Lexicon, opts RecommendationEngineOptions, logger *zap.Logger) *RecommendationEngine {
	if logger == nil {
		logger = zap.NewNop()
	}
	e := &RecommendationEngine{
		llm:     llmClient,
		lexicon: lexicon,
		timeout: opts.Timeout,
		logger:  logger,
	}
	if opts.RatePerMinute > 0 {
		e.limiter = rate.NewLimiter(rate.Every(time.Minute/time.Duration(opts.RatePerMinute)), opts.RatePerMinute)
	}
	if e.timeout <= 0 {
		e.timeout = 120 * time.Second
	}
	return e
}

// Recommend nunca falla: calcula primero el default de plantillas y solo lo
// reemplaza si el tier remoto devuelve un payload valido.
func (e *RecommendationEngine) Recommend(ctx context.Context, qa []domain.QAPair, score float64, level domain.Level) RecommendationOutcome {
	fallback := templatePayload(level, score)
	outcome := RecommendationOutcome{
		Payload:  fallback,
		Text:     FormatRecommendations(fallback.Recommendations),
		Analysis: fallback.Summary,
		Source:   domain.RecommendationSourceTemplate,
	}

	payload, err := e.remoteTier(ctx, qa)
	if err != nil {
		outcome.FallbackReason = err.Error()
		e.logger.Warn("remote recommendations unavailable",
			zap.String("level", level.String()),
			zap.Error(err),
		)
		return outcome
	}

	// El nivel lo decide el oraculo, no el modelo.
	payload.Level = level
	if payload.Summary == "" {
		payload.Summary = fallback.Summary
	}
	return RecommendationOutcome{
		Payload:  payload,
		Text:     FormatRecommendations(payload.Recommendations),
		Analysis: payload.Summary,
		Source:   domain.RecommendationSourceRemote,
	}
}

// Tone expone la clasificacion de tono que usa el prompt.
func (e *RecommendationEngine) Tone(qa []domain.QAPair) Tone {
	return classifyTone(e.lexicon.Count(answerText(qa)))
}

func (e *RecommendationEngine) remoteTier(ctx context.Context, qa []domain.QAPair) (domain.RecommendationPayload, error) {
	if e.llm == nil {
		return domain.RecommendationPayload{}, ErrRemoteNotWired
	}
	if len(qa) == 0 {
		return domain.RecommendationPayload{}, ErrNoStructuredInput
	}
	if e.limiter != nil && !e.limiter.Allow() {
		return domain.RecommendationPayload{}, ErrRemoteThrottled
	}

	prompt := buildRecommendationPrompt(qa, e.Tone(qa))

	callCtx, cancel := context.WithTimeout(ctx, e.timeout)
	defer cancel()

	raw, err := e.llm.Generate(callCtx, prompt)
	if err != nil {
		return domain.RecommendationPayload{}, fmt.Errorf("generate: %w", err)
	}
	if strings.TrimSpace(raw) == "" {
		return domain.RecommendationPayload{}, fmt.Errorf("%w: empty output", ErrMalformedRecommendation)
	}
	return parseRecommendationPayload(raw)
}
