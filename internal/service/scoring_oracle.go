package service

import (
	"context"
	"math"
	"sort"
	"strings"

	"go.uber.org/zap"

	"burnout-assess/internal/classifier"
	"burnout-assess/internal/domain"
)

// EmptyAnswersPlaceholder reemplaza el texto cuando todas las respuestas estan vacias.
const EmptyAnswersPlaceholder = "no response provided"

// Scores fijos del camino lexico.
const (
	lexicalNegativeScore = 0.7
	lexicalPositiveScore = 0.2
	lexicalNeutralScore  = 0.5
)

// ScoringOracle convierte respuestas en un score de burnout. Nunca devuelve error:
// si el clasificador falla o no esta configurado se usa el scorer lexico.
type ScoringOracle struct {
	flow       *ConversationFlow
	lexicon    *Lexicon
	classifier classifier.Classifier
	logger     *zap.Logger
}

// NewScoringOracle acepta un clasificador nil (solo camino lexico).
func NewScoringOracle(flow *ConversationFlow, lexicon *Lexicon, clf classifier.Classifier, logger *zap.Logger) *ScoringOracle {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &ScoringOracle{flow: flow, lexicon: lexicon, classifier: clf, logger: logger}
}

// Score combina las respuestas en orden de catalogo y las puntua.
func (o *ScoringOracle) Score(ctx context.Context, answersByField map[string]string) domain.ScoreResult {
	return o.ScoreText(ctx, o.combine(answersByField))
}

// ScoreText puntua un texto libre ya combinado.
func (o *ScoringOracle) ScoreText(ctx context.Context, text string) domain.ScoreResult {
	if strings.TrimSpace(text) == "" {
		text = EmptyAnswersPlaceholder
	}
	normalized := NormalizeText(text)
	if normalized == "" {
		normalized = EmptyAnswersPlaceholder
	}

	if o.classifier != nil {
		score, err := o.classifier.Predict(ctx, normalized)
		if err == nil && !math.IsNaN(score) && score >= 0 && score <= 1 {
			return newScoreResult(score, domain.ScoreSourceClassifier)
		}
		if err == nil {
			o.logger.Warn("classifier returned out of range score", zap.Float64("score", score))
		} else {
			o.logger.Warn("classifier predict failed", zap.Error(err))
		}
	}

	return newScoreResult(o.lexicalScore(normalized), domain.ScoreSourceLexical)
}

func (o *ScoringOracle) lexicalScore(normalized string) float64 {
	hits := o.lexicon.Count(normalized)
	switch {
	case hits.Negative > hits.Positive:
		return lexicalNegativeScore
	case hits.Positive > hits.Negative:
		return lexicalPositiveScore
	default:
		return lexicalNeutralScore
	}
}

// combine une respuestas no vacias con un espacio: primero en orden de catalogo,
// despues los campos desconocidos ordenados.
func (o *ScoringOracle) combine(answersByField map[string]string) string {
	parts := make([]string, 0, len(answersByField))
	known := make(map[string]struct{}, o.flow.Total())
	for _, field := range o.flow.Fields() {
		known[field] = struct{}{}
		if a := strings.TrimSpace(answersByField[field]); a != "" {
			parts = append(parts, a)
		}
	}

	var extra []string
	for field := range answersByField {
		if _, ok := known[field]; !ok {
			extra = append(extra, field)
		}
	}
	sort.Strings(extra)
	for _, field := range extra {
		if a := strings.TrimSpace(answersByField[field]); a != "" {
			parts = append(parts, a)
		}
	}

	if len(parts) == 0 {
		return EmptyAnswersPlaceholder
	}
	return strings.Join(parts, " ")
}

func newScoreResult(score float64, source domain.ScoreSource) domain.ScoreResult {
	level := domain.LevelFromScore(score)
	return domain.ScoreResult{
		Score:    score,
		Level:    level,
		Advisory: AdvisoryFor(level),
		Source:   source,
	}
}

// AdvisoryFor devuelve la linea de consejo por nivel.
func AdvisoryFor(level domain.Level) string {
	switch level {
	case domain.LevelLow:
		return "Maintain healthy work habits and self-care"
	case domain.LevelModerate:
		return "Monitor stress levels and implement coping strategies"
	case domain.LevelHigh:
		return "Seek professional support and consider workplace changes"
	default:
		return ""
	}
}
