package domain

// ScoreSource indica que camino produjo el score.
type ScoreSource string

const (
	ScoreSourceClassifier ScoreSource = "classifier"
	ScoreSourceLexical    ScoreSource = "lexical"
)

// ScoreResult es el resultado derivado del oraculo de scoring.
type ScoreResult struct {
	Score    float64     `json:"score"`
	Level    Level       `json:"level"`
	Advisory string      `json:"advisory"`
	Source   ScoreSource `json:"source"`
}

// Priority es la etiqueta de prioridad de una recomendacion (immediate, short_term, ...).
type Priority string

// Recommendation es una accion sugerida.
type Recommendation struct {
	Title       string   `json:"title"`
	Description string   `json:"description"`
	Rationale   string   `json:"why_it_helps"`
	Timeframe   string   `json:"timeframe"`
	Priority    Priority `json:"priority"`
}

// RecommendationSource indica que tier produjo el payload.
type RecommendationSource string

const (
	RecommendationSourceRemote   RecommendationSource = "remote"
	RecommendationSourceTemplate RecommendationSource = "template"
)

// RecommendationPayload es efimero, se produce en cada completion.
type RecommendationPayload struct {
	Level           Level            `json:"burnout_level"`
	Confidence      float64          `json:"confidence"`
	Summary         string           `json:"summary"`
	Recommendations []Recommendation `json:"recommendations"`
}
