package domain

import "time"

// Answer es una respuesta registrada para una pregunta del catalogo.
type Answer struct {
	QuestionID int    `json:"question_id"`
	Field      string `json:"field"`
	Text       string `json:"text"`
}

// Session es una corrida completa del cuestionario para un usuario.
type Session struct {
	ID                 string     `json:"id"`
	UserID             string     `json:"user_id"`
	Answers            []Answer   `json:"answers,omitempty"`
	StartedAt          time.Time  `json:"started_at"`
	CompletedAt        *time.Time `json:"completed_at,omitempty"`
	Score              *float64   `json:"burnout_score,omitempty"`
	Level              Level      `json:"burnout_level,omitempty"`
	RecommendationText string     `json:"recommendation,omitempty"`
	AnalysisText       string     `json:"detailed_analysis,omitempty"`
	Complete           bool       `json:"is_complete"`
}

// AnswersByField devuelve las respuestas indexadas por campo de la pregunta.
func (s Session) AnswersByField() map[string]string {
	out := make(map[string]string, len(s.Answers))
	for _, a := range s.Answers {
		out[a.Field] = a.Text
	}
	return out
}

// Answered indica si la pregunta ya tiene respuesta en la sesion.
func (s Session) Answered(questionID int) bool {
	for _, a := range s.Answers {
		if a.QuestionID == questionID {
			return true
		}
	}
	return false
}

// AssessmentResult es la vista de resultado expuesta al caller.
type AssessmentResult struct {
	Level              Level   `json:"level"`
	Score              float64 `json:"score"`
	RecommendationText string  `json:"recommendation_text"`
	AnalysisText       string  `json:"analysis_text"`
	Source             string  `json:"source"`
}
