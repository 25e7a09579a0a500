package service

import (
	"burnout-assess/internal/domain"
)

// answersFromMessages reconstruye las respuestas de la sesion a partir del log.
// Se queda con la primera respuesta por pregunta y descarta ids fuera del catalogo.
func answersFromMessages(flow *ConversationFlow, messages []domain.Message) []domain.Answer {
	byID := make(map[int]string, flow.Total())
	for _, m := range messages {
		if m.Kind != domain.MessageKindAnswer || m.QuestionID == nil {
			continue
		}
		if _, seen := byID[*m.QuestionID]; seen {
			continue
		}
		byID[*m.QuestionID] = m.Content
	}

	answers := make([]domain.Answer, 0, len(byID))
	for _, q := range flow.Questions() {
		if text, ok := byID[q.ID]; ok {
			answers = append(answers, domain.Answer{QuestionID: q.ID, Field: q.Field, Text: text})
		}
	}
	return answers
}

// structureAnswers arma el transcript Q/A en orden de catalogo para el prompt.
func structureAnswers(flow *ConversationFlow, answers []domain.Answer) []domain.QAPair {
	byField := make(map[string]string, len(answers))
	for _, a := range answers {
		byField[a.Field] = a.Text
	}

	out := make([]domain.QAPair, 0, len(answers))
	for _, q := range flow.Questions() {
		if text, ok := byField[q.Field]; ok {
			out = append(out, domain.QAPair{QuestionID: q.ID, Question: q.Prompt, Answer: text})
		}
	}
	return out
}

// nextUnanswered devuelve la primera pregunta sin respuesta; false si estan todas.
func nextUnanswered(flow *ConversationFlow, session domain.Session) (domain.Question, bool) {
	for _, q := range flow.Questions() {
		if !session.Answered(q.ID) {
			return q, true
		}
	}
	return domain.Question{}, false
}
