package service

import (
	"fmt"
	"strings"

	"burnout-assess/internal/domain"
)

// Tone es el encuadre del prompt segun el tono lexico de las respuestas.
type Tone string

const (
	ToneCrisis  Tone = "crisis"
	ToneGrowth  Tone = "growth"
	ToneBalance Tone = "balance"
)

const (
	crisisNegativeThreshold = 3
	growthPositiveThreshold = 3
)

// classifyTone: >=3 negativas => crisis; >=3 positivas sin negativas => growth; si no balance.
func classifyTone(hits LexiconHits) Tone {
	switch {
	case hits.Negative >= crisisNegativeThreshold:
		return ToneCrisis
	case hits.Positive >= growthPositiveThreshold && hits.Negative == 0:
		return ToneGrowth
	default:
		return ToneBalance
	}
}

func toneInstruction(t Tone) string {
	switch t {
	case ToneCrisis:
		return "USER IS IN CRISIS. Focus ONLY on: immediate recovery, professional help, urgent stress reduction. " +
			"Recommendations must be about survival and crisis management."
	case ToneGrowth:
		return strings.Join([]string{
			"CONTEXT: USER IS HAPPY AND THRIVING",
			"CONSTRAINTS:",
			"1. User enjoys their current job and wants to stay long-term",
			"2. User finds their workload manageable and energizing",
			"3. User is already satisfied and motivated",
			"",
			"RECOMMENDATION RULES:",
			"- DO NOT push for promotions or leadership roles unless the user explicitly wants them",
			"- DO NOT suggest aggressive career advancement that might disrupt their happiness",
			"- DO NOT mention stress, burnout, challenges, or prevention",
			"- DO focus on sustaining their current positive state",
			"- DO suggest ways to deepen existing satisfaction",
			"- DO recommend knowledge sharing and mentoring OTHERS",
			"- DO suggest ways to amplify their positive impact without adding pressure",
			"",
			"APPROPRIATE THEMES: knowledge sharing, mentoring others, passion projects, " +
				"sustainable growth, deepening expertise, positive team contributions",
		}, "\n")
	default:
		return "User shows mixed signals. Balance growth with sustainable habits and work-life balance."
	}
}

const recommendationSchema = `{"burnout_level": "LOW | MODERATE | HIGH", ` +
	`"confidence": 0.0-1.0, ` +
	`"summary": "2-3 sentence overview", ` +
	`"recommendations": [{"title": "Short name", ` +
	`"description": "Action steps (2 sentences)", ` +
	`"why_it_helps": "1 sentence rationale", ` +
	`"timeframe": "When to start + cadence", ` +
	`"priority": "immediate | short_term | long_term"}]}`

// buildRecommendationPrompt arma el prompt unico (un solo mensaje user).
func buildRecommendationPrompt(qa []domain.QAPair, tone Tone) string {
	formatted := make([]string, 0, len(qa))
	for i, pair := range qa {
		question := strings.TrimSpace(pair.Question)
		if question == "" {
			question = fmt.Sprintf("Question %d", i+1)
		}
		formatted = append(formatted, fmt.Sprintf("%d. %s\nAnswer: %s", i+1, question, strings.TrimSpace(pair.Answer)))
	}
	answers := "No answers supplied."
	if len(formatted) > 0 {
		answers = strings.Join(formatted, "\n\n")
	}

	var b strings.Builder
	b.WriteString("You are an empathetic workplace wellbeing specialist who respects when users are already happy and thriving. ")
	b.WriteString(toneInstruction(tone))
	b.WriteString("\n\n")
	b.WriteString("Generate recommendations that ALIGN with the user's expressed feelings. ")
	b.WriteString("Your recommendations must NOT disrupt their current happiness and satisfaction. ")
	b.WriteString("Output a JSON object matching the schema exactly. Do not include markdown fences.")
	b.WriteString("\n\nUser's Assessment Answers:\n")
	b.WriteString(answers)
	b.WriteString("\n\nJSON schema: ")
	b.WriteString(recommendationSchema)
	b.WriteString("\nReturn ONLY the JSON:")
	return b.String()
}

// answerText concatena solo las respuestas, para la clasificacion de tono.
func answerText(qa []domain.QAPair) string {
	parts := make([]string, 0, len(qa))
	for _, pair := range qa {
		parts = append(parts, pair.Answer)
	}
	return strings.Join(parts, " ")
}
