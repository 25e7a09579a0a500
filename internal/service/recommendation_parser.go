package service

import (
	"encoding/json"
	"errors"
	"fmt"
	"math"
	"regexp"
	"strings"

	"burnout-assess/internal/domain"
)

var ErrMalformedRecommendation = errors.New("malformed recommendation payload")

const (
	maxRecommendations = 5
	defaultConfidence  = 0.5
	defaultRecTitle    = "Personalized strategy"
	defaultRecPriority = domain.Priority("short_term")
)

var (
	reFenceStart     = regexp.MustCompile("(?is)^\\s*```(?:json)?\\s*")
	reFenceEnd       = regexp.MustCompile("(?is)\\s*```\\s*$")
	reTrailingObject = regexp.MustCompile(`,\s*}`)
	reTrailingArray  = regexp.MustCompile(`,\s*]`)
)

// cleanLLMJSONResponse quita fences ```json ... ``` y BOM.
func cleanLLMJSONResponse(raw string) string {
	s := strings.TrimSpace(raw)
	s = strings.TrimPrefix(s, "\uFEFF")
	s = reFenceStart.ReplaceAllString(s, "")
	s = reFenceEnd.ReplaceAllString(s, "")
	return strings.TrimSpace(s)
}

// repairJSON es la unica pasada de reparacion: recorta al primer objeto y saca comas colgantes.
func repairJSON(s string) string {
	if obj := extractFirstJSONObject(s); obj != "" {
		s = obj
	}
	s = reTrailingObject.ReplaceAllString(s, "}")
	return reTrailingArray.ReplaceAllString(s, "]")
}

func extractFirstJSONObject(input string) string {
	start := strings.IndexByte(input, '{')
	if start == -1 {
		return ""
	}

	inString := false
	escape := false
	depth := 0
	for i := start; i < len(input); i++ {
		ch := input[i]
		if inString {
			switch {
			case escape:
				escape = false
			case ch == '\\':
				escape = true
			case ch == '"':
				inString = false
			}
			continue
		}

		switch ch {
		case '"':
			inString = true
		case '{':
			depth++
		case '}':
			depth--
			if depth == 0 {
				return input[start : i+1]
			}
		}
	}
	return ""
}

type rawRecommendation struct {
	Title       *string `json:"title"`
	Description string  `json:"description"`
	WhyItHelps  string  `json:"why_it_helps"`
	Timeframe   string  `json:"timeframe"`
	Priority    *string `json:"priority"`
}

type rawPayload struct {
	BurnoutLevel    string              `json:"burnout_level"`
	Confidence      *float64            `json:"confidence"`
	Summary         string              `json:"summary"`
	Recommendations []rawRecommendation `json:"recommendations"`
}

// parseRecommendationPayload parsea la salida del modelo; si falla intenta una reparacion.
// Devuelve ErrMalformedRecommendation si sigue sin ser usable.
func parseRecommendationPayload(raw string) (domain.RecommendationPayload, error) {
	cleaned := cleanLLMJSONResponse(raw)
	if cleaned == "" {
		return domain.RecommendationPayload{}, fmt.Errorf("%w: empty output", ErrMalformedRecommendation)
	}

	var rp rawPayload
	if err := json.Unmarshal([]byte(cleaned), &rp); err != nil {
		if err := json.Unmarshal([]byte(repairJSON(cleaned)), &rp); err != nil {
			return domain.RecommendationPayload{}, fmt.Errorf("%w: %w", ErrMalformedRecommendation, err)
		}
	}
	return normalizePayload(rp)
}

func normalizePayload(rp rawPayload) (domain.RecommendationPayload, error) {
	out := domain.RecommendationPayload{
		Confidence: defaultConfidence,
		Summary:    strings.TrimSpace(rp.Summary),
	}
	if lvl, err := domain.ParseLevel(rp.BurnoutLevel); err == nil {
		out.Level = lvl
	}
	if rp.Confidence != nil && !math.IsNaN(*rp.Confidence) {
		out.Confidence = math.Max(0, math.Min(1, *rp.Confidence))
	}

	for _, r := range rp.Recommendations {
		rec := domain.Recommendation{
			Title:       defaultRecTitle,
			Description: strings.TrimSpace(r.Description),
			Rationale:   strings.TrimSpace(r.WhyItHelps),
			Timeframe:   strings.TrimSpace(r.Timeframe),
			Priority:    defaultRecPriority,
		}
		if r.Title != nil {
			rec.Title = strings.TrimSpace(*r.Title)
		}
		if r.Priority != nil {
			rec.Priority = domain.Priority(strings.TrimSpace(*r.Priority))
		}
		if rec.Title == "" {
			continue
		}
		out.Recommendations = append(out.Recommendations, rec)
		if len(out.Recommendations) == maxRecommendations {
			break
		}
	}

	if len(out.Recommendations) == 0 {
		return domain.RecommendationPayload{}, fmt.Errorf("%w: no usable recommendations", ErrMalformedRecommendation)
	}
	return out, nil
}
