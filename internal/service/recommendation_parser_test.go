package service

import (
	"errors"
	"strings"
	"testing"

	"github.com/google/go-cmp/cmp"

	"burnout-assess/internal/domain"
)

func TestParseRecommendationPayload_Valid(t *testing.T) {
	raw := "```json\n" + `{
		"burnout_level": "high",
		"confidence": 0.82,
		"summary": "  You are stretched thin.  ",
		"recommendations": [
			{"title": "Talk to your manager", "description": "Book a meeting.", "why_it_helps": "Reduces load.", "timeframe": "This week", "priority": "immediate"}
		]
	}` + "\n```"

	got, err := parseRecommendationPayload(raw)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	want := domain.RecommendationPayload{
		Level:      domain.LevelHigh,
		Confidence: 0.82,
		Summary:    "You are stretched thin.",
		Recommendations: []domain.Recommendation{{
			Title:       "Talk to your manager",
			Description: "Book a meeting.",
			Rationale:   "Reduces load.",
			Timeframe:   "This week",
			Priority:    "immediate",
		}},
	}
	if diff := cmp.Diff(want, got); diff != "" {
		t.Fatalf("payload mismatch (-want +got):\n%s", diff)
	}
}

func TestParseRecommendationPayload_RepairAndDefaults(t *testing.T) {
	raw := `Sure! Here is the JSON:
{"summary": "ok", "recommendations": [{"description": "walk daily",}, {"title": "Sleep", "priority": "long_term",},],}
Hope it helps.`

	got, err := parseRecommendationPayload(raw)
	if err != nil {
		t.Fatalf("expected repair to succeed, got %v", err)
	}
	if got.Confidence != defaultConfidence {
		t.Fatalf("expected default confidence, got %v", got.Confidence)
	}
	if len(got.Recommendations) != 2 {
		t.Fatalf("expected 2 recommendations, got %d", len(got.Recommendations))
	}
	if got.Recommendations[0].Title != defaultRecTitle || got.Recommendations[0].Priority != defaultRecPriority {
		t.Fatalf("defaults not applied: %+v", got.Recommendations[0])
	}
	if got.Recommendations[1].Priority != "long_term" {
		t.Fatalf("unexpected priority %q", got.Recommendations[1].Priority)
	}
}

func TestParseRecommendationPayload_CapAndClamp(t *testing.T) {
	var recs []string
	for i := 0; i < 8; i++ {
		recs = append(recs, `{"title": "R"}`)
	}
	raw := `{"confidence": 3.5, "summary": "s", "recommendations": [` + strings.Join(recs, ",") + `]}`

	got, err := parseRecommendationPayload(raw)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if len(got.Recommendations) != maxRecommendations {
		t.Fatalf("expected cap %d, got %d", maxRecommendations, len(got.Recommendations))
	}
	if got.Confidence != 1 {
		t.Fatalf("expected clamped confidence 1, got %v", got.Confidence)
	}
}

func TestParseRecommendationPayload_Malformed(t *testing.T) {
	tests := []struct {
		name string
		raw  string
	}{
		{name: "empty", raw: "   "},
		{name: "prose", raw: "I cannot help with that."},
		{name: "broken json", raw: `{"summary": "x", "recommendations": [`},
		{name: "no recommendations", raw: `{"summary": "x", "recommendations": []}`},
		{name: "blank titles only", raw: `{"summary": "x", "recommendations": [{"title": "  "}]}`},
		{name: "wrong types", raw: `{"summary": 5, "recommendations": "none"}`},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := parseRecommendationPayload(tt.raw)
			if !errors.Is(err, ErrMalformedRecommendation) {
				t.Fatalf("expected ErrMalformedRecommendation, got %v", err)
			}
		})
	}
}

func TestExtractFirstJSONObject(t *testing.T) {
	tests := []struct {
		in   string
		want string
	}{
		{in: `noise {"a": "}"} tail`, want: `{"a": "}"}`},
		{in: `{"a": {"b": 1}} {"c": 2}`, want: `{"a": {"b": 1}}`},
		{in: `{"a": "esc \" quote"}`, want: `{"a": "esc \" quote"}`},
		{in: `no object`, want: ``},
		{in: `{"open": 1`, want: ``},
	}
	for _, tt := range tests {
		if got := extractFirstJSONObject(tt.in); got != tt.want {
			t.Fatalf("extractFirstJSONObject(%q) = %q; want %q", tt.in, got, tt.want)
		}
	}
}

func TestFormatRecommendations(t *testing.T) {
	recs := []domain.Recommendation{
		{Title: "Rest", Description: "Sleep 8h.", Rationale: "Recovery.", Timeframe: "Tonight", Priority: "short_term"},
		{Title: "Walk", Description: "Daily walk.", Priority: "immediate"},
	}
	want := strings.Join([]string{
		"**1. Rest**",
		"   Sleep 8h.",
		"   **Why it helps:** Recovery.",
		"   **When to start:** Tonight",
		"   **Priority:** Short Term",
		"",
		"**2. Walk**",
		"   Daily walk.",
		"   **Priority:** Immediate",
	}, "\n")

	if diff := cmp.Diff(want, FormatRecommendations(recs)); diff != "" {
		t.Fatalf("format mismatch (-want +got):\n%s", diff)
	}
	if FormatRecommendations(nil) != "" {
		t.Fatalf("expected empty output for no recommendations")
	}
}

func TestTemplates(t *testing.T) {
	tests := []struct {
		level domain.Level
		count int
		first string
	}{
		{domain.LevelLow, 3, "Continue Healthy Habits"},
		{domain.LevelModerate, 4, "Set Clear Boundaries"},
		{domain.LevelHigh, 5, "Establish Firm Work Boundaries"},
	}
	for _, tt := range tests {
		recs := templateRecommendations(tt.level)
		if len(recs) != tt.count || recs[0].Title != tt.first {
			t.Fatalf("level %v: got %d recs starting %q", tt.level, len(recs), recs[0].Title)
		}
	}

	analysis := templateAnalysis(domain.LevelHigh, 0.7)
	if !strings.Contains(analysis, "Your burnout score of 70.0% indicates high risk") {
		t.Fatalf("unexpected analysis %q", analysis)
	}
	if !strings.Contains(templateAnalysis(domain.LevelLow, 0.123), "12.3%") {
		t.Fatalf("expected percentage in low analysis")
	}
}

func TestTemplatePayload_InvalidLevelUsesScore(t *testing.T) {
	if recs := templateRecommendations(domain.Level(0)); recs != nil {
		t.Fatalf("expected no template for invalid level, got %d", len(recs))
	}
	if templateAnalysis(domain.Level(42), 0.5) != "" {
		t.Fatalf("expected empty analysis for invalid level")
	}

	payload := templatePayload(domain.Level(0), 0.5)
	if payload.Level != domain.LevelModerate {
		t.Fatalf("expected level derived from score, got %v", payload.Level)
	}
	if len(payload.Recommendations) != 4 || payload.Summary != templateAnalysis(domain.LevelModerate, 0.5) {
		t.Fatalf("expected moderate template, got %+v", payload)
	}
}

func TestClassifyTone(t *testing.T) {
	tests := []struct {
		hits LexiconHits
		want Tone
	}{
		{LexiconHits{Negative: 3}, ToneCrisis},
		{LexiconHits{Negative: 3, Positive: 5}, ToneCrisis},
		{LexiconHits{Positive: 3}, ToneGrowth},
		{LexiconHits{Positive: 4, Negative: 1}, ToneBalance},
		{LexiconHits{Positive: 2}, ToneBalance},
		{LexiconHits{}, ToneBalance},
	}
	for _, tt := range tests {
		if got := classifyTone(tt.hits); got != tt.want {
			t.Fatalf("classifyTone(%+v) = %s; want %s", tt.hits, got, tt.want)
		}
	}
}

func TestBuildRecommendationPrompt(t *testing.T) {
	qa := []domain.QAPair{
		{QuestionID: 1, Question: "How is your energy?", Answer: " drained "},
		{QuestionID: 2, Question: "", Answer: "ok"},
	}
	prompt := buildRecommendationPrompt(qa, ToneCrisis)

	for _, want := range []string{
		"USER IS IN CRISIS",
		"1. How is your energy?\nAnswer: drained",
		"2. Question 2\nAnswer: ok",
		`"priority": "immediate | short_term | long_term"`,
		"Return ONLY the JSON:",
	} {
		if !strings.Contains(prompt, want) {
			t.Fatalf("prompt missing %q:\n%s", want, prompt)
		}
	}
	if !strings.Contains(buildRecommendationPrompt(nil, ToneBalance), "No answers supplied.") {
		t.Fatalf("expected placeholder for empty transcript")
	}
}
