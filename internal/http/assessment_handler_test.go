package http

import (
	"fmt"
	"net/http"
	"strings"
	"testing"
)

func TestAssessmentHandler_RequiresAuth(t *testing.T) {
	srv := newTestServer(t, nil)

	rec := performRequest(srv.router, http.MethodPost, "/assessment/sessions", nil, "")
	if rec.Code != http.StatusUnauthorized {
		t.Fatalf("expected status 401, got %d", rec.Code)
	}

	rec = performRequest(srv.router, http.MethodGet, "/assessment/questions", nil, "")
	if rec.Code != http.StatusOK {
		t.Fatalf("expected public questions, got %d", rec.Code)
	}
	var body struct {
		Total int `json:"total"`
	}
	decodeBody(t, rec, &body)
	if body.Total != 6 {
		t.Fatalf("expected 6 questions, got %d", body.Total)
	}
}

func TestAssessmentHandler_FullFlow(t *testing.T) {
	srv := newTestServer(t, nil)
	token := signup(t, srv.router, "user@example.com").Tokens.AccessToken

	rec := performRequest(srv.router, http.MethodPost, "/assessment/sessions", nil, token)
	if rec.Code != http.StatusCreated {
		t.Fatalf("expected status 201, got %d: %s", rec.Code, rec.Body.String())
	}
	var started struct {
		Session struct {
			ID string `json:"id"`
		} `json:"session"`
		CurrentQuestion struct {
			ID int `json:"id"`
		} `json:"current_question"`
	}
	decodeBody(t, rec, &started)
	if started.CurrentQuestion.ID != 1 {
		t.Fatalf("expected question 1, got %d", started.CurrentQuestion.ID)
	}

	rec = performRequest(srv.router, http.MethodPost, "/assessment/answers", map[string]any{
		"question_id": 1, "answer": "   ",
	}, token)
	if rec.Code != http.StatusBadRequest {
		t.Fatalf("expected 400 for empty answer, got %d", rec.Code)
	}
	rec = performRequest(srv.router, http.MethodPost, "/assessment/answers", map[string]any{
		"question_id": 3, "answer": "tired",
	}, token)
	if rec.Code != http.StatusBadRequest {
		t.Fatalf("expected 400 for out of order answer, got %d", rec.Code)
	}

	rec = performRequest(srv.router, http.MethodPost, "/assessment/answers", map[string]any{
		"question_id": 1, "response": "tired",
	}, token)
	if rec.Code != http.StatusBadRequest {
		t.Fatalf("expected the answer text under \"answer\", got %d", rec.Code)
	}

	answers := []string{
		"exhausted", "overwhelmed", "stress everywhere", "I can't handle it", "drained", "want to quit",
	}
	var last struct {
		Complete bool `json:"assessment_complete"`
		Progress *struct {
			Current int `json:"current"`
		} `json:"progress"`
		Result *struct {
			Level              string  `json:"level"`
			Score              float64 `json:"score"`
			RecommendationText string  `json:"recommendation_text"`
			Source             string  `json:"source"`
		} `json:"result"`
	}
	for i, text := range answers {
		rec = performRequest(srv.router, http.MethodPost, "/assessment/answers", map[string]any{
			"question_id": i + 1, "answer": text,
		}, token)
		if rec.Code != http.StatusOK {
			t.Fatalf("answer %d: expected 200, got %d: %s", i+1, rec.Code, rec.Body.String())
		}
		last.Progress = nil
		decodeBody(t, rec, &last)
		if i == 0 && (last.Progress == nil || last.Progress.Current != 1) {
			t.Fatalf("expected progress after first answer")
		}
	}
	if !last.Complete || last.Result == nil {
		t.Fatalf("expected completion, got %s", rec.Body.String())
	}
	if last.Result.Level != "HIGH" || last.Result.Source != "template" || last.Result.RecommendationText == "" {
		t.Fatalf("unexpected result %+v", last.Result)
	}

	rec = performRequest(srv.router, http.MethodGet, "/assessment/current", nil, token)
	if rec.Code != http.StatusNotFound {
		t.Fatalf("expected 404 without active session, got %d", rec.Code)
	}

	detailPath := fmt.Sprintf("/assessment/sessions/%s", started.Session.ID)
	rec = performRequest(srv.router, http.MethodGet, detailPath, nil, token)
	if rec.Code != http.StatusOK {
		t.Fatalf("expected 200, got %d", rec.Code)
	}
	if !strings.Contains(rec.Body.String(), `"burnout_level":"HIGH"`) {
		t.Fatalf("expected stamped level in detail, got %s", rec.Body.String())
	}

	other := signup(t, srv.router, "other@example.com").Tokens.AccessToken
	rec = performRequest(srv.router, http.MethodGet, detailPath, nil, other)
	if rec.Code != http.StatusNotFound {
		t.Fatalf("expected 404 for other owner, got %d", rec.Code)
	}

	rec = performRequest(srv.router, http.MethodGet, "/assessment/sessions", nil, token)
	if rec.Code != http.StatusOK {
		t.Fatalf("expected 200, got %d", rec.Code)
	}
	var history struct {
		Sessions []struct {
			ID string `json:"id"`
		} `json:"sessions"`
	}
	decodeBody(t, rec, &history)
	if len(history.Sessions) != 1 || history.Sessions[0].ID != started.Session.ID {
		t.Fatalf("unexpected history %+v", history.Sessions)
	}

	rec = performRequest(srv.router, http.MethodDelete, detailPath, nil, token)
	if rec.Code != http.StatusNoContent {
		t.Fatalf("expected 204, got %d", rec.Code)
	}
	rec = performRequest(srv.router, http.MethodGet, detailPath, nil, token)
	if rec.Code != http.StatusNotFound {
		t.Fatalf("expected 404 after delete, got %d", rec.Code)
	}
}

func TestAssessmentHandler_Analyze(t *testing.T) {
	srv := newTestServer(t, nil)
	token := signup(t, srv.router, "user@example.com").Tokens.AccessToken

	rec := performRequest(srv.router, http.MethodPost, "/assessment/analyze", map[string]string{"text": ""}, token)
	if rec.Code != http.StatusBadRequest {
		t.Fatalf("expected 400, got %d", rec.Code)
	}

	rec = performRequest(srv.router, http.MethodPost, "/assessment/analyze", map[string]string{
		"text": "Honestly I feel great and energized",
	}, token)
	if rec.Code != http.StatusOK {
		t.Fatalf("expected 200, got %d", rec.Code)
	}
	var out struct {
		Level string  `json:"burnout_level"`
		Score float64 `json:"burnout_score"`
	}
	decodeBody(t, rec, &out)
	if out.Level != "LOW" || out.Score != 0.2 {
		t.Fatalf("unexpected analysis %+v", out)
	}
}
