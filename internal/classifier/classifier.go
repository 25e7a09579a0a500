package classifier

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"math"
	"net/http"
	"strings"
	"time"
)

// Classifier devuelve la probabilidad de burnout en [0,1] para un texto ya normalizado.
type Classifier interface {
	Predict(ctx context.Context, text string) (float64, error)
}

var (
	ErrUnavailable = errors.New("classifier unavailable")
	ErrOutOfRange  = errors.New("classifier score out of range")
)

// HTTPClassifier habla con el runtime del modelo expuesto por HTTP.
//
//	POST {baseURL}/predict  {"text": "..."} -> {"score": 0.42}
//	GET  {baseURL}/health   -> 2xx cuando el modelo esta cargado
type HTTPClassifier struct {
	baseURL string
	client  *http.Client
}

func NewHTTPClassifier(baseURL string, timeout time.Duration) *HTTPClassifier {
	if timeout <= 0 {
		timeout = 10 * time.Second
	}
	return &HTTPClassifier{
		baseURL: strings.TrimRight(baseURL, "/"),
		client:  &http.Client{Timeout: timeout},
	}
}

type predictRequest struct {
	Text string `json:"text"`
}

type predictResponse struct {
	Score *float64 `json:"score"`
}

func (c *HTTPClassifier) Predict(ctx context.Context, text string) (float64, error) {
	body, err := json.Marshal(predictRequest{Text: text})
	if err != nil {
		return 0, fmt.Errorf("marshal request: %w", err)
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, c.baseURL+"/predict", bytes.NewReader(body))
	if err != nil {
		return 0, fmt.Errorf("create request: %w", err)
	}
	req.Header.Set("Content-Type", "application/json")

	resp, err := c.client.Do(req)
	if err != nil {
		return 0, fmt.Errorf("%w: %w", ErrUnavailable, err)
	}
	defer resp.Body.Close()

	respBody, err := io.ReadAll(io.LimitReader(resp.Body, 1<<20))
	if err != nil {
		return 0, fmt.Errorf("%w: read response: %w", ErrUnavailable, err)
	}
	if resp.StatusCode >= 400 {
		return 0, fmt.Errorf("%w: status=%d", ErrUnavailable, resp.StatusCode)
	}

	var pr predictResponse
	if err := json.Unmarshal(respBody, &pr); err != nil {
		return 0, fmt.Errorf("%w: unmarshal response: %w", ErrUnavailable, err)
	}
	if pr.Score == nil {
		return 0, fmt.Errorf("%w: missing score", ErrUnavailable)
	}
	score := *pr.Score
	if math.IsNaN(score) || score < 0 || score > 1 {
		return 0, fmt.Errorf("%w: %v", ErrOutOfRange, score)
	}
	return score, nil
}

// Probe verifica que el runtime responda; se usa una sola vez al arrancar.
func (c *HTTPClassifier) Probe(ctx context.Context) error {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, c.baseURL+"/health", nil)
	if err != nil {
		return fmt.Errorf("create request: %w", err)
	}
	resp, err := c.client.Do(req)
	if err != nil {
		return fmt.Errorf("%w: %w", ErrUnavailable, err)
	}
	defer resp.Body.Close()
	_, _ = io.Copy(io.Discard, resp.Body)

	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		return fmt.Errorf("%w: health status=%d", ErrUnavailable, resp.StatusCode)
	}
	return nil
}
