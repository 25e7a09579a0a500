package classifier

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"sync/atomic"
	"testing"
	"time"
)

func TestHTTPClassifierPredict(t *testing.T) {
	gotText := make(chan string, 1)
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.Method != http.MethodPost || r.URL.Path != "/predict" {
			t.Errorf("unexpected request %s %s", r.Method, r.URL.Path)
		}
		var req predictRequest
		_ = json.NewDecoder(r.Body).Decode(&req)
		gotText <- req.Text
		_, _ = w.Write([]byte(`{"score":0.81}`))
	}))
	defer srv.Close()

	c := NewHTTPClassifier(srv.URL+"/", time.Second)
	score, err := c.Predict(context.Background(), "i feel drained")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if score != 0.81 {
		t.Fatalf("expected 0.81, got %v", score)
	}
	if text := <-gotText; text != "i feel drained" {
		t.Fatalf("unexpected text sent %q", text)
	}
}

func TestHTTPClassifierPredict_Errors(t *testing.T) {
	tests := []struct {
		name    string
		status  int
		body    string
		wantErr error
	}{
		{name: "server error", status: http.StatusInternalServerError, body: `{}`, wantErr: ErrUnavailable},
		{name: "bad json", status: http.StatusOK, body: `not json`, wantErr: ErrUnavailable},
		{name: "missing score", status: http.StatusOK, body: `{}`, wantErr: ErrUnavailable},
		{name: "above one", status: http.StatusOK, body: `{"score":1.7}`, wantErr: ErrOutOfRange},
		{name: "negative", status: http.StatusOK, body: `{"score":-0.1}`, wantErr: ErrOutOfRange},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
				w.WriteHeader(tt.status)
				_, _ = w.Write([]byte(tt.body))
			}))
			defer srv.Close()

			_, err := NewHTTPClassifier(srv.URL, time.Second).Predict(context.Background(), "x")
			if !errors.Is(err, tt.wantErr) {
				t.Fatalf("expected %v, got %v", tt.wantErr, err)
			}
		})
	}
}

func TestHTTPClassifierProbe(t *testing.T) {
	var healthy atomic.Bool
	healthy.Store(true)
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.URL.Path != "/health" {
			w.WriteHeader(http.StatusNotFound)
			return
		}
		if !healthy.Load() {
			w.WriteHeader(http.StatusServiceUnavailable)
		}
	}))
	defer srv.Close()

	c := NewHTTPClassifier(srv.URL, time.Second)
	if err := c.Probe(context.Background()); err != nil {
		t.Fatalf("expected healthy probe, got %v", err)
	}

	healthy.Store(false)
	if err := c.Probe(context.Background()); !errors.Is(err, ErrUnavailable) {
		t.Fatalf("expected ErrUnavailable, got %v", err)
	}
}

func TestHTTPClassifierPredict_Unreachable(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {}))
	url := srv.URL
	srv.Close()

	_, err := NewHTTPClassifier(url, 200*time.Millisecond).Predict(context.Background(), "x")
	if !errors.Is(err, ErrUnavailable) {
		t.Fatalf("expected ErrUnavailable, got %v", err)
	}
}
