package openai

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"testing"

	"go.uber.org/zap"

	"github.com/kailas-cloud/illustra/internal/domain"
)

func newFakeServer(t *testing.T, handler http.HandlerFunc) *httptest.Server {
	t.Helper()
	srv := httptest.NewServer(handler)
	t.Cleanup(srv.Close)
	return srv
}

func newTestEmbedder(baseURL string) *Embedder {
	return NewEmbedder(&Config{
		APIKey:     "test-key",
		BaseURL:    baseURL,
		Model:      "text-embedding-3-small",
		Dimensions: 3,
		Provider:   "openai",
		Logger:     zap.NewNop(),
	})
}

func TestEmbedSuccess(t *testing.T) {
	srv := newFakeServer(t, func(w http.ResponseWriter, r *http.Request) {
		var req struct {
			Input      []string `json:"input"`
			Model      string   `json:"model"`
			Dimensions int      `json:"dimensions"`
		}
		if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
			t.Errorf("decode request: %v", err)
		}
		if len(req.Input) != 1 || req.Input[0] != "a red balloon" {
			t.Errorf("input = %v", req.Input)
		}
		if req.Dimensions != 3 {
			t.Errorf("dimensions = %d, want 3", req.Dimensions)
		}

		w.Header().Set("Content-Type", "application/json")
		_ = json.NewEncoder(w).Encode(map[string]any{
			"object": "list",
			"data": []map[string]any{
				{"object": "embedding", "index": 0, "embedding": []float32{0.1, 0.2, 0.3}},
			},
			"model": "text-embedding-3-small",
			"usage": map[string]int{"prompt_tokens": 4, "total_tokens": 4},
		})
	})

	e := newTestEmbedder(srv.URL + "/v1")
	res, err := e.Embed(context.Background(), "a red balloon")
	if err != nil {
		t.Fatalf("Embed() error = %v", err)
	}

	if len(res.Embedding) != 3 || res.Embedding[0] != 0.1 {
		t.Errorf("Embedding = %v", res.Embedding)
	}
	if res.TotalTokens != 4 || res.PromptTokens != 4 {
		t.Errorf("tokens = %d/%d, want 4/4", res.PromptTokens, res.TotalTokens)
	}
}

func TestEmbedAPIErrorWrapsSentinel(t *testing.T) {
	srv := newFakeServer(t, func(w http.ResponseWriter, _ *http.Request) {
		w.Header().Set("Content-Type", "application/json")
		w.WriteHeader(http.StatusTooManyRequests)
		_, _ = w.Write([]byte(`{"error":{"message":"rate limit exceeded","type":"rate_limit"}}`))
	})

	e := newTestEmbedder(srv.URL + "/v1")
	_, err := e.Embed(context.Background(), "q")
	if !errors.Is(err, domain.ErrEmbeddingUnavailable) {
		t.Fatalf("Embed() error = %v, want ErrEmbeddingUnavailable", err)
	}
}

func TestEmbedEmptyResponse(t *testing.T) {
	srv := newFakeServer(t, func(w http.ResponseWriter, _ *http.Request) {
		w.Header().Set("Content-Type", "application/json")
		_, _ = w.Write([]byte(`{"object":"list","data":[],"model":"m","usage":{"prompt_tokens":0,"total_tokens":0}}`))
	})

	e := newTestEmbedder(srv.URL + "/v1")
	_, err := e.Embed(context.Background(), "q")
	if !errors.Is(err, domain.ErrEmbeddingUnavailable) {
		t.Fatalf("Embed() error = %v, want ErrEmbeddingUnavailable", err)
	}
}

func TestHealthCheck(t *testing.T) {
	srv := newFakeServer(t, func(w http.ResponseWriter, r *http.Request) {
		if r.URL.Path != "/v1/models" {
			t.Errorf("path = %q, want /v1/models", r.URL.Path)
		}
		w.Header().Set("Content-Type", "application/json")
		_, _ = w.Write([]byte(`{"object":"list","data":[]}`))
	})

	e := newTestEmbedder(srv.URL + "/v1")
	if err := e.HealthCheck(context.Background()); err != nil {
		t.Fatalf("HealthCheck() error = %v", err)
	}
}

func TestHealthCheckFailure(t *testing.T) {
	srv := newFakeServer(t, func(w http.ResponseWriter, _ *http.Request) {
		w.WriteHeader(http.StatusInternalServerError)
	})

	e := newTestEmbedder(srv.URL + "/v1")
	if err := e.HealthCheck(context.Background()); err == nil {
		t.Fatal("expected error")
	}
}
