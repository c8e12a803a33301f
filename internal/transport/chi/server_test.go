package chi

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/go-chi/chi/v5"
	"go.uber.org/zap"

	"github.com/kailas-cloud/illustra/internal/domain"
	"github.com/kailas-cloud/illustra/internal/domain/dimension"
	domill "github.com/kailas-cloud/illustra/internal/domain/illustration"
	"github.com/kailas-cloud/illustra/internal/domain/search/scope"
	healthuc "github.com/kailas-cloud/illustra/internal/usecase/health"
	searchuc "github.com/kailas-cloud/illustra/internal/usecase/search"
)

// --- Mocks ---

type mockStore struct {
	records []domill.Record
	err     error
}

func (m *mockStore) FetchCandidates(_ context.Context, _ scope.Scope) ([]domill.Record, error) {
	return m.records, m.err
}

type mockEmbedder struct {
	vec []float32
	err error
}

func (m *mockEmbedder) Embed(_ context.Context, _ string) (domain.EmbeddingResult, error) {
	if m.err != nil {
		return domain.EmbeddingResult{}, m.err
	}
	return domain.EmbeddingResult{Embedding: m.vec}, nil
}

type mockPinger struct{ err error }

func (m *mockPinger) Ping(_ context.Context) error { return m.err }

// --- Helpers ---

func newTestRouter(t *testing.T, store *mockStore, emb *mockEmbedder, pinger *mockPinger) http.Handler {
	t.Helper()
	searchSvc, err := searchuc.New(store, emb, 1, zap.NewNop())
	if err != nil {
		t.Fatalf("searchuc.New() error = %v", err)
	}
	t.Cleanup(searchSvc.Close)

	if pinger == nil {
		pinger = &mockPinger{}
	}
	healthSvc := healthuc.New(pinger, nil)

	r := chi.NewRouter()
	NewServer(searchSvc, healthSvc, zap.NewNop()).Routes(r)
	return r
}

func defaultStore() *mockStore {
	rec := domill.Reconstruct(
		"r1", "r1.png", "Corduroy", "https://cdn/r1.png", "a bear in a store",
		nil,
		map[dimension.Key][]float32{dimension.Original: {1, 0}},
		0, 0,
	)
	return &mockStore{records: []domill.Record{rec}}
}

func doJSON(t *testing.T, h http.Handler, method, path, body string) *httptest.ResponseRecorder {
	t.Helper()
	var req *http.Request
	if body != "" {
		req = httptest.NewRequest(method, path, strings.NewReader(body))
		req.Header.Set("Content-Type", "application/json")
	} else {
		req = httptest.NewRequest(method, path, nil)
	}
	w := httptest.NewRecorder()
	h.ServeHTTP(w, req)
	return w
}

func decodeError(t *testing.T, w *httptest.ResponseRecorder) errorResponse {
	t.Helper()
	var e errorResponse
	if err := json.Unmarshal(w.Body.Bytes(), &e); err != nil {
		t.Fatalf("decode error body: %v (%s)", err, w.Body.String())
	}
	return e
}

// --- Tests ---

func TestHandleSearchOK(t *testing.T) {
	h := newTestRouter(t, defaultStore(), &mockEmbedder{vec: []float32{1, 0}}, nil)

	w := doJSON(t, h, http.MethodPost, "/api/v1/search", `{"query":"teddy bear","preset":"balanced"}`)
	if w.Code != http.StatusOK {
		t.Fatalf("status = %d, body = %s", w.Code, w.Body.String())
	}

	var resp searchResponseDTO
	if err := json.Unmarshal(w.Body.Bytes(), &resp); err != nil {
		t.Fatalf("decode response: %v", err)
	}
	if len(resp.Results) != 1 {
		t.Fatalf("got %d results, want 1", len(resp.Results))
	}
	r := resp.Results[0]
	if r.ID != "r1" || r.Description != "a bear in a store" || r.ImageURL != "https://cdn/r1.png" {
		t.Errorf("result fields: %+v", r)
	}
	if r.FinalScore < 0.999 {
		t.Errorf("FinalScore = %v, want ~1", r.FinalScore)
	}
	if r.PresentDimensions != 1 {
		t.Errorf("PresentDimensions = %d, want 1", r.PresentDimensions)
	}
	if resp.Stats.Count != 1 {
		t.Errorf("Stats.Count = %d, want 1", resp.Stats.Count)
	}
	if resp.Diagnostics.Candidates != 1 {
		t.Errorf("Diagnostics.Candidates = %d, want 1", resp.Diagnostics.Candidates)
	}
}

func TestHandleSearchCustomWeights(t *testing.T) {
	h := newTestRouter(t, defaultStore(), &mockEmbedder{vec: []float32{1, 0}}, nil)

	w := doJSON(t, h, http.MethodPost, "/api/v1/search",
		`{"query":"q","weights":{"philosophy":2,"creative_play":2}}`)
	if w.Code != http.StatusOK {
		t.Fatalf("status = %d, body = %s", w.Code, w.Body.String())
	}
}

func TestHandleSearchErrorMapping(t *testing.T) {
	tests := []struct {
		name       string
		body       string
		embErr     error
		storeErr   error
		wantStatus int
		wantCode   string
	}{
		{
			name:       "empty query",
			body:       `{"query":"  "}`,
			wantStatus: http.StatusBadRequest,
			wantCode:   codeEmptyQuery,
		},
		{
			name:       "unknown preset",
			body:       `{"query":"q","preset":"nope"}`,
			wantStatus: http.StatusBadRequest,
			wantCode:   codeUnknownPreset,
		},
		{
			name:       "preset and weights both set",
			body:       `{"query":"q","preset":"balanced","weights":{"original":1}}`,
			wantStatus: http.StatusBadRequest,
			wantCode:   codeValidationFailed,
		},
		{
			name:       "unknown weight key",
			body:       `{"query":"q","weights":{"bogus":1}}`,
			wantStatus: http.StatusBadRequest,
			wantCode:   codeValidationFailed,
		},
		{
			name:       "negative weight",
			body:       `{"query":"q","weights":{"original":-1}}`,
			wantStatus: http.StatusBadRequest,
			wantCode:   codeValidationFailed,
		},
		{
			name:       "invalid json",
			body:       `{"query":`,
			wantStatus: http.StatusBadRequest,
			wantCode:   codeBadRequest,
		},
		{
			name:       "embedding provider down",
			body:       `{"query":"q"}`,
			embErr:     domain.ErrEmbeddingUnavailable,
			wantStatus: http.StatusBadGateway,
			wantCode:   codeEmbeddingUnavailable,
		},
		{
			name:       "candidate fetch failed",
			body:       `{"query":"q"}`,
			storeErr:   errors.New("connection refused"),
			wantStatus: http.StatusBadGateway,
			wantCode:   codeCandidateFetch,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			store := defaultStore()
			store.err = tt.storeErr
			h := newTestRouter(t, store, &mockEmbedder{vec: []float32{1, 0}, err: tt.embErr}, nil)

			w := doJSON(t, h, http.MethodPost, "/api/v1/search", tt.body)
			if w.Code != tt.wantStatus {
				t.Fatalf("status = %d, want %d (body %s)", w.Code, tt.wantStatus, w.Body.String())
			}
			if e := decodeError(t, w); e.Code != tt.wantCode {
				t.Errorf("code = %q, want %q", e.Code, tt.wantCode)
			}
		})
	}
}

func TestHandleSearchMulti(t *testing.T) {
	h := newTestRouter(t, defaultStore(), &mockEmbedder{vec: []float32{1, 0}}, nil)

	w := doJSON(t, h, http.MethodPost, "/api/v1/search/multi",
		`{"query":"q","profiles":[{"preset":"educational"},{"weights":{"scene_visuals":1}}]}`)
	if w.Code != http.StatusOK {
		t.Fatalf("status = %d, body = %s", w.Code, w.Body.String())
	}

	var resp searchResponseDTO
	if err := json.Unmarshal(w.Body.Bytes(), &resp); err != nil {
		t.Fatalf("decode response: %v", err)
	}
	if len(resp.Results) != 1 {
		t.Errorf("got %d results, want 1", len(resp.Results))
	}
}

func TestHandleSearchMultiNoProfiles(t *testing.T) {
	h := newTestRouter(t, defaultStore(), &mockEmbedder{vec: []float32{1, 0}}, nil)

	w := doJSON(t, h, http.MethodPost, "/api/v1/search/multi", `{"query":"q","profiles":[]}`)
	if w.Code != http.StatusBadRequest {
		t.Fatalf("status = %d, want 400", w.Code)
	}
}

func TestHandlePresets(t *testing.T) {
	h := newTestRouter(t, defaultStore(), &mockEmbedder{vec: []float32{1, 0}}, nil)

	w := doJSON(t, h, http.MethodGet, "/api/v1/presets", "")
	if w.Code != http.StatusOK {
		t.Fatalf("status = %d", w.Code)
	}

	var resp presetsResponseDTO
	if err := json.Unmarshal(w.Body.Bytes(), &resp); err != nil {
		t.Fatalf("decode response: %v", err)
	}
	if len(resp.Presets) != 6 {
		t.Fatalf("got %d presets, want 6", len(resp.Presets))
	}
	if resp.Presets[0].Name != "balanced" {
		t.Errorf("first preset = %q, want balanced (sorted)", resp.Presets[0].Name)
	}
	for _, p := range resp.Presets {
		if len(p.Weights) != dimension.Count {
			t.Errorf("preset %q has %d weights, want %d", p.Name, len(p.Weights), dimension.Count)
		}
	}
}

func TestHandleNormalizeWeights(t *testing.T) {
	h := newTestRouter(t, defaultStore(), &mockEmbedder{vec: []float32{1, 0}}, nil)

	w := doJSON(t, h, http.MethodPost, "/api/v1/weights/normalize",
		`{"weights":{"philosophy":2,"creative_play":2}}`)
	if w.Code != http.StatusOK {
		t.Fatalf("status = %d, body = %s", w.Code, w.Body.String())
	}

	var resp weightsResponseDTO
	if err := json.Unmarshal(w.Body.Bytes(), &resp); err != nil {
		t.Fatalf("decode response: %v", err)
	}
	if resp.Weights["philosophy"] != 0.5 || resp.Weights["creative_play"] != 0.5 {
		t.Errorf("weights = %v", resp.Weights)
	}
	if resp.Weights["original"] != 0 {
		t.Errorf("original = %v, want 0", resp.Weights["original"])
	}
}

func TestHandleNormalizeWeightsInvalid(t *testing.T) {
	h := newTestRouter(t, defaultStore(), &mockEmbedder{vec: []float32{1, 0}}, nil)

	w := doJSON(t, h, http.MethodPost, "/api/v1/weights/normalize", `{"weights":{"bogus":1}}`)
	if w.Code != http.StatusBadRequest {
		t.Fatalf("status = %d, want 400", w.Code)
	}
}

func TestHandleHealth(t *testing.T) {
	h := newTestRouter(t, defaultStore(), &mockEmbedder{vec: []float32{1, 0}}, &mockPinger{})

	w := doJSON(t, h, http.MethodGet, "/healthz", "")
	if w.Code != http.StatusOK {
		t.Fatalf("status = %d", w.Code)
	}
}

func TestHandleHealthDegraded(t *testing.T) {
	h := newTestRouter(t, defaultStore(), &mockEmbedder{vec: []float32{1, 0}},
		&mockPinger{err: errors.New("down")})

	w := doJSON(t, h, http.MethodGet, "/healthz", "")
	if w.Code != http.StatusServiceUnavailable {
		t.Fatalf("status = %d, want 503", w.Code)
	}
}

func TestBearerAuthMiddleware(t *testing.T) {
	inner := http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
		w.WriteHeader(http.StatusOK)
	})
	h := BearerAuthMiddleware([]string{"secret"})(inner)

	tests := []struct {
		name   string
		path   string
		header string
		want   int
	}{
		{"valid token", "/api/v1/search", "Bearer secret", http.StatusOK},
		{"missing header", "/api/v1/search", "", http.StatusUnauthorized},
		{"wrong scheme", "/api/v1/search", "Basic secret", http.StatusUnauthorized},
		{"wrong token", "/api/v1/search", "Bearer nope", http.StatusUnauthorized},
		{"healthz exempt", "/healthz", "", http.StatusOK},
		{"metrics exempt", "/metrics", "", http.StatusOK},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			req := httptest.NewRequest(http.MethodGet, tt.path, nil)
			if tt.header != "" {
				req.Header.Set("Authorization", tt.header)
			}
			w := httptest.NewRecorder()
			h.ServeHTTP(w, req)
			if w.Code != tt.want {
				t.Errorf("status = %d, want %d", w.Code, tt.want)
			}
		})
	}
}

func TestBearerAuthDisabledWhenNoKeys(t *testing.T) {
	inner := http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
		w.WriteHeader(http.StatusOK)
	})
	h := BearerAuthMiddleware(nil)(inner)

	req := httptest.NewRequest(http.MethodGet, "/api/v1/search", nil)
	w := httptest.NewRecorder()
	h.ServeHTTP(w, req)
	if w.Code != http.StatusOK {
		t.Errorf("status = %d, want 200 (auth disabled)", w.Code)
	}
}
