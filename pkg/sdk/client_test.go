package illustra

import (
	"context"
	"errors"
	"net/http"
	"net/http/httptest"
	"testing"
)

func newFakeAPI(t *testing.T, handler http.HandlerFunc) *Client {
	t.Helper()
	srv := httptest.NewServer(handler)
	t.Cleanup(srv.Close)
	return New(srv.URL, WithAPIKey("secret"))
}

func TestSearch(t *testing.T) {
	c := newFakeAPI(t, func(w http.ResponseWriter, r *http.Request) {
		if r.Method != http.MethodPost || r.URL.Path != "/api/v1/search" {
			t.Errorf("got %s %s", r.Method, r.URL.Path)
		}
		if got := r.Header.Get("Authorization"); got != "Bearer secret" {
			t.Errorf("Authorization = %q", got)
		}
		w.Header().Set("Content-Type", "application/json")
		_, _ = w.Write([]byte(`{
			"results": [{"id":"r1","filename":"r1.png","final_score":0.91,
				"breakdown":{"original":0.91},"present_dimensions":1}],
			"stats": {"count":1,"min_score":0.91,"max_score":0.91,"avg_score":0.91,"score_range":0},
			"diagnostics": {"candidates":3,"excluded":0,"dimension_mismatches":0}
		}`))
	})

	resp, err := c.Search(context.Background(), SearchRequest{Query: "a red balloon", Preset: "balanced"})
	if err != nil {
		t.Fatalf("Search() error = %v", err)
	}
	if len(resp.Results) != 1 || resp.Results[0].ID != "r1" {
		t.Errorf("Results = %+v", resp.Results)
	}
	if resp.Diagnostics.Candidates != 3 {
		t.Errorf("Candidates = %d", resp.Diagnostics.Candidates)
	}
}

func TestSearchAPIError(t *testing.T) {
	c := newFakeAPI(t, func(w http.ResponseWriter, _ *http.Request) {
		w.Header().Set("Content-Type", "application/json")
		w.WriteHeader(http.StatusBadRequest)
		_, _ = w.Write([]byte(`{"code":"unknown_preset","message":"unknown weight preset"}`))
	})

	_, err := c.Search(context.Background(), SearchRequest{Query: "q", Preset: "nope"})
	var apiErr *APIError
	if !errors.As(err, &apiErr) {
		t.Fatalf("error = %v, want *APIError", err)
	}
	if apiErr.StatusCode != http.StatusBadRequest || apiErr.Code != "unknown_preset" {
		t.Errorf("APIError = %+v", apiErr)
	}
}

func TestPresets(t *testing.T) {
	c := newFakeAPI(t, func(w http.ResponseWriter, r *http.Request) {
		if r.URL.Path != "/api/v1/presets" {
			t.Errorf("path = %s", r.URL.Path)
		}
		w.Header().Set("Content-Type", "application/json")
		_, _ = w.Write([]byte(`{"presets":[{"name":"balanced","weights":{"original":0.16}}]}`))
	})

	presets, err := c.Presets(context.Background())
	if err != nil {
		t.Fatalf("Presets() error = %v", err)
	}
	if len(presets) != 1 || presets[0].Name != "balanced" {
		t.Errorf("presets = %+v", presets)
	}
}

func TestNormalizeWeights(t *testing.T) {
	c := newFakeAPI(t, func(w http.ResponseWriter, r *http.Request) {
		if r.URL.Path != "/api/v1/weights/normalize" {
			t.Errorf("path = %s", r.URL.Path)
		}
		w.Header().Set("Content-Type", "application/json")
		_, _ = w.Write([]byte(`{"weights":{"philosophy":0.5,"creative_play":0.5}}`))
	})

	weights, err := c.NormalizeWeights(context.Background(), map[string]float64{
		"philosophy": 2, "creative_play": 2,
	})
	if err != nil {
		t.Fatalf("NormalizeWeights() error = %v", err)
	}
	if weights["philosophy"] != 0.5 {
		t.Errorf("weights = %v", weights)
	}
}

func TestHealthDegraded(t *testing.T) {
	c := newFakeAPI(t, func(w http.ResponseWriter, _ *http.Request) {
		w.Header().Set("Content-Type", "application/json")
		w.WriteHeader(http.StatusServiceUnavailable)
		_, _ = w.Write([]byte(`{"status":"degraded","checks":{"database":"error"}}`))
	})

	report, err := c.Health(context.Background())
	if err == nil {
		t.Fatal("expected error for degraded server")
	}
	if report.Status != "degraded" {
		t.Errorf("Status = %q, want degraded (report returned alongside error)", report.Status)
	}
	var apiErr *APIError
	if !errors.As(err, &apiErr) || apiErr.StatusCode != http.StatusServiceUnavailable {
		t.Errorf("error = %v", err)
	}
}

func TestHealthOK(t *testing.T) {
	c := newFakeAPI(t, func(w http.ResponseWriter, _ *http.Request) {
		w.Header().Set("Content-Type", "application/json")
		_, _ = w.Write([]byte(`{"status":"ok","checks":{"database":"ok"}}`))
	})

	report, err := c.Health(context.Background())
	if err != nil {
		t.Fatalf("Health() error = %v", err)
	}
	if report.Status != "ok" {
		t.Errorf("Status = %q", report.Status)
	}
}
