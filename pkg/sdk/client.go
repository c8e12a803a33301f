// Package illustra is a thin HTTP client for the illustra search API.
package illustra

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"strings"
	"time"
)

const defaultTimeout = 30 * time.Second

// Client talks to an illustra API server.
type Client struct {
	baseURL string
	apiKey  string
	http    *http.Client
}

// Option configures the Client.
type Option interface {
	apply(*Client)
}

type optionFunc func(*Client)

func (f optionFunc) apply(c *Client) { f(c) }

// WithAPIKey sets the Bearer token sent on every request.
func WithAPIKey(key string) Option {
	return optionFunc(func(c *Client) { c.apiKey = key })
}

// WithHTTPClient replaces the underlying HTTP client.
func WithHTTPClient(hc *http.Client) Option {
	return optionFunc(func(c *Client) { c.http = hc })
}

// New creates a Client for the given base URL (e.g. "http://localhost:8080").
func New(baseURL string, opts ...Option) *Client {
	c := &Client{
		baseURL: strings.TrimRight(baseURL, "/"),
		http:    &http.Client{Timeout: defaultTimeout},
	}
	for _, o := range opts {
		o.apply(c)
	}
	return c
}

// Search runs a weighted search.
func (c *Client) Search(ctx context.Context, req SearchRequest) (SearchResponse, error) {
	var resp SearchResponse
	if err := c.do(ctx, http.MethodPost, "/api/v1/search", req, &resp); err != nil {
		return SearchResponse{}, err
	}
	return resp, nil
}

// SearchMulti runs one query under several weight profiles and returns the
// merged ranking.
func (c *Client) SearchMulti(ctx context.Context, req SearchMultiRequest) (SearchResponse, error) {
	var resp SearchResponse
	if err := c.do(ctx, http.MethodPost, "/api/v1/search/multi", req, &resp); err != nil {
		return SearchResponse{}, err
	}
	return resp, nil
}

// Presets lists the named weight presets with their resolved vectors.
func (c *Client) Presets(ctx context.Context) ([]Preset, error) {
	var resp presetsResponse
	if err := c.do(ctx, http.MethodGet, "/api/v1/presets", nil, &resp); err != nil {
		return nil, err
	}
	return resp.Presets, nil
}

// NormalizeWeights previews the resolved weight vector for a partial map.
func (c *Client) NormalizeWeights(ctx context.Context, weights map[string]float64) (map[string]float64, error) {
	var resp weightsResponse
	body := map[string]any{"weights": weights}
	if err := c.do(ctx, http.MethodPost, "/api/v1/weights/normalize", body, &resp); err != nil {
		return nil, err
	}
	return resp.Weights, nil
}

// Health reports server health. A degraded server returns the report and a
// non-nil *APIError with StatusCode 503.
func (c *Client) Health(ctx context.Context) (HealthReport, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, c.baseURL+"/healthz", nil)
	if err != nil {
		return HealthReport{}, fmt.Errorf("illustra: create request: %w", err)
	}

	resp, err := c.http.Do(req)
	if err != nil {
		return HealthReport{}, fmt.Errorf("illustra: GET /healthz: %w", err)
	}
	defer resp.Body.Close()

	var report HealthReport
	if err := json.NewDecoder(resp.Body).Decode(&report); err != nil {
		return HealthReport{}, fmt.Errorf("illustra: decode response: %w", err)
	}
	if resp.StatusCode != http.StatusOK {
		return report, &APIError{StatusCode: resp.StatusCode, Code: "unhealthy", Message: string(report.Status)}
	}
	return report, nil
}

func (c *Client) do(ctx context.Context, method, path string, in, out any) error {
	var body *bytes.Reader
	if in != nil {
		data, err := json.Marshal(in)
		if err != nil {
			return fmt.Errorf("illustra: marshal request: %w", err)
		}
		body = bytes.NewReader(data)
	} else {
		body = bytes.NewReader(nil)
	}

	req, err := http.NewRequestWithContext(ctx, method, c.baseURL+path, body)
	if err != nil {
		return fmt.Errorf("illustra: create request: %w", err)
	}
	req.Header.Set("Content-Type", "application/json")
	if c.apiKey != "" {
		req.Header.Set("Authorization", "Bearer "+c.apiKey)
	}

	resp, err := c.http.Do(req)
	if err != nil {
		return fmt.Errorf("illustra: %s %s: %w", method, path, err)
	}
	defer resp.Body.Close()

	if resp.StatusCode >= 400 {
		apiErr := &APIError{StatusCode: resp.StatusCode}
		if json.NewDecoder(resp.Body).Decode(apiErr) != nil || apiErr.Code == "" {
			apiErr.Code = "unknown"
			apiErr.Message = resp.Status
		}
		return apiErr
	}

	if out != nil {
		if err := json.NewDecoder(resp.Body).Decode(out); err != nil {
			return fmt.Errorf("illustra: decode response: %w", err)
		}
	}
	return nil
}
