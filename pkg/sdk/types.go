package illustra

import "fmt"

// SearchRequest is the body of POST /api/v1/search.
// Set Preset or Weights, not both; both empty selects the default preset.
type SearchRequest struct {
	Query   string             `json:"query"`
	Preset  string             `json:"preset,omitempty"`
	Weights map[string]float64 `json:"weights,omitempty"`
	TopK    int                `json:"top_k,omitempty"`
	Scope   string             `json:"scope,omitempty"`
}

// WeightProfile is one preset-or-custom entry in a multi-profile search.
type WeightProfile struct {
	Preset  string             `json:"preset,omitempty"`
	Weights map[string]float64 `json:"weights,omitempty"`
}

// SearchMultiRequest is the body of POST /api/v1/search/multi.
type SearchMultiRequest struct {
	Query    string          `json:"query"`
	Profiles []WeightProfile `json:"profiles"`
	TopK     int             `json:"top_k,omitempty"`
	Scope    string          `json:"scope,omitempty"`
}

// Result is one ranked illustration.
type Result struct {
	ID                string             `json:"id"`
	Filename          string             `json:"filename"`
	BookTitle         string             `json:"book_title,omitempty"`
	Description       string             `json:"description,omitempty"`
	ImageURL          string             `json:"image_url,omitempty"`
	FinalScore        float64            `json:"final_score"`
	Breakdown         map[string]float64 `json:"breakdown"`
	PresentDimensions int                `json:"present_dimensions"`
}

// Stats summarizes the score distribution of one response.
type Stats struct {
	Count      int     `json:"count"`
	MinScore   float64 `json:"min_score"`
	MaxScore   float64 `json:"max_score"`
	AvgScore   float64 `json:"avg_score"`
	ScoreRange float64 `json:"score_range"`
}

// Diagnostics carries per-request scoring counters.
type Diagnostics struct {
	Candidates          int `json:"candidates"`
	Excluded            int `json:"excluded"`
	DimensionMismatches int `json:"dimension_mismatches"`
}

// SearchResponse is the body of a successful search.
type SearchResponse struct {
	Results     []Result    `json:"results"`
	Stats       Stats       `json:"stats"`
	Diagnostics Diagnostics `json:"diagnostics"`
}

// Preset is a named weight profile with its resolved vector.
type Preset struct {
	Name    string             `json:"name"`
	Weights map[string]float64 `json:"weights"`
}

type presetsResponse struct {
	Presets []Preset `json:"presets"`
}

type weightsResponse struct {
	Weights map[string]float64 `json:"weights"`
}

// HealthStatus is the aggregated server health status.
type HealthStatus string

// HealthReport is the body of GET /healthz.
type HealthReport struct {
	Status HealthStatus      `json:"status"`
	Checks map[string]string `json:"checks"`
}

// APIError is a non-2xx response from the server.
type APIError struct {
	StatusCode int    `json:"-"`
	Code       string `json:"code"`
	Message    string `json:"message"`
}

func (e *APIError) Error() string {
	return fmt.Sprintf("illustra: api error %d (%s): %s", e.StatusCode, e.Code, e.Message)
}
