package chi

import (
	"fmt"

	"github.com/kailas-cloud/illustra/internal/domain/dimension"
	"github.com/kailas-cloud/illustra/internal/domain/search/request"
	"github.com/kailas-cloud/illustra/internal/domain/search/result"
	"github.com/kailas-cloud/illustra/internal/domain/weights"
	searchuc "github.com/kailas-cloud/illustra/internal/usecase/search"
)

// Error codes returned in JSON error bodies.
const (
	codeBadRequest           = "bad_request"
	codeValidationFailed     = "validation_failed"
	codeEmptyQuery           = "empty_query"
	codeUnknownPreset        = "unknown_preset"
	codeEmbeddingUnavailable = "embedding_unavailable"
	codeCandidateFetch       = "candidate_fetch_failed"
	codeNotFound             = "not_found"
	codeInternalError        = "internal_error"
)

type errorResponse struct {
	Code    string `json:"code"`
	Message string `json:"message"`
}

// weightSourceDTO is the preset-or-custom variant as it appears on the wire.
// Exactly one of Preset and Weights may be set; both empty selects the
// default preset.
type weightSourceDTO struct {
	Preset  string             `json:"preset,omitempty"`
	Weights map[string]float64 `json:"weights,omitempty"`
}

func (d *weightSourceDTO) toSource() (request.WeightSource, error) {
	switch {
	case d.Preset != "" && d.Weights != nil:
		return request.WeightSource{}, fmt.Errorf("specify preset or weights, not both")
	case d.Preset != "":
		return request.Preset(d.Preset), nil
	case d.Weights != nil:
		return request.Custom(rawWeightsFromDTO(d.Weights)), nil
	default:
		return request.WeightSource{}, nil
	}
}

type searchRequestDTO struct {
	Query string `json:"query"`
	weightSourceDTO
	TopK  int    `json:"top_k,omitempty"`
	Scope string `json:"scope,omitempty"`
}

type searchMultiRequestDTO struct {
	Query    string            `json:"query"`
	Profiles []weightSourceDTO `json:"profiles"`
	TopK     int               `json:"top_k,omitempty"`
	Scope    string            `json:"scope,omitempty"`
}

type normalizeRequestDTO struct {
	Weights map[string]float64 `json:"weights"`
}

type resultDTO struct {
	ID                string             `json:"id"`
	Filename          string             `json:"filename"`
	BookTitle         string             `json:"book_title,omitempty"`
	Description       string             `json:"description,omitempty"`
	ImageURL          string             `json:"image_url,omitempty"`
	FinalScore        float64            `json:"final_score"`
	Breakdown         map[string]float64 `json:"breakdown"`
	PresentDimensions int                `json:"present_dimensions"`
}

type statsDTO struct {
	Count      int     `json:"count"`
	MinScore   float64 `json:"min_score"`
	MaxScore   float64 `json:"max_score"`
	AvgScore   float64 `json:"avg_score"`
	ScoreRange float64 `json:"score_range"`
}

type diagnosticsDTO struct {
	Candidates          int `json:"candidates"`
	Excluded            int `json:"excluded"`
	DimensionMismatches int `json:"dimension_mismatches"`
}

type searchResponseDTO struct {
	Results     []resultDTO    `json:"results"`
	Stats       statsDTO       `json:"stats"`
	Diagnostics diagnosticsDTO `json:"diagnostics"`
}

type presetDTO struct {
	Name    string             `json:"name"`
	Weights map[string]float64 `json:"weights"`
}

type presetsResponseDTO struct {
	Presets []presetDTO `json:"presets"`
}

type weightsResponseDTO struct {
	Weights map[string]float64 `json:"weights"`
}

func rawWeightsFromDTO(m map[string]float64) map[dimension.Key]float64 {
	raw := make(map[dimension.Key]float64, len(m))
	for k, v := range m {
		raw[dimension.Key(k)] = v
	}
	return raw
}

func weightsToDTO(w weights.Vector) map[string]float64 {
	out := make(map[string]float64, dimension.Count)
	for k, v := range w.Map() {
		out[string(k)] = v
	}
	return out
}

func resultToDTO(r *result.Result) resultDTO {
	breakdown := make(map[string]float64, len(r.Breakdown()))
	for k, v := range r.Breakdown() {
		breakdown[string(k)] = v
	}
	return resultDTO{
		ID:                r.ID(),
		Filename:          r.Filename(),
		BookTitle:         r.BookTitle(),
		Description:       r.Description(),
		ImageURL:          r.ImageURL(),
		FinalScore:        r.FinalScore(),
		Breakdown:         breakdown,
		PresentDimensions: r.PresentDimensions(),
	}
}

func searchResponseFrom(results []result.Result, diag searchuc.Diagnostics) searchResponseDTO {
	items := make([]resultDTO, len(results))
	for i := range results {
		items[i] = resultToDTO(&results[i])
	}
	stats := result.Summarize(results)
	return searchResponseDTO{
		Results: items,
		Stats: statsDTO{
			Count:      stats.Count,
			MinScore:   stats.MinScore,
			MaxScore:   stats.MaxScore,
			AvgScore:   stats.AvgScore,
			ScoreRange: stats.ScoreRange,
		},
		Diagnostics: diagnosticsDTO{
			Candidates:          diag.Candidates,
			Excluded:            diag.Excluded,
			DimensionMismatches: diag.DimensionMismatches,
		},
	}
}
