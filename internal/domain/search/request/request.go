package request

import (
	"fmt"
	"strings"

	"github.com/kailas-cloud/illustra/internal/domain"
	"github.com/kailas-cloud/illustra/internal/domain/dimension"
	"github.com/kailas-cloud/illustra/internal/domain/search/scope"
	"github.com/kailas-cloud/illustra/internal/domain/weights"
)

// Search parameter limits.
const (
	// MaxQueryLength is the maximum allowed search query length.
	MaxQueryLength = 4096
	DefaultTopK    = 10
	MaxTopK        = 100
	// DefaultPreset is used when the caller supplies no weight source.
	DefaultPreset = "balanced"
)

// WeightSource is the tagged preset-or-custom weight variant. It exists
// only at the request boundary: by the time a Request is constructed the
// source has been resolved to a concrete weight vector and the engine never
// sees a mode flag.
type WeightSource struct {
	preset string
	custom map[dimension.Key]float64
	isSet  bool
}

// Preset selects a named weight preset.
func Preset(name string) WeightSource {
	return WeightSource{preset: name, isSet: true}
}

// Custom supplies a partial raw weight map, normalized at resolution.
func Custom(raw map[dimension.Key]float64) WeightSource {
	return WeightSource{custom: raw, isSet: true}
}

// Resolve turns the source into a normalized weight vector. The zero value
// resolves to the default preset.
func (s WeightSource) Resolve() (weights.Vector, error) {
	switch {
	case !s.isSet:
		return weights.Resolve(DefaultPreset)
	case s.preset != "":
		return weights.Resolve(s.preset)
	default:
		w, err := weights.Normalize(s.custom)
		if err != nil {
			return weights.Vector{}, fmt.Errorf("normalize custom weights: %w", err)
		}
		return w, nil
	}
}

// Request is a validated, fully resolved search query.
type Request struct {
	query       string
	weights     weights.Vector
	topK        int
	searchScope scope.Scope
}

// New validates and normalizes search parameters and resolves the weight
// source before any network work. Defaults: topK=10, scope=curated.
func New(query string, source WeightSource, topK int, sc scope.Scope) (Request, error) {
	if strings.TrimSpace(query) == "" {
		return Request{}, domain.ErrEmptyQuery
	}
	if len(query) > MaxQueryLength {
		return Request{}, fmt.Errorf("query too long (max %d chars)", MaxQueryLength)
	}
	if topK <= 0 {
		topK = DefaultTopK
	}
	if topK > MaxTopK {
		topK = MaxTopK
	}
	if sc == "" {
		sc = scope.Curated
	}
	if !sc.IsValid() {
		return Request{}, fmt.Errorf("invalid scope: %q", sc)
	}

	w, err := source.Resolve()
	if err != nil {
		return Request{}, err
	}

	return Request{
		query:       query,
		weights:     w,
		topK:        topK,
		searchScope: sc,
	}, nil
}

// Query returns the search query text.
func (r *Request) Query() string { return r.query }

// Weights returns the resolved weight vector.
func (r *Request) Weights() weights.Vector { return r.weights }

// TopK returns the maximum number of ranked results to return.
func (r *Request) TopK() int { return r.topK }

// Scope returns the corpus slice to search.
func (r *Request) Scope() scope.Scope { return r.searchScope }
