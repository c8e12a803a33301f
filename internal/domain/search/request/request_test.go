package request

import (
	"errors"
	"math"
	"strings"
	"testing"

	"github.com/kailas-cloud/illustra/internal/domain"
	"github.com/kailas-cloud/illustra/internal/domain/dimension"
	"github.com/kailas-cloud/illustra/internal/domain/search/scope"
)

func TestNewDefaults(t *testing.T) {
	req, err := New("rainy day umbrella", WeightSource{}, 0, "")
	if err != nil {
		t.Fatalf("New() error = %v", err)
	}

	if req.TopK() != DefaultTopK {
		t.Errorf("TopK() = %d, want %d", req.TopK(), DefaultTopK)
	}
	if req.Scope() != scope.Curated {
		t.Errorf("Scope() = %q, want curated", req.Scope())
	}
	// Zero weight source resolves to the default preset
	w := req.Weights()
	if got := w.Get(dimension.Original); math.Abs(got-0.16) > 1e-9 {
		t.Errorf("default weights original = %v, want 0.16 (balanced)", got)
	}
}

func TestNewEmptyQuery(t *testing.T) {
	for _, q := range []string{"", "   ", "\t\n"} {
		_, err := New(q, WeightSource{}, 10, scope.Curated)
		if !errors.Is(err, domain.ErrEmptyQuery) {
			t.Errorf("New(%q) error = %v, want ErrEmptyQuery", q, err)
		}
	}
}

func TestNewQueryTooLong(t *testing.T) {
	_, err := New(strings.Repeat("x", MaxQueryLength+1), WeightSource{}, 10, scope.Curated)
	if err == nil {
		t.Fatal("expected error for over-long query")
	}
}

func TestNewTopKClamped(t *testing.T) {
	req, err := New("q", WeightSource{}, MaxTopK+50, scope.Curated)
	if err != nil {
		t.Fatalf("New() error = %v", err)
	}
	if req.TopK() != MaxTopK {
		t.Errorf("TopK() = %d, want clamp to %d", req.TopK(), MaxTopK)
	}

	req, err = New("q", WeightSource{}, -3, scope.Curated)
	if err != nil {
		t.Fatalf("New() error = %v", err)
	}
	if req.TopK() != DefaultTopK {
		t.Errorf("TopK() = %d, want default %d", req.TopK(), DefaultTopK)
	}
}

func TestNewInvalidScope(t *testing.T) {
	_, err := New("q", WeightSource{}, 10, scope.Scope("everything"))
	if err == nil {
		t.Fatal("expected error for invalid scope")
	}
}

func TestNewUnknownPreset(t *testing.T) {
	_, err := New("q", Preset("nope"), 10, scope.Curated)
	if !errors.Is(err, domain.ErrUnknownPreset) {
		t.Fatalf("New() error = %v, want ErrUnknownPreset", err)
	}
}

func TestNewCustomWeights(t *testing.T) {
	req, err := New("q", Custom(map[dimension.Key]float64{
		dimension.EduValue: 3,
		dimension.Original: 1,
	}), 10, scope.Curated)
	if err != nil {
		t.Fatalf("New() error = %v", err)
	}

	w := req.Weights()
	if got := w.Get(dimension.EduValue); math.Abs(got-0.75) > 1e-9 {
		t.Errorf("edu_value weight = %v, want 0.75", got)
	}
	if got := w.Get(dimension.Original); math.Abs(got-0.25) > 1e-9 {
		t.Errorf("original weight = %v, want 0.25", got)
	}
}

func TestNewCustomWeightsInvalid(t *testing.T) {
	_, err := New("q", Custom(map[dimension.Key]float64{"bogus": 1}), 10, scope.Curated)
	if err == nil {
		t.Fatal("expected error for unknown custom weight key")
	}
}
