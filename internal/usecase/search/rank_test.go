package search

import (
	"math"
	"testing"

	"github.com/kailas-cloud/illustra/internal/domain/dimension"
	domill "github.com/kailas-cloud/illustra/internal/domain/illustration"
	"github.com/kailas-cloud/illustra/internal/domain/weights"
)

func TestCosine(t *testing.T) {
	tests := []struct {
		name string
		a, b []float32
		want float64
		ok   bool
	}{
		{"identical", []float32{1, 2, 3}, []float32{1, 2, 3}, 1, true},
		{"opposite", []float32{1, 0}, []float32{-1, 0}, -1, true},
		{"orthogonal", []float32{1, 0}, []float32{0, 1}, 0, true},
		{"scaled", []float32{1, 0}, []float32{5, 0}, 1, true},
		{"zero_a", []float32{0, 0}, []float32{1, 0}, 0, false},
		{"zero_b", []float32{1, 0}, []float32{0, 0}, 0, false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, ok := cosine(tt.a, tt.b)
			if ok != tt.ok {
				t.Fatalf("cosine() ok = %v, want %v", ok, tt.ok)
			}
			if ok && math.Abs(got-tt.want) > 1e-9 {
				t.Errorf("cosine() = %v, want %v", got, tt.want)
			}
		})
	}
}

func TestScoreDimensionsSkipsAbsentAndMalformed(t *testing.T) {
	rec := record("r1", map[dimension.Key][]float32{
		dimension.Original:     {1, 0},
		dimension.Philosophy:   {1, 0, 0}, // wrong length
		dimension.SceneVisuals: {0, 0},    // zero norm
	})

	s := scoreDimensions([]float32{1, 0}, &rec)

	if len(s.sims) != 1 {
		t.Fatalf("got %d sims, want 1", len(s.sims))
	}
	if _, ok := s.sims[dimension.Original]; !ok {
		t.Error("original dimension missing from sims")
	}
	if s.mismatches != 2 {
		t.Errorf("mismatches = %d, want 2", s.mismatches)
	}
}

func TestFinalScoreIsWeightedSumOfPresent(t *testing.T) {
	w := weights.Reconstruct(map[dimension.Key]float64{
		dimension.Original:   0.5,
		dimension.Philosophy: 0.3,
		dimension.EduValue:   0.2,
	})

	// edu_value is absent: weights renormalize over {original, philosophy}
	// as 0.5/0.8 and 0.3/0.8.
	sims := map[dimension.Key]float64{
		dimension.Original:   0.9,
		dimension.Philosophy: 0.4,
	}

	got := finalScore(sims, w)
	want := 0.5/0.8*0.9 + 0.3/0.8*0.4
	if math.Abs(got-want) > 1e-9 {
		t.Errorf("finalScore() = %v, want %v", got, want)
	}
}

func TestFinalScoreAllDimensionsPresent(t *testing.T) {
	// With every dimension present the renormalization divides by 1 and the
	// score is the plain weighted sum.
	raw := map[dimension.Key]float64{}
	sims := map[dimension.Key]float64{}
	var want float64
	for i, k := range dimension.All {
		raw[k] = 0.125
		sims[k] = float64(i) / 10
		want += 0.125 * float64(i) / 10
	}
	w := weights.Reconstruct(raw)

	got := finalScore(sims, w)
	if math.Abs(got-want) > 1e-9 {
		t.Errorf("finalScore() = %v, want %v", got, want)
	}
}

func TestRankExcludesEmptyAndTruncates(t *testing.T) {
	w := weights.Reconstruct(map[dimension.Key]float64{dimension.Original: 1})

	candidates := []scored{
		{sims: map[dimension.Key]float64{dimension.Original: 0.2}, record: recPtr("low")},
		{sims: nil, record: recPtr("excluded")},
		{sims: map[dimension.Key]float64{dimension.Original: 0.9}, record: recPtr("high")},
		{sims: map[dimension.Key]float64{dimension.Original: 0.5}, record: recPtr("mid")},
	}

	ranked := rank(candidates, w, 2)
	if len(ranked) != 2 {
		t.Fatalf("got %d results, want 2", len(ranked))
	}
	if ranked[0].ID() != "high" || ranked[1].ID() != "mid" {
		t.Errorf("order = [%s %s], want [high mid]", ranked[0].ID(), ranked[1].ID())
	}
}

func recPtr(id string) *domill.Record {
	rec := record(id, nil)
	return &rec
}
