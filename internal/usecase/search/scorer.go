package search

import (
	"math"

	"github.com/kailas-cloud/illustra/internal/domain/dimension"
	domill "github.com/kailas-cloud/illustra/internal/domain/illustration"
	"github.com/kailas-cloud/illustra/internal/metrics"
)

// mismatchReason classifies why a present embedding could not be scored.
const (
	reasonLength   = "length"
	reasonZeroNorm = "zero_norm"
)

// scored holds one candidate's per-dimension similarities. A dimension
// missing from sims is absent for this candidate: either never embedded or
// rejected as malformed. Absent is distinct from a zero similarity.
type scored struct {
	record     *domill.Record
	sims       map[dimension.Key]float64
	mismatches int
}

// scoreDimensions computes cosine similarity between the query vector and
// every usable embedding of the candidate. Malformed embeddings (wrong
// length, zero norm) are counted and treated as absent; they never abort
// the request and are never scored as 0.
func scoreDimensions(query []float32, rec *domill.Record) scored {
	s := scored{record: rec}

	for _, k := range dimension.All {
		emb := rec.Embedding(k)
		if emb == nil {
			continue
		}
		if len(emb) != len(query) {
			s.mismatches++
			metrics.DimensionMismatchTotal.WithLabelValues(string(k), reasonLength).Inc()
			continue
		}
		sim, ok := cosine(query, emb)
		if !ok {
			s.mismatches++
			metrics.DimensionMismatchTotal.WithLabelValues(string(k), reasonZeroNorm).Inc()
			continue
		}
		if s.sims == nil {
			s.sims = make(map[dimension.Key]float64, dimension.Count)
		}
		s.sims[k] = sim
	}

	return s
}

// cosine computes cosine similarity in [-1, 1] between two equal-length
// vectors. Returns ok=false for zero-norm inputs instead of dividing by zero.
func cosine(a, b []float32) (float64, bool) {
	var dot, normA, normB float64
	for i := range a {
		x := float64(a[i])
		y := float64(b[i])
		dot += x * y
		normA += x * x
		normB += y * y
	}
	if normA == 0 || normB == 0 {
		return 0, false
	}
	return dot / (math.Sqrt(normA) * math.Sqrt(normB)), true
}
