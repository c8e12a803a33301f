package search

import (
	"sort"

	"github.com/kailas-cloud/illustra/internal/domain/dimension"
	"github.com/kailas-cloud/illustra/internal/domain/search/result"
	"github.com/kailas-cloud/illustra/internal/domain/weights"
)

// finalScore combines a candidate's per-dimension similarities into one
// composite score. The caller's weights are renormalized over the present
// dimensions so that relative emphasis is preserved and incompletely
// ingested records are not penalized by scoring missing dimensions as 0.
// If every present dimension carries zero weight, the weights fall back to
// a uniform distribution over the present set.
func finalScore(sims map[dimension.Key]float64, w weights.Vector) float64 {
	var presentWeight float64
	for k := range sims {
		presentWeight += w.Get(k)
	}

	if presentWeight == 0 {
		uniform := 1.0 / float64(len(sims))
		var score float64
		for _, sim := range sims {
			score += uniform * sim
		}
		return score
	}

	var score float64
	for k, sim := range sims {
		score += (w.Get(k) / presentWeight) * sim
	}
	return score
}

// rank assembles ranked results from scored candidates: candidates with no
// scorable dimension are excluded entirely, the rest are sorted by
// descending final score with deterministic tie-breaks (more present
// dimensions first, then record ID), and truncated to topK.
func rank(candidates []scored, w weights.Vector, topK int) []result.Result {
	ranked := make([]result.Result, 0, len(candidates))

	for i := range candidates {
		c := &candidates[i]
		if len(c.sims) == 0 {
			continue
		}
		ranked = append(ranked, assemble(c, finalScore(c.sims, w)))
	}

	sortResults(ranked)

	if len(ranked) > topK {
		ranked = ranked[:topK]
	}
	return ranked
}

// sortResults orders results by descending final score. Ties break first on
// the number of present dimensions (more corroborating evidence wins), then
// on record ID, so identical snapshots always rank identically.
func sortResults(results []result.Result) {
	sort.Slice(results, func(i, j int) bool {
		a, b := &results[i], &results[j]
		if a.FinalScore() != b.FinalScore() {
			return a.FinalScore() > b.FinalScore()
		}
		if a.PresentDimensions() != b.PresentDimensions() {
			return a.PresentDimensions() > b.PresentDimensions()
		}
		return a.ID() < b.ID()
	})
}

// assemble maps a scored candidate into the externally visible result
// shape. Fields are bound by semantic meaning: Description always carries
// the caption text and ImageURL the URL, independent of how the storage
// schema orders its columns.
func assemble(c *scored, score float64) result.Result {
	breakdown := make(map[dimension.Key]float64, len(c.sims))
	for k, sim := range c.sims {
		breakdown[k] = sim
	}

	rec := c.record
	return result.New(
		rec.ID(),
		rec.Filename(),
		rec.BookTitle(),
		rec.Description(),
		rec.ImageURL(),
		score,
		breakdown,
	)
}
