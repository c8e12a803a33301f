// Package search implements the weighted multi-dimension ranking engine:
// one query embedding scored against up to eight embeddings per candidate,
// combined via a renormalized weight vector into a single ranking.
package search

import (
	"context"
	"fmt"
	"sync"
	"time"

	"github.com/panjf2000/ants/v2"
	"go.uber.org/zap"

	"github.com/kailas-cloud/illustra/internal/domain"
	domill "github.com/kailas-cloud/illustra/internal/domain/illustration"
	"github.com/kailas-cloud/illustra/internal/domain/search/request"
	"github.com/kailas-cloud/illustra/internal/domain/search/result"
	"github.com/kailas-cloud/illustra/internal/domain/search/scope"
	"github.com/kailas-cloud/illustra/internal/metrics"
)

// Diagnostics carries per-request observability counters back to the caller.
// Per-record anomalies never abort a request; they surface here and in metrics.
type Diagnostics struct {
	Candidates          int
	Excluded            int
	DimensionMismatches int
}

// Service executes weighted multi-dimension searches.
// The weight-preset table and the worker pool are the only shared state;
// both are safe for concurrent use, and the service holds no per-request
// memory between calls.
type Service struct {
	candidates CandidateStore
	embed      Embedder
	pool       *ants.Pool
	logger     *zap.Logger
}

// New creates a search service with a bounded scoring worker pool.
func New(candidates CandidateStore, embed Embedder, poolSize int, logger *zap.Logger) (*Service, error) {
	if poolSize < 1 {
		poolSize = 1
	}
	pool, err := ants.NewPool(poolSize)
	if err != nil {
		return nil, fmt.Errorf("create scoring pool: %w", err)
	}
	return &Service{
		candidates: candidates,
		embed:      embed,
		pool:       pool,
		logger:     logger,
	}, nil
}

// Close releases the scoring worker pool.
func (s *Service) Close() {
	s.pool.Release()
}

// Search executes one weighted search: vectorize the query, fetch the
// candidate snapshot, score candidates in parallel, rank, truncate.
// Vectorization and fetch failures are fatal for the whole request; no
// partial results are ever returned. An empty corpus or zero survivors
// yields an empty slice and no error.
func (s *Service) Search(ctx context.Context, req *request.Request) ([]result.Result, Diagnostics, error) {
	start := time.Now()

	query, err := s.vectorize(ctx, req.Query())
	if err != nil {
		return nil, Diagnostics{}, err
	}

	candidates, err := s.fetch(ctx, req.Scope())
	if err != nil {
		return nil, Diagnostics{}, err
	}
	if len(candidates) == 0 {
		return []result.Result{}, Diagnostics{}, nil
	}

	scoredCandidates, err := s.scoreAll(ctx, query, candidates)
	if err != nil {
		return nil, Diagnostics{}, err
	}

	diag := diagnose(scoredCandidates)
	ranked := rank(scoredCandidates, req.Weights(), req.TopK())

	sc := string(req.Scope())
	if diag.DimensionMismatches > 0 {
		s.logger.Warn("malformed embeddings skipped during scoring",
			zap.String("scope", sc),
			zap.Int("dimension_mismatches", diag.DimensionMismatches),
		)
	}
	metrics.SearchRequestDuration.WithLabelValues(sc).Observe(time.Since(start).Seconds())
	metrics.SearchCandidatesTotal.WithLabelValues(sc).Observe(float64(len(candidates)))
	if diag.Excluded > 0 {
		metrics.SearchExcludedTotal.WithLabelValues(sc).Add(float64(diag.Excluded))
	}

	s.logger.Debug("search completed",
		zap.String("scope", sc),
		zap.Int("candidates", diag.Candidates),
		zap.Int("excluded", diag.Excluded),
		zap.Int("dimension_mismatches", diag.DimensionMismatches),
		zap.Int("results", len(ranked)),
		zap.Duration("duration", time.Since(start)),
	)

	return ranked, diag, nil
}

// SearchMulti runs the same query under several weight sources and merges
// the result sets, keeping the higher final score when a record appears
// under more than one profile. The query is vectorized and the candidate
// snapshot fetched once.
func (s *Service) SearchMulti(
	ctx context.Context, req *request.Request, extra []request.WeightSource,
) ([]result.Result, Diagnostics, error) {
	query, err := s.vectorize(ctx, req.Query())
	if err != nil {
		return nil, Diagnostics{}, err
	}

	candidates, err := s.fetch(ctx, req.Scope())
	if err != nil {
		return nil, Diagnostics{}, err
	}
	if len(candidates) == 0 {
		return []result.Result{}, Diagnostics{}, nil
	}

	scoredCandidates, err := s.scoreAll(ctx, query, candidates)
	if err != nil {
		return nil, Diagnostics{}, err
	}
	diag := diagnose(scoredCandidates)

	merged := rank(scoredCandidates, req.Weights(), req.TopK())
	for _, source := range extra {
		w, err := source.Resolve()
		if err != nil {
			return nil, Diagnostics{}, err
		}
		merged = mergeByScore(merged, rank(scoredCandidates, w, req.TopK()))
	}

	if len(merged) > req.TopK() {
		merged = merged[:req.TopK()]
	}
	return merged, diag, nil
}

// vectorize turns the query text into the one embedding reused against
// every dimension of every candidate. Fails before any candidate work.
func (s *Service) vectorize(ctx context.Context, query string) ([]float32, error) {
	res, err := s.embed.Embed(ctx, query)
	if err != nil {
		return nil, fmt.Errorf("vectorize query: %w", err)
	}
	return res.Embedding, nil
}

func (s *Service) fetch(ctx context.Context, sc scope.Scope) ([]domill.Record, error) {
	candidates, err := s.candidates.FetchCandidates(ctx, sc)
	if err != nil {
		// Surfaced, never silently retried against the other scope: the
		// caller decides whether a recall- or precision-narrowed corpus
		// is an acceptable substitute.
		return nil, fmt.Errorf("scope %s: %w: %w", sc, domain.ErrCandidateFetch, err)
	}
	return candidates, nil
}

// scoreAll computes per-dimension similarities for every candidate on the
// bounded worker pool. Workers write into their own index of a pre-sized
// slice; there is no shared mutable ranking structure, so the output is
// deterministic for a given snapshot. A cancelled context discards all
// partial work.
func (s *Service) scoreAll(ctx context.Context, query []float32, candidates []domill.Record) ([]scored, error) {
	out := make([]scored, len(candidates))

	var wg sync.WaitGroup
	for i := range candidates {
		if err := ctx.Err(); err != nil {
			break
		}
		wg.Add(1)
		idx := i
		task := func() {
			defer wg.Done()
			if ctx.Err() != nil {
				return
			}
			out[idx] = scoreDimensions(query, &candidates[idx])
		}
		if err := s.pool.Submit(task); err != nil {
			// Pool released or overloaded; score inline rather than drop.
			task()
		}
	}
	wg.Wait()

	if err := ctx.Err(); err != nil {
		return nil, fmt.Errorf("scoring cancelled: %w", err)
	}
	return out, nil
}

func diagnose(candidates []scored) Diagnostics {
	diag := Diagnostics{Candidates: len(candidates)}
	for i := range candidates {
		if len(candidates[i].sims) == 0 {
			diag.Excluded++
		}
		diag.DimensionMismatches += candidates[i].mismatches
	}
	return diag
}

// mergeByScore merges two ranked lists by record ID, keeping the higher
// final score, and re-sorts with the standard tie-breaks.
func mergeByScore(a, b []result.Result) []result.Result {
	byID := make(map[string]result.Result, len(a)+len(b))
	for _, r := range a {
		byID[r.ID()] = r
	}
	for _, r := range b {
		if existing, ok := byID[r.ID()]; !ok || r.FinalScore() > existing.FinalScore() {
			byID[r.ID()] = r
		}
	}

	merged := make([]result.Result, 0, len(byID))
	for _, r := range byID {
		merged = append(merged, r)
	}
	sortResults(merged)
	return merged
}
