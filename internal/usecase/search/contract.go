package search

import (
	"context"

	"github.com/kailas-cloud/illustra/internal/domain"
	domill "github.com/kailas-cloud/illustra/internal/domain/illustration"
	"github.com/kailas-cloud/illustra/internal/domain/search/scope"
)

// CandidateStore is the read-only storage contract for candidate records.
// Implementations return records with embeddings already populated; the
// scoring loop performs no per-candidate I/O.
type CandidateStore interface {
	FetchCandidates(ctx context.Context, sc scope.Scope) ([]domill.Record, error)
}

// Embedder vectorizes the query text into an embedding. The resulting
// vector is reused, unmodified, against every dimension of every candidate.
type Embedder interface {
	Embed(ctx context.Context, text string) (domain.EmbeddingResult, error)
}
