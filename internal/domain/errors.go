package domain

import "errors"

var (
	// ErrEmptyQuery signals a blank or whitespace-only search query.
	ErrEmptyQuery = errors.New("empty query")
	// ErrUnknownPreset signals an unrecognized weight preset name.
	ErrUnknownPreset = errors.New("unknown weight preset")
	// ErrEmbeddingUnavailable signals an embedding provider failure.
	ErrEmbeddingUnavailable = errors.New("embedding service unavailable")
	// ErrCandidateFetch signals a candidate storage failure for the requested scope.
	ErrCandidateFetch = errors.New("candidate fetch failed")
	// ErrVectorDimMismatch signals a vector dimension mismatch on a write path.
	ErrVectorDimMismatch = errors.New("vector dimension mismatch")
	// ErrNotFound signals a missing resource.
	ErrNotFound = errors.New("not found")
)
