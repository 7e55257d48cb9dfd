package domain

import "errors"

// Domain errors represent business logic failures.
// These are distinct from infrastructure errors.
var (
	// ErrEmptyObservation indicates an observation text was empty after trimming.
	ErrEmptyObservation = errors.New("observation text is empty")

	// ErrDimensionMismatch indicates an embedding's length differs from the
	// dimensionality of the rest of the index.
	ErrDimensionMismatch = errors.New("embedding dimension mismatch")

	// ErrInvalidInput indicates malformed or invalid input.
	ErrInvalidInput = errors.New("invalid input")

	// ErrIndexMalformed indicates the persisted observation index could not
	// be parsed or violates the index schema. Unlike a missing index (which
	// is treated as empty), a malformed index is fatal and must be surfaced.
	ErrIndexMalformed = errors.New("observation index malformed")

	// ErrRetrievalFailed indicates the query could not be embedded, so no
	// context could be retrieved. Callers must distinguish this from an
	// empty retrieval result.
	ErrRetrievalFailed = errors.New("context retrieval failed")

	// ErrRefreshInProgress indicates a refresh cycle is already running.
	ErrRefreshInProgress = errors.New("refresh in progress")

	// ErrEmbeddingUnavailable indicates the embedding service is not configured.
	ErrEmbeddingUnavailable = errors.New("embedding service unavailable")

	// ErrLLMUnavailable indicates the LLM service is not configured.
	// Chat is disabled without it; retrieval still works.
	ErrLLMUnavailable = errors.New("LLM service unavailable")
)
