package services

import (
	"context"
	"fmt"
	"strings"

	"github.com/recall-labs/recall-cli/internal/core/domain"
	"github.com/recall-labs/recall-cli/internal/core/ports/driven"
	"github.com/recall-labs/recall-cli/internal/core/ports/driving"
	"github.com/recall-labs/recall-cli/internal/logger"
)

// Ensure RetrievalService implements the interface.
var _ driving.RetrievalService = (*RetrievalService)(nil)

// RetrievalService selects the observations most relevant to a query.
// It reads whatever index state is currently persisted; a query racing a
// refresh may see the previous index, which is acceptable (eventual
// consistency).
type RetrievalService struct {
	embedder driven.EmbeddingService
	store    driven.ObservationStore
	ranker   driven.Ranker
}

// NewRetrievalService creates a retrieval service.
func NewRetrievalService(
	embedder driven.EmbeddingService,
	store driven.ObservationStore,
	ranker driven.Ranker,
) *RetrievalService {
	return &RetrievalService{
		embedder: embedder,
		store:    store,
		ranker:   ranker,
	}
}

// RetrieveContext embeds the query, ranks the persisted index and returns
// the top k observation texts in rank order. Scores are logged for
// diagnostics but never returned to callers.
func (s *RetrievalService) RetrieveContext(ctx context.Context, query string, k int) ([]string, error) {
	logger.Section("Context Retrieval")
	logger.Debug("Query: %q, k=%d", query, k)

	if s.embedder == nil {
		return nil, fmt.Errorf("%w: %w", domain.ErrRetrievalFailed, domain.ErrEmbeddingUnavailable)
	}

	query = strings.TrimSpace(query)
	if query == "" {
		logger.Debug("Empty query, returning empty context")
		return []string{}, nil
	}

	queryVector, err := s.embedder.Embed(ctx, query)
	if err != nil {
		return nil, fmt.Errorf("%w: embed query: %w", domain.ErrRetrievalFailed, err)
	}
	logger.Debug("Query embedding: %d dimensions", len(queryVector))

	observations, err := s.store.Load(ctx)
	if err != nil {
		return nil, fmt.Errorf("load index: %w", err)
	}
	if len(observations) == 0 {
		logger.Debug("Index is empty, returning empty context")
		return []string{}, nil
	}

	ranked := s.ranker.Rank(queryVector, observations, k)

	texts := make([]string, len(ranked))
	for i, r := range ranked {
		texts[i] = r.Observation.Text
		logger.Debug("  [%d] %.4f %q", i+1, r.Score, r.Observation.Text)
	}

	logger.Info("Retrieved %d of %d observations", len(texts), len(observations))
	return texts, nil
}
