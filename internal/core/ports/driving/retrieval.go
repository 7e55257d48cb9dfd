package driving

import "context"

// RetrievalService selects observations relevant to a query.
type RetrievalService interface {
	// RetrieveContext embeds the query, ranks the persisted index against
	// it and returns the texts of the top k observations in rank order.
	// An empty index yields an empty slice with no error. A query that
	// cannot be embedded yields an error wrapping domain.ErrRetrievalFailed,
	// so callers can tell "nothing relevant" from "retrieval broke".
	RetrieveContext(ctx context.Context, query string, k int) ([]string, error)
}
