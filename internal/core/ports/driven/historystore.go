package driven

import (
	"context"

	"github.com/recall-labs/recall-cli/internal/core/domain"
)

// ChatHistoryStore persists chat transcripts.
// Backed by SQLite. This is an optional service - when nil, turns are
// simply not recorded. History failures must never abort a chat turn.
type ChatHistoryStore interface {
	// RecordTurn appends a completed question/answer exchange.
	RecordTurn(ctx context.Context, turn domain.ChatTurn) error

	// ListRecent returns the most recent turns, newest first.
	ListRecent(ctx context.Context, limit int) ([]domain.ChatTurn, error)

	// Close releases resources.
	Close() error
}
