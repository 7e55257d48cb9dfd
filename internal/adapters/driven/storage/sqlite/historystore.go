package sqlite

import (
	"context"
	"database/sql"
	"fmt"
	"os"
	"path/filepath"
	"time"

	_ "modernc.org/sqlite"

	"github.com/recall-labs/recall-cli/internal/core/domain"
	"github.com/recall-labs/recall-cli/internal/core/ports/driven"
)

// Ensure HistoryStore implements the interface.
var _ driven.ChatHistoryStore = (*HistoryStore)(nil)

const schema = `
CREATE TABLE IF NOT EXISTS chat_turns (
	id              TEXT PRIMARY KEY,
	conversation_id TEXT NOT NULL,
	question        TEXT NOT NULL,
	answer          TEXT NOT NULL,
	context_count   INTEGER NOT NULL,
	created_at      TEXT NOT NULL
);
CREATE INDEX IF NOT EXISTS idx_chat_turns_created_at ON chat_turns(created_at);
`

// HistoryStore records chat turns in a SQLite database.
type HistoryStore struct {
	db *sql.DB
}

// NewHistoryStore opens (creating if necessary) the database at path and
// ensures the schema exists.
func NewHistoryStore(path string) (*HistoryStore, error) {
	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		return nil, fmt.Errorf("create history directory: %w", err)
	}

	db, err := sql.Open("sqlite", path)
	if err != nil {
		return nil, fmt.Errorf("open history database %s: %w", path, err)
	}

	// The driver serialises access through a single connection; the CLI is
	// single-user so there is no need for a pool.
	db.SetMaxOpenConns(1)

	if _, err := db.Exec(schema); err != nil {
		db.Close()
		return nil, fmt.Errorf("initialise history schema: %w", err)
	}

	return &HistoryStore{db: db}, nil
}

// RecordTurn appends a completed question/answer exchange to the transcript.
func (s *HistoryStore) RecordTurn(ctx context.Context, turn domain.ChatTurn) error {
	_, err := s.db.ExecContext(ctx,
		`INSERT INTO chat_turns (id, conversation_id, question, answer, context_count, created_at)
		 VALUES (?, ?, ?, ?, ?, ?)`,
		turn.ID,
		turn.ConversationID,
		turn.Question,
		turn.Answer,
		turn.ContextCount,
		turn.CreatedAt.UTC().Format(time.RFC3339Nano),
	)
	if err != nil {
		return fmt.Errorf("record chat turn: %w", err)
	}
	return nil
}

// ListRecent returns up to limit turns, newest first.
func (s *HistoryStore) ListRecent(ctx context.Context, limit int) ([]domain.ChatTurn, error) {
	if limit <= 0 {
		limit = 20
	}

	rows, err := s.db.QueryContext(ctx,
		`SELECT id, conversation_id, question, answer, context_count, created_at
		 FROM chat_turns
		 ORDER BY created_at DESC, id DESC
		 LIMIT ?`, limit)
	if err != nil {
		return nil, fmt.Errorf("query chat history: %w", err)
	}
	defer rows.Close()

	var turns []domain.ChatTurn
	for rows.Next() {
		var turn domain.ChatTurn
		var createdAt string
		if err := rows.Scan(&turn.ID, &turn.ConversationID, &turn.Question, &turn.Answer, &turn.ContextCount, &createdAt); err != nil {
			return nil, fmt.Errorf("scan chat turn: %w", err)
		}
		turn.CreatedAt, err = time.Parse(time.RFC3339Nano, createdAt)
		if err != nil {
			return nil, fmt.Errorf("parse chat turn timestamp: %w", err)
		}
		turns = append(turns, turn)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterate chat history: %w", err)
	}

	return turns, nil
}

// Close releases the database handle.
func (s *HistoryStore) Close() error {
	return s.db.Close()
}
