package domain

import "time"

// ChatTurn records one question/answer exchange for the history log.
type ChatTurn struct {
	// ID is the unique identifier for the turn.
	ID string

	// ConversationID groups turns belonging to one chat session.
	ConversationID string

	// Question is the user's message.
	Question string

	// Answer is the assistant's reply.
	Answer string

	// ContextCount is how many observations grounded the answer.
	ContextCount int

	// CreatedAt is when the turn completed.
	CreatedAt time.Time
}

// RefreshStats summarises one refresh cycle of the observation index.
type RefreshStats struct {
	// LinesSeen is the number of observation candidates in the corpus
	// after trimming and deduplication.
	LinesSeen int

	// Embedded is how many lines were sent to the embedding provider.
	Embedded int

	// Reused is how many lines kept their previously persisted embedding.
	Reused int

	// Failed is how many lines could not be embedded and were skipped.
	Failed int

	// Duration is the wall-clock time of the cycle.
	Duration time.Duration
}
