package driving

import "context"

// ChatService answers questions grounded on retrieved observations.
type ChatService interface {
	// Ask retrieves context for the question, calls the generation
	// boundary and returns the reply. The turn is recorded in the chat
	// history when a history store is configured.
	Ask(ctx context.Context, question string) (ChatAnswer, error)
}

// ChatAnswer is the result of one chat turn.
type ChatAnswer struct {
	// Reply is the assistant's response text.
	Reply string

	// Context holds the observation texts that grounded the reply,
	// in rank order.
	Context []string
}
