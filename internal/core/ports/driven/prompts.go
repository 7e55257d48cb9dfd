package driven

// PromptStore provides access to LLM prompt templates.
// Implementations may load prompts from files, embed them in the binary,
// or fetch them from a remote configuration service.
type PromptStore interface {
	// Load returns the prompt template for the given name.
	// If the prompt is not found, implementations should return a sensible
	// default or an error, depending on whether the prompt is required.
	Load(name string) (string, error)

	// Reload clears any cached prompts, forcing fresh loads on next access.
	// This is useful when prompts may have been edited on disk.
	Reload()
}

// Well-known prompt names used throughout the application.
// These constants define the contract between prompt consumers and providers.
const (
	// PromptChatSystem is the system prompt grounding a chat turn.
	// The template expects %s (persona name) and %s (retrieved observations)
	// placeholders, in that order.
	PromptChatSystem = "chat_system"

	// PromptChatSystemEmpty is the system prompt used when retrieval found
	// no relevant observations. The template expects a %s (persona name)
	// placeholder.
	PromptChatSystemEmpty = "chat_system_empty"
)
