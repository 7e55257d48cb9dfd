// Package driven defines the interfaces that core calls OUT to infrastructure.
//
// These are the "driven" or "secondary" ports in hexagonal architecture.
// Core services depend on these interfaces, and infrastructure adapters
// implement them.
//
// # Required Interfaces
//
// These must be provided for the application to function:
//
//   - CorpusSource: Reads the observations document
//   - ObservationStore: Persists the embedded observation index
//   - EmbeddingService: Generates vector embeddings
//   - Ranker: Orders observations by similarity to a query vector
//   - ConfigStore: Application configuration
//
// # Optional Interfaces
//
// These can be nil - the application degrades gracefully:
//
//   - LLMService: Generation boundary. Without it, chat is disabled but
//     refresh and retrieval still work.
//   - ChatHistoryStore: Transcript logging. Failures never abort a chat turn.
//   - PromptStore: Custom prompt templates. Without it, defaults are used.
//
// # Import Rules
//
//   - Can Import: domain package only
//   - Cannot Import: Any adapter package
package driven
