// Package domain defines the core business entities for Recall.
//
// This package is part of the hexagonal architecture's innermost layer.
// It has NO external dependencies and defines the fundamental types:
//
//   - Observation: A short factual statement derived from the user's notes
//   - RankedObservation: An observation paired with a similarity score
//   - ChatTurn: A recorded question/answer exchange
//   - Settings: Validated application configuration
//
// # Architectural Position
//
// Domain is at the centre of the hexagon. It may only import
// the Go standard library. All other packages depend on domain,
// never the reverse.
//
// # Import Rules
//
//   - Can Import: Standard library only
//   - Cannot Import: Any internal/ package, any external dependency
package domain
