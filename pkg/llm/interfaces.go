// Package llm provides OpenAI-compatible text-completion client functionality.
package llm

import "context"

// CompletionClient defines the interface for text-completion operations.
// Use this interface for dependency injection to enable mocking in tests.
type CompletionClient interface {
	// Complete generates a completion for the user prompt under the given
	// system prompt. maxTokens <= 0 means no cap.
	Complete(ctx context.Context, systemPrompt, userPrompt string, temperature float64, maxTokens int) (string, error)

	// GetModel returns the configured model name.
	GetModel() string
}

// Ensure Client implements CompletionClient at compile time.
var _ CompletionClient = (*Client)(nil)
