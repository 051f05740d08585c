package llm

import "context"

// MockCompletionClient is a configurable mock for testing completion
// functionality. Set the function field to control behavior in tests.
type MockCompletionClient struct {
	// CompleteFunc is called when Complete is invoked.
	// If nil, returns empty string and nil error.
	CompleteFunc func(ctx context.Context, systemPrompt, userPrompt string, temperature float64, maxTokens int) (string, error)

	// Model is returned by GetModel. Defaults to "mock-model".
	Model string

	// Call tracking for verification
	CompleteCalls int
}

// NewMockCompletionClient creates a new mock with sensible defaults.
func NewMockCompletionClient() *MockCompletionClient {
	return &MockCompletionClient{Model: "mock-model"}
}

// Complete implements CompletionClient.
func (m *MockCompletionClient) Complete(ctx context.Context, systemPrompt, userPrompt string, temperature float64, maxTokens int) (string, error) {
	m.CompleteCalls++
	if m.CompleteFunc != nil {
		return m.CompleteFunc(ctx, systemPrompt, userPrompt, temperature, maxTokens)
	}
	return "", nil
}

// GetModel implements CompletionClient.
func (m *MockCompletionClient) GetModel() string {
	if m.Model == "" {
		return "mock-model"
	}
	return m.Model
}

var _ CompletionClient = (*MockCompletionClient)(nil)
