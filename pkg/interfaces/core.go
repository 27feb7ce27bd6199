package interfaces

import (
	"context"
)

// LLMProvider is the capability every compiled-in LLM backend offers: submit
// a prompt template plus the text it refers to and get the model's reply.
type LLMProvider interface {
	// GetName returns the provider name (e.g., "openai", "gemini", "ollama")
	GetName() string

	// Submit renders prompt with input and returns the raw text response.
	// An empty model selects the provider's configured default.
	Submit(ctx context.Context, prompt, input, model string) (string, error)

	// IsAvailable checks if the provider is reachable and properly configured
	IsAvailable(ctx context.Context) error
}
