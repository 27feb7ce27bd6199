// Package echo provides an offline provider that answers every request with
// its input unchanged. It is useful for dry runs and tests.
package echo

import (
	"context"

	"github.com/alantheprice/codebaseai/pkg/interfaces"
	"github.com/alantheprice/codebaseai/pkg/interfaces/types"
)

// Provider returns the method body it was given
type Provider struct{}

// Factory implements the ProviderFactory interface for echo
type Factory struct{}

// GetName returns the provider name
func (f *Factory) GetName() string {
	return "echo"
}

// Create creates a new echo provider
func (f *Factory) Create(config *types.ProviderConfig) (interfaces.LLMProvider, error) {
	return &Provider{}, nil
}

// Validate accepts any configuration
func (f *Factory) Validate(config *types.ProviderConfig) error {
	return nil
}

// GetName returns the provider name
func (p *Provider) GetName() string {
	return "echo"
}

// Submit returns input unchanged
func (p *Provider) Submit(ctx context.Context, prompt, input, model string) (string, error) {
	if err := ctx.Err(); err != nil {
		return "", err
	}
	return input, nil
}

// IsAvailable always succeeds
func (p *Provider) IsAvailable(ctx context.Context) error {
	return nil
}
