package llm

import (
	"fmt"
	"strings"

	"github.com/alantheprice/codebaseai/pkg/interfaces"
	"github.com/alantheprice/codebaseai/pkg/interfaces/types"
)

// Factory turns a provider configuration into a backend from its registry.
// Backend names are matched case-insensitively.
type Factory struct {
	registry *Registry
}

func NewFactory(registry *Registry) *Factory {
	return &Factory{registry: registry}
}

func backendName(config *types.ProviderConfig) (string, error) {
	if config == nil {
		return "", fmt.Errorf("provider configuration is required")
	}
	name := strings.ToLower(strings.TrimSpace(config.Name))
	if name == "" {
		return "", fmt.Errorf("provider name is required")
	}
	return name, nil
}

// ValidateProviderConfig checks config against the named backend without
// building it.
func (f *Factory) ValidateProviderConfig(config *types.ProviderConfig) error {
	name, err := backendName(config)
	if err != nil {
		return err
	}
	if err := f.registry.ValidateConfig(name, config); err != nil {
		return fmt.Errorf("invalid %s configuration: %w", name, err)
	}
	return nil
}

// CreateProvider builds (or returns the already built) backend named by
// config. Disabled configurations are refused.
func (f *Factory) CreateProvider(config *types.ProviderConfig) (interfaces.LLMProvider, error) {
	name, err := backendName(config)
	if err != nil {
		return nil, err
	}
	if !config.Enabled {
		return nil, fmt.Errorf("provider '%s' is disabled", config.Name)
	}
	return f.registry.GetProvider(name, config)
}
