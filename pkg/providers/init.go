package providers

import (
	"fmt"

	"github.com/alantheprice/codebaseai/pkg/providers/llm"
	"github.com/alantheprice/codebaseai/pkg/providers/llm/echo"
	"github.com/alantheprice/codebaseai/pkg/providers/llm/gemini"
	"github.com/alantheprice/codebaseai/pkg/providers/llm/ollama"
	"github.com/alantheprice/codebaseai/pkg/providers/llm/openai"
)

// DefaultFactories returns the providers compiled into the binary
func DefaultFactories() []llm.ProviderFactory {
	return []llm.ProviderFactory{
		&openai.Factory{},
		&ollama.Factory{},
		&gemini.Factory{},
		&echo.Factory{},
	}
}

// RegisterDefaultProviders registers all compiled-in providers with reg
func RegisterDefaultProviders(reg *llm.Registry) error {
	for _, f := range DefaultFactories() {
		if err := reg.Register(f); err != nil {
			return fmt.Errorf("register %s: %w", f.GetName(), err)
		}
	}
	return nil
}

// NewDefaultRegistry returns a registry with the default providers registered
func NewDefaultRegistry() (*llm.Registry, error) {
	reg := llm.NewRegistry()
	if err := RegisterDefaultProviders(reg); err != nil {
		return nil, err
	}
	return reg, nil
}
