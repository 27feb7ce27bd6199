package ollama

import (
	"context"
	"fmt"
	"net/http"
	"net/url"
	"strings"
	"time"

	ollama "github.com/ollama/ollama/api"

	"github.com/alantheprice/codebaseai/pkg/interfaces"
	"github.com/alantheprice/codebaseai/pkg/interfaces/types"
	"github.com/alantheprice/codebaseai/pkg/prompts"
)

// Provider implements the Ollama LLM provider
type Provider struct {
	config *types.ProviderConfig
	client *ollama.Client
}

// Factory implements the ProviderFactory interface for Ollama
type Factory struct{}

// GetName returns the provider name
func (f *Factory) GetName() string {
	return "ollama"
}

// Create creates a new Ollama provider instance
func (f *Factory) Create(config *types.ProviderConfig) (interfaces.LLMProvider, error) {
	if err := f.Validate(config); err != nil {
		return nil, err
	}

	base, err := url.Parse(config.BaseURL)
	if err != nil {
		return nil, fmt.Errorf("invalid Ollama base URL %q: %w", config.BaseURL, err)
	}

	httpClient := &http.Client{Timeout: time.Duration(config.Timeout) * time.Second}

	return &Provider{
		config: config,
		client: ollama.NewClient(base, httpClient),
	}, nil
}

// Validate validates the Ollama provider configuration
func (f *Factory) Validate(config *types.ProviderConfig) error {
	if config == nil {
		return fmt.Errorf("configuration is required")
	}

	if config.Model == "" {
		return fmt.Errorf("model is required for Ollama provider")
	}

	if config.BaseURL == "" {
		config.BaseURL = "http://localhost:11434"
	}

	if config.Timeout == 0 {
		config.Timeout = 120 // local models are slow
	}

	return nil
}

// GetName returns the provider name
func (p *Provider) GetName() string {
	return "ollama"
}

// Submit sends the rendered prompt and collects the assistant reply
func (p *Provider) Submit(ctx context.Context, prompt, input, model string) (string, error) {
	if model == "" {
		model = p.config.Model
	}

	stream := false
	req := &ollama.ChatRequest{
		Model: strings.TrimPrefix(model, "ollama:"),
		Messages: []ollama.Message{
			{Role: "user", Content: prompts.RenderPrompt(prompt, input)},
		},
		Stream: &stream,
	}
	// unset options keep the model's own defaults
	if opts := p.options(); len(opts) > 0 {
		req.Options = opts
	}

	var sb strings.Builder
	respFunc := func(res ollama.ChatResponse) error {
		sb.WriteString(res.Message.Content)
		return nil
	}

	if err := p.client.Chat(ctx, req, respFunc); err != nil {
		return "", fmt.Errorf("ollama chat failed: %w", err)
	}

	return sb.String(), nil
}

func (p *Provider) options() map[string]interface{} {
	opts := map[string]interface{}{}
	if p.config.Temperature > 0 {
		opts["temperature"] = p.config.Temperature
	}
	if p.config.MaxTokens > 0 {
		opts["num_predict"] = p.config.MaxTokens
	}
	return opts
}

// IsAvailable checks that the Ollama server answers
func (p *Provider) IsAvailable(ctx context.Context) error {
	if err := p.client.Heartbeat(ctx); err != nil {
		return fmt.Errorf("failed to connect to Ollama at %s: %w", p.config.BaseURL, err)
	}
	return nil
}
