package gemini

import (
	"context"
	"fmt"
	"strings"
	"sync"

	"google.golang.org/genai"

	"github.com/alantheprice/codebaseai/pkg/interfaces"
	"github.com/alantheprice/codebaseai/pkg/interfaces/types"
	"github.com/alantheprice/codebaseai/pkg/prompts"
)

// Provider implements the Gemini LLM provider
type Provider struct {
	config *types.ProviderConfig

	once    sync.Once
	cli     *genai.Client
	initErr error
}

// Factory implements the ProviderFactory interface for Gemini
type Factory struct{}

// GetName returns the provider name
func (f *Factory) GetName() string {
	return "gemini"
}

// Create creates a new Gemini provider instance. The SDK client is built on first use.
func (f *Factory) Create(config *types.ProviderConfig) (interfaces.LLMProvider, error) {
	if err := f.Validate(config); err != nil {
		return nil, err
	}

	return &Provider{config: config}, nil
}

// Validate validates the Gemini provider configuration
func (f *Factory) Validate(config *types.ProviderConfig) error {
	if config == nil {
		return fmt.Errorf("configuration is required")
	}

	if config.APIKey == "" {
		return fmt.Errorf("API key is required for Gemini provider")
	}

	if config.Model == "" {
		return fmt.Errorf("model is required for Gemini provider")
	}

	if config.Timeout == 0 {
		config.Timeout = 60
	}

	return nil
}

// GetName returns the provider name
func (p *Provider) GetName() string {
	return "gemini"
}

func (p *Provider) client(ctx context.Context) (*genai.Client, error) {
	p.once.Do(func() {
		cc := &genai.ClientConfig{
			APIKey:  p.config.APIKey,
			Backend: genai.BackendGeminiAPI,
		}
		if p.config.BaseURL != "" {
			cc.HTTPOptions = genai.HTTPOptions{BaseURL: strings.TrimSuffix(p.config.BaseURL, "/") + "/"}
		}
		p.cli, p.initErr = genai.NewClient(ctx, cc)
	})
	return p.cli, p.initErr
}

// Submit generates content for the rendered prompt
func (p *Provider) Submit(ctx context.Context, prompt, input, model string) (string, error) {
	cli, err := p.client(ctx)
	if err != nil {
		return "", fmt.Errorf("genai client: %w", err)
	}

	if model == "" {
		model = p.config.Model
	}

	var cfg *genai.GenerateContentConfig
	if p.config.Temperature > 0 || p.config.MaxTokens > 0 {
		cfg = &genai.GenerateContentConfig{}
		if p.config.Temperature > 0 {
			cfg.Temperature = genai.Ptr(float32(p.config.Temperature))
		}
		if p.config.MaxTokens > 0 {
			cfg.MaxOutputTokens = int32(p.config.MaxTokens)
		}
	}

	full := prompts.RenderPrompt(prompt, input)
	resp, err := cli.Models.GenerateContent(ctx, model,
		[]*genai.Content{{Role: genai.RoleUser, Parts: []*genai.Part{{Text: full}}}},
		cfg,
	)
	if err != nil {
		return "", fmt.Errorf("gemini generate content: %w", err)
	}

	text := resp.Text()
	if text == "" {
		return "", fmt.Errorf("empty response from gemini")
	}
	return text, nil
}

// IsAvailable checks that a client can be built from the configuration
func (p *Provider) IsAvailable(ctx context.Context) error {
	_, err := p.client(ctx)
	return err
}
