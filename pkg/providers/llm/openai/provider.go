package openai

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"time"

	"github.com/alantheprice/codebaseai/pkg/interfaces"
	"github.com/alantheprice/codebaseai/pkg/interfaces/types"
	"github.com/alantheprice/codebaseai/pkg/prompts"
)

// Provider implements the OpenAI chat completions provider
type Provider struct {
	config     *types.ProviderConfig
	httpClient *http.Client
}

// Factory implements the ProviderFactory interface for OpenAI
type Factory struct{}

// GetName returns the provider name
func (f *Factory) GetName() string {
	return "openai"
}

// Create creates a new OpenAI provider instance
func (f *Factory) Create(config *types.ProviderConfig) (interfaces.LLMProvider, error) {
	if err := f.Validate(config); err != nil {
		return nil, err
	}

	return &Provider{
		config: config,
		httpClient: &http.Client{
			Timeout: time.Duration(config.Timeout) * time.Second,
		},
	}, nil
}

// Validate validates the OpenAI provider configuration
func (f *Factory) Validate(config *types.ProviderConfig) error {
	if config == nil {
		return fmt.Errorf("configuration is required")
	}

	if config.APIKey == "" {
		return fmt.Errorf("API key is required for OpenAI provider")
	}

	if config.Model == "" {
		return fmt.Errorf("model is required for OpenAI provider")
	}

	if config.BaseURL == "" {
		config.BaseURL = "https://api.openai.com/v1"
	}

	if config.Timeout == 0 {
		config.Timeout = 60
	}

	return nil
}

// GetName returns the provider name
func (p *Provider) GetName() string {
	return "openai"
}

// Submit sends the rendered prompt as a single user message
func (p *Provider) Submit(ctx context.Context, prompt, input, model string) (string, error) {
	requestBody, err := p.buildRequest(prompts.RenderPrompt(prompt, input), model)
	if err != nil {
		return "", fmt.Errorf("failed to build request: %w", err)
	}

	resp, err := p.makeRequest(ctx, requestBody)
	if err != nil {
		return "", err
	}
	defer resp.Body.Close()

	responseData, err := io.ReadAll(resp.Body)
	if err != nil {
		return "", fmt.Errorf("failed to read response: %w", err)
	}

	if resp.StatusCode != http.StatusOK {
		return "", fmt.Errorf("API error (%d): %s", resp.StatusCode, string(responseData))
	}

	var apiResponse OpenAIResponse
	if err := json.Unmarshal(responseData, &apiResponse); err != nil {
		return "", fmt.Errorf("failed to unmarshal response: %w", err)
	}

	if len(apiResponse.Choices) == 0 {
		return "", fmt.Errorf("no choices in response")
	}

	return apiResponse.Choices[0].Message.Content, nil
}

// IsAvailable checks if the provider is available
func (p *Provider) IsAvailable(ctx context.Context) error {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, p.config.BaseURL+"/models", nil)
	if err != nil {
		return fmt.Errorf("failed to create request: %w", err)
	}

	req.Header.Set("Authorization", "Bearer "+p.config.APIKey)

	resp, err := p.httpClient.Do(req)
	if err != nil {
		return fmt.Errorf("failed to connect to OpenAI API: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode == http.StatusUnauthorized {
		return fmt.Errorf("invalid API key")
	}

	if resp.StatusCode >= 400 {
		return fmt.Errorf("API error: %d", resp.StatusCode)
	}

	return nil
}

// buildRequest builds the OpenAI API request
func (p *Provider) buildRequest(content, model string) ([]byte, error) {
	if model == "" {
		model = p.config.Model
	}

	request := OpenAIRequest{
		Model:    model,
		Messages: []OpenAIMessage{{Role: "user", Content: content}},
	}

	if p.config.MaxTokens > 0 {
		request.MaxTokens = &p.config.MaxTokens
	}

	if p.config.Temperature > 0 {
		request.Temperature = &p.config.Temperature
	}

	return json.Marshal(request)
}

// makeRequest makes an HTTP request to the OpenAI API
func (p *Provider) makeRequest(ctx context.Context, body []byte) (*http.Response, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodPost, p.config.BaseURL+"/chat/completions", bytes.NewReader(body))
	if err != nil {
		return nil, fmt.Errorf("failed to create request: %w", err)
	}

	req.Header.Set("Content-Type", "application/json")
	req.Header.Set("Authorization", "Bearer "+p.config.APIKey)

	for key, value := range p.config.Headers {
		req.Header.Set(key, value)
	}

	return p.httpClient.Do(req)
}

// OpenAI API types
type OpenAIRequest struct {
	Model       string          `json:"model"`
	Messages    []OpenAIMessage `json:"messages"`
	MaxTokens   *int            `json:"max_tokens,omitempty"`
	Temperature *float64        `json:"temperature,omitempty"`
}

type OpenAIMessage struct {
	Role    string `json:"role"`
	Content string `json:"content"`
}

type OpenAIResponse struct {
	ID      string         `json:"id"`
	Model   string         `json:"model"`
	Choices []OpenAIChoice `json:"choices"`
}

type OpenAIChoice struct {
	Index        int           `json:"index"`
	Message      OpenAIMessage `json:"message"`
	FinishReason string        `json:"finish_reason"`
}
