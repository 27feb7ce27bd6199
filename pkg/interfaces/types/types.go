package types

// ProviderConfig represents configuration for an LLM provider
type ProviderConfig struct {
	Name        string            `json:"name"`
	Model       string            `json:"model"`
	Temperature float64           `json:"temperature"`
	MaxTokens   int               `json:"max_tokens"`
	Timeout     int               `json:"timeout"` // seconds
	Enabled     bool              `json:"enabled"`
	BaseURL     string            `json:"base_url,omitempty"`
	APIKey      string            `json:"api_key,omitempty"`
	Headers     map[string]string `json:"headers,omitempty"`
}
