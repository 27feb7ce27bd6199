package config

import (
	"encoding/json"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/joho/godotenv"

	"github.com/alantheprice/codebaseai/pkg/interfaces/types"
	"github.com/alantheprice/codebaseai/pkg/prompts"
)

const (
	DirName  = ".codebaseai"
	FileName = "config.json"

	DefaultLLM         = "openai"
	DefaultOpenAIModel = "gpt-4o"
	DefaultOllamaModel = "mistral"
	DefaultGeminiModel = "gemini-2.5-flash"
	DefaultOllamaURL   = "http://localhost:11434"
	DefaultFormatter   = "astyle -n --style=java {file}"
	DefaultLogFile     = "./analysis.log"
	DefaultCacheSize   = 1024
)

type Config struct {
	LLM             string   `json:"llm"`
	Model           string   `json:"model"`        // explicit override, wins over everything
	LLMModel        string   `json:"llm_model"`    // LLM_MODEL
	OllamaModel     string   `json:"ollama_model"` // OLLAMA_MODEL_NAME
	OllamaServerURL string   `json:"ollama_server_url"`
	OpenAIBaseURL   string   `json:"openai_base_url"`
	Temperature     float64  `json:"temperature"`
	MaxTokens       int      `json:"max_tokens"`
	TimeoutSecs     int      `json:"timeout_secs"`
	PromptFile      string   `json:"prompt_file"`
	OnError         string   `json:"on_error"`
	Formatter       string   `json:"formatter"`
	NoFormat        bool     `json:"no_format"`
	Extensions      []string `json:"extensions"`
	CacheSize       int      `json:"cache_size"`
	CacheTTLSecs    int      `json:"cache_ttl_secs"` // 0 keeps entries for the whole run
	ShowDiff        bool     `json:"show_diff"`
	LogFile         string   `json:"log_file"`
	LogLevel        string   `json:"log_level"`
	LogSilent       bool     `json:"log_silent"`
	JSONLogs        bool     `json:"json_logs"`

	// Never persisted
	OpenAIAPIKey string `json:"-"`
	GeminiAPIKey string `json:"-"`
	SourceDir    string `json:"-"`
	OutputDir    string `json:"-"`
}

// FilePath returns the project config location under dir
func FilePath(dir string) string {
	return filepath.Join(dir, DirName, FileName)
}

func (cfg *Config) setDefaultValues() {
	if cfg.LLM == "" {
		cfg.LLM = DefaultLLM
	}
	cfg.LLM = strings.ToLower(cfg.LLM)
	if cfg.OllamaModel == "" {
		cfg.OllamaModel = DefaultOllamaModel
	}
	if cfg.OllamaServerURL == "" {
		cfg.OllamaServerURL = DefaultOllamaURL
	}
	if cfg.TimeoutSecs == 0 {
		cfg.TimeoutSecs = 120
	}
	if cfg.PromptFile == "" {
		cfg.PromptFile = prompts.DefaultInstructionFile
	}
	if cfg.OnError == "" {
		cfg.OnError = "abort-file"
	}
	if cfg.Formatter == "" {
		cfg.Formatter = DefaultFormatter
	}
	if len(cfg.Extensions) == 0 {
		cfg.Extensions = []string{".java"}
	}
	if cfg.CacheSize == 0 {
		cfg.CacheSize = DefaultCacheSize
	}
	if cfg.LogFile == "" {
		cfg.LogFile = DefaultLogFile
	}
	if cfg.LogLevel == "" {
		cfg.LogLevel = "info"
	}
}

// applyEnv overlays environment variables onto cfg
func (cfg *Config) applyEnv() {
	if v := os.Getenv("LLM"); v != "" {
		cfg.LLM = v
	}
	if v := os.Getenv("LLM_MODEL"); v != "" {
		cfg.LLMModel = v
	}
	if v := os.Getenv("OLLAMA_MODEL_NAME"); v != "" {
		cfg.OllamaModel = v
	}
	if v := os.Getenv("OLLAMA_HOST"); v != "" {
		cfg.OllamaServerURL = normalizeHost(v)
	}
	if v := os.Getenv("OPENAI_BASE_URL"); v != "" {
		cfg.OpenAIBaseURL = v
	}
	if v := os.Getenv("CODEBASEAI_JSON_LOGS"); v == "1" || strings.EqualFold(v, "true") {
		cfg.JSONLogs = true
	}
	cfg.OpenAIAPIKey = os.Getenv("OPENAI_API_KEY")
	cfg.GeminiAPIKey = os.Getenv("GEMINI_API_KEY")
	if cfg.GeminiAPIKey == "" {
		cfg.GeminiAPIKey = os.Getenv("GOOGLE_API_KEY")
	}
}

// normalizeHost accepts OLLAMA_HOST in the bare host:port form too
func normalizeHost(host string) string {
	if strings.HasPrefix(host, "http://") || strings.HasPrefix(host, "https://") {
		return host
	}
	return "http://" + host
}

func loadConfig(filePath string) (*Config, error) {
	data, err := os.ReadFile(filePath)
	if err != nil {
		return nil, err
	}
	var cfg Config
	if err := json.Unmarshal(data, &cfg); err != nil {
		return nil, fmt.Errorf("parse %s: %w", filePath, err)
	}
	return &cfg, nil
}

// Load builds the configuration for a run rooted at dir. Sources are applied
// in order: dir/.env, dir/.codebaseai/config.json, environment, defaults.
// CLI flags are applied by the caller afterwards.
func Load(dir string) (*Config, error) {
	// a missing .env is normal
	_ = godotenv.Load(filepath.Join(dir, ".env"))

	cfg := &Config{}
	path := FilePath(dir)
	if _, err := os.Stat(path); err == nil {
		loaded, err := loadConfig(path)
		if err != nil {
			return nil, err
		}
		cfg = loaded
	} else if !errors.Is(err, os.ErrNotExist) {
		return nil, fmt.Errorf("stat %s: %w", path, err)
	}

	cfg.applyEnv()
	cfg.setDefaultValues()
	return cfg, nil
}

// Save writes cfg as indented JSON, creating the parent directory
func Save(filePath string, cfg *Config) error {
	if err := os.MkdirAll(filepath.Dir(filePath), 0755); err != nil {
		return err
	}
	data, err := json.MarshalIndent(cfg, "", "    ")
	if err != nil {
		return err
	}
	return os.WriteFile(filePath, data, 0644)
}

// InitConfig writes a default project config under dir unless one exists
func InitConfig(dir string) (string, error) {
	path := FilePath(dir)
	if _, err := os.Stat(path); err == nil {
		return path, fmt.Errorf("config already exists at %s", path)
	}
	cfg := &Config{}
	cfg.setDefaultValues()
	return path, Save(path, cfg)
}

// DefaultModel returns the model used for llm when none is configured
func DefaultModel(llm string) string {
	switch strings.ToLower(llm) {
	case "ollama":
		return DefaultOllamaModel
	case "gemini":
		return DefaultGeminiModel
	default:
		return DefaultOpenAIModel
	}
}

// Backend returns the normalized backend name
func (cfg *Config) Backend() string {
	return strings.ToLower(strings.TrimSpace(cfg.LLM))
}

// ResolveModel picks the model name: explicit override, then the
// provider-specific env value, then the backend default. The backend default
// is resolved here so a backend chosen after Load still gets its own model.
func (cfg *Config) ResolveModel() string {
	if cfg.Model != "" {
		return cfg.Model
	}
	backend := cfg.Backend()
	if backend == "ollama" && cfg.OllamaModel != "" {
		return cfg.OllamaModel
	}
	if backend != "ollama" && cfg.LLMModel != "" {
		return cfg.LLMModel
	}
	return DefaultModel(backend)
}

// ProviderConfig converts the run configuration into a provider configuration
func (cfg *Config) ProviderConfig() *types.ProviderConfig {
	pc := &types.ProviderConfig{
		Name:        cfg.Backend(),
		Model:       cfg.ResolveModel(),
		Temperature: cfg.Temperature,
		MaxTokens:   cfg.MaxTokens,
		Timeout:     cfg.TimeoutSecs,
		Enabled:     true,
	}
	switch cfg.Backend() {
	case "openai":
		pc.APIKey = cfg.OpenAIAPIKey
		pc.BaseURL = cfg.OpenAIBaseURL
	case "ollama":
		pc.BaseURL = cfg.OllamaServerURL
	case "gemini":
		pc.APIKey = cfg.GeminiAPIKey
	}
	return pc
}
