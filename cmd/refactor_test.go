package cmd

import (
	"bytes"
	"context"
	"net/http"
	"net/http/httptest"
	"os"
	"path/filepath"
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/alantheprice/codebaseai/pkg/config"
)

const calculator = `package demo;

/** Simple calculator. */
public class Calculator {
    // adds numbers
    public int add(int a, int b) {
        String s = "{ not a brace }"; /* keep */
        return a + b;
    }

    public int add2(int a, int b) {
        String s = "{ not a brace }"; /* keep */
        return a + b;
    }
}
`

func echoConfig(t *testing.T) *config.Config {
	t.Helper()
	t.Setenv("LLM", "echo")
	dir := t.TempDir()
	cfg, err := config.Load(dir)
	require.NoError(t, err)

	cfg.SourceDir = filepath.Join(dir, "src")
	cfg.OutputDir = filepath.Join(dir, "out")
	cfg.LogFile = filepath.Join(dir, "analysis.log")
	cfg.LogSilent = true
	cfg.NoFormat = true
	require.NoError(t, os.MkdirAll(filepath.Join(cfg.SourceDir, "demo"), 0755))
	return cfg
}

func TestRunRefactor_EchoRoundTrip(t *testing.T) {
	cfg := echoConfig(t)
	srcFile := filepath.Join(cfg.SourceDir, "demo", "Calculator.java")
	require.NoError(t, os.WriteFile(srcFile, []byte(calculator), 0644))

	summary, err := runRefactor(context.Background(), cfg, &bytes.Buffer{})
	require.NoError(t, err)

	assert.Equal(t, 1, summary.Written)
	assert.Equal(t, 2, summary.Methods)
	assert.Equal(t, 0, summary.Refactored)

	out, err := os.ReadFile(filepath.Join(cfg.OutputDir, "demo", "Calculator.java"))
	require.NoError(t, err)
	assert.Equal(t, calculator, string(out), "echo backend must reproduce the source byte for byte")

	logData, err := os.ReadFile(cfg.LogFile)
	require.NoError(t, err)
	assert.Contains(t, string(logData), "Refactored code written to:")

	summary, err = runRefactor(context.Background(), cfg, &bytes.Buffer{})
	require.NoError(t, err)
	assert.Equal(t, 1, summary.Skipped)
}

func TestRunRefactor_InvalidConfig(t *testing.T) {
	cfg := echoConfig(t)
	cfg.OnError = "explode"

	_, err := runRefactor(context.Background(), cfg, &bytes.Buffer{})
	assert.ErrorContains(t, err, "on_error")
}

func TestRunRefactor_UnknownProvider(t *testing.T) {
	cfg := echoConfig(t)
	cfg.LLM = "nope"

	_, err := runRefactor(context.Background(), cfg, &bytes.Buffer{})
	assert.ErrorContains(t, err, "not registered")
}

func TestRunRefactor_MissingPromptFile(t *testing.T) {
	cfg := echoConfig(t)
	cfg.PromptFile = filepath.Join(t.TempDir(), "missing.txt")

	_, err := runRefactor(context.Background(), cfg, &bytes.Buffer{})
	assert.ErrorContains(t, err, "failed to read prompt file")
}

func TestApplyRefactorFlags(t *testing.T) {
	cfg := &config.Config{LLM: "openai", OnError: "abort-file", CacheSize: 10}

	require.NoError(t, refactorCmd.Flags().Set("java_dir", "/src"))
	require.NoError(t, refactorCmd.Flags().Set("output_dir", "/out"))
	require.NoError(t, refactorCmd.Flags().Set("llm_name", "ollama"))
	require.NoError(t, refactorCmd.Flags().Set("on-error", "skip-method"))
	require.NoError(t, refactorCmd.Flags().Set("ext", ".java,.jav"))

	applyRefactorFlags(refactorCmd, cfg)

	assert.Equal(t, "/src", cfg.SourceDir)
	assert.Equal(t, "/out", cfg.OutputDir)
	assert.Equal(t, "ollama", cfg.LLM)
	assert.Equal(t, "skip-method", cfg.OnError)
	assert.Equal(t, []string{".java", ".jav"}, cfg.Extensions)
	assert.Equal(t, 10, cfg.CacheSize, "unset flags must not override config")
}

// unsetLLMEnv clears the backend selection variables Load reads
func unsetLLMEnv(t *testing.T) {
	t.Helper()
	for _, k := range []string{"LLM", "LLM_MODEL", "OLLAMA_MODEL_NAME", "OLLAMA_HOST", "OPENAI_API_KEY", "GEMINI_API_KEY", "GOOGLE_API_KEY"} {
		t.Setenv(k, "")
		require.NoError(t, os.Unsetenv(k))
	}
}

func TestApplyRefactorFlags_BackendPicksItsDefaultModel(t *testing.T) {
	tests := []struct {
		flag      string
		wantLLM   string
		wantModel string
	}{
		{"gemini", "gemini", config.DefaultGeminiModel},
		{"Ollama", "ollama", config.DefaultOllamaModel},
		{"OpenAI", "openai", config.DefaultOpenAIModel},
	}
	for _, tt := range tests {
		t.Run(tt.flag, func(t *testing.T) {
			unsetLLMEnv(t)
			t.Setenv("OPENAI_API_KEY", "sk-test")
			cfg, err := config.Load(t.TempDir())
			require.NoError(t, err)

			require.NoError(t, refactorCmd.Flags().Set("llm_name", tt.flag))
			applyRefactorFlags(refactorCmd, cfg)

			assert.Equal(t, tt.wantLLM, cfg.LLM)
			assert.Equal(t, tt.wantModel, cfg.ResolveModel())

			pc := cfg.ProviderConfig()
			assert.Equal(t, tt.wantLLM, pc.Name)
			assert.Equal(t, tt.wantModel, pc.Model)
			switch tt.wantLLM {
			case "openai":
				assert.Equal(t, "sk-test", pc.APIKey)
			case "ollama":
				assert.Equal(t, config.DefaultOllamaURL, pc.BaseURL)
			}
		})
	}
}

func TestBuildProvider_WiresCacheTTL(t *testing.T) {
	cfg := echoConfig(t)
	cfg.CacheTTLSecs = 90

	p, cached, err := buildProvider(cfg)
	require.NoError(t, err)
	require.NotNil(t, cached)
	assert.Same(t, cached, p)
	assert.Equal(t, 90*time.Second, cached.TTL())

	cfg.CacheSize = 0
	p, cached, err = buildProvider(cfg)
	require.NoError(t, err)
	assert.Nil(t, cached)
	assert.Equal(t, "echo", p.GetName())
}

func TestBuildProvider_InvalidBackendConfig(t *testing.T) {
	unsetLLMEnv(t)
	cfg, err := config.Load(t.TempDir())
	require.NoError(t, err)

	_, _, err = buildProvider(cfg)
	assert.ErrorContains(t, err, "invalid openai configuration")
}

func TestRefactorCommandFlags(t *testing.T) {
	for _, name := range []string{"java_dir", "output_dir", "log_file", "log_level", "log_silent", "model_name", "llm_name", "prompt"} {
		assert.NotNil(t, refactorCmd.Flags().Lookup(name), name)
	}
	assert.Equal(t, "j", refactorCmd.Flags().Lookup("java_dir").Shorthand)
	assert.Equal(t, "S", refactorCmd.Flags().Lookup("log_silent").Shorthand)
}

func TestProvidersCommand(t *testing.T) {
	var buf bytes.Buffer
	rootCmd.SetOut(&buf)
	rootCmd.SetArgs([]string{"providers"})
	t.Cleanup(func() {
		rootCmd.SetOut(nil)
		rootCmd.SetArgs(nil)
	})

	require.NoError(t, rootCmd.Execute())
	for _, want := range []string{"echo", "Gemini", "Ollama", "Openai"} {
		assert.Contains(t, buf.String(), want)
	}
}

func TestProvidersCommand_Check(t *testing.T) {
	unsetLLMEnv(t)
	ollamaSrv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusOK)
	}))
	defer ollamaSrv.Close()
	t.Setenv("OLLAMA_HOST", ollamaSrv.URL)

	var buf bytes.Buffer
	rootCmd.SetOut(&buf)
	rootCmd.SetArgs([]string{"providers", "--check"})
	t.Cleanup(func() {
		rootCmd.SetOut(nil)
		rootCmd.SetArgs(nil)
		providersCheck = false
	})

	require.NoError(t, rootCmd.Execute())

	rows := map[string]string{}
	for _, line := range strings.Split(strings.TrimSpace(buf.String()), "\n") {
		fields := strings.Fields(line)
		require.GreaterOrEqual(t, len(fields), 3, line)
		rows[fields[0]] = strings.Join(fields[2:], " ")
	}
	assert.Equal(t, "ok", rows["echo"])
	assert.Equal(t, "ok", rows["ollama"])
	assert.Contains(t, rows["openai"], "unconfigured")
	assert.Contains(t, rows["gemini"], "unconfigured")
}

func TestVersionCommand(t *testing.T) {
	var buf bytes.Buffer
	printVersionInfo(&buf)
	assert.Contains(t, buf.String(), "codebaseai version dev")
}
