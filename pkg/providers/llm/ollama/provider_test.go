package ollama

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/alantheprice/codebaseai/pkg/interfaces/types"
)

func TestProvider_Submit(t *testing.T) {
	var got map[string]interface{}
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "/api/chat", r.URL.Path)
		require.NoError(t, json.NewDecoder(r.Body).Decode(&got))
		w.Header().Set("Content-Type", "application/json")
		_, _ = w.Write([]byte(`{"model":"mistral","message":{"role":"assistant","content":"int add() {}"},"done":true}` + "\n"))
	}))
	defer srv.Close()

	p, err := (&Factory{}).Create(&types.ProviderConfig{Model: "mistral", BaseURL: srv.URL})
	require.NoError(t, err)

	out, err := p.Submit(context.Background(), "Refactor `{input}`", "int add() { }", "ollama:mistral")
	require.NoError(t, err)

	assert.Equal(t, "int add() {}", out)
	assert.Equal(t, "mistral", got["model"])
	assert.Equal(t, false, got["stream"])
	msgs, ok := got["messages"].([]interface{})
	require.True(t, ok)
	require.Len(t, msgs, 1)
	assert.Equal(t, "Refactor `int add() { }`", msgs[0].(map[string]interface{})["content"])
	assert.NotContains(t, got, "options", "unset temperature must not override the model default")
}

func TestProvider_SubmitSendsConfiguredOptions(t *testing.T) {
	var got map[string]interface{}
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		require.NoError(t, json.NewDecoder(r.Body).Decode(&got))
		w.Header().Set("Content-Type", "application/json")
		_, _ = w.Write([]byte(`{"model":"mistral","message":{"role":"assistant","content":"ok"},"done":true}` + "\n"))
	}))
	defer srv.Close()

	p, err := (&Factory{}).Create(&types.ProviderConfig{Model: "mistral", BaseURL: srv.URL, Temperature: 0.3, MaxTokens: 256})
	require.NoError(t, err)

	_, err = p.Submit(context.Background(), "{input}", "x", "")
	require.NoError(t, err)

	opts, ok := got["options"].(map[string]interface{})
	require.True(t, ok, "options missing from %v", got)
	assert.InDelta(t, 0.3, opts["temperature"], 1e-9)
	assert.Equal(t, float64(256), opts["num_predict"])
}

func TestProvider_SubmitServerError(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusNotFound)
		_, _ = w.Write([]byte(`{"error":"model not found"}`))
	}))
	defer srv.Close()

	p, err := (&Factory{}).Create(&types.ProviderConfig{Model: "missing", BaseURL: srv.URL})
	require.NoError(t, err)

	_, err = p.Submit(context.Background(), "{input}", "x", "")
	require.Error(t, err)
	assert.Contains(t, err.Error(), "ollama chat failed")
}

func TestFactory_ValidateDefaults(t *testing.T) {
	cfg := &types.ProviderConfig{Model: "mistral"}
	require.NoError(t, (&Factory{}).Validate(cfg))
	assert.Equal(t, "http://localhost:11434", cfg.BaseURL)
	assert.Equal(t, 120, cfg.Timeout)

	assert.Error(t, (&Factory{}).Validate(&types.ProviderConfig{}))
}
