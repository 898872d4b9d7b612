package config

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// isolate points HOME and the env file at an empty temp dir and clears the
// variables Load reads.
func isolate(t *testing.T) (string, Options) {
	t.Helper()
	dir := t.TempDir()
	t.Setenv("HOME", dir)
	for _, key := range []string{
		"PORT", "FRONTEND_URL", "REACT_APP_API_URL",
		"OPENAI_API_KEY", "ANTHROPIC_API_KEY", "GEMINI_API_KEY", "GOOGLE_API_KEY",
		"PROMPT_BUILDER_LLM_PROVIDER", "PROMPT_BUILDER_LLM_API_KEY", "PROMPT_BUILDER_LLM_MODEL",
		"PROMPT_BUILDER_SERVER_PORT", "PROMPT_BUILDER_LOG_MODE",
	} {
		t.Setenv(key, "")
		os.Unsetenv(key)
	}
	return dir, Options{EnvFile: filepath.Join(dir, "missing.env")}
}

func TestLoadDefaults(t *testing.T) {
	_, opts := isolate(t)

	cfg, err := Load(opts)
	require.NoError(t, err)

	assert.Equal(t, 8080, cfg.Server.Port)
	assert.Equal(t, []string{"http://localhost:3000", "http://127.0.0.1:3000"}, cfg.Server.AllowedOrigins)
	assert.Equal(t, []string{`(?i)\.vercel\.app$`}, cfg.Server.AllowedOriginPatterns)
	assert.Equal(t, 30, cfg.Server.RateLimit.Requests)
	assert.Equal(t, time.Minute, cfg.Server.RateLimit.Window)

	assert.Equal(t, ProviderOpenAI, cfg.LLM.Provider)
	assert.Equal(t, DefaultOpenAIModel, cfg.LLM.Model)
	assert.Empty(t, cfg.LLM.APIKey)
	assert.InDelta(t, 0.2, cfg.LLM.Temperature, 0.0001)
	assert.Equal(t, 30*time.Second, cfg.LLM.Timeout)

	assert.Equal(t, "http://localhost:8080/api", cfg.Client.APIURL)
	assert.Equal(t, 3*time.Second, cfg.Client.FallbackDelay)
	assert.Equal(t, "dev", cfg.Log.Mode)
}

func TestLoadLegacyEnv(t *testing.T) {
	_, opts := isolate(t)
	t.Setenv("PORT", "3001")
	t.Setenv("FRONTEND_URL", "https://prompts.example.com/")
	t.Setenv("OPENAI_API_KEY", "sk-test")
	t.Setenv("REACT_APP_API_URL", "http://localhost:3001/api/")

	cfg, err := Load(opts)
	require.NoError(t, err)

	assert.Equal(t, 3001, cfg.Server.Port)
	assert.Equal(t, "https://prompts.example.com", cfg.Server.FrontendURL)
	assert.Contains(t, cfg.Server.AllowedOrigins, "https://prompts.example.com")
	assert.Equal(t, "sk-test", cfg.LLM.APIKey)
	assert.Equal(t, "http://localhost:3001/api", cfg.Client.APIURL)
}

func TestLoadProviderCredential(t *testing.T) {
	_, opts := isolate(t)
	t.Setenv("PROMPT_BUILDER_LLM_PROVIDER", "Anthropic")
	t.Setenv("ANTHROPIC_API_KEY", "ak-test")
	t.Setenv("OPENAI_API_KEY", "sk-ignored")

	cfg, err := Load(opts)
	require.NoError(t, err)

	assert.Equal(t, ProviderAnthropic, cfg.LLM.Provider)
	assert.Equal(t, "ak-test", cfg.LLM.APIKey)
	assert.Equal(t, DefaultAnthropicModel, cfg.LLM.Model)
}

func TestLoadConfigFile(t *testing.T) {
	dir, opts := isolate(t)
	path := filepath.Join(dir, "prompt-builder.yaml")
	content := `
server:
  port: 9090
  rate_limit:
    requests: 5
    window: 10s
llm:
  provider: ollama
  base_url: http://localhost:11434
client:
  fallback_delay: 500ms
`
	require.NoError(t, os.WriteFile(path, []byte(content), 0644))
	opts.ConfigFile = path

	cfg, err := Load(opts)
	require.NoError(t, err)

	assert.Equal(t, 9090, cfg.Server.Port)
	assert.Equal(t, 5, cfg.Server.RateLimit.Requests)
	assert.Equal(t, 10*time.Second, cfg.Server.RateLimit.Window)
	assert.Equal(t, ProviderOllama, cfg.LLM.Provider)
	assert.Equal(t, DefaultOllamaModel, cfg.LLM.Model)
	assert.Equal(t, 500*time.Millisecond, cfg.Client.FallbackDelay)
}

func TestLoadEnvFile(t *testing.T) {
	dir, opts := isolate(t)
	opts.EnvFile = filepath.Join(dir, ".env")
	require.NoError(t, os.WriteFile(opts.EnvFile, []byte("PROMPT_BUILDER_LOG_MODE=prod\n"), 0644))
	t.Cleanup(func() { os.Unsetenv("PROMPT_BUILDER_LOG_MODE") })

	cfg, err := Load(opts)
	require.NoError(t, err)
	assert.Equal(t, "prod", cfg.Log.Mode)
}

func TestLoadRejectsInvalidProvider(t *testing.T) {
	_, opts := isolate(t)
	t.Setenv("PROMPT_BUILDER_LLM_PROVIDER", "mystery")

	_, err := Load(opts)
	require.Error(t, err)
	assert.Contains(t, err.Error(), "Provider")
	assert.Contains(t, err.Error(), "oneof")
}

func TestValidateReportsEveryField(t *testing.T) {
	cfg := Config{}
	err := cfg.Validate()
	require.Error(t, err)
	assert.Contains(t, err.Error(), "Config.Server.Port")
	assert.Contains(t, err.Error(), "Config.Client.APIURL")
}
