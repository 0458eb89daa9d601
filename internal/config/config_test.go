package config

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func writeConfig(t *testing.T, content string) string {
	t.Helper()

	path := filepath.Join(t.TempDir(), "config.yaml")
	require.NoError(t, os.WriteFile(path, []byte(content), 0o644))
	return path
}

func TestLoad_Defaults(t *testing.T) {
	t.Setenv("JWT_SECRET", "s")

	cfg, err := Load(filepath.Join(t.TempDir(), "missing.yaml"))
	require.NoError(t, err)

	assert.Equal(t, ":8080", cfg.HTTPAddr)
	assert.Equal(t, StorageMemory, cfg.Storage)
	assert.Equal(t, 10*time.Second, cfg.CheckoutTimeout)
	assert.Equal(t, "INR", cfg.Currency.String())
	assert.Equal(t, LLMGoogleAI, cfg.LLMProvider)
	assert.Equal(t, "gemini-1.5-flash", cfg.LLMModel)
	assert.Equal(t, 512, cfg.LLMMaxTokens)
}

func TestLoad_FileThenEnv(t *testing.T) {
	path := writeConfig(t, `
http:
  addr: ":9000"
storage:
  kind: postgres
  postgres_url: postgres://file
redis:
  addr: localhost:6379
  ttl: 5m
auth:
  secret: from-file
checkout:
  timeout: 3s
  currency: USD
assistant:
  provider: openai
  model: gpt-4o
  max_tokens: 256
`)

	t.Setenv("DB_URL", "postgres://env")
	t.Setenv("LLM_MAX_TOKENS", "300")
	t.Setenv("CHECKOUT_TIMEOUT", "7s")

	cfg, err := Load(path)
	require.NoError(t, err)

	assert.Equal(t, ":9000", cfg.HTTPAddr)
	assert.Equal(t, StoragePostgres, cfg.Storage)
	assert.Equal(t, "postgres://env", cfg.DatabaseURL)
	assert.Equal(t, "localhost:6379", cfg.RedisAddr)
	assert.Equal(t, 5*time.Minute, cfg.CacheTTL)
	assert.Equal(t, "from-file", cfg.JWTSecret)
	assert.Equal(t, 7*time.Second, cfg.CheckoutTimeout)
	assert.Equal(t, "USD", cfg.Currency.String())
	assert.Equal(t, LLMOpenAI, cfg.LLMProvider)
	assert.Equal(t, "gpt-4o", cfg.LLMModel)
	assert.Equal(t, 300, cfg.LLMMaxTokens)
}

func TestLoad_Errors(t *testing.T) {
	tests := []struct {
		name      string
		content   string
		wantError string
	}{
		{
			name:      "no secret",
			content:   "storage:\n  kind: memory\n",
			wantError: "cfg.Validate: jwt secret is empty",
		},
		{
			name:      "postgres without url",
			content:   "auth:\n  secret: s\nstorage:\n  kind: postgres\n",
			wantError: "cfg.Validate: database url is empty",
		},
		{
			name:      "unknown storage",
			content:   "auth:\n  secret: s\nstorage:\n  kind: mongo\n",
			wantError: "cfg.Validate: unknown storage[mongo]",
		},
		{
			name:      "unknown provider",
			content:   "auth:\n  secret: s\nassistant:\n  provider: ollama\n",
			wantError: "cfg.Validate: unknown llm provider[ollama]",
		},
		{
			name:      "bad duration",
			content:   "checkout:\n  timeout: soon\n",
			wantError: `checkout.timeout: time: invalid duration "soon"`,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := Load(writeConfig(t, tt.content))
			require.EqualError(t, err, tt.wantError)
		})
	}
}

func TestLoad_NonPositiveMaxTokens(t *testing.T) {
	t.Setenv("LLM_MAX_TOKENS", "-5")

	_, err := Load(writeConfig(t, "auth:\n  secret: s\n"))
	require.EqualError(t, err, "cfg.Validate: llm max tokens is not positive")
}

func TestLoad_DefaultFile(t *testing.T) {
	cfg, err := Load(filepath.Join("..", "..", "configs", "default.yaml"))
	require.NoError(t, err)

	assert.Equal(t, StorageMemory, cfg.Storage)
	assert.Equal(t, "local-dev-secret", cfg.JWTSecret)
	assert.Equal(t, "configs/guide.txt", cfg.GuidePath)
}
