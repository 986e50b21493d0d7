package config

import (
	"testing"
	"time"

	"github.com/aretw0/triage/internal/llm"
	"github.com/aretw0/triage/pkg/classifier"
	"github.com/aretw0/triage/pkg/domain"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func clearEnv(t *testing.T) {
	t.Helper()
	for _, k := range []string{
		"TRIAGE_LLM_PROVIDER", "GEMINI_API_KEY", "OPENAI_API_KEY", "ANTHROPIC_API_KEY",
		"TRIAGE_CLASSIFY_TIMEOUT", "TRIAGE_LOG_LEVEL", "TRIAGE_LOG_FORMAT",
		"TRIAGE_REDIS_ADDR", "TRIAGE_REDIS_PASSWORD", "TRIAGE_REDIS_DB", "TRIAGE_MAX_INPUT_SIZE",
	} {
		t.Setenv(k, "")
	}
}

func TestFromEnv_Defaults(t *testing.T) {
	clearEnv(t)

	cfg := FromEnv()
	assert.Equal(t, llm.ProviderGemini, cfg.LLM.Provider)
	assert.Equal(t, classifier.DefaultTimeout, cfg.ClassifyTimeout)
	assert.Equal(t, "info", cfg.LogLevel)
	assert.Equal(t, "text", cfg.LogFormat)
	assert.False(t, cfg.Redis.Enabled())
	assert.NoError(t, cfg.Validate())
}

func TestFromEnv_Overrides(t *testing.T) {
	clearEnv(t)
	t.Setenv("TRIAGE_CLASSIFY_TIMEOUT", "750ms")
	t.Setenv("TRIAGE_LOG_FORMAT", "json")
	t.Setenv("TRIAGE_REDIS_ADDR", "localhost:6379")
	t.Setenv("TRIAGE_REDIS_DB", "2")
	t.Setenv("TRIAGE_MAX_INPUT_SIZE", "512")

	cfg := FromEnv()
	require.NoError(t, cfg.Validate())
	assert.Equal(t, 750*time.Millisecond, cfg.ClassifyTimeout)
	assert.Equal(t, "json", cfg.LogFormat)
	assert.True(t, cfg.Redis.Enabled())
	assert.Equal(t, 2, cfg.Redis.DB)
	assert.Equal(t, 512, cfg.MaxInputSize)
	assert.NotNil(t, cfg.Logger())
}

func TestValidate_Rejects(t *testing.T) {
	tests := map[string]string{
		"TRIAGE_CLASSIFY_TIMEOUT": "soon",
		"TRIAGE_LOG_FORMAT":       "xml",
		"TRIAGE_REDIS_DB":         "one",
	}
	for key, val := range tests {
		t.Run(key, func(t *testing.T) {
			clearEnv(t)
			t.Setenv(key, val)
			assert.ErrorIs(t, FromEnv().Validate(), domain.ErrConfiguration)
		})
	}
}

func TestValidateClassifier_RequiresCredential(t *testing.T) {
	clearEnv(t)
	err := FromEnv().ValidateClassifier()
	assert.ErrorIs(t, err, domain.ErrConfiguration)
	assert.Contains(t, err.Error(), "GEMINI_API_KEY")

	t.Setenv("GEMINI_API_KEY", "key")
	assert.NoError(t, FromEnv().ValidateClassifier())
}
