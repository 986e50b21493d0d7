package cli

import (
	"context"
	"path/filepath"
	"testing"
	"time"

	"github.com/aretw0/triage/internal/config"
	"github.com/aretw0/triage/internal/llm"
	"github.com/aretw0/triage/internal/testutils"
	"github.com/aretw0/triage/pkg/domain"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func testConfig() config.Config {
	return config.Config{
		LLM:             llm.DefaultConfig(),
		ClassifyTimeout: time.Second,
		LogFormat:       "text",
	}
}

func TestBuildAssistant(t *testing.T) {
	ctx := context.Background()

	t.Run("Offline starts at root", func(t *testing.T) {
		a, err := BuildAssistant(ctx, BuildOptions{Offline: true, Config: testConfig()})
		require.NoError(t, err)

		step, err := a.StartFromSymptoms(ctx, "face drooping")
		require.NoError(t, err)
		assert.Equal(t, domain.RootID, step.NodeID)
	})

	t.Run("Provider override drives classification", func(t *testing.T) {
		provider := llm.NewMockProvider(llm.MockResponse{Text: "Stroke"})
		a, err := BuildAssistant(ctx, BuildOptions{Config: testConfig(), Provider: provider})
		require.NoError(t, err)

		step, err := a.StartFromSymptoms(ctx, "face drooping")
		require.NoError(t, err)
		assert.Equal(t, "q4_a", step.NodeID)
		assert.Equal(t, 1, provider.CallCount())
	})

	t.Run("Missing credential is fatal", func(t *testing.T) {
		_, err := BuildAssistant(ctx, BuildOptions{Config: testConfig()})
		assert.ErrorIs(t, err, domain.ErrConfiguration)
	})

	t.Run("Invalid shared config is fatal even offline", func(t *testing.T) {
		cfg := testConfig()
		cfg.ClassifyTimeout = 0
		_, err := BuildAssistant(ctx, BuildOptions{Offline: true, Config: cfg})
		assert.ErrorIs(t, err, domain.ErrConfiguration)
	})

	t.Run("Custom tree file", func(t *testing.T) {
		path := testutils.WriteTree(t, testutils.UrgencyTree)

		a, err := BuildAssistant(ctx, BuildOptions{Offline: true, Config: testConfig(), TreePath: path})
		require.NoError(t, err)

		step, err := a.Advance(ctx, "start", "yes")
		require.NoError(t, err)
		assert.Equal(t, "Call now.", step.Text)
	})

	t.Run("Missing tree file", func(t *testing.T) {
		_, err := BuildAssistant(ctx, BuildOptions{Offline: true, Config: testConfig(), TreePath: filepath.Join(t.TempDir(), "nope.yaml")})
		assert.Error(t, err)
	})
}
