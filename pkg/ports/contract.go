package ports

import (
	"context"
	"testing"

	"github.com/aretw0/triage/pkg/domain"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// RunOutcomeRecorderContract runs a suite of tests to verify that an
// OutcomeRecorder implementation adheres to the interface contract.
// rec must start empty.
func RunOutcomeRecorderContract(t *testing.T, rec OutcomeRecorder) {
	ctx := context.Background()

	t.Run("Empty", func(t *testing.T) {
		stats, err := rec.Stats(ctx)
		require.NoError(t, err)
		assert.Empty(t, stats.Classifications)
		assert.Empty(t, stats.EntryPoints)
		assert.Empty(t, stats.Diagnoses)
	})

	t.Run("Classifications", func(t *testing.T) {
		require.NoError(t, rec.RecordClassification(ctx, domain.OutcomeMatched, "q4_a"))
		require.NoError(t, rec.RecordClassification(ctx, domain.OutcomeMatched, "q4_a"))
		require.NoError(t, rec.RecordClassification(ctx, domain.OutcomeMatched, "q1_a"))
		require.NoError(t, rec.RecordClassification(ctx, domain.OutcomeNoMatch, domain.RootID))
		require.NoError(t, rec.RecordClassification(ctx, domain.OutcomeError, domain.RootID))

		stats, err := rec.Stats(ctx)
		require.NoError(t, err)
		assert.Equal(t, map[string]int64{"matched": 3, "no_match": 1, "error": 1}, stats.Classifications)
		// Fallbacks to the root are not entry point resolutions.
		assert.Equal(t, map[string]int64{"q4_a": 2, "q1_a": 1}, stats.EntryPoints)
	})

	t.Run("Diagnoses", func(t *testing.T) {
		require.NoError(t, rec.RecordDiagnosis(ctx, "diag_stroke"))
		require.NoError(t, rec.RecordDiagnosis(ctx, "diag_stroke"))
		require.NoError(t, rec.RecordDiagnosis(ctx, "diag_seizure"))

		stats, err := rec.Stats(ctx)
		require.NoError(t, err)
		assert.Equal(t, map[string]int64{"diag_stroke": 2, "diag_seizure": 1}, stats.Diagnoses)
	})

	t.Run("Snapshot isolation", func(t *testing.T) {
		stats, err := rec.Stats(ctx)
		require.NoError(t, err)
		stats.Diagnoses["diag_stroke"] = 100

		again, err := rec.Stats(ctx)
		require.NoError(t, err)
		assert.Equal(t, int64(2), again.Diagnoses["diag_stroke"])
	})
}
