package ports

import (
	"context"

	"github.com/aretw0/triage/pkg/domain"
)

// OutcomeRecorder keeps aggregate counters of classification outcomes,
// resolved entry points and reached diagnoses. It never stores symptoms.
type OutcomeRecorder interface {
	// RecordClassification counts one outcome and, when matched, its entry node.
	RecordClassification(ctx context.Context, outcome domain.ClassificationOutcome, nodeID string) error
	// RecordDiagnosis counts one reached diagnosis.
	RecordDiagnosis(ctx context.Context, diagnosisID string) error
	// Stats returns a snapshot of every counter.
	Stats(ctx context.Context) (domain.OutcomeStats, error)
}
