// Package memory keeps triage outcome counters in process memory.
// Counters are lost on restart; use the redis adapter to keep them.
package memory

import (
	"context"
	"maps"
	"sync"

	"github.com/aretw0/triage/pkg/domain"
	"github.com/aretw0/triage/pkg/ports"
)

// Recorder implements ports.OutcomeRecorder in memory.
// Safe for concurrent use.
type Recorder struct {
	mu              sync.RWMutex
	classifications map[string]int64
	entryPoints     map[string]int64
	diagnoses       map[string]int64
}

var _ ports.OutcomeRecorder = (*Recorder)(nil)

// NewRecorder creates an empty in-memory recorder.
func NewRecorder() *Recorder {
	return &Recorder{
		classifications: make(map[string]int64),
		entryPoints:     make(map[string]int64),
		diagnoses:       make(map[string]int64),
	}
}

// RecordClassification counts one outcome and, when matched, the entry node.
func (r *Recorder) RecordClassification(_ context.Context, outcome domain.ClassificationOutcome, nodeID string) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.classifications[string(outcome)]++
	if outcome == domain.OutcomeMatched {
		r.entryPoints[nodeID]++
	}
	return nil
}

// RecordDiagnosis counts one reached diagnosis.
func (r *Recorder) RecordDiagnosis(_ context.Context, diagnosisID string) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.diagnoses[diagnosisID]++
	return nil
}

// Stats returns a copy of every counter.
func (r *Recorder) Stats(_ context.Context) (domain.OutcomeStats, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	return domain.OutcomeStats{
		Classifications: maps.Clone(r.classifications),
		EntryPoints:     maps.Clone(r.entryPoints),
		Diagnoses:       maps.Clone(r.diagnoses),
	}, nil
}

// Hooks returns lifecycle hooks that feed the recorder.
func (r *Recorder) Hooks() domain.LifecycleHooks {
	return domain.LifecycleHooks{
		OnClassification: func(ctx context.Context, e *domain.ClassificationEvent) {
			_ = r.RecordClassification(ctx, e.Outcome, e.NodeID)
		},
		OnDiagnosis: func(ctx context.Context, e *domain.StepEvent) {
			_ = r.RecordDiagnosis(ctx, e.To.NodeID)
		},
	}
}
