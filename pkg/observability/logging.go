package observability

import (
	"context"
	"log/slog"

	"github.com/aretw0/triage/pkg/domain"
)

// LogHooks logs every lifecycle event at info level.
// Symptom text never reaches these events. The raw model label can echo it,
// so it is only logged at debug level.
func LogHooks(logger *slog.Logger) domain.LifecycleHooks {
	return domain.LifecycleHooks{
		OnStep: func(ctx context.Context, e *domain.StepEvent) {
			logger.InfoContext(ctx, "step",
				"event_id", e.ID,
				"from", e.FromNodeID,
				"answer", e.Answer,
				"to", e.To.NodeID,
				"kind", e.To.Kind,
			)
		},
		OnDiagnosis: func(ctx context.Context, e *domain.StepEvent) {
			logger.InfoContext(ctx, "diagnosis", "event_id", e.ID, "diagnosis_id", e.To.NodeID)
		},
		OnClassification: func(ctx context.Context, e *domain.ClassificationEvent) {
			attrs := []any{
				"event_id", e.ID,
				"provider", e.Provider,
				"outcome", e.Outcome,
				"node_id", e.NodeID,
				"duration_ms", e.Duration.Milliseconds(),
			}
			if e.Err != nil {
				attrs = append(attrs, "err", e.Err)
			}
			logger.InfoContext(ctx, "classification", attrs...)
			if e.Label != "" {
				logger.DebugContext(ctx, "classification label", "event_id", e.ID, "label", e.Label)
			}
		},
	}
}
