package domain

import (
	"context"
	"time"

	"github.com/google/uuid"
)

// EventType defines the category of the event.
type EventType string

const (
	EventStep           EventType = "step"
	EventDiagnosis      EventType = "diagnosis"
	EventClassification EventType = "classification"
)

// ClassificationOutcome summarizes how an entry point was resolved.
type ClassificationOutcome string

const (
	OutcomeMatched ClassificationOutcome = "matched"
	OutcomeNoMatch ClassificationOutcome = "no_match"
	OutcomeError   ClassificationOutcome = "error"
)

// EventBase contains common fields for all events.
type EventBase struct {
	ID        string    `json:"id"`
	Timestamp time.Time `json:"timestamp"`
	Type      EventType `json:"type"`
}

// NewEventBase stamps a fresh event.
func NewEventBase(t EventType) EventBase {
	return EventBase{
		ID:        uuid.NewString(),
		Timestamp: time.Now().UTC(),
		Type:      t,
	}
}

// StepEvent represents one answered question.
type StepEvent struct {
	EventBase
	FromNodeID string `json:"from_node_id"`
	Answer     Answer `json:"answer,omitempty"`
	To         Step   `json:"to"`
}

// ClassificationEvent represents one entry point resolution.
// Symptom text is deliberately absent.
type ClassificationEvent struct {
	EventBase
	Provider string                `json:"provider"`
	Label    string                `json:"label,omitempty"`
	NodeID   string                `json:"node_id"`
	Outcome  ClassificationOutcome `json:"outcome"`
	Duration time.Duration         `json:"duration"`
	Err      error                 `json:"-"`
}

// LifecycleHooks defines callbacks for engine observability.
// Nil callbacks are skipped.
type LifecycleHooks struct {
	OnStep           func(context.Context, *StepEvent)
	OnDiagnosis      func(context.Context, *StepEvent)
	OnClassification func(context.Context, *ClassificationEvent)
}

// FireStep notifies OnStep, and OnDiagnosis when the step is terminal.
func (h LifecycleHooks) FireStep(ctx context.Context, e *StepEvent) {
	if h.OnStep != nil {
		h.OnStep(ctx, e)
	}
	if e.To.Terminal() && h.OnDiagnosis != nil {
		h.OnDiagnosis(ctx, e)
	}
}

// FireClassification notifies OnClassification.
func (h LifecycleHooks) FireClassification(ctx context.Context, e *ClassificationEvent) {
	if h.OnClassification != nil {
		h.OnClassification(ctx, e)
	}
}

// ChainHooks fans every callback out to all the given hooks, in order.
func ChainHooks(hooks ...LifecycleHooks) LifecycleHooks {
	return LifecycleHooks{
		OnStep: func(ctx context.Context, e *StepEvent) {
			for _, h := range hooks {
				if h.OnStep != nil {
					h.OnStep(ctx, e)
				}
			}
		},
		OnDiagnosis: func(ctx context.Context, e *StepEvent) {
			for _, h := range hooks {
				if h.OnDiagnosis != nil {
					h.OnDiagnosis(ctx, e)
				}
			}
		},
		OnClassification: func(ctx context.Context, e *ClassificationEvent) {
			for _, h := range hooks {
				if h.OnClassification != nil {
					h.OnClassification(ctx, e)
				}
			}
		},
	}
}
