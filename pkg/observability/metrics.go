package observability

import (
	"context"

	"github.com/aretw0/triage/pkg/domain"
	"github.com/prometheus/client_golang/prometheus"
)

const namespace = "triage"

// Metrics holds the Prometheus collectors fed by lifecycle hooks.
type Metrics struct {
	Classifications  *prometheus.CounterVec
	ClassifyDuration *prometheus.HistogramVec
	Steps            *prometheus.CounterVec
	Diagnoses        *prometheus.CounterVec
}

// NewMetrics creates the collectors and registers them with reg.
// It panics if registration fails, like prometheus.MustRegister.
func NewMetrics(reg prometheus.Registerer) *Metrics {
	m := &Metrics{
		Classifications: prometheus.NewCounterVec(
			prometheus.CounterOpts{
				Namespace: namespace,
				Name:      "classifications_total",
				Help:      "Symptom classifications by provider and outcome.",
			},
			[]string{"provider", "outcome"},
		),
		ClassifyDuration: prometheus.NewHistogramVec(
			prometheus.HistogramOpts{
				Namespace: namespace,
				Name:      "classification_duration_seconds",
				Help:      "Latency of symptom classification calls.",
				Buckets:   []float64{0.1, 0.25, 0.5, 1, 2, 3, 5, 10},
			},
			[]string{"provider"},
		),
		Steps: prometheus.NewCounterVec(
			prometheus.CounterOpts{
				Namespace: namespace,
				Name:      "steps_total",
				Help:      "Answered questions by source node and answer.",
			},
			[]string{"node_id", "answer"},
		),
		Diagnoses: prometheus.NewCounterVec(
			prometheus.CounterOpts{
				Namespace: namespace,
				Name:      "diagnoses_total",
				Help:      "Diagnoses reached.",
			},
			[]string{"diagnosis_id"},
		),
	}
	reg.MustRegister(m.Classifications, m.ClassifyDuration, m.Steps, m.Diagnoses)
	return m
}

// Hooks returns lifecycle hooks that record into m.
func (m *Metrics) Hooks() domain.LifecycleHooks {
	return domain.LifecycleHooks{
		OnStep: func(_ context.Context, e *domain.StepEvent) {
			m.Steps.WithLabelValues(e.FromNodeID, string(e.Answer)).Inc()
		},
		OnDiagnosis: func(_ context.Context, e *domain.StepEvent) {
			m.Diagnoses.WithLabelValues(e.To.NodeID).Inc()
		},
		OnClassification: func(_ context.Context, e *domain.ClassificationEvent) {
			m.Classifications.WithLabelValues(e.Provider, string(e.Outcome)).Inc()
			m.ClassifyDuration.WithLabelValues(e.Provider).Observe(e.Duration.Seconds())
		},
	}
}
