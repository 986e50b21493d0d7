// Package redis keeps aggregate triage outcome counters in Redis.
//
// Only counts are stored: classification outcomes, resolved entry points
// and reached diagnoses. No session state and no symptom text is written.
package redis

import (
	"context"
	"fmt"
	"log/slog"
	"strconv"
	"time"

	"github.com/aretw0/triage/internal/logging"
	"github.com/aretw0/triage/pkg/domain"
	"github.com/aretw0/triage/pkg/ports"
	backend "github.com/redis/go-redis/v9"
)

const (
	keyClassifications = "classifications"
	keyEntryPoints     = "entry_points"
	keyDiagnoses       = "diagnoses"
)

// Recorder writes outcome counters into Redis hashes.
type Recorder struct {
	client  *backend.Client
	prefix  string
	timeout time.Duration
	logger  *slog.Logger
}

var _ ports.OutcomeRecorder = (*Recorder)(nil)

// Option configures a Recorder.
type Option func(*Recorder)

// WithPrefix sets the key namespace (default "triage:").
func WithPrefix(prefix string) Option {
	return func(r *Recorder) {
		r.prefix = prefix
	}
}

// WithTimeout bounds each write issued from a hook (default 500ms).
func WithTimeout(d time.Duration) Option {
	return func(r *Recorder) {
		r.timeout = d
	}
}

// WithLogger sets the logger used to report failed hook writes.
func WithLogger(logger *slog.Logger) Option {
	return func(r *Recorder) {
		r.logger = logger
	}
}

// New creates a Recorder with a new Redis client.
func New(addr, password string, db int, opts ...Option) *Recorder {
	client := backend.NewClient(&backend.Options{
		Addr:     addr,
		Password: password,
		DB:       db,
	})
	return NewFromClient(client, opts...)
}

// NewFromClient creates a Recorder from an existing Redis client.
func NewFromClient(client *backend.Client, opts ...Option) *Recorder {
	r := &Recorder{
		client:  client,
		prefix:  "triage:",
		timeout: 500 * time.Millisecond,
		logger:  logging.NewNop(),
	}
	for _, opt := range opts {
		opt(r)
	}
	return r
}

// Ping checks connectivity.
func (r *Recorder) Ping(ctx context.Context) error {
	return r.client.Ping(ctx).Err()
}

// Close releases the underlying client.
func (r *Recorder) Close() error {
	return r.client.Close()
}

// RecordClassification counts one outcome and, when matched, the entry node.
func (r *Recorder) RecordClassification(ctx context.Context, outcome domain.ClassificationOutcome, nodeID string) error {
	_, err := r.client.TxPipelined(ctx, func(pipe backend.Pipeliner) error {
		pipe.HIncrBy(ctx, r.prefix+keyClassifications, string(outcome), 1)
		if outcome == domain.OutcomeMatched {
			pipe.HIncrBy(ctx, r.prefix+keyEntryPoints, nodeID, 1)
		}
		return nil
	})
	if err != nil {
		return fmt.Errorf("redis: record classification: %w", err)
	}
	return nil
}

// RecordDiagnosis counts one reached diagnosis.
func (r *Recorder) RecordDiagnosis(ctx context.Context, diagnosisID string) error {
	if err := r.client.HIncrBy(ctx, r.prefix+keyDiagnoses, diagnosisID, 1).Err(); err != nil {
		return fmt.Errorf("redis: record diagnosis: %w", err)
	}
	return nil
}

// Hooks returns lifecycle hooks that record into Redis. Write failures are
// logged and never affect the triage flow.
func (r *Recorder) Hooks() domain.LifecycleHooks {
	return domain.LifecycleHooks{
		OnClassification: func(ctx context.Context, e *domain.ClassificationEvent) {
			ctx, cancel := r.writeContext(ctx)
			defer cancel()
			if err := r.RecordClassification(ctx, e.Outcome, e.NodeID); err != nil {
				r.logger.WarnContext(ctx, "failed to record classification", "err", err)
			}
		},
		OnDiagnosis: func(ctx context.Context, e *domain.StepEvent) {
			ctx, cancel := r.writeContext(ctx)
			defer cancel()
			if err := r.RecordDiagnosis(ctx, e.To.NodeID); err != nil {
				r.logger.WarnContext(ctx, "failed to record diagnosis", "err", err)
			}
		},
	}
}

// writeContext detaches from request cancellation but keeps a bound.
func (r *Recorder) writeContext(ctx context.Context) (context.Context, context.CancelFunc) {
	return context.WithTimeout(context.WithoutCancel(ctx), r.timeout)
}

// Stats reads all counters.
func (r *Recorder) Stats(ctx context.Context) (domain.OutcomeStats, error) {
	var stats domain.OutcomeStats
	for key, dst := range map[string]*map[string]int64{
		keyClassifications: &stats.Classifications,
		keyEntryPoints:     &stats.EntryPoints,
		keyDiagnoses:       &stats.Diagnoses,
	} {
		raw, err := r.client.HGetAll(ctx, r.prefix+key).Result()
		if err != nil {
			return domain.OutcomeStats{}, fmt.Errorf("redis: read %s: %w", key, err)
		}
		counts := make(map[string]int64, len(raw))
		for field, v := range raw {
			n, err := strconv.ParseInt(v, 10, 64)
			if err != nil {
				return domain.OutcomeStats{}, fmt.Errorf("redis: counter %s[%s] is not an integer: %w", key, field, err)
			}
			counts[field] = n
		}
		*dst = counts
	}
	return stats, nil
}
