// Package classifier resolves a free-text symptom description to the
// question node a triage session should start from.
//
// Resolution is best effort. A single language-model call is made, bounded
// by a timeout; every failure degrades to the root question and is reported
// through logs and lifecycle hooks instead of being returned.
package classifier

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"strings"
	"time"

	"github.com/aretw0/triage/internal/llm"
	"github.com/aretw0/triage/internal/logging"
	"github.com/aretw0/triage/pkg/domain"
)

// DefaultTimeout bounds a single classification call.
const DefaultTimeout = 5 * time.Second

// maxResponseTokens leaves room for the longest label and nothing more.
const maxResponseTokens = 16

// EntryTable is the part of a decision tree the classifier needs.
type EntryTable interface {
	Root() string
	EntryPoints() []domain.EntryPoint
}

// Classifier maps symptoms to entry nodes through an llm.Provider.
// It is immutable after New and safe for concurrent use.
type Classifier struct {
	provider llm.Provider
	labels   []string
	entries  map[string]string
	root     string
	timeout  time.Duration
	logger   *slog.Logger
	hooks    domain.LifecycleHooks
}

// Option configures a Classifier.
type Option func(*Classifier)

// WithTimeout overrides DefaultTimeout. Non-positive values are ignored.
func WithTimeout(d time.Duration) Option {
	return func(c *Classifier) {
		if d > 0 {
			c.timeout = d
		}
	}
}

// WithLogger sets the structured logger.
func WithLogger(logger *slog.Logger) Option {
	return func(c *Classifier) {
		if logger != nil {
			c.logger = logger
		}
	}
}

// WithLifecycleHooks registers callbacks fired after each classification.
func WithLifecycleHooks(hooks domain.LifecycleHooks) Option {
	return func(c *Classifier) {
		c.hooks = hooks
	}
}

// New builds a Classifier whose prompt labels and label mapping both come
// from the entry table of t.
func New(provider llm.Provider, t EntryTable, opts ...Option) *Classifier {
	c := &Classifier{
		provider: provider,
		entries:  make(map[string]string),
		root:     t.Root(),
		timeout:  DefaultTimeout,
		logger:   logging.NewNop(),
	}
	for _, e := range t.EntryPoints() {
		c.labels = append(c.labels, e.Label)
		c.entries[e.Label] = e.NodeID
	}
	for _, opt := range opts {
		opt(c)
	}
	return c
}

// Prompt renders the instruction sent to the model for the given symptoms.
func (c *Classifier) Prompt(symptoms string) string {
	quoted := make([]string, len(c.labels))
	for i, l := range c.labels {
		quoted[i] = "'" + l + "'"
	}
	return fmt.Sprintf(
		"Analyze the following medical symptoms and determine the most likely immediate emergency "+
			"from this list: [%s]. Respond with only the name of the emergency. If none apply, respond '%s'."+
			"\n\nSymptoms: %s",
		strings.Join(quoted, ", "), domain.NoMatchLabel, symptoms)
}

// Labels returns the labels offered to the model, in table order.
func (c *Classifier) Labels() []string {
	out := make([]string, len(c.labels))
	copy(out, c.labels)
	return out
}

// Timeout reports the per-call bound.
func (c *Classifier) Timeout() time.Duration {
	return c.timeout
}

// ClassifyEntryPoint returns the entry node for symptoms, or the root id
// when the model names no known label or the call fails.
func (c *Classifier) ClassifyEntryPoint(ctx context.Context, symptoms string) string {
	start := time.Now()
	event := &domain.ClassificationEvent{
		EventBase: domain.NewEventBase(domain.EventClassification),
		Provider:  c.provider.Name(),
		NodeID:    c.root,
	}
	defer func() {
		event.Duration = time.Since(start)
		c.hooks.FireClassification(ctx, event)
	}()

	callCtx, cancel := context.WithTimeout(ctx, c.timeout)
	defer cancel()

	resp, err := c.provider.Generate(callCtx, llm.Request{
		Prompt:    c.Prompt(symptoms),
		MaxTokens: maxResponseTokens,
	})
	if err == nil && resp == nil {
		err = &llm.ErrInvalidResponse{Err: errors.New("empty response")}
	}
	if err != nil {
		event.Outcome = domain.OutcomeError
		event.Err = err
		c.logger.WarnContext(ctx, "symptom classification failed, starting from root",
			"provider", c.provider.Name(),
			"timeout", c.timeout,
			"err", err,
		)
		return c.root
	}

	label := strings.TrimSpace(resp.Text)
	event.Label = label
	if nodeID, ok := c.entries[label]; ok {
		event.Outcome = domain.OutcomeMatched
		event.NodeID = nodeID
		c.logger.DebugContext(ctx, "symptoms classified", "label", label, "node", nodeID)
		return nodeID
	}

	event.Outcome = domain.OutcomeNoMatch
	c.logger.DebugContext(ctx, "no entry point matched", "label", label)
	return c.root
}
