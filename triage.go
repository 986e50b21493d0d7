package triage

import (
	"context"
	"fmt"
	"log/slog"
	"strings"

	"github.com/aretw0/triage/internal/logging"
	"github.com/aretw0/triage/internal/sanitize"
	"github.com/aretw0/triage/pkg/catalog"
	"github.com/aretw0/triage/pkg/domain"
	"github.com/aretw0/triage/pkg/tree"
)

// EntryClassifier resolves a symptom description to a question node id.
// Implementations never fail; they fall back to the tree root instead.
type EntryClassifier interface {
	ClassifyEntryPoint(ctx context.Context, symptoms string) string
}

// Assistant is the high-level entry point of the triage library.
// It owns no per-session state: callers carry the current node id between
// calls. An Assistant is safe for concurrent use.
type Assistant struct {
	tree         *tree.Tree
	classifier   EntryClassifier
	hooks        domain.LifecycleHooks
	logger       *slog.Logger
	maxInputSize int
}

// Option defines a functional option for configuring the Assistant.
type Option func(*Assistant)

// WithTree replaces the built-in first-aid tree.
func WithTree(t *tree.Tree) Option {
	return func(a *Assistant) {
		a.tree = t
	}
}

// WithClassifier enables symptom-based entry resolution.
// Without it every session starts at the root question.
func WithClassifier(c EntryClassifier) Option {
	return func(a *Assistant) {
		a.classifier = c
	}
}

// WithLifecycleHooks registers observability hooks.
func WithLifecycleHooks(hooks domain.LifecycleHooks) Option {
	return func(a *Assistant) {
		a.hooks = hooks
	}
}

// WithLogger sets a custom structured logger for the assistant.
func WithLogger(logger *slog.Logger) Option {
	return func(a *Assistant) {
		a.logger = logger
	}
}

// WithMaxInputSize bounds the symptom description in bytes.
func WithMaxInputSize(n int) Option {
	return func(a *Assistant) {
		a.maxInputSize = n
	}
}

// New initializes an Assistant. By default it serves the embedded first-aid tree.
func New(opts ...Option) (*Assistant, error) {
	a := &Assistant{}
	for _, opt := range opts {
		opt(a)
	}

	if a.tree == nil {
		t, err := catalog.FirstAid()
		if err != nil {
			return nil, fmt.Errorf("failed to load built-in tree: %w", err)
		}
		a.tree = t
	}
	if a.logger == nil {
		a.logger = logging.NewNop()
	}
	if a.maxInputSize <= 0 {
		a.maxInputSize = sanitize.MaxInputSize()
	}
	return a, nil
}

// Tree exposes the decision tree for introspection (graph export, listings).
func (a *Assistant) Tree() *tree.Tree {
	return a.tree
}

// StartFromSymptoms picks the first question of a session from a free-text
// description. Classification problems never surface here; only input that
// is empty or rejected by sanitization does.
func (a *Assistant) StartFromSymptoms(ctx context.Context, symptoms string) (domain.Step, error) {
	clean, err := sanitize.InputWithLimit(symptoms, a.maxInputSize)
	if err != nil {
		return domain.Step{}, err
	}
	if strings.TrimSpace(clean) == "" {
		return domain.Step{}, domain.ErrEmptySymptoms
	}

	nodeID := a.tree.Root()
	if a.classifier != nil {
		nodeID = a.classifier.ClassifyEntryPoint(ctx, clean)
	}

	q, err := a.tree.Question(nodeID)
	if err != nil {
		// A classifier built over a different table; degrade like any other miss.
		a.logger.WarnContext(ctx, "classifier returned a non-question node", "node", nodeID, "err", err)
		return a.rootStep(), nil
	}
	return domain.Step{Kind: domain.KindQuestion, NodeID: q.ID, Text: q.Text}, nil
}

// Advance applies a yes/no answer to the current question.
// The "initial" sentinel, given either as answer or as current node id,
// restarts at the root question.
func (a *Assistant) Advance(ctx context.Context, currentNodeID, answer string) (domain.Step, error) {
	if answer == domain.InitialSentinel || currentNodeID == domain.InitialSentinel {
		return a.rootStep(), nil
	}

	ans, err := domain.ParseAnswer(answer)
	if err != nil {
		return domain.Step{}, err
	}

	step, err := a.tree.Transition(currentNodeID, ans)
	if err != nil {
		return domain.Step{}, err
	}

	a.logger.DebugContext(ctx, "advanced", "from", currentNodeID, "answer", ans, "to", step.NodeID, "kind", step.Kind)
	a.hooks.FireStep(ctx, &domain.StepEvent{
		EventBase:  domain.NewEventBase(domain.EventStep),
		FromNodeID: currentNodeID,
		Answer:     ans,
		To:         step,
	})
	return step, nil
}

func (a *Assistant) rootStep() domain.Step {
	step, _ := a.tree.Step(a.tree.Root())
	return step
}
