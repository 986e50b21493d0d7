package cli

import (
	"context"
	"fmt"
	"log/slog"

	"github.com/aretw0/triage"
	"github.com/aretw0/triage/internal/config"
	"github.com/aretw0/triage/internal/llm"
	"github.com/aretw0/triage/internal/logging"
	"github.com/aretw0/triage/pkg/catalog"
	"github.com/aretw0/triage/pkg/classifier"
	"github.com/aretw0/triage/pkg/domain"
)

// BuildOptions describes how a command wants its Assistant assembled.
type BuildOptions struct {
	// TreePath points at a custom tree document. Empty selects the built-in tree.
	TreePath string
	// Offline skips the classifier; every session starts at the root question.
	Offline bool
	Config  config.Config
	Logger  *slog.Logger
	Hooks   domain.LifecycleHooks
	// Provider overrides the provider built from Config.LLM.
	Provider llm.Provider
}

// BuildAssistant initializes an Assistant with standard CLI conventions.
// A missing provider credential is a configuration error unless Offline is set.
func BuildAssistant(ctx context.Context, opts BuildOptions) (*triage.Assistant, error) {
	logger := opts.Logger
	if logger == nil {
		logger = logging.NewNop()
	}

	if err := validateFor(opts); err != nil {
		return nil, err
	}

	t, err := catalog.LoadOrDefault(opts.TreePath)
	if err != nil {
		return nil, fmt.Errorf("error loading tree: %w", err)
	}

	assistantOpts := []triage.Option{
		triage.WithTree(t),
		triage.WithLogger(logger),
		triage.WithLifecycleHooks(opts.Hooks),
		triage.WithMaxInputSize(opts.Config.MaxInputSize),
	}

	if !opts.Offline {
		provider := opts.Provider
		if provider == nil {
			provider, err = llm.NewProvider(ctx, opts.Config.LLM, logger)
			if err != nil {
				return nil, err
			}
		}
		clf := classifier.New(provider, t,
			classifier.WithTimeout(opts.Config.ClassifyTimeout),
			classifier.WithLogger(logger),
			classifier.WithLifecycleHooks(opts.Hooks),
		)
		assistantOpts = append(assistantOpts, triage.WithClassifier(clf))
		logger.Debug("classifier enabled", "provider", provider.Name(), "model", provider.ModelID(), "timeout", clf.Timeout())
	}

	a, err := triage.New(assistantOpts...)
	if err != nil {
		return nil, fmt.Errorf("error initializing assistant: %w", err)
	}
	return a, nil
}

func validateFor(opts BuildOptions) error {
	if opts.Offline || opts.Provider != nil {
		return opts.Config.Validate()
	}
	return opts.Config.ValidateClassifier()
}
