package llm

import (
	"context"
	"log/slog"
	"time"
)

// LoggingProvider is a decorator that logs every LLM request.
// Prompts are not logged; they may contain patient descriptions.
type LoggingProvider struct {
	inner  Provider
	logger *slog.Logger
}

// WithLogging wraps a Provider with request logging.
func WithLogging(p Provider, logger *slog.Logger) Provider {
	if logger == nil {
		return p
	}
	return &LoggingProvider{inner: p, logger: logger}
}

func (l *LoggingProvider) Generate(ctx context.Context, req Request) (*Response, error) {
	start := time.Now()
	resp, err := l.inner.Generate(ctx, req)

	attrs := []any{
		"provider", l.inner.Name(),
		"model", l.inner.ModelID(),
		"latency_ms", time.Since(start).Milliseconds(),
	}
	if err != nil {
		l.logger.WarnContext(ctx, "llm request failed", append(attrs, "err", err)...)
		return nil, err
	}
	l.logger.DebugContext(ctx, "llm request", append(attrs,
		"input_tokens", resp.Usage.InputTokens,
		"output_tokens", resp.Usage.OutputTokens,
	)...)
	return resp, nil
}

func (l *LoggingProvider) Name() string {
	return l.inner.Name()
}

func (l *LoggingProvider) ModelID() string {
	return l.inner.ModelID()
}
