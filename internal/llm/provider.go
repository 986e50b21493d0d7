// Package llm adapts hosted language models to the single text-classification
// call the triage classifier needs.
package llm

import "context"

// Provider is the core abstraction for LLM interaction.
type Provider interface {
	// Generate sends a single-turn prompt and returns the model's raw text.
	// Implementations treat any response without usable text as ErrInvalidResponse.
	Generate(ctx context.Context, req Request) (*Response, error)

	// Name identifies the backend ("gemini", "openai", ...).
	Name() string

	// ModelID returns the model identifier this provider is configured to use.
	ModelID() string
}

// Request describes what to send to the LLM.
type Request struct {
	// System is the system prompt. Sets the LLM's role and constraints.
	System string

	// Prompt is the single user message.
	Prompt string

	// MaxTokens is the maximum number of tokens in the response.
	MaxTokens int

	// Temperature controls randomness. Zero means deterministic.
	Temperature float64
}

// Response holds the LLM's output.
type Response struct {
	Text  string
	Model string
	Usage Usage
}

// Usage tracks token consumption for a single request.
type Usage struct {
	InputTokens  int
	OutputTokens int
}

// resolveModel maps a friendly model name to a provider model ID.
func resolveModel(name string, models map[string]string) string {
	if id, ok := models[name]; ok {
		return id
	}
	// If not in the map, use as-is (allows direct model IDs).
	return name
}
