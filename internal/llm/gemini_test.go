package llm

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/aretw0/triage/pkg/domain"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"google.golang.org/genai"
)

func newTestGeminiProvider(t *testing.T, status int, body string) *GeminiProvider {
	t.Helper()
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "application/json")
		w.WriteHeader(status)
		_, _ = w.Write([]byte(body))
	}))
	t.Cleanup(server.Close)

	p, err := NewGeminiProvider(context.Background(), GeminiConfig{
		APIKey:  "test-key",
		Model:   "gemini-flash",
		BaseURL: server.URL,
	})
	require.NoError(t, err)
	return p
}

func TestGeminiModelMapping(t *testing.T) {
	tests := []struct {
		input    string
		expected string
	}{
		{"gemini-flash", "gemini-2.0-flash"},
		{"gemini-pro", "gemini-2.5-pro"},
		{"gemini-2.5-flash", "gemini-2.5-flash"}, // Pass-through
	}
	for _, tt := range tests {
		assert.Equal(t, tt.expected, resolveModel(tt.input, geminiModels))
	}
}

func TestGeminiProvider_HappyPath(t *testing.T) {
	p := newTestGeminiProvider(t, http.StatusOK, `{
		"candidates": [{"content": {"role": "model", "parts": [{"text": "Stroke\n"}]}, "finishReason": "STOP"}],
		"usageMetadata": {"promptTokenCount": 30, "candidatesTokenCount": 2, "totalTokenCount": 32}
	}`)

	resp, err := p.Generate(context.Background(), Request{System: "sys", Prompt: "face drooping"})
	require.NoError(t, err)
	assert.Equal(t, "Stroke\n", resp.Text)
	assert.Equal(t, 30, resp.Usage.InputTokens)
	assert.Equal(t, "gemini-2.0-flash", p.ModelID())
	assert.Equal(t, ProviderGemini, p.Name())
}

func TestGeminiProvider_NoCandidates(t *testing.T) {
	p := newTestGeminiProvider(t, http.StatusOK, `{"candidates": []}`)

	_, err := p.Generate(context.Background(), Request{Prompt: "x"})
	assert.IsType(t, &ErrInvalidResponse{}, err)
}

func TestGeminiProvider_ServerError(t *testing.T) {
	p := newTestGeminiProvider(t, http.StatusInternalServerError,
		`{"error": {"code": 500, "message": "internal", "status": "INTERNAL"}}`)

	_, err := p.Generate(context.Background(), Request{Prompt: "x"})
	assert.IsType(t, &ErrProviderUnavailable{}, err)
}

func TestGeminiProvider_RateLimit(t *testing.T) {
	p := newTestGeminiProvider(t, http.StatusTooManyRequests,
		`{"error": {"code": 429, "message": "slow down", "status": "RESOURCE_EXHAUSTED"}}`)

	_, err := p.Generate(context.Background(), Request{Prompt: "x"})
	assert.IsType(t, &ErrRateLimit{}, err)
	assert.ErrorIs(t, err, domain.ErrClassificationUnavailable)
}

func TestMapGeminiError(t *testing.T) {
	tests := []struct {
		name string
		err  error
		want any
	}{
		{"value 429", genai.APIError{Code: http.StatusTooManyRequests}, &ErrRateLimit{}},
		{"pointer 429", &genai.APIError{Code: http.StatusTooManyRequests}, &ErrRateLimit{}},
		{"wrapped value 429", fmt.Errorf("call: %w", genai.APIError{Code: http.StatusTooManyRequests}), &ErrRateLimit{}},
		{"value 503", genai.APIError{Code: http.StatusServiceUnavailable}, &ErrProviderUnavailable{}},
		{"plain error", errors.New("dial tcp: refused"), &ErrProviderUnavailable{}},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.IsType(t, tt.want, mapGeminiError(tt.err))
		})
	}
}
