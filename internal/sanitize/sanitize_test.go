package sanitize

import (
	"strings"
	"testing"

	"github.com/aretw0/triage/pkg/domain"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestInput_SizeLimit(t *testing.T) {
	limit := DefaultMaxInputSize

	tests := []struct {
		name      string
		inputSize int
		wantErr   bool
	}{
		{"Under Limit", limit - 1, false},
		{"Exact Limit", limit, false},
		{"Over Limit", limit + 1, true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := Input(strings.Repeat("a", tt.inputSize))
			if tt.wantErr {
				assert.ErrorIs(t, err, ErrInputTooLarge)
				assert.ErrorIs(t, err, domain.ErrInvalidInput)
			} else {
				assert.NoError(t, err)
			}
		})
	}
}

func TestInput_EnvOverride(t *testing.T) {
	t.Setenv(EnvMaxInputSize, "10")
	assert.Equal(t, 10, MaxInputSize())

	_, err := Input(strings.Repeat("a", 11))
	assert.ErrorIs(t, err, ErrInputTooLarge)

	t.Setenv(EnvMaxInputSize, "garbage")
	assert.Equal(t, DefaultMaxInputSize, MaxInputSize())
}

func TestInput_InvalidUTF8(t *testing.T) {
	_, err := Input("chest \xff pain")
	assert.ErrorIs(t, err, ErrInvalidUTF8)
}

func TestInput_StripsControlCharacters(t *testing.T) {
	tests := []struct {
		name  string
		input string
		want  string
	}{
		{"clean", "chest pain", "chest pain"},
		{"keeps whitespace controls", "line one\nline\ttwo\r", "line one\nline\ttwo\r"},
		{"ansi escape", "\x1b[31mred\x1b[0m", "[31mred[0m"},
		{"null and bell", "a\x00b\x07c", "abc"},
		{"unicode", "dor no peito ♥", "dor no peito ♥"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := Input(tt.input)
			require.NoError(t, err)
			assert.Equal(t, tt.want, got)
		})
	}
}

func TestInputWithLimit_NonPositiveUsesDefault(t *testing.T) {
	_, err := InputWithLimit(strings.Repeat("a", DefaultMaxInputSize), 0)
	assert.NoError(t, err)
}
