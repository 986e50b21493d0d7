// Package sanitize cleans free text received from users before it reaches
// logs, terminals or the classification prompt.
package sanitize

import (
	"fmt"
	"os"
	"strconv"
	"strings"
	"unicode"
	"unicode/utf8"

	"github.com/aretw0/triage/pkg/domain"
)

var (
	// DefaultMaxInputSize is 4KB (conservative default)
	DefaultMaxInputSize = 4096
	// EnvMaxInputSize is the environment variable to override the default
	EnvMaxInputSize = "TRIAGE_MAX_INPUT_SIZE"
)

var (
	ErrInputTooLarge = fmt.Errorf("%w: input exceeds maximum allowed size", domain.ErrInvalidInput)
	ErrInvalidUTF8   = fmt.Errorf("%w: input contains invalid UTF-8 sequences", domain.ErrInvalidInput)
)

// Input cleans user input with the limit from EnvMaxInputSize.
func Input(input string) (string, error) {
	return InputWithLimit(input, MaxInputSize())
}

// InputWithLimit enforces limit bytes, validates UTF-8 and strips control
// characters other than newline, tab and carriage return.
// Oversized input is rejected, never truncated.
func InputWithLimit(input string, limit int) (string, error) {
	if limit <= 0 {
		limit = DefaultMaxInputSize
	}
	if len(input) > limit {
		return "", fmt.Errorf("%w: size=%d limit=%d", ErrInputTooLarge, len(input), limit)
	}

	if !utf8.ValidString(input) {
		return "", ErrInvalidUTF8
	}

	// Fast path: if no control chars, return as is.
	if strings.IndexFunc(input, isUnsafeControl) < 0 {
		return input, nil
	}

	var b strings.Builder
	b.Grow(len(input))
	for _, r := range input {
		if !isUnsafeControl(r) {
			b.WriteRune(r)
		}
	}
	return b.String(), nil
}

func isUnsafeControl(r rune) bool {
	return unicode.IsControl(r) && r != '\n' && r != '\t' && r != '\r'
}

// MaxInputSize returns the configured limit, falling back to DefaultMaxInputSize.
func MaxInputSize() int {
	if val := os.Getenv(EnvMaxInputSize); val != "" {
		if size, err := strconv.Atoi(val); err == nil && size > 0 {
			return size
		}
	}
	return DefaultMaxInputSize
}
