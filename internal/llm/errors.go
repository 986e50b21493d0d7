package llm

import (
	"fmt"

	"github.com/aretw0/triage/pkg/domain"
)

// ErrRateLimit indicates the provider returned a rate limit error (429).
type ErrRateLimit struct {
	Err error
}

func (e *ErrRateLimit) Error() string {
	return fmt.Sprintf("rate limited: %v", e.Err)
}

func (e *ErrRateLimit) Unwrap() error { return e.Err }

func (e *ErrRateLimit) Is(target error) bool {
	return target == domain.ErrClassificationUnavailable
}

// ErrInvalidResponse indicates the provider answered with a body the
// adapter could not read text from.
type ErrInvalidResponse struct {
	Err error
}

func (e *ErrInvalidResponse) Error() string {
	return fmt.Sprintf("invalid LLM response: %v", e.Err)
}

func (e *ErrInvalidResponse) Unwrap() error { return e.Err }

func (e *ErrInvalidResponse) Is(target error) bool {
	return target == domain.ErrClassificationUnavailable
}

// ErrProviderUnavailable indicates the provider is down, unreachable, or
// rejected the request.
type ErrProviderUnavailable struct {
	Err error
}

func (e *ErrProviderUnavailable) Error() string {
	if e.Err != nil {
		return fmt.Sprintf("LLM provider unavailable: %v", e.Err)
	}
	return "LLM provider unavailable"
}

func (e *ErrProviderUnavailable) Unwrap() error { return e.Err }

func (e *ErrProviderUnavailable) Is(target error) bool {
	return target == domain.ErrClassificationUnavailable
}
