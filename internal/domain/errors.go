package domain

import (
	"errors"
	"fmt"
)

var (
	// ErrInvalidRequest signals a malformed inbound request.
	ErrInvalidRequest = errors.New("invalid request")
	// ErrModelNotFound signals that the requested model or route does not exist at the provider.
	ErrModelNotFound = errors.New("model not found")
	// ErrProviderError signals any other LLM provider failure.
	ErrProviderError = errors.New("llm provider error")
	// ErrEmptyCompletion signals a completion without choices or content.
	ErrEmptyCompletion = errors.New("empty completion")
	// ErrInvalidVerdict signals LLM output that violates the verdict contract.
	ErrInvalidVerdict = errors.New("invalid verdict")
)

// ProviderError wraps a provider failure with the model it was raised for.
type ProviderError struct {
	Model      string
	StatusCode int
	Err        error
}

func (e *ProviderError) Error() string {
	if e.StatusCode > 0 {
		return fmt.Sprintf("model %s: status %d: %s", e.Model, e.StatusCode, e.Err.Error())
	}
	return fmt.Sprintf("model %s: %s", e.Model, e.Err.Error())
}

func (e *ProviderError) Unwrap() error { return e.Err }

// IsRoutingError reports whether err means the model/route is unavailable,
// as opposed to transient or authorization failures.
func IsRoutingError(err error) bool {
	return errors.Is(err, ErrModelNotFound)
}
