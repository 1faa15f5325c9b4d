package errors

import "fmt"

var (
	ErrEmptyMessage        = fmt.Errorf("message is required")
	ErrProviderUnavailable = fmt.Errorf("generation provider not configured, missing API key")
	ErrWorkerPanic         = fmt.Errorf("worker panic")
	ErrEmptyWords          = fmt.Errorf("no censored words have been found")
)

// ProviderError wraps an upstream generation failure while keeping the
// upstream message visible to the caller.
func ProviderError(err error) error {
	return fmt.Errorf("provider call failed: %w", err)
}
