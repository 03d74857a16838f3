package services

import (
	"errors"
	"fmt"
	"strings"
)

var (
	// ErrInvalidInput marks a bad or unsupported source URL. Permanent; the
	// pipeline fails before any network call is made.
	ErrInvalidInput = errors.New("invalid input")
	// ErrUpstreamUnavailable marks a network or HTTP failure from a
	// third-party API. Transient.
	ErrUpstreamUnavailable = errors.New("upstream unavailable")
	// ErrUpstreamSchema marks an unexpected upstream response shape.
	// Permanent until the upstream changes.
	ErrUpstreamSchema = errors.New("upstream schema error")
	// ErrCache marks a key-value or object-storage failure. Transient.
	ErrCache = errors.New("cache error")
	// ErrSynthesis marks narration output that is unusable. The orchestrator
	// degrades the record rather than propagating this.
	ErrSynthesis = errors.New("speech synthesis failure")
)

// Wrap builds an error message that includes service context while tagging it
// with the provided marker for later classification. The marker should be one
// of the exported sentinel errors above.
func Wrap(marker error, service, operation, message string, err error) error {
	detail := buildDetail(service, operation, message)
	if marker == nil {
		marker = ErrUpstreamUnavailable
	}
	if err != nil {
		return fmt.Errorf("%w: %s: %w", marker, detail, err)
	}
	return fmt.Errorf("%w: %s", marker, detail)
}

// Permanent reports whether retrying the same request could ever succeed.
// Invalid input and schema mismatches are permanent; network, cache, and
// synthesis failures are transient.
func Permanent(err error) bool {
	return errors.Is(err, ErrInvalidInput) || errors.Is(err, ErrUpstreamSchema)
}

func buildDetail(service, operation, message string) string {
	parts := make([]string, 0, 3)
	if service = strings.TrimSpace(service); service != "" {
		parts = append(parts, service)
	}
	if operation = strings.TrimSpace(operation); operation != "" {
		parts = append(parts, operation)
	}
	if message = strings.TrimSpace(message); message != "" {
		parts = append(parts, message)
	}
	if len(parts) == 0 {
		return "service failure"
	}
	return strings.Join(parts, ": ")
}
