package providers

import (
	"errors"
	"strings"
)

var (
	// ErrQuotaExhausted means the provider rejected the call for rate or usage limits
	ErrQuotaExhausted = errors.New("quota exhausted")

	// ErrSearchUnsupported means live search was requested from a backend without it
	ErrSearchUnsupported = errors.New("live search not supported")
)

// IsQuotaError checks if an error should move the dispatcher to the next candidate
func IsQuotaError(err error) bool {
	if err == nil {
		return false
	}
	if errors.Is(err, ErrQuotaExhausted) {
		return true
	}

	errStr := strings.ToLower(err.Error())
	return strings.Contains(errStr, "429") ||
		strings.Contains(errStr, "rate limit") ||
		strings.Contains(errStr, "resource exhausted") ||
		strings.Contains(errStr, "resource_exhausted") ||
		strings.Contains(errStr, "quota")
}
