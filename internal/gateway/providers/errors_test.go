package providers

import (
	"errors"
	"fmt"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestIsQuotaError(t *testing.T) {
	tests := []struct {
		name string
		err  error
		want bool
	}{
		{name: "nil", err: nil, want: false},
		{name: "sentinel", err: ErrQuotaExhausted, want: true},
		{name: "wrapped sentinel", err: fmt.Errorf("gemini x: %w", ErrQuotaExhausted), want: true},
		{name: "status code", err: errors.New("error, status code: 429"), want: true},
		{name: "rate limit", err: errors.New("Rate limit reached for model"), want: true},
		{name: "grpc status", err: errors.New("Error 429, Status: RESOURCE_EXHAUSTED"), want: true},
		{name: "tool failure", err: errors.New("tool google_search is not supported"), want: false},
		{name: "server error", err: errors.New("status 500"), want: false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, IsQuotaError(tt.err))
		})
	}
}
