package providers

import (
	"context"

	"github.com/shopspring/decimal"
)

// CompletionRequest is a single prompt sent to one backend model
type CompletionRequest struct {
	Model      string
	Prompt     string
	MaxTokens  int
	LiveSearch bool
}

// CompletionResponse is the generated text of a backend call
type CompletionResponse struct {
	Text      string
	LatencyMs int
}

// Provider is the interface all LLM backends implement
type Provider interface {
	Complete(ctx context.Context, req CompletionRequest) (*CompletionResponse, error)
	Name() string
}

// Result is what the dispatcher hands back for every request, degraded or not
type Result struct {
	Model    string          `json:"model"`
	Response string          `json:"response"`
	Cost     decimal.Decimal `json:"cost"`
	// Degraded marks error, missing-credential and overloaded results.
	Degraded bool `json:"degraded"`
}
