package providers

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"time"

	"github.com/sashabaranov/go-openai"
)

// GroqProvider handles Groq requests through its OpenAI-compatible API
type GroqProvider struct {
	client *openai.Client
}

// NewGroqProvider creates a new Groq provider
func NewGroqProvider(apiKey, baseURL string) *GroqProvider {
	config := openai.DefaultConfig(apiKey)
	config.BaseURL = baseURL
	config.HTTPClient = &http.Client{Timeout: 60 * time.Second}

	return &GroqProvider{
		client: openai.NewClientWithConfig(config),
	}
}

// Complete makes a chat completion request to Groq
func (p *GroqProvider) Complete(ctx context.Context, req CompletionRequest) (*CompletionResponse, error) {
	if req.LiveSearch {
		return nil, fmt.Errorf("groq %s: %w", req.Model, ErrSearchUnsupported)
	}

	startTime := time.Now()

	groqReq := openai.ChatCompletionRequest{
		Model: req.Model,
		Messages: []openai.ChatCompletionMessage{
			{Role: openai.ChatMessageRoleUser, Content: req.Prompt},
		},
	}
	if req.MaxTokens > 0 {
		groqReq.MaxTokens = req.MaxTokens
	}

	resp, err := p.client.CreateChatCompletion(ctx, groqReq)
	if err != nil {
		if isGroqQuotaError(err) {
			return nil, fmt.Errorf("groq %s: %w: %w", req.Model, ErrQuotaExhausted, err)
		}
		return nil, fmt.Errorf("groq %s: %w", req.Model, err)
	}

	if len(resp.Choices) == 0 {
		return nil, fmt.Errorf("groq %s: empty response", req.Model)
	}

	return &CompletionResponse{
		Text:      resp.Choices[0].Message.Content,
		LatencyMs: int(time.Since(startTime).Milliseconds()),
	}, nil
}

// Name returns the provider name
func (p *GroqProvider) Name() string {
	return "groq"
}

func isGroqQuotaError(err error) bool {
	var apiErr *openai.APIError
	if errors.As(err, &apiErr) && apiErr.HTTPStatusCode == http.StatusTooManyRequests {
		return true
	}
	var reqErr *openai.RequestError
	if errors.As(err, &reqErr) && reqErr.HTTPStatusCode == http.StatusTooManyRequests {
		return true
	}
	return false
}
