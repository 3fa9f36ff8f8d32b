package providers

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newGroqServer(t *testing.T, status int, body string, seen *map[string]any) *httptest.Server {
	t.Helper()
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "/chat/completions", r.URL.Path)
		assert.Equal(t, "Bearer gsk-test", r.Header.Get("Authorization"))
		if seen != nil {
			_ = json.NewDecoder(r.Body).Decode(seen)
		}
		w.Header().Set("Content-Type", "application/json")
		w.WriteHeader(status)
		_, _ = w.Write([]byte(body))
	}))
	t.Cleanup(srv.Close)
	return srv
}

func TestGroqProvider_Complete(t *testing.T) {
	var seen map[string]any
	srv := newGroqServer(t, http.StatusOK, `{
		"id": "chatcmpl-1",
		"object": "chat.completion",
		"model": "llama-3.1-8b-instant",
		"choices": [{"index": 0, "message": {"role": "assistant", "content": "Hello there"}, "finish_reason": "stop"}],
		"usage": {"prompt_tokens": 2, "completion_tokens": 2, "total_tokens": 4}
	}`, &seen)

	p := NewGroqProvider("gsk-test", srv.URL)
	resp, err := p.Complete(context.Background(), CompletionRequest{
		Model: "llama-3.1-8b-instant", Prompt: "hi", MaxTokens: 200,
	})
	require.NoError(t, err)

	assert.Equal(t, "Hello there", resp.Text)
	assert.Equal(t, "llama-3.1-8b-instant", seen["model"])
	assert.EqualValues(t, 200, seen["max_tokens"])
	assert.Equal(t, "groq", p.Name())
}

func TestGroqProvider_RateLimitIsQuota(t *testing.T) {
	srv := newGroqServer(t, http.StatusTooManyRequests,
		`{"error": {"message": "Rate limit reached", "type": "tokens", "code": "rate_limit_exceeded"}}`, nil)

	p := NewGroqProvider("gsk-test", srv.URL)
	_, err := p.Complete(context.Background(), CompletionRequest{Model: "llama-3.1-8b-instant", Prompt: "hi"})

	require.Error(t, err)
	assert.ErrorIs(t, err, ErrQuotaExhausted)
}

func TestGroqProvider_ServerError(t *testing.T) {
	srv := newGroqServer(t, http.StatusInternalServerError,
		`{"error": {"message": "boom", "type": "server_error"}}`, nil)

	p := NewGroqProvider("gsk-test", srv.URL)
	_, err := p.Complete(context.Background(), CompletionRequest{Model: "llama-3.1-8b-instant", Prompt: "hi"})

	require.Error(t, err)
	assert.NotErrorIs(t, err, ErrQuotaExhausted)
	assert.Contains(t, err.Error(), "groq llama-3.1-8b-instant")
}

func TestGroqProvider_NoChoices(t *testing.T) {
	srv := newGroqServer(t, http.StatusOK, `{"id": "x", "choices": []}`, nil)

	p := NewGroqProvider("gsk-test", srv.URL)
	_, err := p.Complete(context.Background(), CompletionRequest{Model: "m", Prompt: "hi"})

	require.Error(t, err)
	assert.Contains(t, err.Error(), "empty response")
}

func TestGroqProvider_RejectsLiveSearch(t *testing.T) {
	p := NewGroqProvider("gsk-test", "http://unused.invalid")
	_, err := p.Complete(context.Background(), CompletionRequest{Model: "m", Prompt: "hi", LiveSearch: true})

	assert.ErrorIs(t, err, ErrSearchUnsupported)
}
