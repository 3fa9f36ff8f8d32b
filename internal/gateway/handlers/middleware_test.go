package handlers

import (
	"context"
	"errors"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
	"go.uber.org/zap/zaptest/observer"
)

// MockLimiter is a mock for RateLimiter
type MockLimiter struct {
	mock.Mock
}

func (m *MockLimiter) CheckRateLimit(ctx context.Context, clientID string, limit int) (bool, int, error) {
	args := m.Called(ctx, clientID, limit)
	return args.Bool(0), args.Int(1), args.Error(2)
}

var okHandler = http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
	w.WriteHeader(http.StatusOK)
})

func TestRateLimitMiddleware_Allows(t *testing.T) {
	limiter := new(MockLimiter)
	limiter.On("CheckRateLimit", mock.Anything, "10.0.0.1", 100).Return(false, 99, nil)

	h := NewMiddleware(limiter, 100, nil).RateLimitMiddleware(okHandler)
	req := httptest.NewRequest(http.MethodPost, "/generate", nil)
	req.RemoteAddr = "10.0.0.1:5555"
	rec := httptest.NewRecorder()
	h.ServeHTTP(rec, req)

	assert.Equal(t, http.StatusOK, rec.Code)
	assert.Equal(t, "100", rec.Header().Get("X-RateLimit-Limit"))
	assert.Equal(t, "99", rec.Header().Get("X-RateLimit-Remaining"))
	limiter.AssertExpectations(t)
}

func TestRateLimitMiddleware_Rejects(t *testing.T) {
	limiter := new(MockLimiter)
	limiter.On("CheckRateLimit", mock.Anything, mock.Anything, 5).Return(true, 0, nil)

	h := NewMiddleware(limiter, 5, nil).RateLimitMiddleware(okHandler)
	rec := httptest.NewRecorder()
	h.ServeHTTP(rec, httptest.NewRequest(http.MethodPost, "/generate", nil))

	assert.Equal(t, http.StatusTooManyRequests, rec.Code)
	assert.Equal(t, "60", rec.Header().Get("Retry-After"))
}

func TestRateLimitMiddleware_LimiterErrorFailsOpen(t *testing.T) {
	limiter := new(MockLimiter)
	limiter.On("CheckRateLimit", mock.Anything, mock.Anything, mock.Anything).Return(false, 0, errors.New("redis down"))

	core, logs := observer.New(zap.WarnLevel)
	h := NewMiddleware(limiter, 5, zap.New(core).Sugar()).RateLimitMiddleware(okHandler)
	rec := httptest.NewRecorder()
	h.ServeHTTP(rec, httptest.NewRequest(http.MethodPost, "/generate", nil))

	assert.Equal(t, http.StatusOK, rec.Code)
	assert.Equal(t, 1, logs.FilterMessage("Rate limiter unavailable").Len())
}

func TestRateLimitMiddleware_WithLocalLimiter(t *testing.T) {
	h := NewMiddleware(NewLocalLimiter(), 2, nil).RateLimitMiddleware(okHandler)

	codes := make([]int, 0, 3)
	for i := 0; i < 3; i++ {
		req := httptest.NewRequest(http.MethodPost, "/generate", nil)
		req.RemoteAddr = "192.0.2.7:1234"
		rec := httptest.NewRecorder()
		h.ServeHTTP(rec, req)
		codes = append(codes, rec.Code)
	}

	assert.Equal(t, []int{http.StatusOK, http.StatusOK, http.StatusTooManyRequests}, codes)
}

func TestCORSMiddleware(t *testing.T) {
	h := NewMiddleware(nil, 0, nil).CORSMiddleware(okHandler)

	rec := httptest.NewRecorder()
	h.ServeHTTP(rec, httptest.NewRequest(http.MethodOptions, "/generate", nil))
	assert.Equal(t, http.StatusOK, rec.Code)
	assert.Equal(t, "*", rec.Header().Get("Access-Control-Allow-Origin"))

	rec = httptest.NewRecorder()
	h.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/logs", nil))
	assert.Equal(t, "*", rec.Header().Get("Access-Control-Allow-Origin"))
}

func TestAccessLogMiddleware(t *testing.T) {
	core, logs := observer.New(zap.InfoLevel)
	m := NewMiddleware(nil, 0, zap.New(core).Sugar())

	r := chi.NewRouter()
	r.Use(m.AccessLogMiddleware)
	r.Get("/logs", func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusTeapot)
	})

	rec := httptest.NewRecorder()
	r.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/logs?limit=5", nil))

	require.Equal(t, 1, logs.Len())
	fields := logs.All()[0].ContextMap()
	assert.Equal(t, "GET", fields["method"])
	assert.Equal(t, "/logs", fields["path"])
	assert.EqualValues(t, http.StatusTeapot, fields["status"])
}

func TestLocalLimiter_Refills(t *testing.T) {
	now := time.Date(2026, 10, 19, 12, 0, 0, 0, time.UTC)
	l := NewLocalLimiter()
	l.now = func() time.Time { return now }

	exceeded, remaining, err := l.CheckRateLimit(context.Background(), "a", 60)
	require.NoError(t, err)
	assert.False(t, exceeded)
	assert.Equal(t, 59, remaining)

	for i := 0; i < 59; i++ {
		exceeded, _, _ = l.CheckRateLimit(context.Background(), "a", 60)
		require.False(t, exceeded)
	}
	exceeded, _, _ = l.CheckRateLimit(context.Background(), "a", 60)
	assert.True(t, exceeded)

	// other clients have their own bucket
	exceeded, _, _ = l.CheckRateLimit(context.Background(), "b", 60)
	assert.False(t, exceeded)

	// 60 per minute refills one token per second
	now = now.Add(time.Second)
	exceeded, _, _ = l.CheckRateLimit(context.Background(), "a", 60)
	assert.False(t, exceeded)
}

func TestLocalLimiter_SweepsIdleClients(t *testing.T) {
	now := time.Date(2026, 10, 19, 12, 0, 0, 0, time.UTC)
	l := NewLocalLimiter()
	l.now = func() time.Time { return now }

	_, _, _ = l.CheckRateLimit(context.Background(), "idle", 10)
	now = now.Add(idleClientTTL + 2*time.Minute)
	_, _, _ = l.CheckRateLimit(context.Background(), "active", 10)

	assert.NotContains(t, l.clients, "idle")
	assert.Contains(t, l.clients, "active")
}
