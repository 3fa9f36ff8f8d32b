package handlers

import (
	"context"
	"sync"
	"time"

	"golang.org/x/time/rate"
)

// idleClientTTL is how long an unused client bucket is kept
const idleClientTTL = 10 * time.Minute

type clientBucket struct {
	limiter  *rate.Limiter
	lastSeen time.Time
}

// LocalLimiter is an in-process token bucket per client, used when Redis is not configured
type LocalLimiter struct {
	mu        sync.Mutex
	clients   map[string]*clientBucket
	lastSweep time.Time
	now       func() time.Time
}

func NewLocalLimiter() *LocalLimiter {
	return &LocalLimiter{
		clients: make(map[string]*clientBucket),
		now:     time.Now,
	}
}

// CheckRateLimit refills at limit per minute with a burst of limit
func (l *LocalLimiter) CheckRateLimit(_ context.Context, clientID string, limit int) (bool, int, error) {
	l.mu.Lock()
	defer l.mu.Unlock()

	now := l.now()
	l.sweep(now)

	b, ok := l.clients[clientID]
	if !ok {
		b = &clientBucket{limiter: rate.NewLimiter(rate.Limit(float64(limit)/60.0), limit)}
		l.clients[clientID] = b
	}
	b.lastSeen = now

	if !b.limiter.AllowN(now, 1) {
		return true, 0, nil
	}

	remaining := int(b.limiter.TokensAt(now))
	if remaining < 0 {
		remaining = 0
	}
	return false, remaining, nil
}

// sweep drops idle buckets at most once per minute
func (l *LocalLimiter) sweep(now time.Time) {
	if now.Sub(l.lastSweep) < time.Minute {
		return
	}
	l.lastSweep = now
	for id, b := range l.clients {
		if now.Sub(b.lastSeen) > idleClientTTL {
			delete(l.clients, id)
		}
	}
}
