package cache

import (
	"context"
	"crypto/sha256"
	"encoding/hex"
	"encoding/json"
	"fmt"
	"time"

	"github.com/AnushkaGupta1120/cost-control-smart-router/internal/gateway/providers"
	"github.com/AnushkaGupta1120/cost-control-smart-router/internal/shared/models"
)

// Store is the key/value backend; *redis.Client satisfies it
type Store interface {
	Get(ctx context.Context, key string) (string, error)
	Set(ctx context.Context, key string, value string, ttl time.Duration) error
}

type Cache struct {
	store Store
	ttl   time.Duration
}

// New creates a new cache instance
func New(store Store, ttl time.Duration) *Cache {
	return &Cache{store: store, ttl: ttl}
}

// generateCacheKey hashes the tier and prompt into a deterministic key
func generateCacheKey(tier models.Tier, prompt string) string {
	hash := sha256.Sum256([]byte(string(tier) + ":" + prompt))
	return "cache:route:" + hex.EncodeToString(hash[:])
}

// Get retrieves a cached dispatch result
func (c *Cache) Get(ctx context.Context, tier models.Tier, prompt string) (*providers.Result, error) {
	val, err := c.store.Get(ctx, generateCacheKey(tier, prompt))
	if err != nil {
		return nil, err
	}

	var cached providers.Result
	if err := json.Unmarshal([]byte(val), &cached); err != nil {
		return nil, fmt.Errorf("failed to deserialize cached result: %w", err)
	}

	return &cached, nil
}

// Set stores a dispatch result. Degraded results are never cached.
func (c *Cache) Set(ctx context.Context, tier models.Tier, prompt string, result providers.Result) error {
	if result.Degraded {
		return nil
	}

	data, err := json.Marshal(result)
	if err != nil {
		return fmt.Errorf("failed to serialize result: %w", err)
	}

	return c.store.Set(ctx, generateCacheKey(tier, prompt), string(data), c.ttl)
}
