package redis

import (
	"context"
	"fmt"
	"os"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// newTestClient connects to REDIS_URL or skips the test.
func newTestClient(t *testing.T) *Client {
	t.Helper()
	if testing.Short() {
		t.Skip("Skipping integration test in short mode")
	}

	url := os.Getenv("REDIS_URL")
	if url == "" {
		t.Skip("REDIS_URL not set")
	}

	c, err := New(context.Background(), url)
	require.NoError(t, err)
	t.Cleanup(func() { _ = c.Close() })
	return c
}

func TestNew_BadURL(t *testing.T) {
	_, err := New(context.Background(), "not a url")
	require.Error(t, err)
	assert.Contains(t, err.Error(), "parse Redis URL")
}

func TestGetSet(t *testing.T) {
	c := newTestClient(t)
	ctx := context.Background()
	key := fmt.Sprintf("test:getset:%d", time.Now().UnixNano())

	_, err := c.Get(ctx, key)
	assert.ErrorIs(t, err, ErrNotFound)

	require.NoError(t, c.Set(ctx, key, "value", time.Minute))
	val, err := c.Get(ctx, key)
	require.NoError(t, err)
	assert.Equal(t, "value", val)
}

func TestCheckRateLimit(t *testing.T) {
	c := newTestClient(t)
	ctx := context.Background()
	id := fmt.Sprintf("test-%d", time.Now().UnixNano())

	exceeded, remaining, err := c.CheckRateLimit(ctx, id, 2)
	require.NoError(t, err)
	assert.False(t, exceeded)
	assert.Equal(t, 1, remaining)

	exceeded, remaining, err = c.CheckRateLimit(ctx, id, 2)
	require.NoError(t, err)
	assert.False(t, exceeded)
	assert.Equal(t, 0, remaining)

	exceeded, _, err = c.CheckRateLimit(ctx, id, 2)
	require.NoError(t, err)
	assert.True(t, exceeded)
}
