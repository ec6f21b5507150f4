package cache_test

import (
	"context"
	"fmt"
	"os"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/msomdec/mockmatch/internal/cache"
)

type payload struct {
	Name  string  `json:"name"`
	Score float64 `json:"score"`
}

func TestBypassWithoutRedis(t *testing.T) {
	ctx := context.Background()

	for name, c := range map[string]*cache.Cache{
		"empty url": cache.Connect(ctx, ""),
		"nil":       nil,
		"bad url":   cache.Connect(ctx, "not a url"),
	} {
		t.Run(name, func(t *testing.T) {
			assert.False(t, c.Enabled())
			require.NoError(t, c.SetJSON(ctx, "k", payload{Name: "x"}, time.Minute))

			var out payload
			hit, err := c.GetJSON(ctx, "k", &out)
			require.NoError(t, err)
			assert.False(t, hit)

			assert.NoError(t, c.Delete(ctx, "k"))
			assert.NoError(t, c.DeleteByPattern(ctx, "k*"))
			assert.Error(t, c.Ping(ctx))
			assert.NoError(t, c.Close())
		})
	}
}

func TestRedisRoundTrip(t *testing.T) {
	url := os.Getenv("TEST_REDIS_URL")
	if url == "" {
		t.Skip("TEST_REDIS_URL not set")
	}
	ctx := context.Background()

	c := cache.Connect(ctx, url)
	t.Cleanup(func() { c.Close() })
	require.True(t, c.Enabled())

	prefix := fmt.Sprintf("cachetest:%d:", time.Now().UnixNano())
	key := prefix + "a"

	var out payload
	hit, err := c.GetJSON(ctx, key, &out)
	require.NoError(t, err)
	assert.False(t, hit)

	require.NoError(t, c.SetJSON(ctx, key, payload{Name: "alice", Score: 0.7}, time.Minute))
	hit, err = c.GetJSON(ctx, key, &out)
	require.NoError(t, err)
	assert.True(t, hit)
	assert.Equal(t, payload{Name: "alice", Score: 0.7}, out)

	require.NoError(t, c.SetJSON(ctx, prefix+"b", payload{Name: "bob"}, time.Minute))
	require.NoError(t, c.DeleteByPattern(ctx, prefix+"*"))

	hit, err = c.GetJSON(ctx, key, &out)
	require.NoError(t, err)
	assert.False(t, hit)
}
