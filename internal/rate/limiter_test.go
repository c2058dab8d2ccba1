package rate

import (
	"context"
	"strings"
	"testing"
	"time"

	"github.com/alicebob/miniredis/v2"
	rdb "github.com/redis/go-redis/v9"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newRedisLimiter(t *testing.T, max int, window time.Duration) (*RedisLimiter, *miniredis.Miniredis) {
	t.Helper()

	mr := miniredis.RunT(t)
	client := rdb.NewClient(&rdb.Options{Addr: mr.Addr()})
	t.Cleanup(func() { client.Close() })

	return NewRedisLimiter(client, "", max, window), mr
}

func TestRedisLimiter_FixedWindow(t *testing.T) {
	l, mr := newRedisLimiter(t, 2, time.Hour)
	now := time.Date(2026, 3, 1, 12, 15, 0, 0, time.UTC)
	l.now = func() time.Time { return now }
	ctx := context.Background()

	res, err := l.Allow(ctx, "webhook:10.0.0.1")
	require.NoError(t, err)
	assert.True(t, res.Allowed)
	assert.Equal(t, int64(1), res.CurrentHits)
	assert.Equal(t, int64(1), res.Remaining)

	keys := mr.Keys()
	require.Len(t, keys, 1)
	key := keys[0]
	assert.Equal(t, windowKey("hh:rl:", "webhook:10.0.0.1", now.Truncate(time.Hour)), key)
	assert.Equal(t, "1", mustGet(t, mr, key))
	assert.Equal(t, time.Hour, mr.TTL(key))

	// Later hits in the window leave the expiry alone.
	mr.FastForward(10 * time.Minute)
	res, err = l.Allow(ctx, "webhook:10.0.0.1")
	require.NoError(t, err)
	assert.True(t, res.Allowed)
	assert.Zero(t, res.Remaining)
	assert.Equal(t, 50*time.Minute, mr.TTL(key))

	res, err = l.Allow(ctx, "webhook:10.0.0.1")
	require.NoError(t, err)
	assert.False(t, res.Allowed)
	assert.Equal(t, int64(3), res.CurrentHits)
	assert.Zero(t, res.Remaining)
	assert.Equal(t, 45*time.Minute, res.RetryAfter)

	// Other keys have their own budget.
	res, err = l.Allow(ctx, "webhook:10.0.0.2")
	require.NoError(t, err)
	assert.True(t, res.Allowed)

	// Once the key expires the count starts over.
	mr.FastForward(time.Hour)
	assert.False(t, mr.Exists(key))

	res, err = l.Allow(ctx, "webhook:10.0.0.1")
	require.NoError(t, err)
	assert.True(t, res.Allowed)
	assert.Equal(t, int64(1), res.CurrentHits)
}

func TestRedisLimiter_Prefix(t *testing.T) {
	mr := miniredis.RunT(t)
	client := rdb.NewClient(&rdb.Options{Addr: mr.Addr()})
	t.Cleanup(func() { client.Close() })

	l := NewRedisLimiter(client, "custom:", 5, time.Minute)
	_, err := l.Allow(context.Background(), "route key")
	require.NoError(t, err)

	keys := mr.Keys()
	require.Len(t, keys, 1)
	assert.True(t, strings.HasPrefix(keys[0], "custom:route_key:"))
}

func TestRedisLimiter_Unavailable(t *testing.T) {
	l, mr := newRedisLimiter(t, 5, time.Minute)
	mr.Close()

	_, err := l.Allow(context.Background(), "webhook:10.0.0.1")
	assert.Error(t, err)
}

func mustGet(t *testing.T, mr *miniredis.Miniredis, key string) string {
	t.Helper()

	v, err := mr.Get(key)
	require.NoError(t, err)
	return v
}
