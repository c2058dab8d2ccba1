package rate

import (
	"context"
	"time"

	gocache "github.com/patrickmn/go-cache"
)

// MemoryLimiter is the single-instance fallback used when no Redis is
// configured. Counts are per process.
type MemoryLimiter struct {
	c      *gocache.Cache
	Max    int64
	Window time.Duration

	now func() time.Time
}

func NewMemoryLimiter(max int, window time.Duration) *MemoryLimiter {
	return &MemoryLimiter{
		c:      gocache.New(window, time.Minute),
		Max:    int64(max),
		Window: window,
		now:    time.Now,
	}
}

func (l *MemoryLimiter) Allow(ctx context.Context, key string) (Result, error) {
	now := l.now().UTC()
	start := now.Truncate(l.Window)
	ttl := start.Add(l.Window).Sub(now)
	k := windowKey("", key, start)

	hits, err := l.c.IncrementInt64(k, 1)
	if err != nil {
		// First hit of the window. Another caller may win the Add.
		if addErr := l.c.Add(k, int64(1), ttl); addErr != nil {
			if hits, err = l.c.IncrementInt64(k, 1); err != nil {
				return Result{}, err
			}
		} else {
			hits = 1
		}
	}

	return result(hits, l.Max, ttl), nil
}
