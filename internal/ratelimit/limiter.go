package ratelimit

import (
	"context"
	"sync"
	"time"

	"github.com/redis/go-redis/v9"
	"go.uber.org/zap"
)

// Limiter answers whether a client key may proceed within the current
// window. Counting is fixed-window: the first request for a key starts the
// window, and the counter resets when it elapses.
type Limiter interface {
	Allow(ctx context.Context, key string) (bool, error)
}

// NewLimiter selects the backing store for rate limiting. A reachable Redis
// gives windows shared across instances; otherwise counting falls back to
// in-process windows so the limit is enforced either way.
func NewLimiter(ctx context.Context, client *redis.Client, max int, window time.Duration, logger *zap.Logger) Limiter {
	if client != nil {
		err := client.Ping(ctx).Err()
		if err == nil {
			return NewRedisLimiter(client, max, window)
		}
		logger.Warn("redis unreachable; rate limiting uses in-process windows", zap.Error(err))
	}
	return NewMemoryLimiter(max, window)
}

// RedisLimiter counts requests per key in Redis, shared across instances.
type RedisLimiter struct {
	client *redis.Client
	max    int
	window time.Duration
}

// NewRedisLimiter constructs a limiter allowing max requests per window.
func NewRedisLimiter(client *redis.Client, max int, window time.Duration) *RedisLimiter {
	return &RedisLimiter{client: client, max: max, window: window}
}

func (l *RedisLimiter) Allow(ctx context.Context, key string) (bool, error) {
	count, err := l.client.Incr(ctx, "ratelimit:"+key).Result()
	if err != nil {
		return false, err
	}
	if count == 1 {
		if err := l.client.Expire(ctx, "ratelimit:"+key, l.window).Err(); err != nil {
			return false, err
		}
	}
	return count <= int64(l.max), nil
}

type windowState struct {
	count   int
	resetAt time.Time
}

// MemoryLimiter is a process-local fixed-window limiter used in tests and
// when Redis is not configured.
type MemoryLimiter struct {
	mu      sync.Mutex
	windows map[string]*windowState
	max     int
	window  time.Duration
	now     func() time.Time
}

// NewMemoryLimiter constructs a limiter allowing max requests per window.
func NewMemoryLimiter(max int, window time.Duration) *MemoryLimiter {
	return &MemoryLimiter{
		windows: make(map[string]*windowState),
		max:     max,
		window:  window,
		now:     time.Now,
	}
}

func (l *MemoryLimiter) Allow(_ context.Context, key string) (bool, error) {
	l.mu.Lock()
	defer l.mu.Unlock()

	now := l.now()
	state, ok := l.windows[key]
	if !ok || now.After(state.resetAt) {
		l.windows[key] = &windowState{count: 1, resetAt: now.Add(l.window)}
		return true, nil
	}
	state.count++
	return state.count <= l.max, nil
}
