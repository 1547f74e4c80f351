package service

import (
	"context"
	"time"

	"github.com/redis/go-redis/v9"
	"github.com/rs/zerolog"
)

const throttlePrefix = "notedeck:login:"

// attemptCounter is the slice of Redis the throttle needs.
type attemptCounter interface {
	Incr(ctx context.Context, key string) (int64, error)
	Expire(ctx context.Context, key string, ttl time.Duration) error
}

type redisAttemptCounter struct {
	client *redis.Client
}

func (c redisAttemptCounter) Incr(ctx context.Context, key string) (int64, error) {
	return c.client.Incr(ctx, key).Result()
}

func (c redisAttemptCounter) Expire(ctx context.Context, key string, ttl time.Duration) error {
	return c.client.Expire(ctx, key, ttl).Err()
}

// LoginThrottle counts login attempts in fixed windows. It fails open: an
// unreachable Redis must not lock everyone out.
type LoginThrottle struct {
	counter attemptCounter
	limit   int
	window  time.Duration
	log     zerolog.Logger
}

func NewLoginThrottle(client *redis.Client, limit int, window time.Duration, log zerolog.Logger) *LoginThrottle {
	if window <= 0 {
		window = time.Minute
	}
	t := &LoginThrottle{
		limit:  limit,
		window: window,
		log:    log,
	}
	if client != nil {
		t.counter = redisAttemptCounter{client: client}
	}
	return t
}

func (t *LoginThrottle) Allow(ctx context.Context, key string) bool {
	if t.counter == nil || t.limit <= 0 {
		return true
	}

	ctx, cancel := context.WithTimeout(ctx, 250*time.Millisecond)
	defer cancel()

	redisKey := throttlePrefix + key
	count, err := t.counter.Incr(ctx, redisKey)
	if err != nil {
		t.log.Error().Err(err).Msg("login throttle incr failed")
		return true
	}
	if count == 1 {
		if err := t.counter.Expire(ctx, redisKey, t.window); err != nil {
			t.log.Error().Err(err).Msg("login throttle expire failed")
		}
	}

	return count <= int64(t.limit)
}
