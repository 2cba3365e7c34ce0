package lock

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/redis/go-redis/v9"
)

const keyPrefix = "lock:"

// ErrNotAcquired is returned when another holder owns the lock
var ErrNotAcquired = errors.New("lock not acquired")

// Only the holder that set the token may delete the key.
var releaseScript = redis.NewScript(`
if redis.call("GET", KEYS[1]) == ARGV[1] then
	return redis.call("DEL", KEYS[1])
end
return 0
`)

// ReleaseFunc releases a held lock
type ReleaseFunc func(ctx context.Context) error

// RedisLocker is a single-instance Redis lock with expiry
type RedisLocker struct {
	client *redis.Client
}

// NewRedisLocker creates a new locker
func NewRedisLocker(client *redis.Client) *RedisLocker {
	return &RedisLocker{client: client}
}

// Acquire takes the lock for ttl or returns ErrNotAcquired
func (l *RedisLocker) Acquire(ctx context.Context, key string, ttl time.Duration) (ReleaseFunc, error) {
	token := uuid.NewString()
	fullKey := keyPrefix + key

	ok, err := l.client.SetNX(ctx, fullKey, token, ttl).Result()
	if err != nil {
		return nil, fmt.Errorf("failed to acquire lock %s: %w", key, err)
	}
	if !ok {
		return nil, ErrNotAcquired
	}

	return func(ctx context.Context) error {
		if err := releaseScript.Run(ctx, l.client, []string{fullKey}, token).Err(); err != nil {
			return fmt.Errorf("failed to release lock %s: %w", key, err)
		}
		return nil
	}, nil
}
