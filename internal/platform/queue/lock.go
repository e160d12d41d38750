package queue

import (
	"context"
	"errors"
	"fmt"
	"time"

	"hackathon_hub/internal/common"

	"github.com/google/uuid"
	"github.com/redis/go-redis/v9"
)

// releaseScript deletes the key only when it still holds our token.
var releaseScript = redis.NewScript(`
if redis.call("get", KEYS[1]) == ARGV[1] then
	return redis.call("del", KEYS[1])
else
	return 0
end`)

// refreshScript extends the TTL only when it still holds our token.
var refreshScript = redis.NewScript(`
if redis.call("get", KEYS[1]) == ARGV[1] then
	return redis.call("pexpire", KEYS[1], ARGV[2])
else
	return 0
end`)

// Locker hands out leases on one Redis key.
type Locker struct {
	client redis.Cmdable
	key    string
	ttl    time.Duration
}

func NewLocker(client redis.Cmdable, key string, ttl time.Duration) *Locker {
	return &Locker{client: client, key: key, ttl: ttl}
}

func (l *Locker) TTL() time.Duration { return l.ttl }

func (l *Locker) Acquire(ctx context.Context) (*Lock, error) {
	return AcquireLock(ctx, l.client, l.key, l.ttl)
}

// Lock is a single-holder lease on a Redis key.
type Lock struct {
	client redis.Cmdable
	key    string
	token  string
	ttl    time.Duration
}

// AcquireLock tries once to take key. It returns common.ErrLockNotAcquired
// when another holder owns it.
func AcquireLock(ctx context.Context, client redis.Cmdable, key string, ttl time.Duration) (*Lock, error) {
	token := uuid.NewString()
	ok, err := client.SetNX(ctx, key, token, ttl).Result()
	if err != nil {
		return nil, fmt.Errorf("queue.AcquireLock %s: %w", key, err)
	}
	if !ok {
		return nil, common.ErrLockNotAcquired
	}
	return &Lock{client: client, key: key, token: token, ttl: ttl}, nil
}

// Refresh extends the lease. A lost lease returns common.ErrLockNotAcquired.
func (l *Lock) Refresh(ctx context.Context) error {
	n, err := refreshScript.Run(ctx, l.client, []string{l.key}, l.token, l.ttl.Milliseconds()).Int64()
	if err != nil {
		return fmt.Errorf("queue.Lock.Refresh %s: %w", l.key, err)
	}
	if n == 0 {
		return common.ErrLockNotAcquired
	}
	return nil
}

func (l *Lock) Release(ctx context.Context) error {
	err := releaseScript.Run(ctx, l.client, []string{l.key}, l.token).Err()
	if err != nil && !errors.Is(err, redis.Nil) {
		return fmt.Errorf("queue.Lock.Release %s: %w", l.key, err)
	}
	return nil
}
