package redislock

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/redis/go-redis/v9"
)

var releaseScript = redis.NewScript(`
	if redis.call("get", KEYS[1]) == ARGV[1] then
		return redis.call("del", KEYS[1])
	else
		return 0
	end
`)

// Lock is a single-owner, TTL-bounded SET-NX lock keyed by an order id.
type Lock struct {
	client   *redis.Client
	key      string
	value    string
	ttl      time.Duration
	acquired bool
}

// New builds a lock for the given key (e.g. "inbox:"+orderID); call
// Acquire to actually take it.
func New(client *redis.Client, key string, ttl time.Duration) *Lock {
	return &Lock{
		client: client,
		key:    fmt.Sprintf("lock:%s", key),
		value:  uuid.New().String(),
		ttl:    ttl,
	}
}

// Acquire is a single non-blocking attempt. A false result with no error
// just means another instance holds the lock right now.
func (l *Lock) Acquire(ctx context.Context) (bool, error) {
	ok, err := l.client.SetNX(ctx, l.key, l.value, l.ttl).Result()
	if err != nil {
		return false, fmt.Errorf("acquire lock: %w", err)
	}
	l.acquired = ok
	return ok, nil
}

// Release is a no-op if this instance never acquired the lock.
func (l *Lock) Release(ctx context.Context) error {
	if !l.acquired {
		return nil
	}
	res, err := releaseScript.Run(ctx, l.client, []string{l.key}, l.value).Result()
	if err != nil {
		return fmt.Errorf("release lock: %w", err)
	}
	if v, ok := res.(int64); !ok || v == 0 {
		return errors.New("lock not held or already released")
	}
	l.acquired = false
	return nil
}
