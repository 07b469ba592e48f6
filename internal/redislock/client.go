// Package redislock provides a distributed lock used by the Inbox Consumer
// as a latency optimization: it is acquired before the DB-transactional
// dedup check so two consumer instances racing on the same redelivered
// order id don't both pay for a wasted debit attempt. Correctness never
// depends on this lock — the database transaction is still the source of
// truth — so a failed acquire just means "let the retry sort it out."
package redislock

import (
	"context"
	"fmt"
	"time"

	"github.com/cassiomorais/paymentpipeline/internal/config"
	"github.com/redis/go-redis/v9"
)

// NewClient creates a Redis client and verifies connectivity with a few
// retries, the same incremental-backoff pattern the rest of this codebase
// uses for its other external dependencies.
func NewClient(ctx context.Context, cfg *config.RedisConfig) (*redis.Client, error) {
	client := redis.NewClient(&redis.Options{
		Addr:         cfg.Addr(),
		DB:           cfg.DB,
		DialTimeout:  5 * time.Second,
		ReadTimeout:  3 * time.Second,
		WriteTimeout: 3 * time.Second,
		PoolSize:     10,
		MinIdleConns: 5,
	})

	const maxRetries = 5
	for i := 0; i < maxRetries; i++ {
		if err := client.Ping(ctx).Err(); err != nil {
			if i == maxRetries-1 {
				client.Close()
				return nil, fmt.Errorf("connect to redis after %d retries: %w", maxRetries, err)
			}
			time.Sleep(time.Duration(i+1) * time.Second)
			continue
		}
		break
	}
	return client, nil
}
