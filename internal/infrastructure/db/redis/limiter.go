package redis

import (
	"context"
	"fmt"
	"time"

	"github.com/redis/go-redis/v9"
)

const (
	attemptTTL         = 15 * time.Minute
	defaultMaxAttempts = 10
)

// AttemptLimiter throttles repeated failed logins per email, backed by a
// Redis counter that expires on its own. Key format: login_attempts:<email>
type AttemptLimiter struct {
	client *redis.Client
	max    int64
}

// NewAttemptLimiter creates an AttemptLimiter wrapping the given Redis
// client. If maxAttempts <= 0, defaultMaxAttempts is used.
func NewAttemptLimiter(client *redis.Client, maxAttempts int) *AttemptLimiter {
	if maxAttempts <= 0 {
		maxAttempts = defaultMaxAttempts
	}
	return &AttemptLimiter{client: client, max: int64(maxAttempts)}
}

// TooMany reports whether the email has exhausted its failed-login budget.
func (l *AttemptLimiter) TooMany(ctx context.Context, email string) (bool, error) {
	n, err := l.client.Get(ctx, l.key(email)).Int64()
	if err == redis.Nil {
		return false, nil
	}
	if err != nil {
		return false, fmt.Errorf("attempt count: %w", err)
	}
	return n >= l.max, nil
}

// RecordFailure increments the counter and starts the expiry window on the
// first failure.
func (l *AttemptLimiter) RecordFailure(ctx context.Context, email string) error {
	key := l.key(email)
	n, err := l.client.Incr(ctx, key).Result()
	if err != nil {
		return fmt.Errorf("attempt incr: %w", err)
	}
	if n == 1 {
		if err := l.client.Expire(ctx, key, attemptTTL).Err(); err != nil {
			return fmt.Errorf("attempt expire: %w", err)
		}
	}
	return nil
}

// Reset clears the counter after a successful login.
func (l *AttemptLimiter) Reset(ctx context.Context, email string) error {
	return l.client.Del(ctx, l.key(email)).Err()
}

func (l *AttemptLimiter) key(email string) string {
	return fmt.Sprintf("login_attempts:%s", email)
}
