package lock

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/go-redis/redis/v8"
)

// Redis-backed mutual exclusion for the check-in path.
//
// Locking: SET key value NX EX — NX guarantees a single holder, EX
// keeps a crashed holder from leaving the key stuck. The value carries
// the holder's identity so Unlock never deletes someone else's lock.
// Unlock runs as a Lua script so the check-then-delete is atomic.

var ErrLockFailed = errors.New("não foi possível obter o lock distribuído")

type DistributedLock struct {
	client     *redis.Client
	key        string
	value      string
	expiration time.Duration
}

func NewDistributedLock(client *redis.Client, key, value string, expiration time.Duration) *DistributedLock {
	return &DistributedLock{
		client:     client,
		key:        key,
		value:      value,
		expiration: expiration,
	}
}

// TryLock attempts to take the lock without blocking.
func (l *DistributedLock) TryLock(ctx context.Context) (bool, error) {
	success, err := l.client.SetNX(ctx, l.key, l.value, l.expiration).Result()
	if err != nil {
		return false, err
	}
	return success, nil
}

// Lock retries TryLock until it succeeds or maxRetries is exhausted.
func (l *DistributedLock) Lock(ctx context.Context, retryInterval time.Duration, maxRetries int) error {
	for i := 0; i < maxRetries; i++ {
		success, err := l.TryLock(ctx)
		if err != nil {
			return err
		}
		if success {
			return nil
		}
		select {
		case <-ctx.Done():
			return ctx.Err()
		case <-time.After(retryInterval):
		}
	}
	return ErrLockFailed
}

// Unlock releases the lock only if this instance still holds it.
func (l *DistributedLock) Unlock(ctx context.Context) error {
	script := `
		if redis.call("GET", KEYS[1]) == ARGV[1] then
			return redis.call("DEL", KEYS[1])
		else
			return 0
		end
	`
	_, err := l.client.Eval(ctx, script, []string{l.key}, l.value).Result()
	return err
}

// NewCheckinLock serializes check-in attempts per booking. The booking
// is the unit two concurrent requests could double-credit, so the key
// is the booking id rather than the caller; the value identifies the
// holder for safe release.
func NewCheckinLock(client *redis.Client, bookingID, holder string) *DistributedLock {
	key := fmt.Sprintf("checkin:lock:booking:%s", bookingID)
	return NewDistributedLock(client, key, holder, 30*time.Second)
}
