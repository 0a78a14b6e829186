package redis

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/redis/go-redis/v9"
	"github.com/rs/zerolog"
)

const (
	registrationLockKey = "antifraud:lock:registration"
	lockTTL             = 10 * time.Second
	lockRetryInterval   = 25 * time.Millisecond
	lockMaxWait         = 5 * time.Second
)

var ErrLockTimeout = errors.New("registration lock: timed out waiting")

// releaseScript deletes the key only if it still holds our token, so an
// expired holder cannot release a lock taken over by someone else.
var releaseScript = redis.NewScript(`
if redis.call("GET", KEYS[1]) == ARGV[1] then
	return redis.call("DEL", KEYS[1])
end
return 0
`)

// RegistrationLock serialises account registration across replicas with a
// single Redis key set via SET NX PX.
type RegistrationLock struct {
	client *redis.Client
	log    zerolog.Logger
}

func NewRegistrationLock(client *redis.Client, log zerolog.Logger) *RegistrationLock {
	return &RegistrationLock{client: client, log: log}
}

// Acquire blocks until the lock is held, ctx is done, or lockMaxWait elapses.
func (l *RegistrationLock) Acquire(ctx context.Context) (func(), error) {
	token := uuid.NewString()

	waitCtx, cancel := context.WithTimeout(ctx, lockMaxWait)
	defer cancel()

	ticker := time.NewTicker(lockRetryInterval)
	defer ticker.Stop()

	for {
		ok, err := l.client.SetNX(waitCtx, registrationLockKey, token, lockTTL).Result()
		if err != nil && !errors.Is(err, context.DeadlineExceeded) {
			return nil, fmt.Errorf("registration lock: %w", err)
		}
		if ok {
			return l.releaser(token), nil
		}

		select {
		case <-waitCtx.Done():
			if ctx.Err() != nil {
				return nil, ctx.Err()
			}
			return nil, ErrLockTimeout
		case <-ticker.C:
		}
	}
}

func (l *RegistrationLock) releaser(token string) func() {
	return func() {
		// Detached from the request so a cancelled client still frees the lock.
		ctx, cancel := context.WithTimeout(context.Background(), defaultTimeout)
		defer cancel()

		if err := releaseScript.Run(ctx, l.client, []string{registrationLockKey}, token).Err(); err != nil {
			l.log.Warn().Err(err).Msg("registration lock release failed; it will expire")
		}
	}
}
