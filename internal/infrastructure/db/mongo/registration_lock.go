package mongo

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/rs/zerolog"
	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"
)

const (
	registrationLockID = "registration"
	leaseTTL           = 10 * time.Second
	leaseRetryInterval = 25 * time.Millisecond
	leaseMaxWait       = 5 * time.Second
)

var ErrLockTimeout = errors.New("registration lock: timed out waiting")

// RegistrationLock serialises account registration across every replica that
// shares the database. The lock is a lease document in the locks collection:
// a holder owns it until it deletes the document or the lease expires.
type RegistrationLock struct {
	coll *mongo.Collection
	log  zerolog.Logger
}

func NewRegistrationLock(db *mongo.Database, log zerolog.Logger) *RegistrationLock {
	return &RegistrationLock{coll: db.Collection(collectionLocks), log: log}
}

// Acquire blocks until the lease is held, ctx is done, or leaseMaxWait elapses.
func (l *RegistrationLock) Acquire(ctx context.Context) (func(), error) {
	token := uuid.NewString()

	waitCtx, cancel := context.WithTimeout(ctx, leaseMaxWait)
	defer cancel()

	ticker := time.NewTicker(leaseRetryInterval)
	defer ticker.Stop()

	for {
		ok, err := l.tryAcquire(waitCtx, token)
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

// tryAcquire takes over an expired lease or creates a missing one. A live
// lease held by someone else makes the upsert collide on _id.
func (l *RegistrationLock) tryAcquire(ctx context.Context, token string) (bool, error) {
	now := time.Now().UTC()
	_, err := l.coll.UpdateOne(ctx,
		bson.M{"_id": registrationLockID, "expires_at": bson.M{"$lte": now}},
		bson.M{"$set": bson.M{"owner": token, "expires_at": now.Add(leaseTTL)}},
		options.Update().SetUpsert(true),
	)
	if mongo.IsDuplicateKeyError(err) {
		return false, nil
	}
	if err != nil {
		return false, err
	}
	return true, nil
}

func (l *RegistrationLock) releaser(token string) func() {
	return func() {
		// Detached from the request so a cancelled client still frees the lease.
		ctx, cancel := context.WithTimeout(context.Background(), defaultTimeout)
		defer cancel()

		if _, err := l.coll.DeleteOne(ctx, bson.M{"_id": registrationLockID, "owner": token}); err != nil {
			l.log.Warn().Err(err).Msg("registration lease release failed; it will expire")
		}
	}
}
