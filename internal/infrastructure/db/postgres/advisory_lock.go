package postgres

import (
	"context"
	"database/sql"
	"fmt"

	"github.com/rs/zerolog"
)

// registrationLockID is an arbitrary application-wide advisory lock key.
const registrationLockID int64 = 0x616e7469667261

// AdvisoryLock serialises registration through a session-level
// pg_advisory_lock, so every replica sharing the database agrees on which
// account is first.
type AdvisoryLock struct {
	db  *sql.DB
	log zerolog.Logger
}

func NewAdvisoryLock(db *sql.DB, log zerolog.Logger) *AdvisoryLock {
	return &AdvisoryLock{db: db, log: log}
}

func (l *AdvisoryLock) Acquire(ctx context.Context) (func(), error) {
	// Session locks belong to a connection; pin one for the whole section.
	conn, err := l.db.Conn(ctx)
	if err != nil {
		return nil, fmt.Errorf("advisory lock: %w", err)
	}

	if _, err := conn.ExecContext(ctx, `SELECT pg_advisory_lock($1)`, registrationLockID); err != nil {
		_ = conn.Close()
		return nil, fmt.Errorf("advisory lock: %w", err)
	}

	return func() {
		if _, err := conn.ExecContext(context.Background(), `SELECT pg_advisory_unlock($1)`, registrationLockID); err != nil {
			l.log.Warn().Err(err).Msg("advisory unlock failed")
		}
		_ = conn.Close()
	}, nil
}
