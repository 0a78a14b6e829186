package ports

import (
	"context"

	"github.com/antifraud/antifraud-system/internal/core/domain"
)

// AccountRepository defines persistence for accounts keyed by username.
type AccountRepository interface {
	// FindByUsername returns domain.ErrAccountNotFound when no account matches.
	FindByUsername(ctx context.Context, username string) (*domain.Account, error)
	// Create assigns the next ID and Version 1. It returns
	// domain.ErrDuplicateUsername when the username is taken.
	Create(ctx context.Context, account *domain.Account) (*domain.Account, error)
	// Update persists Name, Role and Locked only if the stored Version still
	// equals account.Version, then bumps it. A stale version yields
	// domain.ErrAccountConflict; a missing account domain.ErrAccountNotFound.
	Update(ctx context.Context, account *domain.Account) (*domain.Account, error)
	Delete(ctx context.Context, username string) error
	DeleteAll(ctx context.Context) error
	Count(ctx context.Context) (int64, error)
	// List returns all accounts ordered by ascending ID.
	List(ctx context.Context) ([]*domain.Account, error)
}

// PasswordHasher produces and verifies opaque credential hashes.
type PasswordHasher interface {
	Hash(password string) (string, error)
	Compare(hash, password string) error
}

// RegistrationLock provides mutual exclusion for the bootstrap decision
// across service replicas. The returned release func must always be called.
type RegistrationLock interface {
	Acquire(ctx context.Context) (release func(), err error)
}
