package ports

import (
	"context"

	"github.com/antifraud/antifraud-system/internal/core/domain"
)

// RegisterInput is the DTO passed from the transport layer to AccountService.
type RegisterInput struct {
	Name     string
	Username string
	Password string
}

// AccountService owns every role and lock transition of an account.
type AccountService interface {
	Register(ctx context.Context, in RegisterInput) (*domain.Account, error)
	ChangeRole(ctx context.Context, username, roleName string) (*domain.Account, error)
	ChangeLock(ctx context.Context, username string, lock bool) error
	Delete(ctx context.Context, username string) error
	List(ctx context.Context) ([]*domain.Account, error)
}

// AuthService resolves request credentials to accounts.
type AuthService interface {
	// Authenticate checks a username/password pair. Locked accounts yield
	// domain.ErrAccountLocked.
	Authenticate(ctx context.Context, username, password string) (*domain.Account, error)
	// Resolve loads the current state of an already-authenticated principal,
	// e.g. the subject of a verified token.
	Resolve(ctx context.Context, username string) (*domain.Account, error)
	IssueToken(ctx context.Context, username, password string) (string, *domain.Account, error)
	VerifyToken(token string) (username string, err error)
}
