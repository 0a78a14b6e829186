package service

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/golang-jwt/jwt/v5"
	"github.com/rs/zerolog"

	"github.com/antifraud/antifraud-system/internal/core/domain"
	"github.com/antifraud/antifraud-system/internal/core/ports"
	"github.com/antifraud/antifraud-system/internal/pkg/metrics"
)

// AuthService verifies credentials and issues bearer tokens.
type AuthService struct {
	repo      ports.AccountRepository
	hasher    ports.PasswordHasher
	jwtSecret string
	tokenTTL  time.Duration
	log       zerolog.Logger
}

func NewAuthService(repo ports.AccountRepository, hasher ports.PasswordHasher, jwtSecret string, tokenTTL time.Duration, log zerolog.Logger) *AuthService {
	if tokenTTL <= 0 {
		tokenTTL = 24 * time.Hour
	}
	return &AuthService{repo: repo, hasher: hasher, jwtSecret: jwtSecret, tokenTTL: tokenTTL, log: log}
}

// Authenticate checks username and password. Unknown usernames and wrong
// passwords are indistinguishable to the caller.
func (s *AuthService) Authenticate(ctx context.Context, username, password string) (*domain.Account, error) {
	if username == "" || password == "" {
		return nil, s.fail("invalid_credentials", domain.ErrInvalidCredentials)
	}

	acc, err := s.repo.FindByUsername(ctx, username)
	if err != nil {
		if errors.Is(err, domain.ErrAccountNotFound) {
			return nil, s.fail("invalid_credentials", domain.ErrInvalidCredentials)
		}
		return nil, fmt.Errorf("authenticate: %w", err)
	}

	if s.hasher.Compare(acc.PasswordHash, password) != nil {
		return nil, s.fail("invalid_credentials", domain.ErrInvalidCredentials)
	}
	if acc.Locked {
		return nil, s.fail("locked", domain.ErrAccountLocked)
	}
	return acc, nil
}

// Resolve reloads the account behind a verified token so role and lock
// changes take effect on the next request.
func (s *AuthService) Resolve(ctx context.Context, username string) (*domain.Account, error) {
	acc, err := s.repo.FindByUsername(ctx, username)
	if err != nil {
		if errors.Is(err, domain.ErrAccountNotFound) {
			return nil, s.fail("invalid_token", domain.ErrInvalidCredentials)
		}
		return nil, fmt.Errorf("resolve: %w", err)
	}
	if acc.Locked {
		return nil, s.fail("locked", domain.ErrAccountLocked)
	}
	return acc, nil
}

func (s *AuthService) IssueToken(ctx context.Context, username, password string) (string, *domain.Account, error) {
	acc, err := s.Authenticate(ctx, username, password)
	if err != nil {
		return "", nil, err
	}

	token, err := s.generateToken(acc)
	if err != nil {
		return "", nil, fmt.Errorf("issue token: %w", err)
	}

	s.log.Debug().Str("username", acc.Username).Msg("token issued")
	return token, acc, nil
}

// VerifyToken validates signature and expiry and returns the subject.
func (s *AuthService) VerifyToken(token string) (string, error) {
	claims := jwt.MapClaims{}
	parsed, err := jwt.ParseWithClaims(token, claims, func(t *jwt.Token) (interface{}, error) {
		return []byte(s.jwtSecret), nil
	}, jwt.WithValidMethods([]string{jwt.SigningMethodHS256.Alg()}), jwt.WithExpirationRequired())
	if err != nil || !parsed.Valid {
		return "", s.fail("invalid_token", domain.ErrInvalidCredentials)
	}

	username, _ := claims["username"].(string)
	if username == "" {
		return "", s.fail("invalid_token", domain.ErrInvalidCredentials)
	}
	return username, nil
}

func (s *AuthService) generateToken(acc *domain.Account) (string, error) {
	claims := jwt.MapClaims{
		"username": acc.Username,
		"role":     acc.Role.String(),
		"exp":      time.Now().Add(s.tokenTTL).Unix(),
	}

	t := jwt.NewWithClaims(jwt.SigningMethodHS256, claims)
	return t.SignedString([]byte(s.jwtSecret))
}

func (s *AuthService) fail(reason string, err error) error {
	metrics.AuthFailuresTotal.WithLabelValues(reason).Inc()
	return err
}
