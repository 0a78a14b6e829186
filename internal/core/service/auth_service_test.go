package service

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/golang-jwt/jwt/v5"
	"github.com/rs/zerolog"

	"github.com/antifraud/antifraud-system/internal/core/domain"
)

func seedAuth(t *testing.T) (*AuthService, *AccountService) {
	t.Helper()
	repo := newStubAccountRepo()
	accounts := NewAccountService(repo, plainHasher{}, zerolog.Nop())
	register(t, accounts, "carol") // admin, unlocked
	register(t, accounts, "dave")  // merchant, locked
	return NewAuthService(repo, plainHasher{}, "secret", time.Hour, zerolog.Nop()), accounts
}

func TestAuthService_Authenticate_Success(t *testing.T) {
	svc, _ := seedAuth(t)

	acc, err := svc.Authenticate(context.Background(), "carol", "secret")
	if err != nil {
		t.Fatalf("authenticate failed: %v", err)
	}
	if acc.Role != domain.RoleAdministrator {
		t.Fatalf("unexpected role: %s", acc.Role)
	}
}

func TestAuthService_Authenticate_Failures(t *testing.T) {
	svc, _ := seedAuth(t)

	tests := []struct {
		name     string
		username string
		password string
		want     error
	}{
		{"empty", "", "", domain.ErrInvalidCredentials},
		{"unknown user", "ghost", "secret", domain.ErrInvalidCredentials},
		{"wrong password", "carol", "nope", domain.ErrInvalidCredentials},
		{"locked", "dave", "secret", domain.ErrAccountLocked},
		{"locked with wrong password", "dave", "nope", domain.ErrInvalidCredentials},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if _, err := svc.Authenticate(context.Background(), tt.username, tt.password); !errors.Is(err, tt.want) {
				t.Fatalf("expected %v, got %v", tt.want, err)
			}
		})
	}
}

func TestAuthService_Resolve_SeesLockChanges(t *testing.T) {
	svc, accounts := seedAuth(t)

	if _, err := svc.Resolve(context.Background(), "dave"); !errors.Is(err, domain.ErrAccountLocked) {
		t.Fatalf("expected ErrAccountLocked, got %v", err)
	}
	if err := accounts.ChangeLock(context.Background(), "dave", false); err != nil {
		t.Fatal(err)
	}
	if _, err := svc.Resolve(context.Background(), "dave"); err != nil {
		t.Fatalf("expected dave resolvable after unlock, got %v", err)
	}
	if err := accounts.Delete(context.Background(), "dave"); err != nil {
		t.Fatal(err)
	}
	if _, err := svc.Resolve(context.Background(), "dave"); !errors.Is(err, domain.ErrInvalidCredentials) {
		t.Fatalf("expected ErrInvalidCredentials for deleted account, got %v", err)
	}
}

func TestAuthService_IssueAndVerifyToken(t *testing.T) {
	svc, _ := seedAuth(t)

	token, acc, err := svc.IssueToken(context.Background(), "carol", "secret")
	if err != nil {
		t.Fatalf("issue token: %v", err)
	}
	if token == "" || acc.Username != "carol" {
		t.Fatalf("unexpected result: token=%q acc=%+v", token, acc)
	}

	claims := jwt.MapClaims{}
	parsed, err := jwt.ParseWithClaims(token, claims, func(*jwt.Token) (interface{}, error) {
		return []byte("secret"), nil
	})
	if err != nil || !parsed.Valid {
		t.Fatalf("token invalid: %v", err)
	}
	if claims["role"] != "ADMINISTRATOR" {
		t.Fatalf("expected role claim ADMINISTRATOR, got %v", claims["role"])
	}

	username, err := svc.VerifyToken(token)
	if err != nil || username != "carol" {
		t.Fatalf("verify: username=%q err=%v", username, err)
	}
}

func TestAuthService_VerifyToken_Rejects(t *testing.T) {
	svc, _ := seedAuth(t)

	other := NewAuthService(newStubAccountRepo(), plainHasher{}, "other-secret", time.Hour, zerolog.Nop())
	foreign, err := other.generateToken(&domain.Account{Username: "carol", Role: domain.RoleAdministrator})
	if err != nil {
		t.Fatal(err)
	}

	expired, err := jwt.NewWithClaims(jwt.SigningMethodHS256, jwt.MapClaims{
		"username": "carol",
		"exp":      time.Now().Add(-time.Minute).Unix(),
	}).SignedString([]byte("secret"))
	if err != nil {
		t.Fatal(err)
	}

	noExp, err := jwt.NewWithClaims(jwt.SigningMethodHS256, jwt.MapClaims{
		"username": "carol",
	}).SignedString([]byte("secret"))
	if err != nil {
		t.Fatal(err)
	}

	for name, tok := range map[string]string{
		"garbage":      "not-a-token",
		"wrong secret": foreign,
		"expired":      expired,
		"no expiry":    noExp,
	} {
		if _, err := svc.VerifyToken(tok); !errors.Is(err, domain.ErrInvalidCredentials) {
			t.Errorf("%s: expected ErrInvalidCredentials, got %v", name, err)
		}
	}
}

func TestAuthService_IssueToken_LockedAccount(t *testing.T) {
	svc, _ := seedAuth(t)

	if _, _, err := svc.IssueToken(context.Background(), "dave", "secret"); !errors.Is(err, domain.ErrAccountLocked) {
		t.Fatalf("expected ErrAccountLocked, got %v", err)
	}
}
