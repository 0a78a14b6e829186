//go:build integration

package postgres

import (
	"context"
	"database/sql"
	"errors"
	"os"
	"testing"
	"time"

	"github.com/rs/zerolog"

	"github.com/antifraud/antifraud-system/internal/core/domain"
)

// Run with: POSTGRES_DSN=postgres://... go test -tags integration ./...
func testDB(t *testing.T) *sql.DB {
	t.Helper()
	dsn := os.Getenv("POSTGRES_DSN")
	if dsn == "" {
		t.Skip("POSTGRES_DSN not set")
	}
	if err := Migrate(dsn); err != nil {
		t.Fatalf("migrate: %v", err)
	}

	db, err := Open(context.Background(), dsn)
	if err != nil {
		t.Fatalf("open: %v", err)
	}
	t.Cleanup(func() {
		_, _ = db.Exec(`TRUNCATE accounts, blocklist, account_audit`)
		_ = db.Close()
	})
	if _, err := db.Exec(`TRUNCATE accounts, blocklist, account_audit`); err != nil {
		t.Fatalf("truncate: %v", err)
	}
	return db
}

func newAccount(username string) *domain.Account {
	now := time.Now().UTC()
	return &domain.Account{
		Name:         username,
		Username:     username,
		PasswordHash: "hash",
		Role:         domain.RoleMerchant,
		Locked:       true,
		CreatedAt:    now,
		UpdatedAt:    now,
	}
}

func TestAccountRepository_CreateDuplicate(t *testing.T) {
	repo := NewAccountRepository(testDB(t))
	ctx := context.Background()

	if _, err := repo.Create(ctx, newAccount("alice")); err != nil {
		t.Fatalf("create: %v", err)
	}
	if _, err := repo.Create(ctx, newAccount("alice")); !errors.Is(err, domain.ErrDuplicateUsername) {
		t.Fatalf("expected ErrDuplicateUsername, got %v", err)
	}
}

func TestAccountRepository_UpdateVersioning(t *testing.T) {
	repo := NewAccountRepository(testDB(t))
	ctx := context.Background()

	created, err := repo.Create(ctx, newAccount("bob"))
	if err != nil {
		t.Fatalf("create: %v", err)
	}

	stale := *created
	created.Locked = false
	updated, err := repo.Update(ctx, created)
	if err != nil {
		t.Fatalf("update: %v", err)
	}
	if updated.Version != created.Version+1 || updated.Locked {
		t.Fatalf("unexpected update result %+v", updated)
	}

	stale.Role = domain.RoleSupport
	if _, err := repo.Update(ctx, &stale); !errors.Is(err, domain.ErrAccountConflict) {
		t.Fatalf("expected ErrAccountConflict, got %v", err)
	}

	ghost := newAccount("ghost")
	ghost.Version = 1
	if _, err := repo.Update(ctx, ghost); !errors.Is(err, domain.ErrAccountNotFound) {
		t.Fatalf("expected ErrAccountNotFound, got %v", err)
	}
}

func TestBlocklistRepository_AddDuplicate(t *testing.T) {
	repo := NewBlocklistRepository(testDB(t))
	ctx := context.Background()

	if _, err := repo.Add(ctx, domain.KindStolenCard, "4000008449433403"); err != nil {
		t.Fatalf("add: %v", err)
	}
	if _, err := repo.Add(ctx, domain.KindStolenCard, "4000008449433403"); !errors.Is(err, domain.ErrEntryExists) {
		t.Fatalf("expected ErrEntryExists, got %v", err)
	}
}

func TestAdvisoryLock_Exclusive(t *testing.T) {
	db := testDB(t)
	lock := NewAdvisoryLock(db, zerolog.Nop())

	release, err := lock.Acquire(context.Background())
	if err != nil {
		t.Fatalf("acquire: %v", err)
	}

	ctx, cancel := context.WithTimeout(context.Background(), 200*time.Millisecond)
	defer cancel()
	if release2, err := lock.Acquire(ctx); err == nil {
		release2()
		t.Fatal("second holder acquired a held advisory lock")
	}

	release()

	release3, err := lock.Acquire(context.Background())
	if err != nil {
		t.Fatalf("acquire after release: %v", err)
	}
	release3()
}
