package memory

import (
	"context"
	"errors"
	"fmt"
	"testing"

	"github.com/antifraud/antifraud-system/internal/core/domain"
)

func TestAccountRepository_CreateFindUpdate(t *testing.T) {
	repo := NewAccountRepository()
	ctx := context.Background()

	a, err := repo.Create(ctx, &domain.Account{Username: "alice", Role: domain.RoleAdministrator})
	if err != nil {
		t.Fatalf("create: %v", err)
	}
	if a.ID != 1 || a.Version != 1 {
		t.Fatalf("expected id=1 version=1, got %d/%d", a.ID, a.Version)
	}
	if _, err := repo.Create(ctx, &domain.Account{Username: "alice"}); !errors.Is(err, domain.ErrDuplicateUsername) {
		t.Fatalf("expected ErrDuplicateUsername, got %v", err)
	}

	a.Locked = true
	updated, err := repo.Update(ctx, a)
	if err != nil {
		t.Fatalf("update: %v", err)
	}
	if updated.Version != 2 || !updated.Locked {
		t.Fatalf("unexpected update result: %+v", updated)
	}

	// a still carries version 1.
	if _, err := repo.Update(ctx, a); !errors.Is(err, domain.ErrAccountConflict) {
		t.Fatalf("expected ErrAccountConflict, got %v", err)
	}
	if _, err := repo.Update(ctx, &domain.Account{Username: "ghost"}); !errors.Is(err, domain.ErrAccountNotFound) {
		t.Fatalf("expected ErrAccountNotFound, got %v", err)
	}
}

func TestAccountRepository_ReturnsCopies(t *testing.T) {
	repo := NewAccountRepository()
	ctx := context.Background()
	_, _ = repo.Create(ctx, &domain.Account{Username: "alice", Role: domain.RoleMerchant})

	a, _ := repo.FindByUsername(ctx, "alice")
	a.Role = domain.RoleSupport

	b, _ := repo.FindByUsername(ctx, "alice")
	if b.Role != domain.RoleMerchant {
		t.Fatalf("mutation leaked into store")
	}
}

func TestAccountRepository_ListDeleteCount(t *testing.T) {
	repo := NewAccountRepository()
	ctx := context.Background()
	for i := 0; i < 5; i++ {
		if _, err := repo.Create(ctx, &domain.Account{Username: fmt.Sprintf("u%d", 4-i)}); err != nil {
			t.Fatal(err)
		}
	}

	list, _ := repo.List(ctx)
	for i := 1; i < len(list); i++ {
		if list[i-1].ID >= list[i].ID {
			t.Fatalf("list not ordered by id: %d then %d", list[i-1].ID, list[i].ID)
		}
	}

	if err := repo.Delete(ctx, "u0"); err != nil {
		t.Fatal(err)
	}
	if err := repo.Delete(ctx, "u0"); !errors.Is(err, domain.ErrAccountNotFound) {
		t.Fatalf("expected ErrAccountNotFound, got %v", err)
	}
	if n, _ := repo.Count(ctx); n != 4 {
		t.Fatalf("expected 4, got %d", n)
	}

	_ = repo.DeleteAll(ctx)
	if n, _ := repo.Count(ctx); n != 0 {
		t.Fatalf("expected empty store, got %d", n)
	}
	a, _ := repo.Create(ctx, &domain.Account{Username: "again"})
	if a.ID != 6 {
		t.Fatalf("expected sequence to continue at 6, got %d", a.ID)
	}
}

func TestBlocklistRepository(t *testing.T) {
	repo := NewBlocklistRepository()
	ctx := context.Background()

	for _, ip := range []string{"10.0.0.3", "10.0.0.1", "10.0.0.2"} {
		if _, err := repo.Add(ctx, domain.KindSuspiciousIP, ip); err != nil {
			t.Fatal(err)
		}
	}
	if _, err := repo.Add(ctx, domain.KindSuspiciousIP, "10.0.0.1"); !errors.Is(err, domain.ErrEntryExists) {
		t.Fatalf("expected ErrEntryExists, got %v", err)
	}

	cards, _ := repo.List(ctx, domain.KindStolenCard)
	if len(cards) != 0 {
		t.Fatalf("expected no cards, got %d", len(cards))
	}

	if err := repo.Remove(ctx, domain.KindSuspiciousIP, "10.0.0.1"); err != nil {
		t.Fatal(err)
	}
	if err := repo.Remove(ctx, domain.KindSuspiciousIP, "10.0.0.1"); !errors.Is(err, domain.ErrEntryNotFound) {
		t.Fatalf("expected ErrEntryNotFound, got %v", err)
	}

	ips, _ := repo.List(ctx, domain.KindSuspiciousIP)
	if len(ips) != 2 || ips[0].Value != "10.0.0.3" || ips[1].Value != "10.0.0.2" {
		t.Fatalf("unexpected list: %+v", ips)
	}
}

func TestAuditRepository_NewestFirst(t *testing.T) {
	repo := NewAuditRepository()
	ctx := context.Background()

	for _, a := range []domain.AuditAction{domain.ActionRegistered, domain.ActionRoleChanged, domain.ActionLocked} {
		_ = repo.Insert(ctx, &domain.AuditEvent{Username: "bob", Action: a})
	}
	_ = repo.Insert(ctx, &domain.AuditEvent{Username: "eve", Action: domain.ActionRegistered})

	got, _ := repo.ListByUsername(ctx, "bob", 2)
	if len(got) != 2 || got[0].Action != domain.ActionLocked || got[1].Action != domain.ActionRoleChanged {
		t.Fatalf("unexpected trail: %+v", got)
	}
}
