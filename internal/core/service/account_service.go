package service

import (
	"context"
	"errors"
	"fmt"
	"sync"
	"time"

	"github.com/rs/zerolog"

	"github.com/antifraud/antifraud-system/internal/core/domain"
	"github.com/antifraud/antifraud-system/internal/core/ports"
	"github.com/antifraud/antifraud-system/internal/pkg/metrics"
)

// AccountService implements the account authorization state machine:
// bootstrap registration, role changes, lock changes and deletion.
type AccountService struct {
	repo   ports.AccountRepository
	hasher ports.PasswordHasher
	lock   ports.RegistrationLock
	audit  ports.AuditRecorder
	log    zerolog.Logger

	// mu serialises the count-then-insert bootstrap decision within this
	// process; lock extends it across replicas when configured.
	mu sync.Mutex
}

// AccountOption configures optional collaborators of AccountService.
type AccountOption func(*AccountService)

// WithRegistrationLock adds a cross-process lock around registration.
func WithRegistrationLock(l ports.RegistrationLock) AccountOption {
	return func(s *AccountService) { s.lock = l }
}

// WithAuditRecorder sends every applied change to r.
func WithAuditRecorder(r ports.AuditRecorder) AccountOption {
	return func(s *AccountService) { s.audit = r }
}

func NewAccountService(repo ports.AccountRepository, hasher ports.PasswordHasher, log zerolog.Logger, opts ...AccountOption) *AccountService {
	s := &AccountService{repo: repo, hasher: hasher, log: log}
	for _, opt := range opts {
		opt(s)
	}
	return s
}

// Register creates an account. The first account in an empty store becomes an
// unlocked ADMINISTRATOR; every other account starts as a locked MERCHANT.
func (s *AccountService) Register(ctx context.Context, in ports.RegisterInput) (*domain.Account, error) {
	// Fail fast on a taken username before paying for the hash.
	if err := s.ensureUsernameFree(ctx, in.Username); err != nil {
		return nil, err
	}

	hash, err := s.hasher.Hash(in.Password)
	if err != nil {
		return nil, fmt.Errorf("register: hash password: %w", err)
	}

	now := time.Now().UTC()
	created, err := s.createExclusive(ctx, &domain.Account{
		Name:         in.Name,
		Username:     in.Username,
		PasswordHash: hash,
		CreatedAt:    now,
		UpdatedAt:    now,
	})
	if err != nil {
		return nil, err
	}

	metrics.AccountsRegisteredTotal.WithLabelValues(created.Role.String()).Inc()
	s.record(ctx, created.Username, domain.ActionRegistered, created.Role.String())
	s.log.Info().
		Int64("id", created.ID).
		Str("username", created.Username).
		Str("role", created.Role.String()).
		Bool("locked", created.Locked).
		Msg("account registered")

	return created, nil
}

// createExclusive runs the duplicate check, the emptiness check and the insert
// as one critical section so two registrations can never both observe an
// empty store.
func (s *AccountService) createExclusive(ctx context.Context, acc *domain.Account) (*domain.Account, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.lock != nil {
		release, err := s.lock.Acquire(ctx)
		if err != nil {
			return nil, fmt.Errorf("register: acquire registration lock: %w", err)
		}
		defer release()
	}

	if err := s.ensureUsernameFree(ctx, acc.Username); err != nil {
		return nil, err
	}

	count, err := s.repo.Count(ctx)
	if err != nil {
		return nil, fmt.Errorf("register: count accounts: %w", err)
	}
	acc.Role, acc.Locked = domain.BootstrapAssignment(count == 0)

	created, err := s.repo.Create(ctx, acc)
	if err != nil {
		if errors.Is(err, domain.ErrDuplicateUsername) {
			return nil, err
		}
		return nil, fmt.Errorf("register: %w", err)
	}
	return created, nil
}

func (s *AccountService) ensureUsernameFree(ctx context.Context, username string) error {
	_, err := s.repo.FindByUsername(ctx, username)
	switch {
	case err == nil:
		return domain.ErrDuplicateUsername
	case errors.Is(err, domain.ErrAccountNotFound):
		return nil
	default:
		return fmt.Errorf("register: lookup username: %w", err)
	}
}

// ChangeRole moves an account to MERCHANT or SUPPORT.
func (s *AccountService) ChangeRole(ctx context.Context, username, roleName string) (*domain.Account, error) {
	role, err := domain.ParseRole(roleName)
	if err != nil {
		s.countChange("role", err)
		return nil, err
	}

	acc, err := s.repo.FindByUsername(ctx, username)
	if err != nil {
		s.countChange("role", err)
		return nil, err
	}

	if err := acc.CanChangeRoleTo(role); err != nil {
		s.countChange("role", err)
		return nil, err
	}

	previous := acc.Role
	acc.Role = role
	acc.UpdatedAt = time.Now().UTC()

	updated, err := s.repo.Update(ctx, acc)
	if err != nil {
		s.countChange("role", err)
		return nil, err
	}

	s.countChange("role", nil)
	s.record(ctx, username, domain.ActionRoleChanged, previous.String()+" -> "+role.String())
	s.log.Info().
		Str("username", username).
		Str("from", previous.String()).
		Str("to", role.String()).
		Msg("account role changed")

	return updated, nil
}

// ChangeLock locks or unlocks an account. Administrators can never be locked.
func (s *AccountService) ChangeLock(ctx context.Context, username string, lock bool) error {
	action, auditAction := "unlock", domain.ActionUnlocked
	if lock {
		action, auditAction = "lock", domain.ActionLocked
	}

	acc, err := s.repo.FindByUsername(ctx, username)
	if err != nil {
		s.countChange(action, err)
		return err
	}

	if err := acc.CanSetLock(lock); err != nil {
		s.countChange(action, err)
		return err
	}

	acc.Locked = lock
	acc.UpdatedAt = time.Now().UTC()

	if _, err := s.repo.Update(ctx, acc); err != nil {
		s.countChange(action, err)
		return err
	}

	s.countChange(action, nil)
	s.record(ctx, username, auditAction, "")
	s.log.Info().Str("username", username).Bool("locked", lock).Msg("account lock changed")

	return nil
}

// Delete removes an account. Deleting a missing account reports
// domain.ErrAccountNotFound, including on retry after a successful delete.
func (s *AccountService) Delete(ctx context.Context, username string) error {
	if err := s.repo.Delete(ctx, username); err != nil {
		s.countChange("delete", err)
		return err
	}

	s.countChange("delete", nil)
	s.record(ctx, username, domain.ActionDeleted, "")
	s.log.Info().Str("username", username).Msg("account deleted")
	return nil
}

// List returns all accounts in insertion order.
func (s *AccountService) List(ctx context.Context) ([]*domain.Account, error) {
	accounts, err := s.repo.List(ctx)
	if err != nil {
		return nil, fmt.Errorf("list accounts: %w", err)
	}
	return accounts, nil
}

func (s *AccountService) record(ctx context.Context, username string, action domain.AuditAction, detail string) {
	if s.audit == nil {
		return
	}
	s.audit.Record(domain.AuditEvent{
		Username:   username,
		Action:     action,
		Actor:      ActorFrom(ctx),
		Detail:     detail,
		OccurredAt: time.Now().UTC(),
	})
}

func (s *AccountService) countChange(action string, err error) {
	metrics.AccountChangesTotal.WithLabelValues(action, changeResult(err)).Inc()
}

func changeResult(err error) string {
	switch {
	case err == nil:
		return "ok"
	case errors.Is(err, domain.ErrAccountNotFound):
		return "not_found"
	case errors.Is(err, domain.ErrUnknownRole):
		return "unknown_role"
	case errors.Is(err, domain.ErrInvalidRoleTarget):
		return "invalid_role_target"
	case errors.Is(err, domain.ErrRoleUnchanged):
		return "role_unchanged"
	case errors.Is(err, domain.ErrInvalidLockTarget):
		return "invalid_lock_target"
	case errors.Is(err, domain.ErrAccountConflict):
		return "conflict"
	default:
		return "error"
	}
}
