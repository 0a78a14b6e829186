// Package memory provides process-local repositories used by tests and by the
// "memory" store driver. State is lost on restart.
package memory

import (
	"context"
	"sort"
	"sync"

	"github.com/antifraud/antifraud-system/internal/core/domain"
)

type AccountRepository struct {
	mu       sync.RWMutex
	seq      int64
	accounts map[string]*domain.Account
}

func NewAccountRepository() *AccountRepository {
	return &AccountRepository{accounts: make(map[string]*domain.Account)}
}

func cloneAccount(a *domain.Account) *domain.Account {
	c := *a
	return &c
}

func (r *AccountRepository) FindByUsername(_ context.Context, username string) (*domain.Account, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	a, ok := r.accounts[username]
	if !ok {
		return nil, domain.ErrAccountNotFound
	}
	return cloneAccount(a), nil
}

func (r *AccountRepository) Create(_ context.Context, account *domain.Account) (*domain.Account, error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	if _, exists := r.accounts[account.Username]; exists {
		return nil, domain.ErrDuplicateUsername
	}

	r.seq++
	stored := cloneAccount(account)
	stored.ID = r.seq
	stored.Version = 1
	r.accounts[stored.Username] = stored
	return cloneAccount(stored), nil
}

func (r *AccountRepository) Update(_ context.Context, account *domain.Account) (*domain.Account, error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	current, ok := r.accounts[account.Username]
	if !ok {
		return nil, domain.ErrAccountNotFound
	}
	if current.Version != account.Version {
		return nil, domain.ErrAccountConflict
	}

	stored := cloneAccount(current)
	stored.Name = account.Name
	stored.Role = account.Role
	stored.Locked = account.Locked
	stored.UpdatedAt = account.UpdatedAt
	stored.Version++
	r.accounts[stored.Username] = stored
	return cloneAccount(stored), nil
}

func (r *AccountRepository) Delete(_ context.Context, username string) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	if _, ok := r.accounts[username]; !ok {
		return domain.ErrAccountNotFound
	}
	delete(r.accounts, username)
	return nil
}

// DeleteAll empties the store. The ID sequence keeps counting.
func (r *AccountRepository) DeleteAll(_ context.Context) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	r.accounts = make(map[string]*domain.Account)
	return nil
}

func (r *AccountRepository) Count(_ context.Context) (int64, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	return int64(len(r.accounts)), nil
}

func (r *AccountRepository) List(_ context.Context) ([]*domain.Account, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	out := make([]*domain.Account, 0, len(r.accounts))
	for _, a := range r.accounts {
		out = append(out, cloneAccount(a))
	}
	sort.Slice(out, func(i, j int) bool { return out[i].ID < out[j].ID })
	return out, nil
}
