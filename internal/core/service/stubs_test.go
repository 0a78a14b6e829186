package service

import (
	"context"
	"errors"
	"sort"
	"sync"

	"github.com/antifraud/antifraud-system/internal/core/domain"
)

type stubAccountRepo struct {
	mu     sync.Mutex
	nextID int64
	byName map[string]*domain.Account
	// countErr forces Count to fail when set.
	countErr error
}

func newStubAccountRepo() *stubAccountRepo {
	return &stubAccountRepo{byName: make(map[string]*domain.Account)}
}

func cloneAccount(a *domain.Account) *domain.Account {
	if a == nil {
		return nil
	}
	c := *a
	return &c
}

func (r *stubAccountRepo) FindByUsername(_ context.Context, username string) (*domain.Account, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	a, ok := r.byName[username]
	if !ok {
		return nil, domain.ErrAccountNotFound
	}
	return cloneAccount(a), nil
}

func (r *stubAccountRepo) Create(_ context.Context, account *domain.Account) (*domain.Account, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	if _, exists := r.byName[account.Username]; exists {
		return nil, domain.ErrDuplicateUsername
	}
	r.nextID++
	c := cloneAccount(account)
	c.ID = r.nextID
	c.Version = 1
	r.byName[c.Username] = c
	return cloneAccount(c), nil
}

func (r *stubAccountRepo) Update(_ context.Context, account *domain.Account) (*domain.Account, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	cur, ok := r.byName[account.Username]
	if !ok {
		return nil, domain.ErrAccountNotFound
	}
	if cur.Version != account.Version {
		return nil, domain.ErrAccountConflict
	}
	c := cloneAccount(account)
	c.Version++
	r.byName[c.Username] = c
	return cloneAccount(c), nil
}

func (r *stubAccountRepo) Delete(_ context.Context, username string) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	if _, ok := r.byName[username]; !ok {
		return domain.ErrAccountNotFound
	}
	delete(r.byName, username)
	return nil
}

func (r *stubAccountRepo) DeleteAll(_ context.Context) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.byName = make(map[string]*domain.Account)
	return nil
}

func (r *stubAccountRepo) Count(_ context.Context) (int64, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	if r.countErr != nil {
		return 0, r.countErr
	}
	return int64(len(r.byName)), nil
}

func (r *stubAccountRepo) List(_ context.Context) ([]*domain.Account, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	out := make([]*domain.Account, 0, len(r.byName))
	for _, a := range r.byName {
		out = append(out, cloneAccount(a))
	}
	sort.Slice(out, func(i, j int) bool { return out[i].ID < out[j].ID })
	return out, nil
}

// plainHasher keeps tests fast; it is not a real hash.
type plainHasher struct{}

func (plainHasher) Hash(p string) (string, error) { return "h:" + p, nil }

func (plainHasher) Compare(hash, p string) error {
	if hash != "h:"+p {
		return errors.New("mismatch")
	}
	return nil
}

type captureRecorder struct {
	mu     sync.Mutex
	events []domain.AuditEvent
}

func (c *captureRecorder) Record(e domain.AuditEvent) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.events = append(c.events, e)
}

func (c *captureRecorder) snapshot() []domain.AuditEvent {
	c.mu.Lock()
	defer c.mu.Unlock()
	return append([]domain.AuditEvent(nil), c.events...)
}
