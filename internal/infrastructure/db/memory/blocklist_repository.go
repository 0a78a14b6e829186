package memory

import (
	"context"
	"sync"

	"github.com/antifraud/antifraud-system/internal/core/domain"
)

type BlocklistRepository struct {
	mu      sync.RWMutex
	seq     int64
	entries []*domain.BlocklistEntry
}

func NewBlocklistRepository() *BlocklistRepository {
	return &BlocklistRepository{}
}

func (r *BlocklistRepository) Add(_ context.Context, kind domain.BlocklistKind, value string) (*domain.BlocklistEntry, error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	if r.indexOf(kind, value) >= 0 {
		return nil, domain.ErrEntryExists
	}
	r.seq++
	e := &domain.BlocklistEntry{ID: r.seq, Kind: kind, Value: value}
	r.entries = append(r.entries, e)
	c := *e
	return &c, nil
}

func (r *BlocklistRepository) Remove(_ context.Context, kind domain.BlocklistKind, value string) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	i := r.indexOf(kind, value)
	if i < 0 {
		return domain.ErrEntryNotFound
	}
	r.entries = append(r.entries[:i], r.entries[i+1:]...)
	return nil
}

// List returns entries in insertion order, which is ascending ID.
func (r *BlocklistRepository) List(_ context.Context, kind domain.BlocklistKind) ([]*domain.BlocklistEntry, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	out := make([]*domain.BlocklistEntry, 0)
	for _, e := range r.entries {
		if e.Kind == kind {
			c := *e
			out = append(out, &c)
		}
	}
	return out, nil
}

func (r *BlocklistRepository) indexOf(kind domain.BlocklistKind, value string) int {
	for i, e := range r.entries {
		if e.Kind == kind && e.Value == value {
			return i
		}
	}
	return -1
}
