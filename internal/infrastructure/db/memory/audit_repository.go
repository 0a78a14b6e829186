package memory

import (
	"context"
	"sync"

	"github.com/antifraud/antifraud-system/internal/core/domain"
)

type AuditRepository struct {
	mu     sync.RWMutex
	events []domain.AuditEvent
}

func NewAuditRepository() *AuditRepository {
	return &AuditRepository{}
}

func (r *AuditRepository) Insert(_ context.Context, event *domain.AuditEvent) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.events = append(r.events, *event)
	return nil
}

func (r *AuditRepository) ListByUsername(_ context.Context, username string, limit int) ([]*domain.AuditEvent, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	out := make([]*domain.AuditEvent, 0)
	for i := len(r.events) - 1; i >= 0 && len(out) < limit; i-- {
		if r.events[i].Username == username {
			e := r.events[i]
			out = append(out, &e)
		}
	}
	return out, nil
}
