package ports

import (
	"context"

	"github.com/antifraud/antifraud-system/internal/core/domain"
)

// AuditRepository persists the account audit trail.
type AuditRepository interface {
	Insert(ctx context.Context, event *domain.AuditEvent) error
	// ListByUsername returns the newest events first, at most limit of them.
	ListByUsername(ctx context.Context, username string, limit int) ([]*domain.AuditEvent, error)
}

// AuditPublisher forwards audit events to an external broker.
type AuditPublisher interface {
	Publish(ctx context.Context, event *domain.AuditEvent) error
}

// AuditRecorder accepts events from the request path without blocking it.
type AuditRecorder interface {
	Record(event domain.AuditEvent)
}

// AuditService processes audit events and serves the trail.
type AuditService interface {
	Process(ctx context.Context, event domain.AuditEvent) error
	Trail(ctx context.Context, username string, limit int) ([]*domain.AuditEvent, error)
}
