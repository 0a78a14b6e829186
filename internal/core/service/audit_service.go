package service

import (
	"context"
	"fmt"

	"github.com/rs/zerolog"

	"github.com/antifraud/antifraud-system/internal/core/domain"
	"github.com/antifraud/antifraud-system/internal/core/ports"
	"github.com/antifraud/antifraud-system/internal/pkg/metrics"
)

const (
	defaultTrailLimit = 50
	maxTrailLimit     = 500
)

// AuditService persists account audit events and optionally forwards them to
// a broker. A publish failure never fails the event: the trail in the store
// is authoritative.
type AuditService struct {
	repo      ports.AuditRepository
	publisher ports.AuditPublisher
	log       zerolog.Logger
}

// NewAuditService builds the service. publisher may be nil.
func NewAuditService(repo ports.AuditRepository, publisher ports.AuditPublisher, log zerolog.Logger) *AuditService {
	return &AuditService{repo: repo, publisher: publisher, log: log}
}

func (s *AuditService) Process(ctx context.Context, event domain.AuditEvent) error {
	if err := s.repo.Insert(ctx, &event); err != nil {
		metrics.AuditEventsTotal.WithLabelValues("failed").Inc()
		return fmt.Errorf("insert audit event: %w", err)
	}
	metrics.AuditEventsTotal.WithLabelValues("recorded").Inc()

	if s.publisher == nil {
		return nil
	}
	if err := s.publisher.Publish(ctx, &event); err != nil {
		metrics.AuditEventsTotal.WithLabelValues("publish_failed").Inc()
		s.log.Warn().Err(err).
			Str("username", event.Username).
			Str("action", string(event.Action)).
			Msg("audit event not published")
	}
	return nil
}

// Trail returns the newest events for username. limit is clamped to
// [1, maxTrailLimit]; zero or negative selects the default.
func (s *AuditService) Trail(ctx context.Context, username string, limit int) ([]*domain.AuditEvent, error) {
	switch {
	case limit <= 0:
		limit = defaultTrailLimit
	case limit > maxTrailLimit:
		limit = maxTrailLimit
	}

	events, err := s.repo.ListByUsername(ctx, username, limit)
	if err != nil {
		return nil, fmt.Errorf("audit trail: %w", err)
	}
	return events, nil
}
