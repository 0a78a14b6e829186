package service

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"github.com/rs/zerolog"

	"github.com/antifraud/antifraud-system/internal/core/domain"
	"github.com/antifraud/antifraud-system/internal/core/ports"
)

// BlocklistService manages the suspicious-IP and stolen-card lists.
// Format validation of values happens at the transport layer.
type BlocklistService struct {
	repo ports.BlocklistRepository
	log  zerolog.Logger
}

func NewBlocklistService(repo ports.BlocklistRepository, log zerolog.Logger) *BlocklistService {
	return &BlocklistService{repo: repo, log: log}
}

func (s *BlocklistService) Add(ctx context.Context, kind domain.BlocklistKind, value string) (*domain.BlocklistEntry, error) {
	value = strings.TrimSpace(value)

	entry, err := s.repo.Add(ctx, kind, value)
	if err != nil {
		if errors.Is(err, domain.ErrEntryExists) {
			return nil, err
		}
		return nil, fmt.Errorf("add %s: %w", kind, err)
	}

	s.log.Info().Str("kind", string(kind)).Int64("id", entry.ID).Str("actor", ActorFrom(ctx)).Msg("blocklist entry added")
	return entry, nil
}

func (s *BlocklistService) Remove(ctx context.Context, kind domain.BlocklistKind, value string) error {
	value = strings.TrimSpace(value)

	if err := s.repo.Remove(ctx, kind, value); err != nil {
		if errors.Is(err, domain.ErrEntryNotFound) {
			return err
		}
		return fmt.Errorf("remove %s: %w", kind, err)
	}

	s.log.Info().Str("kind", string(kind)).Str("actor", ActorFrom(ctx)).Msg("blocklist entry removed")
	return nil
}

func (s *BlocklistService) List(ctx context.Context, kind domain.BlocklistKind) ([]*domain.BlocklistEntry, error) {
	entries, err := s.repo.List(ctx, kind)
	if err != nil {
		return nil, fmt.Errorf("list %s: %w", kind, err)
	}
	return entries, nil
}
