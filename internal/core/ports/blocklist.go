package ports

import (
	"context"

	"github.com/antifraud/antifraud-system/internal/core/domain"
)

// BlocklistRepository persists membership lists. Values are unique per kind.
type BlocklistRepository interface {
	// Add returns domain.ErrEntryExists when value is already listed.
	Add(ctx context.Context, kind domain.BlocklistKind, value string) (*domain.BlocklistEntry, error)
	// Remove returns domain.ErrEntryNotFound when value is not listed.
	Remove(ctx context.Context, kind domain.BlocklistKind, value string) error
	// List returns the entries of kind ordered by ascending ID.
	List(ctx context.Context, kind domain.BlocklistKind) ([]*domain.BlocklistEntry, error)
}

// BlocklistService manages the suspicious-IP and stolen-card lists.
type BlocklistService interface {
	Add(ctx context.Context, kind domain.BlocklistKind, value string) (*domain.BlocklistEntry, error)
	Remove(ctx context.Context, kind domain.BlocklistKind, value string) error
	List(ctx context.Context, kind domain.BlocklistKind) ([]*domain.BlocklistEntry, error)
}
