package ports

import (
	"context"

	"github.com/antifraud/antifraud-system/internal/core/domain"
)

// TransactionService classifies transaction amounts into risk tiers.
type TransactionService interface {
	Classify(ctx context.Context, amount int64) (domain.RiskTier, error)
}
