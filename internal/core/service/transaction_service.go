package service

import (
	"context"

	"github.com/rs/zerolog"

	"github.com/antifraud/antifraud-system/internal/core/domain"
	"github.com/antifraud/antifraud-system/internal/pkg/metrics"
)

// TransactionService classifies transaction amounts. It keeps no state.
type TransactionService struct {
	log zerolog.Logger
}

func NewTransactionService(log zerolog.Logger) *TransactionService {
	return &TransactionService{log: log}
}

func (s *TransactionService) Classify(_ context.Context, amount int64) (domain.RiskTier, error) {
	tier, err := domain.Classify(amount)
	if err != nil {
		return "", err
	}

	metrics.TransactionsClassifiedTotal.WithLabelValues(string(tier)).Inc()
	s.log.Debug().Int64("amount", amount).Str("result", string(tier)).Msg("transaction classified")
	return tier, nil
}
