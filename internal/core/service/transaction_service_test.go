package service

import (
	"context"
	"errors"
	"testing"

	"github.com/rs/zerolog"

	"github.com/antifraud/antifraud-system/internal/core/domain"
)

func TestTransactionService_Classify(t *testing.T) {
	svc := NewTransactionService(zerolog.Nop())

	tests := []struct {
		amount int64
		want   domain.RiskTier
	}{
		{1, domain.RiskAllowed},
		{150, domain.RiskAllowed},
		{200, domain.RiskAllowed},
		{201, domain.RiskManualProcessing},
		{1500, domain.RiskManualProcessing},
		{1501, domain.RiskProhibited},
		{1 << 40, domain.RiskProhibited},
	}
	for _, tt := range tests {
		got, err := svc.Classify(context.Background(), tt.amount)
		if err != nil {
			t.Fatalf("classify(%d): %v", tt.amount, err)
		}
		if got != tt.want {
			t.Errorf("classify(%d) = %s, want %s", tt.amount, got, tt.want)
		}
	}
}

func TestTransactionService_Classify_Invalid(t *testing.T) {
	svc := NewTransactionService(zerolog.Nop())

	for _, amount := range []int64{-4, 0} {
		if _, err := svc.Classify(context.Background(), amount); !errors.Is(err, domain.ErrInvalidAmount) {
			t.Errorf("classify(%d): expected ErrInvalidAmount, got %v", amount, err)
		}
	}
}
