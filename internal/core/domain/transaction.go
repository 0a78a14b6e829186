package domain

import (
	"errors"
	"fmt"
)

// RiskTier is the outcome of classifying a transaction amount.
type RiskTier string

const (
	RiskAllowed          RiskTier = "ALLOWED"
	RiskManualProcessing RiskTier = "MANUAL_PROCESSING"
	RiskProhibited       RiskTier = "PROHIBITED"
)

// Inclusive upper bounds of the ALLOWED and MANUAL_PROCESSING tiers.
const (
	AllowedMax int64 = 200
	ManualMax  int64 = 1500
)

var ErrInvalidAmount = errors.New("amount must be at least 1")

// Classify maps a positive amount to its risk tier.
func Classify(amount int64) (RiskTier, error) {
	switch {
	case amount < 1:
		return "", fmt.Errorf("%w: got %d", ErrInvalidAmount, amount)
	case amount <= AllowedMax:
		return RiskAllowed, nil
	case amount <= ManualMax:
		return RiskManualProcessing, nil
	default:
		return RiskProhibited, nil
	}
}

// Severity orders tiers from least to most restrictive.
func (t RiskTier) Severity() int {
	switch t {
	case RiskAllowed:
		return 0
	case RiskManualProcessing:
		return 1
	case RiskProhibited:
		return 2
	default:
		return -1
	}
}
