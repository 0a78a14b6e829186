package handler

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/labstack/echo/v4"

	"github.com/antifraud/antifraud-system/internal/core/domain"
)

type classifyFunc func(ctx context.Context, amount int64) (domain.RiskTier, error)

func (f classifyFunc) Classify(ctx context.Context, amount int64) (domain.RiskTier, error) {
	return f(ctx, amount)
}

func TestTransactionHandler_Classify(t *testing.T) {
	e := newTestEcho()
	h := NewTransactionHandler(classifyFunc(func(_ context.Context, amount int64) (domain.RiskTier, error) {
		return domain.Classify(amount)
	}))

	rec := httptest.NewRecorder()
	c := e.NewContext(jsonRequest(http.MethodPost, "/api/antifraud/transaction", `{"amount":201}`), rec)

	if err := h.Classify(c); err != nil {
		t.Fatalf("handler error: %v", err)
	}

	var resp transactionResponse
	if err := json.Unmarshal(rec.Body.Bytes(), &resp); err != nil {
		t.Fatalf("invalid json: %v", err)
	}
	if resp.Result != "MANUAL_PROCESSING" {
		t.Fatalf("expected MANUAL_PROCESSING, got %q", resp.Result)
	}
}

func TestTransactionHandler_Classify_MissingAmount(t *testing.T) {
	e := newTestEcho()
	h := NewTransactionHandler(classifyFunc(func(context.Context, int64) (domain.RiskTier, error) {
		t.Fatal("service must not be called")
		return "", nil
	}))

	rec := httptest.NewRecorder()
	c := e.NewContext(jsonRequest(http.MethodPost, "/api/antifraud/transaction", `{}`), rec)

	err := h.Classify(c)
	var he *echo.HTTPError
	if !errors.As(err, &he) || he.Code != http.StatusBadRequest {
		t.Fatalf("expected 400 HTTPError, got %v", err)
	}
}

func TestTransactionHandler_Classify_NonPositivePassesToService(t *testing.T) {
	e := newTestEcho()
	h := NewTransactionHandler(classifyFunc(func(_ context.Context, amount int64) (domain.RiskTier, error) {
		return domain.Classify(amount)
	}))

	rec := httptest.NewRecorder()
	c := e.NewContext(jsonRequest(http.MethodPost, "/api/antifraud/transaction", `{"amount":0}`), rec)

	if err := h.Classify(c); !errors.Is(err, domain.ErrInvalidAmount) {
		t.Fatalf("expected ErrInvalidAmount, got %v", err)
	}
}
