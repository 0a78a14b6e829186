package handler

import (
	"net/http"

	"github.com/labstack/echo/v4"

	"github.com/antifraud/antifraud-system/internal/core/ports"
)

type TransactionHandler struct {
	service ports.TransactionService
}

func NewTransactionHandler(service ports.TransactionService) *TransactionHandler {
	return &TransactionHandler{service: service}
}

// Classify handles POST /api/antifraud/transaction.
//
// @Summary      Classify a transaction amount
// @Tags         antifraud
// @Accept       json
// @Produce      json
// @Security     BasicAuth
// @Security     BearerAuth
// @Param        body  body      transactionRequest  true  "Amount"
// @Success      200   {object}  transactionResponse
// @Failure      400   {object}  errorResponse
// @Failure      401   {object}  errorResponse
// @Failure      403   {object}  errorResponse
// @Router       /api/antifraud/transaction [post]
func (h *TransactionHandler) Classify(c echo.Context) error {
	var req transactionRequest
	if err := c.Bind(&req); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, "invalid payload")
	}
	if err := c.Validate(&req); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, err.Error())
	}

	tier, err := h.service.Classify(c.Request().Context(), *req.Amount)
	if err != nil {
		return err
	}

	return c.JSON(http.StatusOK, transactionResponse{Result: string(tier)})
}
