package handler

import (
	"net/http"
	"strconv"

	"github.com/labstack/echo/v4"

	"github.com/antifraud/antifraud-system/internal/core/ports"
)

type AuthHandler struct {
	authService  ports.AuthService
	auditService ports.AuditService
}

func NewAuthHandler(authService ports.AuthService, auditService ports.AuditService) *AuthHandler {
	return &AuthHandler{authService: authService, auditService: auditService}
}

// Token exchanges a username and password for a bearer token.
//
// @Summary      Issue a bearer token
// @Tags         auth
// @Accept       json
// @Produce      json
// @Param        body  body      tokenRequest  true  "Credentials"
// @Success      200   {object}  tokenResponse
// @Failure      400   {object}  errorResponse
// @Failure      401   {object}  errorResponse
// @Router       /api/auth/token [post]
func (h *AuthHandler) Token(c echo.Context) error {
	var req tokenRequest
	if err := c.Bind(&req); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, "invalid payload")
	}
	if err := c.Validate(&req); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, err.Error())
	}

	token, acc, err := h.authService.IssueToken(c.Request().Context(), req.Username, req.Password)
	if err != nil {
		return err
	}

	return c.JSON(http.StatusOK, tokenResponse{Token: token, Account: toAccountResponse(acc)})
}

// Audit returns the newest state changes recorded for an account.
//
// @Summary      Account audit trail
// @Tags         auth
// @Produce      json
// @Security     BasicAuth
// @Security     BearerAuth
// @Param        username  path      string  true   "Username"
// @Param        limit     query     int     false  "Maximum number of events (default 50)"
// @Success      200       {array}   auditEventResponse
// @Failure      400       {object}  errorResponse
// @Router       /api/auth/audit/{username} [get]
func (h *AuthHandler) Audit(c echo.Context) error {
	limit := 0
	if raw := c.QueryParam("limit"); raw != "" {
		n, err := strconv.Atoi(raw)
		if err != nil || n < 1 {
			return echo.NewHTTPError(http.StatusBadRequest, "limit must be a positive integer")
		}
		limit = n
	}

	events, err := h.auditService.Trail(c.Request().Context(), c.Param("username"), limit)
	if err != nil {
		return err
	}

	resp := make([]auditEventResponse, 0, len(events))
	for _, e := range events {
		resp = append(resp, auditEventResponse{
			Action:     string(e.Action),
			Actor:      e.Actor,
			Detail:     e.Detail,
			OccurredAt: e.OccurredAt,
		})
	}
	return c.JSON(http.StatusOK, resp)
}
