package handler

import (
	"fmt"
	"net/http"

	"github.com/labstack/echo/v4"

	"github.com/antifraud/antifraud-system/internal/core/domain"
	"github.com/antifraud/antifraud-system/internal/core/ports"
)

// BlocklistHandler serves the suspicious-IP and stolen-card lists.
type BlocklistHandler struct {
	service  ports.BlocklistService
	validate *echoValidator
}

func NewBlocklistHandler(service ports.BlocklistService) *BlocklistHandler {
	return &BlocklistHandler{service: service, validate: NewValidator()}
}

// AddSuspiciousIP
//
// @Summary      Add a suspicious IP
// @Tags         antifraud
// @Accept       json
// @Produce      json
// @Security     BasicAuth
// @Security     BearerAuth
// @Param        body  body      suspiciousIPRequest  true  "IPv4 address"
// @Success      200   {object}  suspiciousIPResponse
// @Failure      400   {object}  errorResponse
// @Failure      409   {object}  errorResponse
// @Router       /api/antifraud/suspicious-ip [post]
func (h *BlocklistHandler) AddSuspiciousIP(c echo.Context) error {
	var req suspiciousIPRequest
	if err := c.Bind(&req); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, "invalid payload")
	}
	if err := c.Validate(&req); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, err.Error())
	}

	entry, err := h.service.Add(c.Request().Context(), domain.KindSuspiciousIP, req.IP)
	if err != nil {
		return err
	}
	return c.JSON(http.StatusOK, suspiciousIPResponse{ID: entry.ID, IP: entry.Value})
}

// ListSuspiciousIPs
//
// @Summary      List suspicious IPs
// @Tags         antifraud
// @Produce      json
// @Security     BasicAuth
// @Security     BearerAuth
// @Success      200  {array}  suspiciousIPResponse
// @Router       /api/antifraud/suspicious-ip [get]
func (h *BlocklistHandler) ListSuspiciousIPs(c echo.Context) error {
	entries, err := h.service.List(c.Request().Context(), domain.KindSuspiciousIP)
	if err != nil {
		return err
	}

	resp := make([]suspiciousIPResponse, 0, len(entries))
	for _, e := range entries {
		resp = append(resp, suspiciousIPResponse{ID: e.ID, IP: e.Value})
	}
	return c.JSON(http.StatusOK, resp)
}

// RemoveSuspiciousIP
//
// @Summary      Remove a suspicious IP
// @Tags         antifraud
// @Produce      json
// @Security     BasicAuth
// @Security     BearerAuth
// @Param        ip   path      string  true  "IPv4 address"
// @Success      200  {object}  statusResponse
// @Failure      400  {object}  errorResponse
// @Failure      404  {object}  errorResponse
// @Router       /api/antifraud/suspicious-ip/{ip} [delete]
func (h *BlocklistHandler) RemoveSuspiciousIP(c echo.Context) error {
	ip := c.Param("ip")
	if err := h.validate.Var("ip", ip, "required,ipv4"); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, err.Error())
	}

	if err := h.service.Remove(c.Request().Context(), domain.KindSuspiciousIP, ip); err != nil {
		return err
	}
	return c.JSON(http.StatusOK, statusResponse{Status: fmt.Sprintf("IP %s successfully removed!", ip)})
}

// AddStolenCard
//
// @Summary      Add a stolen card
// @Tags         antifraud
// @Accept       json
// @Produce      json
// @Security     BasicAuth
// @Security     BearerAuth
// @Param        body  body      stolenCardRequest  true  "Card number"
// @Success      200   {object}  stolenCardResponse
// @Failure      400   {object}  errorResponse
// @Failure      409   {object}  errorResponse
// @Router       /api/antifraud/stolencard [post]
func (h *BlocklistHandler) AddStolenCard(c echo.Context) error {
	var req stolenCardRequest
	if err := c.Bind(&req); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, "invalid payload")
	}
	if err := c.Validate(&req); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, err.Error())
	}

	entry, err := h.service.Add(c.Request().Context(), domain.KindStolenCard, req.Number)
	if err != nil {
		return err
	}
	return c.JSON(http.StatusOK, stolenCardResponse{ID: entry.ID, Number: entry.Value})
}

// ListStolenCards
//
// @Summary      List stolen cards
// @Tags         antifraud
// @Produce      json
// @Security     BasicAuth
// @Security     BearerAuth
// @Success      200  {array}  stolenCardResponse
// @Router       /api/antifraud/stolencard [get]
func (h *BlocklistHandler) ListStolenCards(c echo.Context) error {
	entries, err := h.service.List(c.Request().Context(), domain.KindStolenCard)
	if err != nil {
		return err
	}

	resp := make([]stolenCardResponse, 0, len(entries))
	for _, e := range entries {
		resp = append(resp, stolenCardResponse{ID: e.ID, Number: e.Value})
	}
	return c.JSON(http.StatusOK, resp)
}

// RemoveStolenCard
//
// @Summary      Remove a stolen card
// @Tags         antifraud
// @Produce      json
// @Security     BasicAuth
// @Security     BearerAuth
// @Param        number  path      string  true  "Card number"
// @Success      200     {object}  statusResponse
// @Failure      400     {object}  errorResponse
// @Failure      404     {object}  errorResponse
// @Router       /api/antifraud/stolencard/{number} [delete]
func (h *BlocklistHandler) RemoveStolenCard(c echo.Context) error {
	number := c.Param("number")
	if err := h.validate.Var("number", number, "required,credit_card"); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, err.Error())
	}

	if err := h.service.Remove(c.Request().Context(), domain.KindStolenCard, number); err != nil {
		return err
	}
	return c.JSON(http.StatusOK, statusResponse{Status: fmt.Sprintf("Card %s successfully removed!", number)})
}
