package handler

import (
	"fmt"
	"net/http"

	"github.com/labstack/echo/v4"

	"github.com/antifraud/antifraud-system/internal/core/ports"
)

// AccountHandler exposes registration and account administration.
type AccountHandler struct {
	service ports.AccountService
}

func NewAccountHandler(service ports.AccountService) *AccountHandler {
	return &AccountHandler{service: service}
}

// Register creates a new account. The first account ever created becomes the
// administrator; all later ones start as locked merchants.
//
// @Summary      Register an account
// @Tags         accounts
// @Accept       json
// @Produce      json
// @Param        body  body      registerRequest  true  "Account details"
// @Success      201   {object}  accountResponse
// @Failure      400   {object}  errorResponse
// @Failure      409   {object}  errorResponse
// @Router       /api/auth/user [post]
func (h *AccountHandler) Register(c echo.Context) error {
	var req registerRequest
	if err := c.Bind(&req); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, "invalid payload")
	}
	if err := c.Validate(&req); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, err.Error())
	}

	acc, err := h.service.Register(c.Request().Context(), ports.RegisterInput{
		Name:     req.Name,
		Username: req.Username,
		Password: req.Password,
	})
	if err != nil {
		return err
	}

	return c.JSON(http.StatusCreated, toAccountResponse(acc))
}

// List returns every account in creation order.
//
// @Summary      List accounts
// @Tags         accounts
// @Produce      json
// @Security     BasicAuth
// @Security     BearerAuth
// @Success      200  {array}   accountResponse
// @Failure      401  {object}  errorResponse
// @Failure      403  {object}  errorResponse
// @Router       /api/auth/list [get]
func (h *AccountHandler) List(c echo.Context) error {
	accounts, err := h.service.List(c.Request().Context())
	if err != nil {
		return err
	}

	resp := make([]accountResponse, 0, len(accounts))
	for _, a := range accounts {
		resp = append(resp, toAccountResponse(a))
	}
	return c.JSON(http.StatusOK, resp)
}

// Delete removes an account by username.
//
// @Summary      Delete an account
// @Tags         accounts
// @Produce      json
// @Security     BasicAuth
// @Security     BearerAuth
// @Param        username  path      string  true  "Username"
// @Success      200       {object}  deleteAccountResponse
// @Failure      404       {object}  errorResponse
// @Router       /api/auth/user/{username} [delete]
func (h *AccountHandler) Delete(c echo.Context) error {
	username := c.Param("username")

	if err := h.service.Delete(c.Request().Context(), username); err != nil {
		return err
	}

	return c.JSON(http.StatusOK, deleteAccountResponse{
		Username: username,
		Status:   "Deleted successfully!",
	})
}

// ChangeRole moves an account to MERCHANT or SUPPORT.
//
// @Summary      Change an account's role
// @Tags         accounts
// @Accept       json
// @Produce      json
// @Security     BasicAuth
// @Security     BearerAuth
// @Param        body  body      changeRoleRequest  true  "Target role"
// @Success      200   {object}  accountResponse
// @Failure      400   {object}  errorResponse
// @Failure      404   {object}  errorResponse
// @Failure      409   {object}  errorResponse
// @Router       /api/auth/role [put]
func (h *AccountHandler) ChangeRole(c echo.Context) error {
	var req changeRoleRequest
	if err := c.Bind(&req); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, "invalid payload")
	}
	if err := c.Validate(&req); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, err.Error())
	}

	acc, err := h.service.ChangeRole(c.Request().Context(), req.Username, req.Role)
	if err != nil {
		return err
	}

	return c.JSON(http.StatusOK, toAccountResponse(acc))
}

// ChangeAccess locks or unlocks an account.
//
// @Summary      Lock or unlock an account
// @Tags         accounts
// @Accept       json
// @Produce      json
// @Security     BasicAuth
// @Security     BearerAuth
// @Param        body  body      changeAccessRequest  true  "LOCK or UNLOCK"
// @Success      200   {object}  statusResponse
// @Failure      400   {object}  errorResponse
// @Failure      404   {object}  errorResponse
// @Failure      409   {object}  errorResponse
// @Router       /api/auth/access [put]
func (h *AccountHandler) ChangeAccess(c echo.Context) error {
	var req changeAccessRequest
	if err := c.Bind(&req); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, "invalid payload")
	}
	if err := c.Validate(&req); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, err.Error())
	}

	lock := req.Operation == "LOCK"
	if err := h.service.ChangeLock(c.Request().Context(), req.Username, lock); err != nil {
		return err
	}

	state := "unlocked"
	if lock {
		state = "locked"
	}
	return c.JSON(http.StatusOK, statusResponse{
		Status: fmt.Sprintf("User %s %s!", req.Username, state),
	})
}
