package api

import (
	"net/http"

	"github.com/antifraud/antifraud-system/internal/api/middleware"
	"github.com/antifraud/antifraud-system/internal/core/domain"
)

// DefaultPermissions is the access policy for every route NewRouter mounts.
func DefaultPermissions() *middleware.PermissionTable {
	return middleware.NewPermissionTable().
		// Open endpoints.
		PermitAll(http.MethodPost, "/api/auth/user").
		PermitAll(http.MethodPost, "/api/auth/token").
		PermitAll(http.MethodGet, "/health").
		PermitAll(http.MethodGet, "/health/ready").
		PermitAll(http.MethodGet, "/metrics").
		PermitAll(http.MethodGet, "/swagger/*").
		// Account administration.
		Permit(http.MethodGet, "/api/auth/list", domain.RoleAdministrator, domain.RoleSupport).
		Permit(http.MethodDelete, "/api/auth/user/:username", domain.RoleAdministrator).
		Permit(http.MethodPut, "/api/auth/role", domain.RoleAdministrator).
		Permit(http.MethodPut, "/api/auth/access", domain.RoleAdministrator).
		Permit(http.MethodGet, "/api/auth/audit/:username", domain.RoleAdministrator).
		// Anti-fraud.
		Permit(http.MethodPost, "/api/antifraud/transaction", domain.RoleMerchant).
		Permit(http.MethodPost, "/api/antifraud/suspicious-ip", domain.RoleSupport).
		Permit(http.MethodGet, "/api/antifraud/suspicious-ip", domain.RoleSupport).
		Permit(http.MethodDelete, "/api/antifraud/suspicious-ip/:ip", domain.RoleSupport).
		Permit(http.MethodPost, "/api/antifraud/stolencard", domain.RoleSupport).
		Permit(http.MethodGet, "/api/antifraud/stolencard", domain.RoleSupport).
		Permit(http.MethodDelete, "/api/antifraud/stolencard/:number", domain.RoleSupport)
}
