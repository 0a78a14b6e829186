package middleware

import (
	"github.com/labstack/echo/v4"

	"github.com/antifraud/antifraud-system/internal/core/domain"
)

// Access describes who may call a route.
type Access struct {
	Public bool
	Roles  []domain.Role
}

type routeKey struct {
	method string
	path   string
}

// PermissionTable maps a method and an echo route pattern (e.g.
// "/api/auth/user/:username") to its Access. Routes absent from the table are
// denied to everyone.
type PermissionTable struct {
	routes map[routeKey]Access
}

func NewPermissionTable() *PermissionTable {
	return &PermissionTable{routes: make(map[routeKey]Access)}
}

// PermitAll opens a route to anonymous callers.
func (t *PermissionTable) PermitAll(method, path string) *PermissionTable {
	t.routes[routeKey{method, path}] = Access{Public: true}
	return t
}

// Permit restricts a route to authenticated accounts holding one of roles.
func (t *PermissionTable) Permit(method, path string, roles ...domain.Role) *PermissionTable {
	t.routes[routeKey{method, path}] = Access{Roles: roles}
	return t
}

func (t *PermissionTable) Lookup(method, path string) (Access, bool) {
	a, ok := t.routes[routeKey{method, path}]
	return a, ok
}

// Guard enforces the table: anonymous callers of a protected route get 401,
// authenticated callers without a listed role get domain.ErrForbidden. It must
// run after Auth and relies on echo having
// matched the route already, so it is registered with Echo.Use rather than
// Echo.Pre.
func Guard(table *PermissionTable) echo.MiddlewareFunc {
	return func(next echo.HandlerFunc) echo.HandlerFunc {
		return func(c echo.Context) error {
			access, ok := table.Lookup(c.Request().Method, c.Path())
			if ok && access.Public {
				return next(c)
			}

			acc, _ := c.Get(CtxAccount).(*domain.Account)
			if acc == nil {
				return unauthorized(c, "authentication required")
			}
			if !ok || !acc.HasAnyRole(access.Roles...) {
				return domain.ErrForbidden
			}
			return next(c)
		}
	}
}
