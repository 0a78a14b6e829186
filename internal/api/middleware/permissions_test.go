package middleware

import (
	"errors"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/labstack/echo/v4"

	"github.com/antifraud/antifraud-system/internal/core/domain"
)

func guardedEcho() *echo.Echo {
	table := NewPermissionTable().
		PermitAll(http.MethodPost, "/open").
		Permit(http.MethodGet, "/admin/:id", domain.RoleAdministrator, domain.RoleSupport)

	e := echo.New()
	e.HTTPErrorHandler = func(err error, c echo.Context) {
		if errors.Is(err, domain.ErrForbidden) {
			_ = c.NoContent(http.StatusForbidden)
			return
		}
		e.DefaultHTTPErrorHandler(err, c)
	}
	e.Use(func(next echo.HandlerFunc) echo.HandlerFunc {
		return func(c echo.Context) error {
			switch c.Request().Header.Get("X-Test-Role") {
			case "ADMINISTRATOR":
				c.Set(CtxAccount, &domain.Account{Username: "a", Role: domain.RoleAdministrator})
			case "MERCHANT":
				c.Set(CtxAccount, &domain.Account{Username: "m", Role: domain.RoleMerchant})
			}
			return next(c)
		}
	})
	e.Use(Guard(table))

	ok := func(c echo.Context) error { return c.NoContent(http.StatusOK) }
	e.POST("/open", ok)
	e.GET("/admin/:id", ok)
	e.GET("/unlisted", ok)
	return e
}

func TestGuard(t *testing.T) {
	e := guardedEcho()

	tests := []struct {
		name   string
		method string
		path   string
		role   string
		want   int
	}{
		{"public anonymous", http.MethodPost, "/open", "", http.StatusOK},
		{"protected anonymous", http.MethodGet, "/admin/1", "", http.StatusUnauthorized},
		{"protected allowed role", http.MethodGet, "/admin/1", "ADMINISTRATOR", http.StatusOK},
		{"protected wrong role", http.MethodGet, "/admin/1", "MERCHANT", http.StatusForbidden},
		{"unlisted route anonymous", http.MethodGet, "/unlisted", "", http.StatusUnauthorized},
		{"unlisted route authenticated", http.MethodGet, "/unlisted", "ADMINISTRATOR", http.StatusForbidden},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			req := httptest.NewRequest(tt.method, tt.path, nil)
			if tt.role != "" {
				req.Header.Set("X-Test-Role", tt.role)
			}
			rec := httptest.NewRecorder()
			e.ServeHTTP(rec, req)

			if rec.Code != tt.want {
				t.Fatalf("expected %d, got %d", tt.want, rec.Code)
			}
		})
	}
}

func TestGuard_WrongRoleReturnsForbidden(t *testing.T) {
	table := NewPermissionTable().Permit(http.MethodGet, "/admin/:id", domain.RoleAdministrator)

	e := echo.New()
	c := e.NewContext(httptest.NewRequest(http.MethodGet, "/admin/1", nil), httptest.NewRecorder())
	c.SetPath("/admin/:id")
	c.Set(CtxAccount, &domain.Account{Username: "m", Role: domain.RoleMerchant})

	called := false
	err := Guard(table)(func(echo.Context) error {
		called = true
		return nil
	})(c)

	if !errors.Is(err, domain.ErrForbidden) {
		t.Fatalf("expected ErrForbidden, got %v", err)
	}
	if called {
		t.Fatal("handler must not run")
	}
}

func TestPermissionTable_Lookup(t *testing.T) {
	table := NewPermissionTable().Permit(http.MethodDelete, "/x/:id", domain.RoleAdministrator)

	if _, ok := table.Lookup(http.MethodGet, "/x/:id"); ok {
		t.Fatalf("method must be part of the key")
	}
	a, ok := table.Lookup(http.MethodDelete, "/x/:id")
	if !ok || a.Public || len(a.Roles) != 1 {
		t.Fatalf("unexpected access: %+v ok=%v", a, ok)
	}
}
