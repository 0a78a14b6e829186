package handler

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/labstack/echo/v4"

	"github.com/antifraud/antifraud-system/internal/core/domain"
	"github.com/antifraud/antifraud-system/internal/core/ports"
)

type stubAccountService struct {
	registerFn   func(ctx context.Context, in ports.RegisterInput) (*domain.Account, error)
	changeRoleFn func(ctx context.Context, username, role string) (*domain.Account, error)
	changeLockFn func(ctx context.Context, username string, lock bool) error
	deleteFn     func(ctx context.Context, username string) error
	listFn       func(ctx context.Context) ([]*domain.Account, error)
}

func (s *stubAccountService) Register(ctx context.Context, in ports.RegisterInput) (*domain.Account, error) {
	return s.registerFn(ctx, in)
}

func (s *stubAccountService) ChangeRole(ctx context.Context, username, role string) (*domain.Account, error) {
	return s.changeRoleFn(ctx, username, role)
}

func (s *stubAccountService) ChangeLock(ctx context.Context, username string, lock bool) error {
	return s.changeLockFn(ctx, username, lock)
}

func (s *stubAccountService) Delete(ctx context.Context, username string) error {
	return s.deleteFn(ctx, username)
}

func (s *stubAccountService) List(ctx context.Context) ([]*domain.Account, error) {
	return s.listFn(ctx)
}

func newTestEcho() *echo.Echo {
	e := echo.New()
	e.Validator = NewValidator()
	return e
}

func jsonRequest(method, target, body string) *http.Request {
	req := httptest.NewRequest(method, target, strings.NewReader(body))
	req.Header.Set(echo.HeaderContentType, echo.MIMEApplicationJSON)
	return req
}

func TestAccountHandler_Register_Success(t *testing.T) {
	e := newTestEcho()
	stub := &stubAccountService{
		registerFn: func(ctx context.Context, in ports.RegisterInput) (*domain.Account, error) {
			if in.Name != "Alice" || in.Username != "alice" || in.Password != "secret" {
				t.Fatalf("unexpected input: %+v", in)
			}
			return &domain.Account{ID: 1, Name: in.Name, Username: in.Username, Role: domain.RoleAdministrator}, nil
		},
	}
	h := NewAccountHandler(stub)

	rec := httptest.NewRecorder()
	c := e.NewContext(jsonRequest(http.MethodPost, "/api/auth/user", `{"name":"Alice","username":"alice","password":"secret"}`), rec)

	if err := h.Register(c); err != nil {
		t.Fatalf("handler error: %v", err)
	}
	if rec.Code != http.StatusCreated {
		t.Fatalf("expected 201, got %d", rec.Code)
	}

	var resp map[string]any
	if err := json.Unmarshal(rec.Body.Bytes(), &resp); err != nil {
		t.Fatalf("invalid json: %v", err)
	}
	if resp["username"] != "alice" || resp["role"] != "ADMINISTRATOR" || resp["id"] != float64(1) {
		t.Fatalf("unexpected payload: %+v", resp)
	}
	if _, ok := resp["password"]; ok {
		t.Fatal("password hash must not be rendered")
	}
}

func TestAccountHandler_Register_MissingField(t *testing.T) {
	e := newTestEcho()
	h := NewAccountHandler(&stubAccountService{})

	rec := httptest.NewRecorder()
	c := e.NewContext(jsonRequest(http.MethodPost, "/api/auth/user", `{"username":"alice","password":"secret"}`), rec)

	err := h.Register(c)
	var he *echo.HTTPError
	if !errors.As(err, &he) || he.Code != http.StatusBadRequest {
		t.Fatalf("expected 400 HTTPError, got %v", err)
	}
}

func TestAccountHandler_Register_PropagatesDomainError(t *testing.T) {
	e := newTestEcho()
	h := NewAccountHandler(&stubAccountService{
		registerFn: func(context.Context, ports.RegisterInput) (*domain.Account, error) {
			return nil, domain.ErrDuplicateUsername
		},
	})

	rec := httptest.NewRecorder()
	c := e.NewContext(jsonRequest(http.MethodPost, "/api/auth/user", `{"name":"A","username":"a","password":"p"}`), rec)

	if err := h.Register(c); !errors.Is(err, domain.ErrDuplicateUsername) {
		t.Fatalf("expected ErrDuplicateUsername, got %v", err)
	}
}

func TestAccountHandler_List(t *testing.T) {
	e := newTestEcho()
	h := NewAccountHandler(&stubAccountService{
		listFn: func(context.Context) ([]*domain.Account, error) {
			return []*domain.Account{
				{ID: 1, Username: "alice", Role: domain.RoleAdministrator},
				{ID: 2, Username: "bob", Role: domain.RoleMerchant},
			}, nil
		},
	})

	rec := httptest.NewRecorder()
	c := e.NewContext(httptest.NewRequest(http.MethodGet, "/api/auth/list", nil), rec)

	if err := h.List(c); err != nil {
		t.Fatalf("handler error: %v", err)
	}

	var resp []accountResponse
	if err := json.Unmarshal(rec.Body.Bytes(), &resp); err != nil {
		t.Fatalf("invalid json: %v", err)
	}
	if len(resp) != 2 || resp[0].Username != "alice" || resp[1].Role != "MERCHANT" {
		t.Fatalf("unexpected payload: %+v", resp)
	}
}

func TestAccountHandler_List_EmptyIsArray(t *testing.T) {
	e := newTestEcho()
	h := NewAccountHandler(&stubAccountService{
		listFn: func(context.Context) ([]*domain.Account, error) { return nil, nil },
	})

	rec := httptest.NewRecorder()
	c := e.NewContext(httptest.NewRequest(http.MethodGet, "/api/auth/list", nil), rec)

	if err := h.List(c); err != nil {
		t.Fatalf("handler error: %v", err)
	}
	if got := strings.TrimSpace(rec.Body.String()); got != "[]" {
		t.Fatalf("expected empty array, got %s", got)
	}
}

func TestAccountHandler_Delete(t *testing.T) {
	e := newTestEcho()
	h := NewAccountHandler(&stubAccountService{
		deleteFn: func(_ context.Context, username string) error {
			if username != "bob" {
				t.Fatalf("unexpected username %q", username)
			}
			return nil
		},
	})

	rec := httptest.NewRecorder()
	c := e.NewContext(httptest.NewRequest(http.MethodDelete, "/", nil), rec)
	c.SetParamNames("username")
	c.SetParamValues("bob")

	if err := h.Delete(c); err != nil {
		t.Fatalf("handler error: %v", err)
	}

	var resp deleteAccountResponse
	if err := json.Unmarshal(rec.Body.Bytes(), &resp); err != nil {
		t.Fatalf("invalid json: %v", err)
	}
	if resp.Username != "bob" || resp.Status != "Deleted successfully!" {
		t.Fatalf("unexpected payload: %+v", resp)
	}
}

func TestAccountHandler_ChangeRole(t *testing.T) {
	e := newTestEcho()
	h := NewAccountHandler(&stubAccountService{
		changeRoleFn: func(_ context.Context, username, role string) (*domain.Account, error) {
			if username != "bob" || role != "SUPPORT" {
				t.Fatalf("unexpected args %q %q", username, role)
			}
			return &domain.Account{ID: 2, Username: "bob", Role: domain.RoleSupport}, nil
		},
	})

	rec := httptest.NewRecorder()
	c := e.NewContext(jsonRequest(http.MethodPut, "/api/auth/role", `{"username":"bob","role":"SUPPORT"}`), rec)

	if err := h.ChangeRole(c); err != nil {
		t.Fatalf("handler error: %v", err)
	}

	var resp accountResponse
	if err := json.Unmarshal(rec.Body.Bytes(), &resp); err != nil {
		t.Fatalf("invalid json: %v", err)
	}
	if resp.Role != "SUPPORT" {
		t.Fatalf("expected SUPPORT, got %q", resp.Role)
	}
}

func TestAccountHandler_ChangeAccess(t *testing.T) {
	tests := []struct {
		operation string
		wantLock  bool
		wantMsg   string
	}{
		{"LOCK", true, "User bob locked!"},
		{"UNLOCK", false, "User bob unlocked!"},
	}

	for _, tt := range tests {
		t.Run(tt.operation, func(t *testing.T) {
			e := newTestEcho()
			h := NewAccountHandler(&stubAccountService{
				changeLockFn: func(_ context.Context, username string, lock bool) error {
					if username != "bob" || lock != tt.wantLock {
						t.Fatalf("unexpected args %q %v", username, lock)
					}
					return nil
				},
			})

			rec := httptest.NewRecorder()
			body := `{"username":"bob","operation":"` + tt.operation + `"}`
			c := e.NewContext(jsonRequest(http.MethodPut, "/api/auth/access", body), rec)

			if err := h.ChangeAccess(c); err != nil {
				t.Fatalf("handler error: %v", err)
			}

			var resp statusResponse
			if err := json.Unmarshal(rec.Body.Bytes(), &resp); err != nil {
				t.Fatalf("invalid json: %v", err)
			}
			if resp.Status != tt.wantMsg {
				t.Fatalf("expected %q, got %q", tt.wantMsg, resp.Status)
			}
		})
	}
}

func TestAccountHandler_ChangeAccess_UnknownOperation(t *testing.T) {
	e := newTestEcho()
	h := NewAccountHandler(&stubAccountService{})

	rec := httptest.NewRecorder()
	c := e.NewContext(jsonRequest(http.MethodPut, "/api/auth/access", `{"username":"bob","operation":"FREEZE"}`), rec)

	err := h.ChangeAccess(c)
	var he *echo.HTTPError
	if !errors.As(err, &he) || he.Code != http.StatusBadRequest {
		t.Fatalf("expected 400 HTTPError, got %v", err)
	}
	if !strings.Contains(he.Message.(string), "operation must be one of") {
		t.Fatalf("unexpected message %v", he.Message)
	}
}
