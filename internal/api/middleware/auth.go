package middleware

import (
	"context"
	"encoding/base64"
	"errors"
	"net/http"
	"strings"

	"github.com/labstack/echo/v4"

	"github.com/antifraud/antifraud-system/internal/core/domain"
	"github.com/antifraud/antifraud-system/internal/core/service"
)

// Context keys populated for authenticated requests.
const (
	CtxAccount  = "account"
	CtxUsername = "username"
	CtxRole     = "role"
)

// Authenticator is the slice of ports.AuthService the middleware needs.
type Authenticator interface {
	Authenticate(ctx context.Context, username, password string) (*domain.Account, error)
	Resolve(ctx context.Context, username string) (*domain.Account, error)
	VerifyToken(token string) (string, error)
}

// Auth resolves HTTP Basic or Bearer credentials to the current account and
// injects it into the context. Requests without an Authorization header pass
// through anonymously; Guard decides whether that is acceptable. The account
// is reloaded from the store on every request, so locks and role changes
// apply immediately.
func Auth(auth Authenticator) echo.MiddlewareFunc {
	return func(next echo.HandlerFunc) echo.HandlerFunc {
		return func(c echo.Context) error {
			header := c.Request().Header.Get(echo.HeaderAuthorization)
			if header == "" {
				return next(c)
			}

			scheme, credentials, ok := strings.Cut(header, " ")
			if !ok {
				return unauthorized(c, "invalid authorization header")
			}

			ctx := c.Request().Context()
			var (
				acc *domain.Account
				err error
			)
			switch {
			case strings.EqualFold(scheme, "basic"):
				username, password, ok := decodeBasic(credentials)
				if !ok {
					return unauthorized(c, "invalid authorization header")
				}
				acc, err = auth.Authenticate(ctx, username, password)
			case strings.EqualFold(scheme, "bearer"):
				var username string
				username, err = auth.VerifyToken(strings.TrimSpace(credentials))
				if err == nil {
					acc, err = auth.Resolve(ctx, username)
				}
			default:
				return unauthorized(c, "unsupported authorization scheme")
			}

			if err != nil {
				switch {
				case errors.Is(err, domain.ErrAccountLocked):
					return unauthorized(c, "account is locked")
				case errors.Is(err, domain.ErrInvalidCredentials):
					return unauthorized(c, "invalid credentials")
				default:
					return err
				}
			}

			c.Set(CtxAccount, acc)
			c.Set(CtxUsername, acc.Username)
			c.Set(CtxRole, acc.Role)
			c.SetRequest(c.Request().WithContext(service.WithActor(ctx, acc.Username)))

			return next(c)
		}
	}
}

func decodeBasic(credentials string) (username, password string, ok bool) {
	raw, err := base64.StdEncoding.DecodeString(strings.TrimSpace(credentials))
	if err != nil {
		return "", "", false
	}
	return strings.Cut(string(raw), ":")
}

func unauthorized(c echo.Context, msg string) error {
	c.Response().Header().Set(echo.HeaderWWWAuthenticate, `Basic realm="antifraud"`)
	return echo.NewHTTPError(http.StatusUnauthorized, msg)
}
