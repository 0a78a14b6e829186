package api

import (
	"testing"

	"github.com/labstack/echo/v4"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/rs/zerolog"
)

// Every mounted route must have an entry, otherwise it is unreachable.
func TestDefaultPermissions_CoverEveryRoute(t *testing.T) {
	e := NewRouter(Dependencies{Registry: prometheus.NewRegistry(), Log: zerolog.Nop()}, DefaultPermissions())
	perms := DefaultPermissions()

	for _, r := range e.Routes() {
		if r.Method == echo.RouteNotFound {
			continue
		}
		if _, ok := perms.Lookup(r.Method, r.Path); !ok {
			t.Errorf("route %s %s has no permission entry", r.Method, r.Path)
		}
	}
}
