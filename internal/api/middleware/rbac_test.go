package middleware

import (
	"net/http"
	"testing"

	"github.com/labstack/echo/v4"

	"github.com/platformteam/auth-service/internal/core/domain"
)

func TestRBAC_AllowsMatchingAuthority(t *testing.T) {
	c, rec := newRequestContext(t, "")
	SetPrincipal(c, domain.Principal{Username: "root", Authorities: []string{domain.RoleUser, domain.RoleAdmin}})

	handler := RBAC(domain.RoleAdmin)(func(c echo.Context) error {
		return c.NoContent(http.StatusOK)
	})
	if err := handler(c); err != nil {
		t.Fatalf("handler error: %v", err)
	}
	if rec.Code != http.StatusOK {
		t.Fatalf("expected 200, got %d", rec.Code)
	}
}

func TestRBAC_RejectsMissingAuthority(t *testing.T) {
	c, _ := newRequestContext(t, "")
	SetPrincipal(c, domain.Principal{Username: "user", Authorities: []string{domain.RoleUser}})

	handler := RBAC(domain.RoleAdmin)(func(c echo.Context) error {
		t.Fatalf("should not reach next")
		return nil
	})
	err := handler(c)
	he, ok := err.(*echo.HTTPError)
	if !ok || he.Code != http.StatusForbidden {
		t.Fatalf("expected 403 HTTPError, got %v", err)
	}
}

func TestRBAC_RejectsWithoutPrincipal(t *testing.T) {
	c, _ := newRequestContext(t, "")

	handler := RBAC(domain.RoleAdmin)(func(c echo.Context) error {
		t.Fatalf("should not reach next")
		return nil
	})
	err := handler(c)
	he, ok := err.(*echo.HTTPError)
	if !ok || he.Code != http.StatusForbidden {
		t.Fatalf("expected 403 HTTPError, got %v", err)
	}
}
