package middleware

import (
	"net/http"

	"github.com/labstack/echo/v4"
)

// RBAC enforces authority-based access control. It assumes RequireAuth ran
// earlier in the chain; a request without a principal is treated the same as
// one lacking the authority.
func RBAC(allowedAuthorities ...string) echo.MiddlewareFunc {
	allowed := make(map[string]struct{}, len(allowedAuthorities))
	for _, a := range allowedAuthorities {
		allowed[a] = struct{}{}
	}

	return func(next echo.HandlerFunc) echo.HandlerFunc {
		return func(c echo.Context) error {
			principal, ok := PrincipalFrom(c)
			if !ok {
				return echo.NewHTTPError(http.StatusForbidden, "access forbidden")
			}
			for _, authority := range principal.Authorities {
				if _, found := allowed[authority]; found {
					return next(c)
				}
			}
			return echo.NewHTTPError(http.StatusForbidden, "access forbidden")
		}
	}
}
