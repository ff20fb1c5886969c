package middleware

import (
	"errors"
	"net/http"
	"strings"

	"github.com/labstack/echo/v4"
	"github.com/rs/zerolog"

	"github.com/platformteam/auth-service/internal/api/metrics"
	"github.com/platformteam/auth-service/internal/core/domain"
	"github.com/platformteam/auth-service/internal/core/token"
	"github.com/platformteam/auth-service/internal/pkg/config"
)

// principalKey is where the authenticated principal lives in the echo
// context for the duration of one request.
const principalKey = "auth.principal"

// Authenticate is the once-per-request bearer-token filter. It never fails
// the request on its own: a missing, expired or invalid token simply leaves
// the request unauthenticated, and routes that require a principal reject it
// via RequireAuth.
func Authenticate(security config.SecurityConfig, codec *token.Codec, log zerolog.Logger) echo.MiddlewareFunc {
	secret := []byte(security.AccessSecret)

	return func(next echo.HandlerFunc) echo.HandlerFunc {
		return func(c echo.Context) error {
			header := c.Request().Header.Get(security.AuthHeader)
			if header == "" || !strings.HasPrefix(header, security.BearerPrefix) {
				return next(c)
			}
			raw := strings.TrimSpace(strings.TrimPrefix(header, security.BearerPrefix))

			subject, err := codec.Subject(raw, secret)
			if err != nil {
				// Decode failures are swallowed: downstream authorization
				// rejects the request if the route needs a principal.
				if errors.Is(err, domain.ErrTokenExpired) {
					metrics.TokenValidationsTotal.WithLabelValues("expired").Inc()
					log.Debug().Str("path", c.Path()).Msg("expired access token")
				} else {
					metrics.TokenValidationsTotal.WithLabelValues("invalid").Inc()
					log.Warn().Str("path", c.Path()).Msg("invalid access token")
				}
				return next(c)
			}

			if _, attached := c.Get(principalKey).(domain.Principal); !attached {
				roles, err := codec.Roles(raw, secret)
				if err != nil {
					metrics.TokenValidationsTotal.WithLabelValues("invalid").Inc()
					return next(c)
				}
				metrics.TokenValidationsTotal.WithLabelValues("ok").Inc()
				c.Set(principalKey, domain.Principal{Username: subject, Authorities: roles})
			}

			return next(c)
		}
	}
}

// PrincipalFrom extracts the authenticated principal attached by
// Authenticate, reporting whether one is present.
func PrincipalFrom(c echo.Context) (domain.Principal, bool) {
	p, ok := c.Get(principalKey).(domain.Principal)
	return p, ok
}

// SetPrincipal attaches a principal directly. Intended for tests.
func SetPrincipal(c echo.Context, p domain.Principal) {
	c.Set(principalKey, p)
}

// RequireAuth is the routing-layer entry point for protected routes: any
// request that reaches it without a principal is rejected with a uniform
// 401.
func RequireAuth() echo.MiddlewareFunc {
	return func(next echo.HandlerFunc) echo.HandlerFunc {
		return func(c echo.Context) error {
			if _, ok := PrincipalFrom(c); !ok {
				return echo.NewHTTPError(http.StatusUnauthorized, "authentication required")
			}
			return next(c)
		}
	}
}
