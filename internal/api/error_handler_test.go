package api

import (
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/labstack/echo/v4"
	"github.com/rs/zerolog"

	"github.com/platformteam/auth-service/internal/api/handler"
	"github.com/platformteam/auth-service/internal/core/domain"
)

func renderError(t *testing.T, err error) (int, handler.ErrorResponse) {
	t.Helper()
	e := echo.New()
	req := httptest.NewRequest(http.MethodPost, "/", nil)
	rec := httptest.NewRecorder()
	c := e.NewContext(req, rec)

	NewHTTPErrorHandler(zerolog.Nop())(err, c)

	var body handler.ErrorResponse
	if err := json.Unmarshal(rec.Body.Bytes(), &body); err != nil {
		t.Fatalf("invalid envelope: %v", err)
	}
	return rec.Code, body
}

func TestHTTPErrorHandler_DomainErrorMapping(t *testing.T) {
	cases := []struct {
		name string
		err  error
		code int
	}{
		{"invalid credentials", domain.ErrInvalidCredentials, http.StatusUnauthorized},
		{"refresh token invalid", domain.ErrRefreshTokenInvalid, http.StatusUnauthorized},
		{"password mismatch", domain.ErrPasswordMismatch, http.StatusBadRequest},
		{"username taken", domain.ErrUsernameTaken, http.StatusBadRequest},
		{"user not found", domain.ErrUserNotFound, http.StatusNotFound},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			status, body := renderError(t, tc.err)
			if status != tc.code {
				t.Fatalf("expected status %d, got %d", tc.code, status)
			}
			// The envelope repeats the status so body-only clients see it.
			if body.Code != tc.code {
				t.Fatalf("envelope code %d does not match status %d", body.Code, tc.code)
			}
			if body.Message == "" {
				t.Fatalf("expected a message")
			}
		})
	}
}

func TestHTTPErrorHandler_WrappedDomainError(t *testing.T) {
	wrapped := fmt.Errorf("register: %w", domain.ErrUsernameTaken)
	status, body := renderError(t, wrapped)
	if status != http.StatusBadRequest || body.Code != http.StatusBadRequest {
		t.Fatalf("wrapped domain error not unwrapped: status=%d body=%+v", status, body)
	}
}

func TestHTTPErrorHandler_UnknownErrorIsOpaque500(t *testing.T) {
	status, body := renderError(t, errors.New("pq: connection reset"))
	if status != http.StatusInternalServerError {
		t.Fatalf("expected 500, got %d", status)
	}
	if body.Message != "internal server error" {
		t.Fatalf("internal detail leaked to client: %q", body.Message)
	}
}

func TestHTTPErrorHandler_EchoHTTPErrorPassthrough(t *testing.T) {
	status, body := renderError(t, echo.NewHTTPError(http.StatusForbidden, "access forbidden"))
	if status != http.StatusForbidden || body.Message != "access forbidden" {
		t.Fatalf("echo error not passed through: status=%d body=%+v", status, body)
	}
}
