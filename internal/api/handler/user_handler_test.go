package handler

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/labstack/echo/v4"

	"github.com/platformteam/auth-service/internal/api/middleware"
	"github.com/platformteam/auth-service/internal/core/domain"
)

type stubUserRepo struct {
	listFn func(ctx context.Context) ([]domain.User, error)
}

func (s *stubUserRepo) FindByUsername(ctx context.Context, username string) (*domain.User, error) {
	return nil, domain.ErrUserNotFound
}

func (s *stubUserRepo) Create(ctx context.Context, user *domain.User) (*domain.User, error) {
	return user, nil
}

func (s *stubUserRepo) FindRoleByName(ctx context.Context, name string) (*domain.Role, error) {
	return nil, domain.ErrRoleNotFound
}

func (s *stubUserRepo) List(ctx context.Context) ([]domain.User, error) {
	return s.listFn(ctx)
}

func TestUserHandler_Current(t *testing.T) {
	stub := &stubAuthService{
		currentFn: func(_ context.Context, principal domain.Principal) (*domain.PublicUser, error) {
			if principal.Username != "alice" {
				t.Fatalf("unexpected principal: %+v", principal)
			}
			return &domain.PublicUser{ID: 7, Username: "alice"}, nil
		},
	}
	e := echo.New()
	req := httptest.NewRequest(http.MethodGet, "/users/current", nil)
	rec := httptest.NewRecorder()
	c := e.NewContext(req, rec)
	middleware.SetPrincipal(c, domain.Principal{Username: "alice", Authorities: []string{domain.RoleUser}})

	if err := NewUserHandler(stub, &stubUserRepo{}).Current(c); err != nil {
		t.Fatalf("handler error: %v", err)
	}
	if rec.Code != http.StatusOK {
		t.Fatalf("expected 200, got %d", rec.Code)
	}

	var resp currentUserResponse
	if err := json.Unmarshal(rec.Body.Bytes(), &resp); err != nil {
		t.Fatalf("invalid json: %v", err)
	}
	if resp.ID != 7 || resp.Username != "alice" {
		t.Fatalf("unexpected body: %+v", resp)
	}
}

func TestUserHandler_Current_NoPrincipal(t *testing.T) {
	e := echo.New()
	req := httptest.NewRequest(http.MethodGet, "/users/current", nil)
	c := e.NewContext(req, httptest.NewRecorder())

	err := NewUserHandler(&stubAuthService{}, &stubUserRepo{}).Current(c)
	he, ok := err.(*echo.HTTPError)
	if !ok || he.Code != http.StatusUnauthorized {
		t.Fatalf("expected 401 HTTPError, got %v", err)
	}
}

func TestUserHandler_List(t *testing.T) {
	repo := &stubUserRepo{
		listFn: func(_ context.Context) ([]domain.User, error) {
			return []domain.User{
				{ID: 1, Username: "alice", PasswordHash: "hash-a"},
				{ID: 2, Username: "bob", PasswordHash: "hash-b"},
			}, nil
		},
	}
	e := echo.New()
	req := httptest.NewRequest(http.MethodGet, "/users", nil)
	rec := httptest.NewRecorder()
	c := e.NewContext(req, rec)

	if err := NewUserHandler(&stubAuthService{}, repo).List(c); err != nil {
		t.Fatalf("handler error: %v", err)
	}

	var resp []map[string]any
	if err := json.Unmarshal(rec.Body.Bytes(), &resp); err != nil {
		t.Fatalf("invalid json: %v", err)
	}
	if len(resp) != 2 {
		t.Fatalf("expected 2 users, got %d", len(resp))
	}
	for _, u := range resp {
		for key := range u {
			if key == "password" || key == "passwordHash" {
				t.Fatalf("listing must not expose password material: %v", u)
			}
		}
	}
}
