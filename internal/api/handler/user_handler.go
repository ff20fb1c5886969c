package handler

import (
	"net/http"

	"github.com/labstack/echo/v4"

	"github.com/platformteam/auth-service/internal/api/middleware"
	"github.com/platformteam/auth-service/internal/core/domain"
	"github.com/platformteam/auth-service/internal/core/ports"
)

// UserHandler exposes the authenticated user endpoints.
type UserHandler struct {
	authService ports.AuthService
	users       ports.UserRepository
}

func NewUserHandler(authService ports.AuthService, users ports.UserRepository) *UserHandler {
	return &UserHandler{authService: authService, users: users}
}

type currentUserResponse struct {
	ID       uint   `json:"id"`
	Username string `json:"username"`
}

// Current returns the account behind the authenticated principal.
//
// @Summary      Current user
// @Tags         users
// @Produce      json
// @Security     BearerAuth
// @Success      200  {object}  currentUserResponse
// @Failure      401  {object}  ErrorResponse
// @Router       /users/current [get]
func (h *UserHandler) Current(c echo.Context) error {
	principal, ok := middleware.PrincipalFrom(c)
	if !ok {
		return echo.NewHTTPError(http.StatusUnauthorized, "authentication required")
	}

	user, err := h.authService.CurrentUser(c.Request().Context(), principal)
	if err != nil {
		return err
	}
	return c.JSON(http.StatusOK, currentUserResponse{ID: user.ID, Username: user.Username})
}

// List returns all registered accounts as public projections.
//
// @Summary      List users
// @Tags         users
// @Produce      json
// @Security     BearerAuth
// @Success      200  {array}   domain.PublicUser
// @Failure      401  {object}  ErrorResponse
// @Failure      403  {object}  ErrorResponse
// @Router       /users [get]
func (h *UserHandler) List(c echo.Context) error {
	users, err := h.users.List(c.Request().Context())
	if err != nil {
		return err
	}

	out := make([]domain.PublicUser, 0, len(users))
	for i := range users {
		out = append(out, users[i].Public())
	}
	return c.JSON(http.StatusOK, out)
}
