package handlers

import (
	"net/http"

	"github.com/gofiber/fiber/v2"

	"github.com/spec-kit/blog-service/internal/api/dto"
	"github.com/spec-kit/blog-service/internal/auth"
	"github.com/spec-kit/blog-service/internal/domain"
	"github.com/spec-kit/blog-service/internal/service"
	apperrors "github.com/spec-kit/blog-service/pkg/util/errorutil"
)

// UsersHandler exposes auth endpoints for end-users.
type UsersHandler struct {
	auth     *service.AuthService
	users    *service.UserService
	sessions *auth.SessionWriter
}

// NewUsersHandler constructs handler.
func NewUsersHandler(authService *service.AuthService, users *service.UserService, sessions *auth.SessionWriter) *UsersHandler {
	return &UsersHandler{auth: authService, users: users, sessions: sessions}
}

// Register handles POST /auth/users/register.
func (h *UsersHandler) Register(c *fiber.Ctx) error {
	var req dto.UserRegisterRequest
	if err := c.BodyParser(&req); err != nil {
		return apperrors.NewValidationError("invalid payload", nil)
	}

	user, cred, err := h.auth.RegisterUser(c.UserContext(), req.Name, req.Email, req.Password)
	if err != nil {
		return err
	}
	h.sessions.Set(c, cred)
	return c.Status(http.StatusCreated).JSON(fiber.Map{"data": sessionResponse(user, cred)})
}

// Login handles POST /auth/users/login.
func (h *UsersHandler) Login(c *fiber.Ctx) error {
	var req dto.UserLoginRequest
	if err := c.BodyParser(&req); err != nil {
		return apperrors.NewValidationError("invalid payload", nil)
	}

	user, cred, err := h.auth.LoginUser(c.UserContext(), req.Email, req.Password)
	if err != nil {
		return err
	}
	h.sessions.Set(c, cred)
	return c.JSON(fiber.Map{"data": sessionResponse(user, cred)})
}

// Logout handles POST /auth/users/logout. Anonymous callers get the same
// response; the cookie is cleared either way.
func (h *UsersHandler) Logout(c *fiber.Ctx) error {
	rc := auth.FromFiber(c)
	h.sessions.Clear(c)
	h.auth.Logout(rc.Context(), rc.User)
	return c.SendStatus(http.StatusNoContent)
}

// Me handles GET /auth/users/me. The route is guarded by auth.RequireUser.
func (h *UsersHandler) Me(c *fiber.Ctx) error {
	rc := auth.FromFiber(c)
	user, err := h.users.CurrentUser(rc.Context(), rc.User)
	if err != nil {
		return err
	}
	if user == nil {
		return apperrors.NewUnauthorized("account no longer exists")
	}
	return c.JSON(fiber.Map{"data": dto.NewUserResponse(user)})
}

func sessionResponse(user *domain.User, cred auth.Credential) dto.SessionResponse {
	return dto.SessionResponse{
		User: dto.NewUserResponse(user),
		Auth: dto.AuthResponse{Token: cred.Token, ExpiresAt: cred.ExpiresAt},
	}
}
