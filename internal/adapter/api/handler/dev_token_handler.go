package handler

import (
	"github.com/labstack/echo/v4"

	"adboard/internal/domain/repository"
	"adboard/internal/infrastructure/firebase"
	"adboard/pkg/errors"
	"adboard/pkg/response"
)

// DevTokenHandler issues long-lived test tokens. Only mounted in the
// development environment.
type DevTokenHandler struct {
	firebaseAuth *firebase.FirebaseAuthClient
	userRepo     repository.UserRepository
}

func NewDevTokenHandler(firebaseAuth *firebase.FirebaseAuthClient, userRepo repository.UserRepository) *DevTokenHandler {
	return &DevTokenHandler{
		firebaseAuth: firebaseAuth,
		userRepo:     userRepo,
	}
}

func (h *DevTokenHandler) GenerateUserToken(c echo.Context) error {
	return h.generateTokenForRole(c, "user")
}

func (h *DevTokenHandler) GenerateAdminToken(c echo.Context) error {
	return h.generateTokenForRole(c, "admin")
}

func (h *DevTokenHandler) generateTokenForRole(c echo.Context, role string) error {
	users, err := h.userRepo.ListByRole(c.Request().Context(), role, 1)
	if err != nil {
		return response.Error(c, err)
	}
	if len(users) == 0 {
		return response.Error(c, errors.NotFound(role+" account", nil))
	}

	token, err := h.firebaseAuth.GenerateLongLivedToken(c.Request().Context(), users[0].ID)
	if err != nil {
		return response.Error(c, err)
	}

	return response.Success(c, map[string]interface{}{
		"token": token,
		"user": map[string]interface{}{
			"id":    users[0].ID,
			"email": users[0].Email,
			"name":  users[0].Name,
			"role":  users[0].Role,
		},
	})
}
