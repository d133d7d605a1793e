package middleware

import (
	"net/http"

	"github.com/labstack/echo/v4"

	"adboard/internal/domain/repository"
)

type AdminMiddleware struct {
	userRepo repository.UserRepository
}

func NewAdminMiddleware(userRepo repository.UserRepository) *AdminMiddleware {
	return &AdminMiddleware{
		userRepo: userRepo,
	}
}

// AdminOnly gates moderation routes: the role comes from the user document,
// not the token, so a demotion takes effect on the next request.
func (m *AdminMiddleware) AdminOnly(next echo.HandlerFunc) echo.HandlerFunc {
	return func(c echo.Context) error {
		uid, ok := c.Get("uid").(string)
		if !ok {
			return echo.NewHTTPError(http.StatusUnauthorized, "Authentication required")
		}

		user, err := m.userRepo.GetByID(c.Request().Context(), uid)
		if err != nil {
			return echo.NewHTTPError(http.StatusInternalServerError, "Failed to verify admin role")
		}
		if user.Role != "admin" {
			return echo.NewHTTPError(http.StatusForbidden, "Admin role required")
		}

		return next(c)
	}
}
