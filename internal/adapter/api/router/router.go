package router

import (
	"github.com/labstack/echo/v4"

	"adboard/internal/adapter/api/middleware"
)

func Setup(e *echo.Echo, authMiddleware *middleware.AuthMiddleware, adminMiddleware *middleware.AdminMiddleware) {
	SetupAuthRouter(e, authMiddleware)
	SetupUserRouter(e, authMiddleware)
	SetupAdRouter(e, authMiddleware)
	SetupFavoriteRouter(e, authMiddleware)
	SetupChatRouter(e, authMiddleware)
	SetupFileRouter(e, authMiddleware)
	SetupAdminRouter(e, authMiddleware, adminMiddleware)
	SetupHealthRouter(e)
}
