package router

import (
	"github.com/labstack/echo/v4"

	"laburo/internal/adapter/api/middleware"
)

func Setup(e *echo.Echo, authMiddleware *middleware.AuthMiddleware, adminMiddleware *middleware.AdminMiddleware, rateLimit *middleware.RateLimitMiddleware) {
	SetupHealthRouter(e)
	SetupAuthRouter(e, rateLimit)
	SetupUserRouter(e, authMiddleware)
	SetupJobRouter(e, authMiddleware)
	SetupWalletRouter(e, authMiddleware, adminMiddleware, rateLimit)
	SetupAdminRouter(e, authMiddleware, adminMiddleware)
}
