package router

import (
	"github.com/labstack/echo/v4"

	"laburo/internal/adapter/api/handler"
	"laburo/internal/adapter/api/middleware"
	"laburo/internal/infrastructure/ratelimit"
)

// SetupAuthRouter initializes auth routes
func SetupAuthRouter(e *echo.Echo, rateLimit *middleware.RateLimitMiddleware) {
	authHandler := handler.GetAuthHandler()

	auth := e.Group("/v1/auth")
	auth.POST("/register", authHandler.Register, rateLimit.Limit(ratelimit.ActionRegister))
	auth.POST("/login", authHandler.Login, rateLimit.Limit(ratelimit.ActionLogin))
}
