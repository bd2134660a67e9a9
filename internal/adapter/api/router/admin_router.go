package router

import (
	"github.com/labstack/echo/v4"

	"laburo/internal/adapter/api/handler"
	"laburo/internal/adapter/api/middleware"
)

func SetupAdminRouter(e *echo.Echo, authMiddleware *middleware.AuthMiddleware, adminMiddleware *middleware.AdminMiddleware) {
	userHandler := handler.GetUserHandler()

	// Admin routes - require authentication and admin role
	admin := e.Group("/v1/admin")
	admin.Use(authMiddleware.Authenticate)
	admin.Use(adminMiddleware.AdminOnly)

	admin.GET("/users", userHandler.ListUsers)
	admin.PATCH("/users/:id/role", userHandler.SetRole)
}
