package router

import (
	"github.com/labstack/echo/v4"

	"laburo/internal/adapter/api/handler"
	"laburo/internal/adapter/api/middleware"
)

func SetupUserRouter(e *echo.Echo, authMiddleware *middleware.AuthMiddleware) {
	userHandler := handler.GetUserHandler()

	users := e.Group("/v1/users")
	users.Use(authMiddleware.Authenticate)

	users.GET("/me", userHandler.GetProfile)
	users.PATCH("/me/password", userHandler.ChangePassword)
	users.POST("/me/role", userHandler.EscalateRole)
}
