package router

import (
	"github.com/labstack/echo/v4"

	"laburo/internal/adapter/api/handler"
	"laburo/internal/adapter/api/middleware"
	"laburo/internal/infrastructure/ratelimit"
)

func SetupWalletRouter(e *echo.Echo, authMiddleware *middleware.AuthMiddleware, adminMiddleware *middleware.AdminMiddleware, rateLimit *middleware.RateLimitMiddleware) {
	walletHandler := handler.GetWalletHandler()

	// User wallet routes
	walletGroup := e.Group("/v1/wallet")
	walletGroup.Use(authMiddleware.Authenticate)

	walletGroup.GET("", walletHandler.GetWallet)

	topupGroup := walletGroup.Group("/topup")
	topupGroup.POST("", walletHandler.RequestTopUp, rateLimit.Limit(ratelimit.ActionTopUpRequest))
	topupGroup.GET("", walletHandler.GetTopUpRequests)

	// Admin routes
	adminGroup := e.Group("/v1/admin/wallet")
	adminGroup.Use(authMiddleware.Authenticate)
	adminGroup.Use(adminMiddleware.AdminOnly)

	adminGroup.GET("/topup/:id", walletHandler.GetTopUpRequest)
	adminGroup.POST("/topup/:id/review", walletHandler.ReviewTopUpRequest)
	adminGroup.GET("/pending-topups", walletHandler.GetPendingTopUpRequests)
	adminGroup.GET("/statistics", walletHandler.GetLedgerStatistics)
}
