package router

import (
	"github.com/labstack/echo/v4"

	"laburo/internal/adapter/api/handler"
	"laburo/internal/adapter/api/middleware"
)

func SetupJobRouter(e *echo.Echo, authMiddleware *middleware.AuthMiddleware) {
	jobHandler := handler.GetJobHandler()
	ratingHandler := handler.GetRatingHandler()

	// Public routes
	e.GET("/v1/jobs", jobHandler.ListJobs)
	e.GET("/v1/jobs/:id", jobHandler.GetJob)
	e.GET("/v1/providers/:id/ratings", ratingHandler.GetProviderRatings)

	// Protected routes
	jobs := e.Group("/v1/jobs")
	jobs.Use(authMiddleware.Authenticate)

	jobs.POST("", jobHandler.PostJob)
	jobs.POST("/:id/accept", jobHandler.AcceptJob)
	jobs.POST("/:id/complete", jobHandler.CompleteJob)
	jobs.POST("/:id/confirm", jobHandler.ConfirmJob)
	jobs.POST("/:id/cancel", jobHandler.CancelJob)
	jobs.POST("/:id/rating", ratingHandler.RateJob)
}
