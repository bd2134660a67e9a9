package handler

import (
	"net/http"

	"github.com/labstack/echo/v4"

	"laburo/internal/usecase"
)

var (
	authHandler   *AuthHandler
	userHandler   *UserHandler
	jobHandler    *JobHandler
	walletHandler *WalletHandler
	ratingHandler *RatingHandler
)

func Setup(
	authUseCase *usecase.AuthUseCase,
	userUseCase *usecase.UserUseCase,
	jobUseCase *usecase.JobUseCase,
	balanceUseCase *usecase.BalanceUseCase,
	ratingUseCase *usecase.RatingUseCase,
) {
	authHandler = NewAuthHandler(authUseCase)
	userHandler = NewUserHandler(userUseCase)
	jobHandler = NewJobHandler(jobUseCase)
	walletHandler = NewWalletHandler(balanceUseCase)
	ratingHandler = NewRatingHandler(ratingUseCase)
}

func GetAuthHandler() *AuthHandler {
	return authHandler
}

func GetUserHandler() *UserHandler {
	return userHandler
}

func GetJobHandler() *JobHandler {
	return jobHandler
}

func GetWalletHandler() *WalletHandler {
	return walletHandler
}

func GetRatingHandler() *RatingHandler {
	return ratingHandler
}

// getUserID returns the authenticated caller set by AuthMiddleware.
func getUserID(c echo.Context) (string, error) {
	userID, ok := c.Get("uid").(string)
	if !ok || userID == "" {
		return "", echo.NewHTTPError(http.StatusUnauthorized, "Invalid session")
	}
	return userID, nil
}
