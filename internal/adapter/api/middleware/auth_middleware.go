package middleware

import (
	"strings"

	"github.com/labstack/echo/v4"

	"laburo/pkg/errors"
	"laburo/pkg/response"
)

// TokenVerifier resolves a bearer token to the account it was issued for.
type TokenVerifier interface {
	Verify(token string) (userID string, role string, err error)
}

type AuthMiddleware struct {
	tokens TokenVerifier
}

func NewAuthMiddleware(tokens TokenVerifier) *AuthMiddleware {
	return &AuthMiddleware{
		tokens: tokens,
	}
}

// Authenticate requires a valid bearer token and stores the caller's id and
// role in the context under "uid" and "role".
func (m *AuthMiddleware) Authenticate(next echo.HandlerFunc) echo.HandlerFunc {
	return func(c echo.Context) error {
		authHeader := c.Request().Header.Get("Authorization")
		if authHeader == "" {
			return response.Error(c, errors.Unauthorized("Authorization header is required", nil))
		}

		parts := strings.Split(authHeader, " ")
		if len(parts) != 2 || parts[0] != "Bearer" {
			return response.Error(c, errors.Unauthorized("Invalid authorization format", nil))
		}

		uid, role, err := m.tokens.Verify(parts[1])
		if err != nil {
			return response.Error(c, errors.Unauthorized("Invalid or expired token", err))
		}

		c.Set("uid", uid)
		c.Set("role", role)

		return next(c)
	}
}
