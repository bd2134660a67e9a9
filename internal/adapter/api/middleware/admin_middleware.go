package middleware

import (
	"github.com/labstack/echo/v4"

	"laburo/internal/domain/entity"
	"laburo/internal/domain/repository"
	"laburo/pkg/errors"
	"laburo/pkg/response"
)

type AdminMiddleware struct {
	userRepo repository.UsuarioRepository
}

func NewAdminMiddleware(userRepo repository.UsuarioRepository) *AdminMiddleware {
	return &AdminMiddleware{
		userRepo: userRepo,
	}
}

// AdminOnly checks the stored role rather than the token claim, so a demoted
// admin loses access before their token expires.
func (m *AdminMiddleware) AdminOnly(next echo.HandlerFunc) echo.HandlerFunc {
	return func(c echo.Context) error {
		uid, ok := c.Get("uid").(string)
		if !ok || uid == "" {
			return response.Error(c, errors.Unauthorized("Authentication required", nil))
		}

		user, err := m.userRepo.GetByID(c.Request().Context(), uid)
		if err != nil {
			if errors.Is(err, errors.CodeNotFound) {
				return response.Error(c, errors.Forbidden("Admin privileges required", nil))
			}
			return response.Error(c, err)
		}

		if user.Rol != entity.RolAdmin {
			return response.Error(c, errors.Forbidden("Admin privileges required", nil))
		}

		return next(c)
	}
}
