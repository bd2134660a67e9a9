package handler

import (
	"github.com/labstack/echo/v4"

	"laburo/internal/domain/entity"
	"laburo/internal/usecase"
	"laburo/pkg/response"
	"laburo/pkg/utils"
)

type UserHandler struct {
	userUseCase *usecase.UserUseCase
}

func NewUserHandler(userUseCase *usecase.UserUseCase) *UserHandler {
	return &UserHandler{
		userUseCase: userUseCase,
	}
}

type changePasswordRequest struct {
	CurrentPassword string `json:"currentPassword" validate:"required"`
	NewPassword     string `json:"newPassword" validate:"required,min=8"`
}

type setRoleRequest struct {
	Rol string `json:"rol" validate:"required,oneof=contratante prestador ambos admin"`
}

func (h *UserHandler) GetProfile(c echo.Context) error {
	uid, err := getUserID(c)
	if err != nil {
		return response.Error(c, err)
	}

	user, err := h.userUseCase.GetProfile(c.Request().Context(), uid)
	if err != nil {
		return response.Error(c, err)
	}

	return response.Success(c, user.Public())
}

func (h *UserHandler) ChangePassword(c echo.Context) error {
	var req changePasswordRequest
	if err := c.Bind(&req); err != nil {
		return response.Error(c, err)
	}
	if err := c.Validate(&req); err != nil {
		return response.Error(c, err)
	}

	uid, err := getUserID(c)
	if err != nil {
		return response.Error(c, err)
	}

	if err := h.userUseCase.ChangePassword(c.Request().Context(), uid, req.CurrentPassword, req.NewPassword); err != nil {
		return response.Error(c, err)
	}

	return response.Success(c, map[string]string{
		"message": "Password updated",
	})
}

// EscalateRole lets a contractor or provider take on the other role too.
func (h *UserHandler) EscalateRole(c echo.Context) error {
	uid, err := getUserID(c)
	if err != nil {
		return response.Error(c, err)
	}

	user, err := h.userUseCase.EscalateRole(c.Request().Context(), uid)
	if err != nil {
		return response.Error(c, err)
	}

	return response.Success(c, user.Public())
}

func (h *UserHandler) ListUsers(c echo.Context) error {
	pagination := utils.GetPaginationParams(c)

	users, total, err := h.userUseCase.ListUsers(c.Request().Context(), entity.Rol(c.QueryParam("rol")), pagination)
	if err != nil {
		return response.Error(c, err)
	}

	items := make([]*entity.PublicUsuario, 0, len(users))
	for _, u := range users {
		items = append(items, u.Public())
	}
	return response.Paginated(c, items, total, pagination.Page, pagination.PageSize)
}

func (h *UserHandler) SetRole(c echo.Context) error {
	var req setRoleRequest
	if err := c.Bind(&req); err != nil {
		return response.Error(c, err)
	}
	if err := c.Validate(&req); err != nil {
		return response.Error(c, err)
	}

	adminID, err := getUserID(c)
	if err != nil {
		return response.Error(c, err)
	}

	user, err := h.userUseCase.SetRole(c.Request().Context(), adminID, c.Param("id"), entity.Rol(req.Rol))
	if err != nil {
		return response.Error(c, err)
	}

	return response.Success(c, user.Public())
}
