package handler

import (
	"github.com/labstack/echo/v4"

	"laburo/internal/domain/entity"
	"laburo/internal/usecase"
	"laburo/pkg/response"
)

type AuthHandler struct {
	authUseCase *usecase.AuthUseCase
}

func NewAuthHandler(authUseCase *usecase.AuthUseCase) *AuthHandler {
	return &AuthHandler{
		authUseCase: authUseCase,
	}
}

type registerRequest struct {
	Nombre   string `json:"nombre" validate:"required"`
	Apellido string `json:"apellido" validate:"required"`
	Correo   string `json:"correo" validate:"required,email"`
	Telefono string `json:"telefono" validate:"omitempty,max=20"`
	Cedula   string `json:"cedula" validate:"omitempty,max=20"`
	Password string `json:"password" validate:"required,min=8"`
	Rol      string `json:"rol" validate:"required,oneof=contratante prestador ambos"`
}

type loginRequest struct {
	Correo   string `json:"correo" validate:"required,email"`
	Password string `json:"password" validate:"required"`
}

type authResponse struct {
	Token string                `json:"token"`
	User  *entity.PublicUsuario `json:"user"`
}

func (h *AuthHandler) Register(c echo.Context) error {
	var req registerRequest
	if err := c.Bind(&req); err != nil {
		return response.Error(c, err)
	}
	if err := c.Validate(&req); err != nil {
		return response.Error(c, err)
	}

	result, err := h.authUseCase.Register(c.Request().Context(), usecase.RegisterInput{
		Nombre:   req.Nombre,
		Apellido: req.Apellido,
		Correo:   req.Correo,
		Telefono: req.Telefono,
		Cedula:   req.Cedula,
		Password: req.Password,
		Rol:      entity.Rol(req.Rol),
	})
	if err != nil {
		return response.Error(c, err)
	}

	return response.Created(c, authResponse{
		Token: result.Token,
		User:  result.User.Public(),
	})
}

func (h *AuthHandler) Login(c echo.Context) error {
	var req loginRequest
	if err := c.Bind(&req); err != nil {
		return response.Error(c, err)
	}
	if err := c.Validate(&req); err != nil {
		return response.Error(c, err)
	}

	result, err := h.authUseCase.Login(c.Request().Context(), req.Correo, req.Password)
	if err != nil {
		return response.Error(c, err)
	}

	return response.Success(c, authResponse{
		Token: result.Token,
		User:  result.User.Public(),
	})
}
