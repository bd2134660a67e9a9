package repository

import (
	"context"

	"laburo/internal/domain/entity"
)

type UsuarioFilter struct {
	Rol entity.Rol
}

type UsuarioRepository interface {
	// Create fails with a conflict when the email is already registered.
	Create(ctx context.Context, usuario *entity.Usuario) error
	GetByID(ctx context.Context, id string) (*entity.Usuario, error)
	GetByEmail(ctx context.Context, email string) (*entity.Usuario, error)
	// Update applies fn to the stored account and persists the result
	// atomically. An error from fn aborts the update and is returned as is.
	Update(ctx context.Context, id string, fn func(*entity.Usuario) error) (*entity.Usuario, error)
	List(ctx context.Context, filter UsuarioFilter, limit, offset int) ([]*entity.Usuario, int64, error)
}
