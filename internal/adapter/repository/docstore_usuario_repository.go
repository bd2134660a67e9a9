package repository

import (
	"context"
	"strings"

	"laburo/internal/domain/entity"
	"laburo/internal/domain/repository"
	"laburo/internal/infrastructure/docstore"
	"laburo/pkg/errors"
)

type docstoreUsuarioRepository struct {
	usuarios *docstore.Collection[entity.Usuario]
}

func NewDocstoreUsuarioRepository(registry *Registry) repository.UsuarioRepository {
	return &docstoreUsuarioRepository{
		usuarios: registry.Usuarios,
	}
}

func normalizeEmail(email string) string {
	return strings.ToLower(strings.TrimSpace(email))
}

func (r *docstoreUsuarioRepository) Create(ctx context.Context, usuario *entity.Usuario) error {
	usuario.Correo = normalizeEmail(usuario.Correo)

	err := r.usuarios.Mutate(ctx, func(tx *docstore.Tx[entity.Usuario]) error {
		if _, taken := tx.First(func(u *entity.Usuario) bool { return u.Correo == usuario.Correo }); taken {
			return errors.Conflict("Email already in use")
		}
		if _, exists := tx.Get(usuario.ID); exists {
			return errors.Conflict("User already exists")
		}
		return tx.Insert(*usuario)
	})
	return storeError("create user", err)
}

func (r *docstoreUsuarioRepository) GetByID(ctx context.Context, id string) (*entity.Usuario, error) {
	usuario, found, err := r.usuarios.Get(ctx, id)
	if err != nil {
		return nil, storeError("get user", err)
	}
	if !found {
		return nil, errors.NotFound("User", nil)
	}
	return &usuario, nil
}

func (r *docstoreUsuarioRepository) GetByEmail(ctx context.Context, email string) (*entity.Usuario, error) {
	email = normalizeEmail(email)
	usuario, found, err := r.usuarios.First(ctx, func(u *entity.Usuario) bool { return u.Correo == email })
	if err != nil {
		return nil, storeError("get user", err)
	}
	if !found {
		return nil, errors.NotFound("User", nil)
	}
	return &usuario, nil
}

func (r *docstoreUsuarioRepository) Update(ctx context.Context, id string, fn func(*entity.Usuario) error) (*entity.Usuario, error) {
	var updated entity.Usuario
	err := r.usuarios.Mutate(ctx, func(tx *docstore.Tx[entity.Usuario]) error {
		usuario, found := tx.Get(id)
		if !found {
			return errors.NotFound("User", nil)
		}
		correo := usuario.Correo
		if err := fn(&usuario); err != nil {
			return err
		}
		// id and email are the lookup keys and never change.
		usuario.ID = id
		usuario.Correo = correo
		updated = usuario
		return tx.Put(usuario)
	})
	if err != nil {
		return nil, storeError("update user", err)
	}
	return &updated, nil
}

func (r *docstoreUsuarioRepository) List(ctx context.Context, filter repository.UsuarioFilter, limit, offset int) ([]*entity.Usuario, int64, error) {
	usuarios, err := r.usuarios.Filter(ctx, func(u *entity.Usuario) bool {
		return filter.Rol == "" || u.Rol == filter.Rol
	})
	if err != nil {
		return nil, 0, storeError("list users", err)
	}
	items, total := page(usuarios, limit, offset)
	return items, total, nil
}
