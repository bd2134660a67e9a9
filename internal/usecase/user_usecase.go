package usecase

import (
	"context"

	"laburo/internal/domain/entity"
	"laburo/internal/domain/repository"
	"laburo/pkg/errors"
	"laburo/pkg/utils"
)

type UserUseCase struct {
	userRepo repository.UsuarioRepository
	hasher   CredentialHasher
}

func NewUserUseCase(userRepo repository.UsuarioRepository, hasher CredentialHasher) *UserUseCase {
	return &UserUseCase{
		userRepo: userRepo,
		hasher:   hasher,
	}
}

func (uc *UserUseCase) GetProfile(ctx context.Context, userID string) (*entity.Usuario, error) {
	return uc.userRepo.GetByID(ctx, userID)
}

func (uc *UserUseCase) ChangePassword(ctx context.Context, userID, currentPassword, newPassword string) error {
	if len(newPassword) < minPasswordLength {
		return errors.Validation("Password must be at least 8 characters")
	}

	user, err := uc.userRepo.GetByID(ctx, userID)
	if err != nil {
		return err
	}
	if err := uc.hasher.Compare(user.HashContrasena, currentPassword); err != nil {
		return errors.Unauthorized("Current password is incorrect", nil)
	}

	hash, err := uc.hasher.Hash(newPassword)
	if err != nil {
		return errors.Internal("Failed to hash password", err)
	}

	_, err = uc.userRepo.Update(ctx, userID, func(u *entity.Usuario) error {
		// a concurrent change since the check above wins
		if u.HashContrasena != user.HashContrasena {
			return errors.Conflict("Password was changed concurrently")
		}
		u.HashContrasena = hash
		return nil
	})
	return err
}

// EscalateRole upgrades a single-role account to ambos so it can both post
// and accept jobs.
func (uc *UserUseCase) EscalateRole(ctx context.Context, userID string) (*entity.Usuario, error) {
	return uc.userRepo.Update(ctx, userID, func(u *entity.Usuario) error {
		switch u.Rol {
		case entity.RolContratante, entity.RolPrestador:
			u.Rol = entity.RolAmbos
			return nil
		case entity.RolAmbos:
			return errors.Conflict("Account already has both roles")
		default:
			return errors.Forbidden("Role cannot be escalated", nil)
		}
	})
}

func (uc *UserUseCase) SetRole(ctx context.Context, adminID, userID string, rol entity.Rol) (*entity.Usuario, error) {
	if !rol.Valid() {
		return nil, errors.Validation("Invalid role")
	}
	if err := requireAdmin(ctx, uc.userRepo, adminID); err != nil {
		return nil, err
	}
	if adminID == userID && rol != entity.RolAdmin {
		return nil, errors.Conflict("Admins cannot demote themselves")
	}

	return uc.userRepo.Update(ctx, userID, func(u *entity.Usuario) error {
		u.Rol = rol
		return nil
	})
}

func (uc *UserUseCase) ListUsers(ctx context.Context, rol entity.Rol, pagination utils.PaginationParams) ([]*entity.Usuario, int64, error) {
	if rol != "" && !rol.Valid() {
		return nil, 0, errors.Validation("Invalid role")
	}
	return uc.userRepo.List(ctx, repository.UsuarioFilter{Rol: rol}, pagination.PageSize, pagination.Offset)
}

func requireAdmin(ctx context.Context, userRepo repository.UsuarioRepository, userID string) error {
	user, err := userRepo.GetByID(ctx, userID)
	if err != nil {
		if errors.Is(err, errors.CodeNotFound) {
			return errors.Forbidden("Admin privileges required", err)
		}
		return err
	}
	if user.Rol != entity.RolAdmin {
		return errors.Forbidden("Admin privileges required", nil)
	}
	return nil
}
