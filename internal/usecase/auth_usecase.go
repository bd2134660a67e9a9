package usecase

import (
	"context"
	"strings"
	"time"

	"github.com/google/uuid"

	"laburo/internal/domain/entity"
	"laburo/internal/domain/repository"
	"laburo/pkg/errors"
	"laburo/pkg/logger"
)

const minPasswordLength = 8

type AuthUseCase struct {
	userRepo repository.UsuarioRepository
	hasher   CredentialHasher
	tokens   TokenIssuer
}

func NewAuthUseCase(userRepo repository.UsuarioRepository, hasher CredentialHasher, tokens TokenIssuer) *AuthUseCase {
	return &AuthUseCase{
		userRepo: userRepo,
		hasher:   hasher,
		tokens:   tokens,
	}
}

type RegisterInput struct {
	Nombre   string
	Apellido string
	Correo   string
	Telefono string
	Cedula   string
	Password string
	Rol      entity.Rol
}

type AuthResult struct {
	User  *entity.Usuario
	Token string
}

func (uc *AuthUseCase) Register(ctx context.Context, input RegisterInput) (*AuthResult, error) {
	if strings.TrimSpace(input.Nombre) == "" || strings.TrimSpace(input.Correo) == "" {
		return nil, errors.Validation("Name and email are required")
	}
	if len(input.Password) < minPasswordLength {
		return nil, errors.Validation("Password must be at least 8 characters")
	}
	// admin accounts are never self-registered
	if !input.Rol.Valid() || input.Rol == entity.RolAdmin {
		return nil, errors.Validation("Role must be contratante, prestador or ambos")
	}

	hash, err := uc.hasher.Hash(input.Password)
	if err != nil {
		return nil, errors.Internal("Failed to hash password", err)
	}

	user := &entity.Usuario{
		ID:             uuid.New().String(),
		Nombre:         strings.TrimSpace(input.Nombre),
		Apellido:       strings.TrimSpace(input.Apellido),
		Correo:         input.Correo,
		Telefono:       input.Telefono,
		Cedula:         input.Cedula,
		HashContrasena: hash,
		Rol:            input.Rol,
		FechaRegistro:  time.Now(),
	}

	if err := uc.userRepo.Create(ctx, user); err != nil {
		return nil, err
	}

	token, err := uc.tokens.Issue(user.ID, string(user.Rol))
	if err != nil {
		return nil, errors.Internal("Failed to generate authentication token", err)
	}

	return &AuthResult{
		User:  user,
		Token: token,
	}, nil
}

func (uc *AuthUseCase) Login(ctx context.Context, email, password string) (*AuthResult, error) {
	user, err := uc.userRepo.GetByEmail(ctx, email)
	if err != nil {
		if errors.Is(err, errors.CodeNotFound) {
			return nil, errors.Unauthorized("Invalid credentials", nil)
		}
		return nil, err
	}

	if err := uc.hasher.Compare(user.HashContrasena, password); err != nil {
		return nil, errors.Unauthorized("Invalid credentials", nil)
	}

	token, err := uc.tokens.Issue(user.ID, string(user.Rol))
	if err != nil {
		return nil, errors.Internal("Failed to generate authentication token", err)
	}

	return &AuthResult{
		User:  user,
		Token: token,
	}, nil
}

// EnsureAdmin creates an admin account for email unless an account with that
// email already exists. It reports whether an account was created.
func (uc *AuthUseCase) EnsureAdmin(ctx context.Context, email, password string) (bool, error) {
	existing, err := uc.userRepo.GetByEmail(ctx, email)
	if err == nil {
		if existing.Rol != entity.RolAdmin {
			logger.Warn("Admin seed skipped: %s exists with role %s", email, existing.Rol)
		}
		return false, nil
	}
	if !errors.Is(err, errors.CodeNotFound) {
		return false, err
	}

	if len(password) < minPasswordLength {
		return false, errors.Validation("Password must be at least 8 characters")
	}
	hash, err := uc.hasher.Hash(password)
	if err != nil {
		return false, errors.Internal("Failed to hash password", err)
	}

	admin := &entity.Usuario{
		ID:             uuid.New().String(),
		Nombre:         "Admin",
		Correo:         email,
		HashContrasena: hash,
		Rol:            entity.RolAdmin,
		FechaRegistro:  time.Now(),
	}
	if err := uc.userRepo.Create(ctx, admin); err != nil {
		return false, err
	}

	logger.Info("Admin account created: %s", admin.Correo)
	return true, nil
}
