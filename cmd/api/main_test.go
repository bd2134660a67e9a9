package main

import (
	"context"
	"io"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"golang.org/x/crypto/bcrypt"

	"laburo/internal/adapter/repository"
	"laburo/internal/infrastructure/auth"
	"laburo/internal/infrastructure/docstore"
	"laburo/internal/usecase"
	"laburo/pkg/config"
	"laburo/pkg/logger"
)

func TestSeedAdmin_WithoutAutoInit(t *testing.T) {
	logger.SetOutput(io.Discard)
	ctx := context.Background()

	backend, err := docstore.NewFileBackend(t.TempDir())
	require.NoError(t, err)
	registry := repository.NewRegistry(docstore.New(backend, docstore.Options{AutoInit: false}))
	userRepo := repository.NewDocstoreUsuarioRepository(registry)
	authUseCase := usecase.NewAuthUseCase(userRepo, auth.NewBcryptHasher(bcrypt.MinCost), auth.NewJWTIssuer("secret", time.Hour))

	require.NoError(t, seedAdmin(ctx, &config.Config{Environment: config.EnvTest}, registry, authUseCase))

	cfg := &config.Config{
		Environment:   config.EnvTest,
		AdminEmail:    "admin@laburo.test",
		AdminPassword: "correct-horse",
	}
	require.NoError(t, seedAdmin(ctx, cfg, registry, authUseCase))
	require.NoError(t, seedAdmin(ctx, cfg, registry, authUseCase))

	admin, err := userRepo.GetByEmail(ctx, "admin@laburo.test")
	require.NoError(t, err)
	assert.Equal(t, "admin", string(admin.Rol))
}
