package main

import (
	"context"
	"log"
	"time"

	"github.com/labstack/echo/v4"
	"github.com/labstack/echo/v4/middleware"

	"laburo/internal/adapter/api"
	"laburo/internal/adapter/api/handler"
	apimiddleware "laburo/internal/adapter/api/middleware"
	"laburo/internal/adapter/api/router"
	"laburo/internal/adapter/repository"
	"laburo/internal/infrastructure/auth"
	"laburo/internal/infrastructure/docstore"
	"laburo/internal/infrastructure/ratelimit"
	"laburo/internal/usecase"
	"laburo/pkg/config"
	"laburo/pkg/logger"
)

func main() {
	cfg, err := config.Load()
	if err != nil {
		log.Fatalf("Failed to load configuration: %v", err)
	}

	ctx := context.Background()

	backend, closeBackend, err := newBackend(ctx, cfg)
	if err != nil {
		log.Fatalf("Failed to initialize storage: %v", err)
	}
	defer closeBackend()

	store := docstore.New(backend, docstore.Options{AutoInit: cfg.AutoInit()})
	registry := repository.NewRegistry(store)
	if store.AutoInit() {
		if err := registry.Init(ctx); err != nil {
			log.Fatalf("Failed to load collections: %v", err)
		}
	}

	userRepo := repository.NewDocstoreUsuarioRepository(registry)
	trabajoRepo := repository.NewDocstoreTrabajoRepository(registry)
	saldoRepo := repository.NewDocstoreSaldoRepository(registry)
	cargaRepo := repository.NewDocstoreCargaRepository(registry)
	calificacionRepo := repository.NewDocstoreCalificacionRepository(registry)

	hasher := auth.NewBcryptHasher(0)
	tokens := auth.NewJWTIssuer(cfg.JWTSecret, time.Duration(cfg.JWTExpiry)*time.Second)

	authUseCase := usecase.NewAuthUseCase(userRepo, hasher, tokens)
	userUseCase := usecase.NewUserUseCase(userRepo, hasher)
	jobUseCase := usecase.NewJobUseCase(trabajoRepo, userRepo)
	balanceUseCase := usecase.NewBalanceUseCase(saldoRepo, cargaRepo, userRepo)
	ratingUseCase := usecase.NewRatingUseCase(calificacionRepo, trabajoRepo)

	if err := seedAdmin(ctx, cfg, registry, authUseCase); err != nil {
		log.Fatalf("Failed to seed admin account: %v", err)
	}

	handler.Setup(authUseCase, userUseCase, jobUseCase, balanceUseCase, ratingUseCase)
	handler.SetupHealthHandler(registry, cfg.StoreBackend)

	limiter := ratelimit.NewRateLimiter(ratelimit.DefaultPolicies(cfg.AuthRateLimit))
	limiter.StartCleanupRoutine(ctx, 30*time.Minute)

	e := echo.New()

	e.Use(middleware.Logger())
	e.Use(middleware.Recover())
	e.Use(middleware.CORS())

	e.Validator = api.NewValidator()

	authMiddleware := apimiddleware.NewAuthMiddleware(tokens)
	adminMiddleware := apimiddleware.NewAdminMiddleware(userRepo)
	rateLimitMiddleware := apimiddleware.NewRateLimitMiddleware(limiter)

	router.Setup(e, authMiddleware, adminMiddleware, rateLimitMiddleware)

	logger.Info("Starting server on port %s (environment=%s, storage=%s)", cfg.ServerPort, cfg.Environment, cfg.StoreBackend)
	e.Logger.Fatal(e.Start(":" + cfg.ServerPort))
}

func newBackend(ctx context.Context, cfg *config.Config) (docstore.Backend, func(), error) {
	switch cfg.StoreBackend {
	case config.BackendFirestore:
		client, err := docstore.NewFirestoreClient(ctx, cfg.FirestoreProject, cfg.ServiceAccountPath)
		if err != nil {
			return nil, nil, err
		}
		logger.Info("Using Firestore collections under %s", cfg.FirestoreRootCollection)
		return docstore.NewFirestoreBackend(client, cfg.FirestoreRootCollection), func() { client.Close() }, nil
	default:
		backend, err := docstore.NewFileBackend(cfg.DataDir)
		if err != nil {
			return nil, nil, err
		}
		logger.Info("Using JSON collections in %s", backend.Dir())
		return backend, func() {}, nil
	}
}

// seedAdmin creates the configured admin account when it is missing. The
// collections are loaded first, since auto-init is off under ENVIRONMENT=test.
func seedAdmin(ctx context.Context, cfg *config.Config, registry *repository.Registry, authUseCase *usecase.AuthUseCase) error {
	if cfg.AdminEmail == "" || cfg.AdminPassword == "" {
		return nil
	}
	if err := registry.Init(ctx); err != nil {
		return err
	}

	_, err := authUseCase.EnsureAdmin(ctx, cfg.AdminEmail, cfg.AdminPassword)
	return err
}
