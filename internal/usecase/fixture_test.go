package usecase

import (
	"context"
	"errors"
	"io"
	"sync"
	"time"

	"github.com/stretchr/testify/suite"
	"golang.org/x/crypto/bcrypt"

	adapterrepo "laburo/internal/adapter/repository"
	"laburo/internal/domain/entity"
	"laburo/internal/infrastructure/auth"
	"laburo/internal/infrastructure/docstore"
	"laburo/pkg/logger"
)

const testPassword = "correct-horse"

// switchableBackend is a file backend whose writes can be made to fail per
// collection, with an optional hook run after each successful write.
type switchableBackend struct {
	docstore.Backend

	mu         sync.Mutex
	failing    map[string]bool
	afterWrite func(collection string)
}

func (b *switchableBackend) Write(ctx context.Context, collection string, data []byte) error {
	b.mu.Lock()
	fail := b.failing[collection]
	hook := b.afterWrite
	b.mu.Unlock()
	if fail {
		return errors.New("disk full")
	}
	if err := b.Backend.Write(ctx, collection, data); err != nil {
		return err
	}
	if hook != nil {
		hook(collection)
	}
	return nil
}

func (b *switchableBackend) onWrite(hook func(collection string)) {
	b.mu.Lock()
	defer b.mu.Unlock()
	b.afterWrite = hook
}

func (b *switchableBackend) failWrites(collection string, fail bool) {
	b.mu.Lock()
	defer b.mu.Unlock()
	b.failing[collection] = fail
}

// baseSuite wires every use case against a fresh data directory.
type baseSuite struct {
	suite.Suite

	ctx      context.Context
	backend  *switchableBackend
	registry *adapterrepo.Registry

	auth    *AuthUseCase
	users   *UserUseCase
	jobs    *JobUseCase
	balance *BalanceUseCase
	ratings *RatingUseCase
}

func (s *baseSuite) SetupSuite() {
	logger.SetOutput(io.Discard)
}

func (s *baseSuite) SetupTest() {
	s.ctx = context.Background()

	files, err := docstore.NewFileBackend(s.T().TempDir())
	s.Require().NoError(err)
	s.backend = &switchableBackend{Backend: files, failing: map[string]bool{}}

	store := docstore.New(s.backend, docstore.Options{AutoInit: false})
	s.registry = adapterrepo.NewRegistry(store)
	s.Require().NoError(s.registry.Init(s.ctx))

	userRepo := adapterrepo.NewDocstoreUsuarioRepository(s.registry)
	trabajoRepo := adapterrepo.NewDocstoreTrabajoRepository(s.registry)
	saldoRepo := adapterrepo.NewDocstoreSaldoRepository(s.registry)
	cargaRepo := adapterrepo.NewDocstoreCargaRepository(s.registry)
	calificacionRepo := adapterrepo.NewDocstoreCalificacionRepository(s.registry)

	hasher := auth.NewBcryptHasher(bcrypt.MinCost)
	tokens := auth.NewJWTIssuer("test-secret", time.Hour)

	s.auth = NewAuthUseCase(userRepo, hasher, tokens)
	s.users = NewUserUseCase(userRepo, hasher)
	s.jobs = NewJobUseCase(trabajoRepo, userRepo)
	s.balance = NewBalanceUseCase(saldoRepo, cargaRepo, userRepo)
	s.ratings = NewRatingUseCase(calificacionRepo, trabajoRepo)
}

func (s *baseSuite) register(email string, rol entity.Rol) *entity.Usuario {
	result, err := s.auth.Register(s.ctx, RegisterInput{
		Nombre:   "Test",
		Apellido: "User",
		Correo:   email,
		Password: testPassword,
		Rol:      rol,
	})
	s.Require().NoError(err)
	return result.User
}

func (s *baseSuite) admin() *entity.Usuario {
	created, err := s.auth.EnsureAdmin(s.ctx, "admin@laburo.test", testPassword)
	s.Require().NoError(err)
	s.Require().True(created)

	admin, err := s.auth.Login(s.ctx, "admin@laburo.test", testPassword)
	s.Require().NoError(err)
	return admin.User
}

func (s *baseSuite) jobInput(price float64) PostJobInput {
	return PostJobInput{
		Titulo:           "Fix kitchen sink",
		Categoria:        "plomeria",
		Descripcion:      "The sink leaks under the counter",
		PrecioOfrecido:   price,
		UbicacionTexto:   "Av. Siempre Viva 742",
		FechaHoraDeseada: time.Now().Add(48 * time.Hour),
	}
}

func (s *baseSuite) post(contractorID string) *entity.Trabajo {
	trabajo, err := s.jobs.Post(s.ctx, contractorID, s.jobInput(100))
	s.Require().NoError(err)
	return trabajo
}

// finalized drives a fresh job through the whole lifecycle.
func (s *baseSuite) finalized(contractorID, providerID string) *entity.Trabajo {
	trabajo := s.post(contractorID)

	_, err := s.jobs.Accept(s.ctx, trabajo.ID, providerID)
	s.Require().NoError(err)
	_, err = s.jobs.MarkCompleted(s.ctx, trabajo.ID, providerID)
	s.Require().NoError(err)
	trabajo, err = s.jobs.ConfirmCompletion(s.ctx, trabajo.ID, contractorID)
	s.Require().NoError(err)
	return trabajo
}
