package repository

import (
	"context"
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"laburo/internal/domain/entity"
	domainrepo "laburo/internal/domain/repository"
	"laburo/internal/infrastructure/docstore"
	apperrors "laburo/pkg/errors"
)

func newRegistry(t *testing.T, dir string, autoInit bool) *Registry {
	t.Helper()
	backend, err := docstore.NewFileBackend(dir)
	require.NoError(t, err)
	return NewRegistry(docstore.New(backend, docstore.Options{AutoInit: autoInit}))
}

func TestRegistryInitCreatesEveryCollection(t *testing.T) {
	dir := t.TempDir()
	registry := newRegistry(t, dir, false)

	require.NoError(t, registry.Init(context.Background()))
	require.NoError(t, registry.Init(context.Background()))

	for _, name := range []string{CollectionUsuarios, CollectionTrabajos, CollectionSaldos, CollectionCargas, CollectionCalificaciones} {
		data, err := os.ReadFile(filepath.Join(dir, name+".json"))
		require.NoError(t, err, name)
		assert.JSONEq(t, "[]", string(data), name)
	}
}

func TestRepositoriesRequireInitWithoutAutoInit(t *testing.T) {
	registry := newRegistry(t, t.TempDir(), false)
	users := NewDocstoreUsuarioRepository(registry)

	_, err := users.GetByID(context.Background(), "u1")
	assert.True(t, apperrors.Is(err, apperrors.CodeNotInitialized), "got %v", err)

	require.NoError(t, registry.Init(context.Background()))
	_, err = users.GetByID(context.Background(), "u1")
	assert.True(t, apperrors.Is(err, apperrors.CodeNotFound))
}

func TestRepositoriesAutoInitOnFirstAccess(t *testing.T) {
	registry := newRegistry(t, t.TempDir(), true)
	jobs := NewDocstoreTrabajoRepository(registry)

	_, total, err := jobs.List(context.Background(), domainrepo.TrabajoFilter{}, 10, 0)
	require.NoError(t, err)
	assert.Zero(t, total)
}

func TestUsuarioRepository(t *testing.T) {
	ctx := context.Background()
	dir := t.TempDir()
	registry := newRegistry(t, dir, false)
	require.NoError(t, registry.Init(ctx))
	users := NewDocstoreUsuarioRepository(registry)

	ana := &entity.Usuario{ID: "u1", Nombre: "Ana", Correo: "Ana@Laburo.test", Rol: entity.RolContratante, FechaRegistro: time.Now()}
	require.NoError(t, users.Create(ctx, ana))
	assert.Equal(t, "ana@laburo.test", ana.Correo)

	err := users.Create(ctx, &entity.Usuario{ID: "u2", Correo: "ANA@laburo.test", Rol: entity.RolPrestador})
	assert.True(t, apperrors.Is(err, apperrors.CodeConflict))

	found, err := users.GetByEmail(ctx, " ana@LABURO.test")
	require.NoError(t, err)
	assert.Equal(t, "u1", found.ID)

	updated, err := users.Update(ctx, "u1", func(u *entity.Usuario) error {
		u.Rol = entity.RolAmbos
		u.ID = "hijacked"
		u.Correo = "other@laburo.test"
		return nil
	})
	require.NoError(t, err)
	assert.Equal(t, "u1", updated.ID)
	assert.Equal(t, "ana@laburo.test", updated.Correo)
	assert.Equal(t, entity.RolAmbos, updated.Rol)

	_, err = users.Update(ctx, "u1", func(u *entity.Usuario) error {
		u.Rol = entity.RolAdmin
		return apperrors.Conflict("abort")
	})
	assert.True(t, apperrors.Is(err, apperrors.CodeConflict))

	// a reload from disk sees exactly the committed state
	registry.Reset()
	require.NoError(t, registry.Init(ctx))
	reloaded, err := users.GetByID(ctx, "u1")
	require.NoError(t, err)
	assert.Equal(t, entity.RolAmbos, reloaded.Rol)

	raw, err := os.ReadFile(filepath.Join(dir, CollectionUsuarios+".json"))
	require.NoError(t, err)
	var stored []map[string]interface{}
	require.NoError(t, json.Unmarshal(raw, &stored))
	require.Len(t, stored, 1)
	assert.Equal(t, "ambos", stored[0]["rol"])
	assert.Contains(t, stored[0], "hashContrasena")
}

func TestUsuarioRepositoryListPages(t *testing.T) {
	ctx := context.Background()
	registry := newRegistry(t, t.TempDir(), true)
	users := NewDocstoreUsuarioRepository(registry)

	for i := 0; i < 5; i++ {
		rol := entity.RolContratante
		if i%2 == 0 {
			rol = entity.RolPrestador
		}
		require.NoError(t, users.Create(ctx, &entity.Usuario{ID: fmt.Sprintf("u%d", i), Correo: fmt.Sprintf("u%d@laburo.test", i), Rol: rol}))
	}

	page1, total, err := users.List(ctx, domainrepo.UsuarioFilter{}, 2, 0)
	require.NoError(t, err)
	assert.EqualValues(t, 5, total)
	require.Len(t, page1, 2)
	assert.Equal(t, "u0", page1[0].ID)

	last, _, err := users.List(ctx, domainrepo.UsuarioFilter{}, 2, 4)
	require.NoError(t, err)
	require.Len(t, last, 1)
	assert.Equal(t, "u4", last[0].ID)

	providers, total, err := users.List(ctx, domainrepo.UsuarioFilter{Rol: entity.RolPrestador}, 0, 0)
	require.NoError(t, err)
	assert.EqualValues(t, 3, total)
	assert.Len(t, providers, 3)
}

func TestSaldoRepositoryAdjust(t *testing.T) {
	ctx := context.Background()
	registry := newRegistry(t, t.TempDir(), true)
	saldos := NewDocstoreSaldoRepository(registry)

	_, err := saldos.GetByPrestadorID(ctx, "p1")
	assert.True(t, apperrors.Is(err, apperrors.CodeNotFound))

	at := time.Date(2026, 3, 1, 10, 0, 0, 0, time.UTC)
	saldo, created, err := saldos.Adjust(ctx, "p1", 50000, at)
	require.NoError(t, err)
	assert.True(t, created)
	assert.Equal(t, 50000.0, saldo.Monto)
	assert.True(t, at.Equal(saldo.UltimaActualizacion))

	saldo, created, err = saldos.Adjust(ctx, "p1", 250, at.Add(time.Hour))
	require.NoError(t, err)
	assert.False(t, created)
	assert.Equal(t, 50250.0, saldo.Monto)

	_, _, err = saldos.Adjust(ctx, "p1", -60000, at)
	assert.True(t, apperrors.Is(err, apperrors.CodeConflict))

	stored, err := saldos.GetByPrestadorID(ctx, "p1")
	require.NoError(t, err)
	assert.Equal(t, 50250.0, stored.Monto)

	all, err := saldos.List(ctx)
	require.NoError(t, err)
	assert.Len(t, all, 1)
}

func TestSaldoRepositoryReverse(t *testing.T) {
	ctx := context.Background()
	registry := newRegistry(t, t.TempDir(), true)
	saldos := NewDocstoreSaldoRepository(registry)
	at := time.Date(2026, 3, 1, 10, 0, 0, 0, time.UTC)

	_, created, err := saldos.Adjust(ctx, "p1", 900, at)
	require.NoError(t, err)
	require.NoError(t, saldos.Reverse(ctx, "p1", 900, created, at))

	_, err = saldos.GetByPrestadorID(ctx, "p1")
	assert.True(t, apperrors.Is(err, apperrors.CodeNotFound), "a reversed first credit leaves no record")
	n, err := registry.Saldos.Count(ctx)
	require.NoError(t, err)
	assert.Zero(t, n)

	_, _, err = saldos.Adjust(ctx, "p2", 100, at)
	require.NoError(t, err)
	_, created, err = saldos.Adjust(ctx, "p2", 40, at)
	require.NoError(t, err)
	require.NoError(t, saldos.Reverse(ctx, "p2", 40, created, at))

	stored, err := saldos.GetByPrestadorID(ctx, "p2")
	require.NoError(t, err)
	assert.Equal(t, 100.0, stored.Monto)

	err = saldos.Reverse(ctx, "p3", 10, true, at)
	assert.True(t, apperrors.Is(err, apperrors.CodeConflict))
}

func TestCargaRepositoryFilters(t *testing.T) {
	ctx := context.Background()
	registry := newRegistry(t, t.TempDir(), true)
	cargas := NewDocstoreCargaRepository(registry)

	require.NoError(t, cargas.Create(ctx, &entity.Carga{ID: "c1", PrestadorID: "p1", Monto: 10, Estado: entity.CargaPendiente}))
	require.NoError(t, cargas.Create(ctx, &entity.Carga{ID: "c2", PrestadorID: "p2", Monto: 20, Estado: entity.CargaPendiente}))
	require.NoError(t, cargas.Create(ctx, &entity.Carga{ID: "c3", PrestadorID: "p1", Monto: 30, Estado: entity.CargaAprobada}))

	err := cargas.Create(ctx, &entity.Carga{ID: "c1", PrestadorID: "p1", Monto: 10})
	assert.True(t, apperrors.Is(err, apperrors.CodeConflict))

	mine, total, err := cargas.List(ctx, domainrepo.CargaFilter{PrestadorID: "p1"}, 0, 0)
	require.NoError(t, err)
	assert.EqualValues(t, 2, total)
	assert.Equal(t, "c1", mine[0].ID)

	pending, total, err := cargas.List(ctx, domainrepo.CargaFilter{Estado: entity.CargaPendiente}, 0, 0)
	require.NoError(t, err)
	assert.EqualValues(t, 2, total)
	assert.Len(t, pending, 2)

	_, err = cargas.Update(ctx, "missing", func(c *entity.Carga) error { return nil })
	assert.True(t, apperrors.Is(err, apperrors.CodeNotFound))
}

func TestCalificacionRepositoryRejectsSecondRatingForJob(t *testing.T) {
	ctx := context.Background()
	registry := newRegistry(t, t.TempDir(), true)
	ratings := NewDocstoreCalificacionRepository(registry)

	require.NoError(t, ratings.Create(ctx, &entity.Calificacion{ID: "r1", TrabajoID: "t1", ContratanteID: "c1", PrestadorID: "p1", Puntuacion: 5}))

	err := ratings.Create(ctx, &entity.Calificacion{ID: "r2", TrabajoID: "t1", ContratanteID: "c1", PrestadorID: "p1", Puntuacion: 1})
	assert.True(t, apperrors.Is(err, apperrors.CodeConflict))

	require.NoError(t, ratings.Create(ctx, &entity.Calificacion{ID: "r3", TrabajoID: "t2", ContratanteID: "c1", PrestadorID: "p1", Puntuacion: 3}))

	items, total, err := ratings.ListByPrestadorID(ctx, "p1", 0, 0)
	require.NoError(t, err)
	assert.EqualValues(t, 2, total)
	assert.Len(t, items, 2)

	_, err = ratings.GetByID(ctx, "r2")
	assert.True(t, apperrors.Is(err, apperrors.CodeNotFound))
}

func TestStoreErrorMapping(t *testing.T) {
	assert.NoError(t, storeError("x", nil))

	passthrough := apperrors.Conflict("taken")
	assert.Same(t, passthrough, storeError("x", passthrough))

	assert.True(t, apperrors.Is(storeError("x", docstore.ErrNotInitialized), apperrors.CodeNotInitialized))
	assert.True(t, apperrors.Is(storeError("x", &docstore.IOError{Op: "write", Collection: "c", Err: os.ErrPermission}), apperrors.CodeIO))
	assert.True(t, apperrors.Is(storeError("x", docstore.ErrDuplicateKey), apperrors.CodeInternal))
}
