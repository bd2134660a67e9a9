package repository

import (
	"context"
	"errors"
	"fmt"

	"laburo/internal/domain/entity"
	"laburo/internal/infrastructure/docstore"
	apperrors "laburo/pkg/errors"
	"laburo/pkg/utils"
)

const (
	CollectionUsuarios       = "usuarios"
	CollectionTrabajos       = "trabajos"
	CollectionSaldos         = "saldos"
	CollectionCargas         = "cargas"
	CollectionCalificaciones = "calificaciones"
)

// Registry holds the five entity collections of the marketplace. Everything
// outside this package reaches them through the repositories below.
type Registry struct {
	store *docstore.Store

	Usuarios       *docstore.Collection[entity.Usuario]
	Trabajos       *docstore.Collection[entity.Trabajo]
	Saldos         *docstore.Collection[entity.Saldo]
	Cargas         *docstore.Collection[entity.Carga]
	Calificaciones *docstore.Collection[entity.Calificacion]
}

func NewRegistry(store *docstore.Store) *Registry {
	return &Registry{
		store:          store,
		Usuarios:       docstore.Register(store, CollectionUsuarios, func(u *entity.Usuario) string { return u.ID }),
		Trabajos:       docstore.Register(store, CollectionTrabajos, func(t *entity.Trabajo) string { return t.ID }),
		Saldos:         docstore.Register(store, CollectionSaldos, func(s *entity.Saldo) string { return s.PrestadorID }),
		Cargas:         docstore.Register(store, CollectionCargas, func(c *entity.Carga) string { return c.ID }),
		Calificaciones: docstore.Register(store, CollectionCalificaciones, func(c *entity.Calificacion) string { return c.ID }),
	}
}

// Init loads every collection. Safe to call any number of times.
func (r *Registry) Init(ctx context.Context) error {
	if err := r.store.Init(ctx); err != nil {
		return storeError("initialize collections", err)
	}
	return nil
}

// Reset drops the in-memory collections; the next Init reloads them.
func (r *Registry) Reset() {
	r.store.Reset()
}

// storeError maps docstore failures onto the application error taxonomy.
// Errors that already are AppErrors (returned by update callbacks) pass
// through untouched.
func storeError(action string, err error) error {
	if err == nil {
		return nil
	}

	var appErr *apperrors.AppError
	if errors.As(err, &appErr) {
		return err
	}
	if errors.Is(err, docstore.ErrNotInitialized) {
		return apperrors.NotInitialized("Storage is not initialized", err)
	}

	var ioErr *docstore.IOError
	if errors.As(err, &ioErr) {
		return apperrors.IO(fmt.Sprintf("Failed to %s", action), err)
	}
	return apperrors.Internal(fmt.Sprintf("Failed to %s", action), err)
}

func page[T any](items []T, limit, offset int) ([]*T, int64) {
	start, end := utils.Window(len(items), offset, limit)
	out := make([]*T, 0, end-start)
	for i := start; i < end; i++ {
		out = append(out, &items[i])
	}
	return out, int64(len(items))
}
