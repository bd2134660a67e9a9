package repository

import (
	"context"

	"laburo/internal/domain/entity"
	"laburo/internal/domain/repository"
	"laburo/internal/infrastructure/docstore"
	"laburo/pkg/errors"
)

type docstoreTrabajoRepository struct {
	trabajos *docstore.Collection[entity.Trabajo]
}

func NewDocstoreTrabajoRepository(registry *Registry) repository.TrabajoRepository {
	return &docstoreTrabajoRepository{
		trabajos: registry.Trabajos,
	}
}

func (r *docstoreTrabajoRepository) Create(ctx context.Context, trabajo *entity.Trabajo) error {
	err := r.trabajos.Mutate(ctx, func(tx *docstore.Tx[entity.Trabajo]) error {
		if _, exists := tx.Get(trabajo.ID); exists {
			return errors.Conflict("Job already exists")
		}
		return tx.Insert(*trabajo)
	})
	return storeError("create job", err)
}

func (r *docstoreTrabajoRepository) GetByID(ctx context.Context, id string) (*entity.Trabajo, error) {
	trabajo, found, err := r.trabajos.Get(ctx, id)
	if err != nil {
		return nil, storeError("get job", err)
	}
	if !found {
		return nil, errors.NotFound("Job", nil)
	}
	return &trabajo, nil
}

func (r *docstoreTrabajoRepository) Update(ctx context.Context, id string, fn func(*entity.Trabajo) error) (*entity.Trabajo, error) {
	var updated entity.Trabajo
	err := r.trabajos.Mutate(ctx, func(tx *docstore.Tx[entity.Trabajo]) error {
		trabajo, found := tx.Get(id)
		if !found {
			return errors.NotFound("Job", nil)
		}
		if err := fn(&trabajo); err != nil {
			return err
		}
		trabajo.ID = id
		updated = trabajo
		return tx.Put(trabajo)
	})
	if err != nil {
		return nil, storeError("update job", err)
	}
	return &updated, nil
}

func (r *docstoreTrabajoRepository) List(ctx context.Context, filter repository.TrabajoFilter, limit, offset int) ([]*entity.Trabajo, int64, error) {
	trabajos, err := r.trabajos.Filter(ctx, func(t *entity.Trabajo) bool {
		if filter.Estado != "" && t.Estado != filter.Estado {
			return false
		}
		if filter.Categoria != "" && t.Categoria != filter.Categoria {
			return false
		}
		if filter.ContratanteID != "" && t.ContratanteID != filter.ContratanteID {
			return false
		}
		if filter.PrestadorID != "" && t.PrestadorID != filter.PrestadorID {
			return false
		}
		return true
	})
	if err != nil {
		return nil, 0, storeError("list jobs", err)
	}
	items, total := page(trabajos, limit, offset)
	return items, total, nil
}
