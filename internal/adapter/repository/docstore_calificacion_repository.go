package repository

import (
	"context"

	"laburo/internal/domain/entity"
	"laburo/internal/domain/repository"
	"laburo/internal/infrastructure/docstore"
	"laburo/pkg/errors"
)

type docstoreCalificacionRepository struct {
	calificaciones *docstore.Collection[entity.Calificacion]
}

func NewDocstoreCalificacionRepository(registry *Registry) repository.CalificacionRepository {
	return &docstoreCalificacionRepository{
		calificaciones: registry.Calificaciones,
	}
}

func (r *docstoreCalificacionRepository) Create(ctx context.Context, calificacion *entity.Calificacion) error {
	err := r.calificaciones.Mutate(ctx, func(tx *docstore.Tx[entity.Calificacion]) error {
		_, rated := tx.First(func(c *entity.Calificacion) bool {
			return c.TrabajoID == calificacion.TrabajoID && c.ContratanteID == calificacion.ContratanteID
		})
		if rated {
			return errors.Conflict("Job already rated")
		}
		return tx.Insert(*calificacion)
	})
	return storeError("create rating", err)
}

func (r *docstoreCalificacionRepository) GetByID(ctx context.Context, id string) (*entity.Calificacion, error) {
	calificacion, found, err := r.calificaciones.Get(ctx, id)
	if err != nil {
		return nil, storeError("get rating", err)
	}
	if !found {
		return nil, errors.NotFound("Rating", nil)
	}
	return &calificacion, nil
}

func (r *docstoreCalificacionRepository) ListByPrestadorID(ctx context.Context, prestadorID string, limit, offset int) ([]*entity.Calificacion, int64, error) {
	calificaciones, err := r.calificaciones.Filter(ctx, func(c *entity.Calificacion) bool {
		return c.PrestadorID == prestadorID
	})
	if err != nil {
		return nil, 0, storeError("list ratings", err)
	}
	items, total := page(calificaciones, limit, offset)
	return items, total, nil
}
