package repository

import (
	"context"

	"laburo/internal/domain/entity"
)

type TrabajoFilter struct {
	Estado        entity.EstadoTrabajo
	Categoria     string
	ContratanteID string
	PrestadorID   string
}

type TrabajoRepository interface {
	Create(ctx context.Context, trabajo *entity.Trabajo) error
	GetByID(ctx context.Context, id string) (*entity.Trabajo, error)
	// Update runs fn against the current stored job under the jobs lock, so
	// the state check and the transition are one step.
	Update(ctx context.Context, id string, fn func(*entity.Trabajo) error) (*entity.Trabajo, error)
	List(ctx context.Context, filter TrabajoFilter, limit, offset int) ([]*entity.Trabajo, int64, error)
}
