package repository

import (
	"context"

	"laburo/internal/domain/entity"
)

type CalificacionRepository interface {
	// Create fails with a conflict when the same contractor already rated
	// the same job.
	Create(ctx context.Context, calificacion *entity.Calificacion) error
	GetByID(ctx context.Context, id string) (*entity.Calificacion, error)
	ListByPrestadorID(ctx context.Context, prestadorID string, limit, offset int) ([]*entity.Calificacion, int64, error)
}
