package usecase

import (
	"context"
	"strings"
	"time"

	"github.com/google/uuid"

	"laburo/internal/domain/entity"
	"laburo/internal/domain/repository"
	"laburo/pkg/errors"
	"laburo/pkg/utils"
)

type RatingUseCase struct {
	calificacionRepo repository.CalificacionRepository
	trabajoRepo      repository.TrabajoRepository
}

func NewRatingUseCase(calificacionRepo repository.CalificacionRepository, trabajoRepo repository.TrabajoRepository) *RatingUseCase {
	return &RatingUseCase{
		calificacionRepo: calificacionRepo,
		trabajoRepo:      trabajoRepo,
	}
}

type RateInput struct {
	TrabajoID     string
	ContratanteID string
	PrestadorID   string
	Puntuacion    int
	Comentario    string
}

type ProviderRatingSummary struct {
	PrestadorID string   `json:"prestadorId"`
	Promedio    *float64 `json:"promedio"`
	Total       int64    `json:"total"`
}

func (uc *RatingUseCase) Rate(ctx context.Context, input RateInput) (*entity.Calificacion, error) {
	trabajo, err := uc.trabajoRepo.GetByID(ctx, input.TrabajoID)
	if err != nil {
		return nil, err
	}

	if trabajo.Estado != entity.EstadoFinalizado {
		return nil, errors.Conflict("Only finalized jobs can be rated")
	}
	if trabajo.ContratanteID != input.ContratanteID {
		return nil, errors.Validation("Contractor does not own this job")
	}
	if trabajo.PrestadorID != input.PrestadorID {
		return nil, errors.Validation("Provider was not assigned to this job")
	}
	if input.Puntuacion < entity.PuntuacionMinima || input.Puntuacion > entity.PuntuacionMaxima {
		return nil, errors.Validation("Score must be between 1 and 5")
	}

	calificacion := &entity.Calificacion{
		ID:            uuid.New().String(),
		TrabajoID:     input.TrabajoID,
		ContratanteID: input.ContratanteID,
		PrestadorID:   input.PrestadorID,
		Puntuacion:    input.Puntuacion,
		Comentario:    strings.TrimSpace(input.Comentario),
		Fecha:         time.Now(),
	}

	// the repository rejects a second rating for the same job and contractor
	if err := uc.calificacionRepo.Create(ctx, calificacion); err != nil {
		return nil, err
	}

	return calificacion, nil
}

// AverageFor returns the mean score of the provider's ratings. ok is false
// when the provider has none.
func (uc *RatingUseCase) AverageFor(ctx context.Context, providerID string) (avg float64, ok bool, err error) {
	ratings, total, err := uc.calificacionRepo.ListByPrestadorID(ctx, providerID, 0, 0)
	if err != nil {
		return 0, false, err
	}
	if total == 0 {
		return 0, false, nil
	}
	return mean(ratings), true, nil
}

func (uc *RatingUseCase) GetProviderSummary(ctx context.Context, providerID string) (*ProviderRatingSummary, error) {
	ratings, total, err := uc.calificacionRepo.ListByPrestadorID(ctx, providerID, 0, 0)
	if err != nil {
		return nil, err
	}

	summary := &ProviderRatingSummary{
		PrestadorID: providerID,
		Total:       total,
	}
	if total > 0 {
		avg := mean(ratings)
		summary.Promedio = &avg
	}
	return summary, nil
}

func (uc *RatingUseCase) ListForProvider(ctx context.Context, providerID string, pagination utils.PaginationParams) ([]*entity.Calificacion, int64, error) {
	return uc.calificacionRepo.ListByPrestadorID(ctx, providerID, pagination.PageSize, pagination.Offset)
}

func mean(ratings []*entity.Calificacion) float64 {
	sum := 0
	for _, r := range ratings {
		sum += r.Puntuacion
	}
	return float64(sum) / float64(len(ratings))
}
