package usecase

import (
	"context"
	"strings"
	"time"

	"github.com/google/uuid"

	"laburo/internal/domain/entity"
	"laburo/internal/domain/repository"
	"laburo/pkg/errors"
	"laburo/pkg/logger"
	"laburo/pkg/utils"
)

type JobUseCase struct {
	trabajoRepo repository.TrabajoRepository
	userRepo    repository.UsuarioRepository
}

func NewJobUseCase(trabajoRepo repository.TrabajoRepository, userRepo repository.UsuarioRepository) *JobUseCase {
	return &JobUseCase{
		trabajoRepo: trabajoRepo,
		userRepo:    userRepo,
	}
}

type PostJobInput struct {
	Titulo           string
	Categoria        string
	Descripcion      string
	PrecioOfrecido   float64
	UbicacionTexto   string
	Latitud          *float64
	Longitud         *float64
	FechaHoraDeseada time.Time
	Fotos            []string
}

type ListJobsInput struct {
	Estado        entity.EstadoTrabajo
	Categoria     string
	ContratanteID string
	PrestadorID   string
}

func (in PostJobInput) validate() error {
	switch {
	case strings.TrimSpace(in.Titulo) == "":
		return errors.Validation("Title is required")
	case strings.TrimSpace(in.Categoria) == "":
		return errors.Validation("Category is required")
	case strings.TrimSpace(in.Descripcion) == "":
		return errors.Validation("Description is required")
	case strings.TrimSpace(in.UbicacionTexto) == "":
		return errors.Validation("Location is required")
	case in.FechaHoraDeseada.IsZero():
		return errors.Validation("Desired date is required")
	case in.PrecioOfrecido <= 0:
		return errors.Validation("Price must be greater than 0")
	case in.Latitud != nil && (*in.Latitud < -90 || *in.Latitud > 90):
		return errors.Validation("Latitude must be between -90 and 90")
	case in.Longitud != nil && (*in.Longitud < -180 || *in.Longitud > 180):
		return errors.Validation("Longitude must be between -180 and 180")
	}
	return nil
}

func (uc *JobUseCase) Post(ctx context.Context, contractorID string, input PostJobInput) (*entity.Trabajo, error) {
	if err := input.validate(); err != nil {
		return nil, err
	}

	contractor, err := uc.userRepo.GetByID(ctx, contractorID)
	if err != nil {
		return nil, err
	}
	if !contractor.Rol.CanContract() {
		return nil, errors.Forbidden("Only contractors can post jobs", nil)
	}

	trabajo := &entity.Trabajo{
		ID:               uuid.New().String(),
		ContratanteID:    contractorID,
		Titulo:           strings.TrimSpace(input.Titulo),
		Categoria:        strings.TrimSpace(input.Categoria),
		Descripcion:      strings.TrimSpace(input.Descripcion),
		PrecioOfrecido:   input.PrecioOfrecido,
		UbicacionTexto:   strings.TrimSpace(input.UbicacionTexto),
		Latitud:          input.Latitud,
		Longitud:         input.Longitud,
		FechaHoraDeseada: input.FechaHoraDeseada,
		Fotos:            input.Fotos,
		Estado:           entity.EstadoPublicado,
		FechaCreacion:    time.Now(),
	}

	if err := uc.trabajoRepo.Create(ctx, trabajo); err != nil {
		return nil, err
	}

	logger.Info("Job posted: id=%s, contractor=%s", trabajo.ID, contractorID)
	return trabajo, nil
}

// Accept assigns the job to providerID. The state check and the assignment
// happen under the jobs lock, so of several concurrent accepts exactly one
// wins and the others see en_proceso and fail with a conflict.
func (uc *JobUseCase) Accept(ctx context.Context, jobID, providerID string) (*entity.Trabajo, error) {
	provider, err := uc.userRepo.GetByID(ctx, providerID)
	if err != nil {
		return nil, err
	}
	if !provider.Rol.CanProvide() {
		return nil, errors.Forbidden("Only providers can accept jobs", nil)
	}

	trabajo, err := uc.trabajoRepo.Update(ctx, jobID, func(t *entity.Trabajo) error {
		if t.ContratanteID == providerID {
			return errors.Forbidden("Cannot accept your own job", nil)
		}
		if t.Estado != entity.EstadoPublicado || t.PrestadorID != "" {
			return errors.Conflict("Job is no longer available")
		}

		now := time.Now()
		t.Estado = entity.EstadoEnProceso
		t.PrestadorID = providerID
		t.FechaAceptacion = &now
		return nil
	})
	if err != nil {
		return nil, err
	}

	logger.Info("Job accepted: id=%s, provider=%s", jobID, providerID)
	return trabajo, nil
}

func (uc *JobUseCase) MarkCompleted(ctx context.Context, jobID, providerID string) (*entity.Trabajo, error) {
	return uc.trabajoRepo.Update(ctx, jobID, func(t *entity.Trabajo) error {
		if t.Estado != entity.EstadoEnProceso {
			return errors.Conflict("Job is not in progress")
		}
		if t.PrestadorID != providerID {
			return errors.Forbidden("Only the assigned provider can complete this job", nil)
		}

		now := time.Now()
		t.Estado = entity.EstadoCompletadoPendienteConfirmacion
		t.FechaCompletado = &now
		return nil
	})
}

// ConfirmCompletion finalizes the job. No balance is settled here; ratings
// become possible from this point on.
func (uc *JobUseCase) ConfirmCompletion(ctx context.Context, jobID, contractorID string) (*entity.Trabajo, error) {
	return uc.trabajoRepo.Update(ctx, jobID, func(t *entity.Trabajo) error {
		if t.Estado != entity.EstadoCompletadoPendienteConfirmacion {
			return errors.Conflict("Job is not awaiting confirmation")
		}
		if t.ContratanteID != contractorID {
			return errors.Forbidden("Only the job owner can confirm completion", nil)
		}

		now := time.Now()
		t.Estado = entity.EstadoFinalizado
		t.FechaFinalizacion = &now
		return nil
	})
}

func (uc *JobUseCase) Cancel(ctx context.Context, jobID, actorID string) (*entity.Trabajo, error) {
	actor, err := uc.userRepo.GetByID(ctx, actorID)
	if err != nil {
		return nil, err
	}

	trabajo, err := uc.trabajoRepo.Update(ctx, jobID, func(t *entity.Trabajo) error {
		if t.Estado.IsTerminal() {
			return errors.Conflict("Job is already closed")
		}
		if !t.Estado.CanTransitionTo(entity.EstadoCancelado) {
			return errors.Conflict("Job can no longer be cancelled")
		}
		if t.ContratanteID != actorID && t.PrestadorID != actorID && actor.Rol != entity.RolAdmin {
			return errors.Forbidden("Not allowed to cancel this job", nil)
		}

		now := time.Now()
		t.Estado = entity.EstadoCancelado
		t.FechaCancelacion = &now
		t.CanceladoPor = actorID
		return nil
	})
	if err != nil {
		return nil, err
	}

	logger.Info("Job cancelled: id=%s, by=%s", jobID, actorID)
	return trabajo, nil
}

func (uc *JobUseCase) GetJob(ctx context.Context, jobID string) (*entity.Trabajo, error) {
	return uc.trabajoRepo.GetByID(ctx, jobID)
}

func (uc *JobUseCase) ListJobs(ctx context.Context, input ListJobsInput, pagination utils.PaginationParams) ([]*entity.Trabajo, int64, error) {
	if input.Estado != "" && !input.Estado.Valid() {
		return nil, 0, errors.Validation("Invalid job state")
	}

	filter := repository.TrabajoFilter{
		Estado:        input.Estado,
		Categoria:     input.Categoria,
		ContratanteID: input.ContratanteID,
		PrestadorID:   input.PrestadorID,
	}
	logger.Debug("Listing jobs: filter=%+v, page=%d, size=%d", filter, pagination.Page, pagination.PageSize)
	return uc.trabajoRepo.List(ctx, filter, pagination.PageSize, pagination.Offset)
}
