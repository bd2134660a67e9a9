package handler

import (
	"context"
	"time"

	"github.com/labstack/echo/v4"

	"laburo/internal/domain/entity"
	"laburo/internal/usecase"
	"laburo/pkg/response"
	"laburo/pkg/utils"
)

type JobHandler struct {
	jobUseCase *usecase.JobUseCase
}

func NewJobHandler(jobUseCase *usecase.JobUseCase) *JobHandler {
	return &JobHandler{
		jobUseCase: jobUseCase,
	}
}

type postJobRequest struct {
	Titulo           string    `json:"titulo" validate:"required,max=120"`
	Categoria        string    `json:"categoria" validate:"required"`
	Descripcion      string    `json:"descripcion" validate:"required,max=2000"`
	PrecioOfrecido   float64   `json:"precioOfrecido" validate:"required,gt=0"`
	UbicacionTexto   string    `json:"ubicacionTexto" validate:"required"`
	Latitud          *float64  `json:"latitud" validate:"omitempty,latitude"`
	Longitud         *float64  `json:"longitud" validate:"omitempty,longitude"`
	FechaHoraDeseada time.Time `json:"fechaHoraDeseada" validate:"required"`
	Fotos            []string  `json:"fotos" validate:"omitempty,max=10,dive,url"`
}

func (h *JobHandler) PostJob(c echo.Context) error {
	var req postJobRequest
	if err := c.Bind(&req); err != nil {
		return response.Error(c, err)
	}
	if err := c.Validate(&req); err != nil {
		return response.Error(c, err)
	}

	uid, err := getUserID(c)
	if err != nil {
		return response.Error(c, err)
	}

	trabajo, err := h.jobUseCase.Post(c.Request().Context(), uid, usecase.PostJobInput{
		Titulo:           req.Titulo,
		Categoria:        req.Categoria,
		Descripcion:      req.Descripcion,
		PrecioOfrecido:   req.PrecioOfrecido,
		UbicacionTexto:   req.UbicacionTexto,
		Latitud:          req.Latitud,
		Longitud:         req.Longitud,
		FechaHoraDeseada: req.FechaHoraDeseada,
		Fotos:            req.Fotos,
	})
	if err != nil {
		return response.Error(c, err)
	}

	return response.Created(c, trabajo)
}

func (h *JobHandler) GetJob(c echo.Context) error {
	trabajo, err := h.jobUseCase.GetJob(c.Request().Context(), c.Param("id"))
	if err != nil {
		return response.Error(c, err)
	}
	return response.Success(c, trabajo)
}

func (h *JobHandler) ListJobs(c echo.Context) error {
	pagination := utils.GetPaginationParams(c)

	input := usecase.ListJobsInput{
		Estado:        entity.EstadoTrabajo(c.QueryParam("estado")),
		Categoria:     c.QueryParam("categoria"),
		ContratanteID: c.QueryParam("contratanteId"),
		PrestadorID:   c.QueryParam("prestadorId"),
	}

	trabajos, total, err := h.jobUseCase.ListJobs(c.Request().Context(), input, pagination)
	if err != nil {
		return response.Error(c, err)
	}

	return response.Paginated(c, trabajos, total, pagination.Page, pagination.PageSize)
}

func (h *JobHandler) AcceptJob(c echo.Context) error {
	return h.transition(c, h.jobUseCase.Accept)
}

func (h *JobHandler) CompleteJob(c echo.Context) error {
	return h.transition(c, h.jobUseCase.MarkCompleted)
}

func (h *JobHandler) ConfirmJob(c echo.Context) error {
	return h.transition(c, h.jobUseCase.ConfirmCompletion)
}

func (h *JobHandler) CancelJob(c echo.Context) error {
	return h.transition(c, h.jobUseCase.Cancel)
}

// transition runs a lifecycle operation for the job in the path on behalf of
// the authenticated caller.
func (h *JobHandler) transition(c echo.Context, op func(ctx context.Context, jobID, actorID string) (*entity.Trabajo, error)) error {
	uid, err := getUserID(c)
	if err != nil {
		return response.Error(c, err)
	}

	trabajo, err := op(c.Request().Context(), c.Param("id"), uid)
	if err != nil {
		return response.Error(c, err)
	}

	return response.Success(c, trabajo)
}
