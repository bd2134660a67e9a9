package handler

import (
	"github.com/labstack/echo/v4"

	"laburo/internal/usecase"
	"laburo/pkg/response"
	"laburo/pkg/utils"
)

type RatingHandler struct {
	ratingUseCase *usecase.RatingUseCase
}

func NewRatingHandler(ratingUseCase *usecase.RatingUseCase) *RatingHandler {
	return &RatingHandler{
		ratingUseCase: ratingUseCase,
	}
}

type rateJobRequest struct {
	PrestadorID string `json:"prestadorId" validate:"required"`
	Puntuacion  int    `json:"puntuacion" validate:"required,min=1,max=5"`
	Comentario  string `json:"comentario" validate:"omitempty,max=1000"`
}

type providerRatingsResponse struct {
	Summary *usecase.ProviderRatingSummary `json:"summary"`
	Ratings response.PaginatedResponse     `json:"ratings"`
}

func (h *RatingHandler) RateJob(c echo.Context) error {
	var req rateJobRequest
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

	calificacion, err := h.ratingUseCase.Rate(c.Request().Context(), usecase.RateInput{
		TrabajoID:     c.Param("id"),
		ContratanteID: uid,
		PrestadorID:   req.PrestadorID,
		Puntuacion:    req.Puntuacion,
		Comentario:    req.Comentario,
	})
	if err != nil {
		return response.Error(c, err)
	}

	return response.Created(c, calificacion)
}

func (h *RatingHandler) GetProviderRatings(c echo.Context) error {
	ctx := c.Request().Context()
	providerID := c.Param("id")
	pagination := utils.GetPaginationParams(c)

	summary, err := h.ratingUseCase.GetProviderSummary(ctx, providerID)
	if err != nil {
		return response.Error(c, err)
	}

	ratings, total, err := h.ratingUseCase.ListForProvider(ctx, providerID, pagination)
	if err != nil {
		return response.Error(c, err)
	}

	return response.Success(c, providerRatingsResponse{
		Summary: summary,
		Ratings: response.NewPaginatedResponse(ratings, total, pagination.Page, pagination.PageSize),
	})
}
